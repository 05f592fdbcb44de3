package resolver

import (
	"context"
	"log"
	"sync"

	"github.com/erlab/resolver/pkg/concurrent"
)

const defaultMergeUnitSize = 500

// MergeResolver resolves a fixed batch of references by partitioning them
// into chunks, resolving each chunk independently, and combining the
// resulting clusters with a pyramidal merge (§4.5). It is one-shot: Add is a
// documented no-op, matching the batch-oriented source this resolver is
// modelled on — incremental ingestion belongs to SerialResolver.
type MergeResolver struct {
	mu            sync.Mutex
	mergeUnitSize int
	concurrency   int
	pool          *concurrent.WorkerPool
	acc           *SerialResolver
	logger        *log.Logger
}

// MergeResolverOption configures a MergeResolver at construction time.
type MergeResolverOption func(*MergeResolver)

// WithMergeUnitSize sets the maximum chunk size partitions are split into.
// size <= 0 resets to the default of 500.
func WithMergeUnitSize(size int) MergeResolverOption {
	return func(m *MergeResolver) {
		if size <= 0 {
			size = defaultMergeUnitSize
		}
		m.mergeUnitSize = size
	}
}

// WithConcurrency bounds how many chunk resolves and pyramidal merge pairs
// run simultaneously. n <= 0 resets to the default of 10.
func WithConcurrency(n int) MergeResolverOption {
	return func(m *MergeResolver) {
		if n <= 0 {
			n = 10
		}
		m.concurrency = n
		m.pool = concurrent.NewWorkerPool(n)
	}
}

// WithMergeResolverLogger overrides the resolver's logger.
func WithMergeResolverLogger(l *log.Logger) MergeResolverOption {
	return func(m *MergeResolver) { m.logger = l }
}

// WithMergeResolverMetrics attaches an observation hook to the resolver's
// internal accumulator.
func WithMergeResolverMetrics(metrics ResolverMetrics) MergeResolverOption {
	return func(m *MergeResolver) { m.acc = NewSerialResolver(WithMetrics(metrics)) }
}

// NewMergeResolver returns an empty MergeResolver ready to Resolve batches.
func NewMergeResolver(opts ...MergeResolverOption) *MergeResolver {
	m := &MergeResolver{
		mergeUnitSize: defaultMergeUnitSize,
		concurrency:   10,
		logger:        log.Default(),
		acc:           NewSerialResolver(),
	}
	m.pool = concurrent.NewWorkerPool(m.concurrency)
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Add is a documented no-op: MergeResolver is batch-oriented and takes its
// input through Resolve. Streaming additions belong to SerialResolver.
func (m *MergeResolver) Add(_ ...*Reference) {}

// Resolve partitions refs into chunks of at most mergeUnitSize, resolves
// each chunk to completion concurrently, combines the results via a
// pyramidal merge, and folds the outcome into this resolver's accumulated
// cluster set.
func (m *MergeResolver) Resolve(ctx context.Context, refs []*Reference) error {
	if len(refs) == 0 {
		return nil
	}
	m.acc.noteReferencesAdded(len(refs))
	chunks := partitionReferences(refs, m.mergeUnitSize)

	bundles, err := concurrent.ParallelMap(ctx, chunks, func(chunk []*Reference) ([]*Cluster, error) {
		chunkResolver := NewSerialResolver()
		chunkResolver.Add(chunk...)
		if err := chunkResolver.Resolve(ctx); err != nil {
			return nil, err
		}
		return chunkResolver.GetClusters(), nil
	}, m.concurrency)
	if err != nil {
		return err
	}

	merged, err := m.pyramidalMerge(ctx, bundles)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	return m.acc.resolveClusters(ctx, merged...)
}

// pyramidalMerge repeatedly pairs up bundles of clusters and merges each
// pair through a fresh SerialResolver accumulator, carrying an odd bundle
// out forward unmerged, until a single bundle remains (§4.5). Pairs within
// one level run concurrently through the resolver's worker pool.
func (m *MergeResolver) pyramidalMerge(ctx context.Context, bundles [][]*Cluster) ([]*Cluster, error) {
	for len(bundles) > 1 {
		pairCount := len(bundles) / 2
		next := make([][]*Cluster, pairCount, pairCount+1)

		var wg sync.WaitGroup
		errs := make(chan error, pairCount)
		for i := 0; i < pairCount; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				err := m.pool.Do(ctx, func() error {
					merged, err := mergeClusterBundles(ctx, bundles[2*i], bundles[2*i+1])
					if err != nil {
						return err
					}
					next[i] = merged
					return nil
				})
				if err != nil {
					errs <- err
				}
			}(i)
		}
		wg.Wait()
		close(errs)
		for err := range errs {
			if err != nil {
				return nil, err
			}
		}

		if len(bundles)%2 == 1 {
			next = append(next, bundles[len(bundles)-1])
		}
		bundles = next
	}
	if len(bundles) == 0 {
		return nil, nil
	}
	return bundles[0], nil
}

// mergeClusterBundles combines two bundles of clusters into one by seeding a
// fresh SerialResolver accumulator with a and resolving b's clusters into it
// via cluster_stream (the "add clusters" / "resolve clusters" internal
// operations of §4.5).
func mergeClusterBundles(ctx context.Context, a, b []*Cluster) ([]*Cluster, error) {
	acc := NewSerialResolver()
	acc.AddClusters(a...)
	if err := acc.resolveClusters(ctx, b...); err != nil {
		return nil, err
	}
	return acc.GetClusters(), nil
}

// partitionReferences splits refs into consecutive chunks of at most size
// elements each.
func partitionReferences(refs []*Reference, size int) [][]*Reference {
	if size <= 0 {
		size = defaultMergeUnitSize
	}
	var chunks [][]*Reference
	for len(refs) > 0 {
		n := size
		if n > len(refs) {
			n = len(refs)
		}
		chunks = append(chunks, refs[:n:n])
		refs = refs[n:]
	}
	return chunks
}

// GetClusters returns the resolver's current accumulated clusters in
// ascending OID order.
func (m *MergeResolver) GetClusters() []*Cluster {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.acc.GetClusters()
}

// GetClusterData returns the resolver's current accumulated clusters as
// plain data, suitable for serialisation.
func (m *MergeResolver) GetClusterData(includeMetadata bool) []ClusterData {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.acc.GetClusterData(includeMetadata)
}
