package resolver

import (
	"context"
	"log"
	"sort"
	"sync"
)

// clusterPass performs one greedy merge step over cmap: it computes
// weightsum for every unordered pair of clusters, keeps only strictly
// positive pairs, and merges the single highest-priority one (§4.4.1). It
// never reads or mutates anything but its argument.
//
// cmap is mutated in place and returned for convenience; optimal is true
// when no positive-weightsum pair remains, meaning cmap is left untouched.
func clusterPass(cmap map[int64]*Cluster) (map[int64]*Cluster, bool) {
	ids := make([]int64, 0, len(cmap))
	for id := range cmap {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	var candidates []pair
	for i := 0; i < len(ids); i++ {
		a := cmap[ids[i]]
		for j := i + 1; j < len(ids); j++ {
			b := cmap[ids[j]]
			w := a.Weightsum(b)
			if w <= 0 {
				continue
			}
			candidates = append(candidates, newPair(ids[i], ids[j], w))
		}
	}
	if len(candidates) == 0 {
		return cmap, true
	}

	h := newPairHeap(candidates)
	best, _ := h.popBest()

	lo, hi := cmap[best.lo], cmap[best.hi]
	merged := lo.Merge(hi)
	delete(cmap, best.lo)
	delete(cmap, best.hi)
	cmap[merged.OID()] = merged
	return cmap, false
}

// clusterSolve iterates clusterPass to a fixed point. It terminates because
// every non-optimal pass strictly decreases len(cmap) by one (§4.4.2).
// merges counts how many passes actually performed a merge.
func clusterSolve(cmap map[int64]*Cluster) (result map[int64]*Cluster, merges int) {
	for {
		next, optimal := clusterPass(cmap)
		cmap = next
		if optimal {
			return cmap, merges
		}
		merges++
	}
}

// clusterStream inserts newC into cmap and locally drives the system to a
// fixed point, restricting each round's candidate search to pairs touching
// the previous round's merge output (the "active" set) rather than
// rescanning every pair in cmap (§4.4.3). It is the only primitive in this
// file allowed to be called from resolver state — cluster_pass and
// cluster_solve stay pure functions of their cmap argument.
func clusterStream(newC *Cluster, cmap map[int64]*Cluster) (map[int64]*Cluster, int) {
	cmap[newC.OID()] = newC
	active := map[int64]struct{}{newC.OID(): {}}
	totalMerges := 0

	for {
		activeIDs := make([]int64, 0, len(active))
		for id := range active {
			activeIDs = append(activeIDs, id)
		}
		sort.Slice(activeIDs, func(i, j int) bool { return activeIDs[i] < activeIDs[j] })

		otherIDs := make([]int64, 0, len(cmap))
		for id := range cmap {
			otherIDs = append(otherIDs, id)
		}
		sort.Slice(otherIDs, func(i, j int) bool { return otherIDs[i] < otherIDs[j] })

		var candidates []pair
		for _, aID := range activeIDs {
			a, ok := cmap[aID]
			if !ok {
				continue
			}
			for _, cID := range otherIDs {
				if cID == aID {
					continue
				}
				c := cmap[cID]
				w := a.Weightsum(c)
				if w <= 0 {
					continue
				}
				candidates = append(candidates, newPair(aID, cID, w))
			}
		}

		active = map[int64]struct{}{}
		if len(candidates) == 0 {
			return cmap, totalMerges
		}

		h := newPairHeap(candidates)
		best, _ := h.popBest()

		local := map[int64]*Cluster{best.lo: cmap[best.lo], best.hi: cmap[best.hi]}
		solved, merges := clusterSolve(local)
		totalMerges += merges

		delete(cmap, best.lo)
		delete(cmap, best.hi)
		for id, c := range solved {
			cmap[id] = c
			active[id] = struct{}{}
		}
	}
}

// ResolverMetrics is an optional observation hook SerialResolver and
// MergeResolver report activity to. A nil hook is a valid no-op.
type ResolverMetrics interface {
	ReferenceAdded()
	ClusterMerged()
	ResolvePass()
}

// SerialResolver incrementally resolves references into clusters, one at a
// time, via cluster_stream. It is not safe for concurrent use by multiple
// goroutines without external synchronisation beyond what its own mutex
// provides for Add/Resolve interleaving.
type SerialResolver struct {
	mu         sync.Mutex
	pending    []*Reference
	clusterMap map[int64]*Cluster
	logger     *log.Logger
	metrics    ResolverMetrics
}

// SerialResolverOption configures a SerialResolver at construction time.
type SerialResolverOption func(*SerialResolver)

// WithLogger overrides the resolver's logger. Without this option the
// resolver logs to log.Default().
func WithLogger(l *log.Logger) SerialResolverOption {
	return func(r *SerialResolver) { r.logger = l }
}

// WithMetrics attaches an observation hook. Pass nil to disable (the
// default).
func WithMetrics(m ResolverMetrics) SerialResolverOption {
	return func(r *SerialResolver) { r.metrics = m }
}

// NewSerialResolver returns an empty SerialResolver ready to accept
// references.
func NewSerialResolver(opts ...SerialResolverOption) *SerialResolver {
	r := &SerialResolver{
		clusterMap: make(map[int64]*Cluster),
		logger:     log.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Add enqueues one or more references for the next Resolve call.
func (r *SerialResolver) Add(refs ...*Reference) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pending = append(r.pending, refs...)
	if r.metrics != nil {
		for range refs {
			r.metrics.ReferenceAdded()
		}
	}
}

// noteReferencesAdded records n references having been ingested without
// queuing them on the pending slice. MergeResolver uses this to report
// ReferenceAdded for the whole input batch it resolves in one shot, since
// its per-chunk SerialResolver instances are scoped to a single Resolve
// call and never see the accumulator's metrics hook.
func (r *SerialResolver) noteReferencesAdded(n int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.metrics != nil {
		for i := 0; i < n; i++ {
			r.metrics.ReferenceAdded()
		}
	}
}

// AddClusters seeds the resolver with existing clusters instead of raw
// references. MergeResolver's pyramidal merge uses this to enqueue one
// chunk resolver's output into another's accumulator (§4.5).
func (r *SerialResolver) AddClusters(clusters ...*Cluster) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range clusters {
		r.clusterMap[c.OID()] = c
	}
}

// resolveClusters applies cluster_stream to each of clusters in turn against
// the current cluster_map, without touching the pending reference queue.
// Used by MergeResolver's pyramidal merge (§4.5).
func (r *SerialResolver) resolveClusters(ctx context.Context, clusters ...*Cluster) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range clusters {
		if err := ctx.Err(); err != nil {
			return err
		}
		merges := 0
		r.clusterMap, merges = clusterStream(c, r.clusterMap)
		if r.metrics != nil {
			r.metrics.ResolvePass()
			for i := 0; i < merges; i++ {
				r.metrics.ClusterMerged()
			}
		}
	}
	return nil
}

// Resolve drains the pending queue, inserting each reference via
// cluster_stream, stopping early if ctx is cancelled. When verbose is true,
// progress is written through the resolver's logger; verbose output is not
// part of this method's contract and may change shape freely.
func (r *SerialResolver) Resolve(ctx context.Context, verbose ...bool) error {
	logVerbose := len(verbose) > 0 && verbose[0]
	r.mu.Lock()
	defer r.mu.Unlock()
	for len(r.pending) > 0 {
		if err := ctx.Err(); err != nil {
			return err
		}
		ref := r.pending[0]
		r.pending = r.pending[1:]
		merges := 0
		r.clusterMap, merges = clusterStream(NewCluster(ref), r.clusterMap)
		if logVerbose {
			r.logger.Printf("resolved reference %d into cluster_map of size %d (%d merges)", ref.OID(), len(r.clusterMap), merges)
		}
		if r.metrics != nil {
			r.metrics.ResolvePass()
			for i := 0; i < merges; i++ {
				r.metrics.ClusterMerged()
			}
		}
	}
	return nil
}

// GetClusters returns the current clusters in ascending OID order.
func (r *SerialResolver) GetClusters() []*Cluster {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*Cluster, 0, len(r.clusterMap))
	for _, c := range r.clusterMap {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].OID() < out[j].OID() })
	return out
}

// ClusterData is the structured, metadata-optional view GetClusterData
// returns per cluster.
type ClusterData struct {
	ClusterID int64 `json:"cluster_id"`
	Members   []ReferenceData
}

// ReferenceData is the structured view of one Reference within ClusterData.
type ReferenceData struct {
	ReferenceID int64          `json:"reference_id"`
	Metadata    any            `json:"metadata,omitempty"`
	Fields      map[string]any `json:"fields"`
}

// GetClusterData returns the current clusters as plain data, suitable for
// serialisation. When includeMetadata is false, ReferenceData.Metadata is
// left nil.
func (r *SerialResolver) GetClusterData(includeMetadata bool) []ClusterData {
	clusters := r.GetClusters()
	out := make([]ClusterData, 0, len(clusters))
	for _, c := range clusters {
		refs := c.References()
		members := make([]ReferenceData, 0, len(refs))
		for _, ref := range refs {
			rd := ReferenceData{ReferenceID: ref.OID(), Fields: map[string]any{}}
			if includeMetadata {
				rd.Metadata = ref.Metadata()
			}
			for _, name := range ref.FieldNames() {
				f, _ := ref.Field(name)
				rd.Fields[name] = f.RawValue()
			}
			members = append(members, rd)
		}
		out = append(out, ClusterData{ClusterID: c.OID(), Members: members})
	}
	return out
}
