// Package metrics provides lightweight atomic counters for observing a
// resolver's activity, implementing the root package's ResolverMetrics
// hook.
package metrics

import "sync/atomic"

// Counters is a concurrency-safe ResolverMetrics implementation that tracks
// reference ingestion, cluster merges, and resolve passes.
type Counters struct {
	referencesAdded atomic.Int64
	clustersMerged  atomic.Int64
	resolvePasses   atomic.Int64
}

// ReferenceAdded records one reference having been enqueued.
func (c *Counters) ReferenceAdded() { c.referencesAdded.Add(1) }

// ClusterMerged records one greedy merge step having taken place.
func (c *Counters) ClusterMerged() { c.clustersMerged.Add(1) }

// ResolvePass records one cluster_stream invocation having completed.
func (c *Counters) ResolvePass() { c.resolvePasses.Add(1) }

// Snapshot is a point-in-time, read-only view of Counters suitable for
// logging or reporting.
type Snapshot struct {
	ReferencesAdded int64 `json:"references_added"`
	ClustersMerged  int64 `json:"clusters_merged"`
	ResolvePasses   int64 `json:"resolve_passes"`
}

// Snapshot returns the current counter values. A nil receiver yields the
// zero Snapshot.
func (c *Counters) Snapshot() Snapshot {
	if c == nil {
		return Snapshot{}
	}
	return Snapshot{
		ReferencesAdded: c.referencesAdded.Load(),
		ClustersMerged:  c.clustersMerged.Load(),
		ResolvePasses:   c.resolvePasses.Load(),
	}
}
