package resolver

import "sync/atomic"

// idCounter mints process-wide unique ids shared by References and Clusters.
// It must be atomic: resolvers (and the schemas/references they consume) may
// be constructed concurrently from multiple goroutines even though a single
// SerialResolver instance is not itself safe for concurrent use.
var idCounter atomic.Int64

// nextID returns the next monotonically increasing id. Ids are opaque; no
// code should assume contiguity or any relationship between Reference and
// Cluster ids beyond "later calls return larger values."
func nextID() int64 {
	return idCounter.Add(1)
}
