package resolver

import "sort"

// Cluster is a set of References hypothesised to denote one real-world
// entity. It is immutable: Merge returns a new Cluster with a fresh id,
// leaving both inputs untouched (the resolver is responsible for discarding
// them from its cluster_map).
type Cluster struct {
	oid          int64
	refs         map[int64]*Reference
	blockingKeys map[string]map[string]struct{} // name -> set of values, union over members
}

// newCluster builds a Cluster from a non-empty slice of references. An empty
// slice is an internal invariant violation — every live cluster must have at
// least one member (§3) — and is never expected from well-formed callers.
func newCluster(refs []*Reference) *Cluster {
	if len(refs) == 0 {
		invariantViolation("cannot construct a cluster with zero references")
	}
	c := &Cluster{
		oid:          nextID(),
		refs:         make(map[int64]*Reference, len(refs)),
		blockingKeys: make(map[string]map[string]struct{}),
	}
	for _, r := range refs {
		c.refs[r.oid] = r
		for name, value := range r.blockingKeys {
			set, ok := c.blockingKeys[name]
			if !ok {
				set = make(map[string]struct{})
				c.blockingKeys[name] = set
			}
			set[value] = struct{}{}
		}
	}
	return c
}

// NewCluster is the exported singleton constructor: it wraps a single
// Reference as a one-member Cluster, the shape SerialResolver uses when
// ingesting a new Reference via cluster_stream.
func NewCluster(ref *Reference) *Cluster {
	return newCluster([]*Reference{ref})
}

// OID returns this cluster's unique id.
func (c *Cluster) OID() int64 { return c.oid }

// Size returns the number of member references.
func (c *Cluster) Size() int { return len(c.refs) }

// References returns the member references ordered by OID, for deterministic
// iteration in callers and tests.
func (c *Cluster) References() []*Reference {
	out := make([]*Reference, 0, len(c.refs))
	for _, r := range c.refs {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].oid < out[j].oid })
	return out
}

// HasCommonBlock reports whether c and other share at least one blocking-key
// name whose value sets intersect. Two clusters that do not share a block
// are never compared — weightsum and the unclamped compare both return zero
// immediately (§4.3).
func (c *Cluster) HasCommonBlock(other *Cluster) bool {
	if other == nil {
		return false
	}
	for name, values := range c.blockingKeys {
		otherValues, ok := other.blockingKeys[name]
		if !ok {
			continue
		}
		for v := range values {
			if _, ok := otherValues[v]; ok {
				return true
			}
		}
	}
	return false
}

// Compare returns the raw (unclamped, but still blocking-gated) sum of
// ref.Compare over the Cartesian product of c's and other's members. It is
// zero whenever HasCommonBlock is false.
func (c *Cluster) Compare(other *Cluster) float64 {
	if other == nil || !c.HasCommonBlock(other) {
		return 0
	}
	var total float64
	for _, a := range c.refs {
		for _, b := range other.refs {
			total += a.Compare(b)
		}
	}
	return total
}

// Weightsum is Compare clamped at zero: the non-negative, blocking-gated
// priority key the greedy merge loop uses. Clamping at zero is what makes
// the loop monotone — every merge the loop actually performs has strictly
// positive potential improvement (§4.3 design rationale).
func (c *Cluster) Weightsum(other *Cluster) float64 {
	w := c.Compare(other)
	if w < 0 {
		return 0
	}
	return w
}

// Merge returns a new Cluster holding the union of c's and other's
// references. c and other are left unmodified; the caller (the resolver) is
// responsible for removing them from its cluster_map.
func (c *Cluster) Merge(other *Cluster) *Cluster {
	merged := make([]*Reference, 0, len(c.refs)+len(other.refs))
	merged = append(merged, c.References()...)
	merged = append(merged, other.References()...)
	return newCluster(merged)
}
