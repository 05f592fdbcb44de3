package resolver

// pair is a candidate merge: two distinct cluster ids and the weightsum
// score computed for them at the time they were enqueued. lo is always the
// smaller of the two ids, which both gives pairs a canonical identity and
// anchors the heap's tie-break rule.
type pair struct {
	lo, hi int64
	score  float64
}

// newPair orders a and b so lo < hi. a and b must be distinct cluster ids;
// callers never enqueue a cluster against itself.
func newPair(a, b int64, score float64) pair {
	if a == b {
		invariantViolation("cannot pair cluster %d with itself", a)
	}
	if a < b {
		return pair{lo: a, hi: b, score: score}
	}
	return pair{lo: b, hi: a, score: score}
}

// stale reports whether either side of p is no longer present in cmap, i.e.
// one of its clusters has already been merged away. The resolver loops in
// this package build a fresh heap each round and do not call it.
func (p pair) stale(cmap map[int64]*Cluster) bool {
	_, loOK := cmap[p.lo]
	_, hiOK := cmap[p.hi]
	return !loOK || !hiOK
}

// betterPair reports whether p has strictly higher merge priority than q:
// higher score first, then ascending (lo, hi) among ties (§9 tie-break
// resolution). It is the heap's Less, so clusterPass and clusterStream,
// which both pop from a pairHeap, pick winners by the same rule.
func betterPair(p, q pair) bool {
	if p.score != q.score {
		return p.score > q.score
	}
	if p.lo != q.lo {
		return p.lo < q.lo
	}
	return p.hi < q.hi
}
