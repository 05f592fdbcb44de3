package resolver

import "container/heap"

// pairHeap is a max-heap of pairs ordered by score, with ties broken by
// ascending (lo, hi) so that a cluster_pass over a fixed cmap always drains
// in the same order regardless of insertion order (§9, tie-break resolution).
type pairHeap []pair

func (h pairHeap) Len() int { return len(h) }

func (h pairHeap) Less(i, j int) bool { return betterPair(h[i], h[j]) }

func (h pairHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *pairHeap) Push(x any) { *h = append(*h, x.(pair)) }

func (h *pairHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// newPairHeap builds a ready-to-use max-heap from an initial slice of pairs.
func newPairHeap(pairs []pair) *pairHeap {
	h := pairHeap(pairs)
	heap.Init(&h)
	return &h
}

func (h *pairHeap) push(p pair) { heap.Push(h, p) }

// popBest removes and returns the highest-scoring pair. ok is false when the
// heap is empty.
func (h *pairHeap) popBest() (p pair, ok bool) {
	if h.Len() == 0 {
		return pair{}, false
	}
	return heap.Pop(h).(pair), true
}
