package resolver

import (
	"context"
	"testing"
)

func TestMergeResolverMergesDuplicatesAcrossChunks(t *testing.T) {
	s := contactSchema(t)
	// Duplicates share both name and email: with the default 0.9/0.1
	// probabilities a name match plus an email mismatch sums to zero, which
	// is not a strictly positive weightsum and would not merge.
	refs := []*Reference{
		schemaRef(t, s, map[string]any{"name": "alice", "email": "a1@example.com"}, nil),
		schemaRef(t, s, map[string]any{"name": "alice", "email": "a1@example.com"}, nil),
		schemaRef(t, s, map[string]any{"name": "bob", "email": "b1@example.com"}, nil),
		schemaRef(t, s, map[string]any{"name": "carol", "email": "c1@example.com"}, nil),
		schemaRef(t, s, map[string]any{"name": "carol", "email": "c1@example.com"}, nil),
	}

	mr := NewMergeResolver(WithMergeUnitSize(2), WithConcurrency(2))
	if err := mr.Resolve(context.Background(), refs); err != nil {
		t.Fatalf("Resolve: unexpected error: %v", err)
	}

	clusters := mr.GetClusters()
	sizes := map[int]int{}
	for _, c := range clusters {
		sizes[c.Size()]++
	}
	// alice (2), bob (1), carol (2): two 2-member clusters, one 1-member.
	if sizes[2] != 2 || sizes[1] != 1 {
		t.Errorf("expected two 2-member clusters and one 1-member cluster, got sizes %v", sizes)
	}
}

func TestMergeResolverAddIsNoOp(t *testing.T) {
	s := contactSchema(t)
	ref := schemaRef(t, s, map[string]any{"name": "alice", "email": "a@example.com"}, nil)

	mr := NewMergeResolver()
	mr.Add(ref)
	if got := len(mr.GetClusters()); got != 0 {
		t.Errorf("Add should be a documented no-op, but GetClusters returned %d clusters", got)
	}
}

func TestMergeResolverEmptyInputIsNoOp(t *testing.T) {
	mr := NewMergeResolver()
	if err := mr.Resolve(context.Background(), nil); err != nil {
		t.Fatalf("Resolve with no references: unexpected error: %v", err)
	}
	if len(mr.GetClusters()) != 0 {
		t.Errorf("expected no clusters from an empty batch")
	}
}

type countingMetrics struct {
	referencesAdded int
	clustersMerged  int
	resolvePasses   int
}

func (m *countingMetrics) ReferenceAdded() { m.referencesAdded++ }
func (m *countingMetrics) ClusterMerged()  { m.clustersMerged++ }
func (m *countingMetrics) ResolvePass()    { m.resolvePasses++ }

func TestMergeResolverReportsReferenceAddedForWholeBatch(t *testing.T) {
	s := contactSchema(t)
	refs := []*Reference{
		schemaRef(t, s, map[string]any{"name": "alice", "email": "a@example.com"}, nil),
		schemaRef(t, s, map[string]any{"name": "bob", "email": "b@example.com"}, nil),
		schemaRef(t, s, map[string]any{"name": "carol", "email": "c@example.com"}, nil),
	}

	metrics := &countingMetrics{}
	mr := NewMergeResolver(WithMergeUnitSize(2), WithMergeResolverMetrics(metrics))
	if err := mr.Resolve(context.Background(), refs); err != nil {
		t.Fatalf("Resolve: unexpected error: %v", err)
	}

	if metrics.referencesAdded != len(refs) {
		t.Errorf("expected ReferenceAdded to be reported %d times for the batch, got %d", len(refs), metrics.referencesAdded)
	}
}

func TestMergeResolverOddChunkCountCarriesForward(t *testing.T) {
	s := contactSchema(t)
	refs := []*Reference{
		schemaRef(t, s, map[string]any{"name": "alice", "email": "a@example.com"}, nil),
		schemaRef(t, s, map[string]any{"name": "bob", "email": "b@example.com"}, nil),
		schemaRef(t, s, map[string]any{"name": "carol", "email": "c@example.com"}, nil),
	}
	// merge-unit-size 1 forces 3 chunks (an odd count), exercising the
	// pyramidal merge's "carry the odd one forward" branch.
	mr := NewMergeResolver(WithMergeUnitSize(1))
	if err := mr.Resolve(context.Background(), refs); err != nil {
		t.Fatalf("Resolve: unexpected error: %v", err)
	}
	if got := len(mr.GetClusters()); got != 3 {
		t.Errorf("expected 3 distinct clusters for 3 distinct names, got %d", got)
	}
}
