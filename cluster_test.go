package resolver

import "testing"

func singleRefSchema(t *testing.T) *Schema {
	t.Helper()
	s := NewSchema()
	s.Field("name", func(v any) (Field, error) { return NewValue(v.(string)) })
	s.BlockingKey(testNameBlock{})
	return s
}

type testNameBlock struct{}

func (testNameBlock) Name() string { return "name_exact" }
func (testNameBlock) Compute(ref *Reference) string {
	f, ok := ref.Field("name")
	if !ok || !f.Present() {
		return ""
	}
	s, _ := f.RawValue().(string)
	return s
}

func TestClusterWeightsumZeroWithoutCommonBlock(t *testing.T) {
	s := singleRefSchema(t)
	a := schemaRef(t, s, map[string]any{"name": "alice"}, nil)
	b := schemaRef(t, s, map[string]any{"name": "bob"}, nil)

	ca := NewCluster(a)
	cb := NewCluster(b)

	if ca.HasCommonBlock(cb) {
		t.Fatalf("distinct names should not share a block")
	}
	if w := ca.Weightsum(cb); w != 0 {
		t.Errorf("weightsum across disjoint blocks should be zero, got %v", w)
	}
}

func TestClusterWeightsumClampedAtZero(t *testing.T) {
	s := singleRefSchema(t)
	// p_nomatch > p_match on the comparing (self) side makes a true match
	// contribute negatively, exercising the zero clamp. fieldLogOdds uses the
	// self side's probabilities, so b's cluster is the one compared from.
	a := schemaRef(t, s, map[string]any{"name": "alice"}, nil)
	low, err := NewValue("alice", WithProbabilities[string](0.1, 0.9))
	if err != nil {
		t.Fatal(err)
	}
	bFields := map[string]Field{"name": low}
	b := NewReference(bFields, nil, testNameBlock{})

	ca, cb := NewCluster(b), NewCluster(a)
	if !ca.HasCommonBlock(cb) {
		t.Fatalf("same name should share a block")
	}
	if raw := ca.Compare(cb); raw >= 0 {
		t.Fatalf("expected a negative raw compare to set up the clamp test, got %v", raw)
	}
	if w := ca.Weightsum(cb); w != 0 {
		t.Errorf("weightsum should clamp negative compare to zero, got %v", w)
	}
}

func TestClusterMergeUnionsMembersUnderFreshID(t *testing.T) {
	s := singleRefSchema(t)
	a := schemaRef(t, s, map[string]any{"name": "alice"}, "meta-a")
	b := schemaRef(t, s, map[string]any{"name": "alice"}, "meta-b")

	ca, cb := NewCluster(a), NewCluster(b)
	merged := ca.Merge(cb)

	if merged.Size() != 2 {
		t.Fatalf("expected merged cluster to have 2 members, got %d", merged.Size())
	}
	if merged.OID() == ca.OID() || merged.OID() == cb.OID() {
		t.Errorf("merged cluster should receive a fresh id")
	}
	ids := map[int64]bool{}
	for _, r := range merged.References() {
		ids[r.OID()] = true
	}
	if !ids[a.OID()] || !ids[b.OID()] {
		t.Errorf("merged cluster should retain both original references")
	}
}
