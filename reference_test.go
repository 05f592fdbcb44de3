package resolver

import "testing"

func schemaRef(t *testing.T, s *Schema, values map[string]any, metadata any) *Reference {
	t.Helper()
	ref, err := s.New(values, metadata)
	if err != nil {
		t.Fatalf("schema.New: unexpected error: %v", err)
	}
	return ref
}

func textSchema(t *testing.T) *Schema {
	t.Helper()
	s := NewSchema()
	s.Field("name", func(v any) (Field, error) {
		return NewValue(v.(string))
	})
	s.Field("email", func(v any) (Field, error) {
		return NewValue(v.(string))
	})
	return s
}

func TestReferenceCompareSymmetricSameSchema(t *testing.T) {
	s := textSchema(t)
	a := schemaRef(t, s, map[string]any{"name": "alice", "email": "a@example.com"}, nil)
	b := schemaRef(t, s, map[string]any{"name": "alice", "email": "b@example.com"}, nil)

	ab := a.Compare(b)
	ba := b.Compare(a)
	if ab != ba {
		t.Errorf("Compare should be symmetric for references sharing a schema: a.Compare(b)=%v b.Compare(a)=%v", ab, ba)
	}
}

func TestReferenceCompareMissingFieldTreatedAbsent(t *testing.T) {
	s := textSchema(t)
	full := schemaRef(t, s, map[string]any{"name": "alice", "email": "a@example.com"}, nil)

	partialSchema := NewSchema()
	partialSchema.Field("name", func(v any) (Field, error) { return NewValue(v.(string)) })
	partial := schemaRef(t, partialSchema, map[string]any{"name": "alice"}, nil)

	got := full.Compare(partial)
	nameOnly := NewSchemaForTestOnlyName(t)
	onlyName := schemaRef(t, nameOnly, map[string]any{"name": "alice"}, nil)
	want := onlyName.Compare(partial)
	if got != want {
		t.Errorf("missing field on other side should contribute zero: got %v want %v", got, want)
	}
}

// NewSchemaForTestOnlyName returns a schema with only the "name" field,
// used to build an expected-value reference in
// TestReferenceCompareMissingFieldTreatedAbsent.
func NewSchemaForTestOnlyName(t *testing.T) *Schema {
	t.Helper()
	s := NewSchema()
	s.Field("name", func(v any) (Field, error) { return NewValue(v.(string)) })
	return s
}

func TestReferenceDefaultBlockingKey(t *testing.T) {
	s := textSchema(t)
	ref := schemaRef(t, s, map[string]any{"name": "alice", "email": "a@example.com"}, nil)
	keys := ref.BlockingKeys()
	if len(keys) != 1 {
		t.Fatalf("expected exactly one default blocking key, got %d", len(keys))
	}
	if v, ok := keys[dummyBlockingKeyName]; !ok || v != dummyBlockingKeyValue {
		t.Errorf("expected default dummy blocking key %q=%q, got %v", dummyBlockingKeyName, dummyBlockingKeyValue, keys)
	}
}

type fakeBlockingKey struct{ field string }

func (k fakeBlockingKey) Name() string { return "fake:" + k.field }
func (k fakeBlockingKey) Compute(ref *Reference) string {
	f, ok := ref.Field(k.field)
	if !ok || !f.Present() {
		return ""
	}
	s, _ := f.RawValue().(string)
	return s
}

func TestReferenceCustomBlockingKey(t *testing.T) {
	fields := map[string]Field{}
	nameVal, err := NewValue("alice")
	if err != nil {
		t.Fatal(err)
	}
	fields["name"] = nameVal

	ref := NewReference(fields, nil, fakeBlockingKey{field: "name"})
	keys := ref.BlockingKeys()
	if keys["fake:name"] != "alice" {
		t.Errorf("expected custom blocking key value %q, got %q", "alice", keys["fake:name"])
	}
}
