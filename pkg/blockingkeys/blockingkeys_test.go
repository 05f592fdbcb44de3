package blockingkeys

import (
	"testing"

	"github.com/erlab/resolver"
)

func refWithName(t *testing.T, name string) *resolver.Reference {
	t.Helper()
	v, err := resolver.NewValue(name)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return resolver.NewReference(map[string]resolver.Field{"name": v}, nil)
}

func TestFieldValueNormalizesWhenConfigured(t *testing.T) {
	k := NewFieldValue("name", true)
	a := refWithName(t, " Acme Inc ")
	b := refWithName(t, "acme inc")
	if k.Compute(a) != k.Compute(b) {
		t.Errorf("expected normalized FieldValue to land in the same block, got %q vs %q", k.Compute(a), k.Compute(b))
	}
}

func TestFieldValueExactWithoutNormalization(t *testing.T) {
	k := NewFieldValue("name", false)
	a := refWithName(t, "Acme Inc")
	b := refWithName(t, "acme inc")
	if k.Compute(a) == k.Compute(b) {
		t.Errorf("expected exact FieldValue to distinguish differing case")
	}
}

func TestFieldValueMissingFieldIsEmptyBlock(t *testing.T) {
	k := NewFieldValue("missing", false)
	a := refWithName(t, "Acme Inc")
	if got := k.Compute(a); got != "" {
		t.Errorf("expected empty block for a missing field, got %q", got)
	}
}

func TestPrefixTruncatesAndLowercases(t *testing.T) {
	k := NewPrefix("name", 3)
	a := refWithName(t, "Alfred")
	if got := k.Compute(a); got != "alf" {
		t.Errorf("expected prefix %q, got %q", "alf", got)
	}
}

func TestPrefixShorterThanNUsesWholeValue(t *testing.T) {
	k := NewPrefix("name", 10)
	a := refWithName(t, "Al")
	if got := k.Compute(a); got != "al" {
		t.Errorf("expected whole value %q, got %q", "al", got)
	}
}

func TestCompositePanicsWithFewerThanTwoKeys(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Errorf("expected a panic constructing a Composite with one key")
		}
	}()
	NewComposite("solo", NewPrefix("name", 3))
}

func TestCompositeCombinesUnderlyingKeys(t *testing.T) {
	k := NewComposite("both", NewPrefix("name", 3), NewFieldValue("name", true))
	a := refWithName(t, "Alfred")
	b := refWithName(t, "Alfred")
	c := refWithName(t, "Albert")
	if k.Compute(a) != k.Compute(b) {
		t.Errorf("expected identical references to land in the same composite block")
	}
	if k.Compute(a) == k.Compute(c) {
		t.Errorf("expected differing references to land in different composite blocks")
	}
}
