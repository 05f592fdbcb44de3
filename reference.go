package resolver

import (
	"math"
	"sort"
)

// Reference is one observed record that may or may not denote the same
// entity as another. It is immutable after construction; its OID is a
// process-wide monotonically increasing id shared with Cluster.
type Reference struct {
	oid          int64
	fields       map[string]Field
	fieldNames   []string // sorted, for deterministic iteration
	blockingKeys map[string]string
	metadata     any
}

// NewReference constructs a Reference directly from a map of already-built
// fields, bypassing Schema validation. This is the low-level constructor;
// Schema.New is the validated, ergonomic entry point most callers should
// use. If no blockingKeys are given, the Reference receives the dummy key so
// that blocking is effectively disabled (§3).
func NewReference(fields map[string]Field, metadata any, blockingKeys ...BlockingKey) *Reference {
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)

	ref := &Reference{
		oid:          nextID(),
		fields:       fields,
		fieldNames:   names,
		blockingKeys: make(map[string]string, len(blockingKeys)),
		metadata:     metadata,
	}
	if len(blockingKeys) == 0 {
		ref.blockingKeys[dummyBlockingKeyName] = dummyBlockingKeyValue
		return ref
	}
	for _, bk := range blockingKeys {
		ref.blockingKeys[bk.Name()] = bk.Compute(ref)
	}
	return ref
}

// OID returns this reference's unique id.
func (r *Reference) OID() int64 { return r.oid }

// Metadata returns the opaque payload carried verbatim from construction.
func (r *Reference) Metadata() any { return r.metadata }

// FieldNames returns the reference's field names in sorted order.
func (r *Reference) FieldNames() []string { return r.fieldNames }

// Field returns the named field and whether it exists on this reference.
func (r *Reference) Field(name string) (Field, bool) {
	f, ok := r.fields[name]
	return f, ok
}

// BlockingKeys returns the name→value mapping computed at construction.
func (r *Reference) BlockingKeys() map[string]string { return r.blockingKeys }

// Compare returns the Fellegi-Sunter log-odds score of comparing r against
// other, summed over the fields present on r (§4.2). A field present on r
// but missing on other is treated as absent on other, contributing zero.
// The score is not generally commutative unless both references carry the
// same field set.
func (r *Reference) Compare(other *Reference) float64 {
	if other == nil {
		return 0
	}
	var score float64
	for _, name := range r.fieldNames {
		a := r.fields[name]
		b, _ := other.fields[name] // zero value nil when absent on other
		score += fieldLogOdds(a, b)
	}
	return score
}

func logRatio(numerator, denominator float64) float64 {
	return math.Log(numerator / denominator)
}
