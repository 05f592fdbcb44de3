package resolver

// Field is the capability interface every attribute value on a Reference
// must satisfy. It replaces the source's Field base class: rather than
// subclassing, callers build a value of a concrete type (Value[T], or one of
// pkg/fields' richer implementations) that satisfies this interface.
type Field interface {
	// PMatch is the true-match probability used in the Fellegi-Sunter
	// log-odds contribution: log(PMatch/PNoMatch) on a match,
	// log((1-PMatch)/(1-PNoMatch)) otherwise.
	PMatch() float64
	// PNoMatch is the false-match probability, used in both forms of the
	// contribution alongside PMatch.
	PNoMatch() float64
	// Excluded reports whether this field should be skipped entirely when
	// scoring, regardless of its value.
	Excluded() bool
	// Present reports whether this field carries a real value. An absent
	// field contributes nothing to a comparison.
	Present() bool
	// RawValue exposes the underlying value for comparators that need to
	// inspect the other side's value (e.g. Value[T].CompareTo).
	RawValue() any
	// CompareTo reports whether this field matches other. Implementations
	// may assume both sides are Present and not Excluded; Reference.Compare
	// only invokes CompareTo once those checks pass.
	CompareTo(other Field) bool
}

// Value is the default, generic Field implementation: a single comparable
// value with Fellegi-Sunter probabilities and an optional override
// comparator. It is the static-schema answer to the source's dynamic
// subclassing: callers parameterize it by Go type instead of deriving a new
// class per field.
type Value[T comparable] struct {
	value    T
	present  bool
	exclude  bool
	pMatch   float64
	pNoMatch float64
	cmp      func(a, b T) bool
}

// ValueOption configures a Value[T] at construction time.
type ValueOption[T comparable] func(*Value[T])

// WithProbabilities overrides the default match/no-match probabilities
// (0.9/0.1). Both must lie strictly within (0,1); see NewValue.
func WithProbabilities[T comparable](pMatch, pNoMatch float64) ValueOption[T] {
	return func(v *Value[T]) {
		v.pMatch = pMatch
		v.pNoMatch = pNoMatch
	}
}

// WithExclude marks the field so that it never contributes to a comparison,
// regardless of its value.
func WithExclude[T comparable](exclude bool) ValueOption[T] {
	return func(v *Value[T]) { v.exclude = exclude }
}

// WithComparator overrides the default equality comparator.
func WithComparator[T comparable](cmp func(a, b T) bool) ValueOption[T] {
	return func(v *Value[T]) { v.cmp = cmp }
}

// NewValue constructs a populated Value[T]. It returns a SchemaError if
// either probability falls outside the open interval (0,1) — a degenerate
// probability is a construction-time error, not a resolve-time one (§4.6).
func NewValue[T comparable](value T, opts ...ValueOption[T]) (*Value[T], error) {
	v := &Value[T]{
		value:    value,
		present:  true,
		pMatch:   0.9,
		pNoMatch: 0.1,
		cmp:      func(a, b T) bool { return a == b },
	}
	for _, opt := range opts {
		opt(v)
	}
	if v.pMatch <= 0 || v.pMatch >= 1 {
		return nil, &SchemaError{Reason: "p_match must lie strictly within (0,1)"}
	}
	if v.pNoMatch <= 0 || v.pNoMatch >= 1 {
		return nil, &SchemaError{Reason: "p_nomatch must lie strictly within (0,1)"}
	}
	return v, nil
}

// AbsentValue constructs a Field of type T with no value present. It always
// contributes zero to a comparison, on either side.
func AbsentValue[T comparable]() *Value[T] {
	return &Value[T]{present: false, pMatch: 0.9, pNoMatch: 0.1, cmp: func(a, b T) bool { return a == b }}
}

func (v *Value[T]) PMatch() float64   { return v.pMatch }
func (v *Value[T]) PNoMatch() float64 { return v.pNoMatch }
func (v *Value[T]) Excluded() bool    { return v.exclude }
func (v *Value[T]) Present() bool     { return v.present }
func (v *Value[T]) RawValue() any     { return v.value }

// CompareTo reports equality (or the configured comparator's verdict)
// against another field of the same underlying type. A type mismatch is
// treated as a non-match rather than a panic: it can only arise when a
// caller compares references built from different schemas.
func (v *Value[T]) CompareTo(other Field) bool {
	if other == nil {
		return false
	}
	ov, ok := other.RawValue().(T)
	if !ok {
		return false
	}
	return v.cmp(v.value, ov)
}

// fieldLogOdds computes the Fellegi-Sunter log-odds contribution of
// comparing field a (from the "self" side of Reference.Compare) against
// field b (from "other"). It is the sole place the absent/exclude skip rule
// and the sign of the contribution are decided (§4.1).
func fieldLogOdds(a, b Field) float64 {
	if a == nil || b == nil {
		return 0
	}
	if !a.Present() || !b.Present() {
		return 0
	}
	if a.Excluded() || b.Excluded() {
		return 0
	}
	if a.CompareTo(b) {
		return logRatio(a.PMatch(), a.PNoMatch())
	}
	return logRatio(1-a.PMatch(), 1-a.PNoMatch())
}
