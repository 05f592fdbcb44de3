package fields

import "github.com/erlab/resolver"

// Exact is the equality-comparator baseline field: a thin alias over the
// core package's generic Value[T], kept here so callers can reach every
// field flavor — exact, embedding, LLM-judged — from one pkg/fields import.
type Exact[T comparable] = resolver.Value[T]

// NewExact constructs an Exact[T] field.
func NewExact[T comparable](value T, opts ...resolver.ValueOption[T]) (*Exact[T], error) {
	return resolver.NewValue(value, opts...)
}
