// Package fields provides concrete resolver.Field implementations beyond
// the core package's generic Value[T]: normalized text comparison, and
// fuzzy comparison backed by embeddings or an LLM judge.
package fields

import (
	"strings"

	"github.com/erlab/resolver"
)

// NormalizedText returns a *resolver.Value[string] field that compares
// equal when two values match after lower-casing and collapsing
// surrounding whitespace — the common case for names, titles, and other
// free text where exact byte equality is too strict.
func NormalizedText(value string, opts ...resolver.ValueOption[string]) (*resolver.Value[string], error) {
	allOpts := append([]resolver.ValueOption[string]{
		resolver.WithComparator(func(a, b string) bool {
			return normalize(a) == normalize(b)
		}),
	}, opts...)
	return resolver.NewValue(value, allOpts...)
}

func normalize(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}
