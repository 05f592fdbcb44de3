// Package blockingkeys provides concrete resolver.BlockingKey
// implementations used to prune implausible comparisons before they are
// scored.
package blockingkeys

import (
	"fmt"
	"strings"

	"github.com/erlab/resolver"
)

// FieldValue blocks on the exact (optionally normalized) string value of
// one named field — references only become comparison candidates when that
// field's value is identical.
type FieldValue struct {
	name      string
	field     string
	normalize bool
}

// NewFieldValue returns a FieldValue blocking key over fieldName. When
// normalize is true, values are lower-cased and trimmed before comparison,
// so "Acme Inc" and " acme inc " land in the same block.
func NewFieldValue(fieldName string, normalize bool) *FieldValue {
	return &FieldValue{name: "field:" + fieldName, field: fieldName, normalize: normalize}
}

func (k *FieldValue) Name() string { return k.name }

func (k *FieldValue) Compute(ref *resolver.Reference) string {
	f, ok := ref.Field(k.field)
	if !ok || !f.Present() {
		return ""
	}
	s := fmt.Sprintf("%v", f.RawValue())
	if k.normalize {
		s = strings.TrimSpace(strings.ToLower(s))
	}
	return s
}

// Prefix blocks on the first n runes of one named field's string value,
// useful for fields too granular to block on exactly (e.g. blocking on a
// postcode's first three characters rather than its full value).
type Prefix struct {
	name  string
	field string
	n     int
}

// NewPrefix returns a Prefix blocking key over fieldName, using the first n
// runes of its value.
func NewPrefix(fieldName string, n int) *Prefix {
	return &Prefix{name: fmt.Sprintf("prefix:%s:%d", fieldName, n), field: fieldName, n: n}
}

func (k *Prefix) Name() string { return k.name }

func (k *Prefix) Compute(ref *resolver.Reference) string {
	f, ok := ref.Field(k.field)
	if !ok || !f.Present() {
		return ""
	}
	s := fmt.Sprintf("%v", f.RawValue())
	runes := []rune(s)
	if len(runes) > k.n {
		runes = runes[:k.n]
	}
	return strings.ToLower(string(runes))
}

// Composite blocks on the concatenation of several underlying keys' values,
// requiring all of them to match simultaneously — a narrower, more
// selective block than any one key alone.
type Composite struct {
	name string
	keys []resolver.BlockingKey
}

// NewComposite returns a Composite blocking key over keys. It panics if
// given fewer than two keys — a composite of one key is just that key.
func NewComposite(name string, keys ...resolver.BlockingKey) *Composite {
	if len(keys) < 2 {
		panic("blockingkeys: composite requires at least two underlying keys")
	}
	return &Composite{name: name, keys: keys}
}

func (k *Composite) Name() string { return k.name }

func (k *Composite) Compute(ref *resolver.Reference) string {
	parts := make([]string, len(k.keys))
	for i, sub := range k.keys {
		parts[i] = sub.Compute(ref)
	}
	return strings.Join(parts, "\x1f")
}
