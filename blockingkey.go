package resolver

// BlockingKey derives a string key from a Reference, used purely to prune
// implausible comparisons before they are scored. A BlockingKey never
// influences the score itself.
type BlockingKey interface {
	// Name identifies this key; a Reference produces at most one value per
	// distinct name.
	Name() string
	// Compute derives this key's value from ref.
	Compute(ref *Reference) string
}

// dummyBlockingKeyName is the key every Reference receives when its schema
// declares no user BlockingKey, so that all references share one block (i.e.
// blocking is effectively disabled).
const dummyBlockingKeyName = "BK"

const dummyBlockingKeyValue = "0"
