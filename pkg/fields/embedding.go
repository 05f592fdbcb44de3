package fields

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/erlab/resolver"
	"github.com/erlab/resolver/pkg/cache"
	"github.com/erlab/resolver/pkg/embed"
)

// Embedding is a fuzzy text field: two values are considered a match when
// the cosine similarity of their embeddings reaches a threshold, instead of
// requiring byte-for-byte equality.
type Embedding struct {
	text      string
	present   bool
	exclude   bool
	pMatch    float64
	pNoMatch  float64
	threshold float64
	embedder  embed.Embedder
	cache     *cache.LRUCache
}

// EmbeddingOption configures an Embedding field at construction time.
type EmbeddingOption func(*Embedding)

// WithEmbeddingProbabilities overrides the default match/no-match
// probabilities (0.9/0.1).
func WithEmbeddingProbabilities(pMatch, pNoMatch float64) EmbeddingOption {
	return func(e *Embedding) { e.pMatch, e.pNoMatch = pMatch, pNoMatch }
}

// WithThreshold overrides the default cosine-similarity match threshold
// (0.85).
func WithThreshold(threshold float64) EmbeddingOption {
	return func(e *Embedding) { e.threshold = threshold }
}

// WithEmbeddingExclude marks the field so it never contributes to a
// comparison.
func WithEmbeddingExclude(exclude bool) EmbeddingOption {
	return func(e *Embedding) { e.exclude = exclude }
}

// WithCache overrides the field's embedding-lookup cache. Sharing one cache
// across many Embedding fields avoids redundant provider calls for values
// that repeat across references.
func WithCache(c *cache.LRUCache) EmbeddingOption {
	return func(e *Embedding) { e.cache = c }
}

var defaultEmbeddingCache = cache.NewLRUCache(4096, 10*time.Minute)

// NewEmbedding builds an Embedding field over text, using embedder to
// produce vectors (falling back to embed.Auto() if embedder is nil).
func NewEmbedding(text string, embedder embed.Embedder, opts ...EmbeddingOption) (*Embedding, error) {
	if embedder == nil {
		embedder = embed.Auto()
	}
	e := &Embedding{
		text:      text,
		present:   true,
		pMatch:    0.9,
		pNoMatch:  0.1,
		threshold: 0.85,
		embedder:  embedder,
		cache:     defaultEmbeddingCache,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.pMatch <= 0 || e.pMatch >= 1 || e.pNoMatch <= 0 || e.pNoMatch >= 1 {
		return nil, &resolver.SchemaError{Reason: "p_match and p_nomatch must lie strictly within (0,1)"}
	}
	return e, nil
}

// AbsentEmbedding constructs an Embedding field with no value present.
func AbsentEmbedding() *Embedding {
	return &Embedding{present: false, pMatch: 0.9, pNoMatch: 0.1, threshold: 0.85}
}

func (e *Embedding) PMatch() float64   { return e.pMatch }
func (e *Embedding) PNoMatch() float64 { return e.pNoMatch }
func (e *Embedding) Excluded() bool    { return e.exclude }
func (e *Embedding) Present() bool     { return e.present }
func (e *Embedding) RawValue() any     { return e.text }

// CompareTo embeds both sides' text (consulting the cache first) and
// reports whether their cosine similarity is at least the configured
// threshold. A provider error is logged and treated as a non-match rather
// than propagated — resolver.Field.CompareTo has no error return, and a
// single failed embedding call should not abort an entire resolve.
func (e *Embedding) CompareTo(other resolver.Field) bool {
	if other == nil {
		return false
	}
	otherText, ok := other.RawValue().(string)
	if !ok {
		return false
	}
	a, err := e.embed(e.text)
	if err != nil {
		log.Printf("fields: embedding lookup failed: %v", err)
		return false
	}
	b, err := e.embed(otherText)
	if err != nil {
		log.Printf("fields: embedding lookup failed: %v", err)
		return false
	}
	return embed.CosineSimilarity(a, b) >= e.threshold
}

// cacheKeyPrefix namespaces the cache by provider/model when the embedder
// advertises one via embed.CacheKeyer, falling back to the embedder's
// concrete type. This keeps two Embedding fields sharing the default cache
// but backed by different providers from ever returning each other's
// vectors for the same text.
func cacheKeyPrefix(embedder embed.Embedder) string {
	if keyer, ok := embedder.(embed.CacheKeyer); ok {
		return keyer.CacheKey()
	}
	return fmt.Sprintf("%T", embedder)
}

func (e *Embedding) embed(text string) ([]float32, error) {
	key := cache.HashKey(cacheKeyPrefix(e.embedder) + "\x00" + text)
	if e.cache != nil {
		if v, ok := e.cache.Get(key); ok {
			return v.([]float32), nil
		}
	}
	vec, err := e.embedder.Embed(context.Background(), text)
	if err != nil {
		return nil, err
	}
	if e.cache != nil {
		e.cache.Set(key, vec)
	}
	return vec, nil
}
