// Package embed provides pluggable text-embedding providers used by
// pkg/fields' fuzzy Embedding field to turn two strings into a cosine
// similarity score instead of exact equality.
package embed

import (
	"context"
	"errors"
	"log"
	"math"
	"os"
	"strings"
)

// Embedder converts text into a fixed-dimension vector.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// CacheKeyer is implemented by Embedders whose output depends on more than
// just the input text (provider, model, endpoint). Callers that cache
// embeddings across multiple Embedder instances — pkg/fields.Embedding's
// default shared cache, notably — should namespace cache keys by CacheKey()
// when available, so two providers or models never share a vector for the
// same text.
type CacheKeyer interface {
	CacheKey() string
}

// ErrNotSupported is returned by a provider that could not produce an
// embedding for reasons other than a transport error (e.g. an empty
// response body).
var ErrNotSupported = errors.New("embed: embeddings not supported by this provider/response")

// DummyEmbedder is a deterministic, dependency-free fallback used when no
// provider is configured. It is unsuitable for real similarity judgments —
// callers needing fuzzy matching in production should configure a real
// provider via Auto or one of the New* constructors.
type DummyEmbedder struct{}

// Embed implements Embedder by folding byte values into a fixed-width
// vector. It produces a cheap, self-consistent signal only: identical
// strings embed identically, but dissimilar strings are not guaranteed to
// embed far apart.
func (DummyEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	return DummyEmbedding(text), nil
}

// CacheKey identifies DummyEmbedder for cache namespacing.
func (DummyEmbedder) CacheKey() string { return "dummy" }

// DummyEmbedding is the vector DummyEmbedder produces; exported for tests
// that need to construct expected values directly.
func DummyEmbedding(text string) []float32 {
	const dims = 256
	vec := make([]float32, dims)
	for i, ch := range []byte(text) {
		vec[i%dims] += float32(ch) / 255.0
	}
	return vec
}

// Auto selects a provider from environment variables:
//
//	ER_EMBED_PROVIDER = openai | google|gemini|vertex | ollama | fastembed
//	ER_EMBED_MODEL    = provider-specific model name override
//
// It falls back to DummyEmbedder, logging that it has done so, when no
// provider is configured or the configured provider fails to initialize
// (e.g. a missing API key).
func Auto() Embedder {
	provider := strings.ToLower(strings.TrimSpace(os.Getenv("ER_EMBED_PROVIDER")))
	model := strings.TrimSpace(os.Getenv("ER_EMBED_MODEL"))

	switch provider {
	case "openai":
		if e, err := NewOpenAI(model); err == nil {
			return e
		}
	case "google", "gemini", "vertex", "vertexai":
		if e, err := NewVertex(model); err == nil {
			return e
		}
	case "ollama":
		if e, err := NewOllama(model); err == nil {
			return e
		}
	case "fastembed":
		if e, err := NewFastEmbed(context.Background(), nil); err == nil {
			return e
		}
	}

	log.Printf("embed: Auto falling back to DummyEmbedder (ER_EMBED_PROVIDER=%q)", provider)
	return DummyEmbedder{}
}

// CosineSimilarity returns the cosine of the angle between a and b, in
// [-1, 1]. Vectors of unequal length, or either vector with zero norm,
// yield 0.
func CosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
