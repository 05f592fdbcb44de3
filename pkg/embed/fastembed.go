package embed

import (
	"context"
	"fmt"
	"runtime"

	fastembed "github.com/anush008/fastembed-go"
)

// FastEmbedOptions configures a local, in-process FastEmbed model.
type FastEmbedOptions struct {
	Model     fastembed.EmbeddingModel // zero value picks the library default
	CacheDir  string
	MaxLength int
	BatchSize int
}

// FastEmbed embeds text locally via an ONNX model, requiring no network
// call or API key — the provider this library reaches for when embedding
// comparisons must run offline.
type FastEmbed struct {
	model     *fastembed.FlagEmbedding
	batchSize int
	modelName string
}

// NewFastEmbed loads a local embedding model. opts may be nil to accept all
// library defaults.
func NewFastEmbed(ctx context.Context, opts *FastEmbedOptions) (Embedder, error) {
	var init *fastembed.InitOptions
	batchSize := 64
	modelName := "default"
	if opts != nil {
		init = &fastembed.InitOptions{
			Model:     opts.Model,
			CacheDir:  opts.CacheDir,
			MaxLength: opts.MaxLength,
		}
		if opts.BatchSize > 0 {
			batchSize = opts.BatchSize
		}
		if opts.Model != "" {
			modelName = string(opts.Model)
		}
	}
	if batchSize > 4*runtime.GOMAXPROCS(0) {
		batchSize = 4 * runtime.GOMAXPROCS(0)
	}
	m, err := fastembed.NewFlagEmbedding(init)
	if err != nil {
		return nil, err
	}
	return &FastEmbed{model: m, batchSize: batchSize, modelName: modelName}, nil
}

// CacheKey identifies this provider/model for cache namespacing.
func (e *FastEmbed) CacheKey() string { return "fastembed:" + e.modelName }

// Close releases the underlying ONNX runtime session.
func (e *FastEmbed) Close() error {
	if e.model != nil {
		e.model.Destroy()
	}
	return nil
}

// Embed embeds a single query string.
func (e *FastEmbed) Embed(_ context.Context, text string) ([]float32, error) {
	return e.model.QueryEmbed(text)
}

// EmbedPassages embeds a batch of longer documents, prefixing each with
// "passage:" if not already so marked, as the underlying model expects for
// asymmetric query/passage embedding.
func (e *FastEmbed) EmbedPassages(_ context.Context, docs []string) ([][]float32, error) {
	inputs := make([]string, len(docs))
	for i, d := range docs {
		if len(d) >= len("passage:") && d[:len("passage:")] == "passage:" {
			inputs[i] = d
		} else {
			inputs[i] = "passage: " + d
		}
	}
	out, err := e.model.PassageEmbed(inputs, e.batchSize)
	if err != nil {
		return nil, fmt.Errorf("embed: passage embed: %w", err)
	}
	return out, nil
}
