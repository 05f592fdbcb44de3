package embed

import (
	"context"
	"net/http"
	"net/url"
	"os"
	"time"

	ollama "github.com/ollama/ollama/api"
)

// Ollama embeds text via a local or remote Ollama server.
type Ollama struct {
	client *ollama.Client
	model  string
}

// NewOllama returns an Ollama embedder. model defaults to
// "nomic-embed-text" when empty. The server address is read from
// OLLAMA_HOST, defaulting to http://localhost:11434.
func NewOllama(model string) (Embedder, error) {
	host := os.Getenv("OLLAMA_HOST")
	if host == "" {
		host = "http://localhost:11434"
	}
	u, err := url.Parse(host)
	if err != nil {
		return nil, err
	}
	httpClient := &http.Client{Timeout: 60 * time.Second}
	cli := ollama.NewClient(u, httpClient)

	if model == "" {
		model = "nomic-embed-text"
	}
	return &Ollama{client: cli, model: model}, nil
}

// CacheKey identifies this provider/model for cache namespacing.
func (e *Ollama) CacheKey() string { return "ollama:" + e.model }

func (e *Ollama) Embed(ctx context.Context, text string) ([]float32, error) {
	res, err := e.client.Embed(ctx, &ollama.EmbedRequest{
		Model: e.model,
		Input: text,
	})
	if err != nil {
		return nil, err
	}
	if res == nil || len(res.Embeddings) == 0 || len(res.Embeddings[0]) == 0 {
		return nil, ErrNotSupported
	}
	return res.Embeddings[0], nil
}
