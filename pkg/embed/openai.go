package embed

import (
	"context"
	"os"

	openai "github.com/sashabaranov/go-openai"
)

// OpenAI embeds text via OpenAI's embeddings endpoint.
type OpenAI struct {
	client *openai.Client
	model  string
}

// NewOpenAI returns an OpenAI embedder. model defaults to
// "text-embedding-3-small" when empty. The API key is read from
// OPENAI_API_KEY.
func NewOpenAI(model string) (Embedder, error) {
	key := os.Getenv("OPENAI_API_KEY")
	cli := openai.NewClient(key)
	if model == "" {
		model = "text-embedding-3-small"
	}
	return &OpenAI{client: cli, model: model}, nil
}

// CacheKey identifies this provider/model for cache namespacing.
func (e *OpenAI) CacheKey() string { return "openai:" + e.model }

func (e *OpenAI) Embed(ctx context.Context, text string) ([]float32, error) {
	resp, err := e.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Model: openai.EmbeddingModel(e.model),
		Input: []string{text},
	})
	if err != nil {
		return nil, err
	}
	if len(resp.Data) == 0 || len(resp.Data[0].Embedding) == 0 {
		return nil, ErrNotSupported
	}
	return resp.Data[0].Embedding, nil
}
