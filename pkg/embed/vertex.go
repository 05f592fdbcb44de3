package embed

import (
	"context"
	"errors"
	"os"

	genai "github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// Vertex embeds text via the Gemini/Vertex AI generative-ai-go client.
type Vertex struct {
	client    *genai.Client
	model     *genai.EmbeddingModel
	modelName string
}

// NewVertex returns a Vertex embedder. model defaults to
// "text-embedding-004" when empty. The API key is read from
// GOOGLE_API_KEY, falling back to GEMINI_API_KEY.
func NewVertex(model string) (Embedder, error) {
	apiKey := os.Getenv("GOOGLE_API_KEY")
	if apiKey == "" {
		apiKey = os.Getenv("GEMINI_API_KEY")
	}
	if apiKey == "" {
		return nil, errors.New("embed: missing GOOGLE_API_KEY or GEMINI_API_KEY")
	}
	cli, err := genai.NewClient(context.Background(), option.WithAPIKey(apiKey))
	if err != nil {
		return nil, err
	}
	if model == "" {
		model = "text-embedding-004"
	}
	return &Vertex{client: cli, model: cli.EmbeddingModel(model), modelName: model}, nil
}

// CacheKey identifies this provider/model for cache namespacing.
func (e *Vertex) CacheKey() string { return "vertex:" + e.modelName }

func (e *Vertex) Embed(ctx context.Context, text string) ([]float32, error) {
	resp, err := e.model.EmbedContent(ctx, genai.Text(text))
	if err != nil {
		return nil, err
	}
	if resp == nil || resp.Embedding == nil || len(resp.Embedding.Values) == 0 {
		return nil, ErrNotSupported
	}
	return resp.Embedding.Values, nil
}
