package llmjudge

import (
	"context"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	ollama "github.com/ollama/ollama/api"
)

// Ollama judges field matches via a local or remote Ollama server's
// generate endpoint.
type Ollama struct {
	client *ollama.Client
	model  string
}

// NewOllama returns an Ollama-backed Judge. The server address is read from
// OLLAMA_HOST, defaulting to http://localhost:11434.
func NewOllama(model string) (*Ollama, error) {
	host := os.Getenv("OLLAMA_HOST")
	if host == "" {
		host = "http://localhost:11434"
	}
	u, err := url.Parse(host)
	if err != nil {
		return nil, err
	}
	httpClient := &http.Client{Timeout: 60 * time.Second}
	return &Ollama{client: ollama.NewClient(u, httpClient), model: model}, nil
}

func (j *Ollama) Judge(ctx context.Context, fieldName, a, b string) (bool, error) {
	var reply strings.Builder
	req := &ollama.GenerateRequest{
		Model:  j.model,
		Prompt: buildPrompt(fieldName, a, b),
	}
	err := j.client.Generate(ctx, req, func(gr ollama.GenerateResponse) error {
		reply.WriteString(gr.Response)
		return nil
	})
	if err != nil {
		return false, err
	}
	return parseVerdict(reply.String()), nil
}
