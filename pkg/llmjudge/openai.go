package llmjudge

import (
	"context"
	"errors"
	"os"

	openai "github.com/sashabaranov/go-openai"
)

// OpenAI judges field matches via the chat completions API.
type OpenAI struct {
	client *openai.Client
	model  string
}

// NewOpenAI returns an OpenAI-backed Judge. model defaults to "gpt-4o-mini".
// The API key is read from OPENAI_API_KEY.
func NewOpenAI(model string) *OpenAI {
	if model == "" {
		model = "gpt-4o-mini"
	}
	return &OpenAI{client: openai.NewClient(os.Getenv("OPENAI_API_KEY")), model: model}
}

func (j *OpenAI) Judge(ctx context.Context, fieldName, a, b string) (bool, error) {
	resp, err := j.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: j.model,
		Messages: []openai.ChatCompletionMessage{{
			Role:    openai.ChatMessageRoleUser,
			Content: buildPrompt(fieldName, a, b),
		}},
	})
	if err != nil {
		return false, err
	}
	if len(resp.Choices) == 0 {
		return false, errors.New("llmjudge: empty response from OpenAI")
	}
	return parseVerdict(resp.Choices[0].Message.Content), nil
}
