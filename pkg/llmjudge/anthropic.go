package llmjudge

import (
	"context"
	"os"
	"strings"

	anthropic "github.com/anthropics/anthropic-sdk-go"
	anthropicopt "github.com/anthropics/anthropic-sdk-go/option"
)

// Anthropic judges field matches via Claude's Messages API.
type Anthropic struct {
	client    *anthropic.Client
	model     string
	maxTokens int64
}

// NewAnthropic returns an Anthropic-backed Judge. model defaults to
// "claude-3-5-haiku-latest" — a judge call is a short yes/no decision, not
// a task that benefits from the largest available model. The API key is
// read from ANTHROPIC_API_KEY.
func NewAnthropic(model string) *Anthropic {
	if model == "" {
		model = "claude-3-5-haiku-latest"
	}
	cl := anthropic.NewClient(anthropicopt.WithAPIKey(os.Getenv("ANTHROPIC_API_KEY")))
	return &Anthropic{client: &cl, model: model, maxTokens: 8}
}

func (j *Anthropic) Judge(ctx context.Context, fieldName, a, b string) (bool, error) {
	msg, err := j.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(j.model),
		MaxTokens: j.maxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(buildPrompt(fieldName, a, b))),
		},
	})
	if err != nil {
		return false, err
	}

	var reply strings.Builder
	for _, block := range msg.Content {
		if tb, ok := block.AsAny().(anthropic.TextBlock); ok {
			reply.WriteString(tb.Text)
		}
	}
	return parseVerdict(reply.String()), nil
}
