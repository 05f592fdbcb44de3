// Package llmjudge implements boolean field comparison by asking a language
// model whether two values denote the same thing, as an alternative to
// embedding cosine similarity for fields where exact or fuzzy-numeric
// equality is too brittle (free-text names, addresses, descriptions).
package llmjudge

import (
	"context"
	"fmt"
	"strings"
)

// Judge decides whether two field values should be considered a match.
type Judge interface {
	Judge(ctx context.Context, fieldName, a, b string) (bool, error)
}

const promptTemplate = `You are deciding whether two values of the field %q refer to the same real-world thing.

Value A: %s
Value B: %s

Answer with exactly one word: "yes" if they refer to the same thing, "no" otherwise.`

func buildPrompt(fieldName, a, b string) string {
	return fmt.Sprintf(promptTemplate, fieldName, a, b)
}

// parseVerdict interprets a model's free-text reply as a boolean. It reports
// true when the trimmed reply starts with "yes", case-insensitively, and
// false for anything else, "no" included — a judge that cannot produce a
// clear answer should not be trusted with a match.
func parseVerdict(reply string) bool {
	trimmed := strings.ToLower(strings.TrimSpace(reply))
	return strings.HasPrefix(trimmed, "yes")
}
