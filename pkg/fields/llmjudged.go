package fields

import (
	"context"
	"log"

	"github.com/erlab/resolver"
	"github.com/erlab/resolver/pkg/cache"
	"github.com/erlab/resolver/pkg/llmjudge"
)

// LLMJudged is a text field whose match decision comes from asking a
// language model whether two values denote the same thing, rather than
// from a similarity threshold. It is the more expensive, higher-precision
// alternative to Embedding for fields with little surface-level overlap
// (e.g. free-text descriptions) where embeddings alone perform poorly.
type LLMJudged struct {
	fieldName string
	text      string
	present   bool
	exclude   bool
	pMatch    float64
	pNoMatch  float64
	judge     llmjudge.Judge
	cache     *cache.LRUCache
}

// LLMJudgedOption configures an LLMJudged field at construction time.
type LLMJudgedOption func(*LLMJudged)

// WithJudgedProbabilities overrides the default match/no-match
// probabilities (0.95/0.05) — an LLM verdict is typically trusted more
// strongly than a threshold-based heuristic.
func WithJudgedProbabilities(pMatch, pNoMatch float64) LLMJudgedOption {
	return func(f *LLMJudged) { f.pMatch, f.pNoMatch = pMatch, pNoMatch }
}

// WithJudgedExclude marks the field so it never contributes to a
// comparison.
func WithJudgedExclude(exclude bool) LLMJudgedOption {
	return func(f *LLMJudged) { f.exclude = exclude }
}

// WithJudgedCache overrides the field's verdict cache, keyed on the field
// name and both compared values so identical pairs are judged only once.
func WithJudgedCache(c *cache.LRUCache) LLMJudgedOption {
	return func(f *LLMJudged) { f.cache = c }
}

var defaultJudgeCache = cache.NewLRUCache(4096, 0)

// NewLLMJudged builds an LLMJudged field over text using judge to decide
// matches against other values of the same field name.
func NewLLMJudged(fieldName, text string, judge llmjudge.Judge, opts ...LLMJudgedOption) (*LLMJudged, error) {
	f := &LLMJudged{
		fieldName: fieldName,
		text:      text,
		present:   true,
		pMatch:    0.95,
		pNoMatch:  0.05,
		judge:     judge,
		cache:     defaultJudgeCache,
	}
	for _, opt := range opts {
		opt(f)
	}
	if f.pMatch <= 0 || f.pMatch >= 1 || f.pNoMatch <= 0 || f.pNoMatch >= 1 {
		return nil, &resolver.SchemaError{Field: fieldName, Reason: "p_match and p_nomatch must lie strictly within (0,1)"}
	}
	return f, nil
}

// AbsentLLMJudged constructs an LLMJudged field with no value present.
func AbsentLLMJudged(fieldName string) *LLMJudged {
	return &LLMJudged{fieldName: fieldName, present: false, pMatch: 0.95, pNoMatch: 0.05}
}

func (f *LLMJudged) PMatch() float64   { return f.pMatch }
func (f *LLMJudged) PNoMatch() float64 { return f.pNoMatch }
func (f *LLMJudged) Excluded() bool    { return f.exclude }
func (f *LLMJudged) Present() bool     { return f.present }
func (f *LLMJudged) RawValue() any     { return f.text }

// CompareTo asks the configured judge whether f's and other's text denote
// the same thing, consulting the verdict cache first. A judge error is
// logged and treated as a non-match, matching Embedding's failure policy.
func (f *LLMJudged) CompareTo(other resolver.Field) bool {
	if other == nil {
		return false
	}
	otherText, ok := other.RawValue().(string)
	if !ok {
		return false
	}

	key := cache.HashKey(f.fieldName + "\x00" + f.text + "\x00" + otherText)
	if f.cache != nil {
		if v, ok := f.cache.Get(key); ok {
			return v.(bool)
		}
	}

	verdict, err := f.judge.Judge(context.Background(), f.fieldName, f.text, otherText)
	if err != nil {
		log.Printf("fields: llm judge failed for field %q: %v", f.fieldName, err)
		return false
	}
	if f.cache != nil {
		f.cache.Set(key, verdict)
	}
	return verdict
}
