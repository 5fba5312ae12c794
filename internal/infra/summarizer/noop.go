package summarizer

import (
	"context"
	"strings"

	"text-analyzer/internal/domain/entity"
)

// NoOp is an offline summarizer that returns the lead of the input:
// whole sentences until MinLength words are reached, never more than
// MaxLength words. It is useful for development and tests.
type NoOp struct{}

// NewNoOp creates a new NoOp summarizer.
func NewNoOp() *NoOp {
	return &NoOp{}
}

// Name implements Summarizer.
func (n *NoOp) Name() string { return "noop" }

// Summarize implements Summarizer.
func (n *NoOp) Summarize(ctx context.Context, text string, opts entity.SummaryOptions) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	words := strings.Fields(text)
	if len(words) == 0 {
		return "", ErrEmptySummary
	}

	limit := len(words)
	if opts.MaxLength > 0 && limit > opts.MaxLength {
		limit = opts.MaxLength
	}

	end := limit
	for i := 0; i < limit; i++ {
		if i+1 >= opts.MinLength && endsSentence(words[i]) {
			end = i + 1
			break
		}
	}

	return strings.Join(words[:end], " "), nil
}

func endsSentence(word string) bool {
	return strings.HasSuffix(word, ".") || strings.HasSuffix(word, "!") || strings.HasSuffix(word, "?")
}
