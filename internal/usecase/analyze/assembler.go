package analyze

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"text-analyzer/internal/infra/upload"
	"text-analyzer/internal/observability/logging"
	"text-analyzer/internal/observability/metrics"
	"text-analyzer/internal/utils/text"
)

// MaxInputChars is the character budget of the text forwarded to the summarizer.
// The limit counts characters, not model tokens, and may cut inside a word.
const MaxInputChars = 1024

// Input is what the user submitted. Both parts are optional, but not both at once.
type Input struct {
	// File is the uploaded text file, or nil.
	File   *upload.Upload
	Prompt string
}

// TokenEstimator estimates the model tokens of a text.
type TokenEstimator interface {
	Count(text string) (int, error)
}

// Assembler merges prompt and file content into the combined text.
type Assembler struct {
	tokens TokenEstimator
}

// NewAssembler creates an assembler. tokens may be nil to skip token estimates.
func NewAssembler(tokens TokenEstimator) *Assembler {
	return &Assembler{tokens: tokens}
}

// Assemble returns the combined text: prompt, a blank line and the file
// content, trimmed and truncated to MaxInputChars characters.
//
// Returns ErrMissingInput when neither part is given, ErrEmptyInput when the
// trimmed text is empty, ErrUnsupportedFile or ErrFileIO for upload problems.
// A whitespace-only prompt counts as given and ends in ErrEmptyInput.
func (a *Assembler) Assemble(ctx context.Context, in Input) (string, error) {
	if in.File == nil && in.Prompt == "" {
		return "", ErrMissingInput
	}

	var content string
	if in.File != nil {
		c, err := upload.ReadText(in.File)
		if err != nil {
			if errors.Is(err, upload.ErrUnsupportedType) {
				return "", fmt.Errorf("%w: %w", ErrUnsupportedFile, err)
			}
			return "", fmt.Errorf("%w: %w", ErrFileIO, err)
		}
		content = c
	}

	combined := strings.TrimSpace(in.Prompt + "\n\n" + content)
	if combined == "" {
		return "", ErrEmptyInput
	}

	chars := text.CountRunes(combined)
	truncated := chars > MaxInputChars
	if truncated {
		combined = text.TruncateRunes(combined, MaxInputChars)
	}
	metrics.RecordInput(chars, truncated)

	attrs := []any{
		slog.Int("input_chars", chars),
		slog.Bool("truncated", truncated),
	}
	if a.tokens != nil {
		if n, err := a.tokens.Count(combined); err == nil {
			metrics.RecordInputTokens(n)
			attrs = append(attrs, slog.Int("input_tokens", n))
		} else {
			logging.FromContext(ctx).Debug("token estimate skipped", slog.Any("error", err))
		}
	}
	logging.FromContext(ctx).Debug("input assembled", attrs...)

	return combined, nil
}
