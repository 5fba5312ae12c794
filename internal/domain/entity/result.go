// Package entity holds the value types shared by the analysis use case,
// the summarization providers and the presentation layer.
package entity

import (
	"fmt"

	"text-analyzer/internal/utils/text"
)

// ResultFileName is the name of the persisted result file.
const ResultFileName = "summary_result.txt"

// Generation bounds used for every summarization call.
const (
	SummaryMaxLength = 150
	SummaryMinLength = 30
)

// SummaryOptions configures a single summarization call.
// Lengths are expressed in the provider's own unit (tokens for most models).
type SummaryOptions struct {
	MaxLength int
	MinLength int
	// Sample enables non-deterministic decoding. Analysis always sends false.
	Sample bool
}

// DefaultSummaryOptions returns the fixed bounds used by the analyzer.
func DefaultSummaryOptions() SummaryOptions {
	return SummaryOptions{
		MaxLength: SummaryMaxLength,
		MinLength: SummaryMinLength,
		Sample:    false,
	}
}

// Result is the outcome of a successful analysis.
type Result struct {
	Summary   string
	WordCount int
	// FilePath is where the result file was written.
	FilePath string
}

// NewResult builds a Result from summary text, counting whitespace-separated words.
func NewResult(summary string) Result {
	return Result{
		Summary:   summary,
		WordCount: text.CountWords(summary),
	}
}

// WordCountText renders the word count as shown to users, e.g. "42 words".
func (r Result) WordCountText() string {
	return fmt.Sprintf("%d words", r.WordCount)
}

// FileContent renders the result file body.
//
//	Summary:
//	<summary text>
//
//	Word Count: <n>
func (r Result) FileContent() string {
	return fmt.Sprintf("Summary:\n%s\n\nWord Count: %d", r.Summary, r.WordCount)
}

// Outputs is the triple rendered by the UI: summary text, word count text
// and an optional download location. A nil Download means no file.
type Outputs struct {
	Summary   string
	WordCount string
	Download  *string
}

// Outputs renders a successful result with download as its file location.
func (r Result) Outputs(download string) Outputs {
	return Outputs{
		Summary:   r.Summary,
		WordCount: r.WordCountText(),
		Download:  &download,
	}
}

// EmptyOutputs is the state shown before any analysis and after Clear.
func EmptyOutputs() Outputs {
	return Outputs{}
}

// ErrorOutputs renders a user-facing message in the summary slot with no word count and no file.
func ErrorOutputs(message string) Outputs {
	return Outputs{Summary: message}
}
