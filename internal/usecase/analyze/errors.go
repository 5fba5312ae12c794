// Package analyze implements the text analysis use case: assembling the
// combined input, summarizing it and persisting the result file.
package analyze

import "errors"

// Sentinel errors for analysis. Each maps to exactly one user-facing message.
var (
	// ErrMissingInput indicates that neither a file nor a prompt was supplied.
	ErrMissingInput = errors.New("missing input")

	// ErrEmptyInput indicates that the combined text is empty after trimming.
	ErrEmptyInput = errors.New("empty input")

	// ErrUnsupportedFile indicates an upload that is not a plain .txt file.
	ErrUnsupportedFile = errors.New("unsupported file")

	// ErrInference indicates that the summarization backend failed.
	ErrInference = errors.New("summarization failed")

	// ErrFileIO indicates that the upload could not be read or the result file could not be written.
	ErrFileIO = errors.New("file i/o failed")
)

// User-facing messages shown in the summary slot.
const (
	MsgMissingInput    = "Please upload a .txt file or enter a prompt."
	MsgEmptyInput      = "Input is empty. Please upload a file or enter text."
	MsgUnsupportedFile = "Only .txt files are supported."
	MsgInference       = "Summarization failed. Please try again."
	MsgFileIO          = "Could not read or write the file. Please try again."
)

// Outcome labels used for metrics and logs.
const (
	OutcomeSuccess         = "success"
	OutcomeMissingInput    = "missing_input"
	OutcomeEmptyInput      = "empty_input"
	OutcomeUnsupportedFile = "unsupported_file"
	OutcomeInferenceError  = "inference_error"
	OutcomeIOError         = "io_error"
)

// UserMessage converts an analysis error into the message shown to the user.
// Unknown errors are reported like inference failures; raw error text is never returned.
func UserMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrMissingInput):
		return MsgMissingInput
	case errors.Is(err, ErrEmptyInput):
		return MsgEmptyInput
	case errors.Is(err, ErrUnsupportedFile):
		return MsgUnsupportedFile
	case errors.Is(err, ErrFileIO):
		return MsgFileIO
	default:
		return MsgInference
	}
}

// IsInputError reports whether err was caused by what the user submitted.
func IsInputError(err error) bool {
	return errors.Is(err, ErrMissingInput) ||
		errors.Is(err, ErrEmptyInput) ||
		errors.Is(err, ErrUnsupportedFile)
}

// Outcome returns the metric label for err.
func Outcome(err error) string {
	switch {
	case err == nil:
		return OutcomeSuccess
	case errors.Is(err, ErrMissingInput):
		return OutcomeMissingInput
	case errors.Is(err, ErrEmptyInput):
		return OutcomeEmptyInput
	case errors.Is(err, ErrUnsupportedFile):
		return OutcomeUnsupportedFile
	case errors.Is(err, ErrFileIO):
		return OutcomeIOError
	default:
		return OutcomeInferenceError
	}
}
