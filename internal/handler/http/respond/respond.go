// Package respond writes JSON responses and keeps internal error details
// out of them. Details are logged with credentials masked.
package respond

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
)

// JSON writes v as JSON with the given status code.
func JSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if v == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(v); err != nil {
		// headers are already sent
		slog.Default().Error("failed to encode JSON response",
			slog.Int("status_code", code),
			slog.Any("error", err))
	}
}

// AppError is an error that carries the message shown to the user.
type AppError struct {
	UserMsg string
	Err     error
	Code    int
}

// NewAppError creates an AppError.
func NewAppError(code int, userMsg string, err error) *AppError {
	return &AppError{Code: code, UserMsg: userMsg, Err: err}
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.UserMsg
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// safePhrases mark client errors whose text may be shown as is.
var safePhrases = []string{
	"required",
	"invalid",
	"not found",
	"must be",
	"too large",
	"rate limit",
}

// SafeError writes {"error": msg} without leaking internals.
//
// An *AppError in the chain supplies both status and message. Other client
// errors are passed through only when they read like validation messages.
// Everything else becomes a generic message and is logged.
func SafeError(w http.ResponseWriter, code int, err error) {
	if err == nil {
		return
	}

	var appErr *AppError
	if errors.As(err, &appErr) {
		if appErr.Err != nil {
			slog.Default().Error("application error",
				slog.Int("code", appErr.Code),
				slog.String("user_message", appErr.UserMsg),
				slog.String("error", SanitizeError(appErr.Err)))
		}
		JSON(w, appErr.Code, map[string]string{"error": appErr.UserMsg})
		return
	}

	msg := err.Error()
	if code < http.StatusInternalServerError && isSafe(msg) {
		JSON(w, code, map[string]string{"error": msg})
		return
	}

	slog.Default().Error("internal server error",
		slog.Int("code", code),
		slog.String("error", SanitizeError(err)))
	JSON(w, code, map[string]string{"error": genericMessage(code)})
}

func isSafe(msg string) bool {
	lower := strings.ToLower(msg)
	for _, p := range safePhrases {
		if strings.Contains(lower, p) {
			return true
		}
	}
	return false
}

func genericMessage(code int) string {
	if code >= http.StatusInternalServerError {
		return "internal server error"
	}
	if text := http.StatusText(code); text != "" {
		return strings.ToLower(text)
	}
	return "request failed"
}
