// Package requestid assigns a request ID to every HTTP request so log lines
// belonging to one analysis can be correlated.
package requestid

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

type contextKey string

const (
	// RequestIDKey is the context key under which the ID is stored.
	RequestIDKey contextKey = "request_id"
	// RequestIDHeader carries the ID in both directions.
	RequestIDHeader = "X-Request-ID"

	maxIncomingLen = 64
)

// FromContext returns the request ID stored in ctx, or "".
func FromContext(ctx context.Context) string {
	if id, ok := ctx.Value(RequestIDKey).(string); ok {
		return id
	}
	return ""
}

// WithRequestID stores id in ctx.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, RequestIDKey, id)
}

// Middleware reuses a well-formed X-Request-ID header or generates a UUID v4.
// The ID is echoed in the response header.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if !acceptable(id) {
			id = uuid.NewString()
		}

		w.Header().Set(RequestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(WithRequestID(r.Context(), id)))
	})
}

// acceptable reports whether a client-supplied ID is safe to log verbatim.
func acceptable(id string) bool {
	if id == "" || len(id) > maxIncomingLen {
		return false
	}
	for _, c := range id {
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		case c == '-', c == '_', c == '.':
		default:
			return false
		}
	}
	return true
}
