package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"os"
	"time"
)

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status    string                 `json:"status"`    // "healthy" or "unhealthy"
	Timestamp string                 `json:"timestamp"` // RFC 3339
	Checks    map[string]CheckStatus `json:"checks"`
	Version   string                 `json:"version"`
}

// CheckStatus is the result of one health check.
type CheckStatus struct {
	Status  string         `json:"status"`
	Message string         `json:"message,omitempty"`
	Details map[string]any `json:"details,omitempty"`
}

// CircuitReporter exposes the circuit breaker state of a summarizer.
type CircuitReporter interface {
	CircuitState() string
}

// HealthHandler reports whether the summarizer accepts calls and the result
// directory is writable.
type HealthHandler struct {
	Provider  string
	Circuit   CircuitReporter // nil for backends without a breaker
	ResultDir string
	Version   string
}

// ServeHTTP returns 200 when every check passes, 503 otherwise.
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	checks := map[string]CheckStatus{
		"summarizer":   h.checkSummarizer(),
		"result_store": h.checkResultStore(),
	}

	status := "healthy"
	code := http.StatusOK
	for _, c := range checks {
		if c.Status != "healthy" {
			status = "unhealthy"
			code = http.StatusServiceUnavailable
			break
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(HealthResponse{
		Status:    status,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Checks:    checks,
		Version:   h.Version,
	}); err != nil {
		slog.Error("failed to encode health response", slog.Any("error", err))
	}
}

func (h *HealthHandler) checkSummarizer() CheckStatus {
	details := map[string]any{"provider": h.Provider}
	if h.Circuit == nil {
		details["circuit_breaker"] = "not_configured"
		return CheckStatus{Status: "healthy", Details: details}
	}

	state := h.Circuit.CircuitState()
	details["circuit_breaker"] = state
	if state == "open" {
		return CheckStatus{
			Status:  "unhealthy",
			Message: "circuit breaker open",
			Details: details,
		}
	}
	return CheckStatus{Status: "healthy", Details: details}
}

// checkResultStore creates and removes a probe file in the result directory.
func (h *HealthHandler) checkResultStore() CheckStatus {
	if err := os.MkdirAll(h.ResultDir, 0o750); err != nil {
		return CheckStatus{Status: "unhealthy", Message: "result directory unavailable"}
	}
	f, err := os.CreateTemp(h.ResultDir, ".health-*")
	if err != nil {
		return CheckStatus{Status: "unhealthy", Message: "result directory not writable"}
	}
	name := f.Name()
	_ = f.Close()
	_ = os.Remove(name)
	return CheckStatus{Status: "healthy"}
}

// LiveHandler answers liveness probes.
type LiveHandler struct{}

// ServeHTTP always returns 200 "alive".
func (h *LiveHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("alive")); err != nil {
		slog.Error("failed to write liveness response", slog.Any("error", err))
	}
}
