package summarizer

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"text-analyzer/internal/domain/entity"
	"text-analyzer/internal/resilience/retry"
)

func TestOllama_Summarize(t *testing.T) {
	var body map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/chat", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"model":"llama3.2","created_at":"2025-01-01T00:00:00Z",` +
			`"message":{"role":"assistant","content":"Local model summary."},"done":true}`))
	}))
	defer srv.Close()

	o, err := NewOllama(srv.URL, "", testOptions(&fakeMetrics{})...)
	require.NoError(t, err)

	summary, err := o.Summarize(context.Background(), "Text to shorten.", entity.DefaultSummaryOptions())

	require.NoError(t, err)
	assert.Equal(t, "Local model summary.", summary)
	assert.Equal(t, "ollama", o.Name())

	assert.Equal(t, DefaultOllamaModel, body["model"])
	assert.Equal(t, false, body["stream"])
	options, ok := body["options"].(map[string]any)
	require.True(t, ok)
	assert.EqualValues(t, 150, options["num_predict"])
	assert.EqualValues(t, 0, options["temperature"])
	assert.EqualValues(t, 0, options["seed"])
}

func TestOllama_ServerUnavailable(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	o, err := NewOllama(srv.URL, "", testOptions(&fakeMetrics{})...)
	require.NoError(t, err)

	_, err = o.Summarize(context.Background(), "text", entity.DefaultSummaryOptions())

	require.Error(t, err)
	var httpErr *retry.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusServiceUnavailable, httpErr.StatusCode)
	assert.Equal(t, int32(3), calls.Load())
}

func TestOllama_ModelNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"model \"missing\" not found, try pulling it first"}`))
	}))
	defer srv.Close()

	o, err := NewOllama(srv.URL, "missing", testOptions(&fakeMetrics{})...)
	require.NoError(t, err)

	_, err = o.Summarize(context.Background(), "text", entity.DefaultSummaryOptions())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestNewOllama_InvalidHost(t *testing.T) {
	_, err := NewOllama("http://[::1", "", testOptions(&fakeMetrics{})...)

	assert.Error(t, err)
}
