package summarizer

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"text-analyzer/internal/domain/entity"
	"text-analyzer/internal/resilience/retry"
)

func TestHuggingFace_Summarize(t *testing.T) {
	var got hfRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/sshleifer/distilbart-cnn-12-6", r.URL.Path)
		assert.Equal(t, "Bearer hf_test", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"summary_text":" The fox jumped over the dog. "}]`))
	}))
	defer srv.Close()

	hf := NewHuggingFace(srv.URL+"/", "hf_test", "", testOptions(&fakeMetrics{})...)

	summary, err := hf.Summarize(context.Background(), "The quick brown fox jumps over the lazy dog.", entity.DefaultSummaryOptions())

	require.NoError(t, err)
	assert.Equal(t, "The fox jumped over the dog.", summary)
	assert.Equal(t, "huggingface", hf.Name())
	assert.Equal(t, DefaultHuggingFaceModel, hf.Model())

	assert.Equal(t, "The quick brown fox jumps over the lazy dog.", got.Inputs)
	assert.Equal(t, hfParameters{MaxLength: 150, MinLength: 30, DoSample: false}, got.Parameters)
	assert.True(t, got.Options.WaitForModel)
}

func TestHuggingFace_AnonymousRequest(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		assert.Equal(t, "/org/custom-model", r.URL.Path)
		_, _ = w.Write([]byte(`[{"summary_text":"ok"}]`))
	}))
	defer srv.Close()

	hf := NewHuggingFace(srv.URL, "", "org/custom-model", testOptions(&fakeMetrics{})...)

	summary, err := hf.Summarize(context.Background(), "text", entity.DefaultSummaryOptions())

	require.NoError(t, err)
	assert.Equal(t, "ok", summary)
}

func TestHuggingFace_RetriesModelLoading(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte(`{"error":"Model is currently loading","estimated_time":20}`))
			return
		}
		_, _ = w.Write([]byte(`[{"summary_text":"loaded"}]`))
	}))
	defer srv.Close()

	hf := NewHuggingFace(srv.URL, "", "", testOptions(&fakeMetrics{})...)

	summary, err := hf.Summarize(context.Background(), "text", entity.DefaultSummaryOptions())

	require.NoError(t, err)
	assert.Equal(t, "loaded", summary)
	assert.Equal(t, int32(2), calls.Load())
}

func TestHuggingFace_Errors(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		wantStatus int
		wantMsg    string
		wantCalls  int32
		wantErr    error
	}{
		{
			name:       "bad request is not retried",
			status:     http.StatusBadRequest,
			body:       `{"error":"Input is too long"}`,
			wantStatus: http.StatusBadRequest,
			wantMsg:    "Input is too long",
			wantCalls:  1,
		},
		{
			name:       "server error is retried",
			status:     http.StatusInternalServerError,
			body:       `internal failure`,
			wantStatus: http.StatusInternalServerError,
			wantMsg:    "internal failure",
			wantCalls:  3,
		},
		{
			name:      "empty result list",
			status:    http.StatusOK,
			body:      `[]`,
			wantCalls: 1,
			wantErr:   ErrEmptySummary,
		},
		{
			name:      "blank summary",
			status:    http.StatusOK,
			body:      `[{"summary_text":"   "}]`,
			wantCalls: 1,
			wantErr:   ErrEmptySummary,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls atomic.Int32
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				calls.Add(1)
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			hf := NewHuggingFace(srv.URL, "", "", testOptions(&fakeMetrics{})...)

			_, err := hf.Summarize(context.Background(), "text", entity.DefaultSummaryOptions())

			require.Error(t, err)
			assert.Equal(t, tt.wantCalls, calls.Load())
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			var httpErr *retry.HTTPError
			require.ErrorAs(t, err, &httpErr)
			assert.Equal(t, tt.wantStatus, httpErr.StatusCode)
			assert.Equal(t, tt.wantMsg, httpErr.Message)
		})
	}
}

func TestHuggingFace_ConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	hf := NewHuggingFace(url, "", "", testOptions(&fakeMetrics{})...)

	_, err := hf.Summarize(context.Background(), "text", entity.DefaultSummaryOptions())

	assert.Error(t, err)
}

func TestHuggingFace_ReportsRetryAfter(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Header().Set("Retry-After", "7")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":"rate limited"}`))
	}))
	defer srv.Close()

	hf := NewHuggingFace(srv.URL, "", "", testOptions(&fakeMetrics{})...)

	_, err := hf.Summarize(context.Background(), "text", entity.DefaultSummaryOptions())

	var httpErr *retry.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, 7*time.Second, httpErr.RetryAfter)
	assert.Equal(t, int32(3), calls.Load(), "wait is capped by MaxDelay, attempts still run")
}
