package config_test

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"text-analyzer/internal/config"
)

func TestLoadFrom_Defaults(t *testing.T) {
	cfg, err := config.LoadFrom(map[string]string{})
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, 5*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, int64(32<<20), cfg.MaxUploadBytes)
	assert.Equal(t, 2.0, cfg.AnalyzeRatePerSec)
	assert.Equal(t, 5, cfg.AnalyzeBurst)
	assert.Equal(t, ".", cfg.ResultDir)
	assert.True(t, cfg.TokenEstimate)
	assert.Empty(t, cfg.TrustedProxies)

	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Empty(t, cfg.Log.File)

	assert.Equal(t, config.ProviderHuggingFace, cfg.Summarizer.Provider)
	assert.Equal(t, 60*time.Second, cfg.Summarizer.Timeout)
	assert.Equal(t, "https://router.huggingface.co/hf-inference/models", cfg.Summarizer.HuggingFaceURL)
	assert.Equal(t, "http://127.0.0.1:11434", cfg.Summarizer.OllamaHost)
}

func TestLoadFrom_Overrides(t *testing.T) {
	cfg, err := config.LoadFrom(map[string]string{
		"HTTP_ADDR":            "127.0.0.1:9000",
		"RESULT_DIR":           "/var/lib/analyzer",
		"LOG_LEVEL":            "debug",
		"LOG_FORMAT":           "text",
		"SUMMARIZER_PROVIDER":  "openai",
		"SUMMARIZER_MODEL":     "gpt-4o-mini",
		"SUMMARIZER_TIMEOUT":   "15s",
		"OPENAI_API_KEY":       "sk-test",
		"ANALYZE_RATE_PER_SEC": "0.5",
		"ANALYZE_BURST":        "1",
		"TOKEN_ESTIMATE":       "false",
		"TRUSTED_PROXIES":      "10.0.0.0/8,192.168.1.1",
	})
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:9000", cfg.HTTPAddr)
	assert.Equal(t, "/var/lib/analyzer", cfg.ResultDir)
	assert.Equal(t, slog.LevelDebug, cfg.Log.SlogLevel())
	assert.Equal(t, "text", cfg.Log.Format)
	assert.Equal(t, config.ProviderOpenAI, cfg.Summarizer.Provider)
	assert.Equal(t, "gpt-4o-mini", cfg.Summarizer.Model)
	assert.Equal(t, 15*time.Second, cfg.Summarizer.Timeout)
	assert.Equal(t, 0.5, cfg.AnalyzeRatePerSec)
	assert.Equal(t, 1, cfg.AnalyzeBurst)
	assert.False(t, cfg.TokenEstimate)
	assert.Equal(t, []string{"10.0.0.0/8", "192.168.1.1"}, cfg.TrustedProxies)
}

func TestLoadFrom_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		environ map[string]string
		wantErr string
	}{
		{
			name:    "unknown provider",
			environ: map[string]string{"SUMMARIZER_PROVIDER": "gpt2-local"},
			wantErr: "Provider",
		},
		{
			name:    "openai without key",
			environ: map[string]string{"SUMMARIZER_PROVIDER": "openai"},
			wantErr: "OpenAIAPIKey",
		},
		{
			name:    "claude without key",
			environ: map[string]string{"SUMMARIZER_PROVIDER": "claude"},
			wantErr: "AnthropicAPIKey",
		},
		{
			name:    "bad log level",
			environ: map[string]string{"LOG_LEVEL": "verbose"},
			wantErr: "Level",
		},
		{
			name:    "zero burst",
			environ: map[string]string{"ANALYZE_BURST": "0"},
			wantErr: "AnalyzeBurst",
		},
		{
			name:    "unparsable duration",
			environ: map[string]string{"SUMMARIZER_TIMEOUT": "soon"},
			wantErr: "parse environment",
		},
		{
			name:    "invalid hugging face url",
			environ: map[string]string{"HF_API_URL": "not a url"},
			wantErr: "HuggingFaceURL",
		},
		{
			name:    "invalid trusted proxy",
			environ: map[string]string{"TRUSTED_PROXIES": "10.0.0.0/8,proxy.internal"},
			wantErr: "TrustedProxies",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := config.LoadFrom(tt.environ)

			require.Error(t, err)
			assert.Nil(t, cfg)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoad_ReadsProcessEnvironment(t *testing.T) {
	t.Setenv("SUMMARIZER_PROVIDER", "noop")
	t.Setenv("RESULT_DIR", t.TempDir())

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, config.ProviderNoOp, cfg.Summarizer.Provider)
}

func TestLogConfig_SlogLevel(t *testing.T) {
	tests := []struct {
		level string
		want  slog.Level
	}{
		{level: "debug", want: slog.LevelDebug},
		{level: "info", want: slog.LevelInfo},
		{level: "warn", want: slog.LevelWarn},
		{level: "error", want: slog.LevelError},
		{level: "", want: slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			assert.Equal(t, tt.want, config.LogConfig{Level: tt.level}.SlogLevel())
		})
	}
}
