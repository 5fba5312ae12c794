// Package config loads the analyzer configuration from environment variables.
// Values are parsed with caarlos0/env and checked with go-playground/validator
// so that a misconfigured process fails at startup, not on the first click.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
)

// Supported summarization providers.
const (
	ProviderHuggingFace = "huggingface"
	ProviderOpenAI      = "openai"
	ProviderClaude      = "claude"
	ProviderOllama      = "ollama"
	ProviderNoOp        = "noop"
)

// Config is the process-wide configuration.
type Config struct {
	// HTTPAddr is the listen address of the web UI.
	HTTPAddr string `env:"HTTP_ADDR" envDefault:":8080" validate:"required"`

	// ShutdownTimeout bounds graceful shutdown of the HTTP server.
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"5s" validate:"gt=0"`

	// MaxUploadBytes caps request bodies at the transport level.
	// The input assembler itself reads uploads in full.
	MaxUploadBytes int64 `env:"MAX_UPLOAD_BYTES" envDefault:"33554432" validate:"gt=0"`

	// AnalyzeRatePerSec and AnalyzeBurst configure the token bucket in front of /analyze.
	AnalyzeRatePerSec float64 `env:"ANALYZE_RATE_PER_SEC" envDefault:"2" validate:"gt=0"`
	AnalyzeBurst      int     `env:"ANALYZE_BURST" envDefault:"5" validate:"gte=1"`

	// TrustedProxies lists CIDRs or IPs whose X-Forwarded-For and X-Real-IP
	// headers are believed. Empty means rate limiting keys on the peer address.
	TrustedProxies []string `env:"TRUSTED_PROXIES" envSeparator:"," validate:"dive,cidr|ip"`

	// ResultDir is the base directory for result files.
	ResultDir string `env:"RESULT_DIR" envDefault:"." validate:"required"`

	// TokenEstimate enables tiktoken estimates of the forwarded text.
	// The encoding is downloaded on first use.
	TokenEstimate bool `env:"TOKEN_ESTIMATE" envDefault:"true"`

	Log        LogConfig
	Summarizer SummarizerConfig
}

// LogConfig configures the slog handler.
type LogConfig struct {
	Level  string `env:"LOG_LEVEL" envDefault:"info" validate:"oneof=debug info warn error"`
	Format string `env:"LOG_FORMAT" envDefault:"json" validate:"oneof=json text"`
	// File enables an additional rotating log file.
	File string `env:"LOG_FILE"`
}

// SummarizerConfig selects and configures the summarization provider.
type SummarizerConfig struct {
	Provider string `env:"SUMMARIZER_PROVIDER" envDefault:"huggingface" validate:"oneof=huggingface openai claude ollama noop"`
	// Model overrides the provider's default model.
	Model   string        `env:"SUMMARIZER_MODEL"`
	Timeout time.Duration `env:"SUMMARIZER_TIMEOUT" envDefault:"60s" validate:"gt=0"`

	HuggingFaceURL   string `env:"HF_API_URL" envDefault:"https://router.huggingface.co/hf-inference/models" validate:"required,url"`
	HuggingFaceToken string `env:"HF_API_TOKEN"`

	OpenAIAPIKey  string `env:"OPENAI_API_KEY" validate:"required_if=Provider openai"`
	OpenAIBaseURL string `env:"OPENAI_BASE_URL" validate:"omitempty,url"`

	AnthropicAPIKey  string `env:"ANTHROPIC_API_KEY" validate:"required_if=Provider claude"`
	AnthropicBaseURL string `env:"ANTHROPIC_BASE_URL" validate:"omitempty,url"`

	OllamaHost string `env:"OLLAMA_HOST" envDefault:"http://127.0.0.1:11434" validate:"required,url"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Load reads the configuration from the process environment.
func Load() (*Config, error) {
	return parse(env.Options{})
}

// LoadFrom reads the configuration from the given variables instead of the
// process environment. Unset variables take their defaults.
func LoadFrom(environ map[string]string) (*Config, error) {
	return parse(env.Options{Environment: environ})
}

func parse(opts env.Options) (*Config, error) {
	cfg, err := env.ParseAsWithOptions[Config](opts)
	if err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks every field against its validation tag.
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("validate config: %w", err)
	}

	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		msg := fmt.Sprintf("%s failed %q", fe.Namespace(), fe.Tag())
		if fe.Param() != "" {
			msg += fmt.Sprintf(" (%s)", fe.Param())
		}
		msgs = append(msgs, msg)
	}

	return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
}

// SlogLevel maps the configured level name to a slog.Level.
func (l LogConfig) SlogLevel() slog.Level {
	switch l.Level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
