package summarizer

import (
	"fmt"

	"text-analyzer/internal/config"
)

// CircuitReporter is implemented by backends guarded by a circuit breaker.
type CircuitReporter interface {
	CircuitState() string
}

// New builds the backend selected by cfg.Provider.
func New(cfg config.SummarizerConfig, opts ...Option) (Summarizer, error) {
	opts = append([]Option{WithTimeout(cfg.Timeout)}, opts...)

	switch cfg.Provider {
	case config.ProviderHuggingFace, "":
		return NewHuggingFace(cfg.HuggingFaceURL, cfg.HuggingFaceToken, cfg.Model, opts...), nil
	case config.ProviderOpenAI:
		if cfg.OpenAIAPIKey == "" {
			return nil, fmt.Errorf("openai summarizer requires OPENAI_API_KEY")
		}
		return NewOpenAI(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, cfg.Model, opts...), nil
	case config.ProviderClaude:
		if cfg.AnthropicAPIKey == "" {
			return nil, fmt.Errorf("claude summarizer requires ANTHROPIC_API_KEY")
		}
		return NewClaude(cfg.AnthropicAPIKey, cfg.AnthropicBaseURL, cfg.Model, opts...), nil
	case config.ProviderOllama:
		return NewOllama(cfg.OllamaHost, cfg.Model, opts...)
	case config.ProviderNoOp:
		return NewNoOp(), nil
	default:
		return nil, fmt.Errorf("unknown summarizer provider %q", cfg.Provider)
	}
}
