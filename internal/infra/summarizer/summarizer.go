// Package summarizer provides text summarization backends.
// It includes a Hugging Face Inference API client for the distilbart summarization
// model, chat-model adapters for OpenAI, Claude and Ollama, and an offline NoOp
// implementation. Network backends share one reliability wrapper: a per-call
// timeout, retry with backoff for transient failures and a circuit breaker.
package summarizer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"text-analyzer/internal/domain/entity"
	"text-analyzer/internal/resilience/circuitbreaker"
	"text-analyzer/internal/resilience/retry"
	"text-analyzer/internal/utils/text"
)

// Summarizer maps input text to a shorter summary.
// Implementations are created once at startup and are safe for concurrent use.
type Summarizer interface {
	Summarize(ctx context.Context, text string, opts entity.SummaryOptions) (string, error)
	// Name identifies the backend in logs, metrics and health output.
	Name() string
}

var (
	// ErrEmptySummary indicates the backend answered without any summary text.
	ErrEmptySummary = errors.New("summarizer returned an empty summary")

	// ErrUnavailable indicates the circuit breaker rejected the call.
	ErrUnavailable = errors.New("summarizer unavailable: circuit breaker open")
)

// instruction is the system prompt for chat-model backends, which have no
// native minimum length. The maximum is enforced through the token limit.
func instruction(opts entity.SummaryOptions) string {
	return fmt.Sprintf("Summarize the text sent by the user. Write plain prose of at least %d words "+
		"and keep it short enough to fit in %d tokens. Reply with the summary only.",
		opts.MinLength, opts.MaxLength)
}

// Option configures the reliability wrapper of a network backend.
type Option func(*guard)

// WithRetryConfig overrides the retry policy.
func WithRetryConfig(cfg retry.Config) Option {
	return func(g *guard) { g.retryConfig = cfg }
}

// WithCircuitBreakerConfig overrides the circuit breaker settings.
func WithCircuitBreakerConfig(cfg circuitbreaker.Config) Option {
	return func(g *guard) { g.breaker = circuitbreaker.New(cfg) }
}

// WithTimeout sets the per-call timeout. Non-positive values are ignored.
func WithTimeout(d time.Duration) Option {
	return func(g *guard) {
		if d > 0 {
			g.timeout = d
		}
	}
}

// WithMetrics replaces the Prometheus recorder, typically with a test double.
func WithMetrics(m SummaryMetricsRecorder) Option {
	return func(g *guard) { g.metrics = m }
}

const defaultTimeout = 60 * time.Second

// guard runs a backend call with timeout, retry and circuit breaking,
// and records duration and outcome metrics.
type guard struct {
	provider    string
	breaker     *circuitbreaker.CircuitBreaker
	retryConfig retry.Config
	timeout     time.Duration
	metrics     SummaryMetricsRecorder
}

func newGuard(provider string, opts ...Option) *guard {
	g := &guard{
		provider:    provider,
		breaker:     circuitbreaker.New(circuitbreaker.ProviderConfig(provider)),
		retryConfig: retry.SummarizerConfig(),
		timeout:     defaultTimeout,
		metrics:     NewPrometheusSummaryMetrics(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// CircuitState reports the breaker state ("closed", "half-open" or "open").
func (g *guard) CircuitState() string {
	return g.breaker.State()
}

// run executes call under the reliability policy. A blank answer counts as a
// failure for the breaker but is not retried.
func (g *guard) run(ctx context.Context, input string, call func(ctx context.Context) (string, error)) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	slog.DebugContext(ctx, "starting summarization",
		slog.String("provider", g.provider),
		slog.Int("input_length", text.CountRunes(input)))

	start := time.Now()
	var summary string

	err := retry.WithBackoff(ctx, g.retryConfig, func() error {
		res, err := circuitbreaker.Do(g.breaker, func() (string, error) {
			s, err := call(ctx)
			if err != nil {
				return "", err
			}
			s = strings.TrimSpace(s)
			if s == "" {
				return "", ErrEmptySummary
			}
			return s, nil
		})
		if err != nil {
			if circuitbreaker.Rejected(err) {
				slog.WarnContext(ctx, "summarizer circuit breaker open, request rejected",
					slog.String("provider", g.provider),
					slog.String("state", g.breaker.State()))
				return ErrUnavailable
			}
			return err
		}

		summary = res
		return nil
	})

	duration := time.Since(start)
	g.metrics.RecordDuration(g.provider, duration)

	if err != nil {
		g.metrics.RecordOutcome(g.provider, outcomeLabel(err))
		slog.ErrorContext(ctx, "summarization failed",
			slog.String("provider", g.provider),
			slog.Duration("duration", duration),
			slog.Any("error", err))
		return "", fmt.Errorf("%s summarize: %w", g.provider, err)
	}

	g.metrics.RecordOutcome(g.provider, "success")
	slog.InfoContext(ctx, "summarization completed",
		slog.String("provider", g.provider),
		slog.Int("summary_length", text.CountRunes(summary)),
		slog.Duration("duration", duration))

	return summary, nil
}

func outcomeLabel(err error) string {
	switch {
	case errors.Is(err, ErrUnavailable):
		return "circuit_open"
	case errors.Is(err, ErrEmptySummary):
		return "empty"
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	default:
		return "error"
	}
}

// httpError converts a provider status code into a retry.HTTPError so that
// retry decisions stay independent of the SDK in use.
func httpError(status int, message string, err error) error {
	return &retry.HTTPError{StatusCode: status, Message: message, Err: err}
}
