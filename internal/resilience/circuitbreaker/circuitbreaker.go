// Package circuitbreaker guards calls to summarization providers.
// It uses the github.com/sony/gobreaker library so a failing model endpoint
// is given time to recover instead of receiving every Analyze click.
package circuitbreaker

import (
	"errors"
	"log/slog"
	"time"

	"github.com/sony/gobreaker"
)

// Config holds the configuration for a circuit breaker.
type Config struct {
	// Name identifies the breaker in logs and health output.
	Name string

	// MaxRequests is how many trial calls pass while half-open.
	MaxRequests uint32

	// Interval clears the closed-state counts periodically. Zero never clears them.
	Interval time.Duration

	// Timeout is how long the breaker stays open before going half-open.
	Timeout time.Duration

	// FailureThreshold is the failure ratio (0.0 to 1.0) that opens the breaker.
	FailureThreshold float64

	// MinRequests is the sample size needed before the ratio is evaluated.
	MinRequests uint32
}

// ProviderConfig returns the configuration used for a summarization provider.
// Inference calls are slow and sparse, so the window is wider than for chatty APIs.
func ProviderConfig(provider string) Config {
	return Config{
		Name:             provider + "-summarizer",
		MaxRequests:      2,
		Interval:         60 * time.Second,
		Timeout:          30 * time.Second,
		FailureThreshold: 0.6,
		MinRequests:      3,
	}
}

// CircuitBreaker is a named gobreaker.CircuitBreaker that logs state changes.
type CircuitBreaker struct {
	breaker *gobreaker.CircuitBreaker
	name    string
}

// New creates a circuit breaker from cfg.
func New(cfg Config) *CircuitBreaker {
	return &CircuitBreaker{
		name: cfg.Name,
		breaker: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:        cfg.Name,
			MaxRequests: cfg.MaxRequests,
			Interval:    cfg.Interval,
			Timeout:     cfg.Timeout,
			ReadyToTrip: tripAbove(cfg.FailureThreshold, cfg.MinRequests),
			OnStateChange: func(name string, from, to gobreaker.State) {
				slog.Warn("circuit breaker state changed",
					slog.String("circuit", name),
					slog.String("from", from.String()),
					slog.String("to", to.String()))
			},
		}),
	}
}

func tripAbove(ratio float64, minRequests uint32) func(gobreaker.Counts) bool {
	return func(c gobreaker.Counts) bool {
		if c.Requests < minRequests {
			return false
		}
		return float64(c.TotalFailures)/float64(c.Requests) >= ratio
	}
}

// Do runs fn through cb and returns its typed result.
// While the breaker is open fn is not called and the error satisfies Rejected.
func Do[T any](cb *CircuitBreaker, fn func() (T, error)) (T, error) {
	var zero T
	res, err := cb.breaker.Execute(func() (any, error) {
		return fn()
	})
	if err != nil {
		return zero, err
	}
	return res.(T), nil
}

// Rejected reports whether err came from the breaker refusing the call
// rather than from the guarded function.
func Rejected(err error) bool {
	return errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests)
}

// State returns the breaker state as "closed", "half-open" or "open".
func (cb *CircuitBreaker) State() string {
	return cb.breaker.State().String()
}

// Name returns the breaker name.
func (cb *CircuitBreaker) Name() string {
	return cb.name
}

// IsOpen reports whether calls are currently refused.
func (cb *CircuitBreaker) IsOpen() bool {
	return cb.breaker.State() == gobreaker.StateOpen
}
