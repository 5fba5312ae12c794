// Package retry provides retry logic with exponential backoff and jitter.
// Only transient failures (timeouts, refused connections, 5xx, 429, 408) are retried.
package retry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"net"
	"net/http"
	"strconv"
	"strings"
	"syscall"
	"time"
)

// Config holds the configuration for retry logic.
type Config struct {
	// MaxAttempts counts every call, including the first one.
	MaxAttempts int

	InitialDelay time.Duration
	MaxDelay     time.Duration

	// Multiplier grows the delay after each failed attempt.
	Multiplier float64

	// JitterFraction adds up to this fraction of the delay at random (0.0 to 1.0).
	JitterFraction float64
}

// SummarizerConfig returns the configuration for model inference calls.
// Few attempts: the user is waiting on the page for the answer.
func SummarizerConfig() Config {
	return Config{
		MaxAttempts:    2,
		InitialDelay:   2 * time.Second,
		MaxDelay:       10 * time.Second,
		Multiplier:     2.0,
		JitterFraction: 0.1,
	}
}

// schedule produces the wait before each retry.
type schedule struct {
	cfg  Config
	base time.Duration
}

// next returns the wait after err and advances the exponential base.
// A server-provided Retry-After longer than the base wins, capped at MaxDelay.
func (s *schedule) next(err error) time.Duration {
	wait := s.base

	var httpErr *HTTPError
	if errors.As(err, &httpErr) && httpErr.RetryAfter > wait {
		wait = httpErr.RetryAfter
	}
	if s.cfg.MaxDelay > 0 {
		wait = min(wait, s.cfg.MaxDelay)
	}

	grown := time.Duration(float64(s.base) * s.cfg.Multiplier)
	if s.cfg.MaxDelay > 0 {
		grown = min(grown, s.cfg.MaxDelay)
	}
	s.base = grown

	return addJitter(wait, s.cfg.JitterFraction)
}

// WithBackoff calls fn until it succeeds, fails permanently, or MaxAttempts is reached.
// Cancelling ctx aborts the wait between attempts.
func WithBackoff(ctx context.Context, cfg Config, fn func() error) error {
	sched := &schedule{cfg: cfg, base: cfg.InitialDelay}

	var err error
	for attempt := 1; ; attempt++ {
		if err = fn(); err == nil {
			if attempt > 1 {
				slog.InfoContext(ctx, "operation succeeded after retry", slog.Int("attempt", attempt))
			}
			return nil
		}

		if !IsRetryable(err) {
			return err
		}
		if attempt >= cfg.MaxAttempts {
			return fmt.Errorf("max retry attempts (%d) exceeded: %w", cfg.MaxAttempts, err)
		}

		wait := sched.next(err)
		slog.WarnContext(ctx, "operation failed, retrying",
			slog.Int("attempt", attempt),
			slog.Int("max_attempts", cfg.MaxAttempts),
			slog.Duration("delay", wait),
			slog.Any("error", err))

		if err := sleep(ctx, wait); err != nil {
			return fmt.Errorf("retry aborted: %w", err)
		}
	}
}

func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// IsRetryable reports whether err is a transient failure.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	for _, errno := range []syscall.Errno{syscall.ECONNREFUSED, syscall.ECONNRESET, syscall.ETIMEDOUT, syscall.ENETUNREACH} {
		if errors.Is(err, errno) {
			return true
		}
	}

	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		code := httpErr.StatusCode
		return code >= 500 && code < 600 ||
			code == http.StatusTooManyRequests ||
			code == http.StatusRequestTimeout
	}

	return false
}

// HTTPError represents a provider failure with an HTTP status code.
// Providers translate their SDK error types into HTTPError so that
// retry decisions do not depend on any particular SDK.
type HTTPError struct {
	StatusCode int
	Message    string
	// RetryAfter is the server's requested wait, zero when absent.
	RetryAfter time.Duration
	Err        error
}

// Error implements the error interface.
func (e *HTTPError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Message)
}

// Unwrap returns the SDK error, if any.
func (e *HTTPError) Unwrap() error {
	return e.Err
}

// ParseRetryAfter reads a Retry-After header given in seconds or as an HTTP date.
// It returns zero for empty, malformed or past values.
func ParseRetryAfter(header string, now time.Time) time.Duration {
	header = strings.TrimSpace(header)
	if header == "" {
		return 0
	}
	if secs, err := strconv.Atoi(header); err == nil {
		if secs <= 0 {
			return 0
		}
		return time.Duration(secs) * time.Second
	}
	if at, err := http.ParseTime(header); err == nil && at.After(now) {
		return at.Sub(now)
	}
	return 0
}

func addJitter(duration time.Duration, jitterFraction float64) time.Duration {
	if jitterFraction <= 0 {
		return duration
	}
	jitterFraction = min(jitterFraction, 1.0)
	// #nosec G404 -- jitter does not need cryptographic randomness
	return duration + time.Duration(rand.Float64()*float64(duration)*jitterFraction)
}
