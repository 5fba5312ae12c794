// Package http wires the analyzer's web interface: middleware, health and
// metrics endpoints. Page and analysis handlers live in the analyzer subpackage.
package http

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"text-analyzer/internal/handler/http/respond"
	"text-analyzer/internal/handler/http/responsewriter"
	"text-analyzer/internal/observability/logging"
)

// Middleware decorates a handler.
type Middleware func(http.Handler) http.Handler

// Chain applies mws so that the first one is the outermost.
func Chain(h http.Handler, mws ...Middleware) http.Handler {
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	return h
}

// TraceIDHeader is set by the tracing middleware further down the chain.
const TraceIDHeader = "X-Trace-Id"

// Logging logs one line per request with request and trace IDs.
// The request-scoped logger is also stored in the context for handlers.
func Logging(logger *slog.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := responsewriter.NewRecorder(w)

			reqLogger := logging.WithRequestID(r.Context(), logger)
			r = r.WithContext(logging.WithLogger(r.Context(), reqLogger))

			next.ServeHTTP(rec, r)

			duration := time.Since(start)
			if traceID := rec.Header().Get(TraceIDHeader); traceID != "" {
				reqLogger = reqLogger.With(slog.String("trace_id", traceID))
			}
			reqLogger.Info("request completed",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.String("remote_addr", r.RemoteAddr),
				slog.String("user_agent", r.Header.Get("User-Agent")),
				slog.Int("status", rec.Status()),
				slog.Int("bytes", rec.Size()),
				slog.Duration("duration", duration),
				slog.String("duration_ms", fmt.Sprintf("%.2f", duration.Seconds()*1000)),
			)
		})
	}
}

// Recover turns a panic into a 500 response and logs the stack.
func Recover(logger *slog.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}

				respond.SafeError(w, http.StatusInternalServerError, errors.New("internal error"))
				logging.FromRequest(r.Context(), logger).Error("panic recovered",
					slog.String("method", r.Method),
					slog.String("path", r.URL.Path),
					slog.Any("panic", rec),
					slog.String("stack", string(debug.Stack())),
				)
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// LimitRequestBody caps request bodies at maxBytes.
func LimitRequestBody(maxBytes int64) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Body != nil {
				r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
			}
			next.ServeHTTP(w, r)
		})
	}
}

// SecurityHeaders sets headers every response should carry.
func SecurityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("Referrer-Policy", "same-origin")
		next.ServeHTTP(w, r)
	})
}

type client struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter applies a token bucket per client IP.
type RateLimiter struct {
	mu        sync.Mutex
	clients   map[string]*client
	rate      rate.Limit
	burst     int
	idleTTL   time.Duration
	lastClean time.Time
	now       func() time.Time
	ips       IPExtractor
}

// NewRateLimiter creates a limiter refilling rps tokens per second up to burst.
// Clients are keyed by ips; nil keys them by RemoteAddr.
func NewRateLimiter(rps float64, burst int, ips IPExtractor) *RateLimiter {
	if ips == nil {
		ips = RemoteAddrExtractor{}
	}
	return &RateLimiter{
		ips:       ips,
		clients:   make(map[string]*client),
		rate:      rate.Limit(rps),
		burst:     burst,
		idleTTL:   10 * time.Minute,
		lastClean: time.Now(),
		now:       time.Now,
	}
}

// Limit rejects requests with 429 once the client's bucket is empty.
func (rl *RateLimiter) Limit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !rl.allow(rl.ips.ExtractIP(r)) {
			retryAfter := time.Duration(float64(time.Second) / float64(rl.rate))
			w.Header().Set("Retry-After", fmt.Sprintf("%d", int(retryAfter.Seconds())+1))
			respond.SafeError(w, http.StatusTooManyRequests, errors.New("rate limit exceeded"))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Clients returns the number of tracked client buckets.
func (rl *RateLimiter) Clients() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return len(rl.clients)
}

func (rl *RateLimiter) allow(ip string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	rl.cleanupLocked(now)

	c, ok := rl.clients[ip]
	if !ok {
		c = &client{limiter: rate.NewLimiter(rl.rate, rl.burst)}
		rl.clients[ip] = c
	}
	c.lastSeen = now
	return c.limiter.AllowN(now, 1)
}

// cleanupLocked drops idle buckets at most once per idleTTL.
func (rl *RateLimiter) cleanupLocked(now time.Time) {
	if now.Sub(rl.lastClean) < rl.idleTTL {
		return
	}
	rl.lastClean = now
	for ip, c := range rl.clients {
		if now.Sub(c.lastSeen) >= rl.idleTTL {
			delete(rl.clients, ip)
		}
	}
}
