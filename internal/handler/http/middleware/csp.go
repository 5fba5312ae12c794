// Package middleware holds response-policy middleware for the web UI.
package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"text-analyzer/pkg/security/csp"
)

// CSPMiddlewareConfig selects a Content-Security-Policy per path prefix.
type CSPMiddlewareConfig struct {
	Enabled bool

	// DefaultPolicy applies when no PathPolicies prefix matches.
	DefaultPolicy *csp.CSPBuilder

	// PathPolicies maps path prefixes to policies. The longest prefix wins.
	PathPolicies map[string]*csp.CSPBuilder

	ReportOnly bool
}

type renderedPolicy struct {
	header string
	value  string
}

// CSPMiddleware sets the Content-Security-Policy header.
// Policies are rendered once at construction.
type CSPMiddleware struct {
	enabled  bool
	fallback *renderedPolicy
	prefixes []string
	byPrefix map[string]*renderedPolicy
}

// NewCSPMiddleware renders the configured policies.
//
//	cspMW := middleware.NewCSPMiddleware(middleware.CSPMiddlewareConfig{
//	    Enabled:       true,
//	    DefaultPolicy: csp.StrictPolicy(),
//	    PathPolicies:  map[string]*csp.CSPBuilder{"/": csp.PagePolicy()},
//	})
func NewCSPMiddleware(cfg CSPMiddlewareConfig) *CSPMiddleware {
	m := &CSPMiddleware{
		enabled:  cfg.Enabled,
		fallback: render(cfg.DefaultPolicy, cfg.ReportOnly),
		byPrefix: make(map[string]*renderedPolicy, len(cfg.PathPolicies)),
	}
	for prefix, p := range cfg.PathPolicies {
		if rp := render(p, cfg.ReportOnly); rp != nil {
			m.byPrefix[prefix] = rp
			m.prefixes = append(m.prefixes, prefix)
		}
	}
	return m
}

func render(p *csp.CSPBuilder, reportOnly bool) *renderedPolicy {
	if p == nil {
		return nil
	}
	value := p.Build()
	if value == "" {
		return nil
	}
	header := p.HeaderName()
	if reportOnly {
		header = "Content-Security-Policy-Report-Only"
	}
	return &renderedPolicy{header: header, value: value}
}

// Middleware returns the handler decorator.
func (m *CSPMiddleware) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if m.enabled {
				if p := m.selectPolicy(r.URL.Path); p != nil {
					w.Header().Set(p.header, p.value)
					slog.Debug("csp header applied",
						slog.String("path", r.URL.Path),
						slog.String("header", p.header))
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// selectPolicy returns the policy with the longest matching prefix.
// A prefix of exactly "/" matches only the root path.
func (m *CSPMiddleware) selectPolicy(path string) *renderedPolicy {
	best := ""
	for _, prefix := range m.prefixes {
		if !matches(path, prefix) {
			continue
		}
		if len(prefix) > len(best) {
			best = prefix
		}
	}
	if best != "" {
		return m.byPrefix[best]
	}
	return m.fallback
}

func matches(path, prefix string) bool {
	if prefix == "/" {
		return path == "/"
	}
	return strings.HasPrefix(path, prefix)
}
