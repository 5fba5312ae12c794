// Package csp builds Content-Security-Policy header values.
//
//	policy := csp.NewCSPBuilder().
//	    DefaultSrc("'self'").
//	    ObjectSrc("'none'").
//	    Build()
//	// "default-src 'self'; object-src 'none'"
package csp

import (
	"fmt"
	"strings"
)

// directiveOrder fixes the output order so headers are stable.
var directiveOrder = []string{
	"default-src",
	"script-src",
	"style-src",
	"img-src",
	"connect-src",
	"frame-ancestors",
	"form-action",
	"base-uri",
	"object-src",
}

// CSPBuilder assembles a policy. It is not safe for concurrent mutation;
// build a policy once and share only the resulting string.
type CSPBuilder struct {
	directives map[string][]string
	reportOnly bool
}

// NewCSPBuilder returns an empty policy.
func NewCSPBuilder() *CSPBuilder {
	return &CSPBuilder{directives: make(map[string][]string)}
}

func (b *CSPBuilder) set(directive string, sources []string) *CSPBuilder {
	b.directives[directive] = sources
	return b
}

// DefaultSrc sets the fallback for all fetch directives.
func (b *CSPBuilder) DefaultSrc(sources ...string) *CSPBuilder {
	return b.set("default-src", sources)
}

// ScriptSrc restricts where scripts may load from.
func (b *CSPBuilder) ScriptSrc(sources ...string) *CSPBuilder {
	return b.set("script-src", sources)
}

func (b *CSPBuilder) StyleSrc(sources ...string) *CSPBuilder {
	return b.set("style-src", sources)
}

func (b *CSPBuilder) ImgSrc(sources ...string) *CSPBuilder {
	return b.set("img-src", sources)
}

// ConnectSrc restricts fetch and XHR targets.
func (b *CSPBuilder) ConnectSrc(sources ...string) *CSPBuilder {
	return b.set("connect-src", sources)
}

// FrameAncestors controls who may embed the page.
func (b *CSPBuilder) FrameAncestors(sources ...string) *CSPBuilder {
	return b.set("frame-ancestors", sources)
}

func (b *CSPBuilder) FormAction(sources ...string) *CSPBuilder {
	return b.set("form-action", sources)
}

func (b *CSPBuilder) BaseURI(sources ...string) *CSPBuilder {
	return b.set("base-uri", sources)
}

func (b *CSPBuilder) ObjectSrc(sources ...string) *CSPBuilder {
	return b.set("object-src", sources)
}

// ReportOnly switches the header to report-only mode.
func (b *CSPBuilder) ReportOnly(enabled bool) *CSPBuilder {
	b.reportOnly = enabled
	return b
}

// Build renders the header value. Directives without sources are omitted.
func (b *CSPBuilder) Build() string {
	parts := make([]string, 0, len(directiveOrder))
	for _, d := range directiveOrder {
		if sources := b.directives[d]; len(sources) > 0 {
			parts = append(parts, fmt.Sprintf("%s %s", d, strings.Join(sources, " ")))
		}
	}
	return strings.Join(parts, "; ")
}

// HeaderName returns the enforcing or report-only header name.
func (b *CSPBuilder) HeaderName() string {
	if b.reportOnly {
		return "Content-Security-Policy-Report-Only"
	}
	return "Content-Security-Policy"
}

// PagePolicy allows the analyzer page to load its own script, styles and
// to call its own endpoints, and nothing else.
func PagePolicy() *CSPBuilder {
	return NewCSPBuilder().
		DefaultSrc("'self'").
		ScriptSrc("'self'").
		StyleSrc("'self'").
		ImgSrc("'self'", "data:").
		ConnectSrc("'self'").
		FrameAncestors("'none'").
		FormAction("'self'").
		BaseURI("'self'").
		ObjectSrc("'none'")
}

// StrictPolicy suits JSON and file responses that never render content.
func StrictPolicy() *CSPBuilder {
	return NewCSPBuilder().
		DefaultSrc("'none'").
		FrameAncestors("'none'").
		BaseURI("'none'").
		FormAction("'none'")
}
