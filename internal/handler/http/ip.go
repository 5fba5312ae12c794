package http

import (
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"net/netip"
	"strings"
)

// IPExtractor resolves the client IP a request is accounted to.
type IPExtractor interface {
	ExtractIP(r *http.Request) string
}

// RemoteAddrExtractor uses the TCP peer address and ignores proxy headers.
type RemoteAddrExtractor struct{}

// ExtractIP returns the host part of r.RemoteAddr.
func (RemoteAddrExtractor) ExtractIP(r *http.Request) string {
	return remoteHost(r.RemoteAddr)
}

// TrustedProxyExtractor honours X-Forwarded-For and X-Real-IP only when the
// peer is one of the configured proxies. Anyone else gets their RemoteAddr.
type TrustedProxyExtractor struct {
	proxies []netip.Prefix
	logger  *slog.Logger
}

// NewTrustedProxyExtractor builds an extractor for the given proxy prefixes.
// With no prefixes it behaves like RemoteAddrExtractor.
func NewTrustedProxyExtractor(proxies []netip.Prefix, logger *slog.Logger) *TrustedProxyExtractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &TrustedProxyExtractor{proxies: proxies, logger: logger}
}

// ExtractIP returns the forwarded client IP for trusted peers and the peer
// address otherwise.
func (e *TrustedProxyExtractor) ExtractIP(r *http.Request) string {
	peer := remoteHost(r.RemoteAddr)
	if len(e.proxies) == 0 {
		return peer
	}

	forwarded := r.Header.Get("X-Forwarded-For") != "" || r.Header.Get("X-Real-IP") != ""
	if !e.trusted(peer) {
		if forwarded {
			e.logger.Warn("untrusted peer sent forwarding headers",
				slog.String("remote_addr", r.RemoteAddr),
				slog.String("x_forwarded_for", r.Header.Get("X-Forwarded-For")),
			)
		}
		return peer
	}

	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		if ip, err := netip.ParseAddr(strings.TrimSpace(first)); err == nil {
			return ip.Unmap().String()
		}
	}

	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		if ip, err := netip.ParseAddr(strings.TrimSpace(xri)); err == nil {
			return ip.Unmap().String()
		}
	}

	return peer
}

func (e *TrustedProxyExtractor) trusted(peer string) bool {
	addr, err := netip.ParseAddr(peer)
	if err != nil {
		return false
	}
	addr = addr.Unmap()
	for _, p := range e.proxies {
		if p.Contains(addr) {
			return true
		}
	}
	return false
}

// ParseTrustedProxies turns CIDRs or bare IPs into prefixes. A bare IP
// becomes a /32 or /128.
func ParseTrustedProxies(values []string) ([]netip.Prefix, error) {
	prefixes := make([]netip.Prefix, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}

		if strings.Contains(v, "/") {
			p, err := netip.ParsePrefix(v)
			if err != nil {
				return nil, fmt.Errorf("invalid trusted proxy CIDR %q: %w", v, err)
			}
			prefixes = append(prefixes, p.Masked())
			continue
		}

		addr, err := netip.ParseAddr(v)
		if err != nil {
			return nil, fmt.Errorf("invalid trusted proxy IP %q: %w", v, err)
		}
		addr = addr.Unmap()
		prefixes = append(prefixes, netip.PrefixFrom(addr, addr.BitLen()))
	}
	return prefixes, nil
}

func remoteHost(remoteAddr string) string {
	host, _, err := net.SplitHostPort(remoteAddr)
	if err != nil {
		return remoteAddr
	}
	return host
}
