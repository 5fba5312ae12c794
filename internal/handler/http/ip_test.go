package http

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/netip"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRemoteAddrExtractor(t *testing.T) {
	tests := []struct {
		name       string
		remoteAddr string
		headers    map[string]string
		want       string
	}{
		{name: "ipv4", remoteAddr: "192.168.1.1:12345", want: "192.168.1.1"},
		{name: "ipv6", remoteAddr: "[2001:db8::1]:443", want: "2001:db8::1"},
		{name: "no port", remoteAddr: "192.168.1.7", want: "192.168.1.7"},
		{name: "headers ignored", remoteAddr: "192.168.1.1:80", headers: map[string]string{"X-Forwarded-For": "203.0.113.5", "X-Real-IP": "203.0.113.9"}, want: "192.168.1.1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remoteAddr
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			assert.Equal(t, tt.want, RemoteAddrExtractor{}.ExtractIP(req))
		})
	}
}

func TestTrustedProxyExtractor(t *testing.T) {
	proxies, err := ParseTrustedProxies([]string{"10.0.0.0/8", "2001:db8::1"})
	require.NoError(t, err)

	tests := []struct {
		name       string
		proxies    []netip.Prefix
		remoteAddr string
		headers    map[string]string
		want       string
	}{
		{name: "no proxies configured", remoteAddr: "10.0.0.1:80", headers: map[string]string{"X-Forwarded-For": "203.0.113.5"}, want: "10.0.0.1"},
		{name: "untrusted peer forwarded for", proxies: proxies, remoteAddr: "203.0.113.7:5000", headers: map[string]string{"X-Forwarded-For": "10.9.9.9"}, want: "203.0.113.7"},
		{name: "untrusted peer real ip", proxies: proxies, remoteAddr: "203.0.113.7:5000", headers: map[string]string{"X-Real-IP": "10.9.9.9"}, want: "203.0.113.7"},
		{name: "trusted forwarded for first hop", proxies: proxies, remoteAddr: "10.0.0.1:80", headers: map[string]string{"X-Forwarded-For": "203.0.113.5, 10.0.0.1"}, want: "203.0.113.5"},
		{name: "trusted real ip", proxies: proxies, remoteAddr: "10.0.0.1:80", headers: map[string]string{"X-Real-IP": "203.0.113.9"}, want: "203.0.113.9"},
		{name: "trusted garbage forwarded for falls through", proxies: proxies, remoteAddr: "10.0.0.1:80", headers: map[string]string{"X-Forwarded-For": "not-an-ip"}, want: "10.0.0.1"},
		{name: "trusted without headers", proxies: proxies, remoteAddr: "10.0.0.1:80", want: "10.0.0.1"},
		{name: "trusted ipv6 peer", proxies: proxies, remoteAddr: "[2001:db8::1]:443", headers: map[string]string{"X-Forwarded-For": "198.51.100.4"}, want: "198.51.100.4"},
		{name: "ipv6 outside single host prefix", proxies: proxies, remoteAddr: "[2001:db8::2]:443", headers: map[string]string{"X-Forwarded-For": "198.51.100.4"}, want: "2001:db8::2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remoteAddr
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			e := NewTrustedProxyExtractor(tt.proxies, discardLogger())
			assert.Equal(t, tt.want, e.ExtractIP(req))
		})
	}
}

func TestTrustedProxyExtractor_WarnsOnUntrustedHeaders(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))
	proxies, err := ParseTrustedProxies([]string{"10.0.0.1"})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "203.0.113.7:5000"
	req.Header.Set("X-Forwarded-For", "10.9.9.9")

	assert.Equal(t, "203.0.113.7", NewTrustedProxyExtractor(proxies, logger).ExtractIP(req))
	assert.Contains(t, buf.String(), "untrusted peer sent forwarding headers")
}

func TestParseTrustedProxies(t *testing.T) {
	tests := []struct {
		name    string
		values  []string
		want    []netip.Prefix
		wantErr bool
	}{
		{name: "empty", values: nil, want: []netip.Prefix{}},
		{name: "cidr", values: []string{"10.0.0.0/8"}, want: []netip.Prefix{netip.MustParsePrefix("10.0.0.0/8")}},
		{name: "cidr is masked", values: []string{"10.1.2.3/8"}, want: []netip.Prefix{netip.MustParsePrefix("10.0.0.0/8")}},
		{name: "ipv4 host", values: []string{" 192.168.1.1 "}, want: []netip.Prefix{netip.MustParsePrefix("192.168.1.1/32")}},
		{name: "ipv6 host", values: []string{"2001:db8::1"}, want: []netip.Prefix{netip.MustParsePrefix("2001:db8::1/128")}},
		{name: "blank entries skipped", values: []string{"", "10.0.0.1"}, want: []netip.Prefix{netip.MustParsePrefix("10.0.0.1/32")}},
		{name: "bad cidr", values: []string{"10.0.0.0/33"}, wantErr: true},
		{name: "hostname", values: []string{"proxy.internal"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseTrustedProxies(tt.values)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRateLimiter_IgnoresSpoofedForwardingHeaders(t *testing.T) {
	tests := []struct {
		name    string
		proxies []string
	}{
		{name: "no trusted proxies"},
		{name: "peer not a trusted proxy", proxies: []string{"10.0.0.0/8"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			proxies, err := ParseTrustedProxies(tt.proxies)
			require.NoError(t, err)
			rl := NewRateLimiter(0.001, 1, NewTrustedProxyExtractor(proxies, discardLogger()))
			h := rl.Limit(okHandler())

			allowed := 0
			for i := 0; i < 50; i++ {
				req := httptest.NewRequest(http.MethodPost, "/analyze", nil)
				req.RemoteAddr = fmt.Sprintf("203.0.113.7:%d", 40000+i)
				req.Header.Set("X-Forwarded-For", fmt.Sprintf("10.0.0.%d", i))
				req.Header.Set("X-Real-IP", fmt.Sprintf("10.0.1.%d", i))
				rec := httptest.NewRecorder()
				h.ServeHTTP(rec, req)
				if rec.Code == http.StatusOK {
					allowed++
				}
			}

			assert.Equal(t, 1, allowed)
			assert.Equal(t, 1, rl.Clients())
		})
	}
}

func TestRateLimiter_TrustedProxyKeysOnForwardedClient(t *testing.T) {
	proxies, err := ParseTrustedProxies([]string{"10.0.0.1"})
	require.NoError(t, err)
	rl := NewRateLimiter(0.001, 1, NewTrustedProxyExtractor(proxies, discardLogger()))
	h := rl.Limit(okHandler())

	codes := make([]int, 0, 3)
	for _, ip := range []string{"203.0.113.5", "203.0.113.6", "203.0.113.5"} {
		req := httptest.NewRequest(http.MethodPost, "/analyze", nil)
		req.RemoteAddr = "10.0.0.1:8080"
		req.Header.Set("X-Forwarded-For", ip)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
	}

	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
	assert.Equal(t, 2, rl.Clients())
}
