package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace"

	"text-analyzer/internal/config"
	"text-analyzer/internal/handler/http/requestid"
)

func decodeLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var entry map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry))
	return entry
}

func TestNew_Levels(t *testing.T) {
	tests := []struct {
		name      string
		level     string
		debugSeen bool
		infoSeen  bool
	}{
		{name: "debug", level: "debug", debugSeen: true, infoSeen: true},
		{name: "info", level: "info", debugSeen: false, infoSeen: true},
		{name: "error", level: "error", debugSeen: false, infoSeen: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger, closeFn := New(config.LogConfig{Level: tt.level, Format: "json"}, &buf)
			defer func() { _ = closeFn() }()

			logger.Debug("debug line")
			logger.Info("info line")

			out := buf.String()
			assert.Equal(t, tt.debugSeen, strings.Contains(out, "debug line"))
			assert.Equal(t, tt.infoSeen, strings.Contains(out, "info line"))
		})
	}
}

func TestNew_Formats(t *testing.T) {
	var jsonBuf bytes.Buffer
	logger, _ := New(config.LogConfig{Level: "info", Format: "json"}, &jsonBuf)
	logger.Info("hello", slog.Int("words", 3))

	entry := decodeLine(t, &jsonBuf)
	assert.Equal(t, "hello", entry["msg"])
	assert.Equal(t, float64(3), entry["words"])

	var textBuf bytes.Buffer
	logger, _ = New(config.LogConfig{Level: "info", Format: "text"}, &textBuf)
	logger.Info("hello", slog.Int("words", 3))

	assert.Contains(t, textBuf.String(), "msg=hello")
	assert.Contains(t, textBuf.String(), "words=3")
}

func TestNew_WritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "analyzer.log")

	var buf bytes.Buffer
	logger, closeFn := New(config.LogConfig{Level: "info", Format: "json", File: path}, &buf)
	logger.Info("to both sinks")
	require.NoError(t, closeFn())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "to both sinks")
	assert.Contains(t, buf.String(), "to both sinks")
}

func TestWithRequestID(t *testing.T) {
	tests := []struct {
		name      string
		ctx       context.Context
		wantField bool
	}{
		{name: "with request id", ctx: requestid.WithRequestID(context.Background(), "req-123"), wantField: true},
		{name: "without request id", ctx: context.Background(), wantField: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			base := slog.New(slog.NewJSONHandler(&buf, nil))

			WithRequestID(tt.ctx, base).Info("line")

			entry := decodeLine(t, &buf)
			if tt.wantField {
				assert.Equal(t, "req-123", entry["request_id"])
			} else {
				assert.NotContains(t, entry, "request_id")
			}
		})
	}
}

func TestFromRequest_AddsTraceID(t *testing.T) {
	traceID, err := trace.TraceIDFromHex("4bf92f3577b34da6a3ce929d0e0e4736")
	require.NoError(t, err)
	spanID, err := trace.SpanIDFromHex("00f067aa0ba902b7")
	require.NoError(t, err)

	sc := trace.NewSpanContext(trace.SpanContextConfig{TraceID: traceID, SpanID: spanID})
	ctx := trace.ContextWithSpanContext(context.Background(), sc)
	ctx = requestid.WithRequestID(ctx, "req-9")

	var buf bytes.Buffer
	FromRequest(ctx, slog.New(slog.NewJSONHandler(&buf, nil))).Info("line")

	entry := decodeLine(t, &buf)
	assert.Equal(t, "req-9", entry["request_id"])
	assert.Equal(t, "4bf92f3577b34da6a3ce929d0e0e4736", entry["trace_id"])
}

func TestContextLogger(t *testing.T) {
	assert.Equal(t, slog.Default(), FromContext(context.Background()))

	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	ctx := WithLogger(context.Background(), logger)
	assert.Same(t, logger, FromContext(ctx))
}
