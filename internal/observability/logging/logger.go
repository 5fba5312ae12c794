// Package logging builds the process logger and enriches it with request context.
//
//	logger, closeLog := logging.New(cfg.Log, os.Stdout)
//	defer closeLog()
//
//	logging.FromRequest(ctx, logger).Info("analysis completed")
package logging

import (
	"context"
	"io"
	"log/slog"

	"gopkg.in/natefinch/lumberjack.v2"

	"text-analyzer/internal/config"
	"text-analyzer/internal/handler/http/requestid"
	"text-analyzer/internal/observability/tracing"
)

// Rotation settings for the optional log file.
const (
	fileMaxSizeMB  = 15
	fileMaxBackups = 3
	fileMaxAgeDays = 28
)

// New creates a structured logger writing to out and, when cfg.File is set,
// to a size-rotated log file as well. The returned function closes the file.
func New(cfg config.LogConfig, out io.Writer) (*slog.Logger, func() error) {
	closeFn := func() error { return nil }

	w := out
	if cfg.File != "" {
		file := &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    fileMaxSizeMB,
			MaxBackups: fileMaxBackups,
			MaxAge:     fileMaxAgeDays,
			Compress:   true,
		}
		w = io.MultiWriter(out, file)
		closeFn = file.Close
	}

	level := cfg.SlogLevel()
	opts := &slog.HandlerOptions{
		Level:     level,
		AddSource: level <= slog.LevelDebug,
	}

	var handler slog.Handler
	if cfg.Format == "text" {
		handler = slog.NewTextHandler(w, opts)
	} else {
		handler = slog.NewJSONHandler(w, opts)
	}

	return slog.New(handler), closeFn
}

// WithRequestID returns a logger that includes the request ID from ctx.
func WithRequestID(ctx context.Context, logger *slog.Logger) *slog.Logger {
	reqID := requestid.FromContext(ctx)
	if reqID == "" {
		return logger
	}
	return logger.With(slog.String("request_id", reqID))
}

// WithTraceID returns a logger that includes the trace ID of the active span.
func WithTraceID(ctx context.Context, logger *slog.Logger) *slog.Logger {
	traceID := tracing.TraceID(ctx)
	if traceID == "" {
		return logger
	}
	return logger.With(slog.String("trace_id", traceID))
}

// FromRequest attaches both request and trace IDs.
func FromRequest(ctx context.Context, logger *slog.Logger) *slog.Logger {
	return WithTraceID(ctx, WithRequestID(ctx, logger))
}

// FromContext retrieves the logger stored in ctx, or slog.Default.
func FromContext(ctx context.Context) *slog.Logger {
	if logger, ok := ctx.Value(loggerContextKey).(*slog.Logger); ok {
		return logger
	}
	return slog.Default()
}

// WithLogger stores logger in ctx.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerContextKey, logger)
}

type contextKey string

const loggerContextKey contextKey = "logger"
