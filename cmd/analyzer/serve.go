package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"text-analyzer/internal/config"
	hhttp "text-analyzer/internal/handler/http"
	"text-analyzer/internal/handler/http/analyzer"
	"text-analyzer/internal/handler/http/middleware"
	"text-analyzer/internal/handler/http/requestid"
	"text-analyzer/internal/infra/summarizer"
	"text-analyzer/internal/observability/tracing"
	"text-analyzer/pkg/security/csp"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the web UI",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return serve(cmd)
		},
	}
}

func serve(cmd *cobra.Command) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	a, err := newApp(cfg, os.Stdout)
	if err != nil {
		return err
	}
	defer a.close()
	slog.SetDefault(a.logger)

	shutdownTracing := tracing.Setup(tracing.InstrumentationName)
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := shutdownTracing(ctx); err != nil {
			a.logger.Error("failed to shut down tracer provider", slog.Any("error", err))
		}
	}()

	version := getVersion()
	handler, err := a.handler(version)
	if err != nil {
		return err
	}

	return runServer(cmd.Context(), a.logger, cfg, handler, version)
}

// handler registers every route and wraps the mux with the middleware chain.
func (a *app) handler(version string) (http.Handler, error) {
	page, err := analyzer.NewPage(a.svc.Provider())
	if err != nil {
		return nil, err
	}

	proxies, err := hhttp.ParseTrustedProxies(a.cfg.TrustedProxies)
	if err != nil {
		return nil, err
	}
	limiter := hhttp.NewRateLimiter(a.cfg.AnalyzeRatePerSec, a.cfg.AnalyzeBurst,
		hhttp.NewTrustedProxyExtractor(proxies, a.logger))

	mux := http.NewServeMux()
	analyzer.Register(mux, page, a.svc, a.results, limiter.Limit)

	health := &hhttp.HealthHandler{
		Provider:  a.summarizer.Name(),
		ResultDir: a.cfg.ResultDir,
		Version:   version,
	}
	if cr, ok := a.summarizer.(summarizer.CircuitReporter); ok {
		health.Circuit = cr
	}
	mux.Handle("GET /health", health)
	mux.Handle("GET /live", &hhttp.LiveHandler{})
	mux.Handle("GET /metrics", hhttp.MetricsHandler())

	cspMW := middleware.NewCSPMiddleware(middleware.CSPMiddlewareConfig{
		Enabled:       true,
		DefaultPolicy: csp.StrictPolicy(),
		PathPolicies: map[string]*csp.CSPBuilder{
			"/":        csp.PagePolicy(),
			"/static/": csp.PagePolicy(),
		},
	})

	a.logger.Info("routes registered",
		slog.String("provider", a.summarizer.Name()),
		slog.String("result_dir", a.cfg.ResultDir),
		slog.Float64("analyze_rate_per_sec", a.cfg.AnalyzeRatePerSec),
		slog.Int("analyze_burst", a.cfg.AnalyzeBurst))

	// Order, outermost first: request ID, recovery, logging, tracing,
	// body limit, response headers, metrics.
	return hhttp.Chain(mux,
		requestid.Middleware,
		hhttp.Recover(a.logger),
		hhttp.Logging(a.logger),
		tracing.Middleware,
		hhttp.LimitRequestBody(a.cfg.MaxUploadBytes),
		hhttp.SecurityHeaders,
		cspMW.Middleware(),
		hhttp.MetricsMiddleware,
	), nil
}

// runServer serves until ctx is cancelled, then shuts down gracefully.
func runServer(ctx context.Context, logger *slog.Logger, cfg *config.Config, handler http.Handler, version string) error {
	ln, err := net.Listen("tcp", cfg.HTTPAddr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", cfg.HTTPAddr, err)
	}
	return serveListener(ctx, logger, ln, handler, cfg.ShutdownTimeout, version)
}

func serveListener(ctx context.Context, logger *slog.Logger, ln net.Listener, handler http.Handler, shutdownTimeout time.Duration, version string) error {
	srv := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext: func(_ net.Listener) context.Context {
			return context.WithoutCancel(ctx)
		},
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("server starting",
			slog.String("addr", ln.Addr().String()),
			slog.String("version", version))
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	})

	// Runs on cancellation of ctx, or after Serve failed.
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		logger.Info("server stopped")
		return nil
	})

	return g.Wait()
}
