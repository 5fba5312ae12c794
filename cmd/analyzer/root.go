package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"text-analyzer/internal/config"
	"text-analyzer/internal/infra/adapter/persistence/file"
	"text-analyzer/internal/infra/summarizer"
	"text-analyzer/internal/observability/logging"
	"text-analyzer/internal/usecase/analyze"
	"text-analyzer/internal/utils/text"
)

// newRootCmd builds the command tree. Without a subcommand the server runs.
func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "analyzer",
		Short: "AI-powered text analyzer",
		Long: `Analyzer summarizes a prompt, a .txt file, or both, with a configurable
inference provider (Hugging Face, OpenAI, Claude, Ollama or a local no-op).

Configuration is read from the environment, for example:
  SUMMARIZER_PROVIDER=ollama OLLAMA_HOST=http://127.0.0.1:11434 analyzer serve`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return serve(cmd)
		},
	}

	root.AddCommand(newServeCmd())
	root.AddCommand(newAnalyzeCmd())
	return root
}

// app holds the components shared by both commands.
type app struct {
	cfg        *config.Config
	logger     *slog.Logger
	summarizer summarizer.Summarizer
	results    *file.ResultRepo
	svc        *analyze.Service
	closeLog   func() error
}

// newApp loads the configuration and wires the analysis service.
// Logs go to logOut.
func newApp(cfg *config.Config, logOut io.Writer) (*app, error) {
	logger, closeLog := logging.New(cfg.Log, logOut)

	sum, err := summarizer.New(cfg.Summarizer,
		summarizer.WithMetrics(summarizer.NewPrometheusSummaryMetrics()),
	)
	if err != nil {
		_ = closeLog()
		return nil, fmt.Errorf("create summarizer: %w", err)
	}

	results := file.NewResultRepo(cfg.ResultDir)
	var tokens analyze.TokenEstimator
	if cfg.TokenEstimate {
		tokens = text.NewTokenCounter("")
	}
	assembler := analyze.NewAssembler(tokens)

	return &app{
		cfg:        cfg,
		logger:     logger,
		summarizer: sum,
		results:    results,
		svc:        analyze.NewService(assembler, sum, results),
		closeLog:   closeLog,
	}, nil
}

func (a *app) close() {
	if err := a.closeLog(); err != nil {
		fmt.Fprintln(os.Stderr, "close log file:", err)
	}
}

// getVersion returns the application version from the environment.
func getVersion() string {
	if v := os.Getenv("VERSION"); v != "" {
		return v
	}
	return "dev"
}
