package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"text-analyzer/internal/config"
	"text-analyzer/internal/infra/upload"
	"text-analyzer/internal/observability/logging"
	"text-analyzer/internal/usecase/analyze"
)

// userError carries the message shown to the user; the cause is logged.
type userError struct {
	msg string
	err error
}

func (e *userError) Error() string { return e.msg }
func (e *userError) Unwrap() error { return e.err }

func newAnalyzeCmd() *cobra.Command {
	var (
		filePath string
		prompt   string
	)

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Summarize a prompt and/or a .txt file once",
		Long: `Analyze combines the prompt and the file content, summarizes the first
1024 characters and writes summary_result.txt to RESULT_DIR.`,
		Example: `  analyzer analyze --prompt "Summarize the release notes" --file notes.txt
  analyzer analyze -f meeting.txt`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			a, err := newApp(cfg, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer a.close()

			return a.runAnalyze(cmd.Context(), cmd.OutOrStdout(), filePath, prompt)
		},
	}

	cmd.Flags().StringVarP(&filePath, "file", "f", "", "path to a .txt file")
	cmd.Flags().StringVarP(&prompt, "prompt", "p", "", "prompt text")
	return cmd
}

// runAnalyze analyzes the input under the shared result key and prints the outcome.
func (a *app) runAnalyze(ctx context.Context, out io.Writer, filePath, prompt string) error {
	in := analyze.Input{Prompt: prompt}
	if filePath != "" {
		in.File = upload.FromPath(filePath)
	}

	ctx = logging.WithLogger(ctx, a.logger)
	result, err := a.svc.Analyze(ctx, "", in)
	if err != nil {
		a.logger.Debug("analyze command failed", slog.Any("error", err))
		return &userError{msg: analyze.UserMessage(err), err: err}
	}

	_, err = fmt.Fprintf(out, "Summary:\n%s\n\nWord Count: %s\nSaved to: %s\n",
		result.Summary, result.WordCountText(), result.FilePath)
	return err
}
