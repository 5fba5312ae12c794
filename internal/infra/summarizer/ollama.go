package summarizer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	ollama "github.com/ollama/ollama/api"

	"text-analyzer/internal/domain/entity"
)

// DefaultOllamaModel is used when no model is configured.
const DefaultOllamaModel = "llama3.2"

// Ollama summarizes with a model served by a local Ollama instance.
type Ollama struct {
	*guard
	client *ollama.Client
	model  string
}

// NewOllama creates an Ollama summarizer for the server at host
// (for example http://127.0.0.1:11434).
func NewOllama(host, model string, opts ...Option) (*Ollama, error) {
	if model == "" {
		model = DefaultOllamaModel
	}

	base, err := url.Parse(host)
	if err != nil {
		return nil, fmt.Errorf("parse ollama host %q: %w", host, err)
	}

	slog.Info("initialized ollama summarizer",
		slog.String("host", base.Redacted()),
		slog.String("model", model))

	return &Ollama{
		guard:  newGuard("ollama", opts...),
		client: ollama.NewClient(base, &http.Client{}),
		model:  model,
	}, nil
}

// Name implements Summarizer.
func (o *Ollama) Name() string { return "ollama" }

// Summarize implements Summarizer.
func (o *Ollama) Summarize(ctx context.Context, text string, opts entity.SummaryOptions) (string, error) {
	return o.run(ctx, text, func(ctx context.Context) (string, error) {
		return o.doSummarize(ctx, text, opts)
	})
}

func (o *Ollama) doSummarize(ctx context.Context, text string, opts entity.SummaryOptions) (string, error) {
	stream := false
	options := map[string]interface{}{
		"num_predict": opts.MaxLength,
	}
	if !opts.Sample {
		options["temperature"] = 0
		options["seed"] = 0
	}

	req := &ollama.ChatRequest{
		Model: o.model,
		Messages: []ollama.Message{
			{Role: "system", Content: instruction(opts)},
			{Role: "user", Content: text},
		},
		Stream:  &stream,
		Options: options,
	}

	var out strings.Builder
	err := o.client.Chat(ctx, req, func(res ollama.ChatResponse) error {
		out.WriteString(res.Message.Content)
		return nil
	})
	if err != nil {
		var statusErr ollama.StatusError
		if errors.As(err, &statusErr) {
			return "", httpError(statusErr.StatusCode, statusErr.ErrorMessage, err)
		}
		return "", fmt.Errorf("ollama chat failed: %w", err)
	}

	return out.String(), nil
}
