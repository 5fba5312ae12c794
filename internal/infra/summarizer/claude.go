package summarizer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"text-analyzer/internal/domain/entity"
)

// DefaultClaudeModel is used when no model is configured.
const DefaultClaudeModel = string(anthropic.ModelClaudeSonnet4_5_20250929)

// Claude summarizes through Anthropic's Messages API.
type Claude struct {
	*guard
	client anthropic.Client
	model  string
}

// NewClaude creates a Claude summarizer. The SDK's own retries are disabled
// because the shared guard already retries transient failures.
func NewClaude(apiKey, baseURL, model string, opts ...Option) *Claude {
	if model == "" {
		model = DefaultClaudeModel
	}

	reqOpts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}
	if baseURL != "" {
		reqOpts = append(reqOpts, option.WithBaseURL(baseURL))
	}

	slog.Info("initialized claude summarizer", slog.String("model", model))

	return &Claude{
		guard:  newGuard("claude", opts...),
		client: anthropic.NewClient(reqOpts...),
		model:  model,
	}
}

// Name implements Summarizer.
func (c *Claude) Name() string { return "claude" }

// Summarize implements Summarizer.
func (c *Claude) Summarize(ctx context.Context, text string, opts entity.SummaryOptions) (string, error) {
	return c.run(ctx, text, func(ctx context.Context) (string, error) {
		return c.doSummarize(ctx, text, opts)
	})
}

func (c *Claude) doSummarize(ctx context.Context, text string, opts entity.SummaryOptions) (string, error) {
	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(c.model),
		MaxTokens: int64(opts.MaxLength),
		System:    []anthropic.TextBlockParam{{Text: instruction(opts)}},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(text)),
		},
	}
	if !opts.Sample {
		params.Temperature = anthropic.Float(0)
	}

	message, err := c.client.Messages.New(ctx, params)
	if err != nil {
		var apiErr *anthropic.Error
		if errors.As(err, &apiErr) {
			return "", httpError(apiErr.StatusCode, apiErr.Error(), err)
		}
		return "", fmt.Errorf("claude api error: %w", err)
	}

	var sb strings.Builder
	for _, block := range message.Content {
		if tb, ok := block.AsAny().(anthropic.TextBlock); ok {
			sb.WriteString(tb.Text)
		}
	}

	return sb.String(), nil
}
