package summarizer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"

	openai "github.com/sashabaranov/go-openai"

	"text-analyzer/internal/domain/entity"
)

// DefaultOpenAIModel is used when no model is configured.
const DefaultOpenAIModel = openai.GPT4oMini

// OpenAI summarizes through the chat completions API.
type OpenAI struct {
	*guard
	client *openai.Client
	model  string
}

// NewOpenAI creates an OpenAI summarizer. baseURL may point at any
// OpenAI-compatible endpoint; empty means api.openai.com.
func NewOpenAI(apiKey, baseURL, model string, opts ...Option) *OpenAI {
	if model == "" {
		model = DefaultOpenAIModel
	}

	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}

	slog.Info("initialized openai summarizer", slog.String("model", model))

	return &OpenAI{
		guard:  newGuard("openai", opts...),
		client: openai.NewClientWithConfig(cfg),
		model:  model,
	}
}

// Name implements Summarizer.
func (o *OpenAI) Name() string { return "openai" }

// Summarize implements Summarizer.
func (o *OpenAI) Summarize(ctx context.Context, text string, opts entity.SummaryOptions) (string, error) {
	return o.run(ctx, text, func(ctx context.Context) (string, error) {
		return o.doSummarize(ctx, text, opts)
	})
}

func (o *OpenAI) doSummarize(ctx context.Context, text string, opts entity.SummaryOptions) (string, error) {
	req := openai.ChatCompletionRequest{
		Model:     o.model,
		MaxTokens: opts.MaxLength,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: instruction(opts)},
			{Role: openai.ChatMessageRoleUser, Content: text},
		},
	}
	if !opts.Sample {
		// temperature is omitempty: a literal 0 would fall back to the server default
		req.Temperature = math.SmallestNonzeroFloat32
		seed := 0
		req.Seed = &seed
	}

	resp, err := o.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", classifyOpenAIError(err)
	}

	if len(resp.Choices) == 0 {
		return "", ErrEmptySummary
	}

	return resp.Choices[0].Message.Content, nil
}

func classifyOpenAIError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) && apiErr.HTTPStatusCode != 0 {
		return httpError(apiErr.HTTPStatusCode, apiErr.Message, err)
	}

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) && reqErr.HTTPStatusCode != 0 {
		return httpError(reqErr.HTTPStatusCode, reqErr.Error(), err)
	}

	return fmt.Errorf("openai api error: %w", err)
}
