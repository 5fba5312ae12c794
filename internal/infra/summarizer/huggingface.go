package summarizer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"text-analyzer/internal/domain/entity"
	"text-analyzer/internal/resilience/retry"
)

// DefaultHuggingFaceModel is the pretrained summarization model used when none is configured.
const DefaultHuggingFaceModel = "sshleifer/distilbart-cnn-12-6"

// maxErrorBody bounds how much of an error response is read into the message.
const maxErrorBody = 4 << 10

// HuggingFace calls a summarization model on the Hugging Face Inference API.
// The generation bounds map directly onto the model's max_length, min_length
// and do_sample parameters.
type HuggingFace struct {
	*guard
	httpClient *http.Client
	endpoint   string
	token      string
	model      string
}

// NewHuggingFace creates a client for model served under baseURL
// (for example https://router.huggingface.co/hf-inference/models).
// An empty token sends anonymous requests.
func NewHuggingFace(baseURL, token, model string, opts ...Option) *HuggingFace {
	if model == "" {
		model = DefaultHuggingFaceModel
	}

	h := &HuggingFace{
		guard:      newGuard("huggingface", opts...),
		httpClient: &http.Client{},
		endpoint:   strings.TrimRight(baseURL, "/") + "/" + model,
		token:      token,
		model:      model,
	}

	slog.Info("initialized hugging face summarizer",
		slog.String("model", model),
		slog.Bool("authenticated", token != ""))

	return h
}

// Name implements Summarizer.
func (h *HuggingFace) Name() string { return "huggingface" }

// Model returns the model identifier.
func (h *HuggingFace) Model() string { return h.model }

type hfRequest struct {
	Inputs     string       `json:"inputs"`
	Parameters hfParameters `json:"parameters"`
	Options    hfOptions    `json:"options"`
}

type hfParameters struct {
	MaxLength int  `json:"max_length"`
	MinLength int  `json:"min_length"`
	DoSample  bool `json:"do_sample"`
}

type hfOptions struct {
	// WaitForModel makes a cold model block the request instead of answering 503.
	WaitForModel bool `json:"wait_for_model"`
}

type hfSummary struct {
	SummaryText string `json:"summary_text"`
}

type hfError struct {
	Error string `json:"error"`
}

// Summarize implements Summarizer.
func (h *HuggingFace) Summarize(ctx context.Context, text string, opts entity.SummaryOptions) (string, error) {
	return h.run(ctx, text, func(ctx context.Context) (string, error) {
		return h.doSummarize(ctx, text, opts)
	})
}

func (h *HuggingFace) doSummarize(ctx context.Context, text string, opts entity.SummaryOptions) (string, error) {
	body, err := json.Marshal(hfRequest{
		Inputs: text,
		Parameters: hfParameters{
			MaxLength: opts.MaxLength,
			MinLength: opts.MinLength,
			DoSample:  opts.Sample,
		},
		Options: hfOptions{WaitForModel: true},
	})
	if err != nil {
		return "", fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if h.token != "" {
		req.Header.Set("Authorization", "Bearer "+h.token)
	}

	resp, err := h.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("hugging face request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", &retry.HTTPError{
			StatusCode: resp.StatusCode,
			Message:    readErrorMessage(resp.Body),
			RetryAfter: retry.ParseRetryAfter(resp.Header.Get("Retry-After"), time.Now()),
		}
	}

	var summaries []hfSummary
	if err := json.NewDecoder(resp.Body).Decode(&summaries); err != nil {
		return "", fmt.Errorf("decode hugging face response: %w", err)
	}

	if len(summaries) == 0 {
		return "", ErrEmptySummary
	}

	return summaries[0].SummaryText, nil
}

// readErrorMessage extracts {"error": "..."} from a failed response, falling
// back to the raw body.
func readErrorMessage(r io.Reader) string {
	raw, _ := io.ReadAll(io.LimitReader(r, maxErrorBody))

	var e hfError
	if err := json.Unmarshal(raw, &e); err == nil && e.Error != "" {
		return e.Error
	}

	msg := strings.TrimSpace(string(raw))
	if msg == "" {
		return "empty response body"
	}
	return msg
}
