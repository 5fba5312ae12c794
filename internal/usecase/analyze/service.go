package analyze

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"text-analyzer/internal/domain/entity"
	"text-analyzer/internal/infra/summarizer"
	"text-analyzer/internal/observability/logging"
	"text-analyzer/internal/observability/metrics"
	"text-analyzer/internal/observability/tracing"
	"text-analyzer/internal/repository"
)

// Service runs analyses end to end.
// It is safe for concurrent use as long as its collaborators are.
type Service struct {
	assembler  *Assembler
	summarizer summarizer.Summarizer
	results    repository.ResultRepository
}

// NewService creates the analysis service.
func NewService(assembler *Assembler, s summarizer.Summarizer, results repository.ResultRepository) *Service {
	return &Service{
		assembler:  assembler,
		summarizer: s,
		results:    results,
	}
}

// Analyze assembles the input, summarizes it and saves the result under session.
//
// The empty session addresses the shared result file. On error nothing is
// returned besides the error: the result file is written only after a summary
// exists, and a failed write discards the summary.
func (s *Service) Analyze(ctx context.Context, session string, in Input) (*entity.Result, error) {
	start := time.Now()

	ctx, span := tracing.Tracer().Start(ctx, "analyze")
	defer span.End()
	span.SetAttributes(
		attribute.String("summarizer.provider", s.summarizer.Name()),
		attribute.Bool("input.has_file", in.File != nil),
		attribute.Bool("input.has_prompt", in.Prompt != ""),
	)

	result, err := s.analyze(ctx, session, in)

	outcome := Outcome(err)
	metrics.RecordAnalysis(outcome, time.Since(start))
	span.SetAttributes(attribute.String("analysis.outcome", outcome))

	logger := logging.WithTraceID(ctx, logging.FromContext(ctx))
	if err != nil {
		span.RecordError(err)
		if IsInputError(err) {
			logger.Info("analysis rejected",
				slog.String("outcome", outcome),
				slog.Any("error", err))
		} else {
			span.SetStatus(codes.Error, outcome)
			logger.Error("analysis failed",
				slog.String("provider", s.summarizer.Name()),
				slog.String("outcome", outcome),
				slog.Any("error", err))
		}
		return nil, err
	}

	logger.Info("analysis completed",
		slog.String("provider", s.summarizer.Name()),
		slog.Int("word_count", result.WordCount),
		slog.Duration("duration", time.Since(start)))
	return result, nil
}

func (s *Service) analyze(ctx context.Context, session string, in Input) (*entity.Result, error) {
	combined, err := s.assembler.Assemble(ctx, in)
	if err != nil {
		return nil, err
	}

	summary, err := s.summarizer.Summarize(ctx, combined, entity.DefaultSummaryOptions())
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInference, err)
	}

	result := entity.NewResult(summary)
	path, err := s.results.Save(ctx, session, result)
	if err != nil {
		return nil, fmt.Errorf("%w: save result: %w", ErrFileIO, err)
	}
	result.FilePath = path
	metrics.RecordSummaryWords(result.WordCount)

	return &result, nil
}

// Clear returns the initial, empty outputs. Persisted results are left untouched.
func (s *Service) Clear() entity.Outputs {
	return entity.EmptyOutputs()
}

// Provider returns the name of the summarization backend.
func (s *Service) Provider() string {
	return s.summarizer.Name()
}
