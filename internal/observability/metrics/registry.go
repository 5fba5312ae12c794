// Package metrics provides the Prometheus business metrics of the analyzer.
//
// HTTP request metrics live with the HTTP middleware; summarizer backend
// metrics live with the summarizer package. All collectors register with the
// default registry and are exposed on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Analysis metrics track Analyze clicks end to end.
var (
	// AnalysesTotal counts analyses by outcome
	// (success, missing_input, empty_input, unsupported_file, inference_error, io_error).
	AnalysesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "analyzer_analyses_total",
			Help: "Total number of analyses by outcome",
		},
		[]string{"outcome"},
	)

	// AnalysisDuration measures the time from click to persisted result.
	AnalysisDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "analyzer_analysis_duration_seconds",
			Help:    "Time taken to assemble, summarize and persist one analysis",
			Buckets: prometheus.ExponentialBuckets(0.05, 2, 12),
		},
	)

	// InputCharacters measures the combined text length before truncation.
	InputCharacters = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "analyzer_input_characters",
			Help:    "Combined input length in characters before truncation",
			Buckets: []float64{64, 128, 256, 512, 1024, 2048, 4096, 16384, 65536},
		},
	)

	// InputTruncatedTotal counts inputs cut down to the character budget.
	InputTruncatedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "analyzer_input_truncated_total",
			Help: "Total number of inputs truncated to the character budget",
		},
	)

	// InputTokens measures the estimated token count of the forwarded text.
	InputTokens = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "analyzer_input_tokens_estimated",
			Help:    "Estimated tokens (cl100k_base) of the text sent to the summarizer",
			Buckets: []float64{32, 64, 128, 256, 384, 512, 768, 1024},
		},
	)

	// SummaryWords measures summary length in whitespace-separated words.
	SummaryWords = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "analyzer_summary_words",
			Help:    "Distribution of summary word counts",
			Buckets: []float64{10, 20, 30, 50, 75, 100, 150},
		},
	)
)
