package summarizer

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// SummaryMetricsRecorder defines the interface for recording summarization metrics.
// It lets tests inject a recorder instead of touching the Prometheus registry.
type SummaryMetricsRecorder interface {
	// RecordDuration records the wall time of one summarization, retries included.
	RecordDuration(provider string, duration time.Duration)

	// RecordOutcome counts a finished summarization by outcome
	// ("success", "error", "timeout", "empty", "circuit_open").
	RecordOutcome(provider, outcome string)
}

// PrometheusSummaryMetrics implements SummaryMetricsRecorder using Prometheus metrics.
type PrometheusSummaryMetrics struct {
	durationHistogram *prometheus.HistogramVec
	outcomeCounter    *prometheus.CounterVec
}

var (
	prometheusMetricsInstance *PrometheusSummaryMetrics
	prometheusMetricsOnce     sync.Once
)

// getOrCreateHistogramVec returns an already registered collector with the same
// descriptor instead of failing on duplicate registration.
func getOrCreateHistogramVec(opts prometheus.HistogramOpts, labels []string) *prometheus.HistogramVec {
	h := prometheus.NewHistogramVec(opts, labels)
	if err := prometheus.Register(h); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			return are.ExistingCollector.(*prometheus.HistogramVec)
		}
		return promauto.NewHistogramVec(opts, labels)
	}
	return h
}

func getOrCreateCounterVec(opts prometheus.CounterOpts, labels []string) *prometheus.CounterVec {
	c := prometheus.NewCounterVec(opts, labels)
	if err := prometheus.Register(c); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			return are.ExistingCollector.(*prometheus.CounterVec)
		}
		return promauto.NewCounterVec(opts, labels)
	}
	return c
}

// NewPrometheusSummaryMetrics returns the process-wide Prometheus recorder.
// Uses a singleton to avoid duplicate metric registration in tests.
func NewPrometheusSummaryMetrics() *PrometheusSummaryMetrics {
	prometheusMetricsOnce.Do(func() {
		prometheusMetricsInstance = &PrometheusSummaryMetrics{
			durationHistogram: getOrCreateHistogramVec(prometheus.HistogramOpts{
				Name:    "summarizer_request_duration_seconds",
				Help:    "Time taken to obtain a summary from the backend, retries included",
				Buckets: prometheus.ExponentialBuckets(0.25, 2, 10),
			}, []string{"provider"}),
			outcomeCounter: getOrCreateCounterVec(prometheus.CounterOpts{
				Name: "summarizer_requests_total",
				Help: "Total number of summarization calls by outcome",
			}, []string{"provider", "outcome"}),
		}
	})
	return prometheusMetricsInstance
}

// RecordDuration implements SummaryMetricsRecorder.RecordDuration
func (p *PrometheusSummaryMetrics) RecordDuration(provider string, duration time.Duration) {
	p.durationHistogram.WithLabelValues(provider).Observe(duration.Seconds())
}

// RecordOutcome implements SummaryMetricsRecorder.RecordOutcome
func (p *PrometheusSummaryMetrics) RecordOutcome(provider, outcome string) {
	p.outcomeCounter.WithLabelValues(provider, outcome).Inc()
}
