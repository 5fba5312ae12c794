package metrics

import "time"

// RecordAnalysis records the outcome and duration of one analysis.
func RecordAnalysis(outcome string, duration time.Duration) {
	AnalysesTotal.WithLabelValues(outcome).Inc()
	AnalysisDuration.Observe(duration.Seconds())
}

// RecordInput records the combined input length and whether it was truncated.
func RecordInput(characters int, truncated bool) {
	InputCharacters.Observe(float64(characters))
	if truncated {
		InputTruncatedTotal.Inc()
	}
}

// RecordInputTokens records the estimated token count of the forwarded text.
func RecordInputTokens(tokens int) {
	InputTokens.Observe(float64(tokens))
}

// RecordSummaryWords records the word count of a produced summary.
func RecordSummaryWords(words int) {
	SummaryWords.Observe(float64(words))
}
