// Package resilience groups the reliability policies applied to inference calls.
//
// Subpackage circuitbreaker stops calling a provider that keeps failing, and
// subpackage retry repeats transient failures with exponential backoff.
// The summarizer guard combines both:
//
//	err := retry.WithBackoff(ctx, retry.SummarizerConfig(), func() error {
//	    summary, err = circuitbreaker.Do(cb, func() (string, error) {
//	        return callModel(ctx)
//	    })
//	    return err
//	})
package resilience
