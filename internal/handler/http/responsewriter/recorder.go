// Package responsewriter records the status and size of HTTP responses
// for the logging, metrics and tracing middlewares.
package responsewriter

import "net/http"

// Recorder wraps an http.ResponseWriter. Only the first WriteHeader call counts.
type Recorder struct {
	http.ResponseWriter
	status  int
	size    int
	written bool
}

// NewRecorder wraps w. The status defaults to 200 until a header is written.
func NewRecorder(w http.ResponseWriter) *Recorder {
	if rec, ok := w.(*Recorder); ok {
		return rec
	}
	return &Recorder{ResponseWriter: w, status: http.StatusOK}
}

func (r *Recorder) WriteHeader(status int) {
	if r.written {
		return
	}
	r.status = status
	r.written = true
	r.ResponseWriter.WriteHeader(status)
}

func (r *Recorder) Write(b []byte) (int, error) {
	if !r.written {
		r.WriteHeader(http.StatusOK)
	}
	n, err := r.ResponseWriter.Write(b)
	r.size += n
	return n, err
}

// Status returns the response status code.
func (r *Recorder) Status() int { return r.status }

// Size returns the number of body bytes written.
func (r *Recorder) Size() int { return r.size }

// Written reports whether the header has been sent.
func (r *Recorder) Written() bool { return r.written }

// Unwrap exposes the wrapped writer to http.ResponseController.
func (r *Recorder) Unwrap() http.ResponseWriter { return r.ResponseWriter }
