package middleware

import (
	"net/http"
)

// ClientKeyWriter allows the rate limiter to report the key it charged so the
// access log can include it.
type ClientKeyWriter interface {
	SetClientKey(key string)
}

// ResponseRecorder wraps http.ResponseWriter to capture response metadata
type ResponseRecorder struct {
	http.ResponseWriter
	statusCode   int
	bytesWritten int
	clientKey    string
}

// NewResponseRecorder wraps w, reusing it when it already is a recorder so
// stacked middleware share one set of counters.
func NewResponseRecorder(w http.ResponseWriter) *ResponseRecorder {
	if rec, ok := w.(*ResponseRecorder); ok {
		return rec
	}
	return &ResponseRecorder{
		ResponseWriter: w,
		statusCode:     http.StatusOK, // default status
	}
}

// WriteHeader captures the status code before writing
func (r *ResponseRecorder) WriteHeader(status int) {
	r.statusCode = status
	r.ResponseWriter.WriteHeader(status)
}

// Write captures bytes written and writes to underlying writer
func (r *ResponseRecorder) Write(b []byte) (int, error) {
	n, err := r.ResponseWriter.Write(b)
	r.bytesWritten += n
	return n, err
}

// Unwrap exposes the underlying writer to http.ResponseController.
func (r *ResponseRecorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}

func (r *ResponseRecorder) SetClientKey(key string) {
	r.clientKey = key
}

func (r *ResponseRecorder) StatusCode() int {
	return r.statusCode
}

func (r *ResponseRecorder) BytesWritten() int {
	return r.bytesWritten
}

// ClientKey returns the rate limit key, or "-" when the request skipped the
// limiter.
func (r *ResponseRecorder) ClientKey() string {
	if r.clientKey == "" {
		return "-"
	}
	return r.clientKey
}
