package middleware

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/Lucascluz/folio/internal/logger"
)

const requestIDHeader = "X-Request-ID"

// Logging wraps an HTTP handler with request/response logging
func Logging(baseLogger *logger.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Generate or propagate request ID
		reqID := r.Header.Get(requestIDHeader)
		if reqID == "" {
			reqID = uuid.NewString()
			r.Header.Set(requestIDHeader, reqID)
		}
		w.Header().Set(requestIDHeader, reqID)

		// Create request-scoped logger and add to context
		requestLogger := baseLogger.WithRequestFields(reqID, r.Method, r.URL.Path)
		ctx := logger.NewContext(r.Context(), requestLogger)
		r = r.WithContext(ctx)

		recorder := NewResponseRecorder(w)
		start := time.Now()

		next.ServeHTTP(recorder, r)

		requestLogger.Infof(
			"status=%d bytes=%d client=%s latency_ms=%d",
			recorder.StatusCode(),
			recorder.BytesWritten(),
			logger.MaskIP(recorder.ClientKey()),
			time.Since(start).Milliseconds(),
		)
	})
}
