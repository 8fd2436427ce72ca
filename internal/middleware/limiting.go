package middleware

import (
	"net/http"
	"strconv"

	"github.com/Lucascluz/folio/internal/ip"
	"github.com/Lucascluz/folio/internal/logger"
	"github.com/Lucascluz/folio/internal/ratelimiter"
	"github.com/Lucascluz/folio/internal/transport"
)

type rateLimitResponse struct {
	Error      string `json:"error"`
	Message    string `json:"message"`
	RetryAfter int    `json:"retryAfter"`
}

// RateLimiting charges every request to its client key and answers 429 once
// the window is exhausted. Quota headers are set on every response that
// passes through. A failing backend admits the request.
func RateLimiting(l ratelimiter.Limiter, e *ip.Extractor, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {

		key := e.Extract(r)
		if kw, ok := w.(ClientKeyWriter); ok {
			kw.SetClientKey(key)
		}

		res, err := l.Check(r.Context(), key)
		if err != nil {
			logger.FromContext(r.Context()).Warnf("rate limiter unavailable, admitting request: %v", err)
			next.ServeHTTP(w, r)
			return
		}

		h := w.Header()
		h.Set("X-RateLimit-Limit", strconv.Itoa(res.Limit))
		h.Set("X-RateLimit-Remaining", strconv.Itoa(res.Remaining))
		h.Set("X-RateLimit-Reset", strconv.FormatInt(res.ResetMillis(), 10))

		if !res.Allowed {
			retryAfter := res.RetryAfterSeconds()
			h.Set("Retry-After", strconv.Itoa(retryAfter))
			transport.WriteJSON(w, http.StatusTooManyRequests, rateLimitResponse{
				Error:      "Too many requests",
				Message:    "Rate limit exceeded. Please try again later.",
				RetryAfter: retryAfter,
			})
			return
		}

		next.ServeHTTP(w, r)
	})
}
