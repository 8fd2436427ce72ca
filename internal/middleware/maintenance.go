package middleware

import (
	"net/http"

	"github.com/Lucascluz/folio/internal/transport"
)

// Maintenance short-circuits every request with 503 while active, before any
// limiter or validation work runs.
func Maintenance(active bool, message string, next http.Handler) http.Handler {
	if !active {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		transport.WriteJSON(w, http.StatusServiceUnavailable, transport.ErrorResponse{
			Error:   "Service unavailable",
			Message: message,
		})
	})
}
