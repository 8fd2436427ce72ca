package middleware

import (
	"net/http"
	"regexp"

	"github.com/Lucascluz/folio/internal/ip"
	"github.com/Lucascluz/folio/internal/logger"
)

var suspiciousAgent = regexp.MustCompile(`(?i)bot|crawler|spider|scraper`)

// FlagSuspiciousAgents logs automated-looking clients. Requests are never
// blocked here.
func FlagSuspiciousAgents(e *ip.Extractor, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ua := r.UserAgent(); suspiciousAgent.MatchString(ua) {
			logger.FromContext(r.Context()).Infow("suspicious user agent",
				"user_agent", ua,
				"client", logger.MaskIP(e.Extract(r)),
			)
		}

		next.ServeHTTP(w, r)
	})
}
