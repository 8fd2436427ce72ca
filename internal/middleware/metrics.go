package middleware

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/Lucascluz/folio/internal/metrics"
)

const unmatchedRoute = "unmatched"

// Metrics records request counts and latency per route template. It must run
// inside the router so the matched route is known.
func Metrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		recorder := NewResponseRecorder(w)
		start := time.Now()

		next.ServeHTTP(recorder, r)

		metrics.RecordHTTPRequest(r.Method, routeTemplate(r), recorder.StatusCode(), time.Since(start).Seconds())
	})
}

func routeTemplate(r *http.Request) string {
	route := mux.CurrentRoute(r)
	if route == nil {
		return unmatchedRoute
	}
	tpl, err := route.GetPathTemplate()
	if err != nil {
		return unmatchedRoute
	}
	return tpl
}
