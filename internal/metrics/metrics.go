package metrics

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// HTTP request metrics
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "folio_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "folio_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	// Rate limiter metrics
	rateLimitDecisions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "folio_ratelimit_decisions_total",
			Help: "Admission decisions taken by the rate limiter",
		},
		[]string{"backend", "decision"},
	)

	rateLimitStoreEntries = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "folio_ratelimit_store_entries",
			Help: "Client windows currently tracked by the in-memory store",
		},
	)

	rateLimitEvictions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "folio_ratelimit_evictions_total",
			Help: "Client windows removed from the in-memory store",
		},
		[]string{"reason"},
	)

	// Contact form metrics
	contactSubmissions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "folio_contact_submissions_total",
			Help: "Contact form submissions by outcome",
		},
		[]string{"outcome"},
	)
)

// RecordHTTPRequest records an HTTP request
func RecordHTTPRequest(method, route string, statusCode int, durationSeconds float64) {
	httpRequestsTotal.WithLabelValues(method, route, strconv.Itoa(statusCode)).Inc()
	httpRequestDuration.WithLabelValues(method, route).Observe(durationSeconds)
}

func RecordRateLimitDecision(backend string, allowed bool) {
	decision := "allowed"
	if !allowed {
		decision = "denied"
	}
	rateLimitDecisions.WithLabelValues(backend, decision).Inc()
}

func SetStoreEntries(n int) {
	rateLimitStoreEntries.Set(float64(n))
}

// AddEvictions counts removed windows; reason is "expired" or "pressure".
func AddEvictions(reason string, n int) {
	if n > 0 {
		rateLimitEvictions.WithLabelValues(reason).Add(float64(n))
	}
}

func RecordContactSubmission(outcome string) {
	contactSubmissions.WithLabelValues(outcome).Inc()
}

// Handler returns the Prometheus metrics HTTP handler
func Handler() http.Handler {
	return promhttp.Handler()
}
