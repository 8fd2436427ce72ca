package observability

import (
	"net/http"

	"github.com/Lucascluz/folio/internal/metrics"
)

type ReadyAware interface {
	IsReady() bool
}

type Probe struct {
	ReadyAware ReadyAware
}

func NewProbe(readyAware ReadyAware) *Probe {
	return &Probe{ReadyAware: readyAware}
}

func (p *Probe) Handler() http.Handler {

	mux := http.NewServeMux()

	// Liveness check
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Readiness follows the last limiter backend health check
	mux.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		if p.ReadyAware != nil && p.ReadyAware.IsReady() {
			w.WriteHeader(http.StatusOK)
			w.Write([]byte("OK"))
			return
		}
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte("NOT_READY"))
	})

	mux.Handle("/metrics", metrics.Handler())

	return mux
}
