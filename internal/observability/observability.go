package observability

import (
	"fmt"

	"github.com/Lucascluz/folio/internal/config"
	"github.com/Lucascluz/folio/internal/logger"
)

// Observability is a setup hub that manages the probe and health checks
type Observability struct {
	logger        *logger.Logger
	probe         *Probe
	healthChecker *HealthChecker
}

// NewObservability wires the probe to readyAware (typically the Server) and
// builds a health checker on the configured interval.
func NewObservability(cfg *config.Config, readyAware ReadyAware, log *logger.Logger) (*Observability, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}

	if readyAware == nil {
		return nil, fmt.Errorf("readyAware cannot be nil")
	}

	if log == nil {
		log = logger.NewNop()
	}
	log = log.Named("observability")

	return &Observability{
		logger:        log,
		probe:         NewProbe(readyAware),
		healthChecker: NewHealthChecker(cfg.Server.HealthInterval, log),
	}, nil
}

func (o *Observability) Logger() *logger.Logger {
	return o.logger
}

func (o *Observability) Probe() *Probe {
	return o.probe
}

func (o *Observability) HealthChecker() *HealthChecker {
	return o.healthChecker
}

// StartHealthChecks runs the health checker in the background. onResult is
// invoked after every round.
func (o *Observability) StartHealthChecks(components []HealthAware, onResult func(healthy bool)) error {
	if len(components) == 0 {
		return fmt.Errorf("at least one component must be provided")
	}

	o.healthChecker.Go(components, onResult)

	return nil
}

// Stop gracefully stops all observability components
func (o *Observability) Stop() error {
	if o.healthChecker != nil {
		o.healthChecker.Stop()
	}
	return nil
}
