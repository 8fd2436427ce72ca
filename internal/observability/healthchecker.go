package observability

import (
	"context"
	"sync"
	"time"

	"github.com/Lucascluz/folio/internal/config"
	"github.com/Lucascluz/folio/internal/logger"
)

// HealthAware is a dependency whose reachability gates readiness, such as the
// rate limiter backend.
type HealthAware interface {
	Name() string
	Ping(ctx context.Context) error
}

type HealthChecker struct {
	timeout  time.Duration
	log      *logger.Logger
	ticker   *time.Ticker
	stop     chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

const defaultPingTimeout = 2 * time.Second

func NewHealthChecker(interval time.Duration, log *logger.Logger) *HealthChecker {

	// Defensive default: tests may leave the interval zero
	if interval <= 0 {
		interval = config.DefaultHealthInterval
	}
	if log == nil {
		log = logger.NewNop()
	}

	return &HealthChecker{
		timeout: defaultPingTimeout,
		log:     log,
		ticker:  time.NewTicker(interval),
		stop:    make(chan struct{}),
	}
}

// Start pings every component immediately and then on each tick, reporting
// whether all of them answered. It blocks until Stop is called.
func (hc *HealthChecker) Start(components []HealthAware, onResult func(healthy bool)) {

	hc.log.Infof("starting health checks for %d components", len(components))

	doHealthChecks := func() {
		healthy := true
		for _, c := range components {
			if !hc.check(c) {
				healthy = false
			}
		}

		if onResult != nil {
			onResult(healthy)
		}
	}

	// Execute immediate health check
	doHealthChecks()

	for {
		select {
		case <-hc.ticker.C:
			doHealthChecks()

		case <-hc.stop:
			hc.ticker.Stop()
			return
		}
	}
}

// Go runs Start in the background. Stop waits for it to return.
func (hc *HealthChecker) Go(components []HealthAware, onResult func(healthy bool)) {
	hc.wg.Add(1)
	go func() {
		defer hc.wg.Done()
		hc.Start(components, onResult)
	}()
}

func (hc *HealthChecker) Stop() {
	hc.stopOnce.Do(func() { close(hc.stop) })
	hc.wg.Wait()
}

func (hc *HealthChecker) check(c HealthAware) bool {
	ctx, cancel := context.WithTimeout(context.Background(), hc.timeout)
	defer cancel()

	if err := c.Ping(ctx); err != nil {
		hc.log.Warnf("%s health check failed: %v", c.Name(), err)
		return false
	}

	hc.log.Debugf("%s is healthy", c.Name())
	return true
}
