package limiter

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/Lucascluz/folio/internal/config"
	"github.com/Lucascluz/folio/internal/metrics"
)

const backendMemory = "memory"

type window struct {
	count     int
	resetTime time.Time
}

// FixedWindow is the in-memory, per-key fixed window store. Its size is soft
// bounded by MaxStoreSize: a background sweep drops expired windows and a
// pressure trim evicts the soonest-expiring ones.
type FixedWindow struct {
	limit          int
	window         time.Duration
	maxStoreSize   int
	evictionBuffer int

	mu      sync.Mutex
	entries map[string]*window
	now     func() time.Time

	ticker    *time.Ticker
	stop      chan struct{}
	closeOnce sync.Once
}

func NewFixedWindow(cfg config.RateLimiterConfig, opts ...Option) *FixedWindow {
	o := buildOptions(opts)

	// Fall back to package defaults when callers skipped config.Load
	if cfg.MaxRequests <= 0 {
		cfg.MaxRequests = config.DefaultMaxRequests
	}
	if cfg.Window <= 0 {
		cfg.Window = config.DefaultWindow
	}
	if cfg.MaxStoreSize <= 0 {
		cfg.MaxStoreSize = config.DefaultMaxStoreSize
	}
	if cfg.EvictionBuffer < 0 {
		cfg.EvictionBuffer = 0
	}

	interval := cfg.CleanupInterval
	if interval <= 0 {
		interval = config.DefaultCleanupInterval
	}

	f := &FixedWindow{
		limit:          cfg.MaxRequests,
		window:         cfg.Window,
		maxStoreSize:   cfg.MaxStoreSize,
		evictionBuffer: cfg.EvictionBuffer,
		entries:        make(map[string]*window),
		now:            o.now,
		ticker:         time.NewTicker(interval),
		stop:           make(chan struct{}),
	}

	go f.sweepLoop()

	return f
}

func (f *FixedWindow) Limit() int {
	return f.limit
}

// Check admits or denies one request for key.
func (f *FixedWindow) Check(_ context.Context, key string) (Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	now := f.now()

	// Relieve pressure before the store grows past its bound
	if f.overPressure() {
		f.trimLocked(now)
	}

	e, ok := f.entries[key]
	if !ok || e.resetTime.Before(now) {
		e = &window{count: 1, resetTime: now.Add(f.window)}
		f.entries[key] = e
		metrics.SetStoreEntries(len(f.entries))
		metrics.RecordRateLimitDecision(backendMemory, true)

		return Result{
			Allowed:   true,
			Limit:     f.limit,
			Remaining: f.limit - 1,
			ResetTime: e.resetTime,
		}, nil
	}

	if e.count >= f.limit {
		metrics.RecordRateLimitDecision(backendMemory, false)

		return Result{
			Allowed:    false,
			Limit:      f.limit,
			Remaining:  0,
			ResetTime:  e.resetTime,
			RetryAfter: e.resetTime.Sub(now),
		}, nil
	}

	e.count++
	metrics.RecordRateLimitDecision(backendMemory, true)

	return Result{
		Allowed:   true,
		Limit:     f.limit,
		Remaining: f.limit - e.count,
		ResetTime: e.resetTime,
	}, nil
}

// overPressure reports occupancy above 90% of MaxStoreSize.
func (f *FixedWindow) overPressure() bool {
	return len(f.entries)*10 > f.maxStoreSize*9
}

// Sweep removes windows that have already expired.
func (f *FixedWindow) Sweep() int {
	f.mu.Lock()
	defer f.mu.Unlock()

	removed := f.sweepLocked(f.now())
	metrics.SetStoreEntries(len(f.entries))
	return removed
}

func (f *FixedWindow) sweepLocked(now time.Time) int {
	removed := 0
	for key, e := range f.entries {
		if e.resetTime.Before(now) {
			delete(f.entries, key)
			removed++
		}
	}
	metrics.AddEvictions("expired", removed)
	return removed
}

// trimLocked sweeps, then evicts the earliest-expiring windows while the store
// is still over MaxStoreSize. The buffer keeps the next few checks from
// trimming again.
func (f *FixedWindow) trimLocked(now time.Time) {
	f.sweepLocked(now)

	if len(f.entries) <= f.maxStoreSize {
		metrics.SetStoreEntries(len(f.entries))
		return
	}

	type candidate struct {
		key       string
		resetTime time.Time
	}

	candidates := make([]candidate, 0, len(f.entries))
	for key, e := range f.entries {
		candidates = append(candidates, candidate{key: key, resetTime: e.resetTime})
	}

	slices.SortFunc(candidates, func(a, b candidate) int {
		return a.resetTime.Compare(b.resetTime)
	})

	evict := min(len(f.entries)-f.maxStoreSize+f.evictionBuffer, len(candidates))
	for _, c := range candidates[:evict] {
		delete(f.entries, c.key)
	}

	metrics.AddEvictions("pressure", evict)
	metrics.SetStoreEntries(len(f.entries))
}

// Len returns the number of tracked windows, expired ones included.
func (f *FixedWindow) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()

	return len(f.entries)
}

func (f *FixedWindow) Ping(context.Context) error {
	return nil
}

// Close stops the background sweep and drops every window. Safe to call more
// than once.
func (f *FixedWindow) Close() error {
	f.closeOnce.Do(func() {
		close(f.stop)
		f.ticker.Stop()
	})

	f.mu.Lock()
	f.entries = make(map[string]*window)
	f.mu.Unlock()

	metrics.SetStoreEntries(0)
	return nil
}

func (f *FixedWindow) sweepLoop() {
	for {
		select {
		case <-f.ticker.C:
			f.Sweep()
		case <-f.stop:
			return
		}
	}
}
