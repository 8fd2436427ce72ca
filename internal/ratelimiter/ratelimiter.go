package ratelimiter

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/Lucascluz/folio/internal/config"
	"github.com/Lucascluz/folio/internal/logger"
	"github.com/Lucascluz/folio/internal/ratelimiter/limiter"
)

type Result = limiter.Result

type Limiter interface {
	// Check records a request from 'key' (client IP or sentinel) and reports
	// whether it is admitted, with quota and reset metadata.
	Check(ctx context.Context, key string) (Result, error)

	// Limit is the per-window admission ceiling.
	Limit() int

	// Ping reports backend health.
	Ping(ctx context.Context) error

	// Close releases timers and connections. The limiter must not be used
	// afterwards.
	Close() error
}

// New builds the limiter selected by cfg.Backend. The caller owns the result
// and must Close it.
func New(cfg config.RateLimiterConfig, log *logger.Logger, opts ...limiter.Option) (Limiter, error) {
	switch cfg.Backend {
	case "", config.BackendMemory:
		log.Infof("rate limiter: memory backend max=%d window=%s max_store_size=%d",
			cfg.MaxRequests, cfg.Window, cfg.MaxStoreSize)
		return limiter.NewFixedWindow(cfg, opts...), nil

	case config.BackendRedis:
		redisOpts, err := redis.ParseURL(cfg.Redis.URL)
		if err != nil {
			return nil, fmt.Errorf("parse redis url: %w", err)
		}
		log.Infof("rate limiter: redis backend addr=%s db=%d max=%d window=%s",
			redisOpts.Addr, redisOpts.DB, cfg.MaxRequests, cfg.Window)
		return limiter.NewRedisWindow(redis.NewClient(redisOpts), cfg, opts...), nil
	}

	return nil, fmt.Errorf("%w: %q", config.ErrUnknownBackend, cfg.Backend)
}
