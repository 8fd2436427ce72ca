package limiter

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Lucascluz/folio/internal/config"
	"github.com/Lucascluz/folio/internal/metrics"
)

const backendRedis = "redis"

// fixedWindowScript admits a request unless the live window is already full.
// Denied requests do not touch the counter, matching the in-memory store.
// Returns {count, pttl_ms, allowed}.
var fixedWindowScript = redis.NewScript(`
local limit = tonumber(ARGV[1])
local window = tonumber(ARGV[2])
local current = tonumber(redis.call('GET', KEYS[1]) or '0')
local ttl = redis.call('PTTL', KEYS[1])

if current >= limit and ttl > 0 then
  return {current, ttl, 0}
end

current = redis.call('INCR', KEYS[1])
if current == 1 or ttl < 0 then
  redis.call('PEXPIRE', KEYS[1], window)
  ttl = window
end

return {current, ttl, 1}
`)

// RedisWindow keeps fixed windows in Redis so every replica shares one quota.
type RedisWindow struct {
	client    *redis.Client
	limit     int
	window    time.Duration
	keyPrefix string
	now       func() time.Time
}

func NewRedisWindow(client *redis.Client, cfg config.RateLimiterConfig, opts ...Option) *RedisWindow {
	o := buildOptions(opts)

	if cfg.MaxRequests <= 0 {
		cfg.MaxRequests = config.DefaultMaxRequests
	}
	if cfg.Window <= 0 {
		cfg.Window = config.DefaultWindow
	}

	return &RedisWindow{
		client:    client,
		limit:     cfg.MaxRequests,
		window:    cfg.Window,
		keyPrefix: cfg.Redis.KeyPrefix,
		now:       o.now,
	}
}

func (r *RedisWindow) Limit() int {
	return r.limit
}

func (r *RedisWindow) Check(ctx context.Context, key string) (Result, error) {
	now := r.now()

	raw, err := fixedWindowScript.Run(ctx, r.client, []string{r.key(key)}, r.limit, r.window.Milliseconds()).Int64Slice()
	if err != nil {
		return Result{}, fmt.Errorf("redis fixed window: %w", err)
	}
	if len(raw) != 3 {
		return Result{}, fmt.Errorf("redis fixed window: unexpected reply %v", raw)
	}

	count, ttl, allowed := int(raw[0]), time.Duration(raw[1])*time.Millisecond, raw[2] == 1
	resetTime := now.Add(ttl)

	metrics.RecordRateLimitDecision(backendRedis, allowed)

	if !allowed {
		return Result{
			Allowed:    false,
			Limit:      r.limit,
			Remaining:  0,
			ResetTime:  resetTime,
			RetryAfter: ttl,
		}, nil
	}

	return Result{
		Allowed:   true,
		Limit:     r.limit,
		Remaining: max(r.limit-count, 0),
		ResetTime: resetTime,
	}, nil
}

func (r *RedisWindow) Ping(ctx context.Context) error {
	if err := r.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping: %w", err)
	}
	return nil
}

func (r *RedisWindow) Close() error {
	if err := r.client.Close(); err != nil {
		return fmt.Errorf("close redis client: %w", err)
	}
	return nil
}

func (r *RedisWindow) key(identifier string) string {
	if r.keyPrefix == "" {
		return identifier
	}
	return fmt.Sprintf("%s:%s", r.keyPrefix, identifier)
}
