package config

import (
	"errors"
	"fmt"
	"net/url"
	"time"
)

const (
	EnvProduction  = "production"
	EnvDevelopment = "development"

	DefaultHost      = "localhost"
	DefaultPort      = "8080"
	DefaultProbePort = "8085"

	DefaultReadTimeout     = 10 * time.Second
	DefaultWriteTimeout    = 10 * time.Second
	DefaultShutdownTimeout = 15 * time.Second
	DefaultHealthInterval  = 10 * time.Second

	BackendMemory = "memory"
	BackendRedis  = "redis"

	DefaultMaxRequests     = 100
	DefaultWindow          = 15 * time.Minute // API_RATE_LIMIT_WINDOW=900000
	DefaultMaxStoreSize    = 10000
	DefaultEvictionBuffer  = 100
	DefaultCleanupInterval = 5 * time.Minute
	DefaultRedisKeyPrefix  = "folio:ratelimit"

	DefaultMaxBodyBytes = 64 << 10
	DefaultSMTPPort     = 587
	DefaultSMTPMinGap   = 10 * time.Second

	DefaultLogLevel = "info"
)

var (
	ErrMissingAppURL   = errors.New("missing required setting: app url (NEXT_PUBLIC_APP_URL)")
	ErrMissingAppName  = errors.New("missing required setting: app name (NEXT_PUBLIC_APP_NAME)")
	ErrIncompleteSMTP  = errors.New("SMTP configuration is incomplete: host, user and pass must be provided together")
	ErrUnknownBackend  = errors.New("unknown rate limiter backend")
	ErrMissingRedisURL = errors.New("redis backend requires rate_limiter.redis.url (REDIS_URL)")
)

func (c *Config) applyDefaults() error {

	// App (required values fail fast)
	if c.App.Env == "" {
		c.App.Env = EnvDevelopment
	}

	if c.App.URL == "" {
		return ErrMissingAppURL
	}

	if err := validateURL(c.App.URL); err != nil {
		return fmt.Errorf("app url must be a valid URL: %w", err)
	}

	if c.App.Name == "" {
		return ErrMissingAppName
	}

	// Server
	if c.Server.Host == "" {
		c.Server.Host = DefaultHost
	}

	if c.Server.Port == "" {
		c.Server.Port = DefaultPort
	}

	if c.Server.ProbePort == "" {
		c.Server.ProbePort = DefaultProbePort
	}

	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = DefaultReadTimeout
	}

	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = DefaultWriteTimeout
	}

	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = DefaultShutdownTimeout
	}

	if c.Server.HealthInterval == 0 {
		c.Server.HealthInterval = DefaultHealthInterval
	}

	// Rate limiter
	if err := c.RateLimiter.applyDefaults(); err != nil {
		return err
	}

	// Contact
	if len(c.Contact.AllowedOrigins) == 0 {
		c.Contact.AllowedOrigins = []string{c.App.URL}
	}

	for _, origin := range c.Contact.AllowedOrigins {
		if err := validateURL(origin); err != nil {
			return fmt.Errorf("invalid allowed origin %q: %w", origin, err)
		}
	}

	if c.Contact.MaxBodyBytes <= 0 {
		c.Contact.MaxBodyBytes = DefaultMaxBodyBytes
	}

	// SMTP: all or nothing
	if c.SMTP.Host != "" || c.SMTP.User != "" || c.SMTP.Pass != "" {
		if c.SMTP.Host == "" || c.SMTP.User == "" || c.SMTP.Pass == "" {
			return ErrIncompleteSMTP
		}
		if c.SMTP.Port == 0 {
			c.SMTP.Port = DefaultSMTPPort
		}
		if c.SMTP.From == "" {
			c.SMTP.From = c.SMTP.User
		}
		if c.SMTP.Recipient == "" {
			c.SMTP.Recipient = c.SMTP.From
		}
		if c.SMTP.MinGap == 0 {
			c.SMTP.MinGap = DefaultSMTPMinGap
		}
	}

	// Logging
	if c.Logging.Level == "" {
		c.Logging.Level = DefaultLogLevel
	}

	return nil
}

func (r *RateLimiterConfig) applyDefaults() error {
	if r.Backend == "" {
		r.Backend = BackendMemory
	}

	switch r.Backend {
	case BackendMemory:
	case BackendRedis:
		if r.Redis.URL == "" {
			return ErrMissingRedisURL
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownBackend, r.Backend)
	}

	if r.MaxRequests <= 0 {
		r.MaxRequests = DefaultMaxRequests
	}

	if r.Window <= 0 {
		r.Window = DefaultWindow
	}

	if r.MaxStoreSize <= 0 {
		r.MaxStoreSize = DefaultMaxStoreSize
	}

	if r.EvictionBuffer <= 0 {
		r.EvictionBuffer = DefaultEvictionBuffer
	}

	if r.CleanupInterval <= 0 {
		r.CleanupInterval = DefaultCleanupInterval
	}

	if r.Redis.KeyPrefix == "" {
		r.Redis.KeyPrefix = DefaultRedisKeyPrefix
	}

	return nil
}

func validateURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return err
	}
	if u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("%q is not an absolute URL", raw)
	}
	return nil
}
