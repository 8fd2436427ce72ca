package config

import (
	"time"
)

type Config struct {
	App         AppConfig         `yaml:"app"`
	Server      ServerConfig      `yaml:"server"`
	RateLimiter RateLimiterConfig `yaml:"rate_limiter"`
	Contact     ContactConfig     `yaml:"contact"`
	SMTP        SMTPConfig        `yaml:"smtp"`
	Logging     LoggingConfig     `yaml:"logging"`
}

type AppConfig struct {
	Env  string `yaml:"env"`
	URL  string `yaml:"url"`
	Name string `yaml:"name"`
}

type ServerConfig struct {
	Host            string        `yaml:"host"`
	Port            string        `yaml:"port"`
	ProbePort       string        `yaml:"probe_port"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	HealthInterval  time.Duration `yaml:"health_interval"`
}

type RateLimiterConfig struct {
	Backend         string        `yaml:"backend"`
	MaxRequests     int           `yaml:"max_requests"`
	Window          time.Duration `yaml:"window"`
	MaxStoreSize    int           `yaml:"max_store_size"`
	EvictionBuffer  int           `yaml:"eviction_buffer"`
	CleanupInterval time.Duration `yaml:"cleanup_interval"`
	TrustedProxies  []string      `yaml:"trusted_proxies"`
	Redis           RedisConfig   `yaml:"redis"`
}

type RedisConfig struct {
	URL       string `yaml:"url"`
	KeyPrefix string `yaml:"key_prefix"`
}

type ContactConfig struct {
	Enabled        bool     `yaml:"enabled"`
	AllowedOrigins []string `yaml:"allowed_origins"`
	MaxBodyBytes   int64    `yaml:"max_body_bytes"`
}

// SMTPConfig is either fully populated (host, user, pass) or empty.
type SMTPConfig struct {
	Host      string        `yaml:"host"`
	Port      int           `yaml:"port"`
	User      string        `yaml:"user"`
	Pass      string        `yaml:"pass"`
	From      string        `yaml:"from"`
	Recipient string        `yaml:"recipient"`
	MinGap    time.Duration `yaml:"min_gap"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
}

func (c *Config) IsProduction() bool {
	return c.App.Env == EnvProduction
}

func (s SMTPConfig) Enabled() bool {
	return s.Host != ""
}
