package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// LookupFunc matches os.LookupEnv.
type LookupFunc func(key string) (string, bool)

// Load reads the optional YAML file at path, overlays environment variables
// and validates the result. An empty path skips the file.
func Load(path string) (*Config, error) {
	return LoadWithEnv(path, os.LookupEnv)
}

func LoadWithEnv(path string, lookup LookupFunc) (*Config, error) {

	config := &Config{}

	if path != "" {
		file, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("error loading config file: %w", err)
		}

		err = yaml.Unmarshal(file, config)
		if err != nil {
			return nil, fmt.Errorf("invalid config syntax: %w", err)
		}
	}

	err := config.applyEnv(lookup)
	if err != nil {
		return nil, fmt.Errorf("invalid environment: %w", err)
	}

	err = config.applyDefaults()
	if err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return config, nil
}

// applyEnv overlays the deployment's environment variables. Names follow the
// site's existing deployment so one .env serves both.
func (c *Config) applyEnv(lookup LookupFunc) error {
	env := envReader{lookup: lookup}

	env.str("NODE_ENV", &c.App.Env)
	env.str("NEXT_PUBLIC_APP_URL", &c.App.URL)
	env.str("NEXT_PUBLIC_APP_NAME", &c.App.Name)

	env.str("SERVER_HOST", &c.Server.Host)
	env.str("SERVER_PORT", &c.Server.Port)
	env.str("PROBE_PORT", &c.Server.ProbePort)

	env.str("RATE_LIMIT_BACKEND", &c.RateLimiter.Backend)
	env.integer("API_RATE_LIMIT_MAX", &c.RateLimiter.MaxRequests)
	env.millis("API_RATE_LIMIT_WINDOW", &c.RateLimiter.Window)
	env.integer("RATE_LIMIT_MAX_STORE_SIZE", &c.RateLimiter.MaxStoreSize)
	env.list("TRUSTED_PROXIES", &c.RateLimiter.TrustedProxies)
	env.str("REDIS_URL", &c.RateLimiter.Redis.URL)

	env.list("NEXT_PUBLIC_ALLOWED_ORIGINS", &c.Contact.AllowedOrigins)
	env.boolean("CONTACT_FORM_ENABLED", &c.Contact.Enabled)

	env.str("SMTP_HOST", &c.SMTP.Host)
	env.integer("SMTP_PORT", &c.SMTP.Port)
	env.str("SMTP_USER", &c.SMTP.User)
	env.str("SMTP_PASS", &c.SMTP.Pass)
	env.str("SMTP_FROM", &c.SMTP.From)
	env.str("CONTACT_RECIPIENT", &c.SMTP.Recipient)

	env.str("LOG_LEVEL", &c.Logging.Level)

	return env.err
}

// envReader keeps the first parse error so callers can apply every variable
// and check once.
type envReader struct {
	lookup LookupFunc
	err    error
}

func (e *envReader) get(key string) (string, bool) {
	if e.lookup == nil {
		return "", false
	}
	v, ok := e.lookup(key)
	v = strings.TrimSpace(v)
	if !ok || v == "" {
		return "", false
	}
	return v, true
}

func (e *envReader) str(key string, dst *string) {
	if v, ok := e.get(key); ok {
		*dst = v
	}
}

func (e *envReader) integer(key string, dst *int) {
	v, ok := e.get(key)
	if !ok {
		return
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		e.fail(fmt.Errorf("%s: invalid number %q", key, v))
		return
	}
	*dst = n
}

func (e *envReader) millis(key string, dst *time.Duration) {
	var ms int
	e.integer(key, &ms)
	if ms != 0 {
		*dst = time.Duration(ms) * time.Millisecond
	}
}

func (e *envReader) boolean(key string, dst *bool) {
	v, ok := e.get(key)
	if !ok {
		return
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		e.fail(fmt.Errorf("%s: invalid boolean %q", key, v))
		return
	}
	*dst = b
}

func (e *envReader) list(key string, dst *[]string) {
	v, ok := e.get(key)
	if !ok {
		return
	}
	var out []string
	for item := range strings.SplitSeq(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	*dst = out
}

func (e *envReader) fail(err error) {
	if e.err == nil {
		e.err = err
	}
}
