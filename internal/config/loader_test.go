package config

import (
	"errors"
	"os"
	"testing"
	"time"
)

func envMap(m map[string]string) LookupFunc {
	return func(key string) (string, bool) {
		v, ok := m[key]
		return v, ok
	}
}

// TestLoad tests loading a valid config file
func TestLoad(t *testing.T) {
	// Create temp config file
	content := `
app:
  url: "https://example.dev"
  name: "folio"
rate_limiter:
  max_requests: 5
  window: 1m
  cleanup_interval: 30s
contact:
  enabled: true
`
	tmpfile, err := os.CreateTemp("", "config-*.yaml")
	if err != nil {
		t.Fatal(err)
	}
	defer os.Remove(tmpfile.Name())

	if _, err := tmpfile.Write([]byte(content)); err != nil {
		t.Fatal(err)
	}
	tmpfile.Close()

	// Test loading
	cfg, err := LoadWithEnv(tmpfile.Name(), envMap(nil))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	// Verify loaded values
	if cfg.Server.Host != DefaultHost {
		t.Errorf("Expected default host %s, got %s", DefaultHost, cfg.Server.Host)
	}
	if cfg.RateLimiter.MaxRequests != 5 {
		t.Errorf("Expected max requests 5, got %d", cfg.RateLimiter.MaxRequests)
	}
	if cfg.RateLimiter.Window != time.Minute {
		t.Errorf("Expected window 1m, got %v", cfg.RateLimiter.Window)
	}
	if cfg.RateLimiter.CleanupInterval != 30*time.Second {
		t.Errorf("Expected cleanup interval 30s, got %v", cfg.RateLimiter.CleanupInterval)
	}
	if !cfg.Contact.Enabled {
		t.Error("Expected contact form to be enabled")
	}
}

// TestLoadInvalidFile tests error handling
func TestLoadInvalidFile(t *testing.T) {
	_, err := Load("/nonexistent/config.yaml")
	if err == nil {
		t.Error("Expected error loading nonexistent file")
	}
}

// TestLoadInvalidYAML tests error handling for malformed YAML
func TestLoadInvalidYAML(t *testing.T) {
	tmpfile, _ := os.CreateTemp("", "bad-*.yaml")
	defer os.Remove(tmpfile.Name())

	tmpfile.Write([]byte("invalid: yaml: content: {{"))
	tmpfile.Close()

	_, err := Load(tmpfile.Name())
	if err == nil {
		t.Error("Expected error loading invalid YAML")
	}
}

func TestLoadFromEnvironment(t *testing.T) {
	cfg, err := LoadWithEnv("", envMap(map[string]string{
		"NODE_ENV":                    "production",
		"NEXT_PUBLIC_APP_URL":         "https://example.dev",
		"NEXT_PUBLIC_APP_NAME":        "folio",
		"API_RATE_LIMIT_MAX":          "20",
		"API_RATE_LIMIT_WINDOW":       "60000",
		"NEXT_PUBLIC_ALLOWED_ORIGINS": "https://example.dev, https://www.example.dev",
		"TRUSTED_PROXIES":             "10.0.0.0/8",
		"CONTACT_FORM_ENABLED":        "true",
	}))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if !cfg.IsProduction() {
		t.Error("Expected production environment")
	}
	if cfg.RateLimiter.MaxRequests != 20 {
		t.Errorf("Expected max requests 20, got %d", cfg.RateLimiter.MaxRequests)
	}
	if cfg.RateLimiter.Window != time.Minute {
		t.Errorf("Expected window 1m, got %v", cfg.RateLimiter.Window)
	}
	if len(cfg.Contact.AllowedOrigins) != 2 || cfg.Contact.AllowedOrigins[1] != "https://www.example.dev" {
		t.Errorf("Unexpected allowed origins: %v", cfg.Contact.AllowedOrigins)
	}
	if len(cfg.RateLimiter.TrustedProxies) != 1 {
		t.Errorf("Unexpected trusted proxies: %v", cfg.RateLimiter.TrustedProxies)
	}
}

func TestLoadEnvOverridesFile(t *testing.T) {
	tmpfile, err := os.CreateTemp("", "config-*.yaml")
	if err != nil {
		t.Fatal(err)
	}
	defer os.Remove(tmpfile.Name())

	tmpfile.Write([]byte("app:\n  url: https://file.dev\n  name: file\nrate_limiter:\n  max_requests: 5\n"))
	tmpfile.Close()

	cfg, err := LoadWithEnv(tmpfile.Name(), envMap(map[string]string{
		"API_RATE_LIMIT_MAX": "7",
	}))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.RateLimiter.MaxRequests != 7 {
		t.Errorf("Expected env to win with 7, got %d", cfg.RateLimiter.MaxRequests)
	}
	if cfg.App.Name != "file" {
		t.Errorf("Expected app name from file, got %s", cfg.App.Name)
	}
}

func TestLoadEnvErrors(t *testing.T) {
	base := map[string]string{
		"NEXT_PUBLIC_APP_URL":  "https://example.dev",
		"NEXT_PUBLIC_APP_NAME": "folio",
	}

	tests := []struct {
		name    string
		extra   map[string]string
		wantErr error
	}{
		{
			name:  "malformed max",
			extra: map[string]string{"API_RATE_LIMIT_MAX": "lots"},
		},
		{
			name:  "malformed window",
			extra: map[string]string{"API_RATE_LIMIT_WINDOW": "15m"},
		},
		{
			name:  "malformed origin",
			extra: map[string]string{"NEXT_PUBLIC_ALLOWED_ORIGINS": "example.dev"},
		},
		{
			name:    "partial smtp",
			extra:   map[string]string{"SMTP_HOST": "smtp.example.dev"},
			wantErr: ErrIncompleteSMTP,
		},
		{
			name:    "missing app url",
			extra:   map[string]string{"NEXT_PUBLIC_APP_URL": ""},
			wantErr: ErrMissingAppURL,
		},
		{
			name:    "redis without url",
			extra:   map[string]string{"RATE_LIMIT_BACKEND": "redis"},
			wantErr: ErrMissingRedisURL,
		},
		{
			name:    "unknown backend",
			extra:   map[string]string{"RATE_LIMIT_BACKEND": "memcached"},
			wantErr: ErrUnknownBackend,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := map[string]string{}
			for k, v := range base {
				env[k] = v
			}
			for k, v := range tt.extra {
				env[k] = v
			}

			_, err := LoadWithEnv("", envMap(env))
			if err == nil {
				t.Fatal("Expected an error")
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("Expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}
