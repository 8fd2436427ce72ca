package config

import (
	"testing"
	"time"
)

func TestApplyDefaults(t *testing.T) {
	tests := []struct {
		name     string
		input    Config
		wantErr  bool
		validate func(t *testing.T, cfg *Config)
	}{
		{
			name: "minimal config with only app identity",
			input: Config{
				App: AppConfig{URL: "https://example.dev", Name: "folio"},
			},
			wantErr: false,
			validate: func(t *testing.T, cfg *Config) {
				// Check server defaults
				if cfg.Server.Host != DefaultHost {
					t.Errorf("Expected host %s, got %s", DefaultHost, cfg.Server.Host)
				}
				if cfg.Server.Port != DefaultPort {
					t.Errorf("Expected port %s, got %s", DefaultPort, cfg.Server.Port)
				}
				if cfg.App.Env != EnvDevelopment {
					t.Errorf("Expected env %s, got %s", EnvDevelopment, cfg.App.Env)
				}

				// Check rate limiter defaults
				rl := cfg.RateLimiter
				if rl.Backend != BackendMemory {
					t.Errorf("Expected backend %s, got %s", BackendMemory, rl.Backend)
				}
				if rl.MaxRequests != DefaultMaxRequests {
					t.Errorf("Expected MaxRequests %d, got %d", DefaultMaxRequests, rl.MaxRequests)
				}
				if rl.Window != 900000*time.Millisecond {
					t.Errorf("Expected Window 15m, got %v", rl.Window)
				}
				if rl.MaxStoreSize != DefaultMaxStoreSize {
					t.Errorf("Expected MaxStoreSize %d, got %d", DefaultMaxStoreSize, rl.MaxStoreSize)
				}
				if rl.EvictionBuffer != DefaultEvictionBuffer {
					t.Errorf("Expected EvictionBuffer %d, got %d", DefaultEvictionBuffer, rl.EvictionBuffer)
				}
				if rl.CleanupInterval != DefaultCleanupInterval {
					t.Errorf("Expected CleanupInterval %v, got %v", DefaultCleanupInterval, rl.CleanupInterval)
				}

				// Allowed origins fall back to the app url
				if len(cfg.Contact.AllowedOrigins) != 1 || cfg.Contact.AllowedOrigins[0] != "https://example.dev" {
					t.Errorf("Expected allowed origins [https://example.dev], got %v", cfg.Contact.AllowedOrigins)
				}

				// Contact form ships disabled
				if cfg.Contact.Enabled {
					t.Error("Expected contact form to be disabled by default")
				}
				if cfg.SMTP.Enabled() {
					t.Error("Expected SMTP to be disabled")
				}
			},
		},
		{
			name: "config with explicit values",
			input: Config{
				App:    AppConfig{Env: EnvProduction, URL: "https://example.dev", Name: "folio"},
				Server: ServerConfig{Host: "0.0.0.0", Port: "9090"},
				RateLimiter: RateLimiterConfig{
					MaxRequests:     2,
					Window:          time.Second,
					MaxStoreSize:    50,
					EvictionBuffer:  5,
					CleanupInterval: time.Minute,
				},
				SMTP: SMTPConfig{Host: "smtp.example.dev", User: "me@example.dev", Pass: "secret"},
			},
			wantErr: false,
			validate: func(t *testing.T, cfg *Config) {
				// Should keep explicit values
				if cfg.Server.Host != "0.0.0.0" {
					t.Errorf("Expected host 0.0.0.0, got %s", cfg.Server.Host)
				}
				if cfg.RateLimiter.MaxRequests != 2 {
					t.Errorf("Expected MaxRequests 2, got %d", cfg.RateLimiter.MaxRequests)
				}
				if cfg.RateLimiter.EvictionBuffer != 5 {
					t.Errorf("Expected EvictionBuffer 5, got %d", cfg.RateLimiter.EvictionBuffer)
				}
				if !cfg.IsProduction() {
					t.Error("Expected production")
				}

				// SMTP completion
				if cfg.SMTP.Port != DefaultSMTPPort {
					t.Errorf("Expected SMTP port %d, got %d", DefaultSMTPPort, cfg.SMTP.Port)
				}
				if cfg.SMTP.Recipient != "me@example.dev" {
					t.Errorf("Expected recipient to fall back to user, got %s", cfg.SMTP.Recipient)
				}
			},
		},
		{
			name: "config without app url should fail",
			input: Config{
				App: AppConfig{Name: "folio"},
			},
			wantErr: true,
		},
		{
			name: "config with relative app url should fail",
			input: Config{
				App: AppConfig{URL: "/home", Name: "folio"},
			},
			wantErr: true,
		},
		{
			name: "config without app name should fail",
			input: Config{
				App: AppConfig{URL: "https://example.dev"},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.input.applyDefaults()

			if (err != nil) != tt.wantErr {
				t.Errorf("applyDefaults() error = %v, wantErr %v", err, tt.wantErr)
				return
			}

			if tt.validate != nil && err == nil {
				tt.validate(t, &tt.input)
			}
		})
	}
}
