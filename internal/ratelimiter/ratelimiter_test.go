package ratelimiter

import (
	"context"
	"errors"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"

	"github.com/Lucascluz/folio/internal/config"
	"github.com/Lucascluz/folio/internal/logger"
	"github.com/Lucascluz/folio/internal/ratelimiter/limiter"
)

func TestNew_Backends(t *testing.T) {
	server, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}
	defer server.Close()

	tests := []struct {
		name     string
		cfg      config.RateLimiterConfig
		wantType string
		wantErr  error
	}{
		{
			name:     "empty backend defaults to memory",
			cfg:      config.RateLimiterConfig{MaxRequests: 3, Window: time.Minute},
			wantType: "memory",
		},
		{
			name:     "memory",
			cfg:      config.RateLimiterConfig{Backend: config.BackendMemory, MaxRequests: 3, Window: time.Minute},
			wantType: "memory",
		},
		{
			name: "redis",
			cfg: config.RateLimiterConfig{
				Backend:     config.BackendRedis,
				MaxRequests: 3,
				Window:      time.Minute,
				Redis:       config.RedisConfig{URL: "redis://" + server.Addr(), KeyPrefix: "t"},
			},
			wantType: "redis",
		},
		{
			name:    "unknown backend",
			cfg:     config.RateLimiterConfig{Backend: "memcached"},
			wantErr: config.ErrUnknownBackend,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, err := New(tt.cfg, logger.NewNop())
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("err = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("New failed: %v", err)
			}
			defer l.Close()

			switch l.(type) {
			case *limiter.FixedWindow:
				if tt.wantType != "memory" {
					t.Errorf("got memory backend, want %s", tt.wantType)
				}
			case *limiter.RedisWindow:
				if tt.wantType != "redis" {
					t.Errorf("got redis backend, want %s", tt.wantType)
				}
			default:
				t.Fatalf("unexpected limiter type %T", l)
			}

			if l.Limit() != 3 {
				t.Errorf("Limit = %d, want 3", l.Limit())
			}

			res, err := l.Check(context.Background(), "10.0.0.1")
			if err != nil {
				t.Fatalf("Check failed: %v", err)
			}
			if !res.Allowed || res.Remaining != 2 {
				t.Errorf("first check = %+v", res)
			}
		})
	}
}

func TestNew_InvalidRedisURL(t *testing.T) {
	_, err := New(config.RateLimiterConfig{
		Backend: config.BackendRedis,
		Redis:   config.RedisConfig{URL: "://nope"},
	}, logger.NewNop())
	if err == nil {
		t.Fatal("Expected error for malformed redis url")
	}
}
