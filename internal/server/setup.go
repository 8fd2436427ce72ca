package server

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/Lucascluz/folio/internal/config"
	"github.com/Lucascluz/folio/internal/contact"
	"github.com/Lucascluz/folio/internal/ip"
	"github.com/Lucascluz/folio/internal/logger"
	"github.com/Lucascluz/folio/internal/middleware"
	"github.com/Lucascluz/folio/internal/observability"
	"github.com/Lucascluz/folio/internal/ratelimiter"
)

// Setup owns every long-lived component of the process. Nothing is held in
// package state, so tests can build as many as they need.
type Setup struct {
	server *Server
	cfg    *config.Config
	log    *logger.Logger

	limiter   ratelimiter.Limiter
	extractor *ip.Extractor
	notifier  contact.Notifier
	obs       *observability.Observability
}

// NewSetup builds the limiter, extractor, notifier and observability hub from
// cfg. Call Close to release them.
func NewSetup(cfg *config.Config, log *logger.Logger) (*Setup, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if log == nil {
		log = logger.NewNop()
	}

	srv := New(cfg)

	extractor, err := ip.NewExtractor(cfg.IsProduction(), cfg.RateLimiter.TrustedProxies)
	if err != nil {
		return nil, fmt.Errorf("failed to create IP extractor: %w", err)
	}

	limiter, err := ratelimiter.New(cfg.RateLimiter, log.Named("ratelimiter"))
	if err != nil {
		return nil, fmt.Errorf("failed to create rate limiter: %w", err)
	}

	obs, err := observability.NewObservability(cfg, srv, log)
	if err != nil {
		limiter.Close()
		return nil, fmt.Errorf("failed to create observability: %w", err)
	}

	return &Setup{
		server:    srv,
		cfg:       cfg,
		log:       log,
		limiter:   limiter,
		extractor: extractor,
		notifier:  contact.NewNotifier(cfg, log),
		obs:       obs,
	}, nil
}

func (s *Setup) Server() *Server {
	return s.server
}

// Handler builds the public router wrapped in the middleware chain.
func (s *Setup) Handler() http.Handler {
	router := mux.NewRouter()
	router.Use(middleware.Metrics)

	api := router.PathPrefix("/api").Subrouter()
	api.Use(func(next http.Handler) http.Handler {
		return middleware.CORS(s.cfg.Contact.AllowedOrigins, next)
	})

	// Innermost first: validator, limiter, then the maintenance override
	var submit http.Handler = contact.NewHandler(s.cfg.Contact, s.notifier, s.extractor)
	submit = middleware.RateLimiting(s.limiter, s.extractor, submit)
	submit = middleware.Maintenance(!s.cfg.Contact.Enabled, contact.DisabledMessage, submit)

	api.Handle("/contact", submit).Methods(http.MethodPost)
	api.HandleFunc("/contact", contact.Preflight).Methods(http.MethodOptions)

	handler := http.Handler(router)
	handler = middleware.BlockSensitivePaths(handler)
	handler = middleware.FlagSuspiciousAgents(s.extractor, handler)
	handler = middleware.Security(s.cfg.IsProduction(), handler)

	// Apply logging last (wraps everything)
	handler = middleware.Logging(s.log.Named("http"), handler)

	return handler
}

func (s *Setup) ProbeHandler() http.Handler {
	return s.obs.Probe().Handler()
}

// Start begins background health checks of the limiter backend. Readiness
// follows their result.
func (s *Setup) Start() error {
	component := limiterHealth{name: "rate limiter (" + s.backendName() + ")", limiter: s.limiter}
	return s.obs.StartHealthChecks([]observability.HealthAware{component}, s.server.SetReady)
}

// Close stops health checks and destroys the limiter.
func (s *Setup) Close() error {
	s.obs.Stop()
	s.server.SetReady(false)

	if err := s.limiter.Close(); err != nil {
		return fmt.Errorf("close rate limiter: %w", err)
	}
	return nil
}

func (s *Setup) backendName() string {
	if s.cfg.RateLimiter.Backend == "" {
		return config.BackendMemory
	}
	return s.cfg.RateLimiter.Backend
}

type limiterHealth struct {
	name    string
	limiter ratelimiter.Limiter
}

func (h limiterHealth) Name() string {
	return h.name
}

func (h limiterHealth) Ping(ctx context.Context) error {
	return h.limiter.Ping(ctx)
}
