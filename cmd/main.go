package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/Lucascluz/folio/internal/config"
	"github.com/Lucascluz/folio/internal/logger"
	"github.com/Lucascluz/folio/internal/server"
)

func main() {
	configPath := flag.String("config", os.Getenv("FOLIO_CONFIG"), "optional YAML config file")
	flag.Parse()

	// .env is optional; real environment variables win
	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal(err)
	}

	lg, err := logger.New(cfg.App.Env, cfg.Logging.Level, "folio")
	if err != nil {
		log.Fatal(err)
	}
	defer lg.Sync()

	setup, err := server.NewSetup(cfg, lg)
	if err != nil {
		lg.Zap().Fatal("setup failed", zap.Error(err))
	}

	srv := setup.Server()

	app := &http.Server{
		Addr:         srv.Addr(),
		Handler:      setup.Handler(),
		ReadTimeout:  srv.ReadTimeout,
		WriteTimeout: srv.WriteTimeout,
	}
	probe := &http.Server{
		Addr:    srv.ProbeAddr(),
		Handler: setup.ProbeHandler(),
	}

	if err := setup.Start(); err != nil {
		lg.Zap().Fatal("failed to start health checks", zap.Error(err))
	}

	serve := func(name string, s *http.Server) {
		lg.Infof("%s listening on %s", name, s.Addr)
		if err := s.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			lg.Zap().Fatal("server failed", zap.String("server", name), zap.Error(err))
		}
	}
	go serve("probe", probe)
	go serve("app", app)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	lg.Infof("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), srv.ShutdownTimeout)
	defer cancel()

	if err := app.Shutdown(shutdownCtx); err != nil {
		lg.Errorf("app shutdown: %v", err)
	}
	if err := setup.Close(); err != nil {
		lg.Errorf("close: %v", err)
	}
	if err := probe.Shutdown(shutdownCtx); err != nil {
		lg.Errorf("probe shutdown: %v", err)
	}
}
