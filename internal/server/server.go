package server

import (
	"net"
	"sync/atomic"
	"time"

	"github.com/Lucascluz/folio/internal/config"
)

type Server struct {
	Host      string
	Port      string
	ProbePort string

	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration

	ready atomic.Bool
}

func New(cfg *config.Config) *Server {
	return &Server{
		Host:      cfg.Server.Host,
		Port:      cfg.Server.Port,
		ProbePort: cfg.Server.ProbePort,

		ReadTimeout:     cfg.Server.ReadTimeout,
		WriteTimeout:    cfg.Server.WriteTimeout,
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	}
}

func (s *Server) Addr() string {
	return net.JoinHostPort(s.Host, s.Port)
}

func (s *Server) ProbeAddr() string {
	return net.JoinHostPort(s.Host, s.ProbePort)
}

func (s *Server) SetReady(v bool) {
	s.ready.Store(v)
}

func (s *Server) IsReady() bool {
	return s.ready.Load()
}
