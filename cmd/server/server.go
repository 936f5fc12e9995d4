package main

import (
	"time"

	"github.com/adityaanikam/AI-agent-project/internal/config"
	"github.com/adityaanikam/AI-agent-project/internal/infrastructure"
)

type Server struct {
	infra   *infrastructure.Infrastructure
	modules *Modules
	http    *httpServer
}

func NewServer(cfg *config.Config) (*Server, error) {
	infra, err := infrastructure.New(cfg)
	if err != nil {
		return nil, err
	}

	modules, err := NewModules(infra, cfg)
	if err != nil {
		return nil, err
	}

	router := buildRouter(infra, cfg)
	modules.Mount(router)

	infra.Logger.Info(
		"server initialized",
		"addr", cfg.Server.Addr(),
		"version", cfg.Version,
		"database", infra.Database.Driver(),
		"storage", infra.Storage != nil,
	)

	return &Server{
		infra:   infra,
		modules: modules,
		http:    newHTTPServer(&cfg.Server, router, infra.Logger),
	}, nil
}

func (s *Server) Start() error {
	s.infra.Logger.Info("starting service")

	if err := s.infra.Start(); err != nil {
		return err
	}

	s.modules.Domain.Scheduler.Start(s.infra.Lifecycle)

	if err := s.http.Start(s.infra.Lifecycle); err != nil {
		return err
	}

	go func() {
		s.infra.Lifecycle.WaitForStartup()
		s.infra.Logger.Info("all subsystems ready")
	}()

	return nil
}

// Shutdown drains in-flight pipeline runs before the lifecycle hooks close
// the database and storage they write to. Both phases share timeout.
func (s *Server) Shutdown(timeout time.Duration) error {
	s.infra.Logger.Info("initiating shutdown")
	deadline := time.Now().Add(timeout)

	drained := make(chan struct{})
	go func() {
		s.modules.Domain.Scheduler.Wait()
		close(drained)
	}()

	select {
	case <-drained:
	case <-time.After(timeout):
		s.infra.Logger.Warn("pipeline drain timed out", "timeout", timeout)
	}

	return s.infra.Lifecycle.Shutdown(max(time.Until(deadline), time.Second))
}
