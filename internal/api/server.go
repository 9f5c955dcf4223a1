package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/jonesrussell/esglens/internal/config"
	"github.com/jonesrussell/esglens/internal/logger"
)

// Server timeouts fall back to these when unconfigured. Scoring runs crawl
// and call external oracles, so the write timeout is generous.
const (
	defaultReadTimeout     = 15 * time.Second
	defaultWriteTimeout    = 5 * time.Minute
	defaultShutdownTimeout = 10 * time.Second
	defaultAddress         = ":8080"
)

// Server wraps the HTTP server with lifecycle management.
type Server struct {
	httpServer *http.Server
	log        logger.Interface
}

// NewServer creates the API server around a scorer.
func NewServer(cfg config.ServerConfig, scorer Scorer, log logger.Interface) *Server {
	if cfg.Address == "" {
		cfg.Address = defaultAddress
	}
	if cfg.ReadTimeout <= 0 {
		cfg.ReadTimeout = defaultReadTimeout
	}
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = defaultWriteTimeout
	}

	log = log.WithComponent("api")

	return &Server{
		httpServer: &http.Server{
			Addr:         cfg.Address,
			Handler:      SetupRouter(log, scorer),
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
		},
		log: log,
	}
}

// Start serves until the context is canceled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	errChan := make(chan error, 1)

	go func() {
		s.log.Info("starting HTTP server", "addr", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	select {
	case err := <-errChan:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
		s.log.Info("shutting down HTTP server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), defaultShutdownTimeout)
		defer cancel()

		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("failed to stop server: %w", err)
		}

		return nil
	}
}
