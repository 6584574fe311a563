// Package api provides the cubby REST API server.
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/marmos91/cubby/internal/logger"
	"github.com/marmos91/cubby/pkg/api/auth"
	"github.com/marmos91/cubby/pkg/catalog/store"
	"github.com/marmos91/cubby/pkg/metrics"
	"github.com/marmos91/cubby/pkg/vault"
)

// shutdownGrace bounds the request drain when Start's context is
// cancelled.
const shutdownGrace = 5 * time.Second

// Server is the API HTTP server over a catalog and a vault.
//
// The server supports graceful shutdown: cancelling the Start context
// drains in-flight requests before returning.
type Server struct {
	server       *http.Server
	config       Config
	shutdownOnce sync.Once
}

// NewServer creates the API server in a stopped state; call Start to serve.
//
// The JWT service is built from the config. The signing secret must be at
// least 32 characters, from config or the CUBBY_API_SECRET environment
// variable. Metrics may be nil to disable instrumentation and /metrics.
func NewServer(config Config, catalog store.Store, vlt *vault.Vault, m *metrics.Metrics) (*Server, error) {
	config.ApplyDefaults()

	jwtSecret := config.GetJWTSecret()
	if len(jwtSecret) < 32 {
		return nil, fmt.Errorf("JWT secret must be at least 32 characters; set via %s env var or config", EnvAPISecret)
	}

	jwtService, err := auth.NewJWTService(auth.JWTConfig{
		Secret:               jwtSecret,
		AccessTokenDuration:  config.JWT.AccessTokenDuration,
		RefreshTokenDuration: config.JWT.RefreshTokenDuration,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create JWT service: %w", err)
	}

	return &Server{
		config: config,
		server: &http.Server{
			Addr:         fmt.Sprintf(":%d", config.Port),
			Handler:      NewRouter(catalog, vlt, jwtService, m),
			ReadTimeout:  config.ReadTimeout,
			WriteTimeout: config.WriteTimeout,
			IdleTimeout:  config.IdleTimeout,
		},
	}, nil
}

// Start serves requests until the context is cancelled or the listener
// fails. Cancellation triggers graceful shutdown; nil is returned when the
// shutdown completes cleanly.
func (s *Server) Start(ctx context.Context) error {
	logger.Info("API server listening", "port", s.config.Port)

	failed := make(chan error, 1)
	go func() {
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			failed <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("API server shutdown signal received")
		// Fresh context: the cancelled one would abort the drain immediately.
		drainCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		return s.Stop(drainCtx)
	case err := <-failed:
		return fmt.Errorf("API server failed: %w", err)
	}
}

// Stop initiates graceful shutdown. Safe to call multiple times and
// concurrently with Start.
func (s *Server) Stop(ctx context.Context) error {
	var err error
	s.shutdownOnce.Do(func() {
		if serr := s.server.Shutdown(ctx); serr != nil {
			logger.Error("API server shutdown error", logger.KeyError, serr)
			err = fmt.Errorf("API server shutdown error: %w", serr)
			return
		}
		logger.Info("API server stopped gracefully")
	})
	return err
}

// Port returns the TCP port the server listens on.
func (s *Server) Port() int {
	return s.config.Port
}
