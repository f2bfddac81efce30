package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"talentscout/internal/config"
	"talentscout/internal/observability"

	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 30 * time.Second

// Start serves the API until ctx is cancelled or SIGINT/SIGTERM arrives.
// Prompt file watching, idle session pruning and Vault key rotation run
// alongside the listener and stop with it.
func (s *Server) Start(ctx context.Context, om *observability.ObservabilityManager) error {
	httpServer := s.setupHTTPServer(om)
	s.displayServerInfo()

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s.Logger.Info("Starting HTTP server", "address", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed to start: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		s.Logger.Info("Starting graceful shutdown")
		return s.performGracefulShutdown(httpServer)
	})

	if s.Registry != nil && s.SessionIdleTTL > 0 {
		g.Go(func() error {
			return s.Registry.RunPruner(gctx, pruneInterval(s.SessionIdleTTL), s.SessionIdleTTL)
		})
	}

	if watcher := s.promptWatcher(); watcher != nil {
		g.Go(func() error { return watcher.Run(gctx) })
	}

	watcher, err := s.vaultWatcher()
	if err != nil {
		s.Logger.LogError(err, "Vault API key rotation disabled")
	} else if watcher != nil {
		g.Go(func() error { return watcher.Run(gctx) })
	}

	return g.Wait()
}

// Handler returns the fully wrapped API handler
func (s *Server) Handler(om *observability.ObservabilityManager) http.Handler {
	mux := s.setupRoutes(om)
	return om.HTTPMiddleware()(observability.ObservabilityMiddleware(om)(mux))
}

// setupHTTPServer creates and configures the HTTP server
func (s *Server) setupHTTPServer(om *observability.ObservabilityManager) *http.Server {
	return &http.Server{
		Addr:              fmt.Sprintf("%s:%s", s.Host, s.Port),
		Handler:           s.Handler(om),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       s.ReadTimeout,
		WriteTimeout:      s.WriteTimeout,
		IdleTimeout:       s.IdleTimeout,
	}
}

// promptWatcher reloads prompt templates into the engine's builder
func (s *Server) promptWatcher() *config.PromptWatcher {
	if s.AppConfig == nil || !s.AppConfig.Prompts.Watch || len(s.AppConfig.Prompts.Files()) == 0 || s.Engine == nil {
		return nil
	}
	return config.NewPromptWatcher(s.AppConfig.Prompts, func(overrides config.PromptOverrides) {
		applied := s.Engine.Prompts().Apply(overrides.Templates())
		s.Logger.Info("Prompt templates reloaded", "overrides", applied)
	}, s.Logger)
}

// vaultWatcher polls Vault for rotated API keys when configured
func (s *Server) vaultWatcher() (*VaultWatcher, error) {
	if s.AppConfig == nil {
		return nil, nil
	}
	vaultCfg := s.AppConfig.Vault
	if !vaultCfg.Enabled || vaultCfg.Secrets.APIKeys == "" || vaultCfg.PollInterval <= 0 {
		return nil, nil
	}

	client, err := config.NewVaultClient(vaultCfg, s.Logger)
	if err != nil {
		return nil, err
	}
	watcher := NewVaultWatcher(client, vaultCfg.Secrets.APIKeys, vaultCfg.PollInterval, s.SetAPIKeys, s.Logger)
	if err := watcher.Prime(); err != nil {
		return nil, err
	}
	return watcher, nil
}

// performGracefulShutdown handles the graceful shutdown process
func (s *Server) performGracefulShutdown(server *http.Server) error {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	s.cleanupRateLimiter()

	s.Logger.Info("Shutting down HTTP server...")
	if err := server.Shutdown(shutdownCtx); err != nil {
		s.Logger.LogError(err, "Failed to shutdown server gracefully, forcing close")
		return server.Close()
	}

	s.Logger.Info("Server shutdown completed successfully")
	return nil
}

// cleanupRateLimiter cleans up the rate limiter resources
func (s *Server) cleanupRateLimiter() {
	if s.RateLimiter != nil {
		s.RateLimiter.Close()
		s.Logger.Info("Rate limiter cleaned up")
	}
}

// pruneInterval checks for idle sessions a few times per TTL
func pruneInterval(ttl time.Duration) time.Duration {
	interval := ttl / 4
	if interval < time.Minute {
		interval = time.Minute
	}
	return interval
}
