package cli

import (
	"context"
	"fmt"
	"time"

	"talentscout/internal/errors"
	"talentscout/internal/interview"
	"talentscout/internal/observability"
	"talentscout/internal/server"

	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP interview API",
	Long: `Start an HTTP server hosting many concurrent interview sessions.

Available endpoints:
- POST   /sessions                  Start a session ({"language": "...", "greet": true})
- POST   /sessions/{id}/messages    Send a candidate message
- GET    /sessions/{id}             Session progress and collected details
- DELETE /sessions/{id}             Discard a session
- POST   /sessions/{id}/transcript  Export the transcript
- GET    /candidates/stats          Stored candidate statistics
- GET    /health                    Health check
- GET    /stats                     Server statistics and rate limiting info

Prompt override files are watched and reloaded while the server runs.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringP("port", "p", "", "Port to listen on (default from config)")
	serveCmd.Flags().String("host", "", "Host to bind to (default from config)")
	serveCmd.Flags().Duration("session-ttl", 0, "Discard sessions idle for longer than this (default from config)")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := getConfigFromContext(cmd.Context())
	logger := getLoggerFromContext(cmd.Context())

	// Flags win over the loaded config
	flags := cmd.Flags()
	if port, _ := flags.GetString("port"); port != "" {
		cfg.Server.Port = port
	}
	if host, _ := flags.GetString("host"); host != "" {
		cfg.Server.Host = host
	}
	if ttl, _ := flags.GetDuration("session-ttl"); ttl > 0 {
		cfg.Server.SessionIdleTTL = ttl
	}

	om, err := observability.NewObservabilityManager(observability.GetObservabilityConfig(cfg, Version), cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize observability: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := om.Shutdown(shutdownCtx); err != nil {
			logger.LogError(err, "Failed to shutdown observability")
		}
	}()

	comps, err := buildComponents(cmd.Context(), cfg, logger, om.InterviewMetrics(), nil)
	if err != nil {
		return err
	}
	defer func() {
		if err := comps.Close(); err != nil {
			logger.LogError(err, "Failed to close components")
		}
	}()

	checkModel(cmd.Context(), comps, cfg.Observability.HealthCheck.AIModelCheckTimeout, logger)

	registry := interview.NewRegistry(comps.Engine, logger)
	srv := server.NewServer(cfg, server.ServerConfigFrom(cfg, Version), server.Dependencies{
		Engine:   comps.Engine,
		Registry: registry,
		AI:       comps.AI,
	}, logger)

	return srv.Start(cmd.Context(), om)
}

// checkModel logs when the model does not answer a probe. Sessions still run;
// turns reply with the canned apology until the model is reachable.
func checkModel(ctx context.Context, comps *components, timeout time.Duration, logger *errors.Logger) {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ok, err := comps.AI.TestConnection(ctx)
	if ok {
		logger.Info("AI model reachable")
		return
	}
	if err == nil {
		err = fmt.Errorf("unexpected reply to connection probe")
	}
	logger.LogError(err, "AI model is not reachable at startup")
}
