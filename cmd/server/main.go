// Solvedrec - Competitive Programming Problem Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/solvedrec

package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/tomtom215/solvedrec/docs" // Import swagger docs
	"github.com/tomtom215/solvedrec/internal/api"
	"github.com/tomtom215/solvedrec/internal/config"
	"github.com/tomtom215/solvedrec/internal/dataset"
	"github.com/tomtom215/solvedrec/internal/duel"
	"github.com/tomtom215/solvedrec/internal/logging"
	"github.com/tomtom215/solvedrec/internal/supervisor"
	"github.com/tomtom215/solvedrec/internal/supervisor/services"
)

func main() {
	demo := flag.Bool("demo", false, "train on a synthetic dataset instead of DATASET_KIND")
	modelPath := flag.String("model", "", "serve this model snapshot file until the first training run")
	flag.Parse()

	// Load configuration first to get logging settings
	cfg, err := config.Load()
	if err != nil {
		// Use default logger for config errors (config not yet available)
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}
	if *demo {
		cfg.Dataset.Kind = dataset.KindSynthetic
	}

	logging.Init(cfg.LoggingConfigFor())
	logger := logging.Logger()

	logging.Info().
		Str("addr", cfg.Server.Addr()).
		Str("environment", cfg.Server.Environment).
		Msg("Starting Solvedrec with supervisor tree")

	engine, err := initEngine(cfg, logger)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize recommendation engine")
	}
	defer func() {
		if err := engine.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing recommendation engine")
		}
	}()
	if *modelPath != "" {
		if err := engine.Handle.LoadFile(*modelPath); err != nil {
			logging.Fatal().Err(err).Str("path", *modelPath).Msg("Failed to load model file")
		}
		logging.Info().Str("path", *modelPath).Msg("Model loaded from file")
	}
	if !engine.Snapshot {
		logging.Warn().Msg("Snapshot persistence disabled (SNAPSHOT_BACKEND=none); every restart retrains")
	}

	duels := duel.NewManager(logger)

	// Create context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// sutureslog needs a slog.Logger; the adapter forwards to zerolog.
	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger("supervisor"), cfg.TreeConfig())
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create supervisor tree")
	}

	if cfg.Security.RateLimitDisabled {
		logging.Warn().Msg("Rate limiting is DISABLED (DISABLE_RATE_LIMIT=true)")
	}

	mwConfig := api.DefaultChiMiddlewareConfig()
	mwConfig.CORSAllowedOrigins = cfg.Security.CORSOrigins
	mwConfig.RateLimitRequests = cfg.Security.RateLimitReqs
	mwConfig.RateLimitWindow = cfg.Security.RateLimitWindow
	mwConfig.RateLimitDisabled = cfg.Security.RateLimitDisabled

	handler := api.NewHandler(engine.Handle, engine.Trainer, duels, api.HandlerConfig{
		RequestTimeout: cfg.Server.Timeout,
	})
	router := api.NewRouter(handler, api.NewChiMiddleware(mwConfig), logger)

	server := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           router.Setup(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.Server.Timeout,
		WriteTimeout:      cfg.Server.Timeout + 5*time.Second,
		IdleTimeout:       2 * time.Minute,
	}

	tree.AddDataService(engine.Trainer)
	tree.AddMaintenanceService(services.NewDuelPruneService(duels, cfg.Duel.Retention, cfg.Duel.PruneInterval, logger))
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout, logger))

	watchConfig()

	// Setup signal handling for graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	logging.Info().Str("addr", server.Addr).Msg("Starting supervisor tree...")
	errCh := tree.ServeBackground(ctx)

	// Wait for supervisor to finish (either from signal or error)
	select {
	case <-ctx.Done():
		logging.Info().Msg("Context canceled, waiting for supervisor to finish...")
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor tree error")
		}
	}

	// Wait for the error channel to close (supervisor finished)
	for err := range errCh {
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor shutdown error")
		}
	}

	// Report any services that failed to stop within timeout
	unstopped, _ := tree.UnstoppedServiceReport()
	if len(unstopped) > 0 {
		logging.Warn().Int("count", len(unstopped)).Msg("Services failed to stop within timeout")
		for _, svc := range unstopped {
			logging.Warn().Str("service", svc.Name).Msg("Service failed to stop")
		}
	}

	logging.Info().Msg("Application stopped gracefully")
}

// watchConfig reloads the log level when the file named by CONFIG_PATH
// changes. Other settings require a restart.
func watchConfig() {
	path := os.Getenv(config.ConfigPathEnvVar)
	if path == "" {
		return
	}

	err := config.WatchConfigFile(path, func() {
		reloaded, err := config.Load()
		if err != nil {
			logging.Warn().Err(err).Str("path", path).Msg("Ignoring invalid configuration change")
			return
		}
		logging.SetLevelString(reloaded.Logging.Level)
		logging.Info().Str("level", reloaded.Logging.Level).Msg("Log level reloaded")
	})
	if err != nil {
		logging.Warn().Err(err).Str("path", path).Msg("Config file watching unavailable")
	}
}
