// Tripwise - Travel Package Point-of-Interest Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tripwise

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/tomtom215/tripwise/internal/api"
	"github.com/tomtom215/tripwise/internal/catalog"
	"github.com/tomtom215/tripwise/internal/config"
	"github.com/tomtom215/tripwise/internal/logging"
	"github.com/tomtom215/tripwise/internal/recommend"
	"github.com/tomtom215/tripwise/internal/supervisor"
	"github.com/tomtom215/tripwise/internal/supervisor/services"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	if err := run(); err != nil {
		logging.Fatal().Err(err).Msg("Tripwise exited with error")
	}
}

//nolint:gocyclo // Sequential startup steps
func run() error {
	// Load configuration first to get logging settings
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}
	logOpts := cfg.LoggingOptions()
	logOpts.Version = version
	logging.Init(logOpts)

	logging.Info().
		Str("environment", cfg.Server.Environment).
		Msg("Starting Tripwise with supervisor tree")

	if cfg.ShouldWarnAboutCORS() {
		logging.Warn().Msg("============================================================")
		logging.Warn().Msg("  SECURITY WARNING: CORS is configured with wildcard origin (CORS_ORIGINS=*)")
		logging.Warn().Msg("  RECOMMENDED: Set specific origins in production:")
		logging.Warn().Msg("    CORS_ORIGINS=https://yourdomain.com")
		logging.Warn().Msg("============================================================")
	}
	if cfg.Security.RateLimitDisabled {
		logging.Warn().Msg("Rate limiting is DISABLED (DISABLE_RATE_LIMIT=true)")
	}

	scorer, err := initScorer(cfg, logging.WithComponent("inference"))
	if err != nil {
		return err
	}

	engine, err := recommend.NewEngine(cfg.RecommendOptions(), scorer.Scorer, logging.WithComponent("recommend"))
	if err != nil {
		return fmt.Errorf("create recommendation engine: %w", err)
	}
	logging.Info().
		Str("algorithm", engine.Algorithm()).
		Str("fallback_policy", cfg.Recommend.FallbackPolicy).
		Dur("cache_ttl", cfg.Recommend.CacheTTL).
		Msg("Recommendation engine initialized")

	store, err := catalog.Open(cfg.CatalogStoreType(), cfg.Catalog.Path)
	if err != nil {
		return fmt.Errorf("open catalog: %w", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing catalog")
		}
	}()

	if cfg.Catalog.SeedFile != "" {
		n, err := catalog.LoadSeed(context.Background(), store, cfg.Catalog.SeedFile)
		if err != nil {
			return fmt.Errorf("seed catalog: %w", err)
		}
		logging.Info().Int("packages", n).Str("file", cfg.Catalog.SeedFile).Msg("Catalog seeded")
	}

	deps := api.HandlerDeps{
		Engine:  engine,
		Store:   store,
		Backend: scorer.Backend,
		Version: version,
	}
	// Assigned only when set: a nil *BreakerScorer in the interface is non-nil.
	if scorer.Breaker != nil {
		deps.Breaker = scorer.Breaker
	}
	handler, err := api.NewHandler(deps)
	if err != nil {
		return fmt.Errorf("create API handler: %w", err)
	}

	mwConfig := api.DefaultChiMiddlewareConfig()
	mwConfig.CORSAllowedOrigins = cfg.Security.CORSOrigins
	mwConfig.RateLimitRequests = cfg.Security.RateLimitReqs
	mwConfig.RateLimitWindow = cfg.Security.RateLimitWindow
	mwConfig.RateLimitDisabled = cfg.Security.RateLimitDisabled
	router := api.NewRouter(handler, mwConfig, logging.WithComponent("api"))

	server := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           router.SetupChi(),
		ReadTimeout:       cfg.Server.ReadTimeout,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       120 * time.Second,
	}

	// === SUPERVISOR TREE ===

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger("supervisor"), supervisor.TreeConfig{
		FailureThreshold: 5,
		FailureBackoff:   15 * time.Second,
		ShutdownTimeout:  cfg.Server.ShutdownTimeout,
	})
	if err != nil {
		return fmt.Errorf("create supervisor tree: %w", err)
	}

	// Maintenance layer services
	if cfg.Inference.Enabled {
		tree.AddMaintenanceService(services.NewArtifactSweeperService(services.SweeperConfig{
			Dir:      cfg.SubprocessOptions().TempDir,
			Interval: cfg.Inference.SweepInterval,
			MaxAge:   cfg.Inference.SweepMaxAge,
		}, logging.WithComponent("sweeper")))
	}
	if c := engine.Cache(); c != nil {
		tree.AddMaintenanceService(services.NewCacheJanitorService(c, time.Minute, logging.WithComponent("cache")))
	}

	// API layer services
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout, logging.WithComponent("http")))
	logging.Info().Str("addr", server.Addr).Msg("HTTP server service added")

	// === START SUPERVISOR TREE ===

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logging.Info().Msg("Starting supervisor tree...")
	errCh := tree.ServeBackground(ctx)

	select {
	case <-ctx.Done():
		logging.Info().Msg("Received shutdown signal, waiting for supervisor to finish...")
		err = <-errCh
	case err = <-errCh:
	}
	stop()
	if err != nil && !errors.Is(err, context.Canceled) {
		logging.Error().Err(err).Msg("Supervisor tree error")
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	if len(unstopped) > 0 {
		logging.Warn().Int("count", len(unstopped)).Msg("Services failed to stop within timeout")
		for _, svc := range unstopped {
			logging.Warn().Str("service", svc.Name).Msg("Service failed to stop")
		}
	}

	logging.Info().Msg("Application stopped gracefully")
	return nil
}
