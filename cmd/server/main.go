// Cinemetrics - Personal Movie and TV Tracking with Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinemetrics

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/tomtom215/cinemetrics/internal/api"
	"github.com/tomtom215/cinemetrics/internal/catalog"
	"github.com/tomtom215/cinemetrics/internal/config"
	"github.com/tomtom215/cinemetrics/internal/generator"
	"github.com/tomtom215/cinemetrics/internal/logging"
	"github.com/tomtom215/cinemetrics/internal/recommend"
	"github.com/tomtom215/cinemetrics/internal/storage"
	"github.com/tomtom215/cinemetrics/internal/supervisor"
	"github.com/tomtom215/cinemetrics/internal/supervisor/services"
	ws "github.com/tomtom215/cinemetrics/internal/websocket"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	// Load configuration first to get logging settings
	cfg, err := config.Load()
	if err != nil {
		// Use default logger for config errors (config not yet available)
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(cfg.LoggingOptions())

	logging.Info().
		Str("version", version).
		Str("environment", cfg.Server.Environment).
		Str("storage_backend", cfg.Storage.Backend).
		Msg("Starting Cinemetrics with supervisor tree")

	store, err := openStore(cfg)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to open storage")
	}
	defer func() {
		if err := store.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing storage")
		}
	}()

	cat := catalog.NewBreakerClient(cfg.CatalogOptions())
	defer cat.Close()
	gen := generator.NewBreakerClient(cfg.GeneratorOptions())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger("supervisor"), supervisor.TreeConfig{
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	})
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create supervisor tree")
	}

	// The hub must exist before the manager so every state change is pushed.
	wsHub := ws.NewHub()

	manager, err := recommend.NewManager(cfg.RecommendOptions(), recommend.Dependencies{
		Provider: recommend.Adapters{Catalog: cat, Generator: gen, Trending: cat},
		Store:    store,
		Logger:   logging.WithComponent("recommend"),
		Observer: wsHub,
	})
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create recommendation manager")
	}

	handler := api.NewHandler(api.HandlerConfig{
		Recommender: manager,
		Store:       store,
		Hub:         wsHub,
		Breakers: map[string]api.BreakerReporter{
			"tmdb":       cat,
			"openrouter": gen,
		},
		MaxBodyBytes: cfg.Server.MaxBodyBytes,
		Version:      version,
	})

	mwConfig := api.DefaultChiMiddlewareConfig()
	mwConfig.CORSAllowedOrigins = cfg.Server.CORSOrigins
	mwConfig.RateLimitRequests = cfg.Server.RateLimitRequests
	mwConfig.RateLimitWindow = cfg.Server.RateLimitWindow
	mwConfig.RateLimitDisabled = cfg.Server.RateLimitDisabled
	if cfg.Server.RateLimitDisabled {
		logging.Warn().Msg("Rate limiting is DISABLED (DISABLE_RATE_LIMIT=true)")
	}
	if cfg.ShouldWarnAboutCORS() {
		logging.Warn().Msg("CORS_ORIGINS=* allows any website to read recommendations; set explicit origins before production")
	}

	router := api.NewRouter(handler, api.NewChiMiddleware(mwConfig))

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router.Setup(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// === ADD SERVICES TO SUPERVISOR TREE ===

	if cfg.Storage.SweepInterval > 0 {
		sweeper := recommend.NewSweeper(store, manager.Config(), nil, logging.WithComponent("sweeper"))
		tree.AddStorageService(services.NewSweeperService(sweeper, services.SweeperServiceConfig{
			Interval:       cfg.Storage.SweepInterval,
			SweepOnStartup: true,
		}, logging.WithComponent("supervisor")))
		logging.Info().Dur("interval", cfg.Storage.SweepInterval).Msg("Storage sweeper added to supervisor tree")
	} else {
		logging.Info().Msg("Storage sweeper disabled (STORAGE_SWEEP_INTERVAL=0)")
	}

	tree.AddMessagingService(services.NewWebSocketHubService(wsHub))

	tree.AddAPIService(services.NewHTTPServerService(server, server.Addr, cfg.Server.ShutdownTimeout, logging.WithComponent("http")))
	logging.Info().Str("addr", server.Addr).Msg("HTTP server service added")

	// === START SUPERVISOR TREE ===

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	logging.Info().Msg("Starting supervisor tree...")
	errCh := tree.ServeBackground(ctx)

	select {
	case <-ctx.Done():
		logging.Info().Msg("Context canceled, waiting for supervisor to finish...")
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor tree error")
		}
	}

	for err := range errCh {
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor shutdown error")
		}
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	if len(unstopped) > 0 {
		logging.Warn().Int("count", len(unstopped)).Msg("Services failed to stop within timeout")
		for _, svc := range unstopped {
			logging.Warn().Str("service", svc.Name).Msg("Service failed to stop")
		}
	}

	logging.Info().Msg("Application stopped gracefully")
}

// openStore opens the configured storage backend.
func openStore(cfg *config.Config) (storage.Store, error) {
	switch cfg.Storage.Backend {
	case "memory":
		logging.Warn().Msg("Using in-memory storage; caches and ledgers are lost on restart")
		return storage.NewMemoryStore(), nil
	case "badger", "":
		store, err := storage.OpenBadger(cfg.BadgerOptions())
		if err != nil {
			return nil, err
		}
		logging.Info().Str("path", cfg.Storage.Path).Msg("Badger storage opened")
		return store, nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}
}
