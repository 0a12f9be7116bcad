// EventSieve - Event Discovery Aggregator
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/eventsieve

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata" // upstream.timezone must resolve on minimal images

	"github.com/tomtom215/eventsieve/internal/api"
	"github.com/tomtom215/eventsieve/internal/cache"
	"github.com/tomtom215/eventsieve/internal/config"
	"github.com/tomtom215/eventsieve/internal/engine"
	"github.com/tomtom215/eventsieve/internal/logging"
	"github.com/tomtom215/eventsieve/internal/middleware"
	"github.com/tomtom215/eventsieve/internal/supervisor"
	"github.com/tomtom215/eventsieve/internal/supervisor/services"
	"github.com/tomtom215/eventsieve/internal/telemetry"
	"github.com/tomtom215/eventsieve/internal/upstream"
	"github.com/tomtom215/eventsieve/internal/warmer"
)

// Set at build time with -ldflags "-X main.version=... -X main.commit=...".
var (
	version = "dev"
	commit  = "unknown"
)

const (
	latencyWindow    = 1024
	slowRequest      = 5 * time.Second
	telemetryTimeout = 5 * time.Second
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	logging.Info().
		Str("version", version).
		Str("commit", commit).
		Str("environment", cfg.Server.Environment).
		Str("cache_backend", cfg.Cache.Backend).
		Msg("Starting EventSieve")

	if cfg.ShouldWarnAboutCORS() {
		logging.Warn().Msg("CORS allows any origin in production; set CORS_ORIGINS")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		logging.Error().Err(err).Msg("EventSieve stopped with error")
		stop()
		os.Exit(1)
	}
	logging.Info().Msg("EventSieve stopped gracefully")
}

// run wires every component and blocks until ctx is canceled.
func run(ctx context.Context, cfg *config.Config) error {
	shutdownTelemetry, err := telemetry.Init(ctx, cfg.Telemetry, version, cfg.Server.Environment)
	if err != nil {
		return fmt.Errorf("init telemetry: %w", err)
	}
	defer func() {
		tctx, cancel := context.WithTimeout(context.Background(), telemetryTimeout)
		defer cancel()
		if err := shutdownTelemetry(tctx); err != nil {
			logging.Warn().Err(err).Msg("Telemetry shutdown failed")
		}
	}()

	store, err := cache.NewStore(cacheConfig(cfg))
	if err != nil {
		return fmt.Errorf("init cache: %w", err)
	}
	if closer, ok := store.(interface{ Close() error }); ok {
		defer func() {
			if err := closer.Close(); err != nil {
				logging.Warn().Err(err).Msg("Error closing cache")
			}
		}()
	}

	fetcher := upstream.NewFetcher(&cfg.Upstream)

	engineCfg := engine.DefaultConfig()
	engineCfg.MaxUpstreamPages = cfg.Engine.MaxUpstreamPages
	engineCfg.CacheTTL = cfg.Cache.TTL
	engineCfg.ExcludeTerms = cfg.Engine.ExcludeTerms
	engineCfg.TechQueries = cfg.Engine.TechQueries
	engineCfg.Location = cfg.Upstream.Location()
	svc := engine.NewService(fetcher, store, engineCfg)

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger("supervisor"), supervisor.TreeConfig{
		ShutdownTimeout: cfg.Server.Timeout + 5*time.Second,
	})
	if err != nil {
		return fmt.Errorf("init supervisor: %w", err)
	}

	if mem, ok := store.(*cache.MemoryStore); ok && cfg.Cache.SweepInterval > 0 {
		tree.AddCacheService(cache.NewSweeper(mem.Cacher(), cfg.Cache.SweepInterval, mem.Name()))
	}

	deps := api.HandlerDeps{
		Searcher: svc,
		Breaker:  fetcher,
		Cache:    store,
		Latency:  middleware.NewLatencyTracker(latencyWindow, slowRequest),
		Version:  version,
	}

	if cfg.Warmer.Enabled {
		w, err := warmer.New(svc, cfg.Warmer)
		if err != nil {
			return fmt.Errorf("init warmer: %w", err)
		}
		tree.AddBackgroundService(services.NewWarmerService(w, true))
		deps.Warmer = w
	}

	handler := api.NewHandler(cfg, deps)
	router := api.NewRouter(cfg, handler)

	server := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           router.SetupChi(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		// Long enough for a full accumulation plus response encoding.
		WriteTimeout: cfg.Server.Timeout + 10*time.Second,
		IdleTimeout:  120 * time.Second,
	}
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.Timeout))

	logging.Info().Str("addr", server.Addr).Msg("Starting supervisor tree")
	err = tree.Serve(ctx)

	if unstopped, _ := tree.UnstoppedServiceReport(); len(unstopped) > 0 {
		for _, u := range unstopped {
			logging.Warn().Str("service", u.Name).Msg("Service failed to stop within timeout")
		}
	}

	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// cacheConfig maps the loaded configuration onto the cache package's.
func cacheConfig(cfg *config.Config) cache.Config {
	return cache.Config{
		Backend:       cache.Backend(cfg.Cache.Backend),
		TTL:           cfg.Cache.TTL,
		SweepInterval: cfg.Cache.SweepInterval,
		Capacity:      cfg.Cache.Capacity,
		Redis: cache.RedisConfig{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			Prefix:   cfg.Redis.Prefix,
			Timeout:  cfg.Redis.Timeout,
		},
	}
}
