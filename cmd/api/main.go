// Copyright (c) 2026 Listify. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Command api is the entry point for the Listify HTTP API server.
//
// # Startup Sequence
//
//  1. Initialize structured logger.
//  2. Load configuration from environment variables.
//  3. Connect to PostgreSQL (pgxpool).
//  4. Connect to Redis (provider result cache).
//  5. Run database migrations (idempotent).
//  6. Wire the catalog, tracking and maintenance components.
//  7. Start the orphan sweeper and the HTTP server with graceful shutdown.
//
// No business logic lives here. All wiring is explicit constructor injection.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/taibuivan/listify/internal/api"
	"github.com/taibuivan/listify/internal/core/media"
	"github.com/taibuivan/listify/internal/core/resultcache"
	"github.com/taibuivan/listify/internal/core/sweeper"
	"github.com/taibuivan/listify/internal/core/tag"
	"github.com/taibuivan/listify/internal/core/tracking"
	"github.com/taibuivan/listify/internal/platform/config"
	"github.com/taibuivan/listify/internal/platform/constants"
	"github.com/taibuivan/listify/internal/platform/ctxutil"
	"github.com/taibuivan/listify/internal/platform/migration"
	pgstore "github.com/taibuivan/listify/internal/platform/postgres"
	redisstore "github.com/taibuivan/listify/internal/platform/redis"
	"github.com/taibuivan/listify/internal/platform/sec"
)

func main() {
	// ── 1. Logger ──────────────────────────────────────────────────────────
	log := newLogger(slog.LevelInfo)
	log.Info("[Listify] service_initializing")

	// ── 2. Configuration ──────────────────────────────────────────────────
	cfg, err := config.Load()
	must(log, err, "load configuration")

	if cfg.Debug {
		log = newLogger(slog.LevelDebug)
		log.Debug("debug_logging_enabled")
	}

	log.Info("configuration_loaded",
		slog.String("environment", cfg.Environment),
		slog.String("port", cfg.ServerPort),
	)

	// Startup gets a deadline so misconfiguration fails fast.
	startupCtx, startupCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer startupCancel()

	// ── 3. PostgreSQL ─────────────────────────────────────────────────────
	pool, err := pgstore.NewPool(startupCtx, cfg.DatabaseURL, cfg.Pool.PoolOptions(), log)
	must(log, err, "connect to postgres")
	defer func() {
		log.Info("closing postgres pool")
		pool.Close()
	}()

	// ── 4. Redis ──────────────────────────────────────────────────────────
	rdb, err := redisstore.NewClient(startupCtx, cfg.RedisURL, log)
	must(log, err, "connect to redis")
	defer func() {
		log.Info("closing redis client")
		if cerr := rdb.Close(); cerr != nil {
			log.Error("redis close error", slog.Any("error", cerr))
		}
	}()

	// ── 5. Migrations ─────────────────────────────────────────────────────
	must(log, migration.RunUp(cfg.DatabaseURL, cfg.MigrationPath, log), "run migrations")

	// ── 6. Token verification ─────────────────────────────────────────────
	verifier, err := sec.NewTokenVerifier(cfg.JWTPubKeyPath, constants.AuthIssuer)
	must(log, err, "initialize jwt verifier")

	// ── 7. Health handlers ────────────────────────────────────────────────
	liveness, readiness := api.NewHealthHandlers(api.HealthDependencies{
		CheckDatabase: func(ctx context.Context) error {
			return pgstore.Ping(ctx, pool)
		},
		CheckCache: func(ctx context.Context) error {
			return redisstore.Ping(ctx, rdb)
		},
	}, log)

	// ── 8. Domain Wiring ──────────────────────────────────────────────────
	tx := pgstore.NewTxManager(pool)

	tagRepository := tag.NewPostgresRepository(pool)
	associations := tag.NewAssociations(tagRepository, tag.NewNormalizer(tagRepository))

	cache := resultcache.NewCoordinator(resultcache.NewRedisStore(rdb), cfg.ResultCachePrefix)
	assets := media.NewLocalAssets(cfg.AssetDir, cfg.AssetURLPrefix)

	catalog := media.NewCatalog(media.NewPostgresRepository(pool), associations, tx, cache, assets)
	library := tracking.NewService(tracking.NewPostgresRepository(pool), catalog, tx)
	orphanSweeper := sweeper.New(catalog, sweeper.Options{
		InitialDelay: cfg.SweepInitialDelay,
		Interval:     cfg.SweepInterval,
	})

	// Root context of the running process; cancelled on shutdown.
	appCtx, appCancel := context.WithCancel(context.Background())
	defer appCancel()

	// ── 9. HTTP Server ────────────────────────────────────────────────────
	server := api.NewServer(appCtx, cfg, log, verifier, api.Handlers{
		Liveness:    liveness,
		Readiness:   readiness,
		Media:       media.NewHandler(catalog),
		Tag:         tag.NewHandler(tag.NewService(tagRepository)),
		Tracking:    tracking.NewHandler(library),
		Maintenance: api.NewMaintenanceHandler(orphanSweeper),
	})

	// ── 10. Background jobs ───────────────────────────────────────────────
	var background sync.WaitGroup
	if cfg.SweepEnabled {
		background.Add(1)
		go func() {
			defer background.Done()
			sweepCtx := ctxutil.WithLogger(appCtx, log.With(slog.String("component", "sweeper")))
			if err := orphanSweeper.Run(sweepCtx); err != nil {
				log.Debug("orphan_sweeper_stopped", slog.String("reason", err.Error()))
			}
		}()
	}

	// ── 11. Graceful Shutdown ─────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)

	serverErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case sig := <-quit:
		log.Info("shutdown signal received", slog.String("signal", sig.String()))
	case err := <-serverErr:
		log.Error("server startup error", slog.Any("error", err))
	}

	shutdownTimeout := constants.ShutdownTimeout
	log.Info("shutting down server", slog.Duration("timeout", shutdownTimeout))

	shutdownErr := server.Shutdown(shutdownTimeout)

	// Stop the sweeper before the pool closes
	appCancel()
	background.Wait()

	if shutdownErr != nil {
		log.Error("shutdown error", slog.Any("error", shutdownErr))
		os.Exit(1)
	}

	log.Info("server stopped cleanly")
}

// newLogger builds the JSON logger every component writes through.
func newLogger(level slog.Level) *slog.Logger {
	log := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})).
		With(slog.String(constants.FieldApp, constants.AppName))
	slog.SetDefault(log)
	return log
}

// must logs a structured fatal error and terminates the process if err is non-nil.
//
// It is limited to startup wiring. After startup, all errors are returned
// and handled explicitly.
func must(log *slog.Logger, err error, context string) {
	if err != nil {
		log.Error("startup failure",
			slog.String("context", context),
			slog.Any("error", err),
		)
		os.Exit(1)
	}
}
