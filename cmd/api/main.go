// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Command api is the entry point for the anime catalog HTTP API server.
//
// # Startup Sequence
//
//  1. Initialize structured logger.
//  2. Load configuration from environment variables.
//  3. Connect to PostgreSQL (pgxpool) and run migrations.
//  4. Connect to Redis when REDIS_URL is set.
//  5. Connect to NATS JetStream when NATS_URL is set.
//  6. Load the JWT public key when JWT_PUBLIC_KEY_PATH is set.
//  7. Wire HTTP handlers.
//  8. Start HTTP server with graceful shutdown.
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
	"syscall"
	"time"

	"github.com/taibuivan/animeapi/internal/api"
	"github.com/taibuivan/animeapi/internal/core/anime"
	"github.com/taibuivan/animeapi/internal/platform/config"
	"github.com/taibuivan/animeapi/internal/platform/constants"
	"github.com/taibuivan/animeapi/internal/platform/middleware"
	"github.com/taibuivan/animeapi/internal/platform/migration"
	"github.com/taibuivan/animeapi/internal/platform/natsconn"
	pgstore "github.com/taibuivan/animeapi/internal/platform/postgres"
	redisstore "github.com/taibuivan/animeapi/internal/platform/redis"
	"github.com/taibuivan/animeapi/internal/platform/sec"
)

func main() {
	// ── 1. Logger ──────────────────────────────────────────────────────────
	// Initialize first so that subsequent startup errors are structured JSON.
	rawLog := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	log := rawLog.With(slog.String("app", constants.AppName))
	slog.SetDefault(log)

	log.Info("service_initializing", slog.String("version", constants.AppVersion))

	// ── 2. Configuration ──────────────────────────────────────────────────
	cfg, err := config.Load()
	must(log, err, "load configuration")

	if cfg.Debug {
		debugLog := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
		log = debugLog.With(slog.String("app", constants.AppName))
		slog.SetDefault(log)
		log.Debug("debug_logging_enabled")
	}

	log.Info("configuration_loaded",
		slog.String("environment", cfg.Environment),
		slog.String("port", cfg.ServerPort),
		slog.Int("max_batch_size", cfg.MaxBatchSize),
	)

	// Root context for startup. A 30s deadline catches misconfiguration
	// instead of hanging.
	startupCtx, startupCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer startupCancel()

	// Lives until shutdown; stops background janitors such as the rate limiter.
	appCtx, appCancel := context.WithCancel(context.Background())
	defer appCancel()

	// ── 3. PostgreSQL ─────────────────────────────────────────────────────
	pool, err := pgstore.NewPool(startupCtx, cfg.DatabaseURL, log)
	must(log, err, "connect to postgres")
	defer func() {
		log.Info("closing postgres pool")
		pool.Close()
	}()

	must(log, migration.RunUp(cfg.DatabaseURL, cfg.MigrationPath, log), "run migrations")

	health := api.HealthDependencies{
		CheckDatabase: func(context context.Context) error {
			return pgstore.Ping(context, pool)
		},
	}

	var repository anime.Repository = anime.NewPostgresRepository(pool)

	// ── 4. Redis ──────────────────────────────────────────────────────────
	if cfg.RedisURL != "" {
		rdb, err := redisstore.NewClient(startupCtx, cfg.RedisURL, log)
		must(log, err, "connect to redis")
		defer func() {
			log.Info("closing redis client")
			if cerr := rdb.Close(); cerr != nil {
				log.Error("redis close error", slog.Any("error", cerr))
			}
		}()

		repository = anime.NewCachedRepository(repository, rdb, cfg.CacheTTL, log)
		health.CheckCache = func(context context.Context) error {
			return redisstore.Ping(context, rdb)
		}
	} else {
		log.Info("redis_disabled")
	}

	// ── 5. NATS JetStream ─────────────────────────────────────────────────
	var events anime.EventPublisher = anime.NopPublisher{}
	if cfg.NATSURL != "" {
		nc, err := natsconn.Connect(natsconn.Options{URL: cfg.NATSURL, Name: constants.AppName}, log)
		must(log, err, "connect to nats")
		defer func() {
			log.Info("draining nats connection")
			if derr := nc.Drain(); derr != nil {
				log.Error("nats drain error", slog.Any("error", derr))
			}
		}()

		js, err := nc.JetStream()
		must(log, err, "open jetstream context")
		must(log, natsconn.EnsureStream(js, constants.EventStream, constants.EventSubjectPrefix+">"), "provision event stream")

		events = anime.NewNATSPublisher(js, log)
		health.CheckEvents = func(context.Context) error {
			return natsconn.Ping(nc)
		}
	} else {
		log.Info("event_publishing_disabled")
	}

	// ── 6. Authorization ──────────────────────────────────────────────────
	var verifier middleware.TokenVerifier
	var guard middleware.Guard
	if cfg.JWTPubKeyPath != "" {
		tokenVerifier, err := sec.NewVerifier(cfg.JWTPubKeyPath, constants.AuthIssuer)
		must(log, err, "initialize jwt verifier")
		verifier = tokenVerifier
		guard = middleware.RequireRole
	} else {
		log.Warn("write_authorization_disabled")
	}

	// ── 7. Domain Wiring ──────────────────────────────────────────────────
	liveness, readiness := api.NewHealthHandlers(health, log)

	animeService := anime.NewService(repository, events, cfg.MaxBatchSize, log)
	animeHandler := anime.NewHandler(animeService, guard, cfg.DefaultActor)

	server := api.NewServer(appCtx, cfg, log, verifier, api.Handlers{
		Liveness:  liveness,
		Readiness: readiness,
		Anime:     animeHandler,
	})

	// ── 8. Graceful Shutdown ──────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)

	serverErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Block until OS signal or server error.
	select {
	case sig := <-quit:
		log.Info("shutdown signal received", slog.String("signal", sig.String()))
	case err := <-serverErr:
		log.Error("server startup error", slog.Any("error", err))
	}

	shutdownTimeout := constants.ShutdownTimeout
	log.Info("shutting down server", slog.Duration("timeout", shutdownTimeout))

	if err := server.Shutdown(shutdownTimeout); err != nil {
		log.Error("shutdown error", slog.Any("error", err))
		os.Exit(1)
	}

	log.Info("server stopped cleanly")
}

// must logs a structured fatal error and terminates the process if err is non-nil.
//
// It is limited to startup wiring. After startup, all errors are returned and
// handled explicitly.
func must(log *slog.Logger, err error, context string) {
	if err != nil {
		log.Error("startup failure",
			slog.String("context", context),
			slog.Any("error", err),
		)
		os.Exit(1)
	}
}
