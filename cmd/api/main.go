// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Command api is the entry point for the AniPulse HTTP API server.
//
// # Startup Sequence
//
//  1. Initialize structured logger.
//  2. Load configuration from environment variables (and .env).
//  3. Connect to PostgreSQL (pgxpool).
//  4. Run database migrations (idempotent).
//  5. Connect to Redis.
//  6. Open image storage (local disk or S3).
//  7. Build security primitives, metrics and the rate limiter.
//  8. Wire repositories, services and HTTP handlers.
//  9. Start HTTP server with graceful shutdown.
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

	"github.com/taibuivan/anipulse/internal/anime"
	"github.com/taibuivan/anipulse/internal/api"
	"github.com/taibuivan/anipulse/internal/fanart"
	"github.com/taibuivan/anipulse/internal/platform/config"
	"github.com/taibuivan/anipulse/internal/platform/constants"
	"github.com/taibuivan/anipulse/internal/platform/metrics"
	"github.com/taibuivan/anipulse/internal/platform/middleware"
	"github.com/taibuivan/anipulse/internal/platform/migration"
	pgstore "github.com/taibuivan/anipulse/internal/platform/postgres"
	redisstore "github.com/taibuivan/anipulse/internal/platform/redis"
	"github.com/taibuivan/anipulse/internal/platform/sec"
	"github.com/taibuivan/anipulse/internal/platform/storage"
	"github.com/taibuivan/anipulse/internal/users/account"
	"github.com/taibuivan/anipulse/internal/users/auth"
)

func main() {
	// ── 1. Logger ──────────────────────────────────────────────────────────
	// Initialize first so that subsequent startup errors are structured JSON.
	log := newLogger(slog.LevelInfo)
	log.Info("service_initializing", slog.String("version", constants.AppVersion))

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
		slog.String("storage", cfg.StorageDriver),
	)

	if cfg.UsingFallbackSecret() {
		log.Warn("jwt_secret_fallback_in_use",
			slog.String("hint", "set JWT_SECRET; tokens signed with the fallback secret can be forged by anyone"),
		)
	}

	// Root context for startup, bounded so misconfiguration fails fast.
	startupCtx, startupCancel := context.WithTimeout(context.Background(), constants.StartupTimeout)
	defer startupCancel()

	// ── 3. PostgreSQL ─────────────────────────────────────────────────────
	pool, err := pgstore.NewPool(startupCtx, cfg.DatabaseURL, log)
	must(log, err, "connect to postgres")
	defer func() {
		log.Info("closing postgres pool")
		pool.Close()
	}()

	// ── 4. Migrations ─────────────────────────────────────────────────────
	must(log, migration.RunUp(cfg.DatabaseURL, cfg.MigrationPath, log), "run migrations")

	// ── 5. Redis ──────────────────────────────────────────────────────────
	rdb, err := redisstore.NewClient(startupCtx, cfg.RedisURL, log)
	must(log, err, "connect to redis")
	defer func() {
		log.Info("closing redis client")
		if cerr := rdb.Close(); cerr != nil {
			log.Error("redis close error", slog.Any("error", cerr))
		}
	}()

	// ── 6. Image Storage ──────────────────────────────────────────────────
	var (
		objects storage.ObjectStore
		uploads http.Handler
	)
	switch cfg.StorageDriver {
	case config.StorageS3:
		objects, err = storage.NewS3Store(startupCtx, storage.S3Options{
			Bucket:       cfg.S3Bucket,
			Region:       cfg.S3Region,
			Endpoint:     cfg.S3Endpoint,
			AccessKey:    cfg.S3AccessKey,
			SecretKey:    cfg.S3SecretKey,
			PublicURL:    cfg.S3PublicURL,
			UsePathStyle: cfg.S3UsePathStyle,
		})
		must(log, err, "open s3 storage")
	default:
		local, err := storage.NewLocalStore(cfg.UploadsDir, "/uploads")
		must(log, err, "open local storage")
		objects = local
		uploads = http.FileServer(http.Dir(local.Root()))
	}

	// ── 7. Security, Metrics, Rate Limiting ───────────────────────────────
	hasher, err := sec.NewPasswordHasher(cfg.BcryptCost)
	must(log, err, "initialize password hasher")

	tokens, err := sec.NewTokenService([]byte(cfg.JWTSecret), constants.AuthIssuer, sec.WithTTL(cfg.TokenTTL))
	must(log, err, "initialize token service")

	instruments := metrics.New()

	runCtx, stopBackground := context.WithCancel(context.Background())
	defer stopBackground()

	limiter := middleware.NewRateLimiter(constants.DefaultRateLimitRPS, constants.DefaultRateLimitBurst)
	go limiter.Run(runCtx)

	// ── 8. Domain Wiring ──────────────────────────────────────────────────
	authService := auth.NewService(auth.NewUserRepository(pool), hasher, tokens, instruments)
	accountService := account.NewService(account.NewAccountRepository(pool))
	animeService := anime.NewService(
		anime.NewPostgresRepository(pool),
		anime.NewRedisCache(rdb, cfg.CacheTTL),
		objects,
	)
	fanArtService := fanart.NewService(fanart.NewPostgresRepository(pool), objects)

	liveness, readiness := api.NewHealthHandlers(log,
		api.HealthCheck{Name: "postgres", Check: func(ctx context.Context) error { return pgstore.Ping(ctx, pool) }},
		api.HealthCheck{Name: "redis", Check: func(ctx context.Context) error { return redisstore.Ping(ctx, rdb) }},
		api.HealthCheck{Name: "storage", Check: objects.Ping},
	)

	// ── 9. HTTP Server ────────────────────────────────────────────────────
	handlers := api.Handlers{
		Liveness:  liveness,
		Readiness: readiness,
		Uploads:   uploads,
		Auth:      auth.NewHandler(authService, cfg.AuthRateLimit),
		Account:   account.NewHandler(accountService, tokens),
		Anime:     anime.NewHandler(animeService, tokens, cfg.UploadMaxBytes),
		FanArt:    fanart.NewHandler(fanArtService, tokens, cfg.UploadMaxBytes),
	}

	server := api.NewServer(cfg, log, instruments, limiter, handlers)

	// ── 10. Graceful Shutdown ─────────────────────────────────────────────
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

// newLogger builds the JSON logger and makes it the process default.
func newLogger(level slog.Level) *slog.Logger {
	log := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})).
		With(slog.String("app", "anipulse"))
	slog.SetDefault(log)
	return log
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
