// Copyright (c) 2026 Bizdesk. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Command api is the entry point for the Bizdesk HTTP API server.
//
// # Startup Sequence
//
//  1. Initialize structured logger.
//  2. Load and validate configuration from environment variables.
//  3. Build the token service (fails fast on bad signing secrets).
//  4. Connect to PostgreSQL (pgxpool) and Redis.
//  5. Run database migrations (idempotent).
//  6. Wire stores, the auth service and HTTP handlers.
//  7. Start the expiry sweeper and the HTTP server with graceful shutdown.
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

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/taibuivan/bizdesk/internal/account"
	"github.com/taibuivan/bizdesk/internal/api"
	"github.com/taibuivan/bizdesk/internal/auth"
	"github.com/taibuivan/bizdesk/internal/platform/config"
	"github.com/taibuivan/bizdesk/internal/platform/constants"
	"github.com/taibuivan/bizdesk/internal/platform/ctxutil"
	"github.com/taibuivan/bizdesk/internal/platform/metrics"
	"github.com/taibuivan/bizdesk/internal/platform/migration"
	pgstore "github.com/taibuivan/bizdesk/internal/platform/postgres"
	redisstore "github.com/taibuivan/bizdesk/internal/platform/redis"
	"github.com/taibuivan/bizdesk/internal/platform/sec"
)

func main() {
	// ── 1. Logger ──────────────────────────────────────────────────────────
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
		slog.String("port", cfg.Server.Port),
	)

	// ── 3. Token Service ──────────────────────────────────────────────────
	tokens, err := sec.NewTokenService(cfg.Auth.AccessTokenSecret, cfg.Auth.RefreshTokenSecret, cfg.Auth.Issuer)
	must(log, err, "initialize token service")

	// Root context carries the logger to background workers.
	rootCtx, rootCancel := context.WithCancel(ctxutil.WithLogger(context.Background(), log))
	defer rootCancel()

	startupCtx, startupCancel := context.WithTimeout(rootCtx, constants.StartupTimeout)
	defer startupCancel()

	// ── 4. PostgreSQL & Redis ─────────────────────────────────────────────
	pool, err := pgstore.NewPool(startupCtx, cfg.Database.URL, pgstore.Settings{
		MaxConns:         cfg.Database.MaxConns,
		MinConns:         cfg.Database.MinConns,
		StatementTimeout: cfg.Database.StatementTimeout,
	}, log)
	must(log, err, "connect to postgres")
	defer func() {
		log.Info("postgres_pool_closing")
		pool.Close()
	}()

	rdb, err := redisstore.NewClient(startupCtx, cfg.Redis.URL, redisstore.Settings{PoolSize: cfg.Redis.PoolSize}, log)
	must(log, err, "connect to redis")
	defer func() {
		log.Info("redis_client_closing")
		if cerr := rdb.Close(); cerr != nil {
			log.Error("redis_close_failed", slog.Any("error", cerr))
		}
	}()

	// ── 5. Migrations ─────────────────────────────────────────────────────
	must(log, migration.RunUp(startupCtx, cfg.Database.URL, cfg.MigrationPath, cfg.Debug, log), "run migrations")

	// ── 6. Domain Wiring ──────────────────────────────────────────────────
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics.RegisterPool(registry, "postgres", func() (int32, int32, int32) { return pgstore.Stats(pool) })
	metrics.RegisterPool(registry, "redis", func() (int32, int32, int32) { return redisstore.Stats(rdb) })

	accountRepository := account.NewPostgresRepository(pool)
	authService := auth.NewService(auth.Dependencies{
		Accounts: accountRepository,
		Store:    auth.NewPostgresTokenStore(pool),
		Recorder: auth.NewPostgresRecorder(pool),
		Limiter:  auth.NewRedisAttemptLimiter(rdb, cfg.Auth.LoginMaxFailures, cfg.Auth.LoginFailureWindow),
		Tokens:   tokens,
		Metrics:  metrics.NewAuth(registry),
	}, auth.Options{StoreTimeout: cfg.Auth.StoreTimeout})

	liveness, readiness := api.NewHealthHandlers(api.HealthDependencies{
		CheckDatabase: func(ctx context.Context) error { return pgstore.Ping(ctx, pool) },
		CheckCache:    func(ctx context.Context) error { return redisstore.Ping(ctx, rdb) },
	}, log)

	handlers := api.Handlers{
		Liveness:  liveness,
		Readiness: readiness,
		Metrics:   promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		Auth:      auth.NewHandler(authService),
		Account:   account.NewHandler(account.NewService(accountRepository)),
	}

	server := api.NewServer(rootCtx, cfg, log, authService, handlers)

	// ── 7. Background Work & HTTP Server ──────────────────────────────────
	go authService.RunSweeper(rootCtx, cfg.Auth.SweepInterval)

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
		log.Info("shutdown_signal_received", slog.String("signal", sig.String()))
	case err := <-serverErr:
		log.Error("server_startup_failed", slog.Any("error", err))
	}

	rootCancel()

	log.Info("server_shutting_down", slog.Duration("timeout", cfg.Server.ShutdownTimeout))
	if err := server.Shutdown(cfg.Server.ShutdownTimeout); err != nil {
		log.Error("server_shutdown_failed", slog.Any("error", err))
		os.Exit(1)
	}

	log.Info("server_stopped")
}

// newLogger builds the JSON process logger and installs it as the slog default.
func newLogger(level slog.Level) *slog.Logger {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})).
		With(slog.String("app", constants.AppName))
	slog.SetDefault(logger)
	return logger
}

// must logs a structured fatal error and terminates the process if err is non-nil.
//
// It is limited to startup wiring. After startup, errors are returned and handled.
func must(log *slog.Logger, err error, context string) {
	if err != nil {
		log.Error("startup_failure",
			slog.String("context", context),
			slog.Any("error", err),
		)
		os.Exit(1)
	}
}
