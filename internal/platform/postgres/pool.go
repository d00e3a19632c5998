// Copyright (c) 2026 Bizdesk. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package postgres provides the managed PostgreSQL connection pool shared by
// the account, token store, and audit repositories.
//
// # Architecture
//
// This package is part of the Infrastructure layer. It owns the physical
// database connections (pgxpool) and the transaction helper the token store
// uses to write a session and its first access token atomically.
package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Fixed pool lifecycle settings; sizing comes from [Settings].
const (
	maxConnLifetime   = 60 * time.Minute
	maxConnIdleTime   = 10 * time.Minute
	healthCheckPeriod = 1 * time.Minute
	connectTimeout    = 5 * time.Second
	pingTimeout       = 2 * time.Second
)

// Settings sizes the pool and bounds every statement it runs.
type Settings struct {
	MaxConns         int32
	MinConns         int32
	StatementTimeout time.Duration
}

// NewPool creates and validates a new PostgreSQL connection pool.
//
// # Parameters
//   - ctx: Context for the initial connection attempt.
//   - dsn: A libpq-compatible connection string or postgres:// URL.
//   - settings: Pool sizing. Zero fields keep the pgxpool defaults.
//   - logger: Structured logger for pool-level events.
func NewPool(ctx context.Context, dsn string, settings Settings, logger *slog.Logger) (*pgxpool.Pool, error) {
	poolConfig, err := parseConfig(dsn, settings)
	if err != nil {
		return nil, err
	}

	connectCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(connectCtx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("postgres: failed to create pool: %w", err)
	}

	if err := Ping(ctx, pool); err != nil {
		pool.Close()
		return nil, err
	}

	logger.Info("postgres_pool_connected",
		slog.String("host", poolConfig.ConnConfig.Host),
		slog.String("database", poolConfig.ConnConfig.Database),
		slog.Int("max_conns", int(poolConfig.MaxConns)),
		slog.Duration("statement_timeout", settings.StatementTimeout),
	)

	return pool, nil
}

func parseConfig(dsn string, settings Settings) (*pgxpool.Config, error) {
	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: invalid DSN: %w", err)
	}

	if settings.MaxConns > 0 {
		poolConfig.MaxConns = settings.MaxConns
	}
	if settings.MinConns > 0 {
		poolConfig.MinConns = settings.MinConns
	}
	poolConfig.MaxConnLifetime = maxConnLifetime
	poolConfig.MaxConnIdleTime = maxConnIdleTime
	poolConfig.HealthCheckPeriod = healthCheckPeriod
	poolConfig.ConnConfig.ConnectTimeout = connectTimeout

	// Sent as a startup parameter, so no extra round-trip per connection.
	if settings.StatementTimeout > 0 {
		poolConfig.ConnConfig.RuntimeParams["statement_timeout"] = strconv.FormatInt(settings.StatementTimeout.Milliseconds(), 10)
	}

	return poolConfig, nil
}

// Stats reports the pool gauges exported on /metrics.
func Stats(pool *pgxpool.Pool) (total, idle, inUse int32) {
	stat := pool.Stat()
	return stat.TotalConns(), stat.IdleConns(), stat.AcquiredConns()
}

// Ping verifies that the PostgreSQL connection pool is healthy.
func Ping(ctx context.Context, pool *pgxpool.Pool) error {
	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := pool.Ping(pingCtx); err != nil {
		return fmt.Errorf("postgres: ping failed: %w", err)
	}

	return nil
}

// InTx runs fn inside a transaction, committing on success and rolling back
// on any error or panic.
func InTx(ctx context.Context, pool *pgxpool.Pool, fn func(tx pgx.Tx) error) (err error) {
	tx, err := pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("postgres: begin failed: %w", err)
	}

	defer func() {
		if recovered := recover(); recovered != nil {
			_ = tx.Rollback(ctx)
			panic(recovered)
		}
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	if err = fn(tx); err != nil {
		return err
	}

	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("postgres: commit failed: %w", err)
	}
	return nil
}
