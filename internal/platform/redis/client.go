// Copyright (c) 2026 Bizdesk. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package redis provides the client behind the login throttle.

Redis only holds counters that expire on their own, chiefly the per-identifier
failure window. Sessions and tokens are never stored here; PostgreSQL remains
the single source of truth for them, so losing Redis degrades throttling but
never authentication.
*/
package redis

import (
	stdctx "context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	dialTimeout = 3 * time.Second
	ioTimeout   = 2 * time.Second
	pingTimeout = 2 * time.Second
)

// Settings sizes the client connection pool.
type Settings struct {
	PoolSize int
}

// NewClient parses a Redis URL, pings the server, and returns the client.
//
// # Parameters
//   - context: Context for the initial ping.
//   - redisURL: Redis connection URL.
//   - settings: Pool sizing. A zero PoolSize keeps the go-redis default.
//   - logger: Structured logger for connection events.
func NewClient(context stdctx.Context, redisURL string, settings Settings, logger *slog.Logger) (*redis.Client, error) {
	options, err := parseOptions(redisURL, settings)
	if err != nil {
		return nil, err
	}

	client := redis.NewClient(options)
	if err := Ping(context, client); err != nil {
		_ = client.Close()
		return nil, err
	}

	logger.Info("redis_client_connected",
		slog.String("addr", options.Addr),
		slog.Int("db", options.DB),
		slog.Int("pool_size", options.PoolSize),
	)

	return client, nil
}

func parseOptions(redisURL string, settings Settings) (*redis.Options, error) {
	options, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("redis: invalid URL: %w", err)
	}

	if settings.PoolSize > 0 {
		options.PoolSize = settings.PoolSize
		options.MaxIdleConns = max(1, settings.PoolSize/2)
	}
	options.DialTimeout = dialTimeout
	options.ReadTimeout = ioTimeout
	options.WriteTimeout = ioTimeout

	return options, nil
}

// Ping verifies that the Redis server answers within pingTimeout.
func Ping(context stdctx.Context, client *redis.Client) error {
	pingCtx, cancel := stdctx.WithTimeout(context, pingTimeout)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		return fmt.Errorf("redis: ping failed: %w", err)
	}

	return nil
}

// Stats reports the pool gauges exported on /metrics.
func Stats(client *redis.Client) (total, idle, inUse int32) {
	stats := client.PoolStats()
	return int32(stats.TotalConns), int32(stats.IdleConns), int32(stats.TotalConns - stats.IdleConns)
}
