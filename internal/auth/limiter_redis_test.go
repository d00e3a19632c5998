// Copyright (c) 2026 Bizdesk. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth_test

import (
	"context"
	"io"
	"log/slog"
	"os"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/bizdesk/internal/auth"
	"github.com/taibuivan/bizdesk/internal/platform/redis"
	"github.com/taibuivan/bizdesk/pkg/uuid"
)

/*
TestRedisAttemptLimiter reserves, releases and resets attempts per key.
Skipped unless BIZDESK_TEST_REDIS_URL is set.
*/
func TestRedisAttemptLimiter(t *testing.T) {
	redisURL := os.Getenv("BIZDESK_TEST_REDIS_URL")
	if redisURL == "" {
		t.Skip("BIZDESK_TEST_REDIS_URL not set")
	}

	ctx := context.Background()
	client, err := redis.NewClient(ctx, redisURL, redis.Settings{PoolSize: 2}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	limiter := auth.NewRedisAttemptLimiter(client, 2, time.Minute)
	key := "username:" + uuid.New()
	other := "username:" + uuid.New()

	for range 2 {
		allowed, _, err := limiter.Reserve(ctx, key)
		require.NoError(t, err)
		assert.True(t, allowed)
	}

	allowed, retryAfter, err := limiter.Reserve(ctx, key)
	require.NoError(t, err)
	assert.False(t, allowed)
	assert.Greater(t, retryAfter, time.Duration(0))
	assert.LessOrEqual(t, retryAfter, time.Minute)

	allowed, _, err = limiter.Reserve(ctx, other)
	require.NoError(t, err)
	assert.True(t, allowed)

	// A released attempt frees one slot.
	require.NoError(t, limiter.Release(ctx, key))
	allowed, _, err = limiter.Reserve(ctx, key)
	require.NoError(t, err)
	assert.True(t, allowed)

	require.NoError(t, limiter.Reset(ctx, key))
	allowed, _, err = limiter.Reserve(ctx, key)
	require.NoError(t, err)
	assert.True(t, allowed)

	// Releasing an unknown key does not create it.
	require.NoError(t, limiter.Release(ctx, "username:"+uuid.New()))
}

/*
TestRedisAttemptLimiter_Concurrent verifies that parallel reservations never
exceed the budget. Skipped unless BIZDESK_TEST_REDIS_URL is set.
*/
func TestRedisAttemptLimiter_Concurrent(t *testing.T) {
	redisURL := os.Getenv("BIZDESK_TEST_REDIS_URL")
	if redisURL == "" {
		t.Skip("BIZDESK_TEST_REDIS_URL not set")
	}

	ctx := context.Background()
	client, err := redis.NewClient(ctx, redisURL, redis.Settings{PoolSize: 8}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	limiter := auth.NewRedisAttemptLimiter(client, 10, time.Minute)
	key := "username:" + uuid.New()

	var (
		group   sync.WaitGroup
		allowed atomic.Int32
	)
	for range 50 {
		group.Add(1)
		go func() {
			defer group.Done()
			ok, _, err := limiter.Reserve(ctx, key)
			if err == nil && ok {
				allowed.Add(1)
			}
		}()
	}
	group.Wait()

	assert.Equal(t, int32(10), allowed.Load())
}
