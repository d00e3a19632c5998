// Copyright (c) 2026 Bizdesk. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/taibuivan/bizdesk/internal/platform/constants"
	"github.com/taibuivan/bizdesk/internal/platform/sec"
)

// reserveScript counts an attempt and opens the window on the first one.
// Over-budget attempts are taken back before returning, so a burst of
// rejected requests never pushes the counter past the limit.
//
// Returns {1, 0} when allowed, {0, pttl} when throttled.
var reserveScript = redis.NewScript(`
local count = redis.call('INCR', KEYS[1])
if redis.call('PTTL', KEYS[1]) < 0 then
	redis.call('PEXPIRE', KEYS[1], ARGV[2])
end
if count > tonumber(ARGV[1]) then
	redis.call('DECR', KEYS[1])
	return {0, redis.call('PTTL', KEYS[1])}
end
return {1, 0}
`)

// releaseScript gives back one reserved attempt without creating the key.
var releaseScript = redis.NewScript(`
local count = tonumber(redis.call('GET', KEYS[1]) or '0')
if count > 0 then
	return redis.call('DECR', KEYS[1])
end
return 0
`)

// RedisAttemptLimiter implements [AttemptLimiter] with one expiring counter
// per identifier. Reservation and rejection happen in a single script, so
// parallel requests cannot overrun the budget.
type RedisAttemptLimiter struct {
	client      *redis.Client
	maxFailures int64
	window      time.Duration
}

// NewRedisAttemptLimiter creates a limiter allowing maxFailures per window.
func NewRedisAttemptLimiter(client *redis.Client, maxFailures int, window time.Duration) *RedisAttemptLimiter {
	return &RedisAttemptLimiter{client: client, maxFailures: int64(maxFailures), window: window}
}

// Keys are digests so identifiers such as phone numbers never appear in Redis.
func (limiter *RedisAttemptLimiter) key(identifier string) string {
	return constants.RedisPrefixLoginFailures + sec.HashToken(identifier)
}

/*
Reserve counts one attempt against the identifier before its password is checked.

Returns:
  - bool: true when the attempt is within budget
  - time.Duration: remaining window when throttled
  - error: Connectivity failures (callers fail open)
*/
func (limiter *RedisAttemptLimiter) Reserve(context context.Context, identifier string) (bool, time.Duration, error) {
	result, err := reserveScript.Run(context, limiter.client,
		[]string{limiter.key(identifier)},
		limiter.maxFailures, limiter.window.Milliseconds(),
	).Int64Slice()
	if err != nil {
		return true, 0, fmt.Errorf("redis_attempt_limiter_reserve_failed: %w", err)
	}
	if len(result) != 2 {
		return true, 0, fmt.Errorf("redis_attempt_limiter_reserve_failed: unexpected reply %v", result)
	}

	if result[0] == 1 {
		return true, 0, nil
	}

	retryAfter := time.Duration(result[1]) * time.Millisecond
	if retryAfter <= 0 {
		retryAfter = limiter.window
	}
	return false, retryAfter, nil
}

// Release returns a reserved attempt that never reached a credential check.
func (limiter *RedisAttemptLimiter) Release(context context.Context, identifier string) error {
	if err := releaseScript.Run(context, limiter.client, []string{limiter.key(identifier)}).Err(); err != nil {
		return fmt.Errorf("redis_attempt_limiter_release_failed: %w", err)
	}
	return nil
}

// Reset clears the failure counter after a successful login.
func (limiter *RedisAttemptLimiter) Reset(context context.Context, identifier string) error {
	if err := limiter.client.Del(context, limiter.key(identifier)).Err(); err != nil {
		return fmt.Errorf("redis_attempt_limiter_reset_failed: %w", err)
	}
	return nil
}
