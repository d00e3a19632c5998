// Copyright (c) 2026 Bizdesk. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth_test

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/bizdesk/internal/account"
	"github.com/taibuivan/bizdesk/internal/auth"
	"github.com/taibuivan/bizdesk/internal/platform/migration"
	"github.com/taibuivan/bizdesk/internal/platform/postgres"
	"github.com/taibuivan/bizdesk/internal/platform/redis"
	"github.com/taibuivan/bizdesk/internal/platform/sec"
	"github.com/taibuivan/bizdesk/pkg/uuid"
)

// These tests run against real backends and are skipped unless
// BIZDESK_TEST_DATABASE_URL (and optionally BIZDESK_TEST_REDIS_URL) is set.

type seededAccount struct {
	companyID string
	accountID string
	username  string
}

func openTestPool(t *testing.T) *pgxpool.Pool {
	t.Helper()

	dsn := os.Getenv("BIZDESK_TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("BIZDESK_TEST_DATABASE_URL not set")
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	migrationsPath, err := filepath.Abs("../../data/migrations")
	require.NoError(t, err)
	require.NoError(t, migration.RunUp(context.Background(), dsn, migrationsPath, false, logger))

	pool, err := postgres.NewPool(context.Background(), dsn, postgres.Settings{MaxConns: 4}, logger)
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	return pool
}

func seedAccount(t *testing.T, pool *pgxpool.Pool) seededAccount {
	t.Helper()
	ctx := context.Background()

	hash, err := sec.HashPassword(testPassword)
	require.NoError(t, err)

	seeded := seededAccount{
		companyID: uuid.New(),
		accountID: uuid.New(),
		username:  "it" + strings.ReplaceAll(uuid.New(), "-", "")[16:],
	}

	_, err = pool.Exec(ctx, `INSERT INTO tenant.company (id, name) VALUES ($1, 'Integration Co')`, seeded.companyID)
	require.NoError(t, err)
	_, err = pool.Exec(ctx,
		`INSERT INTO auth.account (id, companyid, username, passwordhash, displayname, role) VALUES ($1, $2, $3, $4, 'Integration', 'manager')`,
		seeded.accountID, seeded.companyID, seeded.username, hash,
	)
	require.NoError(t, err)
	return seeded
}

func newPostgresService(t *testing.T, pool *pgxpool.Pool) *auth.Service {
	t.Helper()

	tokens, err := sec.NewTokenService(testAccessSecret, testRefreshSecret, testIssuer)
	require.NoError(t, err)

	dependencies := auth.Dependencies{
		Accounts: account.NewPostgresRepository(pool),
		Store:    auth.NewPostgresTokenStore(pool),
		Recorder: auth.NewPostgresRecorder(pool),
		Tokens:   tokens,
	}

	if redisURL := os.Getenv("BIZDESK_TEST_REDIS_URL"); redisURL != "" {
		client, err := redis.NewClient(context.Background(), redisURL, redis.Settings{}, slog.New(slog.NewTextHandler(io.Discard, nil)))
		require.NoError(t, err)
		t.Cleanup(func() { _ = client.Close() })
		dependencies.Limiter = auth.NewRedisAttemptLimiter(client, 5, time.Minute)
	}

	return auth.NewService(dependencies, auth.Options{StoreTimeout: 5 * time.Second})
}

/*
TestPostgres_SessionLifecycle runs login, verify, refresh and logout against PostgreSQL.
*/
func TestPostgres_SessionLifecycle(t *testing.T) {
	pool := openTestPool(t)
	seeded := seedAccount(t, pool)
	service := newPostgresService(t, pool)
	ctx := context.Background()

	result, err := service.Login(ctx, auth.LoginInput{
		Identifier: strings.ToUpper(seeded.username),
		Password:   testPassword,
		IPAddress:  "203.0.113.9",
		UserAgent:  browserUA,
	})
	require.NoError(t, err)
	assert.Equal(t, seeded.accountID, result.Account.ID)

	claims, err := service.Authenticate(ctx, bearer(result.Tokens.AccessToken))
	require.NoError(t, err)
	assert.Equal(t, seeded.companyID, claims.TenantID)

	refreshed, err := service.Refresh(ctx, result.Tokens.RefreshToken)
	require.NoError(t, err)

	store := auth.NewPostgresTokenStore(pool)

	revoked, err := store.IsRevoked(ctx, sec.HashToken("never-issued"))
	require.NoError(t, err)
	assert.True(t, revoked, "unknown tokens count as revoked")

	for _, token := range []string{result.Tokens.AccessToken, refreshed.AccessToken} {
		revoked, err := store.IsRevoked(ctx, sec.HashToken(token))
		require.NoError(t, err)
		assert.False(t, revoked)
	}

	var browser string
	require.NoError(t, pool.QueryRow(ctx, `SELECT browser FROM auth.session WHERE id = $1`, result.Tokens.SessionID).Scan(&browser))
	assert.Equal(t, "Chrome", browser)

	require.NoError(t, service.Logout(ctx, result.Tokens.SessionID))
	require.NoError(t, service.Logout(ctx, result.Tokens.SessionID))

	for _, token := range []string{result.Tokens.AccessToken, refreshed.AccessToken} {
		_, err := service.Authenticate(ctx, bearer(token))
		assert.Equal(t, sec.KindTokenRevoked, sec.KindOf(err))

		revoked, err := store.IsRevoked(ctx, sec.HashToken(token))
		require.NoError(t, err)
		assert.True(t, revoked)
	}

	var audited int
	require.NoError(t, pool.QueryRow(ctx, `SELECT COUNT(*) FROM auth.loginaudit WHERE accountid = $1`, seeded.accountID).Scan(&audited))
	assert.Equal(t, 1, audited)
}

/*
TestPostgres_Invariants verifies the append-only audit and monotonic revocation triggers.
*/
func TestPostgres_Invariants(t *testing.T) {
	pool := openTestPool(t)
	seeded := seedAccount(t, pool)
	service := newPostgresService(t, pool)
	ctx := context.Background()

	_, err := service.Login(ctx, auth.LoginInput{Identifier: seeded.username, Password: "wrong"})
	require.Equal(t, sec.KindInvalidCredentials, sec.KindOf(err))

	_, err = pool.Exec(ctx, `UPDATE auth.loginaudit SET reason = 'edited' WHERE accountid = $1`, seeded.accountID)
	assert.Error(t, err)
	_, err = pool.Exec(ctx, `DELETE FROM auth.loginaudit WHERE accountid = $1`, seeded.accountID)
	assert.Error(t, err)

	result, err := service.Login(ctx, auth.LoginInput{Identifier: seeded.username, Password: testPassword})
	require.NoError(t, err)
	require.NoError(t, service.Logout(ctx, result.Tokens.SessionID))

	_, err = pool.Exec(ctx, `UPDATE auth.session SET isrevoked = FALSE WHERE id = $1`, result.Tokens.SessionID)
	assert.Error(t, err)

	revoked, err := service.LogoutAll(ctx, seeded.accountID)
	require.NoError(t, err)
	assert.Zero(t, revoked)
}

/*
TestPostgres_DuplicatePut verifies that a reused session id is reported as
[auth.ErrDuplicate] and leaves nothing behind.
*/
func TestPostgres_DuplicatePut(t *testing.T) {
	pool := openTestPool(t)
	seeded := seedAccount(t, pool)
	service := newPostgresService(t, pool)
	store := auth.NewPostgresTokenStore(pool)
	ctx := context.Background()

	result, err := service.Login(ctx, auth.LoginInput{Identifier: seeded.username, Password: testPassword})
	require.NoError(t, err)

	now := time.Now()
	err = store.Put(ctx,
		auth.NewSession{
			ID:               result.Tokens.SessionID,
			AccountID:        seeded.accountID,
			TenantID:         seeded.companyID,
			RefreshTokenHash: sec.HashToken("another-refresh-token"),
			Device:           auth.Fingerprint("203.0.113.9", browserUA, ""),
			ExpiresAt:        now.Add(auth.RefreshTokenTTL),
		},
		auth.NewAccessToken{
			TokenHash: sec.HashToken("another-access-token"),
			SessionID: result.Tokens.SessionID,
			AccountID: seeded.accountID,
			IssuedAt:  now,
			ExpiresAt: now.Add(auth.AccessTokenTTL),
		},
	)
	assert.ErrorIs(t, err, auth.ErrDuplicate)

	revoked, err := store.IsRevoked(ctx, sec.HashToken("another-access-token"))
	require.NoError(t, err)
	assert.True(t, revoked)
}
