// Copyright (c) 2026 Bizdesk. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/bizdesk/internal/platform/database/schema"
	"github.com/taibuivan/bizdesk/internal/platform/dberr"
	"github.com/taibuivan/bizdesk/internal/platform/postgres"
)

// # Token Store

// PostgresTokenStore implements [TokenStore] over the auth.session and
// auth.accesstoken tables.
type PostgresTokenStore struct {
	pool *pgxpool.Pool
}

// NewPostgresTokenStore creates a new PostgreSQL implementation of [TokenStore].
func NewPostgresTokenStore(pool *pgxpool.Pool) *PostgresTokenStore {
	return &PostgresTokenStore{pool: pool}
}

var (
	sessionTable = schema.AuthSession
	tokenTable   = schema.AuthAccessToken

	insertSessionQuery = fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		sessionTable.Table,
		sessionTable.ID, sessionTable.AccountID, sessionTable.CompanyID, sessionTable.RefreshTokenHash,
		sessionTable.IPAddress, sessionTable.UserAgent, sessionTable.DeviceID, sessionTable.ExpiresAt,
	)

	insertTokenQuery = fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5)`,
		tokenTable.Table,
		tokenTable.TokenHash, tokenTable.SessionID, tokenTable.AccountID, tokenTable.IssuedAt, tokenTable.ExpiresAt,
	)

	revokeTokensOfSessionQuery = fmt.Sprintf(`
		UPDATE %s SET %s = TRUE, %s = NOW()
		WHERE %s = $1 AND NOT %s`,
		tokenTable.Table, tokenTable.IsRevoked, tokenTable.RevokedAt,
		tokenTable.SessionID, tokenTable.IsRevoked,
	)
)

/*
Put persists a new session and its first access token atomically.

Parameters:
  - context: context.Context
  - newSession: NewSession
  - newToken: NewAccessToken (must reference newSession.ID)

Returns:
  - error: Transaction failures; the session is not persisted in that case
*/
func (repository *PostgresTokenStore) Put(context context.Context, newSession NewSession, newToken NewAccessToken) error {
	err := postgres.InTx(context, repository.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(context, insertSessionQuery,
			newSession.ID,
			newSession.AccountID,
			newSession.TenantID,
			newSession.RefreshTokenHash,
			newSession.Device.IPAddress,
			newSession.Device.UserAgent,
			newSession.Device.DeviceID,
			newSession.ExpiresAt,
		); err != nil {
			return fmt.Errorf("insert session: %w", err)
		}

		if _, err := tx.Exec(context, insertTokenQuery,
			newToken.TokenHash,
			newToken.SessionID,
			newToken.AccountID,
			newToken.IssuedAt,
			newToken.ExpiresAt,
		); err != nil {
			return fmt.Errorf("insert access token: %w", err)
		}
		return nil
	})

	if err != nil {
		if dberr.IsUniqueViolation(err) {
			return fmt.Errorf("postgres_token_store_put_failed: %w: %w", ErrDuplicate, err)
		}
		return fmt.Errorf("postgres_token_store_put_failed: %w", err)
	}
	return nil
}

// PutAccessToken persists an access token minted by a refresh exchange.
func (repository *PostgresTokenStore) PutAccessToken(context context.Context, newToken NewAccessToken) error {
	_, err := repository.pool.Exec(context, insertTokenQuery,
		newToken.TokenHash,
		newToken.SessionID,
		newToken.AccountID,
		newToken.IssuedAt,
		newToken.ExpiresAt,
	)
	if err != nil {
		return fmt.Errorf("postgres_token_store_put_access_token_failed: %w", err)
	}
	return nil
}

/*
Get retrieves an access token by digest, joined with its session.

Description: The returned Revoked flag is the OR of the token and session
flags, so revoking a session invalidates every token it issued.

Returns:
  - *TokenRecord: Hydrated record
  - error: [ErrNotFound] or database execution failure
*/
func (repository *PostgresTokenStore) Get(context context.Context, tokenHash string) (*TokenRecord, error) {
	query := fmt.Sprintf(`
		SELECT t.%s, t.%s, t.%s, t.%s, t.%s, (t.%s OR s.%s)
		FROM %s t
		JOIN %s s ON s.%s = t.%s
		WHERE t.%s = $1`,
		tokenTable.TokenHash, tokenTable.SessionID, tokenTable.AccountID, tokenTable.IssuedAt, tokenTable.ExpiresAt,
		tokenTable.IsRevoked, sessionTable.IsRevoked,
		tokenTable.Table,
		sessionTable.Table, sessionTable.ID, tokenTable.SessionID,
		tokenTable.TokenHash,
	)

	record := &TokenRecord{}
	err := repository.pool.QueryRow(context, query, tokenHash).Scan(
		&record.TokenHash,
		&record.SessionID,
		&record.AccountID,
		&record.IssuedAt,
		&record.ExpiresAt,
		&record.Revoked,
	)

	if err != nil {
		if dberr.IsNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("postgres_token_store_get_failed: %w", err)
	}

	return record, nil
}

// IsRevoked reports the combined revocation flag; unknown tokens are revoked.
func (repository *PostgresTokenStore) IsRevoked(context context.Context, tokenHash string) (bool, error) {
	record, err := repository.Get(context, tokenHash)
	if errors.Is(err, ErrNotFound) {
		return true, nil
	}
	if err != nil {
		return false, err
	}
	return record.Revoked, nil
}

// FindSessionByRefreshHash resolves the session that owns a refresh token.
func (repository *PostgresTokenStore) FindSessionByRefreshHash(context context.Context, refreshTokenHash string) (*SessionRecord, error) {
	query := fmt.Sprintf(`
		SELECT %s, %s, %s, %s, %s, %s
		FROM %s
		WHERE %s = $1`,
		sessionTable.ID, sessionTable.AccountID, sessionTable.CompanyID, sessionTable.ExpiresAt, sessionTable.IsRevoked, sessionTable.IsActive,
		sessionTable.Table,
		sessionTable.RefreshTokenHash,
	)

	record := &SessionRecord{}
	err := repository.pool.QueryRow(context, query, refreshTokenHash).Scan(
		&record.ID,
		&record.AccountID,
		&record.TenantID,
		&record.ExpiresAt,
		&record.Revoked,
		&record.Active,
	)

	if err != nil {
		if dberr.IsNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("postgres_token_store_find_session_failed: %w", err)
	}

	return record, nil
}

/*
Revoke flips the revoked flag of a session and every token it issued.

Description: Idempotent. The first revocation time is preserved and unknown
session ids affect no rows.
*/
func (repository *PostgresTokenStore) Revoke(context context.Context, sessionID string) error {
	revokeSessionQuery := fmt.Sprintf(`
		UPDATE %s SET %s = TRUE, %s = COALESCE(%s, NOW())
		WHERE %s = $1`,
		sessionTable.Table, sessionTable.IsRevoked, sessionTable.RevokedAt, sessionTable.RevokedAt,
		sessionTable.ID,
	)

	err := postgres.InTx(context, repository.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(context, revokeSessionQuery, sessionID); err != nil {
			return err
		}
		_, err := tx.Exec(context, revokeTokensOfSessionQuery, sessionID)
		return err
	})

	if err != nil {
		return fmt.Errorf("postgres_token_store_revoke_failed: %w", err)
	}
	return nil
}

// RevokeAllForAccount revokes and deactivates every unrevoked session of accountID.
func (repository *PostgresTokenStore) RevokeAllForAccount(context context.Context, accountID string) (int64, error) {
	revokeTokensQuery := fmt.Sprintf(`
		UPDATE %s SET %s = TRUE, %s = NOW()
		WHERE NOT %s AND %s IN (SELECT %s FROM %s WHERE %s = $1 AND NOT %s)`,
		tokenTable.Table, tokenTable.IsRevoked, tokenTable.RevokedAt,
		tokenTable.IsRevoked, tokenTable.SessionID, sessionTable.ID, sessionTable.Table, sessionTable.AccountID, sessionTable.IsRevoked,
	)

	revokeSessionsQuery := fmt.Sprintf(`
		UPDATE %s SET %s = TRUE, %s = FALSE, %s = NOW()
		WHERE %s = $1 AND NOT %s`,
		sessionTable.Table, sessionTable.IsRevoked, sessionTable.IsActive, sessionTable.RevokedAt,
		sessionTable.AccountID, sessionTable.IsRevoked,
	)

	var revoked int64
	err := postgres.InTx(context, repository.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(context, revokeTokensQuery, accountID); err != nil {
			return err
		}
		tag, err := tx.Exec(context, revokeSessionsQuery, accountID)
		if err != nil {
			return err
		}
		revoked = tag.RowsAffected()
		return nil
	})

	if err != nil {
		return 0, fmt.Errorf("postgres_token_store_revoke_all_failed: %w", err)
	}
	return revoked, nil
}

// ExpireOlderThan sets the expired flag on tokens and sessions past their expiry.
func (repository *PostgresTokenStore) ExpireOlderThan(context context.Context, now time.Time) (ExpiryCounts, error) {
	expireTokensQuery := fmt.Sprintf(`UPDATE %s SET %s = TRUE WHERE %s < $1 AND NOT %s`,
		tokenTable.Table, tokenTable.IsExpired, tokenTable.ExpiresAt, tokenTable.IsExpired)
	expireSessionsQuery := fmt.Sprintf(`UPDATE %s SET %s = TRUE WHERE %s < $1 AND NOT %s`,
		sessionTable.Table, sessionTable.IsExpired, sessionTable.ExpiresAt, sessionTable.IsExpired)

	var counts ExpiryCounts

	tag, err := repository.pool.Exec(context, expireTokensQuery, now)
	if err != nil {
		return counts, fmt.Errorf("postgres_token_store_expire_tokens_failed: %w", err)
	}
	counts.AccessTokens = tag.RowsAffected()

	tag, err = repository.pool.Exec(context, expireSessionsQuery, now)
	if err != nil {
		return counts, fmt.Errorf("postgres_token_store_expire_sessions_failed: %w", err)
	}
	counts.Sessions = tag.RowsAffected()

	return counts, nil
}
