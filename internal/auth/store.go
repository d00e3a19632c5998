// Copyright (c) 2026 Bizdesk. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrNotFound is returned by [TokenStore] lookups that match no row.
	ErrNotFound = errors.New("auth: record not found")

	// ErrDuplicate is returned by [TokenStore.Put] when the session id or a
	// token digest is already taken.
	ErrDuplicate = errors.New("auth: record already exists")
)

// # Records

// NewSession is the session row written at login.
type NewSession struct {
	ID               string
	AccountID        string
	TenantID         string
	RefreshTokenHash string
	Device           Device
	ExpiresAt        time.Time
}

// NewAccessToken is an access token row. Only the token digest is stored.
type NewAccessToken struct {
	TokenHash string
	SessionID string
	AccountID string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// TokenRecord is an access token as seen by the request gate.
type TokenRecord struct {
	TokenHash string
	SessionID string
	AccountID string
	IssuedAt  time.Time
	ExpiresAt time.Time

	// Revoked is true when either the token or its session is revoked.
	Revoked bool
}

// SessionRecord is a session as seen by the refresh exchange.
type SessionRecord struct {
	ID        string
	AccountID string
	TenantID  string
	ExpiresAt time.Time
	Revoked   bool
	Active    bool
}

// ExpiryCounts reports how many rows a sweep flagged as expired.
type ExpiryCounts struct {
	AccessTokens int64
	Sessions     int64
}

// # Data Access Contracts

// TokenStore is the durable source of truth for sessions and access tokens.
//
// Revocation is monotonic: no method ever clears a revoked flag.
type TokenStore interface {

	/*
		Put writes a session and its first access token in one transaction.

		Returns:
		  - error: [ErrDuplicate] or storage failures; nothing is persisted in either case
	*/
	Put(context context.Context, session NewSession, token NewAccessToken) error

	// PutAccessToken adds an access token to an existing session.
	PutAccessToken(context context.Context, token NewAccessToken) error

	/*
		Get returns the access token with the given digest joined with its session.

		Returns:
		  - *TokenRecord: Token with the combined revocation flag
		  - error: [ErrNotFound] or storage failures
	*/
	Get(context context.Context, tokenHash string) (*TokenRecord, error)

	// IsRevoked reports whether a token is revoked. Unknown tokens count as revoked.
	IsRevoked(context context.Context, tokenHash string) (bool, error)

	// FindSessionByRefreshHash returns the session owning a refresh token digest.
	FindSessionByRefreshHash(context context.Context, refreshTokenHash string) (*SessionRecord, error)

	/*
		Revoke marks a session and all of its access tokens revoked.

		Unknown session ids are not an error.
	*/
	Revoke(context context.Context, sessionID string) error

	// RevokeAllForAccount revokes every live session of an account and their tokens.
	RevokeAllForAccount(context context.Context, accountID string) (int64, error)

	// ExpireOlderThan flags tokens and sessions whose expiry is before now. No rows are deleted.
	ExpireOlderThan(context context.Context, now time.Time) (ExpiryCounts, error)
}

// LoginAttempt is one append-only login audit entry.
type LoginAttempt struct {
	// AccountID is empty when the identifier matched no account.
	AccountID      string
	IdentifierKind IdentifierKind
	Device         Device
	Outcome        Outcome
	// Reason is empty on success.
	Reason string
}

// Recorder writes the login audit trail and the session registry metadata.
//
// Failures are reported to the caller but must never fail a login or logout.
type Recorder interface {
	RecordLogin(context context.Context, attempt LoginAttempt) error

	// RecordSession stamps the derived device fingerprint on a session.
	RecordSession(context context.Context, sessionID string, device Device) error

	// DeactivateSession clears the active flag of a session registry row.
	DeactivateSession(context context.Context, sessionID string) error
}

// AttemptLimiter counts login attempts per identifier.
//
// An attempt is reserved before the password is checked, so the check and the
// count are one atomic step. A credential failure keeps its reservation.
type AttemptLimiter interface {

	// Reserve counts an attempt and reports whether it is within budget and,
	// if not, when to retry. A rejected attempt is not counted.
	Reserve(context context.Context, key string) (bool, time.Duration, error)

	// Release gives back a reservation whose attempt failed for reasons other
	// than bad credentials.
	Release(context context.Context, key string) error

	Reset(context context.Context, key string) error
}
