// Copyright (c) 2026 Bizdesk. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"fmt"
	"time"

	"github.com/taibuivan/bizdesk/internal/platform/sec"
)

// IssuedTokens is the token set handed to a client at login.
type IssuedTokens struct {
	SessionID        string
	AccessToken      string
	RefreshToken     string
	IssuedAt         time.Time
	AccessExpiresAt  time.Time
	RefreshExpiresAt time.Time
}

// IssuedAccess is an access token minted by a refresh exchange.
type IssuedAccess struct {
	AccessToken string
	IssuedAt    time.Time
	ExpiresAt   time.Time
}

// Issuer mints the session id, access token and refresh token of a login.
type Issuer struct {
	tokens *sec.TokenService
}

// NewIssuer constructs an [Issuer] over the signing keys held by tokens.
func NewIssuer(tokens *sec.TokenService) *Issuer {
	return &Issuer{tokens: tokens}
}

// Issue mints a fresh session for principal. Nothing is persisted.
func (issuer *Issuer) Issue(principal sec.Principal, issuedAt time.Time) (*IssuedTokens, error) {
	sessionID, err := sec.GenerateSecureToken(SessionIDLength)
	if err != nil {
		return nil, fmt.Errorf("auth_issuer_session_id_failed: %w", err)
	}

	access, err := issuer.IssueAccess(principal, issuedAt, issuedAt.Add(RefreshTokenTTL))
	if err != nil {
		return nil, err
	}

	refreshToken, err := issuer.tokens.SignRefreshToken(principal.AccountID, issuedAt, RefreshTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("auth_issuer_refresh_token_failed: %w", err)
	}

	return &IssuedTokens{
		SessionID:        sessionID,
		AccessToken:      access.AccessToken,
		RefreshToken:     refreshToken,
		IssuedAt:         issuedAt,
		AccessExpiresAt:  access.ExpiresAt,
		RefreshExpiresAt: issuedAt.Add(RefreshTokenTTL),
	}, nil
}

// IssueAccess mints a single access token for principal. Its expiry never
// passes notAfter, the end of the owning session.
func (issuer *Issuer) IssueAccess(principal sec.Principal, issuedAt, notAfter time.Time) (*IssuedAccess, error) {
	timeToLive := min(AccessTokenTTL, notAfter.Sub(issuedAt))

	accessToken, err := issuer.tokens.SignAccessToken(principal, issuedAt, timeToLive)
	if err != nil {
		return nil, fmt.Errorf("auth_issuer_access_token_failed: %w", err)
	}

	return &IssuedAccess{
		AccessToken: accessToken,
		IssuedAt:    issuedAt,
		ExpiresAt:   issuedAt.Add(timeToLive),
	}, nil
}
