// Copyright (c) 2026 Bizdesk. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/taibuivan/bizdesk/internal/platform/metrics"
	"github.com/taibuivan/bizdesk/internal/platform/sec"
)

const bearerScheme = "bearer"

/*
Verifier is the request gate for access tokens.

# Priority Chain

Checks run in a fixed order and the first failure wins:
 1. Missing header             -> TokenMissing   "no token"
 2. Bad scheme, signature,
    issuer or token type       -> TokenMalformed "invalid token"
 3. No stored token row        -> TokenMalformed "token not found"
 4. Token or session revoked   -> TokenRevoked   "token revoked"
 5. Stored expiry passed       -> TokenExpired   "token expired"
 6. Account or tenant inactive -> AccountInactive "user inactive"

The stored expiry, not the exp claim, decides step 5.
*/
type Verifier struct {
	tokens       *sec.TokenService
	store        TokenStore
	accounts     AccountReader
	metrics      *metrics.Auth
	now          func() time.Time
	storeTimeout time.Duration
}

// Authenticate verifies a raw Authorization header value.
func (verifier *Verifier) Authenticate(ctx context.Context, authorizationHeader string) (*sec.AuthClaims, error) {
	claims, err := verifier.authenticate(ctx, authorizationHeader)
	if err != nil {
		verifier.metrics.ObserveVerification(sec.KindOf(err).String())
		return nil, err
	}

	verifier.metrics.ObserveVerification("ok")
	return claims, nil
}

func (verifier *Verifier) authenticate(ctx context.Context, authorizationHeader string) (*sec.AuthClaims, error) {
	header := strings.TrimSpace(authorizationHeader)
	if header == "" {
		return nil, sec.Fail(sec.KindTokenMissing, sec.ReasonNoToken)
	}

	rawToken, ok := bearerToken(header)
	if !ok {
		return nil, sec.Fail(sec.KindTokenMalformed, sec.ReasonInvalidToken)
	}

	claims, err := verifier.tokens.ParseAccessToken(rawToken)
	if err != nil {
		return nil, err
	}

	storeCtx, cancel := context.WithTimeout(ctx, verifier.storeTimeout)
	defer cancel()

	record, err := verifier.store.Get(storeCtx, sec.HashToken(rawToken))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, sec.Fail(sec.KindTokenMalformed, sec.ReasonTokenNotFound)
		}
		return nil, sec.FailWith(sec.KindStorePersistenceFailure, "token lookup failed", err)
	}

	if record.Revoked {
		return nil, sec.Fail(sec.KindTokenRevoked, sec.ReasonTokenRevoked)
	}

	if verifier.now().After(record.ExpiresAt) {
		return nil, sec.Fail(sec.KindTokenExpired, sec.ReasonTokenExpired)
	}

	owner, err := verifier.accounts.FindByID(storeCtx, record.AccountID)
	if err != nil {
		if isNotFound(err) {
			return nil, sec.Fail(sec.KindAccountInactive, sec.ReasonUserInactive)
		}
		return nil, sec.FailWith(sec.KindStorePersistenceFailure, "account lookup failed", err)
	}

	if !owner.Usable() {
		return nil, sec.Fail(sec.KindAccountInactive, sec.ReasonUserInactive)
	}

	return claims, nil
}

// bearerToken extracts the credential of a "Bearer <token>" header.
func bearerToken(header string) (string, bool) {
	scheme, credential, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, bearerScheme) {
		return "", false
	}

	credential = strings.TrimSpace(credential)
	if credential == "" || strings.ContainsAny(credential, " \t") {
		return "", false
	}
	return credential, true
}
