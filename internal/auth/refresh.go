// Copyright (c) 2026 Bizdesk. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"errors"
	"log/slog"

	"github.com/taibuivan/bizdesk/internal/platform/ctxutil"
	"github.com/taibuivan/bizdesk/internal/platform/sec"
)

/*
Refresh exchanges a refresh token for a new access token in the same session.

Description: The session owning the refresh token must exist, be unrevoked
and unexpired. Role, tenant and branch are re-read from the account so a role
change applies on the next refresh. No new refresh token or session is issued.

Parameters:
  - ctx: context.Context
  - refreshToken: string

Returns:
  - *IssuedAccess: The new access token
  - error: *sec.AuthError
*/
func (service *Service) Refresh(ctx context.Context, refreshToken string) (*IssuedAccess, error) {
	issued, err := service.refresh(ctx, refreshToken)
	if err != nil {
		service.metrics.ObserveRefresh(sec.KindOf(err).String())
		ctxutil.GetLogger(ctx).InfoContext(ctx, "auth_refresh_rejected", slog.String("reason", sec.ReasonOf(err)))
		return nil, err
	}

	service.metrics.ObserveRefresh("ok")
	return issued, nil
}

func (service *Service) refresh(ctx context.Context, refreshToken string) (*IssuedAccess, error) {
	if refreshToken == "" {
		return nil, sec.Fail(sec.KindTokenMissing, sec.ReasonNoToken)
	}

	claims, err := service.tokens.ParseRefreshToken(refreshToken)
	if err != nil {
		return nil, err
	}

	storeCtx, cancel := context.WithTimeout(ctx, service.storeTimeout)
	defer cancel()

	session, err := service.store.FindSessionByRefreshHash(storeCtx, sec.HashToken(refreshToken))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, sec.Fail(sec.KindTokenMalformed, sec.ReasonTokenNotFound)
		}
		return nil, sec.FailWith(sec.KindStorePersistenceFailure, "session lookup failed", err)
	}

	if session.AccountID != claims.Subject {
		return nil, sec.Fail(sec.KindTokenMalformed, sec.ReasonInvalidToken)
	}

	if session.Revoked {
		return nil, sec.Fail(sec.KindTokenRevoked, sec.ReasonTokenRevoked)
	}

	now := service.now()
	if now.After(session.ExpiresAt) {
		return nil, sec.Fail(sec.KindTokenExpired, sec.ReasonTokenExpired)
	}

	owner, err := service.accounts.FindByID(storeCtx, session.AccountID)
	if err != nil {
		if isNotFound(err) {
			return nil, sec.Fail(sec.KindAccountInactive, sec.ReasonUserInactive)
		}
		return nil, sec.FailWith(sec.KindStorePersistenceFailure, "account lookup failed", err)
	}
	if !owner.Usable() {
		return nil, sec.Fail(sec.KindAccountInactive, sec.ReasonUserInactive)
	}

	issued, err := service.issuer.IssueAccess(owner.Principal(), now, session.ExpiresAt)
	if err != nil {
		return nil, sec.FailWith(sec.KindStorePersistenceFailure, "token issuance failed", err)
	}

	err = service.store.PutAccessToken(storeCtx, NewAccessToken{
		TokenHash: sec.HashToken(issued.AccessToken),
		SessionID: session.ID,
		AccountID: owner.ID,
		IssuedAt:  issued.IssuedAt,
		ExpiresAt: issued.ExpiresAt,
	})
	if err != nil {
		return nil, sec.FailWith(sec.KindStorePersistenceFailure, "access token write failed", err)
	}

	return issued, nil
}
