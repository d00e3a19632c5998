// Copyright (c) 2026 Bizdesk. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package auth implements staff sign-in and the session/token lifecycle.

A login turns an identifier (username or phone) and a password into a durable,
revocable session carrying three tokens: an access token for every protected
request, a refresh token to mint new access tokens, and an opaque session token
used to log out.

Architecture:

  - Service: Orchestrates Login, Refresh, Logout and Authenticate.
  - CredentialVerifier / Issuer / Verifier: Single-purpose steps of those flows.
  - TokenStore / Recorder: PostgreSQL is the single source of truth for sessions,
    tokens and the login audit trail.
  - AttemptLimiter: Redis-backed failed-login counter.
*/
package auth

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/taibuivan/bizdesk/internal/account"
	"github.com/taibuivan/bizdesk/internal/platform/apperr"
	"github.com/taibuivan/bizdesk/internal/platform/ctxutil"
	"github.com/taibuivan/bizdesk/internal/platform/metrics"
	"github.com/taibuivan/bizdesk/internal/platform/sec"
)

// # Contracts & Types

// DefaultStoreTimeout bounds store calls when no timeout is configured.
const DefaultStoreTimeout = 5 * time.Second

// Dependencies are the collaborators of [Service]. Limiter and Metrics are optional.
type Dependencies struct {
	Accounts AccountReader
	Store    TokenStore
	Recorder Recorder
	Limiter  AttemptLimiter
	Tokens   *sec.TokenService
	Metrics  *metrics.Auth
}

// Options tune [Service] behavior.
type Options struct {
	// StoreTimeout bounds every store round-trip.
	StoreTimeout time.Duration

	// Now overrides the clock, for tests.
	Now func() time.Time
}

// Service implements the authentication use cases.
type Service struct {
	accounts    AccountReader
	store       TokenStore
	recorder    Recorder
	limiter     AttemptLimiter
	credentials *CredentialVerifier
	issuer      *Issuer
	verifier    *Verifier
	tokens      *sec.TokenService
	metrics     *metrics.Auth

	now          func() time.Time
	storeTimeout time.Duration
}

// NewService constructs a new [Service] with its dependencies.
func NewService(dependencies Dependencies, options Options) *Service {
	now := options.Now
	if now == nil {
		now = time.Now
	}

	storeTimeout := options.StoreTimeout
	if storeTimeout <= 0 {
		storeTimeout = DefaultStoreTimeout
	}

	return &Service{
		accounts:    dependencies.Accounts,
		store:       dependencies.Store,
		recorder:    dependencies.Recorder,
		limiter:     dependencies.Limiter,
		credentials: NewCredentialVerifier(dependencies.Accounts),
		issuer:      NewIssuer(dependencies.Tokens),
		verifier: &Verifier{
			tokens:       dependencies.Tokens,
			store:        dependencies.Store,
			accounts:     dependencies.Accounts,
			metrics:      dependencies.Metrics,
			now:          now,
			storeTimeout: storeTimeout,
		},
		tokens:       dependencies.Tokens,
		metrics:      dependencies.Metrics,
		now:          now,
		storeTimeout: storeTimeout,
	}
}

// # Authentication Flow

// LoginInput defines credentials and request metadata for a login attempt.
type LoginInput struct {
	Identifier string
	Password   string
	IPAddress  string
	UserAgent  string
	DeviceID   string
}

// LoginResult is a successfully established session.
type LoginResult struct {
	Account *account.Account
	Tokens  *IssuedTokens
}

/*
Login verifies credentials and opens a new session.

Description: Every attempt, successful or not, appends exactly one login audit
entry. Credential failures of every kind surface as the same
InvalidCredentials error.

Parameters:
  - ctx: context.Context
  - input: LoginInput

Returns:
  - *LoginResult: Account and the three issued tokens
  - error: *sec.AuthError, or apperr.RateLimited when throttled
*/
func (service *Service) Login(ctx context.Context, input LoginInput) (*LoginResult, error) {
	logger := ctxutil.GetLogger(ctx)
	device := Fingerprint(input.IPAddress, input.UserAgent, input.DeviceID)

	identifier, _ := ParseIdentifier(input.Identifier)
	throttleKey := identifier.throttleKey(input.Identifier)

	if retryAfter, throttled := service.reserveAttempt(ctx, throttleKey); throttled {
		service.audit(ctx, LoginAttempt{IdentifierKind: identifier.Kind, Device: device, Outcome: OutcomeFailed, Reason: sec.ReasonThrottled})
		logger.WarnContext(ctx, "auth_login_throttled", slog.String("identifier_kind", string(identifier.Kind)))
		return nil, apperr.RateLimited(int(retryAfter.Seconds()))
	}

	lookupCtx, cancel := context.WithTimeout(ctx, service.storeTimeout)
	resolved, err := service.credentials.Verify(lookupCtx, identifier, input.Password)
	cancel()

	if err != nil {
		attempt := LoginAttempt{IdentifierKind: identifier.Kind, Device: device, Outcome: OutcomeFailed, Reason: sec.ReasonOf(err)}
		if resolved != nil {
			attempt.AccountID = resolved.ID
		}
		service.audit(ctx, attempt)

		if kind := sec.KindOf(err); kind != sec.KindInvalidCredentials && kind != sec.KindTenantInactive {
			service.releaseAttempt(ctx, throttleKey)
		}

		logger.InfoContext(ctx, "auth_login_failed",
			slog.String("identifier_kind", string(identifier.Kind)),
			slog.String("reason", sec.ReasonOf(err)),
		)
		return nil, err
	}

	issued, err := service.openSession(ctx, resolved, device)
	if err != nil {
		service.audit(ctx, LoginAttempt{AccountID: resolved.ID, IdentifierKind: identifier.Kind, Device: device, Outcome: OutcomeFailed, Reason: ReasonStoreFailure})
		service.releaseAttempt(ctx, throttleKey)
		return nil, err
	}

	service.record(ctx, "record_session", func(recordCtx context.Context) error {
		return service.recorder.RecordSession(recordCtx, issued.SessionID, device)
	})
	service.audit(ctx, LoginAttempt{AccountID: resolved.ID, IdentifierKind: identifier.Kind, Device: device, Outcome: OutcomeSuccess})
	service.resetFailures(ctx, throttleKey)

	logger.InfoContext(ctx, "auth_login_succeeded",
		slog.String("account_id", resolved.ID),
		slog.String("device_type", device.DeviceType),
	)
	return &LoginResult{Account: resolved, Tokens: issued}, nil
}

// openSession mints the token set and persists the session and first access token.
// A digest or session id collision is retried once with freshly minted values.
func (service *Service) openSession(ctx context.Context, owner *account.Account, device Device) (*IssuedTokens, error) {
	var err error
	for range sessionWriteAttempts {
		var issued *IssuedTokens
		issued, err = service.issuer.Issue(owner.Principal(), service.now())
		if err != nil {
			return nil, sec.FailWith(sec.KindStorePersistenceFailure, "token issuance failed", err)
		}

		err = service.putSession(ctx, owner, device, issued)
		if err == nil {
			return issued, nil
		}
		if !errors.Is(err, ErrDuplicate) {
			break
		}
		ctxutil.GetLogger(ctx).WarnContext(ctx, "auth_session_collision", slog.String("account_id", owner.ID))
	}
	return nil, sec.FailWith(sec.KindStorePersistenceFailure, "session write failed", err)
}

func (service *Service) putSession(ctx context.Context, owner *account.Account, device Device, issued *IssuedTokens) error {
	storeCtx, cancel := context.WithTimeout(ctx, service.storeTimeout)
	defer cancel()

	return service.store.Put(storeCtx,
		NewSession{
			ID:               issued.SessionID,
			AccountID:        owner.ID,
			TenantID:         owner.CompanyID,
			RefreshTokenHash: sec.HashToken(issued.RefreshToken),
			Device:           device,
			ExpiresAt:        issued.RefreshExpiresAt,
		},
		NewAccessToken{
			TokenHash: sec.HashToken(issued.AccessToken),
			SessionID: issued.SessionID,
			AccountID: owner.ID,
			IssuedAt:  issued.IssuedAt,
			ExpiresAt: issued.AccessExpiresAt,
		},
	)
}

// # Request Gate

// Authenticate verifies a raw Authorization header value. See [Verifier].
func (service *Service) Authenticate(ctx context.Context, authorizationHeader string) (*sec.AuthClaims, error) {
	return service.verifier.Authenticate(ctx, authorizationHeader)
}

// # Session Termination

/*
Logout revokes a session and every access token it issued.

Description: Idempotent. Unknown or already revoked session ids succeed.

Returns:
  - error: StorePersistenceFailure when the revocation could not be written
*/
func (service *Service) Logout(ctx context.Context, sessionID string) error {
	storeCtx, cancel := context.WithTimeout(ctx, service.storeTimeout)
	defer cancel()

	if err := service.store.Revoke(storeCtx, sessionID); err != nil {
		return sec.FailWith(sec.KindStorePersistenceFailure, "session revoke failed", err)
	}

	service.record(ctx, "deactivate_session", func(recordCtx context.Context) error {
		return service.recorder.DeactivateSession(recordCtx, sessionID)
	})
	service.metrics.ObserveLogouts(1)
	return nil
}

// LogoutAll revokes every live session of accountID and returns how many were revoked.
func (service *Service) LogoutAll(ctx context.Context, accountID string) (int64, error) {
	storeCtx, cancel := context.WithTimeout(ctx, service.storeTimeout)
	defer cancel()

	revoked, err := service.store.RevokeAllForAccount(storeCtx, accountID)
	if err != nil {
		return 0, sec.FailWith(sec.KindStorePersistenceFailure, "session revoke failed", err)
	}

	service.metrics.ObserveLogouts(revoked)
	ctxutil.GetLogger(ctx).InfoContext(ctx, "auth_logout_all",
		slog.String("account_id", accountID),
		slog.Int64("sessions", revoked),
	)
	return revoked, nil
}

// # Housekeeping

// SweepExpired flags every token and session whose expiry has passed.
func (service *Service) SweepExpired(ctx context.Context) (ExpiryCounts, error) {
	storeCtx, cancel := context.WithTimeout(ctx, service.storeTimeout)
	defer cancel()

	counts, err := service.store.ExpireOlderThan(storeCtx, service.now())
	if err != nil {
		return counts, err
	}

	service.metrics.ObserveSwept("access_token", counts.AccessTokens)
	service.metrics.ObserveSwept("session", counts.Sessions)
	return counts, nil
}

// # Best-effort Side Effects

func (service *Service) audit(ctx context.Context, attempt LoginAttempt) {
	service.metrics.ObserveLogin(string(attempt.Outcome), attempt.Reason)
	service.record(ctx, "record_login", func(recordCtx context.Context) error {
		return service.recorder.RecordLogin(recordCtx, attempt)
	})
}

// record runs a recorder write. Failures are logged and counted, never returned.
func (service *Service) record(ctx context.Context, operation string, write func(context.Context) error) {
	recordCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), service.storeTimeout)
	defer cancel()

	if err := write(recordCtx); err != nil {
		service.metrics.ObserveRecorderFailure(operation)
		ctxutil.GetLogger(ctx).ErrorContext(ctx, "auth_recorder_failed",
			slog.String("operation", operation),
			slog.Any("error", err),
		)
	}
}

// reserveAttempt takes one attempt from the identifier's budget. The limiter
// fails open.
func (service *Service) reserveAttempt(ctx context.Context, key string) (time.Duration, bool) {
	if service.limiter == nil {
		return 0, false
	}

	allowed, retryAfter, err := service.limiter.Reserve(ctx, key)
	if err != nil {
		ctxutil.GetLogger(ctx).WarnContext(ctx, "auth_limiter_unavailable", slog.Any("error", err))
		return 0, false
	}
	if retryAfter < time.Second {
		retryAfter = time.Second
	}
	return retryAfter, !allowed
}

func (service *Service) releaseAttempt(ctx context.Context, key string) {
	if service.limiter == nil {
		return
	}
	if err := service.limiter.Release(context.WithoutCancel(ctx), key); err != nil {
		ctxutil.GetLogger(ctx).WarnContext(ctx, "auth_limiter_unavailable", slog.Any("error", err))
	}
}

func (service *Service) resetFailures(ctx context.Context, key string) {
	if service.limiter == nil {
		return
	}
	if err := service.limiter.Reset(ctx, key); err != nil && !errors.Is(err, context.Canceled) {
		ctxutil.GetLogger(ctx).WarnContext(ctx, "auth_limiter_unavailable", slog.Any("error", err))
	}
}
