// Copyright (c) 2026 Bizdesk. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

import (
	"errors"
	"net/http"

	"github.com/taibuivan/bizdesk/internal/platform/apperr"
)

// # Failure Taxonomy

// ErrorKind classifies every way authentication can fail.
type ErrorKind int

const (
	KindInvalidCredentials ErrorKind = iota + 1
	KindTenantInactive
	KindTokenMissing
	KindTokenMalformed
	KindTokenRevoked
	KindTokenExpired
	KindAccountInactive
	KindStorePersistenceFailure
	KindConfigurationError
)

// String returns the machine-readable code sent to clients.
func (k ErrorKind) String() string {
	switch k {
	case KindInvalidCredentials:
		return "INVALID_CREDENTIALS"
	case KindTenantInactive:
		return "TENANT_INACTIVE"
	case KindTokenMissing:
		return "TOKEN_MISSING"
	case KindTokenMalformed:
		return "TOKEN_MALFORMED"
	case KindTokenRevoked:
		return "TOKEN_REVOKED"
	case KindTokenExpired:
		return "TOKEN_EXPIRED"
	case KindAccountInactive:
		return "ACCOUNT_INACTIVE"
	case KindStorePersistenceFailure:
		return "STORE_PERSISTENCE_FAILURE"
	case KindConfigurationError:
		return "CONFIGURATION_ERROR"
	default:
		return "UNKNOWN"
	}
}

// Client-safe reasons reported by the token gate.
const (
	ReasonNoToken       = "no token"
	ReasonInvalidToken  = "invalid token"
	ReasonTokenNotFound = "token not found"
	ReasonTokenRevoked  = "token revoked"
	ReasonTokenExpired  = "token expired"
	ReasonUserInactive  = "user inactive"
)

// Internal credential failure reasons. They are written to the login audit
// trail and never sent to clients.
const (
	ReasonAccountNotFound = "not_found"
	ReasonInvalidPassword = "invalid_password"
	ReasonTenantInactive  = "tenant_inactive"
	ReasonThrottled       = "throttled"
)

// InvalidCredentialsMessage is the only message a failed login ever returns.
const InvalidCredentialsMessage = "invalid credentials"

// AuthError is the typed failure returned by credential and token checks.
type AuthError struct {
	Kind ErrorKind
	// Reason is a safe, category-level explanation. For credential failures it
	// is the internal audit reason and is replaced by a generic message on the wire.
	Reason string
	// Cause is the underlying error, logged server-side only.
	Cause error
}

// Fail constructs an [AuthError].
func Fail(kind ErrorKind, reason string) *AuthError {
	return &AuthError{Kind: kind, Reason: reason}
}

// FailWith constructs an [AuthError] carrying an underlying cause.
func FailWith(kind ErrorKind, reason string, cause error) *AuthError {
	return &AuthError{Kind: kind, Reason: reason, Cause: cause}
}

func (e *AuthError) Error() string {
	if e.Cause != nil {
		return "auth: " + e.Reason + ": " + e.Cause.Error()
	}
	return "auth: " + e.Reason
}

func (e *AuthError) Unwrap() error { return e.Cause }

// AppError maps the failure onto the HTTP error model.
func (e *AuthError) AppError() *apperr.AppError {
	switch e.Kind {
	case KindInvalidCredentials, KindTenantInactive:
		return apperr.New(http.StatusUnauthorized, KindInvalidCredentials.String(), InvalidCredentialsMessage)
	case KindTokenMissing, KindTokenMalformed, KindTokenRevoked, KindTokenExpired, KindAccountInactive:
		return apperr.New(http.StatusUnauthorized, e.Kind.String(), e.Reason)
	case KindStorePersistenceFailure, KindConfigurationError:
		return apperr.Internal(e)
	default:
		return apperr.Internal(e)
	}
}

// KindOf returns the [ErrorKind] carried by err, or 0 when err is not an [AuthError].
func KindOf(err error) ErrorKind {
	var authErr *AuthError
	if errors.As(err, &authErr) {
		return authErr.Kind
	}
	return 0
}

// ReasonOf returns the reason carried by err, or "" when err is not an [AuthError].
func ReasonOf(err error) string {
	var authErr *AuthError
	if errors.As(err, &authErr) {
		return authErr.Reason
	}
	return ""
}
