// Copyright (c) 2026 Bizdesk. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec_test

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/bizdesk/internal/platform/sec"
)

/*
TestPasswordHash verifies bcrypt hashing and comparison.
*/
func TestPasswordHash(t *testing.T) {
	hash, err := sec.HashPassword("correct horse")
	require.NoError(t, err)

	assert.NotEqual(t, "correct horse", hash)
	assert.True(t, sec.CheckPasswordHash("correct horse", hash))
	assert.False(t, sec.CheckPasswordHash("wrong horse", hash))
	assert.False(t, sec.CheckPasswordHash("correct horse", "not-a-bcrypt-hash"))
}

/*
TestGenerateSecureToken verifies length and uniqueness of opaque tokens.
*/
func TestGenerateSecureToken(t *testing.T) {
	first, err := sec.GenerateSecureToken(32)
	require.NoError(t, err)
	second, err := sec.GenerateSecureToken(32)
	require.NoError(t, err)

	// 32 bytes encode to 43 unpadded base64url characters.
	assert.Len(t, first, 43)
	assert.NotEqual(t, first, second)
}

/*
TestHashToken verifies the digest is stable and hex encoded.
*/
func TestHashToken(t *testing.T) {
	assert.Equal(t, sec.HashToken("abc"), sec.HashToken("abc"))
	assert.NotEqual(t, sec.HashToken("abc"), sec.HashToken("abd"))
	assert.Len(t, sec.HashToken("abc"), 64)
}

/*
TestAuthError_AppError verifies the wire mapping of every failure kind.
*/
func TestAuthError_AppError(t *testing.T) {
	tests := []struct {
		name    string
		err     *sec.AuthError
		status  int
		code    string
		message string
	}{
		{"not_found", sec.Fail(sec.KindInvalidCredentials, sec.ReasonAccountNotFound), http.StatusUnauthorized, "INVALID_CREDENTIALS", "invalid credentials"},
		{"bad_password", sec.Fail(sec.KindInvalidCredentials, sec.ReasonInvalidPassword), http.StatusUnauthorized, "INVALID_CREDENTIALS", "invalid credentials"},
		{"tenant_inactive", sec.Fail(sec.KindTenantInactive, sec.ReasonTenantInactive), http.StatusUnauthorized, "INVALID_CREDENTIALS", "invalid credentials"},
		{"no_token", sec.Fail(sec.KindTokenMissing, sec.ReasonNoToken), http.StatusUnauthorized, "TOKEN_MISSING", "no token"},
		{"malformed", sec.Fail(sec.KindTokenMalformed, sec.ReasonInvalidToken), http.StatusUnauthorized, "TOKEN_MALFORMED", "invalid token"},
		{"not_found_token", sec.Fail(sec.KindTokenMalformed, sec.ReasonTokenNotFound), http.StatusUnauthorized, "TOKEN_MALFORMED", "token not found"},
		{"revoked", sec.Fail(sec.KindTokenRevoked, sec.ReasonTokenRevoked), http.StatusUnauthorized, "TOKEN_REVOKED", "token revoked"},
		{"expired", sec.Fail(sec.KindTokenExpired, sec.ReasonTokenExpired), http.StatusUnauthorized, "TOKEN_EXPIRED", "token expired"},
		{"inactive", sec.Fail(sec.KindAccountInactive, sec.ReasonUserInactive), http.StatusUnauthorized, "ACCOUNT_INACTIVE", "user inactive"},
		{"persistence", sec.FailWith(sec.KindStorePersistenceFailure, "session write failed", errors.New("tx aborted")), http.StatusInternalServerError, "INTERNAL_ERROR", "An unexpected error occurred"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			appErr := tt.err.AppError()
			assert.Equal(t, tt.status, appErr.HTTPStatus)
			assert.Equal(t, tt.code, appErr.Code)
			assert.Equal(t, tt.message, appErr.Message)
		})
	}
}
