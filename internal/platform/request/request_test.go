// Copyright (c) 2026 Bizdesk. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package requestutil_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/bizdesk/internal/platform/apperr"
	"github.com/taibuivan/bizdesk/internal/platform/ctxutil"
	requestutil "github.com/taibuivan/bizdesk/internal/platform/request"
	"github.com/taibuivan/bizdesk/internal/platform/sec"
)

type loginBody struct {
	Identifier string `json:"identifier"`
}

/*
TestDecodeJSON covers the accepted body and each rejection message.
*/
func TestDecodeJSON(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		message string
	}{
		{"ok", `{"identifier":"alice"}`, ""},
		{"ok_trailing_space", "{\"identifier\":\"alice\"}\n", ""},
		{"empty", ``, "Request body is required"},
		{"malformed", `{"identifier":`, "Invalid JSON payload"},
		{"two_values", `{"identifier":"a"}{"identifier":"b"}`, "Invalid JSON payload"},
		{"too_large", `{"identifier":"` + strings.Repeat("x", requestutil.MaxBodyBytes) + `"}`, "Request body is too large"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			request := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(tt.body))
			var target loginBody

			err := requestutil.DecodeJSON(httptest.NewRecorder(), request, &target)
			if tt.message == "" {
				require.NoError(t, err)
				assert.Equal(t, "alice", target.Identifier)
				return
			}

			appErr := apperr.As(err)
			require.NotNil(t, appErr)
			assert.Equal(t, apperr.CodeValidation, appErr.Code)
			assert.Equal(t, tt.message, appErr.Message)
		})
	}
}

/*
TestRequiredClaims verifies the anonymous and authenticated paths.
*/
func TestRequiredClaims(t *testing.T) {
	request := httptest.NewRequest(http.MethodGet, "/api/v1/account/me", nil)

	_, err := requestutil.RequiredClaims(request)
	assert.Equal(t, http.StatusUnauthorized, apperr.As(err).HTTPStatus)

	ctx := ctxutil.WithClaims(context.Background(), &sec.AuthClaims{AccountID: "acc-1"})
	claims, err := requestutil.RequiredClaims(request.WithContext(ctx))
	require.NoError(t, err)
	assert.Equal(t, "acc-1", claims.AccountID)
}
