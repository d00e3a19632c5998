// Copyright (c) 2026 Bizdesk. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/taibuivan/bizdesk/internal/platform/constants"
	"github.com/taibuivan/bizdesk/internal/platform/ctxutil"
	"github.com/taibuivan/bizdesk/internal/platform/respond"
	"github.com/taibuivan/bizdesk/internal/platform/sec"
)

// TokenVerifier is the request gate the middleware delegates to.
//
// Implementations return a [*sec.AuthError] describing the first failed check.
type TokenVerifier interface {
	Authenticate(ctx context.Context, authorizationHeader string) (*sec.AuthClaims, error)
}

// Authenticate rejects any request whose bearer token does not verify.
//
// # Flow
//  1. Pass the raw Authorization header to the [TokenVerifier].
//  2. On failure, answer 401 with the failure code and reason.
//  3. On success, inject [*sec.AuthClaims] into the request context.
func Authenticate(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			header := request.Header.Get(constants.HeaderAuthorization)

			claims, err := verifier.Authenticate(request.Context(), header)
			if err != nil {
				ctxutil.GetLogger(request.Context()).DebugContext(request.Context(), "auth_gate_rejected",
					slog.String("kind", sec.KindOf(err).String()),
				)
				respond.Error(writer, request, err)
				return
			}

			ctx := ctxutil.WithClaims(request.Context(), claims)
			next.ServeHTTP(writer, request.WithContext(ctx))
		})
	}
}
