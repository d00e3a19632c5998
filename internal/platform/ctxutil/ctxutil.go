// Copyright (c) 2026 Bizdesk. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package ctxutil stores and reads the request-scoped values the HTTP chain
// attaches: the correlation ID, the logger, and the verified caller.
package ctxutil

import (
	"context"
	"log/slog"

	"github.com/taibuivan/bizdesk/internal/platform/ctxkey"
	"github.com/taibuivan/bizdesk/internal/platform/sec"
)

// # Request Tracing

func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxkey.KeyRequestID, id)
}

// GetRequestID returns the correlation ID, or "" outside a request.
func GetRequestID(ctx context.Context) string {
	id, _ := ctx.Value(ctxkey.KeyRequestID).(string)
	return id
}

func WithClientIP(ctx context.Context, ip string) context.Context {
	return context.WithValue(ctx, ctxkey.KeyClientIP, ip)
}

// GetClientIP returns the resolved caller address, or "" when none was resolved.
func GetClientIP(ctx context.Context) string {
	ip, _ := ctx.Value(ctxkey.KeyClientIP).(string)
	return ip
}

// # Structured Logging

func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxkey.KeyLogger, logger)
}

// GetLogger returns the request logger, falling back to [slog.Default].
func GetLogger(ctx context.Context) *slog.Logger {
	if logger, ok := ctx.Value(ctxkey.KeyLogger).(*slog.Logger); ok && logger != nil {
		return logger
	}
	return slog.Default()
}

// # Verified Caller

// WithClaims attaches the claims of a verified access token. The request
// logger, if any, is rebound with the caller's account and tenant so every
// later log line carries them.
func WithClaims(ctx context.Context, claims *sec.AuthClaims) context.Context {
	ctx = context.WithValue(ctx, ctxkey.KeyClaims, claims)
	if claims == nil {
		return ctx
	}

	logger := GetLogger(ctx).With(
		slog.String("account_id", claims.AccountID),
		slog.String("tenant_id", claims.TenantID),
	)
	return WithLogger(ctx, logger)
}

// GetClaims returns the verified claims, or nil for anonymous requests.
func GetClaims(ctx context.Context) *sec.AuthClaims {
	claims, _ := ctx.Value(ctxkey.KeyClaims).(*sec.AuthClaims)
	return claims
}
