// Copyright (c) 2026 Bizdesk. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package ctxkey defines the typed context keys shared by middleware and
// handlers. The unexported key type keeps them collision free.
package ctxkey

type key uint8

const (
	// KeyRequestID holds the X-Request-ID correlation value.
	KeyRequestID key = iota + 1

	// KeyClaims holds the [sec.AuthClaims] of a verified access token.
	KeyClaims

	// KeyLogger holds the per-request [*log/slog.Logger].
	KeyLogger

	// KeyClientIP holds the caller address resolved from the peer and trusted proxy headers.
	KeyClientIP
)
