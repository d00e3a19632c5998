// Copyright (c) 2026 Bizdesk. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package constants provides centralized, immutable values for the entire platform.

Listener timings and rate limits are configuration (see package config);
what remains here never varies between deployments: header names, envelope
keys, schema names and the Redis key prefix.
*/
package constants

import "time"

// # Metadata

const (
	AppName    = "bizdesk-api"
	AppVersion = "0.1.0-dev"
)

// # Startup

// StartupTimeout bounds database and cache connection, plus migrations, at boot.
const StartupTimeout = 30 * time.Second

// # Rate Limiter Housekeeping

const (
	// RateLimitCleanupInterval is how often idle per-IP limiters are dropped.
	RateLimitCleanupInterval = 1 * time.Minute

	// RateLimitClientTTL is the idle age after which a per-IP limiter is dropped.
	RateLimitClientTTL = 3 * time.Minute
)

// # HTTP Headers

const (
	HeaderAuthorization = "Authorization"
	HeaderXRequestID    = "X-Request-ID"
	HeaderXRealIP       = "X-Real-IP"
	HeaderXForwardedFor = "X-Forwarded-For"
	HeaderOrigin        = "Origin"
	HeaderRetryAfter    = "Retry-After"
)

// # JSON Field Identifiers

const (
	FieldSuccess = "success"
	FieldError   = "error"
	FieldCode    = "code"
	FieldStatus  = "status"
	FieldChecks  = "checks"
)

// # Database Schemas

const (
	SchemaAuth   = "auth"
	SchemaTenant = "tenant"
)

// # Redis Prefixes (Cache Taxonomy)

const (
	RedisPrefixLoginFailures = "auth:login_failures:"
)
