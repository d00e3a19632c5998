// Copyright (c) 2026 Bizdesk. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import "time"

// # Authentication Constraints

const (
	// AccessTokenTTL is fixed at issuance and never extended.
	AccessTokenTTL = 24 * time.Hour

	// RefreshTokenTTL bounds both the refresh token and its session.
	RefreshTokenTTL = 7 * 24 * time.Hour

	// SessionIDLength is the byte length of the random opaque session id.
	SessionIDLength = 32

	// sessionWriteAttempts bounds how often a colliding session is reissued.
	sessionWriteAttempts = 2
)

// # Audit Vocabulary

// Outcome is the result recorded for a login attempt.
type Outcome string

const (
	OutcomeSuccess Outcome = "success"
	OutcomeFailed  Outcome = "failed"
)

// Audit reasons for failures that are not credential mismatches.
const (
	ReasonLookupFailed = "lookup_failed"
	ReasonStoreFailure = "store_failure"
)

// # Field Identifiers

const (
	FieldIdentifier   = "identifier"
	FieldPassword     = "password"
	FieldRefreshToken = "refreshToken"
	FieldSessionToken = "sessionToken"
	FieldDeviceID     = "deviceInfo.deviceId"
)
