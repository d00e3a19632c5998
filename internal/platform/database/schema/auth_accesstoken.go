// Copyright (c) 2026 Bizdesk. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema

// AuthAccessTokenTable represents the 'auth.accesstoken' table
type AuthAccessTokenTable struct {
	Table     string
	TokenHash string
	SessionID string
	AccountID string
	IssuedAt  string
	ExpiresAt string
	IsRevoked string
	RevokedAt string
	IsExpired string
}

// AuthAccessToken is the schema definition for auth.accesstoken
var AuthAccessToken = AuthAccessTokenTable{
	Table:     "auth.accesstoken",
	TokenHash: "tokenhash",
	SessionID: "sessionid",
	AccountID: "accountid",
	IssuedAt:  "issuedat",
	ExpiresAt: "expiresat",
	IsRevoked: "isrevoked",
	RevokedAt: "revokedat",
	IsExpired: "isexpired",
}
