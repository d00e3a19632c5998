// Copyright (c) 2026 Bizdesk. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema

// AuthSessionTable represents the 'auth.session' table
type AuthSessionTable struct {
	Table            string
	ID               string
	AccountID        string
	CompanyID        string
	RefreshTokenHash string
	IPAddress        string
	UserAgent        string
	DeviceID         string
	DeviceType       string
	Browser          string
	OS               string
	IsActive         string
	IsRevoked        string
	RevokedAt        string
	IsExpired        string
	ExpiresAt        string
	CreatedAt        string
}

// AuthSession is the schema definition for auth.session
var AuthSession = AuthSessionTable{
	Table:            "auth.session",
	ID:               "id",
	AccountID:        "accountid",
	CompanyID:        "companyid",
	RefreshTokenHash: "refreshtokenhash",
	IPAddress:        "ipaddress",
	UserAgent:        "useragent",
	DeviceID:         "deviceid",
	DeviceType:       "devicetype",
	Browser:          "browser",
	OS:               "os",
	IsActive:         "isactive",
	IsRevoked:        "isrevoked",
	RevokedAt:        "revokedat",
	IsExpired:        "isexpired",
	ExpiresAt:        "expiresat",
	CreatedAt:        "createdat",
}
