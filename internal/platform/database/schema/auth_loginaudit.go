// Copyright (c) 2026 Bizdesk. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema

// AuthLoginAuditTable represents the append-only 'auth.loginaudit' table
type AuthLoginAuditTable struct {
	Table          string
	ID             string
	AccountID      string
	IdentifierKind string
	IPAddress      string
	UserAgent      string
	DeviceID       string
	DeviceType     string
	Browser        string
	OS             string
	Outcome        string
	Reason         string
	CreatedAt      string
}

// AuthLoginAudit is the schema definition for auth.loginaudit
var AuthLoginAudit = AuthLoginAuditTable{
	Table:          "auth.loginaudit",
	ID:             "id",
	AccountID:      "accountid",
	IdentifierKind: "identifierkind",
	IPAddress:      "ipaddress",
	UserAgent:      "useragent",
	DeviceID:       "deviceid",
	DeviceType:     "devicetype",
	Browser:        "browser",
	OS:             "os",
	Outcome:        "outcome",
	Reason:         "reason",
	CreatedAt:      "createdat",
}

// Columns returns all standard column names
func (t AuthLoginAuditTable) Columns() []string {
	return []string{
		t.ID, t.AccountID, t.IdentifierKind, t.IPAddress, t.UserAgent, t.DeviceID,
		t.DeviceType, t.Browser, t.OS, t.Outcome, t.Reason, t.CreatedAt,
	}
}
