// Copyright (c) 2026 Bizdesk. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema

// AuthAccountTable represents the 'auth.account' table
type AuthAccountTable struct {
	Table        string
	ID           string
	CompanyID    string
	BranchID     string
	Username     string
	Phone        string
	PasswordHash string
	DisplayName  string
	Role         string
	IsActive     string
	CreatedAt    string
	UpdatedAt    string
}

// AuthAccount is the schema definition for auth.account
var AuthAccount = AuthAccountTable{
	Table:        "auth.account",
	ID:           "id",
	CompanyID:    "companyid",
	BranchID:     "branchid",
	Username:     "username",
	Phone:        "phone",
	PasswordHash: "passwordhash",
	DisplayName:  "displayname",
	Role:         "role",
	IsActive:     "isactive",
	CreatedAt:    "createdat",
	UpdatedAt:    "updatedat",
}

// Columns returns all standard column names
func (t AuthAccountTable) Columns() []string {
	return []string{
		t.ID, t.CompanyID, t.BranchID, t.Username, t.Phone, t.PasswordHash,
		t.DisplayName, t.Role, t.IsActive, t.CreatedAt, t.UpdatedAt,
	}
}
