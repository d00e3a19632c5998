// Copyright (c) 2026 Bizdesk. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema

// TenantBranchTable represents the 'tenant.branch' table
type TenantBranchTable struct {
	Table     string
	ID        string
	CompanyID string
	Name      string
	IsActive  string
	CreatedAt string
}

// TenantBranch is the schema definition for tenant.branch
var TenantBranch = TenantBranchTable{
	Table:     "tenant.branch",
	ID:        "id",
	CompanyID: "companyid",
	Name:      "name",
	IsActive:  "isactive",
	CreatedAt: "createdat",
}
