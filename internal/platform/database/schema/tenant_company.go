// Copyright (c) 2026 Bizdesk. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema

// TenantCompanyTable represents the 'tenant.company' table
type TenantCompanyTable struct {
	Table     string
	ID        string
	Name      string
	IsActive  string
	CreatedAt string
	UpdatedAt string
}

// TenantCompany is the schema definition for tenant.company
var TenantCompany = TenantCompanyTable{
	Table:     "tenant.company",
	ID:        "id",
	Name:      "name",
	IsActive:  "isactive",
	CreatedAt: "createdat",
	UpdatedAt: "updatedat",
}
