// Copyright (c) 2026 Bizdesk. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

// # Account Roles

// UserRole is the staff role carried in the access token's rol claim.
//
// The set mirrors the CHECK constraint on auth.account.role. Enforcing what a
// role may do is left to the services that consume the token.
type UserRole string

const (
	// Owns the company (tenant) and its billing
	RoleOwner UserRole = "owner"

	// Manages every branch and staff record of the company
	RoleAdmin UserRole = "admin"

	// Manages a single branch
	RoleManager UserRole = "manager"

	// Default role for staff members
	RoleStaff UserRole = "staff"
)
