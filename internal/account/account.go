// Copyright (c) 2026 Bizdesk. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package account reads staff accounts and their owning company (tenant).

Account management (create, update, deactivate) is owned by the staff
administration module; this package only resolves accounts for the
authentication core and serves the caller's own profile.

# Architecture

  - Entity: [Account], joined with the tenant active flag.
  - Repository: [Repository], implemented by [PostgresRepository].
  - Service: [Service] for profile reads.
*/
package account

import (
	"context"
	"time"

	"github.com/taibuivan/bizdesk/internal/platform/sec"
)

// # Domain Entities

// Account is a staff login of a company, optionally attached to one branch.
type Account struct {
	ID           string       `json:"id"`
	CompanyID    string       `json:"companyId"`
	CompanyName  string       `json:"companyName"`
	BranchID     string       `json:"branchId,omitempty"`
	BranchName   string       `json:"branchName,omitempty"`
	Username     string       `json:"username,omitempty"`
	Phone        string       `json:"phone,omitempty"`
	PasswordHash string       `json:"-"`
	DisplayName  string       `json:"displayName"`
	Role         sec.UserRole `json:"role"`
	IsActive     bool         `json:"isActive"`

	// CompanyActive mirrors tenant.company.isactive at read time.
	CompanyActive bool `json:"-"`

	CreatedAt time.Time `json:"createdAt"`
}

// Principal returns the identity an access token is minted for.
func (account *Account) Principal() sec.Principal {
	return sec.Principal{
		AccountID: account.ID,
		Role:      account.Role,
		TenantID:  account.CompanyID,
		BranchID:  account.BranchID,
	}
}

// Usable reports whether both the account and its company are active.
func (account *Account) Usable() bool {
	return account.IsActive && account.CompanyActive
}

// # Repository Contracts

// Repository defines the read contract for staff accounts.
type Repository interface {

	/*
		FindByUsername returns the active account with the given canonical username.

		Returns:
		  - *Account: Hydrated entity including the company active flag
		  - error: apperr.NotFound or storage failures
	*/
	FindByUsername(context context.Context, username string) (*Account, error)

	/*
		FindByPhone returns the active account with the given canonical phone number.

		Returns:
		  - *Account: Hydrated entity including the company active flag
		  - error: apperr.NotFound or storage failures
	*/
	FindByPhone(context context.Context, phone string) (*Account, error)

	/*
		FindByID returns the account with the given ID, active or not.

		Callers decide what an inactive account or company means for them.
	*/
	FindByID(context context.Context, id string) (*Account, error)
}

// # Service

// Service implements account read use cases.
type Service struct {
	repository Repository
}

// NewService constructs a new account [Service].
func NewService(repository Repository) *Service {
	return &Service{repository: repository}
}

// GetProfile returns the account of the authenticated caller.
func (service *Service) GetProfile(context context.Context, accountID string) (*Account, error) {
	return service.repository.FindByID(context, accountID)
}
