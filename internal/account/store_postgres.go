// Copyright (c) 2026 Bizdesk. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/bizdesk/internal/platform/apperr"
	"github.com/taibuivan/bizdesk/internal/platform/database/schema"
	"github.com/taibuivan/bizdesk/internal/platform/dberr"
	"github.com/taibuivan/bizdesk/pkg/uuid"
)

// PostgresRepository implements [Repository] using pgx.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new PostgreSQL implementation of [Repository].
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// selectAccount is the shared projection of every lookup. It is completed
// with a WHERE clause on the account alias "a".
var selectAccount = fmt.Sprintf(`
	SELECT a.%s, a.%s, c.%s, COALESCE(a.%s::text, ''), COALESCE(b.%s, ''), COALESCE(a.%s, ''), COALESCE(a.%s, ''),
	       a.%s, a.%s, a.%s, a.%s, c.%s, a.%s
	FROM %s a
	JOIN %s c ON c.%s = a.%s
	LEFT JOIN %s b ON b.%s = a.%s`,
	schema.AuthAccount.ID, schema.AuthAccount.CompanyID, schema.TenantCompany.Name,
	schema.AuthAccount.BranchID, schema.TenantBranch.Name, schema.AuthAccount.Username, schema.AuthAccount.Phone,
	schema.AuthAccount.PasswordHash, schema.AuthAccount.DisplayName, schema.AuthAccount.Role,
	schema.AuthAccount.IsActive, schema.TenantCompany.IsActive, schema.AuthAccount.CreatedAt,
	schema.AuthAccount.Table,
	schema.TenantCompany.Table, schema.TenantCompany.ID, schema.AuthAccount.CompanyID,
	schema.TenantBranch.Table, schema.TenantBranch.ID, schema.AuthAccount.BranchID,
)

/*
FindByUsername resolves an active account by canonical username.

Parameters:
  - context: context.Context
  - username: string (already NFKC-normalized and lowercased)

Returns:
  - *Account: Hydrated entity
  - error: apperr.NotFound or database execution failure
*/
func (repository *PostgresRepository) FindByUsername(context context.Context, username string) (*Account, error) {
	query := selectAccount + fmt.Sprintf(` WHERE a.%s = $1 AND a.%s`, schema.AuthAccount.Username, schema.AuthAccount.IsActive)
	return repository.findOne(context, "find_by_username", query, username)
}

/*
FindByPhone resolves an active account by canonical phone number.

Parameters:
  - context: context.Context
  - phone: string (canonical "+digits" form)

Returns:
  - *Account: Hydrated entity
  - error: apperr.NotFound or database execution failure
*/
func (repository *PostgresRepository) FindByPhone(context context.Context, phone string) (*Account, error) {
	query := selectAccount + fmt.Sprintf(` WHERE a.%s = $1 AND a.%s`, schema.AuthAccount.Phone, schema.AuthAccount.IsActive)
	return repository.findOne(context, "find_by_phone", query, phone)
}

// FindByID resolves an account by primary key regardless of its active flag.
func (repository *PostgresRepository) FindByID(context context.Context, id string) (*Account, error) {
	if !uuid.Valid(id) {
		return nil, apperr.NotFound("Account")
	}

	query := selectAccount + fmt.Sprintf(` WHERE a.%s = $1`, schema.AuthAccount.ID)
	return repository.findOne(context, "find_by_id", query, id)
}

func (repository *PostgresRepository) findOne(context context.Context, operation, query string, argument string) (*Account, error) {
	account := &Account{}
	err := repository.pool.QueryRow(context, query, argument).Scan(
		&account.ID,
		&account.CompanyID,
		&account.CompanyName,
		&account.BranchID,
		&account.BranchName,
		&account.Username,
		&account.Phone,
		&account.PasswordHash,
		&account.DisplayName,
		&account.Role,
		&account.IsActive,
		&account.CompanyActive,
		&account.CreatedAt,
	)

	if err != nil {
		if dberr.IsNotFound(err) {
			return nil, apperr.NotFound("Account")
		}
		return nil, fmt.Errorf("postgres_account_repo_%s_failed: %w", operation, err)
	}

	return account, nil
}
