// Copyright (c) 2026 Bizdesk. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"

	"github.com/taibuivan/bizdesk/internal/account"
	"github.com/taibuivan/bizdesk/internal/platform/apperr"
	"github.com/taibuivan/bizdesk/internal/platform/sec"
)

// AccountReader is the subset of [account.Repository] the auth core reads.
type AccountReader interface {
	FindByUsername(context context.Context, username string) (*account.Account, error)
	FindByPhone(context context.Context, phone string) (*account.Account, error)
	FindByID(context context.Context, id string) (*account.Account, error)
}

// CredentialVerifier resolves an identifier and checks the password.
type CredentialVerifier struct {
	accounts AccountReader
}

// NewCredentialVerifier constructs a [CredentialVerifier].
func NewCredentialVerifier(accounts AccountReader) *CredentialVerifier {
	return &CredentialVerifier{accounts: accounts}
}

/*
Verify checks a password against the active account matching identifier.

Description: Unknown identifiers still pay for one bcrypt comparison so timing
does not reveal whether an account exists.

Returns:
  - *account.Account: The resolved account. It is also returned alongside a
    TenantInactive or InvalidPassword failure so the attempt can be attributed.
  - error: *sec.AuthError of kind InvalidCredentials, TenantInactive or
    StorePersistenceFailure
*/
func (verifier *CredentialVerifier) Verify(context context.Context, identifier Identifier, password string) (*account.Account, error) {
	var (
		found *account.Account
		err   error
	)

	switch identifier.Kind {
	case IdentifierUsername:
		found, err = verifier.accounts.FindByUsername(context, identifier.Value)
	case IdentifierPhone:
		found, err = verifier.accounts.FindByPhone(context, identifier.Value)
	default:
		err = apperr.NotFound("Account")
	}

	if err != nil {
		if isNotFound(err) {
			sec.BurnPasswordCheck(password)
			return nil, sec.Fail(sec.KindInvalidCredentials, sec.ReasonAccountNotFound)
		}
		return nil, sec.FailWith(sec.KindStorePersistenceFailure, ReasonLookupFailed, err)
	}

	// An inactive tenant is reported before the password so a suspended
	// company cannot be probed for valid passwords.
	if !found.CompanyActive {
		sec.BurnPasswordCheck(password)
		return found, sec.Fail(sec.KindTenantInactive, sec.ReasonTenantInactive)
	}

	if !sec.CheckPasswordHash(password, found.PasswordHash) {
		return found, sec.Fail(sec.KindInvalidCredentials, sec.ReasonInvalidPassword)
	}

	return found, nil
}

func isNotFound(err error) bool {
	appErr := apperr.As(err)
	return appErr != nil && appErr.Code == apperr.CodeNotFound
}
