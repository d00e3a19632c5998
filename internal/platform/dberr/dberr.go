// Copyright (c) 2026 Bizdesk. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package dberr provides a bridge between low-level database errors and
// higher-level application errors.
package dberr

import (
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/taibuivan/bizdesk/internal/platform/apperr"
)

// Wrap inspects a database error and wraps it into a meaningful [apperr.AppError].
// It hides internal database details from the client while classifying the error type.
//
// resource names the entity in the client-facing message (e.g. "Account").
func Wrap(err error, resource string) error {
	if err == nil {
		return nil
	}

	// 1. Not Found mapping
	if IsNotFound(err) {
		return apperr.NotFound(resource).WithCause(err)
	}

	// 2. Unique constraint violations surface as conflicts
	if IsUniqueViolation(err) {
		return apperr.Conflict(resource + " already exists").WithCause(err)
	}

	// 3. Unknown query errors become Internal Server Errors
	return apperr.Internal(err)
}

// IsNotFound reports whether err is a "no rows" result.
func IsNotFound(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}

// IsUniqueViolation reports whether err carries SQLSTATE 23505.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation
}
