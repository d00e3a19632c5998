// Copyright (c) 2026 Bizdesk. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package dberr_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/bizdesk/internal/platform/apperr"
	"github.com/taibuivan/bizdesk/internal/platform/dberr"
)

/*
TestWrap verifies the classification of driver errors.
*/
func TestWrap(t *testing.T) {
	assert.NoError(t, dberr.Wrap(nil, "Account"))

	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"no_rows", fmt.Errorf("query: %w", pgx.ErrNoRows), http.StatusNotFound, apperr.CodeNotFound},
		{"unique", &pgconn.PgError{Code: pgerrcode.UniqueViolation}, http.StatusConflict, apperr.CodeConflict},
		{"other", errors.New("connection reset"), http.StatusInternalServerError, apperr.CodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			appErr := apperr.As(dberr.Wrap(tt.err, "Account"))
			if assert.NotNil(t, appErr) {
				assert.Equal(t, tt.status, appErr.HTTPStatus)
				assert.Equal(t, tt.code, appErr.Code)
			}
		})
	}
}
