// Copyright (c) 2026 Bizdesk. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/bizdesk/internal/platform/database/schema"
	"github.com/taibuivan/bizdesk/pkg/uuid"
)

// # Session & Audit Recorder

// PostgresRecorder implements [Recorder] over auth.loginaudit and auth.session.
type PostgresRecorder struct {
	pool *pgxpool.Pool
}

// NewPostgresRecorder creates a new PostgreSQL implementation of [Recorder].
func NewPostgresRecorder(pool *pgxpool.Pool) *PostgresRecorder {
	return &PostgresRecorder{pool: pool}
}

var auditTable = schema.AuthLoginAudit

/*
RecordLogin appends one entry to the login audit trail.

Description: INSERT only. The table rejects UPDATE and DELETE.

Parameters:
  - context: context.Context
  - attempt: LoginAttempt

Returns:
  - error: Persistence failures
*/
func (repository *PostgresRecorder) RecordLogin(context context.Context, attempt LoginAttempt) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, NULLIF($2, '')::uuid, $3, $4, $5, $6, $7, $8, $9, $10, NULLIF($11, ''))`,
		auditTable.Table,
		auditTable.ID, auditTable.AccountID, auditTable.IdentifierKind,
		auditTable.IPAddress, auditTable.UserAgent, auditTable.DeviceID,
		auditTable.DeviceType, auditTable.Browser, auditTable.OS,
		auditTable.Outcome, auditTable.Reason,
	)

	_, err := repository.pool.Exec(context, query,
		uuid.New(),
		attempt.AccountID,
		string(attempt.IdentifierKind),
		attempt.Device.IPAddress,
		attempt.Device.UserAgent,
		attempt.Device.DeviceID,
		attempt.Device.DeviceType,
		attempt.Device.Browser,
		attempt.Device.OS,
		string(attempt.Outcome),
		attempt.Reason,
	)
	if err != nil {
		return fmt.Errorf("postgres_recorder_record_login_failed: %w", err)
	}
	return nil
}

// RecordSession stamps the derived device fingerprint on a session row.
func (repository *PostgresRecorder) RecordSession(context context.Context, sessionID string, device Device) error {
	query := fmt.Sprintf(`UPDATE %s SET %s = $2, %s = $3, %s = $4 WHERE %s = $1`,
		sessionTable.Table, sessionTable.DeviceType, sessionTable.Browser, sessionTable.OS, sessionTable.ID)

	if _, err := repository.pool.Exec(context, query, sessionID, device.DeviceType, device.Browser, device.OS); err != nil {
		return fmt.Errorf("postgres_recorder_record_session_failed: %w", err)
	}
	return nil
}

// DeactivateSession clears the active flag of a session. Unknown ids affect no rows.
func (repository *PostgresRecorder) DeactivateSession(context context.Context, sessionID string) error {
	query := fmt.Sprintf(`UPDATE %s SET %s = FALSE WHERE %s = $1 AND %s`,
		sessionTable.Table, sessionTable.IsActive, sessionTable.ID, sessionTable.IsActive)

	if _, err := repository.pool.Exec(context, query, sessionID); err != nil {
		return fmt.Errorf("postgres_recorder_deactivate_session_failed: %w", err)
	}
	return nil
}
