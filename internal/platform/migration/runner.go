// Copyright (c) 2026 Bizdesk. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package migration applies the tenant and auth schema migrations with
// golang-migrate before the server accepts traffic.
package migration

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	// pgx5 driver registers "pgx5" scheme for golang-migrate.
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	// file source reads .sql files from disk.
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

// ErrDirty is returned when a previous run failed half-way. The schema must be
// repaired by hand and forced to a version before the server can start.
var ErrDirty = errors.New("migration: database is dirty")

// RunUp applies all pending UP migrations from migrationsPath.
//
// Cancelling ctx asks golang-migrate to stop after the migration in flight,
// which leaves the schema at a clean version.
func RunUp(ctx context.Context, dsn, migrationsPath string, verbose bool, logger *slog.Logger) error {
	migrator, err := migrate.New("file://"+migrationsPath, pgx5URL(dsn))
	if err != nil {
		return fmt.Errorf("migration: failed to initialize: %w", err)
	}
	defer func() {
		if sourceErr, dbErr := migrator.Close(); sourceErr != nil || dbErr != nil {
			logger.Warn("migration_close_failed", slog.Any("source_error", sourceErr), slog.Any("db_error", dbErr))
		}
	}()
	migrator.Log = &migrateLogger{logger: logger, verbose: verbose}

	from, err := currentVersion(migrator)
	if err != nil {
		return err
	}

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			migrator.GracefulStop <- true
		case <-done:
		}
	}()

	logger.Info("migration_started", slog.Uint64("from_version", uint64(from)), slog.String("path", migrationsPath))

	switch err := migrator.Up(); {
	case errors.Is(err, migrate.ErrNoChange):
		logger.Info("migration_up_to_date", slog.Uint64("version", uint64(from)))
		return nil
	case err != nil:
		return fmt.Errorf("migration: up failed: %w", err)
	}

	if ctxErr := ctx.Err(); ctxErr != nil {
		return fmt.Errorf("migration: stopped early: %w", ctxErr)
	}

	to, err := currentVersion(migrator)
	if err != nil {
		return err
	}
	logger.Info("migration_applied", slog.Uint64("from_version", uint64(from)), slog.Uint64("to_version", uint64(to)))

	return nil
}

// currentVersion reports the applied version, 0 for an empty database.
func currentVersion(migrator *migrate.Migrate) (uint, error) {
	version, dirty, err := migrator.Version()
	switch {
	case errors.Is(err, migrate.ErrNilVersion):
		return 0, nil
	case err != nil:
		return 0, fmt.Errorf("migration: failed to read version: %w", err)
	case dirty:
		return version, fmt.Errorf("%w at version %d", ErrDirty, version)
	}
	return version, nil
}

// pgx5URL rewrites postgres:// URLs to the scheme the pgx/v5 driver registers.
// Key/value DSNs are returned as is.
func pgx5URL(dsn string) string {
	for _, scheme := range []string{"postgres://", "postgresql://"} {
		if rest, found := strings.CutPrefix(dsn, scheme); found {
			return "pgx5://" + rest
		}
	}
	return dsn
}

// migrateLogger routes golang-migrate output to slog at debug level.
type migrateLogger struct {
	logger  *slog.Logger
	verbose bool
}

func (l *migrateLogger) Printf(format string, args ...any) {
	l.logger.Debug("migration_step", slog.String("detail", strings.TrimSpace(fmt.Sprintf(format, args...))))
}

func (l *migrateLogger) Verbose() bool {
	return l.verbose
}
