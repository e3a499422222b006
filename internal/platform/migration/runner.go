// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package migration brings the catalog schema up to date at startup.
//
// # Sources
//
// The SQL files under data/migrations are compiled into the binary and used
// by default, so a deployed image never runs against stored functions older
// than its own queries. Setting MIGRATION_PATH swaps in a directory on disk.
package migration

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	// pgx5 driver registers the "pgx5" scheme.
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/source"
	"github.com/golang-migrate/migrate/v4/source/file"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	"github.com/taibuivan/animeapi/data/migrations"
)

const (
	sourceEmbedded = "embedded"
	sourceFile     = "file"
)

// RunUp applies every pending UP migration.
//
// # Parameters
//   - databaseURL: A postgres:// or postgresql:// URL.
//   - dir: Directory holding the .sql files. Empty selects the embedded set.
//   - logger: Structured logger for migration events.
func RunUp(databaseURL, dir string, logger *slog.Logger) error {
	driver, origin, err := openSource(dir)
	if err != nil {
		return err
	}

	migrator, err := migrate.NewWithSourceInstance(origin, driver, pgx5URL(databaseURL))
	if err != nil {
		_ = driver.Close()
		return fmt.Errorf("migration: open database: %w", err)
	}
	defer func() {
		sourceErr, databaseErr := migrator.Close()
		if sourceErr != nil {
			logger.Error("migration_source_close_failed", slog.Any("error", sourceErr))
		}
		if databaseErr != nil {
			logger.Error("migration_db_close_failed", slog.Any("error", databaseErr))
		}
	}()

	logger = logger.With(slog.String("source", origin))
	migrator.Log = &migrateLogger{logger: logger}

	return apply(migrator, logger)
}

// openSource resolves dir to a golang-migrate source and names its origin.
func openSource(dir string) (source.Driver, string, error) {
	if dir == "" {
		driver, err := iofs.New(migrations.FS, ".")
		if err != nil {
			return nil, "", fmt.Errorf("migration: read embedded files: %w", err)
		}
		return driver, sourceEmbedded, nil
	}

	driver, err := (&file.File{}).Open("file://" + dir)
	if err != nil {
		return nil, "", fmt.Errorf("migration: read %q: %w", dir, err)
	}
	return driver, sourceFile, nil
}

func apply(migrator *migrate.Migrate, logger *slog.Logger) error {
	from, dirty, err := migrator.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return fmt.Errorf("migration: read version: %w", err)
	}
	if dirty {
		return fmt.Errorf("migration: database is dirty at version %d, fix it by hand and force the version", from)
	}

	logger.Info("migration_started", slog.Uint64("current_version", uint64(from)))

	if err := migrator.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			logger.Info("migration_already_up_to_date")
			return nil
		}
		return fmt.Errorf("migration: up: %w", err)
	}

	to, _, _ := migrator.Version()
	logger.Info("migration_successful",
		slog.Uint64("from_version", uint64(from)),
		slog.Uint64("to_version", uint64(to)),
	)
	return nil
}

// pgx5URL rewrites a postgres URL to the scheme the pgx/v5 driver registers.
// Anything else is returned untouched and rejected by golang-migrate.
func pgx5URL(databaseURL string) string {
	for _, scheme := range []string{"postgres://", "postgresql://"} {
		if rest, ok := strings.CutPrefix(databaseURL, scheme); ok {
			return "pgx5://" + rest
		}
	}
	return databaseURL
}

// migrateLogger routes golang-migrate output to slog at debug level.
type migrateLogger struct {
	logger *slog.Logger
}

func (l *migrateLogger) Printf(format string, args ...any) {
	l.logger.Debug(strings.TrimSpace(fmt.Sprintf(format, args...)))
}

func (l *migrateLogger) Verbose() bool {
	return l.logger.Enabled(context.Background(), slog.LevelDebug)
}
