package repository

import (
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

// DefaultMigrationsSource is relative to the working directory of the binaries
const DefaultMigrationsSource = "file://internal/repository/migrations"

// RunMigrations applies every pending migration from source
func RunMigrations(source, databaseURL string) error {
	if source == "" {
		source = DefaultMigrationsSource
	}

	m, err := migrate.New(source, databaseURL)
	if err != nil {
		return fmt.Errorf("create migration instance: %w", err)
	}
	defer m.Close()

	err = m.Up()
	if err == nil || errors.Is(err, migrate.ErrNoChange) {
		return nil
	}

	var dirtyErr migrate.ErrDirty
	if !errors.As(err, &dirtyErr) {
		return fmt.Errorf("run migrations: %w", err)
	}

	// A failed migration leaves the version dirty. Step back to the last
	// clean version and try again.
	version, dirty, verr := m.Version()
	if verr != nil {
		return fmt.Errorf("get current migration version: %w", verr)
	}
	if !dirty {
		return fmt.Errorf("dirty migrations at version %d and could not auto-fix", dirtyErr.Version)
	}

	forceVersion := forceTarget(version)
	if ferr := m.Force(forceVersion); ferr != nil {
		return fmt.Errorf("force clean migration version %d: %w", forceVersion, ferr)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("rerun migrations after dirty state: %w", err)
	}

	return nil
}

// forceTarget is the version to force before retrying a dirty migration.
// Below the first migration golang-migrate expects NilVersion, not 0.
func forceTarget(dirty uint) int {
	if dirty <= 1 {
		return database.NilVersion
	}
	return int(dirty) - 1
}
