package database

import (
	"embed"
	"errors"
	"fmt"
	"log/slog"

	"linksphere/internal/middleware"

	"github.com/golang-migrate/migrate/v4"
	migratedb "github.com/golang-migrate/migrate/v4/database"
	pgxmigrate "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"gorm.io/gorm"
)

//go:embed migrations/postgres/*.sql migrations/sqlite/*.sql
var migrationFS embed.FS

// MigrationStatus describes the schema version of a database.
type MigrationStatus struct {
	Version uint
	Dirty   bool
	Latest  uint
}

// Pending reports whether migrations remain to be applied.
func (s MigrationStatus) Pending() bool {
	return s.Version < s.Latest
}

// newMigrate builds a migrate instance over the connection pool owned by db.
// The instance is never closed because closing it would close the pool.
func newMigrate(db *gorm.DB) (*migrate.Migrate, error) {
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to access sql.DB: %w", err)
	}

	dialect := db.Dialector.Name()
	sourceDriver, err := iofs.New(migrationFS, "migrations/"+dialect)
	if err != nil {
		return nil, fmt.Errorf("failed to create source driver for %s: %w", dialect, err)
	}

	var dbDriver migratedb.Driver
	switch dialect {
	case "postgres":
		dbDriver, err = pgxmigrate.WithInstance(sqlDB, &pgxmigrate.Config{})
	case "sqlite":
		dbDriver, err = sqlite3.WithInstance(sqlDB, &sqlite3.Config{})
	default:
		err = fmt.Errorf("no migration driver for dialect %q", dialect)
	}
	if err != nil {
		_ = sourceDriver.Close()
		return nil, fmt.Errorf("failed to create database driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", sourceDriver, dialect, dbDriver)
	if err != nil {
		_ = sourceDriver.Close()
		return nil, fmt.Errorf("failed to create migrate instance: %w", err)
	}
	return m, nil
}

// RunMigrations applies every pending SQL migration.
func RunMigrations(db *gorm.DB) error {
	m, err := newMigrate(db)
	if err != nil {
		return err
	}

	if err := m.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			return nil
		}
		return fmt.Errorf("migration failed: %w", err)
	}

	version, _, _ := m.Version()
	middleware.Logger.Info("SQL migrations applied", slog.Uint64("version", uint64(version)))
	return nil
}

// RollbackMigrations reverts the given number of migrations.
func RollbackMigrations(db *gorm.DB, steps int) error {
	if steps <= 0 {
		return fmt.Errorf("steps must be positive, got %d", steps)
	}
	m, err := newMigrate(db)
	if err != nil {
		return err
	}
	if err := m.Steps(-steps); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			return nil
		}
		return fmt.Errorf("rollback failed: %w", err)
	}
	return nil
}

// GetMigrationStatus reports the current and latest available schema versions.
func GetMigrationStatus(db *gorm.DB) (*MigrationStatus, error) {
	m, err := newMigrate(db)
	if err != nil {
		return nil, err
	}

	status := &MigrationStatus{}
	version, dirty, err := m.Version()
	switch {
	case errors.Is(err, migrate.ErrNilVersion):
	case err != nil:
		return nil, fmt.Errorf("failed to get database version: %w", err)
	default:
		status.Version = version
		status.Dirty = dirty
	}

	latest, err := latestVersion(db.Dialector.Name())
	if err != nil {
		return nil, err
	}
	status.Latest = latest
	return status, nil
}

func latestVersion(dialect string) (uint, error) {
	src, err := iofs.New(migrationFS, "migrations/"+dialect)
	if err != nil {
		return 0, fmt.Errorf("failed to read migration files: %w", err)
	}
	defer func() { _ = src.Close() }()

	version, err := src.First()
	if err != nil {
		return 0, err
	}
	for {
		next, err := src.Next(version)
		if err != nil {
			return version, nil
		}
		version = next
	}
}
