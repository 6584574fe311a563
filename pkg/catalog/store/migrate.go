package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/jackc/pgx/v5/stdlib" // database/sql driver used by golang-migrate

	"github.com/marmos91/cubby/pkg/catalog/store/migrations"
)

// newMigrator builds a migrate instance over the embedded migration files.
// The returned cleanup closes the database connection.
func newMigrator(ctx context.Context, cfg *PostgresConfig) (*migrate.Migrate, func(), error) {
	db, err := sql.Open("pgx", cfg.DSN())
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open database connection: %w", err)
	}
	cleanup := func() { _ = db.Close() }

	if err := db.PingContext(ctx); err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("failed to ping database: %w", err)
	}

	driver, err := postgres.WithInstance(db, &postgres.Config{
		MigrationsTable: "schema_migrations",
		DatabaseName:    cfg.Database,
	})
	if err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("failed to create postgres driver: %w", err)
	}

	source, err := iofs.New(migrations.FS, ".")
	if err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("failed to create source driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", source, "postgres", driver)
	if err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("failed to create migrate instance: %w", err)
	}

	return m, cleanup, nil
}

// runMigrations brings the schema up to date. golang-migrate takes a
// PostgreSQL advisory lock, so concurrent instances serialize here.
func runMigrations(ctx context.Context, cfg *PostgresConfig, logger *slog.Logger) error {
	logger.Info("Running database migrations...")

	m, cleanup, err := newMigrator(ctx, cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	switch err := m.Up(); {
	case errors.Is(err, migrate.ErrNoChange):
		logger.Info("No migrations to apply (database is up to date)")
	case err != nil:
		return fmt.Errorf("migration failed: %w", err)
	default:
		logger.Info("Migrations completed successfully")
	}

	version, dirty, err := m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		logger.Info("No migrations applied yet")
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to get migration version: %w", err)
	}

	logger.Info("Current schema version", "version", version, "dirty", dirty)
	if dirty {
		logger.Warn("Database schema is in dirty state - manual intervention may be required")
	}
	return nil
}

// RunMigrations applies the PostgreSQL schema migrations. It is called from
// New for postgres-backed stores and can be invoked manually from the CLI.
func RunMigrations(cfg *PostgresConfig) error {
	return runMigrations(context.Background(), cfg, slog.Default())
}

// MigrationVersion returns the current schema version and dirty flag. A
// zero version with no error means no migration has been applied yet.
func MigrationVersion(cfg *PostgresConfig) (uint, bool, error) {
	m, cleanup, err := newMigrator(context.Background(), cfg)
	if err != nil {
		return 0, false, err
	}
	defer cleanup()

	version, dirty, err := m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return version, dirty, nil
}
