package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/marmos91/cubby/pkg/catalog/models"
)

// DatabaseType selects the catalog database backend.
type DatabaseType string

const (
	// DatabaseTypeSQLite keeps the catalog in a local file. The default.
	DatabaseTypeSQLite DatabaseType = "sqlite"

	// DatabaseTypePostgres keeps the catalog in a PostgreSQL server.
	DatabaseTypePostgres DatabaseType = "postgres"
)

// SQLiteConfig holds the settings for the SQLite backend.
type SQLiteConfig struct {
	// Path of the database file.
	// Default: $XDG_CONFIG_HOME/cubby/catalog.db
	Path string
}

// PostgresConfig holds the connection settings for the PostgreSQL backend.
type PostgresConfig struct {
	Host         string
	Port         int
	Database     string
	User         string
	Password     string
	SSLMode      string // disable, require, verify-ca or verify-full
	SSLRootCert  string
	MaxOpenConns int
	MaxIdleConns int
}

// DSN returns the PostgreSQL connection string.
func (c *PostgresConfig) DSN() string {
	parts := []string{
		fmt.Sprintf("host=%s", c.Host),
		fmt.Sprintf("port=%d", c.Port),
		fmt.Sprintf("user=%s", c.User),
		fmt.Sprintf("password=%s", c.Password),
		fmt.Sprintf("dbname=%s", c.Database),
	}
	if c.SSLMode != "" {
		parts = append(parts, "sslmode="+c.SSLMode)
	}
	if c.SSLRootCert != "" {
		parts = append(parts, "sslrootcert="+c.SSLRootCert)
	}
	return strings.Join(parts, " ")
}

// Config selects a backend and carries its settings.
type Config struct {
	Type     DatabaseType
	SQLite   SQLiteConfig
	Postgres PostgresConfig
}

// ApplyDefaults fills in whatever the configuration leaves unset.
func (c *Config) ApplyDefaults() {
	if c.Type == "" {
		c.Type = DatabaseTypeSQLite
	}

	switch c.Type {
	case DatabaseTypeSQLite:
		if c.SQLite.Path == "" {
			c.SQLite.Path = defaultSQLitePath()
		}
	case DatabaseTypePostgres:
		if c.Postgres.Port == 0 {
			c.Postgres.Port = 5432
		}
		if c.Postgres.SSLMode == "" {
			c.Postgres.SSLMode = "disable"
		}
		if c.Postgres.MaxOpenConns == 0 {
			c.Postgres.MaxOpenConns = 25
		}
		if c.Postgres.MaxIdleConns == 0 {
			c.Postgres.MaxIdleConns = 5
		}
	}
}

// defaultSQLitePath places the catalog under XDG_CONFIG_HOME, falling back
// to ~/.config.
func defaultSQLitePath() string {
	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		homeDir, _ := os.UserHomeDir()
		configDir = filepath.Join(homeDir, ".config")
	}
	return filepath.Join(configDir, "cubby", "catalog.db")
}

// Validate reports the first missing required field for the selected
// backend.
func (c *Config) Validate() error {
	switch c.Type {
	case DatabaseTypeSQLite:
		if c.SQLite.Path == "" {
			return errors.New("sqlite path is required")
		}
	case DatabaseTypePostgres:
		required := []struct{ name, value string }{
			{"host", c.Postgres.Host},
			{"database", c.Postgres.Database},
			{"user", c.Postgres.User},
		}
		for _, r := range required {
			if r.value == "" {
				return fmt.Errorf("postgres %s is required", r.name)
			}
		}
	default:
		return fmt.Errorf("unsupported database type: %s", c.Type)
	}
	return nil
}

// GORMStore is the GORM-backed Store. The same code serves both SQLite
// and PostgreSQL; only connection setup differs per backend.
type GORMStore struct {
	db *gorm.DB
}

// New creates a new catalog store based on the configuration.
//
// SQLite schemas are created via GORM AutoMigrate. PostgreSQL schemas are
// managed by versioned SQL migrations (see RunMigrations), which run here
// before the connection is handed out.
func New(config *Config) (*GORMStore, error) {
	if config == nil {
		config = &Config{}
	}
	config.ApplyDefaults()
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid database configuration: %w", err)
	}

	dialector, err := openDialector(config)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	switch config.Type {
	case DatabaseTypeSQLite:
		// SQLite schema is derived from the models directly.
		if err := db.AutoMigrate(models.AllModels()...); err != nil {
			return nil, fmt.Errorf("failed to run database migration: %w", err)
		}
	case DatabaseTypePostgres:
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("failed to get underlying database: %w", err)
		}
		sqlDB.SetMaxOpenConns(config.Postgres.MaxOpenConns)
		sqlDB.SetMaxIdleConns(config.Postgres.MaxIdleConns)
	}

	store := &GORMStore{db: db}

	// The default category must exist before the first upload can fall
	// back to it.
	if err := store.EnsureDefaultCategory(context.Background()); err != nil {
		return nil, fmt.Errorf("failed to seed default category: %w", err)
	}

	return store, nil
}

// openDialector prepares the backend-specific GORM dialector. For SQLite it
// creates the parent directory and turns on WAL with a busy timeout; for
// PostgreSQL it first brings the schema up to date.
func openDialector(config *Config) (gorm.Dialector, error) {
	switch config.Type {
	case DatabaseTypeSQLite:
		if err := os.MkdirAll(filepath.Dir(config.SQLite.Path), 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
		dsn := config.SQLite.Path + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
		return sqlite.Open(dsn), nil

	case DatabaseTypePostgres:
		if err := RunMigrations(&config.Postgres); err != nil {
			return nil, fmt.Errorf("failed to run database migrations: %w", err)
		}
		return postgres.Open(config.Postgres.DSN()), nil
	}
	return nil, fmt.Errorf("unsupported database type: %s", config.Type)
}

// DB exposes the underlying GORM handle for queries the Store interface
// does not cover, mainly in tests.
func (s *GORMStore) DB() *gorm.DB {
	return s.db
}

// Healthcheck pings the underlying database.
func (s *GORMStore) Healthcheck(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying database: %w", err)
	}
	return sqlDB.PingContext(ctx)
}

// Close releases the database connection.
func (s *GORMStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying database: %w", err)
	}
	return sqlDB.Close()
}

// isUniqueConstraintError checks for a unique constraint violation from
// either backend.
func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicate key value violates unique constraint")
}

// convertNotFoundError maps gorm.ErrRecordNotFound onto the caller's
// domain error and passes everything else through.
func convertNotFoundError(err error, notFoundErr error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return notFoundErr
	}
	return err
}

// Compile-time interface check
var _ Store = (*GORMStore)(nil)
