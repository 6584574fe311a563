package config

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/marmos91/cubby/pkg/catalog/store"
)

// Defaults applied when the file and environment leave a field unset.
const (
	defaultLogLevel        = "INFO"
	defaultLogFormat       = "text"
	defaultLogOutput       = "stdout"
	defaultOTLPEndpoint    = "localhost:4317"
	defaultPyroscopeURL    = "http://localhost:4040"
	defaultShutdownTimeout = 30 * time.Second
)

// ApplyDefaults fills in every unset configuration field. Explicit values,
// including explicit zeroes where the type allows expressing them, are
// left alone.
func ApplyDefaults(cfg *Config) {
	applyLoggingDefaults(&cfg.Logging)
	applyTelemetryDefaults(&cfg.Telemetry)

	if cfg.ShutdownTimeout == 0 {
		cfg.ShutdownTimeout = defaultShutdownTimeout
	}

	cfg.Database.ApplyDefaults()
	applyStorageDefaults(&cfg.Storage)
	applyJournalDefaults(&cfg.Journal)
	cfg.API.ApplyDefaults()
	applyBackupDefaults(&cfg.Backup)
}

func applyLoggingDefaults(cfg *LoggingConfig) {
	if cfg.Level == "" {
		cfg.Level = defaultLogLevel
	}
	// The logger matches levels case-insensitively but internal
	// representation is uppercase.
	cfg.Level = strings.ToUpper(cfg.Level)

	if cfg.Format == "" {
		cfg.Format = defaultLogFormat
	}
	if cfg.Output == "" {
		cfg.Output = defaultLogOutput
	}
}

// applyTelemetryDefaults leaves Enabled alone: tracing and profiling are
// opt-in, only their endpoints and sampling get defaults.
func applyTelemetryDefaults(cfg *TelemetryConfig) {
	if cfg.Endpoint == "" {
		cfg.Endpoint = defaultOTLPEndpoint
	}
	if cfg.SampleRate == 0 {
		cfg.SampleRate = 1.0
	}

	if cfg.Profiling.Endpoint == "" {
		cfg.Profiling.Endpoint = defaultPyroscopeURL
	}
	if len(cfg.Profiling.ProfileTypes) == 0 {
		cfg.Profiling.ProfileTypes = []string{
			"cpu", "alloc_objects", "alloc_space",
			"inuse_objects", "inuse_space", "goroutines",
		}
	}
}

func applyStorageDefaults(cfg *StorageConfig) {
	if cfg.Root == "" {
		cfg.Root = filepath.Join(getDataDir(), "storage")
	}
	// MaxUploadSize stays 0, meaning no limit.
}

// applyJournalDefaults places the journal next to the storage root rather
// than inside it, so payload verification never mistakes journal files
// for orphans.
func applyJournalDefaults(cfg *JournalConfig) {
	// Enabled defaults to true via IsEnabled (nil means enabled).
	if cfg.Path == "" {
		cfg.Path = filepath.Join(getDataDir(), "journal")
	}
}

func applyBackupDefaults(cfg *BackupConfig) {
	if cfg.Dir == "" {
		cfg.Dir = filepath.Join(getDataDir(), "backups")
	}
	// S3 uploads stay disabled until a bucket is configured.
}

// GetDefaultConfig returns a Config with every default applied, as used
// for sample config generation and in tests.
func GetDefaultConfig() *Config {
	cfg := &Config{
		Database: store.Config{
			// SQLite suits the single-node setup cubby targets.
			Type: store.DatabaseTypeSQLite,
		},
	}

	ApplyDefaults(cfg)
	return cfg
}
