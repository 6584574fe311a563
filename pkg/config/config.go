package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"time"

	"github.com/marmos91/cubby/internal/bytesize"
	"github.com/marmos91/cubby/pkg/api"
	"github.com/marmos91/cubby/pkg/catalog/store"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Config is the static configuration of the Cubby server, read once at
// startup: logging, telemetry, the catalog database, payload storage, the
// intent journal, the REST API, backups and the initial admin account.
//
// Dynamic state (users, files, folders, categories) lives in the catalog
// database and is managed through the REST API, not through this file.
//
// Values are resolved with CLI flags highest, then CUBBY_* environment
// variables, then the config file (YAML or TOML), then built-in defaults.
type Config struct {
	// Logging controls where logs go and what they look like
	Logging LoggingConfig `mapstructure:"logging" yaml:"logging"`

	// Telemetry controls OpenTelemetry tracing and continuous profiling
	Telemetry TelemetryConfig `mapstructure:"telemetry" yaml:"telemetry"`

	// ShutdownTimeout bounds how long a graceful shutdown may take
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" validate:"required,gt=0" yaml:"shutdown_timeout"`

	// Database configures the catalog database (SQLite or PostgreSQL),
	// the persistent store for users, file records, folders and categories
	Database store.Config `mapstructure:"database" yaml:"database"`

	// Storage specifies where uploaded file payloads are kept on disk
	Storage StorageConfig `mapstructure:"storage" yaml:"storage"`

	// Journal configures the write-ahead intent journal used to detect
	// and repair uploads and deletes interrupted by a crash
	Journal JournalConfig `mapstructure:"journal" yaml:"journal"`

	// Metrics toggles Prometheus metrics collection
	Metrics MetricsConfig `mapstructure:"metrics" yaml:"metrics"`

	// API configures the REST API server
	API api.Config `mapstructure:"api" yaml:"api"`

	// Backup configures backup archives and optional S3 uploads
	Backup BackupConfig `mapstructure:"backup" yaml:"backup"`

	// Admin seeds the initial admin account on first start
	Admin AdminConfig `mapstructure:"admin" yaml:"admin"`
}

// LoggingConfig controls log output.
type LoggingConfig struct {
	// Level is the minimum level to emit: DEBUG, INFO, WARN or ERROR
	// (case-insensitive)
	Level string `mapstructure:"level" validate:"required,oneof=DEBUG INFO WARN ERROR debug info warn error" yaml:"level"`

	// Format is "text" for human-readable lines or "json" for one
	// object per line
	Format string `mapstructure:"format" validate:"required,oneof=text json" yaml:"format"`

	// Output is "stdout", "stderr", or a file path
	Output string `mapstructure:"output" validate:"required" yaml:"output"`
}

// TelemetryConfig controls OpenTelemetry distributed tracing. Spans are
// exported over OTLP gRPC to any compatible collector (Jaeger, Tempo, the
// otel collector itself).
type TelemetryConfig struct {
	// Enabled turns on trace export. Off by default.
	Enabled bool `mapstructure:"enabled" yaml:"enabled"`

	// Endpoint is the OTLP gRPC collector address (host:port).
	// Default: localhost:4317
	Endpoint string `mapstructure:"endpoint" yaml:"endpoint"`

	// Insecure disables TLS on the collector connection. Defaults to
	// true, which suits a collector on localhost.
	Insecure bool `mapstructure:"insecure" yaml:"insecure"`

	// SampleRate is the fraction of traces to sample, 0.0 to 1.0.
	// Default: 1.0
	SampleRate float64 `mapstructure:"sample_rate" validate:"omitempty,gte=0,lte=1" yaml:"sample_rate"`

	// Profiling configures Pyroscope continuous profiling
	Profiling ProfilingConfig `mapstructure:"profiling" yaml:"profiling"`
}

// ProfilingConfig controls Pyroscope continuous profiling. When enabled,
// profiles stream to the configured Pyroscope server for flame graph
// analysis.
type ProfilingConfig struct {
	// Enabled turns on continuous profiling. Off by default.
	Enabled bool `mapstructure:"enabled" yaml:"enabled"`

	// Endpoint is the Pyroscope server URL.
	// Default: http://localhost:4040
	Endpoint string `mapstructure:"endpoint" yaml:"endpoint"`

	// ProfileTypes selects what to collect: cpu, alloc_objects,
	// alloc_space, inuse_objects, inuse_space, goroutines, mutex_count,
	// mutex_duration, block_count, block_duration.
	// Default: cpu, allocations, in-use memory and goroutines
	ProfileTypes []string `mapstructure:"profile_types" yaml:"profile_types"`
}

// MetricsConfig configures Prometheus metrics collection.
// Metrics are exposed on the API listener at /metrics; when Enabled is
// false, no collectors are registered and the endpoint responds 404
// (zero overhead).
type MetricsConfig struct {
	// Enabled controls whether metrics collection is enabled
	Enabled bool `mapstructure:"enabled" yaml:"enabled"`
}

// StorageConfig specifies where uploaded file payloads are stored.
type StorageConfig struct {
	// Root is the directory uploaded files are stored under (required)
	// Payloads keep their folder structure: <root>/<folder>/<filename>
	// Default: $XDG_DATA_HOME/cubby/storage
	Root string `mapstructure:"root" validate:"required" yaml:"root"`

	// MaxUploadSize caps the size of a single uploaded file
	// Supports human-readable formats: "1GB", "512MB", "10Gi"
	// Default: 0 (no limit)
	MaxUploadSize bytesize.ByteSize `mapstructure:"max_upload_size" yaml:"max_upload_size,omitempty"`
}

// JournalConfig configures the write-ahead intent journal.
// The journal records upload and delete intents before they touch the
// catalog or disk, so interrupted operations can be detected and repaired
// on the next start.
type JournalConfig struct {
	// Enabled controls whether the intent journal is kept.
	// Default: true
	// Use a pointer to distinguish "not set" from "explicitly false"
	Enabled *bool `mapstructure:"enabled" yaml:"enabled,omitempty"`

	// Path is the directory for the journal database.
	// Must not live inside the storage root: payload verification walks
	// the storage tree and would report journal files as orphans.
	// Default: $XDG_DATA_HOME/cubby/journal
	Path string `mapstructure:"path" yaml:"path"`
}

// IsEnabled returns whether the intent journal is enabled.
// Defaults to true if not explicitly set.
func (c *JournalConfig) IsEnabled() bool {
	if c.Enabled == nil {
		return true
	}
	return *c.Enabled
}

// BackupConfig configures backup archive creation and uploads.
type BackupConfig struct {
	// Dir is the directory where backup archives are written.
	// Like the journal, it must not live inside the storage root.
	// Default: $XDG_DATA_HOME/cubby/backups
	Dir string `mapstructure:"dir" yaml:"dir"`

	// S3 configures optional uploads of backup archives to S3-compatible
	// object storage. Uploads happen only when a bucket is configured.
	S3 S3Config `mapstructure:"s3" yaml:"s3,omitempty"`
}

// S3Config holds the S3 target settings for backup uploads.
// When AccessKeyID/SecretAccessKey are empty, credentials come from the
// standard AWS SDK chain (environment variables, shared credentials file,
// IAM role).
type S3Config struct {
	// Bucket is the S3 bucket name. Empty disables uploads.
	Bucket string `mapstructure:"bucket" yaml:"bucket,omitempty"`

	// Region is the AWS region (optional, uses SDK default if empty).
	Region string `mapstructure:"region" yaml:"region,omitempty"`

	// Endpoint is the S3 endpoint URL (optional, for S3-compatible services).
	Endpoint string `mapstructure:"endpoint" yaml:"endpoint,omitempty"`

	// KeyPrefix is prepended to all uploaded object keys (e.g., "cubby/").
	// Should end with "/" if non-empty.
	KeyPrefix string `mapstructure:"key_prefix" yaml:"key_prefix,omitempty"`

	// AccessKeyID and SecretAccessKey are static credentials for
	// S3-compatible services that do not use the AWS credential chain.
	AccessKeyID     string `mapstructure:"access_key_id" yaml:"access_key_id,omitempty"`
	SecretAccessKey string `mapstructure:"secret_access_key" yaml:"secret_access_key,omitempty"`

	// ForcePathStyle forces path-style addressing (required for Localstack/MinIO).
	ForcePathStyle bool `mapstructure:"force_path_style" yaml:"force_path_style,omitempty"`
}

// AdminConfig contains initial admin user configuration for bootstrap.
// The admin account is always named "admin"; only its initial credentials
// are configurable.
type AdminConfig struct {
	// PasswordHash is the bcrypt hash of the initial admin password.
	// Written by 'cubby init' when a password is chosen interactively.
	// When empty, the CUBBY_ADMIN_PASSWORD environment variable is
	// consulted on first start, falling back to a generated password.
	PasswordHash string `mapstructure:"password_hash" yaml:"password_hash,omitempty"`
}

// Load reads the configuration from configPath, or from the default
// location when configPath is empty, layers CUBBY_* environment variables
// on top, fills unset fields with defaults and validates the result.
//
// A missing file is not an error; the built-in defaults are returned.
func Load(configPath string) (*Config, error) {
	v := newViper(configPath)

	found, err := readConfig(v)
	if err != nil {
		return nil, err
	}
	if !found {
		return GetDefaultConfig(), nil
	}

	var cfg Config
	if err := v.Unmarshal(&cfg, viper.DecodeHook(decodeHooks())); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	ApplyDefaults(&cfg)
	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return &cfg, nil
}

// MustLoad is Load for interactive commands: a missing config file yields
// instructions for creating one instead of a bare stat error.
func MustLoad(configPath string) (*Config, error) {
	if configPath == "" {
		if !DefaultConfigExists() {
			return nil, fmt.Errorf("no configuration file found at %s\n\n"+
				"Create one with:\n"+
				"  cubby init\n\n"+
				"or point at an existing file:\n"+
				"  cubby <command> --config /path/to/config.yaml",
				GetDefaultConfigPath())
		}
		configPath = GetDefaultConfigPath()
	} else if _, err := os.Stat(configPath); errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("configuration file not found: %s\n\n"+
			"Create it with:\n"+
			"  cubby init --config %s",
			configPath, configPath)
	}

	cfg, err := Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return cfg, nil
}

// SaveConfig writes cfg to path as YAML, creating parent directories as
// needed. The file is written 0600: it can hold the JWT secret and the
// admin password hash.
func SaveConfig(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// newViper builds a viper instance that reads the given config file, or
// searches the default config directory when configPath is empty, with
// CUBBY_* environment variables layered on top (CUBBY_LOGGING_LEVEL
// overrides logging.level).
func newViper(configPath string) *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix("CUBBY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
		return v
	}

	v.AddConfigPath(getConfigDir())
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	return v
}

// readConfig reads the located config file into v and reports whether one
// was found. A missing file is not an error: viper reports
// ConfigFileNotFoundError when searching the default directory, and the
// stat error surfaces directly when an explicit path was set.
func readConfig(v *viper.Viper) (bool, error) {
	err := v.ReadInConfig()
	if err == nil {
		return true, nil
	}

	var notFound viper.ConfigFileNotFoundError
	if errors.As(err, &notFound) || errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	return false, fmt.Errorf("failed to read config file: %w", err)
}

// decodeHooks converts strings from the config file into the richer field
// types: "30s" into a time.Duration, "512MB" or "1Gi" into a
// bytesize.ByteSize. Bare numbers decode natively as nanoseconds and
// bytes respectively.
func decodeHooks() mapstructure.DecodeHookFunc {
	return mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		stringToByteSize,
	)
}

func stringToByteSize(from reflect.Type, to reflect.Type, data any) (any, error) {
	if from.Kind() != reflect.String || to != reflect.TypeOf(bytesize.ByteSize(0)) {
		return data, nil
	}
	return bytesize.ParseByteSize(data.(string))
}

// xdgDir resolves an XDG base directory for cubby: the environment
// variable when set, otherwise the conventional path under the home
// directory, or "." when the home directory is unknown.
func xdgDir(envVar string, fallback ...string) string {
	if dir := os.Getenv(envVar); dir != "" {
		return filepath.Join(dir, "cubby")
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	parts := append([]string{home}, fallback...)
	return filepath.Join(append(parts, "cubby")...)
}

// getConfigDir returns the directory searched for the config file,
// $XDG_CONFIG_HOME/cubby or ~/.config/cubby.
func getConfigDir() string {
	return xdgDir("XDG_CONFIG_HOME", ".config")
}

// getDataDir returns the directory default storage, journal and backup
// paths live under, $XDG_DATA_HOME/cubby or ~/.local/share/cubby.
func getDataDir() string {
	return xdgDir("XDG_DATA_HOME", ".local", "share")
}

// GetDefaultConfigPath returns the default configuration file path.
func GetDefaultConfigPath() string {
	return filepath.Join(getConfigDir(), "config.yaml")
}

// DefaultConfigExists reports whether a config file exists at the default
// location.
func DefaultConfigExists() bool {
	_, err := os.Stat(GetDefaultConfigPath())
	return err == nil
}

// GetConfigDir returns the configuration directory path.
func GetConfigDir() string {
	return getConfigDir()
}

// GetDataDir returns the data directory path.
func GetDataDir() string {
	return getDataDir()
}
