package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Validate checks the configuration for errors.
//
// Structural rules (required fields, enums, ranges) are enforced through
// `validate` struct tags. Cross-field rules that tags cannot express are
// checked explicitly afterwards.
//
// Validate does not mutate the configuration. Normalization (such as
// upper-casing the log level) happens in ApplyDefaults.
func Validate(cfg *Config) error {
	validate := validator.New()

	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	if cfg.Telemetry.Enabled && cfg.Telemetry.Endpoint == "" {
		return fmt.Errorf("telemetry endpoint is required when telemetry is enabled")
	}

	if cfg.Telemetry.Profiling.Enabled && cfg.Telemetry.Profiling.Endpoint == "" {
		return fmt.Errorf("profiling endpoint is required when profiling is enabled")
	}

	// The journal and backup directories must stay outside the storage
	// root: payload verification walks the storage tree and would report
	// their files as orphans.
	if cfg.Journal.IsEnabled() && isSubPath(cfg.Storage.Root, cfg.Journal.Path) {
		return fmt.Errorf("journal path %q must not be inside the storage root %q",
			cfg.Journal.Path, cfg.Storage.Root)
	}
	if isSubPath(cfg.Storage.Root, cfg.Backup.Dir) {
		return fmt.Errorf("backup directory %q must not be inside the storage root %q",
			cfg.Backup.Dir, cfg.Storage.Root)
	}

	if err := cfg.Database.Validate(); err != nil {
		return fmt.Errorf("invalid database configuration: %w", err)
	}

	return nil
}

// isSubPath reports whether child is lexically equal to or nested under
// parent. It never touches the filesystem; paths are compared as written.
func isSubPath(parent, child string) bool {
	if parent == "" || child == "" {
		return false
	}

	rel, err := filepath.Rel(parent, child)
	if err != nil {
		// Paths on different roots (or mixed absolute/relative) cannot nest
		return false
	}

	if rel == "." {
		return true
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
