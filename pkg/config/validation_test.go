package config

import (
	"strings"
	"testing"
)

func TestValidate_ValidConfig(t *testing.T) {
	cfg := GetDefaultConfig()

	if err := Validate(cfg); err != nil {
		t.Errorf("Expected valid config to pass validation, got error: %v", err)
	}
}

func TestValidate_RejectsInvalidFields(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		errWant string
	}{
		{
			name:    "invalid log level",
			mutate:  func(c *Config) { c.Logging.Level = "INVALID" },
			errWant: "oneof",
		},
		{
			name:   "invalid log format",
			mutate: func(c *Config) { c.Logging.Format = "xml" },
		},
		{
			name:    "api port out of range",
			mutate:  func(c *Config) { c.API.Port = 70000 },
			errWant: "max",
		},
		{
			name:   "negative api port",
			mutate: func(c *Config) { c.API.Port = -1 },
		},
		{
			name: "sample rate out of range",
			mutate: func(c *Config) {
				c.Telemetry.Enabled = true
				c.Telemetry.SampleRate = 1.5
			},
		},
		{
			name: "telemetry enabled without endpoint",
			mutate: func(c *Config) {
				c.Telemetry.Enabled = true
				c.Telemetry.Endpoint = ""
			},
			errWant: "endpoint",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := GetDefaultConfig()
			tt.mutate(cfg)

			err := Validate(cfg)
			if err == nil {
				t.Fatal("Expected a validation error")
			}
			if tt.errWant != "" && !strings.Contains(err.Error(), tt.errWant) {
				t.Errorf("Expected %q in validation error, got: %v", tt.errWant, err)
			}
		})
	}
}

func TestValidate_MissingStorageRoot(t *testing.T) {
	cfg := GetDefaultConfig()
	cfg.Storage.Root = ""

	err := Validate(cfg)
	if err == nil {
		t.Fatal("Expected validation error for missing storage root")
	}
	errStr := strings.ToLower(err.Error())
	if !strings.Contains(errStr, "storage") || !strings.Contains(errStr, "root") {
		t.Errorf("Expected error about storage root, got: %v", err)
	}
}

func TestValidate_JournalInsideStorageRoot(t *testing.T) {
	cfg := GetDefaultConfig()
	cfg.Storage.Root = "/srv/cubby/files"
	cfg.Journal.Path = "/srv/cubby/files/journal"

	err := Validate(cfg)
	if err == nil {
		t.Fatal("Expected validation error for journal inside storage root")
	}
	if !strings.Contains(err.Error(), "journal") {
		t.Errorf("Expected error about journal path, got: %v", err)
	}

	// A disabled journal may point anywhere
	journalDisabled := false
	cfg.Journal.Enabled = &journalDisabled
	if err := Validate(cfg); err != nil {
		t.Errorf("Expected disabled journal to skip the path check, got: %v", err)
	}
}

func TestValidate_BackupDirInsideStorageRoot(t *testing.T) {
	cfg := GetDefaultConfig()
	cfg.Storage.Root = "/srv/cubby/files"
	cfg.Backup.Dir = "/srv/cubby/files/backups"

	err := Validate(cfg)
	if err == nil {
		t.Fatal("Expected validation error for backup dir inside storage root")
	}
	if !strings.Contains(err.Error(), "backup") {
		t.Errorf("Expected error about backup directory, got: %v", err)
	}
}

func TestValidate_LogLevelCaseInsensitive(t *testing.T) {
	for _, level := range []string{"info", "INFO", "debug", "DEBUG", "warn", "WARN", "error", "ERROR"} {
		cfg := GetDefaultConfig()
		cfg.Logging.Level = level

		if err := Validate(cfg); err != nil {
			t.Errorf("Validation failed for level %q: %v", level, err)
		}
		// Validation must not normalize; that is ApplyDefaults' job
		if cfg.Logging.Level != level {
			t.Errorf("Expected level to remain %q after validation, got %q", level, cfg.Logging.Level)
		}
	}

	cfg := &Config{Logging: LoggingConfig{Level: "info"}}
	ApplyDefaults(cfg)
	if cfg.Logging.Level != "INFO" {
		t.Errorf("Expected ApplyDefaults to normalize 'info' to 'INFO', got %q", cfg.Logging.Level)
	}
}

func TestIsSubPath(t *testing.T) {
	tests := []struct {
		parent string
		child  string
		want   bool
	}{
		{"/srv/cubby", "/srv/cubby/journal", true},
		{"/srv/cubby", "/srv/cubby", true},
		{"/srv/cubby", "/srv/cubby-journal", false},
		{"/srv/cubby", "/srv/journal", false},
		{"/srv/cubby", "/other", false},
		{"", "/srv/cubby", false},
		{"/srv/cubby", "", false},
	}

	for _, tt := range tests {
		if got := isSubPath(tt.parent, tt.child); got != tt.want {
			t.Errorf("isSubPath(%q, %q) = %v, want %v", tt.parent, tt.child, got, tt.want)
		}
	}
}
