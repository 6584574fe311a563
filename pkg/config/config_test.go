package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/marmos91/cubby/internal/bytesize"
)

const minimalYAML = `
logging:
  level: "INFO"

storage:
  root: "{dir}/storage"
  max_upload_size: 100Mi

database:
  type: sqlite

api:
  port: 8080
  jwt:
    secret: "test-secret-key-for-testing-minimum-32-chars"
`

const minimalTOML = `
[logging]
level = "WARN"
format = "json"

[storage]
root = "{dir}/storage"
max_upload_size = "100Mi"

[database]
type = "sqlite"

[api]
port = 9090

[api.jwt]
secret = "test-secret-key-for-testing-minimum-32-chars"
`

// writeAndLoad writes content to a config file under a fresh temp dir and
// loads it. The literal {dir} in content is replaced with the temp dir,
// slash-separated so the YAML stays valid on Windows.
func writeAndLoad(t *testing.T, name, content string) (*Config, error) {
	t.Helper()

	dir := t.TempDir()
	content = strings.ReplaceAll(content, "{dir}", filepath.ToSlash(dir))

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}
	return Load(path)
}

func TestLoadAppliesDefaults(t *testing.T) {
	cfg, err := writeAndLoad(t, "config.yaml", minimalYAML)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Logging.Format != "text" {
		t.Errorf("Expected default format 'text', got %q", cfg.Logging.Format)
	}
	if cfg.Logging.Output != "stdout" {
		t.Errorf("Expected default output 'stdout', got %q", cfg.Logging.Output)
	}
	if cfg.ShutdownTimeout != 30*time.Second {
		t.Errorf("Expected default shutdown_timeout 30s, got %v", cfg.ShutdownTimeout)
	}
	if cfg.API.Port != 8080 {
		t.Errorf("Expected API port 8080, got %d", cfg.API.Port)
	}

	// The human-readable upload size must round-trip through the parser.
	if cfg.Storage.MaxUploadSize != 100*bytesize.MiB {
		t.Errorf("Expected max upload size 100Mi, got %d", cfg.Storage.MaxUploadSize)
	}
}

func TestLoadWithoutConfigFile(t *testing.T) {
	// A missing config file is not an error; the server runs on defaults.
	cfg, err := Load(filepath.Join(t.TempDir(), "nonexistent.yaml"))
	if err != nil {
		t.Fatalf("Expected no error when loading default config, got: %v", err)
	}
	if cfg == nil {
		t.Fatal("Expected default config to be returned")
	}
	if cfg.API.Port != 8080 {
		t.Errorf("Expected default API port 8080, got %d", cfg.API.Port)
	}
}

func TestLoadRejectsInvalidYAML(t *testing.T) {
	_, err := writeAndLoad(t, "invalid.yaml", `
logging:
  level: INFO
  invalid yaml here [[[
`)
	if err == nil {
		t.Fatal("Expected error with invalid YAML, got nil")
	}
}

func TestLoadTOML(t *testing.T) {
	cfg, err := writeAndLoad(t, "config.toml", minimalTOML)
	if err != nil {
		t.Fatalf("failed to load TOML config: %v", err)
	}

	if cfg.Logging.Level != "WARN" {
		t.Errorf("Expected level 'WARN', got %q", cfg.Logging.Level)
	}
	if cfg.Logging.Format != "json" {
		t.Errorf("Expected format 'json', got %q", cfg.Logging.Format)
	}
	if cfg.API.Port != 9090 {
		t.Errorf("Expected API port 9090, got %d", cfg.API.Port)
	}
}

func TestLoadEnvironmentOverrides(t *testing.T) {
	t.Setenv("CUBBY_LOGGING_LEVEL", "ERROR")
	t.Setenv("CUBBY_API_PORT", "9090")

	cfg, err := writeAndLoad(t, "config.yaml", minimalYAML)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Logging.Level != "ERROR" {
		t.Errorf("Expected level 'ERROR' from env var, got %q", cfg.Logging.Level)
	}
	if cfg.API.Port != 9090 {
		t.Errorf("Expected port 9090 from env var, got %d", cfg.API.Port)
	}
}

func TestGetDefaultConfig(t *testing.T) {
	cfg := GetDefaultConfig()

	if cfg.Logging.Level != "INFO" {
		t.Errorf("Expected default log level 'INFO', got %q", cfg.Logging.Level)
	}
	if cfg.Logging.Format != "text" {
		t.Errorf("Expected default log format 'text', got %q", cfg.Logging.Format)
	}
	if cfg.Logging.Output != "stdout" {
		t.Errorf("Expected default log output 'stdout', got %q", cfg.Logging.Output)
	}
	if cfg.ShutdownTimeout != 30*time.Second {
		t.Errorf("Expected default shutdown timeout 30s, got %v", cfg.ShutdownTimeout)
	}
	if cfg.API.Port != 8080 {
		t.Errorf("Expected default API port 8080, got %d", cfg.API.Port)
	}
	if cfg.Storage.Root == "" {
		t.Error("Expected default storage root to be set")
	}
	if !cfg.Journal.IsEnabled() {
		t.Error("Expected journal to be enabled by default")
	}
}

func TestGetDefaultConfigPath(t *testing.T) {
	path := GetDefaultConfigPath()

	if !filepath.IsAbs(path) {
		t.Errorf("Expected absolute path, got %q", path)
	}
	if filepath.Base(path) != "config.yaml" {
		t.Errorf("Expected filename 'config.yaml', got %q", filepath.Base(path))
	}
}

func TestGetConfigDir(t *testing.T) {
	if dir := GetConfigDir(); filepath.Base(dir) != "cubby" {
		t.Errorf("Expected directory name 'cubby', got %q", filepath.Base(dir))
	}
}

func TestGetDataDir(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("XDG_DATA_HOME", tmpDir)

	if dir := GetDataDir(); dir != filepath.Join(tmpDir, "cubby") {
		t.Errorf("Expected data dir under XDG_DATA_HOME, got %q", dir)
	}
}
