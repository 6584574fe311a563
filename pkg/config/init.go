package config

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// initConfigHeader is prepended to generated configuration files.
const initConfigHeader = `# Cubby Configuration File
#
# Generated by 'cubby init'. All values can be overridden with CUBBY_*
# environment variables, e.g. CUBBY_LOGGING_LEVEL=DEBUG or CUBBY_API_PORT=9090.
#
# Durations are written in nanoseconds by the generator; human-readable
# forms like "30s" or "5m" are accepted when editing.

`

// InitConfig creates a new configuration file at the default location
// ($XDG_CONFIG_HOME/cubby/config.yaml or ~/.config/cubby/config.yaml).
//
// The generated file contains the default configuration plus a freshly
// generated JWT signing secret, so a server can be started from it directly.
//
// Returns the path of the created file. Fails if a configuration file
// already exists, unless force is true.
func InitConfig(force bool) (string, error) {
	path := GetDefaultConfigPath()
	if err := InitConfigToPath(path, force); err != nil {
		return "", err
	}
	return path, nil
}

// InitConfigToPath creates a new configuration file at the given path.
// Parent directories are created as needed.
func InitConfigToPath(path string, force bool) error {
	cfg := GetDefaultConfig()

	secret, err := GenerateJWTSecret()
	if err != nil {
		return fmt.Errorf("failed to generate JWT secret: %w", err)
	}
	cfg.API.JWT.Secret = secret

	return WriteInitConfig(cfg, path, force)
}

// WriteInitConfig writes cfg to path with the generated-file header.
// This is the workhorse behind InitConfig; 'cubby init' calls it directly
// when it has customized the config (for example with an admin password
// hash chosen interactively).
func WriteInitConfig(cfg *Config, path string, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("configuration file already exists at %s (use --force to overwrite)", path)
		}
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	content := append([]byte(initConfigHeader), data...)

	// 0600: the file carries the JWT secret and possibly a password hash
	if err := os.WriteFile(path, content, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// GenerateJWTSecret returns a cryptographically random secret suitable for
// signing JWTs. 32 bytes of randomness encode to 43 URL-safe base64
// characters, comfortably above the 32-character minimum the API enforces.
func GenerateJWTSecret() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
