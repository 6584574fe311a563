package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/marmos91/cubby/internal/logger"
	"github.com/marmos91/cubby/pkg/config"
)

// InitLogger configures the process-wide logger from the loaded config.
func InitLogger(cfg *config.Config) error {
	err := logger.Init(logger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	return nil
}

// GetDefaultStateDir returns the directory for runtime state such as the
// PID file and the daemon log: $XDG_STATE_HOME/cubby or ~/.local/state/cubby.
func GetDefaultStateDir() string {
	if dir := os.Getenv("XDG_STATE_HOME"); dir != "" {
		return filepath.Join(dir, "cubby")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "/tmp"
	}
	return filepath.Join(home, ".local", "state", "cubby")
}

// GetDefaultPidFile returns where the daemon records its PID.
func GetDefaultPidFile() string {
	return filepath.Join(GetDefaultStateDir(), "cubby.pid")
}

// GetDefaultLogFile returns where the daemon writes its log.
func GetDefaultLogFile() string {
	return filepath.Join(GetDefaultStateDir(), "cubby.log")
}

// getConfigSource returns a description of where the config was loaded from.
func getConfigSource(configFile string) string {
	if configFile != "" {
		return configFile
	}
	if config.DefaultConfigExists() {
		return config.GetDefaultConfigPath()
	}
	return "defaults"
}
