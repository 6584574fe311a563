package commands

import (
	"fmt"

	"github.com/marmos91/cubby/internal/cli/prompt"
	"github.com/marmos91/cubby/pkg/api"
	"github.com/marmos91/cubby/pkg/catalog/models"
	"github.com/marmos91/cubby/pkg/config"
	"github.com/spf13/cobra"
)

var (
	initForce     bool
	initSkipAdmin bool
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a configuration file",
	Long: `Initialize a cubby configuration file.

By default, the configuration file is created at $XDG_CONFIG_HOME/cubby/config.yaml.
Use --config to specify a custom path.

The command prompts for an initial admin password and stores its bcrypt hash
in the configuration. Skip the prompt with --skip-admin-password; the server
then generates a random admin password on first start and prints it once.

Examples:
  # Initialize with default location
  cubby init

  # Initialize with custom path
  cubby init --config /etc/cubby/config.yaml

  # Non-interactive (admin password generated on first start)
  cubby init --skip-admin-password

  # Force overwrite existing config
  cubby init --force`,
	RunE: runInit,
}

func init() {
	initCmd.Flags().BoolVar(&initForce, "force", false, "Force overwrite existing config file")
	initCmd.Flags().BoolVar(&initSkipAdmin, "skip-admin-password", false, "Do not prompt for an admin password")
}

func runInit(cmd *cobra.Command, args []string) error {
	configPath := GetConfigFile()
	if configPath == "" {
		configPath = config.GetDefaultConfigPath()
	}

	cfg := config.GetDefaultConfig()

	secret, err := config.GenerateJWTSecret()
	if err != nil {
		return fmt.Errorf("failed to generate JWT secret: %w", err)
	}
	cfg.API.JWT.Secret = secret

	if !initSkipAdmin {
		password, err := prompt.PasswordWithConfirmation(
			"Admin password", "Confirm admin password", models.MinPasswordLength)
		switch {
		case err == nil:
			hash, err := models.HashPassword(password)
			if err != nil {
				return fmt.Errorf("failed to hash admin password: %w", err)
			}
			cfg.Admin.PasswordHash = hash
		case prompt.IsAborted(err):
			fmt.Println("\nSkipped: a random admin password will be generated on first start.")
		default:
			return fmt.Errorf("failed to read admin password: %w", err)
		}
	}

	if err := config.WriteInitConfig(cfg, configPath, initForce); err != nil {
		return err
	}

	fmt.Printf("Configuration file created at: %s\n", configPath)
	fmt.Println("\nNext steps:")
	fmt.Println("  1. Edit the configuration file to customize your setup")
	fmt.Println("  2. Start the server with: cubby start")
	fmt.Printf("  3. Or specify custom config: cubby start --config %s\n", configPath)
	fmt.Println("\nSecurity note:")
	fmt.Println("  A random JWT secret has been generated for development use.")
	fmt.Println("  For production, generate a secure secret and use an environment variable:")
	fmt.Println("    # Generates a 64-character hex string (32 bytes of entropy)")
	fmt.Printf("    export %s=$(openssl rand -hex 32)\n", api.EnvAPISecret)

	return nil
}
