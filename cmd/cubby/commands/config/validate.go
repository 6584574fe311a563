package config

import (
	"fmt"

	"github.com/marmos91/cubby/pkg/config"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check the configuration file for problems",
	Long: `Load the configuration file and report problems.

Syntax errors, unknown values and violated constraints fail validation
outright; settings that load fine but will cause trouble at runtime are
reported as warnings.

Examples:
  # Validate the default config
  cubby config validate

  # Validate a specific file
  cubby config validate --config /etc/cubby/config.yaml`,
	RunE: runConfigValidate,
}

func runConfigValidate(cmd *cobra.Command, args []string) error {
	// The --config flag is persistent on the root command.
	configPath, _ := cmd.Flags().GetString("config")

	cfg, err := config.MustLoad(configPath)
	if err != nil {
		return err
	}

	displayPath := configPath
	if displayPath == "" {
		displayPath = config.GetDefaultConfigPath()
	}

	fmt.Printf("Configuration file: %s\n", displayPath)
	fmt.Println("Validation: OK")

	if warnings := configWarnings(cfg); len(warnings) > 0 {
		fmt.Println("\nWarnings:")
		for _, w := range warnings {
			fmt.Printf("  - %s\n", w)
		}
	}

	fmt.Println("\nConfiguration summary:")
	fmt.Printf("  Database type:   %s\n", cfg.Database.Type)
	fmt.Printf("  Storage root:    %s\n", cfg.Storage.Root)
	fmt.Printf("  API port:        %d\n", cfg.API.Port)
	fmt.Printf("  Log level:       %s\n", cfg.Logging.Level)
	fmt.Printf("  Data directory:  %s\n", config.GetDataDir())
	return nil
}

// configWarnings reports settings that load fine but will bite at runtime.
func configWarnings(cfg *config.Config) []string {
	var warnings []string
	if !cfg.API.HasJWTSecret() {
		warnings = append(warnings, "no JWT secret configured - the API will reject every login")
	}
	if !cfg.Journal.IsEnabled() {
		warnings = append(warnings, "Intent journal disabled - interrupted operations will leave no trace")
	}
	return warnings
}
