package config

import (
	"os"

	"github.com/marmos91/cubby/internal/cli/output"
	"github.com/marmos91/cubby/pkg/config"
	"github.com/spf13/cobra"
)

var showOutput string

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	Long: `Print the configuration the server would actually run with.

Defaults, the config file and CUBBY_* environment variables are merged
before printing, so the output reflects the effective values rather
than the raw file contents.

Examples:
  # Effective config as YAML
  cubby config show

  # As JSON
  cubby config show --output json

  # From a specific file
  cubby config show --config /etc/cubby/config.yaml`,
	RunE: runConfigShow,
}

func init() {
	showCmd.Flags().StringVarP(&showOutput, "output", "o", "yaml", "Output format (yaml|json)")
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	format, err := output.ParseFormat(showOutput)
	if err != nil {
		return err
	}

	// The --config flag is persistent on the root command.
	configPath, _ := cmd.Flags().GetString("config")
	cfg, err := config.MustLoad(configPath)
	if err != nil {
		return err
	}

	if format == output.FormatJSON {
		return output.PrintJSON(os.Stdout, cfg)
	}
	return output.PrintYAML(os.Stdout, cfg)
}
