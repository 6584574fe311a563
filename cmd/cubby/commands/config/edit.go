package config

import (
	"fmt"
	"os"
	"os/exec"

	"github.com/marmos91/cubby/pkg/config"
	"github.com/spf13/cobra"
)

var editCmd = &cobra.Command{
	Use:   "edit",
	Short: "Open the configuration file in an editor",
	Long: `Open the configuration file in your editor of choice.

The editor is taken from EDITOR, then VISUAL, then falls back to vi.

Examples:
  # Edit the default config
  cubby config edit

  # Edit a specific file
  cubby config edit --config /etc/cubby/config.yaml`,
	RunE: runConfigEdit,
}

func runConfigEdit(cmd *cobra.Command, args []string) error {
	// The --config flag is persistent on the root command.
	configPath, _ := cmd.Flags().GetString("config")
	if configPath == "" {
		configPath = config.GetDefaultConfigPath()
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return fmt.Errorf("configuration file not found: %s\n\n"+
			"Create it first with:\n"+
			"  cubby init",
			configPath)
	}

	editor := exec.Command(preferredEditor(), configPath)
	editor.Stdin = os.Stdin
	editor.Stdout = os.Stdout
	editor.Stderr = os.Stderr

	if err := editor.Run(); err != nil {
		return fmt.Errorf("failed to run editor: %w", err)
	}
	return nil
}

// preferredEditor returns the editor to launch, honoring EDITOR then
// VISUAL, with vi as the fallback.
func preferredEditor() string {
	for _, env := range []string{"EDITOR", "VISUAL"} {
		if editor := os.Getenv(env); editor != "" {
			return editor
		}
	}
	return "vi"
}
