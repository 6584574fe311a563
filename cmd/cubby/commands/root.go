// Package commands implements the CLI commands for the cubby server.
package commands

import (
	configcmd "github.com/marmos91/cubby/cmd/cubby/commands/config"
	usercmd "github.com/marmos91/cubby/cmd/cubby/commands/user"
	"github.com/spf13/cobra"
)

// Build metadata, recorded by SetVersionInfo at startup.
var (
	buildVersion = "dev"
	buildCommit  = "none"
	buildDate    = "unknown"
)

// cfgFile holds the persistent --config flag value.
var cfgFile string

// SetVersionInfo records the build metadata shown by the version command.
func SetVersionInfo(version, commit, date string) {
	buildVersion, buildCommit, buildDate = version, commit, date
}

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "cubby",
	Short: "Cubby - Personal file storage server",
	Long: `Cubby is a personal file storage server. It keeps uploaded files on
plain disk under a storage root, tracks them in a catalog database
(SQLite or PostgreSQL) and serves them over an authenticated REST API.

Use "cubby [command] --help" for more information about a command.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command. Called once from main.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $XDG_CONFIG_HOME/cubby/config.yaml)")

	rootCmd.AddCommand(
		versionCmd,
		initCmd,
		startCmd,
		stopCmd,
		statusCmd,
		migrateCmd,
		verifyCmd,
		logsCmd,
		backupCmd,
		restoreCmd,
		usercmd.Cmd,
		configcmd.Cmd,
		completionCmd,
	)

	// Hide the default completion command (we provide our own)
	rootCmd.CompletionOptions.DisableDefaultCmd = true
}

// GetConfigFile returns the config file path from the global flag.
func GetConfigFile() string {
	return cfgFile
}
