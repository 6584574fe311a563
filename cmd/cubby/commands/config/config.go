// Package config implements the config subcommand tree: editing,
// validating, printing and generating a schema for the configuration file.
package config

import "github.com/spf13/cobra"

// Cmd is the parent of every config subcommand.
var Cmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the configuration file",
	Long: `Inspect and maintain the Cubby configuration file.

The file itself is created by 'cubby init'. These subcommands work on an
existing one: open it in an editor, check it for mistakes, print the
resolved values, or emit a JSON schema for editor completion.`,
}

func init() {
	Cmd.AddCommand(editCmd, validateCmd, showCmd, schemaCmd)
}
