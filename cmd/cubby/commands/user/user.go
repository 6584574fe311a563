// Package user implements user management commands for cubby.
package user

import (
	"fmt"

	"github.com/marmos91/cubby/pkg/catalog/store"
	"github.com/marmos91/cubby/pkg/config"
	"github.com/spf13/cobra"
)

// Cmd is the parent command for user management.
var Cmd = &cobra.Command{
	Use:   "user",
	Short: "User management",
	Long: `Manage accounts in the Cubby catalog.

User commands operate directly on the configured catalog database and are
meant for local administration. Changes take effect immediately; a running
server does not need to be restarted.

The "admin" account is protected: it cannot be deleted or demoted.

Examples:
  # List all users
  cubby user list

  # Create a new user
  cubby user create alice

  # Grant admin rights
  cubby user promote alice

  # Change a password
  cubby user passwd alice

  # Delete a user
  cubby user delete alice`,
}

func init() {
	Cmd.AddCommand(listCmd)
	Cmd.AddCommand(createCmd)
	Cmd.AddCommand(deleteCmd)
	Cmd.AddCommand(promoteCmd)
	Cmd.AddCommand(demoteCmd)
	Cmd.AddCommand(passwdCmd)
}

// openCatalog loads configuration and opens the catalog store. The config
// path comes from the root command's persistent --config flag.
func openCatalog(cmd *cobra.Command) (*store.GORMStore, error) {
	configPath, _ := cmd.Flags().GetString("config")
	cfg, err := config.MustLoad(configPath)
	if err != nil {
		return nil, err
	}

	catalog, err := store.New(&cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog: %w", err)
	}
	return catalog, nil
}
