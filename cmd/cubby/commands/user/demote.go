package user

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var demoteCmd = &cobra.Command{
	Use:   "demote <username>",
	Short: "Revoke admin rights from a user",
	Long: `Revoke admin rights from an account.

The "admin" account cannot be demoted.

Examples:
  cubby user demote alice`,
	Args: cobra.ExactArgs(1),
	RunE: runDemote,
}

func runDemote(cmd *cobra.Command, args []string) error {
	username := args[0]

	catalog, err := openCatalog(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = catalog.Close() }()

	if err := catalog.SetUserAdmin(context.Background(), username, false); err != nil {
		return fmt.Errorf("failed to demote user: %w", err)
	}

	fmt.Printf("User '%s' is no longer an admin\n", username)
	return nil
}
