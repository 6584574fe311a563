package user

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var promoteCmd = &cobra.Command{
	Use:   "promote <username>",
	Short: "Grant admin rights to a user",
	Long: `Grant admin rights to an account.

Admins may delete any file and manage users.

Examples:
  cubby user promote alice`,
	Args: cobra.ExactArgs(1),
	RunE: runPromote,
}

func runPromote(cmd *cobra.Command, args []string) error {
	username := args[0]

	catalog, err := openCatalog(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = catalog.Close() }()

	if err := catalog.SetUserAdmin(context.Background(), username, true); err != nil {
		return fmt.Errorf("failed to promote user: %w", err)
	}

	fmt.Printf("User '%s' is now an admin\n", username)
	return nil
}
