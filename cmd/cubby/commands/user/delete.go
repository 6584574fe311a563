package user

import (
	"context"
	"fmt"

	"github.com/marmos91/cubby/internal/cli/prompt"
	"github.com/spf13/cobra"
)

var deleteForce bool

var deleteCmd = &cobra.Command{
	Use:   "delete <username>",
	Short: "Delete a user",
	Long: `Delete an account from the Cubby catalog.

Files uploaded by the account remain in the catalog. The "admin" account
cannot be deleted.

This action is irreversible. You will be prompted for confirmation
unless --force is specified.

Examples:
  # Delete user with confirmation
  cubby user delete alice

  # Delete user without confirmation
  cubby user delete alice --force`,
	Args: cobra.ExactArgs(1),
	RunE: runDelete,
}

func init() {
	deleteCmd.Flags().BoolVarP(&deleteForce, "force", "f", false, "Skip confirmation prompt")
}

func runDelete(cmd *cobra.Command, args []string) error {
	username := args[0]

	confirmed, err := prompt.ConfirmWithForce(fmt.Sprintf("Delete user '%s'?", username), deleteForce)
	if err != nil {
		if prompt.IsAborted(err) {
			return fmt.Errorf("cancelled")
		}
		return err
	}
	if !confirmed {
		fmt.Println("Aborted.")
		return nil
	}

	catalog, err := openCatalog(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = catalog.Close() }()

	if err := catalog.DeleteUser(context.Background(), username); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}

	fmt.Printf("User '%s' deleted\n", username)
	return nil
}
