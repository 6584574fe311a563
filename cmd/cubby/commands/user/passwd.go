package user

import (
	"context"
	"fmt"

	"github.com/marmos91/cubby/internal/cli/prompt"
	"github.com/marmos91/cubby/pkg/catalog/models"
	"github.com/spf13/cobra"
)

var passwdPassword string

var passwdCmd = &cobra.Command{
	Use:   "passwd <username>",
	Short: "Change a user's password",
	Long: `Set a new password for an account.

If --password is not provided, you will be prompted to enter one
interactively. The old password is not required; this command is for
local administration.

Examples:
  # Change password interactively
  cubby user passwd alice

  # Change password via flag
  cubby user passwd alice --password newsecret123`,
	Args: cobra.ExactArgs(1),
	RunE: runPasswd,
}

func init() {
	passwdCmd.Flags().StringVarP(&passwdPassword, "password", "p", "", "New password (prompts if not provided)")
}

func runPasswd(cmd *cobra.Command, args []string) error {
	username := args[0]

	password := passwdPassword
	if password == "" {
		var err error
		password, err = prompt.PasswordWithConfirmation("New password", "Confirm password", models.MinPasswordLength)
		if err != nil {
			if prompt.IsAborted(err) {
				return fmt.Errorf("cancelled")
			}
			return err
		}
	} else if err := models.ValidatePassword(password); err != nil {
		return err
	}

	catalog, err := openCatalog(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = catalog.Close() }()

	if err := catalog.SetPassword(context.Background(), username, password); err != nil {
		return fmt.Errorf("failed to change password: %w", err)
	}

	fmt.Printf("Password changed for user '%s'\n", username)
	return nil
}
