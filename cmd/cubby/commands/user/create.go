package user

import (
	"context"
	"fmt"

	"github.com/marmos91/cubby/internal/cli/prompt"
	"github.com/marmos91/cubby/pkg/catalog/models"
	"github.com/spf13/cobra"
)

var (
	createPassword string
	createEmail    string
	createAdmin    bool
)

var createCmd = &cobra.Command{
	Use:   "create <username>",
	Short: "Create a new user",
	Long: `Create a new account in the Cubby catalog.

If --password is not provided, you will be prompted to enter one
interactively.

Examples:
  # Create a user (prompts for password)
  cubby user create alice

  # Create a user with flags
  cubby user create alice --password secret123 --email alice@example.com

  # Create an admin user
  cubby user create ops --admin`,
	Args: cobra.ExactArgs(1),
	RunE: runCreate,
}

func init() {
	createCmd.Flags().StringVarP(&createPassword, "password", "p", "", "Password (prompts if not provided)")
	createCmd.Flags().StringVar(&createEmail, "email", "", "Email address")
	createCmd.Flags().BoolVar(&createAdmin, "admin", false, "Grant admin rights")
}

func runCreate(cmd *cobra.Command, args []string) error {
	username := args[0]

	password := createPassword
	if password == "" {
		var err error
		password, err = prompt.PasswordWithConfirmation("Password", "Confirm password", models.MinPasswordLength)
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

	user, err := catalog.RegisterUser(context.Background(), username, password, createEmail, createAdmin)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	if user.IsAdmin {
		fmt.Printf("Admin user '%s' created\n", user.Username)
	} else {
		fmt.Printf("User '%s' created\n", user.Username)
	}
	return nil
}
