package user

import (
	"context"
	"fmt"
	"os"

	"github.com/marmos91/cubby/internal/cli/output"
	"github.com/marmos91/cubby/pkg/catalog/models"
	"github.com/spf13/cobra"
)

var listOutput string

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all users",
	Long: `List all accounts in the Cubby catalog.

Examples:
  # List users as table
  cubby user list

  # List as JSON
  cubby user list -o json

  # List as YAML
  cubby user list -o yaml`,
	RunE: runList,
}

func init() {
	listCmd.Flags().StringVarP(&listOutput, "output", "o", "table", "Output format (table|json|yaml)")
}

// UserList is a list of users for table rendering.
type UserList []*models.User

// Headers implements TableRenderer.
func (ul UserList) Headers() []string {
	return []string{"USERNAME", "ADMIN", "EMAIL", "CREATED", "LAST LOGIN"}
}

// Rows implements TableRenderer.
func (ul UserList) Rows() [][]string {
	rows := make([][]string, 0, len(ul))
	for _, u := range ul {
		admin := "no"
		if u.IsAdmin {
			admin = "yes"
		}
		email := u.Email
		if email == "" {
			email = "-"
		}
		lastLogin := "never"
		if u.LastLogin != nil {
			lastLogin = u.LastLogin.Local().Format("2006-01-02 15:04")
		}
		rows = append(rows, []string{
			u.Username,
			admin,
			email,
			u.CreatedAt.Local().Format("2006-01-02 15:04"),
			lastLogin,
		})
	}
	return rows
}

func runList(cmd *cobra.Command, args []string) error {
	format, err := output.ParseFormat(listOutput)
	if err != nil {
		return err
	}

	catalog, err := openCatalog(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = catalog.Close() }()

	users, err := catalog.ListUsers(context.Background())
	if err != nil {
		return fmt.Errorf("failed to list users: %w", err)
	}

	switch format {
	case output.FormatJSON:
		return output.PrintJSON(os.Stdout, users)
	case output.FormatYAML:
		return output.PrintYAML(os.Stdout, users)
	}

	if len(users) == 0 {
		fmt.Println("No users found.")
		return nil
	}
	return output.PrintTable(os.Stdout, UserList(users))
}
