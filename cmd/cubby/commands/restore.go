package commands

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/marmos91/cubby/pkg/backup"
	"github.com/marmos91/cubby/pkg/catalog/store"
	"github.com/marmos91/cubby/pkg/config"
	"github.com/spf13/cobra"
)

var (
	restoreInput   string
	restoreForce   bool
	restoreStorage bool
)

var restoreCmd = &cobra.Command{
	Use:   "restore",
	Short: "Restore the catalog from a backup archive",
	Long: `Restore the catalog database from a backup archive created by 'cubby backup'.

IMPORTANT: The Cubby server must be stopped before restoring.

The catalog dump format is read from the archive manifest. SQLite dumps
replace the database file, PostgreSQL dumps are replayed with psql, and
JSON exports are recreated record by record. JSON exports carry no
password hashes, so every restored account needs a password reset
afterwards.

With --restore-storage, archived payload files are extracted into the
configured storage root as well.

Examples:
  # Restore the catalog
  cubby restore --input /path/to/cubby-backup-20240115-103045.tar.gz

  # Restore catalog and stored files
  cubby restore --input backup.tar.gz --restore-storage

  # Skip the confirmation prompt
  cubby restore --input backup.tar.gz --force`,
	RunE: runRestore,
}

func init() {
	restoreCmd.Flags().StringVarP(&restoreInput, "input", "i", "", "Backup archive path (required)")
	restoreCmd.Flags().BoolVar(&restoreForce, "force", false, "Skip confirmation prompt")
	restoreCmd.Flags().BoolVar(&restoreStorage, "restore-storage", false, "Extract archived payload files into the storage root")
	_ = restoreCmd.MarkFlagRequired("input")
}

func runRestore(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	// Check if backup archive exists
	if _, err := os.Stat(restoreInput); os.IsNotExist(err) {
		return fmt.Errorf("backup archive not found: %s", restoreInput)
	}

	cfg, err := config.MustLoad(GetConfigFile())
	if err != nil {
		return err
	}

	// Initialize the structured logger
	if err := InitLogger(cfg); err != nil {
		return err
	}

	// Confirmation prompt
	if !restoreForce {
		fmt.Printf("WARNING: This will replace the current catalog database.\n")
		fmt.Printf("  Database: %s (%s)\n", cfg.Database.Type, databaseLocation(&cfg.Database))
		if restoreStorage {
			fmt.Printf("  Storage:  %s\n", cfg.Storage.Root)
		}
		fmt.Printf("  Archive:  %s\n", restoreInput)
		fmt.Printf("\nMake sure the Cubby server is stopped before proceeding.\n")
		fmt.Printf("\nType 'yes' to continue: ")

		var response string
		if _, err := fmt.Scanln(&response); err != nil || strings.ToLower(response) != "yes" {
			return fmt.Errorf("restore cancelled")
		}
	}

	result, err := backup.Restore(ctx, backup.RestoreOptions{
		ArchivePath:    restoreInput,
		Database:       &cfg.Database,
		StorageRoot:    cfg.Storage.Root,
		RestoreStorage: restoreStorage,
	})
	if err != nil {
		return fmt.Errorf("restore failed: %w", err)
	}

	fmt.Printf("Restore completed successfully\n")
	fmt.Printf("  Format:   %s\n", result.Format)
	if restoreStorage {
		fmt.Printf("  Files:    %d\n", result.StorageFiles)
	}
	fmt.Printf("  Duration: %s\n", result.Duration.Round(time.Millisecond))

	if result.UsersNeedReset {
		fmt.Println("\nNote: JSON exports carry no password hashes. Reset each account with")
		fmt.Println("'cubby user passwd <username>' before users can sign in.")
	}

	return nil
}

// databaseLocation renders the catalog location for display.
func databaseLocation(cfg *store.Config) string {
	if cfg.Type == store.DatabaseTypePostgres {
		return fmt.Sprintf("%s:%d/%s", cfg.Postgres.Host, cfg.Postgres.Port, cfg.Postgres.Database)
	}
	return cfg.SQLite.Path
}
