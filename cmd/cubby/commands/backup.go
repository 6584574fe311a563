package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/marmos91/cubby/internal/bytesize"
	"github.com/marmos91/cubby/pkg/backup"
	"github.com/marmos91/cubby/pkg/config"
	"github.com/spf13/cobra"
)

var (
	backupOutputDir      string
	backupIncludeStorage bool
	backupUpload         bool
)

var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Back up the catalog and storage",
	Long: `Create a backup archive of the catalog database, optionally including
every stored payload.

The archive is a timestamped tar.gz written to the configured backup
directory. The catalog dump format depends on the database backend:
SQLite databases are copied via VACUUM INTO, PostgreSQL databases are
dumped with pg_dump when available, falling back to a portable JSON
export otherwise.

With --upload, the archive is also pushed to the S3 bucket configured
under backup.s3.

Examples:
  # Back up the catalog only
  cubby backup

  # Back up catalog and all stored files
  cubby backup --include-storage

  # Write the archive somewhere else
  cubby backup --output-dir /mnt/backups

  # Back up and upload to S3
  cubby backup --include-storage --upload`,
	RunE: runBackup,
}

func init() {
	backupCmd.Flags().StringVarP(&backupOutputDir, "output-dir", "o", "", "Directory to write the archive into (default: backup.dir from config)")
	backupCmd.Flags().BoolVar(&backupIncludeStorage, "include-storage", false, "Include every stored payload in the archive")
	backupCmd.Flags().BoolVar(&backupUpload, "upload", false, "Upload the archive to the configured S3 bucket")
}

func runBackup(cmd *cobra.Command, args []string) error {
	cfg, err := config.MustLoad(GetConfigFile())
	if err != nil {
		return err
	}

	// Initialize the structured logger
	if err := InitLogger(cfg); err != nil {
		return err
	}

	ctx := context.Background()

	dir := backupOutputDir
	if dir == "" {
		dir = cfg.Backup.Dir
	}

	if backupUpload && cfg.Backup.S3.Bucket == "" {
		return fmt.Errorf("--upload requires backup.s3.bucket to be configured")
	}

	result, err := backup.Run(ctx, backup.Options{
		Dir:            dir,
		Database:       &cfg.Database,
		StorageRoot:    cfg.Storage.Root,
		IncludeStorage: backupIncludeStorage,
	})
	if err != nil {
		return fmt.Errorf("backup failed: %w", err)
	}

	fmt.Printf("Backup completed successfully\n")
	fmt.Printf("  Archive:  %s\n", result.ArchivePath)
	fmt.Printf("  Type:     %s\n", cfg.Database.Type)
	fmt.Printf("  Format:   %s\n", result.Format)
	fmt.Printf("  Size:     %s\n", bytesize.Format(uint64(result.ArchiveSize)))
	if backupIncludeStorage {
		fmt.Printf("  Files:    %d\n", result.StorageFiles)
	}
	fmt.Printf("  Duration: %s\n", result.Duration.Round(time.Millisecond))

	if !backupUpload {
		return nil
	}

	uploader, err := backup.NewUploaderFromConfig(ctx, backup.S3Config{
		Bucket:          cfg.Backup.S3.Bucket,
		Region:          cfg.Backup.S3.Region,
		Endpoint:        cfg.Backup.S3.Endpoint,
		KeyPrefix:       cfg.Backup.S3.KeyPrefix,
		AccessKeyID:     cfg.Backup.S3.AccessKeyID,
		SecretAccessKey: cfg.Backup.S3.SecretAccessKey,
		ForcePathStyle:  cfg.Backup.S3.ForcePathStyle,
	})
	if err != nil {
		return fmt.Errorf("failed to create S3 uploader: %w", err)
	}

	if err := uploader.HealthCheck(ctx); err != nil {
		return fmt.Errorf("S3 bucket not reachable: %w", err)
	}

	key, err := uploader.Upload(ctx, result.ArchivePath)
	if err != nil {
		return fmt.Errorf("upload failed: %w", err)
	}

	fmt.Printf("  Uploaded: s3://%s/%s\n", cfg.Backup.S3.Bucket, key)
	return nil
}
