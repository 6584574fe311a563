package backup

import (
	"archive/tar"
	"compress/gzip"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/marmos91/cubby/internal/logger"
	"github.com/marmos91/cubby/pkg/catalog/models"
	"github.com/marmos91/cubby/pkg/catalog/store"
)

// RestoreOptions configure one restore run.
type RestoreOptions struct {
	// ArchivePath is the tar.gz produced by Run.
	ArchivePath string

	// Database is the catalog the dump is restored into. Its type must
	// match the dump format (a SQLite dump cannot restore into postgres).
	Database *store.Config

	// StorageRoot is where storage entries are extracted.
	StorageRoot string

	// RestoreStorage extracts the archived payload tree. Entries present
	// in the archive are otherwise skipped.
	RestoreStorage bool
}

// RestoreResult describes a finished restore.
type RestoreResult struct {
	// Format is the catalog dump format found in the archive.
	Format string

	// StorageFiles is the number of payload files extracted.
	StorageFiles int

	// UsersNeedReset is set for JSON restores: the export carries no
	// password hashes, so every restored account needs a password reset.
	UsersNeedReset bool

	Duration time.Duration
}

// Restore replaces the catalog (and optionally the storage tree) with the
// contents of a backup archive. The server must not be running.
func Restore(ctx context.Context, opts RestoreOptions) (*RestoreResult, error) {
	if opts.Database == nil {
		return nil, errors.New("database configuration is required")
	}
	if _, err := os.Stat(opts.ArchivePath); err != nil {
		return nil, fmt.Errorf("backup archive not found: %s", opts.ArchivePath)
	}

	start := time.Now()
	opts.Database.ApplyDefaults()

	f, err := os.Open(opts.ArchivePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open archive: %w", err)
	}
	defer f.Close()

	gz, err := gzip.NewReader(f)
	if err != nil {
		return nil, fmt.Errorf("not a gzip archive: %w", err)
	}
	defer gz.Close()

	tr := tar.NewReader(gz)

	// The manifest is always the first entry.
	hdr, err := tr.Next()
	if err != nil {
		return nil, fmt.Errorf("failed to read archive: %w", err)
	}
	if hdr.Name != manifestName {
		return nil, fmt.Errorf("not a cubby backup archive: first entry is %q", hdr.Name)
	}
	var manifest Manifest
	if err := json.NewDecoder(tr).Decode(&manifest); err != nil {
		return nil, fmt.Errorf("failed to parse manifest: %w", err)
	}

	res := &RestoreResult{Format: manifest.CatalogFormat}

	for {
		hdr, err := tr.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read archive: %w", err)
		}

		switch {
		case hdr.Name == manifest.CatalogEntry:
			if err := restoreCatalog(ctx, opts.Database, manifest.CatalogFormat, tr); err != nil {
				return nil, err
			}
			res.UsersNeedReset = manifest.CatalogFormat == FormatJSON

		case strings.HasPrefix(hdr.Name, storagePrefix):
			if !opts.RestoreStorage {
				continue
			}
			if opts.StorageRoot == "" {
				return nil, errors.New("storage root is required to restore storage entries")
			}
			if err := extractStorageEntry(opts.StorageRoot, hdr.Name, tr); err != nil {
				return nil, err
			}
			res.StorageFiles++
		}
	}

	res.Duration = time.Since(start)
	logger.Info("backup restored",
		logger.KeyPath, opts.ArchivePath,
		"format", res.Format,
		logger.KeyEntries, res.StorageFiles)

	return res, nil
}

func restoreCatalog(ctx context.Context, cfg *store.Config, format string, r io.Reader) error {
	switch format {
	case FormatSQLite:
		if cfg.Type != store.DatabaseTypeSQLite {
			return fmt.Errorf("cannot restore a SQLite dump into a %s catalog", cfg.Type)
		}
		return restoreSQLite(cfg.SQLite.Path, r)

	case FormatPGDump:
		if cfg.Type != store.DatabaseTypePostgres {
			return fmt.Errorf("cannot restore a PostgreSQL dump into a %s catalog", cfg.Type)
		}
		return restorePGDump(ctx, &cfg.Postgres, r)

	case FormatJSON:
		return restoreJSON(ctx, cfg, r)

	default:
		return fmt.Errorf("unsupported catalog format: %s", format)
	}
}

// restoreSQLite replaces the database file with the archived copy.
func restoreSQLite(targetPath string, r io.Reader) error {
	if err := os.MkdirAll(filepath.Dir(targetPath), 0o755); err != nil {
		return fmt.Errorf("failed to create database directory: %w", err)
	}

	// Drop the database and its sidecar files so the copy starts clean.
	for _, suffix := range []string{"", "-wal", "-shm", "-journal"} {
		_ = os.Remove(targetPath + suffix)
	}

	f, err := os.Create(targetPath)
	if err != nil {
		return fmt.Errorf("failed to create database file: %w", err)
	}
	_, err = io.Copy(f, r)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return fmt.Errorf("failed to write database file: %w", err)
	}
	return nil
}

// restorePGDump streams the archived SQL dump through psql.
func restorePGDump(ctx context.Context, cfg *store.PostgresConfig, r io.Reader) error {
	if _, err := exec.LookPath("psql"); err != nil {
		return errors.New("psql not found in PATH: PostgreSQL client tools are required to restore SQL dumps")
	}

	args := []string{
		"-h", cfg.Host,
		"-p", strconv.Itoa(cfg.Port),
		"-U", cfg.User,
		"-d", cfg.Database,
		"--no-password",
	}

	cmd := exec.CommandContext(ctx, "psql", args...)
	cmd.Stdin = r
	cmd.Env = append(os.Environ(), "PGPASSWORD="+cfg.Password)

	if output, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("psql restore failed: %w\noutput: %s", err, output)
	}
	return nil
}

// restoreJSON rebuilds the catalog from a portable export. Accounts come
// back without passwords.
func restoreJSON(ctx context.Context, cfg *store.Config, r io.Reader) error {
	var export CatalogExport
	if err := json.NewDecoder(r).Decode(&export); err != nil {
		return fmt.Errorf("failed to parse JSON export: %w", err)
	}

	// Start from a fresh schema.
	if cfg.Type == store.DatabaseTypeSQLite {
		for _, suffix := range []string{"", "-wal", "-shm", "-journal"} {
			_ = os.Remove(cfg.SQLite.Path + suffix)
		}
	}

	st, err := store.New(cfg)
	if err != nil {
		return fmt.Errorf("failed to open catalog: %w", err)
	}
	defer func() { _ = st.Close() }()

	// Categories first so file rows always reference an existing name.
	// store.New seeds the default category, so skip that collision.
	for _, category := range export.Categories {
		_, err := st.CreateCategory(ctx, category.Name, category.Color, category.Description)
		if err != nil && !errors.Is(err, models.ErrDuplicateCategory) {
			return fmt.Errorf("failed to restore category %s: %w", category.Name, err)
		}
	}

	for _, folder := range export.Folders {
		_, err := st.CreateFolder(ctx, folder.Name, folder.ParentPath, folder.Description)
		if err != nil && !errors.Is(err, models.ErrDuplicateFolder) {
			return fmt.Errorf("failed to restore folder %s: %w", folder.Path, err)
		}
	}

	for _, u := range export.Users {
		user := &models.User{
			ID:        u.ID,
			Username:  u.Username,
			Email:     u.Email,
			IsAdmin:   u.IsAdmin,
			CreatedAt: u.CreatedAt,
			LastLogin: u.LastLogin,
		}
		if _, err := st.CreateUser(ctx, user); err != nil {
			return fmt.Errorf("failed to restore user %s: %w", u.Username, err)
		}
	}

	// File rows go in raw: AddFile would re-derive the hash and MIME type
	// from payload bytes that may not have been restored.
	db := st.DB().WithContext(ctx)
	for _, fe := range export.Files {
		file := fe.File
		file.Tags = models.EncodeTags(fe.Tags)
		if err := db.Create(file).Error; err != nil {
			return fmt.Errorf("failed to restore file record %s: %w", file.Filename, err)
		}
	}

	return nil
}

// extractStorageEntry writes one archived payload under root, refusing
// entries that would escape it.
func extractStorageEntry(root, name string, r io.Reader) error {
	rel := filepath.FromSlash(strings.TrimPrefix(name, storagePrefix))
	if rel == "" || !filepath.IsLocal(rel) {
		return fmt.Errorf("archive entry escapes the storage root: %s", name)
	}

	dest := filepath.Join(root, rel)
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", name, err)
	}

	f, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", dest, err)
	}
	_, err = io.Copy(f, r)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return fmt.Errorf("failed to extract %s: %w", name, err)
	}
	return nil
}
