// Package backup creates and restores archives of the catalog and the
// storage root.
//
// An archive is a tar.gz holding a manifest, a catalog dump and optionally
// every payload under the storage root. The catalog dump format depends on
// the backend: SQLite is copied with VACUUM INTO (pure Go, safe while the
// database is in use), PostgreSQL uses pg_dump when the binary is on PATH
// and falls back to a portable JSON export otherwise.
package backup

import (
	"archive/tar"
	"compress/gzip"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"time"

	"github.com/marmos91/cubby/internal/logger"
	"github.com/marmos91/cubby/pkg/catalog/models"
	"github.com/marmos91/cubby/pkg/catalog/store"
)

// Catalog dump formats recorded in the manifest.
const (
	FormatSQLite = "sqlite"
	FormatPGDump = "pg_dump"
	FormatJSON   = "json"
)

const (
	manifestName    = "manifest.json"
	manifestVersion = "1"
	catalogDir      = "catalog/"
	storagePrefix   = "storage/"
)

// Options configure one backup run.
type Options struct {
	// Dir is the directory the archive is written into. Created if missing.
	Dir string

	// Database selects the catalog to dump.
	Database *store.Config

	// StorageRoot is the payload tree to include when IncludeStorage is set.
	StorageRoot string

	// IncludeStorage adds every payload under StorageRoot to the archive.
	IncludeStorage bool
}

// Result describes a finished backup.
type Result struct {
	// ArchivePath is the written tar.gz.
	ArchivePath string

	// Format is the catalog dump format that ended up in the archive.
	Format string

	// StorageFiles is the number of payload files archived.
	StorageFiles int

	// ArchiveSize is the archive size in bytes.
	ArchiveSize int64

	Duration time.Duration
}

// Manifest is the first entry of every archive and describes its contents.
type Manifest struct {
	CreatedAt       time.Time `json:"created_at"`
	Version         string    `json:"version"`
	DatabaseType    string    `json:"database_type"`
	CatalogFormat   string    `json:"catalog_format"`
	CatalogEntry    string    `json:"catalog_entry"`
	IncludesStorage bool      `json:"includes_storage"`
}

// Run dumps the catalog, packs it into a timestamped tar.gz under opts.Dir
// and optionally appends the storage tree. A failed run removes its partial
// archive.
func Run(ctx context.Context, opts Options) (*Result, error) {
	if opts.Database == nil {
		return nil, errors.New("database configuration is required")
	}
	if opts.Dir == "" {
		return nil, errors.New("backup directory is required")
	}
	if opts.IncludeStorage && opts.StorageRoot == "" {
		return nil, errors.New("storage root is required when including storage")
	}

	start := time.Now()
	opts.Database.ApplyDefaults()

	if err := os.MkdirAll(opts.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create backup directory: %w", err)
	}

	// Dump into a scratch directory first so a failed dump never leaves a
	// half-written archive behind.
	scratch, err := os.MkdirTemp("", "cubby-backup-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create scratch directory: %w", err)
	}
	defer func() { _ = os.RemoveAll(scratch) }()

	dumpPath, format, err := dumpCatalog(ctx, opts.Database, scratch)
	if err != nil {
		return nil, err
	}

	manifest := Manifest{
		CreatedAt:       start.UTC(),
		Version:         manifestVersion,
		DatabaseType:    string(opts.Database.Type),
		CatalogFormat:   format,
		CatalogEntry:    catalogDir + filepath.Base(dumpPath),
		IncludesStorage: opts.IncludeStorage,
	}

	archivePath := filepath.Join(opts.Dir, fmt.Sprintf("cubby-backup-%s.tar.gz", start.UTC().Format("20060102-150405")))
	storageFiles, err := writeArchive(archivePath, manifest, dumpPath, opts.StorageRoot)
	if err != nil {
		_ = os.Remove(archivePath)
		return nil, err
	}

	info, err := os.Stat(archivePath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat archive: %w", err)
	}

	res := &Result{
		ArchivePath:  archivePath,
		Format:       format,
		StorageFiles: storageFiles,
		ArchiveSize:  info.Size(),
		Duration:     time.Since(start),
	}

	logger.Info("backup archive written",
		logger.KeyPath, res.ArchivePath,
		"format", res.Format,
		logger.KeyEntries, res.StorageFiles,
		logger.KeySize, res.ArchiveSize)

	return res, nil
}

// dumpCatalog writes the catalog dump into dir and returns its path and
// format.
func dumpCatalog(ctx context.Context, cfg *store.Config, dir string) (string, string, error) {
	switch cfg.Type {
	case store.DatabaseTypeSQLite:
		path := filepath.Join(dir, "catalog.db")
		if err := dumpSQLite(cfg, path); err != nil {
			return "", "", err
		}
		return path, FormatSQLite, nil

	case store.DatabaseTypePostgres:
		if _, err := exec.LookPath("pg_dump"); err == nil {
			path := filepath.Join(dir, "catalog.sql")
			if err := dumpPostgres(ctx, &cfg.Postgres, path); err != nil {
				return "", "", err
			}
			return path, FormatPGDump, nil
		}
		logger.Warn("pg_dump not found in PATH, falling back to JSON export")
		path := filepath.Join(dir, "catalog.json")
		if err := dumpJSON(ctx, cfg, path); err != nil {
			return "", "", err
		}
		return path, FormatJSON, nil

	default:
		return "", "", fmt.Errorf("unsupported database type: %s", cfg.Type)
	}
}

// dumpSQLite copies the database with VACUUM INTO (SQLite >= 3.27), which
// produces a consistent snapshot even while the server is running.
func dumpSQLite(cfg *store.Config, outputPath string) error {
	// store.New creates a fresh empty database when the path is wrong;
	// refuse instead of backing up nothing.
	if _, err := os.Stat(cfg.SQLite.Path); os.IsNotExist(err) {
		return fmt.Errorf("catalog database not found: %s", cfg.SQLite.Path)
	}

	st, err := store.New(cfg)
	if err != nil {
		return fmt.Errorf("failed to open catalog: %w", err)
	}
	defer func() { _ = st.Close() }()

	if err := st.DB().Exec(fmt.Sprintf("VACUUM INTO '%s'", outputPath)).Error; err != nil {
		return fmt.Errorf("VACUUM INTO failed: %w", err)
	}
	return nil
}

// dumpPostgres shells out to pg_dump. The password travels via PGPASSWORD.
func dumpPostgres(ctx context.Context, cfg *store.PostgresConfig, outputPath string) error {
	args := []string{
		"-h", cfg.Host,
		"-p", strconv.Itoa(cfg.Port),
		"-U", cfg.User,
		"-d", cfg.Database,
		"-f", outputPath,
		"--no-password",
	}

	cmd := exec.CommandContext(ctx, "pg_dump", args...)
	cmd.Env = append(os.Environ(), "PGPASSWORD="+cfg.Password)

	if output, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("pg_dump failed: %w\noutput: %s", err, output)
	}
	return nil
}

// dumpJSON writes a portable JSON export of every catalog record.
func dumpJSON(ctx context.Context, cfg *store.Config, outputPath string) error {
	st, err := store.New(cfg)
	if err != nil {
		return fmt.Errorf("failed to open catalog: %w", err)
	}
	defer func() { _ = st.Close() }()

	export, err := exportCatalog(ctx, st)
	if err != nil {
		return err
	}

	f, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create export file: %w", err)
	}

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	err = enc.Encode(export)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return fmt.Errorf("failed to write JSON export: %w", err)
	}
	return nil
}

// CatalogExport is a portable JSON dump of every catalog record. Password
// hashes are not exported, so users restored from JSON need a password
// reset.
type CatalogExport struct {
	CreatedAt    time.Time          `json:"created_at"`
	Version      string             `json:"version"`
	DatabaseType string             `json:"database_type"`
	Files        []FileExport       `json:"files"`
	Folders      []*models.Folder   `json:"folders"`
	Categories   []*models.Category `json:"categories"`
	Users        []UserExport       `json:"users"`
}

// FileExport carries one file record with its tags decoded from the stored
// JSON text column.
type FileExport struct {
	*models.File
	Tags []string `json:"tags"`
}

// UserExport carries one account without its password hash.
type UserExport struct {
	ID        string     `json:"id"`
	Username  string     `json:"username"`
	Email     string     `json:"email,omitempty"`
	IsAdmin   bool       `json:"is_admin"`
	CreatedAt time.Time  `json:"created_at"`
	LastLogin *time.Time `json:"last_login,omitempty"`
}

func exportCatalog(ctx context.Context, st *store.GORMStore) (*CatalogExport, error) {
	export := &CatalogExport{
		CreatedAt:    time.Now().UTC(),
		Version:      manifestVersion,
		DatabaseType: FormatJSON,
	}

	files, err := st.ListFiles(ctx, store.FileFilter{})
	if err != nil {
		return nil, fmt.Errorf("failed to list files: %w", err)
	}
	for _, file := range files {
		export.Files = append(export.Files, FileExport{File: file, Tags: file.TagList()})
	}

	// ListFolders walks one level at a time and folder rows are not
	// guaranteed to form a connected tree, so take every row directly.
	if err := st.DB().WithContext(ctx).Order("path").Find(&export.Folders).Error; err != nil {
		return nil, fmt.Errorf("failed to list folders: %w", err)
	}

	export.Categories, err = st.ListCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}

	users, err := st.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	for _, u := range users {
		export.Users = append(export.Users, UserExport{
			ID:        u.ID,
			Username:  u.Username,
			Email:     u.Email,
			IsAdmin:   u.IsAdmin,
			CreatedAt: u.CreatedAt,
			LastLogin: u.LastLogin,
		})
	}

	return export, nil
}

// writeArchive packs the manifest, the catalog dump and optionally the
// storage tree into a tar.gz at path. Returns the number of storage files
// written.
func writeArchive(path string, manifest Manifest, dumpPath, storageRoot string) (n int, err error) {
	f, err := os.Create(path)
	if err != nil {
		return 0, fmt.Errorf("failed to create archive: %w", err)
	}

	gz := gzip.NewWriter(f)
	tw := tar.NewWriter(gz)

	n, err = writeEntries(tw, manifest, dumpPath, storageRoot)

	// Close in order: tar flushes into gzip, gzip into the file.
	if cerr := tw.Close(); err == nil {
		err = cerr
	}
	if cerr := gz.Close(); err == nil {
		err = cerr
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	return n, err
}

func writeEntries(tw *tar.Writer, manifest Manifest, dumpPath, storageRoot string) (int, error) {
	data, err := json.MarshalIndent(manifest, "", "  ")
	if err != nil {
		return 0, fmt.Errorf("failed to marshal manifest: %w", err)
	}
	hdr := &tar.Header{
		Name:    manifestName,
		Mode:    0o644,
		Size:    int64(len(data)),
		ModTime: manifest.CreatedAt,
	}
	if err := tw.WriteHeader(hdr); err != nil {
		return 0, fmt.Errorf("failed to write manifest header: %w", err)
	}
	if _, err := tw.Write(data); err != nil {
		return 0, fmt.Errorf("failed to write manifest: %w", err)
	}

	if err := writeFileEntry(tw, manifest.CatalogEntry, dumpPath); err != nil {
		return 0, err
	}

	if !manifest.IncludesStorage {
		return 0, nil
	}
	return writeStorageTree(tw, storageRoot)
}

func writeFileEntry(tw *tar.Writer, name, src string) error {
	f, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", src, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("failed to stat %s: %w", src, err)
	}

	hdr := &tar.Header{
		Name:    name,
		Mode:    0o644,
		Size:    info.Size(),
		ModTime: info.ModTime(),
	}
	if err := tw.WriteHeader(hdr); err != nil {
		return fmt.Errorf("failed to write header for %s: %w", name, err)
	}
	if _, err := io.Copy(tw, f); err != nil {
		return fmt.Errorf("failed to archive %s: %w", src, err)
	}
	return nil
}

// writeStorageTree archives every regular file under root, keyed by its
// path relative to root.
func writeStorageTree(tw *tar.Writer, root string) (int, error) {
	count := 0
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.Type().IsRegular() {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		if err := writeFileEntry(tw, storagePrefix+filepath.ToSlash(rel), path); err != nil {
			return err
		}
		count++
		return nil
	})
	if err != nil {
		return count, fmt.Errorf("failed to archive storage root: %w", err)
	}
	return count, nil
}
