// Package vault manages the bytes behind the catalog.
//
// The vault owns every filesystem mutation: uploads, moves, deletes and
// bundle exports all go through it, and each one mutates the filesystem
// first and the catalog second. There is no transaction across the two,
// so a crash between the steps leaves an inconsistency that Verify
// surfaces instead of hiding. The optional intent journal narrows the
// window by recording which operation was in flight.
package vault

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/marmos91/cubby/internal/logger"
	"github.com/marmos91/cubby/pkg/catalog/store"
	"github.com/marmos91/cubby/pkg/metrics"
	"github.com/marmos91/cubby/pkg/vault/journal"
)

// ThumbnailsDir is the reserved subdirectory under the storage root.
// Nothing writes to it yet; Verify knows to skip it.
const ThumbnailsDir = "thumbnails"

// Config configures a Vault.
type Config struct {
	// StorageRoot is the directory payloads live under. Created if missing.
	StorageRoot string

	// MaxPayloadSize caps the size of a single uploaded payload in bytes.
	// Zero means no limit.
	MaxPayloadSize int64

	// Journal is the optional write-ahead intent journal. Nil disables
	// journaling; every operation still works, crashes just leave no trace.
	Journal *journal.Journal

	// Metrics is the optional vault collector group.
	Metrics *metrics.VaultMetrics
}

// Vault orchestrates payload storage against the catalog.
//
// Operations are synchronous and perform no cross-operation locking: the
// deployment model assumes a single active writer. Concurrent readers are
// safe.
type Vault struct {
	catalog    store.Store
	root       string
	maxPayload int64
	journal    *journal.Journal
	metrics    *metrics.VaultMetrics
}

// New creates a Vault over catalog, ensuring the storage root and its
// thumbnails subdirectory exist.
func New(catalog store.Store, cfg Config) (*Vault, error) {
	if cfg.StorageRoot == "" {
		return nil, errors.New("storage root is required")
	}

	root, err := filepath.Abs(cfg.StorageRoot)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve storage root: %w", err)
	}

	if err := os.MkdirAll(filepath.Join(root, ThumbnailsDir), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage root: %w", err)
	}

	return &Vault{
		catalog:    catalog,
		root:       root,
		maxPayload: cfg.MaxPayloadSize,
		journal:    cfg.Journal,
		metrics:    cfg.Metrics,
	}, nil
}

// Root returns the absolute storage root path.
func (v *Vault) Root() string {
	return v.root
}

// folderDir maps a logical folder path onto the directory holding its
// payloads. The empty folder path is the storage root itself.
func (v *Vault) folderDir(folderPath string) string {
	if folderPath == "" {
		return v.root
	}
	return filepath.Join(v.root, filepath.FromSlash(folderPath))
}

// suffixedName inserts a numeric suffix before the extension:
// "report.pdf" -> "report_1.pdf", "archive" -> "archive_1".
func suffixedName(name string, n int) string {
	ext := filepath.Ext(name)
	base := strings.TrimSuffix(name, ext)
	return fmt.Sprintf("%s_%d%s", base, n, ext)
}

// errPayloadTooLarge is returned by writePayload when the stream exceeds
// the configured payload size limit.
var errPayloadTooLarge = errors.New("payload exceeds size limit")

// writePayload streams r into a new file at path and returns the byte count.
// A positive limit caps the stream; when it is hit the partial file is
// removed and errPayloadTooLarge returned. On I/O failure the partial file
// is left in place for Verify to find.
func writePayload(path string, r io.Reader, limit int64) (int64, error) {
	if limit > 0 {
		r = io.LimitReader(r, limit+1)
	}
	f, err := os.Create(path)
	if err != nil {
		return 0, err
	}
	n, err := io.Copy(f, r)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err == nil && limit > 0 && n > limit {
		_ = os.Remove(path)
		return n, errPayloadTooLarge
	}
	return n, err
}

// removePayload deletes the file at path. A missing file is not an error.
func removePayload(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

// beginIntent records a journal intent, returning its id. The journal is
// advisory: failures are logged and the operation proceeds.
func (v *Vault) beginIntent(ctx context.Context, intent journal.Intent) string {
	if v.journal == nil {
		return ""
	}
	id, err := v.journal.Begin(ctx, intent)
	if err != nil {
		logger.Warn("failed to record intent",
			"op", string(intent.Op),
			logger.KeyPath, intent.Path,
			logger.KeyError, err)
		return ""
	}
	return id
}

// endIntent clears a journal intent recorded by beginIntent.
func (v *Vault) endIntent(ctx context.Context, id string) {
	if v.journal == nil || id == "" {
		return
	}
	if err := v.journal.End(ctx, id); err != nil {
		logger.Warn("failed to clear intent", logger.KeyIntent, id, logger.KeyError, err)
	}
}
