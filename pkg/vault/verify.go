package vault

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/marmos91/cubby/internal/logger"
	"github.com/marmos91/cubby/internal/telemetry"
	"github.com/marmos91/cubby/pkg/catalog/models"
	"github.com/marmos91/cubby/pkg/catalog/store"
	"github.com/marmos91/cubby/pkg/vault/journal"
)

// VerifyOptions selects optional verification work.
type VerifyOptions struct {
	// CheckHashes re-reads every payload and compares its SHA-256 against
	// the stored hash. Read-only and potentially slow.
	CheckHashes bool
}

// VerifyReport is the result of a reconciliation pass over storage,
// catalog and journal.
type VerifyReport struct {
	// FilesChecked is the number of catalog rows examined.
	FilesChecked int `json:"files_checked"`

	// DanglingRows are catalog rows whose payload is gone.
	DanglingRows []*models.File `json:"dangling_rows,omitempty"`

	// OrphanedFiles are payload paths no catalog row points at.
	OrphanedFiles []string `json:"orphaned_files,omitempty"`

	// StaleIntents are journal records from operations that never
	// finished.
	StaleIntents []*journal.Intent `json:"stale_intents,omitempty"`

	// HashMismatches are rows whose payload no longer matches the stored
	// SHA-256. Only populated with VerifyOptions.CheckHashes; rows with an
	// empty stored hash are not checked.
	HashMismatches []*models.File `json:"hash_mismatches,omitempty"`
}

// Clean reports whether the pass found nothing wrong.
func (r *VerifyReport) Clean() bool {
	return len(r.DanglingRows) == 0 &&
		len(r.OrphanedFiles) == 0 &&
		len(r.StaleIntents) == 0 &&
		len(r.HashMismatches) == 0
}

// Verify reconciles the catalog against the storage root and the journal.
// It mutates nothing.
func (v *Vault) Verify(ctx context.Context, opts VerifyOptions) (*VerifyReport, error) {
	ctx, span := telemetry.StartVaultSpan(ctx, "verify")
	defer span.End()

	report, err := v.verify(ctx, opts)
	if err != nil {
		telemetry.RecordError(ctx, err)
	}
	return report, err
}

func (v *Vault) verify(ctx context.Context, opts VerifyOptions) (*VerifyReport, error) {
	report := &VerifyReport{}

	files, err := v.catalog.ListFiles(ctx, store.FileFilter{})
	if err != nil {
		return nil, fmt.Errorf("failed to list catalog: %w", err)
	}
	report.FilesChecked = len(files)

	known := make(map[string]struct{}, len(files))
	for _, file := range files {
		known[file.FilePath] = struct{}{}

		if _, err := os.Stat(file.FilePath); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				report.DanglingRows = append(report.DanglingRows, file)
				continue
			}
			return nil, fmt.Errorf("failed to stat %s: %w", file.FilePath, err)
		}

		if opts.CheckHashes && file.FileHash != "" {
			sum, err := sha256File(file.FilePath)
			if err != nil {
				return nil, fmt.Errorf("failed to hash %s: %w", file.FilePath, err)
			}
			if sum != file.FileHash {
				report.HashMismatches = append(report.HashMismatches, file)
			}
		}
	}

	thumbnails := filepath.Join(v.root, ThumbnailsDir)
	err = filepath.WalkDir(v.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path == thumbnails {
				return filepath.SkipDir
			}
			return nil
		}
		if _, ok := known[path]; !ok {
			report.OrphanedFiles = append(report.OrphanedFiles, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk storage root: %w", err)
	}

	if v.journal != nil {
		intents, err := v.journal.List(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list intents: %w", err)
		}
		report.StaleIntents = intents
	}

	return report, nil
}

// RepairOptions selects what Repair is allowed to touch.
type RepairOptions struct {
	// PruneDangling deletes catalog rows whose payload is gone.
	PruneDangling bool

	// RemoveOrphans deletes payloads no catalog row points at.
	RemoveOrphans bool

	// ClearIntents drops stale journal records once the inconsistencies
	// they flagged have been looked at.
	ClearIntents bool
}

// RepairResult counts what Repair actually did.
type RepairResult struct {
	PrunedRows     int `json:"pruned_rows"`
	RemovedFiles   int `json:"removed_files"`
	ClearedIntents int `json:"cleared_intents"`
}

// Repair runs Verify and then fixes what the options allow, best-effort:
// individual failures are logged and skipped, not propagated.
func (v *Vault) Repair(ctx context.Context, opts RepairOptions) (*VerifyReport, *RepairResult, error) {
	ctx, span := telemetry.StartVaultSpan(ctx, "repair")
	defer span.End()

	report, result, err := v.repair(ctx, opts)
	if err != nil {
		telemetry.RecordError(ctx, err)
	}
	return report, result, err
}

func (v *Vault) repair(ctx context.Context, opts RepairOptions) (*VerifyReport, *RepairResult, error) {
	report, err := v.Verify(ctx, VerifyOptions{})
	if err != nil {
		return nil, nil, err
	}

	result := &RepairResult{}

	if opts.PruneDangling {
		for _, file := range report.DanglingRows {
			if err := v.catalog.DeleteFile(ctx, file.ID); err != nil {
				logger.Warn("failed to prune dangling row",
					logger.KeyFileID, file.ID,
					logger.KeyError, err)
				continue
			}
			result.PrunedRows++
		}
	}

	if opts.RemoveOrphans {
		for _, path := range report.OrphanedFiles {
			if err := os.Remove(path); err != nil {
				logger.Warn("failed to remove orphaned file",
					logger.KeyPath, path,
					logger.KeyError, err)
				continue
			}
			result.RemovedFiles++
		}
	}

	if opts.ClearIntents && v.journal != nil {
		for _, intent := range report.StaleIntents {
			if err := v.journal.End(ctx, intent.ID); err != nil {
				logger.Warn("failed to clear intent",
					logger.KeyIntent, intent.ID,
					logger.KeyError, err)
				continue
			}
			result.ClearedIntents++
		}
	}

	return report, result, nil
}

// ReportPendingIntents logs intents left behind by interrupted operations.
// Meant for startup, so a crash window is visible before anyone hits it.
func (v *Vault) ReportPendingIntents(ctx context.Context) {
	if v.journal == nil {
		return
	}

	intents, err := v.journal.List(ctx)
	if err != nil {
		logger.Warn("failed to list pending intents", logger.KeyError, err)
		return
	}
	if len(intents) == 0 {
		return
	}

	logger.Warn("found pending intents from interrupted operations; run verify",
		logger.KeyEntries, len(intents))
	for _, intent := range intents {
		logger.Warn("pending intent",
			logger.KeyIntent, intent.ID,
			"op", string(intent.Op),
			logger.KeyFileID, intent.FileID,
			logger.KeyPath, intent.Path)
	}
}

func sha256File(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
