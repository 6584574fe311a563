package vault

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/marmos91/cubby/internal/logger"
	"github.com/marmos91/cubby/internal/telemetry"
	"github.com/marmos91/cubby/pkg/catalog/models"
	"github.com/marmos91/cubby/pkg/vault/journal"
)

// Move relocates a file's payload into another folder and rewrites its
// catalog row. The destination directory is created if missing. Bytes move
// first; if that fails the row is left untouched and the error is
// propagated. A crash after the byte move leaves the intent behind for
// Verify to report.
//
// Returns models.ErrFileNotFound if no record has this id.
func (v *Vault) Move(ctx context.Context, id uint, newFolderPath string) error {
	ctx, span := telemetry.StartVaultSpan(ctx, "move",
		telemetry.FileID(id),
		telemetry.FolderPath(newFolderPath))
	defer span.End()

	start := time.Now()
	err := v.move(ctx, id, newFolderPath)
	outcome := "success"
	if err != nil {
		outcome = "failure"
		telemetry.RecordError(ctx, err)
	}
	v.metrics.ObserveOperation("move", outcome, time.Since(start))
	return err
}

func (v *Vault) move(ctx context.Context, id uint, newFolderPath string) error {
	file, err := v.catalog.GetFile(ctx, id)
	if err != nil {
		return err
	}

	dir := v.folderDir(newFolderPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create destination folder: %w", err)
	}
	newPath := filepath.Join(dir, file.Filename)

	intentID := v.beginIntent(ctx, journal.Intent{
		Op:      journal.OpMove,
		FileID:  file.ID,
		Path:    file.FilePath,
		NewPath: newPath,
	})

	if err := os.Rename(file.FilePath, newPath); err != nil {
		// Nothing moved; the intent has no inconsistency to mark.
		v.endIntent(ctx, intentID)
		return fmt.Errorf("failed to move file: %w", err)
	}

	if err := v.catalog.UpdateFileFolder(ctx, id, newFolderPath, newPath); err != nil {
		// Bytes moved, row stale. The intent stays so Verify can see it.
		return fmt.Errorf("failed to update file record: %w", err)
	}

	v.endIntent(ctx, intentID)

	logger.Info("file moved",
		logger.KeyFileID, id,
		logger.KeyOldPath, file.FilePath,
		logger.KeyNewPath, newPath)
	return nil
}

// Delete removes a file's payload and its catalog row. A payload already
// gone from disk is fine; a payload that will not delete is logged and the
// row is removed anyway.
//
// Returns models.ErrFileNotFound if no record has this id.
func (v *Vault) Delete(ctx context.Context, id uint) error {
	ctx, span := telemetry.StartVaultSpan(ctx, "delete", telemetry.FileID(id))
	defer span.End()

	start := time.Now()
	err := v.delete(ctx, id)
	outcome := "success"
	if err != nil {
		outcome = "failure"
		telemetry.RecordError(ctx, err)
	}
	v.metrics.ObserveOperation("delete", outcome, time.Since(start))
	return err
}

func (v *Vault) delete(ctx context.Context, id uint) error {
	file, err := v.catalog.GetFile(ctx, id)
	if err != nil {
		return err
	}

	intentID := v.beginIntent(ctx, journal.Intent{
		Op:     journal.OpDelete,
		FileID: file.ID,
		Path:   file.FilePath,
	})

	if err := removePayload(file.FilePath); err != nil {
		// Best effort: the row still goes, the stranded payload shows up
		// as an orphan in Verify.
		logger.Warn("failed to remove payload",
			logger.KeyFileID, id,
			logger.KeyPath, file.FilePath,
			logger.KeyError, err)
	}

	if err := v.catalog.DeleteFile(ctx, id); err != nil && !errors.Is(err, models.ErrFileNotFound) {
		return fmt.Errorf("failed to delete file record: %w", err)
	}

	v.endIntent(ctx, intentID)

	logger.Info("file deleted",
		logger.KeyFileID, id,
		logger.KeyPath, file.FilePath)
	return nil
}

// Download returns a file's record and payload, stamping an access on the
// way out.
//
// Returns models.ErrFileNotFound if no record has this id, and
// ErrMissingPayload if the record exists but its bytes are gone.
func (v *Vault) Download(ctx context.Context, id uint) (*models.File, []byte, error) {
	ctx, span := telemetry.StartVaultSpan(ctx, "download", telemetry.FileID(id))
	defer span.End()

	start := time.Now()
	file, data, err := v.download(ctx, id)
	outcome := "success"
	if err != nil {
		outcome = "failure"
		telemetry.RecordError(ctx, err)
	}
	telemetry.SetAttributes(ctx, telemetry.FileSize(int64(len(data))))
	v.metrics.ObserveOperation("download", outcome, time.Since(start))
	v.metrics.RecordBytesServed(int64(len(data)))
	return file, data, err
}

func (v *Vault) download(ctx context.Context, id uint) (*models.File, []byte, error) {
	file, err := v.catalog.GetFile(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	data, err := os.ReadFile(file.FilePath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil, fmt.Errorf("%w: %s", ErrMissingPayload, file.FilePath)
		}
		return nil, nil, fmt.Errorf("failed to read payload: %w", err)
	}

	// Access bookkeeping is display data; a failure here must not fail
	// the download.
	if err := v.catalog.RecordAccess(ctx, id); err != nil {
		logger.Warn("failed to record access",
			logger.KeyFileID, id,
			logger.KeyError, err)
	}

	return file, data, nil
}
