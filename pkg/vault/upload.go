package vault

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/marmos91/cubby/internal/bytesize"
	"github.com/marmos91/cubby/internal/logger"
	"github.com/marmos91/cubby/internal/telemetry"
	"github.com/marmos91/cubby/pkg/catalog/models"
	"github.com/marmos91/cubby/pkg/catalog/store"
	"github.com/marmos91/cubby/pkg/vault/journal"
)

// Outcome classifies what an upload did. There are exactly three states:
// the file was stored, the upload was skipped as a duplicate, or it failed.
type Outcome string

const (
	OutcomeSuccess Outcome = "success"
	OutcomeSkipped Outcome = "skipped"
	OutcomeFailure Outcome = "failure"
)

// UploadParams describes one incoming upload.
type UploadParams struct {
	// Content is the payload. It is consumed exactly once.
	Content io.Reader

	// OriginalName is the filename the upload arrived under. Required.
	OriginalName string

	// FolderPath is the logical destination folder; empty means the root.
	FolderPath string

	Category    string
	Description string
	Tags        []string
	CreatedBy   string

	// Replace controls what happens when a file with the same original
	// name already exists in the folder: false skips the upload, true
	// removes the existing file (bytes and record) first.
	Replace bool
}

// UploadResult reports an upload's outcome.
type UploadResult struct {
	Outcome Outcome `json:"outcome"`

	// Message is a human-readable reason. "duplicate" for skips, the
	// failure cause for failures, the effective stored filename note for
	// successes.
	Message string `json:"message"`

	// File is the catalog record, set only on success.
	File *models.File `json:"file,omitempty"`

	// TooLarge marks a failure caused by the payload size limit, so
	// callers can map it to a distinct error response.
	TooLarge bool `json:"-"`
}

// Upload stores a payload and records it in the catalog.
//
// The sequence is: duplicate check, optional replace, storage path
// resolution (numeric suffixing on collision), byte write, catalog insert.
// A configured MaxPayloadSize is enforced during the byte write; rejected
// payloads leave nothing on disk. Filesystem and catalog errors come back
// as a Failure outcome, never as a panic or a partial crash. There is no
// rollback: a replace that fails after removing the old file has lost it,
// and the journal intent left behind is what makes that visible.
func (v *Vault) Upload(ctx context.Context, params UploadParams) UploadResult {
	ctx, span := telemetry.StartVaultSpan(ctx, "upload",
		telemetry.Filename(params.OriginalName),
		telemetry.FolderPath(params.FolderPath))
	defer span.End()

	start := time.Now()
	res := v.upload(ctx, params)
	v.metrics.ObserveOperation("upload", string(res.Outcome), time.Since(start))

	telemetry.SetAttributes(ctx, telemetry.Outcome(string(res.Outcome)))
	if res.Outcome == OutcomeFailure {
		telemetry.RecordError(ctx, errors.New(res.Message))
	}
	return res
}

func (v *Vault) upload(ctx context.Context, p UploadParams) UploadResult {
	if p.OriginalName == "" {
		return UploadResult{Outcome: OutcomeFailure, Message: "missing filename"}
	}
	if p.Content == nil {
		return UploadResult{Outcome: OutcomeFailure, Message: "missing content"}
	}

	var (
		intentID string
		replaced bool
	)

	// Step 1: duplicate lookup by (original name, folder). Content hashes
	// are deliberately not consulted.
	existing, err := v.catalog.FindDuplicate(ctx, p.OriginalName, p.FolderPath)
	switch {
	case err == nil:
		if !p.Replace {
			logger.Info("upload skipped: duplicate",
				logger.KeyFilename, p.OriginalName,
				logger.KeyFolder, p.FolderPath)
			return UploadResult{Outcome: OutcomeSkipped, Message: "duplicate"}
		}

		// Replace: old bytes and row go first. The intent covers the
		// whole replace so a crash mid-way is detectable.
		replaced = true
		intentID = v.beginIntent(ctx, journal.Intent{
			Op:     journal.OpUpload,
			FileID: existing.ID,
			Path:   existing.FilePath,
		})
		if err := removePayload(existing.FilePath); err != nil {
			return UploadResult{Outcome: OutcomeFailure, Message: fmt.Sprintf("failed to remove existing file: %v", err)}
		}
		if err := v.catalog.DeleteFile(ctx, existing.ID); err != nil && !errors.Is(err, models.ErrFileNotFound) {
			return UploadResult{Outcome: OutcomeFailure, Message: fmt.Sprintf("failed to remove existing record: %v", err)}
		}
	case errors.Is(err, models.ErrFileNotFound):
		// No duplicate; proceed.
	default:
		return UploadResult{Outcome: OutcomeFailure, Message: fmt.Sprintf("duplicate lookup failed: %v", err)}
	}

	// Step 2: resolve a writable path, suffixing past whatever already
	// occupies the name on disk (rows or not).
	dir := v.folderDir(p.FolderPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return UploadResult{Outcome: OutcomeFailure, Message: fmt.Sprintf("failed to create folder: %v", err)}
	}

	storedName := p.OriginalName
	path := filepath.Join(dir, storedName)
	for n := 1; ; n++ {
		_, err := os.Stat(path)
		if errors.Is(err, fs.ErrNotExist) {
			break
		}
		if err != nil {
			return UploadResult{Outcome: OutcomeFailure, Message: fmt.Sprintf("failed to probe storage path: %v", err)}
		}
		storedName = suffixedName(p.OriginalName, n)
		path = filepath.Join(dir, storedName)
	}

	if intentID == "" {
		intentID = v.beginIntent(ctx, journal.Intent{Op: journal.OpUpload, Path: path})
	}

	// Step 3: bytes first, then the record.
	if _, err := writePayload(path, p.Content, v.maxPayload); err != nil {
		if errors.Is(err, errPayloadTooLarge) {
			// The partial file is already gone. A plain upload leaves no
			// trace so its intent can be cleared; a replace has lost the
			// old payload, so the intent stays for Verify.
			if !replaced {
				v.endIntent(ctx, intentID)
			}
			return UploadResult{
				Outcome:  OutcomeFailure,
				TooLarge: true,
				Message:  fmt.Sprintf("file exceeds the %s upload limit", bytesize.ByteSize(v.maxPayload)),
			}
		}
		return UploadResult{Outcome: OutcomeFailure, Message: fmt.Sprintf("failed to store file: %v", err)}
	}

	info, err := os.Stat(path)
	if err != nil {
		return UploadResult{Outcome: OutcomeFailure, Message: fmt.Sprintf("failed to stat stored file: %v", err)}
	}

	file, err := v.catalog.AddFile(ctx, store.AddFileParams{
		Filename:         storedName,
		OriginalFilename: p.OriginalName,
		FilePath:         path,
		FileSize:         info.Size(),
		FolderPath:       p.FolderPath,
		Category:         p.Category,
		Tags:             p.Tags,
		Description:      p.Description,
		CreatedBy:        p.CreatedBy,
	})
	if err != nil {
		return UploadResult{Outcome: OutcomeFailure, Message: fmt.Sprintf("failed to record file: %v", err)}
	}

	v.endIntent(ctx, intentID)
	v.metrics.RecordBytesWritten(info.Size())

	logger.Info("file uploaded",
		logger.KeyFileID, file.ID,
		logger.KeyFilename, storedName,
		logger.KeyFolder, p.FolderPath,
		logger.KeySize, info.Size())

	return UploadResult{
		Outcome: OutcomeSuccess,
		Message: fmt.Sprintf("stored as %s", storedName),
		File:    file,
	}
}
