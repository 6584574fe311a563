package vault

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/marmos91/cubby/internal/logger"
	"github.com/marmos91/cubby/internal/telemetry"
	"github.com/marmos91/cubby/pkg/catalog/models"
)

// Bundle packs the payloads behind ids into a zip archive.
//
// Ids whose row or bytes are missing are skipped silently. Entries are
// named by original filename verbatim; two files sharing an original name
// produce same-named entries, with the later one winning in most
// extractors. Each bundled file gets an access stamp.
//
// Returns (nil, nil) when nothing could be added.
func (v *Vault) Bundle(ctx context.Context, ids []uint) ([]byte, error) {
	ctx, span := telemetry.StartVaultSpan(ctx, "bundle", telemetry.EntryCount(len(ids)))
	defer span.End()

	start := time.Now()
	data, err := v.bundle(ctx, ids)
	outcome := "success"
	if err != nil {
		outcome = "failure"
		telemetry.RecordError(ctx, err)
	}
	v.metrics.ObserveOperation("bundle", outcome, time.Since(start))
	v.metrics.RecordBytesServed(int64(len(data)))
	return data, err
}

func (v *Vault) bundle(ctx context.Context, ids []uint) ([]byte, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	added := 0
	for _, id := range ids {
		file, err := v.catalog.GetFile(ctx, id)
		if err != nil {
			if errors.Is(err, models.ErrFileNotFound) {
				continue
			}
			return nil, fmt.Errorf("failed to look up file %d: %w", id, err)
		}

		data, err := os.ReadFile(file.FilePath)
		if err != nil {
			logger.Debug("bundle skipping unreadable payload",
				logger.KeyFileID, id,
				logger.KeyPath, file.FilePath,
				logger.KeyError, err)
			continue
		}

		w, err := zw.Create(file.OriginalFilename)
		if err != nil {
			return nil, fmt.Errorf("failed to create archive entry: %w", err)
		}
		if _, err := w.Write(data); err != nil {
			return nil, fmt.Errorf("failed to write archive entry: %w", err)
		}

		if err := v.catalog.RecordAccess(ctx, id); err != nil {
			logger.Warn("failed to record access",
				logger.KeyFileID, id,
				logger.KeyError, err)
		}
		added++
	}

	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize archive: %w", err)
	}

	if added == 0 {
		return nil, nil
	}

	logger.Info("bundle created", logger.KeyEntries, added, logger.KeySize, buf.Len())
	return buf.Bytes(), nil
}
