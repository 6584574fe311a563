package vault

import (
	"context"
	"fmt"
	"os"

	"github.com/marmos91/cubby/internal/logger"
	"github.com/marmos91/cubby/internal/telemetry"
	"github.com/marmos91/cubby/pkg/catalog/models"
)

// CreateFolder makes the physical directory and then records the folder in
// the catalog, in that order: a crash in between leaves an empty directory,
// which is harmless, rather than a row pointing nowhere.
//
// Returns models.ErrDuplicateFolder when the path is already recorded.
func (v *Vault) CreateFolder(ctx context.Context, name, parentPath, description string) (*models.Folder, error) {
	if name == "" {
		return nil, fmt.Errorf("folder name is required")
	}

	path := models.JoinFolderPath(parentPath, name)
	ctx, span := telemetry.StartVaultSpan(ctx, "create_folder", telemetry.FolderPath(path))
	defer span.End()

	if err := os.MkdirAll(v.folderDir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create folder directory: %w", err)
	}

	folder, err := v.catalog.CreateFolder(ctx, name, parentPath, description)
	if err != nil {
		telemetry.RecordError(ctx, err)
		return nil, err
	}

	logger.Info("folder created", logger.KeyFolder, folder.Path)
	return folder, nil
}
