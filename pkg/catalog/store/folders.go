package store

import (
	"context"
	"time"

	"github.com/marmos91/cubby/pkg/catalog/models"
)

// ============================================
// FOLDER OPERATIONS
// ============================================

func (s *GORMStore) CreateFolder(ctx context.Context, name, parentPath, description string) (*models.Folder, error) {
	folder := &models.Folder{
		Name:        name,
		Path:        models.JoinFolderPath(parentPath, name),
		ParentPath:  parentPath,
		Description: description,
		CreatedAt:   time.Now(),
	}

	if err := create(ctx, s.db, folder, models.ErrDuplicateFolder); err != nil {
		return nil, err
	}
	return folder, nil
}

func (s *GORMStore) GetFolder(ctx context.Context, path string) (*models.Folder, error) {
	return getByField[models.Folder](ctx, s.db, "path", path, models.ErrFolderNotFound)
}

func (s *GORMStore) ListFolders(ctx context.Context, parentPath string) ([]*models.Folder, error) {
	var folders []*models.Folder
	err := s.db.WithContext(ctx).
		Where("parent_path = ?", parentPath).
		Order("name").
		Find(&folders).Error
	if err != nil {
		return nil, err
	}
	return folders, nil
}
