package store

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"mime"
	"os"
	"path/filepath"
	"time"

	"gorm.io/gorm"

	"github.com/marmos91/cubby/pkg/catalog/models"
)

// ============================================
// FILE OPERATIONS
// ============================================

func (s *GORMStore) AddFile(ctx context.Context, params AddFileParams) (*models.File, error) {
	category := params.Category
	if category == "" {
		category = models.DefaultCategoryName
	}
	createdBy := params.CreatedBy
	if createdBy == "" {
		createdBy = "user"
	}

	file := &models.File{
		Filename:         params.Filename,
		OriginalFilename: params.OriginalFilename,
		FilePath:         params.FilePath,
		FileSize:         params.FileSize,
		FileType:         detectMIMEType(params.Filename),
		FileHash:         hashFileContents(params.FilePath),
		FolderPath:       params.FolderPath,
		Category:         category,
		Tags:             models.EncodeTags(params.Tags),
		Description:      params.Description,
		UploadedAt:       time.Now(),
		CreatedBy:        createdBy,
	}

	if err := create(ctx, s.db, file, models.ErrDuplicateFile); err != nil {
		return nil, err
	}
	return file, nil
}

func (s *GORMStore) GetFile(ctx context.Context, id uint) (*models.File, error) {
	return getByField[models.File](ctx, s.db, "id", id, models.ErrFileNotFound)
}

func (s *GORMStore) GetFileByPath(ctx context.Context, path string) (*models.File, error) {
	return getByField[models.File](ctx, s.db, "file_path", path, models.ErrFileNotFound)
}

func (s *GORMStore) ListFiles(ctx context.Context, filter FileFilter) ([]*models.File, error) {
	q := s.db.WithContext(ctx)

	if filter.FolderPath != nil {
		q = q.Where("folder_path = ?", *filter.FolderPath)
	}
	if filter.Category != "" {
		q = q.Where("category = ?", filter.Category)
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		q = q.Where("filename LIKE ? OR description LIKE ? OR tags LIKE ?",
			pattern, pattern, pattern)
	}

	q = q.Order("uploaded_at DESC")
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit)
	}

	var files []*models.File
	if err := q.Find(&files).Error; err != nil {
		return nil, err
	}
	return files, nil
}

func (s *GORMStore) FindDuplicate(ctx context.Context, originalName, folderPath string) (*models.File, error) {
	var file models.File
	err := s.db.WithContext(ctx).
		Where("original_filename = ? AND folder_path = ?", originalName, folderPath).
		First(&file).Error
	if err != nil {
		return nil, convertNotFoundError(err, models.ErrFileNotFound)
	}
	return &file, nil
}

func (s *GORMStore) RecordAccess(ctx context.Context, id uint) error {
	result := s.db.WithContext(ctx).
		Model(&models.File{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"last_accessed": time.Now(),
			"access_count":  gorm.Expr("access_count + 1"),
		})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return models.ErrFileNotFound
	}
	return nil
}

func (s *GORMStore) UpdateFileCategory(ctx context.Context, id uint, category string) error {
	result := s.db.WithContext(ctx).
		Model(&models.File{}).
		Where("id = ?", id).
		Update("category", category)

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return models.ErrFileNotFound
	}
	return nil
}

func (s *GORMStore) UpdateFileFolder(ctx context.Context, id uint, folderPath, filePath string) error {
	result := s.db.WithContext(ctx).
		Model(&models.File{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"folder_path": folderPath,
			"file_path":   filePath,
		})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return models.ErrFileNotFound
	}
	return nil
}

func (s *GORMStore) DeleteFile(ctx context.Context, id uint) error {
	return deleteByField[models.File](ctx, s.db, "id", id, models.ErrFileNotFound)
}

// detectMIMEType derives the MIME type from the filename extension.
// Unknown extensions fall back to application/octet-stream.
func detectMIMEType(filename string) string {
	if mimeType := mime.TypeByExtension(filepath.Ext(filename)); mimeType != "" {
		return mimeType
	}
	return "application/octet-stream"
}

// hashFileContents computes the SHA-256 hex digest of the file at path.
// A payload that cannot be read back yields an empty hash rather than an
// error; the hash is integrity bookkeeping, not a gate.
func hashFileContents(path string) string {
	f, err := os.Open(path)
	if err != nil {
		return ""
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return ""
	}
	return hex.EncodeToString(h.Sum(nil))
}
