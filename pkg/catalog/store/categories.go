package store

import (
	"context"
	"errors"
	"time"

	"github.com/marmos91/cubby/pkg/catalog/models"
)

// ============================================
// CATEGORY OPERATIONS
// ============================================

func (s *GORMStore) CreateCategory(ctx context.Context, name, color, description string) (*models.Category, error) {
	if color == "" {
		color = models.DefaultCategoryColor
	}

	category := &models.Category{
		Name:        name,
		Color:       color,
		Description: description,
		CreatedAt:   time.Now(),
	}

	if err := create(ctx, s.db, category, models.ErrDuplicateCategory); err != nil {
		return nil, err
	}
	return category, nil
}

func (s *GORMStore) GetCategory(ctx context.Context, name string) (*models.Category, error) {
	return getByField[models.Category](ctx, s.db, "name", name, models.ErrCategoryNotFound)
}

func (s *GORMStore) ListCategories(ctx context.Context) ([]*models.Category, error) {
	var categories []*models.Category
	err := s.db.WithContext(ctx).
		Order("name").
		Find(&categories).Error
	if err != nil {
		return nil, err
	}
	return categories, nil
}

func (s *GORMStore) EnsureDefaultCategory(ctx context.Context) error {
	_, err := s.CreateCategory(ctx,
		models.DefaultCategoryName,
		models.DefaultCategoryColor,
		models.DefaultCategoryDescription,
	)
	if errors.Is(err, models.ErrDuplicateCategory) {
		return nil
	}
	return err
}
