package store

import (
	"context"

	"github.com/marmos91/cubby/pkg/catalog/models"
)

// ============================================
// STATS
// ============================================

// AggregateStats folds the files table into totals plus per-category and
// per-type-group counts. Grouping happens over the raw MIME type column and
// is bucketed in Go so both backends classify identically.
func (s *GORMStore) AggregateStats(ctx context.Context) (*Stats, error) {
	stats := &Stats{
		ByCategory: make(map[string]int64),
		ByType:     make(map[string]int64),
	}

	if err := s.db.WithContext(ctx).
		Model(&models.File{}).
		Count(&stats.TotalFiles).Error; err != nil {
		return nil, err
	}

	row := s.db.WithContext(ctx).
		Model(&models.File{}).
		Select("COALESCE(SUM(file_size), 0)").
		Row()
	if err := row.Scan(&stats.TotalBytes); err != nil {
		return nil, err
	}

	var byCategory []struct {
		Category string
		Count    int64
	}
	if err := s.db.WithContext(ctx).
		Model(&models.File{}).
		Select("category, COUNT(*) as count").
		Group("category").
		Scan(&byCategory).Error; err != nil {
		return nil, err
	}
	for _, row := range byCategory {
		stats.ByCategory[row.Category] = row.Count
	}

	var byType []struct {
		FileType string
		Count    int64
	}
	if err := s.db.WithContext(ctx).
		Model(&models.File{}).
		Select("file_type, COUNT(*) as count").
		Group("file_type").
		Scan(&byType).Error; err != nil {
		return nil, err
	}
	for _, row := range byType {
		stats.ByType[models.TypeGroupFor(row.FileType)] += row.Count
	}

	return stats, nil
}
