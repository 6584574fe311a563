package models

import (
	"time"
)

// Default category seeded at store initialization. Files that are not
// assigned a category land here.
const (
	DefaultCategoryName        = "Uncategorized"
	DefaultCategoryColor       = "#808080"
	DefaultCategoryDescription = "Default category for files"
)

// Category labels files for browsing and aggregate stats. Categories are
// never deleted.
type Category struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"uniqueIndex;not null;size:255" json:"name"`
	Color       string    `gorm:"size:7;default:'#808080'" json:"color"`
	Description string    `gorm:"default:''" json:"description"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// TableName returns the table name for Category.
func (Category) TableName() string {
	return "categories"
}
