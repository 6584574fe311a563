// Package models defines the GORM entities persisted in the catalog:
// files, folders, categories and users.
package models

// AllModels lists every entity the store auto-migrates.
func AllModels() []any {
	return []any{
		&File{},
		&Folder{},
		&Category{},
		&User{},
	}
}
