package models

import (
	"time"
)

// Folder is a named position in the storage tree.
//
// Path is derived from the parent path and the display name and is unique;
// the root is the empty path, so top-level folders have Path == Name.
// Folders are never deleted.
type Folder struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"not null;size:255" json:"name"`
	Path        string    `gorm:"uniqueIndex;not null;size:1024" json:"path"`
	ParentPath  string    `gorm:"size:1024;default:'';index" json:"parent_path"`
	Description string    `gorm:"default:''" json:"description"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// TableName returns the table name for Folder.
func (Folder) TableName() string {
	return "folders"
}

// JoinFolderPath derives a folder's path from its parent path and name.
// Children of the root (empty parent) take the bare name.
func JoinFolderPath(parentPath, name string) string {
	if parentPath == "" {
		return name
	}
	return parentPath + "/" + name
}
