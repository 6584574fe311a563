package models

import (
	"encoding/json"
	"time"
)

// File is the metadata record for one stored file.
//
// The record and the bytes on disk are kept consistent by the vault: the
// catalog never touches the filesystem except to hash freshly written
// payloads at insert time. FilePath is unique across all records and points
// at the stored (possibly suffixed) filename under the storage root.
type File struct {
	ID               uint       `gorm:"primaryKey" json:"id"`
	Filename         string     `gorm:"not null;size:255" json:"filename"`
	OriginalFilename string     `gorm:"not null;size:255" json:"original_filename"`
	FilePath         string     `gorm:"uniqueIndex;not null;size:1024" json:"file_path"`
	FileSize         int64      `gorm:"not null" json:"file_size"`
	FileType         string     `gorm:"size:255" json:"file_type"`
	FileHash         string     `gorm:"size:64" json:"file_hash"` // SHA-256 hex; empty when the payload could not be read back
	FolderPath       string     `gorm:"size:1024;default:'';index" json:"folder_path"`
	Category         string     `gorm:"size:255;default:'Uncategorized';index" json:"category"`
	Tags             string     `gorm:"default:'[]'" json:"-"` // JSON-encoded string list, searched as text
	Description      string     `gorm:"default:''" json:"description"`
	UploadedAt       time.Time  `gorm:"autoCreateTime;index" json:"uploaded_at"`
	LastAccessed     *time.Time `json:"last_accessed,omitempty"`
	AccessCount      int64      `gorm:"default:0" json:"access_count"`
	CreatedBy        string     `gorm:"size:255;default:'user'" json:"created_by"`
}

// TableName returns the table name for File.
func (File) TableName() string {
	return "files"
}

// TagList decodes the JSON-encoded tags column. A malformed or empty column
// yields an empty list rather than an error; tags are display data.
func (f *File) TagList() []string {
	if f.Tags == "" {
		return []string{}
	}
	var tags []string
	if err := json.Unmarshal([]byte(f.Tags), &tags); err != nil {
		return []string{}
	}
	if tags == nil {
		return []string{}
	}
	return tags
}

// SetTagList encodes tags into the JSON text column, preserving order.
func (f *File) SetTagList(tags []string) error {
	if tags == nil {
		tags = []string{}
	}
	data, err := json.Marshal(tags)
	if err != nil {
		return err
	}
	f.Tags = string(data)
	return nil
}

// EncodeTags renders a tag list the way the tags column stores it.
func EncodeTags(tags []string) string {
	if tags == nil {
		tags = []string{}
	}
	data, err := json.Marshal(tags)
	if err != nil {
		return "[]"
	}
	return string(data)
}
