package models

import "strings"

// Type groups bucket MIME types for aggregate reporting. The names and the
// match order below are a stable external interface; dashboards key on them.
const (
	TypeGroupImages        = "Images"
	TypeGroupVideos        = "Videos"
	TypeGroupAudio         = "Audio"
	TypeGroupPDFs          = "PDFs"
	TypeGroupSpreadsheets  = "Spreadsheets"
	TypeGroupPresentations = "Presentations"
	TypeGroupDocuments     = "Documents"
	TypeGroupTextFiles     = "Text Files"
	TypeGroupOther         = "Other"
)

// TypeGroupFor classifies a MIME type string into its display group.
// Rules apply in priority order; the first match wins.
func TypeGroupFor(mimeType string) string {
	switch {
	case strings.HasPrefix(mimeType, "image/"):
		return TypeGroupImages
	case strings.HasPrefix(mimeType, "video/"):
		return TypeGroupVideos
	case strings.HasPrefix(mimeType, "audio/"):
		return TypeGroupAudio
	case mimeType == "application/pdf":
		return TypeGroupPDFs
	case strings.HasPrefix(mimeType, "application/vnd.ms-excel"),
		strings.HasPrefix(mimeType, "application/vnd.openxmlformats-officedocument.spreadsheetml"):
		return TypeGroupSpreadsheets
	case strings.HasPrefix(mimeType, "application/vnd.ms-powerpoint"),
		strings.HasPrefix(mimeType, "application/vnd.openxmlformats-officedocument.presentationml"):
		return TypeGroupPresentations
	case strings.HasPrefix(mimeType, "application/msword"),
		strings.HasPrefix(mimeType, "application/vnd.openxmlformats-officedocument.wordprocessingml"):
		return TypeGroupDocuments
	case strings.HasPrefix(mimeType, "text/"):
		return TypeGroupTextFiles
	default:
		return TypeGroupOther
	}
}
