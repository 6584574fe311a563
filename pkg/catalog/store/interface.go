// Package store provides the catalog persistence layer.
//
// This package implements the Store interface for managing catalog data
// including file records, folders, categories, and users.
//
// Two backends are supported:
//   - SQLite (single-node, default)
//   - PostgreSQL (shared deployments)
package store

import (
	"context"
	"time"

	"github.com/marmos91/cubby/pkg/catalog/models"
)

// AddFileParams describes a freshly written payload to record.
//
// FilePath must point at the stored bytes: AddFile reads them back to
// compute the content hash. The MIME type is derived from the stored
// filename's extension.
type AddFileParams struct {
	// Filename is the stored (possibly suffixed) filename.
	Filename string

	// OriginalFilename is the name the file was uploaded under.
	OriginalFilename string

	// FilePath is the absolute path of the stored payload.
	FilePath string

	// FileSize is the payload size in bytes, as measured after the write.
	FileSize int64

	// FolderPath is the logical folder; empty string means the root.
	FolderPath string

	// Category defaults to the Uncategorized category when empty.
	Category string

	Tags        []string
	Description string

	// CreatedBy defaults to "user" when empty.
	CreatedBy string
}

// FileFilter selects file records. All set fields apply conjunctively.
type FileFilter struct {
	// FolderPath filters by exact folder match when non-nil. The empty
	// string is the root folder, which is distinct from no filter.
	FolderPath *string

	// Category filters by exact category name when non-empty.
	Category string

	// Search matches as a substring against the stored filename, the
	// description, or the tags text when non-empty.
	Search string

	// Limit truncates the result when positive.
	Limit int
}

// Stats is the aggregate view over all file records.
type Stats struct {
	TotalFiles int64            `json:"total_files"`
	TotalBytes int64            `json:"total_bytes"`
	ByCategory map[string]int64 `json:"by_category"`
	ByType     map[string]int64 `json:"by_type"`
}

// Store provides the catalog persistence interface.
//
// The store owns metadata only. The single exception is AddFile, which reads
// the just-written payload back to compute its content hash; everything else
// that touches the filesystem lives in the vault.
//
// Thread Safety: Implementations must be safe for concurrent use from
// multiple goroutines.
type Store interface {
	// ============================================
	// FILE OPERATIONS
	// ============================================

	// AddFile inserts a metadata row for a written payload.
	// The MIME type is computed from the filename extension (falling back to
	// application/octet-stream) and the content hash from the bytes at
	// FilePath; a hash read failure yields an empty hash, not an error.
	// Returns models.ErrDuplicateFile if the storage path is already recorded.
	AddFile(ctx context.Context, params AddFileParams) (*models.File, error)

	// GetFile returns a file record by id.
	// Returns models.ErrFileNotFound if no record has this id.
	GetFile(ctx context.Context, id uint) (*models.File, error)

	// GetFileByPath returns a file record by its unique storage path.
	// Returns models.ErrFileNotFound if no record has this path.
	GetFileByPath(ctx context.Context, path string) (*models.File, error)

	// ListFiles returns file records matching the filter, newest upload
	// first.
	ListFiles(ctx context.Context, filter FileFilter) ([]*models.File, error)

	// FindDuplicate returns the first record matching both the original
	// filename and the folder path. This name-based match is the only
	// duplicate detection; content hashes are not consulted.
	// Returns models.ErrFileNotFound when there is no match.
	FindDuplicate(ctx context.Context, originalName, folderPath string) (*models.File, error)

	// RecordAccess stamps last_accessed and increments the access counter.
	// Returns models.ErrFileNotFound if the record is absent; callers on
	// read paths may ignore that.
	RecordAccess(ctx context.Context, id uint) error

	// UpdateFileCategory reassigns a file's category.
	// Returns models.ErrFileNotFound if the record is absent.
	UpdateFileCategory(ctx context.Context, id uint, category string) error

	// UpdateFileFolder rewrites a file's folder and storage path after the
	// payload has been moved.
	// Returns models.ErrFileNotFound if the record is absent.
	UpdateFileFolder(ctx context.Context, id uint, folderPath, filePath string) error

	// DeleteFile removes a metadata row. It never touches the payload;
	// that is the vault's job.
	// Returns models.ErrFileNotFound if the record is absent.
	DeleteFile(ctx context.Context, id uint) error

	// ============================================
	// FOLDER OPERATIONS
	// ============================================

	// CreateFolder inserts a folder row. The path is derived from the
	// parent path and the name. The caller is responsible for the physical
	// directory.
	// Returns models.ErrDuplicateFolder on a path collision.
	CreateFolder(ctx context.Context, name, parentPath, description string) (*models.Folder, error)

	// GetFolder returns a folder by its unique path.
	// Returns models.ErrFolderNotFound if the folder doesn't exist.
	GetFolder(ctx context.Context, path string) (*models.Folder, error)

	// ListFolders returns the folders directly under parentPath, ordered
	// by name. The empty string lists the top level.
	ListFolders(ctx context.Context, parentPath string) ([]*models.Folder, error)

	// ============================================
	// CATEGORY OPERATIONS
	// ============================================

	// CreateCategory inserts a category. The color defaults to gray when
	// empty.
	// Returns models.ErrDuplicateCategory if the name is taken.
	CreateCategory(ctx context.Context, name, color, description string) (*models.Category, error)

	// GetCategory returns a category by name.
	// Returns models.ErrCategoryNotFound if the category doesn't exist.
	GetCategory(ctx context.Context, name string) (*models.Category, error)

	// ListCategories returns all categories ordered by name.
	ListCategories(ctx context.Context) ([]*models.Category, error)

	// EnsureDefaultCategory seeds the Uncategorized category if missing.
	EnsureDefaultCategory(ctx context.Context) error

	// ============================================
	// USER OPERATIONS
	// ============================================

	// GetUser returns a user by username.
	// Returns models.ErrUserNotFound if the user doesn't exist.
	GetUser(ctx context.Context, username string) (*models.User, error)

	// GetUserByID returns a user by their unique ID (UUID).
	// Returns models.ErrUserNotFound if no user has this ID.
	GetUserByID(ctx context.Context, id string) (*models.User, error)

	// UserExists reports whether a username is taken.
	UserExists(ctx context.Context, username string) (bool, error)

	// ListUsers returns all users.
	ListUsers(ctx context.Context) ([]*models.User, error)

	// CreateUser creates a user from an assembled record.
	// The user ID will be generated if empty. Returns the generated ID.
	// Returns models.ErrDuplicateUser if the username is taken.
	CreateUser(ctx context.Context, user *models.User) (string, error)

	// RegisterUser validates and hashes the password, then creates the
	// user.
	// Returns models.ErrDuplicateUser if the username is taken.
	RegisterUser(ctx context.Context, username, password, email string, isAdmin bool) (*models.User, error)

	// ValidateCredentials verifies username/password credentials.
	// Returns the user if credentials are valid.
	// Returns models.ErrInvalidCredentials for an unknown user or a wrong
	// password; the two cases are indistinguishable to the caller.
	ValidateCredentials(ctx context.Context, username, password string) (*models.User, error)

	// RecordLogin updates the user's last login timestamp.
	// Returns models.ErrUserNotFound if the user doesn't exist.
	RecordLogin(ctx context.Context, username string, timestamp time.Time) error

	// ChangePassword verifies the old password before setting the new one.
	// Returns models.ErrInvalidCredentials if the old password is wrong.
	ChangePassword(ctx context.Context, username, oldPassword, newPassword string) error

	// SetPassword sets a user's password without verifying the old one.
	// For administrative resets.
	// Returns models.ErrUserNotFound if the user doesn't exist.
	SetPassword(ctx context.Context, username, newPassword string) error

	// DeleteUser deletes a user by username.
	// Returns models.ErrProtectedUser when targeting the default admin and
	// models.ErrUserNotFound when the user doesn't exist.
	DeleteUser(ctx context.Context, username string) error

	// SetUserAdmin grants or revokes the admin flag.
	// Returns models.ErrProtectedUser when demoting the default admin.
	SetUserAdmin(ctx context.Context, username string, isAdmin bool) error

	// EnsureAdminUser creates the default admin account if missing and
	// returns the password it was created with (from CUBBY_ADMIN_PASSWORD
	// or freshly generated). Returns an empty password when the account
	// already existed.
	EnsureAdminUser(ctx context.Context) (string, error)

	// ============================================
	// STATS
	// ============================================

	// AggregateStats computes totals and per-category/per-type-group
	// counts over all file records.
	AggregateStats(ctx context.Context) (*Stats, error)

	// ============================================
	// HEALTH & LIFECYCLE
	// ============================================

	// Healthcheck pings the underlying database.
	Healthcheck(ctx context.Context) error

	// Close releases the database connection.
	Close() error
}
