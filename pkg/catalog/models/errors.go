package models

import "errors"

// Common errors for catalog operations. Uniqueness violations surface as
// ErrDuplicate* and are rendered as conflict results at the boundary, never
// as crashes.
var (
	// File errors
	ErrFileNotFound  = errors.New("file not found")
	ErrDuplicateFile = errors.New("file path already exists")

	// Folder errors
	ErrFolderNotFound  = errors.New("folder not found")
	ErrDuplicateFolder = errors.New("folder already exists")

	// Category errors
	ErrCategoryNotFound  = errors.New("category not found")
	ErrDuplicateCategory = errors.New("category already exists")

	// User errors
	ErrUserNotFound  = errors.New("user not found")
	ErrDuplicateUser = errors.New("user already exists")

	// ErrProtectedUser is returned when deleting or demoting the default
	// admin account.
	ErrProtectedUser = errors.New("the default admin account cannot be modified")
)
