//go:build integration

package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/marmos91/cubby/pkg/catalog/models"
)

// createTestStore creates an in-memory SQLite store for testing.
func createTestStore(t *testing.T) *GORMStore {
	t.Helper()
	store, err := New(&Config{
		Type: DatabaseTypeSQLite,
		SQLite: SQLiteConfig{
			Path: ":memory:",
		},
	})
	if err != nil {
		t.Fatalf("failed to create test store: %v", err)
	}
	return store
}

// writePayload writes content to a fresh file under dir and returns its path.
func writePayload(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write payload: %v", err)
	}
	return path
}

func TestNew(t *testing.T) {
	t.Run("default config uses sqlite", func(t *testing.T) {
		config := &Config{}
		config.ApplyDefaults()

		if config.Type != DatabaseTypeSQLite {
			t.Errorf("expected SQLite, got %s", config.Type)
		}
	})

	t.Run("invalid config returns error", func(t *testing.T) {
		config := &Config{
			Type: "invalid",
		}
		_, err := New(config)
		if err == nil {
			t.Error("expected error for invalid config")
		}
	})

	t.Run("creates in-memory store", func(t *testing.T) {
		store := createTestStore(t)
		defer store.Close()

		if err := store.Healthcheck(context.Background()); err != nil {
			t.Errorf("healthcheck failed: %v", err)
		}
	})
}

func TestFileOperations(t *testing.T) {
	store := createTestStore(t)
	defer store.Close()
	ctx := context.Background()
	dir := t.TempDir()

	var fileID uint

	t.Run("add file", func(t *testing.T) {
		path := writePayload(t, dir, "report.pdf", "hello")

		file, err := store.AddFile(ctx, AddFileParams{
			Filename:         "report.pdf",
			OriginalFilename: "report.pdf",
			FilePath:         path,
			FileSize:         5,
			FolderPath:       "",
			Category:         "",
			Tags:             []string{"work"},
			Description:      "quarterly report",
		})
		if err != nil {
			t.Fatalf("failed to add file: %v", err)
		}
		if file.ID == 0 {
			t.Error("expected non-zero file ID")
		}
		if file.FileType != "application/pdf" {
			t.Errorf("expected application/pdf, got %q", file.FileType)
		}
		// sha256("hello")
		wantHash := "2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824"
		if file.FileHash != wantHash {
			t.Errorf("expected hash %s, got %s", wantHash, file.FileHash)
		}
		if file.Category != models.DefaultCategoryName {
			t.Errorf("expected default category, got %q", file.Category)
		}
		if file.CreatedBy != "user" {
			t.Errorf("expected created_by 'user', got %q", file.CreatedBy)
		}
		fileID = file.ID
	})

	t.Run("add file with unreadable payload keeps empty hash", func(t *testing.T) {
		file, err := store.AddFile(ctx, AddFileParams{
			Filename:         "ghost.bin",
			OriginalFilename: "ghost.bin",
			FilePath:         filepath.Join(dir, "does-not-exist.bin"),
			FileSize:         0,
		})
		if err != nil {
			t.Fatalf("failed to add file: %v", err)
		}
		if file.FileHash != "" {
			t.Errorf("expected empty hash, got %q", file.FileHash)
		}
		if file.FileType != "application/octet-stream" {
			t.Errorf("expected application/octet-stream, got %q", file.FileType)
		}
	})

	t.Run("duplicate path fails", func(t *testing.T) {
		path := filepath.Join(dir, "report.pdf")
		_, err := store.AddFile(ctx, AddFileParams{
			Filename:         "report.pdf",
			OriginalFilename: "report.pdf",
			FilePath:         path,
			FileSize:         5,
		})
		if !errors.Is(err, models.ErrDuplicateFile) {
			t.Errorf("expected ErrDuplicateFile, got %v", err)
		}
	})

	t.Run("get file", func(t *testing.T) {
		file, err := store.GetFile(ctx, fileID)
		if err != nil {
			t.Fatalf("failed to get file: %v", err)
		}
		if file.Filename != "report.pdf" {
			t.Errorf("expected filename 'report.pdf', got %q", file.Filename)
		}
		tags := file.TagList()
		if len(tags) != 1 || tags[0] != "work" {
			t.Errorf("expected tags [work], got %v", tags)
		}
	})

	t.Run("get file not found", func(t *testing.T) {
		_, err := store.GetFile(ctx, 99999)
		if !errors.Is(err, models.ErrFileNotFound) {
			t.Errorf("expected ErrFileNotFound, got %v", err)
		}
	})

	t.Run("get file by path", func(t *testing.T) {
		file, err := store.GetFileByPath(ctx, filepath.Join(dir, "report.pdf"))
		if err != nil {
			t.Fatalf("failed to get file by path: %v", err)
		}
		if file.ID != fileID {
			t.Errorf("expected ID %d, got %d", fileID, file.ID)
		}
	})

	t.Run("find duplicate", func(t *testing.T) {
		file, err := store.FindDuplicate(ctx, "report.pdf", "")
		if err != nil {
			t.Fatalf("failed to find duplicate: %v", err)
		}
		if file.ID != fileID {
			t.Errorf("expected ID %d, got %d", fileID, file.ID)
		}

		_, err = store.FindDuplicate(ctx, "report.pdf", "archive")
		if !errors.Is(err, models.ErrFileNotFound) {
			t.Errorf("expected ErrFileNotFound for other folder, got %v", err)
		}
	})

	t.Run("record access increments counter", func(t *testing.T) {
		if err := store.RecordAccess(ctx, fileID); err != nil {
			t.Fatalf("failed to record access: %v", err)
		}
		if err := store.RecordAccess(ctx, fileID); err != nil {
			t.Fatalf("failed to record access: %v", err)
		}

		file, _ := store.GetFile(ctx, fileID)
		if file.AccessCount != 2 {
			t.Errorf("expected access count 2, got %d", file.AccessCount)
		}
		if file.LastAccessed == nil {
			t.Error("expected last_accessed to be set")
		}
	})

	t.Run("record access not found", func(t *testing.T) {
		err := store.RecordAccess(ctx, 99999)
		if !errors.Is(err, models.ErrFileNotFound) {
			t.Errorf("expected ErrFileNotFound, got %v", err)
		}
	})

	t.Run("update category", func(t *testing.T) {
		if err := store.UpdateFileCategory(ctx, fileID, "Work"); err != nil {
			t.Fatalf("failed to update category: %v", err)
		}
		file, _ := store.GetFile(ctx, fileID)
		if file.Category != "Work" {
			t.Errorf("expected category 'Work', got %q", file.Category)
		}

		err := store.UpdateFileCategory(ctx, 99999, "Work")
		if !errors.Is(err, models.ErrFileNotFound) {
			t.Errorf("expected ErrFileNotFound, got %v", err)
		}
	})

	t.Run("update folder rewrites both columns", func(t *testing.T) {
		newPath := filepath.Join(dir, "archive", "report.pdf")
		if err := store.UpdateFileFolder(ctx, fileID, "archive", newPath); err != nil {
			t.Fatalf("failed to update folder: %v", err)
		}
		file, _ := store.GetFile(ctx, fileID)
		if file.FolderPath != "archive" {
			t.Errorf("expected folder 'archive', got %q", file.FolderPath)
		}
		if file.FilePath != newPath {
			t.Errorf("expected path %q, got %q", newPath, file.FilePath)
		}
	})

	t.Run("delete file", func(t *testing.T) {
		if err := store.DeleteFile(ctx, fileID); err != nil {
			t.Fatalf("failed to delete file: %v", err)
		}
		_, err := store.GetFile(ctx, fileID)
		if !errors.Is(err, models.ErrFileNotFound) {
			t.Errorf("expected ErrFileNotFound after delete, got %v", err)
		}
	})

	t.Run("delete file not found", func(t *testing.T) {
		err := store.DeleteFile(ctx, 99999)
		if !errors.Is(err, models.ErrFileNotFound) {
			t.Errorf("expected ErrFileNotFound, got %v", err)
		}
	})
}

func TestListFiles(t *testing.T) {
	store := createTestStore(t)
	defer store.Close()
	ctx := context.Background()
	dir := t.TempDir()

	add := func(name, folder, category, description string, tags []string) *models.File {
		t.Helper()
		path := writePayload(t, dir, name, "content of "+name)
		file, err := store.AddFile(ctx, AddFileParams{
			Filename:         name,
			OriginalFilename: name,
			FilePath:         path,
			FileSize:         int64(len("content of " + name)),
			FolderPath:       folder,
			Category:         category,
			Tags:             tags,
			Description:      description,
		})
		if err != nil {
			t.Fatalf("failed to add %s: %v", name, err)
		}
		return file
	}

	oldest := add("notes.txt", "", "Notes", "meeting notes", []string{"meetings"})
	add("photo.png", "pictures", "Media", "", []string{"holiday"})
	newest := add("song.mp3", "", "Media", "", nil)

	// Spread the upload timestamps so ordering is deterministic.
	backdate := func(id uint, d time.Duration) {
		t.Helper()
		err := store.DB().Model(&models.File{}).Where("id = ?", id).
			Update("uploaded_at", time.Now().Add(d)).Error
		if err != nil {
			t.Fatalf("failed to backdate file %d: %v", id, err)
		}
	}
	backdate(oldest.ID, -2*time.Hour)
	backdate(newest.ID, -1*time.Hour)

	t.Run("no filter returns all newest first", func(t *testing.T) {
		files, err := store.ListFiles(ctx, FileFilter{})
		if err != nil {
			t.Fatalf("failed to list files: %v", err)
		}
		if len(files) != 3 {
			t.Fatalf("expected 3 files, got %d", len(files))
		}
		if files[0].Filename != "photo.png" {
			t.Errorf("expected newest file first, got %q", files[0].Filename)
		}
		if files[2].Filename != "notes.txt" {
			t.Errorf("expected oldest file last, got %q", files[2].Filename)
		}
	})

	t.Run("root folder filter excludes subfolders", func(t *testing.T) {
		root := ""
		files, err := store.ListFiles(ctx, FileFilter{FolderPath: &root})
		if err != nil {
			t.Fatalf("failed to list files: %v", err)
		}
		if len(files) != 2 {
			t.Errorf("expected 2 root files, got %d", len(files))
		}
	})

	t.Run("folder filter", func(t *testing.T) {
		folder := "pictures"
		files, err := store.ListFiles(ctx, FileFilter{FolderPath: &folder})
		if err != nil {
			t.Fatalf("failed to list files: %v", err)
		}
		if len(files) != 1 || files[0].Filename != "photo.png" {
			t.Errorf("expected [photo.png], got %d files", len(files))
		}
	})

	t.Run("category filter", func(t *testing.T) {
		files, err := store.ListFiles(ctx, FileFilter{Category: "Media"})
		if err != nil {
			t.Fatalf("failed to list files: %v", err)
		}
		if len(files) != 2 {
			t.Errorf("expected 2 Media files, got %d", len(files))
		}
	})

	t.Run("search matches filename", func(t *testing.T) {
		files, err := store.ListFiles(ctx, FileFilter{Search: "photo"})
		if err != nil {
			t.Fatalf("failed to list files: %v", err)
		}
		if len(files) != 1 || files[0].Filename != "photo.png" {
			t.Errorf("expected [photo.png], got %d files", len(files))
		}
	})

	t.Run("search matches description", func(t *testing.T) {
		files, err := store.ListFiles(ctx, FileFilter{Search: "meeting"})
		if err != nil {
			t.Fatalf("failed to list files: %v", err)
		}
		if len(files) != 1 || files[0].Filename != "notes.txt" {
			t.Errorf("expected [notes.txt], got %d files", len(files))
		}
	})

	t.Run("search matches tags", func(t *testing.T) {
		files, err := store.ListFiles(ctx, FileFilter{Search: "holiday"})
		if err != nil {
			t.Fatalf("failed to list files: %v", err)
		}
		if len(files) != 1 || files[0].Filename != "photo.png" {
			t.Errorf("expected [photo.png], got %d files", len(files))
		}
	})

	t.Run("limit truncates", func(t *testing.T) {
		files, err := store.ListFiles(ctx, FileFilter{Limit: 1})
		if err != nil {
			t.Fatalf("failed to list files: %v", err)
		}
		if len(files) != 1 {
			t.Errorf("expected 1 file, got %d", len(files))
		}
	})

	t.Run("conjunctive filters", func(t *testing.T) {
		root := ""
		files, err := store.ListFiles(ctx, FileFilter{FolderPath: &root, Category: "Media"})
		if err != nil {
			t.Fatalf("failed to list files: %v", err)
		}
		if len(files) != 1 || files[0].Filename != "song.mp3" {
			t.Errorf("expected [song.mp3], got %d files", len(files))
		}
	})
}

func TestFolderOperations(t *testing.T) {
	store := createTestStore(t)
	defer store.Close()
	ctx := context.Background()

	t.Run("create folder", func(t *testing.T) {
		folder, err := store.CreateFolder(ctx, "documents", "", "")
		if err != nil {
			t.Fatalf("failed to create folder: %v", err)
		}
		if folder.Path != "documents" {
			t.Errorf("expected path 'documents', got %q", folder.Path)
		}
	})

	t.Run("create nested folder", func(t *testing.T) {
		folder, err := store.CreateFolder(ctx, "taxes", "documents", "tax returns")
		if err != nil {
			t.Fatalf("failed to create folder: %v", err)
		}
		if folder.Path != "documents/taxes" {
			t.Errorf("expected path 'documents/taxes', got %q", folder.Path)
		}
	})

	t.Run("duplicate folder fails", func(t *testing.T) {
		_, err := store.CreateFolder(ctx, "documents", "", "")
		if !errors.Is(err, models.ErrDuplicateFolder) {
			t.Errorf("expected ErrDuplicateFolder, got %v", err)
		}
	})

	t.Run("get folder", func(t *testing.T) {
		folder, err := store.GetFolder(ctx, "documents/taxes")
		if err != nil {
			t.Fatalf("failed to get folder: %v", err)
		}
		if folder.ParentPath != "documents" {
			t.Errorf("expected parent 'documents', got %q", folder.ParentPath)
		}
	})

	t.Run("get folder not found", func(t *testing.T) {
		_, err := store.GetFolder(ctx, "nope")
		if !errors.Is(err, models.ErrFolderNotFound) {
			t.Errorf("expected ErrFolderNotFound, got %v", err)
		}
	})

	t.Run("list folders ordered by name", func(t *testing.T) {
		if _, err := store.CreateFolder(ctx, "archive", "", ""); err != nil {
			t.Fatalf("failed to create folder: %v", err)
		}

		folders, err := store.ListFolders(ctx, "")
		if err != nil {
			t.Fatalf("failed to list folders: %v", err)
		}
		if len(folders) != 2 {
			t.Fatalf("expected 2 top-level folders, got %d", len(folders))
		}
		if folders[0].Name != "archive" || folders[1].Name != "documents" {
			t.Errorf("expected [archive documents], got [%s %s]", folders[0].Name, folders[1].Name)
		}
	})

	t.Run("list folders exact parent match", func(t *testing.T) {
		folders, err := store.ListFolders(ctx, "documents")
		if err != nil {
			t.Fatalf("failed to list folders: %v", err)
		}
		if len(folders) != 1 || folders[0].Name != "taxes" {
			t.Errorf("expected [taxes], got %d folders", len(folders))
		}
	})
}

func TestCategoryOperations(t *testing.T) {
	store := createTestStore(t)
	defer store.Close()
	ctx := context.Background()

	t.Run("default category seeded at startup", func(t *testing.T) {
		category, err := store.GetCategory(ctx, models.DefaultCategoryName)
		if err != nil {
			t.Fatalf("expected default category to exist: %v", err)
		}
		if category.Color != models.DefaultCategoryColor {
			t.Errorf("expected color %q, got %q", models.DefaultCategoryColor, category.Color)
		}
	})

	t.Run("ensure default is idempotent", func(t *testing.T) {
		if err := store.EnsureDefaultCategory(ctx); err != nil {
			t.Errorf("expected ensure to be idempotent: %v", err)
		}
	})

	t.Run("create category", func(t *testing.T) {
		category, err := store.CreateCategory(ctx, "Work", "#ff0000", "work files")
		if err != nil {
			t.Fatalf("failed to create category: %v", err)
		}
		if category.Color != "#ff0000" {
			t.Errorf("expected color '#ff0000', got %q", category.Color)
		}
	})

	t.Run("create category with default color", func(t *testing.T) {
		category, err := store.CreateCategory(ctx, "Misc", "", "")
		if err != nil {
			t.Fatalf("failed to create category: %v", err)
		}
		if category.Color != models.DefaultCategoryColor {
			t.Errorf("expected default color, got %q", category.Color)
		}
	})

	t.Run("duplicate category fails", func(t *testing.T) {
		_, err := store.CreateCategory(ctx, "Work", "", "")
		if !errors.Is(err, models.ErrDuplicateCategory) {
			t.Errorf("expected ErrDuplicateCategory, got %v", err)
		}
	})

	t.Run("list categories ordered by name", func(t *testing.T) {
		categories, err := store.ListCategories(ctx)
		if err != nil {
			t.Fatalf("failed to list categories: %v", err)
		}
		if len(categories) != 3 {
			t.Fatalf("expected 3 categories, got %d", len(categories))
		}
		if categories[0].Name != "Misc" || categories[2].Name != "Work" {
			t.Errorf("unexpected order: [%s %s %s]",
				categories[0].Name, categories[1].Name, categories[2].Name)
		}
	})
}

func TestUserOperations(t *testing.T) {
	store := createTestStore(t)
	defer store.Close()
	ctx := context.Background()

	t.Run("register user", func(t *testing.T) {
		user, err := store.RegisterUser(ctx, "alice", "correct horse battery", "alice@example.com", false)
		if err != nil {
			t.Fatalf("failed to register user: %v", err)
		}
		if user.ID == "" {
			t.Error("expected non-empty user ID")
		}
		if user.PasswordHash == "correct horse battery" {
			t.Error("password must be stored hashed")
		}
	})

	t.Run("register rejects short password", func(t *testing.T) {
		_, err := store.RegisterUser(ctx, "bob", "short", "", false)
		if !errors.Is(err, models.ErrPasswordTooShort) {
			t.Errorf("expected ErrPasswordTooShort, got %v", err)
		}
	})

	t.Run("duplicate user fails", func(t *testing.T) {
		_, err := store.RegisterUser(ctx, "alice", "another password", "", false)
		if !errors.Is(err, models.ErrDuplicateUser) {
			t.Errorf("expected ErrDuplicateUser, got %v", err)
		}
	})

	t.Run("user exists", func(t *testing.T) {
		exists, err := store.UserExists(ctx, "alice")
		if err != nil {
			t.Fatalf("failed to check user: %v", err)
		}
		if !exists {
			t.Error("expected alice to exist")
		}

		exists, err = store.UserExists(ctx, "nobody")
		if err != nil {
			t.Fatalf("failed to check user: %v", err)
		}
		if exists {
			t.Error("expected nobody to not exist")
		}
	})

	t.Run("validate credentials", func(t *testing.T) {
		user, err := store.ValidateCredentials(ctx, "alice", "correct horse battery")
		if err != nil {
			t.Fatalf("expected valid credentials: %v", err)
		}
		if user.Username != "alice" {
			t.Errorf("expected alice, got %q", user.Username)
		}
	})

	t.Run("wrong password rejected", func(t *testing.T) {
		_, err := store.ValidateCredentials(ctx, "alice", "wrong password")
		if !errors.Is(err, models.ErrInvalidCredentials) {
			t.Errorf("expected ErrInvalidCredentials, got %v", err)
		}
	})

	t.Run("unknown user indistinguishable from wrong password", func(t *testing.T) {
		_, err := store.ValidateCredentials(ctx, "nobody", "whatever password")
		if !errors.Is(err, models.ErrInvalidCredentials) {
			t.Errorf("expected ErrInvalidCredentials, got %v", err)
		}
	})

	t.Run("record login", func(t *testing.T) {
		now := time.Now()
		if err := store.RecordLogin(ctx, "alice", now); err != nil {
			t.Fatalf("failed to record login: %v", err)
		}
		user, _ := store.GetUser(ctx, "alice")
		if user.LastLogin == nil {
			t.Error("expected last_login to be set")
		}
	})

	t.Run("change password verifies old one", func(t *testing.T) {
		err := store.ChangePassword(ctx, "alice", "wrong password", "a new password")
		if !errors.Is(err, models.ErrInvalidCredentials) {
			t.Errorf("expected ErrInvalidCredentials, got %v", err)
		}

		if err := store.ChangePassword(ctx, "alice", "correct horse battery", "a new password"); err != nil {
			t.Fatalf("failed to change password: %v", err)
		}
		if _, err := store.ValidateCredentials(ctx, "alice", "a new password"); err != nil {
			t.Errorf("new password rejected: %v", err)
		}
	})

	t.Run("set user admin", func(t *testing.T) {
		if err := store.SetUserAdmin(ctx, "alice", true); err != nil {
			t.Fatalf("failed to promote: %v", err)
		}
		user, _ := store.GetUser(ctx, "alice")
		if !user.IsAdmin {
			t.Error("expected alice to be admin")
		}

		if err := store.SetUserAdmin(ctx, "alice", false); err != nil {
			t.Fatalf("failed to demote: %v", err)
		}
	})

	t.Run("delete user", func(t *testing.T) {
		if err := store.DeleteUser(ctx, "alice"); err != nil {
			t.Fatalf("failed to delete user: %v", err)
		}
		err := store.DeleteUser(ctx, "alice")
		if !errors.Is(err, models.ErrUserNotFound) {
			t.Errorf("expected ErrUserNotFound, got %v", err)
		}
	})
}

func TestAdminProtection(t *testing.T) {
	store := createTestStore(t)
	defer store.Close()
	ctx := context.Background()

	t.Setenv(models.EnvAdminPassword, "admin test password")

	password, err := store.EnsureAdminUser(ctx)
	if err != nil {
		t.Fatalf("failed to ensure admin: %v", err)
	}
	if password != "admin test password" {
		t.Errorf("expected env password, got %q", password)
	}

	t.Run("admin can authenticate", func(t *testing.T) {
		user, err := store.ValidateCredentials(ctx, models.DefaultAdminUsername, "admin test password")
		if err != nil {
			t.Fatalf("admin credentials rejected: %v", err)
		}
		if !user.IsAdmin {
			t.Error("expected admin flag on default admin")
		}
	})

	t.Run("ensure is idempotent", func(t *testing.T) {
		password, err := store.EnsureAdminUser(ctx)
		if err != nil {
			t.Fatalf("second ensure failed: %v", err)
		}
		if password != "" {
			t.Errorf("expected empty password when admin exists, got %q", password)
		}
	})

	t.Run("delete admin always fails", func(t *testing.T) {
		err := store.DeleteUser(ctx, models.DefaultAdminUsername)
		if !errors.Is(err, models.ErrProtectedUser) {
			t.Errorf("expected ErrProtectedUser, got %v", err)
		}
	})

	t.Run("demote admin always fails", func(t *testing.T) {
		err := store.SetUserAdmin(ctx, models.DefaultAdminUsername, false)
		if !errors.Is(err, models.ErrProtectedUser) {
			t.Errorf("expected ErrProtectedUser, got %v", err)
		}
	})

	t.Run("granting admin to admin is allowed", func(t *testing.T) {
		if err := store.SetUserAdmin(ctx, models.DefaultAdminUsername, true); err != nil {
			t.Errorf("expected no-op promote to succeed: %v", err)
		}
	})
}

func TestAggregateStats(t *testing.T) {
	store := createTestStore(t)
	defer store.Close()
	ctx := context.Background()
	dir := t.TempDir()

	t.Run("empty store", func(t *testing.T) {
		stats, err := store.AggregateStats(ctx)
		if err != nil {
			t.Fatalf("failed to aggregate stats: %v", err)
		}
		if stats.TotalFiles != 0 {
			t.Errorf("expected 0 files, got %d", stats.TotalFiles)
		}
		if stats.TotalBytes != 0 {
			t.Errorf("expected 0 bytes, got %d", stats.TotalBytes)
		}
		if len(stats.ByCategory) != 0 {
			t.Errorf("expected empty category map, got %v", stats.ByCategory)
		}
		if len(stats.ByType) != 0 {
			t.Errorf("expected empty type map, got %v", stats.ByType)
		}
	})

	t.Run("counts and sizes", func(t *testing.T) {
		add := func(name, category, content string) {
			t.Helper()
			path := writePayload(t, dir, name, content)
			_, err := store.AddFile(ctx, AddFileParams{
				Filename:         name,
				OriginalFilename: name,
				FilePath:         path,
				FileSize:         int64(len(content)),
				Category:         category,
			})
			if err != nil {
				t.Fatalf("failed to add %s: %v", name, err)
			}
		}

		add("photo.png", "Media", "12345")
		add("clip.mp4", "Media", "123")
		add("readme.txt", "", "12")

		stats, err := store.AggregateStats(ctx)
		if err != nil {
			t.Fatalf("failed to aggregate stats: %v", err)
		}
		if stats.TotalFiles != 3 {
			t.Errorf("expected 3 files, got %d", stats.TotalFiles)
		}
		if stats.TotalBytes != 10 {
			t.Errorf("expected 10 bytes, got %d", stats.TotalBytes)
		}
		if stats.ByCategory["Media"] != 2 {
			t.Errorf("expected 2 Media files, got %d", stats.ByCategory["Media"])
		}
		if stats.ByCategory[models.DefaultCategoryName] != 1 {
			t.Errorf("expected 1 uncategorized file, got %d", stats.ByCategory[models.DefaultCategoryName])
		}
		if stats.ByType[models.TypeGroupImages] != 1 {
			t.Errorf("expected 1 image, got %d", stats.ByType[models.TypeGroupImages])
		}
		if stats.ByType[models.TypeGroupVideos] != 1 {
			t.Errorf("expected 1 video, got %d", stats.ByType[models.TypeGroupVideos])
		}
		if stats.ByType[models.TypeGroupTextFiles] != 1 {
			t.Errorf("expected 1 text file, got %d", stats.ByType[models.TypeGroupTextFiles])
		}
	})
}
