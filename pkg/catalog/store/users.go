package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/marmos91/cubby/pkg/catalog/models"
)

// ============================================
// USER OPERATIONS
// ============================================

func (s *GORMStore) GetUser(ctx context.Context, username string) (*models.User, error) {
	return getByField[models.User](ctx, s.db, "username", username, models.ErrUserNotFound)
}

func (s *GORMStore) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	return getByField[models.User](ctx, s.db, "id", id, models.ErrUserNotFound)
}

func (s *GORMStore) UserExists(ctx context.Context, username string) (bool, error) {
	_, err := s.GetUser(ctx, username)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, models.ErrUserNotFound) {
		return false, nil
	}
	return false, err
}

func (s *GORMStore) ListUsers(ctx context.Context) ([]*models.User, error) {
	return listAll[models.User](ctx, s.db)
}

func (s *GORMStore) CreateUser(ctx context.Context, user *models.User) (string, error) {
	if err := user.Validate(); err != nil {
		return "", err
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now()
	}
	return createWithID(ctx, s.db, user, func(u *models.User, id string) { u.ID = id }, user.ID, models.ErrDuplicateUser)
}

func (s *GORMStore) RegisterUser(ctx context.Context, username, password, email string, isAdmin bool) (*models.User, error) {
	passwordHash, err := models.HashPassword(password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Username:     username,
		PasswordHash: passwordHash,
		Email:        email,
		IsAdmin:      isAdmin,
	}
	if _, err := s.CreateUser(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *GORMStore) ValidateCredentials(ctx context.Context, username, password string) (*models.User, error) {
	user, err := s.GetUser(ctx, username)
	if err != nil {
		if errors.Is(err, models.ErrUserNotFound) {
			return nil, models.ErrInvalidCredentials
		}
		return nil, err
	}

	if !models.VerifyPassword(password, user.PasswordHash) {
		return nil, models.ErrInvalidCredentials
	}

	return user, nil
}

func (s *GORMStore) RecordLogin(ctx context.Context, username string, timestamp time.Time) error {
	result := s.db.WithContext(ctx).
		Model(&models.User{}).
		Where("username = ?", username).
		Update("last_login", timestamp)

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return models.ErrUserNotFound
	}
	return nil
}

func (s *GORMStore) ChangePassword(ctx context.Context, username, oldPassword, newPassword string) error {
	if _, err := s.ValidateCredentials(ctx, username, oldPassword); err != nil {
		return err
	}
	return s.SetPassword(ctx, username, newPassword)
}

func (s *GORMStore) SetPassword(ctx context.Context, username, newPassword string) error {
	passwordHash, err := models.HashPassword(newPassword)
	if err != nil {
		return err
	}

	result := s.db.WithContext(ctx).
		Model(&models.User{}).
		Where("username = ?", username).
		Update("password_hash", passwordHash)

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return models.ErrUserNotFound
	}
	return nil
}

func (s *GORMStore) DeleteUser(ctx context.Context, username string) error {
	if models.IsDefaultAdmin(username) {
		return models.ErrProtectedUser
	}
	return deleteByField[models.User](ctx, s.db, "username", username, models.ErrUserNotFound)
}

func (s *GORMStore) SetUserAdmin(ctx context.Context, username string, isAdmin bool) error {
	// The default admin may never lose the flag
	if models.IsDefaultAdmin(username) && !isAdmin {
		return models.ErrProtectedUser
	}

	result := s.db.WithContext(ctx).
		Model(&models.User{}).
		Where("username = ?", username).
		Update("is_admin", isAdmin)

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return models.ErrUserNotFound
	}
	return nil
}

// ============================================
// ADMIN INITIALIZATION
// ============================================

func (s *GORMStore) EnsureAdminUser(ctx context.Context) (string, error) {
	// Check if admin exists
	_, err := s.GetUser(ctx, models.DefaultAdminUsername)
	if err == nil {
		return "", nil // Admin already exists
	}
	if !errors.Is(err, models.ErrUserNotFound) {
		return "", err // Unexpected error
	}

	// Generate or get password from environment
	password, err := models.GetOrGenerateAdminPassword()
	if err != nil {
		return "", fmt.Errorf("failed to generate password: %w", err)
	}

	passwordHash, err := models.HashPassword(password)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}

	admin := models.DefaultAdminUser(passwordHash)
	if _, err := s.CreateUser(ctx, admin); err != nil {
		return "", fmt.Errorf("failed to create admin user: %w", err)
	}

	return password, nil
}

func (s *GORMStore) IsAdminInitialized(ctx context.Context) (bool, error) {
	return s.UserExists(ctx, models.DefaultAdminUsername)
}
