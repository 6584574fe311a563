package models

import (
	"crypto/rand"
	"encoding/base64"
	"os"
	"time"

	"github.com/google/uuid"
)

// EnvAdminPassword names the environment variable seeding the initial
// admin password. When unset, a random password is generated instead.
const EnvAdminPassword = "CUBBY_ADMIN_PASSWORD"

// DefaultAdminUser builds the bootstrap admin account around an already
// computed password hash.
func DefaultAdminUser(passwordHash string) *User {
	return &User{
		ID:           uuid.New().String(),
		Username:     DefaultAdminUsername,
		PasswordHash: passwordHash,
		IsAdmin:      true,
		CreatedAt:    time.Now(),
	}
}

// GetOrGenerateAdminPassword returns the password for the initial admin
// account: CUBBY_ADMIN_PASSWORD when set, otherwise a fresh random one.
func GetOrGenerateAdminPassword() (string, error) {
	if pw := os.Getenv(EnvAdminPassword); pw != "" {
		return pw, nil
	}
	return GenerateRandomPassword()
}

// GenerateRandomPassword draws 18 bytes from crypto/rand and encodes
// them as 24 characters of URL-safe base64.
func GenerateRandomPassword() (string, error) {
	b := make([]byte, 18)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(b), nil
}
