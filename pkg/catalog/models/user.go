package models

import (
	"fmt"
	"time"
)

// DefaultAdminUsername is the distinguished bootstrap account. It always
// exists after initialization and can be neither deleted nor demoted.
const DefaultAdminUsername = "admin"

// User is an account that can authenticate against the API.
//
// Authorization is a single boolean: admins may delete files and manage
// users, everyone else may not. There are no roles or groups beyond that.
type User struct {
	ID           string     `gorm:"primaryKey;size:36" json:"id"`
	Username     string     `gorm:"uniqueIndex;not null;size:255" json:"username"`
	PasswordHash string     `gorm:"not null" json:"-"`
	Email        string     `gorm:"size:255" json:"email,omitempty"`
	IsAdmin      bool       `gorm:"default:false" json:"is_admin"`
	CreatedAt    time.Time  `gorm:"autoCreateTime" json:"created_at"`
	LastLogin    *time.Time `json:"last_login,omitempty"`
}

// TableName returns the table name for User.
func (User) TableName() string {
	return "users"
}

// Validate checks if the user has valid configuration.
func (u *User) Validate() error {
	if u.Username == "" {
		return fmt.Errorf("username is required")
	}
	return nil
}

// IsDefaultAdmin reports whether username names the protected bootstrap
// account.
func IsDefaultAdmin(username string) bool {
	return username == DefaultAdminUsername
}
