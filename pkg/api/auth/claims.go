// Package auth provides JWT authentication for the cubby API.
package auth

import "github.com/golang-jwt/jwt/v5"

// TokenType distinguishes access tokens from refresh tokens.
type TokenType string

const (
	// TokenTypeAccess marks the short-lived token presented on API calls.
	TokenTypeAccess TokenType = "access"
	// TokenTypeRefresh marks the long-lived token exchanged for fresh pairs.
	TokenTypeRefresh TokenType = "refresh"
)

// Claims are the JWT claims carried by cubby tokens.
//
// Authorization is a single admin flag; there are no roles or groups. The
// claims travel with the request context once JWTAuth has validated the
// token, replacing any notion of server-side session state.
type Claims struct {
	jwt.RegisteredClaims

	// UserID is the user's unique identifier (UUID).
	UserID string `json:"uid"`

	// Username is the login name the token was minted for.
	Username string `json:"username"`

	// IsAdmin grants user management and file deletion.
	IsAdmin bool `json:"is_admin"`

	// TokenType separates access from refresh so neither can stand in
	// for the other.
	TokenType TokenType `json:"token_type"`
}

// IsAccessToken reports whether this is an access token.
func (c *Claims) IsAccessToken() bool {
	return c.TokenType == TokenTypeAccess
}

// IsRefreshToken reports whether this is a refresh token.
func (c *Claims) IsRefreshToken() bool {
	return c.TokenType == TokenTypeRefresh
}
