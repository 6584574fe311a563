package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/marmos91/cubby/internal/logger"
	"github.com/marmos91/cubby/pkg/api/auth"
	"github.com/marmos91/cubby/pkg/api/middleware"
	"github.com/marmos91/cubby/pkg/catalog/models"
	"github.com/marmos91/cubby/pkg/catalog/store"
)

// AuthHandler handles authentication endpoints.
type AuthHandler struct {
	store      store.Store
	jwtService *auth.JWTService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(s store.Store, jwtService *auth.JWTService) *AuthHandler {
	return &AuthHandler{store: s, jwtService: jwtService}
}

// LoginRequest carries the credentials for POST /api/v1/auth/login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse is the token pair plus account snapshot returned by both
// login and refresh.
type LoginResponse struct {
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	TokenType    string       `json:"token_type"`
	ExpiresIn    int64        `json:"expires_in"`
	ExpiresAt    time.Time    `json:"expires_at"`
	User         UserResponse `json:"user"`
}

// UserResponse is the public view of an account. Password material never
// leaves the store.
type UserResponse struct {
	ID        string     `json:"id"`
	Username  string     `json:"username"`
	Email     string     `json:"email,omitempty"`
	IsAdmin   bool       `json:"is_admin"`
	CreatedAt time.Time  `json:"created_at"`
	LastLogin *time.Time `json:"last_login,omitempty"`
}

// RefreshRequest carries the refresh token for POST /api/v1/auth/refresh.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// RegisterRequest carries the account details for POST /api/v1/auth/register.
type RegisterRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Email    string `json:"email"`
}

// Login handles POST /api/v1/auth/login.
// Authenticates credentials and returns a JWT token pair.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}

	if req.Username == "" || req.Password == "" {
		BadRequest(w, "Username and password are required")
		return
	}

	// An unknown user and a wrong password are deliberately the same error.
	user, err := h.store.ValidateCredentials(r.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, models.ErrInvalidCredentials) || errors.Is(err, models.ErrUserNotFound) {
			Unauthorized(w, "Invalid username or password")
			return
		}
		InternalServerError(w, "Authentication failed")
		return
	}

	// Last login is bookkeeping; failing to stamp it must not fail the login.
	if err := h.store.RecordLogin(r.Context(), user.Username, time.Now()); err != nil {
		logger.WarnCtx(r.Context(), "failed to record login time",
			logger.KeyUsername, user.Username,
			logger.KeyError, err)
	}

	h.writeTokenPair(w, user)
}

// Refresh handles POST /api/v1/auth/refresh.
// Returns a new token pair for a valid refresh token.
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req RefreshRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}

	if req.RefreshToken == "" {
		BadRequest(w, "Refresh token is required")
		return
	}

	claims, err := h.jwtService.ValidateRefreshToken(req.RefreshToken)
	if err != nil {
		if errors.Is(err, auth.ErrExpiredToken) {
			Unauthorized(w, "Refresh token has expired")
			return
		}
		Unauthorized(w, "Invalid refresh token")
		return
	}

	// Fetch fresh user data so a demoted or deleted account cannot keep
	// minting tokens off an old refresh token.
	user, ok := h.lookupUser(w, r, claims.Username)
	if !ok {
		return
	}

	h.writeTokenPair(w, user)
}

// Register handles POST /api/v1/auth/register.
// Creates a regular (non-admin) account; admin accounts are minted through
// user management only.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}

	if req.Username == "" || req.Password == "" {
		BadRequest(w, "Username and password are required")
		return
	}

	user, err := h.store.RegisterUser(r.Context(), req.Username, req.Password, req.Email, false)
	if err != nil {
		writeCatalogError(w, err)
		return
	}

	logger.InfoCtx(r.Context(), "user registered", logger.KeyUsername, user.Username)
	WriteJSONCreated(w, userToResponse(user))
}

// Me handles GET /api/v1/auth/me.
// Returns the authenticated user's record.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetClaimsFromContext(r.Context())
	if claims == nil {
		Unauthorized(w, "Authentication required")
		return
	}

	user, ok := h.lookupUser(w, r, claims.Username)
	if !ok {
		return
	}

	WriteJSONOK(w, userToResponse(user))
}

// lookupUser fetches the account named by a validated token. A missing
// account maps to 401, not 404: the caller holds a token, not a user.
func (h *AuthHandler) lookupUser(w http.ResponseWriter, r *http.Request, username string) (*models.User, bool) {
	user, err := h.store.GetUser(r.Context(), username)
	if err != nil {
		if errors.Is(err, models.ErrUserNotFound) {
			Unauthorized(w, "User not found")
		} else {
			InternalServerError(w, "Failed to fetch user")
		}
		return nil, false
	}
	return user, true
}

// writeTokenPair mints a fresh token pair for user and writes the login
// payload. Login and Refresh share this tail.
func (h *AuthHandler) writeTokenPair(w http.ResponseWriter, user *models.User) {
	tokenPair, err := h.jwtService.GenerateTokenPair(user)
	if err != nil {
		InternalServerError(w, "Failed to generate token")
		return
	}

	WriteJSONOK(w, LoginResponse{
		AccessToken:  tokenPair.AccessToken,
		RefreshToken: tokenPair.RefreshToken,
		TokenType:    tokenPair.TokenType,
		ExpiresIn:    tokenPair.ExpiresIn,
		ExpiresAt:    tokenPair.ExpiresAt,
		User:         userToResponse(user),
	})
}

// userToResponse converts a User to its API representation.
func userToResponse(user *models.User) UserResponse {
	return UserResponse{
		ID:        user.ID,
		Username:  user.Username,
		Email:     user.Email,
		IsAdmin:   user.IsAdmin,
		CreatedAt: user.CreatedAt,
		LastLogin: user.LastLogin,
	}
}
