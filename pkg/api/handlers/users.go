package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/marmos91/cubby/internal/logger"
	"github.com/marmos91/cubby/pkg/api/middleware"
	"github.com/marmos91/cubby/pkg/catalog/store"
)

// UserHandler handles user management endpoints. Everything here except
// ChangeOwnPassword is admin only; the router enforces that.
type UserHandler struct {
	store store.Store
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(s store.Store) *UserHandler {
	return &UserHandler{store: s}
}

// CreateUserRequest is the request body for POST /api/v1/users.
type CreateUserRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Email    string `json:"email"`
	IsAdmin  bool   `json:"is_admin"`
}

// Create handles POST /api/v1/users.
func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateUserRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}
	if req.Username == "" || req.Password == "" {
		BadRequest(w, "Username and password are required")
		return
	}

	user, err := h.store.RegisterUser(r.Context(), req.Username, req.Password, req.Email, req.IsAdmin)
	if err != nil {
		writeCatalogError(w, err)
		return
	}

	logger.InfoCtx(r.Context(), "user created",
		logger.KeyUsername, user.Username,
		"is_admin", user.IsAdmin)
	WriteJSONCreated(w, userToResponse(user))
}

// List handles GET /api/v1/users.
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.store.ListUsers(r.Context())
	if err != nil {
		InternalServerError(w, "Failed to list users")
		return
	}

	out := make([]UserResponse, 0, len(users))
	for _, user := range users {
		out = append(out, userToResponse(user))
	}
	WriteJSONOK(w, out)
}

// Get handles GET /api/v1/users/{username}.
func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")

	user, err := h.store.GetUser(r.Context(), username)
	if err != nil {
		writeCatalogError(w, err)
		return
	}

	WriteJSONOK(w, userToResponse(user))
}

// Delete handles DELETE /api/v1/users/{username}.
// The default admin account cannot be deleted; that is a 403, not a 404.
func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")

	if err := h.store.DeleteUser(r.Context(), username); err != nil {
		writeCatalogError(w, err)
		return
	}

	logger.InfoCtx(r.Context(), "user deleted", logger.KeyUsername, username)
	WriteNoContent(w)
}

// SetAdminRequest is the request body for PUT /api/v1/users/{username}/admin.
type SetAdminRequest struct {
	IsAdmin bool `json:"is_admin"`
}

// SetAdmin handles PUT /api/v1/users/{username}/admin.
// Demoting the default admin account is rejected.
func (h *UserHandler) SetAdmin(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")

	var req SetAdminRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}

	if err := h.store.SetUserAdmin(r.Context(), username, req.IsAdmin); err != nil {
		writeCatalogError(w, err)
		return
	}

	user, err := h.store.GetUser(r.Context(), username)
	if err != nil {
		writeCatalogError(w, err)
		return
	}
	WriteJSONOK(w, userToResponse(user))
}

// ResetPasswordRequest is the request body for POST /api/v1/users/{username}/password.
type ResetPasswordRequest struct {
	Password string `json:"password"`
}

// ResetPassword handles POST /api/v1/users/{username}/password.
// Administrative reset; the old password is not required.
func (h *UserHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")

	var req ResetPasswordRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}
	if req.Password == "" {
		BadRequest(w, "Password is required")
		return
	}

	if err := h.store.SetPassword(r.Context(), username, req.Password); err != nil {
		writeCatalogError(w, err)
		return
	}

	logger.InfoCtx(r.Context(), "password reset", logger.KeyUsername, username)
	WriteNoContent(w)
}

// ChangeOwnPasswordRequest is the request body for POST /api/v1/users/me/password.
type ChangeOwnPasswordRequest struct {
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password"`
}

// ChangeOwnPassword handles POST /api/v1/users/me/password.
// Any authenticated user may change their own password by proving the old
// one.
func (h *UserHandler) ChangeOwnPassword(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetClaimsFromContext(r.Context())
	if claims == nil {
		Unauthorized(w, "Authentication required")
		return
	}

	var req ChangeOwnPasswordRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}
	if req.OldPassword == "" || req.NewPassword == "" {
		BadRequest(w, "Old and new passwords are required")
		return
	}

	if err := h.store.ChangePassword(r.Context(), claims.Username, req.OldPassword, req.NewPassword); err != nil {
		writeCatalogError(w, err)
		return
	}

	logger.InfoCtx(r.Context(), "password changed", logger.KeyUsername, claims.Username)
	WriteNoContent(w)
}
