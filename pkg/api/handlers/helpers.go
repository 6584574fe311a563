package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/marmos91/cubby/pkg/catalog/models"
)

// decodeJSONBody decodes a JSON request body into the provided pointer.
// Returns false after writing a 400 if decoding fails.
func decodeJSONBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		BadRequest(w, "Invalid request body")
		return false
	}
	return true
}

// fileIDParam parses the {id} route parameter as a file id.
// Returns false after writing a 400 if the parameter is not a number.
func fileIDParam(w http.ResponseWriter, r *http.Request) (uint, bool) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		BadRequest(w, "Invalid file id")
		return 0, false
	}
	return uint(id), true
}

// writeCatalogError maps catalog sentinel errors onto problem responses:
// not-found sentinels become 404, uniqueness sentinels 409, bad credentials
// 401, the protected-admin guard 403, anything else 500.
func writeCatalogError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, models.ErrFileNotFound),
		errors.Is(err, models.ErrFolderNotFound),
		errors.Is(err, models.ErrCategoryNotFound),
		errors.Is(err, models.ErrUserNotFound):
		NotFound(w, err.Error())
	case errors.Is(err, models.ErrDuplicateFile),
		errors.Is(err, models.ErrDuplicateFolder),
		errors.Is(err, models.ErrDuplicateCategory),
		errors.Is(err, models.ErrDuplicateUser):
		Conflict(w, err.Error())
	case errors.Is(err, models.ErrInvalidCredentials):
		Unauthorized(w, "Invalid username or password")
	case errors.Is(err, models.ErrProtectedUser):
		Forbidden(w, err.Error())
	case errors.Is(err, models.ErrPasswordTooShort),
		errors.Is(err, models.ErrPasswordTooLong):
		BadRequest(w, err.Error())
	default:
		InternalServerError(w, "Internal error")
	}
}
