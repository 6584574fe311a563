package handlers

import (
	"net/http"

	"github.com/marmos91/cubby/pkg/catalog/store"
)

// CategoryHandler handles category endpoints.
type CategoryHandler struct {
	store store.Store
}

// NewCategoryHandler creates a new CategoryHandler.
func NewCategoryHandler(s store.Store) *CategoryHandler {
	return &CategoryHandler{store: s}
}

// List handles GET /api/v1/categories.
func (h *CategoryHandler) List(w http.ResponseWriter, r *http.Request) {
	categories, err := h.store.ListCategories(r.Context())
	if err != nil {
		InternalServerError(w, "Failed to list categories")
		return
	}

	WriteJSONOK(w, categories)
}

// CreateCategoryRequest is the request body for POST /api/v1/categories.
type CreateCategoryRequest struct {
	Name        string `json:"name"`
	Color       string `json:"color"`
	Description string `json:"description"`
}

// Create handles POST /api/v1/categories.
func (h *CategoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateCategoryRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}
	if req.Name == "" {
		BadRequest(w, "Category name is required")
		return
	}

	category, err := h.store.CreateCategory(r.Context(), req.Name, req.Color, req.Description)
	if err != nil {
		writeCatalogError(w, err)
		return
	}

	WriteJSONCreated(w, category)
}
