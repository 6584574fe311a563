package handlers

import (
	"net/http"

	"github.com/marmos91/cubby/pkg/catalog/store"
	"github.com/marmos91/cubby/pkg/vault"
)

// FolderHandler handles folder endpoints.
type FolderHandler struct {
	store store.Store
	vault *vault.Vault
}

// NewFolderHandler creates a new FolderHandler.
func NewFolderHandler(s store.Store, v *vault.Vault) *FolderHandler {
	return &FolderHandler{
		store: s,
		vault: v,
	}
}

// List handles GET /api/v1/folders.
// The optional "parent" query parameter scopes the listing; its absence
// (or the empty string) lists the top level.
func (h *FolderHandler) List(w http.ResponseWriter, r *http.Request) {
	folders, err := h.store.ListFolders(r.Context(), r.URL.Query().Get("parent"))
	if err != nil {
		InternalServerError(w, "Failed to list folders")
		return
	}

	WriteJSONOK(w, folders)
}

// CreateFolderRequest is the request body for POST /api/v1/folders.
type CreateFolderRequest struct {
	Name        string `json:"name"`
	ParentPath  string `json:"parent_path"`
	Description string `json:"description"`
}

// Create handles POST /api/v1/folders.
// The physical directory is created before the catalog row.
func (h *FolderHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateFolderRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}
	if req.Name == "" {
		BadRequest(w, "Folder name is required")
		return
	}

	folder, err := h.vault.CreateFolder(r.Context(), req.Name, req.ParentPath, req.Description)
	if err != nil {
		writeCatalogError(w, err)
		return
	}

	WriteJSONCreated(w, folder)
}
