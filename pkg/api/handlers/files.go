package handlers

import (
	"errors"
	"fmt"
	"mime"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/marmos91/cubby/pkg/api/middleware"
	"github.com/marmos91/cubby/pkg/catalog/models"
	"github.com/marmos91/cubby/pkg/catalog/store"
	"github.com/marmos91/cubby/pkg/vault"
)

// maxUploadMemory bounds the in-memory part of multipart parsing; larger
// payloads spill to temp files.
const maxUploadMemory = 32 << 20 // 32 MiB

// FileHandler handles file lifecycle endpoints.
//
// Reads go straight to the catalog; anything touching payload bytes goes
// through the vault.
type FileHandler struct {
	store store.Store
	vault *vault.Vault
}

// NewFileHandler creates a new FileHandler.
func NewFileHandler(s store.Store, v *vault.Vault) *FileHandler {
	return &FileHandler{
		store: s,
		vault: v,
	}
}

// FileResponse is a file record plus its decoded tag list.
type FileResponse struct {
	*models.File
	Tags []string `json:"tags"`
}

func fileToResponse(f *models.File) FileResponse {
	return FileResponse{File: f, Tags: f.TagList()}
}

func filesToResponse(files []*models.File) []FileResponse {
	out := make([]FileResponse, 0, len(files))
	for _, f := range files {
		out = append(out, fileToResponse(f))
	}
	return out
}

// List handles GET /api/v1/files.
//
// Query parameters: folder (exact folder path, "" with present key means
// the root), category, search (substring over filename, description and
// tags), limit.
func (h *FileHandler) List(w http.ResponseWriter, r *http.Request) {
	filter := store.FileFilter{
		Category: r.URL.Query().Get("category"),
		Search:   r.URL.Query().Get("search"),
	}

	if r.URL.Query().Has("folder") {
		folder := r.URL.Query().Get("folder")
		filter.FolderPath = &folder
	}

	if rawLimit := r.URL.Query().Get("limit"); rawLimit != "" {
		limit, err := strconv.Atoi(rawLimit)
		if err != nil || limit < 0 {
			BadRequest(w, "Invalid limit")
			return
		}
		filter.Limit = limit
	}

	files, err := h.store.ListFiles(r.Context(), filter)
	if err != nil {
		InternalServerError(w, "Failed to list files")
		return
	}

	WriteJSONOK(w, filesToResponse(files))
}

// Upload handles POST /api/v1/files.
//
// Expects multipart/form-data with the payload in the "file" part and
// optional fields: folder_path, category, description, tags
// (comma-separated), replace ("true" to overwrite a duplicate). The
// uploader becomes the record's creator.
//
// Responds 201 with the outcome on success, 409 when the upload was
// skipped as a duplicate, 413 when the payload exceeds the configured
// size limit, 500 when storing failed.
func (h *FileHandler) Upload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		BadRequest(w, "Invalid multipart form")
		return
	}

	part, header, err := r.FormFile("file")
	if err != nil {
		BadRequest(w, "Missing file part")
		return
	}
	defer part.Close()

	params := vault.UploadParams{
		Content: part,
		// Browsers may send a full client path; only the name matters.
		OriginalName: filepath.Base(header.Filename),
		FolderPath:   r.FormValue("folder_path"),
		Category:     r.FormValue("category"),
		Description:  r.FormValue("description"),
		Tags:         splitTags(r.FormValue("tags")),
		Replace:      r.FormValue("replace") == "true",
	}
	if claims := middleware.GetClaimsFromContext(r.Context()); claims != nil {
		params.CreatedBy = claims.Username
	}

	res := h.vault.Upload(r.Context(), params)
	switch res.Outcome {
	case vault.OutcomeSuccess:
		WriteJSONCreated(w, res)
	case vault.OutcomeSkipped:
		Conflict(w, fmt.Sprintf("File already exists: %s", res.Message))
	default:
		if res.TooLarge {
			WriteProblem(w, http.StatusRequestEntityTooLarge, "Payload Too Large", res.Message)
			return
		}
		InternalServerError(w, res.Message)
	}
}

// splitTags parses a comma-separated tag field, dropping empties.
func splitTags(raw string) []string {
	if raw == "" {
		return nil
	}
	var tags []string
	for _, tag := range strings.Split(raw, ",") {
		if tag = strings.TrimSpace(tag); tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}

// Get handles GET /api/v1/files/{id}.
func (h *FileHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := fileIDParam(w, r)
	if !ok {
		return
	}

	file, err := h.store.GetFile(r.Context(), id)
	if err != nil {
		writeCatalogError(w, err)
		return
	}

	WriteJSONOK(w, fileToResponse(file))
}

// Download handles GET /api/v1/files/{id}/download.
// Streams the payload under its original filename and records an access.
func (h *FileHandler) Download(w http.ResponseWriter, r *http.Request) {
	id, ok := fileIDParam(w, r)
	if !ok {
		return
	}

	file, data, err := h.vault.Download(r.Context(), id)
	if err != nil {
		if errors.Is(err, vault.ErrMissingPayload) {
			// The record exists but the bytes are gone; distinct from an
			// unknown id so the client knows the catalog needs repair.
			WriteProblem(w, http.StatusNotFound, "Payload Missing",
				"The file record exists but its content is missing from storage")
			return
		}
		writeCatalogError(w, err)
		return
	}

	contentType := file.FileType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment",
		map[string]string{"filename": file.OriginalFilename}))
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	_, _ = w.Write(data)
}

// MoveRequest is the request body for POST /api/v1/files/{id}/move.
type MoveRequest struct {
	FolderPath string `json:"folder_path"`
}

// Move handles POST /api/v1/files/{id}/move.
func (h *FileHandler) Move(w http.ResponseWriter, r *http.Request) {
	id, ok := fileIDParam(w, r)
	if !ok {
		return
	}

	var req MoveRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}

	if err := h.vault.Move(r.Context(), id, req.FolderPath); err != nil {
		if errors.Is(err, models.ErrFileNotFound) {
			NotFound(w, "File not found")
			return
		}
		InternalServerError(w, "Failed to move file")
		return
	}

	file, err := h.store.GetFile(r.Context(), id)
	if err != nil {
		writeCatalogError(w, err)
		return
	}
	WriteJSONOK(w, fileToResponse(file))
}

// CategoryRequest is the request body for PUT /api/v1/files/{id}/category.
type CategoryRequest struct {
	Category string `json:"category"`
}

// SetCategory handles PUT /api/v1/files/{id}/category.
func (h *FileHandler) SetCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := fileIDParam(w, r)
	if !ok {
		return
	}

	var req CategoryRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}
	if req.Category == "" {
		BadRequest(w, "Category is required")
		return
	}

	if err := h.store.UpdateFileCategory(r.Context(), id, req.Category); err != nil {
		writeCatalogError(w, err)
		return
	}

	file, err := h.store.GetFile(r.Context(), id)
	if err != nil {
		writeCatalogError(w, err)
		return
	}
	WriteJSONOK(w, fileToResponse(file))
}

// Delete handles DELETE /api/v1/files/{id}. Admin only.
func (h *FileHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := fileIDParam(w, r)
	if !ok {
		return
	}

	if err := h.vault.Delete(r.Context(), id); err != nil {
		if errors.Is(err, models.ErrFileNotFound) {
			NotFound(w, "File not found")
			return
		}
		InternalServerError(w, "Failed to delete file")
		return
	}

	WriteNoContent(w)
}

// BundleRequest is the request body for POST /api/v1/files/bundle.
type BundleRequest struct {
	IDs []uint `json:"ids"`
}

// Bundle handles POST /api/v1/files/bundle.
// Streams a zip of the requested files; ids that resolve to nothing are
// skipped, and a request where nothing resolves is a 404.
func (h *FileHandler) Bundle(w http.ResponseWriter, r *http.Request) {
	var req BundleRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}
	if len(req.IDs) == 0 {
		BadRequest(w, "At least one file id is required")
		return
	}

	data, err := h.vault.Bundle(r.Context(), req.IDs)
	if err != nil {
		InternalServerError(w, "Failed to build bundle")
		return
	}
	if data == nil {
		NotFound(w, "None of the requested files could be bundled")
		return
	}

	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", `attachment; filename="cubby-bundle.zip"`)
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	_, _ = w.Write(data)
}
