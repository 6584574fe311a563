//go:build integration

package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/marmos91/cubby/pkg/catalog/models"
	"github.com/marmos91/cubby/pkg/vault"
)

func setupFolderTest(t *testing.T) (*vault.Vault, *FolderHandler) {
	t.Helper()

	catalog := newTestStore(t)
	vlt, err := vault.New(catalog, vault.Config{StorageRoot: t.TempDir()})
	if err != nil {
		t.Fatalf("Failed to create vault: %v", err)
	}
	return vlt, NewFolderHandler(catalog, vlt)
}

func createFolderViaAPI(t *testing.T, handler *FolderHandler, body CreateFolderRequest) *httptest.ResponseRecorder {
	t.Helper()

	raw, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/folders", bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	handler.Create(w, req)
	return w
}

func TestFolderHandler_Create(t *testing.T) {
	vlt, handler := setupFolderTest(t)

	t.Run("creates folder and directory", func(t *testing.T) {
		w := createFolderViaAPI(t, handler, CreateFolderRequest{Name: "documents", Description: "paperwork"})
		if w.Code != http.StatusCreated {
			t.Fatalf("Create() status = %d, want %d, body = %s", w.Code, http.StatusCreated, w.Body.String())
		}

		var folder models.Folder
		if err := json.Unmarshal(w.Body.Bytes(), &folder); err != nil {
			t.Fatalf("Failed to unmarshal response: %v", err)
		}
		if folder.Path != "documents" {
			t.Errorf("Create() path = %s, want documents", folder.Path)
		}

		if info, err := os.Stat(filepath.Join(vlt.Root(), "documents")); err != nil || !info.IsDir() {
			t.Errorf("Expected physical directory, err = %v", err)
		}
	})

	t.Run("nested folder", func(t *testing.T) {
		w := createFolderViaAPI(t, handler, CreateFolderRequest{Name: "2026", ParentPath: "documents"})
		if w.Code != http.StatusCreated {
			t.Fatalf("Create() status = %d, want %d, body = %s", w.Code, http.StatusCreated, w.Body.String())
		}

		var folder models.Folder
		if err := json.Unmarshal(w.Body.Bytes(), &folder); err != nil {
			t.Fatalf("Failed to unmarshal response: %v", err)
		}
		if folder.Path != "documents/2026" {
			t.Errorf("Create() path = %s, want documents/2026", folder.Path)
		}
	})

	t.Run("duplicate path", func(t *testing.T) {
		w := createFolderViaAPI(t, handler, CreateFolderRequest{Name: "documents"})
		if w.Code != http.StatusConflict {
			t.Errorf("Create() status = %d, want %d", w.Code, http.StatusConflict)
		}
	})

	t.Run("missing name", func(t *testing.T) {
		w := createFolderViaAPI(t, handler, CreateFolderRequest{Description: "nameless"})
		if w.Code != http.StatusBadRequest {
			t.Errorf("Create() status = %d, want %d", w.Code, http.StatusBadRequest)
		}
	})
}

func TestFolderHandler_List(t *testing.T) {
	_, handler := setupFolderTest(t)

	for _, req := range []CreateFolderRequest{
		{Name: "documents"},
		{Name: "photos"},
		{Name: "2026", ParentPath: "documents"},
	} {
		if w := createFolderViaAPI(t, handler, req); w.Code != http.StatusCreated {
			t.Fatalf("Failed to create folder %s: %s", req.Name, w.Body.String())
		}
	}

	tests := []struct {
		name      string
		query     string
		wantCount int
	}{
		{"top level", "", 2},
		{"children of documents", "?parent=documents", 1},
		{"empty subtree", "?parent=photos", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/folders"+tt.query, nil)
			w := httptest.NewRecorder()

			handler.List(w, req)

			if w.Code != http.StatusOK {
				t.Fatalf("List() status = %d, want %d, body = %s", w.Code, http.StatusOK, w.Body.String())
			}

			var folders []models.Folder
			if err := json.Unmarshal(w.Body.Bytes(), &folders); err != nil {
				t.Fatalf("Failed to unmarshal response: %v", err)
			}
			if len(folders) != tt.wantCount {
				t.Errorf("List() returned %d folders, want %d", len(folders), tt.wantCount)
			}
		})
	}
}
