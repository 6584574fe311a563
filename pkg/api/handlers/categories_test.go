//go:build integration

package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/marmos91/cubby/pkg/catalog/models"
)

func TestCategoryHandler_Create(t *testing.T) {
	catalog := newTestStore(t)
	handler := NewCategoryHandler(catalog)

	tests := []struct {
		name       string
		body       CreateCategoryRequest
		wantStatus int
		wantColor  string
	}{
		{
			name:       "valid category",
			body:       CreateCategoryRequest{Name: "Work", Color: "#ff0000", Description: "office things"},
			wantStatus: http.StatusCreated,
			wantColor:  "#ff0000",
		},
		{
			name:       "default color",
			body:       CreateCategoryRequest{Name: "Misc"},
			wantStatus: http.StatusCreated,
			wantColor:  models.DefaultCategoryColor,
		},
		{
			name:       "duplicate name",
			body:       CreateCategoryRequest{Name: "Work"},
			wantStatus: http.StatusConflict,
		},
		{
			name:       "missing name",
			body:       CreateCategoryRequest{Color: "#00ff00"},
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body, _ := json.Marshal(tt.body)
			req := httptest.NewRequest(http.MethodPost, "/api/v1/categories", bytes.NewReader(body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()

			handler.Create(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("Create() status = %d, want %d, body = %s", w.Code, tt.wantStatus, w.Body.String())
			}

			if tt.wantStatus == http.StatusCreated {
				var category models.Category
				if err := json.Unmarshal(w.Body.Bytes(), &category); err != nil {
					t.Fatalf("Failed to unmarshal response: %v", err)
				}
				if category.Name != tt.body.Name {
					t.Errorf("Create() name = %s, want %s", category.Name, tt.body.Name)
				}
				if category.Color != tt.wantColor {
					t.Errorf("Create() color = %s, want %s", category.Color, tt.wantColor)
				}
			}
		})
	}
}

func TestCategoryHandler_List(t *testing.T) {
	catalog := newTestStore(t)
	handler := NewCategoryHandler(catalog)

	for _, name := range []string{"Work", "Personal"} {
		body, _ := json.Marshal(CreateCategoryRequest{Name: name})
		req := httptest.NewRequest(http.MethodPost, "/api/v1/categories", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		handler.Create(w, req)
		if w.Code != http.StatusCreated {
			t.Fatalf("Failed to create category %s: %s", name, w.Body.String())
		}
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/categories", nil)
	w := httptest.NewRecorder()

	handler.List(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("List() status = %d, want %d, body = %s", w.Code, http.StatusOK, w.Body.String())
	}

	var categories []models.Category
	if err := json.Unmarshal(w.Body.Bytes(), &categories); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if len(categories) != 2 {
		t.Errorf("List() returned %d categories, want 2", len(categories))
	}
	// Ordered by name.
	if categories[0].Name != "Personal" || categories[1].Name != "Work" {
		t.Errorf("List() order = [%s %s], want [Personal Work]", categories[0].Name, categories[1].Name)
	}
}
