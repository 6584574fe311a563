//go:build integration

package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/marmos91/cubby/pkg/api/auth"
	"github.com/marmos91/cubby/pkg/api/middleware"
	"github.com/marmos91/cubby/pkg/catalog/models"
	"github.com/marmos91/cubby/pkg/catalog/store"
)

func newTestStore(t *testing.T) store.Store {
	t.Helper()

	catalog, err := store.New(&store.Config{
		Type: store.DatabaseTypeSQLite,
		SQLite: store.SQLiteConfig{
			Path: ":memory:",
		},
	})
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { _ = catalog.Close() })
	return catalog
}

func newTestJWTService(t *testing.T) *auth.JWTService {
	t.Helper()

	jwtService, err := auth.NewJWTService(auth.JWTConfig{
		Secret: "test-secret-key-that-is-at-least-32-characters-long",
		Issuer: "test",
	})
	if err != nil {
		t.Fatalf("Failed to create JWT service: %v", err)
	}
	return jwtService
}

func setupAuthTest(t *testing.T) (store.Store, *auth.JWTService, *AuthHandler) {
	t.Helper()

	catalog := newTestStore(t)
	jwtService := newTestJWTService(t)
	return catalog, jwtService, NewAuthHandler(catalog, jwtService)
}

func registerTestUser(t *testing.T, catalog store.Store, username, password string, isAdmin bool) *models.User {
	t.Helper()

	user, err := catalog.RegisterUser(context.Background(), username, password, "", isAdmin)
	if err != nil {
		t.Fatalf("Failed to register test user: %v", err)
	}
	return user
}

// postJSON marshals payload and drives the handler with a JSON POST.
func postJSON(t *testing.T, handler http.HandlerFunc, target string, payload any) *httptest.ResponseRecorder {
	t.Helper()

	body, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("Failed to marshal request body: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, target, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	handler(w, req)
	return w
}

// decodeResponse unmarshals the recorded response body into T.
func decodeResponse[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()

	var v T
	if err := json.Unmarshal(w.Body.Bytes(), &v); err != nil {
		t.Fatalf("Failed to decode response body: %v", err)
	}
	return v
}

func TestAuthHandler_Login(t *testing.T) {
	catalog, _, handler := setupAuthTest(t)

	registerTestUser(t, catalog, "testuser", "password123", false)

	tests := []struct {
		name       string
		body       LoginRequest
		wantStatus int
	}{
		{"valid credentials", LoginRequest{Username: "testuser", Password: "password123"}, http.StatusOK},
		{"invalid password", LoginRequest{Username: "testuser", Password: "wrongpassword"}, http.StatusUnauthorized},
		{"non-existent user", LoginRequest{Username: "nonexistent", Password: "password123"}, http.StatusUnauthorized},
		{"missing username", LoginRequest{Password: "password123"}, http.StatusBadRequest},
		{"missing password", LoginRequest{Username: "testuser"}, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := postJSON(t, handler.Login, "/api/v1/auth/login", tt.body)

			if w.Code != tt.wantStatus {
				t.Errorf("Login() status = %d, want %d, body = %s", w.Code, tt.wantStatus, w.Body.String())
			}
			if tt.wantStatus != http.StatusOK {
				return
			}

			resp := decodeResponse[LoginResponse](t, w)
			if resp.AccessToken == "" || resp.RefreshToken == "" {
				t.Error("Expected both tokens in the login response")
			}
			if resp.User.Username != tt.body.Username {
				t.Errorf("Login() username = %s, want %s", resp.User.Username, tt.body.Username)
			}
		})
	}
}

func TestAuthHandler_Login_StampsLastLogin(t *testing.T) {
	catalog, _, handler := setupAuthTest(t)

	registerTestUser(t, catalog, "testuser", "password123", false)

	w := postJSON(t, handler.Login, "/api/v1/auth/login", LoginRequest{Username: "testuser", Password: "password123"})
	if w.Code != http.StatusOK {
		t.Fatalf("Login() status = %d, want %d", w.Code, http.StatusOK)
	}

	user, err := catalog.GetUser(context.Background(), "testuser")
	if err != nil {
		t.Fatalf("Failed to fetch user: %v", err)
	}
	if user.LastLogin == nil {
		t.Error("Expected last login to be stamped")
	}
}

func TestAuthHandler_Refresh(t *testing.T) {
	catalog, jwtService, handler := setupAuthTest(t)

	user := registerTestUser(t, catalog, "testuser", "password123", false)

	tokenPair, err := jwtService.GenerateTokenPair(user)
	if err != nil {
		t.Fatalf("Failed to generate token pair: %v", err)
	}

	tests := []struct {
		name         string
		refreshToken string
		wantStatus   int
	}{
		{"valid refresh token", tokenPair.RefreshToken, http.StatusOK},
		{"access token rejected", tokenPair.AccessToken, http.StatusUnauthorized},
		{"invalid refresh token", "invalid-token", http.StatusUnauthorized},
		{"empty refresh token", "", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := postJSON(t, handler.Refresh, "/api/v1/auth/refresh", RefreshRequest{RefreshToken: tt.refreshToken})

			if w.Code != tt.wantStatus {
				t.Errorf("Refresh() status = %d, want %d, body = %s", w.Code, tt.wantStatus, w.Body.String())
			}
			if tt.wantStatus == http.StatusOK {
				if resp := decodeResponse[LoginResponse](t, w); resp.AccessToken == "" {
					t.Error("Expected a fresh access token")
				}
			}
		})
	}
}

func TestAuthHandler_Refresh_DeletedUser(t *testing.T) {
	catalog, jwtService, handler := setupAuthTest(t)
	ctx := context.Background()

	user := registerTestUser(t, catalog, "shortlived", "password123", false)

	tokenPair, err := jwtService.GenerateTokenPair(user)
	if err != nil {
		t.Fatalf("Failed to generate token pair: %v", err)
	}

	if err := catalog.DeleteUser(ctx, "shortlived"); err != nil {
		t.Fatalf("Failed to delete user: %v", err)
	}

	// A refresh token must not resurrect a deleted account.
	w := postJSON(t, handler.Refresh, "/api/v1/auth/refresh", RefreshRequest{RefreshToken: tokenPair.RefreshToken})
	if w.Code != http.StatusUnauthorized {
		t.Errorf("Refresh() status = %d, want %d", w.Code, http.StatusUnauthorized)
	}
}

func TestAuthHandler_Refresh_ReflectsDemotion(t *testing.T) {
	catalog, jwtService, handler := setupAuthTest(t)
	ctx := context.Background()

	user := registerTestUser(t, catalog, "demoted", "password123", true)

	tokenPair, err := jwtService.GenerateTokenPair(user)
	if err != nil {
		t.Fatalf("Failed to generate token pair: %v", err)
	}

	if err := catalog.SetUserAdmin(ctx, "demoted", false); err != nil {
		t.Fatalf("Failed to demote user: %v", err)
	}

	w := postJSON(t, handler.Refresh, "/api/v1/auth/refresh", RefreshRequest{RefreshToken: tokenPair.RefreshToken})
	if w.Code != http.StatusOK {
		t.Fatalf("Refresh() status = %d, want %d, body = %s", w.Code, http.StatusOK, w.Body.String())
	}

	resp := decodeResponse[LoginResponse](t, w)
	if resp.User.IsAdmin {
		t.Error("Expected refreshed tokens to reflect the demotion")
	}

	claims, err := jwtService.ValidateAccessToken(resp.AccessToken)
	if err != nil {
		t.Fatalf("Failed to validate new access token: %v", err)
	}
	if claims.IsAdmin {
		t.Error("Expected new access token to drop the admin flag")
	}
}

func TestAuthHandler_Register(t *testing.T) {
	_, _, handler := setupAuthTest(t)

	tests := []struct {
		name       string
		body       RegisterRequest
		wantStatus int
	}{
		{"valid registration", RegisterRequest{Username: "newuser", Password: "password123", Email: "new@example.com"}, http.StatusCreated},
		{"duplicate username", RegisterRequest{Username: "newuser", Password: "password123"}, http.StatusConflict},
		{"missing username", RegisterRequest{Password: "password123"}, http.StatusBadRequest},
		{"password too short", RegisterRequest{Username: "shortpass", Password: "short"}, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := postJSON(t, handler.Register, "/api/v1/auth/register", tt.body)

			if w.Code != tt.wantStatus {
				t.Errorf("Register() status = %d, want %d, body = %s", w.Code, tt.wantStatus, w.Body.String())
			}
			if tt.wantStatus != http.StatusCreated {
				return
			}

			resp := decodeResponse[UserResponse](t, w)
			if resp.Username != tt.body.Username {
				t.Errorf("Register() username = %s, want %s", resp.Username, tt.body.Username)
			}
			// Self-registration never grants admin.
			if resp.IsAdmin {
				t.Error("Expected registered user to be non-admin")
			}
		})
	}
}

func TestAuthHandler_Me(t *testing.T) {
	catalog, jwtService, handler := setupAuthTest(t)

	user := registerTestUser(t, catalog, "testuser", "password123", false)

	tokenPair, err := jwtService.GenerateTokenPair(user)
	if err != nil {
		t.Fatalf("Failed to generate token pair: %v", err)
	}

	t.Run("authenticated user", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
		req.Header.Set("Authorization", "Bearer "+tokenPair.AccessToken)
		w := httptest.NewRecorder()

		// Run through JWTAuth so the claims land in the request context.
		middleware.JWTAuth(jwtService)(http.HandlerFunc(handler.Me)).ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Me() status = %d, want %d, body = %s", w.Code, http.StatusOK, w.Body.String())
		}
		if resp := decodeResponse[UserResponse](t, w); resp.Username != "testuser" {
			t.Errorf("Me() username = %s, want testuser", resp.Username)
		}
	})

	t.Run("unauthenticated", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
		w := httptest.NewRecorder()

		handler.Me(w, req)

		if w.Code != http.StatusUnauthorized {
			t.Errorf("Me() status = %d, want %d", w.Code, http.StatusUnauthorized)
		}
	})
}
