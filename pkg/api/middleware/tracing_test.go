package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/marmos91/cubby/internal/logger"
)

func TestTracing(t *testing.T) {
	t.Run("seeds the logging context", func(t *testing.T) {
		var lc *logger.LogContext
		handler := Tracing()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			lc = logger.FromContext(r.Context())
			w.WriteHeader(http.StatusNoContent)
		}))

		req := httptest.NewRequest(http.MethodGet, "/api/v1/files", nil)
		req.RemoteAddr = "203.0.113.9:54321"
		ctx := context.WithValue(req.Context(), chimiddleware.RequestIDKey, "test/000001")
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req.WithContext(ctx))

		if rr.Code != http.StatusNoContent {
			t.Errorf("expected status %d, got %d", http.StatusNoContent, rr.Code)
		}
		if lc == nil {
			t.Fatal("expected a logging context to be injected")
		}
		if lc.ClientIP != "203.0.113.9" {
			t.Errorf("expected client IP without port, got %q", lc.ClientIP)
		}
		if lc.RequestID != "test/000001" {
			t.Errorf("expected request ID %q, got %q", "test/000001", lc.RequestID)
		}
	})

	t.Run("passes the response through", func(t *testing.T) {
		handler := Tracing()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTeapot)
			_, _ = w.Write([]byte("short and stout"))
		}))

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)

		if rr.Code != http.StatusTeapot {
			t.Errorf("expected status %d, got %d", http.StatusTeapot, rr.Code)
		}
		if rr.Body.String() != "short and stout" {
			t.Errorf("unexpected body %q", rr.Body.String())
		}
	})
}

func TestClientIP(t *testing.T) {
	tests := []struct {
		name       string
		remoteAddr string
		want       string
	}{
		{"host and port", "192.0.2.1:8080", "192.0.2.1"},
		{"bare host", "192.0.2.1", "192.0.2.1"},
		{"ipv6 with port", "[2001:db8::1]:443", "2001:db8::1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remoteAddr
			if got := clientIP(req); got != tt.want {
				t.Errorf("clientIP(%q) = %q, want %q", tt.remoteAddr, got, tt.want)
			}
		})
	}
}
