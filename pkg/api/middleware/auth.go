// Package middleware provides HTTP middleware for the cubby API.
package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/marmos91/cubby/internal/logger"
	"github.com/marmos91/cubby/internal/telemetry"
	"github.com/marmos91/cubby/pkg/api/auth"
)

// claimsKey is the context key under which JWTAuth stores validated claims.
type claimsKey struct{}

// GetClaimsFromContext retrieves JWT claims from the request context.
// Returns nil if no claims are present, which means the route was reached
// without passing through JWTAuth.
func GetClaimsFromContext(ctx context.Context) *auth.Claims {
	claims, _ := ctx.Value(claimsKey{}).(*auth.Claims)
	return claims
}

// extractBearerToken pulls the token out of a Bearer Authorization header.
// The scheme comparison is case-insensitive.
func extractBearerToken(r *http.Request) (string, bool) {
	scheme, token, found := strings.Cut(r.Header.Get("Authorization"), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") || token == "" {
		return "", false
	}
	return token, true
}

// writeProblem emits an RFC 7807 response. The handlers package has richer
// helpers; middleware keeps its own minimal writer to stay import-free of it.
func writeProblem(w http.ResponseWriter, status int, title, detail string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"type":   "about:blank",
		"title":  title,
		"status": status,
		"detail": detail,
	})
}

// JWTAuth validates Bearer tokens in the Authorization header. Valid claims
// are stored in the request context; anything else is a 401.
func JWTAuth(jwtService *auth.JWTService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenString, ok := extractBearerToken(r)
			if !ok {
				writeProblem(w, http.StatusUnauthorized, "Unauthorized", "Authorization header required")
				return
			}

			claims, err := jwtService.ValidateAccessToken(tokenString)
			if err != nil {
				writeProblem(w, http.StatusUnauthorized, "Unauthorized", "Invalid or expired token")
				return
			}

			ctx := context.WithValue(r.Context(), claimsKey{}, claims)

			// Stamp the principal on the request span and logging context.
			telemetry.SetAttributes(ctx, telemetry.Username(claims.Username))
			if lc := logger.FromContext(ctx); lc != nil {
				ctx = logger.WithContext(ctx, lc.WithUser(claims.Username))
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAdmin blocks non-admin users. Must run after JWTAuth.
func RequireAdmin() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims := GetClaimsFromContext(r.Context())
			if claims == nil {
				writeProblem(w, http.StatusUnauthorized, "Unauthorized", "Authentication required")
				return
			}

			if !claims.IsAdmin {
				writeProblem(w, http.StatusForbidden, "Forbidden", "Admin access required")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
