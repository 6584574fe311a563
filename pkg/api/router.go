package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/marmos91/cubby/internal/logger"
	"github.com/marmos91/cubby/pkg/api/auth"
	"github.com/marmos91/cubby/pkg/api/handlers"
	apimiddleware "github.com/marmos91/cubby/pkg/api/middleware"
	"github.com/marmos91/cubby/pkg/catalog/store"
	"github.com/marmos91/cubby/pkg/metrics"
	"github.com/marmos91/cubby/pkg/vault"
)

// NewRouter assembles the chi router with the full middleware stack and
// route tree.
//
// Routes:
//   - GET  /health                        - Liveness probe
//   - GET  /health/ready                  - Readiness probe
//   - GET  /metrics                       - Prometheus exposition
//   - POST /api/v1/auth/login             - Authenticate, get a token pair
//   - POST /api/v1/auth/refresh           - Trade a refresh token for a new pair
//   - POST /api/v1/auth/register          - Self-service account creation
//   - GET  /api/v1/auth/me                - Current user
//   - GET  /api/v1/files                  - List/search files
//   - POST /api/v1/files                  - Upload (multipart)
//   - POST /api/v1/files/bundle           - Zip export of selected files
//   - GET  /api/v1/files/{id}             - File record
//   - GET  /api/v1/files/{id}/download    - File payload
//   - POST /api/v1/files/{id}/move        - Relocate into another folder
//   - PUT  /api/v1/files/{id}/category    - Reassign category
//   - DELETE /api/v1/files/{id}           - Delete (admin only)
//   - GET/POST /api/v1/folders            - List / create folders
//   - GET/POST /api/v1/categories         - List / create categories
//   - GET  /api/v1/stats                  - Aggregate statistics
//   - POST /api/v1/users/me/password      - Change own password
//   - /api/v1/users/*                     - User management (admin only)
//
// Everything under /api/v1 except login, refresh and register requires a
// valid access token.
func NewRouter(catalog store.Store, vlt *vault.Vault, jwtService *auth.JWTService, m *metrics.Metrics) http.Handler {
	r := chi.NewRouter()

	// Middleware stack - order matters
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(apimiddleware.Tracing())
	r.Use(requestLogger)
	r.Use(apimiddleware.Metrics(m.HTTP()))
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(30 * time.Second))

	healthHandler := handlers.NewHealthHandler(catalog, vlt)
	authHandler := handlers.NewAuthHandler(catalog, jwtService)
	fileHandler := handlers.NewFileHandler(catalog, vlt)
	folderHandler := handlers.NewFolderHandler(catalog, vlt)
	categoryHandler := handlers.NewCategoryHandler(catalog)
	userHandler := handlers.NewUserHandler(catalog)
	statsHandler := handlers.NewStatsHandler(catalog)

	// Probes and metrics - unauthenticated
	r.Route("/health", func(r chi.Router) {
		r.Get("/", healthHandler.Liveness)
		r.Get("/ready", healthHandler.Readiness)
	})
	r.Method(http.MethodGet, "/metrics", m.Handler())

	// Root redirect to health for convenience
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/health", http.StatusTemporaryRedirect)
	})

	r.Route("/api/v1", func(r chi.Router) {
		// Auth routes - the token-granting endpoints are public
		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", authHandler.Login)
			r.Post("/refresh", authHandler.Refresh)
			r.Post("/register", authHandler.Register)

			r.Group(func(r chi.Router) {
				r.Use(apimiddleware.JWTAuth(jwtService))
				r.Get("/me", authHandler.Me)
			})
		})

		// Everything else requires authentication
		r.Group(func(r chi.Router) {
			r.Use(apimiddleware.JWTAuth(jwtService))

			r.Route("/files", func(r chi.Router) {
				r.Get("/", fileHandler.List)
				r.Post("/", fileHandler.Upload)
				r.Post("/bundle", fileHandler.Bundle)

				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", fileHandler.Get)
					r.Get("/download", fileHandler.Download)
					r.Post("/move", fileHandler.Move)
					r.Put("/category", fileHandler.SetCategory)

					// Deletion is destructive and admin-gated
					r.Group(func(r chi.Router) {
						r.Use(apimiddleware.RequireAdmin())
						r.Delete("/", fileHandler.Delete)
					})
				})
			})

			r.Route("/folders", func(r chi.Router) {
				r.Get("/", folderHandler.List)
				r.Post("/", folderHandler.Create)
			})

			r.Route("/categories", func(r chi.Router) {
				r.Get("/", categoryHandler.List)
				r.Post("/", categoryHandler.Create)
			})

			r.Get("/stats", statsHandler.Get)

			// Own password change is the one user route every account gets
			r.Post("/users/me/password", userHandler.ChangeOwnPassword)

			// User management (admin only)
			r.Route("/users", func(r chi.Router) {
				r.Use(apimiddleware.RequireAdmin())

				r.Post("/", userHandler.Create)
				r.Get("/", userHandler.List)
				r.Get("/{username}", userHandler.Get)
				r.Delete("/{username}", userHandler.Delete)
				r.Put("/{username}/admin", userHandler.SetAdmin)
				r.Post("/{username}/password", userHandler.ResetPassword)
			})
		})
	})

	return r
}

// isHealthPath returns true if the request path is a probe endpoint.
func isHealthPath(path string) bool {
	return path == "/health" || strings.HasPrefix(path, "/health/") || path == "/metrics"
}

// requestLogger logs requests through the internal logger. The request ID,
// client IP and trace identifiers come from the logging context seeded by
// the tracing middleware.
//
// Request start is DEBUG; completion is INFO, except probes and metrics
// scrapes which stay at DEBUG to keep the logs quiet under Kubernetes and
// Prometheus polling.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		logger.DebugCtx(r.Context(), "API request started",
			logger.KeyMethod, r.Method,
			logger.KeyPath, r.URL.Path,
		)

		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		duration := time.Since(start)

		logArgs := []any{
			logger.KeyMethod, r.Method,
			logger.KeyPath, r.URL.Path,
			logger.KeyStatus, ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", duration.String(),
		}

		if isHealthPath(r.URL.Path) {
			logger.DebugCtx(r.Context(), "API request completed", logArgs...)
		} else {
			logger.InfoCtx(r.Context(), "API request completed", logArgs...)
		}
	})
}
