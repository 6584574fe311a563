package handlers

import (
	"net/http"
	"os"
	"time"

	"github.com/marmos91/cubby/pkg/catalog/store"
	"github.com/marmos91/cubby/pkg/vault"
)

// HealthHandler serves liveness and readiness probes.
type HealthHandler struct {
	store   store.Store
	vault   *vault.Vault
	started time.Time
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(s store.Store, v *vault.Vault) *HealthHandler {
	return &HealthHandler{
		store:   s,
		vault:   v,
		started: time.Now(),
	}
}

// HealthResponse is the probe response body.
type HealthResponse struct {
	Status    string            `json:"status"`
	Timestamp time.Time         `json:"timestamp"`
	StartedAt time.Time         `json:"started_at"`
	Uptime    string            `json:"uptime"`
	Checks    map[string]string `json:"checks,omitempty"`
}

// Liveness handles GET /health. It answers as long as the process serves
// requests; nothing downstream is consulted.
func (h *HealthHandler) Liveness(w http.ResponseWriter, r *http.Request) {
	WriteJSONOK(w, HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC(),
		StartedAt: h.started.UTC(),
		Uptime:    time.Since(h.started).Round(time.Second).String(),
	})
}

// Readiness handles GET /health/ready. Ready means the catalog database
// answers a ping and the storage root is reachable.
func (h *HealthHandler) Readiness(w http.ResponseWriter, r *http.Request) {
	checks := map[string]string{
		"catalog": "ok",
		"storage": "ok",
	}
	healthy := true

	if err := h.store.Healthcheck(r.Context()); err != nil {
		checks["catalog"] = err.Error()
		healthy = false
	}

	if _, err := os.Stat(h.vault.Root()); err != nil {
		checks["storage"] = err.Error()
		healthy = false
	}

	response := HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC(),
		StartedAt: h.started.UTC(),
		Uptime:    time.Since(h.started).Round(time.Second).String(),
		Checks:    checks,
	}
	if !healthy {
		response.Status = "unhealthy"
		WriteJSON(w, http.StatusServiceUnavailable, response)
		return
	}

	WriteJSONOK(w, response)
}
