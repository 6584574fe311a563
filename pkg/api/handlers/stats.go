package handlers

import (
	"net/http"

	"github.com/marmos91/cubby/internal/bytesize"
	"github.com/marmos91/cubby/pkg/catalog/store"
)

// StatsHandler serves aggregate catalog statistics.
type StatsHandler struct {
	store store.Store
}

// NewStatsHandler creates a new StatsHandler.
func NewStatsHandler(s store.Store) *StatsHandler {
	return &StatsHandler{store: s}
}

// StatsResponse is the aggregate view plus a display-ready total.
type StatsResponse struct {
	*store.Stats
	TotalSizeHuman string `json:"total_size_human"`
}

// Get handles GET /api/v1/stats.
func (h *StatsHandler) Get(w http.ResponseWriter, r *http.Request) {
	stats, err := h.store.AggregateStats(r.Context())
	if err != nil {
		InternalServerError(w, "Failed to aggregate stats")
		return
	}

	WriteJSONOK(w, StatsResponse{
		Stats:          stats,
		TotalSizeHuman: bytesize.Format(uint64(stats.TotalBytes)),
	})
}
