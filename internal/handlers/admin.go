package handlers

import (
	"log/slog"
	"net/http"

	"github.com/WB2302103/backend/internal/store"
)

type AdminHandler struct {
	Store *store.Store
}

// Stats serves the admin dashboard counters.
func (h *AdminHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Store.GetDashboardStats()
	if err != nil {
		slog.Error("Failed to fetch dashboard stats", "error", err)
		respondError(w, http.StatusInternalServerError, "Error fetching stats")
		return
	}
	respondJSON(w, http.StatusOK, stats)
}
