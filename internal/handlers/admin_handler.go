package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ornithedex/server/internal/models"
	"github.com/ornithedex/server/internal/observability"
	"github.com/ornithedex/server/internal/services"
)

// AdminHandler serves the instance-wide statistics and user management
// endpoints. Routes using it must sit behind the AdminOnly middleware.
type AdminHandler struct {
	adminService *services.AdminService
}

// NewAdminHandler creates a new AdminHandler
func NewAdminHandler(adminService *services.AdminService) *AdminHandler {
	return &AdminHandler{adminService: adminService}
}

// GetStats returns totals and a per-user breakdown
func (h *AdminHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.adminService.GetStats(r.Context())
	if err != nil {
		observability.Errorf("load admin stats: %v", err)
		respondError(w, http.StatusInternalServerError, "Failed to load stats.")
		return
	}

	respondJSON(w, http.StatusOK, stats)
}

// PromoteUser grants admin rights to an existing user
func (h *AdminHandler) PromoteUser(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	if err := h.adminService.Promote(r.Context(), userID); err != nil {
		if err == models.ErrUserNotFound {
			respondError(w, http.StatusNotFound, err.Error())
			return
		}
		observability.Errorf("promote user %s: %v", userID, err)
		respondError(w, http.StatusInternalServerError, "Failed to promote user.")
		return
	}

	respondJSON(w, http.StatusOK, models.StatusResponse{Status: "success"})
}
