package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/ornithedex/server/internal/middleware"
	"github.com/ornithedex/server/internal/models"
	"github.com/ornithedex/server/internal/observability"
	"github.com/ornithedex/server/internal/services"
)

// ThemeHandler updates the caller's UI theme preference
type ThemeHandler struct {
	authService *services.AuthService
}

// NewThemeHandler creates a new ThemeHandler
func NewThemeHandler(authService *services.AuthService) *ThemeHandler {
	return &ThemeHandler{authService: authService}
}

type themeRequest struct {
	Theme string `json:"theme"`
}

// UpdateTheme persists a new theme for the current user
func (h *ThemeHandler) UpdateTheme(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())

	var req themeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	if err := h.authService.UpdateTheme(r.Context(), user.ID, req.Theme); err != nil {
		if err == models.ErrInvalidTheme {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		observability.Errorf("update theme for %s: %v", user.ID, err)
		respondError(w, http.StatusInternalServerError, "Failed to update theme.")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"status": "success", "theme": req.Theme})
}
