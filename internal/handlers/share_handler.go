package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ornithedex/server/internal/middleware"
	"github.com/ornithedex/server/internal/models"
	"github.com/ornithedex/server/internal/observability"
	"github.com/ornithedex/server/internal/services"
)

// ShareHandler manages share tokens and the public shared-profile view
type ShareHandler struct {
	shareService *services.ShareService
}

// NewShareHandler creates a new ShareHandler
func NewShareHandler(shareService *services.ShareService) *ShareHandler {
	return &ShareHandler{shareService: shareService}
}

// GetToken returns the caller's share token, minting one on first use
func (h *ShareHandler) GetToken(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())

	token, err := h.shareService.GetToken(r.Context(), user.ID)
	if err != nil {
		observability.Errorf("get share token for %s: %v", user.ID, err)
		respondError(w, http.StatusInternalServerError, "Failed to get share token.")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"share_token": token})
}

// RegenerateToken replaces the caller's share token, revoking the old link
func (h *ShareHandler) RegenerateToken(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())

	token, err := h.shareService.RegenerateToken(r.Context(), user.ID)
	if err != nil {
		observability.Errorf("regenerate share token for %s: %v", user.ID, err)
		respondError(w, http.StatusInternalServerError, "Failed to regenerate share token.")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"share_token": token})
}

// GetSharedProfile serves a collection by share token. No session required.
func (h *ShareHandler) GetSharedProfile(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")

	profile, err := h.shareService.GetSharedProfile(r.Context(), token)
	if err != nil {
		if err == models.ErrUserNotFound {
			respondError(w, http.StatusNotFound, "Shared profile not found.")
			return
		}
		observability.Errorf("load shared profile: %v", err)
		respondError(w, http.StatusInternalServerError, "Failed to load shared profile.")
		return
	}

	respondJSON(w, http.StatusOK, profile)
}
