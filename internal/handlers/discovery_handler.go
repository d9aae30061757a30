package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/ornithedex/server/internal/middleware"
	"github.com/ornithedex/server/internal/models"
	"github.com/ornithedex/server/internal/observability"
	"github.com/ornithedex/server/internal/services"
)

// DiscoveryHandler serves the discovery read views and the sync endpoint
type DiscoveryHandler struct {
	discoveryService *services.DiscoveryService
	syncService      *services.SyncService
}

// NewDiscoveryHandler creates a new DiscoveryHandler
func NewDiscoveryHandler(discoveryService *services.DiscoveryService, syncService *services.SyncService) *DiscoveryHandler {
	return &DiscoveryHandler{
		discoveryService: discoveryService,
		syncService:      syncService,
	}
}

// GetDiscoveries returns the full projection with embedded photo payloads
func (h *DiscoveryHandler) GetDiscoveries(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())

	projection, err := h.discoveryService.GetFull(r.Context(), user.ID)
	if err != nil {
		observability.Errorf("load discoveries for %s: %v", user.ID, err)
		respondError(w, http.StatusInternalServerError, "Failed to load discoveries.")
		return
	}

	respondJSON(w, http.StatusOK, projection)
}

// GetLight returns the photo-free projection for list rendering
func (h *DiscoveryHandler) GetLight(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())

	projection, err := h.discoveryService.GetLight(r.Context(), user.ID)
	if err != nil {
		observability.Errorf("load light discoveries for %s: %v", user.ID, err)
		respondError(w, http.StatusInternalServerError, "Failed to load discoveries.")
		return
	}

	respondJSON(w, http.StatusOK, projection)
}

// GetMetadata returns per-species counters and collection totals
func (h *DiscoveryHandler) GetMetadata(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())

	metadata, err := h.discoveryService.GetMetadata(r.Context(), user.ID)
	if err != nil {
		observability.Errorf("load metadata for %s: %v", user.ID, err)
		respondError(w, http.StatusInternalServerError, "Failed to load metadata.")
		return
	}

	respondJSON(w, http.StatusOK, metadata)
}

// GetGallery returns one page of thumbnails, newest first
func (h *DiscoveryHandler) GetGallery(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())

	page := parseIntParam(r, "page", 1)
	perPage := parseIntParam(r, "per_page", 12)

	gallery, err := h.discoveryService.GetGallery(r.Context(), user.ID, page, perPage)
	if err != nil {
		observability.Errorf("load gallery for %s: %v", user.ID, err)
		respondError(w, http.StatusInternalServerError, "Failed to load gallery.")
		return
	}

	respondJSON(w, http.StatusOK, gallery)
}

// GetPhoto returns the full-size payload of a single photo
func (h *DiscoveryHandler) GetPhoto(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())

	birdNumber := chi.URLParam(r, "birdNumber")
	photoID, err := strconv.ParseInt(chi.URLParam(r, "photoID"), 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid photo ID.")
		return
	}

	data, err := h.discoveryService.GetPhoto(r.Context(), user.ID, birdNumber, photoID)
	if err != nil {
		if err == models.ErrPhotoMissing {
			respondError(w, http.StatusNotFound, err.Error())
			return
		}
		observability.Errorf("load photo %d for %s: %v", photoID, user.ID, err)
		respondError(w, http.StatusInternalServerError, "Failed to load photo.")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"photo": data})
}

// SaveDiscoveries replaces the stored photo set for each submitted species
func (h *DiscoveryHandler) SaveDiscoveries(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())

	var req models.SyncRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	if err := h.syncService.SaveDiscoveries(r.Context(), user.ID, req); err != nil {
		if err == models.ErrNoData {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		observability.Errorf("save discoveries for %s: %v", user.ID, err)
		respondError(w, http.StatusInternalServerError, "Failed to save discoveries.")
		return
	}

	respondJSON(w, http.StatusOK, models.StatusResponse{Status: "success"})
}

func parseIntParam(r *http.Request, name string, fallback int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value < 1 {
		return fallback
	}
	return value
}
