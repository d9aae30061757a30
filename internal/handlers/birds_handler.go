package handlers

import (
	"net/http"

	"github.com/ornithedex/server/internal/observability"
	"github.com/ornithedex/server/internal/services"
)

// BirdsHandler serves the static species catalog
type BirdsHandler struct {
	catalogService *services.CatalogService
}

// NewBirdsHandler creates a new BirdsHandler
func NewBirdsHandler(catalogService *services.CatalogService) *BirdsHandler {
	return &BirdsHandler{catalogService: catalogService}
}

// GetCatalog returns the full species catalog
func (h *BirdsHandler) GetCatalog(w http.ResponseWriter, r *http.Request) {
	catalog, err := h.catalogService.Get()
	if err != nil {
		observability.Errorf("load bird catalog: %v", err)
		respondError(w, http.StatusInternalServerError, "Failed to load bird catalog.")
		return
	}

	respondJSON(w, http.StatusOK, catalog)
}
