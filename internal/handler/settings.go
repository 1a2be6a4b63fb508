package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"dhoni/internal/domain"
	"dhoni/internal/service"
	"dhoni/internal/store"
)

// SettingsHandler handles HTTP requests for boat settings.
type SettingsHandler struct {
	settings *service.SettingsService
}

// NewSettingsHandler creates a new SettingsHandler.
func NewSettingsHandler(settings *service.SettingsService) *SettingsHandler {
	return &SettingsHandler{settings: settings}
}

// Get handles GET /v1/settings.
func (h *SettingsHandler) Get(c *gin.Context) {
	settings, err := h.settings.Get(c.Request.Context(), sessionFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respondJSON(c, http.StatusOK, settings)
}

// Put handles PUT /v1/settings. Last write wins.
func (h *SettingsHandler) Put(c *gin.Context) {
	var settings domain.BoatSettings
	if err := c.ShouldBindJSON(&settings); err != nil {
		respondJSON(c, http.StatusBadRequest, ErrorResponse{Error: "invalid settings payload"})
		return
	}

	if err := h.settings.Save(c.Request.Context(), sessionFrom(c), settings); err != nil {
		if errors.Is(err, store.ErrSavedLocallyOnly) {
			respondJSON(c, http.StatusAccepted, gin.H{"settings": settings, "warning": err.Error()})
			return
		}
		respondError(c, err)
		return
	}
	respondJSON(c, http.StatusOK, settings)
}
