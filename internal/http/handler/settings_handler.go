package handler

import (
	"net/http"

	"github.com/jolix/portal-api/internal/domain"
	"github.com/jolix/portal-api/internal/service"
	"go.uber.org/zap"
)

type SettingsHandler struct {
	settingsService *service.SettingsService
	logger          *zap.Logger
}

func NewSettingsHandler(settingsService *service.SettingsService, logger *zap.Logger) *SettingsHandler {
	return &SettingsHandler{
		settingsService: settingsService,
		logger:          logger,
	}
}

// Get godoc
// @Summary Get portal settings
// @Description Get the workspace portal configuration. Agency only.
// @Tags Settings
// @Produce json
// @Success 200 {object} domain.PortalSettingsDTO
// @Failure 401 {object} domain.ErrorResponse
// @Failure 403 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /settings [get]
func (h *SettingsHandler) Get(w http.ResponseWriter, r *http.Request) {
	settings, err := h.settingsService.Get(r.Context())
	if err != nil {
		h.logger.Error("failed to get portal settings", zap.Error(err))
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, settings)
}

// Update godoc
// @Summary Update portal settings
// @Description Rewrite the workspace portal configuration. Agency only. Send the updatedAt value last seen in the If-Match header to reject a stale save with 409.
// @Tags Settings
// @Accept json
// @Produce json
// @Param If-Match header string false "updatedAt timestamp the editor last saw"
// @Param request body domain.UpdatePortalSettingsRequest true "Settings"
// @Success 200 {object} domain.PortalSettingsDTO
// @Failure 400 {object} domain.ErrorResponse
// @Failure 403 {object} domain.ErrorResponse
// @Failure 409 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /settings [put]
func (h *SettingsHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req domain.UpdatePortalSettingsRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		respondValidationError(w, err)
		return
	}

	settings, err := h.settingsService.Update(r.Context(), &req, r.Header.Get("If-Match"))
	if err != nil {
		h.logger.Error("failed to update portal settings", zap.Error(err))
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, settings)
}
