package handler

import (
	"net/http"

	"github.com/jolix/portal-api/internal/service"
	"go.uber.org/zap"
)

type PortalHandler struct {
	portalService *service.PortalService
	logger        *zap.Logger
}

func NewPortalHandler(portalService *service.PortalService, logger *zap.Logger) *PortalHandler {
	return &PortalHandler{
		portalService: portalService,
		logger:        logger,
	}
}

// Snapshot godoc
// @Summary Get the portal snapshot
// @Description Get the full portal view for the authenticated viewer in one response: projects, documents with derived statuses, the action queue and the module gate state. Collections that fail to load come back empty and are named in the degraded list.
// @Tags Portal
// @Produce json
// @Success 200 {object} domain.PortalSnapshotDTO
// @Failure 401 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse
// @Failure 500 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /portal [get]
func (h *PortalHandler) Snapshot(w http.ResponseWriter, r *http.Request) {
	snapshot, err := h.portalService.Snapshot(r.Context())
	if err != nil {
		h.logger.Error("failed to build portal snapshot", zap.Error(err))
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, snapshot)
}

// Actions godoc
// @Summary Get the action queue
// @Description Get only the derived action-needed items for the authenticated viewer, in fixed category order: contract signatures, payable invoices, pending forms, files awaiting review.
// @Tags Portal
// @Produce json
// @Success 200 {object} domain.ActionQueueDTO
// @Failure 401 {object} domain.ErrorResponse
// @Failure 500 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /portal/actions [get]
func (h *PortalHandler) Actions(w http.ResponseWriter, r *http.Request) {
	queue, err := h.portalService.ActionQueue(r.Context())
	if err != nil {
		h.logger.Error("failed to derive action queue", zap.Error(err))
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, queue)
}
