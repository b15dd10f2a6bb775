package handler

import (
	"encoding/json"
	"net/http"

	"github.com/jolix/portal-api/internal/domain"
	"github.com/jolix/portal-api/internal/service"
	"go.uber.org/zap"
)

type AuthHandler struct {
	tokenService *service.TokenService
	logger       *zap.Logger
}

func NewAuthHandler(tokenService *service.TokenService, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		tokenService: tokenService,
		logger:       logger,
	}
}

// IssuePortalToken godoc
// @Summary Issue a portal token
// @Description Issue a signed portal token for a client of a workspace. Called by the agency backend, not by portal visitors.
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body domain.PortalTokenRequest true "Token request"
// @Success 200 {object} domain.PortalTokenResponse
// @Failure 400 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse
// @Failure 500 {object} domain.ErrorResponse
// @Security ApiKeyAuth
// @Router /auth/portal-token [post]
func (h *AuthHandler) IssuePortalToken(w http.ResponseWriter, r *http.Request) {
	var req domain.PortalTokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		respondValidationError(w, err)
		return
	}

	resp, err := h.tokenService.IssuePortalToken(r.Context(), &req)
	if err != nil {
		h.logger.Warn("portal token issuance failed",
			zap.String("workspace", req.WorkspaceSlug), zap.Error(err))
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, resp)
}
