package handler

import (
	"net/http"

	"github.com/jolix/portal-api/internal/domain"
	"github.com/jolix/portal-api/internal/service"
	"go.uber.org/zap"
)

type MessageHandler struct {
	messageService *service.MessageService
	logger         *zap.Logger
}

func NewMessageHandler(messageService *service.MessageService, logger *zap.Logger) *MessageHandler {
	return &MessageHandler{
		messageService: messageService,
		logger:         logger,
	}
}

// List godoc
// @Summary List messages
// @Description Get the client's message thread, newest first
// @Tags Messages
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Items per page (max 200)" default(20)
// @Success 200 {object} domain.PaginatedResponse{data=[]domain.MessageDTO}
// @Failure 401 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /messages [get]
func (h *MessageHandler) List(w http.ResponseWriter, r *http.Request) {
	page, pageSize := parsePagination(r)

	messages, total, err := h.messageService.List(r.Context(), page, pageSize)
	if err != nil {
		h.logger.Error("failed to list messages", zap.Error(err))
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, paginated(messages, page, pageSize, total))
}

// Send godoc
// @Summary Send a message
// @Description Post a message to the thread as the viewer
// @Tags Messages
// @Accept json
// @Produce json
// @Param request body domain.CreateMessageRequest true "Message"
// @Success 201 {object} domain.MessageDTO
// @Failure 400 {object} domain.ErrorResponse
// @Failure 401 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /messages [post]
func (h *MessageHandler) Send(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateMessageRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		respondValidationError(w, err)
		return
	}

	message, err := h.messageService.Send(r.Context(), &req)
	if err != nil {
		h.logger.Error("failed to send message", zap.Error(err))
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, message)
}

// MarkRead godoc
// @Summary Mark messages read
// @Description Stamp every unread message from the other side as read
// @Tags Messages
// @Success 204
// @Failure 401 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /messages/read [post]
func (h *MessageHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	if err := h.messageService.MarkRead(r.Context()); err != nil {
		h.logger.Error("failed to mark messages read", zap.Error(err))
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusNoContent, nil)
}
