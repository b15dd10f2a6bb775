package handler

import (
	"net/http"

	"github.com/jolix/portal-api/internal/service"
	"go.uber.org/zap"
)

type BookingHandler struct {
	bookingService *service.BookingService
	logger         *zap.Logger
}

func NewBookingHandler(bookingService *service.BookingService, logger *zap.Logger) *BookingHandler {
	return &BookingHandler{
		bookingService: bookingService,
		logger:         logger,
	}
}

// ListUpcoming godoc
// @Summary List upcoming bookings
// @Description Get the client's scheduled appointments, soonest first
// @Tags Bookings
// @Produce json
// @Success 200 {array} domain.BookingDTO
// @Failure 401 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /bookings [get]
func (h *BookingHandler) ListUpcoming(w http.ResponseWriter, r *http.Request) {
	bookings, err := h.bookingService.ListUpcoming(r.Context())
	if err != nil {
		h.logger.Error("failed to list bookings", zap.Error(err))
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, bookings)
}
