package service

import (
	"context"
	"fmt"
	"time"

	"github.com/jolix/portal-api/internal/auth"
	"github.com/jolix/portal-api/internal/domain"
	"github.com/jolix/portal-api/internal/mapper"
	"github.com/jolix/portal-api/internal/repository"
	"go.uber.org/zap"
)

// BookingService serves the booking views of a client portal. Slot
// generation and calendar sync live outside this API; only booked
// appointments are stored and listed here.
type BookingService struct {
	bookingRepo  *repository.BookingRepository
	settingsRepo *repository.PortalSettingsRepository
	logger       *zap.Logger
}

// NewBookingService creates a new BookingService instance
func NewBookingService(
	bookingRepo *repository.BookingRepository,
	settingsRepo *repository.PortalSettingsRepository,
	logger *zap.Logger,
) *BookingService {
	return &BookingService{
		bookingRepo:  bookingRepo,
		settingsRepo: settingsRepo,
		logger:       logger,
	}
}

// ListUpcoming returns the client's scheduled appointments, soonest
// first.
func (s *BookingService) ListUpcoming(ctx context.Context) ([]domain.BookingDTO, error) {
	viewer := auth.MustFromContext(ctx)

	settings, err := loadPortalSettings(ctx, s.settingsRepo, viewer.WorkspaceID)
	if err != nil {
		return nil, err
	}
	if !settings.Modules.Enabled(domain.ModuleBookings) {
		return nil, ErrModuleDisabled
	}

	bookings, err := s.bookingRepo.ListUpcoming(ctx, viewer.ClientID, time.Now())
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}

	dtos := make([]domain.BookingDTO, 0, len(bookings))
	for i := range bookings {
		dtos = append(dtos, mapper.ToBookingDTO(&bookings[i]))
	}
	return dtos, nil
}
