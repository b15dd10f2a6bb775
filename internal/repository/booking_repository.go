package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jolix/portal-api/internal/domain"
	"gorm.io/gorm"
)

type BookingRepository struct {
	db *gorm.DB
}

func NewBookingRepository(db *gorm.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

func (r *BookingRepository) Create(ctx context.Context, booking *domain.Booking) error {
	return r.db.WithContext(ctx).Create(booking).Error
}

// ListUpcoming returns scheduled bookings starting at or after the
// given instant, soonest first.
func (r *BookingRepository) ListUpcoming(ctx context.Context, clientID uuid.UUID, from time.Time) ([]domain.Booking, error) {
	var bookings []domain.Booking
	query := r.db.WithContext(ctx).
		Where("client_id = ? AND starts_at >= ? AND status = ?", clientID, from, domain.BookingStatusScheduled)
	query = ApplyWorkspaceFilter(ctx, query)
	err := query.Order("starts_at ASC").Find(&bookings).Error
	return bookings, err
}
