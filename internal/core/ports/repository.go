package ports

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/srgjo27/tour_booking/internal/core/domain"
)

// TourRepository stores tours and their embedded slots. DebitSlot and
// CreditSlot must each be one indivisible storage operation.
type TourRepository interface {
	CreateTour(ctx context.Context, tour *domain.Tour) error
	GetTour(ctx context.Context, tourID uuid.UUID) (*domain.Tour, error)
	DebitSlot(ctx context.Context, tourID uuid.UUID, key domain.SlotKey, count int) error
	CreditSlot(ctx context.Context, tourID uuid.UUID, key domain.SlotKey, count int) error
}

type BookingFilter struct {
	TouristID *uuid.UUID
	GuideID   *uuid.UUID
}

type BookingRepository interface {
	CreateBooking(ctx context.Context, booking *domain.Booking) error
	GetByID(ctx context.Context, bookingID uuid.UUID) (*domain.Booking, error)
	List(ctx context.Context, filter BookingFilter) ([]domain.Booking, error)
	// UpdateStatus applies change only if the stored status and payment
	// status still equal expected. It returns domain.ErrInvalidTransition when
	// another writer got there first.
	UpdateStatus(ctx context.Context, bookingID uuid.UUID, expected domain.StatusChange, change domain.StatusChange, at time.Time) error
	GetExpiredPending(ctx context.Context, createdBefore time.Time, limit int) ([]uuid.UUID, error)
}
