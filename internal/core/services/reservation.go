package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/srgjo27/tour_booking/internal/core/domain"
	"github.com/srgjo27/tour_booking/internal/core/ports"
)

type ReservationRequest struct {
	TourID          uuid.UUID `validate:"required"`
	SelectedDate    time.Time `validate:"required"`
	SelectedTime    string    `validate:"required"`
	NumberOfPeople  int       `validate:"required,min=1"`
	SpecialRequests string    `validate:"max=500"`
	ContactPhone    string    `validate:"required"`
	ContactEmail    string    `validate:"required,email"`
}

// ReservationCoordinator runs one booking request: debit the slot, persist
// the booking, and credit the slot back if persisting fails.
type ReservationCoordinator struct {
	tours   ports.TourRepository
	catalog *SlotCatalog
	ledger  *BookingLedger
	log     logrus.FieldLogger
}

func NewReservationCoordinator(tours ports.TourRepository, catalog *SlotCatalog, ledger *BookingLedger, log logrus.FieldLogger) *ReservationCoordinator {
	return &ReservationCoordinator{
		tours:   tours,
		catalog: catalog,
		ledger:  ledger,
		log:     log,
	}
}

func (r *ReservationCoordinator) Reserve(ctx context.Context, actor domain.Actor, req ReservationRequest) (*domain.Booking, error) {
	if actor.Role != domain.RoleTourist {
		return nil, domain.ErrForbidden
	}

	if err := validateStruct(req); err != nil {
		return nil, err
	}

	tour, err := r.tours.GetTour(ctx, req.TourID)
	if err != nil {
		return nil, err
	}

	if !tour.IsActive {
		return nil, domain.ErrTourNotFound
	}

	key := domain.NewSlotKey(req.SelectedDate, req.SelectedTime)
	if _, err := r.catalog.FindSlot(tour, key); err != nil {
		return nil, domain.ErrSlotNotAvailable
	}

	if err := r.catalog.Debit(ctx, tour.ID, key, req.NumberOfPeople); err != nil {
		if errors.Is(err, domain.ErrSlotNotFound) {
			return nil, domain.ErrSlotNotAvailable
		}
		if errors.Is(err, domain.ErrInsufficientCapacity) {
			r.log.WithFields(slotFields(tour.ID, key, req.NumberOfPeople)).Info("slot debit lost to concurrent bookings")
		}
		return nil, err
	}

	bookingID := uuid.New()
	booking, err := r.ledger.Create(ctx, domain.BookingDraft{
		ID:              bookingID,
		TourID:          tour.ID,
		TourTitle:       tour.Title,
		TouristID:       actor.ID,
		GuideID:         tour.GuideID,
		SelectedDate:    key.Date,
		SelectedTime:    key.StartTime,
		NumberOfPeople:  req.NumberOfPeople,
		TotalPrice:      tour.Price * float64(req.NumberOfPeople),
		SpecialRequests: req.SpecialRequests,
		ContactPhone:    req.ContactPhone,
		ContactEmail:    req.ContactEmail,
	})
	if err != nil {
		if errors.Is(err, domain.ErrValidation) {
			r.compensate(ctx, tour.ID, key, req.NumberOfPeople, err)
			return nil, err
		}

		if stored, ok := r.committedDespite(ctx, bookingID, err); ok {
			return stored, nil
		}

		r.compensate(ctx, tour.ID, key, req.NumberOfPeople, err)
		return nil, fmt.Errorf("failed to create booking: %w", err)
	}

	r.log.WithFields(slotFields(tour.ID, key, req.NumberOfPeople)).
		WithField("booking_id", booking.ID).
		Info("booking reserved")

	return booking, nil
}

// committedDespite checks whether a create that reported an error (a timeout
// after commit, for one) actually stored the booking. Crediting the slot in
// that case would hand the same spots out twice.
func (r *ReservationCoordinator) committedDespite(ctx context.Context, bookingID uuid.UUID, cause error) (*domain.Booking, bool) {
	stored, err := r.ledger.bookings.GetByID(context.WithoutCancel(ctx), bookingID)
	switch {
	case err == nil:
		r.log.WithFields(logrus.Fields{
			"booking_id": bookingID,
			"cause":      cause,
		}).Warn("booking create reported an error but the booking was stored")
		return stored, true
	case errors.Is(err, domain.ErrBookingNotFound):
		return nil, false
	default:
		r.log.WithFields(logrus.Fields{
			"booking_id": bookingID,
			"cause":      cause,
			"error":      err,
		}).Error("could not confirm failed booking create, compensating anyway")
		return nil, false
	}
}

// compensate returns a debited amount after a later step failed. It runs
// detached from the request context so a cancelled request still restores
// capacity.
func (r *ReservationCoordinator) compensate(ctx context.Context, tourID uuid.UUID, key domain.SlotKey, count int, cause error) {
	fields := slotFields(tourID, key, count)

	if err := r.catalog.Credit(context.WithoutCancel(ctx), tourID, key, count); err != nil {
		r.log.WithFields(fields).WithFields(logrus.Fields{
			"cause": cause,
			"error": err,
		}).Error("compensating credit failed, slot capacity needs reconciliation")
		return
	}

	r.log.WithFields(fields).WithField("cause", cause).Warn("booking creation failed, slot capacity restored")
}
