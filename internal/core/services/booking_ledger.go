package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/srgjo27/tour_booking/internal/core/domain"
	"github.com/srgjo27/tour_booking/internal/core/ports"
)

// StatusUpdate carries the requested target state. Empty fields keep the
// current value.
type StatusUpdate struct {
	Status        domain.BookingStatus
	PaymentStatus domain.PaymentStatus
}

type BookingLedger struct {
	bookings ports.BookingRepository
	log      logrus.FieldLogger
	now      func() time.Time
}

func NewBookingLedger(bookings ports.BookingRepository, log logrus.FieldLogger) *BookingLedger {
	return &BookingLedger{
		bookings: bookings,
		log:      log,
		now:      time.Now,
	}
}

func (l *BookingLedger) Create(ctx context.Context, draft domain.BookingDraft) (*domain.Booking, error) {
	if err := validateStruct(draft); err != nil {
		return nil, err
	}

	id := draft.ID
	if id == uuid.Nil {
		id = uuid.New()
	}

	now := l.now().UTC()
	booking := &domain.Booking{
		ID:              id,
		TourID:          draft.TourID,
		TourTitle:       draft.TourTitle,
		TouristID:       draft.TouristID,
		GuideID:         draft.GuideID,
		SelectedDate:    domain.TruncateDay(draft.SelectedDate),
		SelectedTime:    draft.SelectedTime,
		NumberOfPeople:  draft.NumberOfPeople,
		TotalPrice:      draft.TotalPrice,
		Status:          domain.BookingPending,
		PaymentStatus:   domain.PaymentPending,
		SpecialRequests: draft.SpecialRequests,
		ContactPhone:    draft.ContactPhone,
		ContactEmail:    draft.ContactEmail,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := l.bookings.CreateBooking(ctx, booking); err != nil {
		return nil, err
	}

	return booking, nil
}

func (l *BookingLedger) Get(ctx context.Context, bookingID uuid.UUID, actor domain.Actor) (*domain.Booking, error) {
	booking, err := l.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if !actor.CanView(booking) {
		return nil, domain.ErrForbidden
	}

	return booking, nil
}

func (l *BookingLedger) List(ctx context.Context, actor domain.Actor) ([]domain.Booking, error) {
	var filter ports.BookingFilter

	switch actor.Role {
	case domain.RoleAdmin:
	case domain.RoleGuide:
		filter.GuideID = &actor.ID
	default:
		filter.TouristID = &actor.ID
	}

	return l.bookings.List(ctx, filter)
}

func (l *BookingLedger) TransitionStatus(ctx context.Context, bookingID uuid.UUID, actor domain.Actor, update StatusUpdate) (*domain.Booking, error) {
	booking, err := l.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	return l.Transition(ctx, booking, actor, update)
}

// Transition authorizes and applies update to an already loaded booking.
// Moving to cancelled here does not touch capacity; callers that cancel go
// through CancellationCoordinator.
func (l *BookingLedger) Transition(ctx context.Context, booking *domain.Booking, actor domain.Actor, update StatusUpdate) (*domain.Booking, error) {
	if update.Status == "" && update.PaymentStatus == "" {
		return nil, domain.NewValidationError("status", "status or paymentStatus is required")
	}

	if update.Status != "" && !update.Status.Valid() {
		return nil, domain.NewValidationError("status", "unknown booking status")
	}

	if update.PaymentStatus != "" && !update.PaymentStatus.Valid() {
		return nil, domain.NewValidationError("paymentStatus", "unknown payment status")
	}

	if update.Status == domain.BookingCancelled {
		if !actor.CanCancel(booking) {
			return nil, domain.ErrForbidden
		}
	} else if !actor.CanManage(booking) {
		return nil, domain.ErrForbidden
	}

	change := domain.StatusChange{
		Status:        booking.Status,
		PaymentStatus: booking.PaymentStatus,
	}
	if update.Status != "" {
		change.Status = update.Status
	}
	if update.PaymentStatus != "" {
		change.PaymentStatus = update.PaymentStatus
	}

	if !domain.CanTransition(booking.Status, change.Status) {
		return nil, domain.ErrInvalidTransition
	}

	updated, err := l.apply(ctx, booking, change)
	if err != nil {
		return nil, err
	}

	l.log.WithFields(logrus.Fields{
		"booking_id":     booking.ID,
		"actor_id":       actor.ID,
		"actor_role":     actor.Role,
		"from":           booking.Status,
		"to":             updated.Status,
		"payment_status": updated.PaymentStatus,
	}).Info("booking status updated")

	return updated, nil
}

// apply writes change guarded by both statuses the caller observed. No
// authorization happens here.
func (l *BookingLedger) apply(ctx context.Context, booking *domain.Booking, change domain.StatusChange) (*domain.Booking, error) {
	at := l.now().UTC()
	expected := domain.StatusChange{Status: booking.Status, PaymentStatus: booking.PaymentStatus}

	if err := l.bookings.UpdateStatus(ctx, booking.ID, expected, change, at); err != nil {
		return nil, err
	}

	updated := *booking
	updated.Status = change.Status
	updated.PaymentStatus = change.PaymentStatus
	updated.UpdatedAt = at

	return &updated, nil
}
