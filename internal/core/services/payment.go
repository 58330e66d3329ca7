package services

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/srgjo27/tour_booking/internal/core/domain"
	"github.com/srgjo27/tour_booking/internal/core/ports"
)

type PaymentSignal struct {
	EventID   string
	BookingID uuid.UUID
	Succeeded bool
}

// PaymentService applies payment provider signals to bookings. Applying the
// same signal twice leaves the booking as the first application left it.
type PaymentService struct {
	bookings ports.BookingRepository
	ledger   *BookingLedger
	events   ports.PaymentEventStore
	log      logrus.FieldLogger
}

func NewPaymentService(bookings ports.BookingRepository, ledger *BookingLedger, events ports.PaymentEventStore, log logrus.FieldLogger) *PaymentService {
	return &PaymentService{
		bookings: bookings,
		ledger:   ledger,
		events:   events,
		log:      log,
	}
}

func (p *PaymentService) HandleSignal(ctx context.Context, sig PaymentSignal) (*domain.Booking, error) {
	fields := logrus.Fields{
		"booking_id": sig.BookingID,
		"event_id":   sig.EventID,
		"succeeded":  sig.Succeeded,
	}

	if sig.EventID != "" && p.events != nil {
		fresh, err := p.events.MarkProcessed(ctx, sig.EventID)
		if err != nil {
			p.log.WithFields(fields).WithError(err).Warn("payment event dedup unavailable, relying on booking state")
		} else if !fresh {
			p.log.WithFields(fields).Info("duplicate payment event ignored")
			return p.bookings.GetByID(ctx, sig.BookingID)
		}
	}

	booking, err := p.apply(ctx, sig)
	if err != nil {
		if sig.EventID != "" && p.events != nil {
			if rerr := p.events.Release(context.WithoutCancel(ctx), sig.EventID); rerr != nil {
				p.log.WithFields(fields).WithError(rerr).Warn("failed to release payment event")
			}
		}
		return nil, err
	}

	return booking, nil
}

func (p *PaymentService) apply(ctx context.Context, sig PaymentSignal) (*domain.Booking, error) {
	booking, err := p.bookings.GetByID(ctx, sig.BookingID)
	if err != nil {
		return nil, err
	}

	if sig.Succeeded {
		return p.confirm(ctx, booking)
	}

	return p.fail(ctx, booking)
}

func (p *PaymentService) confirm(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
	if isPaidAndConfirmed(booking) {
		return booking, nil
	}

	if booking.IsTerminal() {
		p.log.WithFields(logrus.Fields{
			"booking_id": booking.ID,
			"status":     booking.Status,
		}).Warn("payment completed for a booking that is no longer active")
		return nil, domain.ErrInvalidTransition
	}

	updated, err := p.ledger.apply(ctx, booking, domain.StatusChange{
		Status:        domain.BookingConfirmed,
		PaymentStatus: domain.PaymentPaid,
	})
	if errors.Is(err, domain.ErrInvalidTransition) {
		// A concurrent delivery may have confirmed it first.
		current, gerr := p.bookings.GetByID(ctx, booking.ID)
		if gerr == nil && isPaidAndConfirmed(current) {
			return current, nil
		}
		return nil, err
	}
	if err != nil {
		return nil, err
	}

	p.log.WithField("booking_id", booking.ID).Info("booking confirmed by payment")
	return updated, nil
}

func (p *PaymentService) fail(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
	if booking.PaymentStatus == domain.PaymentPaid || booking.PaymentStatus == domain.PaymentFailed || booking.IsTerminal() {
		return booking, nil
	}

	updated, err := p.ledger.apply(ctx, booking, domain.StatusChange{
		Status:        booking.Status,
		PaymentStatus: domain.PaymentFailed,
	})
	if err != nil {
		return nil, err
	}

	p.log.WithField("booking_id", booking.ID).Warn("payment failed for booking")
	return updated, nil
}

func isPaidAndConfirmed(b *domain.Booking) bool {
	return b.Status == domain.BookingConfirmed && b.PaymentStatus == domain.PaymentPaid
}
