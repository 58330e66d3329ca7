package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/srgjo27/tour_booking/internal/core/domain"
	"github.com/srgjo27/tour_booking/internal/core/ports"
)

// CancellationCoordinator moves a booking to cancelled and then returns its
// people to the originating slot. The compare-and-set on status makes the
// credit happen at most once per booking.
type CancellationCoordinator struct {
	bookings ports.BookingRepository
	ledger   *BookingLedger
	catalog  *SlotCatalog
	log      logrus.FieldLogger
}

func NewCancellationCoordinator(bookings ports.BookingRepository, ledger *BookingLedger, catalog *SlotCatalog, log logrus.FieldLogger) *CancellationCoordinator {
	return &CancellationCoordinator{
		bookings: bookings,
		ledger:   ledger,
		catalog:  catalog,
		log:      log,
	}
}

func (c *CancellationCoordinator) Cancel(ctx context.Context, bookingID uuid.UUID, actor domain.Actor) (*domain.Booking, error) {
	return c.CancelWithPayment(ctx, bookingID, actor, "")
}

// CancelWithPayment cancels and sets the payment status in the same write,
// e.g. cancelled + refunded. An empty payment keeps the current value.
func (c *CancellationCoordinator) CancelWithPayment(ctx context.Context, bookingID uuid.UUID, actor domain.Actor, payment domain.PaymentStatus) (*domain.Booking, error) {
	booking, err := c.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if !actor.CanCancel(booking) {
		return nil, domain.ErrForbidden
	}

	cancelled, err := c.ledger.Transition(ctx, booking, actor, StatusUpdate{
		Status:        domain.BookingCancelled,
		PaymentStatus: payment,
	})
	if err != nil {
		return nil, err
	}

	if err := c.restoreCapacity(ctx, cancelled); err != nil {
		return nil, err
	}

	return cancelled, nil
}

// Expire cancels a booking that is still pending on behalf of the system.
// Bookings that moved on in the meantime are left alone.
func (c *CancellationCoordinator) Expire(ctx context.Context, bookingID uuid.UUID) (bool, error) {
	booking, err := c.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return false, err
	}

	if booking.Status != domain.BookingPending {
		return false, nil
	}

	cancelled, err := c.ledger.apply(ctx, booking, domain.StatusChange{
		Status:        domain.BookingCancelled,
		PaymentStatus: booking.PaymentStatus,
	})
	if errors.Is(err, domain.ErrInvalidTransition) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	if err := c.restoreCapacity(ctx, cancelled); err != nil {
		return true, err
	}

	return true, nil
}

func (c *CancellationCoordinator) restoreCapacity(ctx context.Context, booking *domain.Booking) error {
	key := booking.SlotKey()
	fields := slotFields(booking.TourID, key, booking.NumberOfPeople)
	fields["booking_id"] = booking.ID

	err := c.catalog.Credit(context.WithoutCancel(ctx), booking.TourID, key, booking.NumberOfPeople)
	if errors.Is(err, domain.ErrNotFound) {
		c.log.WithFields(fields).Warn("booking cancelled but its slot no longer exists, capacity not restored")
		return nil
	}
	if err != nil {
		c.log.WithFields(fields).WithError(err).Error("booking cancelled but capacity restore failed, slot needs reconciliation")
		return fmt.Errorf("failed to restore slot capacity: %w", err)
	}

	c.log.WithFields(fields).Info("booking cancelled, slot capacity restored")
	return nil
}
