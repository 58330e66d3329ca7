package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/srgjo27/tour_booking/internal/core/domain"
	"github.com/srgjo27/tour_booking/internal/core/ports"
)

type Options struct {
	// PendingHoldTTL expires pending bookings older than this. Zero keeps
	// pending bookings holding their spots until someone cancels them.
	PendingHoldTTL  time.Duration
	CleanupInterval time.Duration
	CleanupBatch    int
}

// BookingService is the booking surface used by the transport layer.
type BookingService struct {
	bookings      ports.BookingRepository
	ledger        *BookingLedger
	reservations  *ReservationCoordinator
	cancellations *CancellationCoordinator
	payments      *PaymentService
	opts          Options
	log           logrus.FieldLogger
	now           func() time.Time
}

func NewBookingService(tours ports.TourRepository, bookings ports.BookingRepository, catalog *SlotCatalog, events ports.PaymentEventStore, opts Options, log logrus.FieldLogger) *BookingService {
	if opts.CleanupInterval <= 0 {
		opts.CleanupInterval = time.Minute
	}
	if opts.CleanupBatch <= 0 {
		opts.CleanupBatch = 100
	}

	ledger := NewBookingLedger(bookings, log)

	return &BookingService{
		bookings:      bookings,
		ledger:        ledger,
		reservations:  NewReservationCoordinator(tours, catalog, ledger, log),
		cancellations: NewCancellationCoordinator(bookings, ledger, catalog, log),
		payments:      NewPaymentService(bookings, ledger, events, log),
		opts:          opts,
		log:           log,
		now:           time.Now,
	}
}

func (s *BookingService) CreateBooking(ctx context.Context, actor domain.Actor, req ReservationRequest) (*domain.Booking, error) {
	return s.reservations.Reserve(ctx, actor, req)
}

func (s *BookingService) GetBooking(ctx context.Context, bookingID uuid.UUID, actor domain.Actor) (*domain.Booking, error) {
	return s.ledger.Get(ctx, bookingID, actor)
}

func (s *BookingService) ListBookings(ctx context.Context, actor domain.Actor) ([]domain.Booking, error) {
	return s.ledger.List(ctx, actor)
}

// UpdateBookingStatus routes cancellations through the cancellation
// coordinator so capacity always comes back with them.
func (s *BookingService) UpdateBookingStatus(ctx context.Context, bookingID uuid.UUID, actor domain.Actor, update StatusUpdate) (*domain.Booking, error) {
	if update.Status == domain.BookingCancelled {
		return s.cancellations.CancelWithPayment(ctx, bookingID, actor, update.PaymentStatus)
	}

	return s.ledger.TransitionStatus(ctx, bookingID, actor, update)
}

func (s *BookingService) CancelBooking(ctx context.Context, bookingID uuid.UUID, actor domain.Actor) (*domain.Booking, error) {
	return s.cancellations.Cancel(ctx, bookingID, actor)
}

func (s *BookingService) HandlePaymentSignal(ctx context.Context, sig PaymentSignal) (*domain.Booking, error) {
	return s.payments.HandleSignal(ctx, sig)
}

func (s *BookingService) RunBackgroundCleanup(ctx context.Context) {
	if s.opts.PendingHoldTTL <= 0 {
		s.log.Info("Pending hold expiry disabled, background worker not started.")
		return
	}

	ticker := time.NewTicker(s.opts.CleanupInterval)
	defer ticker.Stop()

	s.log.WithFields(logrus.Fields{
		"interval": s.opts.CleanupInterval,
		"ttl":      s.opts.PendingHoldTTL,
	}).Info("Background worker started: expiring stale pending bookings")

	for {
		select {
		case <-ctx.Done():
			s.log.Info("Background worker stopped.")
			return
		case <-ticker.C:
			s.processExpiredBookings(ctx)
		}
	}
}

func (s *BookingService) processExpiredBookings(ctx context.Context) int {
	cutoff := s.now().UTC().Add(-s.opts.PendingHoldTTL)

	ids, err := s.bookings.GetExpiredPending(ctx, cutoff, s.opts.CleanupBatch)
	if err != nil {
		s.log.WithError(err).Error("Error fetching expired bookings")
		return 0
	}

	if len(ids) == 0 {
		return 0
	}

	s.log.Infof("Found %d expired pending bookings. Releasing spots...", len(ids))

	expired := 0
	for _, id := range ids {
		ok, err := s.cancellations.Expire(ctx, id)
		if err != nil {
			s.log.WithField("booking_id", id).WithError(err).Error("Failed to expire booking")
			continue
		}
		if ok {
			expired++
		}
	}

	return expired
}
