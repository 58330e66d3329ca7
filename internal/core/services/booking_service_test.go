package services_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/srgjo27/tour_booking/internal/core/domain"
	"github.com/srgjo27/tour_booking/internal/core/ports"
	"github.com/srgjo27/tour_booking/internal/core/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScenario_FifteenSpotSlot(t *testing.T) {
	f := newFixture(t, 15)
	ctx := context.Background()

	a, err := f.svc.CreateBooking(ctx, f.newTourist(), f.request(10))
	require.NoError(t, err)
	assert.Equal(t, 5, f.spots(t))

	_, err = f.svc.CreateBooking(ctx, f.newTourist(), f.request(10))
	assert.ErrorIs(t, err, domain.ErrInsufficientCapacity)
	assert.Equal(t, 5, f.spots(t))

	_, err = f.svc.CreateBooking(ctx, f.newTourist(), f.request(5))
	require.NoError(t, err)
	assert.Equal(t, 0, f.spots(t))

	_, err = f.svc.CancelBooking(ctx, a.ID, domain.Actor{ID: a.TouristID, Role: domain.RoleTourist})
	require.NoError(t, err)
	assert.Equal(t, 10, f.spots(t))
}

func TestCapacityConservation_ConcurrentReservations(t *testing.T) {
	const capacity = 20
	const attempts = 40
	const party = 3

	f := newFixture(t, capacity)
	ctx := context.Background()

	var succeeded int32
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			_, err := f.svc.CreateBooking(ctx, f.newTourist(), f.request(party))
			if err == nil {
				atomic.AddInt32(&succeeded, 1)
				return
			}
			assert.ErrorIs(t, err, domain.ErrInsufficientCapacity)
		}()
	}
	wg.Wait()

	assert.EqualValues(t, capacity/party, succeeded)

	bookings, err := f.svc.ListBookings(ctx, f.admin)
	require.NoError(t, err)

	reserved := 0
	for _, b := range bookings {
		if b.Status != domain.BookingCancelled {
			reserved += b.NumberOfPeople
		}
	}
	assert.Equal(t, capacity-reserved, f.spots(t))
	assert.GreaterOrEqual(t, f.spots(t), 0)
}

func TestCompensation_FailedPersistenceLeavesCapacity(t *testing.T) {
	f := newFixture(t, 8)
	f.store.FailNextCreate = errors.New("write timeout")

	_, err := f.svc.CreateBooking(context.Background(), f.tourist, f.request(4))

	require.Error(t, err)
	assert.Equal(t, 8, f.spots(t))
}

func TestCancel_TwiceCreditsOnce(t *testing.T) {
	f := newFixture(t, 6)
	ctx := context.Background()

	b, err := f.svc.CreateBooking(ctx, f.tourist, f.request(4))
	require.NoError(t, err)

	_, err = f.svc.UpdateBookingStatus(ctx, b.ID, f.guide, services.StatusUpdate{Status: domain.BookingConfirmed})
	require.NoError(t, err)

	cancelled, err := f.svc.CancelBooking(ctx, b.ID, f.tourist)
	require.NoError(t, err)
	assert.Equal(t, domain.BookingCancelled, cancelled.Status)
	assert.Equal(t, 6, f.spots(t))

	_, err = f.svc.CancelBooking(ctx, b.ID, f.tourist)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	assert.Equal(t, 6, f.spots(t))
}

func TestCancel_ConcurrentCancelsCreditOnce(t *testing.T) {
	f := newFixture(t, 10)
	ctx := context.Background()

	b, err := f.svc.CreateBooking(ctx, f.tourist, f.request(6))
	require.NoError(t, err)

	var wins int32
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := f.svc.CancelBooking(ctx, b.ID, f.admin); err == nil {
				atomic.AddInt32(&wins, 1)
			}
		}()
	}
	wg.Wait()

	assert.EqualValues(t, 1, wins)
	assert.Equal(t, 10, f.spots(t))
}

func TestCancel_SlotRemovedStillCancels(t *testing.T) {
	f := newFixture(t, 5)
	ctx := context.Background()

	b, err := f.svc.CreateBooking(ctx, f.tourist, f.request(2))
	require.NoError(t, err)

	f.store.DeleteTour(ctx, f.tour.ID)

	cancelled, err := f.svc.CancelBooking(ctx, b.ID, f.tourist)
	require.NoError(t, err)
	assert.Equal(t, domain.BookingCancelled, cancelled.Status)

	var warned bool
	for _, entry := range f.hook.AllEntries() {
		if entry.Level == logrus.WarnLevel && entry.Data["booking_id"] == b.ID {
			warned = true
		}
	}
	assert.True(t, warned, "expected a warning about the missing slot")
}

func TestCancel_Authorization(t *testing.T) {
	f := newFixture(t, 5)
	ctx := context.Background()

	b, err := f.svc.CreateBooking(ctx, f.tourist, f.request(1))
	require.NoError(t, err)

	_, err = f.svc.CancelBooking(ctx, b.ID, f.newTourist())
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = f.svc.CancelBooking(ctx, b.ID, f.guide)
	assert.ErrorIs(t, err, domain.ErrForbidden)
	assert.Equal(t, 4, f.spots(t))

	_, err = f.svc.CancelBooking(ctx, uuid.New(), f.admin)
	assert.ErrorIs(t, err, domain.ErrBookingNotFound)

	_, err = f.svc.CancelBooking(ctx, b.ID, f.admin)
	require.NoError(t, err)
	assert.Equal(t, 5, f.spots(t))
}

func TestUpdateBookingStatus_Authorization(t *testing.T) {
	f := newFixture(t, 5)
	ctx := context.Background()

	b, err := f.svc.CreateBooking(ctx, f.tourist, f.request(1))
	require.NoError(t, err)

	otherGuide := domain.Actor{ID: uuid.New(), Role: domain.RoleGuide}
	_, err = f.svc.UpdateBookingStatus(ctx, b.ID, otherGuide, services.StatusUpdate{Status: domain.BookingConfirmed})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = f.svc.UpdateBookingStatus(ctx, b.ID, f.tourist, services.StatusUpdate{Status: domain.BookingConfirmed})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	updated, err := f.svc.UpdateBookingStatus(ctx, b.ID, f.guide, services.StatusUpdate{Status: domain.BookingConfirmed})
	require.NoError(t, err)
	assert.Equal(t, domain.BookingConfirmed, updated.Status)

	updated, err = f.svc.UpdateBookingStatus(ctx, b.ID, f.admin, services.StatusUpdate{Status: domain.BookingCompleted})
	require.NoError(t, err)
	assert.Equal(t, domain.BookingCompleted, updated.Status)

	_, err = f.svc.UpdateBookingStatus(ctx, b.ID, f.admin, services.StatusUpdate{Status: domain.BookingCancelled})
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	assert.Equal(t, 4, f.spots(t))
}

func TestUpdateBookingStatus_CancelRestoresCapacity(t *testing.T) {
	f := newFixture(t, 5)
	ctx := context.Background()

	b, err := f.svc.CreateBooking(ctx, f.tourist, f.request(3))
	require.NoError(t, err)

	updated, err := f.svc.UpdateBookingStatus(ctx, b.ID, f.admin, services.StatusUpdate{
		Status:        domain.BookingCancelled,
		PaymentStatus: domain.PaymentRefunded,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.BookingCancelled, updated.Status)
	assert.Equal(t, domain.PaymentRefunded, updated.PaymentStatus)
	assert.Equal(t, 5, f.spots(t))
}

func TestUpdateBookingStatus_InvalidInput(t *testing.T) {
	f := newFixture(t, 5)
	ctx := context.Background()

	b, err := f.svc.CreateBooking(ctx, f.tourist, f.request(1))
	require.NoError(t, err)

	_, err = f.svc.UpdateBookingStatus(ctx, b.ID, f.guide, services.StatusUpdate{})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = f.svc.UpdateBookingStatus(ctx, b.ID, f.guide, services.StatusUpdate{Status: "archived"})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = f.svc.UpdateBookingStatus(ctx, b.ID, f.guide, services.StatusUpdate{Status: domain.BookingCompleted})
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestGetBooking_Visibility(t *testing.T) {
	f := newFixture(t, 5)
	ctx := context.Background()

	b, err := f.svc.CreateBooking(ctx, f.tourist, f.request(1))
	require.NoError(t, err)

	for _, actor := range []domain.Actor{f.tourist, f.guide, f.admin} {
		got, err := f.svc.GetBooking(ctx, b.ID, actor)
		require.NoError(t, err)
		assert.Equal(t, b.ID, got.ID)
	}

	_, err = f.svc.GetBooking(ctx, b.ID, f.newTourist())
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = f.svc.GetBooking(ctx, uuid.New(), f.admin)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestListBookings_FilteredByRole(t *testing.T) {
	f := newFixture(t, 10)
	ctx := context.Background()

	other := f.newTourist()
	_, err := f.svc.CreateBooking(ctx, f.tourist, f.request(1))
	require.NoError(t, err)
	_, err = f.svc.CreateBooking(ctx, other, f.request(1))
	require.NoError(t, err)

	mine, err := f.svc.ListBookings(ctx, f.tourist)
	require.NoError(t, err)
	assert.Len(t, mine, 1)

	guided, err := f.svc.ListBookings(ctx, f.guide)
	require.NoError(t, err)
	assert.Len(t, guided, 2)

	stranger, err := f.svc.ListBookings(ctx, domain.Actor{ID: uuid.New(), Role: domain.RoleGuide})
	require.NoError(t, err)
	assert.Empty(t, stranger)

	all, err := f.svc.ListBookings(ctx, f.admin)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestPaymentSignal_Idempotent(t *testing.T) {
	f := newFixture(t, 5)
	ctx := context.Background()

	b, err := f.svc.CreateBooking(ctx, f.tourist, f.request(2))
	require.NoError(t, err)

	sig := services.PaymentSignal{BookingID: b.ID, Succeeded: true}

	first, err := f.svc.HandlePaymentSignal(ctx, sig)
	require.NoError(t, err)
	assert.Equal(t, domain.BookingConfirmed, first.Status)
	assert.Equal(t, domain.PaymentPaid, first.PaymentStatus)

	second, err := f.svc.HandlePaymentSignal(ctx, sig)
	require.NoError(t, err)
	assert.Equal(t, first.Status, second.Status)
	assert.Equal(t, first.PaymentStatus, second.PaymentStatus)
	assert.Equal(t, first.UpdatedAt, second.UpdatedAt)
	assert.Equal(t, 3, f.spots(t))
}

func TestPaymentSignal_CancelledBooking(t *testing.T) {
	f := newFixture(t, 5)
	ctx := context.Background()

	b, err := f.svc.CreateBooking(ctx, f.tourist, f.request(2))
	require.NoError(t, err)
	_, err = f.svc.CancelBooking(ctx, b.ID, f.tourist)
	require.NoError(t, err)

	_, err = f.svc.HandlePaymentSignal(ctx, services.PaymentSignal{BookingID: b.ID, Succeeded: true})
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestPaymentSignal_Failure(t *testing.T) {
	f := newFixture(t, 5)
	ctx := context.Background()

	b, err := f.svc.CreateBooking(ctx, f.tourist, f.request(2))
	require.NoError(t, err)

	failed, err := f.svc.HandlePaymentSignal(ctx, services.PaymentSignal{BookingID: b.ID})
	require.NoError(t, err)
	assert.Equal(t, domain.BookingPending, failed.Status)
	assert.Equal(t, domain.PaymentFailed, failed.PaymentStatus)

	paid, err := f.svc.HandlePaymentSignal(ctx, services.PaymentSignal{BookingID: b.ID, Succeeded: true})
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentPaid, paid.PaymentStatus)

	again, err := f.svc.HandlePaymentSignal(ctx, services.PaymentSignal{BookingID: b.ID})
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentPaid, again.PaymentStatus)
}

// interleavedBookings runs hook once, right after the next GetByID returns,
// so a second writer lands between a reader's load and its write.
type interleavedBookings struct {
	ports.BookingRepository
	mu   sync.Mutex
	hook func()
}

func (r *interleavedBookings) GetByID(ctx context.Context, id uuid.UUID) (*domain.Booking, error) {
	b, err := r.BookingRepository.GetByID(ctx, id)

	r.mu.Lock()
	hook := r.hook
	r.hook = nil
	r.mu.Unlock()

	if hook != nil {
		hook()
	}

	return b, err
}

func TestCancel_DoesNotOverwriteConcurrentPaymentStatus(t *testing.T) {
	f := newFixture(t, 10)
	ctx := context.Background()

	booking, err := f.svc.CreateBooking(ctx, f.tourist, f.request(3))
	require.NoError(t, err)

	log, _ := logtest.NewNullLogger()
	bookings := &interleavedBookings{BookingRepository: f.store}
	catalog := services.NewSlotCatalog(f.store, nil, log)
	svc := services.NewBookingService(f.store, bookings, catalog, nil, services.Options{}, log)

	bookings.hook = func() {
		_, err := f.svc.HandlePaymentSignal(ctx, services.PaymentSignal{BookingID: booking.ID, Succeeded: false})
		require.NoError(t, err)
	}

	_, err = svc.CancelBooking(ctx, booking.ID, f.tourist)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	stored, err := f.store.GetByID(ctx, booking.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.BookingPending, stored.Status)
	assert.Equal(t, domain.PaymentFailed, stored.PaymentStatus)
	assert.Equal(t, 7, f.spots(t))

	cancelled, err := svc.CancelBooking(ctx, booking.ID, f.tourist)
	require.NoError(t, err)
	assert.Equal(t, domain.BookingCancelled, cancelled.Status)
	assert.Equal(t, domain.PaymentFailed, cancelled.PaymentStatus)
	assert.Equal(t, 10, f.spots(t))
}
