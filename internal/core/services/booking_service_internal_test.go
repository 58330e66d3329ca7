package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/srgjo27/tour_booking/internal/adapter/repository/memory"
	"github.com/srgjo27/tour_booking/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProcessExpiredBookings_ReleasesStalePendingHolds(t *testing.T) {
	log, _ := logtest.NewNullLogger()
	store := memory.NewStore()
	ctx := context.Background()

	day := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	tour := &domain.Tour{
		ID:       uuid.New(),
		GuideID:  uuid.New(),
		Price:    20,
		IsActive: true,
		Slots:    []domain.AvailabilitySlot{{Date: day, StartTime: "09:00", AvailableSpots: 10, Capacity: 10}},
	}
	require.NoError(t, store.CreateTour(ctx, tour))

	catalog := NewSlotCatalog(store, nil, log)
	svc := NewBookingService(store, store, catalog, nil, Options{PendingHoldTTL: 15 * time.Minute}, log)

	clock := time.Date(2025, 5, 20, 12, 0, 0, 0, time.UTC)
	svc.ledger.now = func() time.Time { return clock }

	req := ReservationRequest{
		TourID:         tour.ID,
		SelectedDate:   day,
		SelectedTime:   "09:00",
		NumberOfPeople: 3,
		ContactPhone:   "+15550100",
		ContactEmail:   "a@example.com",
	}
	tourist := domain.Actor{ID: uuid.New(), Role: domain.RoleTourist}

	stale, err := svc.CreateBooking(ctx, tourist, req)
	require.NoError(t, err)

	paid, err := svc.CreateBooking(ctx, tourist, req)
	require.NoError(t, err)
	_, err = svc.HandlePaymentSignal(ctx, PaymentSignal{BookingID: paid.ID, Succeeded: true})
	require.NoError(t, err)

	clock = clock.Add(10 * time.Minute)
	fresh, err := svc.CreateBooking(ctx, tourist, req)
	require.NoError(t, err)

	svc.now = func() time.Time { return clock.Add(6 * time.Minute) }

	assert.Equal(t, 1, svc.processExpiredBookings(ctx))

	got, err := store.GetByID(ctx, stale.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.BookingCancelled, got.Status)

	got, err = store.GetByID(ctx, fresh.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.BookingPending, got.Status)

	current, err := store.GetTour(ctx, tour.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, current.Slots[0].AvailableSpots)

	assert.Equal(t, 0, svc.processExpiredBookings(ctx))
}

func TestRunBackgroundCleanup_DisabledReturnsImmediately(t *testing.T) {
	log, hook := logtest.NewNullLogger()
	store := memory.NewStore()
	svc := NewBookingService(store, store, NewSlotCatalog(store, nil, log), nil, Options{}, log)

	done := make(chan struct{})
	go func() {
		svc.RunBackgroundCleanup(context.Background())
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("cleanup worker should not start without a hold TTL")
	}

	assert.Contains(t, hook.LastEntry().Message, "disabled")
}
