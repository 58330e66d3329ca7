package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/srgjo27/tour_booking/internal/adapter/repository/memory"
	"github.com/srgjo27/tour_booking/internal/core/domain"
	"github.com/srgjo27/tour_booking/internal/core/services"
	"github.com/stretchr/testify/require"
)

var slotDay = time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

type fixture struct {
	store   *memory.Store
	svc     *services.BookingService
	tour    *domain.Tour
	key     domain.SlotKey
	guide   domain.Actor
	tourist domain.Actor
	admin   domain.Actor
	hook    *logtest.Hook
}

func newFixture(t *testing.T, spots int) *fixture {
	t.Helper()

	log, hook := logtest.NewNullLogger()
	log.SetLevel(logrus.DebugLevel)

	store := memory.NewStore()
	guide := domain.Actor{ID: uuid.New(), Role: domain.RoleGuide}

	tour := &domain.Tour{
		ID:       uuid.New(),
		GuideID:  guide.ID,
		Title:    "Old Town Walk",
		Price:    50,
		Currency: "USD",
		IsActive: true,
		Slots: []domain.AvailabilitySlot{
			{Date: slotDay, StartTime: "09:00", AvailableSpots: spots, Capacity: spots},
			{Date: slotDay, StartTime: "14:00", AvailableSpots: 4, Capacity: 4},
		},
	}
	require.NoError(t, store.CreateTour(context.Background(), tour))

	catalog := services.NewSlotCatalog(store, nil, log)
	svc := services.NewBookingService(store, store, catalog, nil, services.Options{}, log)

	return &fixture{
		store:   store,
		svc:     svc,
		tour:    tour,
		key:     domain.NewSlotKey(slotDay, "09:00"),
		guide:   guide,
		tourist: domain.Actor{ID: uuid.New(), Role: domain.RoleTourist},
		admin:   domain.Actor{ID: uuid.New(), Role: domain.RoleAdmin},
		hook:    hook,
	}
}

func (f *fixture) request(people int) services.ReservationRequest {
	return services.ReservationRequest{
		TourID:         f.tour.ID,
		SelectedDate:   slotDay.Add(10 * time.Hour),
		SelectedTime:   "09:00",
		NumberOfPeople: people,
		ContactPhone:   "+15550100",
		ContactEmail:   "tourist@example.com",
	}
}

func (f *fixture) spots(t *testing.T) int {
	t.Helper()

	tour, err := f.store.GetTour(context.Background(), f.tour.ID)
	require.NoError(t, err)

	slot, ok := tour.FindSlot(f.key)
	require.True(t, ok)

	return slot.AvailableSpots
}

func (f *fixture) newTourist() domain.Actor {
	return domain.Actor{ID: uuid.New(), Role: domain.RoleTourist}
}
