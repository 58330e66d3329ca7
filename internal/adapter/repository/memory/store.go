package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/srgjo27/tour_booking/internal/core/domain"
	"github.com/srgjo27/tour_booking/internal/core/ports"
)

// Store keeps tours and bookings in process memory. Every method holds the
// mutex for its whole read-modify-write, which gives DebitSlot the same
// indivisibility the SQL and document stores get from a conditional update.
type Store struct {
	mu       sync.Mutex
	tours    map[uuid.UUID]*domain.Tour
	bookings map[uuid.UUID]*domain.Booking

	// FailNextCreate makes the next CreateBooking return this error.
	FailNextCreate error
}

func NewStore() *Store {
	return &Store{
		tours:    make(map[uuid.UUID]*domain.Tour),
		bookings: make(map[uuid.UUID]*domain.Booking),
	}
}

func (s *Store) CreateTour(ctx context.Context, tour *domain.Tour) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.tours[tour.ID]; exists {
		return fmt.Errorf("tour %s already exists", tour.ID)
	}

	s.tours[tour.ID] = cloneTour(tour)
	return nil
}

func (s *Store) GetTour(ctx context.Context, tourID uuid.UUID) (*domain.Tour, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tour, ok := s.tours[tourID]
	if !ok {
		return nil, domain.ErrTourNotFound
	}

	return cloneTour(tour), nil
}

// DeleteTour drops a tour without touching its bookings.
func (s *Store) DeleteTour(ctx context.Context, tourID uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.tours, tourID)
}

func (s *Store) DebitSlot(ctx context.Context, tourID uuid.UUID, key domain.SlotKey, count int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	slot, err := s.slot(tourID, key)
	if err != nil {
		return err
	}

	if slot.AvailableSpots < count {
		return domain.ErrInsufficientCapacity
	}

	slot.AvailableSpots -= count
	return nil
}

func (s *Store) CreditSlot(ctx context.Context, tourID uuid.UUID, key domain.SlotKey, count int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	slot, err := s.slot(tourID, key)
	if err != nil {
		return err
	}

	slot.AvailableSpots += count
	return nil
}

func (s *Store) slot(tourID uuid.UUID, key domain.SlotKey) (*domain.AvailabilitySlot, error) {
	tour, ok := s.tours[tourID]
	if !ok {
		return nil, domain.ErrTourNotFound
	}

	for i := range tour.Slots {
		if tour.Slots[i].Key() == key {
			return &tour.Slots[i], nil
		}
	}

	return nil, domain.ErrSlotNotFound
}

func (s *Store) CreateBooking(ctx context.Context, booking *domain.Booking) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.FailNextCreate; err != nil {
		s.FailNextCreate = nil
		return err
	}

	b := *booking
	s.bookings[b.ID] = &b
	return nil
}

func (s *Store) GetByID(ctx context.Context, bookingID uuid.UUID) (*domain.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.bookings[bookingID]
	if !ok {
		return nil, domain.ErrBookingNotFound
	}

	out := *b
	return &out, nil
}

func (s *Store) List(ctx context.Context, filter ports.BookingFilter) ([]domain.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]domain.Booking, 0, len(s.bookings))
	for _, b := range s.bookings {
		if filter.TouristID != nil && b.TouristID != *filter.TouristID {
			continue
		}
		if filter.GuideID != nil && b.GuideID != *filter.GuideID {
			continue
		}
		out = append(out, *b)
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})

	return out, nil
}

func (s *Store) UpdateStatus(ctx context.Context, bookingID uuid.UUID, expected domain.StatusChange, change domain.StatusChange, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.bookings[bookingID]
	if !ok {
		return domain.ErrBookingNotFound
	}

	if b.Status != expected.Status || b.PaymentStatus != expected.PaymentStatus {
		return domain.ErrInvalidTransition
	}

	b.Status = change.Status
	b.PaymentStatus = change.PaymentStatus
	b.UpdatedAt = at
	return nil
}

func (s *Store) GetExpiredPending(ctx context.Context, createdBefore time.Time, limit int) ([]uuid.UUID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var ids []uuid.UUID
	for id, b := range s.bookings {
		if len(ids) >= limit {
			break
		}
		if b.Status == domain.BookingPending && b.CreatedAt.Before(createdBefore) {
			ids = append(ids, id)
		}
	}

	return ids, nil
}

func cloneTour(t *domain.Tour) *domain.Tour {
	out := *t
	out.Slots = append([]domain.AvailabilitySlot(nil), t.Slots...)
	return &out
}
