package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/srgjo27/tour_booking/internal/core/domain"
	"github.com/srgjo27/tour_booking/internal/core/ports"
)

type PublishTourRequest struct {
	GuideID  uuid.UUID
	Title    string        `validate:"required,max=100"`
	Price    float64       `validate:"gte=0"`
	Currency string        `validate:"omitempty,len=3"`
	Slots    []PublishSlot `validate:"required,min=1,dive"`
}

type PublishSlot struct {
	Date           time.Time `validate:"required"`
	StartTime      string    `validate:"required"`
	EndTime        string
	AvailableSpots int `validate:"gte=0"`
}

type TourService struct {
	tours   ports.TourRepository
	catalog *SlotCatalog
	log     logrus.FieldLogger
	now     func() time.Time
}

func NewTourService(tours ports.TourRepository, catalog *SlotCatalog, log logrus.FieldLogger) *TourService {
	return &TourService{
		tours:   tours,
		catalog: catalog,
		log:     log,
		now:     time.Now,
	}
}

// Publish creates a tour with its slots. Each slot's published capacity is
// its initial number of spots.
func (s *TourService) Publish(ctx context.Context, actor domain.Actor, req PublishTourRequest) (*domain.Tour, error) {
	guideID := req.GuideID

	switch actor.Role {
	case domain.RoleGuide:
		if guideID != uuid.Nil && guideID != actor.ID {
			return nil, domain.ErrForbidden
		}
		guideID = actor.ID
	case domain.RoleAdmin:
		if guideID == uuid.Nil {
			return nil, domain.NewValidationError("guide", "is required")
		}
	default:
		return nil, domain.ErrForbidden
	}

	if err := validateStruct(req); err != nil {
		return nil, err
	}

	currency := req.Currency
	if currency == "" {
		currency = "USD"
	}

	tour := &domain.Tour{
		ID:        uuid.New(),
		GuideID:   guideID,
		Title:     req.Title,
		Price:     req.Price,
		Currency:  currency,
		IsActive:  true,
		CreatedAt: s.now().UTC(),
		Slots:     make([]domain.AvailabilitySlot, 0, len(req.Slots)),
	}

	for _, slot := range req.Slots {
		tour.Slots = append(tour.Slots, domain.AvailabilitySlot{
			Date:           domain.TruncateDay(slot.Date),
			StartTime:      slot.StartTime,
			EndTime:        slot.EndTime,
			AvailableSpots: slot.AvailableSpots,
			Capacity:       slot.AvailableSpots,
		})
	}

	if err := tour.ValidateSlots(); err != nil {
		return nil, err
	}

	if err := s.tours.CreateTour(ctx, tour); err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"tour_id":  tour.ID,
		"guide_id": tour.GuideID,
		"slots":    len(tour.Slots),
	}).Info("tour published")

	return tour, nil
}

func (s *TourService) ListSlots(ctx context.Context, tourID uuid.UUID) ([]domain.AvailabilitySlot, error) {
	return s.catalog.ListSlots(ctx, tourID)
}
