package services

import (
	"context"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/srgjo27/tour_booking/internal/core/domain"
	"github.com/srgjo27/tour_booking/internal/core/ports"
)

// SlotCatalog answers slot lookups and moves capacity. Debit and Credit go
// straight to the repository's single conditional write; the cache is only
// refreshed afterwards.
type SlotCatalog struct {
	tours ports.TourRepository
	cache ports.SlotCache
	log   logrus.FieldLogger
}

func NewSlotCatalog(tours ports.TourRepository, cache ports.SlotCache, log logrus.FieldLogger) *SlotCatalog {
	if cache == nil {
		cache = nopSlotCache{}
	}

	return &SlotCatalog{
		tours: tours,
		cache: cache,
		log:   log,
	}
}

func (c *SlotCatalog) FindSlot(tour *domain.Tour, key domain.SlotKey) (domain.AvailabilitySlot, error) {
	slot, ok := tour.FindSlot(key)
	if !ok {
		return domain.AvailabilitySlot{}, domain.ErrSlotNotFound
	}

	return slot, nil
}

func (c *SlotCatalog) Debit(ctx context.Context, tourID uuid.UUID, key domain.SlotKey, count int) error {
	if count < 1 {
		return domain.NewValidationError("numberOfPeople", "must be at least 1")
	}

	if err := c.tours.DebitSlot(ctx, tourID, key, count); err != nil {
		return err
	}

	c.invalidate(ctx, tourID)
	return nil
}

func (c *SlotCatalog) Credit(ctx context.Context, tourID uuid.UUID, key domain.SlotKey, count int) error {
	if count < 1 {
		return domain.NewValidationError("numberOfPeople", "must be at least 1")
	}

	if err := c.tours.CreditSlot(ctx, tourID, key, count); err != nil {
		return err
	}

	c.invalidate(ctx, tourID)
	return nil
}

// ListSlots serves the display listing from the cache when it can. A listing
// loaded from the repository is written back under the generation seen
// before the load, so an invalidation in between wins. Without a readable
// generation nothing is written back.
func (c *SlotCatalog) ListSlots(ctx context.Context, tourID uuid.UUID) ([]domain.AvailabilitySlot, error) {
	listing, hit, cacheErr := c.cache.GetSlots(ctx, tourID)
	if cacheErr != nil {
		c.log.WithError(cacheErr).WithField("tour_id", tourID).Warn("slot cache read failed")
	}
	if hit {
		return listing.Slots, nil
	}

	tour, err := c.tours.GetTour(ctx, tourID)
	if err != nil {
		return nil, err
	}

	if cacheErr == nil {
		listing.Slots = tour.Slots
		if err := c.cache.SetSlots(ctx, tourID, listing); err != nil {
			c.log.WithError(err).WithField("tour_id", tourID).Warn("slot cache write failed")
		}
	}

	return tour.Slots, nil
}

func (c *SlotCatalog) invalidate(ctx context.Context, tourID uuid.UUID) {
	if err := c.cache.Invalidate(ctx, tourID); err != nil {
		c.log.WithFields(logrus.Fields{
			"tour_id": tourID,
			"error":   err,
		}).Warn("failed to invalidate slot cache")
	}
}

type nopSlotCache struct{}

func (nopSlotCache) GetSlots(context.Context, uuid.UUID) (ports.SlotListing, bool, error) {
	return ports.SlotListing{}, false, nil
}

func (nopSlotCache) SetSlots(context.Context, uuid.UUID, ports.SlotListing) error {
	return nil
}

func (nopSlotCache) Invalidate(context.Context, uuid.UUID) error {
	return nil
}

func slotFields(tourID uuid.UUID, key domain.SlotKey, count int) logrus.Fields {
	return logrus.Fields{
		"tour_id": tourID,
		"slot":    key.String(),
		"count":   count,
	}
}
