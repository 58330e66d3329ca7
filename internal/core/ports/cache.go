package ports

import (
	"context"

	"github.com/google/uuid"
	"github.com/srgjo27/tour_booking/internal/core/domain"
)

// SlotListing is a tour's slot listing together with the cache generation
// it was read at. Every Invalidate moves the generation forward.
type SlotListing struct {
	Slots      []domain.AvailabilitySlot
	Generation int64
}

// SlotCache holds slot listings for display only. Capacity decisions always
// go to the TourRepository.
//
// GetSlots reports the current generation on a miss too. SetSlots stores the
// listing only if no Invalidate ran since that generation was read, so a
// listing loaded before a debit is never written back after it.
type SlotCache interface {
	GetSlots(ctx context.Context, tourID uuid.UUID) (SlotListing, bool, error)
	SetSlots(ctx context.Context, tourID uuid.UUID, listing SlotListing) error
	Invalidate(ctx context.Context, tourID uuid.UUID) error
}

// PaymentEventStore remembers provider event ids that were already applied.
// MarkProcessed returns false when the id was seen before.
type PaymentEventStore interface {
	MarkProcessed(ctx context.Context, eventID string) (bool, error)
	Release(ctx context.Context, eventID string) error
}
