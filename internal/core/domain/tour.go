package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

const DateLayout = "2006-01-02"

type Tour struct {
	ID        uuid.UUID
	GuideID   uuid.UUID
	Title     string
	Price     float64
	Currency  string
	IsActive  bool
	Slots     []AvailabilitySlot
	CreatedAt time.Time
}

type AvailabilitySlot struct {
	Date           time.Time
	StartTime      string
	EndTime        string
	AvailableSpots int
	Capacity       int
}

// SlotKey identifies a slot inside a tour. Date is always a UTC midnight.
type SlotKey struct {
	Date      time.Time
	StartTime string
}

func NewSlotKey(date time.Time, startTime string) SlotKey {
	return SlotKey{Date: TruncateDay(date), StartTime: startTime}
}

func (k SlotKey) String() string {
	return fmt.Sprintf("%s@%s", k.Date.Format(DateLayout), k.StartTime)
}

// TruncateDay keeps the calendar day of t as seen in t's own location and
// drops the time of day.
func TruncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDate accepts a bare calendar day or a full RFC3339 timestamp.
func ParseDate(s string) (time.Time, error) {
	if t, err := time.Parse(DateLayout, s); err == nil {
		return t, nil
	}

	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q", s)
	}

	return TruncateDay(t), nil
}

func (s AvailabilitySlot) Key() SlotKey {
	return NewSlotKey(s.Date, s.StartTime)
}

func (s AvailabilitySlot) HasRoomFor(count int) bool {
	return count > 0 && s.AvailableSpots >= count
}

func (t *Tour) FindSlot(key SlotKey) (AvailabilitySlot, bool) {
	for _, slot := range t.Slots {
		if slot.Key() == key {
			return slot, true
		}
	}

	return AvailabilitySlot{}, false
}

// ValidateSlots enforces the per-tour slot invariants: unique (date, start
// time) pairs and spots inside [0, capacity].
func (t *Tour) ValidateSlots() error {
	seen := make(map[SlotKey]struct{}, len(t.Slots))

	for _, slot := range t.Slots {
		key := slot.Key()
		if _, dup := seen[key]; dup {
			return NewValidationError("availableDates", fmt.Sprintf("duplicate slot %s", key))
		}
		seen[key] = struct{}{}

		if slot.StartTime == "" {
			return NewValidationError("availableDates.startTime", "start time is required")
		}

		if slot.AvailableSpots < 0 {
			return NewValidationError("availableDates.availableSpots", fmt.Sprintf("slot %s has negative spots", key))
		}

		if slot.Capacity < slot.AvailableSpots {
			return NewValidationError("availableDates.capacity", fmt.Sprintf("slot %s exceeds its capacity", key))
		}
	}

	return nil
}
