package domain

import (
	"time"

	"github.com/google/uuid"
)

type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingConfirmed BookingStatus = "confirmed"
	BookingCancelled BookingStatus = "cancelled"
	BookingCompleted BookingStatus = "completed"
)

type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentPaid     PaymentStatus = "paid"
	PaymentFailed   PaymentStatus = "failed"
	PaymentRefunded PaymentStatus = "refunded"
)

type Booking struct {
	ID              uuid.UUID
	TourID          uuid.UUID
	TourTitle       string
	TouristID       uuid.UUID
	GuideID         uuid.UUID
	SelectedDate    time.Time
	SelectedTime    string
	NumberOfPeople  int
	TotalPrice      float64
	Status          BookingStatus
	PaymentStatus   PaymentStatus
	SpecialRequests string
	ContactPhone    string
	ContactEmail    string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// BookingDraft is what the ledger needs to persist a new booking. Price is
// computed by the caller from the tour, never taken from a client. ID may be
// chosen by the caller so a failed create can be looked up afterwards.
type BookingDraft struct {
	ID              uuid.UUID
	TourID          uuid.UUID `validate:"required"`
	TourTitle       string
	TouristID       uuid.UUID `validate:"required"`
	GuideID         uuid.UUID `validate:"required"`
	SelectedDate    time.Time `validate:"required"`
	SelectedTime    string    `validate:"required"`
	NumberOfPeople  int       `validate:"required,min=1"`
	TotalPrice      float64   `validate:"gte=0"`
	SpecialRequests string    `validate:"max=500"`
	ContactPhone    string    `validate:"required"`
	ContactEmail    string    `validate:"required,email"`
}

// StatusChange is the full target state of a transition. Both fields are
// written together.
type StatusChange struct {
	Status        BookingStatus
	PaymentStatus PaymentStatus
}

func (b *Booking) SlotKey() SlotKey {
	return NewSlotKey(b.SelectedDate, b.SelectedTime)
}

func (b *Booking) IsTerminal() bool {
	return b.Status.IsTerminal()
}

func (s BookingStatus) IsTerminal() bool {
	return s == BookingCancelled || s == BookingCompleted
}

func (s BookingStatus) Valid() bool {
	switch s {
	case BookingPending, BookingConfirmed, BookingCancelled, BookingCompleted:
		return true
	}
	return false
}

func (p PaymentStatus) Valid() bool {
	switch p {
	case PaymentPending, PaymentPaid, PaymentFailed, PaymentRefunded:
		return true
	}
	return false
}

var transitions = map[BookingStatus][]BookingStatus{
	BookingPending:   {BookingConfirmed, BookingCancelled},
	BookingConfirmed: {BookingCancelled, BookingCompleted},
}

// CanTransition reports whether from -> to is a legal status move. Staying
// in a non-terminal state is allowed so payment status can change on its own.
func CanTransition(from, to BookingStatus) bool {
	if from.IsTerminal() {
		return false
	}

	if from == to {
		return true
	}

	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}

	return false
}
