package mongodb

import (
	"time"

	"github.com/google/uuid"
	"github.com/srgjo27/tour_booking/internal/core/domain"
)

const (
	toursCollection    = "tours"
	bookingsCollection = "bookings"
)

type slotDocument struct {
	Date           time.Time `bson:"date"`
	StartTime      string    `bson:"startTime"`
	EndTime        string    `bson:"endTime,omitempty"`
	AvailableSpots int       `bson:"availableSpots"`
	Capacity       int       `bson:"capacity"`
}

type tourDocument struct {
	ID             string         `bson:"_id"`
	GuideID        string         `bson:"guide"`
	Title          string         `bson:"title"`
	Price          float64        `bson:"price"`
	Currency       string         `bson:"currency"`
	IsActive       bool           `bson:"isActive"`
	AvailableDates []slotDocument `bson:"availableDates"`
	CreatedAt      time.Time      `bson:"createdAt"`
}

type bookingDocument struct {
	ID              string    `bson:"_id"`
	TourID          string    `bson:"tour"`
	TourTitle       string    `bson:"tourTitle"`
	TouristID       string    `bson:"tourist"`
	GuideID         string    `bson:"guide"`
	SelectedDate    time.Time `bson:"selectedDate"`
	SelectedTime    string    `bson:"selectedTime"`
	NumberOfPeople  int       `bson:"numberOfPeople"`
	TotalPrice      float64   `bson:"totalPrice"`
	Status          string    `bson:"status"`
	PaymentStatus   string    `bson:"paymentStatus"`
	SpecialRequests string    `bson:"specialRequests,omitempty"`
	ContactPhone    string    `bson:"contactPhone"`
	ContactEmail    string    `bson:"contactEmail"`
	CreatedAt       time.Time `bson:"createdAt"`
	UpdatedAt       time.Time `bson:"updatedAt"`
}

func newTourDocument(t *domain.Tour) tourDocument {
	doc := tourDocument{
		ID:        t.ID.String(),
		GuideID:   t.GuideID.String(),
		Title:     t.Title,
		Price:     t.Price,
		Currency:  t.Currency,
		IsActive:  t.IsActive,
		CreatedAt: t.CreatedAt,
	}

	for _, s := range t.Slots {
		doc.AvailableDates = append(doc.AvailableDates, slotDocument{
			Date:           domain.TruncateDay(s.Date),
			StartTime:      s.StartTime,
			EndTime:        s.EndTime,
			AvailableSpots: s.AvailableSpots,
			Capacity:       s.Capacity,
		})
	}

	return doc
}

func (d tourDocument) toDomain() (*domain.Tour, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return nil, err
	}

	guideID, err := uuid.Parse(d.GuideID)
	if err != nil {
		return nil, err
	}

	tour := &domain.Tour{
		ID:        id,
		GuideID:   guideID,
		Title:     d.Title,
		Price:     d.Price,
		Currency:  d.Currency,
		IsActive:  d.IsActive,
		CreatedAt: d.CreatedAt,
	}

	for _, s := range d.AvailableDates {
		tour.Slots = append(tour.Slots, domain.AvailabilitySlot{
			Date:           domain.TruncateDay(s.Date),
			StartTime:      s.StartTime,
			EndTime:        s.EndTime,
			AvailableSpots: s.AvailableSpots,
			Capacity:       s.Capacity,
		})
	}

	return tour, nil
}

func newBookingDocument(b *domain.Booking) bookingDocument {
	return bookingDocument{
		ID:              b.ID.String(),
		TourID:          b.TourID.String(),
		TourTitle:       b.TourTitle,
		TouristID:       b.TouristID.String(),
		GuideID:         b.GuideID.String(),
		SelectedDate:    domain.TruncateDay(b.SelectedDate),
		SelectedTime:    b.SelectedTime,
		NumberOfPeople:  b.NumberOfPeople,
		TotalPrice:      b.TotalPrice,
		Status:          string(b.Status),
		PaymentStatus:   string(b.PaymentStatus),
		SpecialRequests: b.SpecialRequests,
		ContactPhone:    b.ContactPhone,
		ContactEmail:    b.ContactEmail,
		CreatedAt:       b.CreatedAt,
		UpdatedAt:       b.UpdatedAt,
	}
}

func (d bookingDocument) toDomain() (*domain.Booking, error) {
	ids := make([]uuid.UUID, 4)
	for i, raw := range []string{d.ID, d.TourID, d.TouristID, d.GuideID} {
		id, err := uuid.Parse(raw)
		if err != nil {
			return nil, err
		}
		ids[i] = id
	}

	return &domain.Booking{
		ID:              ids[0],
		TourID:          ids[1],
		TourTitle:       d.TourTitle,
		TouristID:       ids[2],
		GuideID:         ids[3],
		SelectedDate:    domain.TruncateDay(d.SelectedDate),
		SelectedTime:    d.SelectedTime,
		NumberOfPeople:  d.NumberOfPeople,
		TotalPrice:      d.TotalPrice,
		Status:          domain.BookingStatus(d.Status),
		PaymentStatus:   domain.PaymentStatus(d.PaymentStatus),
		SpecialRequests: d.SpecialRequests,
		ContactPhone:    d.ContactPhone,
		ContactEmail:    d.ContactEmail,
		CreatedAt:       d.CreatedAt,
		UpdatedAt:       d.UpdatedAt,
	}, nil
}
