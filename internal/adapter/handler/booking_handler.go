package handler

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/julienschmidt/httprouter"
	"github.com/sirupsen/logrus"
	"github.com/srgjo27/tour_booking/internal/core/domain"
	"github.com/srgjo27/tour_booking/internal/core/services"
)

type createBookingRequest struct {
	TourID          string `json:"tourId"`
	SelectedDate    string `json:"selectedDate"`
	SelectedTime    string `json:"selectedTime"`
	NumberOfPeople  int    `json:"numberOfPeople"`
	SpecialRequests string `json:"specialRequests"`
	ContactPhone    string `json:"contactPhone"`
	ContactEmail    string `json:"contactEmail"`
}

type updateBookingRequest struct {
	Status        string `json:"status"`
	PaymentStatus string `json:"paymentStatus"`
}

type bookingResponse struct {
	ID              uuid.UUID `json:"id"`
	TourID          uuid.UUID `json:"tour"`
	TourTitle       string    `json:"tourTitle,omitempty"`
	TouristID       uuid.UUID `json:"tourist"`
	GuideID         uuid.UUID `json:"guide"`
	SelectedDate    string    `json:"selectedDate"`
	SelectedTime    string    `json:"selectedTime"`
	NumberOfPeople  int       `json:"numberOfPeople"`
	TotalPrice      float64   `json:"totalPrice"`
	Status          string    `json:"status"`
	PaymentStatus   string    `json:"paymentStatus"`
	SpecialRequests string    `json:"specialRequests,omitempty"`
	ContactPhone    string    `json:"contactPhone"`
	ContactEmail    string    `json:"contactEmail"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

func toBookingResponse(b *domain.Booking) bookingResponse {
	return bookingResponse{
		ID:              b.ID,
		TourID:          b.TourID,
		TourTitle:       b.TourTitle,
		TouristID:       b.TouristID,
		GuideID:         b.GuideID,
		SelectedDate:    b.SelectedDate.Format(domain.DateLayout),
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

type BookingHandler struct {
	svc *services.BookingService
	log logrus.FieldLogger
}

func NewBookingHandler(svc *services.BookingService, log logrus.FieldLogger) *BookingHandler {
	return &BookingHandler{svc: svc, log: log}
}

func (h *BookingHandler) CreateBooking(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	actor, _ := ActorFromContext(r.Context())

	var body createBookingRequest
	if err := decodeBody(r, &body); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid json body")
		return
	}

	req, err := body.toReservation()
	if err != nil {
		writeError(w, h.log, err)
		return
	}

	booking, err := h.svc.CreateBooking(r.Context(), actor, req)
	if err != nil {
		writeError(w, h.log, err)
		return
	}

	writeJSON(w, http.StatusCreated, toBookingResponse(booking))
}

func (h *BookingHandler) ListBookings(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	actor, _ := ActorFromContext(r.Context())

	bookings, err := h.svc.ListBookings(r.Context(), actor)
	if err != nil {
		writeError(w, h.log, err)
		return
	}

	resp := make([]bookingResponse, 0, len(bookings))
	for i := range bookings {
		resp = append(resp, toBookingResponse(&bookings[i]))
	}

	writeJSON(w, http.StatusOK, resp)
}

func (h *BookingHandler) GetBooking(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	actor, _ := ActorFromContext(r.Context())

	id, ok := bookingID(w, ps)
	if !ok {
		return
	}

	booking, err := h.svc.GetBooking(r.Context(), id, actor)
	if err != nil {
		writeError(w, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, toBookingResponse(booking))
}

func (h *BookingHandler) UpdateBooking(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	actor, _ := ActorFromContext(r.Context())

	id, ok := bookingID(w, ps)
	if !ok {
		return
	}

	var body updateBookingRequest
	if err := decodeBody(r, &body); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid json body")
		return
	}

	booking, err := h.svc.UpdateBookingStatus(r.Context(), id, actor, services.StatusUpdate{
		Status:        domain.BookingStatus(body.Status),
		PaymentStatus: domain.PaymentStatus(body.PaymentStatus),
	})
	if err != nil {
		writeError(w, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, toBookingResponse(booking))
}

func (h *BookingHandler) CancelBooking(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	actor, _ := ActorFromContext(r.Context())

	id, ok := bookingID(w, ps)
	if !ok {
		return
	}

	booking, err := h.svc.CancelBooking(r.Context(), id, actor)
	if err != nil {
		writeError(w, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, toBookingResponse(booking))
}

func bookingID(w http.ResponseWriter, ps httprouter.Params) (uuid.UUID, bool) {
	id, err := uuid.Parse(ps.ByName("id"))
	if err != nil {
		writeMessage(w, http.StatusNotFound, "booking not found")
		return uuid.Nil, false
	}

	return id, true
}

func (b createBookingRequest) toReservation() (services.ReservationRequest, error) {
	tourID, err := uuid.Parse(b.TourID)
	if err != nil {
		return services.ReservationRequest{}, domain.NewValidationError("tourId", "must be a valid id")
	}

	date, err := domain.ParseDate(b.SelectedDate)
	if err != nil {
		return services.ReservationRequest{}, domain.NewValidationError("selectedDate", "must be a date")
	}

	return services.ReservationRequest{
		TourID:          tourID,
		SelectedDate:    date,
		SelectedTime:    b.SelectedTime,
		NumberOfPeople:  b.NumberOfPeople,
		SpecialRequests: b.SpecialRequests,
		ContactPhone:    b.ContactPhone,
		ContactEmail:    b.ContactEmail,
	}, nil
}
