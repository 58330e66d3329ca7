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

type slotPayload struct {
	Date           string `json:"date"`
	StartTime      string `json:"startTime"`
	EndTime        string `json:"endTime,omitempty"`
	AvailableSpots int    `json:"availableSpots"`
	Capacity       int    `json:"capacity,omitempty"`
}

type publishTourRequest struct {
	GuideID        string        `json:"guide"`
	Title          string        `json:"title"`
	Price          float64       `json:"price"`
	Currency       string        `json:"currency"`
	AvailableDates []slotPayload `json:"availableDates"`
}

type tourResponse struct {
	ID             uuid.UUID     `json:"id"`
	GuideID        uuid.UUID     `json:"guide"`
	Title          string        `json:"title"`
	Price          float64       `json:"price"`
	Currency       string        `json:"currency"`
	IsActive       bool          `json:"isActive"`
	AvailableDates []slotPayload `json:"availableDates"`
	CreatedAt      time.Time     `json:"createdAt"`
}

func toSlotPayloads(slots []domain.AvailabilitySlot) []slotPayload {
	out := make([]slotPayload, 0, len(slots))
	for _, s := range slots {
		out = append(out, slotPayload{
			Date:           s.Date.Format(domain.DateLayout),
			StartTime:      s.StartTime,
			EndTime:        s.EndTime,
			AvailableSpots: s.AvailableSpots,
			Capacity:       s.Capacity,
		})
	}

	return out
}

type TourHandler struct {
	svc *services.TourService
	log logrus.FieldLogger
}

func NewTourHandler(svc *services.TourService, log logrus.FieldLogger) *TourHandler {
	return &TourHandler{svc: svc, log: log}
}

func (h *TourHandler) PublishTour(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	actor, _ := ActorFromContext(r.Context())

	var body publishTourRequest
	if err := decodeBody(r, &body); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid json body")
		return
	}

	req, err := body.toRequest()
	if err != nil {
		writeError(w, h.log, err)
		return
	}

	tour, err := h.svc.Publish(r.Context(), actor, req)
	if err != nil {
		writeError(w, h.log, err)
		return
	}

	writeJSON(w, http.StatusCreated, tourResponse{
		ID:             tour.ID,
		GuideID:        tour.GuideID,
		Title:          tour.Title,
		Price:          tour.Price,
		Currency:       tour.Currency,
		IsActive:       tour.IsActive,
		AvailableDates: toSlotPayloads(tour.Slots),
		CreatedAt:      tour.CreatedAt,
	})
}

func (h *TourHandler) ListSlots(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	tourID, err := uuid.Parse(ps.ByName("id"))
	if err != nil {
		writeMessage(w, http.StatusNotFound, "tour not found")
		return
	}

	slots, err := h.svc.ListSlots(r.Context(), tourID)
	if err != nil {
		writeError(w, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, toSlotPayloads(slots))
}

func (b publishTourRequest) toRequest() (services.PublishTourRequest, error) {
	req := services.PublishTourRequest{
		Title:    b.Title,
		Price:    b.Price,
		Currency: b.Currency,
	}

	if b.GuideID != "" {
		id, err := uuid.Parse(b.GuideID)
		if err != nil {
			return req, domain.NewValidationError("guide", "must be a valid id")
		}
		req.GuideID = id
	}

	for _, s := range b.AvailableDates {
		date, err := domain.ParseDate(s.Date)
		if err != nil {
			return req, domain.NewValidationError("availableDates.date", "must be a date")
		}

		req.Slots = append(req.Slots, services.PublishSlot{
			Date:           date,
			StartTime:      s.StartTime,
			EndTime:        s.EndTime,
			AvailableSpots: s.AvailableSpots,
		})
	}

	return req, nil
}
