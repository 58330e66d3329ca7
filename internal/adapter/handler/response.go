package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/sirupsen/logrus"
	"github.com/srgjo27/tour_booking/internal/core/domain"
)

type errorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func writeMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// writeError maps core errors to HTTP statuses. Anything unclassified is
// logged and reported as a bare 500.
func writeError(w http.ResponseWriter, log logrus.FieldLogger, err error) {
	var verr *domain.ValidationError

	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "validation failed", Fields: verr.Fields})
	case errors.Is(err, domain.ErrTourNotFound):
		writeMessage(w, http.StatusNotFound, "tour not found")
	case errors.Is(err, domain.ErrBookingNotFound):
		writeMessage(w, http.StatusNotFound, "booking not found")
	case errors.Is(err, domain.ErrNotFound):
		writeMessage(w, http.StatusNotFound, "not found")
	case errors.Is(err, domain.ErrSlotNotAvailable):
		writeMessage(w, http.StatusConflict, domain.ErrSlotNotAvailable.Error())
	case errors.Is(err, domain.ErrInsufficientCapacity):
		writeMessage(w, http.StatusConflict, domain.ErrInsufficientCapacity.Error())
	case errors.Is(err, domain.ErrForbidden):
		writeMessage(w, http.StatusForbidden, domain.ErrForbidden.Error())
	case errors.Is(err, domain.ErrInvalidTransition):
		writeMessage(w, http.StatusConflict, domain.ErrInvalidTransition.Error())
	default:
		log.WithError(err).Error("request failed")
		writeMessage(w, http.StatusInternalServerError, "internal server error")
	}
}

func decodeBody(r *http.Request, dst interface{}) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}
