package handler

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/google/uuid"
	"github.com/julienschmidt/httprouter"
	"github.com/razorpay/razorpay-go/utils"
	"github.com/sirupsen/logrus"
	"github.com/srgjo27/tour_booking/internal/core/services"
)

const maxWebhookBody = 1 << 20

type webhookEvent struct {
	Event   string `json:"event"`
	Payload struct {
		Payment struct {
			Entity struct {
				ID    string            `json:"id"`
				Notes map[string]string `json:"notes"`
			} `json:"entity"`
		} `json:"payment"`
	} `json:"payload"`
}

type PaymentHandler struct {
	svc    *services.BookingService
	secret string
	log    logrus.FieldLogger
}

func NewPaymentHandler(svc *services.BookingService, webhookSecret string, log logrus.FieldLogger) *PaymentHandler {
	return &PaymentHandler{svc: svc, secret: webhookSecret, log: log}
}

// Webhook turns a signed provider notification into a payment signal.
// Events that do not concern a booking are acknowledged and dropped.
func (h *PaymentHandler) Webhook(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBody))
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "unreadable body")
		return
	}

	signature := r.Header.Get("X-Razorpay-Signature")
	if signature == "" || !utils.VerifyWebhookSignature(string(body), signature, h.secret) {
		writeMessage(w, http.StatusUnauthorized, "invalid signature")
		return
	}

	var event webhookEvent
	if err := json.Unmarshal(body, &event); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid json body")
		return
	}

	var succeeded bool
	switch event.Event {
	case "payment.captured", "order.paid":
		succeeded = true
	case "payment.failed":
		succeeded = false
	default:
		writeJSON(w, http.StatusOK, map[string]string{"status": "ignored"})
		return
	}

	bookingID, err := uuid.Parse(event.Payload.Payment.Entity.Notes["booking_id"])
	if err != nil {
		h.log.WithField("event", event.Event).Warn("payment webhook without booking reference")
		writeJSON(w, http.StatusOK, map[string]string{"status": "ignored"})
		return
	}

	eventID := r.Header.Get("X-Razorpay-Event-Id")
	if eventID == "" {
		eventID = event.Payload.Payment.Entity.ID
	}

	booking, err := h.svc.HandlePaymentSignal(r.Context(), services.PaymentSignal{
		EventID:   eventID,
		BookingID: bookingID,
		Succeeded: succeeded,
	})
	if err != nil {
		writeError(w, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, toBookingResponse(booking))
}
