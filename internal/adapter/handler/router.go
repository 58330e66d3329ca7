package handler

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/rs/cors"
	"github.com/sirupsen/logrus"
	"github.com/srgjo27/tour_booking/internal/core/services"
)

type RouterConfig struct {
	JWTSecret            string
	PaymentWebhookSecret string
	AllowedOrigins       []string
	RateLimitRPS         float64
	RateLimitBurst       int
}

func NewRouter(bookings *services.BookingService, tours *services.TourService, cfg RouterConfig, log logrus.FieldLogger) http.Handler {
	auth := NewAuthenticator(cfg.JWTSecret)
	limiter := NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)

	bookingHandler := NewBookingHandler(bookings, log)
	tourHandler := NewTourHandler(tours, log)
	paymentHandler := NewPaymentHandler(bookings, cfg.PaymentWebhookSecret, log)

	router := httprouter.New()

	router.GET("/healthz", func(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	router.POST("/api/tours", auth.Authenticate(tourHandler.PublishTour))
	router.GET("/api/tours/:id/slots", tourHandler.ListSlots)

	router.POST("/api/bookings", auth.Authenticate(limiter.Limit(bookingHandler.CreateBooking)))
	router.GET("/api/bookings", auth.Authenticate(bookingHandler.ListBookings))
	router.GET("/api/bookings/:id", auth.Authenticate(bookingHandler.GetBooking))
	router.PUT("/api/bookings/:id", auth.Authenticate(bookingHandler.UpdateBooking))
	router.DELETE("/api/bookings/:id", auth.Authenticate(bookingHandler.CancelBooking))

	router.POST("/api/payments/webhook", paymentHandler.Webhook)

	return cors.New(cors.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "Authorization"},
	}).Handler(router)
}
