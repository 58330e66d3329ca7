package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/srgjo27/tour_booking/internal/adapter/cache"
	"github.com/srgjo27/tour_booking/internal/adapter/handler"
	"github.com/srgjo27/tour_booking/internal/adapter/repository/memory"
	"github.com/srgjo27/tour_booking/internal/adapter/repository/mongodb"
	"github.com/srgjo27/tour_booking/internal/adapter/repository/postgres"
	"github.com/srgjo27/tour_booking/internal/core/ports"
	"github.com/srgjo27/tour_booking/internal/core/services"
	"github.com/srgjo27/tour_booking/internal/platform/config"
	"github.com/srgjo27/tour_booking/internal/platform/database"
	"github.com/srgjo27/tour_booking/internal/platform/logger"
)

type storage struct {
	tours    ports.TourRepository
	bookings ports.BookingRepository
	close    func()
}

func openStorage(ctx context.Context, cfg *config.Config, log logrus.FieldLogger) (*storage, error) {
	switch cfg.StorageDriver {
	case "postgres":
		db, err := database.NewPostgresDB(ctx, cfg.Postgres, log)
		if err != nil {
			return nil, err
		}

		if err := postgres.EnsureSchema(ctx, db); err != nil {
			db.Close()
			return nil, err
		}

		return &storage{
			tours:    postgres.NewTourRepository(db),
			bookings: postgres.NewBookingRepository(db),
			close:    func() { closeDB(db, log) },
		}, nil

	case "mongo":
		client, err := database.NewMongoClient(ctx, cfg.MongoURI, log)
		if err != nil {
			return nil, err
		}

		db := client.Database(cfg.MongoDB)
		if err := mongodb.EnsureIndexes(ctx, db); err != nil {
			client.Disconnect(context.Background())
			return nil, err
		}

		return &storage{
			tours:    mongodb.NewTourRepository(db),
			bookings: mongodb.NewBookingRepository(db),
			close:    func() { disconnectMongo(client, log) },
		}, nil

	default:
		log.Warn("Using in-memory storage, data is lost on restart.")
		store := memory.NewStore()
		return &storage{tours: store, bookings: store, close: func() {}}, nil
	}
}

func closeDB(db *sql.DB, log logrus.FieldLogger) {
	if err := db.Close(); err != nil {
		log.WithError(err).Error("Error closing database")
	}
}

func disconnectMongo(client *mongo.Client, log logrus.FieldLogger) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Disconnect(ctx); err != nil {
		log.WithError(err).Error("Error disconnecting from MongoDB")
	}
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("Failed to load configuration")
	}

	log, logCloser := logger.New(cfg.Log)
	defer logCloser.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := openStorage(ctx, cfg, log)
	if err != nil {
		log.WithError(err).Fatal("Failed to open storage")
	}
	defer store.close()

	var slotCache ports.SlotCache
	var paymentEvents ports.PaymentEventStore

	redisClient, err := database.NewRedisClient(ctx, cfg.Redis, log)
	if err != nil {
		if cfg.StorageDriver != "memory" {
			log.WithError(err).Fatal("Failed to connect to Redis")
		}
		log.WithError(err).Warn("Running without Redis, slot cache and payment event dedup disabled.")
	} else {
		defer redisClient.Close()
		slotCache = cache.NewSlotCache(redisClient, cfg.SlotCacheTTL)
		paymentEvents = cache.NewPaymentEventStore(redisClient, cfg.PaymentEventTTL)
	}

	catalog := services.NewSlotCatalog(store.tours, slotCache, log)
	tourService := services.NewTourService(store.tours, catalog, log)
	bookingService := services.NewBookingService(store.tours, store.bookings, catalog, paymentEvents, services.Options{
		PendingHoldTTL:  cfg.PendingHoldTTL,
		CleanupInterval: cfg.CleanupInterval,
	}, log)

	go bookingService.RunBackgroundCleanup(ctx)

	router := handler.NewRouter(bookingService, tourService, handler.RouterConfig{
		JWTSecret:            cfg.JWTSecret,
		PaymentWebhookSecret: cfg.PaymentWebhookSecret,
		AllowedOrigins:       cfg.CORSOrigins,
		RateLimitRPS:         cfg.RateLimitRPS,
		RateLimitBurst:       cfg.RateLimitBurst,
	}, log)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Infof("Server starting on %s", cfg.HTTPAddr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Error("Server startup failed")
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("Server forced to shutdown")
		os.Exit(1)
	}

	log.Info("Server exiting")
}
