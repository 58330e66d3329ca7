package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/srgjo27/tour_booking/internal/core/domain"
	"github.com/srgjo27/tour_booking/internal/core/ports"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type BookingRepository struct {
	coll *mongo.Collection
}

func NewBookingRepository(db *mongo.Database) *BookingRepository {
	return &BookingRepository{coll: db.Collection(bookingsCollection)}
}

func (r *BookingRepository) CreateBooking(ctx context.Context, booking *domain.Booking) error {
	if _, err := r.coll.InsertOne(ctx, newBookingDocument(booking)); err != nil {
		return fmt.Errorf("failed to insert booking: %w", err)
	}

	return nil
}

func (r *BookingRepository) GetByID(ctx context.Context, bookingID uuid.UUID) (*domain.Booking, error) {
	var doc bookingDocument
	err := r.coll.FindOne(ctx, bson.M{"_id": bookingID.String()}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrBookingNotFound
		}

		return nil, err
	}

	return doc.toDomain()
}

func (r *BookingRepository) List(ctx context.Context, filter ports.BookingFilter) ([]domain.Booking, error) {
	query := bson.M{}
	if filter.TouristID != nil {
		query["tourist"] = filter.TouristID.String()
	}
	if filter.GuideID != nil {
		query["guide"] = filter.GuideID.String()
	}

	cursor, err := r.coll.Find(ctx, query, options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return nil, err
	}

	defer cursor.Close(ctx)

	var docs []bookingDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}

	bookings := make([]domain.Booking, 0, len(docs))
	for _, doc := range docs {
		b, err := doc.toDomain()
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, *b)
	}

	return bookings, nil
}

func (r *BookingRepository) UpdateStatus(ctx context.Context, bookingID uuid.UUID, expected domain.StatusChange, change domain.StatusChange, at time.Time) error {
	filter := bson.M{
		"_id":           bookingID.String(),
		"status":        string(expected.Status),
		"paymentStatus": string(expected.PaymentStatus),
	}
	update := bson.M{"$set": bson.M{
		"status":        string(change.Status),
		"paymentStatus": string(change.PaymentStatus),
		"updatedAt":     at,
	}}

	res, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}

	if res.MatchedCount == 0 {
		n, err := r.coll.CountDocuments(ctx, bson.M{"_id": bookingID.String()})
		if err != nil {
			return err
		}
		if n == 0 {
			return domain.ErrBookingNotFound
		}
		return domain.ErrInvalidTransition
	}

	return nil
}

func (r *BookingRepository) GetExpiredPending(ctx context.Context, createdBefore time.Time, limit int) ([]uuid.UUID, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: 1}}).
		SetLimit(int64(limit)).
		SetProjection(bson.M{"_id": 1})

	cursor, err := r.coll.Find(ctx, bson.M{
		"status":    string(domain.BookingPending),
		"createdAt": bson.M{"$lt": createdBefore},
	}, opts)
	if err != nil {
		return nil, err
	}

	defer cursor.Close(ctx)

	var ids []uuid.UUID
	for cursor.Next(ctx) {
		var doc struct {
			ID string `bson:"_id"`
		}
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}

		id, err := uuid.Parse(doc.ID)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}

	return ids, cursor.Err()
}
