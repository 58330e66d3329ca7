package mongodb

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/srgjo27/tour_booking/internal/core/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type TourRepository struct {
	coll *mongo.Collection
}

func NewTourRepository(db *mongo.Database) *TourRepository {
	return &TourRepository{coll: db.Collection(toursCollection)}
}

func (r *TourRepository) CreateTour(ctx context.Context, tour *domain.Tour) error {
	if _, err := r.coll.InsertOne(ctx, newTourDocument(tour)); err != nil {
		return fmt.Errorf("failed to insert tour: %w", err)
	}

	return nil
}

func (r *TourRepository) GetTour(ctx context.Context, tourID uuid.UUID) (*domain.Tour, error) {
	var doc tourDocument
	err := r.coll.FindOne(ctx, bson.M{"_id": tourID.String()}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrTourNotFound
		}

		return nil, err
	}

	return doc.toDomain()
}

// DebitSlot matches the slot element only while it still has room and
// decrements it through the positional operator, so the check and the write
// are one document update.
func (r *TourRepository) DebitSlot(ctx context.Context, tourID uuid.UUID, key domain.SlotKey, count int) error {
	filter := bson.M{
		"_id": tourID.String(),
		"availableDates": bson.M{"$elemMatch": bson.M{
			"date":           key.Date,
			"startTime":      key.StartTime,
			"availableSpots": bson.M{"$gte": count},
		}},
	}
	update := bson.M{"$inc": bson.M{"availableDates.$.availableSpots": -count}}

	res, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}

	if res.MatchedCount == 0 {
		exists, err := r.slotExists(ctx, tourID, key)
		if err != nil {
			return err
		}
		if exists {
			return domain.ErrInsufficientCapacity
		}
		return domain.ErrSlotNotFound
	}

	return nil
}

func (r *TourRepository) CreditSlot(ctx context.Context, tourID uuid.UUID, key domain.SlotKey, count int) error {
	update := bson.M{"$inc": bson.M{"availableDates.$.availableSpots": count}}

	res, err := r.coll.UpdateOne(ctx, slotFilter(tourID, key), update)
	if err != nil {
		return err
	}

	if res.MatchedCount == 0 {
		return domain.ErrSlotNotFound
	}

	return nil
}

func (r *TourRepository) slotExists(ctx context.Context, tourID uuid.UUID, key domain.SlotKey) (bool, error) {
	n, err := r.coll.CountDocuments(ctx, slotFilter(tourID, key))
	return n > 0, err
}

func slotFilter(tourID uuid.UUID, key domain.SlotKey) bson.M {
	return bson.M{
		"_id": tourID.String(),
		"availableDates": bson.M{"$elemMatch": bson.M{
			"date":      key.Date,
			"startTime": key.StartTime,
		}},
	}
}
