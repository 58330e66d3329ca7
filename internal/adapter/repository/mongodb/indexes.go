package mongodb

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// EnsureIndexes creates the booking lookup indexes. Slot uniqueness inside a
// tour cannot be expressed as an index on an embedded array and is checked
// when the tour is published.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	models := []mongo.IndexModel{
		{Keys: bson.D{{Key: "tourist", Value: 1}, {Key: "createdAt", Value: -1}}},
		{Keys: bson.D{{Key: "guide", Value: 1}, {Key: "createdAt", Value: -1}}},
		{Keys: bson.D{{Key: "status", Value: 1}, {Key: "createdAt", Value: 1}}},
	}

	if _, err := db.Collection(bookingsCollection).Indexes().CreateMany(ctx, models); err != nil {
		return fmt.Errorf("failed to create booking indexes: %w", err)
	}

	return nil
}
