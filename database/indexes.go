package database

import (
	"context"
	"fmt"

	"github.com/dogworld/backend/pkg/logger"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// Index names referenced when translating duplicate key errors.
const (
	ActiveAdoptionIndex = "uniq_active_adoption_per_dog"
	BookingSlotIndex    = "uniq_scheduled_slot"
)

// IndexSpec lists the indexes of one collection.
type IndexSpec struct {
	Collection string
	Models     []mongo.IndexModel
}

// Indexes returns every index the service relies on.
func Indexes() []IndexSpec {
	return []IndexSpec{
		{UsersCollection, []mongo.IndexModel{
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		}},
		{ProductsCollection, []mongo.IndexModel{
			{Keys: bson.D{{Key: "productId", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "sellerId", Value: 1}}},
			{Keys: bson.D{{Key: "isActive", Value: 1}, {Key: "category", Value: 1}, {Key: "createdAt", Value: -1}}},
		}},
		{DogsCollection, []mongo.IndexModel{
			{Keys: bson.D{{Key: "dogId", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "sellerId", Value: 1}}},
			{Keys: bson.D{{Key: "isAvailable", Value: 1}, {Key: "createdAt", Value: -1}}},
		}},
		{AdoptionOrdersCollection, []mongo.IndexModel{
			{
				Keys: bson.D{{Key: "dogId", Value: 1}},
				Options: options.Index().
					SetName(ActiveAdoptionIndex).
					SetUnique(true).
					SetPartialFilterExpression(bson.M{"active": true}),
			},
			{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "createdAt", Value: -1}}},
			{Keys: bson.D{{Key: "sellerId", Value: 1}, {Key: "createdAt", Value: -1}}},
		}},
		{AccessoryOrdersCollection, []mongo.IndexModel{
			{Keys: bson.D{{Key: "orderId", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "createdAt", Value: -1}}},
			{Keys: bson.D{{Key: "products.sellerId", Value: 1}, {Key: "createdAt", Value: -1}}},
		}},
		{BookingsCollection, []mongo.IndexModel{
			{Keys: bson.D{{Key: "bookingId", Value: 1}}, Options: options.Index().SetUnique(true)},
			{
				Keys: bson.D{{Key: "appointmentDate", Value: 1}, {Key: "appointmentTime", Value: 1}},
				Options: options.Index().
					SetName(BookingSlotIndex).
					SetUnique(true).
					SetPartialFilterExpression(bson.M{"status": "scheduled"}),
			},
			{Keys: bson.D{{Key: "userId", Value: 1}}},
		}},
		{PostsCollection, []mongo.IndexModel{
			{Keys: bson.D{{Key: "postId", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "isActive", Value: 1}, {Key: "createdAt", Value: -1}}},
		}},
		{HealthRecordsCollection, []mongo.IndexModel{
			{Keys: bson.D{{Key: "recordId", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "userId", Value: 1}}},
		}},
	}
}

// EnsureIndexes creates all indexes on db. Creating an existing index is a no-op.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	for _, spec := range Indexes() {
		names, err := db.Collection(spec.Collection).Indexes().CreateMany(ctx, spec.Models)
		if err != nil {
			return fmt.Errorf("create indexes on %s: %w", spec.Collection, err)
		}
		logger.Log.Debug("Indexes ensured", zap.String("collection", spec.Collection), zap.Strings("indexes", names))
	}
	return nil
}
