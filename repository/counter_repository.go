package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/dogworld/backend/database"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CounterRepository hands out monotonically increasing sequence numbers per name.
type CounterRepository interface {
	Next(ctx context.Context, name string) (int64, error)
	// EnsureAtLeast raises the counter to min if it is lower.
	EnsureAtLeast(ctx context.Context, name string, floor int64) error
}

type MongoCounterRepository struct {
	collection *mongo.Collection
}

func NewMongoCounterRepository(db *mongo.Database) CounterRepository {
	return &MongoCounterRepository{collection: db.Collection(database.CountersCollection)}
}

type counterDoc struct {
	Name string `bson:"_id"`
	Seq  int64  `bson:"seq"`
}

// Next atomically increments and returns the counter. Two concurrent upserts
// of a missing counter can race on _id; the loser retries once and then sees
// the document.
func (r *MongoCounterRepository) Next(ctx context.Context, name string) (int64, error) {
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)
	update := bson.M{"$inc": bson.M{"seq": 1}}

	var doc counterDoc
	for attempt := 0; attempt < 2; attempt++ {
		err := r.collection.FindOneAndUpdate(ctx, bson.M{"_id": name}, update, opts).Decode(&doc)
		if err == nil {
			return doc.Seq, nil
		}
		if !mongo.IsDuplicateKeyError(err) {
			return 0, fmt.Errorf("increment counter %s: %w", name, err)
		}
	}
	return 0, errors.New("increment counter " + name + ": upsert kept colliding")
}

func (r *MongoCounterRepository) EnsureAtLeast(ctx context.Context, name string, floor int64) error {
	_, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": name},
		bson.M{"$max": bson.M{"seq": floor}},
		options.Update().SetUpsert(true),
	)
	if err != nil && !mongo.IsDuplicateKeyError(err) {
		return fmt.Errorf("raise counter %s: %w", name, err)
	}
	return nil
}
