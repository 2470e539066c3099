package repository

import (
	"context"
	"errors"
	"time"

	"github.com/dogworld/backend/database"
	"github.com/dogworld/backend/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type AdoptionRepository interface {
	// Create inserts the order. A second active order for the same dog fails
	// with ErrDuplicate.
	Create(ctx context.Context, order *models.AdoptionOrder) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.AdoptionOrder, error)
	ListByUser(ctx context.Context, userID primitive.ObjectID) ([]models.AdoptionOrder, error)
	ListBySeller(ctx context.Context, sellerID primitive.ObjectID) ([]models.AdoptionOrder, error)
	HasActive(ctx context.Context, dogID primitive.ObjectID) (bool, error)
	// AdoptedDogs reports which of dogIDs have a confirmed or completed order.
	AdoptedDogs(ctx context.Context, dogIDs []primitive.ObjectID) (map[primitive.ObjectID]bool, error)
	UpdateStatus(ctx context.Context, id primitive.ObjectID, from, to models.AdoptionStatus) (*models.AdoptionOrder, error)
}

type MongoAdoptionRepository struct {
	collection *mongo.Collection
}

func NewMongoAdoptionRepository(db *mongo.Database) AdoptionRepository {
	return &MongoAdoptionRepository{collection: db.Collection(database.AdoptionOrdersCollection)}
}

func (r *MongoAdoptionRepository) Create(ctx context.Context, order *models.AdoptionOrder) error {
	if order.ID.IsZero() {
		order.ID = primitive.NewObjectID()
	}
	order.Active = order.Status.IsActive()
	_, err := r.collection.InsertOne(ctx, order)
	return translate(err)
}

func (r *MongoAdoptionRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.AdoptionOrder, error) {
	var order models.AdoptionOrder
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&order); err != nil {
		return nil, translate(err)
	}
	return &order, nil
}

func (r *MongoAdoptionRepository) ListByUser(ctx context.Context, userID primitive.ObjectID) ([]models.AdoptionOrder, error) {
	return r.list(ctx, bson.M{"userId": userID})
}

func (r *MongoAdoptionRepository) ListBySeller(ctx context.Context, sellerID primitive.ObjectID) ([]models.AdoptionOrder, error) {
	return r.list(ctx, bson.M{"sellerId": sellerID})
}

func (r *MongoAdoptionRepository) list(ctx context.Context, filter bson.M) ([]models.AdoptionOrder, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	orders := []models.AdoptionOrder{}
	if err := cursor.All(ctx, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *MongoAdoptionRepository) HasActive(ctx context.Context, dogID primitive.ObjectID) (bool, error) {
	n, err := r.collection.CountDocuments(ctx, bson.M{"dogId": dogID, "active": true}, options.Count().SetLimit(1))
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *MongoAdoptionRepository) AdoptedDogs(ctx context.Context, dogIDs []primitive.ObjectID) (map[primitive.ObjectID]bool, error) {
	adopted := make(map[primitive.ObjectID]bool)
	if len(dogIDs) == 0 {
		return adopted, nil
	}
	values, err := r.collection.Distinct(ctx, "dogId", bson.M{
		"dogId":  bson.M{"$in": dogIDs},
		"status": bson.M{"$in": bson.A{models.AdoptionStatusConfirmed, models.AdoptionStatusCompleted}},
	})
	if err != nil {
		return nil, err
	}
	for _, v := range values {
		if id, ok := v.(primitive.ObjectID); ok {
			adopted[id] = true
		}
	}
	return adopted, nil
}

func (r *MongoAdoptionRepository) UpdateStatus(ctx context.Context, id primitive.ObjectID, from, to models.AdoptionStatus) (*models.AdoptionOrder, error) {
	update := bson.M{"$set": bson.M{
		"status":    to,
		"active":    to.IsActive(),
		"updatedAt": time.Now().UTC(),
	}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var order models.AdoptionOrder
	err := r.collection.FindOneAndUpdate(ctx, bson.M{"_id": id, "status": from}, update, opts).Decode(&order)
	if err == nil {
		return &order, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, translate(err)
	}
	if _, findErr := r.FindByID(ctx, id); findErr != nil {
		return nil, findErr
	}
	return nil, ErrStaleStatus
}
