package repository

import (
	"context"
	"time"

	"github.com/dogworld/backend/database"
	"github.com/dogworld/backend/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type HealthRepository interface {
	Create(ctx context.Context, record *models.HealthRecord) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.HealthRecord, error)
	ListByUser(ctx context.Context, userID primitive.ObjectID) ([]models.HealthRecord, error)
	Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) (*models.HealthRecord, error)
	AddVaccination(ctx context.Context, id primitive.ObjectID, v models.Vaccination) (*models.HealthRecord, error)
	AddVetVisit(ctx context.Context, id primitive.ObjectID, v models.VetVisit) (*models.HealthRecord, error)
}

type MongoHealthRepository struct {
	collection *mongo.Collection
}

func NewMongoHealthRepository(db *mongo.Database) HealthRepository {
	return &MongoHealthRepository{collection: db.Collection(database.HealthRecordsCollection)}
}

func (r *MongoHealthRepository) Create(ctx context.Context, record *models.HealthRecord) error {
	if record.ID.IsZero() {
		record.ID = primitive.NewObjectID()
	}
	_, err := r.collection.InsertOne(ctx, record)
	return translate(err)
}

func (r *MongoHealthRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.HealthRecord, error) {
	var record models.HealthRecord
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&record); err != nil {
		return nil, translate(err)
	}
	return &record, nil
}

func (r *MongoHealthRepository) ListByUser(ctx context.Context, userID primitive.ObjectID) ([]models.HealthRecord, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{"userId": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	records := []models.HealthRecord{}
	if err := cursor.All(ctx, &records); err != nil {
		return nil, err
	}
	return records, nil
}

func (r *MongoHealthRepository) Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) (*models.HealthRecord, error) {
	set := bson.M{"updatedAt": time.Now().UTC()}
	for k, v := range updates {
		set[k] = v
	}
	return r.apply(ctx, id, bson.M{"$set": set})
}

func (r *MongoHealthRepository) AddVaccination(ctx context.Context, id primitive.ObjectID, v models.Vaccination) (*models.HealthRecord, error) {
	return r.apply(ctx, id, bson.M{
		"$push": bson.M{"vaccinations": v},
		"$set":  bson.M{"updatedAt": time.Now().UTC()},
	})
}

func (r *MongoHealthRepository) AddVetVisit(ctx context.Context, id primitive.ObjectID, v models.VetVisit) (*models.HealthRecord, error) {
	return r.apply(ctx, id, bson.M{
		"$push": bson.M{"vetVisits": v},
		"$set":  bson.M{"updatedAt": time.Now().UTC()},
	})
}

func (r *MongoHealthRepository) apply(ctx context.Context, id primitive.ObjectID, update bson.M) (*models.HealthRecord, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var record models.HealthRecord
	if err := r.collection.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&record); err != nil {
		return nil, translate(err)
	}
	return &record, nil
}
