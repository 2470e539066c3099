package repository

import (
	"context"
	"regexp"

	"github.com/dogworld/backend/database"
	"github.com/dogworld/backend/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type DogRepository interface {
	Create(ctx context.Context, dog *models.Dog) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Dog, error)
	ListAvailable(ctx context.Context, filter models.DogFilter) ([]models.Dog, error)
	ListBySeller(ctx context.Context, sellerID primitive.ObjectID) ([]models.Dog, error)
	SetAvailability(ctx context.Context, id primitive.ObjectID, available bool) error
}

type MongoDogRepository struct {
	collection *mongo.Collection
}

func NewMongoDogRepository(db *mongo.Database) DogRepository {
	return &MongoDogRepository{collection: db.Collection(database.DogsCollection)}
}

func (r *MongoDogRepository) Create(ctx context.Context, dog *models.Dog) error {
	if dog.ID.IsZero() {
		dog.ID = primitive.NewObjectID()
	}
	_, err := r.collection.InsertOne(ctx, dog)
	return translate(err)
}

func (r *MongoDogRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Dog, error) {
	var dog models.Dog
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&dog); err != nil {
		return nil, translate(err)
	}
	return &dog, nil
}

func (r *MongoDogRepository) ListAvailable(ctx context.Context, filter models.DogFilter) ([]models.Dog, error) {
	return r.find(ctx, DogListQuery(filter))
}

func (r *MongoDogRepository) ListBySeller(ctx context.Context, sellerID primitive.ObjectID) ([]models.Dog, error) {
	return r.find(ctx, bson.M{"sellerId": sellerID})
}

func (r *MongoDogRepository) find(ctx context.Context, filter bson.M) ([]models.Dog, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	dogs := []models.Dog{}
	if err := cursor.All(ctx, &dogs); err != nil {
		return nil, err
	}
	return dogs, nil
}

func (r *MongoDogRepository) SetAvailability(ctx context.Context, id primitive.ObjectID, available bool) error {
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"isAvailable": available}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// DogListQuery builds the public listing filter. "all" disables a field.
func DogListQuery(f models.DogFilter) bson.M {
	filter := bson.M{"isAvailable": true}
	set := func(v string) bool { return v != "" && v != "all" }

	if set(f.Breed) {
		filter["breed"] = primitive.Regex{Pattern: regexp.QuoteMeta(f.Breed), Options: "i"}
	}
	if set(f.Age) {
		filter["age"] = f.Age
	}
	if set(f.Gender) {
		filter["gender"] = f.Gender
	}
	if set(f.Size) {
		filter["size"] = f.Size
	}
	if set(f.Location) {
		filter["location.city"] = primitive.Regex{Pattern: regexp.QuoteMeta(f.Location), Options: "i"}
	}
	return filter
}
