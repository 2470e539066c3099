package repository

import (
	"context"
	"errors"

	"github.com/dogworld/backend/database"
	"github.com/dogworld/backend/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	// FindActive returns an active post; removed posts are ErrNotFound.
	FindActive(ctx context.Context, id primitive.ObjectID) (*models.Post, error)
	List(ctx context.Context, sort string, skip, limit int64) ([]models.Post, int64, error)
	ListByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Post, error)
	// ToggleLike adds userID to the likes if absent and removes it otherwise.
	ToggleLike(ctx context.Context, id, userID primitive.ObjectID) (liked bool, count int, err error)
	AddComment(ctx context.Context, id primitive.ObjectID, comment models.Comment) (*models.Post, error)
	Deactivate(ctx context.Context, id primitive.ObjectID) error
}

type MongoPostRepository struct {
	collection *mongo.Collection
}

func NewMongoPostRepository(db *mongo.Database) PostRepository {
	return &MongoPostRepository{collection: db.Collection(database.PostsCollection)}
}

func (r *MongoPostRepository) Create(ctx context.Context, post *models.Post) error {
	if post.ID.IsZero() {
		post.ID = primitive.NewObjectID()
	}
	_, err := r.collection.InsertOne(ctx, post)
	return translate(err)
}

func (r *MongoPostRepository) FindActive(ctx context.Context, id primitive.ObjectID) (*models.Post, error) {
	var post models.Post
	if err := r.collection.FindOne(ctx, bson.M{"_id": id, "isActive": true}).Decode(&post); err != nil {
		return nil, translate(err)
	}
	return &post, nil
}

func (r *MongoPostRepository) List(ctx context.Context, sort string, skip, limit int64) ([]models.Post, int64, error) {
	match := bson.M{"isActive": true}
	total, err := r.collection.CountDocuments(ctx, match)
	if err != nil {
		return nil, 0, err
	}

	var order bson.D
	switch sort {
	case models.PostSortOldest:
		order = bson.D{{Key: "createdAt", Value: 1}}
	case models.PostSortPopular:
		order = bson.D{{Key: "likesCount", Value: -1}, {Key: "createdAt", Value: -1}}
	default:
		order = bson.D{{Key: "createdAt", Value: -1}}
	}

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$addFields", Value: bson.M{"likesCount": bson.M{"$size": bson.M{"$ifNull": bson.A{"$likes", bson.A{}}}}}}},
		{{Key: "$sort", Value: order}},
		{{Key: "$skip", Value: skip}},
		{{Key: "$limit", Value: limit}},
		{{Key: "$project", Value: bson.M{"likesCount": 0}}},
	}
	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	posts := []models.Post{}
	if err := cursor.All(ctx, &posts); err != nil {
		return nil, 0, err
	}
	return posts, total, nil
}

func (r *MongoPostRepository) ListByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Post, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{"userId": userID, "isActive": true}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	posts := []models.Post{}
	if err := cursor.All(ctx, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

func (r *MongoPostRepository) ToggleLike(ctx context.Context, id, userID primitive.ObjectID) (bool, int, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var post models.Post
	err := r.collection.FindOneAndUpdate(ctx,
		bson.M{"_id": id, "isActive": true, "likes": bson.M{"$ne": userID}},
		bson.M{"$addToSet": bson.M{"likes": userID}},
		opts,
	).Decode(&post)
	if err == nil {
		return true, len(post.Likes), nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return false, 0, err
	}

	err = r.collection.FindOneAndUpdate(ctx,
		bson.M{"_id": id, "isActive": true, "likes": userID},
		bson.M{"$pull": bson.M{"likes": userID}},
		opts,
	).Decode(&post)
	if err != nil {
		return false, 0, translate(err)
	}
	return false, len(post.Likes), nil
}

func (r *MongoPostRepository) AddComment(ctx context.Context, id primitive.ObjectID, comment models.Comment) (*models.Post, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var post models.Post
	err := r.collection.FindOneAndUpdate(ctx,
		bson.M{"_id": id, "isActive": true},
		bson.M{"$push": bson.M{"comments": comment}},
		opts,
	).Decode(&post)
	if err != nil {
		return nil, translate(err)
	}
	return &post, nil
}

// Deactivate performs a soft delete.
func (r *MongoPostRepository) Deactivate(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": id, "isActive": true}, bson.M{"$set": bson.M{"isActive": false}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
