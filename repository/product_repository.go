package repository

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/dogworld/backend/database"
	"github.com/dogworld/backend/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ProductRepository defines data access for storefront products.
type ProductRepository interface {
	Create(ctx context.Context, product *models.Product) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Product, error)
	List(ctx context.Context, filter models.ProductFilter) ([]models.Product, error)
	ListBySeller(ctx context.Context, sellerID primitive.ObjectID) ([]models.Product, error)
	Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) (*models.Product, error)
	Deactivate(ctx context.Context, id primitive.ObjectID) error
	DistinctActive(ctx context.Context, field string) ([]string, error)

	// ReserveStock decrements stock by qty only if at least qty is available on
	// an active product, and returns the product as it is after the decrement.
	// It returns ErrNotFound for a missing or inactive product and
	// ErrInsufficientStock when stock is short.
	ReserveStock(ctx context.Context, id primitive.ObjectID, qty int) (*models.Product, error)
	// ReleaseStock returns qty previously taken by ReserveStock.
	ReleaseStock(ctx context.Context, id primitive.ObjectID, qty int) error
}

type MongoProductRepository struct {
	collection *mongo.Collection
}

func NewMongoProductRepository(db *mongo.Database) ProductRepository {
	return &MongoProductRepository{collection: db.Collection(database.ProductsCollection)}
}

func (r *MongoProductRepository) Create(ctx context.Context, product *models.Product) error {
	if product.ID.IsZero() {
		product.ID = primitive.NewObjectID()
	}
	_, err := r.collection.InsertOne(ctx, product)
	return translate(err)
}

func (r *MongoProductRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Product, error) {
	var product models.Product
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&product); err != nil {
		return nil, translate(err)
	}
	return &product, nil
}

func (r *MongoProductRepository) List(ctx context.Context, filter models.ProductFilter) ([]models.Product, error) {
	query, opts := ProductListQuery(filter)
	return r.find(ctx, query, opts)
}

func (r *MongoProductRepository) ListBySeller(ctx context.Context, sellerID primitive.ObjectID) ([]models.Product, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	return r.find(ctx, bson.M{"sellerId": sellerID}, opts)
}

func (r *MongoProductRepository) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]models.Product, error) {
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	products := []models.Product{}
	if err := cursor.All(ctx, &products); err != nil {
		return nil, err
	}
	return products, nil
}

func (r *MongoProductRepository) Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) (*models.Product, error) {
	set := bson.M{"updatedAt": time.Now().UTC()}
	for k, v := range updates {
		set[k] = v
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var product models.Product
	err := r.collection.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&product)
	if err != nil {
		return nil, translate(err)
	}
	return &product, nil
}

// Deactivate performs a soft delete.
func (r *MongoProductRepository) Deactivate(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"isActive": false, "updatedAt": time.Now().UTC()}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoProductRepository) DistinctActive(ctx context.Context, field string) ([]string, error) {
	values, err := r.collection.Distinct(ctx, field, bson.M{"isActive": true})
	if err != nil {
		return nil, fmt.Errorf("distinct %s: %w", field, err)
	}
	out := make([]string, 0, len(values))
	for _, v := range values {
		if s, ok := v.(string); ok && s != "" {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *MongoProductRepository) ReserveStock(ctx context.Context, id primitive.ObjectID, qty int) (*models.Product, error) {
	filter := bson.M{
		"_id":      id,
		"isActive": true,
		"stock":    bson.M{"$gte": qty},
	}
	update := bson.M{
		"$inc": bson.M{"stock": -qty, "soldCount": qty},
		"$set": bson.M{"updatedAt": time.Now().UTC()},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var product models.Product
	err := r.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&product)
	if err == nil {
		return &product, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("reserve stock for %s: %w", id.Hex(), err)
	}

	// The conditional update matched nothing; find out which condition failed.
	current, findErr := r.FindByID(ctx, id)
	if findErr != nil {
		return nil, findErr
	}
	if !current.IsActive {
		return nil, ErrNotFound
	}
	return nil, ErrInsufficientStock
}

func (r *MongoProductRepository) ReleaseStock(ctx context.Context, id primitive.ObjectID, qty int) error {
	res, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{
			"$inc": bson.M{"stock": qty, "soldCount": -qty},
			"$set": bson.M{"updatedAt": time.Now().UTC()},
		},
	)
	if err != nil {
		return fmt.Errorf("release stock for %s: %w", id.Hex(), err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// ProductListQuery builds the filter and options for the public product list.
func ProductListQuery(f models.ProductFilter) (bson.M, *options.FindOptions) {
	filter := bson.M{"isActive": true}
	if f.Category != "" && f.Category != "all" {
		filter["category"] = f.Category
	}
	if f.Brand != "" && f.Brand != "all" {
		filter["brand"] = f.Brand
	}
	if f.Search != "" {
		rx := primitive.Regex{Pattern: regexp.QuoteMeta(f.Search), Options: "i"}
		filter["$or"] = bson.A{
			bson.M{"name": rx},
			bson.M{"description": rx},
			bson.M{"brand": rx},
		}
	}
	if f.MinPrice != nil || f.MaxPrice != nil {
		price := bson.M{}
		if f.MinPrice != nil {
			price["$gte"] = *f.MinPrice
		}
		if f.MaxPrice != nil {
			price["$lte"] = *f.MaxPrice
		}
		filter["price"] = price
	}

	var sort bson.D
	switch f.Sort {
	case models.SortPriceLow:
		sort = bson.D{{Key: "price", Value: 1}}
	case models.SortPriceHigh:
		sort = bson.D{{Key: "price", Value: -1}}
	case models.SortPopular:
		sort = bson.D{{Key: "soldCount", Value: -1}, {Key: "createdAt", Value: -1}}
	default:
		sort = bson.D{{Key: "createdAt", Value: -1}}
	}
	return filter, options.Find().SetSort(sort)
}
