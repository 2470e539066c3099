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

type AccessoryOrderRepository interface {
	Create(ctx context.Context, order *models.AccessoryOrder) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.AccessoryOrder, error)
	FindByOrderID(ctx context.Context, orderID string) (*models.AccessoryOrder, error)
	ListByUser(ctx context.Context, userID primitive.ObjectID) ([]models.AccessoryOrder, error)
	// ListBySeller returns every order holding at least one of the seller's line items.
	ListBySeller(ctx context.Context, sellerID primitive.ObjectID) ([]models.AccessoryOrder, error)
	// UpdateStatus moves the order from one status to another. It returns
	// ErrStaleStatus if the stored status is no longer from.
	UpdateStatus(ctx context.Context, id primitive.ObjectID, from, to models.OrderStatus) (*models.AccessoryOrder, error)
	// UpdatePaymentStatus settles a pending online payment.
	UpdatePaymentStatus(ctx context.Context, id primitive.ObjectID, to string) (*models.AccessoryOrder, error)
}

type MongoAccessoryOrderRepository struct {
	collection *mongo.Collection
}

func NewMongoAccessoryOrderRepository(db *mongo.Database) AccessoryOrderRepository {
	return &MongoAccessoryOrderRepository{collection: db.Collection(database.AccessoryOrdersCollection)}
}

func (r *MongoAccessoryOrderRepository) Create(ctx context.Context, order *models.AccessoryOrder) error {
	if order.ID.IsZero() {
		order.ID = primitive.NewObjectID()
	}
	_, err := r.collection.InsertOne(ctx, order)
	return translate(err)
}

func (r *MongoAccessoryOrderRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.AccessoryOrder, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *MongoAccessoryOrderRepository) FindByOrderID(ctx context.Context, orderID string) (*models.AccessoryOrder, error) {
	return r.findOne(ctx, bson.M{"orderId": orderID})
}

func (r *MongoAccessoryOrderRepository) findOne(ctx context.Context, filter bson.M) (*models.AccessoryOrder, error) {
	var order models.AccessoryOrder
	if err := r.collection.FindOne(ctx, filter).Decode(&order); err != nil {
		return nil, translate(err)
	}
	return &order, nil
}

func (r *MongoAccessoryOrderRepository) ListByUser(ctx context.Context, userID primitive.ObjectID) ([]models.AccessoryOrder, error) {
	return r.list(ctx, bson.M{"userId": userID})
}

func (r *MongoAccessoryOrderRepository) ListBySeller(ctx context.Context, sellerID primitive.ObjectID) ([]models.AccessoryOrder, error) {
	return r.list(ctx, bson.M{"products.sellerId": sellerID})
}

func (r *MongoAccessoryOrderRepository) list(ctx context.Context, filter bson.M) ([]models.AccessoryOrder, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	orders := []models.AccessoryOrder{}
	if err := cursor.All(ctx, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *MongoAccessoryOrderRepository) UpdateStatus(ctx context.Context, id primitive.ObjectID, from, to models.OrderStatus) (*models.AccessoryOrder, error) {
	return r.compareAndSet(ctx,
		bson.M{"_id": id, "status": from},
		bson.M{"status": to},
	)
}

func (r *MongoAccessoryOrderRepository) UpdatePaymentStatus(ctx context.Context, id primitive.ObjectID, to string) (*models.AccessoryOrder, error) {
	return r.compareAndSet(ctx,
		bson.M{
			"_id":           id,
			"paymentMethod": models.PaymentMethodOnline,
			"paymentStatus": models.PaymentStatusPending,
		},
		bson.M{"paymentStatus": to},
	)
}

func (r *MongoAccessoryOrderRepository) compareAndSet(ctx context.Context, filter, set bson.M) (*models.AccessoryOrder, error) {
	set["updatedAt"] = time.Now().UTC()
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var order models.AccessoryOrder
	err := r.collection.FindOneAndUpdate(ctx, filter, bson.M{"$set": set}, opts).Decode(&order)
	if err == nil {
		return &order, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, err
	}
	if _, findErr := r.FindByID(ctx, filter["_id"].(primitive.ObjectID)); findErr != nil {
		return nil, findErr
	}
	return nil, ErrStaleStatus
}
