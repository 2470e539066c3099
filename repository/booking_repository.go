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

type BookingRepository interface {
	// Create inserts the booking. A scheduled booking for an already taken
	// date and time fails with ErrDuplicate.
	Create(ctx context.Context, booking *models.DoctorBooking) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.DoctorBooking, error)
	ListByUser(ctx context.Context, userID primitive.ObjectID) ([]models.DoctorBooking, error)
	// BookedSlots returns the times of scheduled bookings on day (UTC midnight).
	BookedSlots(ctx context.Context, day time.Time) ([]string, error)
	UpdateStatus(ctx context.Context, id primitive.ObjectID, from, to models.BookingStatus) (*models.DoctorBooking, error)
}

type MongoBookingRepository struct {
	collection *mongo.Collection
}

func NewMongoBookingRepository(db *mongo.Database) BookingRepository {
	return &MongoBookingRepository{collection: db.Collection(database.BookingsCollection)}
}

func (r *MongoBookingRepository) Create(ctx context.Context, booking *models.DoctorBooking) error {
	if booking.ID.IsZero() {
		booking.ID = primitive.NewObjectID()
	}
	_, err := r.collection.InsertOne(ctx, booking)
	return translate(err)
}

func (r *MongoBookingRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.DoctorBooking, error) {
	var booking models.DoctorBooking
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&booking); err != nil {
		return nil, translate(err)
	}
	return &booking, nil
}

func (r *MongoBookingRepository) ListByUser(ctx context.Context, userID primitive.ObjectID) ([]models.DoctorBooking, error) {
	opts := options.Find().SetSort(bson.D{{Key: "appointmentDate", Value: 1}, {Key: "appointmentTime", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{"userId": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	bookings := []models.DoctorBooking{}
	if err := cursor.All(ctx, &bookings); err != nil {
		return nil, err
	}
	return bookings, nil
}

func (r *MongoBookingRepository) BookedSlots(ctx context.Context, day time.Time) ([]string, error) {
	values, err := r.collection.Distinct(ctx, "appointmentTime", bson.M{
		"appointmentDate": day,
		"status":          models.BookingStatusScheduled,
	})
	if err != nil {
		return nil, err
	}
	slots := make([]string, 0, len(values))
	for _, v := range values {
		if s, ok := v.(string); ok {
			slots = append(slots, s)
		}
	}
	return slots, nil
}

func (r *MongoBookingRepository) UpdateStatus(ctx context.Context, id primitive.ObjectID, from, to models.BookingStatus) (*models.DoctorBooking, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var booking models.DoctorBooking
	err := r.collection.FindOneAndUpdate(ctx,
		bson.M{"_id": id, "status": from},
		bson.M{"$set": bson.M{"status": to}},
		opts,
	).Decode(&booking)
	if err == nil {
		return &booking, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, err
	}
	if _, findErr := r.FindByID(ctx, id); findErr != nil {
		return nil, findErr
	}
	return nil, ErrStaleStatus
}
