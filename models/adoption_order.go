package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type AdoptionStatus string

const (
	AdoptionStatusPending   AdoptionStatus = "pending"
	AdoptionStatusConfirmed AdoptionStatus = "confirmed"
	AdoptionStatusCompleted AdoptionStatus = "completed"
	AdoptionStatusCancelled AdoptionStatus = "cancelled"
)

// IsActive reports whether the status still blocks other requests for the dog.
func (s AdoptionStatus) IsActive() bool {
	return s == AdoptionStatusPending || s == AdoptionStatusConfirmed
}

type AdoptionOrder struct {
	ID          primitive.ObjectID `json:"_id,omitempty" bson:"_id,omitempty"`
	DogID       primitive.ObjectID `json:"dogId" bson:"dogId"`
	UserID      primitive.ObjectID `json:"userId" bson:"userId"`
	SellerID    primitive.ObjectID `json:"sellerId" bson:"sellerId"`
	Status      AdoptionStatus     `json:"status" bson:"status"`
	Active      bool               `json:"-" bson:"active"`
	AdoptionFee float64            `json:"adoptionFee" bson:"adoptionFee"`
	Message     string             `json:"message,omitempty" bson:"message,omitempty"`
	MeetingDate *time.Time         `json:"meetingDate,omitempty" bson:"meetingDate,omitempty"`
	CreatedAt   time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt   time.Time          `json:"updatedAt" bson:"updatedAt"`
}

type CreateAdoptionRequest struct {
	DogID       string     `json:"dogId" validate:"required"`
	Message     string     `json:"message" validate:"max=1000"`
	MeetingDate *time.Time `json:"meetingDate"`
}

// AdoptionOrderView pairs an order with the listing it refers to.
type AdoptionOrderView struct {
	AdoptionOrder
	Dog *Dog `json:"dog,omitempty"`
}
