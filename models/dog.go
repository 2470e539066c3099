package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Location struct {
	City  string `json:"city" bson:"city"`
	State string `json:"state" bson:"state"`
}

type Dog struct {
	ID           primitive.ObjectID `json:"_id,omitempty" bson:"_id,omitempty"`
	DogID        string             `json:"dogId" bson:"dogId"`
	Breed        string             `json:"breed" bson:"breed"`
	Age          string             `json:"age" bson:"age"`
	Gender       string             `json:"gender" bson:"gender"`
	DogType      string             `json:"dogType" bson:"dogType"`
	HealthStatus string             `json:"healthStatus" bson:"healthStatus"`
	Vaccinated   string             `json:"vaccinated" bson:"vaccinated"`
	Size         string             `json:"size" bson:"size"`
	Color        string             `json:"color" bson:"color"`
	Behavior     string             `json:"behavior" bson:"behavior"`
	Description  string             `json:"description,omitempty" bson:"description,omitempty"`
	Price        float64            `json:"price" bson:"price"`
	Image        string             `json:"image,omitempty" bson:"image,omitempty"`
	SellerID     primitive.ObjectID `json:"sellerId" bson:"sellerId"`
	Location     Location           `json:"location" bson:"location"`
	IsAvailable  bool               `json:"isAvailable" bson:"isAvailable"`
	CreatedAt    time.Time          `json:"createdAt" bson:"createdAt"`
}

// DogView is a listing enriched with its adoption state.
type DogView struct {
	Dog
	IsAdopted bool `json:"isAdopted"`
}

type CreateDogRequest struct {
	Breed        string  `json:"breed" validate:"required"`
	Age          string  `json:"age" validate:"required"`
	Gender       string  `json:"gender" validate:"required"`
	DogType      string  `json:"dogType" validate:"required"`
	HealthStatus string  `json:"healthStatus" validate:"required"`
	Vaccinated   string  `json:"vaccinated" validate:"required"`
	Size         string  `json:"size" validate:"required"`
	Color        string  `json:"color" validate:"required"`
	Behavior     string  `json:"behavior" validate:"required"`
	Description  string  `json:"description" validate:"max=2000"`
	Price        float64 `json:"price" validate:"gte=0"`
	Image        string  `json:"image"`
	City         string  `json:"city"`
	State        string  `json:"state"`
}

// DogFilter narrows the public listing. Empty fields and "all" mean no filter.
type DogFilter struct {
	Breed    string
	Age      string
	Gender   string
	Size     string
	Location string
}
