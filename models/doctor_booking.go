package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type BookingStatus string

const (
	BookingStatusScheduled BookingStatus = "scheduled"
	BookingStatusCompleted BookingStatus = "completed"
	BookingStatusCancelled BookingStatus = "cancelled"
)

const (
	DefaultBookingFee = 500
	DefaultPetType    = "Dog"
)

type Doctor struct {
	Name           string `json:"name"`
	Specialization string `json:"specialization"`
	Experience     string `json:"experience"`
	Fee            int    `json:"fee"`
}

type DoctorBooking struct {
	ID              primitive.ObjectID `json:"_id,omitempty" bson:"_id,omitempty"`
	BookingID       string             `json:"bookingId" bson:"bookingId"`
	UserID          primitive.ObjectID `json:"userId" bson:"userId"`
	DoctorName      string             `json:"doctorName" bson:"doctorName"`
	Specialization  string             `json:"specialization" bson:"specialization"`
	PetName         string             `json:"petName" bson:"petName"`
	PetType         string             `json:"petType" bson:"petType"`
	Symptoms        string             `json:"symptoms,omitempty" bson:"symptoms,omitempty"`
	AppointmentDate time.Time          `json:"appointmentDate" bson:"appointmentDate"`
	AppointmentTime string             `json:"appointmentTime" bson:"appointmentTime"`
	Status          BookingStatus      `json:"status" bson:"status"`
	Fee             int                `json:"fee" bson:"fee"`
	Notes           string             `json:"notes,omitempty" bson:"notes,omitempty"`
	CreatedAt       time.Time          `json:"createdAt" bson:"createdAt"`
}

type CreateBookingRequest struct {
	DoctorName      string `json:"doctorName" validate:"required"`
	Specialization  string `json:"specialization" validate:"required"`
	PetName         string `json:"petName" validate:"required"`
	PetType         string `json:"petType"`
	Symptoms        string `json:"symptoms" validate:"required,max=2000"`
	AppointmentDate string `json:"appointmentDate" validate:"required,datetime=2006-01-02"`
	AppointmentTime string `json:"appointmentTime" validate:"required"`
}

type AvailableSlotsResponse struct {
	Date           string   `json:"date"`
	AvailableSlots []string `json:"availableSlots"`
	BookedSlots    []string `json:"bookedSlots"`
}
