package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const VaccinationStatusCompleted = "Completed"

type Vaccination struct {
	Name    string     `json:"name" bson:"name" validate:"required"`
	Date    time.Time  `json:"date" bson:"date" validate:"required"`
	NextDue *time.Time `json:"nextDue,omitempty" bson:"nextDue,omitempty"`
	Status  string     `json:"status" bson:"status"`
}

type MedicalCondition struct {
	Condition     string     `json:"condition" bson:"condition"`
	DiagnosedDate *time.Time `json:"diagnosedDate,omitempty" bson:"diagnosedDate,omitempty"`
	Treatment     string     `json:"treatment,omitempty" bson:"treatment,omitempty"`
	Status        string     `json:"status,omitempty" bson:"status,omitempty"`
}

type Medication struct {
	Name      string     `json:"name" bson:"name"`
	Dosage    string     `json:"dosage,omitempty" bson:"dosage,omitempty"`
	Frequency string     `json:"frequency,omitempty" bson:"frequency,omitempty"`
	StartDate *time.Time `json:"startDate,omitempty" bson:"startDate,omitempty"`
	EndDate   *time.Time `json:"endDate,omitempty" bson:"endDate,omitempty"`
}

type VetVisit struct {
	Date      time.Time `json:"date" bson:"date" validate:"required"`
	Reason    string    `json:"reason" bson:"reason" validate:"required"`
	Diagnosis string    `json:"diagnosis,omitempty" bson:"diagnosis,omitempty"`
	Treatment string    `json:"treatment,omitempty" bson:"treatment,omitempty"`
	VetName   string    `json:"vetName,omitempty" bson:"vetName,omitempty"`
}

type EmergencyContact struct {
	Name         string `json:"name,omitempty" bson:"name,omitempty"`
	Phone        string `json:"phone,omitempty" bson:"phone,omitempty"`
	Relationship string `json:"relationship,omitempty" bson:"relationship,omitempty"`
}

type HealthRecord struct {
	ID                primitive.ObjectID  `json:"_id,omitempty" bson:"_id,omitempty"`
	RecordID          string              `json:"recordId" bson:"recordId"`
	UserID            primitive.ObjectID  `json:"userId" bson:"userId"`
	DogID             *primitive.ObjectID `json:"dogId,omitempty" bson:"dogId,omitempty"`
	DogName           string              `json:"dogName" bson:"dogName"`
	Breed             string              `json:"breed,omitempty" bson:"breed,omitempty"`
	Age               string              `json:"age,omitempty" bson:"age,omitempty"`
	Weight            float64             `json:"weight,omitempty" bson:"weight,omitempty"`
	Vaccinations      []Vaccination       `json:"vaccinations" bson:"vaccinations"`
	MedicalConditions []MedicalCondition  `json:"medicalConditions" bson:"medicalConditions"`
	Medications       []Medication        `json:"medications" bson:"medications"`
	VetVisits         []VetVisit          `json:"vetVisits" bson:"vetVisits"`
	Allergies         []string            `json:"allergies" bson:"allergies"`
	EmergencyContact  *EmergencyContact   `json:"emergencyContact,omitempty" bson:"emergencyContact,omitempty"`
	CreatedAt         time.Time           `json:"createdAt" bson:"createdAt"`
	UpdatedAt         time.Time           `json:"updatedAt" bson:"updatedAt"`
}

// HealthRecordRequest is used for both create and full update.
type HealthRecordRequest struct {
	DogID             string             `json:"dogId"`
	DogName           string             `json:"dogName" validate:"required,max=100"`
	Breed             string             `json:"breed"`
	Age               string             `json:"age"`
	Weight            float64            `json:"weight" validate:"gte=0"`
	MedicalConditions []MedicalCondition `json:"medicalConditions"`
	Medications       []Medication       `json:"medications"`
	Allergies         []string           `json:"allergies"`
	EmergencyContact  *EmergencyContact  `json:"emergencyContact"`
}

// UpcomingVaccination is one vaccination due soon, flattened with its record.
type UpcomingVaccination struct {
	RecordID string      `json:"recordId"`
	DogName  string      `json:"dogName"`
	Vaccine  Vaccination `json:"vaccination"`
}
