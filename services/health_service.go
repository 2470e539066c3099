package services

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/dogworld/backend/models"
	"github.com/dogworld/backend/pkg/apperrors"
	"github.com/dogworld/backend/repository"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

const upcomingVaccinationWindow = 30 * 24 * time.Hour

type HealthService interface {
	List(ctx context.Context, userID primitive.ObjectID) ([]models.HealthRecord, error)
	Create(ctx context.Context, userID primitive.ObjectID, req *models.HealthRecordRequest) (*models.HealthRecord, error)
	Update(ctx context.Context, userID primitive.ObjectID, id string, req *models.HealthRecordRequest) (*models.HealthRecord, error)
	AddVaccination(ctx context.Context, userID primitive.ObjectID, id string, v *models.Vaccination) (*models.HealthRecord, error)
	AddVetVisit(ctx context.Context, userID primitive.ObjectID, id string, v *models.VetVisit) (*models.HealthRecord, error)
	UpcomingVaccinations(ctx context.Context, userID primitive.ObjectID) ([]models.UpcomingVaccination, error)
}

type healthService struct {
	records repository.HealthRepository
	ids     IDGenerator
	logger  *zap.Logger
	now     func() time.Time
}

func NewHealthService(records repository.HealthRepository, ids IDGenerator, logger *zap.Logger) HealthService {
	return &healthService{records: records, ids: ids, logger: logger, now: time.Now}
}

func (s *healthService) List(ctx context.Context, userID primitive.ObjectID) ([]models.HealthRecord, error) {
	records, err := s.records.ListByUser(ctx, userID)
	if err != nil {
		return nil, apperrors.Internal("Failed to fetch health records", err)
	}
	return records, nil
}

func optionalDogID(raw string) (*primitive.ObjectID, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	oid, err := primitive.ObjectIDFromHex(raw)
	if err != nil {
		return nil, apperrors.Validation("dogId is invalid")
	}
	return &oid, nil
}

func (s *healthService) Create(ctx context.Context, userID primitive.ObjectID, req *models.HealthRecordRequest) (*models.HealthRecord, error) {
	if req == nil {
		return nil, apperrors.Validation("Request body is required")
	}
	req.DogName = strings.TrimSpace(req.DogName)
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	dogID, err := optionalDogID(req.DogID)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	record := &models.HealthRecord{
		UserID:            userID,
		DogID:             dogID,
		DogName:           req.DogName,
		Breed:             req.Breed,
		Age:               req.Age,
		Weight:            req.Weight,
		Vaccinations:      []models.Vaccination{},
		MedicalConditions: orEmpty(req.MedicalConditions),
		Medications:       orEmpty(req.Medications),
		VetVisits:         []models.VetVisit{},
		Allergies:         orEmpty(req.Allergies),
		EmergencyContact:  req.EmergencyContact,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	for attempt := 0; attempt < maxIDAttempts; attempt++ {
		record.RecordID = s.ids.Next(ctx, HealthRecordIDs)
		record.ID = primitive.NilObjectID
		if err = s.records.Create(ctx, record); !errors.Is(err, repository.ErrDuplicate) {
			break
		}
	}
	if err != nil {
		return nil, apperrors.Internal("Failed to create health record", err)
	}
	s.logger.Info("Health record created", zap.String("record_id", record.RecordID))
	return record, nil
}

func orEmpty[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}

// owned loads a record and checks it belongs to userID.
func (s *healthService) owned(ctx context.Context, userID primitive.ObjectID, id string) (*models.HealthRecord, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, apperrors.NotFound("Health record not found")
	}
	record, err := s.records.FindByID(ctx, oid)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.NotFound("Health record not found")
	}
	if err != nil {
		return nil, apperrors.Internal("Failed to fetch health record", err)
	}
	if record.UserID != userID {
		return nil, apperrors.Forbidden("You are not authorized to modify this health record")
	}
	return record, nil
}

func (s *healthService) Update(ctx context.Context, userID primitive.ObjectID, id string, req *models.HealthRecordRequest) (*models.HealthRecord, error) {
	if req == nil {
		return nil, apperrors.Validation("Request body is required")
	}
	req.DogName = strings.TrimSpace(req.DogName)
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	record, err := s.owned(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	dogID, err := optionalDogID(req.DogID)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{
		"dogName":           req.DogName,
		"breed":             req.Breed,
		"age":               req.Age,
		"weight":            req.Weight,
		"medicalConditions": orEmpty(req.MedicalConditions),
		"medications":       orEmpty(req.Medications),
		"allergies":         orEmpty(req.Allergies),
		"updatedAt":         s.now().UTC(),
	}
	if dogID != nil {
		updates["dogId"] = *dogID
	}
	if req.EmergencyContact != nil {
		updates["emergencyContact"] = req.EmergencyContact
	}
	return s.apply(record, func() (*models.HealthRecord, error) {
		return s.records.Update(ctx, record.ID, updates)
	})
}

func (s *healthService) AddVaccination(ctx context.Context, userID primitive.ObjectID, id string, v *models.Vaccination) (*models.HealthRecord, error) {
	if v == nil {
		return nil, apperrors.Validation("Request body is required")
	}
	v.Name = strings.TrimSpace(v.Name)
	if err := validateStruct(v); err != nil {
		return nil, err
	}
	if v.Date.IsZero() {
		return nil, apperrors.Validation("date is required")
	}
	if v.Status == "" {
		v.Status = models.VaccinationStatusCompleted
	}
	record, err := s.owned(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	return s.apply(record, func() (*models.HealthRecord, error) {
		return s.records.AddVaccination(ctx, record.ID, *v)
	})
}

func (s *healthService) AddVetVisit(ctx context.Context, userID primitive.ObjectID, id string, v *models.VetVisit) (*models.HealthRecord, error) {
	if v == nil {
		return nil, apperrors.Validation("Request body is required")
	}
	v.Reason = strings.TrimSpace(v.Reason)
	if err := validateStruct(v); err != nil {
		return nil, err
	}
	if v.Date.IsZero() {
		return nil, apperrors.Validation("date is required")
	}
	record, err := s.owned(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	return s.apply(record, func() (*models.HealthRecord, error) {
		return s.records.AddVetVisit(ctx, record.ID, *v)
	})
}

func (s *healthService) apply(record *models.HealthRecord, op func() (*models.HealthRecord, error)) (*models.HealthRecord, error) {
	updated, err := op()
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.NotFound("Health record not found")
	}
	if err != nil {
		return nil, apperrors.Internal("Failed to update health record", err)
	}
	s.logger.Debug("Health record updated", zap.String("record_id", record.RecordID))
	return updated, nil
}

func (s *healthService) UpcomingVaccinations(ctx context.Context, userID primitive.ObjectID) ([]models.UpcomingVaccination, error) {
	records, err := s.records.ListByUser(ctx, userID)
	if err != nil {
		return nil, apperrors.Internal("Failed to fetch health records", err)
	}
	now := s.now()
	horizon := now.Add(upcomingVaccinationWindow)

	upcoming := []models.UpcomingVaccination{}
	for _, r := range records {
		for _, v := range r.Vaccinations {
			if v.NextDue == nil || v.NextDue.Before(now) || v.NextDue.After(horizon) {
				continue
			}
			upcoming = append(upcoming, models.UpcomingVaccination{RecordID: r.RecordID, DogName: r.DogName, Vaccine: v})
		}
	}
	sort.SliceStable(upcoming, func(i, j int) bool {
		return upcoming[i].Vaccine.NextDue.Before(*upcoming[j].Vaccine.NextDue)
	})
	return upcoming, nil
}
