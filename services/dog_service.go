package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/dogworld/backend/models"
	"github.com/dogworld/backend/notifier"
	"github.com/dogworld/backend/pkg/apperrors"
	"github.com/dogworld/backend/repository"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type DogService interface {
	ListAvailable(ctx context.Context, filter models.DogFilter) ([]models.DogView, error)
	Get(ctx context.Context, id string) (*models.DogView, error)
	ListBySeller(ctx context.Context, sellerID primitive.ObjectID) ([]models.DogView, error)
	Create(ctx context.Context, sellerID primitive.ObjectID, req *models.CreateDogRequest) (*models.Dog, error)
}

type dogService struct {
	dogs      repository.DogRepository
	adoptions repository.AdoptionRepository
	ids       IDGenerator
	publisher notifier.Publisher
	logger    *zap.Logger
}

func NewDogService(
	dogs repository.DogRepository,
	adoptions repository.AdoptionRepository,
	ids IDGenerator,
	publisher notifier.Publisher,
	logger *zap.Logger,
) DogService {
	return &dogService{dogs: dogs, adoptions: adoptions, ids: ids, publisher: publisher, logger: logger}
}

func (s *dogService) ListAvailable(ctx context.Context, filter models.DogFilter) ([]models.DogView, error) {
	dogs, err := s.dogs.ListAvailable(ctx, filter)
	if err != nil {
		return nil, apperrors.Internal("Failed to fetch dogs", err)
	}
	return s.withAdoptionState(ctx, dogs)
}

func (s *dogService) ListBySeller(ctx context.Context, sellerID primitive.ObjectID) ([]models.DogView, error) {
	dogs, err := s.dogs.ListBySeller(ctx, sellerID)
	if err != nil {
		return nil, apperrors.Internal("Failed to fetch dogs", err)
	}
	return s.withAdoptionState(ctx, dogs)
}

func (s *dogService) Get(ctx context.Context, id string) (*models.DogView, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, apperrors.NotFound("Dog not found")
	}
	dog, err := s.dogs.FindByID(ctx, oid)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.NotFound("Dog not found")
	}
	if err != nil {
		return nil, apperrors.Internal("Failed to fetch dog", err)
	}
	views, err := s.withAdoptionState(ctx, []models.Dog{*dog})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

func (s *dogService) withAdoptionState(ctx context.Context, dogs []models.Dog) ([]models.DogView, error) {
	ids := make([]primitive.ObjectID, len(dogs))
	for i, d := range dogs {
		ids[i] = d.ID
	}
	adopted, err := s.adoptions.AdoptedDogs(ctx, ids)
	if err != nil {
		return nil, apperrors.Internal("Failed to fetch adoption status", err)
	}
	views := make([]models.DogView, len(dogs))
	for i, d := range dogs {
		views[i] = models.DogView{Dog: d, IsAdopted: adopted[d.ID]}
	}
	return views, nil
}

func (s *dogService) Create(ctx context.Context, sellerID primitive.ObjectID, req *models.CreateDogRequest) (*models.Dog, error) {
	if req == nil {
		return nil, apperrors.Validation("Request body is required")
	}
	if err := validateStruct(req); err != nil {
		return nil, err
	}

	city := strings.TrimSpace(req.City)
	if city == "" {
		city = "Unknown"
	}
	dog := &models.Dog{
		Breed:        strings.TrimSpace(req.Breed),
		Age:          req.Age,
		Gender:       req.Gender,
		DogType:      req.DogType,
		HealthStatus: req.HealthStatus,
		Vaccinated:   req.Vaccinated,
		Size:         req.Size,
		Color:        req.Color,
		Behavior:     req.Behavior,
		Description:  req.Description,
		Price:        req.Price,
		Image:        req.Image,
		SellerID:     sellerID,
		Location:     models.Location{City: city, State: strings.TrimSpace(req.State)},
		IsAvailable:  true,
		CreatedAt:    time.Now().UTC(),
	}

	var err error
	for attempt := 0; attempt < maxIDAttempts; attempt++ {
		dog.DogID = s.ids.Next(ctx, DogIDs)
		dog.ID = primitive.NilObjectID
		if err = s.dogs.Create(ctx, dog); !errors.Is(err, repository.ErrDuplicate) {
			break
		}
	}
	if err != nil {
		return nil, apperrors.Internal("Failed to create dog listing", err)
	}

	s.logger.Info("Dog listed", zap.String("dog_id", dog.DogID), zap.String("seller_id", sellerID.Hex()))
	if err := s.publisher.Publish(ctx, notifier.BroadcastTopic, notifier.EventNewDogListed, dog); err != nil {
		s.logger.Warn("Failed to broadcast new dog", zap.String("dog_id", dog.DogID), zap.Error(err))
	}
	return dog, nil
}
