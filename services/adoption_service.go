package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dogworld/backend/models"
	"github.com/dogworld/backend/notifier"
	"github.com/dogworld/backend/pkg/apperrors"
	awspkg "github.com/dogworld/backend/pkg/aws"
	"github.com/dogworld/backend/repository"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type AdoptionService interface {
	Request(ctx context.Context, userID primitive.ObjectID, req *models.CreateAdoptionRequest) (*models.AdoptionOrder, error)
	ListForUser(ctx context.Context, userID primitive.ObjectID) ([]models.AdoptionOrderView, error)
	ListForSeller(ctx context.Context, sellerID primitive.ObjectID) ([]models.AdoptionOrderView, error)
	UpdateStatus(ctx context.Context, sellerID primitive.ObjectID, id, status string) (*models.AdoptionOrder, error)
}

type adoptionService struct {
	adoptions repository.AdoptionRepository
	dogs      repository.DogRepository
	publisher notifier.Publisher
	cw        *awspkg.MetricsClient
	logger    *zap.Logger
}

func NewAdoptionService(
	adoptions repository.AdoptionRepository,
	dogs repository.DogRepository,
	publisher notifier.Publisher,
	cw *awspkg.MetricsClient,
	logger *zap.Logger,
) AdoptionService {
	return &adoptionService{adoptions: adoptions, dogs: dogs, publisher: publisher, cw: cw, logger: logger}
}

func (s *adoptionService) Request(ctx context.Context, userID primitive.ObjectID, req *models.CreateAdoptionRequest) (*models.AdoptionOrder, error) {
	if req == nil {
		return nil, apperrors.Validation("Request body is required")
	}
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	dog, err := s.loadDog(ctx, req.DogID)
	if err != nil {
		return nil, err
	}
	if !dog.IsAvailable {
		return nil, apperrors.Conflict("This dog is no longer available for adoption")
	}
	if dog.SellerID == userID {
		return nil, apperrors.Validation("You cannot adopt your own listing")
	}

	// Fast path for a friendly message; the partial unique index decides races.
	active, err := s.adoptions.HasActive(ctx, dog.ID)
	if err != nil {
		return nil, apperrors.Internal("Failed to check adoption requests", err)
	}
	if active {
		return nil, apperrors.Conflict("An adoption request for this dog is already in progress")
	}

	now := time.Now().UTC()
	order := &models.AdoptionOrder{
		DogID:       dog.ID,
		UserID:      userID,
		SellerID:    dog.SellerID,
		Status:      models.AdoptionStatusPending,
		AdoptionFee: dog.Price,
		Message:     req.Message,
		MeetingDate: req.MeetingDate,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.adoptions.Create(ctx, order); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperrors.Conflict("An adoption request for this dog is already in progress")
		}
		return nil, apperrors.Internal("Failed to create adoption request", err)
	}

	s.logger.Info("Adoption requested",
		zap.String("adoption_id", order.ID.Hex()),
		zap.String("dog_id", dog.DogID),
		zap.String("user_id", userID.Hex()),
	)
	if s.cw.IsEnabled() {
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = s.cw.RecordCount(ctx, awspkg.MetricAdoptionRequests, nil)
		}()
	}
	payload := models.AdoptionOrderView{AdoptionOrder: *order, Dog: dog}
	if err := s.publisher.Publish(ctx, notifier.SellerTopic(dog.SellerID.Hex()), notifier.EventNewAdoptionRequest, payload); err != nil {
		s.logger.Warn("Failed to notify seller of adoption request", zap.Error(err))
	}
	return order, nil
}

func (s *adoptionService) loadDog(ctx context.Context, id string) (*models.Dog, error) {
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
	return dog, nil
}

func (s *adoptionService) ListForUser(ctx context.Context, userID primitive.ObjectID) ([]models.AdoptionOrderView, error) {
	orders, err := s.adoptions.ListByUser(ctx, userID)
	if err != nil {
		return nil, apperrors.Internal("Failed to fetch adoption requests", err)
	}
	return s.withDogs(ctx, orders), nil
}

func (s *adoptionService) ListForSeller(ctx context.Context, sellerID primitive.ObjectID) ([]models.AdoptionOrderView, error) {
	orders, err := s.adoptions.ListBySeller(ctx, sellerID)
	if err != nil {
		return nil, apperrors.Internal("Failed to fetch adoption requests", err)
	}
	return s.withDogs(ctx, orders), nil
}

// withDogs attaches each order's listing; a listing that cannot be loaded is left out.
func (s *adoptionService) withDogs(ctx context.Context, orders []models.AdoptionOrder) []models.AdoptionOrderView {
	dogs := make(map[primitive.ObjectID]*models.Dog)
	views := make([]models.AdoptionOrderView, len(orders))
	for i, o := range orders {
		dog, ok := dogs[o.DogID]
		if !ok {
			var err error
			dog, err = s.dogs.FindByID(ctx, o.DogID)
			if err != nil {
				s.logger.Debug("Adoption order without listing", zap.String("dog_id", o.DogID.Hex()), zap.Error(err))
				dog = nil
			}
			dogs[o.DogID] = dog
		}
		views[i] = models.AdoptionOrderView{AdoptionOrder: o, Dog: dog}
	}
	return views
}

func (s *adoptionService) UpdateStatus(ctx context.Context, sellerID primitive.ObjectID, id, status string) (*models.AdoptionOrder, error) {
	to := models.AdoptionStatus(status)
	if !IsAdoptionStatus(to) {
		return nil, apperrors.Validation("Invalid status")
	}
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, apperrors.NotFound("Adoption request not found")
	}
	order, err := s.adoptions.FindByID(ctx, oid)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.NotFound("Adoption request not found")
	}
	if err != nil {
		return nil, apperrors.Internal("Failed to fetch adoption request", err)
	}
	if order.SellerID != sellerID {
		return nil, apperrors.Forbidden("You are not authorized to update this adoption request")
	}
	if !CanTransitionAdoption(order.Status, to) {
		return nil, apperrors.Validation(fmt.Sprintf("Cannot change adoption status from %s to %s", order.Status, to))
	}

	updated, err := s.adoptions.UpdateStatus(ctx, order.ID, order.Status, to)
	if errors.Is(err, repository.ErrStaleStatus) {
		return nil, apperrors.Conflict("Adoption status changed, please retry")
	}
	if err != nil {
		return nil, apperrors.Internal("Failed to update adoption request", err)
	}

	if available, changed := DogAvailabilityAfter(order.Status, to); changed {
		if err := s.dogs.SetAvailability(context.WithoutCancel(ctx), order.DogID, available); err != nil {
			s.logger.Error("Failed to update dog availability",
				zap.String("dog_id", order.DogID.Hex()),
				zap.Bool("available", available),
				zap.Error(err),
			)
			s.revertStatus(ctx, updated, to, order.Status)
			return nil, apperrors.Internal("Failed to update dog availability", err)
		}
	}

	s.logger.Info("Adoption status updated",
		zap.String("adoption_id", updated.ID.Hex()),
		zap.String("from", string(order.Status)),
		zap.String("to", string(to)),
	)
	payload := map[string]interface{}{
		"adoptionId": updated.ID.Hex(),
		"dogId":      updated.DogID.Hex(),
		"status":     updated.Status,
	}
	if err := s.publisher.Publish(ctx, notifier.UserTopic(updated.UserID.Hex()), notifier.EventAdoptionStatusUpdated, payload); err != nil {
		s.logger.Warn("Failed to notify adopter", zap.Error(err))
	}
	return updated, nil
}

// revertStatus puts an order back to its previous status after a failed side
// effect so the seller can retry the transition.
func (s *adoptionService) revertStatus(ctx context.Context, order *models.AdoptionOrder, from, to models.AdoptionStatus) {
	if _, err := s.adoptions.UpdateStatus(context.WithoutCancel(ctx), order.ID, from, to); err != nil {
		s.logger.Error("Failed to revert adoption status",
			zap.String("adoption_id", order.ID.Hex()),
			zap.String("status", string(from)),
			zap.Error(err),
		)
	}
}
