package services

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/dogworld/backend/models"
	"github.com/dogworld/backend/notifier"
	"github.com/dogworld/backend/pkg/apperrors"
	"github.com/dogworld/backend/repository"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type ProductService interface {
	List(ctx context.Context, filter models.ProductFilter) ([]models.Product, error)
	Categories(ctx context.Context) (*models.CategoriesResponse, error)
	Get(ctx context.Context, id string) (*models.Product, error)
	ListBySeller(ctx context.Context, sellerID primitive.ObjectID) ([]models.Product, error)
	Create(ctx context.Context, sellerID primitive.ObjectID, req *models.CreateProductRequest) (*models.Product, error)
	Update(ctx context.Context, sellerID primitive.ObjectID, id string, req *models.UpdateProductRequest) (*models.Product, error)
	Delete(ctx context.Context, sellerID primitive.ObjectID, id string) error
}

type productService struct {
	repo      repository.ProductRepository
	ids       IDGenerator
	cache     ProductCache
	publisher notifier.Publisher
	logger    *zap.Logger
}

func NewProductService(
	repo repository.ProductRepository,
	ids IDGenerator,
	cache ProductCache,
	publisher notifier.Publisher,
	logger *zap.Logger,
) ProductService {
	if cache == nil {
		cache = NoopProductCache{}
	}
	return &productService{repo: repo, ids: ids, cache: cache, publisher: publisher, logger: logger}
}

func (s *productService) List(ctx context.Context, filter models.ProductFilter) ([]models.Product, error) {
	if products, ok := s.cache.GetList(ctx, filter); ok {
		return products, nil
	}
	products, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, apperrors.Internal("Failed to fetch products", err)
	}
	s.cache.SetList(filter, products)
	return products, nil
}

func (s *productService) Categories(ctx context.Context) (*models.CategoriesResponse, error) {
	categories, err := s.repo.DistinctActive(ctx, "category")
	if err != nil {
		return nil, apperrors.Internal("Failed to fetch categories", err)
	}
	brands, err := s.repo.DistinctActive(ctx, "brand")
	if err != nil {
		return nil, apperrors.Internal("Failed to fetch categories", err)
	}
	sort.Strings(categories)
	sort.Strings(brands)
	return &models.CategoriesResponse{Categories: categories, Brands: brands}, nil
}

func (s *productService) Get(ctx context.Context, id string) (*models.Product, error) {
	product, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !product.IsActive {
		return nil, apperrors.NotFound("Product not found")
	}
	return product, nil
}

func (s *productService) load(ctx context.Context, id string) (*models.Product, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, apperrors.NotFound("Product not found")
	}
	product, err := s.repo.FindByID(ctx, oid)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.NotFound("Product not found")
	}
	if err != nil {
		return nil, apperrors.Internal("Failed to fetch product", err)
	}
	return product, nil
}

func (s *productService) ListBySeller(ctx context.Context, sellerID primitive.ObjectID) ([]models.Product, error) {
	products, err := s.repo.ListBySeller(ctx, sellerID)
	if err != nil {
		return nil, apperrors.Internal("Failed to fetch products", err)
	}
	return products, nil
}

func (s *productService) Create(ctx context.Context, sellerID primitive.ObjectID, req *models.CreateProductRequest) (*models.Product, error) {
	if req == nil {
		return nil, apperrors.Validation("Request body is required")
	}
	req.Name = strings.TrimSpace(req.Name)
	if err := validateStruct(req); err != nil {
		return nil, err
	}

	brand := strings.TrimSpace(req.Brand)
	if brand == "" {
		brand = models.DefaultBrand
	}
	now := time.Now().UTC()
	product := &models.Product{
		Name:           req.Name,
		Description:    req.Description,
		Price:          req.Price,
		Category:       req.Category,
		Brand:          brand,
		Stock:          req.Stock,
		Image:          req.Image,
		Specifications: req.Specifications,
		SellerID:       sellerID,
		IsActive:       true,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	var err error
	for attempt := 0; attempt < maxIDAttempts; attempt++ {
		product.ProductID = s.ids.Next(ctx, ProductIDs)
		product.ID = primitive.NilObjectID
		if err = s.repo.Create(ctx, product); !errors.Is(err, repository.ErrDuplicate) {
			break
		}
	}
	if err != nil {
		return nil, apperrors.Internal("Failed to create product", err)
	}

	s.logger.Info("Product created",
		zap.String("product_id", product.ProductID),
		zap.String("seller_id", sellerID.Hex()),
	)
	s.cache.Invalidate(ctx)
	if err := s.publisher.Publish(ctx, notifier.BroadcastTopic, notifier.EventNewProductListed, product); err != nil {
		s.logger.Warn("Failed to broadcast new product", zap.String("product_id", product.ProductID), zap.Error(err))
	}
	return product, nil
}

func (s *productService) owned(ctx context.Context, sellerID primitive.ObjectID, id string) (*models.Product, error) {
	product, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if product.SellerID != sellerID {
		return nil, apperrors.Forbidden("You can only modify your own products")
	}
	return product, nil
}

func (s *productService) Update(ctx context.Context, sellerID primitive.ObjectID, id string, req *models.UpdateProductRequest) (*models.Product, error) {
	if req == nil {
		return nil, apperrors.Validation("Request body is required")
	}
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	product, err := s.owned(ctx, sellerID, id)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["name"] = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Price != nil {
		updates["price"] = *req.Price
	}
	if req.Category != nil {
		updates["category"] = *req.Category
	}
	if req.Brand != nil {
		brand := strings.TrimSpace(*req.Brand)
		if brand == "" {
			brand = models.DefaultBrand
		}
		updates["brand"] = brand
	}
	if req.Stock != nil {
		updates["stock"] = *req.Stock
	}
	if req.Image != nil {
		updates["image"] = *req.Image
	}
	if req.Specifications != nil {
		updates["specifications"] = *req.Specifications
	}
	if len(updates) == 0 {
		return product, nil
	}

	updated, err := s.repo.Update(ctx, product.ID, updates)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.NotFound("Product not found")
	}
	if err != nil {
		return nil, apperrors.Internal("Failed to update product", err)
	}
	s.cache.Invalidate(ctx)
	return updated, nil
}

// Delete deactivates the product; order history keeps referencing it.
func (s *productService) Delete(ctx context.Context, sellerID primitive.ObjectID, id string) error {
	product, err := s.owned(ctx, sellerID, id)
	if err != nil {
		return err
	}
	if err := s.repo.Deactivate(ctx, product.ID); err != nil {
		return apperrors.Internal("Failed to delete product", err)
	}
	s.logger.Info("Product deactivated", zap.String("product_id", product.ProductID))
	s.cache.Invalidate(ctx)
	return nil
}
