package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ProductCategories is the closed set of storefront categories.
var ProductCategories = []string{"Food", "Toys", "Accessories", "Bedding", "Grooming", "Health", "Clothing", "Other"}

const DefaultBrand = "Generic"

type Specifications struct {
	Material string `json:"material,omitempty" bson:"material,omitempty"`
	Size     string `json:"size,omitempty" bson:"size,omitempty"`
	Weight   string `json:"weight,omitempty" bson:"weight,omitempty"`
	Color    string `json:"color,omitempty" bson:"color,omitempty"`
}

type Product struct {
	ID             primitive.ObjectID `json:"_id,omitempty" bson:"_id,omitempty"`
	ProductID      string             `json:"productId" bson:"productId"`
	Name           string             `json:"name" bson:"name"`
	Description    string             `json:"description" bson:"description"`
	Price          float64            `json:"price" bson:"price"`
	Category       string             `json:"category" bson:"category"`
	Brand          string             `json:"brand" bson:"brand"`
	Stock          int                `json:"stock" bson:"stock"`
	SoldCount      int                `json:"soldCount" bson:"soldCount"`
	Image          string             `json:"image" bson:"image"`
	Specifications Specifications     `json:"specifications" bson:"specifications"`
	SellerID       primitive.ObjectID `json:"sellerId" bson:"sellerId"`
	IsActive       bool               `json:"isActive" bson:"isActive"`
	CreatedAt      time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt      time.Time          `json:"updatedAt" bson:"updatedAt"`
}

type CreateProductRequest struct {
	Name           string         `json:"name" validate:"required,max=200"`
	Description    string         `json:"description" validate:"required,max=2000"`
	Price          float64        `json:"price" validate:"gte=0"`
	Category       string         `json:"category" validate:"required,oneof=Food Toys Accessories Bedding Grooming Health Clothing Other"`
	Brand          string         `json:"brand" validate:"max=100"`
	Stock          int            `json:"stock" validate:"gte=0"`
	Image          string         `json:"image" validate:"required"`
	Specifications Specifications `json:"specifications"`
}

// UpdateProductRequest carries a partial update; nil fields are left untouched.
type UpdateProductRequest struct {
	Name           *string         `json:"name" validate:"omitempty,min=1,max=200"`
	Description    *string         `json:"description" validate:"omitempty,max=2000"`
	Price          *float64        `json:"price" validate:"omitempty,gte=0"`
	Category       *string         `json:"category" validate:"omitempty,oneof=Food Toys Accessories Bedding Grooming Health Clothing Other"`
	Brand          *string         `json:"brand" validate:"omitempty,max=100"`
	Stock          *int            `json:"stock" validate:"omitempty,gte=0"`
	Image          *string         `json:"image"`
	Specifications *Specifications `json:"specifications"`
}

// Product list sort keys.
const (
	SortNewest    = "newest"
	SortPriceLow  = "price-low"
	SortPriceHigh = "price-high"
	SortPopular   = "popular"
)

type ProductFilter struct {
	Category string
	Search   string
	Brand    string
	MinPrice *float64
	MaxPrice *float64
	Sort     string
}

type CategoriesResponse struct {
	Categories []string `json:"categories"`
	Brands     []string `json:"brands"`
}
