package repository_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/dogworld/backend/database"
	"github.com/dogworld/backend/models"
	"github.com/dogworld/backend/repository"
	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestProductListQuery(t *testing.T) {
	lo, hi := 100.0, 500.0

	filter, opts := repository.ProductListQuery(models.ProductFilter{
		Category: "Toys",
		Search:   "ball (red)",
		MinPrice: &lo,
		MaxPrice: &hi,
		Sort:     models.SortPriceHigh,
	})

	assert.Equal(t, true, filter["isActive"])
	assert.Equal(t, "Toys", filter["category"])
	assert.Equal(t, bson.M{"$gte": 100.0, "$lte": 500.0}, filter["price"])
	or := filter["$or"].(bson.A)
	assert.Len(t, or, 3)
	assert.Equal(t, primitive.Regex{Pattern: `ball \(red\)`, Options: "i"}, or[0].(bson.M)["name"])
	assert.Equal(t, bson.D{{Key: "price", Value: -1}}, opts.Sort)
}

func TestProductListQuery_AllMeansNoFilter(t *testing.T) {
	filter, opts := repository.ProductListQuery(models.ProductFilter{Category: "all", Brand: "all"})

	assert.Equal(t, bson.M{"isActive": true}, filter)
	assert.Equal(t, bson.D{{Key: "createdAt", Value: -1}}, opts.Sort)
}

func TestProductListQuery_Popular(t *testing.T) {
	_, opts := repository.ProductListQuery(models.ProductFilter{Sort: models.SortPopular})
	assert.Equal(t, bson.D{{Key: "soldCount", Value: -1}, {Key: "createdAt", Value: -1}}, opts.Sort)
}

func TestDogListQuery(t *testing.T) {
	filter := repository.DogListQuery(models.DogFilter{
		Breed:    "lab",
		Gender:   "Male",
		Size:     "all",
		Location: "pune",
	})

	assert.Equal(t, bson.M{
		"isAvailable":   true,
		"breed":         primitive.Regex{Pattern: "lab", Options: "i"},
		"gender":        "Male",
		"location.city": primitive.Regex{Pattern: "pune", Options: "i"},
	}, filter)
}

func TestViolatesIndex(t *testing.T) {
	dup := fmt.Errorf("%w: E11000 duplicate key error index: %s", repository.ErrDuplicate, database.ActiveAdoptionIndex)

	assert.True(t, repository.ViolatesIndex(dup, database.ActiveAdoptionIndex))
	assert.False(t, repository.ViolatesIndex(dup, database.BookingSlotIndex))
	assert.False(t, repository.ViolatesIndex(errors.New(database.ActiveAdoptionIndex), database.ActiveAdoptionIndex))
}
