package controllers

import (
	"net/http"

	"github.com/dogworld/backend/models"
	"github.com/dogworld/backend/services"
	"github.com/gin-gonic/gin"
)

type DogController struct {
	dogService services.DogService
}

func NewDogController(dogService services.DogService) *DogController {
	return &DogController{dogService: dogService}
}

// ListDogs handles GET /api/dogs.
func (dc *DogController) ListDogs(c *gin.Context) {
	filter := models.DogFilter{
		Breed:    c.Query("breed"),
		Age:      c.Query("age"),
		Gender:   c.Query("gender"),
		Size:     c.Query("size"),
		Location: c.Query("location"),
	}
	dogs, err := dc.dogService.ListAvailable(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dogs)
}

// GetDog handles GET /api/dogs/:id.
func (dc *DogController) GetDog(c *gin.Context) {
	dog, err := dc.dogService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dog)
}

// CreateDog handles POST /api/dogs (sellers only).
func (dc *DogController) CreateDog(c *gin.Context) {
	sellerID, ok := callerID(c)
	if !ok {
		return
	}
	var req models.CreateDogRequest
	if !bindJSON(c, &req) {
		return
	}
	dog, err := dc.dogService.Create(c.Request.Context(), sellerID, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Dog listed successfully", "dog": dog})
}

// ListSellerDogs handles GET /api/dogs/seller/mine.
func (dc *DogController) ListSellerDogs(c *gin.Context) {
	sellerID, ok := callerID(c)
	if !ok {
		return
	}
	dogs, err := dc.dogService.ListBySeller(c.Request.Context(), sellerID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dogs)
}
