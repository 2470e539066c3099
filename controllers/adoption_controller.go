package controllers

import (
	"net/http"

	"github.com/dogworld/backend/models"
	"github.com/dogworld/backend/services"
	"github.com/gin-gonic/gin"
)

type AdoptionController struct {
	adoptionService services.AdoptionService
}

func NewAdoptionController(adoptionService services.AdoptionService) *AdoptionController {
	return &AdoptionController{adoptionService: adoptionService}
}

// CreateAdoption handles POST /api/adoptions.
func (ac *AdoptionController) CreateAdoption(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	var req models.CreateAdoptionRequest
	if !bindJSON(c, &req) {
		return
	}
	order, err := ac.adoptionService.Request(c.Request.Context(), userID, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Adoption request submitted", "order": order})
}

// ListMine handles GET /api/adoptions/mine.
func (ac *AdoptionController) ListMine(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	orders, err := ac.adoptionService.ListForUser(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, orders)
}

// ListSeller handles GET /api/adoptions/seller.
func (ac *AdoptionController) ListSeller(c *gin.Context) {
	sellerID, ok := callerID(c)
	if !ok {
		return
	}
	orders, err := ac.adoptionService.ListForSeller(c.Request.Context(), sellerID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, orders)
}

// UpdateStatus handles PUT /api/adoptions/:id/status.
func (ac *AdoptionController) UpdateStatus(c *gin.Context) {
	sellerID, ok := callerID(c)
	if !ok {
		return
	}
	var req models.UpdateOrderStatusRequest
	if !bindJSON(c, &req) {
		return
	}
	order, err := ac.adoptionService.UpdateStatus(c.Request.Context(), sellerID, c.Param("id"), req.Status)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}
