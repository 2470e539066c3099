package controllers

import (
	"net/http"

	"github.com/dogworld/backend/models"
	"github.com/dogworld/backend/services"
	"github.com/gin-gonic/gin"
)

// HealthController serves a user's dog health records. Not to be confused
// with the /health liveness probe.
type HealthController struct {
	healthService services.HealthService
}

func NewHealthController(healthService services.HealthService) *HealthController {
	return &HealthController{healthService: healthService}
}

func (hc *HealthController) ListRecords(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	records, err := hc.healthService.List(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, records)
}

func (hc *HealthController) CreateRecord(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	var req models.HealthRecordRequest
	if !bindJSON(c, &req) {
		return
	}
	record, err := hc.healthService.Create(c.Request.Context(), userID, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, record)
}

func (hc *HealthController) UpdateRecord(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	var req models.HealthRecordRequest
	if !bindJSON(c, &req) {
		return
	}
	record, err := hc.healthService.Update(c.Request.Context(), userID, c.Param("id"), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, record)
}

func (hc *HealthController) AddVaccination(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	var v models.Vaccination
	if !bindJSON(c, &v) {
		return
	}
	record, err := hc.healthService.AddVaccination(c.Request.Context(), userID, c.Param("id"), &v)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, record)
}

func (hc *HealthController) AddVetVisit(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	var v models.VetVisit
	if !bindJSON(c, &v) {
		return
	}
	record, err := hc.healthService.AddVetVisit(c.Request.Context(), userID, c.Param("id"), &v)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, record)
}

// UpcomingVaccinations handles GET /api/health/upcoming-vaccinations.
func (hc *HealthController) UpcomingVaccinations(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	upcoming, err := hc.healthService.UpcomingVaccinations(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, upcoming)
}
