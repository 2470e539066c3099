package controllers

import (
	"net/http"

	"github.com/dogworld/backend/models"
	"github.com/dogworld/backend/services"
	"github.com/gin-gonic/gin"
)

type BookingController struct {
	bookingService services.BookingService
}

func NewBookingController(bookingService services.BookingService) *BookingController {
	return &BookingController{bookingService: bookingService}
}

func (bc *BookingController) Doctors(c *gin.Context) {
	c.JSON(http.StatusOK, bc.bookingService.Doctors())
}

// AvailableSlots handles GET /api/doctors/available-slots?date=YYYY-MM-DD.
func (bc *BookingController) AvailableSlots(c *gin.Context) {
	date := c.Query("date")
	if date == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Date is required"})
		return
	}
	resp, err := bc.bookingService.AvailableSlots(c.Request.Context(), date)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (bc *BookingController) Book(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	var req models.CreateBookingRequest
	if !bindJSON(c, &req) {
		return
	}
	booking, err := bc.bookingService.Book(c.Request.Context(), userID, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Appointment booked successfully", "booking": booking})
}

func (bc *BookingController) MyAppointments(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	bookings, err := bc.bookingService.MyAppointments(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, bookings)
}

func (bc *BookingController) Cancel(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	booking, err := bc.bookingService.Cancel(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Appointment cancelled successfully", "booking": booking})
}
