package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dogworld/backend/database"
	"github.com/dogworld/backend/models"
	"github.com/dogworld/backend/notifier"
	"github.com/dogworld/backend/pkg/apperrors"
	"github.com/dogworld/backend/repository"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

const (
	bookingDateLayout = "2006-01-02"
	bookingSlotLayout = "03:04 PM"
	cancelCutoff      = 24 * time.Hour
)

var doctorRoster = []models.Doctor{
	{Name: "Dr. Sharma", Specialization: "General Veterinary", Experience: "10 years", Fee: models.DefaultBookingFee},
	{Name: "Dr. Patel", Specialization: "Surgery", Experience: "8 years", Fee: models.DefaultBookingFee},
	{Name: "Dr. Kumar", Specialization: "Dermatology", Experience: "6 years", Fee: models.DefaultBookingFee},
	{Name: "Dr. Gupta", Specialization: "Dentistry", Experience: "12 years", Fee: models.DefaultBookingFee},
}

var bookingSlots = []string{
	"09:00 AM", "10:00 AM", "11:00 AM", "12:00 PM",
	"02:00 PM", "03:00 PM", "04:00 PM", "05:00 PM",
}

type BookingService interface {
	Doctors() []models.Doctor
	AvailableSlots(ctx context.Context, date string) (*models.AvailableSlotsResponse, error)
	Book(ctx context.Context, userID primitive.ObjectID, req *models.CreateBookingRequest) (*models.DoctorBooking, error)
	MyAppointments(ctx context.Context, userID primitive.ObjectID) ([]models.DoctorBooking, error)
	Cancel(ctx context.Context, userID primitive.ObjectID, id string) (*models.DoctorBooking, error)
}

type bookingService struct {
	bookings  repository.BookingRepository
	ids       IDGenerator
	publisher notifier.Publisher
	logger    *zap.Logger
	now       func() time.Time
}

func NewBookingService(bookings repository.BookingRepository, ids IDGenerator, publisher notifier.Publisher, logger *zap.Logger) BookingService {
	return &bookingService{bookings: bookings, ids: ids, publisher: publisher, logger: logger, now: time.Now}
}

// NewBookingServiceWithClock is NewBookingService with a fixed clock.
func NewBookingServiceWithClock(bookings repository.BookingRepository, ids IDGenerator, publisher notifier.Publisher, logger *zap.Logger, now func() time.Time) BookingService {
	return &bookingService{bookings: bookings, ids: ids, publisher: publisher, logger: logger, now: now}
}

func (s *bookingService) Doctors() []models.Doctor {
	out := make([]models.Doctor, len(doctorRoster))
	copy(out, doctorRoster)
	return out
}

func parseBookingDate(date string) (time.Time, error) {
	day, err := time.Parse(bookingDateLayout, strings.TrimSpace(date))
	if err != nil {
		return time.Time{}, apperrors.Validation("date must be in YYYY-MM-DD format")
	}
	return day, nil
}

func isBookingSlot(slot string) bool {
	for _, s := range bookingSlots {
		if s == slot {
			return true
		}
	}
	return false
}

// appointmentAt combines a booking day with its slot label.
func appointmentAt(day time.Time, slot string) (time.Time, error) {
	t, err := time.Parse(bookingSlotLayout, slot)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(day.Year(), day.Month(), day.Day(), t.Hour(), t.Minute(), 0, 0, time.UTC), nil
}

func (s *bookingService) AvailableSlots(ctx context.Context, date string) (*models.AvailableSlotsResponse, error) {
	if strings.TrimSpace(date) == "" {
		return nil, apperrors.Validation("date is required")
	}
	day, err := parseBookingDate(date)
	if err != nil {
		return nil, err
	}
	booked, err := s.bookings.BookedSlots(ctx, day)
	if err != nil {
		return nil, apperrors.Internal("Failed to fetch booked slots", err)
	}
	taken := make(map[string]bool, len(booked))
	for _, b := range booked {
		taken[b] = true
	}
	available := make([]string, 0, len(bookingSlots))
	for _, slot := range bookingSlots {
		if !taken[slot] {
			available = append(available, slot)
		}
	}
	if booked == nil {
		booked = []string{}
	}
	return &models.AvailableSlotsResponse{
		Date:           day.Format(bookingDateLayout),
		AvailableSlots: available,
		BookedSlots:    booked,
	}, nil
}

func (s *bookingService) Book(ctx context.Context, userID primitive.ObjectID, req *models.CreateBookingRequest) (*models.DoctorBooking, error) {
	if req == nil {
		return nil, apperrors.Validation("Request body is required")
	}
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	if !isBookingSlot(req.AppointmentTime) {
		return nil, apperrors.Validation("Invalid appointment time")
	}
	day, err := parseBookingDate(req.AppointmentDate)
	if err != nil {
		return nil, err
	}
	at, _ := appointmentAt(day, req.AppointmentTime)
	if at.Before(s.now()) {
		return nil, apperrors.Validation("Appointment must be in the future")
	}

	booked, err := s.bookings.BookedSlots(ctx, day)
	if err != nil {
		return nil, apperrors.Internal("Failed to check slot availability", err)
	}
	for _, b := range booked {
		if b == req.AppointmentTime {
			return nil, apperrors.Conflict("This time slot is already booked")
		}
	}

	petType := strings.TrimSpace(req.PetType)
	if petType == "" {
		petType = models.DefaultPetType
	}
	booking := &models.DoctorBooking{
		UserID:          userID,
		DoctorName:      req.DoctorName,
		Specialization:  req.Specialization,
		PetName:         strings.TrimSpace(req.PetName),
		PetType:         petType,
		Symptoms:        req.Symptoms,
		AppointmentDate: day,
		AppointmentTime: req.AppointmentTime,
		Status:          models.BookingStatusScheduled,
		Fee:             models.DefaultBookingFee,
		CreatedAt:       s.now().UTC(),
	}

	// A duplicate key on the booking id is retried; one on the slot index means we lost the race.
	for attempt := 0; attempt < maxIDAttempts; attempt++ {
		booking.BookingID = s.ids.Next(ctx, BookingIDs)
		booking.ID = primitive.NilObjectID
		err = s.bookings.Create(ctx, booking)
		if err == nil {
			break
		}
		if !errors.Is(err, repository.ErrDuplicate) {
			return nil, apperrors.Internal("Failed to create booking", err)
		}
		if repository.ViolatesIndex(err, database.BookingSlotIndex) {
			return nil, apperrors.Conflict("This time slot is already booked")
		}
	}
	if err != nil {
		return nil, apperrors.Internal("Failed to create booking", err)
	}

	s.logger.Info("Appointment booked",
		zap.String("booking_id", booking.BookingID),
		zap.String("date", req.AppointmentDate),
		zap.String("time", req.AppointmentTime),
	)
	if err := s.publisher.Publish(ctx, notifier.BroadcastTopic, notifier.EventNewBooking, map[string]interface{}{
		"bookingId":       booking.BookingID,
		"appointmentDate": req.AppointmentDate,
		"appointmentTime": booking.AppointmentTime,
		"doctorName":      booking.DoctorName,
	}); err != nil {
		s.logger.Warn("Failed to broadcast booking", zap.Error(err))
	}
	return booking, nil
}

func (s *bookingService) MyAppointments(ctx context.Context, userID primitive.ObjectID) ([]models.DoctorBooking, error) {
	bookings, err := s.bookings.ListByUser(ctx, userID)
	if err != nil {
		return nil, apperrors.Internal("Failed to fetch appointments", err)
	}
	return bookings, nil
}

func (s *bookingService) Cancel(ctx context.Context, userID primitive.ObjectID, id string) (*models.DoctorBooking, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, apperrors.NotFound("Booking not found")
	}
	booking, err := s.bookings.FindByID(ctx, oid)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.NotFound("Booking not found")
	}
	if err != nil {
		return nil, apperrors.Internal("Failed to fetch booking", err)
	}
	if booking.UserID != userID {
		return nil, apperrors.Forbidden("You are not authorized to cancel this booking")
	}
	if booking.Status != models.BookingStatusScheduled {
		return nil, apperrors.Validation(fmt.Sprintf("Cannot cancel a %s booking", booking.Status))
	}
	at, err := appointmentAt(booking.AppointmentDate, booking.AppointmentTime)
	if err == nil && at.Sub(s.now()) < cancelCutoff {
		return nil, apperrors.Validation("Appointments cannot be cancelled within 24 hours of the scheduled time")
	}

	updated, err := s.bookings.UpdateStatus(ctx, booking.ID, models.BookingStatusScheduled, models.BookingStatusCancelled)
	if errors.Is(err, repository.ErrStaleStatus) {
		return nil, apperrors.Conflict("Booking status changed, please retry")
	}
	if err != nil {
		return nil, apperrors.Internal("Failed to cancel booking", err)
	}
	s.logger.Info("Appointment cancelled", zap.String("booking_id", updated.BookingID))
	return updated, nil
}
