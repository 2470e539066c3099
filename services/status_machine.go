package services

import "github.com/dogworld/backend/models"

var orderTransitions = map[models.OrderStatus][]models.OrderStatus{
	models.OrderStatusPending:   {models.OrderStatusConfirmed, models.OrderStatusCancelled},
	models.OrderStatusConfirmed: {models.OrderStatusShipped, models.OrderStatusCancelled},
	models.OrderStatusShipped:   {models.OrderStatusDelivered},
}

var adoptionTransitions = map[models.AdoptionStatus][]models.AdoptionStatus{
	models.AdoptionStatusPending:   {models.AdoptionStatusConfirmed, models.AdoptionStatusCancelled},
	models.AdoptionStatusConfirmed: {models.AdoptionStatusCompleted, models.AdoptionStatusCancelled},
}

func IsOrderStatus(s models.OrderStatus) bool {
	switch s {
	case models.OrderStatusPending, models.OrderStatusConfirmed, models.OrderStatusShipped,
		models.OrderStatusDelivered, models.OrderStatusCancelled:
		return true
	}
	return false
}

func IsAdoptionStatus(s models.AdoptionStatus) bool {
	switch s {
	case models.AdoptionStatusPending, models.AdoptionStatusConfirmed,
		models.AdoptionStatusCompleted, models.AdoptionStatusCancelled:
		return true
	}
	return false
}

// CanTransitionOrder reports whether an accessory order may move from -> to.
// Delivered and cancelled are terminal.
func CanTransitionOrder(from, to models.OrderStatus) bool {
	for _, next := range orderTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// CanTransitionAdoption reports whether an adoption order may move from -> to.
// Completed and cancelled are terminal.
func CanTransitionAdoption(from, to models.AdoptionStatus) bool {
	for _, next := range adoptionTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// DogAvailabilityAfter returns the availability a dog should have after its
// adoption order moves from -> to, and whether it changes at all.
func DogAvailabilityAfter(from, to models.AdoptionStatus) (available bool, changed bool) {
	switch to {
	case models.AdoptionStatusConfirmed, models.AdoptionStatusCompleted:
		return false, true
	case models.AdoptionStatusCancelled:
		if from == models.AdoptionStatusConfirmed {
			return true, true
		}
	}
	return false, false
}
