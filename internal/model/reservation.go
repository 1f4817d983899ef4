package model

import (
	"time"

	"github.com/google/uuid"
)

type ReservationState string

const (
	ReservationStatePending   ReservationState = "pending"   // awaiting walker confirmation
	ReservationStateConfirmed ReservationState = "confirmed"
	ReservationStateCompleted ReservationState = "completed" // terminal
	ReservationStateCancelled ReservationState = "cancelled" // terminal
)

// Reservation is a customer's claim on a slot for a specific service and dog.
// The price is a copy taken at booking time, never a live reference.
type Reservation struct {
	ID         int64            `json:"id"`
	Reference  uuid.UUID        `json:"reference"`
	CustomerID int64            `json:"customer_id"`
	WalkerID   int64            `json:"walker_id"`
	ServiceID  int64            `json:"service_id"`
	DogID      int64            `json:"dog_id"`
	SlotID     int64            `json:"slot_id"`
	Price      Price            `json:"price"`
	State      ReservationState `json:"state"`
	CreatedAt  time.Time        `json:"created_at"`
	UpdatedAt  time.Time        `json:"updated_at"`
}

// Terminal reports whether no further transition is defined out of s.
func (s ReservationState) Terminal() bool {
	return s == ReservationStateCompleted || s == ReservationStateCancelled
}

// Active reports whether a reservation in this state still holds its slot.
func (s ReservationState) Active() bool {
	return s != ReservationStateCancelled
}

// CanTransitionTo is the reservation state machine:
//
//	Pending   -> Confirmed | Cancelled
//	Confirmed -> Completed | Cancelled
func (s ReservationState) CanTransitionTo(target ReservationState) bool {
	switch s {
	case ReservationStatePending:
		return target == ReservationStateConfirmed || target == ReservationStateCancelled
	case ReservationStateConfirmed:
		return target == ReservationStateCompleted || target == ReservationStateCancelled
	default:
		return false
	}
}
