package model

import "time"

type SlotState string

const (
	SlotStateAvailable SlotState = "available"
	SlotStateReserved  SlotState = "reserved"
)

// Slot is a single bookable time instant for one walker. Duration is implied
// by the generation interval; start_time never changes after creation.
type Slot struct {
	ID        int64     `json:"id"`
	WalkerID  int64     `json:"walker_id"`
	StartTime time.Time `json:"start_time"`
	State     SlotState `json:"state"`
	CreatedAt time.Time `json:"created_at"`
}
