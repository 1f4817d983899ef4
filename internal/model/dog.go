package model

import "time"

type Dog struct {
	ID        int64     `json:"id"`
	OwnerID   int64     `json:"owner_id"`
	Name      string    `json:"name"`
	Breed     string    `json:"breed"`
	CreatedAt time.Time `json:"created_at"`
}
