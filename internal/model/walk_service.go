package model

import "time"

// WalkService is a catalog entry (e.g. "30 minute walk"). Prices are not
// stored here: each walker configures their own price per service.
type WalkService struct {
	ID              int64     `json:"id"`
	Name            string    `json:"name"`
	Description     string    `json:"description"`
	DurationMinutes int       `json:"duration_minutes"`
	CreatedAt       time.Time `json:"created_at"`
}
