package model

import "time"

type Role string

const (
	RoleOwner  Role = "owner"  // dog owner, books walks
	RoleWalker Role = "walker" // offers slots and services
	RoleAdmin  Role = "admin"
)

type User struct {
	ID          int64     `json:"id"`
	Email       string    `json:"email"`
	DisplayName string    `json:"display_name"`
	Role        Role      `json:"role"`
	CreatedAt   time.Time `json:"created_at"`
}

// Principal identifies the authenticated caller of an operation.
type Principal struct {
	UserID int64
	Role   Role
}

func (p Principal) IsAdmin() bool {
	return p.Role == RoleAdmin
}
