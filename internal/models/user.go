package models

import "time"

// UserRole represents the available roles for residents of the building.
type UserRole string

const (
	RoleAdmin    UserRole = "ADMIN"
	RoleResident UserRole = "RESIDENT"
)

// GuestUserID is the sentinel identity recorded for unauthenticated bookers.
const GuestUserID = "guest"

// User represents a resident stored in the users table.
type User struct {
	ID           string    `db:"id" json:"id"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	Name         string    `db:"name" json:"name"`
	Role         UserRole  `db:"role" json:"role"`
	Active       bool      `db:"active" json:"active"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// UserInfo is the public projection of a user returned by auth endpoints.
type UserInfo struct {
	ID    string   `json:"id"`
	Email string   `json:"email"`
	Name  string   `json:"name"`
	Role  UserRole `json:"role"`
}
