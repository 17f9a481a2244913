package models

import "time"

// Booking is a resident's claim on one slot of one date. The date carries no
// time-of-day component; start and end are HH:MM strings matching a generated
// slot window. At most one live booking may exist per (date, start_time),
// enforced by a unique constraint in the bookings table.
type Booking struct {
	ID        string    `db:"id" json:"id"`
	Date      time.Time `db:"date" json:"date"`
	StartTime string    `db:"start_time" json:"start_time"`
	EndTime   string    `db:"end_time" json:"end_time"`
	UserID    string    `db:"user_id" json:"user_id"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// BookingDetail joins a booking with its owner's identity for display.
// User fields are pointers because the owning user may be the guest sentinel
// with no users row behind it.
type BookingDetail struct {
	Booking
	UserName  *string `db:"user_name" json:"user_name,omitempty"`
	UserEmail *string `db:"user_email" json:"user_email,omitempty"`
}
