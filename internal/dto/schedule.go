package dto

import "github.com/anderswb/laundry-room-api/internal/models"

// SlotBooking identifies the booking occupying a slot.
type SlotBooking struct {
	ID       string  `json:"id"`
	UserID   string  `json:"user_id"`
	UserName *string `json:"user_name,omitempty"`
}

// SlotView is one generated slot window overlaid with its occupancy.
type SlotView struct {
	Start   string       `json:"start"`
	End     string       `json:"end"`
	Booked  bool         `json:"booked"`
	Booking *SlotBooking `json:"booking,omitempty"`
}

// DaySchedule describes the bookable slots of a single date.
type DaySchedule struct {
	Date    string         `json:"date"`
	Weekday models.Weekday `json:"weekday"`
	Enabled bool           `json:"enabled"`
	Slots   []SlotView     `json:"slots"`
}

// WeekScheduleResponse covers seven consecutive days starting at StartDate.
type WeekScheduleResponse struct {
	StartDate string        `json:"start_date"`
	Days      []DaySchedule `json:"days"`
}

// UpdateScheduleSettingsRequest replaces the weekday configuration wholesale.
type UpdateScheduleSettingsRequest struct {
	Settings models.WeekSettings `json:"settings" binding:"required"`
}
