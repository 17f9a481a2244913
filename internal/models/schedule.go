package models

import "time"

// Weekday names a day of the week as stored in schedule settings.
type Weekday string

const (
	Monday    Weekday = "Monday"
	Tuesday   Weekday = "Tuesday"
	Wednesday Weekday = "Wednesday"
	Thursday  Weekday = "Thursday"
	Friday    Weekday = "Friday"
	Saturday  Weekday = "Saturday"
	Sunday    Weekday = "Sunday"
)

// WeekdayOrder lists the seven weekdays in display order.
var WeekdayOrder = []Weekday{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}

// WeekdaySetting configures whether a weekday is bookable and its open hours.
// Times are 24h HH:MM strings; both are zero-padded so lexical comparison
// matches numeric comparison.
type WeekdaySetting struct {
	Enabled   bool   `json:"enabled"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

// WeekSettings maps every weekday to its setting.
type WeekSettings map[Weekday]WeekdaySetting

// Clone returns a deep copy of the settings map.
func (w WeekSettings) Clone() WeekSettings {
	out := make(WeekSettings, len(w))
	for day, setting := range w {
		out[day] = setting
	}
	return out
}

// DefaultWeekSettings returns the initial configuration: every day bookable
// between 07:00 and 22:00.
func DefaultWeekSettings() WeekSettings {
	settings := make(WeekSettings, len(WeekdayOrder))
	for _, day := range WeekdayOrder {
		settings[day] = WeekdaySetting{Enabled: true, StartTime: "07:00", EndTime: "22:00"}
	}
	return settings
}

// ScheduleSetting is the persisted row backing one weekday's configuration.
type ScheduleSetting struct {
	Day       Weekday   `db:"day" json:"day"`
	Enabled   bool      `db:"enabled" json:"enabled"`
	StartTime string    `db:"start_time" json:"start_time"`
	EndTime   string    `db:"end_time" json:"end_time"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// SlotWindow is one bookable interval derived from a weekday setting.
// It is produced on demand and never persisted.
type SlotWindow struct {
	Start string `json:"start"`
	End   string `json:"end"`
}
