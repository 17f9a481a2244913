package service

import (
	"fmt"

	"github.com/anderswb/laundry-room-api/internal/models"
)

// Bookable windows are fixed at three hours; the final window of a day is
// shortened when the configured range is not an exact multiple.
const slotDurationMinutes = 180

// GenerateSlots expands a weekday setting into its ordered bookable windows.
// A disabled day yields nothing. The windows exactly cover
// [StartTime, EndTime) with no gaps or overlaps: each window ends three hours
// after it starts except the last, which is clamped to EndTime. Time-of-day
// is treated as an offset within a single day, so a window can never roll
// past midnight.
func GenerateSlots(setting models.WeekdaySetting) []models.SlotWindow {
	if !setting.Enabled {
		return nil
	}

	start, err := parseClock(setting.StartTime)
	if err != nil {
		return nil
	}
	end, err := parseClock(setting.EndTime)
	if err != nil {
		return nil
	}

	var slots []models.SlotWindow
	for cursor := start; cursor < end; {
		next := cursor + slotDurationMinutes
		if next > end {
			next = end
		}
		slots = append(slots, models.SlotWindow{Start: formatClock(cursor), End: formatClock(next)})
		cursor = next
	}
	return slots
}

// parseClock converts an HH:MM 24h string into minutes since midnight.
func parseClock(value string) (int, error) {
	var hours, minutes int
	if _, err := fmt.Sscanf(value, "%d:%d", &hours, &minutes); err != nil {
		return 0, fmt.Errorf("parse clock %q: %w", value, err)
	}
	if hours < 0 || hours > 23 || minutes < 0 || minutes > 59 {
		return 0, fmt.Errorf("clock %q out of range", value)
	}
	return hours*60 + minutes, nil
}

func formatClock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}
