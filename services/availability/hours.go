package availability

import (
	"strings"
	"time"

	"servana/models"
)

// Display fallbacks used when a day's hours are missing.
const (
	defaultOpenLabel  = "9:00 AM"
	defaultCloseLabel = "5:00 PM"
)

// TimeKind selects which bound of a day's window DisplayTime formats.
type TimeKind string

const (
	OpenTime  TimeKind = "open"
	CloseTime TimeKind = "close"
)

// IsOpen reports whether the business operates at the given date and time.
// A requested time exactly equal to close counts as open. A day missing
// from the table means closed that day; a business with no hours table at
// all is treated as always open so incomplete data never hides a business.
func IsOpen(hours models.WeeklyHours, date, clock string) bool {
	if len(hours) == 0 {
		return true
	}

	weekday, err := models.Weekday(date)
	if err != nil {
		return false
	}
	day, ok := hours[strings.ToLower(weekday.String())]
	if !ok {
		return false
	}

	minutes, err := minutesOfDay(clock)
	if err != nil {
		return false
	}
	open, err := minutesOfDay(day.Open)
	if err != nil {
		return false
	}
	closeAt, err := minutesOfDay(day.Close)
	if err != nil {
		return false
	}

	return minutes >= open && minutes <= closeAt
}

// DisplayTime returns the 12-hour label for the requested day's open or
// close bound, falling back to 9:00 AM / 5:00 PM when data is missing.
func DisplayTime(hours models.WeeklyHours, date string, kind TimeKind) string {
	fallback := defaultOpenLabel
	if kind == CloseTime {
		fallback = defaultCloseLabel
	}

	weekday, err := models.Weekday(date)
	if err != nil {
		return fallback
	}
	day, ok := hours[strings.ToLower(weekday.String())]
	if !ok {
		return fallback
	}

	bound := day.Open
	if kind == CloseTime {
		bound = day.Close
	}
	hour, minute, err := models.SplitTime(bound)
	if err != nil {
		return fallback
	}
	return time.Date(0, 1, 1, hour, minute, 0, 0, time.UTC).Format("3:04 PM")
}

// minutesOfDay converts an "HH:MM" clock string to minutes since midnight.
func minutesOfDay(clock string) (int, error) {
	hour, minute, err := models.SplitTime(clock)
	if err != nil {
		return 0, err
	}
	return hour*60 + minute, nil
}
