package models

import "time"

// BookingDelta is a field-scoped change notification from the live feed.
// Only non-nil fields may be merged into the local record; a delta never
// replaces the whole booking.
type BookingDelta struct {
	ID        string         `json:"id"`
	Status    *BookingStatus `json:"status,omitempty"`
	UpdatedAt *time.Time     `json:"updated_at,omitempty"`
}
