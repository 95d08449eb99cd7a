package models

// Service is a bookable service definition. It is a read-only input to the
// availability resolver; it never changes during a booking flow.
type Service struct {
	ID              string  `json:"id"`
	Name            string  `json:"name"`
	BasePrice       float64 `json:"base_price"`
	DurationMinutes int     `json:"duration_minutes"`
	CategoryID      string  `json:"category_id"`
	Icon            string  `json:"icon,omitempty"`
	Active          bool    `json:"active"`
}
