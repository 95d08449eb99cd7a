package models

// Principal is the authenticated customer on whose behalf a request runs.
// It is threaded explicitly through every service call rather than read
// from ambient state.
type Principal struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// GeoPoint represents a GeoJSON Point.
type GeoPoint struct {
	Type        string    `json:"type"`        // Always "Point"
	Coordinates []float64 `json:"coordinates"` // [longitude, latitude]
}
