package models

// DeliveryMode describes where a business performs its services.
type DeliveryMode string

const (
	DeliveryBusinessLocation DeliveryMode = "business_location" // customer comes to the business
	DeliveryMobile           DeliveryMode = "mobile"            // business travels to the customer
	DeliveryVirtual          DeliveryMode = "virtual"           // performed remotely
	DeliveryBothLocations    DeliveryMode = "both_locations"    // customer chooses either
)

// VerificationApproved is the only verification status eligible for matching.
const VerificationApproved = "approved"

// DayHours is a single day's operating window in 24-hour "HH:MM" local time.
type DayHours struct {
	Open  string `json:"open"`
	Close string `json:"close"`
}

// WeeklyHours maps a lowercase weekday name ("monday"..."sunday") to that
// day's operating window. A missing day means closed that day.
type WeeklyHours map[string]DayHours

// Location is a physical site a business operates from.
type Location struct {
	ID         string   `json:"id"`
	BusinessID string   `json:"business_id"`
	Street     string   `json:"street"`
	City       string   `json:"city"`
	State      string   `json:"state"`
	PostalCode string   `json:"postal_code"`
	Geo        GeoPoint `json:"geo,omitzero"`
	Primary    bool     `json:"is_primary"`
	Active     bool     `json:"active"`
}

// Business is a candidate provider considered by the availability resolver.
type Business struct {
	ID                 string       `json:"id"`
	Name               string       `json:"name"`
	Active             bool         `json:"active"`
	VerificationStatus string       `json:"verification_status"`
	Hours              WeeklyHours  `json:"hours,omitempty"`
	DeliveryMode       DeliveryMode `json:"delivery_mode"`
	Locations          []Location   `json:"locations,omitempty"`
}

// ActiveLocations returns only the locations currently offered for booking.
func (b Business) ActiveLocations() []Location {
	var out []Location
	for _, loc := range b.Locations {
		if loc.Active {
			out = append(out, loc)
		}
	}
	return out
}

// Eligible reports whether the business may appear in availability results
// at all: it must be active and approved.
func (b Business) Eligible() bool {
	return b.Active && b.VerificationStatus == VerificationApproved
}

// BusinessService is a link row connecting a business to a service it
// offers, optionally carrying a business-specific price override.
type BusinessService struct {
	ID         string    `json:"id"`
	BusinessID string    `json:"business_id"`
	ServiceID  string    `json:"service_id"`
	Price      float64   `json:"price"`
	Active     bool      `json:"active"`
	Business   *Business `json:"business,omitempty"` // populated by the joined fetch
}

// AvailableBusiness is the display projection returned to the client for
// each business that survives availability filtering.
type AvailableBusiness struct {
	BusinessID   string       `json:"business_id"`
	Name         string       `json:"name"`
	Price        float64      `json:"price"`
	DeliveryMode DeliveryMode `json:"delivery_mode"`
	OpenTime     string       `json:"open_time"`
	CloseTime    string       `json:"close_time"`
	Locations    []Location   `json:"locations,omitempty"`
}
