package models

import "time"

// Address is a customer-supplied service location for mobile deliveries.
type Address struct {
	Street         string `json:"street"`
	City           string `json:"city"`
	State          string `json:"state,omitempty"`
	PostalCode     string `json:"postal_code,omitempty"`
	SavedAddressID string `json:"saved_address_id,omitempty"` // set when prefilled from a saved address
}

// Complete reports whether the address carries the minimum fields required
// to dispatch a mobile service: street and city.
func (a Address) Complete() bool {
	return a.Street != "" && a.City != ""
}

// SavedAddress is a customer-owned named location used to prefill the
// delivery selection. Read-only input to the booking flow.
type SavedAddress struct {
	ID         string    `json:"id"`
	CustomerID string    `json:"customer_id"`
	Label      string    `json:"label,omitempty"`
	Street     string    `json:"street"`
	City       string    `json:"city"`
	State      string    `json:"state,omitempty"`
	PostalCode string    `json:"postal_code,omitempty"`
	Default    bool      `json:"is_default"`
	CreatedAt  time.Time `json:"created_at"`
}

// ToAddress converts a saved address into a delivery address, keeping the
// link back to its source.
func (s SavedAddress) ToAddress() Address {
	return Address{
		Street:         s.Street,
		City:           s.City,
		State:          s.State,
		PostalCode:     s.PostalCode,
		SavedAddressID: s.ID,
	}
}
