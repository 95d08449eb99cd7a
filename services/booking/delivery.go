package booking

import (
	"fmt"

	"servana/models"
)

// DeliveryState is the mutable location-capture state of one booking flow.
// Exactly one capture path may end up populated; switching the explicit
// choice clears the other path so stale partial state never leaks into the
// next submission.
type DeliveryState struct {
	Choice     models.DeliveryChoice `json:"choice,omitempty"`
	LocationID string                `json:"location_id,omitempty"`
	Address    *models.Address       `json:"address,omitempty"`
}

// SetChoice records an explicit path choice and clears the state belonging
// to the other path.
func (s *DeliveryState) SetChoice(choice models.DeliveryChoice) {
	s.Choice = choice
	switch choice {
	case models.ChoiceCustomerLocation:
		s.LocationID = ""
	case models.ChoiceBusinessLocation:
		s.Address = nil
	}
}

// ResolveSelection turns captured state into a complete delivery selection
// for a business with the given mode and active locations. When only one
// option exists on a path it is auto-selected without interaction.
func ResolveSelection(state DeliveryState, mode models.DeliveryMode, locations []models.Location, saved []models.SavedAddress) (models.DeliverySelection, error) {
	switch mode {
	case models.DeliveryVirtual:
		return models.VirtualSelection(), nil
	case models.DeliveryBusinessLocation:
		return resolveBusinessSite(state, locations)
	case models.DeliveryMobile:
		return resolveCustomerSite(state, saved)
	case models.DeliveryBothLocations:
		switch state.Choice {
		case models.ChoiceBusinessLocation:
			return resolveBusinessSite(state, locations)
		case models.ChoiceCustomerLocation:
			return resolveCustomerSite(state, saved)
		default:
			return models.DeliverySelection{}, ErrDeliveryChoiceRequired
		}
	default:
		return models.DeliverySelection{}, fmt.Errorf("unknown delivery mode %q", mode)
	}
}

func resolveBusinessSite(state DeliveryState, locations []models.Location) (models.DeliverySelection, error) {
	if state.LocationID != "" {
		for _, loc := range locations {
			if loc.ID == state.LocationID {
				return models.BusinessSiteSelection(loc.ID), nil
			}
		}
		return models.DeliverySelection{}, ErrUnknownLocation
	}
	// A single active location is auto-selectable without prompting.
	if len(locations) == 1 {
		return models.BusinessSiteSelection(locations[0].ID), nil
	}
	return models.DeliverySelection{}, ErrLocationRequired
}

func resolveCustomerSite(state DeliveryState, saved []models.SavedAddress) (models.DeliverySelection, error) {
	if state.Address != nil {
		if !state.Address.Complete() {
			return models.DeliverySelection{}, ErrAddressRequired
		}
		return models.CustomerSiteSelection(*state.Address), nil
	}
	// A lone saved address is applied without interaction; with several the
	// default is only a prefill and the customer must confirm or enter a
	// new address.
	if len(saved) == 1 {
		return models.CustomerSiteSelection(saved[0].ToAddress()), nil
	}
	return models.DeliverySelection{}, ErrAddressRequired
}

// DefaultSavedAddress returns the prefill default among several saved
// addresses: the most recently created one carrying the default flag.
func DefaultSavedAddress(saved []models.SavedAddress) *models.SavedAddress {
	var best *models.SavedAddress
	for i := range saved {
		a := &saved[i]
		if !a.Default {
			continue
		}
		if best == nil || a.CreatedAt.After(best.CreatedAt) {
			best = a
		}
	}
	return best
}

// ValidateSelection is the pure completeness check over the union; it is
// the gate a flow must pass before a business can be confirmed.
func ValidateSelection(sel models.DeliverySelection) error {
	switch sel.Kind {
	case models.SelectionBusinessSite:
		if sel.LocationID == "" {
			return ErrLocationRequired
		}
	case models.SelectionCustomerSite:
		if sel.Address == nil || !sel.Address.Complete() {
			return ErrAddressRequired
		}
	case models.SelectionVirtual:
		// Nothing to capture.
	default:
		return fmt.Errorf("unknown delivery selection kind %q", sel.Kind)
	}
	return nil
}
