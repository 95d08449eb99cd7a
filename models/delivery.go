package models

// DeliveryChoice is the customer's explicit pick when a business supports
// both delivery paths.
type DeliveryChoice string

const (
	ChoiceBusinessLocation DeliveryChoice = "business_location"
	ChoiceCustomerLocation DeliveryChoice = "customer_location"
)

// DeliverySelectionKind tags the resolved delivery selection variant.
type DeliverySelectionKind string

const (
	SelectionBusinessSite DeliverySelectionKind = "business_site"
	SelectionCustomerSite DeliverySelectionKind = "customer_site"
	SelectionVirtual      DeliverySelectionKind = "virtual"
)

// DeliverySelection is a tagged union: exactly one variant is populated,
// dictated by Kind. Validation is a pure function over the union rather
// than ad-hoc nil checks on optional fields.
type DeliverySelection struct {
	Kind       DeliverySelectionKind `json:"kind"`
	LocationID string                `json:"location_id,omitempty"` // business site only
	Address    *Address              `json:"address,omitempty"`     // customer site only
}

// BusinessSiteSelection resolves delivery at a chosen business location.
func BusinessSiteSelection(locationID string) DeliverySelection {
	return DeliverySelection{Kind: SelectionBusinessSite, LocationID: locationID}
}

// CustomerSiteSelection resolves delivery at the customer's address.
func CustomerSiteSelection(addr Address) DeliverySelection {
	return DeliverySelection{Kind: SelectionCustomerSite, Address: &addr}
}

// VirtualSelection resolves a remotely performed service.
func VirtualSelection() DeliverySelection {
	return DeliverySelection{Kind: SelectionVirtual}
}

// DeliveryType maps the resolved selection onto the delivery type recorded
// on the booking.
func (s DeliverySelection) DeliveryType() DeliveryMode {
	switch s.Kind {
	case SelectionBusinessSite:
		return DeliveryBusinessLocation
	case SelectionCustomerSite:
		return DeliveryMobile
	default:
		return DeliveryVirtual
	}
}
