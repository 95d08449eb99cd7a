package booking

import "fmt"

// FlowError marks a user-correctable problem in the booking flow.
type FlowError struct {
	Code    string
	Message string
}

func (e *FlowError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

var (
	// ErrDeliveryChoiceRequired blocks confirmation for both_locations
	// businesses until the customer picks a path.
	ErrDeliveryChoiceRequired = &FlowError{Code: "delivery_type_required", Message: "Delivery Type Required"}
	// ErrLocationRequired means a business-site delivery needs a specific
	// location choice.
	ErrLocationRequired = &FlowError{Code: "location_required", Message: "Please choose a business location"}
	// ErrUnknownLocation means the chosen location is not an active
	// location of the business.
	ErrUnknownLocation = &FlowError{Code: "unknown_location", Message: "The chosen location is not available"}
	// ErrAddressRequired means a mobile delivery needs a complete address.
	ErrAddressRequired = &FlowError{Code: "address_required", Message: "A service address with street and city is required"}

	ErrSessionNotFound = &FlowError{Code: "session_not_found", Message: "Booking session not found or expired"}
	ErrNotOwner        = &FlowError{Code: "not_owner", Message: "Booking does not belong to the current customer"}

	ErrNotCancellable   = &FlowError{Code: "not_cancellable", Message: "Booking can no longer be cancelled"}
	ErrNotReschedulable = &FlowError{Code: "not_reschedulable", Message: "Booking can no longer be rescheduled"}
	ErrDateTimeRequired = &FlowError{Code: "date_time_required", Message: "Both a new date and a new time are required"}
	ErrRetroactiveDate  = &FlowError{Code: "retroactive_date", Message: "The new date must not be earlier than today"}
)
