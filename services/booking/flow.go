package booking

import (
	"context"
	"fmt"
	"time"

	"servana/models"

	"github.com/google/uuid"
)

// StartFlowRequest opens a booking flow against one availability result.
type StartFlowRequest struct {
	ServiceID string                   `json:"service_id"`
	Date      string                   `json:"date"`
	Time      string                   `json:"time"`
	Business  models.AvailableBusiness `json:"business"`
}

// AddressBook is the saved-address input to the delivery prefill: all
// addresses plus the computed prefill default, if any.
type AddressBook struct {
	Addresses []models.SavedAddress `json:"addresses"`
	Default   *models.SavedAddress  `json:"default,omitempty"`
}

// StartFlow creates a flow session for the chosen business.
func (f *DefaultFlowService) StartFlow(ctx context.Context, principal models.Principal, req StartFlowRequest) (*FlowSession, error) {
	if req.ServiceID == "" || req.Business.BusinessID == "" {
		return nil, &FlowError{Code: "invalid_flow", Message: "A service and business are required to start a booking"}
	}

	session := &FlowSession{
		ID:         uuid.New().String(),
		CustomerID: principal.ID,
		ServiceID:  req.ServiceID,
		BusinessID: req.Business.BusinessID,
		Date:       req.Date,
		Time:       req.Time,
		Mode:       req.Business.DeliveryMode,
		Locations:  req.Business.Locations,
		CreatedAt:  time.Now(),
	}
	if err := f.Sessions.Save(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// SetDeliveryChoice records the explicit business-site vs customer-site
// pick. Switching paths clears whatever the other path had captured.
func (f *DefaultFlowService) SetDeliveryChoice(ctx context.Context, principal models.Principal, sessionID string, choice models.DeliveryChoice) (*FlowSession, error) {
	if choice != models.ChoiceBusinessLocation && choice != models.ChoiceCustomerLocation {
		return nil, &FlowError{Code: "invalid_choice", Message: fmt.Sprintf("Unknown delivery choice %q", choice)}
	}
	return f.mutate(ctx, principal, sessionID, func(session *FlowSession) error {
		session.Delivery.SetChoice(choice)
		return nil
	})
}

// SetLocation picks a specific business location. Choosing a location
// implies the business-site path.
func (f *DefaultFlowService) SetLocation(ctx context.Context, principal models.Principal, sessionID, locationID string) (*FlowSession, error) {
	return f.mutate(ctx, principal, sessionID, func(session *FlowSession) error {
		for _, loc := range session.Locations {
			if loc.ID == locationID {
				if session.Mode == models.DeliveryBothLocations {
					session.Delivery.SetChoice(models.ChoiceBusinessLocation)
				}
				session.Delivery.LocationID = locationID
				return nil
			}
		}
		return ErrUnknownLocation
	})
}

// SetAddress captures the customer's service address. Entering an address
// implies the customer-site path.
func (f *DefaultFlowService) SetAddress(ctx context.Context, principal models.Principal, sessionID string, addr models.Address) (*FlowSession, error) {
	return f.mutate(ctx, principal, sessionID, func(session *FlowSession) error {
		if session.Mode == models.DeliveryBothLocations {
			session.Delivery.SetChoice(models.ChoiceCustomerLocation)
		}
		session.Delivery.Address = &addr
		return nil
	})
}

// ResolveDelivery turns the session's captured state into a validated
// delivery selection, the gate before the business can be confirmed.
func (f *DefaultFlowService) ResolveDelivery(ctx context.Context, principal models.Principal, sessionID string) (models.DeliverySelection, error) {
	session, err := f.owned(ctx, principal, sessionID)
	if err != nil {
		return models.DeliverySelection{}, err
	}

	var saved []models.SavedAddress
	if needsAddresses(session) {
		if saved, err = f.AddressRepo.ListByCustomer(ctx, principal.ID); err != nil {
			return models.DeliverySelection{}, fmt.Errorf("fetch saved addresses: %w", err)
		}
	}

	selection, err := ResolveSelection(session.Delivery, session.Mode, session.Locations, saved)
	if err != nil {
		return models.DeliverySelection{}, err
	}
	if err := ValidateSelection(selection); err != nil {
		return models.DeliverySelection{}, err
	}
	return selection, nil
}

// AbandonFlow discards the session.
func (f *DefaultFlowService) AbandonFlow(ctx context.Context, principal models.Principal, sessionID string) error {
	session, err := f.owned(ctx, principal, sessionID)
	if err != nil {
		return err
	}
	return f.Sessions.Delete(ctx, session.ID)
}

// SavedAddresses lists the customer's addresses with the prefill default.
func (f *DefaultFlowService) SavedAddresses(ctx context.Context, principal models.Principal) (AddressBook, error) {
	saved, err := f.AddressRepo.ListByCustomer(ctx, principal.ID)
	if err != nil {
		return AddressBook{}, fmt.Errorf("fetch saved addresses: %w", err)
	}
	return AddressBook{Addresses: saved, Default: DefaultSavedAddress(saved)}, nil
}

func (f *DefaultFlowService) owned(ctx context.Context, principal models.Principal, sessionID string) (*FlowSession, error) {
	session, err := f.Sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.CustomerID != principal.ID {
		return nil, ErrNotOwner
	}
	return session, nil
}

func (f *DefaultFlowService) mutate(ctx context.Context, principal models.Principal, sessionID string, apply func(*FlowSession) error) (*FlowSession, error) {
	session, err := f.owned(ctx, principal, sessionID)
	if err != nil {
		return nil, err
	}
	if err := apply(session); err != nil {
		return nil, err
	}
	if err := f.Sessions.Save(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// needsAddresses reports whether resolving this session may consult the
// customer's saved addresses.
func needsAddresses(session *FlowSession) bool {
	if session.Mode == models.DeliveryMobile {
		return true
	}
	return session.Mode == models.DeliveryBothLocations && session.Delivery.Choice == models.ChoiceCustomerLocation
}
