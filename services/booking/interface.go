package booking

import (
	"context"
	"time"

	"servana/database/repository"
	"servana/models"
	"servana/services/tasks"
)

// Service manages the customer-facing booking lifecycle: reads,
// cancellation with the refund policy, and rescheduling with history.
type Service interface {
	ListBookings(ctx context.Context, principal models.Principal) ([]models.Booking, error)
	ListGuestBookings(ctx context.Context, guestEmail string) ([]models.Booking, error)
	GetBooking(ctx context.Context, principal models.Principal, id string) (*models.Booking, error)
	QuoteCancellation(ctx context.Context, principal models.Principal, id string) (*CancellationQuote, error)
	Cancel(ctx context.Context, principal models.Principal, id, reason string) (*models.Booking, *CancellationQuote, error)
	Reschedule(ctx context.Context, principal models.Principal, id string, req RescheduleRequest) (*models.Booking, error)
}

// FlowService manages the delivery-selection state of a booking-in-progress.
type FlowService interface {
	StartFlow(ctx context.Context, principal models.Principal, req StartFlowRequest) (*FlowSession, error)
	SetDeliveryChoice(ctx context.Context, principal models.Principal, sessionID string, choice models.DeliveryChoice) (*FlowSession, error)
	SetLocation(ctx context.Context, principal models.Principal, sessionID, locationID string) (*FlowSession, error)
	SetAddress(ctx context.Context, principal models.Principal, sessionID string, addr models.Address) (*FlowSession, error)
	ResolveDelivery(ctx context.Context, principal models.Principal, sessionID string) (models.DeliverySelection, error)
	AbandonFlow(ctx context.Context, principal models.Principal, sessionID string) error
	SavedAddresses(ctx context.Context, principal models.Principal) (AddressBook, error)
}

// DefaultBookingService implements Service.
type DefaultBookingService struct {
	Repo  repository.BookingRepository
	Tasks *tasks.Enqueuer // optional; post-mutation reconciliation and reminders
	// Now overrides the clock in tests.
	Now func() time.Time
}

func (s *DefaultBookingService) clock() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// DefaultFlowService implements FlowService.
type DefaultFlowService struct {
	Sessions    *SessionStore
	AddressRepo repository.AddressRepository
}
