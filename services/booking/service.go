package booking

import (
	"context"
	"fmt"

	"servana/models"
	"servana/utils"

	"go.uber.org/zap"
)

// ListBookings returns the principal's bookings from the authoritative
// store. This list seeds the optimistic local cache the live feed merges
// into.
func (s *DefaultBookingService) ListBookings(ctx context.Context, principal models.Principal) ([]models.Booking, error) {
	bookings, err := s.Repo.ListByCustomer(ctx, principal.ID)
	if err != nil {
		return nil, fmt.Errorf("list bookings for customer %s: %w", principal.ID, err)
	}
	return bookings, nil
}

// ListGuestBookings returns bookings made without an account, looked up by
// the guest's email.
func (s *DefaultBookingService) ListGuestBookings(ctx context.Context, guestEmail string) ([]models.Booking, error) {
	bookings, err := s.Repo.ListByGuestEmail(ctx, guestEmail)
	if err != nil {
		return nil, fmt.Errorf("list guest bookings: %w", err)
	}
	return bookings, nil
}

// GetBooking fetches one booking, enforcing that it belongs to the caller.
func (s *DefaultBookingService) GetBooking(ctx context.Context, principal models.Principal, id string) (*models.Booking, error) {
	b, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("fetch booking %s: %w", id, err)
	}
	if !ownedBy(*b, principal) {
		return nil, ErrNotOwner
	}
	return b, nil
}

// ownedBy matches a booking to its customer: by account id, or for guest
// bookings by email.
func ownedBy(b models.Booking, principal models.Principal) bool {
	if b.CustomerID != "" {
		return b.CustomerID == principal.ID
	}
	return b.GuestEmail != "" && b.GuestEmail == principal.Email
}

// afterMutation reconciles server-side effects after a successful write:
// the optimistic local update already happened, the background pass picks
// up anything the store changed besides the patched fields. Best effort.
func (s *DefaultBookingService) afterMutation(ctx context.Context, principal models.Principal, b *models.Booking) {
	if s.Tasks == nil {
		return
	}
	if err := s.Tasks.EnqueueReconcile(ctx, principal.ID, b.ID); err != nil {
		utils.GetLogger().Warn("failed to enqueue booking reconcile",
			zap.String("bookingID", b.ID), zap.Error(err))
	}
}
