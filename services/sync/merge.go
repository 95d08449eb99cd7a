package sync

import (
	"fmt"

	"servana/models"
)

// ChannelFor names the change-feed channel scoped to one customer.
func ChannelFor(principalID string) string {
	return fmt.Sprintf("bookings:%s:customer", principalID)
}

// Merge applies a field-scoped delta onto the local record. Only fields
// the delta actually carries are replaced; everything else survives, so a
// delta arriving concurrently with a local optimistic update can never
// blank out fields it did not mention.
func Merge(local models.Booking, delta models.BookingDelta) models.Booking {
	if delta.Status != nil {
		local.Status = *delta.Status
	}
	if delta.UpdatedAt != nil {
		local.UpdatedAt = *delta.UpdatedAt
	}
	return local
}
