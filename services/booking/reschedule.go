package booking

import (
	"context"
	"fmt"

	"servana/models"
	"servana/utils"

	"go.uber.org/zap"
)

// RescheduleRequest moves an appointment to a new slot.
type RescheduleRequest struct {
	NewDate string `json:"new_date"` // YYYY-MM-DD
	NewTime string `json:"new_time"` // HH:MM
	Reason  string `json:"reason,omitempty"`
}

// Reschedule replaces the appointment slot and resets the booking to
// pending, since the new slot needs re-confirmation by the business. The
// first reschedule preserves the original date and time; later ones never
// overwrite them. The reschedule counter only ever increases.
func (s *DefaultBookingService) Reschedule(ctx context.Context, principal models.Principal, id string, req RescheduleRequest) (*models.Booking, error) {
	if req.NewDate == "" || req.NewTime == "" {
		return nil, ErrDateTimeRequired
	}
	if _, _, _, err := models.SplitDate(req.NewDate); err != nil {
		return nil, &FlowError{Code: "invalid_date", Message: "The new date must be YYYY-MM-DD"}
	}
	if _, _, err := models.SplitTime(req.NewTime); err != nil {
		return nil, &FlowError{Code: "invalid_time", Message: "The new time must be HH:MM"}
	}

	now := s.clock()
	// Calendar strings compare lexicographically; no retroactive moves.
	if req.NewDate < now.Format("2006-01-02") {
		return nil, ErrRetroactiveDate
	}

	b, err := s.GetBooking(ctx, principal, id)
	if err != nil {
		return nil, err
	}
	if !b.Status.Reschedulable() || !b.Status.CanTransition(models.BookingPending) {
		return nil, ErrNotReschedulable
	}

	fields := map[string]any{
		"booking_date":     req.NewDate,
		"start_time":       req.NewTime,
		"status":           models.BookingPending,
		"rescheduled_at":   now,
		"rescheduled_by":   principal.ID,
		"reschedule_count": b.RescheduleCount + 1,
	}
	if req.Reason != "" {
		fields["reschedule_reason"] = req.Reason
	} else {
		fields["reschedule_reason"] = nil
	}
	// Only the first reschedule captures the original slot.
	if b.OriginalBookingDate == "" {
		fields["original_booking_date"] = b.BookingDate
		fields["original_start_time"] = b.StartTime
	}

	updated, err := s.Repo.Update(ctx, b.ID, fields)
	if err != nil {
		return nil, fmt.Errorf("reschedule booking %s: %w", b.ID, err)
	}

	if s.Tasks != nil {
		// Move the reminder with the appointment.
		if err := s.Tasks.CancelReminder(updated.ID); err != nil {
			utils.GetLogger().Warn("failed to drop reminder for rescheduled booking",
				zap.String("bookingID", updated.ID), zap.Error(err))
		}
		if err := s.Tasks.ScheduleReminder(ctx, *updated); err != nil {
			utils.GetLogger().Warn("failed to schedule reminder",
				zap.String("bookingID", updated.ID), zap.Error(err))
		}
	}
	s.afterMutation(ctx, principal, updated)

	return updated, nil
}
