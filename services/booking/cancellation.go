package booking

import (
	"context"
	"fmt"
	"time"

	"servana/models"
	"servana/utils"

	"go.uber.org/zap"
)

// DefaultCancellationReason is recorded when the customer gives no reason.
const DefaultCancellationReason = "Cancelled by customer"

// nonRefundableWindowHours is a global policy with no per-business
// override. The boundary is inclusive: exactly 24 hours out is still
// non-refundable.
const nonRefundableWindowHours = 24

// CancellationQuote is the immutable fee/refund computation shown to the
// customer and persisted on confirmation.
type CancellationQuote struct {
	TotalAmount       float64 `json:"total_amount"`
	CancellationFee   float64 `json:"cancellation_fee"`
	RefundAmount      float64 `json:"refund_amount"`
	IsWithin24Hours   bool    `json:"is_within_24_hours"`
	IsPastBooking     bool    `json:"is_past_booking"`
	HoursUntilBooking float64 `json:"hours_until_booking"`
}

// ComputeCancellationQuote derives the fee/refund split from the time left
// until the appointment. More than 24 hours out the booking refunds in
// full; at or inside 24 hours, and for appointments already passed, the
// full amount is kept as the cancellation fee. There is no prorated tier.
func ComputeCancellationQuote(b models.Booking, now time.Time) (*CancellationQuote, error) {
	appt, err := b.AppointmentTime()
	if err != nil {
		return nil, fmt.Errorf("booking %s has an invalid appointment: %w", b.ID, err)
	}

	hoursUntil := appt.Sub(now).Hours()
	quote := &CancellationQuote{
		TotalAmount:       b.TotalAmount,
		HoursUntilBooking: hoursUntil,
		IsPastBooking:     hoursUntil <= 0,
		IsWithin24Hours:   hoursUntil > 0 && hoursUntil <= nonRefundableWindowHours,
	}

	if hoursUntil > nonRefundableWindowHours {
		quote.RefundAmount = b.TotalAmount
	} else {
		quote.CancellationFee = b.TotalAmount
	}
	return quote, nil
}

// QuoteCancellation computes the quote for a booking without mutating it.
func (s *DefaultBookingService) QuoteCancellation(ctx context.Context, principal models.Principal, id string) (*CancellationQuote, error) {
	b, err := s.GetBooking(ctx, principal, id)
	if err != nil {
		return nil, err
	}
	if !b.Status.Cancellable() {
		return nil, ErrNotCancellable
	}
	return ComputeCancellationQuote(*b, s.clock())
}

// Cancel applies the cancellation policy and writes the full cancellation
// record in a single patch, so the status change and the fee fields land
// atomically. Cancelling an already-cancelled booking is a no-op: the
// record is returned unchanged with no fresh fee computation.
func (s *DefaultBookingService) Cancel(ctx context.Context, principal models.Principal, id, reason string) (*models.Booking, *CancellationQuote, error) {
	b, err := s.GetBooking(ctx, principal, id)
	if err != nil {
		return nil, nil, err
	}

	if b.Status == models.BookingCancelled {
		return b, nil, nil
	}
	if !b.Status.Cancellable() || !b.Status.CanTransition(models.BookingCancelled) {
		return nil, nil, ErrNotCancellable
	}

	now := s.clock()
	quote, err := ComputeCancellationQuote(*b, now)
	if err != nil {
		return nil, nil, err
	}

	if reason == "" {
		reason = DefaultCancellationReason
	}

	updated, err := s.Repo.Update(ctx, b.ID, map[string]any{
		"status":              models.BookingCancelled,
		"cancelled_at":        now,
		"cancelled_by":        principal.ID,
		"cancellation_reason": reason,
		"cancellation_fee":    quote.CancellationFee,
		"refund_amount":       quote.RefundAmount,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("cancel booking %s: %w", b.ID, err)
	}

	if s.Tasks != nil {
		if err := s.Tasks.CancelReminder(b.ID); err != nil {
			utils.GetLogger().Warn("failed to drop reminder for cancelled booking",
				zap.String("bookingID", b.ID), zap.Error(err))
		}
	}
	s.afterMutation(ctx, principal, updated)

	return updated, quote, nil
}
