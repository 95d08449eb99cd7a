package models

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// BookingStatus is the canonical booking lifecycle status.
type BookingStatus string

const (
	BookingPending    BookingStatus = "pending"
	BookingConfirmed  BookingStatus = "confirmed"
	BookingInProgress BookingStatus = "in_progress"
	BookingCompleted  BookingStatus = "completed"
	BookingCancelled  BookingStatus = "cancelled"
	BookingDeclined   BookingStatus = "declined"
	BookingNoShow     BookingStatus = "no_show"
)

// legalTransitions is the full transition table. Reschedules are modelled
// as a transition back to pending: the new slot always needs
// re-confirmation by the business.
var legalTransitions = map[BookingStatus][]BookingStatus{
	BookingPending:    {BookingConfirmed, BookingDeclined, BookingCancelled, BookingPending},
	BookingConfirmed:  {BookingInProgress, BookingCompleted, BookingCancelled, BookingNoShow, BookingPending},
	BookingInProgress: {BookingCompleted},
}

// CanTransition reports whether moving from s to next is legal.
func (s BookingStatus) CanTransition(next BookingStatus) bool {
	for _, t := range legalTransitions[s] {
		if t == next {
			return true
		}
	}
	return false
}

// IsUpcoming reports whether the booking still awaits fulfilment.
func (s BookingStatus) IsUpcoming() bool {
	return s == BookingPending || s == BookingConfirmed
}

// IsActive reports whether the service is currently being performed.
func (s BookingStatus) IsActive() bool {
	return s == BookingInProgress
}

// IsPast reports whether the booking reached a terminal state.
func (s BookingStatus) IsPast() bool {
	switch s {
	case BookingCompleted, BookingCancelled, BookingDeclined, BookingNoShow:
		return true
	}
	return false
}

// Cancellable reports whether a customer may still cancel from this status.
// The 24-hour refund window is policy, checked separately; this is purely
// the state-machine gate.
func (s BookingStatus) Cancellable() bool {
	return s.IsUpcoming()
}

// Reschedulable reports whether a customer may move the appointment.
func (s BookingStatus) Reschedulable() bool {
	return s.IsUpcoming()
}

// Booking is the unit of the optimistic local cache and the authoritative
// remote record. Dates are "YYYY-MM-DD", times "HH:MM" 24-hour.
type Booking struct {
	ID         string `json:"id"`
	Reference  string `json:"reference_code"`
	ServiceID  string `json:"service_id"`
	BusinessID string `json:"business_id"`
	CustomerID string `json:"customer_id,omitempty"`
	GuestEmail string `json:"guest_email,omitempty"`

	BookingDate  string       `json:"booking_date"`
	StartTime    string       `json:"start_time"`
	DeliveryType DeliveryMode `json:"delivery_type"`

	TotalAmount      float64 `json:"total_amount"`
	ServiceFee       float64 `json:"service_fee"`
	RemainingBalance float64 `json:"remaining_balance"`
	CancellationFee  float64 `json:"cancellation_fee"`
	RefundAmount     float64 `json:"refund_amount"`
	TipAmount        float64 `json:"tip_amount"`

	Status    BookingStatus `json:"status"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`

	CancelledAt        *time.Time `json:"cancelled_at,omitempty"`
	CancelledBy        string     `json:"cancelled_by,omitempty"`
	CancellationReason string     `json:"cancellation_reason,omitempty"`

	RescheduledAt       *time.Time `json:"rescheduled_at,omitempty"`
	RescheduledBy       string     `json:"rescheduled_by,omitempty"`
	RescheduleReason    string     `json:"reschedule_reason,omitempty"`
	OriginalBookingDate string     `json:"original_booking_date,omitempty"`
	OriginalStartTime   string     `json:"original_start_time,omitempty"`
	RescheduleCount     int        `json:"reschedule_count"`
}

// AppointmentTime combines BookingDate and StartTime into a local instant.
// The date is decomposed component-wise so the weekday and instant never
// shift across timezones the way a timezone-sensitive parse would.
func (b Booking) AppointmentTime() (time.Time, error) {
	year, month, day, err := SplitDate(b.BookingDate)
	if err != nil {
		return time.Time{}, err
	}
	hour, minute, err := SplitTime(b.StartTime)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(year, time.Month(month), day, hour, minute, 0, 0, time.Local), nil
}

// SplitDate decomposes a "YYYY-MM-DD" calendar string.
func SplitDate(date string) (year, month, day int, err error) {
	parts := strings.Split(date, "-")
	if len(parts) != 3 {
		return 0, 0, 0, fmt.Errorf("invalid date %q: want YYYY-MM-DD", date)
	}
	if year, err = strconv.Atoi(parts[0]); err != nil {
		return 0, 0, 0, fmt.Errorf("invalid date %q: %w", date, err)
	}
	if month, err = strconv.Atoi(parts[1]); err != nil {
		return 0, 0, 0, fmt.Errorf("invalid date %q: %w", date, err)
	}
	if day, err = strconv.Atoi(parts[2]); err != nil {
		return 0, 0, 0, fmt.Errorf("invalid date %q: %w", date, err)
	}
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return 0, 0, 0, fmt.Errorf("invalid date %q: out of range", date)
	}
	return year, month, day, nil
}

// SplitTime decomposes an "HH:MM" 24-hour clock string.
func SplitTime(clock string) (hour, minute int, err error) {
	parts := strings.Split(clock, ":")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid time %q: want HH:MM", clock)
	}
	if hour, err = strconv.Atoi(parts[0]); err != nil {
		return 0, 0, fmt.Errorf("invalid time %q: %w", clock, err)
	}
	if minute, err = strconv.Atoi(parts[1]); err != nil {
		return 0, 0, fmt.Errorf("invalid time %q: %w", clock, err)
	}
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("invalid time %q: out of range", clock)
	}
	return hour, minute, nil
}

// Weekday resolves the weekday name for a "YYYY-MM-DD" date using
// calendar-local decomposition.
func Weekday(date string) (time.Weekday, error) {
	year, month, day, err := SplitDate(date)
	if err != nil {
		return 0, err
	}
	// Noon keeps the weekday stable regardless of DST shifts.
	return time.Date(year, time.Month(month), day, 12, 0, 0, 0, time.UTC).Weekday(), nil
}
