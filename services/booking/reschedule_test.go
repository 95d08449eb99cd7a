package booking

import (
	"context"
	"testing"

	"servana/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRescheduleFirstMovePreservesOriginalSlot(t *testing.T) {
	repo := newFakeBookingRepo(upcomingBooking())
	s := serviceAt(repo, localTime("2024-03-10", 9, 0))

	updated, err := s.Reschedule(context.Background(), owner, "bkg-1", RescheduleRequest{
		NewDate: "2024-03-20",
		NewTime: "11:30",
		Reason:  "conflict came up",
	})
	require.NoError(t, err)

	assert.Equal(t, "2024-03-20", updated.BookingDate)
	assert.Equal(t, "11:30", updated.StartTime)
	assert.Equal(t, models.BookingPending, updated.Status, "new slot needs re-confirmation")
	assert.Equal(t, "2024-03-15", updated.OriginalBookingDate)
	assert.Equal(t, "14:00", updated.OriginalStartTime)
	assert.Equal(t, 1, updated.RescheduleCount)
	assert.Equal(t, "cust-1", updated.RescheduledBy)
	assert.Equal(t, "conflict came up", updated.RescheduleReason)
	require.NotNil(t, updated.RescheduledAt)
}

func TestRescheduleTwiceKeepsFirstOriginal(t *testing.T) {
	repo := newFakeBookingRepo(upcomingBooking())
	s := serviceAt(repo, localTime("2024-03-10", 9, 0))

	_, err := s.Reschedule(context.Background(), owner, "bkg-1", RescheduleRequest{
		NewDate: "2024-03-20", NewTime: "11:30",
	})
	require.NoError(t, err)

	updated, err := s.Reschedule(context.Background(), owner, "bkg-1", RescheduleRequest{
		NewDate: "2024-03-25", NewTime: "16:00",
	})
	require.NoError(t, err)

	assert.Equal(t, "2024-03-25", updated.BookingDate)
	assert.Equal(t, "16:00", updated.StartTime)
	assert.Equal(t, "2024-03-15", updated.OriginalBookingDate, "second move never overwrites the original")
	assert.Equal(t, "14:00", updated.OriginalStartTime)
	assert.Equal(t, 2, updated.RescheduleCount)

	// Only the first patch carried the original slot.
	require.Len(t, repo.updates, 2)
	assert.Contains(t, repo.updates[0], "original_booking_date")
	assert.NotContains(t, repo.updates[1], "original_booking_date")
}

func TestRescheduleValidation(t *testing.T) {
	repo := newFakeBookingRepo(upcomingBooking())
	s := serviceAt(repo, localTime("2024-03-10", 9, 0))

	_, err := s.Reschedule(context.Background(), owner, "bkg-1", RescheduleRequest{NewTime: "11:30"})
	assert.ErrorIs(t, err, ErrDateTimeRequired)

	_, err = s.Reschedule(context.Background(), owner, "bkg-1", RescheduleRequest{NewDate: "2024-03-20"})
	assert.ErrorIs(t, err, ErrDateTimeRequired)

	_, err = s.Reschedule(context.Background(), owner, "bkg-1", RescheduleRequest{NewDate: "20/03/2024", NewTime: "11:30"})
	var ferr *FlowError
	require.ErrorAs(t, err, &ferr)
	assert.Equal(t, "invalid_date", ferr.Code)

	_, err = s.Reschedule(context.Background(), owner, "bkg-1", RescheduleRequest{NewDate: "2024-03-20", NewTime: "eleven"})
	require.ErrorAs(t, err, &ferr)
	assert.Equal(t, "invalid_time", ferr.Code)

	assert.Empty(t, repo.updates)
}

func TestRescheduleRejectsRetroactiveDate(t *testing.T) {
	repo := newFakeBookingRepo(upcomingBooking())
	s := serviceAt(repo, localTime("2024-03-10", 9, 0))

	_, err := s.Reschedule(context.Background(), owner, "bkg-1", RescheduleRequest{
		NewDate: "2024-03-09", NewTime: "11:30",
	})
	assert.ErrorIs(t, err, ErrRetroactiveDate)

	// Same-day moves are allowed.
	updated, err := s.Reschedule(context.Background(), owner, "bkg-1", RescheduleRequest{
		NewDate: "2024-03-10", NewTime: "18:00",
	})
	require.NoError(t, err)
	assert.Equal(t, "2024-03-10", updated.BookingDate)
}

func TestRescheduleRejectsTerminalStatuses(t *testing.T) {
	for _, status := range []models.BookingStatus{
		models.BookingInProgress, models.BookingCompleted, models.BookingCancelled, models.BookingDeclined,
	} {
		b := upcomingBooking()
		b.Status = status
		repo := newFakeBookingRepo(b)
		s := serviceAt(repo, localTime("2024-03-10", 9, 0))

		_, err := s.Reschedule(context.Background(), owner, "bkg-1", RescheduleRequest{
			NewDate: "2024-03-20", NewTime: "11:30",
		})
		assert.ErrorIs(t, err, ErrNotReschedulable, "%s", status)
	}
}

func TestRescheduleRequiresOwnership(t *testing.T) {
	repo := newFakeBookingRepo(upcomingBooking())
	s := serviceAt(repo, localTime("2024-03-10", 9, 0))

	stranger := models.Principal{ID: "cust-2"}
	_, err := s.Reschedule(context.Background(), stranger, "bkg-1", RescheduleRequest{
		NewDate: "2024-03-20", NewTime: "11:30",
	})
	assert.ErrorIs(t, err, ErrNotOwner)
}
