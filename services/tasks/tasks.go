package tasks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"servana/models"

	"github.com/hibiken/asynq"
)

const (
	// TypeBookingReconcile refetches a booking from the authoritative
	// store after a local mutation and republishes it on the change feed.
	TypeBookingReconcile = "booking:reconcile"
	// TypeBookingReminder notifies the customer ahead of the appointment.
	TypeBookingReminder = "booking:reminder"
)

// ReconcilePayload identifies the booking to reconcile and the principal
// whose feed receives the resulting delta.
type ReconcilePayload struct {
	PrincipalID string `json:"principalId"`
	BookingID   string `json:"bookingId"`
}

// ReminderPayload carries what the reminder needs to say.
type ReminderPayload struct {
	BookingID   string `json:"bookingId"`
	PrincipalID string `json:"principalId"`
	Date        string `json:"date"`
	Time        string `json:"time"`
}

// Enqueuer schedules background work on the Redis-backed queue.
type Enqueuer struct {
	client    *asynq.Client
	inspector *asynq.Inspector
}

func NewEnqueuer(redisOpt asynq.RedisClientOpt) *Enqueuer {
	return &Enqueuer{
		client:    asynq.NewClient(redisOpt),
		inspector: asynq.NewInspector(redisOpt),
	}
}

// EnqueueReconcile schedules a reconciliation pass for a booking that was
// just mutated locally.
func (e *Enqueuer) EnqueueReconcile(ctx context.Context, principalID, bookingID string) error {
	payload, err := json.Marshal(ReconcilePayload{PrincipalID: principalID, BookingID: bookingID})
	if err != nil {
		return fmt.Errorf("marshal reconcile payload: %w", err)
	}
	task := asynq.NewTask(TypeBookingReconcile, payload)
	if _, err := e.client.EnqueueContext(ctx, task, asynq.MaxRetry(3)); err != nil {
		return fmt.Errorf("enqueue reconcile for booking %s: %w", bookingID, err)
	}
	return nil
}

// ScheduleReminder schedules an appointment reminder 24 hours ahead of the
// booking. Reminders that would already be in the past are skipped.
func (e *Enqueuer) ScheduleReminder(ctx context.Context, b models.Booking) error {
	appt, err := b.AppointmentTime()
	if err != nil {
		return err
	}
	fireAt := appt.Add(-24 * time.Hour)
	if fireAt.Before(time.Now()) {
		return nil
	}

	payload, err := json.Marshal(ReminderPayload{
		BookingID:   b.ID,
		PrincipalID: b.CustomerID,
		Date:        b.BookingDate,
		Time:        b.StartTime,
	})
	if err != nil {
		return fmt.Errorf("marshal reminder payload: %w", err)
	}
	task := asynq.NewTask(TypeBookingReminder, payload)
	_, err = e.client.EnqueueContext(ctx, task,
		asynq.ProcessAt(fireAt),
		asynq.TaskID(reminderTaskID(b.ID)),
	)
	if err != nil {
		return fmt.Errorf("schedule reminder for booking %s: %w", b.ID, err)
	}
	return nil
}

// CancelReminder drops a previously scheduled reminder, e.g. after the
// booking was cancelled. Best effort: a missing task is not an error.
func (e *Enqueuer) CancelReminder(bookingID string) error {
	err := e.inspector.DeleteTask("default", reminderTaskID(bookingID))
	if err != nil && !errors.Is(err, asynq.ErrTaskNotFound) {
		return fmt.Errorf("cancel reminder for booking %s: %w", bookingID, err)
	}
	return nil
}

func (e *Enqueuer) Close() error {
	return e.client.Close()
}

func reminderTaskID(bookingID string) string {
	return "reminder:" + bookingID
}
