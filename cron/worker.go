package cron

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"servana/config"
	"servana/database/repository"
	"servana/services/sync"
	"servana/services/tasks"

	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"
)

// InitSyncWorker runs the background queue worker: it reconciles bookings
// after local mutations and fires appointment reminders, publishing both
// onto the customer change feed.
func InitSyncWorker(bookingRepo repository.BookingRepository, feed *redis.Client) {
	redisOpts := asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	}

	srv := asynq.NewServer(
		redisOpts,
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(tasks.TypeBookingReconcile, handleReconcileTask(bookingRepo, feed))
	mux.HandleFunc(tasks.TypeBookingReminder, handleReminderTask(feed))

	// Start Redis health monitor
	go monitorRedisConnection()

	// Start async worker with retry logic
	go func() {
		log.Println("[SyncWorker] Starting async worker...")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			if err := srv.Run(mux); err != nil {
				log.Printf("[SyncWorker] Attempt %d/%d failed to start worker: %v", attempts, maxAttempts, err)

				if attempts == maxAttempts {
					log.Fatal("[SyncWorker] Max retry attempts reached. Exiting.")
				}
				time.Sleep(time.Duration(attempts*2) * time.Second)
			} else {
				break
			}
		}
	}()
}

// handleReconcileTask refetches the mutated booking from the authoritative
// store and republishes its current status on the customer's feed, so any
// live subscriber converges on server-side effects the optimistic local
// update could not see.
func handleReconcileTask(bookingRepo repository.BookingRepository, feed *redis.Client) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var p tasks.ReconcilePayload
		if err := json.Unmarshal(task.Payload(), &p); err != nil {
			log.Printf("[ReconcileHandler] Invalid payload: %v", err)
			return err
		}

		b, err := bookingRepo.GetByID(ctx, p.BookingID)
		if err != nil {
			return fmt.Errorf("reconcile booking %s: %w", p.BookingID, err)
		}

		delta, err := json.Marshal(map[string]any{
			"id":         b.ID,
			"status":     b.Status,
			"updated_at": b.UpdatedAt,
		})
		if err != nil {
			return err
		}
		return feed.Publish(ctx, sync.ChannelFor(p.PrincipalID), delta).Err()
	}
}

// handleReminderTask publishes an appointment reminder event on the
// customer's notification channel.
func handleReminderTask(feed *redis.Client) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var p tasks.ReminderPayload
		if err := json.Unmarshal(task.Payload(), &p); err != nil {
			log.Printf("[ReminderHandler] Invalid payload: %v", err)
			return err
		}

		log.Printf("[ReminderHandler] Reminder for booking %s on %s %s", p.BookingID, p.Date, p.Time)

		event, err := json.Marshal(map[string]any{
			"type":      "booking_reminder",
			"bookingId": p.BookingID,
			"date":      p.Date,
			"time":      p.Time,
		})
		if err != nil {
			return err
		}
		channel := fmt.Sprintf("notifications:%s", p.PrincipalID)
		return feed.Publish(ctx, channel, event).Err()
	}
}

// monitorRedisConnection pings Redis periodically to detect failures at runtime.
func monitorRedisConnection() {
	client := redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	})

	ctx := context.Background()

	for {
		if err := client.Ping(ctx).Err(); err != nil {
			log.Printf("[SyncWorker] Redis connection lost: %v", err)
		}
		time.Sleep(10 * time.Second)
	}
}
