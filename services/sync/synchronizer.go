package sync

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	gosync "sync"

	"servana/database/repository"
	"servana/models"
	"servana/utils"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// Synchronizer keeps one customer's in-memory booking collection
// reconciled with the authoritative store: it seeds from a full fetch,
// then merges field-scoped deltas arriving on the change feed. Deltas are
// last-writer-wins per booking id.
type Synchronizer struct {
	feed      *redis.Client
	repo      repository.BookingRepository
	principal models.Principal

	mu       gosync.RWMutex
	bookings map[string]models.Booking

	updates chan models.Booking
	pubsub  *redis.PubSub
	cancel  context.CancelFunc
}

func NewSynchronizer(feed *redis.Client, repo repository.BookingRepository, principal models.Principal) *Synchronizer {
	return &Synchronizer{
		feed:      feed,
		repo:      repo,
		principal: principal,
		bookings:  make(map[string]models.Booking),
		updates:   make(chan models.Booking, 16),
	}
}

// Start seeds the local collection and subscribes to the customer's feed
// channel. It returns once the subscription is confirmed.
func (s *Synchronizer) Start(ctx context.Context) error {
	if err := s.ForceRefresh(ctx); err != nil {
		return err
	}

	s.pubsub = s.feed.Subscribe(ctx, ChannelFor(s.principal.ID))
	if _, err := s.pubsub.Receive(ctx); err != nil {
		return fmt.Errorf("subscribe booking feed: %w", err)
	}

	runCtx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	go s.run(runCtx)
	return nil
}

func (s *Synchronizer) run(ctx context.Context) {
	ch := s.pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			s.apply(ctx, msg.Payload)
		}
	}
}

func (s *Synchronizer) apply(ctx context.Context, payload string) {
	var delta models.BookingDelta
	if err := json.Unmarshal([]byte(payload), &delta); err != nil {
		utils.GetLogger().Warn("dropping malformed booking delta", zap.Error(err))
		return
	}
	if delta.ID == "" {
		return
	}

	s.mu.Lock()
	local, known := s.bookings[delta.ID]
	var merged models.Booking
	if known {
		merged = Merge(local, delta)
		s.bookings[delta.ID] = merged
	}
	s.mu.Unlock()

	if !known {
		// A delta for a booking we have never seen means a record was
		// created out of band; a full refresh picks it up.
		if err := s.ForceRefresh(ctx); err != nil {
			utils.GetLogger().Warn("refresh after unknown booking delta failed",
				zap.String("bookingID", delta.ID), zap.Error(err))
			return
		}
		s.mu.RLock()
		merged, known = s.bookings[delta.ID]
		s.mu.RUnlock()
		if !known {
			return
		}
	}

	// Surface without blocking the feed reader.
	select {
	case s.updates <- merged:
	default:
		utils.GetLogger().Debug("booking update listener is behind, dropping surface event",
			zap.String("bookingID", merged.ID))
	}
}

// ForceRefresh replaces the local collection with the authoritative list.
// Mutation engines call this after a successful write so server-side side
// effects not present in the optimistic update are picked up.
func (s *Synchronizer) ForceRefresh(ctx context.Context) error {
	list, err := s.repo.ListByCustomer(ctx, s.principal.ID)
	if err != nil {
		return fmt.Errorf("refresh bookings: %w", err)
	}

	fresh := make(map[string]models.Booking, len(list))
	for _, b := range list {
		fresh[b.ID] = b
	}

	s.mu.Lock()
	s.bookings = fresh
	s.mu.Unlock()
	return nil
}

// Snapshot returns the current collection, newest first.
func (s *Synchronizer) Snapshot() []models.Booking {
	s.mu.RLock()
	out := make([]models.Booking, 0, len(s.bookings))
	for _, b := range s.bookings {
		out = append(out, b)
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

// Updates surfaces merged records as they arrive.
func (s *Synchronizer) Updates() <-chan models.Booking {
	return s.updates
}

// Close tears down the subscription.
func (s *Synchronizer) Close() error {
	if s.cancel != nil {
		s.cancel()
	}
	if s.pubsub != nil {
		return s.pubsub.Close()
	}
	return nil
}
