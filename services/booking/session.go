package booking

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"servana/models"

	"github.com/go-redis/redis/v8"
)

const sessionTTL = 30 * time.Minute

// FlowSession is the cached state of one booking-in-progress: the business
// under consideration and the delivery capture state. It lives in Redis
// for the duration of the flow, like any other short-lived session.
type FlowSession struct {
	ID         string            `json:"id"`
	CustomerID string            `json:"customer_id"`
	ServiceID  string            `json:"service_id"`
	BusinessID string            `json:"business_id"`
	Date       string            `json:"date"`
	Time       string            `json:"time"`
	Mode       models.DeliveryMode `json:"mode"`
	Locations  []models.Location `json:"locations,omitempty"` // active business locations
	Delivery   DeliveryState     `json:"delivery"`
	CreatedAt  time.Time         `json:"created_at"`
}

// SessionStore persists flow sessions in Redis.
type SessionStore struct {
	Cache *redis.Client
}

func NewSessionStore(cache *redis.Client) *SessionStore {
	return &SessionStore{Cache: cache}
}

func (s *SessionStore) key(id string) string {
	return "booking:flow:" + id
}

func (s *SessionStore) Save(ctx context.Context, session *FlowSession) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("marshal flow session: %w", err)
	}
	if err := s.Cache.Set(ctx, s.key(session.ID), data, sessionTTL).Err(); err != nil {
		return fmt.Errorf("cache flow session: %w", err)
	}
	return nil
}

func (s *SessionStore) Get(ctx context.Context, id string) (*FlowSession, error) {
	data, err := s.Cache.Get(ctx, s.key(id)).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("fetch flow session: %w", err)
	}
	var session FlowSession
	if err := json.Unmarshal([]byte(data), &session); err != nil {
		return nil, fmt.Errorf("parse flow session: %w", err)
	}
	return &session, nil
}

func (s *SessionStore) Delete(ctx context.Context, id string) error {
	return s.Cache.Del(ctx, s.key(id)).Err()
}
