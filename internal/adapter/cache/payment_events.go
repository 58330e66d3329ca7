package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// PaymentEventStore records provider event ids with SETNX so a redelivered
// webhook is recognised before it touches the ledger.
type PaymentEventStore struct {
	redis *redis.Client
	ttl   time.Duration
}

func NewPaymentEventStore(client *redis.Client, ttl time.Duration) *PaymentEventStore {
	return &PaymentEventStore{redis: client, ttl: ttl}
}

func eventKey(eventID string) string {
	return fmt.Sprintf("payment:event:%s", eventID)
}

func (s *PaymentEventStore) MarkProcessed(ctx context.Context, eventID string) (bool, error) {
	return s.redis.SetNX(ctx, eventKey(eventID), "1", s.ttl).Result()
}

func (s *PaymentEventStore) Release(ctx context.Context, eventID string) error {
	return s.redis.Del(ctx, eventKey(eventID)).Err()
}
