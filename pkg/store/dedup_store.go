// Package store holds small Redis-backed helpers shared by the HTTP
// layer: webhook replay suppression and short-lived operation locks.
package store

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// DedupStore remembers recently seen webhook deliveries so a replayed
// notification is acknowledged without re-driving the ledger. The
// ledger itself is idempotent; this just keeps duplicate deliveries
// from burning gateway calls.
type DedupStore struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewDedupStore(rdb *redis.Client, ttl time.Duration) *DedupStore {
	return &DedupStore{rdb: rdb, ttl: ttl}
}

// FirstDelivery records the delivery key and reports whether this is
// the first time it was seen within the TTL window. With no Redis
// connection every delivery counts as first; the ledger's own guards
// still hold.
func (s *DedupStore) FirstDelivery(ctx context.Context, key string) (bool, error) {
	if s.rdb == nil {
		return true, nil
	}
	ok, err := s.rdb.SetNX(ctx, fmt.Sprintf("webhook:seen:%s", key), 1, s.ttl).Result()
	if err != nil {
		// Redis being down must not block payment settlement.
		return true, err
	}
	return ok, nil
}
