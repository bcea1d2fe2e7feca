package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// =====================================================
// REDIS IDEMPOTENCY STORE
// =====================================================

// callbackMarkerTTL keeps processed-callback markers long enough to absorb
// gateway redelivery storms without growing Redis forever.
const callbackMarkerTTL = 48 * time.Hour

type redisIdempotencyStore struct {
	client *redis.Client
}

func NewRedisIdempotencyStore(client *redis.Client) IdempotencyStore {
	return &redisIdempotencyStore{client: client}
}

// MarkProcessed uses SETNX so the check and the mark are one atomic step;
// two concurrent deliveries of the same callback cannot both win.
func (s *redisIdempotencyStore) MarkProcessed(ctx context.Context, key string) (bool, error) {
	ok, err := s.client.SetNX(ctx, "payment:callback:"+key, 1, callbackMarkerTTL).Result()
	if err != nil {
		return false, fmt.Errorf("failed to mark callback processed: %w", err)
	}
	return ok, nil
}
