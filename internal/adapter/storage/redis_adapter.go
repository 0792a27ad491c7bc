package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/rl1809/stock-assistant/internal/core/domain"
	"github.com/rl1809/stock-assistant/internal/port"
)

const (
	idempotencyKeyPrefix = "idempotency:"
	countsKey            = "inventory:counts"
	idempotencyKeyTTL    = 24 * time.Hour
)

type RedisAdapter struct {
	client *redis.Client
	ttl    time.Duration
}

var _ port.CacheRepository = (*RedisAdapter)(nil)

func NewRedisAdapter(client *redis.Client, ttl time.Duration) *RedisAdapter {
	if ttl <= 0 {
		ttl = idempotencyKeyTTL
	}
	return &RedisAdapter{client: client, ttl: ttl}
}

func (r *RedisAdapter) SetIdempotency(ctx context.Context, key string) (bool, error) {
	ok, err := r.client.SetNX(ctx, idempotencyKeyPrefix+key, 1, r.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("redis setnx: %w", err)
	}

	return ok, nil
}

// MirrorCounts publishes the latest counts as a hash for external readers.
// The in-process store stays authoritative.
func (r *RedisAdapter) MirrorCounts(ctx context.Context, counts domain.Counts) error {
	if len(counts) == 0 {
		return nil
	}
	values := make(map[string]any, len(counts))
	for item, n := range counts {
		values[string(item)] = n
	}
	if err := r.client.HSet(ctx, countsKey, values).Err(); err != nil {
		return fmt.Errorf("redis hset: %w", err)
	}
	return nil
}
