package storage

import (
	"context"
	"fmt"
	"os"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/rl1809/stock-assistant/internal/core/domain"
)

func getRedisClient(t *testing.T) *redis.Client {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}

	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(context.Background()).Err(); err != nil {
		t.Skipf("Redis not available: %v", err)
	}
	return client
}

func TestSetIdempotency_Success(t *testing.T) {
	client := getRedisClient(t)
	defer client.Close()

	ctx := context.Background()
	adapter := NewRedisAdapter(client, time.Minute)

	// Setup
	client.Del(ctx, idempotencyKeyPrefix+"test-idem-key")

	// First call should succeed
	ok, err := adapter.SetIdempotency(ctx, "test-idem-key")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok {
		t.Error("expected first call to succeed")
	}

	// Second call should fail (key exists)
	ok, err = adapter.SetIdempotency(ctx, "test-idem-key")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Error("expected second call to fail")
	}

	ttl := client.TTL(ctx, idempotencyKeyPrefix+"test-idem-key").Val()
	if ttl <= 0 || ttl > time.Minute {
		t.Errorf("expected ttl within a minute, got %v", ttl)
	}
}

func TestSetIdempotency_Concurrent(t *testing.T) {
	client := getRedisClient(t)
	defer client.Close()

	ctx := context.Background()
	adapter := NewRedisAdapter(client, 0)

	client.Del(ctx, idempotencyKeyPrefix+"concurrent-idem-key")

	var successCount atomic.Int32
	var wg sync.WaitGroup
	concurrency := 100

	for i := 0; i < concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ok, err := adapter.SetIdempotency(ctx, "concurrent-idem-key")
			if err != nil {
				t.Errorf("unexpected error: %v", err)
				return
			}
			if ok {
				successCount.Add(1)
			}
		}()
	}

	wg.Wait()

	// Only one should succeed
	if successCount.Load() != 1 {
		t.Errorf("expected exactly 1 success, got %d", successCount.Load())
	}
}

func TestMirrorCounts(t *testing.T) {
	client := getRedisClient(t)
	defer client.Close()

	ctx := context.Background()
	adapter := NewRedisAdapter(client, 0)
	client.Del(ctx, countsKey)

	want := domain.Counts{domain.Shirts: 12, domain.Pants: 9}
	if err := adapter.MirrorCounts(ctx, want); err != nil {
		t.Fatalf("MirrorCounts failed: %v", err)
	}

	got, err := mirroredCounts(ctx, client)
	if err != nil {
		t.Fatalf("read mirror failed: %v", err)
	}
	if got[domain.Shirts] != 12 || got[domain.Pants] != 9 {
		t.Errorf("expected %v, got %v", want, got)
	}

	client.Del(ctx, countsKey)
}

// mirroredCounts reads back what MirrorCounts last wrote.
func mirroredCounts(ctx context.Context, client *redis.Client) (domain.Counts, error) {
	raw, err := client.HGetAll(ctx, countsKey).Result()
	if err != nil {
		return nil, fmt.Errorf("redis hgetall: %w", err)
	}
	out := make(domain.Counts, len(raw))
	for item, v := range raw {
		var n int
		if _, err := fmt.Sscan(v, &n); err != nil {
			return nil, fmt.Errorf("parse mirrored count for %s: %w", item, err)
		}
		out[domain.ItemKind(item)] = n
	}
	return out, nil
}
