package storage

import (
	"context"
	"sync"
	"time"

	"github.com/rl1809/stock-assistant/internal/port"
)

// MemoryIdempotency is the in-process stand-in for the Redis guard.
type MemoryIdempotency struct {
	mu        sync.Mutex
	ttl       time.Duration
	now       func() time.Time
	keys      map[string]time.Time
	lastSweep time.Time
}

var _ port.CacheRepository = (*MemoryIdempotency)(nil)

func NewMemoryIdempotency(ttl time.Duration) *MemoryIdempotency {
	if ttl <= 0 {
		ttl = idempotencyKeyTTL
	}
	return &MemoryIdempotency{
		ttl:  ttl,
		now:  time.Now,
		keys: make(map[string]time.Time),
	}
}

func (m *MemoryIdempotency) SetIdempotency(_ context.Context, key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	if expires, ok := m.keys[key]; ok && now.Before(expires) {
		return false, nil
	}
	m.keys[key] = now.Add(m.ttl)

	if now.Sub(m.lastSweep) >= m.ttl {
		m.sweep(now)
	}
	return true, nil
}

// sweep drops expired keys. It runs at most once per TTL so a claim stays
// O(1) and the map holds roughly two TTLs of keys at most.
func (m *MemoryIdempotency) sweep(now time.Time) {
	for k, expires := range m.keys {
		if !now.Before(expires) {
			delete(m.keys, k)
		}
	}
	m.lastSweep = now
}
