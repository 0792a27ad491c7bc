package storage

import (
	"context"
	"math"
	"sync"

	"github.com/rl1809/stock-assistant/internal/core/domain"
	"github.com/rl1809/stock-assistant/internal/port"
)

// MemoryStore holds the single inventory record for the process.
type MemoryStore struct {
	mu      sync.Mutex
	catalog *domain.Catalog
	counts  domain.Counts
}

var _ port.InventoryStore = (*MemoryStore)(nil)

// NewMemoryStore seeds every catalog kind, missing kinds start at zero.
func NewMemoryStore(catalog *domain.Catalog, initial domain.Counts) (*MemoryStore, error) {
	counts := make(domain.Counts, len(catalog.Kinds()))
	for _, kind := range catalog.Kinds() {
		counts[kind] = 0
	}
	for kind, n := range initial {
		if !catalog.Contains(kind) {
			return nil, domain.UnknownItemf("initial count for %q", kind)
		}
		if n < 0 {
			return nil, domain.Malformedf("initial count for %s is negative", kind)
		}
		counts[kind] = n
	}
	return &MemoryStore{catalog: catalog, counts: counts}, nil
}

func (s *MemoryStore) Get(_ context.Context, item domain.ItemKind) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n, ok := s.counts[item]
	if !ok {
		return 0, domain.UnknownItemf("%q", item)
	}
	return n, nil
}

func (s *MemoryStore) Snapshot(_ context.Context) (domain.Counts, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.counts.Clone(), nil
}

// AdjustBatch walks the adjustments in order against a working copy of the
// counts and stops at the first step that would take an item below zero. A
// later restock in the same batch does not cover an earlier shortfall. Only a
// fully valid batch is committed; on any error the record is untouched.
func (s *MemoryStore) AdjustBatch(ctx context.Context, adjustments []port.Adjustment) (domain.Counts, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.counts.Clone()
	for _, adj := range adjustments {
		current, ok := next[adj.Item]
		if !ok {
			return nil, domain.UnknownItemf("%q", adj.Item)
		}
		after, ok := addInt(current, adj.Delta)
		if !ok {
			return nil, domain.Malformedf("adjustment to %s overflows", adj.Item)
		}
		if after < 0 {
			return nil, &domain.InsufficientStockError{
				Item:      adj.Item,
				Available: current,
				Requested: -adj.Delta,
			}
		}
		next[adj.Item] = after
	}

	s.counts = next
	return s.counts.Clone(), nil
}

func addInt(a, b int) (int, bool) {
	if (b > 0 && a > math.MaxInt-b) || (b < 0 && a < math.MinInt-b) {
		return 0, false
	}
	return a + b, true
}
