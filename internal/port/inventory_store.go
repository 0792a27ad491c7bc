package port

import (
	"context"

	"github.com/rl1809/stock-assistant/internal/core/domain"
)

// Adjustment is one (item, delta) pair inside an atomic batch.
type Adjustment struct {
	Item  domain.ItemKind
	Delta int
}

type InventoryStore interface {
	// Get returns the current count of a single item
	Get(ctx context.Context, item domain.ItemKind) (int, error)

	// Snapshot returns a copy of every count
	Snapshot(ctx context.Context) (domain.Counts, error)

	// AdjustBatch applies all adjustments or none; it is the sole mutation entry point
	AdjustBatch(ctx context.Context, adjustments []Adjustment) (domain.Counts, error)
}
