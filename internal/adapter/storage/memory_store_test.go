package storage

import (
	"context"
	"math"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/rl1809/stock-assistant/internal/core/domain"
	"github.com/rl1809/stock-assistant/internal/port"
)

func newTestStore(t *testing.T, shirts, pants int) *MemoryStore {
	t.Helper()
	store, err := NewMemoryStore(domain.DefaultCatalog(), domain.Counts{domain.Shirts: shirts, domain.Pants: pants})
	require.NoError(t, err)
	return store
}

func TestNewMemoryStore_RejectsBadSeed(t *testing.T) {
	_, err := NewMemoryStore(domain.DefaultCatalog(), domain.Counts{"hats": 3})
	assert.ErrorIs(t, err, domain.ErrUnknownItem)

	_, err = NewMemoryStore(domain.DefaultCatalog(), domain.Counts{domain.Shirts: -1})
	assert.ErrorIs(t, err, domain.ErrMalformedRequest)
}

func TestNewMemoryStore_MissingKindsStartAtZero(t *testing.T) {
	store, err := NewMemoryStore(domain.DefaultCatalog(), domain.Counts{domain.Shirts: 4})
	require.NoError(t, err)

	n, err := store.Get(context.Background(), domain.Pants)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestAdjustBatch_AppliesAll(t *testing.T) {
	store := newTestStore(t, 10, 10)

	counts, err := store.AdjustBatch(context.Background(), []port.Adjustment{
		{Item: domain.Shirts, Delta: 2},
		{Item: domain.Pants, Delta: -1},
	})
	require.NoError(t, err)
	assert.Equal(t, domain.Counts{domain.Shirts: 12, domain.Pants: 9}, counts)

	snap, err := store.Snapshot(context.Background())
	require.NoError(t, err)
	assert.Equal(t, counts, snap)
}

func TestAdjustBatch_RejectsWholeBatch(t *testing.T) {
	store := newTestStore(t, 10, 1)

	_, err := store.AdjustBatch(context.Background(), []port.Adjustment{
		{Item: domain.Shirts, Delta: 5},
		{Item: domain.Pants, Delta: -3},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	var stockErr *domain.InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, domain.Pants, stockErr.Item)
	assert.Equal(t, 1, stockErr.Available)
	assert.Equal(t, 3, stockErr.Requested)
	assert.Equal(t, 2, stockErr.Shortfall())

	snap, _ := store.Snapshot(context.Background())
	assert.Equal(t, domain.Counts{domain.Shirts: 10, domain.Pants: 1}, snap)
}

func TestAdjustBatch_ChecksEveryStepInOrder(t *testing.T) {
	tests := []struct {
		name        string
		adjustments []port.Adjustment
		available   int
		requested   int
	}{
		{
			name: "sale before restock",
			adjustments: []port.Adjustment{
				{Item: domain.Shirts, Delta: -3},
				{Item: domain.Shirts, Delta: 3},
			},
			available: 0,
			requested: 3,
		},
		{
			name: "second sale runs out",
			adjustments: []port.Adjustment{
				{Item: domain.Shirts, Delta: 2},
				{Item: domain.Shirts, Delta: -1},
				{Item: domain.Shirts, Delta: -2},
			},
			available: 1,
			requested: 2,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newTestStore(t, 0, 5)

			_, err := store.AdjustBatch(context.Background(), tt.adjustments)
			var stockErr *domain.InsufficientStockError
			require.ErrorAs(t, err, &stockErr)
			assert.Equal(t, domain.Shirts, stockErr.Item)
			assert.Equal(t, tt.available, stockErr.Available)
			assert.Equal(t, tt.requested, stockErr.Requested)

			snap, _ := store.Snapshot(context.Background())
			assert.Equal(t, domain.Counts{domain.Shirts: 0, domain.Pants: 5}, snap)
		})
	}
}

func TestAdjustBatch_RestockBeforeSale(t *testing.T) {
	store := newTestStore(t, 1, 0)

	counts, err := store.AdjustBatch(context.Background(), []port.Adjustment{
		{Item: domain.Shirts, Delta: 4},
		{Item: domain.Shirts, Delta: -5},
	})
	require.NoError(t, err)
	assert.Equal(t, 0, counts[domain.Shirts])
}

func TestAdjustBatch_UnknownItem(t *testing.T) {
	store := newTestStore(t, 1, 1)

	_, err := store.AdjustBatch(context.Background(), []port.Adjustment{
		{Item: domain.Shirts, Delta: 1},
		{Item: "hats", Delta: 1},
	})
	assert.ErrorIs(t, err, domain.ErrUnknownItem)

	n, _ := store.Get(context.Background(), domain.Shirts)
	assert.Equal(t, 1, n)

	_, err = store.Get(context.Background(), "hats")
	assert.ErrorIs(t, err, domain.ErrUnknownItem)
}

func TestAdjustBatch_Overflow(t *testing.T) {
	store := newTestStore(t, math.MaxInt-1, 0)

	_, err := store.AdjustBatch(context.Background(), []port.Adjustment{{Item: domain.Shirts, Delta: 5}})
	assert.ErrorIs(t, err, domain.ErrMalformedRequest)

	n, _ := store.Get(context.Background(), domain.Shirts)
	assert.Equal(t, math.MaxInt-1, n)
}

func TestAdjustBatch_CancelledContext(t *testing.T) {
	store := newTestStore(t, 5, 5)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := store.AdjustBatch(ctx, []port.Adjustment{{Item: domain.Shirts, Delta: 1}})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSnapshot_IsACopy(t *testing.T) {
	store := newTestStore(t, 3, 3)

	snap, _ := store.Snapshot(context.Background())
	snap[domain.Shirts] = 100

	n, _ := store.Get(context.Background(), domain.Shirts)
	assert.Equal(t, 3, n)
}

func TestAdjustBatch_Concurrent(t *testing.T) {
	defer goleak.VerifyNone(t)

	initialStock := 20
	totalRequests := 50
	store := newTestStore(t, initialStock, 0)

	var successCount atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < totalRequests; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := store.AdjustBatch(context.Background(), []port.Adjustment{{Item: domain.Shirts, Delta: -1}})
			if err == nil {
				successCount.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(initialStock), successCount.Load())
	n, _ := store.Get(context.Background(), domain.Shirts)
	assert.Equal(t, 0, n)
}
