package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rl1809/stock-assistant/internal/core/domain"
	"github.com/rl1809/stock-assistant/internal/port"
)

const batchRejectedReason = "not applied: another adjustment in the request was rejected"

// Executor runs a validated operation sequence. Every adjustment in the
// sequence goes to the store in one AdjustBatch call; queries read the state
// after that call.
type Executor struct {
	store port.InventoryStore
}

func NewExecutor(store port.InventoryStore) *Executor {
	return &Executor{store: store}
}

func (e *Executor) Execute(ctx context.Context, ops []domain.Operation) domain.ExecutionOutcome {
	var adjustments []port.Adjustment
	for _, op := range ops {
		if op.Kind == domain.OperationAdjust {
			adjustments = append(adjustments, port.Adjustment{Item: op.Item, Delta: op.Delta})
		}
	}

	var outcome domain.ExecutionOutcome
	if len(adjustments) > 0 {
		counts, err := e.store.AdjustBatch(ctx, adjustments)
		if err == nil {
			outcome.Counts = counts
		} else {
			outcome.Err = err
		}
	}
	if outcome.Counts == nil {
		counts, err := e.store.Snapshot(ctx)
		if err != nil {
			if outcome.Err == nil {
				outcome.Err = fmt.Errorf("snapshot inventory: %w", err)
			}
			return outcome
		}
		outcome.Counts = counts
	}

	var stockErr *domain.InsufficientStockError
	errors.As(outcome.Err, &stockErr)

	outcome.Results = make([]domain.OperationResult, 0, len(ops))
	for _, op := range ops {
		res := domain.OperationResult{Operation: op}
		switch {
		case op.Kind == domain.OperationQuery:
			res.Applied = true
			if op.Item != "" {
				res.Count = outcome.Counts[op.Item]
			}
		case outcome.Err == nil:
			res.Applied = true
			res.Count = outcome.Counts[op.Item]
		case stockErr != nil && stockErr.Item == op.Item:
			res.Reason = stockErr.Error()
		case stockErr != nil:
			res.Reason = batchRejectedReason
		default:
			res.Reason = outcome.Err.Error()
		}
		outcome.Results = append(outcome.Results, res)
	}
	return outcome
}
