package port

import (
	"context"

	"github.com/rl1809/stock-assistant/internal/core/domain"
)

type JournalRepository interface {
	// AppendEntry persists one applied adjustment batch
	AppendEntry(ctx context.Context, entry domain.JournalEntry) error
}
