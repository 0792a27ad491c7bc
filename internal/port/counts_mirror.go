package port

import (
	"context"

	"github.com/rl1809/stock-assistant/internal/core/domain"
)

type CountsMirror interface {
	// MirrorCounts publishes counts for readers outside the process
	MirrorCounts(ctx context.Context, counts domain.Counts) error
}
