package storage

import (
	"context"

	"go.uber.org/zap"

	"github.com/rl1809/stock-assistant/internal/core/domain"
	"github.com/rl1809/stock-assistant/internal/port"
)

// LogJournal writes journal entries to the structured log when no database
// is configured.
type LogJournal struct {
	logger *zap.Logger
}

var _ port.JournalRepository = (*LogJournal)(nil)

func NewLogJournal(logger *zap.Logger) *LogJournal {
	return &LogJournal{logger: logger}
}

func (j *LogJournal) AppendEntry(_ context.Context, entry domain.JournalEntry) error {
	fields := []zap.Field{
		zap.String("journal_id", entry.ID),
		zap.Uint64("sequence", entry.Sequence),
		zap.String("request_id", entry.RequestID),
		zap.String("source", string(entry.Source)),
		zap.String("text", entry.Text),
		zap.Time("created_at", entry.CreatedAt),
	}
	for item, delta := range entry.Deltas {
		fields = append(fields, zap.Int("delta."+string(item), delta))
	}
	for item, n := range entry.CountsAfter {
		fields = append(fields, zap.Int("after."+string(item), n))
	}
	j.logger.Info("Inventory adjusted", fields...)
	return nil
}
