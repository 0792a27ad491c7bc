package service

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/rl1809/stock-assistant/internal/core/domain"
	"github.com/rl1809/stock-assistant/internal/port"
)

const journalWriteTimeout = 5 * time.Second

// StartJournalWorkers drains the journal queue until it is closed. The
// returned WaitGroup completes once every worker has exited. mirror may be nil.
func StartJournalWorkers(count int, queue <-chan domain.JournalEntry, repo port.JournalRepository, mirror port.CountsMirror, logger *zap.Logger) *sync.WaitGroup {
	if logger == nil {
		logger = zap.NewNop()
	}
	if count < 1 {
		count = 1
	}

	var ordered *orderedMirror
	if mirror != nil {
		ordered = &orderedMirror{next: mirror}
	}

	var wg sync.WaitGroup
	for i := 0; i < count; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			workerLoop(queue, repo, ordered, logger.With(zap.Int("worker", id)))
		}(i)
	}
	logger.Info("Journal workers started", zap.Int("count", count))
	return &wg
}

// workerLoop persists entries one by one. A failed write is logged and
// skipped: the in-memory record stays authoritative and is never rolled back.
func workerLoop(queue <-chan domain.JournalEntry, repo port.JournalRepository, mirror *orderedMirror, logger *zap.Logger) {
	for entry := range queue {
		ctx, cancel := context.WithTimeout(context.Background(), journalWriteTimeout)

		if err := repo.AppendEntry(ctx, entry); err != nil {
			logger.Error("Failed to save journal entry",
				zap.String("journal_id", entry.ID),
				zap.String("request_id", entry.RequestID),
				zap.Error(err))
		} else {
			logger.Debug("Saved journal entry", zap.String("journal_id", entry.ID))
		}

		if mirror != nil {
			if err := mirror.publish(ctx, entry); err != nil {
				logger.Warn("Failed to mirror counts", zap.String("journal_id", entry.ID), zap.Error(err))
			}
		}

		cancel()
	}
}

// orderedMirror drops snapshots older than the last one published, since
// workers finish out of order.
type orderedMirror struct {
	mu   sync.Mutex
	last uint64
	next port.CountsMirror
}

func (m *orderedMirror) publish(ctx context.Context, entry domain.JournalEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if entry.Sequence <= m.last {
		return nil
	}
	if err := m.next.MirrorCounts(ctx, entry.CountsAfter); err != nil {
		return err
	}
	m.last = entry.Sequence
	return nil
}
