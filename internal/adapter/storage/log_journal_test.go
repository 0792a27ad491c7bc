package storage

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/rl1809/stock-assistant/internal/core/domain"
)

func TestLogJournal_AppendEntry(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	journal := NewLogJournal(zap.New(core))

	err := journal.AppendEntry(context.Background(), domain.JournalEntry{
		ID:          "j-1",
		RequestID:   "r-1",
		Source:      domain.JournalSourceLanguage,
		Text:        "sold 3 shirts",
		Deltas:      map[domain.ItemKind]int{domain.Shirts: -3},
		CountsAfter: domain.Counts{domain.Shirts: 7, domain.Pants: 10},
		CreatedAt:   time.Now(),
	})
	require.NoError(t, err)

	require.Equal(t, 1, logs.Len())
	ctx := logs.All()[0].ContextMap()
	assert.Equal(t, "r-1", ctx["request_id"])
	assert.Equal(t, int64(-3), ctx["delta.shirts"])
	assert.Equal(t, int64(7), ctx["after.shirts"])
}
