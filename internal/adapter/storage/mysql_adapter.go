package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/rl1809/stock-assistant/internal/core/domain"
	"github.com/rl1809/stock-assistant/internal/port"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS inventory_journal (
		id CHAR(36) NOT NULL PRIMARY KEY,
		sequence BIGINT UNSIGNED NOT NULL,
		request_id VARCHAR(64) NOT NULL,
		source VARCHAR(16) NOT NULL,
		text TEXT NOT NULL,
		counts_after JSON NOT NULL,
		created_at DATETIME(6) NOT NULL,
		INDEX idx_journal_request (request_id)
	)`,
	`CREATE TABLE IF NOT EXISTS inventory_journal_deltas (
		journal_id CHAR(36) NOT NULL,
		item VARCHAR(32) NOT NULL,
		delta INT NOT NULL,
		PRIMARY KEY (journal_id, item)
	)`,
}

type MySQLAdapter struct {
	db *sql.DB
}

var _ port.JournalRepository = (*MySQLAdapter)(nil)

func NewMySQLAdapter(db *sql.DB) *MySQLAdapter {
	return &MySQLAdapter{db: db}
}

func (m *MySQLAdapter) EnsureSchema(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := m.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}

func (m *MySQLAdapter) AppendEntry(ctx context.Context, entry domain.JournalEntry) error {
	counts, err := json.Marshal(entry.CountsAfter)
	if err != nil {
		return fmt.Errorf("encode counts: %w", err)
	}

	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO inventory_journal (id, sequence, request_id, source, text, counts_after, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		entry.ID, entry.Sequence, entry.RequestID, string(entry.Source), entry.Text, string(counts), entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert journal: %w", err)
	}

	items := make([]string, 0, len(entry.Deltas))
	for item := range entry.Deltas {
		items = append(items, string(item))
	}
	sort.Strings(items)
	for _, item := range items {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO inventory_journal_deltas (journal_id, item, delta)
			VALUES (?, ?, ?)`,
			entry.ID, item, entry.Deltas[domain.ItemKind(item)],
		)
		if err != nil {
			return fmt.Errorf("insert journal delta: %w", err)
		}
	}

	return tx.Commit()
}
