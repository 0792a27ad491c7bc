package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"testing"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/google/uuid"

	"github.com/rl1809/stock-assistant/internal/core/domain"
)

func getMySQLDB(t *testing.T) *sql.DB {
	dsn := os.Getenv("MYSQL_DSN")
	if dsn == "" {
		dsn = "root:root@tcp(localhost:3306)/stock_assistant?parseTime=true"
	}

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		t.Skipf("MySQL not available: %v", err)
	}

	if err := db.Ping(); err != nil {
		t.Skipf("MySQL not available: %v", err)
	}

	return db
}

func TestAppendEntry_Success(t *testing.T) {
	db := getMySQLDB(t)
	defer db.Close()

	ctx := context.Background()
	adapter := NewMySQLAdapter(db)
	if err := adapter.EnsureSchema(ctx); err != nil {
		t.Fatalf("EnsureSchema failed: %v", err)
	}

	entry := domain.JournalEntry{
		ID:          uuid.NewString(),
		RequestID:   "test-request",
		Source:      domain.JournalSourceLanguage,
		Text:        "Add 2 shirts and remove 1 pant",
		Deltas:      map[domain.ItemKind]int{domain.Shirts: 2, domain.Pants: -1},
		CountsAfter: domain.Counts{domain.Shirts: 12, domain.Pants: 9},
		CreatedAt:   time.Now().UTC(),
	}

	if err := adapter.AppendEntry(ctx, entry); err != nil {
		t.Fatalf("AppendEntry failed: %v", err)
	}

	// Verify entry exists
	var count int
	db.QueryRowContext(ctx, `SELECT COUNT(*) FROM inventory_journal WHERE id = ?`, entry.ID).Scan(&count)
	if count != 1 {
		t.Error("journal entry not found in database")
	}

	deltas, err := entryDeltas(ctx, db, entry.ID)
	if err != nil {
		t.Fatalf("read deltas failed: %v", err)
	}
	if deltas[domain.Shirts] != 2 || deltas[domain.Pants] != -1 {
		t.Errorf("unexpected deltas: %v", deltas)
	}

	// Cleanup
	db.ExecContext(ctx, `DELETE FROM inventory_journal_deltas WHERE journal_id = ?`, entry.ID)
	db.ExecContext(ctx, `DELETE FROM inventory_journal WHERE id = ?`, entry.ID)
}

func TestAppendEntry_DuplicateIDRollsBack(t *testing.T) {
	db := getMySQLDB(t)
	defer db.Close()

	ctx := context.Background()
	adapter := NewMySQLAdapter(db)
	if err := adapter.EnsureSchema(ctx); err != nil {
		t.Fatalf("EnsureSchema failed: %v", err)
	}

	entry := domain.JournalEntry{
		ID:          uuid.NewString(),
		RequestID:   "dup-request",
		Source:      domain.JournalSourceDirect,
		Deltas:      map[domain.ItemKind]int{domain.Shirts: 1},
		CountsAfter: domain.Counts{domain.Shirts: 1},
		CreatedAt:   time.Now().UTC(),
	}
	if err := adapter.AppendEntry(ctx, entry); err != nil {
		t.Fatalf("AppendEntry failed: %v", err)
	}

	if err := adapter.AppendEntry(ctx, entry); err == nil {
		t.Error("expected error for duplicate journal id")
	}

	var count int
	db.QueryRowContext(ctx, `SELECT COUNT(*) FROM inventory_journal_deltas WHERE journal_id = ?`, entry.ID).Scan(&count)
	if count != 1 {
		t.Errorf("expected 1 delta row, got %d", count)
	}

	db.ExecContext(ctx, `DELETE FROM inventory_journal_deltas WHERE journal_id = ?`, entry.ID)
	db.ExecContext(ctx, `DELETE FROM inventory_journal WHERE id = ?`, entry.ID)
}

// entryDeltas returns the per-item deltas stored for one journal entry.
func entryDeltas(ctx context.Context, db *sql.DB, id string) (map[domain.ItemKind]int, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT item, delta FROM inventory_journal_deltas WHERE journal_id = ?`, id)
	if err != nil {
		return nil, fmt.Errorf("query journal deltas: %w", err)
	}
	defer rows.Close()

	out := make(map[domain.ItemKind]int)
	for rows.Next() {
		var (
			item  string
			delta int
		)
		if err := rows.Scan(&item, &delta); err != nil {
			return nil, fmt.Errorf("scan journal delta: %w", err)
		}
		out[domain.ItemKind(item)] = delta
	}
	return out, rows.Err()
}
