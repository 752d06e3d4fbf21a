package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"khata/internal/core"

	_ "modernc.org/sqlite"
)

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	// Run migrations
	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// LoadEntries implements store.LedgerStore
func (r *SQLiteRepository) LoadEntries(ctx context.Context) ([]core.Entry, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, description, amount, type, category, date, timestamp FROM entries ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query entries: %w", err)
	}
	defer rows.Close()

	var entries []core.Entry
	for rows.Next() {
		var e core.Entry
		var typ, ts string
		if err := rows.Scan(&e.ID, &e.Description, &e.Amount, &typ, &e.Category, &e.Date, &ts); err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}
		e.Type = core.EntryType(typ)
		if e.Timestamp, err = parseTime(ts); err != nil {
			return nil, fmt.Errorf("parse entry timestamp: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate entries: %w", err)
	}
	return entries, nil
}

// SaveEntries implements store.LedgerStore. The whole collection is swapped
// inside one transaction so readers never observe a half-written ledger.
func (r *SQLiteRepository) SaveEntries(ctx context.Context, entries []core.Entry) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin entries tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM entries`); err != nil {
		return fmt.Errorf("clear entries: %w", err)
	}
	for _, e := range entries {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO entries (id, description, amount, type, category, date, timestamp) VALUES (?, ?, ?, ?, ?, ?, ?)`,
			e.ID, e.Description, e.Amount, string(e.Type), e.Category, e.Date, formatTime(e.Timestamp)); err != nil {
			return fmt.Errorf("insert entry %d: %w", e.ID, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit entries: %w", err)
	}

	slog.DebugContext(ctx, "Ledger replaced in SQLite", "entries", len(entries))
	return nil
}

// LoadGoals implements store.GoalStore
func (r *SQLiteRepository) LoadGoals(ctx context.Context) ([]core.Goal, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, target_amount, target_date, created_at, status FROM goals ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query goals: %w", err)
	}
	defer rows.Close()

	var goals []core.Goal
	for rows.Next() {
		var g core.Goal
		var created string
		if err := rows.Scan(&g.ID, &g.Name, &g.TargetAmount, &g.TargetDate, &created, &g.Status); err != nil {
			return nil, fmt.Errorf("scan goal: %w", err)
		}
		if g.CreatedAt, err = parseTime(created); err != nil {
			return nil, fmt.Errorf("parse goal created_at: %w", err)
		}
		goals = append(goals, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate goals: %w", err)
	}
	return goals, nil
}

// SaveGoals implements store.GoalStore
func (r *SQLiteRepository) SaveGoals(ctx context.Context, goals []core.Goal) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin goals tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM goals`); err != nil {
		return fmt.Errorf("clear goals: %w", err)
	}
	for _, g := range goals {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO goals (id, name, target_amount, target_date, created_at, status) VALUES (?, ?, ?, ?, ?, ?)`,
			g.ID, g.Name, g.TargetAmount, g.TargetDate, formatTime(g.CreatedAt), g.Status); err != nil {
			return fmt.Errorf("insert goal %d: %w", g.ID, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit goals: %w", err)
	}

	slog.DebugContext(ctx, "Goals replaced in SQLite", "goals", len(goals))
	return nil
}

// UpsertEntry writes a single entry keyed by ID. Used by the archive worker,
// which receives one record per event and must stay idempotent across
// redeliveries.
func (r *SQLiteRepository) UpsertEntry(ctx context.Context, e core.Entry) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO entries (id, description, amount, type, category, date, timestamp) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.Description, e.Amount, string(e.Type), e.Category, e.Date, formatTime(e.Timestamp))
	if err != nil {
		return fmt.Errorf("upsert entry %d: %w", e.ID, err)
	}

	slog.InfoContext(ctx, "Entry archived to SQLite",
		"id", e.ID,
		"description", e.Description,
		"amount", e.Amount,
		"type", string(e.Type))
	return nil
}

// UpsertGoal writes a single goal keyed by ID.
func (r *SQLiteRepository) UpsertGoal(ctx context.Context, g core.Goal) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO goals (id, name, target_amount, target_date, created_at, status) VALUES (?, ?, ?, ?, ?, ?)`,
		g.ID, g.Name, g.TargetAmount, g.TargetDate, formatTime(g.CreatedAt), g.Status)
	if err != nil {
		return fmt.Errorf("upsert goal %d: %w", g.ID, err)
	}

	slog.InfoContext(ctx, "Goal archived to SQLite",
		"id", g.ID,
		"name", g.Name,
		"target_amount", g.TargetAmount)
	return nil
}

// CountEntries returns the archived entry count. The reconciler compares it
// against the primary store to detect missed events.
func (r *SQLiteRepository) CountEntries(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM entries`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count entries: %w", err)
	}
	return n, nil
}

// CountGoals returns the archived goal count.
func (r *SQLiteRepository) CountGoals(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM goals`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count goals: %w", err)
	}
	return n, nil
}

// Timestamps travel as RFC 3339 text. SQLite has no native time type and
// text keys sort chronologically, which is all the archive needs.
func formatTime(t time.Time) string {
	return t.Format(time.RFC3339Nano)
}

func parseTime(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	return time.Parse(time.RFC3339Nano, s)
}
