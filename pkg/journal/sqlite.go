package journal

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/aretw0/admitcheck/pkg/domain"
	_ "modernc.org/sqlite"
)

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS journal (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		ts TEXT NOT NULL,
		session_id TEXT NOT NULL,
		category TEXT NOT NULL DEFAULT '',
		program TEXT NOT NULL DEFAULT '',
		goal TEXT NOT NULL DEFAULT '',
		verdict TEXT NOT NULL DEFAULT '',
		completed INTEGER NOT NULL DEFAULT 0
	)`,
	`CREATE INDEX IF NOT EXISTS idx_journal_ts ON journal(ts)`,
}

// SQLiteLog stores records in an insert-only SQLite table.
type SQLiteLog struct {
	db *sql.DB
}

// OpenSQLite opens (and migrates) a SQLite journal at path.
// If path is ":memory:", uses an in-memory database.
func OpenSQLite(path string) (*SQLiteLog, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("creating db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if path == ":memory:" {
		// every pooled connection would otherwise get its own database
		db.SetMaxOpenConns(1)
	}

	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting WAL mode: %w", err)
	}

	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("migration %d: %w", i, err)
		}
	}

	return &SQLiteLog{db: db}, nil
}

// Append inserts one record.
func (l *SQLiteLog) Append(ctx context.Context, r Record) error {
	_, err := l.db.ExecContext(ctx,
		`INSERT INTO journal (ts, session_id, category, program, goal, verdict, completed) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		r.Timestamp.UTC().Format(time.RFC3339Nano), r.SessionID, r.Category, r.Program, r.Goal, string(r.Verdict), r.Completed,
	)
	if err != nil {
		return fmt.Errorf("inserting journal record: %w", err)
	}
	return nil
}

// Since returns records at or after t in insertion order.
func (l *SQLiteLog) Since(ctx context.Context, t time.Time) ([]Record, error) {
	rows, err := l.db.QueryContext(ctx,
		`SELECT ts, session_id, category, program, goal, verdict, completed FROM journal ORDER BY id`,
	)
	if err != nil {
		return nil, fmt.Errorf("querying journal: %w", err)
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		var (
			ts      string
			verdict string
			r       Record
		)
		if err := rows.Scan(&ts, &r.SessionID, &r.Category, &r.Program, &r.Goal, &verdict, &r.Completed); err != nil {
			return nil, fmt.Errorf("scanning journal record: %w", err)
		}
		parsed, err := time.Parse(time.RFC3339Nano, ts)
		if err != nil {
			continue
		}
		if parsed.Before(t) {
			continue
		}
		r.Timestamp = parsed
		r.Verdict = domain.Verdict(verdict)
		out = append(out, r)
	}
	return out, rows.Err()
}

// Close closes the database.
func (l *SQLiteLog) Close() error {
	return l.db.Close()
}
