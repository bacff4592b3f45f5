package history

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite" // register sqlite driver
)

const historySchema = `
CREATE TABLE IF NOT EXISTS history_events (
	id        INTEGER PRIMARY KEY,
	kind      TEXT    NOT NULL,
	timestamp TEXT    NOT NULL,
	cli       TEXT    NOT NULL DEFAULT '',
	item      TEXT    NOT NULL DEFAULT '',
	item_kind TEXT    NOT NULL DEFAULT '',
	scope     TEXT    NOT NULL DEFAULT '',
	message   TEXT    NOT NULL DEFAULT '',
	detail    TEXT    NOT NULL DEFAULT '',
	level     TEXT    NOT NULL DEFAULT 'info'
);

CREATE INDEX IF NOT EXISTS idx_history_cli_ts ON history_events(cli, timestamp DESC);
CREATE INDEX IF NOT EXISTS idx_history_item ON history_events(item, timestamp DESC);
`

const maxQueryLimit = 500

// SQLiteLogger is a Logger backed by a SQLite database.
type SQLiteLogger struct {
	db *sql.DB
}

// NewSQLiteLogger opens (or creates) a SQLite database at dbPath, runs the
// history_events schema, and returns a ready-to-use logger.
// Use ":memory:" for an in-memory database (useful in tests).
func NewSQLiteLogger(dbPath string) (*SQLiteLogger, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db for history log: %w", err)
	}

	if _, err := db.Exec(historySchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("run history log schema: %w", err)
	}

	return &SQLiteLogger{db: db}, nil
}

// Emit inserts a history event into the database. If the event's Timestamp is
// zero, it is set to time.Now(). Emit is synchronous and safe to call from the
// bubbletea Update goroutine; insert errors are swallowed since history is
// best-effort.
func (l *SQLiteLogger) Emit(e Event) {
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now()
	}

	const q = `
		INSERT INTO history_events
			(kind, timestamp, cli, item, item_kind, scope, message, detail, level)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	level := e.Level
	if level == "" {
		level = "info"
	}

	_, _ = l.db.Exec(q,
		string(e.Kind),
		historyFormatTime(e.Timestamp),
		e.Cli,
		e.Item,
		e.ItemKind,
		e.Scope,
		e.Message,
		e.Detail,
		level,
	)
}

// Query returns events matching the filter, ordered newest-first.
// Limit is capped at 500.
func (l *SQLiteLogger) Query(f QueryFilter) ([]Event, error) {
	limit := f.Limit
	if limit <= 0 || limit > maxQueryLimit {
		limit = maxQueryLimit
	}

	var conditions []string
	var args []any

	if f.Cli != "" {
		conditions = append(conditions, "cli = ?")
		args = append(args, f.Cli)
	}
	if f.Item != "" {
		conditions = append(conditions, "item = ?")
		args = append(args, f.Item)
	}
	if f.ItemKind != "" {
		conditions = append(conditions, "item_kind = ?")
		args = append(args, f.ItemKind)
	}
	if len(f.Kinds) > 0 {
		placeholders := make([]string, len(f.Kinds))
		for i, k := range f.Kinds {
			placeholders[i] = "?"
			args = append(args, string(k))
		}
		conditions = append(conditions, "kind IN ("+strings.Join(placeholders, ", ")+")")
	}
	if !f.After.IsZero() {
		conditions = append(conditions, "timestamp > ?")
		args = append(args, historyFormatTime(f.After))
	}
	if !f.Before.IsZero() {
		conditions = append(conditions, "timestamp < ?")
		args = append(args, historyFormatTime(f.Before))
	}

	q := `
		SELECT id, kind, timestamp, cli, item, item_kind, scope, message, detail, level
		FROM history_events
	`
	if len(conditions) > 0 {
		q += " WHERE " + strings.Join(conditions, " AND ")
	}
	q += fmt.Sprintf(" ORDER BY timestamp DESC LIMIT %d", limit)

	rows, err := l.db.Query(q, args...)
	if err != nil {
		return nil, fmt.Errorf("query history events: %w", err)
	}
	defer rows.Close()

	var events []Event
	for rows.Next() {
		var e Event
		var ts string
		if err := rows.Scan(
			&e.ID,
			(*string)(&e.Kind),
			&ts,
			&e.Cli,
			&e.Item,
			&e.ItemKind,
			&e.Scope,
			&e.Message,
			&e.Detail,
			&e.Level,
		); err != nil {
			return nil, fmt.Errorf("scan history event: %w", err)
		}
		e.Timestamp = historyParseTime(ts)
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate history events: %w", err)
	}
	return events, nil
}

// Clear deletes all stored events.
func (l *SQLiteLogger) Clear() error {
	if _, err := l.db.Exec("DELETE FROM history_events"); err != nil {
		return fmt.Errorf("clear history events: %w", err)
	}
	return nil
}

// Close releases the database connection.
func (l *SQLiteLogger) Close() error {
	return l.db.Close()
}

// historyFormatTime formats a time.Time as RFC3339Nano for storage.
// Zero time returns empty string.
func historyFormatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339Nano)
}

// historyParseTime parses an RFC3339Nano string.
// Returns zero time on empty or invalid input.
func historyParseTime(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
