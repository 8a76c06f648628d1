package journal

import (
	"context"
	"fmt"
	"time"
	"unicode/utf8"
)

// Entry is one journaled command.
type Entry struct {
	ID         int64     `json:"id"`
	ExecutedAt time.Time `json:"executed_at"`
	SessionID  string    `json:"session_id,omitempty"`
	RequestID  string    `json:"request_id,omitempty"`
	Command    string    `json:"command"`
	OK         bool      `json:"ok"`
	Kind       string    `json:"kind,omitempty"`
	Response   string    `json:"response"`
}

// Record appends an entry and trims the journal to its row limit. A zero
// ExecutedAt is filled with the current time.
func (s *Store) Record(ctx context.Context, entry Entry) (Entry, error) {
	if entry.ExecutedAt.IsZero() {
		entry.ExecutedAt = s.now()
	}
	entry.ExecutedAt = entry.ExecutedAt.UTC()
	entry.Response = truncateResponse(entry.Response)
	ok := 0
	if entry.OK {
		ok = 1
	}

	res, err := s.execWithRetry(ctx,
		`INSERT INTO commands (executed_at, session_id, request_id, command, ok, kind, response)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		entry.ExecutedAt.Format(time.RFC3339Nano),
		entry.SessionID,
		entry.RequestID,
		entry.Command,
		ok,
		entry.Kind,
		entry.Response,
	)
	if err != nil {
		return Entry{}, fmt.Errorf("insert journal entry: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return Entry{}, fmt.Errorf("journal entry id: %w", err)
	}
	entry.ID = id

	if s.limit > 0 {
		if _, err := s.execWithRetry(ctx,
			`DELETE FROM commands WHERE id NOT IN (SELECT id FROM commands ORDER BY id DESC LIMIT ?)`,
			s.limit,
		); err != nil {
			return entry, fmt.Errorf("trim journal: %w", err)
		}
	}
	return entry, nil
}

// truncateResponse cuts s to at most maxResponseLength bytes without
// splitting a UTF-8 sequence.
func truncateResponse(s string) string {
	if len(s) <= maxResponseLength {
		return s
	}
	cut := maxResponseLength
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}

// Recent returns up to n entries, newest first. n <= 0 returns every entry.
func (s *Store) Recent(ctx context.Context, n int) ([]Entry, error) {
	ctx = ensureContext(ctx)
	query := `SELECT id, executed_at, session_id, request_id, command, ok, kind, response
		FROM commands ORDER BY id DESC`
	args := []any{}
	if n > 0 {
		query += " LIMIT ?"
		args = append(args, n)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query journal: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var (
			entry    Entry
			executed string
			ok       int
		)
		if err := rows.Scan(&entry.ID, &executed, &entry.SessionID, &entry.RequestID,
			&entry.Command, &ok, &entry.Kind, &entry.Response); err != nil {
			return nil, fmt.Errorf("scan journal entry: %w", err)
		}
		entry.OK = ok != 0
		if ts, err := time.Parse(time.RFC3339Nano, executed); err == nil {
			entry.ExecutedAt = ts
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate journal: %w", err)
	}
	return entries, nil
}

// Count returns the number of journaled commands.
func (s *Store) Count(ctx context.Context) (int, error) {
	var count int
	if err := s.db.QueryRowContext(ensureContext(ctx), "SELECT COUNT(1) FROM commands").Scan(&count); err != nil {
		return 0, fmt.Errorf("count journal: %w", err)
	}
	return count, nil
}
