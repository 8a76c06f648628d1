package journal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// KeyActiveWorkspace holds the workspace that was active when the daemon
// last recorded a switch.
const KeyActiveWorkspace = "active_workspace"

// SetValue stores a session value, replacing any previous value for key.
func (s *Store) SetValue(ctx context.Context, key, value string) error {
	_, err := s.execWithRetry(ctx,
		`INSERT INTO session_values (key, value, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value, s.now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("store session value %s: %w", key, err)
	}
	return nil
}

// Value returns the stored session value for key.
func (s *Store) Value(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := s.db.QueryRowContext(ensureContext(ctx),
		"SELECT value FROM session_values WHERE key = ?", key,
	).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("read session value %s: %w", key, err)
	}
	return value, true, nil
}
