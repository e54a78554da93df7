package settings

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"tubelens/internal/logging"
)

const schema = `
CREATE TABLE IF NOT EXISTS settings (
    key TEXT PRIMARY KEY,
    value TEXT NOT NULL,
    updated_at TEXT NOT NULL
);
`

// Store persists settings in SQLite and notifies subscribers on change.
type Store struct {
	db     *sql.DB
	logger *slog.Logger

	mu          sync.Mutex
	subscribers []chan string
}

// Open initializes or connects to the settings database at path.
func Open(path string, logger *slog.Logger) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open settings db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init settings schema: %w", err)
	}

	return &Store{
		db:     db,
		logger: logging.NewComponentLogger(logger, "settings"),
	}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	s.mu.Lock()
	for _, ch := range s.subscribers {
		close(ch)
	}
	s.subscribers = nil
	s.mu.Unlock()
	return s.db.Close()
}

// Snapshot returns the complete current settings with defaults applied for
// unset keys.
func (s *Store) Snapshot(ctx context.Context) (Settings, error) {
	snapshot := defaults()

	rows, err := s.db.QueryContext(ctx, `SELECT key, value FROM settings`)
	if err != nil {
		return snapshot, fmt.Errorf("read settings: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return snapshot, fmt.Errorf("scan setting: %w", err)
		}
		applyValue(&snapshot, key, value)
	}
	if err := rows.Err(); err != nil {
		return snapshot, fmt.Errorf("iterate settings: %w", err)
	}
	return snapshot, nil
}

// Get returns the stored value for key, or the empty string when unset.
func (s *Store) Get(ctx context.Context, key string) (string, error) {
	if _, err := validateValue(key, placeholderFor(key)); err != nil {
		return "", fmt.Errorf("unknown setting %q", key)
	}
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("read setting %q: %w", key, err)
	}
	return value, nil
}

// placeholderFor returns a value that passes validation for the key, so Get
// can reuse validateValue purely as a key-existence check.
func placeholderFor(key string) string {
	switch key {
	case KeyProvider:
		return DefaultProvider
	case KeyManualTranscriptMode, KeyFetchAllLanguages, KeyBrowserExtraction:
		return "false"
	case KeyPreferredLanguages:
		return "en"
	case KeyBatchSize, KeyMaxComments, KeyChunkSize, KeyChunkOverlap:
		return "1"
	default:
		return ""
	}
}

// Set validates and stores a value for key, then notifies subscribers.
func (s *Store) Set(ctx context.Context, key, value string) error {
	normalized, err := validateValue(key, value)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO settings (key, value, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, normalized, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("store setting %q: %w", key, err)
	}

	logValue := normalized
	if Secret(key) {
		logValue = "<redacted>"
	}
	s.logger.Info("setting updated",
		logging.String("key", key),
		logging.String("value", logValue))

	s.notify(key)
	return nil
}

// Unset removes the stored value for key, reverting it to its default.
func (s *Store) Unset(ctx context.Context, key string) error {
	if _, err := validateValue(key, placeholderFor(key)); err != nil {
		return fmt.Errorf("unknown setting %q", key)
	}
	if _, err := s.db.ExecContext(ctx, `DELETE FROM settings WHERE key = ?`, key); err != nil {
		return fmt.Errorf("remove setting %q: %w", key, err)
	}
	s.notify(key)
	return nil
}

// Subscribe returns a channel receiving the key of every subsequent change.
// The channel is closed when the store closes. Slow receivers drop updates
// rather than block writers.
func (s *Store) Subscribe() <-chan string {
	ch := make(chan string, 16)
	s.mu.Lock()
	s.subscribers = append(s.subscribers, ch)
	s.mu.Unlock()
	return ch
}

func (s *Store) notify(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, ch := range s.subscribers {
		select {
		case ch <- key:
		default:
		}
	}
}
