package kv

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

const currentVersion = 1

const defaultWatchInterval = 500 * time.Millisecond

// SQLite is a region stored in a SQLite file. Every process that opens the
// same file is a separate tab of the region.
type SQLite struct {
	db       *sql.DB
	origin   string
	logger   *zap.Logger
	interval time.Duration

	mu      sync.Mutex
	subs    map[int]func(Event)
	nextSub int
	cancel  context.CancelFunc
	done    chan struct{}
	closed  bool
}

// Option configures a SQLite region.
type Option func(*SQLite)

// WithLogger sets the logger used by the change watcher.
func WithLogger(l *zap.Logger) Option {
	return func(s *SQLite) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithWatchInterval sets how often the watcher polls for foreign commits.
func WithWatchInterval(d time.Duration) Option {
	return func(s *SQLite) {
		if d > 0 {
			s.interval = d
		}
	}
}

// Open opens (or creates) the SQLite region at dbPath and runs migrations.
func Open(dbPath string, opts ...Option) (*SQLite, error) {
	if dbPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("exec pragma %q: %w", p, err)
		}
	}

	s := &SQLite{
		db:       db,
		origin:   uuid.NewString(),
		logger:   zap.NewNop(),
		interval: defaultWatchInterval,
		subs:     make(map[int]func(Event)),
	}
	for _, opt := range opts {
		opt(s)
	}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

// OpenMemory opens a private in-memory region, mostly for tests.
func OpenMemory(opts ...Option) (*SQLite, error) {
	return Open(":memory:", opts...)
}

// Origin identifies this tab in the region's change log.
func (s *SQLite) Origin() string { return s.origin }

// Close stops the watcher and closes the database.
func (s *SQLite) Close() error {
	s.mu.Lock()
	s.closed = true
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	done := s.done
	s.subs = make(map[int]func(Event))
	s.mu.Unlock()

	if done != nil {
		<-done
	}
	return s.db.Close()
}

func (s *SQLite) migrate() error {
	var version int
	err := s.db.QueryRow("PRAGMA user_version").Scan(&version)
	if err != nil {
		return fmt.Errorf("read user_version: %w", err)
	}

	if version >= currentVersion {
		return nil
	}

	if version < 1 {
		if err := s.migrateV1(); err != nil {
			return err
		}
	}

	_, err = s.db.Exec(fmt.Sprintf("PRAGMA user_version = %d", currentVersion))
	return err
}

// Removed keys are kept as tombstones so the watcher of another tab can
// tell who removed them.
func (s *SQLite) migrateV1() error {
	const ddl = `
	CREATE TABLE IF NOT EXISTS kv_entries (
		key         TEXT PRIMARY KEY,
		value       TEXT NOT NULL DEFAULT '',
		deleted     INTEGER NOT NULL DEFAULT 0,
		origin      TEXT NOT NULL DEFAULT '',
		updated_at  TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%SZ','now'))
	);
	`
	_, err := s.db.Exec(ddl)
	return err
}

func (s *SQLite) Get(key string) (string, bool, error) {
	var value string
	err := s.db.QueryRow(
		`SELECT value FROM kv_entries WHERE key = ? AND deleted = 0`, key,
	).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get %q: %w", key, err)
	}
	return value, true, nil
}

func (s *SQLite) Set(key, value string) error {
	now := time.Now().UTC().Format(time.RFC3339)
	_, err := s.db.Exec(
		`INSERT INTO kv_entries (key, value, deleted, origin, updated_at) VALUES (?, ?, 0, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, deleted = 0,
		   origin = excluded.origin, updated_at = excluded.updated_at`,
		key, value, s.origin, now,
	)
	if err != nil {
		return fmt.Errorf("set %q: %w", key, err)
	}
	return nil
}

func (s *SQLite) Remove(key string) error {
	now := time.Now().UTC().Format(time.RFC3339)
	_, err := s.db.Exec(
		`UPDATE kv_entries SET value = '', deleted = 1, origin = ?, updated_at = ?
		 WHERE key = ? AND deleted = 0`,
		s.origin, now, key,
	)
	if err != nil {
		return fmt.Errorf("remove %q: %w", key, err)
	}
	return nil
}

func (s *SQLite) Clear() error {
	now := time.Now().UTC().Format(time.RFC3339)
	_, err := s.db.Exec(
		`UPDATE kv_entries SET value = '', deleted = 1, origin = ?, updated_at = ?
		 WHERE deleted = 0`,
		s.origin, now,
	)
	if err != nil {
		return fmt.Errorf("clear: %w", err)
	}
	return nil
}

func (s *SQLite) Keys() ([]string, error) {
	rows, err := s.db.Query(`SELECT key FROM kv_entries WHERE deleted = 0 ORDER BY key`)
	if err != nil {
		return nil, fmt.Errorf("list keys: %w", err)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, err
		}
		keys = append(keys, k)
	}
	return keys, rows.Err()
}

// DefaultDBPath returns ~/.config/otis/otis.db
func DefaultDBPath() (string, error) {
	cfg, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(cfg, "otis", "otis.db"), nil
}
