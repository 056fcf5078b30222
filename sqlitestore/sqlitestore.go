// Package sqlitestore is a pinboard.Store backed by a single SQLite table.
//
// Pragmas applied on open:
//
//	journal_mode = WAL
//	busy_timeout = 10000
//	synchronous  = NORMAL
//
// Usage:
//
//	st, err := sqlitestore.Open("boards.db")
//	gw := pinboard.NewGateway(st, "board", logger)
package sqlitestore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/phanxgames/pinboard"
)

const schema = `CREATE TABLE IF NOT EXISTS boards (
	key        TEXT PRIMARY KEY,
	value      BLOB NOT NULL,
	updated_at INTEGER NOT NULL
)`

type config struct {
	busyTimeout int
	mkdirAll    bool
}

// Option customises Open behaviour.
type Option func(*config)

// WithBusyTimeout sets PRAGMA busy_timeout in milliseconds. Default: 10000.
func WithBusyTimeout(ms int) Option { return func(c *config) { c.busyTimeout = ms } }

// WithMkdirAll creates parent directories of the database path before opening.
func WithMkdirAll() Option { return func(c *config) { c.mkdirAll = true } }

// Store implements pinboard.Store.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

var _ pinboard.Store = (*Store)(nil)

// Open opens (creating if needed) the database at path. ":memory:" opens a
// private in-memory database.
func Open(path string, opts ...Option) (*Store, error) {
	cfg := config{busyTimeout: 10_000}
	for _, o := range opts {
		o(&cfg)
	}
	if cfg.mkdirAll && path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("sqlitestore: mkdir: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("sqlitestore: open: %w", err)
	}
	// Each connection to ":memory:" is a separate database.
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		fmt.Sprintf("PRAGMA busy_timeout = %d", cfg.busyTimeout),
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("sqlitestore: %s: %w", p, err)
		}
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlitestore: exec schema: %w", err)
	}
	return &Store{db: db, now: time.Now}, nil
}

// Close closes the database.
func (s *Store) Close() error { return s.db.Close() }

// Get implements pinboard.Store.
func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := s.db.QueryRowContext(ctx, `SELECT value FROM boards WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("sqlitestore: key %q: %w", key, pinboard.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("sqlitestore: get %q: %w", key, err)
	}
	return value, nil
}

// Put implements pinboard.Store.
func (s *Store) Put(ctx context.Context, key string, value []byte) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO boards (key, value, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value, s.now().UnixMilli())
	if err != nil {
		return fmt.Errorf("sqlitestore: put %q: %w", key, err)
	}
	return nil
}

// Keys returns every stored key, most recently updated first.
func (s *Store) Keys(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT key FROM boards ORDER BY updated_at DESC, key`)
	if err != nil {
		return nil, fmt.Errorf("sqlitestore: keys: %w", err)
	}
	defer rows.Close()
	var keys []string
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, fmt.Errorf("sqlitestore: keys: %w", err)
		}
		keys = append(keys, k)
	}
	return keys, rows.Err()
}

// Delete removes a key. Deleting a missing key is not an error.
func (s *Store) Delete(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM boards WHERE key = ?`, key); err != nil {
		return fmt.Errorf("sqlitestore: delete %q: %w", key, err)
	}
	return nil
}
