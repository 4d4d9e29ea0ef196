// Package store persists small per-namespace JSON blobs in SQLite. The
// engine uses it for session preferences; nothing stored here is required
// for correctness, so unreadable data is reported as absent.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/gogpu/swatch"
)

const schema = `
CREATE TABLE IF NOT EXISTS prefs (
	namespace  TEXT NOT NULL,
	owner      TEXT NOT NULL,
	body       TEXT NOT NULL,
	updated_at INTEGER NOT NULL,
	PRIMARY KEY (namespace, owner)
);`

// Store is a SQLite-backed preference store.
type Store struct {
	db *sql.DB
}

// Open opens or creates the database at path. Use ":memory:" for a
// throwaway store.
func Open(path string) (*Store, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("store: mkdir: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("store: open: %w", err)
	}
	if path == ":memory:" {
		// Each connection to :memory: is a separate database.
		db.SetMaxOpenConns(1)
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 10000",
		"PRAGMA synchronous = NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("store: %s: %w", pragma, err)
		}
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error { return s.db.Close() }

// Save stores v as JSON under namespace and owner, replacing any previous
// value.
func (s *Store) Save(ctx context.Context, namespace, owner string, v any) error {
	body, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("store: encode %s: %w", namespace, err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO prefs (namespace, owner, body, updated_at) VALUES (?, ?, ?, ?)
		ON CONFLICT (namespace, owner) DO UPDATE SET body = excluded.body, updated_at = excluded.updated_at`,
		namespace, owner, string(body), time.Now().Unix())
	if err != nil {
		return fmt.Errorf("store: save %s: %w", namespace, err)
	}
	return nil
}

// Load decodes the value under namespace and owner into v. It reports
// false, with a nil error, when nothing is stored or the stored blob does
// not decode. Only database failures return an error.
func (s *Store) Load(ctx context.Context, namespace, owner string, v any) (bool, error) {
	var body string
	err := s.db.QueryRowContext(ctx,
		`SELECT body FROM prefs WHERE namespace = ? AND owner = ?`, namespace, owner).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("store: load %s: %w", namespace, err)
	}
	if err := json.Unmarshal([]byte(body), v); err != nil {
		swatch.Logger().Warn("store: ignoring corrupt blob", "namespace", namespace, "owner", owner, "err", err)
		return false, nil
	}
	return true, nil
}

// Delete removes the value under namespace and owner.
func (s *Store) Delete(ctx context.Context, namespace, owner string) error {
	if _, err := s.db.ExecContext(ctx,
		`DELETE FROM prefs WHERE namespace = ? AND owner = ?`, namespace, owner); err != nil {
		return fmt.Errorf("store: delete %s: %w", namespace, err)
	}
	return nil
}

// SavePreferences stores session preferences under the fixed namespace.
func (s *Store) SavePreferences(ctx context.Context, owner string, p swatch.Preferences) error {
	return s.Save(ctx, swatch.PreferencesNamespace, owner, p)
}

// LoadPreferences returns saved session preferences, or ok=false when there
// are none.
func (s *Store) LoadPreferences(ctx context.Context, owner string) (swatch.Preferences, bool, error) {
	var p swatch.Preferences
	ok, err := s.Load(ctx, swatch.PreferencesNamespace, owner, &p)
	if !ok || err != nil {
		return swatch.Preferences{}, false, err
	}
	return p, true, nil
}
