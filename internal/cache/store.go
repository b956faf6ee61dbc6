// Package cache persists HTTP response bodies in a local SQLite database so
// repeated runs against the same external services skip the network. The
// store is opened once at process start and closed at exit.
package cache

import (
	"database/sql"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/open-prophetdb/ontology-matcher/pkg/constants"
	"github.com/open-prophetdb/ontology-matcher/pkg/errors"
)

// Store is a disk-backed response cache keyed by request fingerprint.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the cache database at path.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), constants.DirPermissions); err != nil {
		return nil, errors.WrapIO("create", filepath.Dir(path), err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errors.WrapIO("open", path, err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, errors.WrapIO("pragma", path, execErr)
		}
	}

	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS responses (
		key        TEXT PRIMARY KEY,
		body       BLOB NOT NULL,
		created_at TEXT NOT NULL
	)`); err != nil {
		_ = db.Close()
		return nil, errors.WrapIO("migrate", path, err)
	}

	return &Store{db: db, path: path}, nil
}

// Path returns the database file path.
func (s *Store) Path() string { return s.path }

// Get returns the cached body for key, if present.
func (s *Store) Get(key string) ([]byte, bool) {
	var body []byte
	err := s.db.QueryRow(`SELECT body FROM responses WHERE key = ?`, key).Scan(&body)
	if err != nil {
		return nil, false
	}
	return body, true
}

// Put stores the body under key, replacing any previous entry.
func (s *Store) Put(key string, body []byte) error {
	_, err := s.db.Exec(
		`INSERT INTO responses (key, body, created_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET body = excluded.body, created_at = excluded.created_at`,
		key, body, time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return errors.WrapIO("write", s.path, err)
	}
	return nil
}

// Clear drops every cached response.
func (s *Store) Clear() error {
	if _, err := s.db.Exec(`DELETE FROM responses`); err != nil {
		return errors.WrapIO("clear", s.path, err)
	}
	return nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}
