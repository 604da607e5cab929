// Package session persists the in-progress intake session.
package session

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/sahos-screening-server/internal/domain"
)

// DefaultKey is the fixed key the session blob is stored under.
const DefaultKey = "sahosApp_currentSession_simplified"

// ExportVersion is the version of the export envelope.
const ExportVersion = "1.0"

// SQLiteStore implements domain.SessionStore using SQLite. The session is a
// single JSON blob stored under a fixed key.
type SQLiteStore struct {
	db     *sql.DB
	dbPath string
	key    string
}

// Export is the envelope written by ExportJSON.
type Export struct {
	Version    string          `json:"version"`
	ExportedAt time.Time       `json:"exported_at"`
	Key        string          `json:"key"`
	Session    *domain.Session `json:"session"`
}

// NewSQLiteStore creates a new SQLite session store.
// It creates the database file and schema if they don't exist.
func NewSQLiteStore(dbPath, key string) (*SQLiteStore, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set WAL mode: %w", err)
	}

	if err := createSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	store := NewStoreWithDB(db, key)
	store.dbPath = dbPath
	return store, nil
}

// NewStoreWithDB wraps an open database whose schema already exists.
func NewStoreWithDB(db *sql.DB, key string) *SQLiteStore {
	if key == "" {
		key = DefaultKey
	}
	return &SQLiteStore{db: db, key: key}
}

func createSchema(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS sessions (
		key TEXT PRIMARY KEY,
		payload TEXT NOT NULL,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	`

	_, err := db.Exec(schema)
	return err
}

// Key returns the key the session is stored under.
func (s *SQLiteStore) Key() string {
	return s.key
}

// Path returns the database file path, empty for a wrapped database.
func (s *SQLiteStore) Path() string {
	return s.dbPath
}

// Load reads the stored session. It returns domain.ErrNotFound when none was saved.
func (s *SQLiteStore) Load(ctx context.Context) (*domain.Session, error) {
	payload, err := s.payload(ctx)
	if err != nil {
		return nil, err
	}

	var session domain.Session
	if err := json.Unmarshal([]byte(payload), &session); err != nil {
		return nil, fmt.Errorf("failed to decode session: %w", err)
	}
	return &session, nil
}

func (s *SQLiteStore) payload(ctx context.Context) (string, error) {
	var payload string
	err := s.db.QueryRowContext(ctx, "SELECT payload FROM sessions WHERE key = ?", s.key).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return "", domain.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to query session: %w", err)
	}
	return payload, nil
}

// Save overwrites the stored session.
func (s *SQLiteStore) Save(ctx context.Context, session *domain.Session) error {
	payload, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO sessions (key, payload, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET payload = excluded.payload, updated_at = excluded.updated_at
	`, s.key, string(payload), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

// Delete removes the stored session.
func (s *SQLiteStore) Delete(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM sessions WHERE key = ?", s.key); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// UpdatedAt returns when the session was last saved.
func (s *SQLiteStore) UpdatedAt(ctx context.Context) (time.Time, error) {
	var updated time.Time
	err := s.db.QueryRowContext(ctx, "SELECT updated_at FROM sessions WHERE key = ?", s.key).Scan(&updated)
	if errors.Is(err, sql.ErrNoRows) {
		return time.Time{}, domain.ErrNotFound
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to query session: %w", err)
	}
	return updated, nil
}

// ExportJSON writes the stored session wrapped in an Export envelope.
func (s *SQLiteStore) ExportJSON(ctx context.Context, writer io.Writer) error {
	session, err := s.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load session: %w", err)
	}

	export := &Export{
		Version:    ExportVersion,
		ExportedAt: time.Now(),
		Key:        s.key,
		Session:    session,
	}

	encoder := json.NewEncoder(writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(export)
}

// ImportJSON replaces the stored session with the one of an Export envelope.
func (s *SQLiteStore) ImportJSON(ctx context.Context, reader io.Reader) error {
	var export Export
	if err := json.NewDecoder(reader).Decode(&export); err != nil {
		return fmt.Errorf("failed to decode JSON: %w", err)
	}
	if export.Session == nil {
		return fmt.Errorf("export contains no session")
	}

	export.Session.Normalize()
	if err := s.Save(ctx, export.Session); err != nil {
		return fmt.Errorf("failed to save: %w", err)
	}
	return nil
}

// Close closes the store and releases resources.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
