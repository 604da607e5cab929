package domain

import (
	"context"
	"io"
)

// SessionStore persists the single in-progress session under a fixed key.
type SessionStore interface {
	// Load returns the persisted session, or ErrNotFound when none was saved.
	Load(ctx context.Context) (*Session, error)

	// Save overwrites the persisted session. Last write wins.
	Save(ctx context.Context, session *Session) error

	// Delete removes the persisted session. Deleting a missing session is not an error.
	Delete(ctx context.Context) error

	// ExportJSON writes the persisted blob to writer.
	ExportJSON(ctx context.Context, writer io.Writer) error

	// ImportJSON replaces the persisted session with the blob read from reader.
	ImportJSON(ctx context.Context, reader io.Reader) error

	// Close releases the underlying resources.
	Close() error
}

// ConfigManager defines the interface for configuration management
type ConfigManager interface {
	GetConfig() *Config
	GetServerConfig() *ServerConfig
	GetStorageConfig() *StorageConfig
	Reload() error
	Validate() error
	SessionDBPath() string
	ExportDir() string
	EnsureDataDir() error
}
