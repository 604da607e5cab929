// Package config loads the server configuration from defaults, an optional
// config file, a .env file and SAHOS_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/sahos-screening-server/internal/domain"
)

// EnvPrefix prefixes every environment override, e.g. SAHOS_SERVER_PORT.
const EnvPrefix = "SAHOS"

// SessionDBFile is the name of the session database inside the data directory.
const SessionDBFile = "session.db"

// Manager implements the ConfigManager interface using Viper
type Manager struct {
	v      *viper.Viper
	config *domain.Config
}

// Option customizes a Manager before the configuration is read.
type Option func(*viper.Viper)

// WithConfigFile reads the given file instead of searching the default paths.
func WithConfigFile(path string) Option {
	return func(v *viper.Viper) {
		v.SetConfigFile(path)
	}
}

// NewManager creates a new configuration manager
func NewManager(opts ...Option) (*Manager, error) {
	m := &Manager{}
	if err := m.loadConfig(opts...); err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return m, nil
}

// loadConfig loads configuration from various sources
func (m *Manager) loadConfig(opts ...Option) error {
	// A missing .env file is the normal case outside development.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("error reading .env file: %w", err)
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/sahos-screening-server/")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)
	for _, opt := range opts {
		opt(v)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("error reading config file: %w", err)
		}
	}

	config := &domain.Config{}
	if err := v.Unmarshal(config); err != nil {
		return fmt.Errorf("error unmarshaling config: %w", err)
	}

	m.v = v
	m.config = config
	return nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	homeDir, _ := os.UserHomeDir()

	v.SetDefault("environment", "development")

	// Server defaults
	v.SetDefault("server.host", "127.0.0.1")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "30s")
	v.SetDefault("server.idle_timeout", "120s")
	v.SetDefault("server.request_timeout", "10s")
	v.SetDefault("server.allowed_origin", "*")

	// Storage defaults
	v.SetDefault("storage.data_dir", filepath.Join(homeDir, ".sahos-screening"))
	v.SetDefault("storage.session_key", "sahosApp_currentSession_simplified")

	// Conclusion defaults
	v.SetDefault("conclusion.delay", "500ms")
	v.SetDefault("conclusion.cache_size", 32)

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	// MCP defaults
	v.SetDefault("mcp.server_name", "sahos-screening-server")
	v.SetDefault("mcp.server_version", "v0.1.0")
}

// GetConfig returns the complete configuration
func (m *Manager) GetConfig() *domain.Config {
	return m.config
}

// GetServerConfig returns server configuration
func (m *Manager) GetServerConfig() *domain.ServerConfig {
	return &m.config.Server
}

// GetStorageConfig returns storage configuration
func (m *Manager) GetStorageConfig() *domain.StorageConfig {
	return &m.config.Storage
}

// Reload reloads the configuration
func (m *Manager) Reload() error {
	return m.loadConfig()
}

// Validate validates the configuration
func (m *Manager) Validate() error {
	config := m.config

	if config.Server.Port <= 0 || config.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", config.Server.Port)
	}

	if config.Storage.DataDir == "" {
		return fmt.Errorf("storage data directory is required")
	}
	if config.Storage.SessionKey == "" {
		return fmt.Errorf("storage session key is required")
	}

	if config.Conclusion.Delay < 0 {
		return fmt.Errorf("invalid conclusion delay: %s", config.Conclusion.Delay)
	}
	if config.Conclusion.CacheSize < 0 {
		return fmt.Errorf("invalid conclusion cache size: %d", config.Conclusion.CacheSize)
	}

	validLogLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true, "fatal": true, "panic": true,
	}
	if !validLogLevels[strings.ToLower(config.Logging.Level)] {
		return fmt.Errorf("invalid log level: %s", config.Logging.Level)
	}
	switch strings.ToLower(config.Logging.Format) {
	case "json", "text":
	default:
		return fmt.Errorf("invalid log format: %s", config.Logging.Format)
	}

	return nil
}

// SessionDBPath returns the path to the session SQLite database.
func (m *Manager) SessionDBPath() string {
	return filepath.Join(m.config.Storage.DataDir, SessionDBFile)
}

// ExportDir returns the directory for JSON exports.
func (m *Manager) ExportDir() string {
	return filepath.Join(m.config.Storage.DataDir, "exports")
}

// EnsureDataDir creates the data and export directories if they don't exist.
func (m *Manager) EnsureDataDir() error {
	if err := os.MkdirAll(m.config.Storage.DataDir, 0755); err != nil {
		return err
	}
	return os.MkdirAll(m.ExportDir(), 0755)
}

// IsProduction returns true if running in production mode
func (m *Manager) IsProduction() bool {
	return strings.ToLower(m.config.Environment) == "production"
}

// IsDevelopment returns true if running in development mode
func (m *Manager) IsDevelopment() bool {
	env := strings.ToLower(m.config.Environment)
	return env == "development" || env == "dev" || env == ""
}
