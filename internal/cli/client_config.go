package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

// ServerName is the entry name written into the MCP client configuration.
const ServerName = "sahos-screening"

const mcpServersKey = "mcpServers"

// ClientConfig is the desktop MCP client configuration file. Only the server
// entries are decoded; every other setting and every other server entry is
// kept verbatim.
type ClientConfig struct {
	settings   map[string]json.RawMessage
	MCPServers map[string]json.RawMessage
}

// ServerEntry launches one stdio MCP server.
type ServerEntry struct {
	Command string            `json:"command"`
	Args    []string          `json:"args,omitempty"`
	Env     map[string]string `json:"env,omitempty"`
}

// NewClientConfig returns an empty client configuration.
func NewClientConfig() *ClientConfig {
	return &ClientConfig{
		settings:   make(map[string]json.RawMessage),
		MCPServers: make(map[string]json.RawMessage),
	}
}

// Server decodes the named entry. ok is false when the entry is absent.
func (c *ClientConfig) Server(name string) (entry ServerEntry, ok bool, err error) {
	raw, ok := c.MCPServers[name]
	if !ok {
		return ServerEntry{}, false, nil
	}
	if err := json.Unmarshal(raw, &entry); err != nil {
		return ServerEntry{}, true, fmt.Errorf("failed to parse server %q: %w", name, err)
	}
	return entry, true, nil
}

// SetServer adds or replaces the named entry.
func (c *ClientConfig) SetServer(name string, entry ServerEntry) error {
	raw, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to marshal server %q: %w", name, err)
	}
	c.MCPServers[name] = raw
	return nil
}

// Setting returns a top-level setting other than mcpServers as raw JSON.
func (c *ClientConfig) Setting(key string) (json.RawMessage, bool) {
	raw, ok := c.settings[key]
	return raw, ok
}

// DefaultClientConfigPath returns the per-OS location of the desktop client config.
func DefaultClientConfigPath() (string, error) {
	var configDir string

	switch runtime.GOOS {
	case "darwin":
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		configDir = filepath.Join(home, "Library", "Application Support", "Claude")
	case "linux":
		if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
			configDir = filepath.Join(xdgConfig, "Claude")
			break
		}
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		configDir = filepath.Join(home, ".config", "Claude")
	case "windows":
		appData := os.Getenv("APPDATA")
		if appData == "" {
			return "", fmt.Errorf("APPDATA environment variable not set")
		}
		configDir = filepath.Join(appData, "Claude")
	default:
		return "", fmt.Errorf("unsupported operating system: %s", runtime.GOOS)
	}

	return filepath.Join(configDir, "claude_desktop_config.json"), nil
}

// LoadClientConfig reads the client config. A missing file yields an empty config.
func LoadClientConfig(path string) (*ClientConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return NewClientConfig(), nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := NewClientConfig()
	if err := json.Unmarshal(data, &config.settings); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	if config.settings == nil {
		config.settings = make(map[string]json.RawMessage)
	}

	if raw, ok := config.settings[mcpServersKey]; ok {
		delete(config.settings, mcpServersKey)
		if err := json.Unmarshal(raw, &config.MCPServers); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", mcpServersKey, err)
		}
		if config.MCPServers == nil {
			config.MCPServers = make(map[string]json.RawMessage)
		}
	}
	return config, nil
}

// SaveClientConfig writes the client config, creating its directory.
func SaveClientConfig(path string, config *ClientConfig) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	document := make(map[string]json.RawMessage, len(config.settings)+1)
	for key, raw := range config.settings {
		document[key] = raw
	}
	servers, err := json.Marshal(config.MCPServers)
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", mcpServersKey, err)
	}
	document[mcpServersKey] = servers

	data, err := json.MarshalIndent(document, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// RegisterServer adds or replaces the screening server entry. Other entries are kept.
func RegisterServer(path, binaryPath, dataDir string) (*ServerEntry, error) {
	config, err := LoadClientConfig(path)
	if err != nil {
		return nil, err
	}

	entry := ServerEntry{
		Command: binaryPath,
		Env:     map[string]string{},
	}
	if dataDir != "" {
		entry.Env["SAHOS_STORAGE_DATA_DIR"] = dataDir
	}
	if err := config.SetServer(ServerName, entry); err != nil {
		return nil, err
	}

	if err := SaveClientConfig(path, config); err != nil {
		return nil, err
	}
	return &entry, nil
}
