package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sahos-screening-server/internal/domain"
	"github.com/sahos-screening-server/internal/report"
	"github.com/sahos-screening-server/internal/service"
	"github.com/sahos-screening-server/internal/session"
)

type staticConfig struct {
	cfg *domain.Config
}

func (s *staticConfig) GetConfig() *domain.Config               { return s.cfg }
func (s *staticConfig) GetServerConfig() *domain.ServerConfig   { return &s.cfg.Server }
func (s *staticConfig) GetStorageConfig() *domain.StorageConfig { return &s.cfg.Storage }
func (s *staticConfig) Reload() error                           { return nil }
func (s *staticConfig) Validate() error                         { return nil }
func (s *staticConfig) SessionDBPath() string                   { return filepath.Join(s.cfg.Storage.DataDir, "session.db") }
func (s *staticConfig) ExportDir() string                       { return filepath.Join(s.cfg.Storage.DataDir, "exports") }
func (s *staticConfig) EnsureDataDir() error                    { return nil }

type testCLI struct {
	*CLI
	intake *service.IntakeService
	out    *bytes.Buffer
	dir    string
}

func setupTestCLI(t *testing.T, input string) *testCLI {
	t.Helper()
	logger := logrus.New()
	logger.SetLevel(logrus.FatalLevel)

	dir := t.TempDir()
	cfg := &staticConfig{cfg: &domain.Config{
		Storage: domain.StorageConfig{DataDir: dir, SessionKey: session.DefaultKey},
	}}

	store, err := session.NewSQLiteStore(cfg.SessionDBPath(), session.DefaultKey)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	intake := service.NewIntakeService(logger, store, service.IntakeOptions{
		Now: func() time.Time { return time.Date(2025, 6, 15, 9, 0, 0, 0, time.UTC) },
	})

	out := &bytes.Buffer{}
	cli := NewCLI(cfg, intake, store, report.NewPrinter(), strings.NewReader(input), out)
	cli.now = func() time.Time { return time.Date(2025, 6, 15, 9, 30, 0, 0, time.UTC) }
	return &testCLI{CLI: cli, intake: intake, out: out, dir: dir}
}

func TestIsCommand(t *testing.T) {
	tests := []struct {
		name     string
		expected bool
	}{
		{"status", true},
		{"report", true},
		{"register-client", true},
		{"--help", true},
		{"serve", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsCommand(tt.name))
		})
	}
}

func TestRun_HelpAndUnknown(t *testing.T) {
	c := setupTestCLI(t, "")

	require.NoError(t, c.Run(context.Background(), nil))
	assert.Contains(t, c.out.String(), "register-client")

	c.out.Reset()
	require.NoError(t, c.Run(context.Background(), []string{"frobnicate"}))
	assert.Contains(t, c.out.String(), "Unknown command: frobnicate")
}

func TestRun_Status(t *testing.T) {
	c := setupTestCLI(t, "")
	ctx := context.Background()

	_, err := c.intake.SubmitQuestionnaire(ctx, domain.Epworth, map[string]int{
		"ep_q1": 1, "ep_q2": 1, "ep_q3": 1, "ep_q4": 1, "ep_q5": 1, "ep_q6": 1, "ep_q7": 1, "ep_q8": 1,
	})
	require.NoError(t, err)

	require.NoError(t, c.Run(ctx, []string{"status"}))
	output := c.out.String()
	assert.Contains(t, output, "Current step: 1/5")
	assert.Contains(t, output, "Completed steps: none")
	assert.Contains(t, output, "epworth    8")
	assert.Contains(t, output, "berlin     not completed")
	assert.Contains(t, output, "Risk level: no conclusion yet")
}

func TestRun_Report(t *testing.T) {
	c := setupTestCLI(t, "")
	ctx := context.Background()

	err := c.Run(ctx, []string{"report"})
	assert.ErrorIs(t, err, domain.ErrNoConclusion)

	_, err = c.intake.GenerateConclusion(ctx)
	require.NoError(t, err)

	require.NoError(t, c.Run(ctx, []string{"report"}))
	assert.Contains(t, c.out.String(), "Niveau de Suspicion : Faible")

	output := filepath.Join(c.dir, "report.html")
	c.out.Reset()
	require.NoError(t, c.Run(ctx, []string{"report", "--html", "-o", output}))
	assert.Contains(t, c.out.String(), "written to "+output)

	data, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.Contains(t, string(data), "<!DOCTYPE html>")
}

func TestRun_Reset(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		args      []string
		wantReset bool
	}{
		{"declined", "n\n", []string{"reset"}, false},
		{"empty answer", "\n", []string{"reset"}, false},
		{"confirmed", "y\n", []string{"reset"}, true},
		{"confirmed in french", "oui\n", []string{"reset"}, true},
		{"skip confirmation", "", []string{"reset", "-y"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := setupTestCLI(t, tt.input)
			ctx := context.Background()

			_, err := c.intake.ApplyUpdates(ctx, domain.DemographicsUpdate{Field: domain.FieldLastName, Value: "Durand"})
			require.NoError(t, err)

			require.NoError(t, c.Run(ctx, tt.args))
			if tt.wantReset {
				assert.Contains(t, c.out.String(), "New report started")
				assert.Empty(t, c.intake.Session().Demographics.LastName)
			} else {
				assert.Contains(t, c.out.String(), "Reset cancelled.")
				assert.Equal(t, "Durand", c.intake.Session().Demographics.LastName)
			}
		})
	}
}

func TestRun_ExportImport(t *testing.T) {
	c := setupTestCLI(t, "")
	ctx := context.Background()

	err := c.Run(ctx, []string{"export"})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = c.intake.ApplyUpdates(ctx, domain.DemographicsUpdate{Field: domain.FieldLastName, Value: "Durand"})
	require.NoError(t, err)

	require.NoError(t, c.Run(ctx, []string{"export"}))
	exported := filepath.Join(c.dir, "exports", "session-20250615-093000.json")
	assert.Contains(t, c.out.String(), exported)

	var envelope session.Export
	data, err := os.ReadFile(exported)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, &envelope))
	assert.Equal(t, "Durand", envelope.Session.Demographics.LastName)

	_, err = c.intake.Reset(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, c.intake.Session().Demographics.LastName)

	c.out.Reset()
	require.NoError(t, c.Run(ctx, []string{"import", exported}))
	assert.Contains(t, c.out.String(), "Session imported")
	assert.Equal(t, "Durand", c.intake.Session().Demographics.LastName)

	assert.Error(t, c.Run(ctx, []string{"import"}))
	assert.Error(t, c.Run(ctx, []string{"import", filepath.Join(c.dir, "missing.json")}))
}

func TestRun_RegisterClient(t *testing.T) {
	c := setupTestCLI(t, "")
	configPath := filepath.Join(c.dir, "client", "config.json")

	existing := NewClientConfig()
	require.NoError(t, existing.SetServer("other", ServerEntry{Command: "/usr/bin/other"}))
	require.NoError(t, SaveClientConfig(configPath, existing))

	require.NoError(t, c.Run(context.Background(), []string{"register-client", "--config", configPath, "--binary", "/opt/sahos/mcp-server"}))
	assert.Contains(t, c.out.String(), ServerName+" registered")

	loaded, err := LoadClientConfig(configPath)
	require.NoError(t, err)

	other, ok, err := loaded.Server("other")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "/usr/bin/other", other.Command)

	entry, ok, err := loaded.Server(ServerName)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "/opt/sahos/mcp-server", entry.Command)
	assert.Equal(t, c.dir, entry.Env["SAHOS_STORAGE_DATA_DIR"])
}

func TestRegisterServer_PreservesUnrelatedSettings(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.json")
	seed := `{
  "globalShortcut": "Ctrl+Space",
  "mcpServers": {
    "web": {"type": "http", "url": "https://x", "headers": {"Authorization": "Bearer t"}},
    "sahos-screening": {"command": "/old/path"}
  }
}`
	require.NoError(t, os.WriteFile(configPath, []byte(seed), 0644))

	_, err := RegisterServer(configPath, "/opt/sahos/mcp-server", "/var/lib/sahos")
	require.NoError(t, err)

	data, err := os.ReadFile(configPath)
	require.NoError(t, err)

	var document struct {
		GlobalShortcut string                     `json:"globalShortcut"`
		MCPServers     map[string]json.RawMessage `json:"mcpServers"`
	}
	require.NoError(t, json.Unmarshal(data, &document))
	assert.Equal(t, "Ctrl+Space", document.GlobalShortcut)
	require.Len(t, document.MCPServers, 2)
	assert.JSONEq(t, `{"type": "http", "url": "https://x", "headers": {"Authorization": "Bearer t"}}`, string(document.MCPServers["web"]))
	assert.JSONEq(t, `{"command": "/opt/sahos/mcp-server", "env": {"SAHOS_STORAGE_DATA_DIR": "/var/lib/sahos"}}`, string(document.MCPServers[ServerName]))

	loaded, err := LoadClientConfig(configPath)
	require.NoError(t, err)
	shortcut, ok := loaded.Setting("globalShortcut")
	require.True(t, ok)
	assert.JSONEq(t, `"Ctrl+Space"`, string(shortcut))
}

func TestLoadClientConfig(t *testing.T) {
	dir := t.TempDir()

	config, err := LoadClientConfig(filepath.Join(dir, "missing.json"))
	require.NoError(t, err)
	assert.Empty(t, config.MCPServers)

	broken := filepath.Join(dir, "broken.json")
	require.NoError(t, os.WriteFile(broken, []byte("{not json"), 0644))
	_, err = LoadClientConfig(broken)
	assert.Error(t, err)

	empty := filepath.Join(dir, "empty.json")
	require.NoError(t, os.WriteFile(empty, []byte("{}"), 0644))
	config, err = LoadClientConfig(empty)
	require.NoError(t, err)
	assert.NotNil(t, config.MCPServers)

	_, ok, err := config.Server(ServerName)
	require.NoError(t, err)
	assert.False(t, ok)

	badServers := filepath.Join(dir, "bad-servers.json")
	require.NoError(t, os.WriteFile(badServers, []byte(`{"mcpServers": []}`), 0644))
	_, err = LoadClientConfig(badServers)
	assert.Error(t, err)
}

func TestDefaultClientConfigPath(t *testing.T) {
	path, err := DefaultClientConfigPath()
	if err != nil {
		t.Skipf("client config path unavailable: %v", err)
	}
	assert.Equal(t, "claude_desktop_config.json", filepath.Base(path))
}
