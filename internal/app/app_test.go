package app

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sahos-screening-server/internal/domain"
)

func setupEnv(t *testing.T) string {
	t.Helper()
	t.Chdir(t.TempDir())
	dataDir := filepath.Join(t.TempDir(), "data")
	t.Setenv("SAHOS_STORAGE_DATA_DIR", dataDir)
	t.Setenv("SAHOS_CONCLUSION_DELAY", "0s")
	t.Setenv("SAHOS_LOGGING_LEVEL", "error")
	return dataDir
}

func TestNew_RestoresPersistedSession(t *testing.T) {
	dataDir := setupEnv(t)
	ctx := context.Background()

	first, err := New(ctx)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dataDir, "session.db"), first.Store.Path())
	assert.DirExists(t, filepath.Join(dataDir, "exports"))

	_, err = first.Intake.ApplyUpdates(ctx, domain.DemographicsUpdate{Field: domain.FieldFirstName, Value: "Lucie"})
	require.NoError(t, err)
	require.NoError(t, first.Close())

	second, err := New(ctx)
	require.NoError(t, err)
	t.Cleanup(func() { second.Close() })

	assert.Equal(t, "Lucie", second.Intake.Session().Demographics.FirstName)
	assert.NotNil(t, second.Intake.CacheStats())
}

func TestNew_InvalidConfiguration(t *testing.T) {
	setupEnv(t)
	t.Setenv("SAHOS_SERVER_PORT", "0")

	_, err := New(context.Background())
	assert.ErrorContains(t, err, "configuration validation failed")
}
