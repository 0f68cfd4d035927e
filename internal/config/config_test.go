package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	for _, k := range []string{
		"TOPOGRAPH_CONFIG", "PORT", "DATA_ROOT", "TOPOGRAPH_LOG_LEVEL", "TOPOGRAPH_LOG_FORMAT",
		"TOPOGRAPH_SEED_SAMPLE", "TOPOGRAPH_MAX_SESSIONS", "TOPOGRAPH_CANVAS_WIDTH", "TOPOGRAPH_CANVAS_HEIGHT",
	} {
		t.Setenv(k, "")
	}
	// Keep godotenv away from any .env in the package directory.
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "8081", cfg.Server.Port)
	assert.True(t, cfg.Server.SeedSample)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, 1000.0, cfg.Canvas.Width)
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadTOMLThenEnv(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "topograph.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[server]
port = "9000"
seed_sample = false

[log]
level = "debug"

[canvas]
width = 1600
`), 0o644))
	t.Setenv("TOPOGRAPH_CONFIG", path)
	t.Setenv("PORT", "9100")
	t.Setenv("TOPOGRAPH_MAX_SESSIONS", "5")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9100", cfg.Server.Port, "env wins over file")
	assert.False(t, cfg.Server.SeedSample)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, 1600.0, cfg.Canvas.Width)
	assert.Equal(t, 800.0, cfg.Canvas.Height)
	assert.Equal(t, 5, cfg.Session.MaxSessions)
}

func TestLoadDotEnv(t *testing.T) {
	clearEnv(t)
	// godotenv leaves variables that are already set alone, even if empty.
	os.Unsetenv("DATA_ROOT")
	require.NoError(t, os.WriteFile(".env", []byte("DATA_ROOT=/srv/topologies\n"), 0o644))
	t.Cleanup(func() { os.Unsetenv("DATA_ROOT") })

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "/srv/topologies", cfg.Server.DataRoot)
}

func TestLoadErrors(t *testing.T) {
	clearEnv(t)
	t.Setenv("TOPOGRAPH_SEED_SAMPLE", "maybe")
	_, err := Load()
	assert.Error(t, err)

	clearEnv(t)
	t.Setenv("TOPOGRAPH_CANVAS_WIDTH", "wide")
	_, err = Load()
	assert.Error(t, err)

	clearEnv(t)
	t.Setenv("TOPOGRAPH_CONFIG", filepath.Join(t.TempDir(), "missing.toml"))
	_, err = Load()
	assert.Error(t, err)
}
