package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	cfg := Default()
	assert.Equal(t, "cadence.db", cfg.DBPath)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 64, cfg.SchedulerBuffer)
	assert.False(t, cfg.DesktopNotifications)
}

func TestLoadTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cadence.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
db_path = "/tmp/plans.db"
log_level = "debug"
desktop_notifications = true
scheduler_buffer = 0
`), 0o600))

	cfg, err := Load(path, Default())
	require.NoError(t, err)
	assert.Equal(t, "/tmp/plans.db", cfg.DBPath)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.True(t, cfg.DesktopNotifications)
	assert.Equal(t, 64, cfg.SchedulerBuffer, "non-positive buffer keeps the default")
}

func TestLoadMissingFileKeepsBase(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.toml"), Default())
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)

	cfg, err = Load("", Default())
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadRejectsMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.toml")
	require.NoError(t, os.WriteFile(path, []byte("db_path = "), 0o600))
	_, err := Load(path, Default())
	assert.Error(t, err)
}

func TestFromEnv(t *testing.T) {
	t.Setenv("CADENCE_DB", "custom.db")
	t.Setenv("CADENCE_LOG_LEVEL", "warn")
	t.Setenv("CADENCE_LOG_FILE", "cadence.log")
	t.Setenv("CADENCE_LOG_STDOUT", "off")
	t.Setenv("CADENCE_LOG_JSON", "yes")
	t.Setenv("CADENCE_DESKTOP_NOTIFICATIONS", "true")
	t.Setenv("CADENCE_METRICS_ADDR", ":9102")
	t.Setenv("CADENCE_SCHEDULER_BUFFER", "128")

	cfg := FromEnv(Default())
	assert.Equal(t, "custom.db", cfg.DBPath)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, "cadence.log", cfg.LogFile)
	assert.False(t, cfg.LogToStdout)
	assert.True(t, cfg.LogJSON)
	assert.True(t, cfg.DesktopNotifications)
	assert.Equal(t, ":9102", cfg.MetricsAddr)
	assert.Equal(t, 128, cfg.SchedulerBuffer)
}

func TestFromEnvIgnoresInvalidValues(t *testing.T) {
	t.Setenv("CADENCE_SCHEDULER_BUFFER", "-3")
	t.Setenv("CADENCE_DESKTOP_NOTIFICATIONS", "maybe")

	cfg := FromEnv(Default())
	assert.Equal(t, 64, cfg.SchedulerBuffer)
	assert.False(t, cfg.DesktopNotifications)
}
