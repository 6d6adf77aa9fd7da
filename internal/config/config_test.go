package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"CADENCE_CONFIG_PATH", "CADENCE_SERVER_HOST", "CADENCE_SERVER_PORT", "CADENCE_DB_PATH",
		"CADENCE_LOG_LEVEL", "CADENCE_LOG_PATH", "CADENCE_TRANSPORT", "CADENCE_AUTH_ENABLED",
		"CADENCE_TIMEZONE", "CADENCE_REMINDER_ENABLED", "CADENCE_REMINDER_SCHEDULE",
	} {
		t.Setenv(key, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, 8080, cfg.Server.Port)
	require.Equal(t, "cadence.db", cfg.DB.Path)
	require.Equal(t, "http", cfg.Transport.Mode)
	require.Equal(t, "0 8 * * *", cfg.Reminder.Schedule)
	require.False(t, cfg.Reminder.Enabled)

	loc, err := cfg.Location()
	require.NoError(t, err)
	require.Equal(t, time.Local, loc)
}

func TestLoad_FileThenEnv(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "cadence.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  port: 9000
db:
  path: /tmp/file.db
clock:
  timezone: UTC
reminder:
  enabled: true
  schedule: "30 7 * * *"
`), 0o644))

	t.Setenv("CADENCE_CONFIG_PATH", path)
	t.Setenv("CADENCE_DB_PATH", "/tmp/env.db")
	t.Setenv("CADENCE_TRANSPORT", "STDIO")
	t.Setenv("CADENCE_AUTH_ENABLED", "true")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, 9000, cfg.Server.Port)
	require.Equal(t, "/tmp/env.db", cfg.DB.Path)
	require.Equal(t, "stdio", cfg.Transport.Mode)
	require.True(t, cfg.Auth.Enabled)
	require.True(t, cfg.Reminder.Enabled)
	require.Equal(t, "30 7 * * *", cfg.Reminder.Schedule)

	loc, err := cfg.Location()
	require.NoError(t, err)
	require.Equal(t, "UTC", loc.String())
}

func TestLoad_InvalidValues(t *testing.T) {
	clearEnv(t)
	t.Setenv("CADENCE_SERVER_PORT", "eighty")
	_, err := Load()
	require.Error(t, err)

	t.Setenv("CADENCE_SERVER_PORT", "8080")
	t.Setenv("CADENCE_TIMEZONE", "Mars/Olympus_Mons")
	_, err = Load()
	require.Error(t, err)

	t.Setenv("CADENCE_TIMEZONE", "UTC")
	t.Setenv("CADENCE_TRANSPORT", "carrier-pigeon")
	_, err = Load()
	require.Error(t, err)
}
