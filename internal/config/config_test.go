package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tareas/internal/config"
)

func TestNew_DefaultDirFromXDG(t *testing.T) {
	xdg := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", xdg)

	cfg, err := config.New("")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(xdg, "tareas"), cfg.Dir)
	assert.Equal(t, filepath.Join(xdg, "tareas", "session.json"), cfg.SessionPath())
	assert.Equal(t, filepath.Join(xdg, "tareas", "config.yaml"), cfg.SettingsPath())
}

func TestLoadSettings_WritesDefaultFile(t *testing.T) {
	dir := t.TempDir()
	cfg, err := config.New(dir)
	require.NoError(t, err)

	require.NoError(t, cfg.LoadSettings())

	info, err := os.Stat(cfg.SettingsPath())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	s := cfg.Settings
	assert.Equal(t, config.BackendSQLite, s.Backend)
	assert.Equal(t, filepath.Join(dir, "tareas.db"), s.SQLitePath)
	assert.Equal(t, 7*24*time.Hour, s.TokenTTL)
	assert.Len(t, s.JWTSecret, 64)

	// The secret must survive a reload.
	secret := s.JWTSecret
	cfg2, err := config.New(dir)
	require.NoError(t, err)
	require.NoError(t, cfg2.LoadSettings())
	assert.Equal(t, secret, cfg2.Settings.JWTSecret)
}

func TestLoadSettings_FileAndEnv(t *testing.T) {
	dir := t.TempDir()
	data := []byte("backend: memory\nlisten_addr: \":9090\"\njwt_secret: abc\ntoken_ttl: 2h\n")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), data, 0600))
	t.Setenv("TAREAS_LOG_LEVEL", "debug")

	cfg, err := config.New(dir)
	require.NoError(t, err)
	require.NoError(t, cfg.LoadSettings())

	assert.Equal(t, config.BackendMemory, cfg.Settings.Backend)
	assert.Equal(t, ":9090", cfg.Settings.ListenAddr)
	assert.Equal(t, "abc", cfg.Settings.JWTSecret)
	assert.Equal(t, 2*time.Hour, cfg.Settings.TokenTTL)
	assert.Equal(t, "debug", cfg.Settings.LogLevel)
}

func TestSettingsValidate(t *testing.T) {
	s := config.DefaultSettings()
	assert.NoError(t, s.Validate())

	s.Backend = "floppy"
	assert.Error(t, s.Validate())

	s.Backend = config.BackendRemote
	assert.Error(t, s.Validate())
	s.RemoteURL = "http://localhost:8080"
	assert.NoError(t, s.Validate())

	s.Backend = config.BackendPostgres
	assert.Error(t, s.Validate())
}
