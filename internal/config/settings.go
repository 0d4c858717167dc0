package config

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Backend names accepted by the backend setting.
const (
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
	BackendMemory   = "memory"
	BackendGoogle   = "google"
	BackendRemote   = "remote"
)

// EnvPrefix prefixes environment overrides, e.g. TAREAS_BACKEND.
const EnvPrefix = "TAREAS"

// Settings are the user-editable options in config.yaml.
type Settings struct {
	Backend     string        `mapstructure:"backend" yaml:"backend"`
	SQLitePath  string        `mapstructure:"sqlite_path" yaml:"sqlite_path"`
	PostgresURL string        `mapstructure:"postgres_url" yaml:"postgres_url,omitempty"`
	RemoteURL   string        `mapstructure:"remote_url" yaml:"remote_url,omitempty"`
	ListenAddr  string        `mapstructure:"listen_addr" yaml:"listen_addr"`
	JWTSecret   string        `mapstructure:"jwt_secret" yaml:"jwt_secret"`
	TokenTTL    time.Duration `mapstructure:"token_ttl" yaml:"token_ttl"`
	LogLevel    string        `mapstructure:"log_level" yaml:"log_level"`
}

// DefaultSettings returns settings used when no file or variable overrides them.
func DefaultSettings() Settings {
	return Settings{
		Backend:    BackendSQLite,
		SQLitePath: "",
		ListenAddr: ":8080",
		TokenTTL:   7 * 24 * time.Hour,
		LogLevel:   "warn",
	}
}

// Validate checks that the settings name a usable backend.
func (s Settings) Validate() error {
	switch s.Backend {
	case BackendSQLite, BackendMemory, BackendGoogle:
	case BackendPostgres:
		if s.PostgresURL == "" {
			return fmt.Errorf("backend postgres requires postgres_url")
		}
	case BackendRemote:
		if s.RemoteURL == "" {
			return fmt.Errorf("backend remote requires remote_url")
		}
	default:
		return fmt.Errorf("unknown backend: %q", s.Backend)
	}
	if s.TokenTTL <= 0 {
		return fmt.Errorf("token_ttl must be positive")
	}
	return nil
}

// LoadSettings reads config.yaml (writing a default one on first run) and
// applies TAREAS_* environment overrides.
func (c *Config) LoadSettings() error {
	if err := c.writeDefaultSettings(); err != nil {
		return err
	}

	defaults := DefaultSettings()
	v := viper.New()
	v.SetConfigFile(c.SettingsPath())
	v.SetConfigType("yaml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("backend", defaults.Backend)
	v.SetDefault("sqlite_path", defaults.SQLitePath)
	v.SetDefault("postgres_url", "")
	v.SetDefault("remote_url", "")
	v.SetDefault("listen_addr", defaults.ListenAddr)
	v.SetDefault("jwt_secret", "")
	v.SetDefault("token_ttl", defaults.TokenTTL)
	v.SetDefault("log_level", defaults.LogLevel)

	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("failed to read %s: %w", SettingsFile, err)
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return fmt.Errorf("invalid %s: %w", SettingsFile, err)
	}
	if s.SQLitePath == "" {
		s.SQLitePath = c.DefaultSQLitePath()
	}
	if err := s.Validate(); err != nil {
		return err
	}
	c.Settings = s
	return nil
}

// DefaultSQLitePath returns the database path used when sqlite_path is empty.
func (c *Config) DefaultSQLitePath() string {
	return filepath.Join(c.Dir, "tareas.db")
}

// writeDefaultSettings creates config.yaml with a fresh JWT secret if missing.
func (c *Config) writeDefaultSettings() error {
	if _, err := os.Stat(c.SettingsPath()); err == nil {
		return nil
	}
	if err := c.EnsureDir(); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	secret, err := randomSecret()
	if err != nil {
		return err
	}
	s := DefaultSettings()
	s.JWTSecret = secret

	data, err := yaml.Marshal(&s)
	if err != nil {
		return fmt.Errorf("failed to encode settings: %w", err)
	}
	if err := os.WriteFile(c.SettingsPath(), data, 0600); err != nil {
		return fmt.Errorf("failed to write %s: %w", SettingsFile, err)
	}
	return nil
}

func randomSecret() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate secret: %w", err)
	}
	return hex.EncodeToString(b), nil
}
