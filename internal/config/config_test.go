package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var envKeys = []string{
	"CONFIG_PATH", "PORT", "LOG_LEVEL", "SESSION_BACKEND", "DATABASE_URL", "REDIS_URL",
	"CACHE_PATH", "SCREENSHOT_DIR", "TELEGRAM_BOT_TOKEN", "TELEGRAM_CHAT_ID", "SESSION_TTL",
	"RENDER", "HEADLESS", "CHROME_EXECUTABLE_PATH", "PUPPETEER_EXECUTABLE_PATH",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range envKeys {
		t.Setenv(k, "")
	}
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, BackendFile, cfg.SessionBackend)
	assert.Equal(t, 30*24*time.Hour, cfg.SessionTTL)
	assert.Equal(t, "@every 1h", cfg.PurgeSchedule)
	assert.Equal(t, ".cache", cfg.CachePath)
	assert.Equal(t, 30*time.Second, cfg.Browser.NavigationTimeout)
	require.NotNil(t, cfg.Browser.Headless)
	assert.True(t, *cfg.Browser.Headless)
}

func TestLoad_YAML(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `
port: "9000"
session_backend: redis
redis_url: redis://localhost:6379/2
session_ttl: 72h
cache_path: /var/lib/scraper
browser:
  headless: false
  executable_path: /usr/bin/chromium
  navigation_timeout: 45s
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, BackendRedis, cfg.SessionBackend)
	assert.Equal(t, 72*time.Hour, cfg.SessionTTL)
	assert.Equal(t, "/var/lib/scraper", cfg.CachePath)
	assert.False(t, *cfg.Browser.Headless)
	assert.Equal(t, 45*time.Second, cfg.Browser.NavigationTimeout)

	launch := cfg.LaunchConfig()
	assert.False(t, launch.Headless)
	assert.Equal(t, "/usr/bin/chromium", launch.ExecutablePath)
}

func TestLoad_EnvOverrides(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, "port: \"9000\"\nsession_backend: file\n")
	t.Setenv("PORT", "7000")
	t.Setenv("DATABASE_URL", "postgres://u:p@localhost/db")
	t.Setenv("SESSION_BACKEND", "postgres")
	t.Setenv("SESSION_TTL", "12h")
	t.Setenv("TELEGRAM_BOT_TOKEN", "token")
	t.Setenv("TELEGRAM_CHAT_ID", "-100123")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "7000", cfg.Port)
	assert.Equal(t, BackendPostgres, cfg.SessionBackend)
	assert.Equal(t, 12*time.Hour, cfg.SessionTTL)
	assert.Equal(t, int64(-100123), cfg.TelegramChatID)
}

func TestLoad_BackendInferredFromURL(t *testing.T) {
	clearEnv(t)
	t.Setenv("DATABASE_URL", "postgres://localhost/db")

	cfg, err := Load(filepath.Join(t.TempDir(), "none.yaml"))
	require.NoError(t, err)
	assert.Equal(t, BackendPostgres, cfg.SessionBackend)
}

func TestLoad_ManagedDeployment(t *testing.T) {
	clearEnv(t)
	t.Setenv("RENDER", "true")
	t.Setenv("PUPPETEER_EXECUTABLE_PATH", "/opt/render/chrome")

	cfg, err := Load(filepath.Join(t.TempDir(), "none.yaml"))
	require.NoError(t, err)

	launch := cfg.LaunchConfig()
	assert.True(t, launch.Managed)
	assert.True(t, launch.Headless)
	assert.Equal(t, "/opt/render/chrome", launch.ExecutablePath)
	assert.Contains(t, launch.Args, "--single-process")
}

func TestLoad_ChromePathWinsOverLegacy(t *testing.T) {
	clearEnv(t)
	t.Setenv("PUPPETEER_EXECUTABLE_PATH", "/legacy/chrome")
	t.Setenv("CHROME_EXECUTABLE_PATH", "/new/chrome")

	cfg, err := Load(filepath.Join(t.TempDir(), "none.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "/new/chrome", cfg.Browser.ExecutablePath)
}

func TestLoad_Invalid(t *testing.T) {
	tests := map[string]map[string]string{
		"postgres without url": {"SESSION_BACKEND": "postgres"},
		"redis without url":    {"SESSION_BACKEND": "redis"},
		"unknown backend":      {"SESSION_BACKEND": "mongo"},
		"bad ttl":              {"SESSION_TTL": "forever"},
		"bad chat id":          {"TELEGRAM_CHAT_ID": "general"},
		"token without chat":   {"TELEGRAM_BOT_TOKEN": "token"},
		"bad headless":         {"HEADLESS": "maybe"},
	}

	for name, env := range tests {
		t.Run(name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range env {
				t.Setenv(k, v)
			}
			_, err := Load(filepath.Join(t.TempDir(), "none.yaml"))
			assert.Error(t, err)
		})
	}
}

func TestLoad_MalformedYAML(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, "port: [unclosed")

	_, err := Load(path)
	assert.Error(t, err)
}
