// Load envs from .env
// Load YAML config
// Override with env vars
// Provide default values
// Validate config

package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"sales-tracker-scraper/internal/browser"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Session backends.
const (
	BackendFile     = "file"
	BackendPostgres = "postgres"
	BackendRedis    = "redis"
)

const defaultPath = "configs/config.yaml"

type BrowserConfig struct {
	Headless          *bool         `yaml:"headless"`
	ExecutablePath    string        `yaml:"executable_path"`
	Managed           bool          `yaml:"managed"`
	NavigationTimeout time.Duration `yaml:"navigation_timeout"`
}

type Config struct {
	Port     string `yaml:"port"`
	LogLevel string `yaml:"log_level"`
	//Session storage
	SessionBackend string        `yaml:"session_backend"`
	DatabaseURL    string        `yaml:"database_url"`
	RedisURL       string        `yaml:"redis_url"`
	SessionTTL     time.Duration `yaml:"session_ttl"`
	PurgeSchedule  string        `yaml:"purge_schedule"`
	//Paths
	CachePath     string `yaml:"cache_path"`
	ScreenshotDir string `yaml:"screenshot_dir"`
	//Alerts
	TelegramToken  string `yaml:"telegram_token"`
	TelegramChatID int64  `yaml:"telegram_chat_id"`

	Browser BrowserConfig `yaml:"browser"`
}

// Load reads path (CONFIG_PATH or configs/config.yaml when empty). A missing
// file is not an error; everything can come from the environment.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	if path == "" {
		path = os.Getenv("CONFIG_PATH")
	}
	if path == "" {
		path = defaultPath
	}

	//Load yaml config
	cfg := &Config{}
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("read %s: %w", path, err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	setString(&c.Port, "PORT")
	setString(&c.LogLevel, "LOG_LEVEL")
	setString(&c.SessionBackend, "SESSION_BACKEND")
	setString(&c.DatabaseURL, "DATABASE_URL")
	setString(&c.RedisURL, "REDIS_URL")
	setString(&c.CachePath, "CACHE_PATH")
	setString(&c.ScreenshotDir, "SCREENSHOT_DIR")
	setString(&c.TelegramToken, "TELEGRAM_BOT_TOKEN")
	setString(&c.Browser.ExecutablePath, "PUPPETEER_EXECUTABLE_PATH")
	setString(&c.Browser.ExecutablePath, "CHROME_EXECUTABLE_PATH")

	if ttl := os.Getenv("SESSION_TTL"); ttl != "" {
		d, err := time.ParseDuration(ttl)
		if err != nil {
			return fmt.Errorf("invalid SESSION_TTL: %w", err)
		}
		c.SessionTTL = d
	}

	if chatID := os.Getenv("TELEGRAM_CHAT_ID"); chatID != "" {
		id, err := strconv.ParseInt(chatID, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid TELEGRAM_CHAT_ID: %w", err)
		}
		c.TelegramChatID = id
	}

	// Render sets RENDER on every service it runs
	if os.Getenv("RENDER") != "" {
		c.Browser.Managed = true
	}
	if headless := os.Getenv("HEADLESS"); headless != "" {
		v, err := strconv.ParseBool(headless)
		if err != nil {
			return fmt.Errorf("invalid HEADLESS: %w", err)
		}
		c.Browser.Headless = &v
	}
	return nil
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func (c *Config) applyDefaults() {
	if c.Port == "" {
		c.Port = "8080"
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.SessionBackend == "" {
		switch {
		case c.DatabaseURL != "":
			c.SessionBackend = BackendPostgres
		case c.RedisURL != "":
			c.SessionBackend = BackendRedis
		default:
			c.SessionBackend = BackendFile
		}
	}
	if c.SessionTTL == 0 {
		c.SessionTTL = 30 * 24 * time.Hour
	}
	if c.PurgeSchedule == "" {
		c.PurgeSchedule = "@every 1h"
	}
	if c.CachePath == "" {
		c.CachePath = ".cache"
	}
	if c.Browser.Headless == nil {
		headless := true
		c.Browser.Headless = &headless
	}
	if c.Browser.NavigationTimeout == 0 {
		c.Browser.NavigationTimeout = browser.DefaultNavigationTimeout
	}
}

// Validate checks that the selected backend has what it needs.
func (c *Config) Validate() error {
	switch c.SessionBackend {
	case BackendFile:
	case BackendPostgres:
		if c.DatabaseURL == "" {
			return errors.New("DATABASE_URL is required for the postgres session backend")
		}
	case BackendRedis:
		if c.RedisURL == "" {
			return errors.New("REDIS_URL is required for the redis session backend")
		}
	default:
		return fmt.Errorf("unknown session backend %q", c.SessionBackend)
	}

	if c.SessionTTL < 0 {
		return errors.New("session_ttl must not be negative")
	}
	if c.TelegramToken != "" && c.TelegramChatID == 0 {
		return errors.New("TELEGRAM_CHAT_ID is required when TELEGRAM_BOT_TOKEN is set")
	}
	return nil
}

// LaunchConfig resolves the browser launch flags for this deployment.
func (c *Config) LaunchConfig() browser.LaunchConfig {
	headless := c.Browser.Headless == nil || *c.Browser.Headless
	return browser.NewLaunchConfig(c.Browser.Managed, c.Browser.ExecutablePath, headless)
}
