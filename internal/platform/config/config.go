// Package config はYAMLファイル・.env・環境変数からアプリケーション設定を読み込みます。
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultPath is used when CONFIG_PATH is not set.
const DefaultPath = "configs/config.yaml"

// Config holds all application configuration.
type Config struct {
	Server struct {
		Addr            string        `yaml:"addr"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	} `yaml:"server"`
	PredictAPI struct {
		BaseURL   string        `yaml:"base_url"`
		Timeout   time.Duration `yaml:"timeout"`
		UserAgent string        `yaml:"user_agent"`
	} `yaml:"predict_api"`
	Redis struct {
		Host     string `yaml:"host"`
		Port     string `yaml:"port"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
	} `yaml:"redis"`
	Database struct {
		Driver         string        `yaml:"driver"`
		DSN            string        `yaml:"dsn"`
		ConnectTimeout time.Duration `yaml:"connect_timeout"`
		RunMigrations  bool          `yaml:"run_migrations"`
	} `yaml:"database"`
	Cache struct {
		SymbolsTTL   time.Duration `yaml:"symbols_ttl"`
		MarketMaxTTL time.Duration `yaml:"market_max_ttl"`
	} `yaml:"cache"`
	Dashboard struct {
		PollEvery        time.Duration `yaml:"poll_every"`
		RefreshPerMinute int           `yaml:"refresh_per_minute"`
		MarketLimit      int           `yaml:"market_limit"`
	} `yaml:"dashboard"`
	Visitor struct {
		Secret       string        `yaml:"secret"`
		CookieName   string        `yaml:"cookie_name"`
		TTL          time.Duration `yaml:"ttl"`
		SecureCookie bool          `yaml:"secure_cookie"`
	} `yaml:"visitor"`
}

// Load は .env を読み込んだ後、path の YAML を読み、環境変数で上書きし、既定値を補います。
// path が空の場合は CONFIG_PATH、さらに空なら DefaultPath を使います。ファイルが無い場合はエラーにしません。
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("failed to load .env", "error", err)
	}

	if path == "" {
		path = os.Getenv("CONFIG_PATH")
	}
	if path == "" {
		path = DefaultPath
	}

	cfg := &Config{}
	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	cfg.applyEnv()
	cfg.applyDefaults()
	return cfg, nil
}

// applyEnv overrides file values with environment variables.
func (c *Config) applyEnv() {
	str := func(key string, dst *string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}
	dur := func(key string, dst *time.Duration) {
		if v := os.Getenv(key); v != "" {
			if d, err := time.ParseDuration(v); err == nil {
				*dst = d
			} else {
				slog.Warn("ignoring invalid duration", "key", key, "value", v)
			}
		}
	}
	num := func(key string, dst *int) {
		if v := os.Getenv(key); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				*dst = n
			} else {
				slog.Warn("ignoring invalid integer", "key", key, "value", v)
			}
		}
	}

	if v := os.Getenv("PORT"); v != "" {
		c.Server.Addr = ":" + v
	}
	str("SERVER_ADDR", &c.Server.Addr)
	str("PREDICT_API_BASE_URL", &c.PredictAPI.BaseURL)
	dur("PREDICT_API_TIMEOUT", &c.PredictAPI.Timeout)
	str("REDIS_HOST", &c.Redis.Host)
	str("REDIS_PORT", &c.Redis.Port)
	str("REDIS_PASSWORD", &c.Redis.Password)
	str("DB_DRIVER", &c.Database.Driver)
	str("DB_DSN", &c.Database.DSN)
	if os.Getenv("RUN_MIGRATIONS") == "true" {
		c.Database.RunMigrations = true
	}
	dur("POLL_EVERY", &c.Dashboard.PollEvery)
	num("REFRESH_PER_MINUTE", &c.Dashboard.RefreshPerMinute)
	str("VISITOR_SECRET", &c.Visitor.Secret)
	if os.Getenv("SECURE_COOKIE") == "true" {
		c.Visitor.SecureCookie = true
	}
}

func (c *Config) applyDefaults() {
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if c.Server.ShutdownTimeout <= 0 {
		c.Server.ShutdownTimeout = 10 * time.Second
	}
	if c.PredictAPI.Timeout <= 0 {
		c.PredictAPI.Timeout = 10 * time.Second
	}
	if c.PredictAPI.UserAgent == "" {
		c.PredictAPI.UserAgent = "crypto-dashboard/1.0"
	}
	if c.Database.Driver == "" {
		c.Database.Driver = "sqlite"
	}
	if c.Database.DSN == "" && c.Database.Driver == "sqlite" {
		c.Database.DSN = "data/dashboard.db"
	}
	if c.Database.ConnectTimeout <= 0 {
		c.Database.ConnectTimeout = 60 * time.Second
	}
	if c.Cache.SymbolsTTL <= 0 {
		c.Cache.SymbolsTTL = 10 * time.Minute
	}
	if c.Cache.MarketMaxTTL <= 0 {
		c.Cache.MarketMaxTTL = 5 * time.Minute
	}
	if c.Dashboard.PollEvery <= 0 {
		c.Dashboard.PollEvery = 60 * time.Second
	}
	if c.Dashboard.RefreshPerMinute <= 0 {
		c.Dashboard.RefreshPerMinute = 6
	}
	if c.Dashboard.MarketLimit <= 0 {
		c.Dashboard.MarketLimit = 200
	}
	if c.Visitor.CookieName == "" {
		c.Visitor.CookieName = "visitor"
	}
	if c.Visitor.TTL <= 0 {
		c.Visitor.TTL = 365 * 24 * time.Hour
	}
}

// RedisAddr returns host:port, or "" when Redis is not configured.
func (c *Config) RedisAddr() string {
	if c.Redis.Host == "" {
		return ""
	}
	port := c.Redis.Port
	if port == "" {
		port = "6379"
	}
	return c.Redis.Host + ":" + port
}

// Validate checks that all required fields are set.
func (c *Config) Validate() error {
	if c.PredictAPI.BaseURL == "" {
		return fmt.Errorf("predict_api.base_url is required")
	}
	if c.Database.Driver != "sqlite" && c.Database.Driver != "postgres" {
		return fmt.Errorf("database.driver must be sqlite or postgres, got %q", c.Database.Driver)
	}
	if c.Database.DSN == "" {
		return fmt.Errorf("database.dsn is required")
	}
	if c.Dashboard.MarketLimit > 500 {
		return fmt.Errorf("dashboard.market_limit must be at most 500")
	}
	return nil
}
