package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds the application configuration.
type Config struct {
	ServerPort string `mapstructure:"SERVER_PORT"`
	LogLevel   string `mapstructure:"LOG_LEVEL"`

	SearchURL     string `mapstructure:"SEARCH_URL"`
	ChromePath    string `mapstructure:"CHROME_PATH"`
	Headless      bool   `mapstructure:"HEADLESS"`
	UserDataDir   string `mapstructure:"USER_DATA_DIR"`
	Zip           string `mapstructure:"ZIP"`
	RankBy        string `mapstructure:"RANK_BY"`
	MarginOfError int    `mapstructure:"MARGIN_OF_ERROR"`

	// MaxPageRetries caps retries of one page; 0 keeps retrying until the page is complete.
	MaxPageRetries      int     `mapstructure:"MAX_PAGE_RETRIES"`
	RetryBackoffMS      int     `mapstructure:"RETRY_BACKOFF_MS"`
	PageRateLimit       float64 `mapstructure:"PAGE_RATE_LIMIT"` // navigations per second, 0 = unlimited
	HeadlineTimeoutSec  int     `mapstructure:"HEADLINE_TIMEOUT_SECONDS"`
	ListingsTimeoutSec  int     `mapstructure:"LISTINGS_TIMEOUT_SECONDS"`
	LocationSettleSec   int     `mapstructure:"LOCATION_SETTLE_SECONDS"`
	LocationLoadWaitSec int     `mapstructure:"LOCATION_LOAD_WAIT_SECONDS"`

	OutputDir string `mapstructure:"OUTPUT_DIR"`
	ListsDir  string `mapstructure:"LISTS_DIR"`

	PostgresURL   string `mapstructure:"POSTGRES_URL"`
	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	RedisDB       int    `mapstructure:"REDIS_DB"`
}

var keys = []string{
	"SERVER_PORT", "LOG_LEVEL", "SEARCH_URL", "CHROME_PATH", "HEADLESS", "USER_DATA_DIR",
	"ZIP", "RANK_BY", "MARGIN_OF_ERROR", "MAX_PAGE_RETRIES", "RETRY_BACKOFF_MS",
	"PAGE_RATE_LIMIT", "HEADLINE_TIMEOUT_SECONDS", "LISTINGS_TIMEOUT_SECONDS",
	"LOCATION_SETTLE_SECONDS", "LOCATION_LOAD_WAIT_SECONDS", "OUTPUT_DIR", "LISTS_DIR",
	"POSTGRES_URL", "REDIS_ADDR", "REDIS_PASSWORD", "REDIS_DB",
}

// Load reads configuration from an optional .env file and environment variables.
func Load(envFile string) (*Config, error) {
	v := viper.New()
	if envFile != "" {
		v.SetConfigFile(envFile)
		v.SetConfigType("env")
		// Missing file is fine: environment variables alone are enough.
		_ = v.ReadInConfig()
	}
	v.AutomaticEnv()
	// AutomaticEnv only applies to known keys during Unmarshal.
	for _, k := range keys {
		_ = v.BindEnv(k)
	}

	v.SetDefault("SERVER_PORT", "8050")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("SEARCH_URL", "https://www.marktguru.de/search")
	v.SetDefault("HEADLESS", true)
	v.SetDefault("USER_DATA_DIR", "Chrome")
	v.SetDefault("ZIP", "10713")
	v.SetDefault("RANK_BY", "Item")
	v.SetDefault("MARGIN_OF_ERROR", 0)
	v.SetDefault("MAX_PAGE_RETRIES", 0)
	v.SetDefault("RETRY_BACKOFF_MS", 500)
	v.SetDefault("PAGE_RATE_LIMIT", 0.0)
	v.SetDefault("HEADLINE_TIMEOUT_SECONDS", 10)
	v.SetDefault("LISTINGS_TIMEOUT_SECONDS", 120)
	v.SetDefault("LOCATION_SETTLE_SECONDS", 5)
	v.SetDefault("LOCATION_LOAD_WAIT_SECONDS", 15)
	v.SetDefault("OUTPUT_DIR", ".")
	v.SetDefault("LISTS_DIR", ".")
	v.SetDefault("REDIS_DB", 0)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if cfg.MarginOfError < 0 {
		return nil, fmt.Errorf("MARGIN_OF_ERROR must be >= 0, got %d", cfg.MarginOfError)
	}
	return &cfg, nil
}

func (c *Config) HeadlineTimeout() time.Duration {
	return time.Duration(c.HeadlineTimeoutSec) * time.Second
}

func (c *Config) ListingsTimeout() time.Duration {
	return time.Duration(c.ListingsTimeoutSec) * time.Second
}

func (c *Config) LocationSettle() time.Duration {
	return time.Duration(c.LocationSettleSec) * time.Second
}

func (c *Config) LocationLoadWait() time.Duration {
	return time.Duration(c.LocationLoadWaitSec) * time.Second
}

func (c *Config) RetryBackoff() time.Duration {
	return time.Duration(c.RetryBackoffMS) * time.Millisecond
}
