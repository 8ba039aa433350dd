package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	Server struct {
		Addr         string   `yaml:"addr" validate:"required"`
		AllowOrigins []string `yaml:"allow_origins"`
	} `yaml:"server"`
	DataSource struct {
		Provider      string `yaml:"provider" validate:"oneof=alphavantage yahoo mock"`
		BaseURL       string `yaml:"base_url" validate:"omitempty,url"`
		YahooBaseURL  string `yaml:"yahoo_base_url" validate:"omitempty,url"`
		APIKey        string `yaml:"api_key"`
		OutputSize    string `yaml:"output_size" validate:"omitempty,oneof=compact full"`
		RatePerMinute int    `yaml:"rate_per_minute" validate:"gte=0"`
		Attempts      int    `yaml:"attempts" validate:"gte=1,lte=10"`
		RetryDelay    string `yaml:"retry_delay"`
	} `yaml:"data_source"`
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
	} `yaml:"telegram"`
	Schedule struct {
		RefreshCron string `yaml:"refresh_cron"`
		DigestCron  string `yaml:"digest_cron"`
	} `yaml:"schedule"`
	Watchlist struct {
		StateFile   string `yaml:"state_file"`
		Concurrency int    `yaml:"concurrency" validate:"gte=1"`
	} `yaml:"watchlist"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Proxy string `yaml:"proxy" validate:"omitempty,url"`
}

// Load reads config from a YAML file, then applies environment variable overrides.
func Load(path string) (*Config, error) {
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

	// Environment variable overrides
	if v := os.Getenv("HTTP_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	if v := os.Getenv("QUOTE_PROVIDER"); v != "" {
		cfg.DataSource.Provider = v
	}
	if v := os.Getenv("ALPHAVANTAGE_BASE_URL"); v != "" {
		cfg.DataSource.BaseURL = v
	}
	if v := os.Getenv("YAHOO_BASE_URL"); v != "" {
		cfg.DataSource.YahooBaseURL = v
	}
	if v := os.Getenv("ALPHAVANTAGE_API_KEY"); v != "" {
		cfg.DataSource.APIKey = v
	}
	if v := os.Getenv("QUOTE_RATE_PER_MINUTE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.DataSource.RatePerMinute = n
		}
	}
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		cfg.Telegram.ChatID = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}
	if v := os.Getenv("REFRESH_CRON"); v != "" {
		cfg.Schedule.RefreshCron = v
	}
	if v := os.Getenv("WATCHLIST_FILE"); v != "" {
		cfg.Watchlist.StateFile = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}

	// Defaults
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = ":8080"
	}
	if len(cfg.Server.AllowOrigins) == 0 {
		cfg.Server.AllowOrigins = []string{"http://localhost:3000"}
	}
	if cfg.DataSource.Provider == "" {
		cfg.DataSource.Provider = "alphavantage"
	}
	if cfg.DataSource.RatePerMinute == 0 && cfg.DataSource.Provider == "alphavantage" {
		cfg.DataSource.RatePerMinute = 5
	}
	if cfg.DataSource.Attempts == 0 {
		cfg.DataSource.Attempts = 3
	}
	if cfg.DataSource.RetryDelay == "" {
		cfg.DataSource.RetryDelay = "2s"
	}
	if cfg.Schedule.RefreshCron == "" {
		cfg.Schedule.RefreshCron = "0 30 22 * * 1-5"
	}
	if cfg.Schedule.DigestCron == "" {
		cfg.Schedule.DigestCron = "0 0 8 * * 1-5"
	}
	if cfg.Watchlist.StateFile == "" {
		cfg.Watchlist.StateFile = "data/watchlist.json"
	}
	if cfg.Watchlist.Concurrency == 0 {
		cfg.Watchlist.Concurrency = 2
	}
	if cfg.Database.SQLitePath == "" {
		cfg.Database.SQLitePath = "data/stockdash.db"
	}

	return cfg, nil
}

// Validate checks that all required fields are set.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if c.DataSource.Provider == "alphavantage" && c.DataSource.APIKey == "" {
		return fmt.Errorf("data_source.api_key is required (set ALPHAVANTAGE_API_KEY)")
	}
	if _, err := c.RetryDelay(); err != nil {
		return fmt.Errorf("data_source.retry_delay: %w", err)
	}
	if (c.Telegram.BotToken == "") != (c.Telegram.ChatID == "") {
		return fmt.Errorf("telegram.bot_token and telegram.chat_id must be set together")
	}
	return nil
}

// TelegramEnabled reports whether chat notifications are configured.
func (c *Config) TelegramEnabled() bool {
	return c.Telegram.BotToken != "" && c.Telegram.ChatID != ""
}

// RetryDelay parses data_source.retry_delay.
func (c *Config) RetryDelay() (time.Duration, error) {
	return time.ParseDuration(c.DataSource.RetryDelay)
}
