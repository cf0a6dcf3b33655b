package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds application configuration. RequiredChannel is the @username
// or numeric id of the revival channel.
type Config struct {
	TelegramToken    string        `env:"TELEGRAM_BOT_TOKEN"`
	DatabasePath     string        `env:"DATABASE_PATH" envDefault:"./otter_bot.db"`
	DefaultTimezone  string        `env:"DEFAULT_TIMEZONE" envDefault:"Asia/Vladivostok"`
	RequiredChannel  string        `env:"REQUIRED_CHANNEL"`
	ReminderInterval time.Duration `env:"REMINDER_INTERVAL" envDefault:"60s"`

	location *time.Location
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Try to load .env file (ignore error if not exists)
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse env: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.TelegramToken == "" {
		return errors.New("TELEGRAM_BOT_TOKEN is not set")
	}
	if c.ReminderInterval <= 0 {
		return fmt.Errorf("invalid REMINDER_INTERVAL %s", c.ReminderInterval)
	}

	loc, err := time.LoadLocation(c.DefaultTimezone)
	if err != nil {
		return fmt.Errorf("invalid DEFAULT_TIMEZONE %q: %w", c.DefaultTimezone, err)
	}
	c.location = loc
	return nil
}

// Location is the timezone used when a user's own timezone cannot be loaded
func (c *Config) Location() *time.Location {
	if c.location == nil {
		return time.UTC
	}
	return c.location
}

// RevivalEnabled reports whether channel revivals can be verified
func (c *Config) RevivalEnabled() bool {
	return c.RequiredChannel != ""
}
