/*
Package config reads runtime settings from the environment.

Values come from process environment variables, optionally seeded from a
.env file by the caller. Flags given on the command line take precedence
and are applied by the caller after Load.
*/
package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds runtime configuration for the go-manga CLI.
type Config struct {
	// HTTP fetching
	ProxyURL  string        `env:"MANGA_PROXY_URL"`
	Timeout   time.Duration `env:"MANGA_TIMEOUT"    envDefault:"30s"`
	UserAgent string        `env:"MANGA_USER_AGENT"`

	// Document cache (Redis); empty disables caching.
	RedisURL string        `env:"REDIS_URL"`
	CacheTTL time.Duration `env:"CACHE_TTL" envDefault:"1h"`

	// Notifications; each writer is enabled when its settings are present.
	DiscordWebhookURL string `env:"DISCORD_WEBHOOK_URL"`
	TelegramToken     string `env:"TELEGRAM_TOKEN"`
	TelegramChatID    string `env:"TELEGRAM_CHAT_ID"`

	// Logging
	LogLevel  string `env:"LOG_LEVEL"  envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"text"`
}

// Load parses environment variables into a Config.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse environment variables: %w", err)
	}
	if _, err := cfg.Level(); err != nil {
		return nil, err
	}
	switch cfg.LogFormat {
	case "text", "json":
	default:
		return nil, fmt.Errorf("config: LOG_FORMAT must be text or json, got %q", cfg.LogFormat)
	}
	return cfg, nil
}

// Level returns LogLevel as a slog.Level.
func (c *Config) Level() (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.ToUpper(strings.TrimSpace(c.LogLevel)))); err != nil {
		return 0, fmt.Errorf("config: invalid LOG_LEVEL %q: %w", c.LogLevel, err)
	}
	return l, nil
}
