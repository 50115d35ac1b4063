// Package config handles application configuration from environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Defaults for optional settings.
const (
	DefaultFeedURL         = "https://lobste.rs/rss"
	DefaultStatePath       = "state.json"
	DefaultSubscribersPath = "subscribers.json"
	DefaultMaxItemsPerRun  = 5
	DefaultRequestTimeout  = 20 * time.Second
)

// Config holds the application configuration.
type Config struct {
	TelegramBotToken     string
	TelegraphAccessToken string
	DevChatID            int64
	FeedURL              string
	StatePath            string
	SubscribersPath      string
	MaxItemsPerRun       int
	RequestTimeout       time.Duration
	LogLevel             string
}

// Load reads configuration from environment variables.
// Missing required secrets are reported before any network call is made.
func Load() (*Config, error) {
	botToken := os.Getenv("TELEGRAM_BOT_TOKEN")
	if botToken == "" {
		return nil, fmt.Errorf("TELEGRAM_BOT_TOKEN is required")
	}

	telegraphToken := os.Getenv("TELEGRAPH_ACCESS_TOKEN")
	if telegraphToken == "" {
		return nil, fmt.Errorf("TELEGRAPH_ACCESS_TOKEN is required")
	}

	cfg := &Config{
		TelegramBotToken:     botToken,
		TelegraphAccessToken: telegraphToken,
		FeedURL:              envOr("FEED_URL", DefaultFeedURL),
		StatePath:            envOr("STATE_PATH", DefaultStatePath),
		SubscribersPath:      envOr("SUBSCRIBERS_PATH", DefaultSubscribersPath),
		MaxItemsPerRun:       DefaultMaxItemsPerRun,
		RequestTimeout:       DefaultRequestTimeout,
		LogLevel:             envOr("LOG_LEVEL", "info"),
	}

	if raw := os.Getenv("TELEGRAM_DEV_CHAT_ID"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid TELEGRAM_DEV_CHAT_ID %q: %w", raw, err)
		}
		cfg.DevChatID = id
	}

	if raw := os.Getenv("MAX_ITEMS_PER_RUN"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return nil, fmt.Errorf("MAX_ITEMS_PER_RUN must be a positive integer, got %q", raw)
		}
		cfg.MaxItemsPerRun = n
	}

	if raw := os.Getenv("REQUEST_TIMEOUT"); raw != "" {
		d, err := parseTimeout(raw)
		if err != nil {
			return nil, err
		}
		cfg.RequestTimeout = d
	}

	return cfg, nil
}

// parseTimeout accepts either a Go duration ("20s", "1m") or a bare
// number of seconds ("20").
func parseTimeout(raw string) (time.Duration, error) {
	if secs, err := strconv.Atoi(raw); err == nil {
		if secs < 1 {
			return 0, fmt.Errorf("REQUEST_TIMEOUT must be positive, got %q", raw)
		}
		return time.Duration(secs) * time.Second, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid REQUEST_TIMEOUT %q", raw)
	}
	return d, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
