package srv

import (
	"log/slog"
	"net/url"
	"os"
	"strconv"
	"time"
	_ "time/tzdata"

	"github.com/webframp/docstracker/feed"
)

// Config holds all configurable server settings.
type Config struct {
	// Feed
	FeedSource string // URL or local path of changes.json
	FeedWatch  bool   // reload a local feed file when it changes
	Timezone   string // IANA zone used to display and search dates

	// Server
	Hostname string
	GuideURL string // linked from the info banner; no banner when empty

	// API Rate Limiting
	APIRateLimit    int           // requests per interval
	APIRateInterval time.Duration // interval for rate limit
	APIRateBurst    int           // max burst capacity
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		FeedSource: feed.DefaultSource,
		FeedWatch:  true,
		Timezone:   "UTC",
		Hostname:   "localhost",

		// API: 30 requests per minute, burst of 10
		APIRateLimit:    30,
		APIRateInterval: time.Minute,
		APIRateBurst:    10,
	}
}

// ConfigFromEnv returns a Config populated from environment variables,
// falling back to defaults for unset values.
func ConfigFromEnv() Config {
	cfg := DefaultConfig()

	if v := os.Getenv("FEED_SOURCE"); v != "" {
		cfg.FeedSource = v
	}

	if v := os.Getenv("GUIDE_URL"); v != "" {
		if u, err := url.Parse(v); err == nil && (u.Scheme == "http" || u.Scheme == "https") {
			cfg.GuideURL = v
		}
	}

	if v := os.Getenv("FEED_WATCH"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.FeedWatch = b
		}
	}

	if v := os.Getenv("FEED_TIMEZONE"); v != "" {
		if _, err := time.LoadLocation(v); err == nil {
			cfg.Timezone = v
		}
	}

	if v := os.Getenv("API_RATE_LIMIT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.APIRateLimit = n
		}
	}

	if v := os.Getenv("API_RATE_INTERVAL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			cfg.APIRateInterval = d
		}
	}

	if v := os.Getenv("API_RATE_BURST"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.APIRateBurst = n
		}
	}

	return cfg
}

// Location resolves Timezone, falling back to UTC.
func (c Config) Location() *time.Location {
	if c.Timezone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		slog.Warn("unknown timezone, using UTC", "timezone", c.Timezone, "error", err)
		return time.UTC
	}
	return loc
}
