// Package config handles application configuration from environment variables.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"church_site/internal/filter"
	"church_site/internal/i18n"
)

// Config holds the application configuration.
type Config struct {
	TelegramBotToken string
	DatabasePath     string
	LogLevel         string
	HTTPAddr         string
	ContentPath      string
	SermonFeedURL    string
	SermonSkipWords  []string
	SermonSkipRegex  []string
	SermonSyncEvery  time.Duration
	ReminderWindow   time.Duration
	SessionIdle      time.Duration
	DefaultLang      i18n.Lang
	AllowedUsers     []int64
	Environment      string
}

// Load reads configuration from environment variables. Outside production a
// .env file in the working directory is loaded first if present.
func Load() (*Config, error) {
	env := os.Getenv("ENV")
	if strings.ToLower(env) != "production" {
		if err := godotenv.Load(); err != nil {
			slog.Debug("no .env file found, using environment variables")
		}
	}

	syncMinutes, err := minutes("SERMON_SYNC_MINUTES", 60, 1, 1440)
	if err != nil {
		return nil, err
	}
	reminderMinutes, err := minutes("REMINDER_WINDOW_MINUTES", 120, 0, 7*24*60)
	if err != nil {
		return nil, err
	}
	idleMinutes, err := minutes("SESSION_IDLE_MINUTES", 30, 0, 24*60)
	if err != nil {
		return nil, err
	}

	lang := i18n.English
	if raw := os.Getenv("DEFAULT_LANG"); raw != "" {
		l, err := i18n.Parse(raw)
		if err != nil {
			return nil, fmt.Errorf("parse DEFAULT_LANG: %w", err)
		}
		lang = l
	}

	logLevel := getEnv("LOG_LEVEL", "info")
	switch logLevel {
	case "debug", "info", "warn", "error":
	default:
		return nil, fmt.Errorf("invalid LOG_LEVEL %q", logLevel)
	}

	skipRegex := splitList(os.Getenv("SERMON_SKIP_PATTERNS"), ";")
	for _, p := range skipRegex {
		if err := filter.ValidateRegex(p); err != nil {
			return nil, fmt.Errorf("SERMON_SKIP_PATTERNS: %w", err)
		}
	}

	var allowedUsers []int64
	if raw := os.Getenv("ALLOWED_USERS"); raw != "" {
		for _, s := range strings.Split(raw, ",") {
			s = strings.TrimSpace(s)
			if s == "" {
				continue
			}
			uid, err := strconv.ParseInt(s, 10, 64)
			if err != nil {
				return nil, fmt.Errorf("invalid user ID %q in ALLOWED_USERS: %w", s, err)
			}
			allowedUsers = append(allowedUsers, uid)
		}
	}

	return &Config{
		TelegramBotToken: os.Getenv("TELEGRAM_BOT_TOKEN"),
		DatabasePath:     getEnv("DATABASE_PATH", "./data/church.db"),
		LogLevel:         logLevel,
		HTTPAddr:         getEnv("HTTP_ADDR", ":8080"),
		ContentPath:      os.Getenv("CONTENT_PATH"),
		SermonFeedURL:    os.Getenv("SERMON_FEED_URL"),
		SermonSkipWords:  splitList(os.Getenv("SERMON_SKIP_WORDS"), ","),
		SermonSkipRegex:  skipRegex,
		SermonSyncEvery:  time.Duration(syncMinutes) * time.Minute,
		ReminderWindow:   time.Duration(reminderMinutes) * time.Minute,
		SessionIdle:      time.Duration(idleMinutes) * time.Minute,
		DefaultLang:      lang,
		AllowedUsers:     allowedUsers,
		Environment:      env,
	}, nil
}

// BotEnabled reports whether a Telegram token was configured.
func (c *Config) BotEnabled() bool {
	return c.TelegramBotToken != ""
}

// SermonRules returns the feed filter rules: skip words match the title,
// skip patterns match title and description.
func (c *Config) SermonRules() []filter.Rule {
	rules := filter.Words(filter.Exclude, filter.ScopeTitle, c.SermonSkipWords)
	for _, p := range c.SermonSkipRegex {
		rules = append(rules, filter.Rule{Kind: filter.ExcludeRe, Scope: filter.ScopeAll, Value: p})
	}
	return rules
}

// IsUserAllowed checks whether a user ID is in the allow list.
// Returns true if the allow list is empty (all users permitted).
func (c *Config) IsUserAllowed(userID int64) bool {
	if len(c.AllowedUsers) == 0 {
		return true
	}
	for _, id := range c.AllowedUsers {
		if id == userID {
			return true
		}
	}
	return false
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func minutes(key string, fallback, lo, hi int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, raw, err)
	}
	if n < lo || n > hi {
		return 0, fmt.Errorf("%s must be between %d and %d, got %d", key, lo, hi, n)
	}
	return n, nil
}

func splitList(raw, sep string) []string {
	var out []string
	for _, s := range strings.Split(raw, sep) {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
