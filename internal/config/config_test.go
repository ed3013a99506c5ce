package config

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"church_site/internal/filter"
	"church_site/internal/i18n"
)

var envKeys = []string{
	"TELEGRAM_BOT_TOKEN", "DATABASE_PATH", "LOG_LEVEL", "HTTP_ADDR", "CONTENT_PATH",
	"SERMON_FEED_URL", "SERMON_SKIP_WORDS", "SERMON_SKIP_PATTERNS", "SERMON_SYNC_MINUTES", "REMINDER_WINDOW_MINUTES",
	"SESSION_IDLE_MINUTES", "DEFAULT_LANG", "ALLOWED_USERS",
}

func defaults() *Config {
	return &Config{
		DatabasePath:    "./data/church.db",
		LogLevel:        "info",
		HTTPAddr:        ":8080",
		SermonSyncEvery: time.Hour,
		ReminderWindow:  2 * time.Hour,
		SessionIdle:     30 * time.Minute,
		DefaultLang:     i18n.English,
		Environment:     "production",
	}
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		want    func(c *Config)
		wantErr bool
	}{
		{
			name: "defaults applied",
			env:  map[string]string{},
			want: func(c *Config) {},
		},
		{
			name: "all values set",
			env: map[string]string{
				"TELEGRAM_BOT_TOKEN":      "tok",
				"DATABASE_PATH":           "/tmp/church.db",
				"LOG_LEVEL":               "debug",
				"HTTP_ADDR":               "127.0.0.1:9000",
				"CONTENT_PATH":            "/etc/church/content.yaml",
				"SERMON_FEED_URL":         "https://www.youtube.com/feeds/videos.xml?channel_id=abc",
				"SERMON_SKIP_WORDS":       "#shorts, livestream ,",
				"SERMON_SKIP_PATTERNS":    `^live\b; teaser|trailer`,
				"SERMON_SYNC_MINUTES":     "15",
				"REMINDER_WINDOW_MINUTES": "0",
				"SESSION_IDLE_MINUTES":    "10",
				"DEFAULT_LANG":            "yo",
				"ALLOWED_USERS":           "111,222,333",
			},
			want: func(c *Config) {
				c.TelegramBotToken = "tok"
				c.DatabasePath = "/tmp/church.db"
				c.LogLevel = "debug"
				c.HTTPAddr = "127.0.0.1:9000"
				c.ContentPath = "/etc/church/content.yaml"
				c.SermonFeedURL = "https://www.youtube.com/feeds/videos.xml?channel_id=abc"
				c.SermonSkipWords = []string{"#shorts", "livestream"}
				c.SermonSkipRegex = []string{`^live\b`, "teaser|trailer"}
				c.SermonSyncEvery = 15 * time.Minute
				c.ReminderWindow = 0
				c.SessionIdle = 10 * time.Minute
				c.DefaultLang = i18n.Yoruba
				c.AllowedUsers = []int64{111, 222, 333}
			},
		},
		{
			name: "allowed users with spaces",
			env:  map[string]string{"ALLOWED_USERS": " 10 , 20 , "},
			want: func(c *Config) { c.AllowedUsers = []int64{10, 20} },
		},
		{
			name:    "invalid user id",
			env:     map[string]string{"ALLOWED_USERS": "123,abc"},
			wantErr: true,
		},
		{
			name:    "sync interval out of range",
			env:     map[string]string{"SERMON_SYNC_MINUTES": "0"},
			wantErr: true,
		},
		{
			name:    "sync interval not a number",
			env:     map[string]string{"SERMON_SYNC_MINUTES": "hourly"},
			wantErr: true,
		},
		{
			name:    "negative idle",
			env:     map[string]string{"SESSION_IDLE_MINUTES": "-5"},
			wantErr: true,
		},
		{
			name:    "unsupported language",
			env:     map[string]string{"DEFAULT_LANG": "fr"},
			wantErr: true,
		},
		{
			name:    "invalid skip pattern",
			env:     map[string]string{"SERMON_SKIP_PATTERNS": "[unclosed"},
			wantErr: true,
		},
		{
			name:    "unknown log level",
			env:     map[string]string{"LOG_LEVEL": "loud"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Skip .env loading so the host working directory cannot leak in.
			t.Setenv("ENV", "production")
			for _, key := range envKeys {
				t.Setenv(key, "")
			}
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			got, err := Load()
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			want := defaults()
			tt.want(want)
			if diff := cmp.Diff(want, got); diff != "" {
				t.Errorf("Load() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestBotEnabled(t *testing.T) {
	if (&Config{}).BotEnabled() {
		t.Error("empty token should disable the bot")
	}
	if !(&Config{TelegramBotToken: "tok"}).BotEnabled() {
		t.Error("token should enable the bot")
	}
}

func TestIsUserAllowed(t *testing.T) {
	tests := []struct {
		name         string
		allowedUsers []int64
		userID       int64
		want         bool
	}{
		{
			name:         "empty list allows everyone",
			allowedUsers: nil,
			userID:       42,
			want:         true,
		},
		{
			name:         "user in list",
			allowedUsers: []int64{10, 20, 30},
			userID:       20,
			want:         true,
		},
		{
			name:         "user not in list",
			allowedUsers: []int64{10, 20, 30},
			userID:       99,
			want:         false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{AllowedUsers: tt.allowedUsers}
			got := cfg.IsUserAllowed(tt.userID)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("IsUserAllowed() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestSermonRules(t *testing.T) {
	c := &Config{
		SermonSkipWords: []string{"#shorts"},
		SermonSkipRegex: []string{`^live\b`},
	}
	want := []filter.Rule{
		{Kind: filter.Exclude, Scope: filter.ScopeTitle, Value: "#shorts"},
		{Kind: filter.ExcludeRe, Scope: filter.ScopeAll, Value: `^live\b`},
	}
	if diff := cmp.Diff(want, c.SermonRules()); diff != "" {
		t.Errorf("SermonRules (-want +got):\n%s", diff)
	}

	if got := (&Config{}).SermonRules(); len(got) != 0 {
		t.Errorf("expected no rules, got %v", got)
	}
}
