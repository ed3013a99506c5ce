package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"
	"syscall"
	"time"

	"church_site/internal/bot"
	"church_site/internal/capability"
	"church_site/internal/config"
	"church_site/internal/content"
	"church_site/internal/filter"
	"church_site/internal/notify"
	"church_site/internal/scheduler"
	"church_site/internal/service"
	"church_site/internal/storage"
	"church_site/internal/web"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", "error", err)
		os.Exit(1)
	}

	log := newLogger(cfg.LogLevel)

	if dir := filepath.Dir(cfg.DatabasePath); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			log.Error("create data directory", "path", dir, "error", err)
			os.Exit(1)
		}
	}

	store, err := storage.NewSQLite(cfg.DatabasePath)
	if err != nil {
		log.Error("open database", "path", cfg.DatabasePath, "error", err)
		os.Exit(1)
	}
	defer func() { _ = store.Close() }()

	catalog, err := loadCatalog(cfg.ContentPath)
	if err != nil {
		log.Error("load content", "path", cfg.ContentPath, "error", err)
		os.Exit(1)
	}
	contentStore := content.NewStore(catalog)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if cfg.ContentPath != "" {
		if err := contentStore.Watch(ctx, cfg.ContentPath, log); err != nil {
			log.Warn("content hot reload disabled", "path", cfg.ContentPath, "error", err)
		}
	}

	notifier := notify.New(store, log)
	svc := service.New(service.Deps{
		Content:     contentStore,
		Store:       store,
		Notifier:    notifier,
		Speaker:     capability.NopSpeaker{},
		Logger:      log,
		DefaultLang: cfg.DefaultLang,
	})

	var wg sync.WaitGroup

	if cfg.BotEnabled() {
		b, err := bot.New(cfg.TelegramBotToken, svc, cfg, log)
		if err != nil {
			log.Error("create bot", "error", err)
			os.Exit(1)
		}
		notifier.Register(bot.Scheme, b)

		wg.Add(1)
		go func() {
			defer wg.Done()
			log.Info("starting telegram bot")
			b.Run(ctx)
		}()
	} else {
		log.Info("TELEGRAM_BOT_TOKEN not set, telegram bot disabled")
	}

	sermonFilter, err := filter.New(cfg.SermonRules())
	if err != nil {
		log.Error("invalid sermon filter", "error", err)
		os.Exit(1)
	}
	log.Debug("sermon feed filter", "rules", sermonFilter.Len())
	sched := scheduler.New(store, svc, scheduler.Options{
		FeedURL:        cfg.SermonFeedURL,
		Filter:         sermonFilter,
		SyncEvery:      cfg.SermonSyncEvery,
		ReminderWindow: cfg.ReminderWindow,
		SessionIdle:    cfg.SessionIdle,
	}, log)
	wg.Add(1)
	go func() {
		defer wg.Done()
		sched.Run(ctx)
	}()

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           web.New(svc, store, log).Routes(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	go func() {
		log.Info("starting http server", "addr", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("http server", "error", err)
			cancel()
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("http shutdown", "error", err)
	}
	wg.Wait()

	log.Info("stopped")
}

// loadCatalog returns the embedded catalog, overlaid with path when set.
func loadCatalog(path string) (*content.Catalog, error) {
	if path == "" {
		return content.Default()
	}
	return content.Load(path)
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}
