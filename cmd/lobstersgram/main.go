package main

import (
	"context"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/mgaitan/lobstersgram/internal/bot"
	"github.com/mgaitan/lobstersgram/internal/config"
	"github.com/mgaitan/lobstersgram/internal/extract"
	"github.com/mgaitan/lobstersgram/internal/fetcher"
	"github.com/mgaitan/lobstersgram/internal/runner"
	"github.com/mgaitan/lobstersgram/internal/storage"
	"github.com/mgaitan/lobstersgram/internal/telegraph"
)

func main() {
	readMessages := flag.Bool("read-messages", false, "apply pending subscribe/unsubscribe commands instead of relaying articles")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", "error", err)
		os.Exit(1)
	}

	log := newLogger(cfg.LogLevel)

	client := &http.Client{Timeout: cfg.RequestTimeout}

	b, err := bot.New(cfg.TelegramBotToken, client, log)
	if err != nil {
		log.Error("create bot", "error", err)
		os.Exit(1)
	}

	store := storage.NewFile(cfg.StatePath, cfg.SubscribersPath)
	r := runner.New(
		fetcher.New(client, cfg.FeedURL),
		extract.New(client),
		telegraph.New(client, cfg.TelegraphAccessToken),
		b,
		store,
		store,
		cfg,
		log,
	)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if *readMessages {
		err = r.ReadMessages(ctx)
	} else {
		err = r.Run(ctx)
	}
	if err != nil {
		log.Error("run failed", "error", err)
		os.Exit(1)
	}
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
