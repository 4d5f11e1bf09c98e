package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/m3rciful/dezbot/core/bot"
	"github.com/m3rciful/dezbot/core/config"
	"github.com/m3rciful/dezbot/core/database"
	"github.com/m3rciful/dezbot/core/httpserver"
	"github.com/m3rciful/dezbot/core/logger"
	"github.com/m3rciful/dezbot/core/sink"
	coretelegram "github.com/m3rciful/dezbot/core/telegram"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("dezbot: %v", err)
	}
}

func run() error {
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	log.Printf("loading config: %s", cfgPath)
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if err := logger.InitLogger(cfg); err != nil {
		return fmt.Errorf("logger init failed: %w", err)
	}
	defer func() {
		if err := logger.Shutdown(); err != nil {
			log.Printf("logger shutdown error: %v", err)
		}
	}()

	store, err := buildSink(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.L.Warn("sink close failed", slog.String("err", err.Error()))
		}
	}()

	app := bot.New(cfg, store)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if cfg.HTTP.Listen != "" {
		srv := httpserver.New(cfg.HTTP.Listen, store)
		go func() {
			if err := srv.Run(ctx); err != nil {
				logger.HTTP.Error("server stopped",
					slog.String("event", "http.stop"),
					slog.String("err", err.Error()),
				)
			}
		}()
	}

	runOpts := app.RunOptions()
	runOpts.OnStart = func(ctx context.Context, rt coretelegram.Runtime) error {
		logger.L.With("component", "app").Info("app ready", slog.String("event", "ready"))
		return nil
	}
	runOpts.OnStop = func(ctx context.Context, rt coretelegram.Runtime) error {
		logger.L.With("component", "app").Info("shutting down...", slog.String("event", "shutdown"))
		return nil
	}

	return coretelegram.RunTelegram(ctx, runOpts)
}

func buildSink(cfg *config.Config) (sink.Sink, error) {
	switch cfg.Storage.Driver {
	case config.StoragePostgres:
		if err := database.RunMigrations(cfg.Database); err != nil {
			return nil, fmt.Errorf("migrations failed: %w", err)
		}
		db, err := database.Connect(cfg.Database)
		if err != nil {
			return nil, fmt.Errorf("database initialization failed: %w", err)
		}
		return sink.NewPostgresSink(db), nil
	default:
		return sink.NewCSVSink(cfg.Storage.CSVPath), nil
	}
}
