package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"feedlinker/internal/bot"
	"feedlinker/internal/config"
	"feedlinker/internal/registry"
	"feedlinker/internal/scheduler"
	"feedlinker/internal/source"
	"feedlinker/internal/store"
)

func main() {
	logLevel := new(slog.LevelVar)
	log := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel}))
	slog.SetDefault(log)

	start := time.Now()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		log.ErrorContext(ctx, "Failed to load config",
			"error", err)

		return
	}

	level, err := cfg.SlogLevel()
	if err != nil {
		log.WarnContext(ctx, "Invalid log level so info will be used",
			"error", err,
			"LOG_LEVEL", cfg.LogLevel)
	}
	logLevel.Set(level)

	if cfg.Token == "" {
		log.ErrorContext(ctx, "TOKEN is required",
			"envVar", "TOKEN")

		return
	}

	reg, err := initRegistry(ctx, cfg, log)
	if err != nil {
		log.ErrorContext(ctx, "Failed to initialize store",
			"error", err,
			"backend", cfg.StoreBackend,
			"storePath", cfg.StorePath)

		return
	}
	defer func() {
		if err = reg.Close(); err != nil {
			log.ErrorContext(ctx, "Failed to close store",
				"error", err,
				"backend", cfg.StoreBackend,
				"storePath", cfg.StorePath)
		}
	}()
	log.InfoContext(ctx, "Store is initialized",
		"backend", cfg.StoreBackend,
		"storePath", cfg.StorePath,
		"rsshubBaseURL", cfg.RSSHubBaseURL)

	botInst, err := bot.New(cfg.Token, reg, cfg.AllowedUsers, log)
	if err != nil {
		log.ErrorContext(ctx, "Failed to initialize bot",
			"error", err,
			"allowedUsersCount", len(cfg.AllowedUsers))

		return
	}
	log.InfoContext(ctx, "Bot is initialized",
		"allowedUsersCount", len(cfg.AllowedUsers))

	if cfg.ExportSchedule != "" {
		sched := scheduler.New(ctx, reg, cfg.ExportSchedule, cfg.ExportPath, log)

		if err = sched.Start(); err != nil {
			log.ErrorContext(ctx, "Failed to start scheduler",
				"error", err,
				"spec", cfg.ExportSchedule,
				"timezone", scheduler.Timezone)

			return
		}
		defer sched.Stop()
		log.InfoContext(ctx, "Scheduler is started",
			"spec", cfg.ExportSchedule,
			"exportPath", cfg.ExportPath,
			"timezone", scheduler.Timezone)
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		botInst.Start(ctx)
	}()
	log.InfoContext(ctx, "Bot is started",
		"updateTimeoutSeconds", bot.BotUpdateTimeout)

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	sig := <-c
	log.InfoContext(ctx, "Shutdown signal is received",
		"signal", sig.String())
	cancel()

	botInst.Stop()
	<-done

	log.InfoContext(ctx, "Bot is stopped",
		"signal", sig.String(),
		"uptimeSeconds", time.Since(start).Seconds())
}

func initRegistry(ctx context.Context, cfg config.Config, log *slog.Logger) (*registry.Registry, error) {
	deriver := source.NewDeriver(cfg.RSSHubBaseURL)

	s, err := store.Open(ctx, cfg.StoreBackend, cfg.StorePath, deriver, log)
	if err != nil {
		return nil, err
	}

	return registry.New(s, deriver, cfg.OPMLTitle, log), nil
}
