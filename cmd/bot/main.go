package main

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-telegram/bot"

	taskpoint "github.com/hmdsef/taskpoint"
	"github.com/hmdsef/taskpoint/internal/config"
	"github.com/hmdsef/taskpoint/internal/repository"
	"github.com/hmdsef/taskpoint/internal/service"
	"github.com/hmdsef/taskpoint/internal/telegram"
)

func main() {
	// Setup structured logging
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Setup context with graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Connect to database
	pool, err := repository.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	// Run migrations
	migrationsFS, err := fs.Sub(taskpoint.MigrationsFS, "migrations")
	if err != nil {
		slog.Error("failed to load embedded migrations", "error", err)
		os.Exit(1)
	}
	if err := repository.RunMigrations(cfg.DatabaseURL, migrationsFS); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	// Create bot for event delivery
	b, err := bot.New(cfg.BotToken)
	if err != nil {
		slog.Error("failed to create bot", "error", err)
		os.Exit(1)
	}
	if cfg.DropPendingUpdates {
		if _, err := b.DeleteWebhook(ctx, &bot.DeleteWebhookParams{DropPendingUpdates: true}); err != nil {
			slog.Warn("failed to drop pending updates", "error", err)
		}
	}

	notifier := telegram.NewNotifier(b, cfg)
	links := service.NewHostLinkChecker(logger, true)

	// Restore state and assemble the engine
	engine, err := service.New(ctx, cfg, repository.NewSnapshotStore(pool), links, notifier, logger)
	if err != nil {
		slog.Error("failed to start engine", "error", err)
		os.Exit(1)
	}

	// Start background sweeps
	sweeper := service.NewSweeper(logger, config.SweepJitter, engine.SweepTasks()...)
	sweeper.Start(ctx)

	slog.Info("engine started")
	<-ctx.Done()

	// Graceful shutdown: wait out the sweeps, then write a final snapshot.
	sweeper.Wait()

	flushCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := engine.Flush(flushCtx); err != nil {
		slog.Error("final flush failed", "error", err)
		os.Exit(1)
	}

	slog.Info("engine stopped gracefully")
}
