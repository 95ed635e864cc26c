package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"presupuesto/internal/amqp"
	"presupuesto/internal/config"
	applog "presupuesto/internal/log"
	"presupuesto/internal/services"
	"presupuesto/internal/storage"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	// Setup structured logging
	logger := applog.New(applog.Config{Level: slog.LevelInfo, Component: applog.ComponentWorker})
	applog.SetDefault(logger)

	logger.Info("Starting presupuesto-worker")

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
	if err != nil {
		logger.Error("Failed to initialize SQLite repository", "error", err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}
	defer repo.Close()

	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", "error", err)
		os.Exit(1)
	}
	defer amqpClient.Close()

	processor := services.NewReportProcessor(repo)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Refresh the current month on startup so a fresh database has a
	// snapshot before the first event arrives.
	startupCtx, startupCancel := context.WithTimeout(ctx, 30*time.Second)
	now := time.Now()
	if err := processor.RefreshMonth(startupCtx, now.Year(), int(now.Month())); err != nil {
		logger.Error("Startup snapshot refresh failed", "error", err)
		// Don't exit - continue with normal operation
	}
	startupCancel()

	g, ctx := errgroup.WithContext(ctx)

	// Event consumption loop
	g.Go(func() error {
		err := amqpClient.ConsumeReportEvents(ctx, func(event *amqp.ReportEvent) error {
			handleCtx, handleCancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer handleCancel()
			return processor.HandleEvent(handleCtx, event)
		})
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	})

	// Periodic sweep for events lost while the worker was down
	g.Go(func() error {
		ticker := time.NewTicker(cfg.SnapshotInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return nil
			case <-ticker.C:
				processor.Sweep(ctx)
			}
		}
	})

	if err := g.Wait(); err != nil {
		logger.Error("Worker stopped with error", "error", err)
		os.Exit(1)
	}

	logger.Info("Worker shutdown complete")
}
