package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"ordercore/config"
	"ordercore/domain/event"
	"ordercore/infrastructure/persistence/factory"
	"ordercore/infrastructure/persistence/gormdb"
	"ordercore/infrastructure/persistence/retry"
	"ordercore/pkg/logger"

	"go.uber.org/zap"
)

func main() {
	if err := run(); err != nil {
		fmt.Printf("Worker startup failed: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := parseConfigPath()

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if err := logger.Init(&cfg.Log, cfg.App.Env); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	if !cfg.Worker.Enabled {
		logger.Info("Outbox worker is disabled by config; exiting")
		return nil
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	backend, err := factory.New(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to open backend: %w", err)
	}
	defer backend.Close(context.Background())

	if backend.Gorm == nil {
		return fmt.Errorf("outbox worker requires database.type gorm, got %q", cfg.Database.Type)
	}

	worker, err := gormdb.NewOutboxWorker(
		gormdb.NewOutboxRepository(backend.Gorm),
		event.LoggingPublisher{},
		cfg.Worker.PollInterval,
		cfg.Worker.BatchSize,
		cfg.Worker.MaxRetries,
	)
	if err != nil {
		return fmt.Errorf("failed to create outbox worker: %w", err)
	}
	worker.SetRetryConfig(retry.FromAppConfig(cfg))

	logger.Info("Outbox worker started",
		zap.Duration("poll_interval", cfg.Worker.PollInterval),
		zap.Int("batch_size", cfg.Worker.BatchSize),
		zap.Int("max_retries", cfg.Worker.MaxRetries),
	)

	if err := worker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("outbox worker exited with error: %w", err)
	}

	logger.Info("Outbox worker stopped")
	return nil
}

func parseConfigPath() string {
	var configPath string
	flag.StringVar(&configPath, "config", "", "Path to config file")
	flag.Parse()
	return configPath
}
