package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"ordercore/cmd"
	"ordercore/config"
	"ordercore/pkg/logger"
)

func main() {
	if err := run(); err != nil {
		fmt.Printf("Server startup failed: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var configPath string
	flag.StringVar(&configPath, "config", "", "Path to config file")
	flag.Parse()

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	app, err := cmd.NewBuilder(cfg).Build(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	return app.Run(ctx)
}
