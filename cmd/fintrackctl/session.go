package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"fintrack/internal/cli"
	"fintrack/internal/config"
	"fintrack/internal/log"

	"github.com/google/subcommands"
)

// loadConfig reads .env and the environment. Logs go to stderr so that
// command output stays clean.
func loadConfig() (*config.Config, *log.Logger, error) {
	cli.LoadEnvFile()
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}
	level := log.ParseLevel(cfg.LogLevel)
	if level < slog.LevelWarn {
		level = slog.LevelWarn
	}
	logger := log.New(log.Config{Level: level, Output: os.Stderr, Component: log.ComponentApp})
	log.SetDefault(logger)
	return cfg, logger, nil
}

// withApp opens the ledger, runs fn and closes everything afterwards.
func withApp(ctx context.Context, fn func(app *cli.App) error) subcommands.ExitStatus {
	cfg, logger, err := loadConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	app, err := cli.Bootstrap(ctx, logger, cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	defer app.Close()

	if err := fn(app); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
