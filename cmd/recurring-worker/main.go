// Command recurring-worker fires due recurring rules against a shared
// sqlite store without serving HTTP. With both AMQP and Google Sheets
// configured it also mirrors the ledger into the spreadsheet on change.
package main

import (
	"context"
	"errors"
	"os"
	"time"

	"fintrack/internal/cli"
	"fintrack/internal/config"
	"fintrack/internal/log"
	"fintrack/internal/services"
	"fintrack/internal/worker"

	"golang.org/x/sync/errgroup"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger("info")
	logger.Info("Starting recurring-worker")

	cfg := cli.LoadAndValidateConfig(logger)
	logger = cli.SetupLogger(cfg.LogLevel)
	if cfg.DataBackend != config.BackendSQLite {
		logger.Warn("In-memory backend: generated transactions are lost on exit", "backend", cfg.DataBackend)
	}

	app, err := cli.Bootstrap(context.Background(), logger, cfg)
	if err != nil {
		logger.Error("Failed to open ledger", log.FieldError, err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}
	defer app.Close()

	ctx, done := cli.GracefulShutdown(logger, 30*time.Second, nil)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return services.NewScheduler(app.Service, cfg.RecurringInterval, logger).WithReload().Run(gctx)
	})
	if app.Broker != nil && cfg.SheetsEnabled() {
		sync := worker.NewSheetSync(app.Service, 5*time.Second, logger)
		g.Go(func() error { return sync.Run(gctx) })
		g.Go(func() error {
			if err := app.Broker.Consume(gctx, sync.HandleEvent); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		})
		logger.Info("Spreadsheet mirroring enabled", "spreadsheet_id", cfg.GoogleSpreadsheetID)
	}
	if err := g.Wait(); err != nil {
		logger.Error("Recurring-worker failed", log.FieldError, err)
		os.Exit(1)
	}
	<-done
	logger.Info("Recurring-worker shutdown complete")
}
