package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"fintrack/internal/cli"
	apphttp "fintrack/internal/http"
	"fintrack/internal/log"
	"fintrack/internal/services"

	"golang.org/x/sync/errgroup"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger("info")
	cfg := cli.LoadAndValidateConfig(logger)
	logger = cli.SetupLogger(cfg.LogLevel)

	app, err := cli.Bootstrap(context.Background(), logger, cfg)
	if err != nil {
		logger.Error("Failed to start ledger", log.FieldError, err, "backend", cfg.DataBackend)
		os.Exit(1)
	}
	defer app.Close()

	srv := apphttp.NewServer(":"+cfg.Port, app.Service, apphttp.Options{Logger: logger})

	ctx, done := cli.GracefulShutdown(logger, 30*time.Second, func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 25*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", log.FieldError, err)
		}
	})

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return services.NewScheduler(app.Service, cfg.RecurringInterval, logger).Run(gctx)
	})
	g.Go(func() error {
		logger.Info("Starting fintrack server", "port", cfg.Port, "backend", cfg.DataBackend)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("Server error", log.FieldError, err, "port", cfg.Port)
		os.Exit(1)
	}
	<-done
	logger.Info("Server stopped gracefully")
}
