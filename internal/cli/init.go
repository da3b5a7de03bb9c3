// Package cli provides common initialization shared by cmd/fintrack,
// cmd/recurring-worker and cmd/fintrackctl.
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fintrack/internal/amqp"
	"fintrack/internal/config"
	"fintrack/internal/log"
	"fintrack/internal/services"
	gsheet "fintrack/internal/sheets/google"
	"fintrack/internal/storage"

	"github.com/joho/godotenv"
)

// SetupLogger builds the process logger from a level name and sets it as
// the default.
func SetupLogger(level string) *log.Logger {
	cfg := log.DefaultConfig()
	cfg.Level = log.ParseLevel(level)
	logger := log.New(cfg)
	log.SetDefault(logger)
	return logger
}

// LoadEnvFile loads the .env file for local development.
// Errors are ignored silently as this is optional in production.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// LoadAndValidateConfig loads configuration and validates it.
// Returns the config or exits the process on validation failure.
func LoadAndValidateConfig(logger *log.Logger) *config.Config {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", log.FieldError, err)
		os.Exit(1)
	}
	return cfg
}

// OpenStore returns the key-value store selected by cfg.DataBackend.
func OpenStore(cfg *config.Config) (storage.KV, error) {
	switch cfg.DataBackend {
	case config.BackendSQLite:
		kv, err := storage.NewSQLiteKV(cfg.SQLiteDBPath)
		if err != nil {
			return nil, fmt.Errorf("open sqlite store %s: %w", cfg.SQLiteDBPath, err)
		}
		return kv, nil
	case config.BackendMemory, "":
		return storage.NewMemoryKV(), nil
	default:
		return nil, fmt.Errorf("unknown data backend %q", cfg.DataBackend)
	}
}

// App bundles the ledger service with the resources it was built from.
type App struct {
	Service *services.LedgerService
	Store   storage.KV
	Broker  *amqp.Client
}

// Close releases the broker connection and the store.
func (a *App) Close() {
	if a.Broker != nil {
		_ = a.Broker.Close()
	}
	if a.Store != nil {
		_ = a.Store.Close()
	}
}

// Bootstrap opens the store and builds the ledger service. The broker and
// the spreadsheet exporter are optional: a broker that cannot be reached
// is logged and skipped, a spreadsheet client that cannot be built is fatal.
func Bootstrap(ctx context.Context, logger *log.Logger, cfg *config.Config) (*App, error) {
	kv, err := OpenStore(cfg)
	if err != nil {
		return nil, err
	}
	app := &App{Store: kv}

	opts := []services.Option{
		services.WithLogger(logger),
		services.WithDefaults(storage.Defaults{
			Budget:       cfg.Budget(),
			BaseCurrency: cfg.BaseCurrency,
		}),
	}

	if cfg.AMQPEnabled() {
		client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Warn("Failed to initialize AMQP client, continuing without events", log.FieldError, err)
		} else {
			app.Broker = client
			opts = append(opts, services.WithPublisher(client))
			logger.Info("AMQP client initialized", "exchange", cfg.AMQPExchange)
		}
	} else {
		logger.Info("AMQP disabled - ledger events will not be published")
	}

	if cfg.SheetsEnabled() {
		exporter, err := gsheet.New(ctx, gsheet.Config{
			SpreadsheetID:   cfg.GoogleSpreadsheetID,
			SheetName:       cfg.GoogleSheetName,
			CredentialsFile: cfg.GoogleServiceAccountFile,
			CredentialsJSON: cfg.GoogleServiceAccountJSON,
		})
		if err != nil {
			app.Close()
			return nil, fmt.Errorf("google sheets client: %w", err)
		}
		opts = append(opts, services.WithExporter(exporter))
		logger.Info("Google Sheets export enabled", "spreadsheet_id", cfg.GoogleSpreadsheetID)
	}

	svc, err := services.NewLedgerService(ctx, kv, opts...)
	if err != nil {
		app.Close()
		return nil, err
	}
	app.Service = svc
	return app, nil
}

// GracefulShutdown sets up signal handling for graceful shutdown.
// Returns a context that will be cancelled on shutdown signals,
// and a channel that signals when shutdown is complete.
func GracefulShutdown(logger *log.Logger, timeout time.Duration, cleanup func()) (context.Context, <-chan struct{}) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		logger.Info("Shutdown signal received", "signal", sig.String())

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), timeout)
		defer shutdownCancel()

		cancel()

		finished := make(chan struct{})
		go func() {
			if cleanup != nil {
				cleanup()
			}
			close(finished)
		}()

		select {
		case <-shutdownCtx.Done():
			logger.Warn("Shutdown timeout reached")
		case <-finished:
			logger.Info("Shutdown complete")
		}
		close(done)
	}()

	return ctx, done
}
