package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

const (
	BackendMemory = "memory"
	BackendSQLite = "sqlite"
)

var validBackends = []string{BackendMemory, BackendSQLite}

type Config struct {
	// HTTP Server
	Port string

	// Storage
	DataBackend  string
	SQLiteDBPath string

	// AMQP, disabled when AMQPURL is empty
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string

	// Google Sheets export, disabled when GoogleSpreadsheetID is empty
	GoogleSpreadsheetID      string
	GoogleSheetName          string
	GoogleServiceAccountFile string
	GoogleServiceAccountJSON string

	// Scheduler
	RecurringInterval time.Duration

	// Seeds for a store that has never been written
	DefaultBudget string
	BaseCurrency  string

	LogLevel string
}

func defaults(v *viper.Viper) {
	v.SetDefault("PORT", "8081")
	v.SetDefault("DATA_BACKEND", BackendMemory)
	v.SetDefault("SQLITE_DB_PATH", "./data/fintrack.db")
	v.SetDefault("AMQP_URL", "")
	v.SetDefault("AMQP_EXCHANGE", "fintrack")
	v.SetDefault("AMQP_QUEUE", "ledger_events")
	v.SetDefault("GOOGLE_SPREADSHEET_ID", "")
	v.SetDefault("GOOGLE_SHEET_NAME", "")
	v.SetDefault("GOOGLE_SERVICE_ACCOUNT_FILE", "")
	v.SetDefault("GOOGLE_SERVICE_ACCOUNT_JSON", "")
	v.SetDefault("RECURRING_INTERVAL", "24h")
	v.SetDefault("DEFAULT_BUDGET", "5000")
	v.SetDefault("BASE_CURRENCY", "USD")
	v.SetDefault("LOG_LEVEL", "info")
}

// Load reads the configuration from the environment. A malformed
// RECURRING_INTERVAL becomes zero and is reported by Validate.
func Load() *Config {
	v := viper.New()
	defaults(v)
	v.AutomaticEnv()

	interval, err := time.ParseDuration(v.GetString("RECURRING_INTERVAL"))
	if err != nil {
		interval = 0
	}

	return &Config{
		Port: v.GetString("PORT"),

		DataBackend:  strings.ToLower(v.GetString("DATA_BACKEND")),
		SQLiteDBPath: v.GetString("SQLITE_DB_PATH"),

		AMQPURL:      v.GetString("AMQP_URL"),
		AMQPExchange: v.GetString("AMQP_EXCHANGE"),
		AMQPQueue:    v.GetString("AMQP_QUEUE"),

		GoogleSpreadsheetID:      v.GetString("GOOGLE_SPREADSHEET_ID"),
		GoogleSheetName:          v.GetString("GOOGLE_SHEET_NAME"),
		GoogleServiceAccountFile: v.GetString("GOOGLE_SERVICE_ACCOUNT_FILE"),
		GoogleServiceAccountJSON: v.GetString("GOOGLE_SERVICE_ACCOUNT_JSON"),

		RecurringInterval: interval,

		DefaultBudget: v.GetString("DEFAULT_BUDGET"),
		BaseCurrency:  strings.ToUpper(strings.TrimSpace(v.GetString("BASE_CURRENCY"))),

		LogLevel: v.GetString("LOG_LEVEL"),
	}
}

// AMQPEnabled reports whether an event broker is configured.
func (c *Config) AMQPEnabled() bool { return c.AMQPURL != "" }

// SheetsEnabled reports whether spreadsheet export is configured.
func (c *Config) SheetsEnabled() bool { return c.GoogleSpreadsheetID != "" }

// Budget returns DefaultBudget as a decimal, zero when it does not parse.
func (c *Config) Budget() decimal.Decimal {
	d, err := decimal.NewFromString(strings.TrimSpace(c.DefaultBudget))
	if err != nil {
		return decimal.Zero
	}
	return d
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errors []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		errors = append(errors, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	if !slices.Contains(validBackends, c.DataBackend) {
		errors = append(errors, fmt.Sprintf("invalid data backend '%s': must be one of %v", c.DataBackend, validBackends))
	}

	if c.DataBackend == BackendSQLite {
		if c.SQLiteDBPath == "" {
			errors = append(errors, "SQLite database path cannot be empty when using sqlite backend")
		} else {
			dir := filepath.Dir(c.SQLiteDBPath)
			if dir != "." && dir != "" {
				if _, err := os.Stat(dir); os.IsNotExist(err) {
					if err := os.MkdirAll(dir, 0755); err != nil {
						errors = append(errors, fmt.Sprintf("cannot create SQLite database directory '%s': %v", dir, err))
					}
				}
			}
		}
	}

	if c.AMQPEnabled() {
		if parsedURL, err := url.Parse(c.AMQPURL); err != nil {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL '%s': %v", c.AMQPURL, err))
		} else if parsedURL.Scheme != "amqp" && parsedURL.Scheme != "amqps" {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", parsedURL.Scheme))
		}
		if c.AMQPExchange == "" {
			errors = append(errors, "AMQP exchange name cannot be empty when AMQP URL is provided")
		}
		if c.AMQPQueue == "" {
			errors = append(errors, "AMQP queue name cannot be empty when AMQP URL is provided")
		}
	}

	if c.SheetsEnabled() {
		hasFile := c.GoogleServiceAccountFile != ""
		hasJSON := c.GoogleServiceAccountJSON != ""
		if !hasFile && !hasJSON {
			errors = append(errors, "either GOOGLE_SERVICE_ACCOUNT_FILE or GOOGLE_SERVICE_ACCOUNT_JSON must be provided for sheets export")
		}
		if hasFile {
			if _, err := os.Stat(c.GoogleServiceAccountFile); os.IsNotExist(err) {
				errors = append(errors, fmt.Sprintf("Google service account file does not exist: %s", c.GoogleServiceAccountFile))
			}
		}
	}

	if c.RecurringInterval < time.Minute {
		errors = append(errors, fmt.Sprintf("invalid recurring interval %v: must be at least 1 minute", c.RecurringInterval))
	} else if c.RecurringInterval > 7*24*time.Hour {
		errors = append(errors, fmt.Sprintf("invalid recurring interval %v: must be at most 7 days", c.RecurringInterval))
	}

	if !c.Budget().IsPositive() {
		errors = append(errors, fmt.Sprintf("invalid default budget '%s': must be a positive number", c.DefaultBudget))
	}

	if money.GetCurrency(c.BaseCurrency) == nil {
		errors = append(errors, fmt.Sprintf("invalid base currency '%s': must be an ISO 4217 code", c.BaseCurrency))
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}

	return nil
}
