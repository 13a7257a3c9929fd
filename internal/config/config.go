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
)

type Config struct {
	// Telegram
	TelegramToken       string
	TelegramPollTimeout time.Duration
	TelegramDebug       bool

	// Ledger
	DefaultAccount string
	Timezone       string

	// Backend selection
	DataBackend string

	// CSV files
	PlanFile     string
	RegisterFile string

	// Database
	SQLiteDBPath string

	// Google Sheets
	GoogleSpreadsheetID      string
	GooglePlanSheet          string
	GoogleRegisterSheet      string
	GoogleLogSheet           string
	GoogleServiceAccountJSON string
	GoogleServiceAccountFile string

	// AMQP
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string

	// Worker
	WorkerRetryAttempts int
	WorkerRetryDelay    time.Duration

	// Logging
	LogLevel  string
	LogFormat string
}

// ValidBackends lists the accepted DATA_BACKEND values.
var ValidBackends = []string{"csv", "sqlite", "sheets", "memory"}

func Load() *Config {
	cfg := &Config{
		TelegramToken:       getEnv("TELEGRAM_BOT_TOKEN", ""),
		TelegramPollTimeout: getEnvDuration("TELEGRAM_POLL_TIMEOUT", 60*time.Second),
		TelegramDebug:       getEnvBool("TELEGRAM_DEBUG", false),

		DefaultAccount: getEnv("DEFAULT_ACCOUNT", "Cash"),
		Timezone:       getEnv("BUDGET_TIMEZONE", ""),

		DataBackend: getEnv("DATA_BACKEND", "csv"),

		PlanFile:     getEnv("PLAN_FILE", "plan.csv"),
		RegisterFile: getEnv("REGISTER_FILE", "register.csv"),

		SQLiteDBPath: getEnv("SQLITE_DB_PATH", "./data/budget.db"),

		GoogleSpreadsheetID:      getEnv("GOOGLE_SPREADSHEET_ID", ""),
		GooglePlanSheet:          getEnv("GOOGLE_PLAN_SHEET", "Plan"),
		GoogleRegisterSheet:      getEnv("GOOGLE_REGISTER_SHEET", "Register"),
		GoogleLogSheet:           getEnv("GOOGLE_LOG_SHEET", "Log"),
		GoogleServiceAccountJSON: getEnv("GOOGLE_SERVICE_ACCOUNT_JSON", ""),
		GoogleServiceAccountFile: getEnv("GOOGLE_SERVICE_ACCOUNT_FILE", ""),

		AMQPURL:      getEnv("AMQP_URL", ""),
		AMQPExchange: getEnv("AMQP_EXCHANGE", "budget"),
		AMQPQueue:    getEnv("AMQP_QUEUE", "ledger_events"),

		WorkerRetryAttempts: getEnvInt("WORKER_RETRY_ATTEMPTS", 5),
		WorkerRetryDelay:    getEnvDuration("WORKER_RETRY_DELAY", 2*time.Second),

		LogLevel:  getEnv("LOG_LEVEL", "INFO"),
		LogFormat: getEnv("LOG_FORMAT", "text"),
	}

	return cfg
}

// Validate validates the configuration shared by every binary and returns
// an error listing all problems.
func (c *Config) Validate() error {
	return joinErrors(c.validate())
}

// ValidateBot additionally requires the Telegram settings.
func (c *Config) ValidateBot() error {
	errors := c.validate()
	if strings.TrimSpace(c.TelegramToken) == "" {
		errors = append(errors, "TELEGRAM_BOT_TOKEN is required")
	}
	if c.TelegramPollTimeout < time.Second {
		errors = append(errors, fmt.Sprintf("invalid telegram poll timeout %v: must be at least 1 second", c.TelegramPollTimeout))
	}
	return joinErrors(errors)
}

// ValidateWorker additionally requires a queue to consume and a
// spreadsheet to write to.
func (c *Config) ValidateWorker() error {
	errors := c.validate()
	if c.AMQPURL == "" {
		errors = append(errors, "AMQP_URL is required for the worker")
	}
	if c.GoogleSpreadsheetID == "" {
		errors = append(errors, "GOOGLE_SPREADSHEET_ID is required for the worker")
	}
	if c.GoogleLogSheet == "" {
		errors = append(errors, "Google log sheet name cannot be empty")
	}
	if c.WorkerRetryAttempts < 1 {
		errors = append(errors, fmt.Sprintf("invalid worker retry attempts %d: must be at least 1", c.WorkerRetryAttempts))
	}
	if c.WorkerRetryDelay <= 0 {
		errors = append(errors, fmt.Sprintf("invalid worker retry delay %v: must be positive", c.WorkerRetryDelay))
	}
	return joinErrors(errors)
}

// Location resolves BUDGET_TIMEZONE, defaulting to the local zone.
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

func (c *Config) validate() []string {
	var errors []string

	// Validate data backend
	if !slices.Contains(ValidBackends, c.DataBackend) {
		errors = append(errors, fmt.Sprintf("invalid data backend '%s': must be one of %v", c.DataBackend, ValidBackends))
	}

	if strings.TrimSpace(c.DefaultAccount) == "" {
		errors = append(errors, "default account cannot be empty")
	}

	if _, err := c.Location(); err != nil {
		errors = append(errors, fmt.Sprintf("invalid timezone '%s': %v", c.Timezone, err))
	}

	if c.LogFormat != "text" && c.LogFormat != "json" {
		errors = append(errors, fmt.Sprintf("invalid log format '%s': must be 'text' or 'json'", c.LogFormat))
	}

	switch c.DataBackend {
	case "csv":
		if c.PlanFile == "" || c.RegisterFile == "" {
			errors = append(errors, "plan and register file paths cannot be empty when using csv backend")
		} else if filepath.Clean(c.PlanFile) == filepath.Clean(c.RegisterFile) {
			errors = append(errors, "plan and register files must be different")
		}
	case "sqlite":
		if c.SQLiteDBPath == "" {
			errors = append(errors, "SQLite database path cannot be empty when using sqlite backend")
		} else {
			// Check if directory exists or can be created
			dir := filepath.Dir(c.SQLiteDBPath)
			if dir != "." && dir != "" {
				if _, err := os.Stat(dir); os.IsNotExist(err) {
					if err := os.MkdirAll(dir, 0755); err != nil {
						errors = append(errors, fmt.Sprintf("cannot create SQLite database directory '%s': %v", dir, err))
					}
				}
			}
		}
	case "sheets":
		if c.GoogleSpreadsheetID == "" {
			errors = append(errors, "Google Spreadsheet ID is required when using sheets backend")
		}
		if c.GooglePlanSheet == "" || c.GoogleRegisterSheet == "" {
			errors = append(errors, "Google plan and register sheet names are required when using sheets backend")
		} else if c.GooglePlanSheet == c.GoogleRegisterSheet {
			errors = append(errors, "Google plan and register sheets must be different")
		}
	}

	if c.GoogleServiceAccountFile != "" {
		if _, err := os.Stat(c.GoogleServiceAccountFile); os.IsNotExist(err) {
			errors = append(errors, fmt.Sprintf("Google service account file does not exist: %s", c.GoogleServiceAccountFile))
		}
	}

	// Validate AMQP URL if provided
	if c.AMQPURL != "" {
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

	return errors
}

func joinErrors(errors []string) error {
	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
