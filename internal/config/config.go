package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Storage backends.
const (
	BackendCSV    = "csv"
	BackendSheets = "sheets"
)

// Config represents the full application configuration surface.
type Config struct {
	Server    ServerConfig
	Storage   StorageConfig
	Sheets    SheetsConfig
	Reporting ReportingConfig
	WhatsApp  WhatsAppConfig
	MongoDB   MongoDBConfig
	Log       LogConfig
}

// ServerConfig holds HTTP server related options.
type ServerConfig struct {
	Port string
}

// StorageConfig selects the table backend and the CSV file locations.
type StorageConfig struct {
	Backend          string
	PurchaseFile     string
	SaleFile         string
	ModelHistoryFile string
}

// SheetsConfig contains configuration required to interact with Google Sheets.
type SheetsConfig struct {
	CredentialsPath   string
	SpreadsheetID     string
	PurchaseSheet     string
	SaleSheet         string
	ModelHistorySheet string
}

// ReportingConfig holds date stamping, currency and scheduler settings.
type ReportingConfig struct {
	CronSchedule string
	Timezone     string
	Currency     string
}

// WhatsAppConfig contains credentials for sending report notifications.
// Leaving every field empty disables notifications.
type WhatsAppConfig struct {
	AccessToken   string
	PhoneNumberID string
	BaseURL       string
	APIVersion    string
	Recipient     string
}

// Enabled reports whether notifications were configured.
func (c WhatsAppConfig) Enabled() bool {
	return c.AccessToken != "" || c.PhoneNumberID != "" || c.Recipient != ""
}

// MongoDBConfig holds settings for the summary archive. An empty URI disables it.
type MongoDBConfig struct {
	URI    string
	DBName string
}

// LogConfig controls the zap logger.
type LogConfig struct {
	Level  string
	Format string
}

// Load reads environment variables (optionally from the provided file) and
// materializes a Config instance.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("failed loading env file %s: %w", envFile, err)
			}
		}
	} else {
		// A missing .env is fine when configuration comes from the environment directly.
		_ = godotenv.Load()
	}

	cfg := &Config{
		Server: ServerConfig{
			Port: getenvWithDefault("APP_PORT", "8080"),
		},
		Storage: StorageConfig{
			Backend:          strings.ToLower(getenvWithDefault("STORE_BACKEND", BackendCSV)),
			PurchaseFile:     getenvWithDefault("PURCHASE_FILE", "purchase_data.csv"),
			SaleFile:         getenvWithDefault("SALE_FILE", "sale_data.csv"),
			ModelHistoryFile: getenvWithDefault("MODEL_HISTORY_FILE", "model_history.csv"),
		},
		Sheets: SheetsConfig{
			CredentialsPath:   os.Getenv("GOOGLE_SHEETS_CREDENTIALS_PATH"),
			SpreadsheetID:     os.Getenv("GOOGLE_SHEET_DATABASE_ID"),
			PurchaseSheet:     getenvWithDefault("PURCHASE_SHEET", "Purchases"),
			SaleSheet:         getenvWithDefault("SALE_SHEET", "Sales"),
			ModelHistorySheet: getenvWithDefault("MODEL_HISTORY_SHEET", "ModelHistory"),
		},
		Reporting: ReportingConfig{
			CronSchedule: os.Getenv("REPORT_CRON_SCHEDULE"),
			Timezone:     getenvWithDefault("TIMEZONE", "Local"),
			Currency:     strings.ToUpper(getenvWithDefault("CURRENCY", "PKR")),
		},
		WhatsApp: WhatsAppConfig{
			AccessToken:   os.Getenv("WHATSAPP_TOKEN"),
			PhoneNumberID: os.Getenv("WHATSAPP_PHONE_NUMBER_ID"),
			BaseURL:       getenvWithDefault("WHATSAPP_BASE_URL", "https://graph.facebook.com"),
			APIVersion:    getenvWithDefault("WHATSAPP_API_VERSION", "v20.0"),
			Recipient:     os.Getenv("WHATSAPP_REPORT_RECIPIENT"),
		},
		MongoDB: MongoDBConfig{
			URI:    os.Getenv("MONGODB_URI"),
			DBName: getenvWithDefault("MONGODB_DB_NAME", "traders"),
		},
		Log: LogConfig{
			Level:  getenvWithDefault("LOG_LEVEL", "info"),
			Format: getenvWithDefault("LOG_FORMAT", "json"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate ensures that required configuration fields are populated.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}

	if c.Server.Port == "" {
		return errors.New("APP_PORT must be provided")
	}

	switch c.Storage.Backend {
	case BackendCSV:
		switch {
		case c.Storage.PurchaseFile == "":
			return errors.New("PURCHASE_FILE must not be empty")
		case c.Storage.SaleFile == "":
			return errors.New("SALE_FILE must not be empty")
		case c.Storage.ModelHistoryFile == "":
			return errors.New("MODEL_HISTORY_FILE must not be empty")
		}
	case BackendSheets:
		if c.Sheets.CredentialsPath == "" {
			return errors.New("GOOGLE_SHEETS_CREDENTIALS_PATH must be provided")
		}
		if c.Sheets.SpreadsheetID == "" {
			return errors.New("GOOGLE_SHEET_DATABASE_ID must be provided")
		}
		if c.Sheets.PurchaseSheet == "" || c.Sheets.SaleSheet == "" || c.Sheets.ModelHistorySheet == "" {
			return errors.New("sheet titles must not be empty")
		}
	default:
		return fmt.Errorf("STORE_BACKEND must be %q or %q, got %q", BackendCSV, BackendSheets, c.Storage.Backend)
	}

	if _, err := c.Location(); err != nil {
		return fmt.Errorf("TIMEZONE is invalid: %w", err)
	}

	if len(c.Reporting.Currency) != 3 {
		return errors.New("CURRENCY must be an ISO 4217 code")
	}

	if c.WhatsApp.Enabled() {
		switch {
		case c.WhatsApp.AccessToken == "":
			return errors.New("WHATSAPP_TOKEN must be provided")
		case c.WhatsApp.PhoneNumberID == "":
			return errors.New("WHATSAPP_PHONE_NUMBER_ID must be provided")
		case c.WhatsApp.Recipient == "":
			return errors.New("WHATSAPP_REPORT_RECIPIENT must be provided")
		case c.WhatsApp.BaseURL == "":
			return errors.New("WHATSAPP_BASE_URL must not be empty")
		case c.WhatsApp.APIVersion == "":
			return errors.New("WHATSAPP_API_VERSION must not be empty")
		}
	}

	if c.MongoDB.URI != "" && c.MongoDB.DBName == "" {
		return errors.New("MONGODB_DB_NAME must be provided")
	}

	return nil
}

// Location resolves the configured timezone.
func (c *Config) Location() (*time.Location, error) {
	return time.LoadLocation(c.Reporting.Timezone)
}

func getenvWithDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
