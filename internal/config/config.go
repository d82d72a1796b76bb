package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// Config represents the full application configuration surface.
type Config struct {
	Server    ServerConfig
	BatchAPI  BatchAPIConfig
	Notify    NotifyConfig
	Reminders RemindersConfig
	Sheets    SheetsConfig
	MongoDB   MongoDBConfig
}

// ServerConfig holds HTTP server related options.
type ServerConfig struct {
	Port string
}

// BatchAPIConfig contains credentials and options for the remote batch API.
// Either a static bearer token or email/password credentials must be set;
// with credentials the client signs in at startup and adopts the returned
// token (and farm name, when FarmScope is empty).
type BatchAPIConfig struct {
	BaseURL   string
	Token     string
	Email     string
	Password  string
	FarmScope string
}

// NotifyConfig contains settings for the one-shot notification service.
type NotifyConfig struct {
	BaseURL string
	Token   string
}

// RemindersConfig holds scheduler-related settings.
type RemindersConfig struct {
	DigestCronSchedule string
	ExportCronSchedule string
	Timezone           string
}

// SheetsConfig contains configuration for the optional hatch-outcome export.
type SheetsConfig struct {
	CredentialsPath string
	SpreadsheetID   string
}

// Enabled reports whether the sheets export is configured.
func (c SheetsConfig) Enabled() bool {
	return c.CredentialsPath != "" && c.SpreadsheetID != ""
}

// MongoDBConfig holds settings for the reminder ledger store.
type MongoDBConfig struct {
	URI    string
	DBName string
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
		// Ignore the returned error here; missing .env files are acceptable when
		// configuration comes from the environment directly.
		_ = godotenv.Load()
	}

	cfg := &Config{
		Server: ServerConfig{
			Port: getenvWithDefault("APP_PORT", "8080"),
		},
		BatchAPI: BatchAPIConfig{
			BaseURL:   os.Getenv("BATCH_API_BASE_URL"),
			Token:     os.Getenv("BATCH_API_TOKEN"),
			Email:     os.Getenv("BATCH_API_EMAIL"),
			Password:  os.Getenv("BATCH_API_PASSWORD"),
			FarmScope: os.Getenv("FARM_SCOPE"),
		},
		Notify: NotifyConfig{
			BaseURL: os.Getenv("NOTIFY_BASE_URL"),
			Token:   os.Getenv("NOTIFY_TOKEN"),
		},
		Reminders: RemindersConfig{
			DigestCronSchedule: getenvWithDefault("DIGEST_CRON_SCHEDULE", "0 7 * * *"),
			ExportCronSchedule: getenvWithDefault("EXPORT_CRON_SCHEDULE", "0 20 * * 5"),
			Timezone:           getenvWithDefault("TIMEZONE", "Africa/Conakry"),
		},
		Sheets: SheetsConfig{
			CredentialsPath: os.Getenv("GOOGLE_SHEETS_CREDENTIALS_PATH"),
			SpreadsheetID:   os.Getenv("GOOGLE_SHEET_DATABASE_ID"),
		},
		MongoDB: MongoDBConfig{
			URI:    getenvWithDefault("MONGODB_URI", "mongodb://localhost:27017"),
			DBName: getenvWithDefault("MONGODB_DB_NAME", "hatchery"),
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

	if c.BatchAPI.BaseURL == "" {
		return errors.New("BATCH_API_BASE_URL must be provided")
	}

	hasToken := c.BatchAPI.Token != ""
	hasCredentials := c.BatchAPI.Email != "" && c.BatchAPI.Password != ""
	if !hasToken && !hasCredentials {
		return errors.New("either BATCH_API_TOKEN or BATCH_API_EMAIL/BATCH_API_PASSWORD must be provided")
	}

	// Sign-in responses carry the farm name, so the scope may stay empty
	// when credentials are configured.
	if hasToken && !hasCredentials && c.BatchAPI.FarmScope == "" {
		return errors.New("FARM_SCOPE must be provided when using a static token")
	}

	if c.Notify.BaseURL == "" {
		return errors.New("NOTIFY_BASE_URL must be provided")
	}

	if c.Reminders.DigestCronSchedule == "" {
		return errors.New("DIGEST_CRON_SCHEDULE must be provided")
	}

	if c.Reminders.ExportCronSchedule == "" {
		return errors.New("EXPORT_CRON_SCHEDULE must be provided")
	}

	if c.Reminders.Timezone == "" {
		return errors.New("TIMEZONE must be provided")
	}

	if c.MongoDB.URI == "" {
		return errors.New("MONGODB_URI must be provided")
	}

	if c.MongoDB.DBName == "" {
		return errors.New("MONGODB_DB_NAME must be provided")
	}

	return nil
}

func getenvWithDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
