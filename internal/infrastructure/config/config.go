// internal/infrastructure/config/config.go
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Reservation log backends
const (
	SinkSheets   = "sheets"
	SinkPostgres = "postgres"
)

var validate = validator.New()

// Config holds all configuration for the application
type Config struct {
	// App
	AppVersion string
	LogLevel   string `validate:"omitempty,oneof=debug info warn error"`
	LogFile    string
	Timezone   string `validate:"required"`
	Location   *time.Location

	// Server
	Port         string        `validate:"required,numeric"`
	ReadTimeout  time.Duration `validate:"gt=0"`
	WriteTimeout time.Duration `validate:"gt=0"`

	// MongoDB
	MongoURI      string `validate:"required"`
	MongoDB       string `validate:"required"`
	MongoUser     string
	MongoPassword string

	// Gmail
	GmailClientID     string        `validate:"required"`
	GmailClientSecret string        `validate:"required"`
	GmailRefreshToken string        `validate:"required"`
	GmailPollInterval time.Duration `validate:"gt=0"`
	LabelInbox        string        `validate:"required"`
	LabelDone         string        `validate:"required"`
	LabelContact      string

	// Calendar
	CalendarID            string `validate:"required"`
	CalendarLookaheadDays int    `validate:"gt=0"`
	EventDurationMinutes  int    `validate:"gt=0"`

	// Reservation log
	SinkBackend         string `validate:"oneof=sheets postgres"`
	SpreadsheetID       string `validate:"required_if=SinkBackend sheets"`
	SheetName           string `validate:"required_if=SinkBackend sheets"`
	DailySummarySheet   string
	DailySummaryEnabled bool
	PostgresDSN         string `validate:"required_if=SinkBackend postgres"`

	// Slack
	SlackWebhookURL string `validate:"omitempty,url"`
}

// LoadConfig loads configuration from environment variables and validates it.
// Nothing downstream is started when this returns an error.
func LoadConfig() (*Config, error) {
	// Load .env file if it exists
	godotenv.Load()

	// Set defaults and override with env vars
	config := &Config{
		AppVersion: getEnv("APP_VERSION", "1.0.0"),
		LogLevel:   strings.ToLower(getEnv("LOG_LEVEL", "info")),
		LogFile:    getEnv("LOG_FILE", ""),
		Timezone:   getEnv("TIMEZONE", "Asia/Tokyo"),

		Port:         getEnv("PORT", "8080"),
		ReadTimeout:  time.Duration(getEnvAsInt("READ_TIMEOUT", 30)) * time.Second,
		WriteTimeout: time.Duration(getEnvAsInt("WRITE_TIMEOUT", 30)) * time.Second,

		MongoURI:      getEnv("MONGODB_DSN", "mongodb://localhost:27017"),
		MongoDB:       getEnv("MONGO_DB", "tabelog"),
		MongoUser:     getEnv("MONGO_USER", ""),
		MongoPassword: getEnv("MONGO_PASSWORD", ""),

		GmailClientID:     getEnv("GMAIL_CLIENT_ID", ""),
		GmailClientSecret: getEnv("GMAIL_CLIENT_SECRET", ""),
		GmailRefreshToken: getEnv("GMAIL_REFRESH_TOKEN", ""),
		GmailPollInterval: time.Duration(getEnvAsInt("GMAIL_POLL_INTERVAL", 300)) * time.Second,
		LabelInbox:        getEnv("LABEL_INBOX", "TabelogInbox"),
		LabelDone:         getEnv("LABEL_DONE", "TabelogRegistered"),
		LabelContact:      getEnv("LABEL_CONTACT", "contact"),

		CalendarID:            getEnv("CALENDAR_ID", ""),
		CalendarLookaheadDays: getEnvAsInt("CALENDAR_LOOKAHEAD_DAYS", 180),
		EventDurationMinutes:  getEnvAsInt("EVENT_DURATION_MINUTES", 90),

		SinkBackend:         strings.ToLower(getEnv("SINK_BACKEND", SinkSheets)),
		SpreadsheetID:       getEnv("SPREADSHEET_ID", ""),
		SheetName:           getEnv("SHEET_NAME", "Reservations"),
		DailySummarySheet:   getEnv("DAILY_SUMMARY_SHEET", "DailySummary"),
		DailySummaryEnabled: getEnvAsBool("DAILY_SUMMARY_ENABLED", false),
		PostgresDSN:         getEnv("POSTGRES_DSN", ""),

		SlackWebhookURL: getEnv("SLACK_WEBHOOK_URL", ""),
	}

	if err := validate.Struct(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	location, err := time.LoadLocation(config.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid TIMEZONE %q: %w", config.Timezone, err)
	}
	config.Location = location

	return config, nil
}

// Helper functions to get environment variables
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}
