package config

import (
	"errors"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const defaultImageAPIURL = "https://api.nanobana.pro/v1/images/generations"

type Config struct {
	TelegramToken string
	WebhookURL    string
	WebhookSecret string
	AdminID       int64
	HTTPPort      string
	LogLevel      string

	GeminiAPIKey string
	GeminiModel  string

	ImageAPIKey string
	ImageAPIURL string
	ImageModel  string

	DatabaseURL string
	RedisURL    string
	DialogsDir  string
	ReportsDir  string

	ReportTimezone    string
	ReportDailyLimit  int
	ContextMaxTurns   int
	KeepAliveInterval time.Duration
}

var AppConfig Config

func LoadConfig() {
	err := godotenv.Load() // Load .env file if it exists
	if err != nil {
		log.Println("No .env file found, relying on environment variables")
	}

	AppConfig = Config{
		TelegramToken: getEnv("TELEGRAM_BOT_TOKEN", ""),
		WebhookURL:    getEnv("WEBHOOK_URL", ""),
		WebhookSecret: getEnv("WEBHOOK_SECRET", ""),
		AdminID:       getEnvAsInt64("TELEGRAM_ADMIN_ID", 0),
		HTTPPort:      getEnv("PORT", "8080"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),

		GeminiAPIKey: getEnv("GEMINI_API_KEY", ""),
		GeminiModel:  getEnv("GEMINI_MODEL", "gemini-flash-latest"),

		ImageAPIKey: getEnv("NANOBANA_API_KEY", ""),
		ImageAPIURL: getEnv("NANOBANA_API_URL", defaultImageAPIURL),
		ImageModel:  getEnv("NANOBANA_MODEL", "stable-diffusion-xl"),

		DatabaseURL: getEnv("DATABASE_URL", "assistant.db"),
		RedisURL:    getEnv("REDIS_URL", ""),
		DialogsDir:  getEnv("DIALOGS_DIR", "dialogs"),
		ReportsDir:  getEnv("REPORTS_DIR", "reports"),

		ReportTimezone:    getEnv("REPORT_TIMEZONE", "UTC"),
		ReportDailyLimit:  getEnvAsInt("REPORT_DAILY_LIMIT", 5),
		ContextMaxTurns:   getEnvAsInt("CONTEXT_MAX_TURNS", 10),
		KeepAliveInterval: getEnvAsDuration("KEEPALIVE_INTERVAL", 14*time.Minute),
	}
}

// ValidateBot reports the settings the bot process cannot run without.
func (c Config) ValidateBot() error {
	var errs []error
	if c.TelegramToken == "" {
		errs = append(errs, errors.New("TELEGRAM_BOT_TOKEN environment variable is required"))
	}
	if c.GeminiAPIKey == "" {
		errs = append(errs, errors.New("GEMINI_API_KEY environment variable is required"))
	}
	if c.ReportDailyLimit <= 0 {
		errs = append(errs, errors.New("REPORT_DAILY_LIMIT must be positive"))
	}
	if c.ContextMaxTurns <= 0 {
		errs = append(errs, errors.New("CONTEXT_MAX_TURNS must be positive"))
	}
	return errors.Join(errs...)
}

// Location resolves ReportTimezone, falling back to UTC.
func (c Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.ReportTimezone)
	if err != nil {
		log.Printf("Invalid REPORT_TIMEZONE %q, using UTC: %v", c.ReportTimezone, err)
		return time.UTC
	}
	return loc
}

func getEnv(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseInt(valueStr, 10, 64); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if value, err := time.ParseDuration(valueStr); err == nil && value > 0 {
		return value
	}
	return defaultValue
}
