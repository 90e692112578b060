package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application.
// Loaded once per run and immutable afterward; components receive it at
// construction and never read the environment themselves.
type Config struct {
	// Server
	Port string
	Env  string // development, staging, production

	// Database
	Database DatabaseConfig

	// External collaborators
	Bourse   BourseConfig
	Telegram TelegramConfig

	// Sync
	Sync SyncConfig

	// Strategy rule table (YAML)
	StrategyFile string

	// Logging
	LogLevel  string
	LogFormat string
}

// DatabaseConfig holds PostgreSQL configuration
type DatabaseConfig struct {
	URL string

	// Connection Pool
	MaxConns        int
	MinConns        int
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
}

// BourseConfig holds Casablanca Stock Exchange source configuration
type BourseConfig struct {
	BaseURL        string
	RequestTimeout time.Duration
	RatePerSecond  float64 // polite scraping limit toward the exchange
}

// TelegramConfig holds the notification channel configuration.
// An empty token is valid: reports then go to stdout only.
type TelegramConfig struct {
	BotToken string
	ChatID   string
}

// SyncConfig holds market-data synchronization parameters
type SyncConfig struct {
	Workers       int      // bounded fetch parallelism
	BootstrapDays int      // lookback for an empty store, sized for SMA200
	SymbolLength  int      // cash-equity ticker length on the exchange
	Blacklist     []string // symbols never admitted to the registry
}

// Load reads configuration from environment variables.
// This is the only function in the codebase that calls os.Getenv().
func Load() (*Config, error) {
	loadEnvFile()

	cfg := &Config{
		Port: getEnv("PORT", "8080"),
		Env:  getEnv("ENV", "development"),

		Database: DatabaseConfig{
			URL:             getEnv("DATABASE_URL", ""),
			MaxConns:        getEnvAsInt("DB_MAX_CONNS", 10),
			MinConns:        getEnvAsInt("DB_MIN_CONNS", 2),
			MaxConnLifetime: getEnvAsDuration("DB_MAX_CONN_LIFETIME", "1h"),
			MaxConnIdleTime: getEnvAsDuration("DB_MAX_CONN_IDLE_TIME", "30m"),
		},

		Bourse: BourseConfig{
			BaseURL:        getEnv("BOURSE_BASE_URL", "https://www.casablanca-bourse.com"),
			RequestTimeout: getEnvAsDuration("BOURSE_TIMEOUT", "30s"),
			RatePerSecond:  getEnvAsFloat("BOURSE_RATE_PER_SECOND", 2.0),
		},

		Telegram: TelegramConfig{
			BotToken: getEnv("BOT_TOKEN", ""),
			ChatID:   getEnv("CHAT_ID", ""),
		},

		Sync: SyncConfig{
			Workers:       getEnvAsInt("SYNC_WORKERS", 5),
			BootstrapDays: getEnvAsInt("SYNC_BOOTSTRAP_DAYS", 730),
			SymbolLength:  getEnvAsInt("SYNC_SYMBOL_LENGTH", 3),
			Blacklist:     getEnvAsList("SYNC_BLACKLIST", nil),
		},

		StrategyFile: getEnv("STRATEGY_FILE", "config/strategy/casablanca_swing.yaml"),

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "json"),
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// validate checks if required configuration values are set
func (c *Config) validate() error {
	if c.Database.URL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}

	if c.Env != "development" && c.Env != "staging" && c.Env != "production" {
		return fmt.Errorf("ENV must be one of: development, staging, production")
	}

	if c.Sync.Workers < 1 {
		return fmt.Errorf("SYNC_WORKERS must be at least 1")
	}

	if c.Sync.BootstrapDays < 1 {
		return fmt.Errorf("SYNC_BOOTSTRAP_DAYS must be at least 1")
	}

	return nil
}

// loadEnvFile tries to load .env from multiple locations
func loadEnvFile() {
	paths := []string{
		".env",
	}

	// Also try relative to executable
	if exe, err := os.Executable(); err == nil {
		exeDir := filepath.Dir(exe)
		paths = append(paths,
			filepath.Join(exeDir, ".env"),
			filepath.Join(exeDir, "..", ".env"),
		)
	}

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
			return
		}
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		valueStr = defaultValue
	}

	duration, err := time.ParseDuration(valueStr)
	if err != nil {
		duration, _ = time.ParseDuration(defaultValue)
	}

	return duration
}

func getEnvAsList(key string, defaultValue []string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	parts := strings.Split(valueStr, ",")
	values := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			values = append(values, trimmed)
		}
	}
	return values
}
