package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	// Server
	Port   string
	Env    string
	APIKey string

	// Database
	DBDriver   string
	DBPath     string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// Ledger
	PortfolioName     string
	ReportingCurrency string
	RiskFreeRate      float64
	SharpeFrequency   string

	// Market data
	MarketDataURL    string
	FetchConcurrency int
	FetchTimeout     time.Duration

	// Categorization
	CategoryLabelsFile string
}

var appConfig *Config

// Load loads configuration from environment variables
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	config := &Config{
		Port:   getEnv("PORT", "8080"),
		Env:    getEnv("ENV", "development"),
		APIKey: os.Getenv("API_KEY"),

		DBDriver:   strings.ToLower(getEnv("DB_DRIVER", "sqlite")),
		DBPath:     getEnv("DB_PATH", "ledgerly.db"),
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "ledgerly"),
		DBPassword: getEnv("DB_PASSWORD", "ledgerly"),
		DBName:     getEnv("DB_NAME", "ledgerly"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		PortfolioName:     getEnv("PORTFOLIO_NAME", "main"),
		ReportingCurrency: strings.ToUpper(getEnv("REPORTING_CURRENCY", "EUR")),
		RiskFreeRate:      parseFloat("RISK_FREE_RATE", 0.025),
		SharpeFrequency:   strings.ToLower(getEnv("SHARPE_FREQUENCY", "annual")),

		MarketDataURL:    getEnv("MARKET_DATA_URL", "https://query1.finance.yahoo.com"),
		FetchConcurrency: parseInt("FETCH_CONCURRENCY", 10),
		FetchTimeout:     parseDuration("FETCH_TIMEOUT", 30*time.Second),

		CategoryLabelsFile: os.Getenv("CATEGORY_LABELS_FILE"),
	}

	if config.FetchConcurrency < 1 {
		log.Printf("Warning: FETCH_CONCURRENCY must be positive, falling back to 10\n")
		config.FetchConcurrency = 10
	}

	appConfig = config
	return config, nil
}

// Get returns the application configuration
func Get() *Config {
	if appConfig == nil {
		var err error
		appConfig, err = Load()
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}
	}
	return appConfig
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseFloat(key string, defaultValue float64) float64 {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		log.Printf("Warning: invalid %s value '%s', falling back to %v\n", key, raw, defaultValue)
		return defaultValue
	}
	return v
}

func parseInt(key string, defaultValue int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		log.Printf("Warning: invalid %s value '%s', falling back to %d\n", key, raw, defaultValue)
		return defaultValue
	}
	return v
}

func parseDuration(key string, defaultValue time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		log.Printf("Warning: invalid %s value '%s', falling back to %s\n", key, raw, defaultValue)
		return defaultValue
	}
	return v
}
