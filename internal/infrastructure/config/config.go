// internal/infrastructure/config/config.go
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	// App
	AppVersion string

	// Server
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration

	// MongoDB (search history)
	MongoURI      string
	MongoDB       string
	MongoUser     string
	MongoPassword string

	// PostgreSQL (airline/airport reference data)
	PostgresURI string

	// Source catalog
	SourceCatalogPath string

	// Pipeline limits
	Concurrency       int
	PerSourceInterval time.Duration
	PerSourceTimeout  time.Duration
	SearchDeadline    time.Duration
	ResultHorizonDays int

	// Validation
	MinPrice float64
	MaxPrice float64

	// Adapter OAuth (client-credentials flow for aggregator APIs)
	AdapterClientID     string
	AdapterClientSecret string
	AdapterTokenURL     string
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	// Load .env file if it exists
	godotenv.Load()

	// Set defaults and override with env vars
	config := &Config{
		AppVersion:   getEnv("APP_VERSION", "1.0.0"),
		Port:         getEnv("PORT", "8080"),
		ReadTimeout:  time.Duration(getEnvAsInt("READ_TIMEOUT", 30)) * time.Second,
		WriteTimeout: time.Duration(getEnvAsInt("WRITE_TIMEOUT", 120)) * time.Second,

		MongoURI:      getEnv("MONGODB_DSN", "mongodb://localhost:27017"),
		MongoDB:       getEnv("MONGO_DB", "flightsearch"),
		MongoUser:     getEnv("MONGO_USER", ""),
		MongoPassword: getEnv("MONGO_PASSWORD", ""),

		PostgresURI: getEnv("POSTGRES_DSN", "postgres://localhost:5432/flightsearch"),

		SourceCatalogPath: getEnv("SOURCE_CATALOG_PATH", "configs/sources.json"),

		Concurrency:       getEnvAsInt("FETCH_CONCURRENCY", 20),
		PerSourceInterval: time.Duration(getEnvAsInt("PER_SOURCE_INTERVAL_MS", 1000)) * time.Millisecond,
		PerSourceTimeout:  time.Duration(getEnvAsInt("PER_SOURCE_TIMEOUT", 30)) * time.Second,
		SearchDeadline:    time.Duration(getEnvAsInt("SEARCH_DEADLINE", 90)) * time.Second,
		ResultHorizonDays: getEnvAsInt("RESULT_HORIZON_DAYS", 365),

		MinPrice: getEnvAsFloat("MIN_PRICE", 50),
		MaxPrice: getEnvAsFloat("MAX_PRICE", 10000),

		AdapterClientID:     getEnv("ADAPTER_CLIENT_ID", ""),
		AdapterClientSecret: getEnv("ADAPTER_CLIENT_SECRET", ""),
		AdapterTokenURL:     getEnv("ADAPTER_TOKEN_URL", ""),
	}

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

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseFloat(valueStr, 64); err == nil {
		return value
	}
	return defaultValue
}
