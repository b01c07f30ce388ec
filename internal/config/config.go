// Package config handles application configuration from environment variables
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	// Server settings
	Port     string
	MLPort   string // model service listen port
	Env      string // "development", "staging", "production"
	LogLevel string

	// Database
	DatabaseURL string // PostgreSQL connection string (optional, uses in-memory if not set)

	// Model service
	MLServiceURL string
	MLTimeout    time.Duration
	ModelDir     string // where trained model snapshots are written

	// Training
	TrainingSamples int
	TrainingSeed    int64

	// Blockchain settings
	RPCURL  string
	Network string

	// Pricing
	ETHPriceUSD float64 // used to express gas fees in USD
}

const (
	DefaultPort         = "8080"
	DefaultMLPort       = "8081"
	DefaultEnv          = "development"
	DefaultLogLevel     = "info"
	DefaultMLServiceURL = "http://localhost:8081"
	DefaultMLTimeout    = 10 * time.Second
	DefaultModelDir     = "models"
	DefaultSamples      = 10000
	DefaultSeed         = 42
	DefaultRPCURL       = "https://sepolia.base.org"
	DefaultNetwork      = "base-sepolia"
	DefaultETHPriceUSD  = 2000.0
)

// Load reads configuration from environment variables
// It loads .env file if present (for local development)
func Load() (*Config, error) {
	// Load .env file if it exists (ignore error if not present)
	_ = godotenv.Load()

	cfg := &Config{
		Port:            getEnv("PORT", DefaultPort),
		MLPort:          getEnv("ML_PORT", DefaultMLPort),
		Env:             getEnv("ENV", DefaultEnv),
		LogLevel:        getEnv("LOG_LEVEL", DefaultLogLevel),
		DatabaseURL:     os.Getenv("DATABASE_URL"), // Optional, uses in-memory if not set
		MLServiceURL:    getEnv("ML_SERVICE_URL", DefaultMLServiceURL),
		MLTimeout:       getEnvDuration("ML_TIMEOUT", DefaultMLTimeout),
		ModelDir:        getEnv("MODEL_DIR", DefaultModelDir),
		TrainingSamples: int(getEnvInt64("TRAINING_SAMPLES", DefaultSamples)),
		TrainingSeed:    getEnvInt64("TRAINING_SEED", DefaultSeed),
		RPCURL:          getEnv("RPC_URL", DefaultRPCURL),
		Network:         getEnv("NETWORK", DefaultNetwork),
		ETHPriceUSD:     getEnvFloat("ETH_PRICE_USD", DefaultETHPriceUSD),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks that all required configuration is present
func (c *Config) Validate() error {
	if c.MLServiceURL == "" {
		return fmt.Errorf("ML_SERVICE_URL is required")
	}
	if c.TrainingSamples < 100 {
		return fmt.Errorf("TRAINING_SAMPLES must be at least 100")
	}
	if c.ETHPriceUSD <= 0 {
		return fmt.Errorf("ETH_PRICE_USD must be positive")
	}
	return nil
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Helper functions

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.ParseInt(value, 10, 64); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
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
