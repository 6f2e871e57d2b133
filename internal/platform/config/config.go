package config

import (
	"fmt"
	"log"
	"time"

	"github.com/fintrackhq/fintrack/internal/apperrors"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL   string
	Port          string
	IsProduction  bool
	EnableDBCheck bool

	// Rate provider settings
	RateProviderBaseURL     string
	RateProviderAPIKey      string
	RateProviderTimeout     time.Duration
	RateProviderMaxAttempts int
	RateProviderBackoffBase time.Duration

	// Conversion engine settings
	ConvertLockTimeout      time.Duration
	ConvertStatementTimeout time.Duration
	HistoricalRateFanout    int
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("ENABLE_DB_CHECK", false)
	viper.SetDefault("RATE_PROVIDER_BASE_URL", "https://v6.exchangerate-api.com")
	viper.SetDefault("RATE_PROVIDER_API_KEY", "")
	viper.SetDefault("RATE_PROVIDER_TIMEOUT", "10s")
	viper.SetDefault("RATE_PROVIDER_MAX_ATTEMPTS", 3)
	viper.SetDefault("RATE_PROVIDER_BACKOFF_BASE", "2s")
	viper.SetDefault("CONVERT_LOCK_TIMEOUT", "10s")
	viper.SetDefault("CONVERT_STATEMENT_TIMEOUT", "60s")
	viper.SetDefault("HISTORICAL_RATE_FANOUT", 8)

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}

	cfg.Port = viper.GetString("PORT")
	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")
	cfg.EnableDBCheck = viper.GetBool("ENABLE_DB_CHECK")

	cfg.RateProviderBaseURL = viper.GetString("RATE_PROVIDER_BASE_URL")
	cfg.RateProviderAPIKey = viper.GetString("RATE_PROVIDER_API_KEY")
	if cfg.RateProviderAPIKey == "" {
		return nil, fmt.Errorf("%w: RATE_PROVIDER_API_KEY is required", apperrors.ErrConfig)
	}

	cfg.RateProviderTimeout = parseDuration("RATE_PROVIDER_TIMEOUT", 10*time.Second)
	cfg.RateProviderBackoffBase = parseDuration("RATE_PROVIDER_BACKOFF_BASE", 2*time.Second)
	cfg.RateProviderMaxAttempts = viper.GetInt("RATE_PROVIDER_MAX_ATTEMPTS")
	if cfg.RateProviderMaxAttempts <= 0 {
		cfg.RateProviderMaxAttempts = 3
	}

	cfg.ConvertLockTimeout = parseDuration("CONVERT_LOCK_TIMEOUT", 10*time.Second)
	cfg.ConvertStatementTimeout = parseDuration("CONVERT_STATEMENT_TIMEOUT", 60*time.Second)
	cfg.HistoricalRateFanout = viper.GetInt("HISTORICAL_RATE_FANOUT")
	if cfg.HistoricalRateFanout <= 0 {
		cfg.HistoricalRateFanout = 8
	}

	return cfg, nil
}

// parseDuration reads a duration setting, falling back to the given
// default on a malformed value.
func parseDuration(key string, fallback time.Duration) time.Duration {
	raw := viper.GetString(key)
	d, err := time.ParseDuration(raw)
	if err != nil {
		if raw != "" {
			log.Printf("Warning: Invalid value for %s ('%s'). Defaulting to %s.\n", key, raw, fallback)
		}
		return fallback
	}
	return d
}
