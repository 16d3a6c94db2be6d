package config

import (
	"log"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL   string
	Port          string
	IsProduction  bool
	EnableDBCheck bool

	// PrimaryCurrencyCode anchors the exchange rate graph: rates are quoted
	// against it, cross pairs triangulate through it, and journal entries are
	// posted in it.
	PrimaryCurrencyCode string

	// Rate limiting, e.g. "100-M" for 100 requests per minute per IP.
	RateLimit string

	// Analytics; empty disables the posthog client.
	PosthogAPIKey string

	// CORS
	CORSAllowedOrigins []string
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("ENABLE_DB_CHECK", false)
	viper.SetDefault("PRIMARY_CURRENCY_CODE", "USD")
	viper.SetDefault("RATE_LIMIT", "300-M")
	viper.SetDefault("POSTHOG_API_KEY", "")
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "")

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}

	cfg.Port = viper.GetString("PORT")
	if cfg.Port == "" {
		cfg.Port = "8080"
		log.Printf("Warning: PORT environment variable not set. Defaulting to %s\n", cfg.Port)
	}

	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")
	cfg.EnableDBCheck = viper.GetBool("ENABLE_DB_CHECK")

	cfg.PrimaryCurrencyCode = strings.ToUpper(viper.GetString("PRIMARY_CURRENCY_CODE"))
	if len(cfg.PrimaryCurrencyCode) != 3 {
		log.Printf("Warning: PRIMARY_CURRENCY_CODE ('%s') is not a 3-letter code. Defaulting to USD.\n", cfg.PrimaryCurrencyCode)
		cfg.PrimaryCurrencyCode = "USD"
	}

	cfg.RateLimit = viper.GetString("RATE_LIMIT")
	cfg.PosthogAPIKey = viper.GetString("POSTHOG_API_KEY")

	if origins := viper.GetString("CORS_ALLOWED_ORIGINS"); origins != "" {
		cfg.CORSAllowedOrigins = strings.Split(origins, ",")
	}

	return cfg, nil
}
