// Package config loads server configuration from the environment, with an
// optional .env file for local runs.
package config

import (
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/Rushit-Mehta/kuyan/internal/domain"
)

// Config holds application configuration
type Config struct {
	DatabaseURL          string
	Port                 string
	APIToken             string
	DefaultCurrency      domain.CurrencyCode
	IntermediaryCurrency domain.CurrencyCode
	FrankfurterURL       string
	CORSAllowedOrigins   []string
	MigrationsPath       string
	SeedSampleData       bool
	IsProduction         bool
}

// Load reads configuration from environment variables and a .env file if
// present. Environment variables win over .env values, which win over the
// built-in defaults.
func Load() (*Config, error) {
	// Attempt to load .env, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("DATABASE_URL", "")
	viper.SetDefault("DB_HOST", "localhost")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_USER", "postgres")
	viper.SetDefault("DB_PASSWORD", "postgres")
	viper.SetDefault("DB_NAME", "kuyan")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("API_TOKEN", "")
	viper.SetDefault("DEFAULT_CURRENCY", "CAD")
	viper.SetDefault("INTERMEDIARY_CURRENCY", "USD")
	viper.SetDefault("FRANKFURTER_URL", "")
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "")
	viper.SetDefault("MIGRATIONS_PATH", "migrations")
	viper.SetDefault("SEED_SAMPLE_DATA", false)
	viper.SetDefault("IS_PRODUCTION", false)
	viper.AutomaticEnv()

	cfg := &Config{
		Port:           viper.GetString("PORT"),
		APIToken:       viper.GetString("API_TOKEN"),
		FrankfurterURL: viper.GetString("FRANKFURTER_URL"),
		MigrationsPath: viper.GetString("MIGRATIONS_PATH"),
		SeedSampleData: viper.GetBool("SEED_SAMPLE_DATA"),
		IsProduction:   viper.GetBool("IS_PRODUCTION"),
	}

	// Explicit URL wins; otherwise build it from the individual DB_* vars
	// (Docker friendly)
	cfg.DatabaseURL = viper.GetString("DATABASE_URL")
	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
			viper.GetString("DB_HOST"),
			viper.GetString("DB_PORT"),
			viper.GetString("DB_USER"),
			viper.GetString("DB_PASSWORD"),
			viper.GetString("DB_NAME"),
		)
	}

	defaultCurrency := domain.CurrencyCode(strings.ToUpper(viper.GetString("DEFAULT_CURRENCY")))
	if !defaultCurrency.Valid() {
		return nil, fmt.Errorf("DEFAULT_CURRENCY %q is not a valid currency code", viper.GetString("DEFAULT_CURRENCY"))
	}
	cfg.DefaultCurrency = defaultCurrency

	intermediary := domain.CurrencyCode(strings.ToUpper(viper.GetString("INTERMEDIARY_CURRENCY")))
	if !intermediary.Valid() {
		return nil, fmt.Errorf("INTERMEDIARY_CURRENCY %q is not a valid currency code", viper.GetString("INTERMEDIARY_CURRENCY"))
	}
	cfg.IntermediaryCurrency = intermediary

	cfg.CORSAllowedOrigins = splitOrigins(viper.GetString("CORS_ALLOWED_ORIGINS"))

	return cfg, nil
}

// splitOrigins parses a comma-separated origin list; an empty value means
// all origins are allowed
func splitOrigins(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	origins := make([]string, 0, len(parts))
	for _, part := range parts {
		if origin := strings.TrimSpace(part); origin != "" {
			origins = append(origins, origin)
		}
	}
	return origins
}
