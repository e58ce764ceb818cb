package config

import (
	"os"

	"github.com/joho/godotenv"
)

const (
	defaultRecurlyAPI = "https://v3.recurly.com"
	defaultStripeAPI  = "https://api.stripe.com"
)

// Config carries credentials and endpoints sourced from the environment.
// Nothing is required at load time; the export path validates the Recurly key
// before making any API call. CLI flags override every field.
type Config struct {
	RecurlyKey     string
	StripeKey      string
	RecurlyAPI     string
	StripeAPI      string
	SentryDSN      string
	CheckpointPath string
}

// Load reads configuration from environment variables, after loading a .env
// file if one is present. godotenv never overrides variables already set.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		RecurlyKey:     os.Getenv("RECURLY_KEY"),
		StripeKey:      os.Getenv("STRIPE_KEY"),
		RecurlyAPI:     envOrDefault("RECURLY_API", defaultRecurlyAPI),
		StripeAPI:      envOrDefault("STRIPE_API", defaultStripeAPI),
		SentryDSN:      os.Getenv("SENTRY"),
		CheckpointPath: os.Getenv("REX_CHECKPOINT_FILE"),
	}
}

func envOrDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
