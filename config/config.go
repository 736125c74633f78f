package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds every process-wide setting. All provider secrets are
// required; nothing falls back to a baked-in credential.
type Config struct {
	// Strava application credentials
	ClientID     string
	ClientSecret string

	// OAuthURL is the provider's OAuth base, e.g. https://www.strava.com/oauth
	// (the /authorize and /token endpoints hang off it).
	OAuthURL string

	// ProviderAPIURL is the provider's REST base used for subscription
	// registration, e.g. https://www.strava.com/api/v3
	ProviderAPIURL string

	// WebhookURL is this service's public callback, handed to the provider
	// when registering the webhook subscription.
	WebhookURL string

	// VerifyToken is the shared secret echoed by the provider during
	// subscription verification.
	VerifyToken string

	// HostStoreURL is the wallet host application's store endpoint, used by
	// the wallet bridge. Optional: payout wiring tolerates its absence.
	HostStoreURL string

	DatabaseURL string
	Port        string

	// SweepIntervalSeconds controls the payout sweep cadence. Earlier docs
	// disagreed with the deployed trigger (20s vs 1m); the interval is now
	// explicit with a single default of 60.
	SweepIntervalSeconds int
}

// Load reads configuration from the environment, after a best-effort .env
// load for local development.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		ClientID:       os.Getenv("CLIENT_ID"),
		ClientSecret:   os.Getenv("CLIENT_SECRET"),
		OAuthURL:       os.Getenv("OAUTH_URL"),
		ProviderAPIURL: getEnvOrDefault("PROVIDER_API_URL", "https://www.strava.com/api/v3"),
		WebhookURL:     os.Getenv("WEBHOOK_URL"),
		VerifyToken:    os.Getenv("VERIFY_TOKEN"),
		HostStoreURL:   os.Getenv("HOST_STORE_URL"),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		Port:           getEnvOrDefault("PORT", "4680"),
	}

	intervalStr := getEnvOrDefault("SWEEP_INTERVAL_SECONDS", "60")
	interval, err := strconv.Atoi(intervalStr)
	if err != nil || interval <= 0 {
		return nil, fmt.Errorf("invalid SWEEP_INTERVAL_SECONDS %q", intervalStr)
	}
	cfg.SweepIntervalSeconds = interval

	for name, value := range map[string]string{
		"CLIENT_ID":     cfg.ClientID,
		"CLIENT_SECRET": cfg.ClientSecret,
		"OAUTH_URL":     cfg.OAuthURL,
		"WEBHOOK_URL":   cfg.WebhookURL,
		"VERIFY_TOKEN":  cfg.VerifyToken,
		"DATABASE_URL":  cfg.DatabaseURL,
	} {
		if value == "" {
			return nil, fmt.Errorf("%s is required", name)
		}
	}

	return cfg, nil
}

func getEnvOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
