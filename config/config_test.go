package config

import (
	"strings"
	"testing"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("CLIENT_ID", "12345")
	t.Setenv("CLIENT_SECRET", "shhh")
	t.Setenv("OAUTH_URL", "https://www.strava.com/oauth")
	t.Setenv("WEBHOOK_URL", "https://bridge.example/webhook")
	t.Setenv("VERIFY_TOKEN", "verify-me")
	t.Setenv("DATABASE_URL", "postgres://localhost/health_to_earn")
}

func TestLoadDefaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.SweepIntervalSeconds != 60 {
		t.Fatalf("SweepIntervalSeconds = %d, want default 60", cfg.SweepIntervalSeconds)
	}
	if cfg.ProviderAPIURL != "https://www.strava.com/api/v3" {
		t.Fatalf("ProviderAPIURL = %q", cfg.ProviderAPIURL)
	}
	if cfg.Port == "" {
		t.Fatal("Port default missing")
	}
}

func TestLoadMissingRequired(t *testing.T) {
	setRequired(t)
	t.Setenv("CLIENT_SECRET", "")

	if _, err := Load(); err == nil || !strings.Contains(err.Error(), "CLIENT_SECRET") {
		t.Fatalf("expected CLIENT_SECRET error, got %v", err)
	}
}

func TestLoadSweepInterval(t *testing.T) {
	setRequired(t)
	t.Setenv("SWEEP_INTERVAL_SECONDS", "20")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.SweepIntervalSeconds != 20 {
		t.Fatalf("SweepIntervalSeconds = %d, want 20", cfg.SweepIntervalSeconds)
	}

	t.Setenv("SWEEP_INTERVAL_SECONDS", "soon")
	if _, err := Load(); err == nil {
		t.Fatal("expected error for non-numeric sweep interval")
	}

	t.Setenv("SWEEP_INTERVAL_SECONDS", "-5")
	if _, err := Load(); err == nil {
		t.Fatal("expected error for non-positive sweep interval")
	}
}
