package config

import (
	"strings"
	"testing"
)

func baseConfig() *Config {
	return &Config{
		Telegram: TelegramConfig{Token: "123:abc"},
	}
}

func TestNormalizeDefaults(t *testing.T) {
	cfg := baseConfig()
	if err := Normalize(cfg); err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if cfg.Telegram.RunMode != RunModeLongpoll {
		t.Fatalf("run_mode = %q", cfg.Telegram.RunMode)
	}
	if cfg.Storage.Driver != StorageCSV {
		t.Fatalf("driver = %q", cfg.Storage.Driver)
	}
	if cfg.Storage.CSVPath != "dados.csv" {
		t.Fatalf("csv_path = %q", cfg.Storage.CSVPath)
	}
}

func TestNormalizeRequiresToken(t *testing.T) {
	cfg := &Config{}
	err := Normalize(cfg)
	if err == nil || !strings.Contains(err.Error(), "token") {
		t.Fatalf("err = %v, want token error", err)
	}
}

func TestNormalizeWebhookMode(t *testing.T) {
	cfg := baseConfig()
	cfg.Telegram.RunMode = "webhook"
	if err := Normalize(cfg); err == nil {
		t.Fatal("expected error for webhook mode without url")
	}

	cfg.Webhook = WebhookConfig{URL: "https://example.org/hook", Listen: "0.0.0.0", Port: 8443}
	if err := Normalize(cfg); err != nil {
		t.Fatalf("normalize: %v", err)
	}
}

func TestNormalizePostgresDriver(t *testing.T) {
	cfg := baseConfig()
	cfg.Storage.Driver = "postgres"
	if err := Normalize(cfg); err == nil {
		t.Fatal("expected error without database.host")
	}

	cfg.Database.Host = "localhost"
	cfg.Database.Name = "dezbot"
	if err := Normalize(cfg); err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if cfg.Database.Port != "5432" || cfg.Database.SSLMode != "disable" {
		t.Fatalf("defaults not applied: %+v", cfg.Database)
	}
	if cfg.Database.MaxConnections != 4 {
		t.Fatalf("max_connections = %d", cfg.Database.MaxConnections)
	}
}

func TestNormalizeRejectsUnknownDriver(t *testing.T) {
	cfg := baseConfig()
	cfg.Storage.Driver = "sqlite"
	if err := Normalize(cfg); err == nil {
		t.Fatal("expected error for unknown driver")
	}
}

func TestNormalizeRateLimitExclusions(t *testing.T) {
	cfg := baseConfig()
	cfg.RateLimit.ExcludeUpdates = []string{" Message ", "callback"}
	if err := Normalize(cfg); err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if cfg.RateLimit.ExcludeUpdates[0] != "message" {
		t.Fatalf("exclusions = %v", cfg.RateLimit.ExcludeUpdates)
	}

	cfg.RateLimit.ExcludeUpdates = []string{"bogus"}
	if err := Normalize(cfg); err == nil {
		t.Fatal("expected error for invalid exclusion")
	}
}
