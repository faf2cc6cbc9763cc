package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/iho/ledgerlens/internal/infrastructure/config"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("JWT_SECRET", "")

	cfg, err := config.Load(filepath.Join(t.TempDir(), "missing.env"))
	if err != nil {
		t.Fatalf("unexpected error loading config: %v", err)
	}

	if cfg.DatabaseURL == "" {
		t.Fatalf("expected default database URL to be set")
	}

	if cfg.JWTSecret != "" {
		t.Fatalf("expected JWT secret default to be empty, got %q", cfg.JWTSecret)
	}

	if cfg.HTTPPort != "8080" {
		t.Fatalf("expected default HTTP port 8080, got %s", cfg.HTTPPort)
	}

	if cfg.Currency != "INR" {
		t.Fatalf("expected default currency INR, got %s", cfg.Currency)
	}

	if cfg.SMTPConfigured() {
		t.Fatalf("expected SMTP to be unconfigured by default")
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://example")
	t.Setenv("REDIS_URL", "redis://example")
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("DATABASE_TIMEOUT", "45s")
	t.Setenv("JWT_SECRET", "top-secret")
	t.Setenv("AUTH_ENABLED", "true")
	t.Setenv("DIGEST_RECIPIENTS", "a@example.com,b@example.com")
	t.Setenv("API_KEYS", "ops:operator:k1,bi:viewer:k2")

	cfg, err := config.Load(filepath.Join(t.TempDir(), "missing.env"))
	if err != nil {
		t.Fatalf("unexpected error loading config: %v", err)
	}

	if cfg.DatabaseURL != "postgres://example" {
		t.Fatalf("expected custom database URL, got %s", cfg.DatabaseURL)
	}

	if cfg.RedisURL != "redis://example" {
		t.Fatalf("expected custom redis URL, got %s", cfg.RedisURL)
	}

	if cfg.HTTPPort != "9090" {
		t.Fatalf("expected HTTP port override, got %s", cfg.HTTPPort)
	}

	if cfg.DatabaseTimeout != 45*time.Second {
		t.Fatalf("expected database timeout override, got %s", cfg.DatabaseTimeout)
	}

	if cfg.JWTSecret != "top-secret" || !cfg.AuthEnabled {
		t.Fatalf("expected auth settings to be set, got secret=%s enabled=%v", cfg.JWTSecret, cfg.AuthEnabled)
	}

	if len(cfg.DigestRecipients) != 2 || cfg.DigestRecipients[1] != "b@example.com" {
		t.Fatalf("expected two digest recipients, got %v", cfg.DigestRecipients)
	}

	if len(cfg.APIKeys) != 2 || cfg.APIKeys[0] != "ops:operator:k1" {
		t.Fatalf("expected two API keys, got %v", cfg.APIKeys)
	}
}

func TestLoadDotEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.env")
	content := "SMTP_HOST=smtp.example.com\nSMTP_USERNAME=bot\nSMTP_PASSWORD=secret\nCURRENCY=USD\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write env file: %v", err)
	}
	for _, k := range []string{"SMTP_HOST", "SMTP_USERNAME", "SMTP_PASSWORD"} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
	t.Setenv("CURRENCY", "EUR")

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("unexpected error loading config: %v", err)
	}

	if !cfg.SMTPConfigured() {
		t.Fatalf("expected SMTP settings from env file, got %+v", cfg)
	}

	if cfg.Currency != "EUR" {
		t.Fatalf("expected environment to win over env file, got %s", cfg.Currency)
	}
}

func TestLoadInvalidDuration(t *testing.T) {
	t.Setenv("HTTP_READ_TIMEOUT", "not-a-duration")

	if _, err := config.Load(filepath.Join(t.TempDir(), "missing.env")); err == nil {
		t.Fatalf("expected error for invalid duration")
	}
}
