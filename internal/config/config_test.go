package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"API_ADDR", "BOT_TRANSPORT", "ORDER_API_BASE_URL", "GOOGLE_CALENDAR_ID",
		"GOOGLE_REDIRECT_URL", "GOOGLE_TOKEN_PATH", "SMTP_HOST", "CHARLIE_STATE_DIR",
		"WHATSAPP_DB_DSN", "DATABASE_URL", "SESSION_TTL", "REPLY_PACING",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.APIAddr != DefaultAPIAddr {
		t.Errorf("expected default API addr, got %q", cfg.APIAddr)
	}
	if cfg.Transport != TransportWhatsmeow {
		t.Errorf("expected whatsmeow transport, got %q", cfg.Transport)
	}
	if cfg.OrderBaseURL != DefaultOrderBaseURL {
		t.Errorf("expected default order base URL, got %q", cfg.OrderBaseURL)
	}
}

func TestLoadYAMLFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := []byte(`
display_name: Charlie Bot
business_name: Proelectricos
api_addr: ":4000"
order_base_url: "http://orders.internal:8080"
session_ttl: 30m
`)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.APIAddr != ":4000" {
		t.Errorf("expected file API addr, got %q", cfg.APIAddr)
	}
	if cfg.OrderBaseURL != "http://orders.internal:8080" {
		t.Errorf("expected file order base URL, got %q", cfg.OrderBaseURL)
	}
	if cfg.SessionTTL != 30*time.Minute {
		t.Errorf("expected 30m session TTL, got %v", cfg.SessionTTL)
	}
}

func TestEnvOverridesFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(`api_addr: ":4000"`), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("API_ADDR", ":5000")
	t.Setenv("SESSION_TTL", "1h")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.APIAddr != ":5000" {
		t.Errorf("expected env override, got %q", cfg.APIAddr)
	}
	if cfg.SessionTTL != time.Hour {
		t.Errorf("expected env session TTL, got %v", cfg.SessionTTL)
	}
}

func TestLoadRejectsUnknownTransport(t *testing.T) {
	clearEnv(t)
	t.Setenv("BOT_TRANSPORT", "smoke-signals")

	if _, err := Load(""); err == nil {
		t.Error("expected error for unknown transport")
	}
}

func TestLoadMissingFile(t *testing.T) {
	clearEnv(t)
	if _, err := Load("/nonexistent/config.yaml"); err == nil {
		t.Error("expected error for missing config file")
	}
}
