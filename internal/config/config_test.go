package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.API.BaseURL != "http://localhost:5000/api" {
		t.Fatalf("unexpected default API base URL: %s", cfg.API.BaseURL)
	}
	if cfg.Realtime.URL != "ws://localhost:5000/ws" {
		t.Fatalf("unexpected default socket URL: %s", cfg.Realtime.URL)
	}
	if cfg.Feed.Cap != 200 {
		t.Fatalf("expected feed cap 200, got %d", cfg.Feed.Cap)
	}
	if cfg.Toast.TTL() != 5*time.Second {
		t.Fatalf("expected 5s toast TTL, got %s", cfg.Toast.TTL())
	}
	if cfg.Vault.Path == "" {
		t.Fatal("expected a default vault path")
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("API_BASE_URL", "https://medilink.example.com/api")
	t.Setenv("SOCKET_URL", "wss://medilink.example.com/ws")
	t.Setenv("VAULT_PATH", "/tmp/medilink-test/session.json")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("FEED_CAP", "50")
	t.Setenv("TOAST_TTL_SECONDS", "2")
	t.Setenv("API_REQUEST_TIMEOUT_SECONDS", "10")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.API.BaseURL != "https://medilink.example.com/api" {
		t.Fatalf("expected API_BASE_URL override, got %s", cfg.API.BaseURL)
	}
	if cfg.Realtime.URL != "wss://medilink.example.com/ws" {
		t.Fatalf("expected SOCKET_URL override, got %s", cfg.Realtime.URL)
	}
	if cfg.Vault.Path != "/tmp/medilink-test/session.json" {
		t.Fatalf("expected VAULT_PATH override, got %s", cfg.Vault.Path)
	}
	if cfg.Logger.Level != "debug" {
		t.Fatalf("expected LOG_LEVEL override, got %s", cfg.Logger.Level)
	}
	if cfg.Feed.Cap != 50 {
		t.Fatalf("expected FEED_CAP 50, got %d", cfg.Feed.Cap)
	}
	if cfg.Toast.TTL() != 2*time.Second {
		t.Fatalf("expected TOAST_TTL 2s, got %s", cfg.Toast.TTL())
	}
	if cfg.API.RequestTimeout() != 10*time.Second {
		t.Fatalf("expected request timeout 10s, got %s", cfg.API.RequestTimeout())
	}
}

func TestLoadIgnoresMalformedInts(t *testing.T) {
	t.Setenv("FEED_CAP", "not-a-number")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Feed.Cap != 200 {
		t.Fatalf("expected fallback feed cap, got %d", cfg.Feed.Cap)
	}
}
