package config

import (
	"strings"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"PORT", "DB_PATH", "JWT_SECRET", "TOKEN_TTL", "DELIVERY_FEE", "APP_BASE_URL", "APP_ENV", "SEED_CATALOG"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Port != 8080 {
		t.Errorf("Port = %d, want 8080", cfg.Port)
	}
	if cfg.DBPath != "./data/bakery.db" {
		t.Errorf("DBPath = %q", cfg.DBPath)
	}
	if cfg.TokenTTL != 24*time.Hour {
		t.Errorf("TokenTTL = %v, want 24h", cfg.TokenTTL)
	}
	if cfg.DeliveryFee != 5 {
		t.Errorf("DeliveryFee = %v, want 5", cfg.DeliveryFee)
	}
	if cfg.JWTSecret != DevJWTSecret {
		t.Errorf("JWTSecret = %q, want dev secret", cfg.JWTSecret)
	}
	if cfg.AppBaseURL != "http://localhost:8080" {
		t.Errorf("AppBaseURL = %q", cfg.AppBaseURL)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("DELIVERY_FEE", "7.5")
	t.Setenv("TOKEN_TTL", "1h")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("APP_BASE_URL", "https://bakery.example")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Port != 9090 || cfg.DeliveryFee != 7.5 || cfg.TokenTTL != time.Hour || cfg.JWTSecret != "s3cret" {
		t.Errorf("unexpected config: %+v", cfg)
	}
	if cfg.AppBaseURL != "https://bakery.example" {
		t.Errorf("AppBaseURL = %q", cfg.AppBaseURL)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want string
	}{
		{"bad port", map[string]string{"PORT": "http"}, "PORT"},
		{"negative fee", map[string]string{"DELIVERY_FEE": "-1"}, "DELIVERY_FEE"},
		{"bad seed flag", map[string]string{"SEED_CATALOG": "maybe"}, "SEED_CATALOG"},
		{"production without secret", map[string]string{"APP_ENV": "production", "JWT_SECRET": ""}, "JWT_SECRET"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Load() error = %v, want mention of %s", err, tt.want)
			}
		})
	}
}

func TestLoadClient(t *testing.T) {
	t.Setenv("APP_BASE_URL", "")
	t.Setenv("CART_CACHE_DIR", "/tmp/bakery-cart")
	t.Setenv("CART_SYNC_DEBOUNCE", "")

	cfg, err := LoadClient()
	if err != nil {
		t.Fatalf("LoadClient failed: %v", err)
	}
	if cfg.ServerURL != "http://localhost:8080" || cfg.CacheDir != "/tmp/bakery-cart" || cfg.Debounce != 500*time.Millisecond {
		t.Errorf("unexpected client config: %+v", cfg)
	}

	for _, bad := range []string{"soon", "-1s"} {
		t.Setenv("CART_SYNC_DEBOUNCE", bad)
		if _, err := LoadClient(); err == nil || !strings.Contains(err.Error(), "CART_SYNC_DEBOUNCE") {
			t.Errorf("LoadClient() with %q: error = %v", bad, err)
		}
	}
}
