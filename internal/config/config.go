// Package config reads server settings from the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// DevJWTSecret is used when JWT_SECRET is unset outside production.
const DevJWTSecret = "dev-secret-change-me"

// Config holds server settings. Zero values are never used; Load fills defaults.
type Config struct {
	Port       int
	DBPath     string
	StaticPath string

	JWTSecret string
	TokenTTL  time.Duration

	DeliveryFee float64
	AdminEmail  string
	AppBaseURL  string

	LogLevel  string
	LogFormat string

	// SeedCatalog loads sample cakes into an empty catalog on startup.
	SeedCatalog bool
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

// Load reads the environment. JWT_SECRET is required when APP_ENV=production.
func Load() (*Config, error) {
	cfg := &Config{
		DBPath:     getEnv("DB_PATH", "./data/bakery.db"),
		StaticPath: getEnv("STATIC_PATH", "../frontend/static"),
		JWTSecret:  os.Getenv("JWT_SECRET"),
		AdminEmail: os.Getenv("ADMIN_EMAIL"),
		LogLevel:   getEnv("LOG_LEVEL", "info"),
		LogFormat:  getEnv("LOG_FORMAT", "text"),
	}

	var errs []error
	var err error

	if cfg.Port, err = strconv.Atoi(getEnv("PORT", "8080")); err != nil {
		errs = append(errs, fmt.Errorf("PORT: %w", err))
	}
	if cfg.TokenTTL, err = time.ParseDuration(getEnv("TOKEN_TTL", "24h")); err != nil {
		errs = append(errs, fmt.Errorf("TOKEN_TTL: %w", err))
	}
	if cfg.DeliveryFee, err = strconv.ParseFloat(getEnv("DELIVERY_FEE", "5.00"), 64); err != nil {
		errs = append(errs, fmt.Errorf("DELIVERY_FEE: %w", err))
	} else if cfg.DeliveryFee < 0 {
		errs = append(errs, errors.New("DELIVERY_FEE: must not be negative"))
	}
	if cfg.SeedCatalog, err = strconv.ParseBool(getEnv("SEED_CATALOG", "false")); err != nil {
		errs = append(errs, fmt.Errorf("SEED_CATALOG: %w", err))
	}

	cfg.AppBaseURL = getEnv("APP_BASE_URL", fmt.Sprintf("http://localhost:%d", cfg.Port))

	if cfg.JWTSecret == "" {
		if os.Getenv("APP_ENV") == "production" {
			errs = append(errs, errors.New("JWT_SECRET is required in production"))
		}
		cfg.JWTSecret = DevJWTSecret
	}

	if err := errors.Join(errs...); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// ClientConfig holds settings for the cart command-line client.
type ClientConfig struct {
	ServerURL string
	// CacheDir holds the anonymous cart and the saved session.
	CacheDir string
	Debounce time.Duration
}

// LoadClient reads the client environment: APP_BASE_URL, CART_CACHE_DIR and
// CART_SYNC_DEBOUNCE.
func LoadClient() (*ClientConfig, error) {
	cfg := &ClientConfig{
		ServerURL: getEnv("APP_BASE_URL", "http://localhost:8080"),
		CacheDir:  os.Getenv("CART_CACHE_DIR"),
	}
	if cfg.CacheDir == "" {
		dir, err := os.UserCacheDir()
		if err != nil {
			dir = os.TempDir()
		}
		cfg.CacheDir = filepath.Join(dir, "bakery")
	}

	var err error
	if cfg.Debounce, err = time.ParseDuration(getEnv("CART_SYNC_DEBOUNCE", "500ms")); err != nil {
		return nil, fmt.Errorf("invalid configuration: CART_SYNC_DEBOUNCE: %w", err)
	}
	if cfg.Debounce < 0 {
		return nil, errors.New("invalid configuration: CART_SYNC_DEBOUNCE must not be negative")
	}
	return cfg, nil
}
