package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"connectrpc.com/connect"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/mmynk/bakery/internal/auth"
	"github.com/mmynk/bakery/internal/checkout"
	"github.com/mmynk/bakery/internal/config"
	"github.com/mmynk/bakery/internal/metrics"
	"github.com/mmynk/bakery/internal/middleware"
	"github.com/mmynk/bakery/internal/realtime"
	"github.com/mmynk/bakery/internal/service"
	"github.com/mmynk/bakery/internal/storage"
	"github.com/mmynk/bakery/internal/storage/sqlite"
	"github.com/mmynk/bakery/pkg/api/apiconnect"
	"github.com/mmynk/bakery/pkg/logging"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	logging.SetupWith(logging.ParseLevel(cfg.LogLevel), cfg.LogFormat)
	logger := slog.Default()

	store, err := sqlite.New(cfg.DBPath)
	if err != nil {
		slog.Error("Failed to initialize storage", "error", err)
		os.Exit(1)
	}
	defer store.Close()
	slog.Info("Storage initialized", "database", cfg.DBPath)

	if cfg.SeedCatalog {
		n, err := storage.SeedCakes(context.Background(), store)
		if err != nil {
			slog.Error("Failed to seed catalog", "error", err)
			os.Exit(1)
		}
		if n > 0 {
			slog.Info("Catalog seeded", "cakes", n)
		}
	}

	m := metrics.New()
	hub := realtime.NewHub()

	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.TokenTTL)
	authenticator := auth.NewPasswordAuthenticator(store, auth.WithAdminEmail(cfg.AdminEmail))
	verifier := auth.NewVerificationManager(store, auth.LogMailer{Logger: logger}, cfg.AppBaseURL)

	// Metrics wrap everything so rejected requests are counted too.
	optional := connect.WithInterceptors(
		middleware.NewMetricsInterceptor(m),
		middleware.OptionalAuth(jwtManager),
		middleware.NewLoggingInterceptor(logger),
	)
	required := connect.WithInterceptors(
		middleware.NewMetricsInterceptor(m),
		middleware.RequireAuth(jwtManager),
		middleware.NewLoggingInterceptor(logger),
	)

	carts := service.NewCartService(store, hub, m, logger)

	mux := http.NewServeMux()

	// Register Connect services
	mux.Handle(apiconnect.NewAuthServiceHandler(service.NewAuthService(authenticator, jwtManager, store, verifier, logger), optional))
	mux.Handle(apiconnect.NewCatalogServiceHandler(service.NewCatalogService(store, logger), optional))
	mux.Handle(apiconnect.NewCartServiceHandler(carts, required))
	mux.Handle(apiconnect.NewOrderServiceHandler(service.NewOrderService(store, carts, checkout.Fees{Delivery: cfg.DeliveryFee}, m, logger), required))
	mux.Handle(apiconnect.NewUserServiceHandler(service.NewUserService(store, logger), required))

	mux.Handle("/metrics", m.Handler())

	staticDir, err := filepath.Abs(cfg.StaticPath)
	if err != nil {
		slog.Error("Failed to resolve static path", "error", err)
		os.Exit(1)
	}
	slog.Info("Serving static files", "path", staticDir)

	// Handle all non-API routes with static file server
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/bakery.v1.") {
			http.NotFound(w, r)
			return
		}

		urlPath := r.URL.Path
		if urlPath == "/" {
			urlPath = "/index.html"
		}

		filePath := filepath.Join(staticDir, filepath.Clean(urlPath))

		// Unknown paths fall back to index.html for client-side routing
		if _, err := os.Stat(filePath); os.IsNotExist(err) {
			http.ServeFile(w, r, filepath.Join(staticDir, "index.html"))
			return
		}

		http.ServeFile(w, r, filePath)
	})

	loggedHandler := loggingMiddleware(corsMiddleware(mux))

	// Wrap with h2c for HTTP/2 without TLS (required for Connect streaming)
	h2cHandler := h2c.NewHandler(loggedHandler, &http2.Server{})

	addr := fmt.Sprintf(":%d", cfg.Port)
	slog.Info("Connect server starting", "address", addr, "url", cfg.AppBaseURL)
	if err := http.ListenAndServe(addr, h2cHandler); err != nil {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
}

// loggingMiddleware logs all incoming requests
func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		slog.Debug("Request received",
			"method", r.Method,
			"path", r.URL.Path,
			"remote_addr", r.RemoteAddr,
			"user_agent", r.UserAgent(),
		)

		next.ServeHTTP(w, r)

		slog.Debug("Request completed",
			"method", r.Method,
			"path", r.URL.Path,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}

// corsMiddleware adds CORS headers for browser access
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type, Connect-Protocol-Version, Connect-Timeout-Ms")
		w.Header().Set("Access-Control-Expose-Headers", "Connect-Protocol-Version, Connect-Timeout-Ms")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
