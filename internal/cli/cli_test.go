package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"connectrpc.com/connect"
	"golang.org/x/crypto/bcrypt"

	"github.com/mmynk/bakery/internal/auth"
	"github.com/mmynk/bakery/internal/checkout"
	"github.com/mmynk/bakery/internal/config"
	"github.com/mmynk/bakery/internal/metrics"
	"github.com/mmynk/bakery/internal/middleware"
	"github.com/mmynk/bakery/internal/models"
	"github.com/mmynk/bakery/internal/realtime"
	"github.com/mmynk/bakery/internal/service"
	"github.com/mmynk/bakery/internal/storage/sqlite"
	"github.com/mmynk/bakery/pkg/api"
	"github.com/mmynk/bakery/pkg/api/apiconnect"
)

type testEnv struct {
	url      string
	cacheDir string
	store    *sqlite.SQLiteStore
	auth     apiconnect.AuthServiceClient
}

func setupTestServer(t *testing.T) *testEnv {
	t.Helper()

	dir := t.TempDir()
	store, err := sqlite.New(filepath.Join(dir, "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	m := metrics.New()
	jwtManager := auth.NewJWTManager("cli-secret", time.Hour)
	authenticator := auth.NewPasswordAuthenticator(store, auth.WithBcryptCost(bcrypt.MinCost))
	verifier := auth.NewVerificationManager(store, auth.LogMailer{Logger: logger}, "http://bakery.test")

	optional := connect.WithInterceptors(middleware.OptionalAuth(jwtManager))
	required := connect.WithInterceptors(middleware.RequireAuth(jwtManager))
	carts := service.NewCartService(store, realtime.NewHub(), m, logger)

	mux := http.NewServeMux()
	mux.Handle(apiconnect.NewAuthServiceHandler(service.NewAuthService(authenticator, jwtManager, store, verifier, logger), optional))
	mux.Handle(apiconnect.NewCatalogServiceHandler(service.NewCatalogService(store, logger), optional))
	mux.Handle(apiconnect.NewCartServiceHandler(carts, required))
	mux.Handle(apiconnect.NewOrderServiceHandler(service.NewOrderService(store, carts, checkout.Fees{Delivery: 5}, m, logger), required))

	server := httptest.NewServer(mux)
	t.Cleanup(func() {
		server.Close()
		store.Close()
	})

	return &testEnv{
		url:      server.URL,
		cacheDir: filepath.Join(dir, "cache"),
		store:    store,
		auth:     apiconnect.NewAuthServiceClient(http.DefaultClient, server.URL),
	}
}

func (e *testEnv) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand(&config.ClientConfig{ServerURL: e.url, CacheDir: e.cacheDir, Debounce: time.Hour})
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func (e *testEnv) mustRun(t *testing.T, args ...string) string {
	t.Helper()
	out, err := e.run(t, args...)
	if err != nil {
		t.Fatalf("bakery-cart %s failed: %v", strings.Join(args, " "), err)
	}
	return out
}

func (e *testEnv) cartJSON(t *testing.T) models.CartState {
	t.Helper()
	var state models.CartState
	if err := json.Unmarshal([]byte(e.mustRun(t, "show", "--format", "json")), &state); err != nil {
		t.Fatalf("failed to decode cart: %v", err)
	}
	return state
}

func (e *testEnv) seedCake(t *testing.T) *models.Cake {
	t.Helper()
	cake := &models.Cake{
		Name:      "Vanilla",
		Available: true,
		Sizes: []models.Size{
			{Label: "Standard", Servings: 8, Price: 10},
			{Label: "Large", Servings: 16, Price: 20},
		},
	}
	if err := e.store.CreateCake(context.Background(), cake); err != nil {
		t.Fatalf("CreateCake failed: %v", err)
	}
	return cake
}

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommand(&config.ClientConfig{})
	for _, name := range []string{"login", "logout", "show", "add", "remove", "set-qty", "clear", "watch", "checkout", "orders"} {
		t.Run(name, func(t *testing.T) {
			sub, _, err := cmd.Find([]string{name})
			if err != nil || sub.Name() != name {
				t.Errorf("command %s not found: %v", name, err)
			}
		})
	}
}

func TestInvalidFormat(t *testing.T) {
	env := &testEnv{cacheDir: t.TempDir()}
	_, err := env.run(t, "show", "--format", "yaml")
	if err == nil || !strings.Contains(err.Error(), "invalid format") {
		t.Errorf("expected invalid format error, got %v", err)
	}
}

func TestAnonymousCart(t *testing.T) {
	env := setupTestServer(t)
	cake := env.seedCake(t)

	out := env.mustRun(t, "add", cake.ID, "--qty", "2")
	if !strings.Contains(out, "total $21.65") {
		t.Errorf("unexpected output:\n%s", out)
	}
	env.mustRun(t, "add", cake.ID, "--size", "Large", "--note", "Happy Birthday")

	state := env.cartJSON(t)
	if len(state.Items) != 2 || state.Subtotal != 40 {
		t.Fatalf("unexpected cart: %+v", state)
	}
	if _, err := os.Stat(filepath.Join(env.cacheDir, "bakeryCart.json")); err != nil {
		t.Errorf("expected device cart file: %v", err)
	}

	large := state.Items[1].ID
	env.mustRun(t, "set-qty", large, "3")
	if state := env.cartJSON(t); state.Items[1].Quantity != 3 {
		t.Errorf("expected quantity 3, got %d", state.Items[1].Quantity)
	}
	env.mustRun(t, "remove", large)
	if state := env.cartJSON(t); len(state.Items) != 1 {
		t.Errorf("expected 1 line, got %d", len(state.Items))
	}
	if out := env.mustRun(t, "clear"); !strings.Contains(out, "empty") {
		t.Errorf("unexpected output:\n%s", out)
	}

	if _, err := env.run(t, "add", cake.ID, "--size", "Huge"); err == nil {
		t.Error("expected error for unknown size")
	}
	if _, err := env.run(t, "set-qty", large, "many"); err == nil {
		t.Error("expected error for bad quantity")
	}
	if _, err := env.run(t, "orders"); err == nil {
		t.Error("expected orders to require a session")
	}
}

func TestLoginCheckoutLogout(t *testing.T) {
	env := setupTestServer(t)
	cake := env.seedCake(t)
	if _, err := env.auth.Register(context.Background(), connect.NewRequest(&api.RegisterRequest{
		Email: "sam@example.com", DisplayName: "Sam", Password: "correct-horse",
	})); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	env.mustRun(t, "add", cake.ID, "--qty", "2")

	if _, err := env.run(t, "login", "--email", "sam@example.com", "--password", "wrong-horse"); err == nil {
		t.Fatal("expected login with a bad password to fail")
	}
	env.mustRun(t, "login", "--email", "sam@example.com", "--password", "correct-horse")

	if _, err := os.Stat(filepath.Join(env.cacheDir, "bakeryCart.json")); !os.IsNotExist(err) {
		t.Errorf("expected device cart promoted and cleared, got %v", err)
	}
	state := env.cartJSON(t)
	if len(state.Items) != 1 || state.Total != 21.65 {
		t.Fatalf("expected account cart with the device line, got %+v", state)
	}

	out := env.mustRun(t, "checkout", "--name", "Sam", "--pay", "cash", "--pickup-in", "3h")
	if !strings.Contains(out, "placed: pending, payment pending, total $21.65") {
		t.Errorf("unexpected checkout output:\n%s", out)
	}
	if state := env.cartJSON(t); len(state.Items) != 0 {
		t.Errorf("expected cart emptied after checkout, got %+v", state.Items)
	}
	if out := env.mustRun(t, "orders"); !strings.Contains(out, "pending") {
		t.Errorf("unexpected orders output:\n%s", out)
	}
	if _, err := env.run(t, "checkout", "--name", "Sam"); err == nil {
		t.Error("expected checkout of an empty cart to fail")
	}

	env.mustRun(t, "logout")
	if _, err := os.Stat(filepath.Join(env.cacheDir, sessionFile)); !os.IsNotExist(err) {
		t.Errorf("expected session removed, got %v", err)
	}
	if state := env.cartJSON(t); len(state.Items) != 0 {
		t.Errorf("expected empty device cart after logout, got %+v", state.Items)
	}
}

func TestSession(t *testing.T) {
	dir := t.TempDir()
	if s, err := loadSession(dir); err != nil || s != nil {
		t.Fatalf("expected no session, got %+v, %v", s, err)
	}
	want := &Session{Token: "t", UserID: "u1", Email: "a@b.c"}
	if err := saveSession(dir, want); err != nil {
		t.Fatalf("saveSession failed: %v", err)
	}
	got, err := loadSession(dir)
	if err != nil || *got != *want {
		t.Errorf("loadSession = %+v, %v", got, err)
	}
	if err := clearSession(dir); err != nil {
		t.Fatalf("clearSession failed: %v", err)
	}
	if err := clearSession(dir); err != nil {
		t.Errorf("second clearSession failed: %v", err)
	}
}
