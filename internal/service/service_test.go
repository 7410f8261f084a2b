package service

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"connectrpc.com/connect"
	"golang.org/x/crypto/bcrypt"

	"github.com/mmynk/bakery/internal/auth"
	"github.com/mmynk/bakery/internal/checkout"
	"github.com/mmynk/bakery/internal/metrics"
	"github.com/mmynk/bakery/internal/middleware"
	"github.com/mmynk/bakery/internal/models"
	"github.com/mmynk/bakery/internal/realtime"
	"github.com/mmynk/bakery/internal/storage/sqlite"
	"github.com/mmynk/bakery/pkg/api"
	"github.com/mmynk/bakery/pkg/api/apiconnect"
)

const testAdminEmail = "owner@bakery.test"

type recordingMailer struct {
	mu     sync.Mutex
	bodies map[string]string
}

func (r *recordingMailer) Send(ctx context.Context, to, subject, body string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.bodies == nil {
		r.bodies = make(map[string]string)
	}
	r.bodies[to] = body
	return nil
}

// token returns the verification token from the last email sent to addr.
func (r *recordingMailer) token(addr string) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	body := r.bodies[addr]
	i := strings.Index(body, "token=")
	if i < 0 {
		return ""
	}
	return strings.TrimSpace(body[i+len("token="):])
}

type testEnv struct {
	store   *sqlite.SQLiteStore
	hub     *realtime.Hub
	metrics *metrics.Metrics
	mailer  *recordingMailer

	auth    apiconnect.AuthServiceClient
	catalog apiconnect.CatalogServiceClient
	cart    apiconnect.CartServiceClient
	orders  apiconnect.OrderServiceClient
	users   apiconnect.UserServiceClient
}

// setupTestServer serves every service over httptest against a temp database.
func setupTestServer(t *testing.T) *testEnv {
	t.Helper()

	tmpDir, err := os.MkdirTemp("", "bakery-service-*")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	store, err := sqlite.New(filepath.Join(tmpDir, "test.db"))
	if err != nil {
		os.RemoveAll(tmpDir)
		t.Fatalf("failed to create store: %v", err)
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	env := &testEnv{
		store:   store,
		hub:     realtime.NewHub(),
		metrics: metrics.New(),
		mailer:  &recordingMailer{},
	}

	jwtManager := auth.NewJWTManager("test-secret", time.Hour)
	authenticator := auth.NewPasswordAuthenticator(store,
		auth.WithBcryptCost(bcrypt.MinCost),
		auth.WithAdminEmail(testAdminEmail),
	)
	verifier := auth.NewVerificationManager(store, env.mailer, "http://bakery.test")

	cartSvc := NewCartService(store, env.hub, env.metrics, logger)

	common := []connect.Interceptor{
		middleware.NewMetricsInterceptor(env.metrics),
	}
	optional := connect.WithInterceptors(append(common, middleware.OptionalAuth(jwtManager), middleware.NewLoggingInterceptor(logger))...)
	required := connect.WithInterceptors(append(common, middleware.RequireAuth(jwtManager), middleware.NewLoggingInterceptor(logger))...)

	mux := http.NewServeMux()
	mux.Handle(apiconnect.NewAuthServiceHandler(NewAuthService(authenticator, jwtManager, store, verifier, logger), optional))
	mux.Handle(apiconnect.NewCatalogServiceHandler(NewCatalogService(store, logger), optional))
	mux.Handle(apiconnect.NewCartServiceHandler(cartSvc, required))
	mux.Handle(apiconnect.NewOrderServiceHandler(NewOrderService(store, cartSvc, checkout.Fees{Delivery: 5}, env.metrics, logger), required))
	mux.Handle(apiconnect.NewUserServiceHandler(NewUserService(store, logger), required))

	server := httptest.NewServer(mux)
	t.Cleanup(func() {
		server.Close()
		store.Close()
		os.RemoveAll(tmpDir)
	})

	env.auth = apiconnect.NewAuthServiceClient(http.DefaultClient, server.URL)
	env.catalog = apiconnect.NewCatalogServiceClient(http.DefaultClient, server.URL)
	env.cart = apiconnect.NewCartServiceClient(http.DefaultClient, server.URL)
	env.orders = apiconnect.NewOrderServiceClient(http.DefaultClient, server.URL)
	env.users = apiconnect.NewUserServiceClient(http.DefaultClient, server.URL)
	return env
}

// authed wraps msg in a request carrying a bearer token.
func authed[T any](msg *T, token string) *connect.Request[T] {
	req := connect.NewRequest(msg)
	if token != "" {
		req.Header().Set("Authorization", "Bearer "+token)
	}
	return req
}

// signup registers an account and returns its session token.
func (e *testEnv) signup(t *testing.T, email string) (string, *api.User) {
	t.Helper()
	resp, err := e.auth.Register(context.Background(), connect.NewRequest(&api.RegisterRequest{
		Email:       email,
		DisplayName: strings.Split(email, "@")[0],
		Password:    "correct-horse",
	}))
	if err != nil {
		t.Fatalf("Register(%s) failed: %v", email, err)
	}
	return resp.Msg.Token, resp.Msg.User
}

// staff registers an account with role and logs in again so the token carries it.
func (e *testEnv) staff(t *testing.T, email string, role models.Role) string {
	t.Helper()
	_, user := e.signup(t, email)
	if err := e.store.SetUserRole(context.Background(), user.Id, role); err != nil {
		t.Fatalf("SetUserRole failed: %v", err)
	}
	resp, err := e.auth.Login(context.Background(), connect.NewRequest(&api.LoginRequest{
		Email:    email,
		Password: "correct-horse",
	}))
	if err != nil {
		t.Fatalf("Login(%s) failed: %v", email, err)
	}
	return resp.Msg.Token
}

// seedCake creates a cake directly in the store.
func (e *testEnv) seedCake(t *testing.T, name string, price float64, available bool) *models.Cake {
	t.Helper()
	cake := &models.Cake{
		Name:         name,
		Category:     "classic",
		Customizable: true,
		Available:    available,
		Sizes: []models.Size{
			{Label: "Standard", Servings: 8, Price: price},
			{Label: "Large", Servings: 16, Price: price * 2},
		},
	}
	if err := e.store.CreateCake(context.Background(), cake); err != nil {
		t.Fatalf("CreateCake failed: %v", err)
	}
	return cake
}

func wantCode(t *testing.T, err error, code connect.Code) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %v error, got nil", code)
	}
	if got := connect.CodeOf(err); got != code {
		t.Fatalf("expected code %v, got %v (%v)", code, got, err)
	}
}
