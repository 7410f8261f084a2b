package auth

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/mmynk/bakery/internal/models"
)

type memoryUsers struct {
	byID   map[string]*models.User
	tokens map[string]*models.VerificationToken
}

func newMemoryUsers() *memoryUsers {
	return &memoryUsers{
		byID:   make(map[string]*models.User),
		tokens: make(map[string]*models.VerificationToken),
	}
}

func (m *memoryUsers) CreateUser(ctx context.Context, user *models.User) error {
	m.byID[user.ID] = user
	return nil
}

func (m *memoryUsers) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	for _, u := range m.byID {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

func (m *memoryUsers) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	return m.byID[id], nil
}

func (m *memoryUsers) CreateVerificationToken(ctx context.Context, token *models.VerificationToken) error {
	m.tokens[token.Token] = token
	return nil
}

func (m *memoryUsers) GetVerificationToken(ctx context.Context, token string) (*models.VerificationToken, error) {
	return m.tokens[token], nil
}

func (m *memoryUsers) DeleteVerificationToken(ctx context.Context, token string) error {
	delete(m.tokens, token)
	return nil
}

func (m *memoryUsers) SetEmailVerified(ctx context.Context, userID string) error {
	m.byID[userID].EmailVerified = true
	return nil
}

type recordingMailer struct {
	to, body string
}

func (r *recordingMailer) Send(ctx context.Context, to, subject, body string) error {
	r.to, r.body = to, body
	return nil
}

func TestPasswordAuthenticator(t *testing.T) {
	store := newMemoryUsers()
	a := NewPasswordAuthenticator(store, WithBcryptCost(bcrypt.MinCost), WithAdminEmail("Owner@Bakery.test"))
	ctx := context.Background()

	t.Run("register normalizes email", func(t *testing.T) {
		user, err := a.Register(ctx, "  Sam@Example.com ", "Sam", "correct-horse")
		if err != nil {
			t.Fatalf("Register failed: %v", err)
		}
		if user.Email != "sam@example.com" {
			t.Errorf("email = %q", user.Email)
		}
		if user.Role != models.RoleCustomer {
			t.Errorf("role = %q, want customer", user.Role)
		}
	})

	t.Run("duplicate email rejected", func(t *testing.T) {
		_, err := a.Register(ctx, "sam@example.com", "Sam again", "correct-horse")
		if !errors.Is(err, ErrEmailExists) {
			t.Errorf("expected ErrEmailExists, got %v", err)
		}
	})

	t.Run("weak password rejected", func(t *testing.T) {
		_, err := a.Register(ctx, "weak@example.com", "Weak", "short")
		if !errors.Is(err, ErrWeakPassword) {
			t.Errorf("expected ErrWeakPassword, got %v", err)
		}
	})

	t.Run("invalid email rejected", func(t *testing.T) {
		_, err := a.Register(ctx, "not-an-email", "Nobody", "correct-horse")
		if !errors.Is(err, ErrInvalidEmail) {
			t.Errorf("expected ErrInvalidEmail, got %v", err)
		}
	})

	t.Run("admin bootstrap", func(t *testing.T) {
		user, err := a.Register(ctx, "owner@bakery.test", "Owner", "correct-horse")
		if err != nil {
			t.Fatalf("Register failed: %v", err)
		}
		if user.Role != models.RoleAdmin {
			t.Errorf("role = %q, want admin", user.Role)
		}
	})

	t.Run("authenticate", func(t *testing.T) {
		if _, err := a.Authenticate(ctx, "SAM@example.com", "correct-horse"); err != nil {
			t.Errorf("Authenticate failed: %v", err)
		}
		if _, err := a.Authenticate(ctx, "sam@example.com", "wrong-password"); !errors.Is(err, ErrInvalidCredentials) {
			t.Errorf("expected ErrInvalidCredentials, got %v", err)
		}
		if _, err := a.Authenticate(ctx, "ghost@example.com", "correct-horse"); !errors.Is(err, ErrInvalidCredentials) {
			t.Errorf("expected ErrInvalidCredentials for unknown user, got %v", err)
		}
	})
}

func TestJWTManager(t *testing.T) {
	m := NewJWTManager("test-secret", time.Hour)
	user := &models.User{ID: "u1", Email: "sam@example.com", Role: models.RoleBaker}

	token, err := m.Generate(user)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	claims, err := m.Validate(token)
	if err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	if claims.UserID != "u1" || claims.Role != models.RoleBaker {
		t.Errorf("claims = %+v", claims)
	}

	other := NewJWTManager("other-secret", time.Hour)
	if _, err := other.Validate(token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken for wrong secret, got %v", err)
	}

	expired := NewJWTManager("test-secret", -time.Minute)
	old, _ := expired.Generate(user)
	if _, err := m.Validate(old); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken for expired token, got %v", err)
	}
}

func TestVerificationManager(t *testing.T) {
	store := newMemoryUsers()
	user := &models.User{ID: "u1", Email: "sam@example.com", DisplayName: "Sam"}
	store.byID[user.ID] = user
	mailer := &recordingMailer{}
	v := NewVerificationManager(store, mailer, "http://localhost:8080")
	ctx := context.Background()

	token, err := v.Send(ctx, user)
	if err != nil {
		t.Fatalf("Send failed: %v", err)
	}
	if mailer.to != "sam@example.com" || !strings.Contains(mailer.body, token.Token) {
		t.Errorf("unexpected mail to %q: %q", mailer.to, mailer.body)
	}

	userID, err := v.Verify(ctx, token.Token)
	if err != nil {
		t.Fatalf("Verify failed: %v", err)
	}
	if userID != "u1" || !user.EmailVerified {
		t.Errorf("user not verified: id=%s verified=%v", userID, user.EmailVerified)
	}

	if _, err := v.Verify(ctx, token.Token); !errors.Is(err, ErrVerificationExpired) {
		t.Errorf("expected token to be single use, got %v", err)
	}

	late, err := v.Send(ctx, user)
	if err != nil {
		t.Fatalf("Send failed: %v", err)
	}
	v.now = func() time.Time { return time.Now().Add(48 * time.Hour) }
	if _, err := v.Verify(ctx, late.Token); !errors.Is(err, ErrVerificationExpired) {
		t.Errorf("expected expired token error, got %v", err)
	}
}
