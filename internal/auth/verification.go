package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/bakery/internal/models"
)

// ErrVerificationExpired is returned for unknown, used or expired tokens.
var ErrVerificationExpired = errors.New("verification link is invalid or expired")

// VerificationTTL is how long an emailed link stays valid.
const VerificationTTL = 24 * time.Hour

// TokenStorage persists verification tokens.
type TokenStorage interface {
	CreateVerificationToken(ctx context.Context, token *models.VerificationToken) error
	GetVerificationToken(ctx context.Context, token string) (*models.VerificationToken, error)
	DeleteVerificationToken(ctx context.Context, token string) error
	SetEmailVerified(ctx context.Context, userID string) error
}

// Mailer sends transactional email.
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

// LogMailer logs messages instead of sending them.
type LogMailer struct {
	Logger *slog.Logger
}

// Send logs the message.
func (m LogMailer) Send(ctx context.Context, to, subject, body string) error {
	logger := m.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.InfoContext(ctx, "Email queued", "to", to, "subject", subject, "body", body)
	return nil
}

// VerificationManager issues and redeems email verification tokens.
type VerificationManager struct {
	storage TokenStorage
	mailer  Mailer
	baseURL string
	ttl     time.Duration
	now     func() time.Time
}

// NewVerificationManager creates a manager that links to baseURL/verify-email.
func NewVerificationManager(storage TokenStorage, mailer Mailer, baseURL string) *VerificationManager {
	return &VerificationManager{
		storage: storage,
		mailer:  mailer,
		baseURL: baseURL,
		ttl:     VerificationTTL,
		now:     time.Now,
	}
}

// Send issues a token for user and emails the verification link.
func (v *VerificationManager) Send(ctx context.Context, user *models.User) (*models.VerificationToken, error) {
	token := &models.VerificationToken{
		Token:     uuid.New().String(),
		UserID:    user.ID,
		ExpiresAt: v.now().Add(v.ttl).Unix(),
	}
	if err := v.storage.CreateVerificationToken(ctx, token); err != nil {
		return nil, fmt.Errorf("failed to store verification token: %w", err)
	}

	link := fmt.Sprintf("%s/verify-email?token=%s", v.baseURL, url.QueryEscape(token.Token))
	body := fmt.Sprintf("Hi %s,\n\nConfirm your email address for your bakery account:\n%s\n", user.DisplayName, link)
	if err := v.mailer.Send(ctx, user.Email, "Verify your email", body); err != nil {
		return nil, fmt.Errorf("failed to send verification email: %w", err)
	}
	return token, nil
}

// Verify redeems a token and marks the owner's email verified.
// It returns the verified user ID.
func (v *VerificationManager) Verify(ctx context.Context, token string) (string, error) {
	stored, err := v.storage.GetVerificationToken(ctx, token)
	if err != nil {
		return "", fmt.Errorf("failed to get verification token: %w", err)
	}
	if stored == nil {
		return "", ErrVerificationExpired
	}
	if v.now().Unix() > stored.ExpiresAt {
		_ = v.storage.DeleteVerificationToken(ctx, token)
		return "", ErrVerificationExpired
	}

	if err := v.storage.SetEmailVerified(ctx, stored.UserID); err != nil {
		return "", fmt.Errorf("failed to mark email verified: %w", err)
	}
	if err := v.storage.DeleteVerificationToken(ctx, token); err != nil {
		return "", fmt.Errorf("failed to delete verification token: %w", err)
	}
	return stored.UserID, nil
}
