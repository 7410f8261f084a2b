package models

import (
	"time"

	"github.com/google/uuid"
)

// Role controls which portal operations a user may call.
type Role string

const (
	RoleCustomer Role = "customer"
	RoleBaker    Role = "baker"
	RoleAdmin    Role = "admin"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	switch r {
	case RoleCustomer, RoleBaker, RoleAdmin:
		return true
	}
	return false
}

// IsStaff reports whether the role may operate the baker portal.
func (r Role) IsStaff() bool {
	return r == RoleBaker || r == RoleAdmin
}

// User represents a registered user account.
type User struct {
	// ID is the unique identifier for the user (UUID format).
	ID string

	// Email is the user's email address (unique). Used for login.
	Email string

	// DisplayName is the name shown in the storefront and on orders.
	DisplayName string

	// PasswordHash is the bcrypt hash of the user's password.
	PasswordHash string

	// Role is the user's portal role. New accounts are customers.
	Role Role

	// EmailVerified is set once the user follows a verification link.
	EmailVerified bool

	// Phone and Address are optional profile fields used to prefill checkout.
	Phone   string
	Address string

	// CreatedAt is the Unix timestamp when the account was created.
	CreatedAt int64

	// UpdatedAt is the Unix timestamp of the last profile change.
	UpdatedAt int64
}

// NewUser creates a customer account with a fresh ID and timestamps.
func NewUser(email, displayName, passwordHash string) *User {
	now := time.Now().Unix()
	return &User{
		ID:           uuid.New().String(),
		Email:        email,
		DisplayName:  displayName,
		PasswordHash: passwordHash,
		Role:         RoleCustomer,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// VerificationToken is a single-use email verification token.
type VerificationToken struct {
	Token     string
	UserID    string
	ExpiresAt int64
}
