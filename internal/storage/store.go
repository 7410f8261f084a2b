// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/mmynk/bakery/internal/models"
)

// ErrNotFound is wrapped by lookups and updates of rows that do not exist.
var ErrNotFound = errors.New("not found")

// UserStore persists accounts and verification tokens.
type UserStore interface {
	CreateUser(ctx context.Context, user *models.User) error

	// GetUserByEmail and GetUserByID return nil, nil when no user matches.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)

	// UpdateUser saves profile fields (display name, phone, address).
	UpdateUser(ctx context.Context, user *models.User) error

	ListUsers(ctx context.Context) ([]*models.User, error)
	SetUserRole(ctx context.Context, userID string, role models.Role) error

	CreateVerificationToken(ctx context.Context, token *models.VerificationToken) error
	// GetVerificationToken returns nil, nil for unknown tokens.
	GetVerificationToken(ctx context.Context, token string) (*models.VerificationToken, error)
	DeleteVerificationToken(ctx context.Context, token string) error
	SetEmailVerified(ctx context.Context, userID string) error
}

// CakeFilter narrows ListCakes. Zero values match everything.
type CakeFilter struct {
	Category      string
	FeaturedOnly  bool
	AvailableOnly bool
}

// CakeStore persists the catalog.
type CakeStore interface {
	// CreateCake assigns ID and timestamps when unset.
	CreateCake(ctx context.Context, cake *models.Cake) error
	GetCake(ctx context.Context, cakeID string) (*models.Cake, error)
	UpdateCake(ctx context.Context, cake *models.Cake) error
	DeleteCake(ctx context.Context, cakeID string) error
	ListCakes(ctx context.Context, filter CakeFilter) ([]*models.Cake, error)
}

// CartStore persists one cart document per user.
type CartStore interface {
	// GetCart returns nil, nil when the user has no cart document.
	GetCart(ctx context.Context, userID string) (*models.CartDocument, error)

	// SaveCart upserts the document and sets doc.SyncedAt to a value strictly
	// greater than any previous one for the user.
	SaveCart(ctx context.Context, doc *models.CartDocument) error

	DeleteCart(ctx context.Context, userID string) error
}

// OrderFilter narrows ListOrders. Zero values match everything.
type OrderFilter struct {
	UserID string
	Status models.OrderStatus
	Limit  int
}

// OrderStore persists orders.
type OrderStore interface {
	// CreateOrder stores the order with its items, history and payments.
	CreateOrder(ctx context.Context, order *models.Order) error
	GetOrder(ctx context.Context, orderID string) (*models.Order, error)

	// UpdateOrder saves status, payment status, history and payments.
	// Items, totals and fulfillment are immutable after checkout.
	UpdateOrder(ctx context.Context, order *models.Order) error

	// ListOrders returns matching orders newest first.
	ListOrders(ctx context.Context, filter OrderFilter) ([]*models.Order, error)
}

// FavoriteStore persists favorites.
type FavoriteStore interface {
	// AddFavorite is idempotent.
	AddFavorite(ctx context.Context, userID, cakeID string) error
	// RemoveFavorite is idempotent.
	RemoveFavorite(ctx context.Context, userID, cakeID string) error
	ListFavorites(ctx context.Context, userID string) ([]*models.Favorite, error)
}

// Store defines the full storage interface.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL, etc.)
// without changing the service layer.
type Store interface {
	UserStore
	CakeStore
	CartStore
	OrderStore
	FavoriteStore

	// Close releases any resources held by the store.
	Close() error
}
