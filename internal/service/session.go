package service

import (
	"context"
	"errors"

	"connectrpc.com/connect"

	"github.com/mmynk/bakery/internal/auth"
	"github.com/mmynk/bakery/internal/middleware"
	"github.com/mmynk/bakery/internal/models"
	"github.com/mmynk/bakery/internal/storage"
)

// requireUser returns the caller's user ID or an Unauthenticated error.
func requireUser(ctx context.Context) (string, error) {
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		return "", connect.NewError(connect.CodeUnauthenticated, auth.ErrMissingToken)
	}
	return userID, nil
}

// currentUser loads the caller's account. A token for a deleted account is
// treated as unauthenticated.
func currentUser(ctx context.Context, users storage.UserStore) (*models.User, error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	user, err := users.GetUserByID(ctx, userID)
	if err != nil {
		return nil, connect.NewError(connect.CodeInternal, err)
	}
	if user == nil {
		return nil, connect.NewError(connect.CodeUnauthenticated, errors.New("account no longer exists"))
	}
	return user, nil
}
