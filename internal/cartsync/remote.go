package cartsync

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/mmynk/bakery/internal/models"
	"github.com/mmynk/bakery/pkg/api"
	"github.com/mmynk/bakery/pkg/api/apiconnect"
)

// TokenFunc returns the bearer token for userID's session.
type TokenFunc func(ctx context.Context, userID string) (string, error)

// ConnectRemote is a RemoteStore backed by the CartService. The server
// identifies the cart owner from the session token, so userID only selects
// which token to send.
type ConnectRemote struct {
	client apiconnect.CartServiceClient
	token  TokenFunc
	logger *slog.Logger
}

var _ RemoteStore = (*ConnectRemote)(nil)

// NewConnectRemote creates a ConnectRemote.
func NewConnectRemote(client apiconnect.CartServiceClient, token TokenFunc, logger *slog.Logger) *ConnectRemote {
	if logger == nil {
		logger = slog.Default()
	}
	return &ConnectRemote{client: client, token: token, logger: logger}
}

func withToken[T any](ctx context.Context, r *ConnectRemote, userID string, msg *T) (*connect.Request[T], error) {
	token, err := r.token(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get session token: %w", err)
	}
	req := connect.NewRequest(msg)
	req.Header().Set("Authorization", "Bearer "+token)
	return req, nil
}

// GetCart fetches the user's cart document.
func (r *ConnectRemote) GetCart(ctx context.Context, userID string) (*models.CartDocument, error) {
	req, err := withToken(ctx, r, userID, &api.GetCartRequest{})
	if err != nil {
		return nil, err
	}
	resp, err := r.client.GetCart(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("failed to get cart: %w", err)
	}
	return resp.Msg.Cart, nil
}

// SaveCart writes the user's cart and returns the server's sync timestamp.
func (r *ConnectRemote) SaveCart(ctx context.Context, userID string, state models.CartState) (int64, error) {
	req, err := withToken(ctx, r, userID, &api.SaveCartRequest{Cart: state})
	if err != nil {
		return 0, err
	}
	resp, err := r.client.SaveCart(ctx, req)
	if err != nil {
		return 0, fmt.Errorf("failed to save cart: %w", err)
	}
	return resp.Msg.Cart.SyncedAt, nil
}

// WatchCart opens a WatchCart stream and calls fn for every document it
// receives, starting with the current one. The stream is read on its own
// goroutine until stop is called or ctx is cancelled.
func (r *ConnectRemote) WatchCart(ctx context.Context, userID string, fn func(models.CartDocument)) (func(), error) {
	req, err := withToken(ctx, r, userID, &api.WatchCartRequest{})
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(ctx)
	stream, err := r.client.WatchCart(ctx, req)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("failed to watch cart: %w", err)
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		for stream.Receive() {
			fn(stream.Msg().Cart)
		}
		if err := stream.Err(); err != nil && ctx.Err() == nil && !errors.Is(err, context.Canceled) {
			r.logger.Warn("Cart watch ended", "user_id", userID, "error", err)
		}
	}()

	stop := func() {
		cancel()
		stream.Close()
		<-done
	}
	return stop, nil
}
