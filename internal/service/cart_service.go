package service

import (
	"context"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/mmynk/bakery/internal/cart"
	"github.com/mmynk/bakery/internal/metrics"
	"github.com/mmynk/bakery/internal/models"
	"github.com/mmynk/bakery/internal/realtime"
	"github.com/mmynk/bakery/internal/storage"
	"github.com/mmynk/bakery/pkg/api"
	"github.com/mmynk/bakery/pkg/api/apiconnect"
)

var _ apiconnect.CartServiceHandler = (*CartService)(nil)

// CartService stores one cart document per user and pushes every change to
// the user's live subscribers.
type CartService struct {
	store   storage.CartStore
	hub     *realtime.Hub
	metrics *metrics.Metrics
	logger  *slog.Logger
}

// NewCartService creates a CartService.
func NewCartService(store storage.CartStore, hub *realtime.Hub, m *metrics.Metrics, logger *slog.Logger) *CartService {
	return &CartService{store: store, hub: hub, metrics: m, logger: logger}
}

// GetCart returns the caller's cart document, if any.
func (s *CartService) GetCart(ctx context.Context, req *connect.Request[api.GetCartRequest]) (*connect.Response[api.GetCartResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}

	doc, err := s.store.GetCart(ctx, userID)
	if err != nil {
		s.logger.Error("GetCart failed", "user_id", userID, "error", err)
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&api.GetCartResponse{Cart: doc}), nil
}

// SaveCart sanitizes the submitted cart, recomputes its totals and stores it.
func (s *CartService) SaveCart(ctx context.Context, req *connect.Request[api.SaveCartRequest]) (*connect.Response[api.SaveCartResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}

	doc, err := s.save(ctx, userID, cart.Sanitize(req.Msg.Cart))
	if err != nil {
		return nil, err
	}
	s.logger.Debug("Cart saved", "user_id", userID, "items", len(doc.Cart.Items), "synced_at", doc.SyncedAt)
	return connect.NewResponse(&api.SaveCartResponse{Cart: *doc}), nil
}

// ClearCart empties the caller's cart.
func (s *CartService) ClearCart(ctx context.Context, req *connect.Request[api.ClearCartRequest]) (*connect.Response[api.ClearCartResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}

	doc, err := s.save(ctx, userID, cart.Empty())
	if err != nil {
		return nil, err
	}
	s.logger.Info("Cart cleared", "user_id", userID)
	return connect.NewResponse(&api.ClearCartResponse{Cart: *doc}), nil
}

// WatchCart streams the caller's cart: the current document first, if one
// exists, then every later save until the client disconnects.
func (s *CartService) WatchCart(ctx context.Context, req *connect.Request[api.WatchCartRequest], stream *connect.ServerStream[api.WatchCartResponse]) error {
	userID, err := requireUser(ctx)
	if err != nil {
		return err
	}

	// Subscribe before reading so no save between the two is missed.
	updates, cancel := s.hub.Subscribe(userID)
	defer cancel()

	current, err := s.store.GetCart(ctx, userID)
	if err != nil {
		s.logger.Error("WatchCart initial read failed", "user_id", userID, "error", err)
		return toConnectError(err)
	}
	if current != nil {
		if err := stream.Send(&api.WatchCartResponse{Cart: *current}); err != nil {
			return err
		}
	}

	s.logger.Debug("Cart watch started", "user_id", userID)
	for {
		select {
		case <-ctx.Done():
			s.logger.Debug("Cart watch ended", "user_id", userID)
			return nil
		case doc, ok := <-updates:
			if !ok {
				return nil
			}
			if current != nil && doc.SyncedAt <= current.SyncedAt {
				continue
			}
			if err := stream.Send(&api.WatchCartResponse{Cart: doc}); err != nil {
				return err
			}
		}
	}
}

// save writes a cart document and publishes it.
func (s *CartService) save(ctx context.Context, userID string, state models.CartState) (*models.CartDocument, error) {
	doc := &models.CartDocument{UserID: userID, Cart: state}
	if err := s.store.SaveCart(ctx, doc); err != nil {
		s.logger.Error("SaveCart failed", "user_id", userID, "error", err)
		return nil, toConnectError(err)
	}
	s.metrics.CartSaves.Inc()
	s.hub.Publish(*doc)
	return doc, nil
}
