package service

import (
	"context"
	"log/slog"
	"time"

	"connectrpc.com/connect"

	"github.com/mmynk/bakery/internal/cart"
	"github.com/mmynk/bakery/internal/checkout"
	"github.com/mmynk/bakery/internal/metrics"
	"github.com/mmynk/bakery/internal/middleware"
	"github.com/mmynk/bakery/internal/models"
	"github.com/mmynk/bakery/internal/orders"
	"github.com/mmynk/bakery/internal/storage"
	"github.com/mmynk/bakery/pkg/api"
	"github.com/mmynk/bakery/pkg/api/apiconnect"
)

var _ apiconnect.OrderServiceHandler = (*OrderService)(nil)

// OrderStorage is what OrderService needs from the store.
type OrderStorage interface {
	storage.OrderStore
	storage.CakeStore
}

// OrderService implements the Connect OrderService.
type OrderService struct {
	store   OrderStorage
	carts   *CartService
	fees    checkout.Fees
	metrics *metrics.Metrics
	logger  *slog.Logger
}

// NewOrderService creates an OrderService. carts is used to empty the
// buyer's saved cart after checkout.
func NewOrderService(store OrderStorage, carts *CartService, fees checkout.Fees, m *metrics.Metrics, logger *slog.Logger) *OrderService {
	return &OrderService{store: store, carts: carts, fees: fees, metrics: m, logger: logger}
}

// CreateOrder checks out the submitted cart lines. Prices come from the
// catalog, not the client.
func (s *OrderService) CreateOrder(ctx context.Context, req *connect.Request[api.CreateOrderRequest]) (*connect.Response[api.CreateOrderResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	s.logger.Info("CreateOrder request received",
		"user_id", userID,
		"items_count", len(req.Msg.Items),
		"payment", req.Msg.PaymentMethod,
	)

	order, err := checkout.Build(ctx, checkout.Request{
		UserID:        userID,
		Items:         req.Msg.Items,
		Fulfillment:   fulfillmentFromAPI(req.Msg.Fulfillment),
		PaymentMethod: req.Msg.PaymentMethod,
		Notes:         req.Msg.Notes,
	}, catalogLookup{store: s.store}, s.fees, time.Now().Unix())
	if err != nil {
		s.logger.Warn("Checkout rejected", "user_id", userID, "error", err)
		return nil, toConnectError(err)
	}

	if err := s.store.CreateOrder(ctx, order); err != nil {
		s.logger.Error("CreateOrder failed", "user_id", userID, "error", err)
		return nil, toConnectError(err)
	}
	s.metrics.OrdersCreated.WithLabelValues(string(order.Fulfillment.Method), req.Msg.PaymentMethod).Inc()

	if req.Msg.ClearCart && s.carts != nil {
		// The order stands even if the cart cannot be emptied.
		if _, err := s.carts.save(ctx, userID, cart.Empty()); err != nil {
			s.logger.Warn("Failed to clear cart after checkout", "user_id", userID, "error", err)
		}
	}

	s.logger.Info("Order created", "order_id", order.ID, "user_id", userID, "total", order.Total)
	return connect.NewResponse(&api.CreateOrderResponse{Order: orderToAPI(order)}), nil
}

// GetOrder returns an order to its owner or to staff.
func (s *OrderService) GetOrder(ctx context.Context, req *connect.Request[api.GetOrderRequest]) (*connect.Response[api.GetOrderResponse], error) {
	order, err := s.visibleOrder(ctx, req.Msg.OrderId)
	if err != nil {
		return nil, err
	}
	return connect.NewResponse(&api.GetOrderResponse{Order: orderToAPI(order)}), nil
}

// ListOrderHistory returns the caller's orders newest first, with duplicate
// submissions of the same order collapsed.
func (s *OrderService) ListOrderHistory(ctx context.Context, req *connect.Request[api.ListOrderHistoryRequest]) (*connect.Response[api.ListOrderHistoryResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}

	stored, err := s.store.ListOrders(ctx, storage.OrderFilter{UserID: userID})
	if err != nil {
		s.logger.Error("ListOrderHistory failed", "user_id", userID, "error", err)
		return nil, toConnectError(err)
	}

	values := make([]models.Order, len(stored))
	for i, o := range stored {
		values[i] = *o
	}
	history := orders.Reconcile(values)
	collapsed := len(values) - len(history)

	if req.Msg.Limit > 0 && len(history) > req.Msg.Limit {
		history = history[:req.Msg.Limit]
	}

	out := make([]*api.Order, len(history))
	for i := range history {
		out[i] = orderToAPI(&history[i])
	}

	s.logger.Debug("ListOrderHistory successful", "user_id", userID, "count", len(out), "collapsed", collapsed)
	return connect.NewResponse(&api.ListOrderHistoryResponse{Orders: out, Collapsed: collapsed}), nil
}

// CancelOrder lets a customer cancel their own order while it is pending.
func (s *OrderService) CancelOrder(ctx context.Context, req *connect.Request[api.CancelOrderRequest]) (*connect.Response[api.CancelOrderResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}

	order, err := s.store.GetOrder(ctx, req.Msg.OrderId)
	if err != nil {
		return nil, toConnectError(err)
	}
	if order.UserID != userID {
		return nil, toConnectError(errNotOwner)
	}
	if order.Status != models.StatusPending {
		return nil, toConnectError(errNotCancelable)
	}

	note := req.Msg.Reason
	if note == "" {
		note = "Cancelled by customer"
	}
	if err := s.transition(ctx, order, models.StatusCancelled, userID, note); err != nil {
		return nil, err
	}

	s.logger.Info("Order cancelled", "order_id", order.ID, "user_id", userID)
	return connect.NewResponse(&api.CancelOrderResponse{Order: orderToAPI(order)}), nil
}

// ListOrders returns every order, optionally by status. Staff only.
func (s *OrderService) ListOrders(ctx context.Context, req *connect.Request[api.ListOrdersRequest]) (*connect.Response[api.ListOrdersResponse], error) {
	if err := middleware.RequireStaff(ctx); err != nil {
		return nil, err
	}

	status := models.OrderStatus(req.Msg.Status)
	if status != "" && !orders.ValidStatus(status) {
		return nil, invalidArgument("unknown order status " + req.Msg.Status)
	}

	list, err := s.store.ListOrders(ctx, storage.OrderFilter{Status: status, Limit: req.Msg.Limit})
	if err != nil {
		s.logger.Error("ListOrders failed", "error", err)
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&api.ListOrdersResponse{Orders: ordersToAPI(list)}), nil
}

// UpdateOrderStatus advances an order through its lifecycle. Staff only.
func (s *OrderService) UpdateOrderStatus(ctx context.Context, req *connect.Request[api.UpdateOrderStatusRequest]) (*connect.Response[api.UpdateOrderStatusResponse], error) {
	if err := middleware.RequireStaff(ctx); err != nil {
		return nil, err
	}

	to := models.OrderStatus(req.Msg.Status)
	if !orders.ValidStatus(to) {
		return nil, invalidArgument("unknown order status " + req.Msg.Status)
	}

	order, err := s.store.GetOrder(ctx, req.Msg.OrderId)
	if err != nil {
		return nil, toConnectError(err)
	}
	if err := s.transition(ctx, order, to, middleware.GetUserID(ctx), req.Msg.Note); err != nil {
		return nil, err
	}

	s.logger.Info("Order status updated",
		"order_id", order.ID,
		"status", order.Status,
		"payment_status", order.PaymentStatus,
		"by", middleware.GetUserID(ctx),
	)
	return connect.NewResponse(&api.UpdateOrderStatusResponse{Order: orderToAPI(order)}), nil
}

func (s *OrderService) transition(ctx context.Context, order *models.Order, to models.OrderStatus, by, note string) error {
	if err := orders.Transition(order, to, by, note, time.Now().Unix()); err != nil {
		s.logger.Warn("Rejected status change", "order_id", order.ID, "from", order.Status, "to", to)
		return toConnectError(err)
	}
	if err := s.store.UpdateOrder(ctx, order); err != nil {
		s.logger.Error("UpdateOrder failed", "order_id", order.ID, "error", err)
		return toConnectError(err)
	}
	s.metrics.OrderTransition.WithLabelValues(string(to)).Inc()
	return nil
}

// visibleOrder loads an order the caller may see.
func (s *OrderService) visibleOrder(ctx context.Context, orderID string) (*models.Order, error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	order, err := s.store.GetOrder(ctx, orderID)
	if err != nil {
		return nil, toConnectError(err)
	}
	if order.UserID != userID && !middleware.GetRole(ctx).IsStaff() {
		return nil, toConnectError(errNotOwner)
	}
	return order, nil
}
