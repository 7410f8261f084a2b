package apiconnect

import (
	"context"
	"net/http"

	"connectrpc.com/connect"

	"github.com/mmynk/bakery/pkg/api"
)

// OrderServiceName is the fully-qualified name of the OrderService service.
const OrderServiceName = "bakery.v1.OrderService"

// Procedure names for OrderService.
const (
	OrderServiceCreateOrderProcedure       = "/bakery.v1.OrderService/CreateOrder"
	OrderServiceGetOrderProcedure          = "/bakery.v1.OrderService/GetOrder"
	OrderServiceListOrderHistoryProcedure  = "/bakery.v1.OrderService/ListOrderHistory"
	OrderServiceCancelOrderProcedure       = "/bakery.v1.OrderService/CancelOrder"
	OrderServiceListOrdersProcedure        = "/bakery.v1.OrderService/ListOrders"
	OrderServiceUpdateOrderStatusProcedure = "/bakery.v1.OrderService/UpdateOrderStatus"
)

// OrderServiceHandler is implemented by the server.
// OrderService handles checkout, order history and fulfillment status.
type OrderServiceHandler interface {
	CreateOrder(context.Context, *connect.Request[api.CreateOrderRequest]) (*connect.Response[api.CreateOrderResponse], error)
	GetOrder(context.Context, *connect.Request[api.GetOrderRequest]) (*connect.Response[api.GetOrderResponse], error)
	ListOrderHistory(context.Context, *connect.Request[api.ListOrderHistoryRequest]) (*connect.Response[api.ListOrderHistoryResponse], error)
	CancelOrder(context.Context, *connect.Request[api.CancelOrderRequest]) (*connect.Response[api.CancelOrderResponse], error)
	ListOrders(context.Context, *connect.Request[api.ListOrdersRequest]) (*connect.Response[api.ListOrdersResponse], error)
	UpdateOrderStatus(context.Context, *connect.Request[api.UpdateOrderStatusRequest]) (*connect.Response[api.UpdateOrderStatusResponse], error)
}

// NewOrderServiceHandler builds an HTTP handler from the service implementation.
// It returns the path on which to mount the handler and the handler itself.
func NewOrderServiceHandler(svc OrderServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	createOrderHandler := connect.NewUnaryHandler(OrderServiceCreateOrderProcedure, svc.CreateOrder, opts...)
	getOrderHandler := connect.NewUnaryHandler(OrderServiceGetOrderProcedure, svc.GetOrder, opts...)
	listOrderHistoryHandler := connect.NewUnaryHandler(OrderServiceListOrderHistoryProcedure, svc.ListOrderHistory, opts...)
	cancelOrderHandler := connect.NewUnaryHandler(OrderServiceCancelOrderProcedure, svc.CancelOrder, opts...)
	listOrdersHandler := connect.NewUnaryHandler(OrderServiceListOrdersProcedure, svc.ListOrders, opts...)
	updateOrderStatusHandler := connect.NewUnaryHandler(OrderServiceUpdateOrderStatusProcedure, svc.UpdateOrderStatus, opts...)
	return "/bakery.v1.OrderService/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case OrderServiceCreateOrderProcedure:
			createOrderHandler.ServeHTTP(w, r)
		case OrderServiceGetOrderProcedure:
			getOrderHandler.ServeHTTP(w, r)
		case OrderServiceListOrderHistoryProcedure:
			listOrderHistoryHandler.ServeHTTP(w, r)
		case OrderServiceCancelOrderProcedure:
			cancelOrderHandler.ServeHTTP(w, r)
		case OrderServiceListOrdersProcedure:
			listOrdersHandler.ServeHTTP(w, r)
		case OrderServiceUpdateOrderStatusProcedure:
			updateOrderStatusHandler.ServeHTTP(w, r)
		default:
			http.NotFound(w, r)
		}
	})
}

// OrderServiceClient is a client for OrderService.
type OrderServiceClient interface {
	CreateOrder(context.Context, *connect.Request[api.CreateOrderRequest]) (*connect.Response[api.CreateOrderResponse], error)
	GetOrder(context.Context, *connect.Request[api.GetOrderRequest]) (*connect.Response[api.GetOrderResponse], error)
	ListOrderHistory(context.Context, *connect.Request[api.ListOrderHistoryRequest]) (*connect.Response[api.ListOrderHistoryResponse], error)
	CancelOrder(context.Context, *connect.Request[api.CancelOrderRequest]) (*connect.Response[api.CancelOrderResponse], error)
	ListOrders(context.Context, *connect.Request[api.ListOrdersRequest]) (*connect.Response[api.ListOrdersResponse], error)
	UpdateOrderStatus(context.Context, *connect.Request[api.UpdateOrderStatusRequest]) (*connect.Response[api.UpdateOrderStatusResponse], error)
}

// NewOrderServiceClient constructs a client for OrderService. baseURL is the server root,
// e.g. http://localhost:8080.
func NewOrderServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) OrderServiceClient {
	opts = clientOptions(opts)
	return &orderServiceClient{
		createOrder:       connect.NewClient[api.CreateOrderRequest, api.CreateOrderResponse](httpClient, baseURL+OrderServiceCreateOrderProcedure, opts...),
		getOrder:          connect.NewClient[api.GetOrderRequest, api.GetOrderResponse](httpClient, baseURL+OrderServiceGetOrderProcedure, opts...),
		listOrderHistory:  connect.NewClient[api.ListOrderHistoryRequest, api.ListOrderHistoryResponse](httpClient, baseURL+OrderServiceListOrderHistoryProcedure, opts...),
		cancelOrder:       connect.NewClient[api.CancelOrderRequest, api.CancelOrderResponse](httpClient, baseURL+OrderServiceCancelOrderProcedure, opts...),
		listOrders:        connect.NewClient[api.ListOrdersRequest, api.ListOrdersResponse](httpClient, baseURL+OrderServiceListOrdersProcedure, opts...),
		updateOrderStatus: connect.NewClient[api.UpdateOrderStatusRequest, api.UpdateOrderStatusResponse](httpClient, baseURL+OrderServiceUpdateOrderStatusProcedure, opts...),
	}
}

type orderServiceClient struct {
	createOrder       *connect.Client[api.CreateOrderRequest, api.CreateOrderResponse]
	getOrder          *connect.Client[api.GetOrderRequest, api.GetOrderResponse]
	listOrderHistory  *connect.Client[api.ListOrderHistoryRequest, api.ListOrderHistoryResponse]
	cancelOrder       *connect.Client[api.CancelOrderRequest, api.CancelOrderResponse]
	listOrders        *connect.Client[api.ListOrdersRequest, api.ListOrdersResponse]
	updateOrderStatus *connect.Client[api.UpdateOrderStatusRequest, api.UpdateOrderStatusResponse]
}

func (c *orderServiceClient) CreateOrder(ctx context.Context, req *connect.Request[api.CreateOrderRequest]) (*connect.Response[api.CreateOrderResponse], error) {
	return c.createOrder.CallUnary(ctx, req)
}

func (c *orderServiceClient) GetOrder(ctx context.Context, req *connect.Request[api.GetOrderRequest]) (*connect.Response[api.GetOrderResponse], error) {
	return c.getOrder.CallUnary(ctx, req)
}

func (c *orderServiceClient) ListOrderHistory(ctx context.Context, req *connect.Request[api.ListOrderHistoryRequest]) (*connect.Response[api.ListOrderHistoryResponse], error) {
	return c.listOrderHistory.CallUnary(ctx, req)
}

func (c *orderServiceClient) CancelOrder(ctx context.Context, req *connect.Request[api.CancelOrderRequest]) (*connect.Response[api.CancelOrderResponse], error) {
	return c.cancelOrder.CallUnary(ctx, req)
}

func (c *orderServiceClient) ListOrders(ctx context.Context, req *connect.Request[api.ListOrdersRequest]) (*connect.Response[api.ListOrdersResponse], error) {
	return c.listOrders.CallUnary(ctx, req)
}

func (c *orderServiceClient) UpdateOrderStatus(ctx context.Context, req *connect.Request[api.UpdateOrderStatusRequest]) (*connect.Response[api.UpdateOrderStatusResponse], error) {
	return c.updateOrderStatus.CallUnary(ctx, req)
}
