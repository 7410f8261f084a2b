package apiconnect

import (
	"context"
	"net/http"

	"connectrpc.com/connect"

	"github.com/mmynk/bakery/pkg/api"
)

// CartServiceName is the fully-qualified name of the CartService service.
const CartServiceName = "bakery.v1.CartService"

// Procedure names for CartService.
const (
	CartServiceGetCartProcedure   = "/bakery.v1.CartService/GetCart"
	CartServiceSaveCartProcedure  = "/bakery.v1.CartService/SaveCart"
	CartServiceClearCartProcedure = "/bakery.v1.CartService/ClearCart"
	CartServiceWatchCartProcedure = "/bakery.v1.CartService/WatchCart"
)

// CartServiceHandler is implemented by the server.
// CartService stores the signed-in user's cart document and streams changes to it.
type CartServiceHandler interface {
	GetCart(context.Context, *connect.Request[api.GetCartRequest]) (*connect.Response[api.GetCartResponse], error)
	SaveCart(context.Context, *connect.Request[api.SaveCartRequest]) (*connect.Response[api.SaveCartResponse], error)
	ClearCart(context.Context, *connect.Request[api.ClearCartRequest]) (*connect.Response[api.ClearCartResponse], error)
	WatchCart(context.Context, *connect.Request[api.WatchCartRequest], *connect.ServerStream[api.WatchCartResponse]) error
}

// NewCartServiceHandler builds an HTTP handler from the service implementation.
// It returns the path on which to mount the handler and the handler itself.
func NewCartServiceHandler(svc CartServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	getCartHandler := connect.NewUnaryHandler(CartServiceGetCartProcedure, svc.GetCart, opts...)
	saveCartHandler := connect.NewUnaryHandler(CartServiceSaveCartProcedure, svc.SaveCart, opts...)
	clearCartHandler := connect.NewUnaryHandler(CartServiceClearCartProcedure, svc.ClearCart, opts...)
	watchCartHandler := connect.NewServerStreamHandler(CartServiceWatchCartProcedure, svc.WatchCart, opts...)
	return "/bakery.v1.CartService/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case CartServiceGetCartProcedure:
			getCartHandler.ServeHTTP(w, r)
		case CartServiceSaveCartProcedure:
			saveCartHandler.ServeHTTP(w, r)
		case CartServiceClearCartProcedure:
			clearCartHandler.ServeHTTP(w, r)
		case CartServiceWatchCartProcedure:
			watchCartHandler.ServeHTTP(w, r)
		default:
			http.NotFound(w, r)
		}
	})
}

// CartServiceClient is a client for CartService.
type CartServiceClient interface {
	GetCart(context.Context, *connect.Request[api.GetCartRequest]) (*connect.Response[api.GetCartResponse], error)
	SaveCart(context.Context, *connect.Request[api.SaveCartRequest]) (*connect.Response[api.SaveCartResponse], error)
	ClearCart(context.Context, *connect.Request[api.ClearCartRequest]) (*connect.Response[api.ClearCartResponse], error)
	WatchCart(context.Context, *connect.Request[api.WatchCartRequest]) (*connect.ServerStreamForClient[api.WatchCartResponse], error)
}

// NewCartServiceClient constructs a client for CartService. baseURL is the server root,
// e.g. http://localhost:8080.
func NewCartServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) CartServiceClient {
	opts = clientOptions(opts)
	return &cartServiceClient{
		getCart:   connect.NewClient[api.GetCartRequest, api.GetCartResponse](httpClient, baseURL+CartServiceGetCartProcedure, opts...),
		saveCart:  connect.NewClient[api.SaveCartRequest, api.SaveCartResponse](httpClient, baseURL+CartServiceSaveCartProcedure, opts...),
		clearCart: connect.NewClient[api.ClearCartRequest, api.ClearCartResponse](httpClient, baseURL+CartServiceClearCartProcedure, opts...),
		watchCart: connect.NewClient[api.WatchCartRequest, api.WatchCartResponse](httpClient, baseURL+CartServiceWatchCartProcedure, opts...),
	}
}

type cartServiceClient struct {
	getCart   *connect.Client[api.GetCartRequest, api.GetCartResponse]
	saveCart  *connect.Client[api.SaveCartRequest, api.SaveCartResponse]
	clearCart *connect.Client[api.ClearCartRequest, api.ClearCartResponse]
	watchCart *connect.Client[api.WatchCartRequest, api.WatchCartResponse]
}

func (c *cartServiceClient) GetCart(ctx context.Context, req *connect.Request[api.GetCartRequest]) (*connect.Response[api.GetCartResponse], error) {
	return c.getCart.CallUnary(ctx, req)
}

func (c *cartServiceClient) SaveCart(ctx context.Context, req *connect.Request[api.SaveCartRequest]) (*connect.Response[api.SaveCartResponse], error) {
	return c.saveCart.CallUnary(ctx, req)
}

func (c *cartServiceClient) ClearCart(ctx context.Context, req *connect.Request[api.ClearCartRequest]) (*connect.Response[api.ClearCartResponse], error) {
	return c.clearCart.CallUnary(ctx, req)
}

func (c *cartServiceClient) WatchCart(ctx context.Context, req *connect.Request[api.WatchCartRequest]) (*connect.ServerStreamForClient[api.WatchCartResponse], error) {
	return c.watchCart.CallServerStream(ctx, req)
}
