package apiconnect

import (
	"context"
	"net/http"

	"connectrpc.com/connect"

	"github.com/mmynk/bakery/pkg/api"
)

// CatalogServiceName is the fully-qualified name of the CatalogService service.
const CatalogServiceName = "bakery.v1.CatalogService"

// Procedure names for CatalogService.
const (
	CatalogServiceListCakesProcedure  = "/bakery.v1.CatalogService/ListCakes"
	CatalogServiceGetCakeProcedure    = "/bakery.v1.CatalogService/GetCake"
	CatalogServiceCreateCakeProcedure = "/bakery.v1.CatalogService/CreateCake"
	CatalogServiceUpdateCakeProcedure = "/bakery.v1.CatalogService/UpdateCake"
	CatalogServiceDeleteCakeProcedure = "/bakery.v1.CatalogService/DeleteCake"
)

// CatalogServiceHandler is implemented by the server.
// CatalogService serves the cake catalog. Writes require a staff role.
type CatalogServiceHandler interface {
	ListCakes(context.Context, *connect.Request[api.ListCakesRequest]) (*connect.Response[api.ListCakesResponse], error)
	GetCake(context.Context, *connect.Request[api.GetCakeRequest]) (*connect.Response[api.GetCakeResponse], error)
	CreateCake(context.Context, *connect.Request[api.CreateCakeRequest]) (*connect.Response[api.CreateCakeResponse], error)
	UpdateCake(context.Context, *connect.Request[api.UpdateCakeRequest]) (*connect.Response[api.UpdateCakeResponse], error)
	DeleteCake(context.Context, *connect.Request[api.DeleteCakeRequest]) (*connect.Response[api.DeleteCakeResponse], error)
}

// NewCatalogServiceHandler builds an HTTP handler from the service implementation.
// It returns the path on which to mount the handler and the handler itself.
func NewCatalogServiceHandler(svc CatalogServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	listCakesHandler := connect.NewUnaryHandler(CatalogServiceListCakesProcedure, svc.ListCakes, opts...)
	getCakeHandler := connect.NewUnaryHandler(CatalogServiceGetCakeProcedure, svc.GetCake, opts...)
	createCakeHandler := connect.NewUnaryHandler(CatalogServiceCreateCakeProcedure, svc.CreateCake, opts...)
	updateCakeHandler := connect.NewUnaryHandler(CatalogServiceUpdateCakeProcedure, svc.UpdateCake, opts...)
	deleteCakeHandler := connect.NewUnaryHandler(CatalogServiceDeleteCakeProcedure, svc.DeleteCake, opts...)
	return "/bakery.v1.CatalogService/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case CatalogServiceListCakesProcedure:
			listCakesHandler.ServeHTTP(w, r)
		case CatalogServiceGetCakeProcedure:
			getCakeHandler.ServeHTTP(w, r)
		case CatalogServiceCreateCakeProcedure:
			createCakeHandler.ServeHTTP(w, r)
		case CatalogServiceUpdateCakeProcedure:
			updateCakeHandler.ServeHTTP(w, r)
		case CatalogServiceDeleteCakeProcedure:
			deleteCakeHandler.ServeHTTP(w, r)
		default:
			http.NotFound(w, r)
		}
	})
}

// CatalogServiceClient is a client for CatalogService.
type CatalogServiceClient interface {
	ListCakes(context.Context, *connect.Request[api.ListCakesRequest]) (*connect.Response[api.ListCakesResponse], error)
	GetCake(context.Context, *connect.Request[api.GetCakeRequest]) (*connect.Response[api.GetCakeResponse], error)
	CreateCake(context.Context, *connect.Request[api.CreateCakeRequest]) (*connect.Response[api.CreateCakeResponse], error)
	UpdateCake(context.Context, *connect.Request[api.UpdateCakeRequest]) (*connect.Response[api.UpdateCakeResponse], error)
	DeleteCake(context.Context, *connect.Request[api.DeleteCakeRequest]) (*connect.Response[api.DeleteCakeResponse], error)
}

// NewCatalogServiceClient constructs a client for CatalogService. baseURL is the server root,
// e.g. http://localhost:8080.
func NewCatalogServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) CatalogServiceClient {
	opts = clientOptions(opts)
	return &catalogServiceClient{
		listCakes:  connect.NewClient[api.ListCakesRequest, api.ListCakesResponse](httpClient, baseURL+CatalogServiceListCakesProcedure, opts...),
		getCake:    connect.NewClient[api.GetCakeRequest, api.GetCakeResponse](httpClient, baseURL+CatalogServiceGetCakeProcedure, opts...),
		createCake: connect.NewClient[api.CreateCakeRequest, api.CreateCakeResponse](httpClient, baseURL+CatalogServiceCreateCakeProcedure, opts...),
		updateCake: connect.NewClient[api.UpdateCakeRequest, api.UpdateCakeResponse](httpClient, baseURL+CatalogServiceUpdateCakeProcedure, opts...),
		deleteCake: connect.NewClient[api.DeleteCakeRequest, api.DeleteCakeResponse](httpClient, baseURL+CatalogServiceDeleteCakeProcedure, opts...),
	}
}

type catalogServiceClient struct {
	listCakes  *connect.Client[api.ListCakesRequest, api.ListCakesResponse]
	getCake    *connect.Client[api.GetCakeRequest, api.GetCakeResponse]
	createCake *connect.Client[api.CreateCakeRequest, api.CreateCakeResponse]
	updateCake *connect.Client[api.UpdateCakeRequest, api.UpdateCakeResponse]
	deleteCake *connect.Client[api.DeleteCakeRequest, api.DeleteCakeResponse]
}

func (c *catalogServiceClient) ListCakes(ctx context.Context, req *connect.Request[api.ListCakesRequest]) (*connect.Response[api.ListCakesResponse], error) {
	return c.listCakes.CallUnary(ctx, req)
}

func (c *catalogServiceClient) GetCake(ctx context.Context, req *connect.Request[api.GetCakeRequest]) (*connect.Response[api.GetCakeResponse], error) {
	return c.getCake.CallUnary(ctx, req)
}

func (c *catalogServiceClient) CreateCake(ctx context.Context, req *connect.Request[api.CreateCakeRequest]) (*connect.Response[api.CreateCakeResponse], error) {
	return c.createCake.CallUnary(ctx, req)
}

func (c *catalogServiceClient) UpdateCake(ctx context.Context, req *connect.Request[api.UpdateCakeRequest]) (*connect.Response[api.UpdateCakeResponse], error) {
	return c.updateCake.CallUnary(ctx, req)
}

func (c *catalogServiceClient) DeleteCake(ctx context.Context, req *connect.Request[api.DeleteCakeRequest]) (*connect.Response[api.DeleteCakeResponse], error) {
	return c.deleteCake.CallUnary(ctx, req)
}
