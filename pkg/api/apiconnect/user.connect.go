package apiconnect

import (
	"context"
	"net/http"

	"connectrpc.com/connect"

	"github.com/mmynk/bakery/pkg/api"
)

// UserServiceName is the fully-qualified name of the UserService service.
const UserServiceName = "bakery.v1.UserService"

// Procedure names for UserService.
const (
	UserServiceGetProfileProcedure     = "/bakery.v1.UserService/GetProfile"
	UserServiceUpdateProfileProcedure  = "/bakery.v1.UserService/UpdateProfile"
	UserServiceListFavoritesProcedure  = "/bakery.v1.UserService/ListFavorites"
	UserServiceAddFavoriteProcedure    = "/bakery.v1.UserService/AddFavorite"
	UserServiceRemoveFavoriteProcedure = "/bakery.v1.UserService/RemoveFavorite"
	UserServiceListUsersProcedure      = "/bakery.v1.UserService/ListUsers"
	UserServiceSetUserRoleProcedure    = "/bakery.v1.UserService/SetUserRole"
)

// UserServiceHandler is implemented by the server.
// UserService manages profiles, favorites and, for admins, roles.
type UserServiceHandler interface {
	GetProfile(context.Context, *connect.Request[api.GetProfileRequest]) (*connect.Response[api.GetProfileResponse], error)
	UpdateProfile(context.Context, *connect.Request[api.UpdateProfileRequest]) (*connect.Response[api.UpdateProfileResponse], error)
	ListFavorites(context.Context, *connect.Request[api.ListFavoritesRequest]) (*connect.Response[api.ListFavoritesResponse], error)
	AddFavorite(context.Context, *connect.Request[api.AddFavoriteRequest]) (*connect.Response[api.AddFavoriteResponse], error)
	RemoveFavorite(context.Context, *connect.Request[api.RemoveFavoriteRequest]) (*connect.Response[api.RemoveFavoriteResponse], error)
	ListUsers(context.Context, *connect.Request[api.ListUsersRequest]) (*connect.Response[api.ListUsersResponse], error)
	SetUserRole(context.Context, *connect.Request[api.SetUserRoleRequest]) (*connect.Response[api.SetUserRoleResponse], error)
}

// NewUserServiceHandler builds an HTTP handler from the service implementation.
// It returns the path on which to mount the handler and the handler itself.
func NewUserServiceHandler(svc UserServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	getProfileHandler := connect.NewUnaryHandler(UserServiceGetProfileProcedure, svc.GetProfile, opts...)
	updateProfileHandler := connect.NewUnaryHandler(UserServiceUpdateProfileProcedure, svc.UpdateProfile, opts...)
	listFavoritesHandler := connect.NewUnaryHandler(UserServiceListFavoritesProcedure, svc.ListFavorites, opts...)
	addFavoriteHandler := connect.NewUnaryHandler(UserServiceAddFavoriteProcedure, svc.AddFavorite, opts...)
	removeFavoriteHandler := connect.NewUnaryHandler(UserServiceRemoveFavoriteProcedure, svc.RemoveFavorite, opts...)
	listUsersHandler := connect.NewUnaryHandler(UserServiceListUsersProcedure, svc.ListUsers, opts...)
	setUserRoleHandler := connect.NewUnaryHandler(UserServiceSetUserRoleProcedure, svc.SetUserRole, opts...)
	return "/bakery.v1.UserService/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case UserServiceGetProfileProcedure:
			getProfileHandler.ServeHTTP(w, r)
		case UserServiceUpdateProfileProcedure:
			updateProfileHandler.ServeHTTP(w, r)
		case UserServiceListFavoritesProcedure:
			listFavoritesHandler.ServeHTTP(w, r)
		case UserServiceAddFavoriteProcedure:
			addFavoriteHandler.ServeHTTP(w, r)
		case UserServiceRemoveFavoriteProcedure:
			removeFavoriteHandler.ServeHTTP(w, r)
		case UserServiceListUsersProcedure:
			listUsersHandler.ServeHTTP(w, r)
		case UserServiceSetUserRoleProcedure:
			setUserRoleHandler.ServeHTTP(w, r)
		default:
			http.NotFound(w, r)
		}
	})
}

// UserServiceClient is a client for UserService.
type UserServiceClient interface {
	GetProfile(context.Context, *connect.Request[api.GetProfileRequest]) (*connect.Response[api.GetProfileResponse], error)
	UpdateProfile(context.Context, *connect.Request[api.UpdateProfileRequest]) (*connect.Response[api.UpdateProfileResponse], error)
	ListFavorites(context.Context, *connect.Request[api.ListFavoritesRequest]) (*connect.Response[api.ListFavoritesResponse], error)
	AddFavorite(context.Context, *connect.Request[api.AddFavoriteRequest]) (*connect.Response[api.AddFavoriteResponse], error)
	RemoveFavorite(context.Context, *connect.Request[api.RemoveFavoriteRequest]) (*connect.Response[api.RemoveFavoriteResponse], error)
	ListUsers(context.Context, *connect.Request[api.ListUsersRequest]) (*connect.Response[api.ListUsersResponse], error)
	SetUserRole(context.Context, *connect.Request[api.SetUserRoleRequest]) (*connect.Response[api.SetUserRoleResponse], error)
}

// NewUserServiceClient constructs a client for UserService. baseURL is the server root,
// e.g. http://localhost:8080.
func NewUserServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) UserServiceClient {
	opts = clientOptions(opts)
	return &userServiceClient{
		getProfile:     connect.NewClient[api.GetProfileRequest, api.GetProfileResponse](httpClient, baseURL+UserServiceGetProfileProcedure, opts...),
		updateProfile:  connect.NewClient[api.UpdateProfileRequest, api.UpdateProfileResponse](httpClient, baseURL+UserServiceUpdateProfileProcedure, opts...),
		listFavorites:  connect.NewClient[api.ListFavoritesRequest, api.ListFavoritesResponse](httpClient, baseURL+UserServiceListFavoritesProcedure, opts...),
		addFavorite:    connect.NewClient[api.AddFavoriteRequest, api.AddFavoriteResponse](httpClient, baseURL+UserServiceAddFavoriteProcedure, opts...),
		removeFavorite: connect.NewClient[api.RemoveFavoriteRequest, api.RemoveFavoriteResponse](httpClient, baseURL+UserServiceRemoveFavoriteProcedure, opts...),
		listUsers:      connect.NewClient[api.ListUsersRequest, api.ListUsersResponse](httpClient, baseURL+UserServiceListUsersProcedure, opts...),
		setUserRole:    connect.NewClient[api.SetUserRoleRequest, api.SetUserRoleResponse](httpClient, baseURL+UserServiceSetUserRoleProcedure, opts...),
	}
}

type userServiceClient struct {
	getProfile     *connect.Client[api.GetProfileRequest, api.GetProfileResponse]
	updateProfile  *connect.Client[api.UpdateProfileRequest, api.UpdateProfileResponse]
	listFavorites  *connect.Client[api.ListFavoritesRequest, api.ListFavoritesResponse]
	addFavorite    *connect.Client[api.AddFavoriteRequest, api.AddFavoriteResponse]
	removeFavorite *connect.Client[api.RemoveFavoriteRequest, api.RemoveFavoriteResponse]
	listUsers      *connect.Client[api.ListUsersRequest, api.ListUsersResponse]
	setUserRole    *connect.Client[api.SetUserRoleRequest, api.SetUserRoleResponse]
}

func (c *userServiceClient) GetProfile(ctx context.Context, req *connect.Request[api.GetProfileRequest]) (*connect.Response[api.GetProfileResponse], error) {
	return c.getProfile.CallUnary(ctx, req)
}

func (c *userServiceClient) UpdateProfile(ctx context.Context, req *connect.Request[api.UpdateProfileRequest]) (*connect.Response[api.UpdateProfileResponse], error) {
	return c.updateProfile.CallUnary(ctx, req)
}

func (c *userServiceClient) ListFavorites(ctx context.Context, req *connect.Request[api.ListFavoritesRequest]) (*connect.Response[api.ListFavoritesResponse], error) {
	return c.listFavorites.CallUnary(ctx, req)
}

func (c *userServiceClient) AddFavorite(ctx context.Context, req *connect.Request[api.AddFavoriteRequest]) (*connect.Response[api.AddFavoriteResponse], error) {
	return c.addFavorite.CallUnary(ctx, req)
}

func (c *userServiceClient) RemoveFavorite(ctx context.Context, req *connect.Request[api.RemoveFavoriteRequest]) (*connect.Response[api.RemoveFavoriteResponse], error) {
	return c.removeFavorite.CallUnary(ctx, req)
}

func (c *userServiceClient) ListUsers(ctx context.Context, req *connect.Request[api.ListUsersRequest]) (*connect.Response[api.ListUsersResponse], error) {
	return c.listUsers.CallUnary(ctx, req)
}

func (c *userServiceClient) SetUserRole(ctx context.Context, req *connect.Request[api.SetUserRoleRequest]) (*connect.Response[api.SetUserRoleResponse], error) {
	return c.setUserRole.CallUnary(ctx, req)
}
