package apiconnect

import (
	"context"
	"net/http"

	"connectrpc.com/connect"

	"github.com/mmynk/bakery/pkg/api"
)

// AuthServiceName is the fully-qualified name of the AuthService service.
const AuthServiceName = "bakery.v1.AuthService"

// Procedure names for AuthService.
const (
	AuthServiceRegisterProcedure               = "/bakery.v1.AuthService/Register"
	AuthServiceLoginProcedure                  = "/bakery.v1.AuthService/Login"
	AuthServiceLogoutProcedure                 = "/bakery.v1.AuthService/Logout"
	AuthServiceGetCurrentUserProcedure         = "/bakery.v1.AuthService/GetCurrentUser"
	AuthServiceSendVerificationEmailProcedure  = "/bakery.v1.AuthService/SendVerificationEmail"
	AuthServiceVerifyEmailProcedure            = "/bakery.v1.AuthService/VerifyEmail"
	AuthServiceCheckEmailVerificationProcedure = "/bakery.v1.AuthService/CheckEmailVerification"
)

// AuthServiceHandler is implemented by the server.
// AuthService handles accounts, sessions and email verification.
type AuthServiceHandler interface {
	Register(context.Context, *connect.Request[api.RegisterRequest]) (*connect.Response[api.RegisterResponse], error)
	Login(context.Context, *connect.Request[api.LoginRequest]) (*connect.Response[api.LoginResponse], error)
	Logout(context.Context, *connect.Request[api.LogoutRequest]) (*connect.Response[api.LogoutResponse], error)
	GetCurrentUser(context.Context, *connect.Request[api.GetCurrentUserRequest]) (*connect.Response[api.GetCurrentUserResponse], error)
	SendVerificationEmail(context.Context, *connect.Request[api.SendVerificationEmailRequest]) (*connect.Response[api.SendVerificationEmailResponse], error)
	VerifyEmail(context.Context, *connect.Request[api.VerifyEmailRequest]) (*connect.Response[api.VerifyEmailResponse], error)
	CheckEmailVerification(context.Context, *connect.Request[api.CheckEmailVerificationRequest]) (*connect.Response[api.CheckEmailVerificationResponse], error)
}

// NewAuthServiceHandler builds an HTTP handler from the service implementation.
// It returns the path on which to mount the handler and the handler itself.
func NewAuthServiceHandler(svc AuthServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	registerHandler := connect.NewUnaryHandler(AuthServiceRegisterProcedure, svc.Register, opts...)
	loginHandler := connect.NewUnaryHandler(AuthServiceLoginProcedure, svc.Login, opts...)
	logoutHandler := connect.NewUnaryHandler(AuthServiceLogoutProcedure, svc.Logout, opts...)
	getCurrentUserHandler := connect.NewUnaryHandler(AuthServiceGetCurrentUserProcedure, svc.GetCurrentUser, opts...)
	sendVerificationEmailHandler := connect.NewUnaryHandler(AuthServiceSendVerificationEmailProcedure, svc.SendVerificationEmail, opts...)
	verifyEmailHandler := connect.NewUnaryHandler(AuthServiceVerifyEmailProcedure, svc.VerifyEmail, opts...)
	checkEmailVerificationHandler := connect.NewUnaryHandler(AuthServiceCheckEmailVerificationProcedure, svc.CheckEmailVerification, opts...)
	return "/bakery.v1.AuthService/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case AuthServiceRegisterProcedure:
			registerHandler.ServeHTTP(w, r)
		case AuthServiceLoginProcedure:
			loginHandler.ServeHTTP(w, r)
		case AuthServiceLogoutProcedure:
			logoutHandler.ServeHTTP(w, r)
		case AuthServiceGetCurrentUserProcedure:
			getCurrentUserHandler.ServeHTTP(w, r)
		case AuthServiceSendVerificationEmailProcedure:
			sendVerificationEmailHandler.ServeHTTP(w, r)
		case AuthServiceVerifyEmailProcedure:
			verifyEmailHandler.ServeHTTP(w, r)
		case AuthServiceCheckEmailVerificationProcedure:
			checkEmailVerificationHandler.ServeHTTP(w, r)
		default:
			http.NotFound(w, r)
		}
	})
}

// AuthServiceClient is a client for AuthService.
type AuthServiceClient interface {
	Register(context.Context, *connect.Request[api.RegisterRequest]) (*connect.Response[api.RegisterResponse], error)
	Login(context.Context, *connect.Request[api.LoginRequest]) (*connect.Response[api.LoginResponse], error)
	Logout(context.Context, *connect.Request[api.LogoutRequest]) (*connect.Response[api.LogoutResponse], error)
	GetCurrentUser(context.Context, *connect.Request[api.GetCurrentUserRequest]) (*connect.Response[api.GetCurrentUserResponse], error)
	SendVerificationEmail(context.Context, *connect.Request[api.SendVerificationEmailRequest]) (*connect.Response[api.SendVerificationEmailResponse], error)
	VerifyEmail(context.Context, *connect.Request[api.VerifyEmailRequest]) (*connect.Response[api.VerifyEmailResponse], error)
	CheckEmailVerification(context.Context, *connect.Request[api.CheckEmailVerificationRequest]) (*connect.Response[api.CheckEmailVerificationResponse], error)
}

// NewAuthServiceClient constructs a client for AuthService. baseURL is the server root,
// e.g. http://localhost:8080.
func NewAuthServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) AuthServiceClient {
	opts = clientOptions(opts)
	return &authServiceClient{
		register:               connect.NewClient[api.RegisterRequest, api.RegisterResponse](httpClient, baseURL+AuthServiceRegisterProcedure, opts...),
		login:                  connect.NewClient[api.LoginRequest, api.LoginResponse](httpClient, baseURL+AuthServiceLoginProcedure, opts...),
		logout:                 connect.NewClient[api.LogoutRequest, api.LogoutResponse](httpClient, baseURL+AuthServiceLogoutProcedure, opts...),
		getCurrentUser:         connect.NewClient[api.GetCurrentUserRequest, api.GetCurrentUserResponse](httpClient, baseURL+AuthServiceGetCurrentUserProcedure, opts...),
		sendVerificationEmail:  connect.NewClient[api.SendVerificationEmailRequest, api.SendVerificationEmailResponse](httpClient, baseURL+AuthServiceSendVerificationEmailProcedure, opts...),
		verifyEmail:            connect.NewClient[api.VerifyEmailRequest, api.VerifyEmailResponse](httpClient, baseURL+AuthServiceVerifyEmailProcedure, opts...),
		checkEmailVerification: connect.NewClient[api.CheckEmailVerificationRequest, api.CheckEmailVerificationResponse](httpClient, baseURL+AuthServiceCheckEmailVerificationProcedure, opts...),
	}
}

type authServiceClient struct {
	register               *connect.Client[api.RegisterRequest, api.RegisterResponse]
	login                  *connect.Client[api.LoginRequest, api.LoginResponse]
	logout                 *connect.Client[api.LogoutRequest, api.LogoutResponse]
	getCurrentUser         *connect.Client[api.GetCurrentUserRequest, api.GetCurrentUserResponse]
	sendVerificationEmail  *connect.Client[api.SendVerificationEmailRequest, api.SendVerificationEmailResponse]
	verifyEmail            *connect.Client[api.VerifyEmailRequest, api.VerifyEmailResponse]
	checkEmailVerification *connect.Client[api.CheckEmailVerificationRequest, api.CheckEmailVerificationResponse]
}

func (c *authServiceClient) Register(ctx context.Context, req *connect.Request[api.RegisterRequest]) (*connect.Response[api.RegisterResponse], error) {
	return c.register.CallUnary(ctx, req)
}

func (c *authServiceClient) Login(ctx context.Context, req *connect.Request[api.LoginRequest]) (*connect.Response[api.LoginResponse], error) {
	return c.login.CallUnary(ctx, req)
}

func (c *authServiceClient) Logout(ctx context.Context, req *connect.Request[api.LogoutRequest]) (*connect.Response[api.LogoutResponse], error) {
	return c.logout.CallUnary(ctx, req)
}

func (c *authServiceClient) GetCurrentUser(ctx context.Context, req *connect.Request[api.GetCurrentUserRequest]) (*connect.Response[api.GetCurrentUserResponse], error) {
	return c.getCurrentUser.CallUnary(ctx, req)
}

func (c *authServiceClient) SendVerificationEmail(ctx context.Context, req *connect.Request[api.SendVerificationEmailRequest]) (*connect.Response[api.SendVerificationEmailResponse], error) {
	return c.sendVerificationEmail.CallUnary(ctx, req)
}

func (c *authServiceClient) VerifyEmail(ctx context.Context, req *connect.Request[api.VerifyEmailRequest]) (*connect.Response[api.VerifyEmailResponse], error) {
	return c.verifyEmail.CallUnary(ctx, req)
}

func (c *authServiceClient) CheckEmailVerification(ctx context.Context, req *connect.Request[api.CheckEmailVerificationRequest]) (*connect.Response[api.CheckEmailVerificationResponse], error) {
	return c.checkEmailVerification.CallUnary(ctx, req)
}
