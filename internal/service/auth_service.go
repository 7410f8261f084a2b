package service

import (
	"context"
	"errors"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/mmynk/bakery/internal/auth"
	"github.com/mmynk/bakery/internal/middleware"
	"github.com/mmynk/bakery/internal/storage"
	"github.com/mmynk/bakery/pkg/api"
	"github.com/mmynk/bakery/pkg/api/apiconnect"
)

var _ apiconnect.AuthServiceHandler = (*AuthService)(nil)

// AuthService implements the AuthService RPC interface.
type AuthService struct {
	authenticator auth.Authenticator
	jwtManager    *auth.JWTManager
	users         storage.UserStore
	verifier      *auth.VerificationManager
	logger        *slog.Logger
}

// NewAuthService creates a new authentication service.
func NewAuthService(
	authenticator auth.Authenticator,
	jwtManager *auth.JWTManager,
	users storage.UserStore,
	verifier *auth.VerificationManager,
	logger *slog.Logger,
) *AuthService {
	return &AuthService{
		authenticator: authenticator,
		jwtManager:    jwtManager,
		users:         users,
		verifier:      verifier,
		logger:        logger,
	}
}

// Register creates a new user account and emails a verification link.
func (s *AuthService) Register(ctx context.Context, req *connect.Request[api.RegisterRequest]) (*connect.Response[api.RegisterResponse], error) {
	s.logger.Info("Register request", "email", req.Msg.Email)

	// Validate input
	if req.Msg.Email == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, auth.ErrInvalidEmail)
	}
	if req.Msg.DisplayName == "" {
		return nil, invalidArgument("display name is required")
	}

	user, err := s.authenticator.Register(ctx, req.Msg.Email, req.Msg.DisplayName, req.Msg.Password)
	if err != nil {
		s.logger.Error("Registration failed", "email", req.Msg.Email, "error", err)
		return nil, toConnectError(err)
	}

	// A failed email does not fail the signup; the user can ask again.
	if _, err := s.verifier.Send(ctx, user); err != nil {
		s.logger.Warn("Failed to send verification email", "user_id", user.ID, "error", err)
	}

	token, err := s.jwtManager.Generate(user)
	if err != nil {
		s.logger.Error("Failed to generate token", "user_id", user.ID, "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	s.logger.Info("User registered successfully", "user_id", user.ID, "email", user.Email, "role", user.Role)
	return connect.NewResponse(&api.RegisterResponse{
		User:  userToAPI(user),
		Token: token,
	}), nil
}

// Login authenticates a user and returns a JWT token.
func (s *AuthService) Login(ctx context.Context, req *connect.Request[api.LoginRequest]) (*connect.Response[api.LoginResponse], error) {
	s.logger.Info("Login request", "email", req.Msg.Email)

	if req.Msg.Email == "" || req.Msg.Password == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, auth.ErrInvalidCredentials)
	}

	user, err := s.authenticator.Authenticate(ctx, req.Msg.Email, req.Msg.Password)
	if err != nil {
		s.logger.Warn("Login failed", "email", req.Msg.Email, "error", err)
		if errors.Is(err, auth.ErrInvalidCredentials) {
			return nil, connect.NewError(connect.CodeUnauthenticated, auth.ErrInvalidCredentials)
		}
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	token, err := s.jwtManager.Generate(user)
	if err != nil {
		s.logger.Error("Failed to generate token", "user_id", user.ID, "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	s.logger.Info("User logged in successfully", "user_id", user.ID, "email", user.Email)
	return connect.NewResponse(&api.LoginResponse{
		User:  userToAPI(user),
		Token: token,
	}), nil
}

// Logout is a no-op since JWTs are stateless; clients discard the token.
func (s *AuthService) Logout(ctx context.Context, req *connect.Request[api.LogoutRequest]) (*connect.Response[api.LogoutResponse], error) {
	s.logger.Info("Logout request", "user_id", middleware.GetUserID(ctx))
	return connect.NewResponse(&api.LogoutResponse{}), nil
}

// GetCurrentUser returns the authenticated user's stored account.
func (s *AuthService) GetCurrentUser(ctx context.Context, req *connect.Request[api.GetCurrentUserRequest]) (*connect.Response[api.GetCurrentUserResponse], error) {
	user, err := currentUser(ctx, s.users)
	if err != nil {
		return nil, err
	}
	s.logger.Debug("GetCurrentUser request", "user_id", user.ID)
	return connect.NewResponse(&api.GetCurrentUserResponse{User: userToAPI(user)}), nil
}

// SendVerificationEmail issues a fresh verification link to the caller.
func (s *AuthService) SendVerificationEmail(ctx context.Context, req *connect.Request[api.SendVerificationEmailRequest]) (*connect.Response[api.SendVerificationEmailResponse], error) {
	user, err := currentUser(ctx, s.users)
	if err != nil {
		return nil, err
	}
	if user.EmailVerified {
		return connect.NewResponse(&api.SendVerificationEmailResponse{AlreadyVerified: true}), nil
	}

	token, err := s.verifier.Send(ctx, user)
	if err != nil {
		s.logger.Error("Failed to send verification email", "user_id", user.ID, "error", err)
		return nil, toConnectError(err)
	}

	s.logger.Info("Verification email sent", "user_id", user.ID)
	return connect.NewResponse(&api.SendVerificationEmailResponse{ExpiresAt: token.ExpiresAt}), nil
}

// VerifyEmail consumes a verification token. It does not require a session.
func (s *AuthService) VerifyEmail(ctx context.Context, req *connect.Request[api.VerifyEmailRequest]) (*connect.Response[api.VerifyEmailResponse], error) {
	if req.Msg.Token == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, auth.ErrVerificationExpired)
	}

	userID, err := s.verifier.Verify(ctx, req.Msg.Token)
	if err != nil {
		s.logger.Warn("Email verification failed", "error", err)
		return nil, toConnectError(err)
	}

	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		return nil, connect.NewError(connect.CodeInternal, err)
	}
	if user == nil {
		return nil, connect.NewError(connect.CodeNotFound, storage.ErrNotFound)
	}

	s.logger.Info("Email verified", "user_id", user.ID)
	return connect.NewResponse(&api.VerifyEmailResponse{User: userToAPI(user)}), nil
}

// CheckEmailVerification reports whether the caller's email is verified.
func (s *AuthService) CheckEmailVerification(ctx context.Context, req *connect.Request[api.CheckEmailVerificationRequest]) (*connect.Response[api.CheckEmailVerificationResponse], error) {
	user, err := currentUser(ctx, s.users)
	if err != nil {
		return nil, err
	}
	return connect.NewResponse(&api.CheckEmailVerificationResponse{Verified: user.EmailVerified}), nil
}
