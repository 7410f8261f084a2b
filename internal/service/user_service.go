package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/bakery/internal/middleware"
	"github.com/mmynk/bakery/internal/models"
	"github.com/mmynk/bakery/internal/storage"
	"github.com/mmynk/bakery/pkg/api"
	"github.com/mmynk/bakery/pkg/api/apiconnect"
)

var _ apiconnect.UserServiceHandler = (*UserService)(nil)

// UserStorage is what UserService needs from the store.
type UserStorage interface {
	storage.UserStore
	storage.FavoriteStore
	storage.CakeStore
}

// UserService implements the Connect UserService.
type UserService struct {
	store  UserStorage
	logger *slog.Logger
}

// NewUserService creates a UserService.
func NewUserService(store UserStorage, logger *slog.Logger) *UserService {
	return &UserService{store: store, logger: logger}
}

// GetProfile returns the caller's account.
func (s *UserService) GetProfile(ctx context.Context, req *connect.Request[api.GetProfileRequest]) (*connect.Response[api.GetProfileResponse], error) {
	user, err := currentUser(ctx, s.store)
	if err != nil {
		return nil, err
	}
	return connect.NewResponse(&api.GetProfileResponse{User: userToAPI(user)}), nil
}

// UpdateProfile saves the caller's display name and contact details.
func (s *UserService) UpdateProfile(ctx context.Context, req *connect.Request[api.UpdateProfileRequest]) (*connect.Response[api.UpdateProfileResponse], error) {
	user, err := currentUser(ctx, s.store)
	if err != nil {
		return nil, err
	}

	name := strings.TrimSpace(req.Msg.DisplayName)
	if name == "" {
		return nil, invalidArgument("display name is required")
	}
	user.DisplayName = name
	user.Phone = strings.TrimSpace(req.Msg.Phone)
	user.Address = strings.TrimSpace(req.Msg.Address)

	if err := s.store.UpdateUser(ctx, user); err != nil {
		s.logger.Error("UpdateProfile failed", "user_id", user.ID, "error", err)
		return nil, toConnectError(err)
	}

	s.logger.Info("Profile updated", "user_id", user.ID)
	return connect.NewResponse(&api.UpdateProfileResponse{User: userToAPI(user)}), nil
}

// ListFavorites returns the caller's favorites with their cakes.
func (s *UserService) ListFavorites(ctx context.Context, req *connect.Request[api.ListFavoritesRequest]) (*connect.Response[api.ListFavoritesResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}

	favorites, err := s.store.ListFavorites(ctx, userID)
	if err != nil {
		s.logger.Error("ListFavorites failed", "user_id", userID, "error", err)
		return nil, toConnectError(err)
	}

	out := make([]*api.Favorite, 0, len(favorites))
	for _, f := range favorites {
		fav := &api.Favorite{CakeId: f.CakeID, CreatedAt: f.CreatedAt}
		cake, err := s.store.GetCake(ctx, f.CakeID)
		switch {
		case err == nil:
			fav.Cake = cakeToAPI(cake)
		case !errors.Is(err, storage.ErrNotFound):
			return nil, toConnectError(err)
		}
		out = append(out, fav)
	}
	return connect.NewResponse(&api.ListFavoritesResponse{Favorites: out}), nil
}

// AddFavorite bookmarks a cake. Adding an existing favorite succeeds.
func (s *UserService) AddFavorite(ctx context.Context, req *connect.Request[api.AddFavoriteRequest]) (*connect.Response[api.AddFavoriteResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	if _, err := s.store.GetCake(ctx, req.Msg.CakeId); err != nil {
		return nil, toConnectError(err)
	}
	if err := s.store.AddFavorite(ctx, userID, req.Msg.CakeId); err != nil {
		s.logger.Error("AddFavorite failed", "user_id", userID, "cake_id", req.Msg.CakeId, "error", err)
		return nil, toConnectError(err)
	}

	s.logger.Info("Favorite added", "user_id", userID, "cake_id", req.Msg.CakeId)
	return connect.NewResponse(&api.AddFavoriteResponse{}), nil
}

// RemoveFavorite removes a bookmark. Removing a missing favorite succeeds.
func (s *UserService) RemoveFavorite(ctx context.Context, req *connect.Request[api.RemoveFavoriteRequest]) (*connect.Response[api.RemoveFavoriteResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.store.RemoveFavorite(ctx, userID, req.Msg.CakeId); err != nil {
		s.logger.Error("RemoveFavorite failed", "user_id", userID, "cake_id", req.Msg.CakeId, "error", err)
		return nil, toConnectError(err)
	}

	s.logger.Info("Favorite removed", "user_id", userID, "cake_id", req.Msg.CakeId)
	return connect.NewResponse(&api.RemoveFavoriteResponse{}), nil
}

// ListUsers returns every account. Admin only.
func (s *UserService) ListUsers(ctx context.Context, req *connect.Request[api.ListUsersRequest]) (*connect.Response[api.ListUsersResponse], error) {
	if err := middleware.RequireAdmin(ctx); err != nil {
		return nil, err
	}

	users, err := s.store.ListUsers(ctx)
	if err != nil {
		s.logger.Error("ListUsers failed", "error", err)
		return nil, toConnectError(err)
	}

	out := make([]*api.User, len(users))
	for i, u := range users {
		out[i] = userToAPI(u)
	}
	return connect.NewResponse(&api.ListUsersResponse{Users: out}), nil
}

// SetUserRole changes another account's role. Admin only. The new role
// applies from the user's next login.
func (s *UserService) SetUserRole(ctx context.Context, req *connect.Request[api.SetUserRoleRequest]) (*connect.Response[api.SetUserRoleResponse], error) {
	if err := middleware.RequireAdmin(ctx); err != nil {
		return nil, err
	}

	role := models.Role(req.Msg.Role)
	if !role.Valid() {
		return nil, invalidArgument("unknown role " + req.Msg.Role)
	}
	if req.Msg.UserId == middleware.GetUserID(ctx) {
		return nil, connect.NewError(connect.CodeFailedPrecondition, errors.New("admins cannot change their own role"))
	}

	if err := s.store.SetUserRole(ctx, req.Msg.UserId, role); err != nil {
		s.logger.Warn("SetUserRole failed", "user_id", req.Msg.UserId, "error", err)
		return nil, toConnectError(err)
	}
	user, err := s.store.GetUserByID(ctx, req.Msg.UserId)
	if err != nil || user == nil {
		return nil, connect.NewError(connect.CodeInternal, errors.New("failed to reload user"))
	}

	s.logger.Info("User role changed", "user_id", user.ID, "role", role, "by", middleware.GetUserID(ctx))
	return connect.NewResponse(&api.SetUserRoleResponse{User: userToAPI(user)}), nil
}
