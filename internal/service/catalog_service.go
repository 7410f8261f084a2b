package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/bakery/internal/middleware"
	"github.com/mmynk/bakery/internal/models"
	"github.com/mmynk/bakery/internal/storage"
	"github.com/mmynk/bakery/pkg/api"
	"github.com/mmynk/bakery/pkg/api/apiconnect"
)

var _ apiconnect.CatalogServiceHandler = (*CatalogService)(nil)

// CatalogService implements the Connect CatalogService.
type CatalogService struct {
	store  storage.CakeStore
	logger *slog.Logger
}

// NewCatalogService creates a new CatalogService with the given storage backend.
func NewCatalogService(store storage.CakeStore, logger *slog.Logger) *CatalogService {
	return &CatalogService{store: store, logger: logger}
}

// ListCakes returns the catalog, optionally filtered.
func (s *CatalogService) ListCakes(ctx context.Context, req *connect.Request[api.ListCakesRequest]) (*connect.Response[api.ListCakesResponse], error) {
	filter := storage.CakeFilter{
		Category:      req.Msg.Category,
		FeaturedOnly:  req.Msg.FeaturedOnly,
		AvailableOnly: req.Msg.AvailableOnly,
	}
	cakes, err := s.store.ListCakes(ctx, filter)
	if err != nil {
		s.logger.Error("ListCakes failed", "error", err)
		return nil, toConnectError(err)
	}

	out := make([]*api.Cake, len(cakes))
	for i, c := range cakes {
		out[i] = cakeToAPI(c)
	}
	s.logger.Debug("ListCakes successful", "count", len(out), "category", filter.Category)
	return connect.NewResponse(&api.ListCakesResponse{Cakes: out}), nil
}

// GetCake retrieves a cake by ID.
func (s *CatalogService) GetCake(ctx context.Context, req *connect.Request[api.GetCakeRequest]) (*connect.Response[api.GetCakeResponse], error) {
	cake, err := s.store.GetCake(ctx, req.Msg.CakeId)
	if err != nil {
		s.logger.Warn("GetCake failed", "cake_id", req.Msg.CakeId, "error", err)
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&api.GetCakeResponse{Cake: cakeToAPI(cake)}), nil
}

// CreateCake adds a cake to the catalog. Staff only.
func (s *CatalogService) CreateCake(ctx context.Context, req *connect.Request[api.CreateCakeRequest]) (*connect.Response[api.CreateCakeResponse], error) {
	if err := middleware.RequireStaff(ctx); err != nil {
		return nil, err
	}
	if err := validateCake(req.Msg.Cake); err != nil {
		return nil, err
	}

	cake := cakeFromAPI(req.Msg.Cake)
	cake.ID = ""
	if err := s.store.CreateCake(ctx, cake); err != nil {
		s.logger.Error("CreateCake failed", "error", err)
		return nil, toConnectError(err)
	}

	s.logger.Info("Cake created", "cake_id", cake.ID, "name", cake.Name, "by", middleware.GetUserID(ctx))
	return connect.NewResponse(&api.CreateCakeResponse{Cake: cakeToAPI(cake)}), nil
}

// UpdateCake replaces a cake's details. Staff only.
func (s *CatalogService) UpdateCake(ctx context.Context, req *connect.Request[api.UpdateCakeRequest]) (*connect.Response[api.UpdateCakeResponse], error) {
	if err := middleware.RequireStaff(ctx); err != nil {
		return nil, err
	}
	if err := validateCake(req.Msg.Cake); err != nil {
		return nil, err
	}
	if req.Msg.Cake.Id == "" {
		return nil, invalidArgument("cake id is required")
	}

	existing, err := s.store.GetCake(ctx, req.Msg.Cake.Id)
	if err != nil {
		return nil, toConnectError(err)
	}

	cake := cakeFromAPI(req.Msg.Cake)
	cake.CreatedAt = existing.CreatedAt
	if err := s.store.UpdateCake(ctx, cake); err != nil {
		s.logger.Error("UpdateCake failed", "cake_id", cake.ID, "error", err)
		return nil, toConnectError(err)
	}

	s.logger.Info("Cake updated", "cake_id", cake.ID, "by", middleware.GetUserID(ctx))
	return connect.NewResponse(&api.UpdateCakeResponse{Cake: cakeToAPI(cake)}), nil
}

// DeleteCake removes a cake from the catalog. Staff only.
func (s *CatalogService) DeleteCake(ctx context.Context, req *connect.Request[api.DeleteCakeRequest]) (*connect.Response[api.DeleteCakeResponse], error) {
	if err := middleware.RequireStaff(ctx); err != nil {
		return nil, err
	}
	if err := s.store.DeleteCake(ctx, req.Msg.CakeId); err != nil {
		s.logger.Warn("DeleteCake failed", "cake_id", req.Msg.CakeId, "error", err)
		return nil, toConnectError(err)
	}

	s.logger.Info("Cake deleted", "cake_id", req.Msg.CakeId, "by", middleware.GetUserID(ctx))
	return connect.NewResponse(&api.DeleteCakeResponse{}), nil
}

func validateCake(c *api.Cake) error {
	if c == nil {
		return invalidArgument("cake is required")
	}
	if strings.TrimSpace(c.Name) == "" {
		return invalidArgument("cake name is required")
	}
	if len(c.Sizes) == 0 {
		return invalidArgument("cake needs at least one size")
	}
	seen := make(map[string]bool, len(c.Sizes))
	for _, size := range c.Sizes {
		if size.Label == "" {
			return invalidArgument("size label is required")
		}
		if seen[size.Label] {
			return connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("duplicate size %q", size.Label))
		}
		seen[size.Label] = true
		if size.Price <= 0 {
			return connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("size %q needs a positive price", size.Label))
		}
	}
	return nil
}

// catalogLookup adapts a CakeStore for checkout, which treats a missing cake
// as a bad cart line rather than an error.
type catalogLookup struct {
	store storage.CakeStore
}

func (c catalogLookup) GetCake(ctx context.Context, cakeID string) (*models.Cake, error) {
	cake, err := c.store.GetCake(ctx, cakeID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, nil
	}
	return cake, err
}
