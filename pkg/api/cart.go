package api

import "github.com/mmynk/bakery/internal/models"

// Cart messages carry the persisted cart document as-is; its JSON shape is
// the one stored locally under the bakeryCart key.

type GetCartRequest struct{}

type GetCartResponse struct {
	// Cart is nil when the user has never saved a cart.
	Cart *models.CartDocument `json:"cart,omitempty"`
}

type SaveCartRequest struct {
	Cart models.CartState `json:"cart"`
}

type SaveCartResponse struct {
	Cart models.CartDocument `json:"cart"`
}

type ClearCartRequest struct{}

type ClearCartResponse struct {
	Cart models.CartDocument `json:"cart"`
}

type WatchCartRequest struct{}

type WatchCartResponse struct {
	Cart models.CartDocument `json:"cart"`
}
