package cartsync

import (
	"github.com/mmynk/bakery/internal/cart"
	"github.com/mmynk/bakery/internal/models"
)

// Merge adds the local lines that are not already in the remote cart.
// Lines are matched on cake, size label and special instructions; when both
// carts hold the same line the remote copy is kept unchanged.
// The remote delivery fee is kept.
func Merge(remote, local models.CartState) models.CartState {
	seen := make(map[string]bool, len(remote.Items))
	items := make([]models.CartItem, 0, len(remote.Items)+len(local.Items))
	for _, item := range remote.Items {
		seen[item.LineKey()] = true
		items = append(items, item)
	}
	for _, item := range local.Items {
		key := item.LineKey()
		if seen[key] {
			continue
		}
		seen[key] = true
		items = append(items, item)
	}
	return cart.Reduce(models.CartState{IsOpen: remote.IsOpen}, cart.ReplaceCart(models.CartState{
		Items:       items,
		DeliveryFee: remote.DeliveryFee,
	}))
}
