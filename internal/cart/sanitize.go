package cart

import "github.com/mmynk/bakery/internal/models"

// Sanitize returns a copy of state that is safe to persist: nil collections
// become empty, lines without a cake or with a non-positive quantity are
// dropped, empty customizations are omitted and totals are recomputed.
// The visibility flag is not carried over.
func Sanitize(state models.CartState) models.CartState {
	items := make([]models.CartItem, 0, len(state.Items))
	for _, item := range state.Items {
		if item.CakeID == "" || item.Quantity <= 0 {
			continue
		}
		item.Customizations = sanitizeCustomizations(item.Customizations)
		items = append(items, item)
	}

	fee := state.DeliveryFee
	if fee < 0 {
		fee = 0
	}
	return Reduce(models.CartState{}, ReplaceCart(models.CartState{Items: items, DeliveryFee: fee}))
}

func sanitizeCustomizations(c *models.Customizations) *models.Customizations {
	if c.IsZero() {
		return nil
	}
	out := *c
	out.Addons = nil
	for _, addon := range c.Addons {
		if addon != "" {
			out.Addons = append(out.Addons, addon)
		}
	}
	if out.IsZero() {
		return nil
	}
	return &out
}
