// Package cart implements the cart store: a pure reducer over models.CartState.
//
// Every action that touches items recomputes Subtotal, Tax and Total through
// the calculator package. Unknown actions leave the state unchanged; the
// reducer never fails.
package cart

import (
	"github.com/mmynk/bakery/internal/calculator"
	"github.com/mmynk/bakery/internal/models"
)

// Empty returns an empty, closed cart.
func Empty() models.CartState {
	return models.CartState{Items: []models.CartItem{}}
}

// Reduce applies action to state and returns the new state.
// The input state is never modified.
func Reduce(state models.CartState, action Action) models.CartState {
	switch a := action.(type) {
	case AddItemAction:
		return addItem(state, a.Item)

	case RemoveItemAction:
		return withItems(state, removeLine(state.Items, a.ID))

	case UpdateQuantityAction:
		if a.Quantity <= 0 {
			return withItems(state, removeLine(state.Items, a.ID))
		}
		items := cloneItems(state.Items)
		for i := range items {
			if items[i].ID == a.ID {
				items[i].Quantity = a.Quantity
			}
		}
		return withItems(state, items)

	case UpdateCustomizationsAction:
		items := cloneItems(state.Items)
		for i := range items {
			if items[i].ID == a.ID {
				items[i].Customizations = cloneCustomizations(a.Customizations)
			}
		}
		next := state
		next.Items = items
		return next

	case ReplaceCartAction:
		next := models.CartState{
			Items:       cloneItems(a.State.Items),
			DeliveryFee: a.State.DeliveryFee,
			IsOpen:      state.IsOpen,
		}
		return recompute(next)

	case ClearCartAction:
		return models.CartState{Items: []models.CartItem{}, IsOpen: state.IsOpen}

	case ToggleCartAction:
		next := state
		if a.Open != nil {
			next.IsOpen = *a.Open
		} else {
			next.IsOpen = !state.IsOpen
		}
		return next

	case SetDeliveryFeeAction:
		next := state
		next.DeliveryFee = a.Fee
		return recompute(next)

	default:
		return state
	}
}

// Count returns the number of units in the cart.
func Count(state models.CartState) int {
	n := 0
	for _, item := range state.Items {
		n += item.Quantity
	}
	return n
}

func addItem(state models.CartState, item models.CartItem) models.CartState {
	if item.Quantity <= 0 {
		item.Quantity = 1
	}
	items := cloneItems(state.Items)
	key := item.LineKey()
	for i := range items {
		if items[i].LineKey() == key {
			items[i].Quantity += item.Quantity
			return withItems(state, items)
		}
	}
	item.Customizations = cloneCustomizations(item.Customizations)
	return withItems(state, append(items, item))
}

func removeLine(items []models.CartItem, id string) []models.CartItem {
	out := make([]models.CartItem, 0, len(items))
	for _, item := range items {
		if item.ID != id {
			out = append(out, item)
		}
	}
	return out
}

func withItems(state models.CartState, items []models.CartItem) models.CartState {
	next := state
	next.Items = items
	return recompute(next)
}

func recompute(state models.CartState) models.CartState {
	totals := calculator.CartTotals(state.Items, state.DeliveryFee)
	state.Subtotal = totals.Subtotal
	state.Tax = totals.Tax
	state.DeliveryFee = totals.DeliveryFee
	state.Total = totals.Total
	return state
}

func cloneItems(items []models.CartItem) []models.CartItem {
	out := make([]models.CartItem, len(items))
	copy(out, items)
	return out
}

func cloneCustomizations(c *models.Customizations) *models.Customizations {
	if c == nil {
		return nil
	}
	out := *c
	if c.Addons != nil {
		out.Addons = append([]string(nil), c.Addons...)
	}
	return &out
}
