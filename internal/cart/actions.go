package cart

import (
	"github.com/google/uuid"

	"github.com/mmynk/bakery/internal/models"
)

// Action is a cart state transition request.
type Action interface {
	isAction()
}

// AddItemAction adds a line, or increments the quantity of an identical line.
type AddItemAction struct {
	Item models.CartItem
}

// RemoveItemAction removes the line with the given ID.
type RemoveItemAction struct {
	ID string
}

// UpdateQuantityAction sets a line's quantity. Quantity <= 0 removes the line.
type UpdateQuantityAction struct {
	ID       string
	Quantity int
}

// UpdateCustomizationsAction replaces a line's customizations. Prices are not recomputed.
type UpdateCustomizationsAction struct {
	ID             string
	Customizations *models.Customizations
}

// ReplaceCartAction replaces the whole cart, e.g. when loading from storage.
type ReplaceCartAction struct {
	State models.CartState
}

// ClearCartAction empties the cart.
type ClearCartAction struct{}

// ToggleCartAction sets the drawer visibility, or flips it when Open is nil.
type ToggleCartAction struct {
	Open *bool
}

// SetDeliveryFeeAction sets the delivery fee, e.g. when the checkout
// fulfillment method changes.
type SetDeliveryFeeAction struct {
	Fee float64
}

func (AddItemAction) isAction()              {}
func (RemoveItemAction) isAction()           {}
func (UpdateQuantityAction) isAction()       {}
func (UpdateCustomizationsAction) isAction() {}
func (ReplaceCartAction) isAction()          {}
func (ClearCartAction) isAction()            {}
func (ToggleCartAction) isAction()           {}
func (SetDeliveryFeeAction) isAction()       {}

// AddItem returns an AddItemAction, assigning the line a new ID if it has none.
func AddItem(item models.CartItem) AddItemAction {
	if item.ID == "" {
		item.ID = uuid.New().String()
	}
	return AddItemAction{Item: item}
}

// RemoveItem returns a RemoveItemAction.
func RemoveItem(id string) RemoveItemAction {
	return RemoveItemAction{ID: id}
}

// UpdateQuantity returns an UpdateQuantityAction.
func UpdateQuantity(id string, quantity int) UpdateQuantityAction {
	return UpdateQuantityAction{ID: id, Quantity: quantity}
}

// UpdateCustomizations returns an UpdateCustomizationsAction.
func UpdateCustomizations(id string, c *models.Customizations) UpdateCustomizationsAction {
	return UpdateCustomizationsAction{ID: id, Customizations: c}
}

// ReplaceCart returns a ReplaceCartAction.
func ReplaceCart(state models.CartState) ReplaceCartAction {
	return ReplaceCartAction{State: state}
}

// ClearCart returns a ClearCartAction.
func ClearCart() ClearCartAction {
	return ClearCartAction{}
}

// ToggleCart flips the drawer visibility.
func ToggleCart() ToggleCartAction {
	return ToggleCartAction{}
}

// SetCartOpen sets the drawer visibility explicitly.
func SetCartOpen(open bool) ToggleCartAction {
	return ToggleCartAction{Open: &open}
}

// SetDeliveryFee returns a SetDeliveryFeeAction.
func SetDeliveryFee(fee float64) SetDeliveryFeeAction {
	return SetDeliveryFeeAction{Fee: fee}
}
