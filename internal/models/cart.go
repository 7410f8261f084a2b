package models

// Customizations are the optional choices for a customizable cake.
type Customizations struct {
	Flavor   string   `json:"flavor,omitempty"`
	Filling  string   `json:"filling,omitempty"`
	Frosting string   `json:"frosting,omitempty"`
	Shape    string   `json:"shape,omitempty"`
	Addons   []string `json:"addons,omitempty"`
}

// IsZero reports whether no customization is set.
func (c *Customizations) IsZero() bool {
	return c == nil || (c.Flavor == "" && c.Filling == "" && c.Frosting == "" && c.Shape == "" && len(c.Addons) == 0)
}

// CartItem is one line in a cart.
type CartItem struct {
	// ID is an opaque identifier generated when the line is created.
	ID string `json:"id"`

	CakeID string `json:"cakeId"`
	Name   string `json:"name"`

	// Price is the unit price of the selected size.
	Price float64 `json:"price"`

	// Quantity is always positive for lines held in a CartState.
	Quantity int `json:"quantity"`

	Size Size `json:"size"`

	SpecialInstructions string          `json:"specialInstructions,omitempty"`
	Customizations      *Customizations `json:"customizations,omitempty"`

	ImageURL     string `json:"image,omitempty"`
	Customizable bool   `json:"customizable,omitempty"`
}

// LineKey identifies lines that merge when added: same cake, size label and
// special instructions (exact, case-sensitive).
func (i CartItem) LineKey() string {
	return i.CakeID + "|" + i.Size.Label + "|" + i.SpecialInstructions
}

// CartState is a cart with its derived totals.
//
// Invariants after every reducer transition:
//
//	Subtotal == sum(item.Price * item.Quantity)
//	Total == Subtotal + Tax + DeliveryFee
type CartState struct {
	Items       []CartItem `json:"items"`
	Subtotal    float64    `json:"subtotal"`
	Tax         float64    `json:"tax"`
	DeliveryFee float64    `json:"deliveryFee"`
	Total       float64    `json:"total"`

	// IsOpen is the cart drawer visibility. It is per-session and never persisted.
	IsOpen bool `json:"-"`
}

// CartDocument is a user's cart as stored remotely.
type CartDocument struct {
	UserID string    `json:"userId"`
	Cart   CartState `json:"cart"`

	// SyncedAt is set by the server on every write (Unix milliseconds).
	SyncedAt int64 `json:"syncedAt"`
}
