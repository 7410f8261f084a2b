package models

// OrderStatus is the fulfillment lifecycle state of an order.
type OrderStatus string

const (
	StatusPending        OrderStatus = "pending"
	StatusConfirmed      OrderStatus = "confirmed"
	StatusBaking         OrderStatus = "baking"
	StatusReady          OrderStatus = "ready"
	StatusOutForDelivery OrderStatus = "out_for_delivery"
	StatusDelivered      OrderStatus = "delivered"
	StatusPickedUp       OrderStatus = "picked_up"
	StatusCancelled      OrderStatus = "cancelled"
)

// Terminal reports whether no further transitions are possible.
func (s OrderStatus) Terminal() bool {
	return s == StatusDelivered || s == StatusPickedUp || s == StatusCancelled
}

// PaymentStatus tracks money for an order. There is no payment gateway;
// card payments are simulated at checkout.
type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentPaid     PaymentStatus = "paid"
	PaymentRefunded PaymentStatus = "refunded"
	PaymentFailed   PaymentStatus = "failed"
)

// FulfillmentMethod is how the customer receives the order.
type FulfillmentMethod string

const (
	MethodDelivery FulfillmentMethod = "delivery"
	MethodPickup   FulfillmentMethod = "pickup"
)

// Fulfillment holds delivery or pickup details.
type Fulfillment struct {
	Method      FulfillmentMethod
	ContactName string
	Phone       string

	// Delivery address (delivery only).
	Street     string
	City       string
	PostalCode string

	// PickupTime is the requested pickup slot as a Unix timestamp (pickup only).
	PickupTime int64

	Instructions string
}

// OrderItem is a snapshot of a cart line at checkout.
type OrderItem struct {
	CakeID              string
	Name                string
	Size                Size
	Quantity            int
	Price               float64
	SpecialInstructions string
	Customizations      *Customizations
	ImageURL            string
}

// StatusChange is one entry of an order's status history.
type StatusChange struct {
	Status    OrderStatus
	ChangedBy string
	Note      string
	ChangedAt int64
}

// PaymentTransaction records money received or returned for an order.
type PaymentTransaction struct {
	ID        string
	Amount    float64
	Method    string
	Status    PaymentStatus
	Reference string
	CreatedAt int64
}

// Order is a placed order. It is owned by the backend; clients only read it
// and change it through dedicated status and cancel calls.
type Order struct {
	// ID is the unique identifier for the order (UUID format).
	ID string

	// UserID is the customer who placed the order.
	UserID string

	Status        OrderStatus
	PaymentStatus PaymentStatus

	Items []OrderItem

	Subtotal    float64
	Tax         float64
	DeliveryFee float64
	Total       float64

	Fulfillment Fulfillment
	Notes       string

	// StatusHistory is ordered oldest first.
	StatusHistory []StatusChange

	Payments []PaymentTransaction

	CreatedAt int64
	UpdatedAt int64
}
