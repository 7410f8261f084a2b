package api

import "github.com/mmynk/bakery/internal/models"

type OrderItem struct {
	CakeId              string                 `json:"cakeId"`
	Name                string                 `json:"name"`
	Size                models.Size            `json:"size"`
	Quantity            int                    `json:"quantity"`
	Price               float64                `json:"price"`
	SpecialInstructions string                 `json:"specialInstructions,omitempty"`
	Customizations      *models.Customizations `json:"customizations,omitempty"`
	ImageUrl            string                 `json:"imageUrl,omitempty"`
}

type Fulfillment struct {
	Method       string `json:"method"`
	ContactName  string `json:"contactName"`
	Phone        string `json:"phone,omitempty"`
	Street       string `json:"street,omitempty"`
	City         string `json:"city,omitempty"`
	PostalCode   string `json:"postalCode,omitempty"`
	PickupTime   int64  `json:"pickupTime,omitempty"`
	Instructions string `json:"instructions,omitempty"`
}

type StatusChange struct {
	Status    string `json:"status"`
	ChangedBy string `json:"changedBy"`
	Note      string `json:"note,omitempty"`
	ChangedAt int64  `json:"changedAt"`
}

type Payment struct {
	Id        string  `json:"id"`
	Amount    float64 `json:"amount"`
	Method    string  `json:"method"`
	Status    string  `json:"status"`
	Reference string  `json:"reference,omitempty"`
	CreatedAt int64   `json:"createdAt"`
}

type Order struct {
	Id            string          `json:"id"`
	UserId        string          `json:"userId"`
	Status        string          `json:"status"`
	PaymentStatus string          `json:"paymentStatus"`
	Items         []*OrderItem    `json:"items"`
	Subtotal      float64         `json:"subtotal"`
	Tax           float64         `json:"tax"`
	DeliveryFee   float64         `json:"deliveryFee"`
	Total         float64         `json:"total"`
	Fulfillment   *Fulfillment    `json:"fulfillment"`
	Notes         string          `json:"notes,omitempty"`
	StatusHistory []*StatusChange `json:"statusHistory"`
	Payments      []*Payment      `json:"payments"`
	CreatedAt     int64           `json:"createdAt"`
	UpdatedAt     int64           `json:"updatedAt"`
}

type CreateOrderRequest struct {
	Items         []models.CartItem `json:"items"`
	Fulfillment   *Fulfillment      `json:"fulfillment"`
	PaymentMethod string            `json:"paymentMethod"`
	Notes         string            `json:"notes,omitempty"`
	// ClearCart empties the caller's saved cart once the order is stored.
	ClearCart bool `json:"clearCart,omitempty"`
}

type CreateOrderResponse struct {
	Order *Order `json:"order"`
}

type GetOrderRequest struct {
	OrderId string `json:"orderId"`
}

type GetOrderResponse struct {
	Order *Order `json:"order"`
}

type ListOrderHistoryRequest struct {
	Limit int `json:"limit,omitempty"`
}

type ListOrderHistoryResponse struct {
	Orders []*Order `json:"orders"`
	// Collapsed counts stored orders hidden as duplicates.
	Collapsed int `json:"collapsed"`
}

type CancelOrderRequest struct {
	OrderId string `json:"orderId"`
	Reason  string `json:"reason,omitempty"`
}

type CancelOrderResponse struct {
	Order *Order `json:"order"`
}

type ListOrdersRequest struct {
	Status string `json:"status,omitempty"`
	Limit  int    `json:"limit,omitempty"`
}

type ListOrdersResponse struct {
	Orders []*Order `json:"orders"`
}

type UpdateOrderStatusRequest struct {
	OrderId string `json:"orderId"`
	Status  string `json:"status"`
	Note    string `json:"note,omitempty"`
}

type UpdateOrderStatusResponse struct {
	Order *Order `json:"order"`
}
