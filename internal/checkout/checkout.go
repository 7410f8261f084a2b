// Package checkout turns a cart into an order.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/mmynk/bakery/internal/calculator"
	"github.com/mmynk/bakery/internal/models"
)

// ErrValidation wraps every checkout input problem.
var ErrValidation = errors.New("invalid checkout")

// Payment methods accepted at checkout. There is no payment gateway: card
// payments are recorded as completed immediately, cash is collected on
// fulfillment.
const (
	PaymentCard = "card"
	PaymentCash = "cash"
)

// CakeLookup resolves cart lines against the catalog.
type CakeLookup interface {
	GetCake(ctx context.Context, cakeID string) (*models.Cake, error)
}

// Request is a checkout submission.
type Request struct {
	UserID        string
	Items         []models.CartItem
	Fulfillment   models.Fulfillment
	PaymentMethod string
	Notes         string
}

// Fees configures checkout charges.
type Fees struct {
	// Delivery is charged for delivery orders; pickup is free.
	Delivery float64
}

// DeliveryFee returns the fee for a fulfillment method.
func (f Fees) DeliveryFee(method models.FulfillmentMethod) float64 {
	if method == models.MethodDelivery {
		return f.Delivery
	}
	return 0
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// Validate checks the request without consulting the catalog.
func Validate(req Request, now int64) error {
	if req.UserID == "" {
		return invalid("user required")
	}
	if len(req.Items) == 0 {
		return invalid("cart is empty")
	}
	for _, item := range req.Items {
		if item.CakeID == "" {
			return invalid("item without cake")
		}
		if item.Quantity <= 0 {
			return invalid("quantity for %s must be positive", item.Name)
		}
	}

	f := req.Fulfillment
	if strings.TrimSpace(f.ContactName) == "" {
		return invalid("contact name required")
	}
	switch f.Method {
	case models.MethodDelivery:
		if strings.TrimSpace(f.Street) == "" || strings.TrimSpace(f.City) == "" || strings.TrimSpace(f.PostalCode) == "" {
			return invalid("delivery address required")
		}
		if strings.TrimSpace(f.Phone) == "" {
			return invalid("phone required for delivery")
		}
	case models.MethodPickup:
		if f.PickupTime <= now {
			return invalid("pickup time must be in the future")
		}
	default:
		return invalid("unknown fulfillment method %q", f.Method)
	}

	switch req.PaymentMethod {
	case PaymentCard, PaymentCash:
	default:
		return invalid("unknown payment method %q", req.PaymentMethod)
	}
	return nil
}

// Build validates req, prices every line from the catalog and returns a new
// pending order. Customizations do not change the price.
func Build(ctx context.Context, req Request, catalog CakeLookup, fees Fees, now int64) (*models.Order, error) {
	if err := Validate(req, now); err != nil {
		return nil, err
	}

	items := make([]models.OrderItem, 0, len(req.Items))
	for _, line := range req.Items {
		cake, err := catalog.GetCake(ctx, line.CakeID)
		if err != nil {
			return nil, fmt.Errorf("failed to look up cake %s: %w", line.CakeID, err)
		}
		if cake == nil {
			return nil, invalid("cake %s no longer exists", line.CakeID)
		}
		if !cake.Available {
			return nil, invalid("%s is not available", cake.Name)
		}
		size, ok := cake.SizeByLabel(line.Size.Label)
		if !ok {
			return nil, invalid("%s has no size %q", cake.Name, line.Size.Label)
		}

		var custom *models.Customizations
		if cake.Customizable && !line.Customizations.IsZero() {
			c := *line.Customizations
			custom = &c
		}

		items = append(items, models.OrderItem{
			CakeID:              cake.ID,
			Name:                cake.Name,
			Size:                size,
			Quantity:            line.Quantity,
			Price:               size.Price,
			SpecialInstructions: line.SpecialInstructions,
			Customizations:      custom,
			ImageURL:            cake.ImageURL,
		})
	}

	totals := calculator.OrderTotals(items, fees.DeliveryFee(req.Fulfillment.Method))

	order := &models.Order{
		ID:            uuid.New().String(),
		UserID:        req.UserID,
		Status:        models.StatusPending,
		PaymentStatus: models.PaymentPending,
		Items:         items,
		Subtotal:      totals.Subtotal,
		Tax:           totals.Tax,
		DeliveryFee:   totals.DeliveryFee,
		Total:         totals.Total,
		Fulfillment:   req.Fulfillment,
		Notes:         req.Notes,
		StatusHistory: []models.StatusChange{{
			Status:    models.StatusPending,
			ChangedBy: req.UserID,
			Note:      "Order placed",
			ChangedAt: now,
		}},
		CreatedAt: now,
		UpdatedAt: now,
	}

	if req.PaymentMethod == PaymentCard {
		order.PaymentStatus = models.PaymentPaid
		order.Payments = append(order.Payments, models.PaymentTransaction{
			ID:        uuid.New().String(),
			Amount:    order.Total,
			Method:    PaymentCard,
			Status:    models.PaymentPaid,
			Reference: "sim-" + uuid.New().String()[:8],
			CreatedAt: now,
		})
	}

	return order, nil
}
