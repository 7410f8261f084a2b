// Package calculator computes cart and order money totals.
//
// Amounts are carried as float64 dollars in the models. Subtotal, tax and
// fee are computed in decimal and rounded half-up to cents; Total is the
// float64 sum of those rounded parts, so Total == Subtotal + Tax + DeliveryFee
// holds exactly for callers comparing with ==.
package calculator

import (
	"github.com/shopspring/decimal"

	"github.com/mmynk/bakery/internal/models"
)

// TaxRate is the fixed sales tax applied to the merchandise subtotal.
var TaxRate = decimal.RequireFromString("0.0825")

// Line is the minimal information needed to price one line.
type Line struct {
	Price    float64
	Quantity int
}

// Totals is the money breakdown of a cart or order.
type Totals struct {
	Subtotal    float64
	Tax         float64
	DeliveryFee float64
	Total       float64
}

// Cents rounds a dollar amount to two decimal places.
func Cents(amount float64) float64 {
	return decimal.NewFromFloat(amount).Round(2).InexactFloat64()
}

// Equal reports whether two amounts are the same at cent precision.
func Equal(a, b float64) bool {
	return decimal.NewFromFloat(a).Round(2).Equal(decimal.NewFromFloat(b).Round(2))
}

func subtotal(lines []Line) decimal.Decimal {
	sum := decimal.Zero
	for _, l := range lines {
		if l.Quantity <= 0 {
			continue
		}
		sum = sum.Add(decimal.NewFromFloat(l.Price).Mul(decimal.NewFromInt(int64(l.Quantity))))
	}
	return sum.Round(2)
}

// Calculate prices lines with the given delivery fee.
// Lines with non-positive quantity contribute nothing.
func Calculate(lines []Line, deliveryFee float64) Totals {
	sub := subtotal(lines)
	tax := sub.Mul(TaxRate).Round(2)
	fee := decimal.NewFromFloat(deliveryFee).Round(2)

	// Total is summed from the float parts, not from the decimals.
	s, t, f := sub.InexactFloat64(), tax.InexactFloat64(), fee.InexactFloat64()
	return Totals{
		Subtotal:    s,
		Tax:         t,
		DeliveryFee: f,
		Total:       s + t + f,
	}
}

// CartTotals prices cart items.
func CartTotals(items []models.CartItem, deliveryFee float64) Totals {
	lines := make([]Line, len(items))
	for i, item := range items {
		lines[i] = Line{Price: item.Price, Quantity: item.Quantity}
	}
	return Calculate(lines, deliveryFee)
}

// OrderTotals prices order items.
func OrderTotals(items []models.OrderItem, deliveryFee float64) Totals {
	lines := make([]Line, len(items))
	for i, item := range items {
		lines[i] = Line{Price: item.Price, Quantity: item.Quantity}
	}
	return Calculate(lines, deliveryFee)
}
