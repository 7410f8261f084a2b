package calculator

import (
	"math"
	"testing"

	"github.com/mmynk/bakery/internal/models"
)

func TestCalculate(t *testing.T) {
	tests := []struct {
		name         string
		lines        []Line
		deliveryFee  float64
		wantSubtotal float64
		wantTax      float64
		wantTotal    float64
	}{
		{
			name:         "two units at ten dollars",
			lines:        []Line{{Price: 10, Quantity: 2}},
			wantSubtotal: 20.0,
			wantTax:      1.65,
			wantTotal:    21.65,
		},
		{
			name:         "empty cart",
			lines:        nil,
			wantSubtotal: 0,
			wantTax:      0,
			wantTotal:    0,
		},
		{
			name:         "delivery fee added after tax",
			lines:        []Line{{Price: 42.5, Quantity: 1}, {Price: 3.25, Quantity: 4}},
			deliveryFee:  5.0,
			wantSubtotal: 55.5,
			wantTax:      4.58, // 4.57875 rounds up
			wantTotal:    65.08,
		},
		{
			name:         "non-positive quantities ignored",
			lines:        []Line{{Price: 10, Quantity: 0}, {Price: 7, Quantity: -2}, {Price: 1, Quantity: 1}},
			wantSubtotal: 1,
			wantTax:      0.08,
			wantTotal:    1.08,
		},
		{
			name:         "cent lines with odd fee",
			lines:        []Line{{Price: 0.01, Quantity: 3}},
			deliveryFee:  1.11,
			wantSubtotal: 0.03,
			wantTax:      0,
			wantTotal:    1.14,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Calculate(tt.lines, tt.deliveryFee)
			if math.Abs(got.Subtotal-tt.wantSubtotal) > 0.001 {
				t.Errorf("Subtotal = %v, want %v", got.Subtotal, tt.wantSubtotal)
			}
			if math.Abs(got.Tax-tt.wantTax) > 0.001 {
				t.Errorf("Tax = %v, want %v", got.Tax, tt.wantTax)
			}
			if math.Abs(got.Total-tt.wantTotal) > 0.001 {
				t.Errorf("Total = %v, want %v", got.Total, tt.wantTotal)
			}
			if got.Total != got.Subtotal+got.Tax+got.DeliveryFee {
				t.Errorf("Total %v != Subtotal %v + Tax %v + DeliveryFee %v",
					got.Total, got.Subtotal, got.Tax, got.DeliveryFee)
			}
		})
	}
}

func TestCartTotals(t *testing.T) {
	items := []models.CartItem{
		{CakeID: "c1", Price: 10, Quantity: 2},
		{CakeID: "c2", Price: 12.99, Quantity: 1},
	}
	got := CartTotals(items, 0)
	if !Equal(got.Subtotal, 32.99) {
		t.Errorf("Subtotal = %v, want 32.99", got.Subtotal)
	}
	if !Equal(got.Tax, 2.72) {
		t.Errorf("Tax = %v, want 2.72", got.Tax)
	}
}

func TestCents(t *testing.T) {
	if got := Cents(1.005); got != 1.01 {
		t.Errorf("Cents(1.005) = %v, want 1.01", got)
	}
	if got := Cents(2.344); got != 2.34 {
		t.Errorf("Cents(2.344) = %v, want 2.34", got)
	}
}
