package orders

import (
	"testing"

	"github.com/mmynk/bakery/internal/models"
)

const minute int64 = 60

func sampleOrder(id string, createdAt int64) models.Order {
	return models.Order{
		ID:            id,
		Status:        models.StatusPending,
		PaymentStatus: models.PaymentPending,
		Items: []models.OrderItem{
			{CakeID: "c1", Name: "Red Velvet", Quantity: 1, Price: 30},
			{CakeID: "c2", Name: "Lemon Drizzle", Quantity: 2, Price: 12.5},
		},
		Total:     59.53,
		CreatedAt: createdAt,
	}
}

func ids(list []models.Order) []string {
	out := make([]string, len(list))
	for i, o := range list {
		out[i] = o.ID
	}
	return out
}

func TestReconcile_CollapsesWithinWindow(t *testing.T) {
	base := int64(1_700_000_000)
	a := sampleOrder("a", base)
	b := sampleOrder("b", base+10*minute)
	b.PaymentStatus = "" // less complete

	got := Reconcile([]models.Order{a, b})

	if len(got) != 1 {
		t.Fatalf("expected 1 order, got %v", ids(got))
	}
	if got[0].ID != "a" {
		t.Errorf("kept %s, want the more complete order a", got[0].ID)
	}
}

func TestReconcile_KeepsOutsideWindow(t *testing.T) {
	base := int64(1_700_000_000)
	got := Reconcile([]models.Order{
		sampleOrder("a", base),
		sampleOrder("b", base+90*minute),
	})

	if len(got) != 2 {
		t.Fatalf("expected 2 orders, got %v", ids(got))
	}
	if got[0].ID != "b" || got[1].ID != "a" {
		t.Errorf("order = %v, want [b a]", ids(got))
	}
}

func TestReconcile_ChainsConsecutiveGaps(t *testing.T) {
	base := int64(1_700_000_000)
	// 50 minutes between each: every consecutive pair is within the window,
	// so all three collapse even though first and last are 100 minutes apart.
	got := Reconcile([]models.Order{
		sampleOrder("a", base),
		sampleOrder("b", base+50*minute),
		sampleOrder("c", base+100*minute),
	})
	if len(got) != 1 {
		t.Fatalf("expected 1 order, got %v", ids(got))
	}
	if got[0].ID != "c" {
		t.Errorf("kept %s, want newest on tie", got[0].ID)
	}
}

func TestReconcile_DifferentContentNotMerged(t *testing.T) {
	base := int64(1_700_000_000)
	a := sampleOrder("a", base)
	b := sampleOrder("b", base+minute)
	b.Items[1].Quantity = 3
	c := sampleOrder("c", base+2*minute)
	c.Status = models.StatusConfirmed

	got := Reconcile([]models.Order{a, b, c})
	if len(got) != 3 {
		t.Errorf("expected 3 orders, got %v", ids(got))
	}
}

func TestReconcile_ItemOrderDoesNotMatter(t *testing.T) {
	base := int64(1_700_000_000)
	a := sampleOrder("a", base)
	b := sampleOrder("b", base+minute)
	b.Items[0], b.Items[1] = b.Items[1], b.Items[0]

	if ContentKey(a) != ContentKey(b) {
		t.Error("expected equal content keys for reordered items")
	}
	if got := Reconcile([]models.Order{a, b}); len(got) != 1 {
		t.Errorf("expected reordered duplicates to collapse, got %v", ids(got))
	}
}

func TestReconcile_SortsNewestFirstAndKeepsInput(t *testing.T) {
	base := int64(1_700_000_000)
	a := sampleOrder("a", base)
	b := sampleOrder("b", base+5*minute)
	b.Total = 10
	c := sampleOrder("c", base+3*minute)
	c.Total = 20

	input := []models.Order{a, b, c}
	got := Reconcile(input)

	want := []string{"b", "c", "a"}
	for i, id := range ids(got) {
		if id != want[i] {
			t.Fatalf("order = %v, want %v", ids(got), want)
		}
	}
	if input[0].ID != "a" || input[1].ID != "b" || input[2].ID != "c" {
		t.Errorf("input reordered: %v", ids(input))
	}
}

func TestReconcile_Empty(t *testing.T) {
	if got := Reconcile(nil); len(got) != 0 {
		t.Errorf("expected empty result, got %v", ids(got))
	}
}

func TestCompleteness(t *testing.T) {
	tests := []struct {
		name  string
		order models.Order
		want  int
	}{
		{"empty record", models.Order{}, 0},
		{"pending with items", sampleOrder("a", 1), 5},
		{"delivered", func() models.Order {
			o := sampleOrder("a", 1)
			o.Status = models.StatusDelivered
			return o
		}(), 8},
		{"cancelled", func() models.Order {
			o := sampleOrder("a", 1)
			o.Status = models.StatusCancelled
			return o
		}(), 6},
		{"history and payments", func() models.Order {
			o := sampleOrder("a", 1)
			o.StatusHistory = []models.StatusChange{{Status: models.StatusPending}}
			o.Payments = []models.PaymentTransaction{{Amount: 1}}
			return o
		}(), 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Completeness(tt.order); got != tt.want {
				t.Errorf("Completeness() = %d, want %d", got, tt.want)
			}
		})
	}
}
