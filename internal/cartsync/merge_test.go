package cartsync

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/mmynk/bakery/internal/models"
)

func TestMerge(t *testing.T) {
	withNote := item("c1", 5)
	withNote.ID = "line-c1-note"
	withNote.SpecialInstructions = "Happy Birthday"

	large := item("c1", 1)
	large.ID = "line-c1-large"
	large.Size = models.Size{Label: "Large", Price: 20}
	large.Price = 20

	remote := stateOf(item("c1", 2))
	remote.DeliveryFee = 5
	remote.Total += 5
	remote.IsOpen = true

	got := Merge(remote, stateOf(item("c1", 9), withNote, large))

	wantLines := []string{"c1|Standard|", "c1|Standard|Happy Birthday", "c1|Large|"}
	var gotLines []string
	for _, it := range got.Items {
		gotLines = append(gotLines, it.LineKey())
	}
	if diff := cmp.Diff(wantLines, gotLines); diff != "" {
		t.Errorf("Merge() lines mismatch (-want +got):\n%s", diff)
	}
	if got.Items[0].Quantity != 2 {
		t.Errorf("remote line should win, got quantity %d", got.Items[0].Quantity)
	}
	// 20 + 50 + 20 = 90, tax 7.43, delivery 5
	if got.Subtotal != 90 || got.Tax != 7.43 || got.DeliveryFee != 5 || got.Total != 102.43 {
		t.Errorf("unexpected totals: %+v", got)
	}
	if !got.IsOpen {
		t.Error("expected visibility of the remote cart to be kept")
	}
}

func TestMerge_EmptyLocal(t *testing.T) {
	remote := stateOf(item("c1", 2))
	got := Merge(remote, models.CartState{})
	if diff := cmp.Diff(remote, got); diff != "" {
		t.Errorf("Merge() mismatch (-want +got):\n%s", diff)
	}
}
