package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/mmynk/bakery/internal/cart"
	"github.com/mmynk/bakery/internal/models"
	"github.com/mmynk/bakery/pkg/api"
)

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printCart(w io.Writer, format string, state models.CartState) error {
	if format == "json" {
		return writeJSON(w, state)
	}
	if len(state.Items) == 0 {
		fmt.Fprintln(w, "Your cart is empty.")
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "LINE\tQTY\tCAKE\tSIZE\tPRICE")
	for _, item := range state.Items {
		name := item.Name
		if item.SpecialInstructions != "" {
			name += fmt.Sprintf(" (%q)", item.SpecialInstructions)
		}
		fmt.Fprintf(tw, "%s\t%d\t%s\t%s\t$%.2f\n", item.ID, item.Quantity, name, item.Size.Label, item.Price*float64(item.Quantity))
	}
	tw.Flush()

	fmt.Fprintf(w, "\n%d items  subtotal $%.2f  tax $%.2f", cart.Count(state), state.Subtotal, state.Tax)
	if state.DeliveryFee > 0 {
		fmt.Fprintf(w, "  delivery $%.2f", state.DeliveryFee)
	}
	fmt.Fprintf(w, "  total $%.2f\n", state.Total)
	return nil
}

func printOrders(w io.Writer, format string, orders []*api.Order, collapsed int) error {
	if format == "json" {
		return writeJSON(w, orders)
	}
	if len(orders) == 0 {
		fmt.Fprintln(w, "No orders yet.")
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ORDER\tPLACED\tSTATUS\tPAYMENT\tTOTAL")
	for _, o := range orders {
		placed := time.Unix(o.CreatedAt, 0).Format("2006-01-02 15:04")
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t$%.2f\n", o.Id, placed, o.Status, o.PaymentStatus, o.Total)
	}
	tw.Flush()

	if collapsed > 0 {
		fmt.Fprintf(w, "\n%d duplicate submissions hidden\n", collapsed)
	}
	return nil
}
