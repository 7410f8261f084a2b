// Package orders contains order history reconciliation and the status lifecycle.
package orders

import (
	"fmt"
	"sort"
	"strings"

	"github.com/mmynk/bakery/internal/models"
)

// DuplicateWindow is the maximum gap between consecutive orders with the
// same content for them to be treated as duplicates.
const DuplicateWindow int64 = 60 * 60

// ContentKey identifies orders with the same items, total and status.
// Item tuples are sorted, so line order does not matter, but any change to a
// line's cake, name, quantity or price yields a different key.
func ContentKey(o models.Order) string {
	tuples := make([]string, len(o.Items))
	for i, item := range o.Items {
		tuples[i] = fmt.Sprintf("%s|%s|%d|%.2f", item.CakeID, item.Name, item.Quantity, item.Price)
	}
	sort.Strings(tuples)
	return fmt.Sprintf("%s#%.2f#%s", strings.Join(tuples, ";"), o.Total, o.Status)
}

// Completeness scores how fully populated an order record is. Among
// duplicates the highest score survives.
func Completeness(o models.Order) int {
	score := 0
	switch {
	case o.Status == models.StatusCancelled:
		score++
	case o.Status.Terminal():
		score += 3
	}
	if len(o.Items) > 0 {
		score += 2
	}
	if o.Total > 0 {
		score++
	}
	if o.PaymentStatus != "" {
		score++
	}
	if o.CreatedAt > 0 {
		score++
	}
	if len(o.StatusHistory) > 0 {
		score++
	}
	if len(o.Payments) > 0 {
		score++
	}
	return score
}

// Reconcile collapses near-duplicate orders and returns the survivors newest
// first.
//
// Orders sharing a ContentKey are sorted newest first and split wherever two
// consecutive orders are more than DuplicateWindow apart; each resulting run
// keeps only its most complete order (the newest on ties). Duplicates outside
// the window, or whose items differ, are kept. The input is not modified.
func Reconcile(list []models.Order) []models.Order {
	groups := make(map[string][]models.Order)
	var keys []string
	for _, o := range list {
		key := ContentKey(o)
		if _, ok := groups[key]; !ok {
			keys = append(keys, key)
		}
		groups[key] = append(groups[key], o)
	}

	survivors := make([]models.Order, 0, len(list))
	for _, key := range keys {
		group := groups[key]
		sortNewestFirst(group)

		best := group[0]
		for i := 1; i < len(group); i++ {
			if group[i-1].CreatedAt-group[i].CreatedAt > DuplicateWindow {
				survivors = append(survivors, best)
				best = group[i]
				continue
			}
			if Completeness(group[i]) > Completeness(best) {
				best = group[i]
			}
		}
		survivors = append(survivors, best)
	}

	sortNewestFirst(survivors)
	return survivors
}

func sortNewestFirst(list []models.Order) {
	sort.SliceStable(list, func(i, j int) bool {
		return list[i].CreatedAt > list[j].CreatedAt
	})
}
