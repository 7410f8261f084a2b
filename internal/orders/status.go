package orders

import (
	"errors"
	"fmt"

	"github.com/mmynk/bakery/internal/models"
)

// ErrInvalidTransition is returned for a status change the lifecycle does not allow.
var ErrInvalidTransition = errors.New("invalid status transition")

var transitions = map[models.OrderStatus][]models.OrderStatus{
	models.StatusPending:        {models.StatusConfirmed, models.StatusCancelled},
	models.StatusConfirmed:      {models.StatusBaking, models.StatusCancelled},
	models.StatusBaking:         {models.StatusReady},
	models.StatusReady:          {models.StatusOutForDelivery, models.StatusPickedUp},
	models.StatusOutForDelivery: {models.StatusDelivered},
}

// ValidStatus reports whether s is a known order status.
func ValidStatus(s models.OrderStatus) bool {
	if _, ok := transitions[s]; ok {
		return true
	}
	return s.Terminal()
}

// CanTransition reports whether o may move to status to.
// Ready delivery orders go out for delivery; ready pickup orders are picked up.
func CanTransition(o *models.Order, to models.OrderStatus) bool {
	allowed := false
	for _, next := range transitions[o.Status] {
		if next == to {
			allowed = true
			break
		}
	}
	if !allowed {
		return false
	}
	switch to {
	case models.StatusOutForDelivery, models.StatusDelivered:
		return o.Fulfillment.Method == models.MethodDelivery
	case models.StatusPickedUp:
		return o.Fulfillment.Method == models.MethodPickup
	}
	return true
}

// Transition moves o to status to and appends a history entry.
// Completing a cash order records the cash payment; cancelling a paid order
// marks it refunded.
func Transition(o *models.Order, to models.OrderStatus, changedBy, note string, now int64) error {
	if !CanTransition(o, to) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, o.Status, to)
	}

	o.Status = to
	o.UpdatedAt = now
	o.StatusHistory = append(o.StatusHistory, models.StatusChange{
		Status:    to,
		ChangedBy: changedBy,
		Note:      note,
		ChangedAt: now,
	})

	switch {
	case (to == models.StatusDelivered || to == models.StatusPickedUp) && o.PaymentStatus == models.PaymentPending:
		o.PaymentStatus = models.PaymentPaid
		o.Payments = append(o.Payments, models.PaymentTransaction{
			Amount:    o.Total,
			Method:    "cash",
			Status:    models.PaymentPaid,
			CreatedAt: now,
		})
	case to == models.StatusCancelled && o.PaymentStatus == models.PaymentPaid:
		o.PaymentStatus = models.PaymentRefunded
		o.Payments = append(o.Payments, models.PaymentTransaction{
			Amount:    -o.Total,
			Method:    "refund",
			Status:    models.PaymentRefunded,
			CreatedAt: now,
		})
	}
	return nil
}
