package service

import (
	"github.com/mmynk/bakery/internal/models"
	"github.com/mmynk/bakery/pkg/api"
)

func userToAPI(u *models.User) *api.User {
	return &api.User{
		Id:            u.ID,
		Email:         u.Email,
		DisplayName:   u.DisplayName,
		Role:          string(u.Role),
		EmailVerified: u.EmailVerified,
		Phone:         u.Phone,
		Address:       u.Address,
		CreatedAt:     u.CreatedAt,
	}
}

func cakeToAPI(c *models.Cake) *api.Cake {
	sizes := c.Sizes
	if sizes == nil {
		sizes = []models.Size{}
	}
	return &api.Cake{
		Id:           c.ID,
		Name:         c.Name,
		Description:  c.Description,
		Category:     c.Category,
		Sizes:        sizes,
		ImageUrl:     c.ImageURL,
		Customizable: c.Customizable,
		Available:    c.Available,
		Featured:     c.Featured,
		CreatedAt:    c.CreatedAt,
		UpdatedAt:    c.UpdatedAt,
	}
}

func cakeFromAPI(c *api.Cake) *models.Cake {
	return &models.Cake{
		ID:           c.Id,
		Name:         c.Name,
		Description:  c.Description,
		Category:     c.Category,
		Sizes:        append([]models.Size(nil), c.Sizes...),
		ImageURL:     c.ImageUrl,
		Customizable: c.Customizable,
		Available:    c.Available,
		Featured:     c.Featured,
	}
}

func fulfillmentFromAPI(f *api.Fulfillment) models.Fulfillment {
	if f == nil {
		return models.Fulfillment{}
	}
	return models.Fulfillment{
		Method:       models.FulfillmentMethod(f.Method),
		ContactName:  f.ContactName,
		Phone:        f.Phone,
		Street:       f.Street,
		City:         f.City,
		PostalCode:   f.PostalCode,
		PickupTime:   f.PickupTime,
		Instructions: f.Instructions,
	}
}

func orderToAPI(o *models.Order) *api.Order {
	items := make([]*api.OrderItem, len(o.Items))
	for i, item := range o.Items {
		items[i] = &api.OrderItem{
			CakeId:              item.CakeID,
			Name:                item.Name,
			Size:                item.Size,
			Quantity:            item.Quantity,
			Price:               item.Price,
			SpecialInstructions: item.SpecialInstructions,
			Customizations:      item.Customizations,
			ImageUrl:            item.ImageURL,
		}
	}

	history := make([]*api.StatusChange, len(o.StatusHistory))
	for i, h := range o.StatusHistory {
		history[i] = &api.StatusChange{
			Status:    string(h.Status),
			ChangedBy: h.ChangedBy,
			Note:      h.Note,
			ChangedAt: h.ChangedAt,
		}
	}

	payments := make([]*api.Payment, len(o.Payments))
	for i, p := range o.Payments {
		payments[i] = &api.Payment{
			Id:        p.ID,
			Amount:    p.Amount,
			Method:    p.Method,
			Status:    string(p.Status),
			Reference: p.Reference,
			CreatedAt: p.CreatedAt,
		}
	}

	f := o.Fulfillment
	return &api.Order{
		Id:            o.ID,
		UserId:        o.UserID,
		Status:        string(o.Status),
		PaymentStatus: string(o.PaymentStatus),
		Items:         items,
		Subtotal:      o.Subtotal,
		Tax:           o.Tax,
		DeliveryFee:   o.DeliveryFee,
		Total:         o.Total,
		Fulfillment: &api.Fulfillment{
			Method:       string(f.Method),
			ContactName:  f.ContactName,
			Phone:        f.Phone,
			Street:       f.Street,
			City:         f.City,
			PostalCode:   f.PostalCode,
			PickupTime:   f.PickupTime,
			Instructions: f.Instructions,
		},
		Notes:         o.Notes,
		StatusHistory: history,
		Payments:      payments,
		CreatedAt:     o.CreatedAt,
		UpdatedAt:     o.UpdatedAt,
	}
}

func ordersToAPI(list []*models.Order) []*api.Order {
	out := make([]*api.Order, len(list))
	for i, o := range list {
		out[i] = orderToAPI(o)
	}
	return out
}
