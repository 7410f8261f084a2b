package storage

import (
	"context"
	"fmt"

	"github.com/mmynk/bakery/internal/models"
)

// SampleCakes is the starter catalog for development databases.
func SampleCakes() []*models.Cake {
	return []*models.Cake{
		{
			Name:         "Classic Vanilla",
			Description:  "Vanilla sponge with buttercream frosting.",
			Category:     "classic",
			ImageURL:     "/images/vanilla.jpg",
			Customizable: true,
			Available:    true,
			Featured:     true,
			Sizes: []models.Size{
				{Label: "6 inch", Servings: 8, Price: 32},
				{Label: "8 inch", Servings: 12, Price: 45},
				{Label: "10 inch", Servings: 20, Price: 60},
			},
		},
		{
			Name:         "Double Chocolate",
			Description:  "Dark chocolate layers with ganache.",
			Category:     "chocolate",
			ImageURL:     "/images/chocolate.jpg",
			Customizable: true,
			Available:    true,
			Featured:     true,
			Sizes: []models.Size{
				{Label: "6 inch", Servings: 8, Price: 36},
				{Label: "8 inch", Servings: 12, Price: 50},
			},
		},
		{
			Name:        "Lemon Drizzle",
			Description: "Lemon loaf with a sharp sugar glaze.",
			Category:    "fruit",
			ImageURL:    "/images/lemon.jpg",
			Available:   true,
			Sizes: []models.Size{
				{Label: "Loaf", Servings: 10, Price: 24},
			},
		},
		{
			Name:         "Red Velvet",
			Description:  "Cocoa sponge with cream cheese frosting.",
			Category:     "classic",
			ImageURL:     "/images/red-velvet.jpg",
			Customizable: true,
			Available:    true,
			Sizes: []models.Size{
				{Label: "6 inch", Servings: 8, Price: 38},
				{Label: "8 inch", Servings: 12, Price: 52},
			},
		},
		{
			Name:        "Strawberry Shortcake",
			Description: "Seasonal. Sponge, cream and fresh strawberries.",
			Category:    "fruit",
			ImageURL:    "/images/strawberry.jpg",
			Sizes: []models.Size{
				{Label: "8 inch", Servings: 12, Price: 48},
			},
		},
	}
}

// SeedCakes adds SampleCakes when the catalog is empty and returns how many
// were added.
func SeedCakes(ctx context.Context, store CakeStore) (int, error) {
	existing, err := store.ListCakes(ctx, CakeFilter{})
	if err != nil {
		return 0, fmt.Errorf("failed to list cakes: %w", err)
	}
	if len(existing) > 0 {
		return 0, nil
	}

	cakes := SampleCakes()
	for _, cake := range cakes {
		if err := store.CreateCake(ctx, cake); err != nil {
			return 0, fmt.Errorf("failed to seed %s: %w", cake.Name, err)
		}
	}
	return len(cakes), nil
}
