package models

// Size is one purchasable size of a cake.
type Size struct {
	Label    string  `json:"label"`
	Servings int     `json:"servings"`
	Price    float64 `json:"price"`
}

// Cake is a catalog entry.
type Cake struct {
	// ID is the unique identifier for the cake (UUID format).
	ID string

	Name        string
	Description string

	// Category groups cakes in the storefront (e.g., "birthday", "wedding").
	Category string

	// Sizes lists the available sizes in display order. At least one is required.
	Sizes []Size

	// ImageURL references an externally hosted image.
	ImageURL string

	// Customizable cakes accept flavor/filling/frosting/shape/addon choices.
	Customizable bool

	// Available is false for cakes that are temporarily not sold.
	Available bool

	// Featured cakes are highlighted on the home page.
	Featured bool

	CreatedAt int64
	UpdatedAt int64
}

// SizeByLabel returns the size with the given label.
func (c *Cake) SizeByLabel(label string) (Size, bool) {
	for _, s := range c.Sizes {
		if s.Label == label {
			return s, true
		}
	}
	return Size{}, false
}

// Favorite records a cake bookmarked by a user.
type Favorite struct {
	UserID    string
	CakeID    string
	CreatedAt int64
}
