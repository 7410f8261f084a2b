package api

import "github.com/mmynk/bakery/internal/models"

type Cake struct {
	Id           string        `json:"id"`
	Name         string        `json:"name"`
	Description  string        `json:"description,omitempty"`
	Category     string        `json:"category,omitempty"`
	Sizes        []models.Size `json:"sizes"`
	ImageUrl     string        `json:"imageUrl,omitempty"`
	Customizable bool          `json:"customizable"`
	Available    bool          `json:"available"`
	Featured     bool          `json:"featured"`
	CreatedAt    int64         `json:"createdAt"`
	UpdatedAt    int64         `json:"updatedAt"`
}

type ListCakesRequest struct {
	Category      string `json:"category,omitempty"`
	FeaturedOnly  bool   `json:"featuredOnly,omitempty"`
	AvailableOnly bool   `json:"availableOnly,omitempty"`
}

type ListCakesResponse struct {
	Cakes []*Cake `json:"cakes"`
}

type GetCakeRequest struct {
	CakeId string `json:"cakeId"`
}

type GetCakeResponse struct {
	Cake *Cake `json:"cake"`
}

type CreateCakeRequest struct {
	Cake *Cake `json:"cake"`
}

type CreateCakeResponse struct {
	Cake *Cake `json:"cake"`
}

type UpdateCakeRequest struct {
	Cake *Cake `json:"cake"`
}

type UpdateCakeResponse struct {
	Cake *Cake `json:"cake"`
}

type DeleteCakeRequest struct {
	CakeId string `json:"cakeId"`
}

type DeleteCakeResponse struct{}
