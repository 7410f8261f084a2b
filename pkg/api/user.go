package api

type GetProfileRequest struct{}

type GetProfileResponse struct {
	User *User `json:"user"`
}

type UpdateProfileRequest struct {
	DisplayName string `json:"displayName"`
	Phone       string `json:"phone"`
	Address     string `json:"address"`
}

type UpdateProfileResponse struct {
	User *User `json:"user"`
}

type Favorite struct {
	CakeId    string `json:"cakeId"`
	CreatedAt int64  `json:"createdAt"`
	// Cake is nil if the cake has since been removed from the catalog.
	Cake *Cake `json:"cake,omitempty"`
}

type ListFavoritesRequest struct{}

type ListFavoritesResponse struct {
	Favorites []*Favorite `json:"favorites"`
}

type AddFavoriteRequest struct {
	CakeId string `json:"cakeId"`
}

type AddFavoriteResponse struct{}

type RemoveFavoriteRequest struct {
	CakeId string `json:"cakeId"`
}

type RemoveFavoriteResponse struct{}

type ListUsersRequest struct{}

type ListUsersResponse struct {
	Users []*User `json:"users"`
}

type SetUserRoleRequest struct {
	UserId string `json:"userId"`
	Role   string `json:"role"`
}

type SetUserRoleResponse struct {
	User *User `json:"user"`
}
