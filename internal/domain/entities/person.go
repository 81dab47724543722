package entities

import "time"

// Person roles. Seller roles double as listing categories.
const (
	RoleAdmin    = "ADMIN"
	RoleUser     = "USER"
	RoleDelivery = "DELIVERY"
)

// Person is a marketplace member as shown in people search.
type Person struct {
	ID            string    `json:"id"`
	Name          string    `json:"name,omitempty"`
	Username      string    `json:"username,omitempty"`
	Bio           string    `json:"bio,omitempty"`
	Role          string    `json:"role"`
	SellerRoles   []string  `json:"seller_roles"`
	BuyerRoles    []string  `json:"buyer_roles"`
	Place         string    `json:"place,omitempty"`
	City          string    `json:"city,omitempty"`
	Lat           *float64  `json:"lat,omitempty"`
	Lng           *float64  `json:"lng,omitempty"`
	FollowerCount *int      `json:"follower_count,omitempty"`
	ProductCount  *int      `json:"product_count,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// Coordinate returns the person's location, or nil when it has none.
func (p *Person) Coordinate() *Coordinate {
	return CoordinateFrom(p.Lat, p.Lng)
}

// DisplayName prefers the full name and falls back to the username.
func (p *Person) DisplayName() string {
	if p.Name != "" {
		return p.Name
	}
	return p.Username
}
