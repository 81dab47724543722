// Package entities defines the core domain models of the discovery engine.
// These structs represent the business concepts (Listing, Person, Candidate,
// LocationContext, SearchQuery) and live in the innermost layer of the
// architecture. They have no dependencies on HTTP, caches or external
// services.
//
// Go Learning Note — "internal/" directory:
// Packages under internal/ cannot be imported by code outside this module. Go
// enforces this at the compiler level.
package entities

import "time"

// Listing categories as stored by the marketplace. Matching is
// case-insensitive everywhere, but these are the canonical spellings.
const (
	CategoryAll      = "all"
	CategoryCheff    = "CHEFF"
	CategoryGrown    = "GROWN"
	CategoryDesigner = "DESIGNER"
)

// Listing is a product offered by a seller. Optional fields are pointers so
// "absent" is distinguishable from zero.
//
// Go Learning Note — Struct Tags:
// The `json:"id"` annotations control how encoding/json serializes the field.
// "omitempty" drops nil pointers and empty strings from API responses.
type Listing struct {
	ID             string    `json:"id"`
	Title          string    `json:"title"`
	Description    string    `json:"description,omitempty"`
	PriceCents     int64     `json:"price_cents"`
	Category       string    `json:"category"`
	Subcategory    string    `json:"subcategory,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	SellerName     string    `json:"seller_name,omitempty"`
	SellerUsername string    `json:"seller_username,omitempty"`
	Place          string    `json:"place,omitempty"`
	City           string    `json:"city,omitempty"`
	Lat            *float64  `json:"lat,omitempty"`
	Lng            *float64  `json:"lng,omitempty"`
	DeliveryMode   string    `json:"delivery_mode,omitempty"`
	FavoriteCount  *int      `json:"favorite_count,omitempty"`
	ReviewCount    *int      `json:"review_count,omitempty"`
}

// Coordinate returns the listing's location, or nil when it has none.
func (l *Listing) Coordinate() *Coordinate {
	return CoordinateFrom(l.Lat, l.Lng)
}
