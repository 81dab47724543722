package entities

// SortKey names a result ordering.
type SortKey string

const (
	SortPriceLow  SortKey = "price-low"
	SortPriceHigh SortKey = "price-high"
	SortDistance  SortKey = "distance"
	SortNewest    SortKey = "newest"
	SortOldest    SortKey = "oldest"
	SortName      SortKey = "name"
	SortFollowers SortKey = "followers"
	SortProducts  SortKey = "products"
)

// DefaultSortKey is the ordering used when none (or an unknown one) is given.
func DefaultSortKey(kind EntityKind) SortKey {
	if kind == KindPerson {
		return SortName
	}
	return SortNewest
}

// SearchQuery is everything the discovery pipeline needs besides the
// candidates themselves. Empty strings and nil pointers mean "no filter".
type SearchQuery struct {
	Term         string          `json:"term"`
	Kind         EntityKind      `json:"kind"`
	Category     string          `json:"category,omitempty"`
	Subcategory  string          `json:"subcategory,omitempty"`
	PriceMin     *int64          `json:"price_min,omitempty"`
	PriceMax     *int64          `json:"price_max,omitempty"`
	DeliveryMode string          `json:"delivery_mode,omitempty"`
	RoleFilter   string          `json:"role,omitempty"`
	LocationText string          `json:"location,omitempty"`
	SortKey      SortKey         `json:"sort"`
	CountryCode  string          `json:"country,omitempty"`
	Reference    LocationContext `json:"reference"`
}

// NewSearchQuery returns an empty query for the given kind with its default
// ordering.
func NewSearchQuery(kind EntityKind, reference LocationContext) SearchQuery {
	return SearchQuery{
		Kind:      kind,
		SortKey:   DefaultSortKey(kind),
		Reference: reference,
	}
}

// SwitchKind changes the entity kind and resets the term and ordering to the
// new kind's defaults. Switching to the current kind changes nothing.
func (q SearchQuery) SwitchKind(kind EntityKind) SearchQuery {
	if q.Kind == kind {
		return q
	}
	q.Kind = kind
	q.Term = ""
	q.SortKey = DefaultSortKey(kind)
	return q
}
