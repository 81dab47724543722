package discovery

import (
	"strings"

	"buurtmarkt/internal/domain/entities"
)

// isWildcard reports whether a structured filter value means "any".
func isWildcard(v string) bool {
	v = strings.TrimSpace(v)
	return v == "" || strings.EqualFold(v, entities.CategoryAll)
}

// matchesStructured applies the conjunctive (AND) filters of q.
func matchesStructured(c entities.Candidate, q entities.SearchQuery) bool {
	switch c.Kind {
	case entities.KindListing:
		return matchesListing(c.Listing, q)
	case entities.KindPerson:
		return matchesPerson(c.Person, q)
	}
	return false
}

func matchesListing(l *entities.Listing, q entities.SearchQuery) bool {
	if !isWildcard(q.Category) && !strings.EqualFold(strings.TrimSpace(l.Category), strings.TrimSpace(q.Category)) {
		return false
	}
	if !isWildcard(q.Subcategory) && !strings.EqualFold(strings.TrimSpace(l.Subcategory), strings.TrimSpace(q.Subcategory)) {
		return false
	}
	if q.PriceMin != nil && l.PriceCents < *q.PriceMin {
		return false
	}
	if q.PriceMax != nil && l.PriceCents > *q.PriceMax {
		return false
	}
	// q.DeliveryMode is advisory and excludes nothing until listings carry
	// reliable delivery data.
	return true
}

func matchesPerson(p *entities.Person, q entities.SearchQuery) bool {
	if strings.EqualFold(strings.TrimSpace(p.Role), entities.RoleAdmin) {
		return false
	}
	if isWildcard(q.RoleFilter) {
		return true
	}
	role := strings.TrimSpace(q.RoleFilter)
	// Couriers sign up as buyers with a delivery role, not as sellers.
	if strings.EqualFold(role, entities.RoleDelivery) {
		return containsFold(p.BuyerRoles, role)
	}
	return containsFold(p.SellerRoles, role)
}

func containsFold(values []string, want string) bool {
	for _, v := range values {
		if strings.EqualFold(strings.TrimSpace(v), want) {
			return true
		}
	}
	return false
}
