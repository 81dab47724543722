package geo

import "strings"

// Unlimited is the radius value meaning "no distance limit".
const Unlimited = 0.0

// DefaultCategoryRadiiKm are the per-category search radii. Cooked food does
// not travel far; design goods are shipped and have no limit.
var DefaultCategoryRadiiKm = map[string]float64{
	"CHEFF":    25,
	"GROWN":    50,
	"DESIGNER": Unlimited,
}

// DefaultGlobalRadiusKm applies to "all" and to categories missing from the
// table.
const DefaultGlobalRadiusKm = 50.0

// DefaultUnlimitedRegions are the small-archipelago territories (Dutch
// Caribbean and Suriname) where fixed-km radii are meaningless.
var DefaultUnlimitedRegions = []string{"CW", "AW", "SX", "BQ", "SR"}

// RadiusPolicy maps (category, country) to a maximum search distance. It is
// immutable after construction and safe for concurrent use.
type RadiusPolicy struct {
	categories       map[string]float64
	globalDefaultKm  float64
	unlimitedRegions map[string]struct{}
}

// NewRadiusPolicy builds a policy. Category names and country codes are
// matched case-insensitively.
func NewRadiusPolicy(categories map[string]float64, globalDefaultKm float64, unlimitedRegions []string) *RadiusPolicy {
	p := &RadiusPolicy{
		categories:       make(map[string]float64, len(categories)),
		globalDefaultKm:  globalDefaultKm,
		unlimitedRegions: make(map[string]struct{}, len(unlimitedRegions)),
	}
	for name, km := range categories {
		p.categories[strings.ToUpper(strings.TrimSpace(name))] = km
	}
	for _, code := range unlimitedRegions {
		p.unlimitedRegions[strings.ToUpper(strings.TrimSpace(code))] = struct{}{}
	}
	return p
}

// NewDefaultRadiusPolicy returns the marketplace's standard policy.
func NewDefaultRadiusPolicy() *RadiusPolicy {
	return NewRadiusPolicy(DefaultCategoryRadiiKm, DefaultGlobalRadiusKm, DefaultUnlimitedRegions)
}

// MaxRadiusKm returns the radius for a category in a country; 0 means
// unlimited. The region override wins over any category value.
func (p *RadiusPolicy) MaxRadiusKm(category, countryCode string) float64 {
	if _, ok := p.unlimitedRegions[strings.ToUpper(strings.TrimSpace(countryCode))]; ok {
		return Unlimited
	}
	key := strings.ToUpper(strings.TrimSpace(category))
	if key == "" || key == "ALL" {
		return p.globalDefaultKm
	}
	if km, ok := p.categories[key]; ok {
		return km
	}
	return p.globalDefaultKm
}

// IsUnlimitedRegion reports whether the country is in the override set.
func (p *RadiusPolicy) IsUnlimitedRegion(countryCode string) bool {
	_, ok := p.unlimitedRegions[strings.ToUpper(strings.TrimSpace(countryCode))]
	return ok
}
