package discovery

import (
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"buurtmarkt/internal/domain/entities"
)

// knownSortKeys lists every key sortCandidates understands.
var knownSortKeys = map[entities.SortKey]bool{
	entities.SortPriceLow:  true,
	entities.SortPriceHigh: true,
	entities.SortDistance:  true,
	entities.SortNewest:    true,
	entities.SortOldest:    true,
	entities.SortName:      true,
	entities.SortFollowers: true,
	entities.SortProducts:  true,
}

// EffectiveSortKey resolves an empty or unknown key to the kind's default.
func EffectiveSortKey(key entities.SortKey, kind entities.EntityKind) entities.SortKey {
	if knownSortKeys[key] {
		return key
	}
	return entities.DefaultSortKey(kind)
}

// sorter holds the per-run state of a sort. collate.Collator is not safe for
// concurrent use, so every run gets its own.
type sorter struct {
	kind         entities.EntityKind
	hasReference bool
	collator     *collate.Collator
}

// sortCandidates orders cs in place. The sort is stable: candidates that
// compare equal keep their input order. Missing values sort last unless a
// comparator says otherwise.
//
// Go Learning Note — sort.SliceStable:
// sort.Slice makes no promise about the relative order of equal elements.
// SliceStable does, at a small cost, which keeps paging and re-runs
// deterministic for equal prices, dates or distances.
func sortCandidates(cs []entities.Candidate, key entities.SortKey, kind entities.EntityKind, hasReference bool, lang language.Tag) {
	s := sorter{
		kind:         kind,
		hasReference: hasReference,
		collator:     collate.New(lang),
	}

	var less func(a, b entities.Candidate) bool
	switch EffectiveSortKey(key, kind) {
	case entities.SortPriceLow:
		less = func(a, b entities.Candidate) bool { return s.byPrice(a, b, true) }
	case entities.SortPriceHigh:
		less = func(a, b entities.Candidate) bool { return s.byPrice(a, b, false) }
	case entities.SortDistance:
		less = s.byDistance
	case entities.SortNewest:
		less = func(a, b entities.Candidate) bool { return s.byCreated(a, b, true) }
	case entities.SortOldest:
		less = func(a, b entities.Candidate) bool { return s.byCreated(a, b, false) }
	case entities.SortName:
		less = s.byName
	case entities.SortFollowers:
		less = func(a, b entities.Candidate) bool { return followersOf(a) > followersOf(b) }
	case entities.SortProducts:
		less = func(a, b entities.Candidate) bool { return productsOf(a) > productsOf(b) }
	}

	sort.SliceStable(cs, func(i, j int) bool { return less(cs[i], cs[j]) })
}

func (s sorter) byPrice(a, b entities.Candidate, ascending bool) bool {
	pa, okA := priceOf(a)
	pb, okB := priceOf(b)
	if okA != okB {
		return okA
	}
	if !okA || pa == pb {
		return false
	}
	if ascending {
		return pa < pb
	}
	return pa > pb
}

// byDistance sorts nearest first. Without any reference location nobody has
// a distance, so the order degrades to the kind's secondary key (newest
// listings, people by name). With a reference, candidates whose distance is
// unknown go after all known distances.
func (s sorter) byDistance(a, b entities.Candidate) bool {
	hasA, hasB := a.DistanceKm != nil, b.DistanceKm != nil
	if !s.hasReference {
		if hasA != hasB {
			return !hasA
		}
		if !hasA {
			return s.secondary(a, b)
		}
		return *a.DistanceKm < *b.DistanceKm
	}
	if hasA != hasB {
		return hasA
	}
	if !hasA {
		return false
	}
	return *a.DistanceKm < *b.DistanceKm
}

func (s sorter) secondary(a, b entities.Candidate) bool {
	if s.kind == entities.KindPerson {
		return s.byName(a, b)
	}
	return s.byCreated(a, b, true)
}

func (s sorter) byCreated(a, b entities.Candidate, newestFirst bool) bool {
	ta, tb := a.CreatedAt(), b.CreatedAt()
	if ta.IsZero() != tb.IsZero() {
		return !ta.IsZero()
	}
	if newestFirst {
		return ta.After(tb)
	}
	return ta.Before(tb)
}

func (s sorter) byName(a, b entities.Candidate) bool {
	na, nb := nameOf(a), nameOf(b)
	if (na == "") != (nb == "") {
		return na != ""
	}
	return s.collator.CompareString(na, nb) < 0
}

func priceOf(c entities.Candidate) (int64, bool) {
	if c.Listing == nil {
		return 0, false
	}
	return c.Listing.PriceCents, true
}

func nameOf(c entities.Candidate) string {
	switch {
	case c.Listing != nil:
		return c.Listing.Title
	case c.Person != nil:
		return c.Person.DisplayName()
	}
	return ""
}

func followersOf(c entities.Candidate) int {
	if c.Person == nil || c.Person.FollowerCount == nil {
		return 0
	}
	return *c.Person.FollowerCount
}

func productsOf(c entities.Candidate) int {
	if c.Person == nil || c.Person.ProductCount == nil {
		return 0
	}
	return *c.Person.ProductCount
}
