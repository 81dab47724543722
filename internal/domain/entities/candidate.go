package entities

import "time"

// EntityKind selects which of the two candidate sets a search runs over.
type EntityKind string

const (
	KindListing EntityKind = "listing"
	KindPerson  EntityKind = "person"
)

// Candidate is a tagged variant over Listing and Person. Exactly one of the
// two pointers is set, matching Kind. The pointed-to records belong to the
// caller and are never modified; DistanceKm is the only field the discovery
// pipeline fills in, on its own copy of the Candidate.
type Candidate struct {
	Kind       EntityKind `json:"kind"`
	Listing    *Listing   `json:"listing,omitempty"`
	Person     *Person    `json:"person,omitempty"`
	DistanceKm *float64   `json:"distance_km"`
}

// ListingCandidate wraps a listing.
func ListingCandidate(l *Listing) Candidate {
	return Candidate{Kind: KindListing, Listing: l}
}

// PersonCandidate wraps a person.
func PersonCandidate(p *Person) Candidate {
	return Candidate{Kind: KindPerson, Person: p}
}

// ID returns the wrapped record's identifier.
func (c Candidate) ID() string {
	switch {
	case c.Listing != nil:
		return c.Listing.ID
	case c.Person != nil:
		return c.Person.ID
	}
	return ""
}

// Coordinate returns the wrapped record's location, or nil.
func (c Candidate) Coordinate() *Coordinate {
	switch {
	case c.Listing != nil:
		return c.Listing.Coordinate()
	case c.Person != nil:
		return c.Person.Coordinate()
	}
	return nil
}

// Place and City are the shared optional location fields.
func (c Candidate) Place() string {
	switch {
	case c.Listing != nil:
		return c.Listing.Place
	case c.Person != nil:
		return c.Person.Place
	}
	return ""
}

func (c Candidate) City() string {
	switch {
	case c.Listing != nil:
		return c.Listing.City
	case c.Person != nil:
		return c.Person.City
	}
	return ""
}

// CreatedAt returns the record's creation time (zero when unknown).
func (c Candidate) CreatedAt() time.Time {
	switch {
	case c.Listing != nil:
		return c.Listing.CreatedAt
	case c.Person != nil:
		return c.Person.CreatedAt
	}
	return time.Time{}
}

// Valid reports whether the tag agrees with the populated pointer.
func (c Candidate) Valid() bool {
	switch c.Kind {
	case KindListing:
		return c.Listing != nil && c.Person == nil
	case KindPerson:
		return c.Person != nil && c.Listing == nil
	}
	return false
}
