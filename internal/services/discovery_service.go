package services

import (
	"context"
	"fmt"
	"strings"

	"buurtmarkt/internal/discovery"
	"buurtmarkt/internal/domain/entities"
	"buurtmarkt/internal/repository"
)

// DiscoveryService runs discovery queries against the candidate stores,
// using the session's current reference location.
type DiscoveryService struct {
	listings  repository.ListingRepository
	people    repository.PersonRepository
	locations *LocationService
	pipeline  *discovery.Pipeline
}

func NewDiscoveryService(
	listings repository.ListingRepository,
	people repository.PersonRepository,
	locations *LocationService,
	pipeline *discovery.Pipeline,
) *DiscoveryService {
	return &DiscoveryService{
		listings:  listings,
		people:    people,
		locations: locations,
		pipeline:  pipeline,
	}
}

type DiscoveryResponse struct {
	Kind      entities.EntityKind      `json:"kind"`
	Results   []entities.Candidate     `json:"results"`
	Total     int                      `json:"total"`
	RadiusKm  float64                  `json:"radius_km"` // 0 = unlimited
	SortKey   entities.SortKey         `json:"sort"`
	Reference entities.LocationContext `json:"reference"`
}

// Discover fills in the session's reference location (and country when q
// has none) and runs the pipeline over the matching candidate store.
func (s *DiscoveryService) Discover(ctx context.Context, sessionID string, q entities.SearchQuery) (*DiscoveryResponse, error) {
	state, err := s.locations.Session(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	q.Reference = state.Location
	q.CountryCode = strings.ToUpper(strings.TrimSpace(q.CountryCode))
	if q.CountryCode == "" {
		q.CountryCode = state.Session.CountryCode
	}
	if q.Kind == "" {
		q.Kind = entities.KindListing
	}
	q.SortKey = discovery.EffectiveSortKey(q.SortKey, q.Kind)

	radius := s.pipeline.RadiusFor(q)
	candidates, err := s.candidates(ctx, q, radius)
	if err != nil {
		return nil, err
	}

	results := s.pipeline.Discover(candidates, q)
	return &DiscoveryResponse{
		Kind:      q.Kind,
		Results:   results,
		Total:     len(results),
		RadiusKm:  radius,
		SortKey:   q.SortKey,
		Reference: q.Reference,
	}, nil
}

// candidates loads the store for q.Kind, narrowed to the cells around the
// reference when a radius applies.
func (s *DiscoveryService) candidates(ctx context.Context, q entities.SearchQuery, radiusKm float64) ([]entities.Candidate, error) {
	spatial := q.Reference.Active() && radiusKm > 0

	switch q.Kind {
	case entities.KindListing:
		var listings []*entities.Listing
		var err error
		if spatial {
			listings, err = s.listings.Nearby(ctx, *q.Reference.Coordinate, radiusKm)
		} else {
			listings, err = s.listings.List(ctx)
		}
		if err != nil {
			return nil, fmt.Errorf("load listings: %w", err)
		}
		out := make([]entities.Candidate, len(listings))
		for i, l := range listings {
			out[i] = entities.ListingCandidate(l)
		}
		return out, nil

	case entities.KindPerson:
		var people []*entities.Person
		var err error
		if spatial {
			people, err = s.people.Nearby(ctx, *q.Reference.Coordinate, radiusKm)
		} else {
			people, err = s.people.List(ctx)
		}
		if err != nil {
			return nil, fmt.Errorf("load people: %w", err)
		}
		out := make([]entities.Candidate, len(people))
		for i, p := range people {
			out[i] = entities.PersonCandidate(p)
		}
		return out, nil
	}
	return nil, fmt.Errorf("%w: unknown kind %q", entities.ErrInvalidFormat, q.Kind)
}
