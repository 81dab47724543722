package services

import (
	"context"
	"time"

	"buurtmarkt/internal/discovery"
	"buurtmarkt/internal/domain/entities"
	"buurtmarkt/internal/geo"
	"buurtmarkt/internal/geocode"
	"buurtmarkt/internal/location"
	"buurtmarkt/internal/repository/memory"
)

// stubGeocoder knows a fixed set of addresses.
type stubGeocoder struct {
	results map[string]entities.GeocodeResult
}

func (g *stubGeocoder) Geocode(ctx context.Context, q entities.AddressQuery) (entities.GeocodeResult, error) {
	if r, ok := g.results[q.Key()]; ok {
		return r, nil
	}
	return entities.GeocodeResult{}, entities.ErrNotFound
}

type testEnv struct {
	locations *LocationService
	discovery *DiscoveryService
	sessions  *memory.SessionRepository
	profiles  *memory.ProfileRepository
	listings  *memory.ListingRepository
	people    *memory.PersonRepository
}

func setupServices() *testEnv {
	client := &stubGeocoder{results: map[string]entities.GeocodeResult{
		"1012LG-1": {Coordinate: entities.NewCoordinate(52.37553, 4.89405), FormattedAddress: "Damrak 1, 1012LG Amsterdam"},
	}}
	cache := geocode.NewMemoryCache(geocode.DefaultMaxEntries)

	sessions := memory.NewSessionRepository(time.Minute, time.Hour)
	profiles := memory.NewProfileRepository()
	listings := memory.NewListingRepository()
	people := memory.NewPersonRepository()

	locations := NewLocationService(sessions, profiles, func() *location.Resolver {
		return location.NewResolver(client, cache, location.WithDeviceTimeout(100*time.Millisecond))
	}, nil)
	pipeline := discovery.NewPipeline(geo.NewDefaultRadiusPolicy(), discovery.Config{}, nil, nil)

	return &testEnv{
		locations: locations,
		discovery: NewDiscoveryService(listings, people, locations, pipeline),
		sessions:  sessions,
		profiles:  profiles,
		listings:  listings,
		people:    people,
	}
}

func floatPtr(f float64) *float64 { return &f }
