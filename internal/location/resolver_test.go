package location

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"buurtmarkt/internal/domain/entities"
	"buurtmarkt/internal/geocode"
)

// fakeGeocoder answers from a fixed table and counts calls. Keys listed in
// block wait for the context to be cancelled (or unblock to be closed).
type fakeGeocoder struct {
	calls   atomic.Int32
	results map[string]entities.GeocodeResult
	errs    map[string]error
	block   map[string]chan struct{}
	started chan string
}

func newFakeGeocoder() *fakeGeocoder {
	return &fakeGeocoder{
		results: map[string]entities.GeocodeResult{
			"1012LG-1": {Coordinate: entities.NewCoordinate(52.37553, 4.89405), FormattedAddress: "Damrak 1, 1012LG Amsterdam"},
			"3511AB-7": {Coordinate: entities.NewCoordinate(52.0907, 5.1214), FormattedAddress: "Oudegracht 7, 3511AB Utrecht"},
		},
		errs:    map[string]error{},
		block:   map[string]chan struct{}{},
		started: make(chan string, 10),
	}
}

func (g *fakeGeocoder) Geocode(ctx context.Context, q entities.AddressQuery) (entities.GeocodeResult, error) {
	g.calls.Add(1)
	key := q.Key()
	g.started <- key
	if ch, ok := g.block[key]; ok {
		select {
		case <-ch:
		case <-ctx.Done():
			return entities.GeocodeResult{}, ctx.Err()
		}
	}
	if err, ok := g.errs[key]; ok {
		return entities.GeocodeResult{}, err
	}
	if r, ok := g.results[key]; ok {
		return r, nil
	}
	return entities.GeocodeResult{}, entities.ErrNotFound
}

func setupResolver() (*Resolver, *fakeGeocoder, *geocode.MemoryCache) {
	client := newFakeGeocoder()
	cache := geocode.NewMemoryCache(100)
	return NewResolver(client, cache, WithDeviceTimeout(50*time.Millisecond)), client, cache
}

func ptr(f float64) *float64 { return &f }

func profileAt(lat, lng float64) *entities.Profile {
	p := entities.NewProfile("user-1", "Maria", "NL")
	p.SetLocation("Amsterdam", entities.NewCoordinate(lat, lng))
	return p
}

func TestResolver_StartsUninitialized(t *testing.T) {
	resolver, _, _ := setupResolver()

	lc := resolver.Current()
	if lc.Source != entities.LocationSourceNone || lc.Active() {
		t.Errorf("Expected no location, got %+v", lc)
	}
}

func TestResolver_LoadProfile(t *testing.T) {
	resolver, _, _ := setupResolver()

	lc, ok := resolver.LoadProfile(profileAt(52.37, 4.89))
	if !ok {
		t.Fatal("Expected profile location to be loaded")
	}
	if lc.Source != entities.LocationSourceProfile {
		t.Errorf("Expected profile source, got %s", lc.Source)
	}
	if lc.DisplayAddress != "Amsterdam" {
		t.Errorf("Expected display address Amsterdam, got %q", lc.DisplayAddress)
	}
	if resolver.Current().Coordinate.Lat != 52.37 {
		t.Errorf("Unexpected current coordinate %+v", resolver.Current().Coordinate)
	}
}

func TestResolver_LoadProfileWithoutCoordinates(t *testing.T) {
	resolver, _, _ := setupResolver()

	_, ok := resolver.LoadProfile(entities.NewProfile("user-1", "Maria", "NL"))
	if ok {
		t.Error("Profile without coordinates should not load")
	}
	if resolver.Current().Source != entities.LocationSourceNone {
		t.Error("State should remain uninitialized")
	}

	if _, ok := resolver.LoadProfile(nil); ok {
		t.Error("Nil profile should not load")
	}
}

func TestResolver_ResolveAddress_InvalidFormat(t *testing.T) {
	tests := []entities.AddressQuery{
		{Postcode: "123AB", HouseNumber: "1"},
		{Postcode: "1234ABC", HouseNumber: "1"},
		{Postcode: "ABCD12", HouseNumber: "1"},
		{Postcode: "1234AB", HouseNumber: "0"},
		{Postcode: "1234AB", HouseNumber: "12a"},
		{Postcode: "1234AB", HouseNumber: "-3"},
		{Postcode: "", HouseNumber: ""},
	}

	for _, q := range tests {
		t.Run(q.Postcode+"/"+q.HouseNumber, func(t *testing.T) {
			resolver, client, _ := setupResolver()
			resolver.LoadProfile(profileAt(52.37, 4.89))

			_, err := resolver.ResolveAddress(context.Background(), q)
			if !errors.Is(err, entities.ErrInvalidFormat) {
				t.Errorf("Expected ErrInvalidFormat, got %v", err)
			}
			if client.calls.Load() != 0 {
				t.Error("Malformed input must not reach the geocoder")
			}
			if resolver.Current().Source != entities.LocationSourceProfile {
				t.Error("Malformed input must not change the state")
			}
		})
	}
}

func TestResolver_ResolveAddress_SuccessAndCacheHit(t *testing.T) {
	resolver, client, cache := setupResolver()
	ctx := context.Background()

	first, hit, err := resolver.ResolveAddressDetailed(ctx, entities.AddressQuery{Postcode: "1012 lg", HouseNumber: "1"})
	if err != nil {
		t.Fatalf("ResolveAddress failed: %v", err)
	}
	if hit {
		t.Error("First lookup should miss the cache")
	}
	if first.Source != entities.LocationSourceManual {
		t.Errorf("Expected manual source, got %s", first.Source)
	}
	if first.DisplayAddress != "Damrak 1, 1012LG Amsterdam" {
		t.Errorf("Unexpected display address %q", first.DisplayAddress)
	}
	if cache.Len() != 1 {
		t.Errorf("Expected one cache entry, got %d", cache.Len())
	}

	second, hit, err := resolver.ResolveAddressDetailed(ctx, entities.AddressQuery{Postcode: "1012LG", HouseNumber: " 1 "})
	if err != nil {
		t.Fatalf("Second ResolveAddress failed: %v", err)
	}
	if !hit {
		t.Error("Second lookup should hit the cache")
	}
	if *second.Coordinate != *first.Coordinate {
		t.Errorf("Expected identical coordinates, got %+v and %+v", *first.Coordinate, *second.Coordinate)
	}
	if client.calls.Load() != 1 {
		t.Errorf("Expected exactly one geocoder call, got %d", client.calls.Load())
	}
}

func TestResolver_ResolveAddress_FailureKeepsState(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"not found", entities.ErrNotFound},
		{"timeout", entities.ErrTimeout},
		{"service error", entities.ErrServiceError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resolver, client, cache := setupResolver()
			client.errs["9999ZZ-1"] = tt.err
			resolver.LoadProfile(profileAt(52.37, 4.89))
			before := resolver.Current()

			_, err := resolver.ResolveAddress(context.Background(), entities.AddressQuery{Postcode: "9999ZZ", HouseNumber: "1"})
			if !errors.Is(err, tt.err) {
				t.Errorf("Expected %v, got %v", tt.err, err)
			}

			after := resolver.Current()
			if after.Source != before.Source || *after.Coordinate != *before.Coordinate {
				t.Errorf("State changed after failure: %+v -> %+v", before, after)
			}
			if cache.Len() != 0 {
				t.Error("Failures must not be cached")
			}
		})
	}
}

func TestResolver_ResolveDevice(t *testing.T) {
	resolver, _, _ := setupResolver()
	coord := entities.NewCoordinate(12.1091, -68.9316)

	lc, err := resolver.ResolveDevice(context.Background(), DeviceFix{Coordinate: &coord})
	if err != nil {
		t.Fatalf("ResolveDevice failed: %v", err)
	}
	if lc.Source != entities.LocationSourceGPS {
		t.Errorf("Expected gps source, got %s", lc.Source)
	}
	if lc.DisplayAddress != entities.GPSDisplayAddress {
		t.Errorf("Expected display address GPS, got %q", lc.DisplayAddress)
	}
}

func TestResolver_ResolveDevice_FailureKeepsState(t *testing.T) {
	invalid := entities.NewCoordinate(200, 0)

	tests := []struct {
		name    string
		locator DeviceLocator
		wantErr error
	}{
		{"permission denied", DeviceFix{Err: entities.ErrPermissionDenied}, entities.ErrPermissionDenied},
		{"unavailable", DeviceFix{Err: entities.ErrUnavailable}, entities.ErrUnavailable},
		{"no fix", DeviceFix{}, entities.ErrUnavailable},
		{"invalid coordinate", DeviceFix{Coordinate: &invalid}, entities.ErrUnavailable},
		{"unknown error", DeviceFix{Err: errors.New("sensor exploded")}, entities.ErrUnavailable},
		{"timeout", LocatorFunc(func(ctx context.Context) (entities.Coordinate, error) {
			<-ctx.Done()
			return entities.Coordinate{}, ctx.Err()
		}), entities.ErrTimeout},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resolver, _, _ := setupResolver()
			if _, err := resolver.ResolveAddress(context.Background(), entities.AddressQuery{Postcode: "1012LG", HouseNumber: "1"}); err != nil {
				t.Fatalf("Setup failed: %v", err)
			}

			_, err := resolver.ResolveDevice(context.Background(), tt.locator)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Expected %v, got %v", tt.wantErr, err)
			}
			if resolver.Current().Source != entities.LocationSourceManual {
				t.Errorf("Expected manual source to remain, got %s", resolver.Current().Source)
			}
		})
	}
}

func TestResolver_ReplacesWithoutMerging(t *testing.T) {
	resolver, _, _ := setupResolver()
	ctx := context.Background()

	resolver.LoadProfile(profileAt(52.37, 4.89))
	if _, err := resolver.ResolveAddress(ctx, entities.AddressQuery{Postcode: "3511AB", HouseNumber: "7"}); err != nil {
		t.Fatalf("ResolveAddress failed: %v", err)
	}

	coord := entities.NewCoordinate(51.9244, 4.4777)
	lc, err := resolver.ResolveDevice(ctx, DeviceFix{Coordinate: &coord})
	if err != nil {
		t.Fatalf("ResolveDevice failed: %v", err)
	}
	if lc.DisplayAddress != entities.GPSDisplayAddress || *lc.Coordinate != coord {
		t.Errorf("GPS context should fully replace the manual one, got %+v", lc)
	}
}

func TestResolver_LastRequestWins(t *testing.T) {
	resolver, client, _ := setupResolver()
	client.block["1012LG-1"] = make(chan struct{})
	ctx := context.Background()

	var wg sync.WaitGroup
	var staleErr error
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, staleErr = resolver.ResolveAddress(ctx, entities.AddressQuery{Postcode: "1012LG", HouseNumber: "1"})
	}()

	// Wait until the first lookup is in flight before issuing the second.
	select {
	case <-client.started:
	case <-time.After(2 * time.Second):
		t.Fatal("First lookup never started")
	}

	lc, err := resolver.ResolveAddress(ctx, entities.AddressQuery{Postcode: "3511AB", HouseNumber: "7"})
	if err != nil {
		t.Fatalf("Second lookup failed: %v", err)
	}
	wg.Wait()

	if !errors.Is(staleErr, entities.ErrSuperseded) {
		t.Errorf("Expected stale lookup to be superseded, got %v", staleErr)
	}
	if resolver.Current().DisplayAddress != lc.DisplayAddress {
		t.Errorf("Stale lookup overwrote the newer context: %+v", resolver.Current())
	}
}

func TestResolver_StaleResultNotCommitted(t *testing.T) {
	resolver, _, _ := setupResolver()

	_, seq := resolver.begin(context.Background())
	resolver.LoadProfile(profileAt(52.37, 4.89))

	err := resolver.commit(seq, entities.NewLocationContext(entities.NewCoordinate(1, 1), entities.LocationSourceManual, "stale"))
	if !errors.Is(err, entities.ErrSuperseded) {
		t.Errorf("Expected ErrSuperseded, got %v", err)
	}
	if resolver.Current().Source != entities.LocationSourceProfile {
		t.Error("Stale commit must not change the state")
	}
}

func TestResolver_CloseCancelsInFlight(t *testing.T) {
	resolver, client, _ := setupResolver()
	client.block["1012LG-1"] = make(chan struct{})

	done := make(chan error, 1)
	go func() {
		_, err := resolver.ResolveAddress(context.Background(), entities.AddressQuery{Postcode: "1012LG", HouseNumber: "1"})
		done <- err
	}()

	select {
	case <-client.started:
	case <-time.After(2 * time.Second):
		t.Fatal("Lookup never started")
	}
	resolver.Close()

	select {
	case err := <-done:
		if !errors.Is(err, entities.ErrSuperseded) {
			t.Errorf("Expected ErrSuperseded after Close, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Close did not cancel the lookup")
	}
	if resolver.Current().Active() {
		t.Error("Cancelled lookup must not set a location")
	}
}

// staticCache returns the same entry for every key and remembers the
// context state of each Put.
type staticCache struct {
	mu      sync.Mutex
	entry   entities.GeocodeResult
	present bool
	putErrs []error
}

func (c *staticCache) Get(ctx context.Context, key string) (entities.GeocodeResult, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.entry, c.present
}

func (c *staticCache) Put(ctx context.Context, key string, result entities.GeocodeResult) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.putErrs = append(c.putErrs, ctx.Err())
}

func TestResolver_InvalidCachedCoordinateIsAMiss(t *testing.T) {
	cache := &staticCache{
		entry:   entities.GeocodeResult{Coordinate: entities.NewCoordinate(999, 5), FormattedAddress: "broken"},
		present: true,
	}
	client := newFakeGeocoder()
	resolver := NewResolver(client, cache)
	resolver.LoadProfile(profileAt(52, 5))

	t.Run("unknown address keeps the profile", func(t *testing.T) {
		_, hit, err := resolver.ResolveAddressDetailed(context.Background(), entities.AddressQuery{Postcode: "9999ZZ", HouseNumber: "1"})
		if !errors.Is(err, entities.ErrNotFound) {
			t.Fatalf("Expected ErrNotFound from the geocoder, got %v", err)
		}
		if hit {
			t.Error("An invalid cached coordinate must not count as a hit")
		}
		current := resolver.Current()
		if current.Source != entities.LocationSourceProfile || !current.Active() {
			t.Errorf("Expected the profile context to stay, got %+v", current)
		}
	})

	t.Run("known address is geocoded again", func(t *testing.T) {
		lc, hit, err := resolver.ResolveAddressDetailed(context.Background(), entities.AddressQuery{Postcode: "1012LG", HouseNumber: "1"})
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if hit {
			t.Error("Expected a geocoder lookup, not a cache hit")
		}
		if !lc.Active() || lc.Source != entities.LocationSourceManual {
			t.Errorf("Expected an active manual context, got %+v", lc)
		}
	})
}

// cancellingGeocoder cancels the caller's context right before answering,
// as a newer action would.
type cancellingGeocoder struct {
	cancel context.CancelFunc
}

func (g *cancellingGeocoder) Geocode(ctx context.Context, q entities.AddressQuery) (entities.GeocodeResult, error) {
	g.cancel()
	return entities.GeocodeResult{Coordinate: entities.NewCoordinate(52.37553, 4.89405), FormattedAddress: "Damrak 1"}, nil
}

func TestResolver_CachePutOutlivesCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cache := &staticCache{}
	resolver := NewResolver(&cancellingGeocoder{cancel: cancel}, cache)

	if _, err := resolver.ResolveAddress(ctx, entities.AddressQuery{Postcode: "1012LG", HouseNumber: "1"}); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	cache.mu.Lock()
	defer cache.mu.Unlock()
	if len(cache.putErrs) != 1 {
		t.Fatalf("Expected one cache write, got %d", len(cache.putErrs))
	}
	if cache.putErrs[0] != nil {
		t.Errorf("Cache write ran on a cancelled context: %v", cache.putErrs[0])
	}
}
