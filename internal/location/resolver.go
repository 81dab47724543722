// Package location decides which coordinate is the searcher's reference
// location "now", and remembers where it came from.
//
// A Resolver is a small state machine over entities.LocationContext:
//
//	none ──profile load──▶ profile
//	any  ──valid address, geocode ok──▶ manual
//	any  ──device fix ok──▶ gps
//
// Failed actions leave the current context untouched, and there is no
// automatic fallback from one source to another.
package location

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"buurtmarkt/internal/domain/entities"
	"buurtmarkt/internal/geocode"
	"buurtmarkt/internal/metrics"
)

// DefaultDeviceTimeout bounds how long a device fix may take.
const DefaultDeviceTimeout = 10 * time.Second

// Resolver owns the LocationContext of one search session. It is safe for
// concurrent use; the last explicit action issued wins.
//
// Go Learning Note — Last-Request-Wins:
// Each action takes a sequence number under the mutex and cancels the
// context of the action before it. Network work then runs without holding
// the lock. When the work finishes, the result is only committed if its
// sequence number is still the latest, so a slow stale lookup can never
// overwrite a newer location.
type Resolver struct {
	client        geocode.Client
	cache         geocode.Cache
	deviceTimeout time.Duration
	metrics       *metrics.Metrics
	log           *zap.Logger

	mu      sync.Mutex
	current entities.LocationContext
	seq     uint64
	cancel  context.CancelFunc
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithDeviceTimeout overrides DefaultDeviceTimeout.
func WithDeviceTimeout(d time.Duration) Option {
	return func(r *Resolver) {
		if d > 0 {
			r.deviceTimeout = d
		}
	}
}

// WithMetrics attaches Prometheus collectors.
func WithMetrics(m *metrics.Metrics) Option {
	return func(r *Resolver) { r.metrics = m }
}

// WithLogger attaches a logger.
func WithLogger(log *zap.Logger) Option {
	return func(r *Resolver) {
		if log != nil {
			r.log = log
		}
	}
}

// NewResolver creates a resolver in the uninitialized state. The cache is
// typically shared by all resolvers of a process.
func NewResolver(client geocode.Client, cache geocode.Cache, opts ...Option) *Resolver {
	r := &Resolver{
		client:        client,
		cache:         cache,
		deviceTimeout: DefaultDeviceTimeout,
		log:           zap.NewNop(),
		current:       entities.NoLocation(),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.log = r.log.Named("resolver")
	return r
}

// Current returns the active context.
func (r *Resolver) Current() entities.LocationContext {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current
}

// LoadProfile makes the profile's stored coordinate the reference location.
// A profile without a (valid) coordinate changes nothing and reports false.
func (r *Resolver) LoadProfile(profile *entities.Profile) (entities.LocationContext, bool) {
	if profile == nil {
		return r.Current(), false
	}
	coord := profile.Coordinate()
	if coord == nil || !coord.Valid() {
		return r.Current(), false
	}

	_, seq := r.begin(context.Background())
	defer r.release(seq)

	lc := entities.NewLocationContext(*coord, entities.LocationSourceProfile, profile.Place)
	if err := r.commit(seq, lc); err != nil {
		return r.Current(), false
	}
	r.metrics.LocationResolution(string(entities.LocationSourceProfile), "ok")
	return lc, true
}

// ResolveAddress geocodes a manually entered address and, on success, makes
// it the reference location.
func (r *Resolver) ResolveAddress(ctx context.Context, q entities.AddressQuery) (entities.LocationContext, error) {
	lc, _, err := r.ResolveAddressDetailed(ctx, q)
	return lc, err
}

// ResolveAddressDetailed is ResolveAddress that also reports whether the
// geocoder was bypassed by a cache hit.
//
// Malformed input fails with entities.ErrInvalidFormat before any lookup and
// does not cancel a lookup already in flight.
func (r *Resolver) ResolveAddressDetailed(ctx context.Context, q entities.AddressQuery) (entities.LocationContext, bool, error) {
	if err := q.Validate(); err != nil {
		r.metrics.LocationResolution(string(entities.LocationSourceManual), "invalid")
		return r.Current(), false, err
	}
	q = q.Normalize()
	key := q.Key()

	ctx, seq := r.begin(ctx)
	defer r.release(seq)

	result, hit := r.cache.Get(ctx, key)
	if hit && !result.Coordinate.Valid() {
		r.log.Warn("ignoring cached entry with invalid coordinate",
			zap.String("key", key),
			zap.Float64("lat", result.Coordinate.Lat),
			zap.Float64("lng", result.Coordinate.Lng),
		)
		hit = false
	}
	if hit {
		r.metrics.CacheHit()
	} else {
		r.metrics.CacheMiss()

		var err error
		result, err = r.client.Geocode(ctx, q)
		if err != nil {
			r.metrics.GeocodeLookup(outcome(err))
			if r.stale(seq) {
				return r.Current(), false, fmt.Errorf("%w: %s", entities.ErrSuperseded, key)
			}
			r.metrics.LocationResolution(string(entities.LocationSourceManual), "error")
			r.log.Info("address lookup failed", zap.String("key", key), zap.Error(err))
			return r.Current(), false, err
		}
		r.metrics.GeocodeLookup("ok")
		if !result.Coordinate.Valid() {
			return r.Current(), false, fmt.Errorf("%w: geocoder returned invalid coordinate for %s", entities.ErrServiceError, key)
		}
		// A superseded action still has a correct result worth sharing.
		r.cache.Put(context.WithoutCancel(ctx), key, result)
	}

	lc := entities.NewLocationContext(result.Coordinate, entities.LocationSourceManual, result.FormattedAddress)
	if err := r.commit(seq, lc); err != nil {
		return r.Current(), hit, fmt.Errorf("%w: %s", err, key)
	}
	r.metrics.LocationResolution(string(entities.LocationSourceManual), "ok")
	r.log.Debug("reference location set",
		zap.String("source", string(lc.Source)),
		zap.String("key", key),
		zap.Bool("cache_hit", hit),
	)
	return lc, hit, nil
}

// ResolveDevice asks the device for its position and, on success, makes it
// the reference location. Denied, unavailable and timed-out fixes leave the
// previous context in place.
func (r *Resolver) ResolveDevice(ctx context.Context, locator DeviceLocator) (entities.LocationContext, error) {
	ctx, seq := r.begin(ctx)
	defer r.release(seq)

	ctx, cancel := context.WithTimeout(ctx, r.deviceTimeout)
	defer cancel()

	coord, err := locator.Locate(ctx)
	if err == nil && !coord.Valid() {
		err = fmt.Errorf("%w: invalid device coordinate (%v, %v)", entities.ErrUnavailable, coord.Lat, coord.Lng)
	}
	if err != nil {
		if r.stale(seq) {
			return r.Current(), entities.ErrSuperseded
		}
		err = classifyDeviceError(err)
		r.metrics.LocationResolution(string(entities.LocationSourceGPS), "error")
		r.log.Info("device location failed", zap.Error(err))
		return r.Current(), err
	}

	lc := entities.NewLocationContext(coord, entities.LocationSourceGPS, entities.GPSDisplayAddress)
	if err := r.commit(seq, lc); err != nil {
		return r.Current(), err
	}
	r.metrics.LocationResolution(string(entities.LocationSourceGPS), "ok")
	return lc, nil
}

// Close cancels any in-flight action. Its result, if it still arrives, is
// discarded as superseded. The current context is kept.
func (r *Resolver) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.cancel != nil {
		r.cancel()
		r.cancel = nil
	}
	r.seq++
}

// begin registers a new action: it cancels the pending one (if any) and
// returns a derived context plus the action's sequence number.
func (r *Resolver) begin(ctx context.Context) (context.Context, uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.cancel != nil {
		r.cancel()
	}
	r.seq++
	ctx, cancel := context.WithCancel(ctx)
	r.cancel = cancel
	return ctx, r.seq
}

// commit installs lc if seq is still the latest action.
func (r *Resolver) commit(seq uint64, lc entities.LocationContext) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if seq != r.seq {
		return entities.ErrSuperseded
	}
	r.current = lc
	return nil
}

// release frees the cancel func of a finished action that is still latest.
func (r *Resolver) release(seq uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if seq == r.seq && r.cancel != nil {
		r.cancel()
		r.cancel = nil
	}
}

func (r *Resolver) stale(seq uint64) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return seq != r.seq
}

func outcome(err error) string {
	switch {
	case errors.Is(err, entities.ErrNotFound):
		return "not_found"
	case errors.Is(err, entities.ErrTimeout):
		return "timeout"
	default:
		return "service_error"
	}
}
