package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"

	"buurtmarkt/internal/domain/entities"
	"buurtmarkt/internal/location"
	"buurtmarkt/internal/repository"
	"buurtmarkt/pkg/utils"
)

var ErrSessionNotFound = errors.New("session not found")

// DefaultCountryCode is used for sessions whose searcher has no profile
// country.
const DefaultCountryCode = "NL"

// ResolverFactory builds the location resolver owned by a new session.
type ResolverFactory func() *location.Resolver

// LocationService manages search sessions and the reference location each
// one carries. Every session owns exactly one Resolver.
type LocationService struct {
	sessions    repository.SessionRepository
	profiles    repository.ProfileRepository
	newResolver ResolverFactory
	log         *zap.Logger

	mu        sync.RWMutex
	resolvers map[string]*location.Resolver
}

func NewLocationService(
	sessions repository.SessionRepository,
	profiles repository.ProfileRepository,
	newResolver ResolverFactory,
	log *zap.Logger,
) *LocationService {
	if log == nil {
		log = zap.NewNop()
	}
	return &LocationService{
		sessions:    sessions,
		profiles:    profiles,
		newResolver: newResolver,
		log:         log.Named("location"),
		resolvers:   make(map[string]*location.Resolver),
	}
}

type CreateSessionRequest struct {
	UserID      string `json:"user_id"`
	CountryCode string `json:"country_code"`
}

type SessionResponse struct {
	Session  *entities.Session        `json:"session"`
	Location entities.LocationContext `json:"location"`
}

// CreateSession opens a session. When the searcher's profile has a stored
// coordinate it becomes the initial reference location. An unknown user ID
// is not an error; the session simply starts without a location.
func (s *LocationService) CreateSession(ctx context.Context, req CreateSessionRequest) (*SessionResponse, error) {
	var profile *entities.Profile
	if req.UserID != "" {
		p, err := s.profiles.GetByID(ctx, req.UserID)
		switch {
		case err == nil:
			profile = p
		case errors.Is(err, repository.ErrNotFound):
			s.log.Debug("no profile for session user", zap.String("user_id", req.UserID))
		default:
			return nil, fmt.Errorf("load profile %s: %w", req.UserID, err)
		}
	}

	country := strings.ToUpper(strings.TrimSpace(req.CountryCode))
	if country == "" && profile != nil {
		country = strings.ToUpper(profile.CountryCode)
	}
	if country == "" {
		country = DefaultCountryCode
	}

	session := entities.NewSession(utils.GenerateID(), req.UserID, country)
	resolver := s.newResolver()
	lc, loaded := resolver.LoadProfile(profile)

	// The resolver is registered first so the session is usable as soon as
	// the store returns it.
	s.mu.Lock()
	s.resolvers[session.ID] = resolver
	s.mu.Unlock()

	if err := s.sessions.Create(ctx, session); err != nil {
		s.forget(session.ID)
		return nil, fmt.Errorf("create session: %w", err)
	}

	s.log.Info("session created",
		zap.String("session_id", session.ID),
		zap.String("country", country),
		zap.Bool("profile_location", loaded),
	)
	return &SessionResponse{Session: session, Location: lc}, nil
}

// Session returns the session and its current reference location.
func (s *LocationService) Session(ctx context.Context, sessionID string) (*SessionResponse, error) {
	session, resolver, err := s.lookup(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return &SessionResponse{Session: session, Location: resolver.Current()}, nil
}

type AddressResponse struct {
	Location entities.LocationContext `json:"location"`
	CacheHit bool                     `json:"cache_hit"`
}

// ResolveAddress geocodes a Dutch postcode and house number and makes the
// result the session's reference location.
func (s *LocationService) ResolveAddress(ctx context.Context, sessionID string, q entities.AddressQuery) (*AddressResponse, error) {
	_, resolver, err := s.lookup(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	lc, hit, err := resolver.ResolveAddressDetailed(ctx, q)
	if err != nil {
		return nil, err
	}
	return &AddressResponse{Location: lc, CacheHit: hit}, nil
}

// GPSRequest carries a device fix obtained by the client, or the error the
// device reported instead.
type GPSRequest struct {
	Lat   *float64 `json:"lat"`
	Lng   *float64 `json:"lng"`
	Error string   `json:"error"`
}

// Fix converts the request to a device fix.
func (r GPSRequest) Fix() location.DeviceFix {
	if err := location.ParseDeviceError(r.Error); err != nil {
		return location.DeviceFix{Err: err}
	}
	return location.DeviceFix{Coordinate: entities.CoordinateFrom(r.Lat, r.Lng)}
}

// ResolveGPS makes a device fix the session's reference location.
func (s *LocationService) ResolveGPS(ctx context.Context, sessionID string, req GPSRequest) (entities.LocationContext, error) {
	_, resolver, err := s.lookup(ctx, sessionID)
	if err != nil {
		return entities.LocationContext{}, err
	}
	return resolver.ResolveDevice(ctx, req.Fix())
}

// EndSession removes the session and cancels any lookup still in flight.
func (s *LocationService) EndSession(ctx context.Context, sessionID string) error {
	if err := s.sessions.Delete(ctx, sessionID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrSessionNotFound
		}
		return err
	}
	s.forget(sessionID)
	return nil
}

// HandleExpired releases the resolver of a session dropped by the session
// store's sweeper.
func (s *LocationService) HandleExpired(session *entities.Session) {
	s.forget(session.ID)
	s.log.Debug("session expired", zap.String("session_id", session.ID))
}

func (s *LocationService) forget(sessionID string) {
	s.mu.Lock()
	resolver, ok := s.resolvers[sessionID]
	delete(s.resolvers, sessionID)
	s.mu.Unlock()

	if ok {
		resolver.Close()
	}
}

func (s *LocationService) lookup(ctx context.Context, sessionID string) (*entities.Session, *location.Resolver, error) {
	session, err := s.sessions.GetByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			// An expired session may not have been swept yet.
			s.forget(sessionID)
			return nil, nil, ErrSessionNotFound
		}
		return nil, nil, err
	}

	s.mu.RLock()
	resolver, ok := s.resolvers[sessionID]
	s.mu.RUnlock()
	if !ok {
		return nil, nil, ErrSessionNotFound
	}
	return session, resolver, nil
}
