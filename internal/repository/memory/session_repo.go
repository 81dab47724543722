package memory

import (
	"context"
	"sync"
	"time"

	"buurtmarkt/internal/domain/entities"
	"buurtmarkt/internal/repository"
)

// DefaultSessionTTL is how long an idle session is kept.
const DefaultSessionTTL = 30 * time.Minute

type sessionEntry struct {
	session   *entities.Session
	expiresAt time.Time
}

// SessionRepository keeps search sessions with a sliding idle TTL. Every
// successful GetByID extends the session.
//
// Go Learning Note — Channels for Signaling:
// The `stop` field is a `chan struct{}` used purely for signaling. close(stop)
// wakes every goroutine receiving from it, so `<-r.stop` in the cleanup loop's
// select fires once Stop() is called.
type SessionRepository struct {
	mu       sync.RWMutex
	sessions map[string]*sessionEntry
	ttl      time.Duration
	onExpire func(*entities.Session)
	stop     chan struct{}
	stopOnce sync.Once
}

// NewSessionRepository creates the repository and starts a background
// goroutine that sweeps expired sessions every sweepEvery. Call Stop to end
// it.
func NewSessionRepository(ttl, sweepEvery time.Duration) *SessionRepository {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	if sweepEvery <= 0 {
		sweepEvery = time.Minute
	}
	r := &SessionRepository{
		sessions: make(map[string]*sessionEntry),
		ttl:      ttl,
		stop:     make(chan struct{}),
	}
	go r.cleanupExpired(sweepEvery)
	return r
}

// OnExpire registers fn to be called, outside the lock, for every session
// removed by the sweeper.
func (r *SessionRepository) OnExpire(fn func(*entities.Session)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.onExpire = fn
}

func (r *SessionRepository) Create(ctx context.Context, session *entities.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.sessions[session.ID]; exists {
		return repository.ErrAlreadyExists
	}
	r.sessions[session.ID] = &sessionEntry{
		session:   session,
		expiresAt: time.Now().Add(r.ttl),
	}
	return nil
}

func (r *SessionRepository) GetByID(ctx context.Context, id string) (*entities.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, exists := r.sessions[id]
	if !exists || time.Now().After(entry.expiresAt) {
		return nil, repository.ErrNotFound
	}
	entry.expiresAt = time.Now().Add(r.ttl)
	return entry.session, nil
}

func (r *SessionRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.sessions[id]; !exists {
		return repository.ErrNotFound
	}
	delete(r.sessions, id)
	return nil
}

// Len returns the number of stored sessions, expired or not.
func (r *SessionRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// cleanupExpired periodically removes sessions past their TTL.
//
// Go Learning Note — time.NewTicker:
// A ticker delivers a value on its channel at a fixed interval until
// stopped. Always defer ticker.Stop() so the timer is released.
func (r *SessionRepository) cleanupExpired(every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			r.sweep(time.Now())
		case <-r.stop:
			return
		}
	}
}

func (r *SessionRepository) sweep(now time.Time) {
	r.mu.Lock()
	var expired []*entities.Session
	for id, entry := range r.sessions {
		if now.After(entry.expiresAt) {
			delete(r.sessions, id)
			expired = append(expired, entry.session)
		}
	}
	onExpire := r.onExpire
	r.mu.Unlock()

	if onExpire == nil {
		return
	}
	for _, s := range expired {
		onExpire(s)
	}
}

// Stop ends the cleanup goroutine. It is safe to call more than once.
func (r *SessionRepository) Stop() {
	r.stopOnce.Do(func() { close(r.stop) })
}
