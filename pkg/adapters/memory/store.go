package memory

import (
	"context"
	"sync"
	"time"

	"github.com/aretw0/admitcheck/pkg/domain"
)

// DefaultTTL is the idle time after which a session expires.
const DefaultTTL = 30 * time.Minute

// EvictionFunc is called with the last state of every expired session.
type EvictionFunc func(ctx context.Context, state *domain.State)

type entry struct {
	state    *domain.State
	lastSeen time.Time
}

// Store implements ports.SessionStore in memory with an idle TTL.
// Safe for concurrent use.
type Store struct {
	data    map[string]*entry
	mu      sync.RWMutex
	ttl     time.Duration
	now     func() time.Time
	onEvict EvictionFunc
}

// Option configures the Store.
type Option func(*Store)

// WithTTL sets the idle expiry. Zero disables expiry.
func WithTTL(ttl time.Duration) Option {
	return func(s *Store) {
		s.ttl = ttl
	}
}

// WithEvictionHandler registers a callback for expired sessions.
func WithEvictionHandler(fn EvictionFunc) Option {
	return func(s *Store) {
		s.onEvict = fn
	}
}

// WithClock replaces the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// New creates a new in-memory store.
func New(opts ...Option) *Store {
	s := &Store{
		data: make(map[string]*entry),
		ttl:  DefaultTTL,
		now:  time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) expired(e *entry, now time.Time) bool {
	return s.ttl > 0 && now.Sub(e.lastSeen) > s.ttl
}

// Save persists a copy of the state and refreshes its idle timer.
func (s *Store) Save(ctx context.Context, sessionID string, state *domain.State) error {
	copied := state.Clone()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[sessionID] = &entry{state: copied, lastSeen: s.now()}
	return nil
}

// Load returns a copy of the state. Expired sessions are evicted on access.
func (s *Store) Load(ctx context.Context, sessionID string) (*domain.State, error) {
	s.mu.RLock()
	e, ok := s.data[sessionID]
	s.mu.RUnlock()
	if !ok {
		return nil, domain.ErrSessionNotFound
	}

	if s.expired(e, s.now()) {
		s.evict(ctx, sessionID, e)
		return nil, domain.ErrSessionNotFound
	}

	return e.state.Clone(), nil
}

// Delete removes the state.
func (s *Store) Delete(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, sessionID)
	return nil
}

// List returns live sessions.
func (s *Store) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	now := s.now()
	sessions := make([]string, 0, len(s.data))
	for id, e := range s.data {
		if !s.expired(e, now) {
			sessions = append(sessions, id)
		}
	}
	return sessions, nil
}

// Sweep evicts every expired session and returns how many were removed.
func (s *Store) Sweep(ctx context.Context) int {
	now := s.now()

	s.mu.RLock()
	var stale []string
	for id, e := range s.data {
		if s.expired(e, now) {
			stale = append(stale, id)
		}
	}
	s.mu.RUnlock()

	evicted := 0
	for _, id := range stale {
		s.mu.RLock()
		e, ok := s.data[id]
		s.mu.RUnlock()
		if ok && s.evict(ctx, id, e) {
			evicted++
		}
	}
	return evicted
}

// Run sweeps at the given interval until ctx is canceled.
func (s *Store) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Sweep(ctx)
		}
	}
}

// evict removes the entry if it is still the one observed as expired.
func (s *Store) evict(ctx context.Context, sessionID string, observed *entry) bool {
	s.mu.Lock()
	current, ok := s.data[sessionID]
	if !ok || current != observed {
		s.mu.Unlock()
		return false
	}
	delete(s.data, sessionID)
	s.mu.Unlock()

	if s.onEvict != nil {
		s.onEvict(ctx, observed.state.Clone())
	}
	return true
}
