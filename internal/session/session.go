// Package session keeps one search controller and dashboard per browser.
package session

import (
	"context"
	"sync"
	"time"

	"github.com/alexivanou/geoweather/internal/dashboard"
	"github.com/alexivanou/geoweather/internal/geolocation"
	"github.com/alexivanou/geoweather/internal/model"
	"github.com/alexivanou/geoweather/internal/pointer"
	"github.com/alexivanou/geoweather/internal/search"
	"github.com/alexivanou/geoweather/internal/weather"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Session is one browser's view of the application
type Session struct {
	ID        string
	Search    *search.Controller
	Dashboard *dashboard.Dashboard
	Geo       *geolocation.Reported
	Pointer   *pointer.Bus

	mu       sync.Mutex
	lastSeen time.Time
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	s.lastSeen = now
	s.mu.Unlock()
}

func (s *Session) idleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

// Close disposes the session's listeners
func (s *Session) Close() {
	s.Search.Close()
}

// Client is the subset of the weather client a session needs
type Client interface {
	weather.Forecaster
	weather.Geocoder
}

// Store creates and tracks sessions
type Store struct {
	client Client
	seed   model.Location
	ttl    time.Duration
	logger *zap.Logger
	now    func() time.Time

	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewStore creates a session store. Sessions idle for longer than ttl are
// removed by Sweep.
func NewStore(client Client, seed model.Location, ttl time.Duration, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{
		client:   client,
		seed:     seed,
		ttl:      ttl,
		logger:   logger,
		now:      time.Now,
		sessions: make(map[string]*Session),
	}
}

// Get returns the session for id, if it exists, and marks it active.
// The touch happens under the store lock so a concurrent Sweep either
// removes the session before Get sees it or observes the fresh timestamp.
func (st *Store) Get(id string) (*Session, bool) {
	st.mu.RLock()
	defer st.mu.RUnlock()
	s, ok := st.sessions[id]
	if ok {
		s.touch(st.now())
	}
	return s, ok
}

// Create builds a new session and loads the seed location's weather
func (st *Store) Create(ctx context.Context) *Session {
	s := &Session{
		ID:       uuid.New().String(),
		Geo:      geolocation.NewReported(),
		Pointer:  pointer.NewBus(),
		lastSeen: st.now(),
	}
	logger := st.logger.With(zap.String("session_id", s.ID))

	s.Dashboard = dashboard.New(st.client, st.seed, logger)
	s.Search = search.NewController(search.Options{
		Geocoder: st.client,
		Locator:  s.Geo,
		Pointer:  s.Pointer,
		OnSelect: s.Dashboard.SelectLocation,
		Logger:   logger,
	})
	s.Search.SetCurrentLocation(st.seed)

	st.mu.Lock()
	st.sessions[s.ID] = s
	st.mu.Unlock()

	logger.Info("Session created")
	s.Dashboard.Start(ctx)
	return s
}

// GetOrCreate returns the session for id or creates a new one
func (st *Store) GetOrCreate(ctx context.Context, id string) (*Session, bool) {
	if id != "" {
		if s, ok := st.Get(id); ok {
			return s, false
		}
	}
	return st.Create(ctx), true
}

// Len returns the number of live sessions
func (st *Store) Len() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.sessions)
}

// Sweep closes and removes idle sessions, returning how many were removed
func (st *Store) Sweep() int {
	cutoff := st.now().Add(-st.ttl)

	st.mu.Lock()
	var expired []*Session
	for id, s := range st.sessions {
		if s.idleSince().Before(cutoff) {
			expired = append(expired, s)
			delete(st.sessions, id)
		}
	}
	st.mu.Unlock()

	for _, s := range expired {
		s.Close()
	}
	if len(expired) > 0 {
		st.logger.Info("Expired idle sessions", zap.Int("count", len(expired)))
	}
	return len(expired)
}

// Run sweeps idle sessions every interval until ctx is done
func (st *Store) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 || st.ttl <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			st.Sweep()
		}
	}
}

// CloseAll disposes every session
func (st *Store) CloseAll() {
	st.mu.Lock()
	sessions := st.sessions
	st.sessions = make(map[string]*Session)
	st.mu.Unlock()

	for _, s := range sessions {
		s.Close()
	}
}
