package service

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// SessionStore keeps one Session per UI session id, in memory only.
// Sessions that are idle longer than the TTL are evicted by a background loop.
type SessionStore struct {
	newSession func() *Session
	ttl        time.Duration
	interval   time.Duration
	logger     Logger
	now        func() time.Time

	mu       sync.RWMutex
	sessions map[string]*Session

	stopChan chan struct{}
	wg       sync.WaitGroup
	runMu    sync.Mutex
	running  bool
}

// NewSessionStore creates a new session store.
// Follows Dependency Injection - sessions are built by the injected factory.
func NewSessionStore(newSession func() *Session, ttl time.Duration, logger Logger) *SessionStore {
	interval := ttl / 2
	if interval < time.Second {
		interval = time.Second
	}

	return &SessionStore{
		newSession: newSession,
		ttl:        ttl,
		interval:   interval,
		logger:     logger,
		now:        time.Now,
		sessions:   make(map[string]*Session),
		stopChan:   make(chan struct{}),
	}
}

// Get returns the session for id.
func (s *SessionStore) Get(id string) (*Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[id]
	return session, ok
}

// GetOrCreate returns the session for id, creating a new one under a fresh id
// when id is empty or unknown.
func (s *SessionStore) GetOrCreate(id string) (string, *Session) {
	if id != "" {
		if session, ok := s.Get(id); ok {
			return id, session
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	newID := uuid.NewString()
	session := s.newSession()
	s.sessions[newID] = session
	return newID, session
}

// Len returns the number of live sessions.
func (s *SessionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// EvictIdle removes sessions that are not running and were last active before now-ttl.
// Returns the number of sessions removed.
func (s *SessionStore) EvictIdle() int {
	cutoff := s.now().Add(-s.ttl)

	s.mu.Lock()
	defer s.mu.Unlock()

	evicted := 0
	for id, session := range s.sessions {
		lastActive, idle := session.idleSince()
		if idle && lastActive.Before(cutoff) {
			delete(s.sessions, id)
			evicted++
		}
	}
	return evicted
}

// Start begins periodic eviction.
// Non-blocking - launches goroutine and returns immediately.
func (s *SessionStore) Start() {
	s.runMu.Lock()
	if s.running || s.ttl <= 0 {
		s.runMu.Unlock()
		return
	}
	s.running = true
	s.runMu.Unlock()

	s.logger.Printf("Session store: evicting sessions idle for more than %v", s.ttl)

	s.wg.Add(1)
	go s.evictLoop()
}

// Stop gracefully stops the eviction loop.
func (s *SessionStore) Stop() {
	s.runMu.Lock()
	if !s.running {
		s.runMu.Unlock()
		return
	}
	s.running = false
	s.runMu.Unlock()

	close(s.stopChan)
	s.wg.Wait()
}

func (s *SessionStore) evictLoop() {
	defer s.wg.Done()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if n := s.EvictIdle(); n > 0 {
				s.logger.Printf("Session store: evicted %d idle sessions (%d remaining)", n, s.Len())
			}
		case <-s.stopChan:
			return
		}
	}
}
