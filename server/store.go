package server

import (
	"sync"
	"time"

	"ai_copywriter/generator"
)

type storedSession struct {
	sess     *generator.Session
	lastUsed time.Time
}

// sessionStore keeps sessions in memory and forgets those idle longer than ttl.
type sessionStore struct {
	mu       sync.Mutex
	ttl      time.Duration
	now      func() time.Time
	sessions map[string]*storedSession
}

func newStore(ttl time.Duration) *sessionStore {
	return &sessionStore{
		ttl:      ttl,
		now:      time.Now,
		sessions: make(map[string]*storedSession),
	}
}

func (s *sessionStore) set(id string, sess *generator.Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sweepLocked()
	s.sessions[id] = &storedSession{sess: sess, lastUsed: s.now()}
}

func (s *sessionStore) get(id string) (*generator.Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.sessions[id]
	if !ok {
		return nil, false
	}
	if s.expired(entry) {
		delete(s.sessions, id)
		return nil, false
	}
	entry.lastUsed = s.now()
	return entry.sess, true
}

func (s *sessionStore) delete(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.sessions[id]
	delete(s.sessions, id)
	return ok
}

func (s *sessionStore) len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

func (s *sessionStore) expired(e *storedSession) bool {
	return s.ttl > 0 && s.now().Sub(e.lastUsed) > s.ttl
}

func (s *sessionStore) sweepLocked() {
	for id, e := range s.sessions {
		if s.expired(e) {
			delete(s.sessions, id)
		}
	}
}
