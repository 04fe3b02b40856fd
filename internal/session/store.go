// Package session holds the server-side record of authenticated users.
// Sessions live only for the process lifetime; a restart logs everyone out.
package session

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mss-edu/school-api/internal/models"
)

// Session pairs a live user identity with its issue time. A session is
// either fully populated or absent from the store; there is no partial
// state.
type Session struct {
	ID       string
	User     models.UserInfo
	IssuedAt time.Time
}

// Store is an in-memory session registry keyed by session ID (the token's
// jti claim). Safe for concurrent use.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]Session
	now      func() time.Time
}

// NewStore constructs an empty session store.
func NewStore() *Store {
	return &Store{sessions: make(map[string]Session), now: time.Now}
}

// Create registers a session for an authenticated user and returns it.
// Callers must only invoke this after credential verification succeeded;
// the store records outcomes, it does not verify anything.
func (s *Store) Create(user models.UserInfo) Session {
	sess := Session{ID: uuid.NewString(), User: user, IssuedAt: s.now().UTC()}
	s.mu.Lock()
	s.sessions[sess.ID] = sess
	s.mu.Unlock()
	return sess
}

// Get looks up a live session by ID.
func (s *Store) Get(id string) (Session, bool) {
	s.mu.RLock()
	sess, ok := s.sessions[id]
	s.mu.RUnlock()
	return sess, ok
}

// Delete removes a session unconditionally. Deleting an absent session is
// a no-op.
func (s *Store) Delete(id string) {
	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()
}

// Len reports the number of live sessions.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Reset drops every session, returning the store to its initial state.
func (s *Store) Reset() {
	s.mu.Lock()
	s.sessions = make(map[string]Session)
	s.mu.Unlock()
}
