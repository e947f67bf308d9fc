package session

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Store is the keyed lifecycle container for sessions. Creation, lookup and
// deletion are safe across goroutines; mutation of an individual session is
// serialized by that session's own lock, not by the store.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

func NewStore() *Store {
	return &Store{
		sessions: make(map[string]*Session),
	}
}

// Create allocates a new session with a unique id.
func (st *Store) Create() *Session {
	sess := &Session{
		ID:        uuid.NewString(),
		State:     StateIdle,
		Draft:     make(map[string]string),
		CreatedAt: time.Now(),
	}

	st.mu.Lock()
	defer st.mu.Unlock()
	st.sessions[sess.ID] = sess

	return sess
}

// Get returns the session for id, or nil if it does not exist.
func (st *Store) Get(id string) *Session {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return st.sessions[id]
}

// Delete removes a session. Deleting an unknown id is a no-op.
func (st *Store) Delete(id string) {
	st.mu.Lock()
	defer st.mu.Unlock()
	delete(st.sessions, id)
}

// Len reports the number of live sessions.
func (st *Store) Len() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.sessions)
}
