package chat

import (
	"sync"
)

// Registry is the process-wide table of user id -> live session. It is the
// only mutable shared state in the gateway; every admit, disconnect,
// dispatch and relay path goes through it under one lock.
//
// At most one session per user: registering a user who already has an
// entry silently replaces it (last writer wins). The replaced connection
// is not closed here; its own read loop ends on its own terms and its
// stale unregister is rejected by the compare-and-remove rule below.
type Registry struct {
	mu     sync.RWMutex
	byUser map[string]*Session
}

func NewRegistry() *Registry {
	return &Registry{byUser: make(map[string]*Session)}
}

func (r *Registry) Register(s *Session) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byUser[s.Identity.UserID] = s
}

func (r *Registry) Lookup(userID string) (*Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.byUser[userID]
	return s, ok
}

// Unregister removes the entry only if it still points at the caller's own
// session, so a slow disconnect can never evict a session registered by a
// fast reconnect. Reports whether the entry was removed.
func (r *Registry) Unregister(userID string, s *Session) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	cur, ok := r.byUser[userID]
	if !ok || cur != s {
		return false
	}
	delete(r.byUser, userID)
	return true
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byUser)
}
