// Package runtime wires sessions, fan-out and the accept loop together.
// It orchestrates the relay without containing domain rules.
package runtime

import (
	"sync"

	"chat-relay/domain"
)

// Registry is the single source of truth for currently joined sessions.
// A session is present if and only if its handler completed the name
// handshake and has not yet observed disconnection. The mutex is held only
// for the duration of the map operation itself, never across a network write.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]*domain.Session
}

func NewRegistry() *Registry {
	return &Registry{
		sessions: make(map[string]*domain.Session),
	}
}

// Insert registers a named session. Returns false if the id is already
// present, leaving the existing entry untouched.
func (r *Registry) Insert(session *domain.Session) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.sessions[session.ID]; ok {
		return false
	}
	r.sessions[session.ID] = session
	return true
}

// Remove deletes the session and reports its name. Removing an unknown id is
// a no-op signalled by ok=false; concurrent disconnect detection and
// handshake aborts can race, so removal must stay idempotent.
func (r *Registry) Remove(id string) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	session, ok := r.sessions[id]
	if !ok {
		return "", false
	}
	delete(r.sessions, id)
	return session.Name, true
}

// Snapshot returns the current sessions as a consistent copy for broadcast
// targeting. Callers deliver outside the registry lock.
func (r *Registry) Snapshot() []*domain.Session {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*domain.Session, 0, len(r.sessions))
	for _, session := range r.sessions {
		out = append(out, session)
	}
	return out
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// CloseAll releases every registered transport. Handlers blocked on a read
// then observe the closed connection and run their normal teardown path.
func (r *Registry) CloseAll() {
	for _, session := range r.Snapshot() {
		session.Close()
	}
}
