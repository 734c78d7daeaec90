package session

import (
	"sync"
)

// Registry maps token IDs (JWT jti) to live session managers. Each device
// login owns one manager; middleware resolves the manager for every request.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]*Manager
	onCount  func(n int)
}

// NewRegistry constructs an empty session registry. onCount, when non-nil,
// receives the live session count after every mutation.
func NewRegistry(onCount func(n int)) *Registry {
	return &Registry{
		sessions: make(map[string]*Manager),
		onCount:  onCount,
	}
}

// Put registers a manager under the given session ID.
func (r *Registry) Put(id string, m *Manager) {
	if id == "" || m == nil {
		return
	}
	r.mu.Lock()
	r.sessions[id] = m
	n := len(r.sessions)
	r.mu.Unlock()
	r.notify(n)
}

// Get returns the manager for the session ID, or nil.
func (r *Registry) Get(id string) *Manager {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sessions[id]
}

// Remove drops the manager for the session ID.
func (r *Registry) Remove(id string) {
	r.mu.Lock()
	delete(r.sessions, id)
	n := len(r.sessions)
	r.mu.Unlock()
	r.notify(n)
}

// Len reports the number of live sessions.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// Sweep removes managers whose sessions are no longer authenticated (forced
// logouts, explicit logouts where the token was never revoked). Returns the
// number of sessions removed.
func (r *Registry) Sweep() int {
	r.mu.Lock()
	removed := 0
	for id, m := range r.sessions {
		if !m.IsAuthenticated() {
			delete(r.sessions, id)
			removed++
		}
	}
	n := len(r.sessions)
	r.mu.Unlock()
	r.notify(n)
	return removed
}

func (r *Registry) notify(n int) {
	if r.onCount != nil {
		r.onCount(n)
	}
}
