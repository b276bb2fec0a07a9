package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"styleme/internal/domain"
)

// Registry indexes live sessions by id.
type Registry struct {
	deps Deps

	mu       sync.RWMutex
	sessions map[string]*Session
}

func NewRegistry(deps Deps) *Registry {
	return &Registry{deps: deps, sessions: map[string]*Session{}}
}

// Create opens a session for owner, which may be empty for anonymous use.
func (r *Registry) Create(owner string) *Session {
	s := newSession(uuid.NewString(), owner, r.deps)
	r.mu.Lock()
	r.sessions[s.id] = s
	r.mu.Unlock()
	return s
}

// Get returns the session or domain.ErrSessionNotFound.
func (r *Registry) Get(id string) (*Session, error) {
	r.mu.RLock()
	s, ok := r.sessions[id]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrSessionNotFound, id)
	}
	return s, nil
}

// Delete resets and forgets a session.
func (r *Registry) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	s, ok := r.sessions[id]
	delete(r.sessions, id)
	r.mu.Unlock()
	if !ok {
		return fmt.Errorf("%w: %s", domain.ErrSessionNotFound, id)
	}
	return s.Reset(ctx)
}

// Len reports the number of live sessions.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// Sweep drops sessions created before cutoff. The handoff record is left in
// place so a confirmed selection outlives its session.
func (r *Registry) Sweep(cutoff time.Time) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for id, s := range r.sessions {
		if s.created.Before(cutoff) {
			s.mu.Lock()
			s.invalidateLocked()
			if s.cancelCapture != nil {
				s.cancelCapture()
				s.cancelCapture = nil
			}
			s.mu.Unlock()
			delete(r.sessions, id)
			n++
		}
	}
	return n
}
