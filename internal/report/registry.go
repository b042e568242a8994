package report

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Registry holds one Accumulator per report session, keyed by the session
// UUID a client presents. Idle sessions expire after the configured TTL; the
// deadline refreshes on every access.
type Registry struct {
	mu       sync.Mutex
	sessions map[uuid.UUID]*session
	ttl      time.Duration
	now      func() time.Time
}

type session struct {
	acc      *Accumulator
	deadline time.Time
}

// NewRegistry returns a registry whose sessions expire ttl after their last
// access.
func NewRegistry(ttl time.Duration) *Registry {
	return newRegistry(ttl, time.Now)
}

func newRegistry(ttl time.Duration, now func() time.Time) *Registry {
	return &Registry{
		sessions: make(map[uuid.UUID]*session),
		ttl:      ttl,
		now:      now,
	}
}

// Session returns the accumulator for the given session ID, creating it on
// first use. An expired session is replaced by a fresh one.
func (r *Registry) Session(id uuid.UUID) *Accumulator {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	s, ok := r.sessions[id]
	if !ok || now.After(s.deadline) {
		s = &session{acc: newAccumulator(r.now)}
		r.sessions[id] = s
	}
	s.deadline = now.Add(r.ttl)
	return s.acc
}

// Delete removes a session outright.
func (r *Registry) Delete(id uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, id)
}

// Len reports the number of live sessions, expired ones included until the
// next sweep.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// Sweep drops every expired session and returns how many were removed.
func (r *Registry) Sweep() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	removed := 0
	for id, s := range r.sessions {
		if now.After(s.deadline) {
			delete(r.sessions, id)
			removed++
		}
	}
	return removed
}

// RunSweeper sweeps expired sessions on the given interval until the context
// is done.
func (r *Registry) RunSweeper(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.Sweep()
		}
	}
}
