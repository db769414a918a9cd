package session

import (
	"context"
	"sync"
	"time"

	errs "github.com/matzehuels/swimlane/pkg/errors"
	"github.com/matzehuels/swimlane/pkg/store"
)

// Registry holds open sessions and expires those idle longer than the TTL.
type Registry struct {
	mu       sync.Mutex
	opts     Options
	sessions map[string]*entry
	now      func() time.Time
}

type entry struct {
	sess      *Session
	expiresAt time.Time
}

// NewRegistry creates an empty registry.
func NewRegistry(opts Options) *Registry {
	return &Registry{
		opts:     opts.withDefaults(),
		sessions: make(map[string]*entry),
		now:      time.Now,
	}
}

// TTL returns the idle timeout.
func (r *Registry) TTL() time.Duration { return r.opts.TTL }

// Open starts a session on doc.
func (r *Registry) Open(doc *store.Document) (*Session, error) {
	s, err := New(doc, r.opts)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	r.sessions[s.ID] = &entry{sess: s, expiresAt: r.now().Add(r.opts.TTL)}
	n := len(r.sessions)
	r.mu.Unlock()

	r.opts.Logger.Debug("session opened", "session", s.ID, "diagram", s.DiagramID, "open", n)
	return s, nil
}

// Get returns an open session and extends its lifetime. An expired session
// is removed and reported as SESSION_EXPIRED.
func (r *Registry) Get(id string) (*Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.sessions[id]
	if !ok {
		return nil, errs.New(errs.ErrCodeSessionNotFound, "session %s not found", id)
	}
	now := r.now()
	if now.After(e.expiresAt) {
		delete(r.sessions, id)
		return nil, errs.New(errs.ErrCodeSessionExpired, "session %s expired", id)
	}
	e.expiresAt = now.Add(r.opts.TTL)
	return e.sess, nil
}

// Close ends a session.
func (r *Registry) Close(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.sessions[id]; !ok {
		return errs.New(errs.ErrCodeSessionNotFound, "session %s not found", id)
	}
	delete(r.sessions, id)
	return nil
}

// Len returns the number of open sessions, expired ones included until the
// next sweep.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// Sweep removes expired sessions and returns how many were removed.
func (r *Registry) Sweep() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	n := 0
	for id, e := range r.sessions {
		if now.After(e.expiresAt) {
			delete(r.sessions, id)
			n++
		}
	}
	if n > 0 {
		r.opts.Logger.Info("expired idle sessions", "count", n)
	}
	return n
}

// Run sweeps every interval until ctx is done.
func (r *Registry) Run(ctx context.Context, interval time.Duration) {
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
