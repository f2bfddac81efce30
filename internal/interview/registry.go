package interview

import (
	"context"
	"sync"
	"time"

	"talentscout/internal/errors"
	"talentscout/internal/prompts"
)

type entry struct {
	mu      sync.Mutex
	session *Session
}

// Registry holds the live sessions of a server. Each session is guarded by
// its own mutex so turns of one session never interleave.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]*entry
	engine   *Engine
	logger   *errors.Logger
}

// NewRegistry creates an empty registry backed by engine
func NewRegistry(engine *Engine, logger *errors.Logger) *Registry {
	if logger == nil {
		logger = errors.NewNopLogger()
	}
	return &Registry{
		sessions: make(map[string]*entry),
		engine:   engine,
		logger:   logger,
	}
}

// Create registers a new session
func (r *Registry) Create(lang prompts.Language) *Session {
	s := r.engine.NewSession(lang)

	r.mu.Lock()
	r.sessions[s.ID] = &entry{session: s}
	r.mu.Unlock()

	r.logger.Debug("Session created", "session_id", s.ID, "language", string(s.Language))
	return s
}

func (r *Registry) lookup(id string) (*entry, error) {
	r.mu.RLock()
	e, ok := r.sessions[id]
	r.mu.RUnlock()
	if !ok {
		return nil, errors.NewValidationError(errors.ErrCodeSessionNotFound, "session not found", nil).
			WithContext("session_id", id)
	}
	return e, nil
}

// WithSession runs fn while holding the session's lock
func (r *Registry) WithSession(id string, fn func(*Session) error) error {
	e, err := r.lookup(id)
	if err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return fn(e.session)
}

// Get returns a snapshot of the session
func (r *Registry) Get(id string) (Snapshot, error) {
	var snap Snapshot
	err := r.WithSession(id, func(s *Session) error {
		snap = s.Snapshot()
		return nil
	})
	return snap, err
}

// Delete removes a session, reporting whether it existed
func (r *Registry) Delete(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.sessions[id]; !ok {
		return false
	}
	delete(r.sessions, id)
	return true
}

// Len returns the number of live sessions
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// PruneIdle removes sessions not updated within maxAge. Sessions in the
// middle of a turn are skipped.
func (r *Registry) PruneIdle(maxAge time.Duration) int {
	cutoff := time.Now().Add(-maxAge)

	r.mu.Lock()
	defer r.mu.Unlock()

	pruned := 0
	for id, e := range r.sessions {
		if !e.mu.TryLock() {
			continue
		}
		idle := e.session.UpdatedAt.Before(cutoff)
		e.mu.Unlock()
		if idle {
			delete(r.sessions, id)
			pruned++
		}
	}
	if pruned > 0 {
		r.logger.Info("Pruned idle sessions", "count", pruned, "max_age", maxAge.String())
	}
	return pruned
}

// RunPruner prunes idle sessions every interval until ctx is done
func (r *Registry) RunPruner(ctx context.Context, interval, maxAge time.Duration) error {
	if interval <= 0 || maxAge <= 0 {
		<-ctx.Done()
		return nil
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			r.PruneIdle(maxAge)
		}
	}
}
