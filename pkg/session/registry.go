// Package session hosts a process-wide registry of widget-state
// sessions. Each session serializes its script runs: Run holds the
// per-session lock for the full begin/finish cycle so two executions of
// the same session can never interleave.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	wstate "github.com/goliatone/go-widgetstate"
)

var ErrSessionNotFound = errors.New("session: not found")

// Registry tracks live sessions by id.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]*entry
	options  []wstate.SessionOption
}

type entry struct {
	runMu   sync.Mutex
	session *wstate.Session
}

// NewRegistry constructs an empty registry. The given options are
// applied to every session the registry creates.
func NewRegistry(options ...wstate.SessionOption) *Registry {
	return &Registry{
		sessions: map[string]*entry{},
		options:  options,
	}
}

// Create constructs a new session, registers it and returns it.
func (r *Registry) Create(options ...wstate.SessionOption) *Session {
	merged := make([]wstate.SessionOption, 0, len(r.options)+len(options))
	merged = append(merged, r.options...)
	merged = append(merged, options...)
	inner := wstate.NewSession(merged...)

	e := &entry{session: inner}
	r.mu.Lock()
	r.sessions[inner.ID()] = e
	r.mu.Unlock()
	return &Session{entry: e}
}

// Get returns the session with the given id.
func (r *Registry) Get(id string) (*Session, error) {
	r.mu.RLock()
	e, ok := r.sessions[id]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("session: get %q: %w", id, ErrSessionNotFound)
	}
	return &Session{entry: e}, nil
}

// Remove closes the session and drops it from the registry. Removing an
// unknown id is a no-op.
func (r *Registry) Remove(id string) {
	r.mu.Lock()
	e, ok := r.sessions[id]
	delete(r.sessions, id)
	r.mu.Unlock()
	if ok {
		e.runMu.Lock()
		e.session.Close()
		e.runMu.Unlock()
	}
}

// IDs returns the ids of all live sessions.
func (r *Registry) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.sessions))
	for id := range r.sessions {
		out = append(out, id)
	}
	return out
}

// Len reports the number of live sessions.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// Session wraps a registered session with run serialization.
type Session struct {
	entry *entry
}

// ID returns the session id.
func (s *Session) ID() string { return s.entry.session.ID() }

// Unwrap exposes the underlying session for ingest and rule wiring.
func (s *Session) Unwrap() *wstate.Session { return s.entry.session }

// Ingest forwards a client snapshot to the underlying session. Safe to
// call while a run is in flight; the snapshot coalesces into the next
// run's input.
func (s *Session) Ingest(states wstate.WidgetStates) {
	s.entry.session.Ingest(states)
}

// Run executes one script run under the session lock. The script
// function receives a context carrying the execution handle, so widget
// registrations inside it resolve against this run. Finish runs when fn
// returns nil; Abandon when it returns an error.
func (s *Session) Run(ctx context.Context, fn func(ctx context.Context) error) (wstate.WidgetStates, error) {
	s.entry.runMu.Lock()
	defer s.entry.runMu.Unlock()

	runCtx, exec, err := s.entry.session.Begin(ctx)
	if err != nil {
		return wstate.WidgetStates{}, err
	}
	if err := fn(runCtx); err != nil {
		exec.Abandon()
		return wstate.WidgetStates{}, err
	}
	return exec.Finish()
}
