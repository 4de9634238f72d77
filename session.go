package wstate

import (
	"context"

	"github.com/google/uuid"

	"github.com/goliatone/go-widgetstate/pkg/events"
)

// Session owns one logical client session: the session-state overlay and
// the outstanding coalesced wire snapshot awaiting the next execution.
//
// A session assumes a single logical owner: exactly one execution is
// active at a time and the session performs no internal locking. Callers
// that schedule reruns concurrently must serialize them (see
// pkg/session).
type Session struct {
	id      string
	state   *SessionState
	pending WidgetStates
	active  *Execution
	log     Logger
	emitter *events.Emitter
}

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithSessionID overrides the generated session identifier.
func WithSessionID(id string) SessionOption {
	return func(s *Session) {
		if id != "" {
			s.id = id
		}
	}
}

// WithLogger attaches a logger for engine events.
func WithLogger(logger Logger) SessionOption {
	return func(s *Session) {
		if logger == nil {
			s.log = noopLogger{}
			return
		}
		s.log = logger
	}
}

// WithChangeHooks attaches hooks that receive a widget.changed event for
// every widget whose value changed during an execution.
func WithChangeHooks(hooks ...events.Hook) SessionOption {
	return func(s *Session) {
		s.emitter = events.NewEmitter(events.Hooks(hooks), events.Config{Enabled: true})
	}
}

// NewSession constructs an empty session.
func NewSession(opts ...SessionOption) *Session {
	s := &Session{
		id:    uuid.NewString(),
		state: NewSessionState(),
		log:   noopLogger{},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// ID returns the session identifier.
func (s *Session) ID() string {
	return s.id
}

// State exposes the backing overlay. Most callers should go through an
// Execution's StateMap instead.
func (s *Session) State() *SessionState {
	return s.state
}

// Ingest coalesces an incoming client snapshot into the outstanding one.
// Coalescing rather than replacing preserves in-flight trigger values
// when a resend races a rerun.
func (s *Session) Ingest(states WidgetStates) {
	s.pending = CoalesceWidgetStates(s.pending, states)
}

// Begin starts an execution against the session. The outstanding snapshot
// is fed into the pending-widget layer and consumed. The returned context
// carries the execution handle for Register and StateMap access.
func (s *Session) Begin(ctx context.Context) (context.Context, *Execution, error) {
	if s.active != nil {
		return ctx, nil, ErrExecutionActive
	}
	s.state.beginRun()
	s.state.SetFromSnapshot(s.pending)
	s.pending = WidgetStates{}

	exec := &Execution{session: s, ctx: ctx}
	s.active = exec
	return NewContext(ctx, exec), exec, nil
}

// Close discards all session state.
func (s *Session) Close() {
	s.active = nil
	s.pending = WidgetStates{}
	s.state.Clear()
}

// Execution is the capability handle for one script run against a
// session. It is obtained from Session.Begin and ends with Finish or
// Abandon.
type Execution struct {
	session  *Session
	ctx      context.Context
	finished bool
}

// Session returns the owning session.
func (e *Execution) Session() *Session {
	return e.session
}

// State returns the script-facing view of the session state.
func (e *Execution) State() *StateMap {
	return &StateMap{state: e.session.state}
}

// Logger returns the session's logger for collaborators that degrade
// gracefully (element decode checks, upload bookkeeping).
func (e *Execution) Logger() Logger {
	return e.session.log
}

// register performs steps 2-7 of the registration protocol for a
// resolved identity.
func (e *Execution) register(id string, spec WidgetSpec) (Registration, error) {
	if e.finished {
		return Registration{}, ErrExecutionFinished
	}
	state := e.session.state
	if !state.markRegistered(id) {
		return Registration{}, &DuplicateWidgetIDError{WidgetType: spec.Type, UserKey: spec.UserKey}
	}

	state.SetMetadata(WidgetMetadata{
		ID:          id,
		Kind:        spec.Kind,
		Deserialize: spec.Deserialize,
		Serialize:   spec.Serialize,
		Callback:    spec.OnChange,
		Args:        spec.Args,
	})
	if err := state.seedDefault(id); err != nil {
		return Registration{}, err
	}
	value, err := state.valueForRegistration(id)
	if err != nil {
		return Registration{}, err
	}
	return Registration{
		ID:             id,
		Value:          value,
		SetClientValue: state.IsUserValue(id),
	}, nil
}

// Finish ends the execution: callbacks fire for every changed widget,
// triggers reset, identities that no longer registered are culled, the
// outgoing wire snapshot is produced and the pending layers compact into
// committed state.
func (e *Execution) Finish() (WidgetStates, error) {
	if e.finished {
		return WidgetStates{}, ErrExecutionFinished
	}
	e.finished = true
	session := e.session
	state := session.state

	changed := state.ChangedWidgetIDs()
	state.CallCallbacks()
	e.emitChanges(changed)
	state.ResetTriggers()
	state.Cull(state.registeredIDs())
	out, err := state.AsWidgetStates()
	state.Compact()
	session.active = nil
	if err != nil {
		return WidgetStates{}, err
	}
	return out, nil
}

// Abandon discards the execution without compacting: partially
// registered identities from a cancelled run must not leak into
// committed state.
func (e *Execution) Abandon() {
	if e.finished {
		return
	}
	e.finished = true
	e.session.state.dropRun()
	e.session.active = nil
}

func (e *Execution) emitChanges(ids []string) {
	session := e.session
	if !session.emitter.Enabled() {
		return
	}
	for _, id := range ids {
		kind := ""
		if meta, ok := session.state.Metadata(id); ok {
			kind = meta.Kind.String()
		}
		err := session.emitter.Emit(e.ctx, events.Event{
			Verb:      events.VerbWidgetChanged,
			SessionID: session.id,
			WidgetID:  id,
			ValueKind: kind,
		})
		if err != nil {
			session.log.Log(LogEvent{Op: "emit", WidgetID: id, Err: err})
		}
	}
}
