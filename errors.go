package wstate

import (
	"errors"
	"fmt"
)

var (
	// ErrKeyNotFound indicates a state lookup for a key that exists in no
	// layer.
	ErrKeyNotFound = errors.New("wstate: key not found")
	// ErrDuplicateWidgetID indicates two widgets resolved to the same
	// identity within one execution.
	ErrDuplicateWidgetID = errors.New("wstate: duplicate widget id")
	// ErrKeyRegistered indicates a script write to a key after the widget
	// with that key was already instantiated this execution.
	ErrKeyRegistered = errors.New("wstate: key registered this execution")
	// ErrReservedKey indicates user access to a generated widget key.
	ErrReservedKey = errors.New("wstate: reserved key")
	// ErrExecutionActive indicates Begin was called while another
	// execution holds the session.
	ErrExecutionActive = errors.New("wstate: execution already active")
	// ErrExecutionFinished indicates use of an execution after Finish or
	// Abandon.
	ErrExecutionFinished = errors.New("wstate: execution finished")
)

// errMissingMetadata marks a serialized record that cannot be resolved
// because no metadata was registered for its identity. This is expected
// when a stale client snapshot references a widget the current script no
// longer creates; callers treat the value as absent.
var errMissingMetadata = errors.New("wstate: missing widget metadata")

// KeyError reports a missing session-state key.
type KeyError struct {
	Key string
}

func (e *KeyError) Error() string {
	return fmt.Sprintf("wstate: state has no key %q; did you forget to initialize it?", e.Key)
}

func (e *KeyError) Unwrap() error {
	return ErrKeyNotFound
}

// DuplicateWidgetIDError carries enough context to let a human find which
// widget collided.
type DuplicateWidgetIDError struct {
	WidgetType string
	UserKey    string
}

func (e *DuplicateWidgetIDError) Error() string {
	if e.UserKey != "" {
		return fmt.Sprintf("wstate: multiple identical %s widgets with key %q; pass a unique key for each widget", e.WidgetType, e.UserKey)
	}
	return fmt.Sprintf("wstate: multiple identical %s widgets with the same generated key; pass a unique key to disambiguate them", e.WidgetType)
}

func (e *DuplicateWidgetIDError) Unwrap() error {
	return ErrDuplicateWidgetID
}

// RegisteredKeyError reports a script write to a key whose widget was
// already instantiated this execution.
type RegisteredKeyError struct {
	Key string
}

func (e *RegisteredKeyError) Error() string {
	return fmt.Sprintf("wstate: %q cannot be modified after the widget with that key is instantiated this run", e.Key)
}

func (e *RegisteredKeyError) Unwrap() error {
	return ErrKeyRegistered
}
