package wstate

import (
	"context"
	"fmt"
)

// WidgetSpec describes one widget registration: the widget's semantic
// content (for identity derivation), its wire kind, its codec and an
// optional change callback.
type WidgetSpec struct {
	// Type is the widget type name ("checkbox", "selectbox", ...).
	Type string
	// Config is the widget's semantic configuration; it is canonically
	// encoded and hashed when UserKey is empty.
	Config any
	// UserKey, when set, is used verbatim as the widget identity.
	UserKey string
	// Kind fixes the widget's wire representation.
	Kind ValueKind
	// Deserialize converts the raw wire value (nil when absent) into the
	// script-facing value.
	Deserialize Deserializer
	// Serialize converts the script-facing value back into the raw wire
	// value.
	Serialize Serializer
	// OnChange, when set, fires once per execution in which the widget's
	// value changed.
	OnChange WidgetCallback
	// Args are passed to OnChange on invocation.
	Args []any
}

func (spec WidgetSpec) validate() error {
	if spec.Type == "" {
		return fmt.Errorf("wstate: widget type is required")
	}
	if !spec.Kind.Valid() {
		return fmt.Errorf("wstate: %s widget: value kind is required", spec.Type)
	}
	if spec.Deserialize == nil {
		return fmt.Errorf("wstate: %s widget: deserializer is required", spec.Type)
	}
	if spec.Serialize == nil {
		return fmt.Errorf("wstate: %s widget: serializer is required", spec.Type)
	}
	return nil
}

// Registration is the result of registering a widget.
type Registration struct {
	// ID is the resolved widget identity.
	ID string
	// Value is the current merged value for the widget.
	Value any
	// SetClientValue reports that script code assigned this widget's
	// value this execution, so the outgoing wire message must carry an
	// authoritative value to overwrite whatever the client shows.
	SetClientValue bool
}

// Register ties a widget to its resolved identity for the current
// execution and returns its current value.
//
// Without an execution in ctx (a bare invocation, e.g. under test) it
// returns the widget's default and mutates nothing. Otherwise it records
// the identity in the per-execution seen set, installs execution-fresh
// metadata, seeds the default value when no layer holds one yet, and
// reads the merged value. Registering the same identity twice in one
// execution fails with a DuplicateWidgetIDError.
func Register(ctx context.Context, spec WidgetSpec) (Registration, error) {
	if err := spec.validate(); err != nil {
		return Registration{}, err
	}
	id, err := WidgetID(spec.Type, spec.Config, spec.UserKey)
	if err != nil {
		return Registration{}, err
	}

	exec, ok := FromContext(ctx)
	if !ok {
		value, err := spec.Deserialize(nil)
		if err != nil {
			return Registration{}, fmt.Errorf("wstate: default for %s widget: %w", spec.Type, err)
		}
		return Registration{ID: id, Value: value}, nil
	}
	return exec.register(id, spec)
}

type ctxKey struct{}

// NewContext returns a context carrying the execution handle. Widget
// registrations and state access resolve the active execution through
// this capability rather than any global.
func NewContext(ctx context.Context, exec *Execution) context.Context {
	return context.WithValue(ctx, ctxKey{}, exec)
}

// FromContext extracts the execution handle, if any. Absence is a normal
// condition: it means no session is live.
func FromContext(ctx context.Context) (*Execution, bool) {
	exec, ok := ctx.Value(ctxKey{}).(*Execution)
	return exec, ok && exec != nil
}
