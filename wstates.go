package wstate

import (
	"errors"
	"fmt"

	"github.com/goliatone/go-widgetstate/internal/deepcopy"
)

// record is exactly one of {serialized wire value, resolved value}. A
// record starts serialized when it arrives in a client snapshot and
// upgrades to resolved on first read; it never transitions back.
type record struct {
	wire     WidgetState
	value    any
	resolved bool
}

// widgetStates maps widget identities to value records plus the metadata
// needed to decode them. It is owned by SessionState; nothing else
// mutates it.
type widgetStates struct {
	states   map[string]record
	metadata map[string]WidgetMetadata
}

func newWidgetStates() *widgetStates {
	return &widgetStates{
		states:   map[string]record{},
		metadata: map[string]WidgetMetadata{},
	}
}

// get returns the resolved value for id, lazily deserializing a
// serialized record through its registered metadata. A serialized record
// without metadata reports errMissingMetadata: the identity belongs to a
// previous script version and must read as absent, not crash the run.
func (w *widgetStates) get(id string) (any, error) {
	rec, ok := w.states[id]
	if !ok {
		return nil, &KeyError{Key: id}
	}
	if rec.resolved {
		return rec.value, nil
	}

	meta, ok := w.metadata[id]
	if !ok {
		return nil, errMissingMetadata
	}
	raw, _ := rec.wire.valueOf(meta.Kind)
	value, err := meta.Deserialize(raw)
	if err != nil {
		return nil, fmt.Errorf("wstate: deserialize %q: %w", id, err)
	}
	w.states[id] = record{value: value, resolved: true}
	return value, nil
}

func (w *widgetStates) contains(id string) bool {
	_, ok := w.states[id]
	return ok
}

// setSerialized installs a wire record, used when ingesting a client
// snapshot.
func (w *widgetStates) setSerialized(state WidgetState) {
	w.states[state.ID] = record{wire: state}
}

// setResolved installs an already-deserialized value.
func (w *widgetStates) setResolved(id string, value any) {
	w.states[id] = record{value: value, resolved: true}
}

func (w *widgetStates) delete(id string) {
	delete(w.states, id)
}

func (w *widgetStates) ids() []string {
	out := make([]string, 0, len(w.states))
	for id := range w.states {
		out = append(out, id)
	}
	return out
}

// clear drops all value records. Metadata survives so widgets registered
// on a previous run keep their codecs and callbacks across compaction.
func (w *widgetStates) clear() {
	w.states = map[string]record{}
}

// cull drops every record whose identity is not in live; widgets that
// disappeared from the script must not leak values forward.
func (w *widgetStates) cull(live map[string]struct{}) {
	for id := range w.states {
		if _, ok := live[id]; !ok {
			delete(w.states, id)
		}
	}
}

func (w *widgetStates) setMetadata(meta WidgetMetadata) {
	w.metadata[meta.ID] = meta
}

func (w *widgetStates) meta(id string) (WidgetMetadata, bool) {
	meta, ok := w.metadata[id]
	return meta, ok
}

// serialized returns the wire form of id's current value. Identities
// without metadata cannot be round-tripped safely and report ok=false so
// callers omit them.
func (w *widgetStates) serialized(id string) (WidgetState, bool, error) {
	rec, ok := w.states[id]
	if !ok {
		return WidgetState{}, false, nil
	}
	if !rec.resolved {
		wire := rec.wire
		wire.ID = id
		return wire, true, nil
	}

	meta, ok := w.metadata[id]
	if !ok {
		return WidgetState{}, false, nil
	}
	raw, err := meta.Serialize(rec.value)
	if err != nil {
		return WidgetState{}, false, fmt.Errorf("wstate: serialize %q: %w", id, err)
	}
	state, err := stateWithRaw(id, meta.Kind, raw)
	if err != nil {
		return WidgetState{}, false, err
	}
	return state, true, nil
}

// asWidgetStates serializes the store into a wire snapshot. Unresolved
// records pass through verbatim; resolved records need metadata to
// serialize and are omitted without it.
func (w *widgetStates) asWidgetStates() (WidgetStates, error) {
	out := WidgetStates{}
	for _, id := range w.ids() {
		state, ok, err := w.serialized(id)
		if err != nil {
			return WidgetStates{}, err
		}
		if !ok {
			continue
		}
		out.Widgets = append(out.Widgets, state)
	}
	return out, nil
}

// callCallback invokes id's registered callback with its stored
// arguments. Identities without a callback, or wire-only identities that
// never registered, are a no-op.
func (w *widgetStates) callCallback(id string) {
	meta, ok := w.metadata[id]
	if !ok || meta.Callback == nil {
		return
	}
	meta.Callback(deepcopy.Value(meta.Args)...)
}

// stateWithRaw builds a tagged wire value carrying raw in the field
// declared by kind.
func stateWithRaw(id string, kind ValueKind, raw any) (WidgetState, error) {
	mismatch := func() (WidgetState, error) {
		return WidgetState{}, fmt.Errorf("wstate: serializer for %q produced %T, want %s", id, raw, kind)
	}
	switch kind {
	case KindTrigger:
		v, ok := raw.(bool)
		if !ok {
			return mismatch()
		}
		return TriggerState(id, v), nil
	case KindBool:
		v, ok := raw.(bool)
		if !ok {
			return mismatch()
		}
		return BoolState(id, v), nil
	case KindInt:
		v, ok := asInt64(raw)
		if !ok {
			return mismatch()
		}
		return IntState(id, v), nil
	case KindDouble:
		v, ok := asFloat64(raw)
		if !ok {
			return mismatch()
		}
		return DoubleState(id, v), nil
	case KindString:
		v, ok := raw.(string)
		if !ok {
			return mismatch()
		}
		return StringState(id, v), nil
	case KindDoubleArray:
		v, ok := asFloat64Slice(raw)
		if !ok {
			return mismatch()
		}
		return DoubleArrayState(id, v), nil
	case KindIntArray:
		v, ok := asInt64Slice(raw)
		if !ok {
			return mismatch()
		}
		return IntArrayState(id, v), nil
	case KindStringArray:
		v, ok := raw.([]string)
		if !ok {
			return mismatch()
		}
		return StringArrayState(id, v), nil
	case KindJSON:
		switch v := raw.(type) {
		case []byte:
			return JSONState(id, v), nil
		case string:
			return JSONState(id, []byte(v)), nil
		}
		return mismatch()
	default:
		return WidgetState{}, fmt.Errorf("wstate: invalid value kind for %q", id)
	}
}

func asInt64(raw any) (int64, bool) {
	switch v := raw.(type) {
	case int64:
		return v, true
	case int:
		return int64(v), true
	case int32:
		return int64(v), true
	}
	return 0, false
}

func asFloat64(raw any) (float64, bool) {
	switch v := raw.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	}
	return 0, false
}

func asFloat64Slice(raw any) ([]float64, bool) {
	switch v := raw.(type) {
	case []float64:
		return v, true
	case []int:
		out := make([]float64, len(v))
		for i, n := range v {
			out[i] = float64(n)
		}
		return out, true
	}
	return nil, false
}

func asInt64Slice(raw any) ([]int64, bool) {
	switch v := raw.(type) {
	case []int64:
		return v, true
	case []int:
		out := make([]int64, len(v))
		for i, n := range v {
			out[i] = int64(n)
		}
		return out, true
	}
	return nil, false
}

// isMissing reports whether err is the recoverable "value absent" class:
// a missing key or a serialized record whose metadata is gone.
func isMissing(err error) bool {
	return errors.Is(err, ErrKeyNotFound) || errors.Is(err, errMissingMetadata)
}
