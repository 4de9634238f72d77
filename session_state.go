package wstate

import (
	"fmt"
	"reflect"
	"sort"
	"strings"
)

// Layer names the overlay level that supplies a key's value.
type Layer int

const (
	// LayerNone reports a key present in no layer.
	LayerNone Layer = iota
	// LayerCommitted holds values carried over from previous executions.
	LayerCommitted
	// LayerWidget holds values originating from widget registration this
	// execution.
	LayerWidget
	// LayerUser holds values the script assigned directly this execution.
	LayerUser
)

func (l Layer) String() string {
	switch l {
	case LayerCommitted:
		return "committed"
	case LayerWidget:
		return "widget"
	case LayerUser:
		return "user"
	default:
		return "none"
	}
}

// SessionState is the three-layer overlay backing the script-visible
// state mapping. Reads shadow committed with pending-widget and
// pending-widget with pending-user; the pending layers fold into
// committed at the end of every execution.
//
// SessionState assumes serialized access: exactly one execution runs
// against it at a time and it carries no internal locking.
type SessionState struct {
	old        map[string]any
	newSession map[string]any
	newWidget  *widgetStates
	registered map[string]struct{}
}

// NewSessionState constructs an empty overlay.
func NewSessionState() *SessionState {
	return &SessionState{
		old:        map[string]any{},
		newSession: map[string]any{},
		newWidget:  newWidgetStates(),
		registered: map[string]struct{}{},
	}
}

// Get returns the merged value for key, later layers shadowing earlier
// ones. A serialized widget record resolves lazily on this read.
func (s *SessionState) Get(key string) (any, error) {
	if value, ok := s.newSession[key]; ok {
		return value, nil
	}
	value, err := s.newWidget.get(key)
	if err == nil {
		return value, nil
	}
	if !isMissing(err) {
		return nil, err
	}
	if value, ok := s.old[key]; ok {
		return value, nil
	}
	return nil, &KeyError{Key: key}
}

// Set writes key into the pending-user layer. Writing a key that was
// already registered as a widget identity this execution fails: a
// widget's value cannot be overridden after the widget was instantiated.
func (s *SessionState) Set(key string, value any) error {
	if _, ok := s.registered[key]; ok {
		return &RegisteredKeyError{Key: key}
	}
	s.newSession[key] = value
	return nil
}

// Delete removes key from every layer that contains it.
func (s *SessionState) Delete(key string) error {
	_, inSession := s.newSession[key]
	inWidget := s.newWidget.contains(key)
	_, inOld := s.old[key]
	if !inSession && !inWidget && !inOld {
		return &KeyError{Key: key}
	}
	delete(s.newSession, key)
	s.newWidget.delete(key)
	delete(s.old, key)
	return nil
}

// Committed returns key's committed-layer value, ignoring the pending
// layers. Before the pending layers fold in, this is still the value
// from the previous execution.
func (s *SessionState) Committed(key string) (any, bool) {
	value, ok := s.old[key]
	return value, ok
}

// Contains reports whether key resolves in any layer.
func (s *SessionState) Contains(key string) bool {
	_, err := s.Get(key)
	return err == nil
}

// Origin reports which layer currently supplies key's value, respecting
// shadowing order.
func (s *SessionState) Origin(key string) Layer {
	if _, ok := s.newSession[key]; ok {
		return LayerUser
	}
	if s.newWidget.contains(key) {
		if _, err := s.newWidget.get(key); err == nil {
			return LayerWidget
		}
	}
	if _, ok := s.old[key]; ok {
		return LayerCommitted
	}
	return LayerNone
}

// Keys returns the sorted union of keys across all layers.
func (s *SessionState) Keys() []string {
	seen := map[string]struct{}{}
	for key := range s.old {
		seen[key] = struct{}{}
	}
	for _, key := range s.newWidget.ids() {
		seen[key] = struct{}{}
	}
	for key := range s.newSession {
		seen[key] = struct{}{}
	}
	out := make([]string, 0, len(seen))
	for key := range seen {
		out = append(out, key)
	}
	sort.Strings(out)
	return out
}

// Len reports the number of keys in the merged view.
func (s *SessionState) Len() int {
	return len(s.Keys())
}

// Merged materializes the merged view. Keys whose value cannot be
// resolved (stale wire records) are omitted.
func (s *SessionState) Merged() map[string]any {
	out := map[string]any{}
	for _, key := range s.Keys() {
		value, err := s.Get(key)
		if err != nil {
			continue
		}
		out[key] = value
	}
	return out
}

// Filtered is the merged view minus generated widget keys; it backs every
// user-facing enumeration.
func (s *SessionState) Filtered() map[string]any {
	out := s.Merged()
	for key := range out {
		if strings.HasPrefix(key, GeneratedKeyPrefix) {
			delete(out, key)
		}
	}
	return out
}

// Compact folds pending-widget then pending-user into committed
// (pending-user wins ties) and clears both pending layers. The merged
// view is unchanged by compaction. Widget records that cannot be resolved
// are dropped rather than folded.
func (s *SessionState) Compact() {
	for _, id := range s.newWidget.ids() {
		value, err := s.newWidget.get(id)
		if err != nil {
			continue
		}
		s.old[id] = value
	}
	for key, value := range s.newSession {
		s.old[key] = value
	}
	s.newSession = map[string]any{}
	s.newWidget.clear()
}

// Clear discards the whole overlay, including registered metadata.
func (s *SessionState) Clear() {
	s.old = map[string]any{}
	s.newSession = map[string]any{}
	s.newWidget = newWidgetStates()
	s.registered = map[string]struct{}{}
}

// SetFromSnapshot ingests a client wire snapshot into the pending-widget
// layer as serialized records.
func (s *SessionState) SetFromSnapshot(states WidgetStates) {
	for _, state := range states.Widgets {
		s.newWidget.setSerialized(state)
	}
}

// WidgetChanged compares id's pending-widget value against committed,
// by value. Unresolvable pending values compare as nil.
func (s *SessionState) WidgetChanged(id string) bool {
	newValue, err := s.newWidget.get(id)
	if err != nil {
		newValue = nil
	}
	oldValue := s.old[id]
	return !reflect.DeepEqual(newValue, oldValue)
}

// CallCallbacks fires the callback of every pending-widget identity
// whose value changed since the last execution. Every changed widget
// fires exactly once; iteration order is unspecified.
func (s *SessionState) CallCallbacks() {
	for _, id := range s.newWidget.ids() {
		if s.WidgetChanged(id) {
			s.newWidget.callCallback(id)
		}
	}
}

// ChangedWidgetIDs returns the pending-widget identities whose value
// changed since the last execution.
func (s *SessionState) ChangedWidgetIDs() []string {
	var out []string
	for _, id := range s.newWidget.ids() {
		if s.WidgetChanged(id) {
			out = append(out, id)
		}
	}
	sort.Strings(out)
	return out
}

// ResetTriggers forces every trigger-kind value to false in both the
// committed and pending-widget layers. A trigger reads true at most once.
func (s *SessionState) ResetTriggers() {
	for _, id := range s.newWidget.ids() {
		if meta, ok := s.newWidget.meta(id); ok && meta.Kind == KindTrigger {
			s.newWidget.setResolved(id, false)
		}
	}
	for id := range s.old {
		if meta, ok := s.newWidget.meta(id); ok && meta.Kind == KindTrigger {
			s.old[id] = false
		}
	}
}

// Cull drops pending-widget records whose identity is not in live.
func (s *SessionState) Cull(live map[string]struct{}) {
	s.newWidget.cull(live)
}

// SetMetadata installs execution-fresh metadata for a widget identity.
func (s *SessionState) SetMetadata(meta WidgetMetadata) {
	s.newWidget.setMetadata(meta)
}

// Metadata returns the metadata registered for id.
func (s *SessionState) Metadata(id string) (WidgetMetadata, bool) {
	return s.newWidget.meta(id)
}

// AsWidgetStates serializes the pending-widget layer into an outgoing
// wire snapshot; identities without metadata are omitted.
func (s *SessionState) AsWidgetStates() (WidgetStates, error) {
	return s.newWidget.asWidgetStates()
}

// beginRun starts a fresh execution scope for duplicate detection and the
// write-after-registration guard.
func (s *SessionState) beginRun() {
	s.registered = map[string]struct{}{}
}

// markRegistered records id in the per-execution seen set, reporting
// false when it was already present.
func (s *SessionState) markRegistered(id string) bool {
	if _, ok := s.registered[id]; ok {
		return false
	}
	s.registered[id] = struct{}{}
	return true
}

// registeredIDs snapshots the identities registered this execution.
func (s *SessionState) registeredIDs() map[string]struct{} {
	out := make(map[string]struct{}, len(s.registered))
	for id := range s.registered {
		out[id] = struct{}{}
	}
	return out
}

// seedDefault guarantees id has a defined value before any client
// interaction by writing deserialize(nil) into committed when no layer
// holds a value yet.
func (s *SessionState) seedDefault(id string) error {
	if s.Contains(id) {
		return nil
	}
	meta, ok := s.newWidget.meta(id)
	if !ok {
		return fmt.Errorf("wstate: seed default for unregistered widget %q", id)
	}
	value, err := meta.Deserialize(nil)
	if err != nil {
		return fmt.Errorf("wstate: default for %q: %w", id, err)
	}
	s.old[id] = value
	return nil
}

// valueForRegistration reads the merged value for id, falling back to
// deserialize(nil) when the stored value cannot be resolved.
func (s *SessionState) valueForRegistration(id string) (any, error) {
	value, err := s.Get(id)
	if err == nil {
		return value, nil
	}
	if !isMissing(err) {
		return nil, err
	}
	meta, ok := s.newWidget.meta(id)
	if !ok {
		return nil, fmt.Errorf("wstate: no metadata for widget %q", id)
	}
	return meta.Deserialize(nil)
}

// IsUserValue reports whether key's value was explicitly assigned by
// script code this execution.
func (s *SessionState) IsUserValue(key string) bool {
	_, ok := s.newSession[key]
	return ok
}

// dropRun discards both pending layers without folding them into
// committed; used when an execution is abandoned.
func (s *SessionState) dropRun() {
	s.newSession = map[string]any{}
	s.newWidget.clear()
	s.registered = map[string]struct{}{}
}
