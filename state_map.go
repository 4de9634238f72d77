package wstate

import (
	"context"
	"fmt"
	"sort"
	"strings"
)

// StateMap is the script-facing mapping over a session's merged state.
// It rejects access to generated widget keys and excludes them from
// enumeration; everything else delegates to the overlay.
type StateMap struct {
	state *SessionState
}

// StateFromContext returns the script-facing state for the execution in
// ctx. ok is false when no execution is live, in which case callers
// should treat state as absent rather than panic.
func StateFromContext(ctx context.Context) (*StateMap, bool) {
	exec, ok := FromContext(ctx)
	if !ok {
		return nil, false
	}
	return exec.State(), true
}

func validateKey(key string) error {
	if strings.HasPrefix(key, GeneratedKeyPrefix) {
		return fmt.Errorf("%w: keys beginning with %q are reserved", ErrReservedKey, GeneratedKeyPrefix)
	}
	return nil
}

// Get returns the merged value for key.
func (m *StateMap) Get(key string) (any, error) {
	if err := validateKey(key); err != nil {
		return nil, err
	}
	return m.state.Get(key)
}

// GetDefault returns the merged value for key, or fallback when the key
// is absent.
func (m *StateMap) GetDefault(key string, fallback any) any {
	value, err := m.Get(key)
	if err != nil {
		return fallback
	}
	return value
}

// Set assigns key in the pending-user layer.
func (m *StateMap) Set(key string, value any) error {
	if err := validateKey(key); err != nil {
		return err
	}
	return m.state.Set(key, value)
}

// Delete removes key from every layer.
func (m *StateMap) Delete(key string) error {
	if err := validateKey(key); err != nil {
		return err
	}
	return m.state.Delete(key)
}

// Contains reports whether key resolves to a value.
func (m *StateMap) Contains(key string) bool {
	if err := validateKey(key); err != nil {
		return false
	}
	return m.state.Contains(key)
}

// Keys returns the sorted user-visible keys; generated widget keys are
// excluded.
func (m *StateMap) Keys() []string {
	filtered := m.state.Filtered()
	out := make([]string, 0, len(filtered))
	for key := range filtered {
		out = append(out, key)
	}
	sort.Strings(out)
	return out
}

// Len reports the number of user-visible keys.
func (m *StateMap) Len() int {
	return len(m.state.Filtered())
}

// ToMap materializes the user-visible state.
func (m *StateMap) ToMap() map[string]any {
	return m.state.Filtered()
}
