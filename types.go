package wstate

import (
	"encoding/json"

	"github.com/goliatone/go-widgetstate/internal/deepcopy"
)

// ValueKind identifies the wire representation of a widget value. Every
// widget type maps to exactly one kind and keeps it for its lifetime.
type ValueKind int

const (
	// KindInvalid guards against zero-valued specs so call sites can detect
	// missing configuration.
	KindInvalid ValueKind = iota
	// KindTrigger is a one-shot boolean (button press). It reads true at
	// most once and is reset after every execution.
	KindTrigger
	// KindBool is a plain boolean.
	KindBool
	// KindInt is a 64-bit integer.
	KindInt
	// KindDouble is a 64-bit float.
	KindDouble
	// KindString is a UTF-8 string.
	KindString
	// KindDoubleArray is an array of 64-bit floats.
	KindDoubleArray
	// KindIntArray is an array of 64-bit integers.
	KindIntArray
	// KindStringArray is an array of strings.
	KindStringArray
	// KindJSON is an opaque structured payload.
	KindJSON
)

func (k ValueKind) String() string {
	switch k {
	case KindTrigger:
		return "trigger"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindDouble:
		return "double"
	case KindString:
		return "string"
	case KindDoubleArray:
		return "double_array"
	case KindIntArray:
		return "int_array"
	case KindStringArray:
		return "string_array"
	case KindJSON:
		return "json"
	default:
		return "invalid"
	}
}

// Valid reports whether k is one of the defined wire kinds.
func (k ValueKind) Valid() bool {
	return k > KindInvalid && k <= KindJSON
}

// WidgetState is the tagged wire value for a single widget. Exactly one
// value field is set; which one is fixed by the widget's ValueKind.
type WidgetState struct {
	ID          string          `json:"id"`
	Trigger     *bool           `json:"triggerValue,omitempty"`
	Bool        *bool           `json:"boolValue,omitempty"`
	Int         *int64          `json:"intValue,omitempty"`
	Double      *float64        `json:"doubleValue,omitempty"`
	String      *string         `json:"stringValue,omitempty"`
	DoubleArray []float64       `json:"doubleArrayValue,omitempty"`
	IntArray    []int64         `json:"intArrayValue,omitempty"`
	StringArray []string        `json:"stringArrayValue,omitempty"`
	JSON        json.RawMessage `json:"jsonValue,omitempty"`
}

// Kind reports which value field is set on the state.
func (s WidgetState) Kind() ValueKind {
	switch {
	case s.Trigger != nil:
		return KindTrigger
	case s.Bool != nil:
		return KindBool
	case s.Int != nil:
		return KindInt
	case s.Double != nil:
		return KindDouble
	case s.String != nil:
		return KindString
	case s.DoubleArray != nil:
		return KindDoubleArray
	case s.IntArray != nil:
		return KindIntArray
	case s.StringArray != nil:
		return KindStringArray
	case s.JSON != nil:
		return KindJSON
	default:
		return KindInvalid
	}
}

// valueOf extracts the field matching the declared kind. ok is false when
// the state does not carry that field, which happens when a widget changed
// kinds between script versions; callers treat it as "no client value".
func (s WidgetState) valueOf(kind ValueKind) (any, bool) {
	switch kind {
	case KindTrigger:
		if s.Trigger != nil {
			return *s.Trigger, true
		}
	case KindBool:
		if s.Bool != nil {
			return *s.Bool, true
		}
	case KindInt:
		if s.Int != nil {
			return *s.Int, true
		}
	case KindDouble:
		if s.Double != nil {
			return *s.Double, true
		}
	case KindString:
		if s.String != nil {
			return *s.String, true
		}
	case KindDoubleArray:
		if s.DoubleArray != nil {
			out := make([]float64, len(s.DoubleArray))
			copy(out, s.DoubleArray)
			return out, true
		}
	case KindIntArray:
		if s.IntArray != nil {
			out := make([]int64, len(s.IntArray))
			copy(out, s.IntArray)
			return out, true
		}
	case KindStringArray:
		if s.StringArray != nil {
			out := make([]string, len(s.StringArray))
			copy(out, s.StringArray)
			return out, true
		}
	case KindJSON:
		if s.JSON != nil {
			out := make(json.RawMessage, len(s.JSON))
			copy(out, s.JSON)
			return out, true
		}
	}
	return nil, false
}

// TriggerState builds a trigger-kind wire value.
func TriggerState(id string, v bool) WidgetState {
	return WidgetState{ID: id, Trigger: &v}
}

// BoolState builds a bool-kind wire value.
func BoolState(id string, v bool) WidgetState {
	return WidgetState{ID: id, Bool: &v}
}

// IntState builds an int-kind wire value.
func IntState(id string, v int64) WidgetState {
	return WidgetState{ID: id, Int: &v}
}

// DoubleState builds a double-kind wire value.
func DoubleState(id string, v float64) WidgetState {
	return WidgetState{ID: id, Double: &v}
}

// StringState builds a string-kind wire value.
func StringState(id string, v string) WidgetState {
	return WidgetState{ID: id, String: &v}
}

// DoubleArrayState builds a double-array wire value.
func DoubleArrayState(id string, v []float64) WidgetState {
	if v == nil {
		v = []float64{}
	}
	return WidgetState{ID: id, DoubleArray: append([]float64(nil), v...)}
}

// IntArrayState builds an int-array wire value.
func IntArrayState(id string, v []int64) WidgetState {
	if v == nil {
		v = []int64{}
	}
	return WidgetState{ID: id, IntArray: append([]int64(nil), v...)}
}

// StringArrayState builds a string-array wire value.
func StringArrayState(id string, v []string) WidgetState {
	if v == nil {
		v = []string{}
	}
	return WidgetState{ID: id, StringArray: append([]string(nil), v...)}
}

// JSONState builds an opaque structured wire value.
func JSONState(id string, raw json.RawMessage) WidgetState {
	return WidgetState{ID: id, JSON: append(json.RawMessage(nil), raw...)}
}

// WidgetStates is one wire snapshot: the ordered set of widget values
// exchanged with the client per round-trip.
type WidgetStates struct {
	Widgets []WidgetState `json:"widgets"`
}

// Clone returns a deep copy so callers can hold snapshots without
// aliasing engine storage.
func (ws WidgetStates) Clone() WidgetStates {
	return deepcopy.Value(ws)
}

// Deserializer converts the raw wire field value into the value returned
// to script logic. It receives nil when no client value exists and must
// then produce the widget's default.
type Deserializer func(raw any) (any, error)

// Serializer converts a script-facing value back into the raw wire field
// value. Serializer and Deserializer should be inverses.
type Serializer func(value any) (any, error)

// WidgetCallback is invoked when a widget's value changed between
// executions.
type WidgetCallback func(args ...any)

// WidgetMetadata ties a widget identity to its codec, wire kind and
// optional change callback. Exactly one metadata record exists per
// identity per execution; re-registration overwrites it.
type WidgetMetadata struct {
	ID          string
	Kind        ValueKind
	Deserialize Deserializer
	Serialize   Serializer
	Callback    WidgetCallback
	Args        []any
}
