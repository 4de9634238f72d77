package wstate

import (
	"fmt"
	"strings"

	"github.com/goliatone/go-widgetstate/internal/encode"
)

// GeneratedKeyPrefix marks widget identities derived by hashing instead of
// supplied by the user. Keys with this prefix are excluded from the
// script-facing state view and rejected on user access.
const GeneratedKeyPrefix = "$$GENERATED_WIDGET_KEY"

// WidgetID resolves the stable identity for a widget.
//
// When userKey is non-empty it is returned verbatim, giving the caller
// explicit control over stability and collision semantics. Otherwise the
// identity is the generated prefix plus the 64-bit hash of the widget type
// and the canonical encoding of its configuration, so an unmoved,
// unchanged widget resolves to the same identity on every execution.
func WidgetID(widgetType string, config any, userKey string) (string, error) {
	if userKey != "" {
		return userKey, nil
	}
	sum, err := encode.Hash64(widgetType, config)
	if err != nil {
		return "", fmt.Errorf("wstate: derive id for %s widget: %w", widgetType, err)
	}
	return fmt.Sprintf("%s-%016x", GeneratedKeyPrefix, sum), nil
}

// IsGeneratedKey reports whether id was derived by hashing.
func IsGeneratedKey(id string) bool {
	return strings.HasPrefix(id, GeneratedKeyPrefix)
}
