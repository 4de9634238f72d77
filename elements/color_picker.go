package elements

import (
	"context"
	"fmt"
	"regexp"

	wstate "github.com/goliatone/go-widgetstate"
)

// Hex colors in short or long form, e.g. "#0fa" or "#00FFAA".
var hexColorPattern = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}){1,2}$`)

// ColorPickerConfig configures a color picker. An empty Default means
// black.
type ColorPickerConfig struct {
	Label    string
	Default  string
	Help     string
	Key      string
	OnChange wstate.WidgetCallback
	Args     []any
}

type colorPickerContent struct {
	Label   string
	Default string
	Help    string
}

// ColorPicker registers a color picker and returns the selected color as
// a hex string.
func ColorPicker(ctx context.Context, cfg ColorPickerConfig) (string, error) {
	fallback := cfg.Default
	if fallback == "" {
		fallback = "#000000"
	}
	if !hexColorPattern.MatchString(fallback) {
		return "", fmt.Errorf("elements: %q is not a valid hex color, expected e.g. #00FFAA or #000", fallback)
	}

	reg, err := wstate.Register(ctx, wstate.WidgetSpec{
		Type:    "color_picker",
		Config:  colorPickerContent{Label: cfg.Label, Default: fallback, Help: cfg.Help},
		UserKey: cfg.Key,
		Kind:    wstate.KindString,
		Deserialize: func(raw any) (any, error) {
			if raw == nil {
				return fallback, nil
			}
			color, ok := raw.(string)
			if !ok {
				return nil, typeError("color_picker", "string", raw)
			}
			return color, nil
		},
		Serialize: func(value any) (any, error) {
			color, ok := value.(string)
			if !ok {
				return nil, typeError("color_picker", "string", value)
			}
			return color, nil
		},
		OnChange: cfg.OnChange,
		Args:     cfg.Args,
	})
	if err != nil {
		return "", err
	}
	return reg.Value.(string), nil
}
