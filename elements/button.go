package elements

import (
	"context"
	"fmt"

	wstate "github.com/goliatone/go-widgetstate"
)

// ButtonConfig configures a button widget.
type ButtonConfig struct {
	Label    string
	Help     string
	Key      string
	OnChange wstate.WidgetCallback
	Args     []any
}

type buttonContent struct {
	Label string
	Help  string
}

// Button registers a button and reports whether it was pressed since the
// previous execution. The value is a trigger: it never persists across
// executions and resets to false once the run finishes.
func Button(ctx context.Context, cfg ButtonConfig) (bool, error) {
	reg, err := wstate.Register(ctx, wstate.WidgetSpec{
		Type:    "button",
		Config:  buttonContent{Label: cfg.Label, Help: cfg.Help},
		UserKey: cfg.Key,
		Kind:    wstate.KindTrigger,
		Deserialize: func(raw any) (any, error) {
			if raw == nil {
				return false, nil
			}
			pressed, ok := raw.(bool)
			if !ok {
				return nil, typeError("button", "bool", raw)
			}
			return pressed, nil
		},
		Serialize: func(value any) (any, error) {
			pressed, ok := value.(bool)
			if !ok {
				return nil, typeError("button", "bool", value)
			}
			return pressed, nil
		},
		OnChange: cfg.OnChange,
		Args:     cfg.Args,
	})
	if err != nil {
		return false, err
	}
	return reg.Value.(bool), nil
}

func typeError(widget, want string, got any) error {
	return fmt.Errorf("elements: %s value has invalid type %T, expected %s", widget, got, want)
}
