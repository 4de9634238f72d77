package elements

import (
	"context"

	wstate "github.com/goliatone/go-widgetstate"
)

// CheckboxConfig configures a checkbox widget. Label, Default and Help
// are semantic content and participate in identity derivation; Key,
// OnChange and Args do not.
type CheckboxConfig struct {
	Label    string
	Default  bool
	Help     string
	Key      string
	OnChange wstate.WidgetCallback
	Args     []any
}

type checkboxContent struct {
	Label   string
	Default bool
	Help    string
}

// Checkbox registers a checkbox and returns whether it is checked.
func Checkbox(ctx context.Context, cfg CheckboxConfig) (bool, error) {
	reg, err := wstate.Register(ctx, wstate.WidgetSpec{
		Type:    "checkbox",
		Config:  checkboxContent{Label: cfg.Label, Default: cfg.Default, Help: cfg.Help},
		UserKey: cfg.Key,
		Kind:    wstate.KindBool,
		Deserialize: func(raw any) (any, error) {
			if raw == nil {
				return cfg.Default, nil
			}
			checked, ok := raw.(bool)
			if !ok {
				return nil, typeError("checkbox", "bool", raw)
			}
			return checked, nil
		},
		Serialize: func(value any) (any, error) {
			checked, ok := value.(bool)
			if !ok {
				return nil, typeError("checkbox", "bool", value)
			}
			return checked, nil
		},
		OnChange: cfg.OnChange,
		Args:     cfg.Args,
	})
	if err != nil {
		return false, err
	}
	return reg.Value.(bool), nil
}
