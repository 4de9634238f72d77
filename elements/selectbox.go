package elements

import (
	"context"
	"fmt"

	wstate "github.com/goliatone/go-widgetstate"
)

// SelectboxConfig configures a single-choice select widget. Options are
// semantic content: changing them yields a new widget identity, so a
// stale index from the previous option set can never be applied.
type SelectboxConfig struct {
	Label    string
	Options  []string
	Index    int
	Help     string
	Key      string
	OnChange wstate.WidgetCallback
	Args     []any
}

type selectboxContent struct {
	Label   string
	Options []string
	Index   int
	Help    string
}

// Selectbox registers a selectbox and returns the selected option. The
// wire value is the option index; the script-facing value is the option
// itself. With no options it returns the empty string.
func Selectbox(ctx context.Context, cfg SelectboxConfig) (string, error) {
	if len(cfg.Options) > 0 && (cfg.Index < 0 || cfg.Index >= len(cfg.Options)) {
		return "", fmt.Errorf("elements: selectbox index %d out of range for %d options", cfg.Index, len(cfg.Options))
	}

	reg, err := wstate.Register(ctx, wstate.WidgetSpec{
		Type: "selectbox",
		Config: selectboxContent{
			Label:   cfg.Label,
			Options: cfg.Options,
			Index:   cfg.Index,
			Help:    cfg.Help,
		},
		UserKey: cfg.Key,
		Kind:    wstate.KindInt,
		Deserialize: func(raw any) (any, error) {
			idx := cfg.Index
			if raw != nil {
				var err error
				idx, err = asInt(raw)
				if err != nil {
					return nil, err
				}
			}
			if len(cfg.Options) == 0 {
				return "", nil
			}
			if idx < 0 || idx >= len(cfg.Options) {
				return nil, fmt.Errorf("elements: selectbox index %d out of range for %d options", idx, len(cfg.Options))
			}
			return cfg.Options[idx], nil
		},
		Serialize: func(value any) (any, error) {
			selected, ok := value.(string)
			if !ok {
				return nil, typeError("selectbox", "string", value)
			}
			return indexOf(cfg.Options, selected)
		},
		OnChange: cfg.OnChange,
		Args:     cfg.Args,
	})
	if err != nil {
		return "", err
	}
	return reg.Value.(string), nil
}
