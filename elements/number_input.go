package elements

import (
	"context"
	"fmt"
	"math"

	wstate "github.com/goliatone/go-widgetstate"
)

// NumberInputConfig configures a numeric input. Min and Max, when set,
// bound both the default and incoming client values.
type NumberInputConfig struct {
	Label    string
	Default  float64
	Min      *float64
	Max      *float64
	Step     float64
	Help     string
	Key      string
	OnChange wstate.WidgetCallback
	Args     []any
}

type numberInputContent struct {
	Label   string
	Default float64
	Min     *float64
	Max     *float64
	Step    float64
	Help    string
}

// NumberInput registers a numeric input and returns its current value.
func NumberInput(ctx context.Context, cfg NumberInputConfig) (float64, error) {
	if cfg.Min != nil && cfg.Max != nil && *cfg.Min > *cfg.Max {
		return 0, fmt.Errorf("elements: number input min %v exceeds max %v", *cfg.Min, *cfg.Max)
	}
	if err := checkBounds("default", cfg.Default, cfg.Min, cfg.Max); err != nil {
		return 0, err
	}

	reg, err := wstate.Register(ctx, wstate.WidgetSpec{
		Type: "number_input",
		Config: numberInputContent{
			Label:   cfg.Label,
			Default: cfg.Default,
			Min:     cfg.Min,
			Max:     cfg.Max,
			Step:    cfg.Step,
			Help:    cfg.Help,
		},
		UserKey: cfg.Key,
		Kind:    wstate.KindDouble,
		Deserialize: func(raw any) (any, error) {
			if raw == nil {
				return cfg.Default, nil
			}
			n, err := asFloat64(raw)
			if err != nil {
				return nil, err
			}
			if math.IsNaN(n) || math.IsInf(n, 0) {
				return nil, fmt.Errorf("elements: number input value %v is not finite", n)
			}
			if err := checkBounds("value", n, cfg.Min, cfg.Max); err != nil {
				return nil, err
			}
			return n, nil
		},
		Serialize: func(value any) (any, error) {
			n, ok := value.(float64)
			if !ok {
				return nil, typeError("number_input", "float64", value)
			}
			return n, nil
		},
		OnChange: cfg.OnChange,
		Args:     cfg.Args,
	})
	if err != nil {
		return 0, err
	}
	return reg.Value.(float64), nil
}

func checkBounds(what string, n float64, min, max *float64) error {
	if min != nil && n < *min {
		return fmt.Errorf("elements: number input %s %v is below min %v", what, n, *min)
	}
	if max != nil && n > *max {
		return fmt.Errorf("elements: number input %s %v is above max %v", what, n, *max)
	}
	return nil
}
