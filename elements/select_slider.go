package elements

import (
	"context"
	"fmt"

	wstate "github.com/goliatone/go-widgetstate"
)

// SelectSliderConfig configures a discrete slider over string options.
// Value is the preselected option; it must appear in Options. An empty
// Value selects the first option.
type SelectSliderConfig struct {
	Label    string
	Options  []string
	Value    string
	Help     string
	Key      string
	OnChange wstate.WidgetCallback
	Args     []any
}

// SelectSliderRangeConfig configures a discrete range slider over string
// options. Start and End are the preselected bounds; if they arrive out
// of order they are swapped.
type SelectSliderRangeConfig struct {
	Label    string
	Options  []string
	Start    string
	End      string
	Help     string
	Key      string
	OnChange wstate.WidgetCallback
	Args     []any
}

// The slider transport carries option indices as doubles, for both the
// single and the range form. Range is part of the identity content:
// switching a slider between forms makes it a different widget.
type selectSliderContent struct {
	Label   string
	Options []string
	Default []int64
	Range   bool
	Help    string
}

// SelectSlider registers a single-value discrete slider and returns the
// selected option.
func SelectSlider(ctx context.Context, cfg SelectSliderConfig) (string, error) {
	if len(cfg.Options) == 0 {
		return "", fmt.Errorf("elements: select slider needs at least one option")
	}
	defaultIdx := int64(0)
	if cfg.Value != "" {
		var err error
		defaultIdx, err = indexOf(cfg.Options, cfg.Value)
		if err != nil {
			return "", err
		}
	}

	reg, err := wstate.Register(ctx, wstate.WidgetSpec{
		Type: "slider",
		Config: selectSliderContent{
			Label:   cfg.Label,
			Options: cfg.Options,
			Default: []int64{defaultIdx},
			Help:    cfg.Help,
		},
		UserKey: cfg.Key,
		Kind:    wstate.KindDoubleArray,
		Deserialize: func(raw any) (any, error) {
			options, err := sliderOptions(cfg.Options, raw, []int64{defaultIdx}, 1)
			if err != nil {
				return nil, err
			}
			return options[0], nil
		},
		Serialize: func(value any) (any, error) {
			selected, ok := value.(string)
			if !ok {
				return nil, typeError("slider", "string", value)
			}
			idx, err := indexOf(cfg.Options, selected)
			if err != nil {
				return nil, err
			}
			return []float64{float64(idx)}, nil
		},
		OnChange: cfg.OnChange,
		Args:     cfg.Args,
	})
	if err != nil {
		return "", err
	}
	return reg.Value.(string), nil
}

// SelectSliderRange registers a range slider and returns the selected
// bounds in ascending option order.
func SelectSliderRange(ctx context.Context, cfg SelectSliderRangeConfig) (string, string, error) {
	if len(cfg.Options) == 0 {
		return "", "", fmt.Errorf("elements: select slider needs at least one option")
	}
	start, err := indexOf(cfg.Options, cfg.Start)
	if err != nil {
		return "", "", err
	}
	end, err := indexOf(cfg.Options, cfg.End)
	if err != nil {
		return "", "", err
	}
	if start > end {
		start, end = end, start
	}

	reg, err := wstate.Register(ctx, wstate.WidgetSpec{
		Type: "slider",
		Config: selectSliderContent{
			Label:   cfg.Label,
			Options: cfg.Options,
			Default: []int64{start, end},
			Range:   true,
			Help:    cfg.Help,
		},
		UserKey: cfg.Key,
		Kind:    wstate.KindDoubleArray,
		Deserialize: func(raw any) (any, error) {
			options, err := sliderOptions(cfg.Options, raw, []int64{start, end}, 2)
			if err != nil {
				return nil, err
			}
			return [2]string{options[0], options[1]}, nil
		},
		Serialize: func(value any) (any, error) {
			bounds, ok := value.([2]string)
			if !ok {
				return nil, typeError("slider", "[2]string", value)
			}
			lo, err := indexOf(cfg.Options, bounds[0])
			if err != nil {
				return nil, err
			}
			hi, err := indexOf(cfg.Options, bounds[1])
			if err != nil {
				return nil, err
			}
			return []float64{float64(lo), float64(hi)}, nil
		},
		OnChange: cfg.OnChange,
		Args:     cfg.Args,
	})
	if err != nil {
		return "", "", err
	}
	bounds := reg.Value.([2]string)
	return bounds[0], bounds[1], nil
}

func sliderOptions(options []string, raw any, defaults []int64, want int) ([]string, error) {
	indices := make([]int64, len(defaults))
	copy(indices, defaults)
	if raw != nil {
		floats, err := asFloat64Slice(raw)
		if err != nil {
			return nil, err
		}
		if len(floats) > 0 {
			indices = make([]int64, len(floats))
			for i, f := range floats {
				indices[i] = int64(f)
			}
		}
	}
	if len(indices) != want {
		return nil, fmt.Errorf("elements: slider expected %d indices, got %d", want, len(indices))
	}
	out := make([]string, len(indices))
	for i, idx := range indices {
		if idx < 0 || idx >= int64(len(options)) {
			return nil, fmt.Errorf("elements: slider index %d out of range for %d options", idx, len(options))
		}
		out[i] = options[idx]
	}
	return out, nil
}
