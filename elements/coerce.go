package elements

import "fmt"

// Wire values arrive with whatever numeric width the transport used.
// These helpers normalize them before indexing into options.

func asInt(raw any) (int, error) {
	switch v := raw.(type) {
	case int:
		return v, nil
	case int64:
		return int(v), nil
	case float64:
		return int(v), nil
	default:
		return 0, fmt.Errorf("elements: expected numeric value, got %T", raw)
	}
}

func asFloat64(raw any) (float64, error) {
	switch v := raw.(type) {
	case float64:
		return v, nil
	case int:
		return float64(v), nil
	case int64:
		return float64(v), nil
	default:
		return 0, fmt.Errorf("elements: expected numeric value, got %T", raw)
	}
}

func asFloat64Slice(raw any) ([]float64, error) {
	switch v := raw.(type) {
	case []float64:
		return v, nil
	case []int64:
		out := make([]float64, len(v))
		for i, n := range v {
			out[i] = float64(n)
		}
		return out, nil
	case []any:
		out := make([]float64, len(v))
		for i, item := range v {
			f, err := asFloat64(item)
			if err != nil {
				return nil, err
			}
			out[i] = f
		}
		return out, nil
	default:
		return nil, fmt.Errorf("elements: expected numeric array, got %T", raw)
	}
}

func asInt64Slice(raw any) ([]int64, error) {
	switch v := raw.(type) {
	case []int64:
		return v, nil
	case []float64:
		out := make([]int64, len(v))
		for i, f := range v {
			out[i] = int64(f)
		}
		return out, nil
	case []any:
		out := make([]int64, len(v))
		for i, item := range v {
			f, err := asFloat64(item)
			if err != nil {
				return nil, err
			}
			out[i] = int64(f)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("elements: expected numeric array, got %T", raw)
	}
}

func indexOf(options []string, value string) (int64, error) {
	for i, option := range options {
		if option == value {
			return int64(i), nil
		}
	}
	return 0, fmt.Errorf("elements: %q is not among the options", value)
}
