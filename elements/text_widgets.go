package elements

import (
	"context"
	"fmt"

	wstate "github.com/goliatone/go-widgetstate"
)

// TextInputType selects the rendering mode of a text input.
type TextInputType string

const (
	TextInputDefault  TextInputType = "default"
	TextInputPassword TextInputType = "password"
)

// TextInputConfig configures a single-line text input.
type TextInputConfig struct {
	Label    string
	Default  string
	MaxChars int
	Type     TextInputType
	Help     string
	Key      string
	OnChange wstate.WidgetCallback
	Args     []any
}

type textInputContent struct {
	Label    string
	Default  string
	MaxChars int
	Type     string
	Help     string
}

// TextInput registers a text input and returns its current text.
func TextInput(ctx context.Context, cfg TextInputConfig) (string, error) {
	inputType := cfg.Type
	if inputType == "" {
		inputType = TextInputDefault
	}
	if inputType != TextInputDefault && inputType != TextInputPassword {
		return "", fmt.Errorf("elements: %q is not a valid text input type", inputType)
	}

	reg, err := wstate.Register(ctx, wstate.WidgetSpec{
		Type: "text_input",
		Config: textInputContent{
			Label:    cfg.Label,
			Default:  cfg.Default,
			MaxChars: cfg.MaxChars,
			Type:     string(inputType),
			Help:     cfg.Help,
		},
		UserKey:     cfg.Key,
		Kind:        wstate.KindString,
		Deserialize: textDeserializer("text_input", cfg.Default),
		Serialize:   textSerializer("text_input"),
		OnChange:    cfg.OnChange,
		Args:        cfg.Args,
	})
	if err != nil {
		return "", err
	}
	return reg.Value.(string), nil
}

// TextAreaConfig configures a multi-line text input.
type TextAreaConfig struct {
	Label    string
	Default  string
	Height   int
	MaxChars int
	Help     string
	Key      string
	OnChange wstate.WidgetCallback
	Args     []any
}

type textAreaContent struct {
	Label    string
	Default  string
	Height   int
	MaxChars int
	Help     string
}

// TextArea registers a text area and returns its current text.
func TextArea(ctx context.Context, cfg TextAreaConfig) (string, error) {
	reg, err := wstate.Register(ctx, wstate.WidgetSpec{
		Type: "text_area",
		Config: textAreaContent{
			Label:    cfg.Label,
			Default:  cfg.Default,
			Height:   cfg.Height,
			MaxChars: cfg.MaxChars,
			Help:     cfg.Help,
		},
		UserKey:     cfg.Key,
		Kind:        wstate.KindString,
		Deserialize: textDeserializer("text_area", cfg.Default),
		Serialize:   textSerializer("text_area"),
		OnChange:    cfg.OnChange,
		Args:        cfg.Args,
	})
	if err != nil {
		return "", err
	}
	return reg.Value.(string), nil
}

func textDeserializer(widget, fallback string) wstate.Deserializer {
	return func(raw any) (any, error) {
		if raw == nil {
			return fallback, nil
		}
		text, ok := raw.(string)
		if !ok {
			return nil, typeError(widget, "string", raw)
		}
		return text, nil
	}
}

func textSerializer(widget string) wstate.Serializer {
	return func(value any) (any, error) {
		text, ok := value.(string)
		if !ok {
			return nil, typeError(widget, "string", value)
		}
		return text, nil
	}
}
