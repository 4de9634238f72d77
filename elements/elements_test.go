package elements

import (
	"context"
	"errors"
	"testing"

	wstate "github.com/goliatone/go-widgetstate"
	"github.com/goliatone/go-widgetstate/pkg/uploads"
)

// run executes script inside one session execution and finishes it.
func run(t *testing.T, sess *wstate.Session, script func(ctx context.Context)) wstate.WidgetStates {
	t.Helper()
	ctx, exec, err := sess.Begin(context.Background())
	if err != nil {
		t.Fatalf("Begin: %v", err)
	}
	script(ctx)
	out, err := exec.Finish()
	if err != nil {
		t.Fatalf("Finish: %v", err)
	}
	return out
}

func TestCheckboxLifecycle(t *testing.T) {
	sess := wstate.NewSession()

	run(t, sess, func(ctx context.Context) {
		checked, err := Checkbox(ctx, CheckboxConfig{Label: "I agree", Default: true, Key: "agree"})
		if err != nil {
			t.Fatalf("Checkbox: %v", err)
		}
		if !checked {
			t.Fatal("default not honored on first run")
		}
	})

	sess.Ingest(wstate.WidgetStates{Widgets: []wstate.WidgetState{wstate.BoolState("agree", false)}})
	run(t, sess, func(ctx context.Context) {
		checked, err := Checkbox(ctx, CheckboxConfig{Label: "I agree", Default: true, Key: "agree"})
		if err != nil {
			t.Fatalf("Checkbox: %v", err)
		}
		if checked {
			t.Fatal("client unchecked the box, still reads true")
		}
	})
}

func TestCheckboxBareInvocation(t *testing.T) {
	checked, err := Checkbox(context.Background(), CheckboxConfig{Label: "x", Default: true})
	if err != nil {
		t.Fatalf("Checkbox: %v", err)
	}
	if !checked {
		t.Fatal("bare invocation lost the default")
	}
}

func TestButtonIsTrigger(t *testing.T) {
	sess := wstate.NewSession()
	sess.Ingest(wstate.WidgetStates{Widgets: []wstate.WidgetState{wstate.TriggerState("go", true)}})

	run(t, sess, func(ctx context.Context) {
		pressed, err := Button(ctx, ButtonConfig{Label: "Go", Key: "go"})
		if err != nil {
			t.Fatalf("Button: %v", err)
		}
		if !pressed {
			t.Fatal("press not visible")
		}
	})
	run(t, sess, func(ctx context.Context) {
		pressed, err := Button(ctx, ButtonConfig{Label: "Go", Key: "go"})
		if err != nil {
			t.Fatalf("Button: %v", err)
		}
		if pressed {
			t.Fatal("press persisted across runs")
		}
	})
}

func TestSelectboxScenario(t *testing.T) {
	sess := wstate.NewSession()
	cfg := SelectboxConfig{
		Label:   "Flavor",
		Options: []string{"a", "b", "c"},
		Key:     "flavor",
	}

	// First run: default index.
	run(t, sess, func(ctx context.Context) {
		selected, err := Selectbox(ctx, cfg)
		if err != nil {
			t.Fatalf("Selectbox: %v", err)
		}
		if selected != "a" {
			t.Fatalf("selected = %q, want default", selected)
		}
	})

	// Client picks "b" by index.
	sess.Ingest(wstate.WidgetStates{Widgets: []wstate.WidgetState{wstate.IntState("flavor", 1)}})
	run(t, sess, func(ctx context.Context) {
		selected, err := Selectbox(ctx, cfg)
		if err != nil {
			t.Fatalf("Selectbox: %v", err)
		}
		if selected != "b" {
			t.Fatalf("selected = %q, want client pick", selected)
		}
	})

	// Script assigns "c" before the widget registers: the widget adopts
	// the assignment.
	run(t, sess, func(ctx context.Context) {
		state, ok := wstate.StateFromContext(ctx)
		if !ok {
			t.Fatal("no state in context")
		}
		if err := state.Set("flavor", "c"); err != nil {
			t.Fatalf("Set: %v", err)
		}
		selected, err := Selectbox(ctx, cfg)
		if err != nil {
			t.Fatalf("Selectbox: %v", err)
		}
		if selected != "c" {
			t.Fatalf("selected = %q, want script assignment", selected)
		}
	})

	// The assignment persists into the next run.
	run(t, sess, func(ctx context.Context) {
		selected, err := Selectbox(ctx, cfg)
		if err != nil {
			t.Fatalf("Selectbox: %v", err)
		}
		if selected != "c" {
			t.Fatalf("selected = %q, want persisted assignment", selected)
		}
	})
}

func TestSelectboxRejectsBadIndex(t *testing.T) {
	_, err := Selectbox(context.Background(), SelectboxConfig{
		Label:   "x",
		Options: []string{"a"},
		Index:   3,
	})
	if err == nil {
		t.Fatal("expected out-of-range error")
	}
}

func TestSelectboxIdentityChangesWithOptions(t *testing.T) {
	first, err := wstate.WidgetID("selectbox", selectboxContent{Label: "x", Options: []string{"a", "b"}}, "")
	if err != nil {
		t.Fatalf("WidgetID: %v", err)
	}
	second, err := wstate.WidgetID("selectbox", selectboxContent{Label: "x", Options: []string{"a", "z"}}, "")
	if err != nil {
		t.Fatalf("WidgetID: %v", err)
	}
	if first == second {
		t.Fatal("changing options kept the same identity")
	}
}

func TestSelectSliderRange(t *testing.T) {
	sess := wstate.NewSession()
	options := []string{"red", "orange", "yellow", "green", "blue"}

	run(t, sess, func(ctx context.Context) {
		// Bounds given out of order are normalized.
		start, end, err := SelectSliderRange(ctx, SelectSliderRangeConfig{
			Label:   "Wavelength",
			Options: options,
			Start:   "green",
			End:     "red",
			Key:     "range",
		})
		if err != nil {
			t.Fatalf("SelectSliderRange: %v", err)
		}
		if start != "red" || end != "green" {
			t.Fatalf("bounds = %q..%q, want red..green", start, end)
		}
	})

	sess.Ingest(wstate.WidgetStates{Widgets: []wstate.WidgetState{
		wstate.DoubleArrayState("range", []float64{1, 4}),
	}})
	run(t, sess, func(ctx context.Context) {
		start, end, err := SelectSliderRange(ctx, SelectSliderRangeConfig{
			Label:   "Wavelength",
			Options: options,
			Start:   "green",
			End:     "red",
			Key:     "range",
		})
		if err != nil {
			t.Fatalf("SelectSliderRange: %v", err)
		}
		if start != "orange" || end != "blue" {
			t.Fatalf("bounds = %q..%q, want orange..blue", start, end)
		}
	})
}

func TestSelectSliderSingle(t *testing.T) {
	sess := wstate.NewSession()
	options := []string{"s", "m", "l"}

	sess.Ingest(wstate.WidgetStates{Widgets: []wstate.WidgetState{
		wstate.DoubleArrayState("size", []float64{2}),
	}})
	run(t, sess, func(ctx context.Context) {
		selected, err := SelectSlider(ctx, SelectSliderConfig{
			Label:   "Size",
			Options: options,
			Value:   "m",
			Key:     "size",
		})
		if err != nil {
			t.Fatalf("SelectSlider: %v", err)
		}
		if selected != "l" {
			t.Fatalf("selected = %q, want l", selected)
		}
	})

	if _, err := SelectSlider(context.Background(), SelectSliderConfig{Label: "x"}); err == nil {
		t.Fatal("expected error for empty options")
	}
	if _, err := SelectSlider(context.Background(), SelectSliderConfig{
		Label:   "x",
		Options: options,
		Value:   "xl",
	}); err == nil {
		t.Fatal("expected error for value outside options")
	}
}

func TestTextInput(t *testing.T) {
	sess := wstate.NewSession()

	run(t, sess, func(ctx context.Context) {
		text, err := TextInput(ctx, TextInputConfig{Label: "Title", Default: "Life of Brian", Key: "title"})
		if err != nil {
			t.Fatalf("TextInput: %v", err)
		}
		if text != "Life of Brian" {
			t.Fatalf("text = %q", text)
		}
	})

	sess.Ingest(wstate.WidgetStates{Widgets: []wstate.WidgetState{wstate.StringState("title", "Brazil")}})
	run(t, sess, func(ctx context.Context) {
		text, err := TextInput(ctx, TextInputConfig{Label: "Title", Default: "Life of Brian", Key: "title"})
		if err != nil {
			t.Fatalf("TextInput: %v", err)
		}
		if text != "Brazil" {
			t.Fatalf("text = %q", text)
		}
	})

	if _, err := TextInput(context.Background(), TextInputConfig{Label: "x", Type: "telepathy"}); err == nil {
		t.Fatal("expected error for invalid input type")
	}
}

func TestTextArea(t *testing.T) {
	text, err := TextArea(context.Background(), TextAreaConfig{Label: "Notes", Default: "dear diary"})
	if err != nil {
		t.Fatalf("TextArea: %v", err)
	}
	if text != "dear diary" {
		t.Fatalf("text = %q", text)
	}
}

func TestNumberInputBounds(t *testing.T) {
	min, max := 0.0, 10.0

	if _, err := NumberInput(context.Background(), NumberInputConfig{
		Label: "n", Default: 11, Min: &min, Max: &max,
	}); err == nil {
		t.Fatal("expected error for default above max")
	}
	if _, err := NumberInput(context.Background(), NumberInputConfig{
		Label: "n", Min: &max, Max: &min,
	}); err == nil {
		t.Fatal("expected error for min above max")
	}

	sess := wstate.NewSession()
	cfg := NumberInputConfig{Label: "n", Default: 5, Min: &min, Max: &max, Key: "n"}

	// An in-range client value is accepted.
	sess.Ingest(wstate.WidgetStates{Widgets: []wstate.WidgetState{wstate.DoubleState("n", 7)}})
	run(t, sess, func(ctx context.Context) {
		n, err := NumberInput(ctx, cfg)
		if err != nil {
			t.Fatalf("NumberInput: %v", err)
		}
		if n != 7 {
			t.Fatalf("n = %v", n)
		}
	})

	// An out-of-range client value fails registration.
	sess.Ingest(wstate.WidgetStates{Widgets: []wstate.WidgetState{wstate.DoubleState("n", 99)}})
	ctx, exec, err := sess.Begin(context.Background())
	if err != nil {
		t.Fatalf("Begin: %v", err)
	}
	defer exec.Abandon()
	if _, err := NumberInput(ctx, cfg); err == nil {
		t.Fatal("expected error for out-of-range client value")
	}
}

func TestColorPicker(t *testing.T) {
	color, err := ColorPicker(context.Background(), ColorPickerConfig{Label: "c"})
	if err != nil {
		t.Fatalf("ColorPicker: %v", err)
	}
	if color != "#000000" {
		t.Fatalf("default color = %q", color)
	}

	if _, err := ColorPicker(context.Background(), ColorPickerConfig{Label: "c", Default: "blue"}); err == nil {
		t.Fatal("expected error for non-hex default")
	}
	if _, err := ColorPicker(context.Background(), ColorPickerConfig{Label: "c", Default: "#0fa"}); err != nil {
		t.Fatalf("short hex rejected: %v", err)
	}
}

func TestFileUploader(t *testing.T) {
	manager := uploads.NewMemoryManager()
	sess := wstate.NewSession(wstate.WithSessionID("s1"))

	stale := manager.Add("s1", "docs", uploads.File{Name: "old.txt"})
	active := manager.Add("s1", "docs", uploads.File{Name: "new.txt", Data: []byte("hello")})

	cfg := FileUploaderConfig{
		Label:   "Docs",
		Types:   []string{"txt", ".md"},
		Key:     "docs",
		Manager: manager,
	}

	// No snapshot yet: no files.
	run(t, sess, func(ctx context.Context) {
		files, err := FileUploader(ctx, cfg)
		if err != nil {
			t.Fatalf("FileUploader: %v", err)
		}
		if files != nil {
			t.Fatalf("expected no files, got %+v", files)
		}
	})

	// Client reports [newest, active...]; the stale upload is collected.
	sess.Ingest(wstate.WidgetStates{Widgets: []wstate.WidgetState{
		wstate.IntArrayState("docs", []int64{active, active}),
	}})
	run(t, sess, func(ctx context.Context) {
		files, err := FileUploader(ctx, cfg)
		if err != nil {
			t.Fatalf("FileUploader: %v", err)
		}
		if len(files) != 1 || files[0].Name != "new.txt" {
			t.Fatalf("files = %+v", files)
		}
	})
	if leftovers, _ := manager.GetFiles("s1", "docs", []int64{stale}); len(leftovers) != 0 {
		t.Fatalf("orphaned upload survived: %+v", leftovers)
	}
}

func TestFileUploaderEmptyValueLogged(t *testing.T) {
	var logged []wstate.LogEvent
	manager := uploads.NewMemoryManager()
	sess := wstate.NewSession(wstate.WithLogger(wstate.LoggerFunc(func(event wstate.LogEvent) {
		logged = append(logged, event)
	})))

	sess.Ingest(wstate.WidgetStates{Widgets: []wstate.WidgetState{
		wstate.IntArrayState("docs", []int64{}),
	}})
	run(t, sess, func(ctx context.Context) {
		files, err := FileUploader(ctx, FileUploaderConfig{Label: "Docs", Key: "docs", Manager: manager})
		if err != nil {
			t.Fatalf("FileUploader: %v", err)
		}
		if files != nil {
			t.Fatalf("files = %+v", files)
		}
	})

	if len(logged) != 1 || logged[0].Op != "file_uploader" {
		t.Fatalf("expected one sanity log event, got %+v", logged)
	}
}

func TestDuplicateElementIdentity(t *testing.T) {
	sess := wstate.NewSession()
	ctx, exec, err := sess.Begin(context.Background())
	if err != nil {
		t.Fatalf("Begin: %v", err)
	}
	defer exec.Abandon()

	cfg := CheckboxConfig{Label: "same"}
	if _, err := Checkbox(ctx, cfg); err != nil {
		t.Fatalf("Checkbox: %v", err)
	}
	_, err = Checkbox(ctx, cfg)
	if !errors.Is(err, wstate.ErrDuplicateWidgetID) {
		t.Fatalf("expected ErrDuplicateWidgetID, got %v", err)
	}
}
