package session

import (
	"context"
	"errors"
	"sync"
	"testing"

	wstate "github.com/goliatone/go-widgetstate"
)

func checkboxSpec(key string) wstate.WidgetSpec {
	return wstate.WidgetSpec{
		Type:    "checkbox",
		Config:  struct{ Label string }{Label: key},
		UserKey: key,
		Kind:    wstate.KindBool,
		Deserialize: func(raw any) (any, error) {
			if raw == nil {
				return false, nil
			}
			return raw.(bool), nil
		},
		Serialize: func(value any) (any, error) { return value.(bool), nil },
	}
}

func TestRegistryCreateAndGet(t *testing.T) {
	registry := NewRegistry()
	created := registry.Create()
	if created.ID() == "" {
		t.Fatal("created session lacks an id")
	}
	if registry.Len() != 1 {
		t.Fatalf("Len = %d", registry.Len())
	}

	got, err := registry.Get(created.ID())
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.ID() != created.ID() {
		t.Fatalf("Get returned session %q, want %q", got.ID(), created.ID())
	}
	if got.Unwrap() != created.Unwrap() {
		t.Fatal("Get returned a different underlying session")
	}

	if _, err := registry.Get("missing"); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestRegistryRemove(t *testing.T) {
	registry := NewRegistry()
	sess := registry.Create()
	sess.Ingest(wstate.WidgetStates{Widgets: []wstate.WidgetState{wstate.BoolState("agree", true)}})

	registry.Remove(sess.ID())
	if registry.Len() != 0 {
		t.Fatalf("Len = %d after removal", registry.Len())
	}
	if _, err := registry.Get(sess.ID()); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("removed session still resolvable: %v", err)
	}
	if sess.Unwrap().State().Len() != 0 {
		t.Fatal("removal did not close the session")
	}

	// Removing twice is harmless.
	registry.Remove(sess.ID())
}

func TestRegistryOptionsApplyToCreatedSessions(t *testing.T) {
	registry := NewRegistry(wstate.WithSessionID("fixed"))
	sess := registry.Create()
	if sess.ID() != "fixed" {
		t.Fatalf("registry options not applied: id = %q", sess.ID())
	}
}

func TestSessionRunLifecycle(t *testing.T) {
	registry := NewRegistry()
	sess := registry.Create()
	sess.Ingest(wstate.WidgetStates{Widgets: []wstate.WidgetState{wstate.BoolState("agree", true)}})

	out, err := sess.Run(context.Background(), func(ctx context.Context) error {
		reg, err := wstate.Register(ctx, checkboxSpec("agree"))
		if err != nil {
			return err
		}
		if reg.Value != true {
			t.Fatalf("value = %v", reg.Value)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(out.Widgets) != 1 || out.Widgets[0].ID != "agree" {
		t.Fatalf("outgoing snapshot = %+v", out.Widgets)
	}
}

func TestSessionRunErrorAbandons(t *testing.T) {
	registry := NewRegistry()
	sess := registry.Create()
	scriptErr := errors.New("script blew up")

	_, err := sess.Run(context.Background(), func(ctx context.Context) error {
		if _, err := wstate.Register(ctx, checkboxSpec("agree")); err != nil {
			return err
		}
		return scriptErr
	})
	if !errors.Is(err, scriptErr) {
		t.Fatalf("Run error = %v, want script error", err)
	}
	if sess.Unwrap().State().Contains("agree") {
		t.Fatal("abandoned run leaked state")
	}

	// The session stays usable.
	if _, err := sess.Run(context.Background(), func(context.Context) error { return nil }); err != nil {
		t.Fatalf("Run after abandon: %v", err)
	}
}

func TestSessionRunSerializes(t *testing.T) {
	registry := NewRegistry()
	sess := registry.Create()

	var mu sync.Mutex
	inFlight := 0
	maxInFlight := 0

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := sess.Run(context.Background(), func(context.Context) error {
				mu.Lock()
				inFlight++
				if inFlight > maxInFlight {
					maxInFlight = inFlight
				}
				mu.Unlock()

				mu.Lock()
				inFlight--
				mu.Unlock()
				return nil
			})
			if err != nil {
				t.Errorf("Run: %v", err)
			}
		}()
	}
	wg.Wait()

	if maxInFlight != 1 {
		t.Fatalf("observed %d concurrent runs, want 1", maxInFlight)
	}
}
