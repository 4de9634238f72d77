package encode

import "testing"

type widgetConfig struct {
	Label   string
	Options []string
	Index   int
	hidden  string
}

func TestHash64Deterministic(t *testing.T) {
	cfg := widgetConfig{Label: "pick", Options: []string{"a", "b"}, Index: 1}
	first, err := Hash64("selectbox", cfg)
	if err != nil {
		t.Fatalf("Hash64: %v", err)
	}
	second, err := Hash64("selectbox", cfg)
	if err != nil {
		t.Fatalf("Hash64: %v", err)
	}
	if first != second {
		t.Fatalf("identical inputs hashed to %x and %x", first, second)
	}
}

func TestHash64TagDiscriminates(t *testing.T) {
	cfg := widgetConfig{Label: "pick"}
	a, err := Hash64("selectbox", cfg)
	if err != nil {
		t.Fatalf("Hash64: %v", err)
	}
	b, err := Hash64("radio", cfg)
	if err != nil {
		t.Fatalf("Hash64: %v", err)
	}
	if a == b {
		t.Fatal("different tags produced the same hash")
	}
}

func TestHash64ValueDiscriminates(t *testing.T) {
	base, err := Hash64("w", widgetConfig{Label: "pick", Options: []string{"a", "b"}})
	if err != nil {
		t.Fatalf("Hash64: %v", err)
	}
	variants := []widgetConfig{
		{Label: "pick", Options: []string{"a", "c"}},
		{Label: "pick", Options: []string{"a", "b"}, Index: 1},
		{Label: "pock", Options: []string{"a", "b"}},
	}
	for _, variant := range variants {
		h, err := Hash64("w", variant)
		if err != nil {
			t.Fatalf("Hash64(%+v): %v", variant, err)
		}
		if h == base {
			t.Fatalf("variant %+v collided with base", variant)
		}
	}
}

func TestHash64IgnoresUnexportedFields(t *testing.T) {
	a, err := Hash64("w", widgetConfig{Label: "pick", hidden: "x"})
	if err != nil {
		t.Fatalf("Hash64: %v", err)
	}
	b, err := Hash64("w", widgetConfig{Label: "pick", hidden: "y"})
	if err != nil {
		t.Fatalf("Hash64: %v", err)
	}
	if a != b {
		t.Fatal("unexported field leaked into the hash")
	}
}

func TestHash64MapOrderIndependent(t *testing.T) {
	a, err := Hash64("w", map[string]int{"x": 1, "y": 2, "z": 3})
	if err != nil {
		t.Fatalf("Hash64: %v", err)
	}
	b, err := Hash64("w", map[string]int{"z": 3, "y": 2, "x": 1})
	if err != nil {
		t.Fatalf("Hash64: %v", err)
	}
	if a != b {
		t.Fatal("map insertion order changed the hash")
	}
}

func TestHash64IntegerMapKeys(t *testing.T) {
	a, err := Hash64("w", map[int]string{2: "b", 10: "c", 1: "a"})
	if err != nil {
		t.Fatalf("Hash64: %v", err)
	}
	b, err := Hash64("w", map[int]string{1: "a", 2: "b", 10: "c"})
	if err != nil {
		t.Fatalf("Hash64: %v", err)
	}
	if a != b {
		t.Fatal("integer map key order changed the hash")
	}
}

func TestHash64NilAndPointers(t *testing.T) {
	var nilPtr *int
	n := 5
	a, err := Hash64("w", nilPtr)
	if err != nil {
		t.Fatalf("Hash64(nil ptr): %v", err)
	}
	b, err := Hash64("w", &n)
	if err != nil {
		t.Fatalf("Hash64(ptr): %v", err)
	}
	if a == b {
		t.Fatal("nil pointer collided with a set pointer")
	}
	direct, err := Hash64("w", 5)
	if err != nil {
		t.Fatalf("Hash64(int): %v", err)
	}
	if b != direct {
		t.Fatal("pointer indirection changed the hash")
	}
}

func TestHash64UnsupportedKind(t *testing.T) {
	if _, err := Hash64("w", func() {}); err == nil {
		t.Fatal("expected error for func value")
	}
	if _, err := Hash64("w", map[float64]int{1.5: 1}); err == nil {
		t.Fatal("expected error for float map key")
	}
}
