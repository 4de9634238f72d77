package uploads

import (
	"reflect"
	"testing"
)

func TestMemoryManagerAddAndGet(t *testing.T) {
	m := NewMemoryManager()
	a := m.Add("s1", "w1", File{Name: "a.csv", Type: "text/csv", Data: []byte("a")})
	b := m.Add("s1", "w1", File{Name: "b.csv", Type: "text/csv", Data: []byte("b")})
	if a == b {
		t.Fatalf("file ids not unique: %d", a)
	}

	files, err := m.GetFiles("s1", "w1", []int64{b, a})
	if err != nil {
		t.Fatalf("GetFiles: %v", err)
	}
	if len(files) != 2 {
		t.Fatalf("got %d files, want 2", len(files))
	}
	if files[0].ID != a || files[1].ID != b {
		t.Fatalf("files not ordered by id: %+v", files)
	}

	// Only requested ids come back.
	files, err = m.GetFiles("s1", "w1", []int64{b})
	if err != nil {
		t.Fatalf("GetFiles: %v", err)
	}
	if len(files) != 1 || files[0].Name != "b.csv" {
		t.Fatalf("unexpected files %+v", files)
	}

	// Other widgets and sessions are isolated.
	if files, _ := m.GetFiles("s1", "w2", []int64{a}); len(files) != 0 {
		t.Fatalf("cross-widget leak: %+v", files)
	}
	if files, _ := m.GetFiles("s2", "w1", []int64{a}); len(files) != 0 {
		t.Fatalf("cross-session leak: %+v", files)
	}
}

func TestMemoryManagerRemoveOrphanedFiles(t *testing.T) {
	m := NewMemoryManager()
	stale := m.Add("s1", "w1", File{Name: "stale"})
	active := m.Add("s1", "w1", File{Name: "active"})
	inflight := m.Add("s1", "w1", File{Name: "inflight"})

	// Client references only the active file; the in-flight upload is
	// newer than the newest acknowledged id and must survive.
	if err := m.RemoveOrphanedFiles("s1", "w1", active, []int64{active}); err != nil {
		t.Fatalf("RemoveOrphanedFiles: %v", err)
	}

	files, err := m.GetFiles("s1", "w1", []int64{stale, active, inflight})
	if err != nil {
		t.Fatalf("GetFiles: %v", err)
	}
	var names []string
	for _, f := range files {
		names = append(names, f.Name)
	}
	want := []string{"active", "inflight"}
	if !reflect.DeepEqual(names, want) {
		t.Fatalf("surviving files = %v, want %v", names, want)
	}
}

func TestMemoryManagerRemoveSession(t *testing.T) {
	m := NewMemoryManager()
	kept := m.Add("s2", "w1", File{Name: "kept"})
	m.Add("s1", "w1", File{Name: "gone"})
	m.Add("s1", "w2", File{Name: "gone too"})

	m.RemoveSession("s1")
	if files, _ := m.GetFiles("s1", "w1", []int64{1, 2, 3}); len(files) != 0 {
		t.Fatalf("session files survived removal: %+v", files)
	}
	files, err := m.GetFiles("s2", "w1", []int64{kept})
	if err != nil {
		t.Fatalf("GetFiles: %v", err)
	}
	if len(files) != 1 {
		t.Fatal("unrelated session lost its files")
	}
}
