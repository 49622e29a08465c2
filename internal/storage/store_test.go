package storage

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// exerciseStore runs the behaviour every backend must share.
func exerciseStore(t *testing.T, s Store) {
	t.Helper()

	if _, ok, err := s.Get("tasks"); err != nil || ok {
		t.Fatalf("Get on empty store: ok=%v err=%v, want ok=false err=nil", ok, err)
	}

	if err := s.Set("tasks", `["Buy milk"]`); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	got, ok, err := s.Get("tasks")
	if err != nil || !ok {
		t.Fatalf("Get after Set: ok=%v err=%v", ok, err)
	}
	if got != `["Buy milk"]` {
		t.Errorf("Get: got %q, want %q", got, `["Buy milk"]`)
	}

	if err := s.Set("tasks", `["Walk dog"]`); err != nil {
		t.Fatalf("Set overwrite failed: %v", err)
	}
	got, _, _ = s.Get("tasks")
	if got != `["Walk dog"]` {
		t.Errorf("Get after overwrite: got %q", got)
	}

	if err := s.Set("other", "x"); err != nil {
		t.Fatalf("Set other failed: %v", err)
	}
	keys, err := s.Keys()
	if err != nil {
		t.Fatalf("Keys failed: %v", err)
	}
	if strings.Join(keys, ",") != "other,tasks" {
		t.Errorf("Keys: got %v, want [other tasks]", keys)
	}

	if err := s.Delete("other"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if err := s.Delete("missing"); err != nil {
		t.Errorf("Delete of absent key should be a no-op, got %v", err)
	}
	if _, ok, _ := s.Get("other"); ok {
		t.Error("expected deleted key to be absent")
	}
}

func TestBackends(t *testing.T) {
	t.Run("file", func(t *testing.T) {
		s, err := OpenFile(filepath.Join(t.TempDir(), "storage.json"))
		if err != nil {
			t.Fatal(err)
		}
		defer s.Close()
		exerciseStore(t, s)
	})

	t.Run("sqlite", func(t *testing.T) {
		s, err := OpenSQLite(filepath.Join(t.TempDir(), "storage.db"))
		if err != nil {
			t.Fatal(err)
		}
		defer s.Close()
		exerciseStore(t, s)
	})

	t.Run("memory", func(t *testing.T) {
		s := NewMemoryStore()
		defer s.Close()
		exerciseStore(t, s)
	})
}

func TestOpen(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name    string
		backend string
		path    string
		wantErr bool
	}{
		{"default is file", "", filepath.Join(dir, "a.json"), false},
		{"file", "file", filepath.Join(dir, "b.json"), false},
		{"json alias", "JSON", filepath.Join(dir, "c.json"), false},
		{"sqlite", "sqlite", filepath.Join(dir, "d.db"), false},
		{"memory", "memory", "", false},
		{"unknown", "redis", filepath.Join(dir, "e"), true},
		{"file without path", "file", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := Open(tt.backend, tt.path)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Open(%q): err=%v, wantErr=%v", tt.backend, err, tt.wantErr)
			}
			if s != nil {
				s.Close()
			}
		})
	}
}

func TestFileStorePersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "storage.json")

	s, err := OpenFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Set("tasks", `["Buy milk","Walk dog"]`); err != nil {
		t.Fatal(err)
	}
	s.Close()

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("store file not written: %v", err)
	}
	if !strings.HasSuffix(string(raw), "}\n") {
		t.Errorf("expected trailing newline, got %q", raw)
	}

	reopened, err := OpenFile(path)
	if err != nil {
		t.Fatal(err)
	}
	defer reopened.Close()
	got, ok, err := reopened.Get("tasks")
	if err != nil || !ok {
		t.Fatalf("Get after reopen: ok=%v err=%v", ok, err)
	}
	if got != `["Buy milk","Walk dog"]` {
		t.Errorf("got %q", got)
	}

	entries, _ := os.ReadDir(filepath.Dir(path))
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), ".tmp") {
			t.Errorf("temp file left behind: %s", e.Name())
		}
	}
}

func TestFileStoreCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "storage.json")
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}

	s, err := OpenFile(path)
	if err != nil {
		t.Fatalf("corrupt file should open as empty store, got %v", err)
	}
	defer s.Close()

	if len(s.Warnings()) != 1 {
		t.Errorf("expected one warning, got %v", s.Warnings())
	}
	if _, ok, _ := s.Get("tasks"); ok {
		t.Error("expected empty store")
	}

	raw, _ := os.ReadFile(path)
	if string(raw) != "{not json" {
		t.Error("corrupt file should not be rewritten before the next write")
	}
}

func TestClosedStores(t *testing.T) {
	fs, err := OpenFile(filepath.Join(t.TempDir(), "s.json"))
	if err != nil {
		t.Fatal(err)
	}
	fs.Close()
	if err := fs.Set("k", "v"); !errors.Is(err, ErrClosed) {
		t.Errorf("FileStore.Set after Close: got %v, want ErrClosed", err)
	}

	ms := NewMemoryStore()
	ms.Close()
	if _, _, err := ms.Get("k"); !errors.Is(err, ErrClosed) {
		t.Errorf("MemoryStore.Get after Close: got %v, want ErrClosed", err)
	}
}

func TestMemoryStoreFailures(t *testing.T) {
	boom := errors.New("disk full")
	m := NewMemoryStore()
	m.FailSet = boom
	if err := m.Set("k", "v"); !errors.Is(err, boom) {
		t.Errorf("Set: got %v, want %v", err, boom)
	}
	if m.Writes != 0 {
		t.Errorf("Writes: got %d, want 0", m.Writes)
	}
}
