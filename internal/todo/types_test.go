package todo

import (
	"errors"
	"strings"
	"testing"

	"github.com/nibzard/taskpad/internal/storage"
)

func TestEncode(t *testing.T) {
	tests := []struct {
		name string
		list List
		want string
	}{
		{"nil", nil, `[]`},
		{"empty", List{}, `[]`},
		{"two tasks", NewList("Buy milk", "Walk dog"), `["Buy milk","Walk dog"]`},
		{"no html escaping", NewList("a <b> & c"), `["a <b> & c"]`},
		{"quotes", NewList(`say "hi"`), `["say \"hi\""]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Encode(tt.list)
			if err != nil {
				t.Fatalf("Encode failed: %v", err)
			}
			if string(got) != tt.want {
				t.Errorf("Encode: got %s, want %s", got, tt.want)
			}
		})
	}
}

func TestDecode(t *testing.T) {
	tests := []struct {
		name     string
		data     string
		want     []string
		wantErr  bool
		wantPath string
	}{
		{name: "empty array", data: `[]`, want: []string{}},
		{name: "two tasks", data: `["Buy milk","Walk dog"]`, want: []string{"Buy milk", "Walk dog"}},
		{name: "duplicates kept", data: `["a","a"]`, want: []string{"a", "a"}},
		{name: "whitespace kept", data: `["  padded  "]`, want: []string{"  padded  "}},
		{name: "not json", data: `[`, wantErr: true},
		{name: "empty bytes", data: ``, wantErr: true},
		{name: "object", data: `{"tasks":[]}`, wantErr: true},
		{name: "null", data: `null`, wantErr: true},
		{name: "number item", data: `["ok",2]`, wantErr: true, wantPath: "[1]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Decode([]byte(tt.data))
			if tt.wantErr {
				if err == nil {
					t.Fatalf("Decode(%q): expected error, got %v", tt.data, got)
				}
				if tt.wantPath != "" {
					var ve *ValidationError
					if !errors.As(err, &ve) {
						t.Fatalf("expected ValidationError, got %T: %v", err, err)
					}
					if ve.Path != tt.wantPath {
						t.Errorf("Path: got %q, want %q", ve.Path, tt.wantPath)
					}
				}
				return
			}
			if err != nil {
				t.Fatalf("Decode(%q) failed: %v", tt.data, err)
			}
			if strings.Join(got.Strings(), "|") != strings.Join(tt.want, "|") || len(got) != len(tt.want) {
				t.Errorf("Decode: got %q, want %q", got.Strings(), tt.want)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	if r := Validate([]byte(`["a","b"]`)); !r.Valid || r.Count != 2 {
		t.Errorf("valid slot: got Valid=%v Count=%d", r.Valid, r.Count)
	}

	r := Validate([]byte(`["a",true,{}]`))
	if r.Valid {
		t.Fatal("expected invalid result")
	}
	if len(r.Errors) != 2 {
		t.Fatalf("expected 2 errors, got %d: %v", len(r.Errors), r.Errors)
	}
	if !strings.HasPrefix(r.Errors[0].Error(), "[1]") {
		t.Errorf("first error should point at [1], got %q", r.Errors[0])
	}

	if r := Validate([]byte(`nope`)); r.Valid {
		t.Error("expected invalid result for non-JSON input")
	}
}

func TestRemoveFirst(t *testing.T) {
	l := NewList("a", "b", "a", "c")

	got, ok := l.RemoveFirst("a")
	if !ok {
		t.Fatal("expected a to be found")
	}
	if strings.Join(got.Strings(), ",") != "b,a,c" {
		t.Errorf("RemoveFirst: got %v, want [b a c]", got.Strings())
	}
	if strings.Join(l.Strings(), ",") != "a,b,a,c" {
		t.Errorf("receiver modified: %v", l.Strings())
	}

	same, ok := l.RemoveFirst("zzz")
	if ok {
		t.Error("expected missing task to report not found")
	}
	if len(same) != len(l) {
		t.Errorf("list changed on miss: %v", same.Strings())
	}
}

func TestCloneIsIndependent(t *testing.T) {
	l := NewList("a")
	c := l.Clone()
	c[0] = "b"
	if l[0] != "a" {
		t.Error("Clone shares backing array")
	}

	var nilList List
	if nilList.Clone() == nil {
		t.Error("Clone of nil should be non-nil")
	}
}

func TestJSONPointerToPath(t *testing.T) {
	tests := []struct{ in, want string }{
		{"", ""},
		{"#", ""},
		{"/2", "[2]"},
		{"#/a/0/b", "a[0].b"},
		{"/a~1b", "a/b"},
		{"/a~0b", "a~b"},
	}
	for _, tt := range tests {
		if got := jsonPointerToPath(tt.in); got != tt.want {
			t.Errorf("jsonPointerToPath(%q): got %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSlot(t *testing.T) {
	store := storage.NewMemoryStore()
	slot := NewSlot(store, "")
	if slot.Key != DefaultKey {
		t.Fatalf("Key: got %q, want %q", slot.Key, DefaultKey)
	}

	l, err := slot.Load()
	if err != nil {
		t.Fatalf("Load of absent slot: %v", err)
	}
	if l == nil || len(l) != 0 {
		t.Errorf("absent slot should load as empty list, got %v", l)
	}

	if err := slot.Save(NewList("Buy milk", "Walk dog")); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	raw, _, _ := store.Get(DefaultKey)
	if raw != `["Buy milk","Walk dog"]` {
		t.Errorf("stored %q", raw)
	}

	l, err = slot.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if strings.Join(l.Strings(), ",") != "Buy milk,Walk dog" {
		t.Errorf("Load: got %v", l.Strings())
	}

	if err := slot.Clear(); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	if _, ok, _ := slot.Raw(); ok {
		t.Error("expected slot to be gone after Clear")
	}
}

func TestSlotErrors(t *testing.T) {
	t.Run("malformed slot", func(t *testing.T) {
		store := storage.NewMemoryStore()
		store.Set(DefaultKey, `{"oops":1}`)
		if _, err := NewSlot(store, "").Load(); err == nil {
			t.Fatal("expected error for malformed slot")
		}
	})

	t.Run("write failure is wrapped", func(t *testing.T) {
		boom := errors.New("quota exceeded")
		store := storage.NewMemoryStore()
		store.FailSet = boom
		err := NewSlot(store, "k").Save(NewList("x"))
		if !errors.Is(err, boom) {
			t.Fatalf("Save: got %v, want wrapped %v", err, boom)
		}
		if !strings.Contains(err.Error(), `"k"`) {
			t.Errorf("error should name the slot: %v", err)
		}
	})
}
