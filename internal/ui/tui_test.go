package ui

import (
	"bytes"
	"reflect"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nibzard/taskpad/internal/controller"
	"github.com/nibzard/taskpad/internal/storage"
	"github.com/nibzard/taskpad/internal/todo"
)

var (
	_ controller.Surface  = (*Model)(nil)
	_ controller.Notifier = (*Model)(nil)
	_ controller.Surface  = (*Console)(nil)
	_ controller.Notifier = (*Console)(nil)
)

func newPage(t *testing.T, store storage.Store) (*Model, *controller.Controller) {
	t.Helper()
	m := NewModel()
	c := controller.New(m, m, todo.NewSlot(store, ""))
	c.Start(m)
	return m, c
}

func press(m *Model, keys ...tea.KeyMsg) {
	for _, k := range keys {
		m.Update(k)
	}
}

func typeText(m *Model, text string) {
	for _, r := range text {
		m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
}

var (
	keyEnter = tea.KeyMsg{Type: tea.KeyEnter}
	keyTab   = tea.KeyMsg{Type: tea.KeyTab}
	keyEsc   = tea.KeyMsg{Type: tea.KeyEsc}
	keyDown  = tea.KeyMsg{Type: tea.KeyDown}
	keyCtrlC = tea.KeyMsg{Type: tea.KeyCtrlC}
)

func TestEnterAddsTask(t *testing.T) {
	store := storage.NewMemoryStore()
	m, _ := newPage(t, store)

	typeText(m, "Buy milk")
	press(m, keyEnter)

	if !reflect.DeepEqual(m.Rows(), []string{"Buy milk"}) {
		t.Fatalf("rows: got %v", m.Rows())
	}
	if m.ReadInput() != "" {
		t.Errorf("input should be cleared, got %q", m.ReadInput())
	}
	if raw, _, _ := store.Get(todo.DefaultKey); raw != `["Buy milk"]` {
		t.Errorf("storage: got %s", raw)
	}
	if !strings.Contains(m.View(), "Buy milk") {
		t.Error("view should show the new row")
	}
}

func TestAddButton(t *testing.T) {
	store := storage.NewMemoryStore()
	m, _ := newPage(t, store)

	typeText(m, "Walk dog")
	press(m, keyTab) // focus the Add button
	press(m, tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})

	if !reflect.DeepEqual(m.Rows(), []string{"Walk dog"}) {
		t.Fatalf("rows: got %v", m.Rows())
	}
}

func TestEmptySubmitOpensModalNotice(t *testing.T) {
	store := storage.NewMemoryStore()
	m, _ := newPage(t, store)

	typeText(m, "   ")
	press(m, keyEnter)

	if m.Notice() != controller.EmptyTaskMessage {
		t.Fatalf("notice: got %q", m.Notice())
	}
	if len(m.Rows()) != 0 || store.Writes != 0 {
		t.Errorf("nothing should change: rows=%v writes=%d", m.Rows(), store.Writes)
	}
	if !strings.Contains(m.View(), controller.EmptyTaskMessage) {
		t.Error("view should show the notice")
	}

	// Typing is swallowed while the notice is open.
	typeText(m, "x")
	if m.ReadInput() != "   " {
		t.Errorf("input changed under the notice: %q", m.ReadInput())
	}

	press(m, keyEnter)
	if m.Notice() != "" {
		t.Fatal("enter should dismiss the notice")
	}
	if len(m.Rows()) != 0 {
		t.Error("dismissing must not submit")
	}
}

func TestRemoveFromRows(t *testing.T) {
	store := storage.NewMemoryStore()
	store.Set(todo.DefaultKey, `["Buy milk","Walk dog"]`)
	m, c := newPage(t, store)

	if !reflect.DeepEqual(m.Rows(), []string{"Buy milk", "Walk dog"}) {
		t.Fatalf("loaded rows: got %v", m.Rows())
	}

	press(m, keyTab, keyTab) // input -> add -> rows
	press(m, keyDown)
	if m.focus != focusRows || m.cursor != 1 {
		t.Fatalf("focus=%v cursor=%d, want rows/1", m.focus, m.cursor)
	}
	press(m, keyEnter)

	if !reflect.DeepEqual(m.Rows(), []string{"Buy milk"}) {
		t.Errorf("rows: got %v", m.Rows())
	}
	if raw, _, _ := store.Get(todo.DefaultKey); raw != `["Buy milk"]` {
		t.Errorf("storage: got %s", raw)
	}

	press(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'d'}})
	if len(m.Rows()) != 0 || len(c.Tasks()) != 0 {
		t.Errorf("expected empty list, rows=%v tasks=%v", m.Rows(), c.Tasks())
	}
	if m.focus != focusInput {
		t.Error("focus should return to the input when the last row goes")
	}
}

func TestQuitKeys(t *testing.T) {
	m := NewModel()
	if _, cmd := m.Update(keyCtrlC); cmd == nil {
		t.Error("ctrl+c should quit")
	}
	if _, cmd := m.Update(keyEsc); cmd == nil {
		t.Error("esc should quit from the input")
	}

	m.Notify("hello")
	if _, cmd := m.Update(keyEsc); cmd != nil {
		t.Error("esc should only dismiss an open notice")
	}
	if m.Notice() != "" {
		t.Error("notice should be dismissed")
	}
}

func TestFocusCycleSkipsEmptyRows(t *testing.T) {
	m := NewModel()
	press(m, keyTab)
	if m.focus != focusAdd {
		t.Fatalf("focus: got %v, want add", m.focus)
	}
	press(m, keyTab)
	if m.focus != focusInput {
		t.Errorf("with no rows, tab should wrap to the input, got %v", m.focus)
	}
	press(m, tea.KeyMsg{Type: tea.KeyShiftTab})
	if m.focus != focusAdd {
		t.Errorf("shift+tab: got %v, want add", m.focus)
	}
}

func TestConsole(t *testing.T) {
	var errOut bytes.Buffer
	store := storage.NewMemoryStore()
	store.Set(todo.DefaultKey, `["a","b","a"]`)

	con := NewConsole("  c  ", &errOut)
	c := controller.New(con, con, todo.NewSlot(store, ""))
	c.Start(con)
	con.Press()

	if !reflect.DeepEqual(con.Rows(), []string{"a", "b", "a", "c"}) {
		t.Fatalf("rows: got %v", con.Rows())
	}
	if con.ReadInput() != "" {
		t.Error("input should be cleared")
	}

	if err := con.RemoveAt(3); err != nil {
		t.Fatal(err)
	}
	if raw, _, _ := store.Get(todo.DefaultKey); raw != `["b","a","c"]` {
		t.Errorf("storage after removing row 3: got %s", raw)
	}
	if err := con.RemoveAt(9); err == nil {
		t.Error("expected out of range error")
	}
	if con.RemoveText("zzz") {
		t.Error("RemoveText of missing text should report false")
	}

	var out bytes.Buffer
	con.Print(&out)
	if out.String() != "1. a\n2. b\n3. c\n" {
		t.Errorf("Print: got %q", out.String())
	}

	empty := NewConsole("", &errOut)
	ec := controller.New(empty, empty, todo.NewSlot(storage.NewMemoryStore(), ""))
	ec.Start(empty)
	empty.Press()
	if len(empty.Notices()) != 1 || !strings.Contains(errOut.String(), controller.EmptyTaskMessage) {
		t.Errorf("expected notice on stderr, got %q", errOut.String())
	}
}

func TestIsTTY(t *testing.T) {
	if IsTTY(&bytes.Buffer{}) {
		t.Error("buffer is not a TTY")
	}
}
