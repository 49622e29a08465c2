package ui

import (
	"fmt"
	"io"

	"github.com/nibzard/taskpad/internal/controller"
)

type consoleRow struct {
	console  *Console
	text     string
	onRemove func()
	attached bool
}

func (r *consoleRow) Detach() {
	if !r.attached {
		return
	}
	r.attached = false
	for i, other := range r.console.rows {
		if other == r {
			r.console.rows = append(r.console.rows[:i], r.console.rows[i+1:]...)
			return
		}
	}
}

func (r *consoleRow) Attached() bool {
	return r.attached
}

// Console is a non-interactive surface for one CLI invocation. The input
// field holds the command arguments; notices go to errOut.
type Console struct {
	input   string
	rows    []*consoleRow
	onAdd   func()
	onKey   func(key string)
	errOut  io.Writer
	notices []string
}

// NewConsole returns a console surface whose input field holds input.
func NewConsole(input string, errOut io.Writer) *Console {
	if errOut == nil {
		errOut = io.Discard
	}
	return &Console{input: input, errOut: errOut}
}

func (c *Console) RenderRow(text string, onRemove func()) controller.Row {
	r := &consoleRow{console: c, text: text, onRemove: onRemove, attached: true}
	c.rows = append(c.rows, r)
	return r
}

func (c *Console) ReadInput() string {
	return c.input
}

func (c *Console) ClearInput() {
	c.input = ""
}

func (c *Console) Notify(message string) {
	c.notices = append(c.notices, message)
	fmt.Fprintln(c.errOut, message)
}

func (c *Console) OnAdd(handler func()) {
	c.onAdd = handler
}

func (c *Console) OnKey(handler func(key string)) {
	c.onKey = handler
}

// Press activates the add control.
func (c *Console) Press() {
	if c.onAdd != nil {
		c.onAdd()
	}
}

// Notices returns every notice shown so far.
func (c *Console) Notices() []string {
	return append([]string(nil), c.notices...)
}

// Rows returns the text of every rendered row.
func (c *Console) Rows() []string {
	out := make([]string, len(c.rows))
	for i, r := range c.rows {
		out[i] = r.text
	}
	return out
}

// RemoveAt activates the Remove control of row n (1-based).
func (c *Console) RemoveAt(n int) error {
	if n < 1 || n > len(c.rows) {
		return fmt.Errorf("no task #%d (have %d)", n, len(c.rows))
	}
	c.rows[n-1].onRemove()
	return nil
}

// RemoveText activates the Remove control of the first row showing text.
// It reports whether such a row existed.
func (c *Console) RemoveText(text string) bool {
	for _, r := range c.rows {
		if r.text == text {
			r.onRemove()
			return true
		}
	}
	return false
}

// Print writes the rows as a numbered list.
func (c *Console) Print(w io.Writer) {
	if len(c.rows) == 0 {
		fmt.Fprintln(w, "No tasks.")
		return
	}
	for i, r := range c.rows {
		fmt.Fprintf(w, "%d. %s\n", i+1, r.text)
	}
}
