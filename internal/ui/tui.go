// Package ui provides the surfaces the task list controller draws on.
package ui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nibzard/taskpad/internal/controller"
)

type focus int

const (
	focusInput focus = iota
	focusAdd
	focusRows
)

var (
	titleStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	buttonStyle    = lipgloss.NewStyle().Padding(0, 1).Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("240"))
	buttonActive   = buttonStyle.BorderForeground(lipgloss.Color("212")).Bold(true)
	removeStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	removeActive   = lipgloss.NewStyle().Foreground(lipgloss.Color("203")).Bold(true)
	cursorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("212"))
	mutedStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	noticeBoxStyle = lipgloss.NewStyle().Border(lipgloss.DoubleBorder()).BorderForeground(lipgloss.Color("203")).Padding(1, 3)
)

// TUIOption configures the TUI model.
type TUIOption func(*Model)

// WithStoreLabel shows where the list is stored in the footer.
func WithStoreLabel(label string) TUIOption {
	return func(m *Model) {
		m.storeLabel = label
	}
}

// WithPlaceholder sets the input placeholder.
func WithPlaceholder(text string) TUIOption {
	return func(m *Model) {
		m.input.Placeholder = text
	}
}

type tuiRow struct {
	model    *Model
	text     string
	onRemove func()
	attached bool
}

func (r *tuiRow) Detach() {
	if !r.attached {
		return
	}
	r.attached = false
	r.model.dropRow(r)
}

func (r *tuiRow) Attached() bool {
	return r.attached
}

// Model is the bubbletea model of the task list page. It implements
// controller.Surface and controller.Notifier.
type Model struct {
	input      textinput.Model
	rows       []*tuiRow
	cursor     int
	focus      focus
	notice     string
	onAdd      func()
	onKey      func(key string)
	storeLabel string
	width      int
	height     int
}

// NewModel returns an empty page with the input focused.
func NewModel(opts ...TUIOption) *Model {
	ti := textinput.New()
	ti.Placeholder = "Enter a new task"
	ti.CharLimit = 512
	ti.Width = 40
	ti.Prompt = "> "
	ti.Focus()

	m := &Model{input: ti}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// RunTUI runs the page until the user quits or ctx is cancelled.
func RunTUI(ctx context.Context, m *Model) error {
	if !IsTTY(os.Stdout) {
		return fmt.Errorf("tui requires a TTY")
	}
	program := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := program.Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return ctx.Err()
		}
		return err
	}
	return nil
}

// RenderRow appends a row with a Remove control.
func (m *Model) RenderRow(text string, onRemove func()) controller.Row {
	r := &tuiRow{model: m, text: text, onRemove: onRemove, attached: true}
	m.rows = append(m.rows, r)
	return r
}

func (m *Model) ReadInput() string {
	return m.input.Value()
}

func (m *Model) ClearInput() {
	m.input.SetValue("")
}

// Notify opens the modal notice. Input is swallowed until it is dismissed.
func (m *Model) Notify(message string) {
	m.notice = message
}

func (m *Model) OnAdd(handler func()) {
	m.onAdd = handler
}

func (m *Model) OnKey(handler func(key string)) {
	m.onKey = handler
}

// Notice returns the open notice, or "".
func (m *Model) Notice() string {
	return m.notice
}

// Rows returns the text of every rendered row.
func (m *Model) Rows() []string {
	out := make([]string, len(m.rows))
	for i, r := range m.rows {
		out[i] = r.text
	}
	return out
}

func (m *Model) dropRow(target *tuiRow) {
	for i, r := range m.rows {
		if r == target {
			m.rows = append(m.rows[:i], m.rows[i+1:]...)
			break
		}
	}
	if m.cursor >= len(m.rows) {
		m.cursor = len(m.rows) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	if len(m.rows) == 0 && m.focus == focusRows {
		m.setFocus(focusInput)
	}
}

func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		if msg.Width > 20 {
			m.input.Width = msg.Width - 20
		}
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	if key == "ctrl+c" {
		return m, tea.Quit
	}

	if m.notice != "" {
		switch key {
		case "enter", "esc", " ", "space":
			m.notice = ""
		}
		return m, nil
	}

	switch key {
	case "tab":
		m.setFocus(m.nextFocus(1))
		return m, nil
	case "shift+tab":
		m.setFocus(m.nextFocus(-1))
		return m, nil
	}

	switch m.focus {
	case focusAdd:
		return m.updateAdd(key)
	case focusRows:
		return m.updateRows(key)
	default:
		return m.updateInput(key, msg)
	}
}

func (m *Model) updateInput(key string, msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key == "esc" {
		return m, tea.Quit
	}
	if m.onKey != nil {
		m.onKey(key)
	}
	if key == "enter" {
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) updateAdd(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "enter", " ", "space":
		if m.onAdd != nil {
			m.onAdd()
		}
	case "esc", "q":
		return m, tea.Quit
	}
	return m, nil
}

func (m *Model) updateRows(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.rows)-1 {
			m.cursor++
		}
	case "enter", "d", "x", "delete", "backspace":
		if m.cursor < len(m.rows) {
			if r := m.rows[m.cursor]; r.onRemove != nil {
				r.onRemove()
			}
		}
	case "esc", "q":
		return m, tea.Quit
	}
	return m, nil
}

func (m *Model) nextFocus(step int) focus {
	order := []focus{focusInput, focusAdd}
	if len(m.rows) > 0 {
		order = append(order, focusRows)
	}
	i := 0
	for j, f := range order {
		if f == m.focus {
			i = j
		}
	}
	return order[(i+step+len(order))%len(order)]
}

func (m *Model) setFocus(f focus) {
	m.focus = f
	if f == focusInput {
		m.input.Focus()
	} else {
		m.input.Blur()
	}
}

func (m *Model) View() string {
	if m.notice != "" {
		return m.noticeView()
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("To-Do List") + "\n\n")

	button := buttonStyle
	if m.focus == focusAdd {
		button = buttonActive
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Center, m.input.View()+"  ", button.Render("Add Task")))
	b.WriteString("\n\n")

	if len(m.rows) == 0 {
		b.WriteString(mutedStyle.Render("  No tasks yet.") + "\n")
	}
	for i, r := range m.rows {
		b.WriteString(m.rowView(i, r) + "\n")
	}

	b.WriteString("\n")
	b.WriteString(mutedStyle.Render(m.footer()))
	return b.String()
}

func (m *Model) rowView(i int, r *tuiRow) string {
	selected := m.focus == focusRows && i == m.cursor
	marker := "  "
	remove := removeStyle.Render("[Remove]")
	if selected {
		marker = cursorStyle.Render("> ")
		remove = removeActive.Render("[Remove]")
	}
	return fmt.Sprintf("%s• %s  %s", marker, r.text, remove)
}

func (m *Model) footer() string {
	line := "tab: switch focus • enter: add/remove • esc: quit"
	if m.storeLabel != "" {
		line += "\nstore: " + m.storeLabel
	}
	return line
}

func (m *Model) noticeView() string {
	box := noticeBoxStyle.Render(m.notice + "\n\n" + buttonActive.Render("OK"))
	if m.width == 0 || m.height == 0 {
		return box
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}

// IsTTY returns true if w is a terminal.
func IsTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) != 0
}
