// Package controller owns the task list and keeps it in step with the
// rendered rows and the persisted slot.
package controller

import (
	"errors"
	"io"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/nibzard/taskpad/internal/todo"
)

// EmptyTaskMessage is the notice shown when an empty task is submitted.
const EmptyTaskMessage = "Please enter a task."

// ErrEmptyTask is returned when the submitted text is empty.
var ErrEmptyTask = errors.New("task text is empty")

// Row is a rendered task row.
type Row interface {
	// Detach removes the row from the rendered list. Detaching a row that
	// is no longer attached does nothing.
	Detach()
	Attached() bool
}

// View is the rendering surface the controller draws on.
type View interface {
	// RenderRow appends a row showing text with a Remove control that
	// calls onRemove when activated.
	RenderRow(text string, onRemove func()) Row
	ReadInput() string
	ClearInput()
}

// Notifier shows a notice the user has to acknowledge.
type Notifier interface {
	Notify(message string)
}

// Surface is a View that also delivers the add and key events.
type Surface interface {
	View
	// OnAdd registers the handler for the add control.
	OnAdd(handler func())
	// OnKey registers the handler for key presses in the text input.
	OnKey(handler func(key string))
}

// Option configures a Controller.
type Option func(*Controller)

// WithLogger sets the logger. The default discards everything.
func WithLogger(logger *log.Logger) Option {
	return func(c *Controller) {
		if logger != nil {
			c.logger = logger
		}
	}
}

type row struct {
	text   string
	handle Row
}

// Controller is the task list controller. It is not safe for concurrent
// use; every handler is expected to run on the UI event loop.
type Controller struct {
	view     View
	notifier Notifier
	slot     *todo.Slot
	logger   *log.Logger

	tasks todo.List
	rows  []*row
}

// New creates a controller drawing on view and persisting to slot.
func New(view View, notifier Notifier, slot *todo.Slot, opts ...Option) *Controller {
	c := &Controller{
		view:     view,
		notifier: notifier,
		slot:     slot,
		logger:   log.New(io.Discard),
		tasks:    todo.List{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Start loads the persisted list onto the surface and registers the add
// and key handlers.
func (c *Controller) Start(s Surface) {
	c.LoadTasks()
	s.OnAdd(c.HandleAdd)
	s.OnKey(c.HandleKey)
}

// HandleAdd is the add control handler.
func (c *Controller) HandleAdd() {
	if err := c.Submit(); err != nil && !errors.Is(err, ErrEmptyTask) {
		c.logger.Error("add task failed", "err", err)
	}
}

// HandleKey submits the input when key is Enter.
func (c *Controller) HandleKey(key string) {
	if key != "enter" {
		return
	}
	c.HandleAdd()
}

// Submit adds the trimmed input text as a persisted task and clears the
// input. Empty input shows the notice and returns ErrEmptyTask.
func (c *Controller) Submit() error {
	text := strings.TrimSpace(c.view.ReadInput())
	if text == "" {
		c.reject()
		return ErrEmptyTask
	}
	err := c.add(text, true)
	c.view.ClearInput()
	return err
}

// AddTask adds text exactly as given, without trimming, and leaves the
// input alone. With persist false the row is rendered but neither the
// in-memory list nor the slot changes.
func (c *Controller) AddTask(text string, persist bool) error {
	if text == "" {
		c.reject()
		return ErrEmptyTask
	}
	return c.add(text, persist)
}

func (c *Controller) reject() {
	c.logger.Debug("rejected empty task")
	c.notifier.Notify(EmptyTaskMessage)
}

func (c *Controller) add(text string, persist bool) error {
	r := &row{text: text}
	r.handle = c.view.RenderRow(text, func() {
		if err := c.RemoveTask(r.handle, text); err != nil {
			c.logger.Error("remove task failed", "task", text, "err", err)
		}
	})
	c.rows = append(c.rows, r)

	if !persist {
		return nil
	}

	c.tasks = append(c.tasks, todo.Task(text))
	c.logger.Info("task added", "task", text, "count", len(c.tasks))
	return c.save()
}

// RemoveTask detaches row and removes the first task equal to text.
// When no task matches, the slot is left untouched.
func (c *Controller) RemoveTask(handle Row, text string) error {
	if handle != nil && handle.Attached() {
		handle.Detach()
	}
	for i, r := range c.rows {
		if r.handle == handle {
			c.rows = append(c.rows[:i], c.rows[i+1:]...)
			break
		}
	}

	next, found := c.tasks.RemoveFirst(todo.Task(text))
	if !found {
		c.logger.Debug("remove matched no stored task", "task", text)
		return nil
	}
	c.tasks = next
	c.logger.Info("task removed", "task", text, "count", len(c.tasks))
	return c.save()
}

// LoadTasks replaces the in-memory list with the persisted one and renders
// it. An unreadable slot loads as an empty list. Rows rendered by an
// earlier load are detached first, so loading twice does not duplicate.
func (c *Controller) LoadTasks() {
	stored, err := c.slot.Load()
	if err != nil {
		c.logger.Warn("saved tasks unreadable, starting empty", "key", c.slot.Key, "err", err)
		stored = todo.List{}
	}

	for _, r := range c.rows {
		r.handle.Detach()
	}
	c.rows = nil

	c.tasks = stored.Clone()
	for _, t := range stored {
		// Replays stored text as-is; an empty entry raises the notice.
		_ = c.AddTask(string(t), false)
	}
	c.logger.Debug("tasks loaded", "key", c.slot.Key, "count", len(c.tasks))
}

// Tasks returns a copy of the in-memory list.
func (c *Controller) Tasks() todo.List {
	return c.tasks.Clone()
}

// Rows returns the text of every row this controller has rendered and not
// removed, in order.
func (c *Controller) Rows() []string {
	out := make([]string, 0, len(c.rows))
	for _, r := range c.rows {
		if r.handle.Attached() {
			out = append(out, r.text)
		}
	}
	return out
}

func (c *Controller) save() error {
	if err := c.slot.Save(c.tasks); err != nil {
		c.logger.Error("saving tasks failed", "key", c.slot.Key, "err", err)
		return err
	}
	return nil
}
