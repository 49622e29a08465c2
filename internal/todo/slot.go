package todo

import (
	"fmt"

	"github.com/nibzard/taskpad/internal/storage"
)

// DefaultKey is the store key the task list lives under.
const DefaultKey = "tasks"

// Slot is a task list persisted under one key of a store.
type Slot struct {
	Store storage.Store
	Key   string
}

// NewSlot returns a slot for key, or DefaultKey when key is empty.
func NewSlot(store storage.Store, key string) *Slot {
	if key == "" {
		key = DefaultKey
	}
	return &Slot{Store: store, Key: key}
}

// Load reads the list. An absent key is an empty list, not an error.
func (s *Slot) Load() (List, error) {
	raw, ok, err := s.Store.Get(s.Key)
	if err != nil {
		return nil, fmt.Errorf("read slot %q: %w", s.Key, err)
	}
	if !ok {
		return List{}, nil
	}
	l, err := Decode([]byte(raw))
	if err != nil {
		return nil, fmt.Errorf("read slot %q: %w", s.Key, err)
	}
	return l, nil
}

// Raw returns the stored bytes as-is.
func (s *Slot) Raw() (string, bool, error) {
	return s.Store.Get(s.Key)
}

// Save writes the whole list in one Set.
func (s *Slot) Save(l List) error {
	data, err := Encode(l)
	if err != nil {
		return fmt.Errorf("write slot %q: %w", s.Key, err)
	}
	if err := s.Store.Set(s.Key, string(data)); err != nil {
		return fmt.Errorf("write slot %q: %w", s.Key, err)
	}
	return nil
}

// Clear removes the slot from the store.
func (s *Slot) Clear() error {
	if err := s.Store.Delete(s.Key); err != nil {
		return fmt.Errorf("clear slot %q: %w", s.Key, err)
	}
	return nil
}
