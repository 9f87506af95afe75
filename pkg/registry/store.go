package registry

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrAlreadyExists indicates a create for an id that is already stored.
	ErrAlreadyExists = errors.New("item already exists")
	// ErrNotFound indicates a lookup or mutation for an absent id.
	ErrNotFound = errors.New("item not found")
)

type itemRecord struct {
	item   Item
	events []ItemEvent
}

// Store keeps items in memory. It is safe for concurrent use: every
// operation runs under the mutex for the full lookup or mutation, so
// writes are never lost and reads never observe partial state. The store
// starts empty and holds no state across process restarts.
type Store struct {
	mu    sync.RWMutex
	items map[int64]*itemRecord
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{items: make(map[int64]*itemRecord)}
}

// Create stores a new item. It fails with ErrAlreadyExists if the id is
// present, leaving the stored value untouched.
func (s *Store) Create(id int64, name string) (Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.items[id]; exists {
		return Item{}, fmt.Errorf("item %d: %w", id, ErrAlreadyExists)
	}

	rec := &itemRecord{item: Item{ID: id, Name: name}}
	rec.events = append(rec.events, newEvent(id, EventCreated, name))
	s.items[id] = rec
	return rec.item, nil
}

// Get returns the stored item for id, or ErrNotFound.
func (s *Store) Get(id int64) (Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.items[id]
	if !ok {
		return Item{}, fmt.Errorf("item %d: %w", id, ErrNotFound)
	}
	return rec.item, nil
}

// Update replaces the name of an existing item unconditionally; the last
// writer wins. It fails with ErrNotFound if the id is absent.
func (s *Store) Update(id int64, name string) (Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.items[id]
	if !ok {
		return Item{}, fmt.Errorf("item %d: %w", id, ErrNotFound)
	}

	rec.item.Name = name
	rec.events = append(rec.events, newEvent(id, EventUpdated, name))
	return rec.item, nil
}

// Delete removes an item and its event history. It fails with ErrNotFound
// if the id is absent; a deleted id may be created again.
func (s *Store) Delete(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.items[id]; !ok {
		return fmt.Errorf("item %d: %w", id, ErrNotFound)
	}
	delete(s.items, id)
	return nil
}

// List returns a snapshot of all stored items in unspecified order.
func (s *Store) List() []Item {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]Item, 0, len(s.items))
	for _, rec := range s.items {
		result = append(result, rec.item)
	}
	return result
}

// Len reports the number of stored items.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

// Events returns the change history for an item, oldest first. It fails
// with ErrNotFound if the id is absent.
func (s *Store) Events(id int64) ([]ItemEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.items[id]
	if !ok {
		return nil, fmt.Errorf("item %d: %w", id, ErrNotFound)
	}
	return append([]ItemEvent(nil), rec.events...), nil
}

func newEvent(itemID int64, kind EventKind, name string) ItemEvent {
	return ItemEvent{
		ID:        uuid.NewString(),
		ItemID:    itemID,
		Kind:      kind,
		Name:      name,
		CreatedAt: time.Now().UTC(),
	}
}
