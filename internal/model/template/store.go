package template

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNameRequired = errors.New("template name is required")
	ErrBodyRequired = errors.New("template body is required")
	ErrNotFound     = errors.New("template not found")
)

// Store exposes template management for HTTP handlers.
type Store interface {
	Create(name, language, body string) (Template, error)
	List() []Template
	FindByID(id string) (Template, bool)
	Delete(id string) error
}

// MemoryStore implements Store with an in-memory slice, suitable for the demo.
type MemoryStore struct {
	mu    sync.RWMutex
	items []Template
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{items: make([]Template, 0, 8)}
}

// Create validates and stores a new template, returning the stored copy.
func (s *MemoryStore) Create(name, language, body string) (Template, error) {
	if name == "" {
		return Template{}, ErrNameRequired
	}
	if body == "" {
		return Template{}, ErrBodyRequired
	}
	if language == "" {
		language = DefaultLanguage
	}

	item := Template{
		ID:        uuid.NewString(),
		Name:      name,
		Language:  language,
		Body:      body,
		CreatedAt: time.Now().UTC(),
	}

	s.mu.Lock()
	s.items = append(s.items, item)
	s.mu.Unlock()

	return item, nil
}

// List returns all templates in creation order.
func (s *MemoryStore) List() []Template {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Template(nil), s.items...)
}

// FindByID looks up a template by identifier.
func (s *MemoryStore) FindByID(id string) (Template, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, item := range s.items {
		if item.ID == id {
			return item, true
		}
	}
	return Template{}, false
}

// Delete removes the template with the given identifier.
func (s *MemoryStore) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, item := range s.items {
		if item.ID == id {
			s.items = append(s.items[:i], s.items[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}
