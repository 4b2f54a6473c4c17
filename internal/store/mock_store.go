// ABOUTME: Mock Store implementation for testing
// ABOUTME: Allows tests to run without SQLite

package store

import (
	"context"
	"slices"
	"sync"
)

// MockStore is an in-memory Store implementation for testing.
// Ids come from a counter that never goes backwards, so a deleted id is
// not handed out again.
type MockStore struct {
	mu         sync.RWMutex
	characters map[int64]*Character
	lastID     int64

	// Err, when set, is returned by every operation.
	Err error
}

// NewMockStore creates a new MockStore.
func NewMockStore() *MockStore {
	return &MockStore{
		characters: make(map[int64]*Character),
	}
}

// ListCharacters returns copies of the matching characters in q's order.
func (m *MockStore) ListCharacters(ctx context.Context, q Query) ([]*Character, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.Err != nil {
		return nil, m.Err
	}
	if err := q.Validate(); err != nil {
		return nil, err
	}

	result := make([]*Character, 0, len(m.characters))
	for _, c := range m.characters {
		if q.Where.Match(c) {
			cp := *c
			result = append(result, &cp)
		}
	}

	slices.SortFunc(result, func(a, b *Character) int {
		return compareCharacters(a, b, q.Order)
	})
	return result, nil
}

// GetCharacter retrieves a character by id.
func (m *MockStore) GetCharacter(ctx context.Context, id int64) (*Character, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.Err != nil {
		return nil, m.Err
	}
	c, ok := m.characters[id]
	if !ok {
		return nil, ErrNotFound
	}

	// Return a copy
	result := *c
	return &result, nil
}

// CreateCharacter stores a copy of c under the next id.
func (m *MockStore) CreateCharacter(ctx context.Context, c *Character) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.Err != nil {
		return m.Err
	}
	m.lastID++
	c.ID = m.lastID

	// Make a copy to avoid external modification
	stored := *c
	m.characters[stored.ID] = &stored
	return nil
}

// UpdateCharacter replaces the text fields of an existing character.
func (m *MockStore) UpdateCharacter(ctx context.Context, c *Character) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.Err != nil {
		return m.Err
	}
	if _, ok := m.characters[c.ID]; !ok {
		return ErrNotFound
	}

	stored := *c
	m.characters[c.ID] = &stored
	return nil
}

// DeleteCharacter removes a character.
func (m *MockStore) DeleteCharacter(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.Err != nil {
		return m.Err
	}
	if _, ok := m.characters[id]; !ok {
		return ErrNotFound
	}
	delete(m.characters, id)
	return nil
}

// Ping reports Err, if set.
func (m *MockStore) Ping(ctx context.Context) error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.Err
}

// Close is a no-op.
func (m *MockStore) Close() error {
	return nil
}

// Len returns the number of stored characters.
func (m *MockStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.characters)
}
