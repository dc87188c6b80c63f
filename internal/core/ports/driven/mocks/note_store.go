package mocks

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/notefold/notefold-core/internal/core/domain"
)

// MockNoteStore is a mock implementation of NoteStore for testing
type MockNoteStore struct {
	mu    sync.RWMutex
	notes map[string]*domain.Note
}

// NewMockNoteStore creates a new MockNoteStore
func NewMockNoteStore() *MockNoteStore {
	return &MockNoteStore{notes: make(map[string]*domain.Note)}
}

func (m *MockNoteStore) Save(ctx context.Context, note *domain.Note) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.notes[note.ID] = note
	return nil
}

func (m *MockNoteStore) Get(ctx context.Context, id string) (*domain.Note, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	note, ok := m.notes[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return note, nil
}

func (m *MockNoteStore) GetByIDs(ctx context.Context, ids []string) ([]*domain.Note, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var notes []*domain.Note
	for _, id := range ids {
		if note, ok := m.notes[id]; ok {
			notes = append(notes, note)
		}
	}
	return notes, nil
}

func (m *MockNoteStore) ListByOwner(ctx context.Context, ownerID string, limit, offset int) ([]*domain.Note, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var notes []*domain.Note
	for _, note := range m.notes {
		if note.OwnerID == ownerID {
			notes = append(notes, note)
		}
	}
	sort.Slice(notes, func(i, j int) bool {
		return notes[i].CreatedAt.After(notes[j].CreatedAt)
	})
	if offset >= len(notes) {
		return []*domain.Note{}, nil
	}
	end := len(notes)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return notes[offset:end], nil
}

func (m *MockNoteStore) ListIDsByOwner(ctx context.Context, ownerID string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var ids []string
	for _, note := range m.notes {
		if note.OwnerID == ownerID {
			ids = append(ids, note.ID)
		}
	}
	return ids, nil
}

func (m *MockNoteStore) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.notes[id]; !ok {
		return domain.ErrNotFound
	}
	delete(m.notes, id)
	return nil
}

// Reset clears all stored notes
func (m *MockNoteStore) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.notes = make(map[string]*domain.Note)
}

// MockCompiledNoteStore is a mock implementation of CompiledNoteStore for testing
type MockCompiledNoteStore struct {
	mu    sync.RWMutex
	notes map[string]*domain.CompiledNote
}

// NewMockCompiledNoteStore creates a new MockCompiledNoteStore
func NewMockCompiledNoteStore() *MockCompiledNoteStore {
	return &MockCompiledNoteStore{notes: make(map[string]*domain.CompiledNote)}
}

func (m *MockCompiledNoteStore) Save(ctx context.Context, note *domain.CompiledNote) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.notes[note.ID] = note
	return nil
}

func (m *MockCompiledNoteStore) Get(ctx context.Context, id string) (*domain.CompiledNote, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	note, ok := m.notes[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return note, nil
}

func (m *MockCompiledNoteStore) ListByOwner(ctx context.Context, ownerID string, limit, offset int) ([]*domain.CompiledNote, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	notes := m.listByOwnerLocked(ownerID)
	if offset >= len(notes) {
		return []*domain.CompiledNote{}, nil
	}
	end := len(notes)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return notes[offset:end], nil
}

func (m *MockCompiledNoteStore) ListByOwnerSince(ctx context.Context, ownerID string, since time.Time) ([]*domain.CompiledNote, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var notes []*domain.CompiledNote
	for _, note := range m.listByOwnerLocked(ownerID) {
		if !note.CreatedAt.Before(since) {
			notes = append(notes, note)
		}
	}
	return notes, nil
}

func (m *MockCompiledNoteStore) listByOwnerLocked(ownerID string) []*domain.CompiledNote {
	var notes []*domain.CompiledNote
	for _, note := range m.notes {
		if note.OwnerID == ownerID {
			notes = append(notes, note)
		}
	}
	sort.Slice(notes, func(i, j int) bool {
		return notes[i].CreatedAt.After(notes[j].CreatedAt)
	})
	return notes
}

func (m *MockCompiledNoteStore) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.notes[id]; !ok {
		return domain.ErrNotFound
	}
	delete(m.notes, id)
	return nil
}

// Reset clears all stored compiled notes
func (m *MockCompiledNoteStore) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.notes = make(map[string]*domain.CompiledNote)
}
