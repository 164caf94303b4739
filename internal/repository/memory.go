package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"todolist/internal/models"
)

type memoryEntry struct {
	todo models.Todo
	seq  uint64
}

// MemoryStore keeps todos in process memory. Used by tests and STORE_DRIVER=memory.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]*memoryEntry
	seq     uint64
	now     func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]*memoryEntry),
		now:     time.Now,
	}
}

func (s *MemoryStore) List(ctx context.Context) ([]models.Todo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entries := make([]*memoryEntry, 0, len(s.entries))
	for _, e := range s.entries {
		entries = append(entries, e)
	}
	// createdAt desc; equal timestamps fall back to insertion order, latest first
	sort.Slice(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if !a.todo.CreatedAt.Equal(b.todo.CreatedAt) {
			return a.todo.CreatedAt.After(b.todo.CreatedAt)
		}
		return a.seq > b.seq
	})
	todos := make([]models.Todo, 0, len(entries))
	for _, e := range entries {
		todos = append(todos, e.todo)
	}
	return todos, nil
}

func (s *MemoryStore) Create(ctx context.Context, title string) (*models.Todo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now().UTC()
	s.seq++
	e := &memoryEntry{
		todo: models.Todo{
			ID:        uuid.New().String(),
			Title:     title,
			CreatedAt: now,
			UpdatedAt: now,
		},
		seq: s.seq,
	}
	s.entries[e.todo.ID] = e
	t := e.todo
	return &t, nil
}

func (s *MemoryStore) Update(ctx context.Context, id string, patch models.TodoPatch) (*models.Todo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[id]
	if !ok {
		return nil, ErrNotFound
	}
	if patch.Title != nil {
		e.todo.Title = *patch.Title
	}
	if patch.Completed != nil {
		e.todo.Completed = *patch.Completed
	}
	e.todo.UpdatedAt = s.now().UTC()
	t := e.todo
	return &t, nil
}

func (s *MemoryStore) Delete(ctx context.Context, id string) (*models.Todo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[id]
	if !ok {
		return nil, ErrNotFound
	}
	delete(s.entries, id)
	t := e.todo
	return &t, nil
}

func (s *MemoryStore) Ping(ctx context.Context) error { return nil }
