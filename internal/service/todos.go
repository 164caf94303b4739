package service

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"todolist/internal/metrics"
	"todolist/internal/models"
	"todolist/internal/repository"
	"todolist/pkg/logger"

	"golang.org/x/sync/singleflight"
)

// ListCache holds the full ordered todo list between writes.
type ListCache interface {
	GetTodos(ctx context.Context) ([]models.Todo, bool)
	SetTodos(ctx context.Context, todos []models.Todo)
	InvalidateTodos(ctx context.Context)
}

// EventPublisher receives a change event after every successful mutation.
type EventPublisher interface {
	Publish(ctx context.Context, evt models.TodoEvent) error
}

type Option func(*TodoService)

func WithCache(c ListCache) Option { return func(s *TodoService) { s.cache = c } }

func WithEvents(p EventPublisher) Option { return func(s *TodoService) { s.events = p } }

// TodoService implements list/create/update/delete over a Store.
// It keeps no todo state of its own; the store is the source of truth.
type TodoService struct {
	store  repository.Store
	cache  ListCache
	events EventPublisher
	now    func() time.Time

	listGroup singleflight.Group
	// generation is bumped on every write; list results read under an older generation are never cached or shared.
	generation atomic.Uint64
}

func NewTodoService(store repository.Store, opts ...Option) *TodoService {
	s := &TodoService{store: store, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// List returns all todos, newest first. Cache-first; concurrent misses share one store read.
func (s *TodoService) List(ctx context.Context) ([]models.Todo, error) {
	if s.cache != nil {
		if todos, ok := s.cache.GetTodos(ctx); ok {
			return todos, nil
		}
	}
	gen := s.generation.Load()
	v, err, _ := s.listGroup.Do("todos:"+strconv.FormatUint(gen, 10), func() (any, error) {
		// detached so one cancelled caller does not fail the others sharing this read
		readCtx := context.WithoutCancel(ctx)
		todos, err := s.store.List(readCtx)
		if err != nil {
			return nil, err
		}
		if s.cache != nil && s.generation.Load() == gen {
			s.cache.SetTodos(readCtx, todos)
			// a write that landed between the check and the set already invalidated; drop what we stored
			if s.generation.Load() != gen {
				s.cache.InvalidateTodos(readCtx)
			}
		}
		return todos, nil
	})
	if err != nil {
		logger.Error(ctx, "List todos failed", "error", err)
		return nil, storeError("Failed to fetch todos", err)
	}
	return v.([]models.Todo), nil
}

// Create validates the title and persists a new, not completed todo. A nil title means the field was absent.
func (s *TodoService) Create(ctx context.Context, title *string) (*models.Todo, error) {
	if title == nil {
		return nil, validationError("Title is required", errTitleRequired)
	}
	t := strings.TrimSpace(*title)
	if t == "" {
		return nil, validationError("Title is required", errTitleRequired)
	}
	todo, err := s.store.Create(ctx, t)
	if err != nil {
		logger.Error(ctx, "Create todo failed", "error", err)
		return nil, storeError("Failed to create todo", err)
	}
	s.afterWrite(ctx, models.EventCreated, todo.ID, todo)
	return todo, nil
}

// Update replaces the supplied fields of the todo with the given id; omitted fields keep their value.
func (s *TodoService) Update(ctx context.Context, id string, patch models.TodoPatch) (*models.Todo, error) {
	if patch.Title != nil {
		t := strings.TrimSpace(*patch.Title)
		if t == "" {
			return nil, validationError("Title is required", errTitleEmpty)
		}
		patch.Title = &t
	}
	todo, err := s.store.Update(ctx, id, patch)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, notFoundError(err)
	}
	if err != nil {
		logger.Error(ctx, "Update todo failed", "error", err, "id", id)
		return nil, storeError("Failed to update todo", err)
	}
	s.afterWrite(ctx, models.EventUpdated, todo.ID, todo)
	return todo, nil
}

// Delete removes the todo with the given id.
func (s *TodoService) Delete(ctx context.Context, id string) error {
	_, err := s.store.Delete(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return notFoundError(err)
	}
	if err != nil {
		logger.Error(ctx, "Delete todo failed", "error", err, "id", id)
		return storeError("Failed to delete todo", err)
	}
	s.afterWrite(ctx, models.EventDeleted, id, nil)
	return nil
}

// Ping checks the store, used by readiness probes.
func (s *TodoService) Ping(ctx context.Context) error {
	return s.store.Ping(ctx)
}

// afterWrite runs once the store accepted a write. Failures here never fail the request.
func (s *TodoService) afterWrite(ctx context.Context, eventType, id string, todo *models.Todo) {
	s.generation.Add(1)
	if s.cache != nil {
		s.cache.InvalidateTodos(ctx)
	}
	if s.events == nil {
		return
	}
	evt := models.TodoEvent{Type: eventType, ID: id, Todo: todo, OccurredAt: s.now().UTC()}
	if err := s.events.Publish(ctx, evt); err != nil {
		metrics.EventsPublished.WithLabelValues(eventType, "failed").Inc()
		logger.Warn(ctx, "Publish todo event failed", "error", err, "type", eventType, "id", id)
	}
}
