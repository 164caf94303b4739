package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"todolist/internal/models"
	"todolist/pkg/logger"
)

const todoColumns = `id, title, completed, created_at, updated_at`

// PostgresStore keeps todos in the todos table (see database.MigrateOrCreateSchema).
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTodo(row rowScanner) (*models.Todo, error) {
	var t models.Todo
	if err := row.Scan(&t.ID, &t.Title, &t.Completed, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return nil, err
	}
	return &t, nil
}

// List returns all todos from the database.
func (s *PostgresStore) List(ctx context.Context) ([]models.Todo, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+todoColumns+` FROM todos ORDER BY created_at DESC, id DESC`)
	if err != nil {
		logger.Error(ctx, "Repository List failed", "error", err)
		return nil, err
	}
	defer rows.Close()
	todos := make([]models.Todo, 0)
	for rows.Next() {
		t, err := scanTodo(rows)
		if err != nil {
			logger.Error(ctx, "Repository scan todo failed", "error", err)
			return nil, err
		}
		todos = append(todos, *t)
	}
	return todos, rows.Err()
}

// Create inserts a new todo.
func (s *PostgresStore) Create(ctx context.Context, title string) (*models.Todo, error) {
	now := time.Now().UTC()
	t, err := scanTodo(s.db.QueryRowContext(ctx,
		`INSERT INTO todos (id, title, completed, created_at, updated_at)
		 VALUES ($1, $2, FALSE, $3, $3)
		 RETURNING `+todoColumns,
		uuid.New().String(), title, now))
	if err != nil {
		logger.Error(ctx, "Repository Create failed", "error", err)
		return nil, err
	}
	return t, nil
}

// Update sets the supplied fields of an existing todo by ID.
func (s *PostgresStore) Update(ctx context.Context, id string, patch models.TodoPatch) (*models.Todo, error) {
	t, err := scanTodo(s.db.QueryRowContext(ctx,
		`UPDATE todos SET title = COALESCE($1, title), completed = COALESCE($2, completed), updated_at = $3
		 WHERE id = $4
		 RETURNING `+todoColumns,
		patch.Title, patch.Completed, time.Now().UTC(), id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		logger.Error(ctx, "Repository Update failed", "error", err, "id", id)
		return nil, err
	}
	return t, nil
}

// Delete removes a todo by ID.
func (s *PostgresStore) Delete(ctx context.Context, id string) (*models.Todo, error) {
	t, err := scanTodo(s.db.QueryRowContext(ctx,
		`DELETE FROM todos WHERE id = $1 RETURNING `+todoColumns, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		logger.Error(ctx, "Repository Delete failed", "error", err, "id", id)
		return nil, err
	}
	return t, nil
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}
