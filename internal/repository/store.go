package repository

import (
	"context"
	"errors"
	"fmt"

	"todolist/internal/config"
	"todolist/internal/database"
	"todolist/internal/models"
)

// ErrNotFound is returned when no todo matches the given id.
var ErrNotFound = errors.New("todo not found")

// Store is the document-store contract the service runs on.
// Every method is a single atomic operation on one record or a single read.
type Store interface {
	// List returns every todo, newest first.
	List(ctx context.Context) ([]models.Todo, error)
	// Create persists a new todo with completed=false and store-assigned id and timestamps.
	Create(ctx context.Context, title string) (*models.Todo, error)
	// Update applies the non-nil patch fields and returns the stored result.
	Update(ctx context.Context, id string, patch models.TodoPatch) (*models.Todo, error)
	// Delete removes the todo and returns it as it was before deletion.
	Delete(ctx context.Context, id string) (*models.Todo, error)
	Ping(ctx context.Context) error
}

// Open builds the store selected by cfg.StoreDriver, creating schema/indexes where needed.
func Open(ctx context.Context, cfg *config.Config) (Store, error) {
	switch cfg.StoreDriver {
	case config.DriverMongo:
		coll := database.TodosCollection(ctx)
		if coll == nil {
			return nil, errors.New("mongodb not available")
		}
		if err := database.EnsureIndexes(ctx, coll); err != nil {
			return nil, err
		}
		return NewMongoStore(coll), nil
	case config.DriverPostgres:
		db := database.DB(ctx)
		if db == nil {
			return nil, errors.New("database not available")
		}
		if err := database.MigrateOrCreateSchema(ctx, db); err != nil {
			return nil, err
		}
		return NewPostgresStore(db), nil
	case config.DriverMemory:
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown STORE_DRIVER %q", cfg.StoreDriver)
	}
}
