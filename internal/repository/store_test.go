package repository

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"todolist/internal/database"
	"todolist/internal/models"
)

func boolPtr(b bool) *bool { return &b }
func strPtr(s string) *string { return &s }

// exerciseStore runs the behaviour every backend must share against an empty store.
func exerciseStore(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	todos, err := s.List(ctx)
	if err != nil {
		t.Fatalf("list empty: %v", err)
	}
	if todos == nil || len(todos) != 0 {
		t.Fatalf("expected empty non-nil list, got %#v", todos)
	}

	a, err := s.Create(ctx, "A")
	if err != nil {
		t.Fatalf("create A: %v", err)
	}
	if a.ID == "" || a.Title != "A" || a.Completed || a.CreatedAt.IsZero() {
		t.Fatalf("unexpected created todo %+v", a)
	}
	time.Sleep(2 * time.Millisecond)
	b, err := s.Create(ctx, "B")
	if err != nil {
		t.Fatalf("create B: %v", err)
	}
	if a.ID == b.ID {
		t.Fatalf("ids must be unique")
	}

	todos, err = s.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(todos) != 2 || todos[0].ID != b.ID || todos[1].ID != a.ID {
		t.Fatalf("expected [B, A], got %+v", todos)
	}

	updated, err := s.Update(ctx, b.ID, models.TodoPatch{Completed: boolPtr(true)})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if !updated.Completed || updated.Title != "B" || updated.ID != b.ID || !updated.CreatedAt.Equal(b.CreatedAt) {
		t.Fatalf("update must only flip completed, got %+v (was %+v)", updated, b)
	}

	renamed, err := s.Update(ctx, b.ID, models.TodoPatch{Title: strPtr("B2")})
	if err != nil {
		t.Fatalf("rename: %v", err)
	}
	if renamed.Title != "B2" || !renamed.Completed {
		t.Fatalf("omitted completed must be kept, got %+v", renamed)
	}

	unknown := primitive.NewObjectID().Hex()
	if _, err := s.Update(ctx, unknown, models.TodoPatch{Completed: boolPtr(true)}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("update unknown: expected ErrNotFound, got %v", err)
	}
	if _, err := s.Update(ctx, "not-an-id", models.TodoPatch{}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("update malformed id: expected ErrNotFound, got %v", err)
	}

	if _, err := s.Delete(ctx, a.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := s.Delete(ctx, a.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("second delete: expected ErrNotFound, got %v", err)
	}
	todos, err = s.List(ctx)
	if err != nil {
		t.Fatalf("list after delete: %v", err)
	}
	if len(todos) != 1 || todos[0].ID != b.ID {
		t.Fatalf("expected only B after delete, got %+v", todos)
	}
	if err := s.Ping(ctx); err != nil {
		t.Fatalf("ping: %v", err)
	}
}

func TestMemoryStore(t *testing.T) {
	exerciseStore(t, NewMemoryStore())
}

func TestMemoryStoreSameTimestampOrdering(t *testing.T) {
	s := NewMemoryStore()
	fixed := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return fixed }
	ctx := context.Background()
	first, _ := s.Create(ctx, "first")
	second, _ := s.Create(ctx, "second")

	todos, _ := s.List(ctx)
	if todos[0].ID != second.ID || todos[1].ID != first.ID {
		t.Fatalf("latest insert must come first on equal createdAt, got %+v", todos)
	}
}

// Integration-style test: runs only if TEST_MONGO_URI env is set.
func TestMongoStoreIntegration(t *testing.T) {
	uri := os.Getenv("TEST_MONGO_URI")
	if uri == "" {
		t.Skip("TEST_MONGO_URI not set; skipping integration test")
	}
	ctx := context.Background()
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		t.Fatalf("connect mongo: %v", err)
	}
	defer client.Disconnect(ctx)

	coll := client.Database("todolist_test").Collection("todos_" + uuid.NewString())
	defer coll.Drop(ctx)
	if err := database.EnsureIndexes(ctx, coll); err != nil {
		t.Fatalf("indexes: %v", err)
	}
	exerciseStore(t, NewMongoStore(coll))
}

// Integration-style test: runs only if TEST_DATABASE_URL env is set. The todos table is truncated.
func TestPostgresStoreIntegration(t *testing.T) {
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set; skipping integration test")
	}
	ctx := context.Background()
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	defer db.Close()
	if err := database.MigrateOrCreateSchema(ctx, db); err != nil {
		t.Fatalf("schema: %v", err)
	}
	if _, err := db.ExecContext(ctx, `TRUNCATE todos`); err != nil {
		t.Fatalf("truncate: %v", err)
	}
	exerciseStore(t, NewPostgresStore(db))
}
