package controller

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"todolist/internal/models"
	"todolist/internal/repository"
	"todolist/internal/service"

	"github.com/gin-gonic/gin"
)

// brokenStore fails every call.
type brokenStore struct{}

var errDown = errors.New("store is down")

func (*brokenStore) List(context.Context) ([]models.Todo, error) { return nil, errDown }
func (*brokenStore) Create(context.Context, string) (*models.Todo, error) {
	return nil, errDown
}
func (*brokenStore) Update(context.Context, string, models.TodoPatch) (*models.Todo, error) {
	return nil, errDown
}
func (*brokenStore) Delete(context.Context, string) (*models.Todo, error) { return nil, errDown }
func (*brokenStore) Ping(context.Context) error { return errDown }

type pingerFunc func(ctx context.Context) error

func (f pingerFunc) Ping(ctx context.Context) error { return f(ctx) }

func newEngine(tc *TodoController) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/api/todos", tc.GetTodos)
	r.POST("/api/todos", tc.CreateTodo)
	r.PUT("/api/todos/:id", tc.UpdateTodo)
	r.DELETE("/api/todos/:id", tc.DeleteTodo)
	r.GET("/ready", tc.Ready)
	return r
}

func serve(r http.Handler, method, path, body string) (*httptest.ResponseRecorder, map[string]any) {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	var out map[string]any
	_ = json.Unmarshal(w.Body.Bytes(), &out)
	return w, out
}

func TestCreateValidation(t *testing.T) {
	r := newEngine(NewTodoController(service.NewTodoService(repository.NewMemoryStore()), nil))

	for _, body := range []string{`{}`, `{"title":""}`, `{"title":null}`, `{"title":"  "}`, ``} {
		w, out := serve(r, http.MethodPost, "/api/todos", body)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("body %q: expected 400 got %d", body, w.Code)
		}
		if out["message"] != "Title is required" || out["error"] == nil {
			t.Fatalf("body %q: expected {message, error}, got %v", body, out)
		}
	}
}

func TestUnknownIDIsNotFound(t *testing.T) {
	r := newEngine(NewTodoController(service.NewTodoService(repository.NewMemoryStore()), nil))

	w, out := serve(r, http.MethodPut, "/api/todos/nope", `{"title":"x","completed":true}`)
	if w.Code != http.StatusNotFound || out["message"] != "Todo not found" || out["error"] != "todo not found" {
		t.Fatalf("update: expected 404 {message,error}, got %d %v", w.Code, out)
	}
	w, out = serve(r, http.MethodDelete, "/api/todos/nope", ``)
	if w.Code != http.StatusNotFound || out["message"] != "Todo not found" {
		t.Fatalf("delete: expected 404, got %d %v", w.Code, out)
	}
}

func TestUpdateWithEmptyBody(t *testing.T) {
	svc := service.NewTodoService(repository.NewMemoryStore())
	r := newEngine(NewTodoController(svc, nil))

	w, out := serve(r, http.MethodPut, "/api/todos/nope", ``)
	if w.Code != http.StatusNotFound || out["message"] != "Todo not found" {
		t.Fatalf("unknown id with empty body: expected 404, got %d %v", w.Code, out)
	}

	title := "A"
	todo, err := svc.Create(context.Background(), &title)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	w, out = serve(r, http.MethodPut, "/api/todos/"+todo.ID, ``)
	if w.Code != http.StatusOK || out["title"] != "A" || out["completed"] != false {
		t.Fatalf("empty patch should leave the todo unchanged, got %d %v", w.Code, out)
	}
}

func TestUpdateRejectsMalformedBody(t *testing.T) {
	r := newEngine(NewTodoController(service.NewTodoService(repository.NewMemoryStore()), nil))
	w, out := serve(r, http.MethodPut, "/api/todos/any", `{"completed":"yes"}`)
	if w.Code != http.StatusBadRequest || out["error"] == nil {
		t.Fatalf("expected 400 for wrong field type, got %d %v", w.Code, out)
	}
}

func TestStoreErrorsAre500(t *testing.T) {
	r := newEngine(NewTodoController(service.NewTodoService(&brokenStore{}), nil))

	w, out := serve(r, http.MethodGet, "/api/todos", ``)
	if w.Code != http.StatusInternalServerError || out["message"] != "Failed to fetch todos" || out["error"] != errDown.Error() {
		t.Fatalf("list: expected 500 with passthrough error, got %d %v", w.Code, out)
	}
	w, out = serve(r, http.MethodPost, "/api/todos", `{"title":"A"}`)
	if w.Code != http.StatusInternalServerError || out["message"] != "Failed to create todo" {
		t.Fatalf("create: expected 500, got %d %v", w.Code, out)
	}
}

func TestReady(t *testing.T) {
	svc := service.NewTodoService(repository.NewMemoryStore())
	ok := newEngine(NewTodoController(svc, map[string]Pinger{"redis": pingerFunc(func(context.Context) error { return nil })}))
	if w, _ := serve(ok, http.MethodGet, "/ready", ``); w.Code != http.StatusOK {
		t.Fatalf("expected ready, got %d", w.Code)
	}

	down := newEngine(NewTodoController(svc, map[string]Pinger{"redis": pingerFunc(func(context.Context) error { return errDown })}))
	w, out := serve(down, http.MethodGet, "/ready", ``)
	if w.Code != http.StatusServiceUnavailable || out["status"] != "redis unavailable" {
		t.Fatalf("expected 503 redis unavailable, got %d %v", w.Code, out)
	}

	broken := newEngine(NewTodoController(service.NewTodoService(&brokenStore{}), nil))
	if w, _ := serve(broken, http.MethodGet, "/ready", ``); w.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 when store is down, got %d", w.Code)
	}
}
