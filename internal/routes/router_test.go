package routes

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"todolist/internal/controller"
	"todolist/internal/middleware"
	"todolist/internal/models"
	"todolist/internal/repository"
	"todolist/internal/service"
)

func newTestRouter() http.Handler {
	svc := service.NewTodoService(repository.NewMemoryStore())
	return Router(controller.NewTodoController(svc, nil), nil)
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(w.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %q: %v", w.Body.String(), err)
	}
	return v
}

func TestTodoLifecycle(t *testing.T) {
	r := newTestRouter()

	w := do(t, r, http.MethodPost, "/api/todos", `{"title":"A"}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("create A: expected 201 got %d (%s)", w.Code, w.Body.String())
	}
	a := decode[models.Todo](t, w)
	if a.ID == "" || a.Title != "A" || a.Completed {
		t.Fatalf("unexpected A %+v", a)
	}

	w = do(t, r, http.MethodPost, "/api/todos", `{"title":"B"}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("create B: expected 201 got %d", w.Code)
	}
	b := decode[models.Todo](t, w)

	w = do(t, r, http.MethodGet, "/api/todos", "")
	if w.Code != http.StatusOK {
		t.Fatalf("list: expected 200 got %d", w.Code)
	}
	list := decode[[]models.Todo](t, w)
	if len(list) != 2 || list[0].ID != b.ID || list[1].ID != a.ID {
		t.Fatalf("expected [B, A], got %+v", list)
	}

	w = do(t, r, http.MethodPut, "/api/todos/"+b.ID, `{"title":"B","completed":true}`)
	if w.Code != http.StatusOK {
		t.Fatalf("update: expected 200 got %d (%s)", w.Code, w.Body.String())
	}
	if got := decode[models.Todo](t, w); got.ID != b.ID || !got.Completed || got.Title != "B" {
		t.Fatalf("unexpected updated todo %+v", got)
	}

	w = do(t, r, http.MethodDelete, "/api/todos/"+a.ID, "")
	if w.Code != http.StatusOK {
		t.Fatalf("delete: expected 200 got %d", w.Code)
	}
	if msg := decode[map[string]string](t, w); msg["message"] != "Todo deleted successfully" {
		t.Fatalf("unexpected delete body %v", msg)
	}

	list = decode[[]models.Todo](t, do(t, r, http.MethodGet, "/api/todos", ""))
	if len(list) != 1 || list[0].ID != b.ID || !list[0].Completed {
		t.Fatalf("expected [B(done)], got %+v", list)
	}
}

func TestEmptyListIsJSONArray(t *testing.T) {
	w := do(t, newTestRouter(), http.MethodGet, "/api/todos", "")
	if w.Code != http.StatusOK || strings.TrimSpace(w.Body.String()) != "[]" {
		t.Fatalf("expected 200 [], got %d %q", w.Code, w.Body.String())
	}
}

func TestRequestIDHeader(t *testing.T) {
	r := newTestRouter()
	w := do(t, r, http.MethodGet, "/health", "")
	if w.Code != http.StatusOK || w.Header().Get(middleware.RequestIDHeader) == "" {
		t.Fatalf("expected 200 with request id, got %d %v", w.Code, w.Header())
	}

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(middleware.RequestIDHeader, "abc")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Header().Get(middleware.RequestIDHeader) != "abc" {
		t.Fatalf("client request id must be echoed, got %q", rec.Header().Get(middleware.RequestIDHeader))
	}
}

func TestCORSPreflight(t *testing.T) {
	svc := service.NewTodoService(repository.NewMemoryStore())
	r := Router(controller.NewTodoController(svc, nil), []string{"http://localhost:3000"})

	req := httptest.NewRequest(http.MethodOptions, "/api/todos", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusNoContent || w.Header().Get("Access-Control-Allow-Origin") != "http://localhost:3000" {
		t.Fatalf("unexpected preflight response %d %v", w.Code, w.Header())
	}

	req = httptest.NewRequest(http.MethodGet, "/api/todos", nil)
	req.Header.Set("Origin", "http://evil.example")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Header().Get("Access-Control-Allow-Origin") != "" {
		t.Fatalf("origin outside allow list must not be echoed")
	}
}

func TestMetricsEndpoint(t *testing.T) {
	r := newTestRouter()
	do(t, r, http.MethodGet, "/api/todos", "")
	w := do(t, r, http.MethodGet, "/metrics", "")
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "todo_http_requests_total") {
		t.Fatalf("expected request counter in /metrics output")
	}
}
