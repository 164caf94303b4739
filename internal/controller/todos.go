package controller

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"todolist/internal/models"
	"todolist/internal/service"
	"todolist/pkg/logger"

	"github.com/gin-gonic/gin"
)

// Pinger is a dependency checked by the readiness probe.
type Pinger interface {
	Ping(ctx context.Context) error
}

// TodoController exposes TodoService over /api/todos.
type TodoController struct {
	svc  *service.TodoService
	deps map[string]Pinger
}

// NewTodoController wires the handlers; deps are extra readiness checks by name (e.g. "redis").
func NewTodoController(svc *service.TodoService, deps map[string]Pinger) *TodoController {
	return &TodoController{svc: svc, deps: deps}
}

// GetTodos returns every todo, newest first.
func (tc *TodoController) GetTodos(c *gin.Context) {
	todos, err := tc.svc.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, todos)
}

// CreateTodo validates {title} and returns 201 with the stored todo.
func (tc *TodoController) CreateTodo(c *gin.Context) {
	var body struct {
		Title *string `json:"title"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Title is required", "error": err.Error()})
		return
	}
	todo, err := tc.svc.Create(c.Request.Context(), body.Title)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, todo)
}

// UpdateTodo applies {title?, completed?} to the todo at :id.
func (tc *TodoController) UpdateTodo(c *gin.Context) {
	var patch models.TodoPatch
	// an empty body is an empty patch, so unknown ids still get 404
	if err := c.ShouldBindJSON(&patch); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body", "error": err.Error()})
		return
	}
	todo, err := tc.svc.Update(c.Request.Context(), c.Param("id"), patch)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, todo)
}

// DeleteTodo removes the todo at :id.
func (tc *TodoController) DeleteTodo(c *gin.Context) {
	if err := tc.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Todo deleted successfully"})
}

// Health returns 200 if the process is alive. Used by load balancers.
func (tc *TodoController) Health(c *gin.Context) {
	c.String(http.StatusOK, "OK")
}

// Ready returns 200 if the store and every configured dependency are reachable.
func (tc *TodoController) Ready(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()
	if err := tc.svc.Ping(ctx); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "store unavailable", "error": err.Error()})
		return
	}
	for name, dep := range tc.deps {
		if err := dep.Ping(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": name + " unavailable", "error": err.Error()})
			return
		}
	}
	c.String(http.StatusOK, "OK")
}

func respondError(c *gin.Context, err error) {
	ctx := c.Request.Context()
	if ctx.Err() != nil || isContextErr(err) {
		logger.Debug(ctx, "Request abandoned by client", "error", err)
		c.Status(499)
		return
	}
	var se *service.Error
	if !errors.As(err, &se) {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error", "error": err.Error()})
		return
	}
	detail := se.Message
	if se.Err != nil {
		detail = se.Err.Error()
	}
	c.JSON(statusFor(se.Kind), gin.H{"message": se.Message, "error": detail})
}

func statusFor(k service.Kind) int {
	switch k {
	case service.KindValidation:
		return http.StatusBadRequest
	case service.KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func isContextErr(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
