package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"todolist/internal/models"
)

// DefaultBaseURL is the todos collection of a locally running server.
const DefaultBaseURL = "http://localhost:5000/api/todos"

// Client talks to the todos REST API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a client rooted at the todos collection URL, e.g. DefaultBaseURL.
func New(baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// APIError is a non-2xx response from the server.
type APIError struct {
	Status  int
	Message string `json:"message"`
	Err     string `json:"error"`
}

func (e *APIError) Error() string {
	if e.Err != "" {
		return fmt.Sprintf("%d %s: %s", e.Status, e.Message, e.Err)
	}
	return fmt.Sprintf("%d %s", e.Status, e.Message)
}

// List returns every todo in server order (newest first).
func (c *Client) List(ctx context.Context) ([]models.Todo, error) {
	var todos []models.Todo
	if err := c.do(ctx, http.MethodGet, c.baseURL, nil, &todos); err != nil {
		return nil, err
	}
	if todos == nil {
		todos = []models.Todo{}
	}
	return todos, nil
}

// Create adds a todo with the given title.
func (c *Client) Create(ctx context.Context, title string) (*models.Todo, error) {
	var todo models.Todo
	if err := c.do(ctx, http.MethodPost, c.baseURL, map[string]string{"title": title}, &todo); err != nil {
		return nil, err
	}
	return &todo, nil
}

// Update sends the patch for id; nil fields are omitted from the server-side update.
func (c *Client) Update(ctx context.Context, id string, patch models.TodoPatch) (*models.Todo, error) {
	var todo models.Todo
	if err := c.do(ctx, http.MethodPut, c.itemURL(id), patch, &todo); err != nil {
		return nil, err
	}
	return &todo, nil
}

// Delete removes the todo with the given id.
func (c *Client) Delete(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, c.itemURL(id), nil, nil)
}

func (c *Client) itemURL(id string) string {
	return c.baseURL + "/" + url.PathEscape(id)
}

func (c *Client) do(ctx context.Context, method, target string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{Status: resp.StatusCode}
		raw, _ := io.ReadAll(resp.Body)
		if json.Unmarshal(raw, apiErr) != nil || apiErr.Message == "" {
			apiErr.Message = strings.TrimSpace(string(raw))
			if apiErr.Message == "" {
				apiErr.Message = http.StatusText(resp.StatusCode)
			}
		}
		return apiErr
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
