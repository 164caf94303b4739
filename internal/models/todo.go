package models

import "time"

// Todo represents a todo item.
type Todo struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Completed bool      `json:"completed"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// TodoPatch carries the fields of an update. Nil fields are left unchanged.
type TodoPatch struct {
	Title     *string `json:"title"`
	Completed *bool   `json:"completed"`
}

// Todo event types published after a successful mutation.
const (
	EventCreated = "created"
	EventUpdated = "updated"
	EventDeleted = "deleted"
)

// TodoEvent is the message payload for Kafka.
type TodoEvent struct {
	Type       string    `json:"type"`
	ID         string    `json:"id"`
	Todo       *Todo     `json:"todo,omitempty"` // nil for deletes
	OccurredAt time.Time `json:"occurred_at"`
}
