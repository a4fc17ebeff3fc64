// Package client is the todo SDK: a session state machine and a CRUD store
// over a pluggable backend. Two backends ship with it, one speaking the
// REST API over HTTP and one holding an in-memory table with the same
// semantics and no network.
package client

import (
	"context"

	"taskdeck/todo"
)

// Challenge is the arithmetic puzzle gating signup. The answer is the
// product of the two operands.
type Challenge struct {
	ID   string `json:"challengeId"`
	Num1 int    `json:"num1"`
	Num2 int    `json:"num2"`
}

// Patch carries a partial todo update. Nil fields are left untouched.
type Patch struct {
	Title       *string        `json:"title,omitempty"`
	Description *string        `json:"description,omitempty"`
	DueDate     *string        `json:"dueDate,omitempty"`
	Priority    *todo.Priority `json:"priority,omitempty"`
	Status      *todo.Status   `json:"status,omitempty"`
	Category    *string        `json:"category,omitempty"`
	OrderIndex  *int           `json:"orderIndex,omitempty"`
}

// Result reports an operation outcome at the SDK boundary. Errors are
// carried as messages, never panics.
type Result struct {
	Success bool
	Error   string
}

func ok() Result {
	return Result{Success: true}
}

func fail(message string) Result {
	return Result{Success: false, Error: message}
}

// Backend is the data source behind the session and the todo store,
// selected at composition time.
type Backend interface {
	Login(ctx context.Context, username, password string) (string, error)
	StartSignup(ctx context.Context, username string) (Challenge, error)
	CompleteSignup(ctx context.Context, username, password, challengeID string, answer int) (string, error)
	Logout(ctx context.Context) error
	Profile(ctx context.Context) (string, error)

	ListTodos(ctx context.Context) ([]todo.Todo, error)
	CreateTodo(ctx context.Context, candidate todo.Todo) (todo.Todo, error)
	UpdateTodo(ctx context.Context, id string, patch Patch) (todo.Todo, error)
	DeleteTodo(ctx context.Context, id string) error
	ReorderTodos(ctx context.Context, ids []string) error
	Stats(ctx context.Context) (todo.Stats, error)
}
