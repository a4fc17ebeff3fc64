package client

import (
	"context"
	"strings"

	"taskdeck/todo"

	"github.com/rs/zerolog"
)

// TodoStore keeps the local todo list in sync with the backend. Writes go
// to the backend first and the local list follows the response, so two
// in-flight operations resolve last-wins with no sequencing.
type TodoStore struct {
	backend Backend
	session *Session
	logger  zerolog.Logger

	todos []todo.Todo
}

// TodoResult is a Result carrying the affected record on success.
type TodoResult struct {
	Result
	Todo todo.Todo
}

type StoreOption func(*TodoStore)

func WithStoreLogger(logger zerolog.Logger) StoreOption {
	return func(s *TodoStore) {
		s.logger = logger
	}
}

func NewTodoStore(backend Backend, session *Session, opts ...StoreOption) *TodoStore {
	s := &TodoStore{
		backend: backend,
		session: session,
		logger:  zerolog.Nop(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Todos returns a copy of the local list.
func (s *TodoStore) Todos() []todo.Todo {
	out := make([]todo.Todo, len(s.todos))
	copy(out, s.todos)
	return out
}

// Visible filters then sorts the local list. Filtering first is
// load-bearing for the displayed filtered-vs-total counts.
func (s *TodoStore) Visible(filter todo.Filter, sort todo.Sort) []todo.Todo {
	return todo.SortTodos(todo.FilterTodos(s.todos, filter), sort)
}

// List reloads from the backend. A logged-out session yields an empty
// list, not an error.
func (s *TodoStore) List(ctx context.Context) Result {
	if s.session != nil && !s.session.IsLoggedIn() {
		s.todos = nil
		return ok()
	}

	todos, err := s.backend.ListTodos(ctx)

	if err != nil {
		s.logger.Error().Err(err).Msg("list failed")
		return fail(err.Error())
	}

	s.todos = todos

	return ok()
}

// Add validates the candidate before any backend call. Validation errors
// block submission and come back joined as the failure message.
func (s *TodoStore) Add(ctx context.Context, candidate todo.Todo) TodoResult {
	if result := todo.Validate(candidate); !result.IsValid {
		return TodoResult{Result: fail(strings.Join(result.Errors, "; "))}
	}

	created, err := s.backend.CreateTodo(ctx, candidate)

	if err != nil {
		s.logger.Error().Err(err).Msg("add failed")
		return TodoResult{Result: fail(err.Error())}
	}

	s.todos = append(s.todos, created)

	return TodoResult{Result: ok(), Todo: created}
}

func (s *TodoStore) Update(ctx context.Context, id string, patch Patch) TodoResult {
	updated, err := s.backend.UpdateTodo(ctx, id, patch)

	if err != nil {
		s.logger.Error().Err(err).Str("id", id).Msg("update failed")
		return TodoResult{Result: fail(err.Error())}
	}

	for i := range s.todos {
		if s.todos[i].ID == id {
			s.todos[i] = updated
			break
		}
	}

	return TodoResult{Result: ok(), Todo: updated}
}

// Remove deletes the record. Removing a missing id reports failure and
// leaves local state unchanged.
func (s *TodoStore) Remove(ctx context.Context, id string) Result {
	if err := s.backend.DeleteTodo(ctx, id); err != nil {
		s.logger.Error().Err(err).Str("id", id).Msg("remove failed")
		return fail(err.Error())
	}

	for i := range s.todos {
		if s.todos[i].ID == id {
			s.todos = append(s.todos[:i], s.todos[i+1:]...)
			break
		}
	}

	return ok()
}

// ToggleStatus flips active/completed. Applying it twice restores the
// original status.
func (s *TodoStore) ToggleStatus(ctx context.Context, id string) TodoResult {
	var current *todo.Todo

	for i := range s.todos {
		if s.todos[i].ID == id {
			current = &s.todos[i]
			break
		}
	}

	if current == nil {
		return TodoResult{Result: fail("Todo not found")}
	}

	toggled := current.Status.Toggled()

	return s.Update(ctx, id, Patch{Status: &toggled})
}

// Reorder reassigns order indexes from sequence position and rearranges
// the local list to match.
func (s *TodoStore) Reorder(ctx context.Context, ids []string) Result {
	if err := s.backend.ReorderTodos(ctx, ids); err != nil {
		s.logger.Error().Err(err).Msg("reorder failed")
		return fail(err.Error())
	}

	byID := make(map[string]todo.Todo, len(s.todos))

	for _, t := range s.todos {
		byID[t.ID] = t
	}

	reordered := make([]todo.Todo, 0, len(s.todos))

	for position, id := range ids {
		if t, found := byID[id]; found {
			t.OrderIndex = position
			reordered = append(reordered, t)
			delete(byID, id)
		}
	}

	for _, t := range s.todos {
		if _, left := byID[t.ID]; left {
			t.OrderIndex = len(reordered)
			reordered = append(reordered, t)
		}
	}

	s.todos = reordered

	return ok()
}
