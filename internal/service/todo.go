package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"taskdeck/internal/store"
	"taskdeck/pkg/tracing"
	"taskdeck/todo"
)

// ValidationError carries the full list of constraint violations for a
// rejected todo, in rule order.
type ValidationError struct {
	Messages []string
}

func (e *ValidationError) Error() string {
	return strings.Join(e.Messages, "; ")
}

// TodoPatch is a partial update. Nil fields are left untouched.
type TodoPatch struct {
	Title       *string        `json:"title"`
	Description *string        `json:"description"`
	DueDate     *string        `json:"dueDate"`
	Priority    *todo.Priority `json:"priority"`
	Status      *todo.Status   `json:"status"`
	Category    *string        `json:"category"`
	OrderIndex  *int           `json:"orderIndex"`
}

type TodoService struct {
	repo store.TodoRepository
}

func NewTodoService(repo store.TodoRepository) *TodoService {
	return &TodoService{repo: repo}
}

// List returns the user's todos ordered by their manual order index.
func (s *TodoService) List(ctx context.Context, userID int) ([]todo.Todo, error) {
	var todos []todo.Todo

	err := tracing.ServiceSpanWrapper(ctx, "todo", "list", userID, func(ctx context.Context) error {
		var err error
		todos, err = s.repo.ListByUser(ctx, userID)
		return err
	})

	return todos, err
}

// Create validates the candidate, fills server-assigned fields (id,
// timestamps, order index = current list length) and persists it. Priority
// defaults to medium and status to active when omitted.
func (s *TodoService) Create(ctx context.Context, userID int, candidate todo.Todo) (todo.Todo, error) {
	var created todo.Todo

	err := tracing.ServiceSpanWrapper(ctx, "todo", "create", userID, func(ctx context.Context) error {
		var err error
		created, err = s.create(ctx, userID, candidate)
		return err
	})

	return created, err
}

func (s *TodoService) create(ctx context.Context, userID int, candidate todo.Todo) (todo.Todo, error) {
	candidate.Title = strings.TrimSpace(candidate.Title)

	if candidate.Priority == "" {
		candidate.Priority = todo.PriorityMedium
	}

	if candidate.Status == "" {
		candidate.Status = todo.StatusActive
	}

	if result := todo.Validate(candidate); !result.IsValid {
		return todo.Todo{}, &ValidationError{Messages: result.Errors}
	}

	count, err := s.repo.CountByUser(ctx, userID)

	if err != nil {
		return todo.Todo{}, err
	}

	now := time.Now()
	candidate.ID = uuid.New().String()
	candidate.CreatedAt = now
	candidate.UpdatedAt = now
	candidate.OrderIndex = count

	created, err := s.repo.Create(ctx, userID, candidate)

	if err != nil {
		slog.Error("Todo#Create", "error", err, "title", candidate.Title)
		return todo.Todo{}, err
	}

	return created, nil
}

// Update merges the patch into the stored todo, refreshes the updated
// timestamp, re-validates and persists. Returns store.ErrNotFound when the
// user owns no todo with that id.
func (s *TodoService) Update(ctx context.Context, userID int, id string, patch TodoPatch) (todo.Todo, error) {
	var updated todo.Todo

	err := tracing.ServiceSpanWrapper(ctx, "todo", "update", userID, func(ctx context.Context) error {
		var err error
		updated, err = s.update(ctx, userID, id, patch)
		return err
	})

	return updated, err
}

func (s *TodoService) update(ctx context.Context, userID int, id string, patch TodoPatch) (todo.Todo, error) {
	current, err := s.repo.GetByID(ctx, userID, id)

	if err != nil {
		return todo.Todo{}, err
	}

	if patch.Title != nil {
		current.Title = strings.TrimSpace(*patch.Title)
	}

	if patch.Description != nil {
		current.Description = *patch.Description
	}

	if patch.DueDate != nil {
		current.DueDate = *patch.DueDate
	}

	if patch.Priority != nil {
		current.Priority = *patch.Priority
	}

	if patch.Status != nil {
		current.Status = *patch.Status
	}

	if patch.Category != nil {
		current.Category = *patch.Category
	}

	if patch.OrderIndex != nil {
		current.OrderIndex = *patch.OrderIndex
	}

	if result := todo.Validate(current); !result.IsValid {
		return todo.Todo{}, &ValidationError{Messages: result.Errors}
	}

	current.UpdatedAt = time.Now()

	return s.repo.Update(ctx, userID, current)
}

// Delete removes the todo. Deleting an unknown id returns store.ErrNotFound
// and leaves the collection unchanged.
func (s *TodoService) Delete(ctx context.Context, userID int, id string) error {
	return tracing.ServiceSpanWrapper(ctx, "todo", "delete", userID, func(ctx context.Context) error {
		return s.repo.Delete(ctx, userID, id)
	})
}

// Reorder reassigns every todo's order index from its position in ids.
func (s *TodoService) Reorder(ctx context.Context, userID int, ids []string) error {
	return tracing.ServiceSpanWrapper(ctx, "todo", "reorder", userID, func(ctx context.Context) error {
		return s.repo.Reorder(ctx, userID, ids)
	})
}

// Stats recomputes the dashboard aggregates from the user's collection.
func (s *TodoService) Stats(ctx context.Context, userID int) (todo.Stats, error) {
	var stats todo.Stats

	err := tracing.ServiceSpanWrapper(ctx, "todo", "stats", userID, func(ctx context.Context) error {
		todos, err := s.repo.ListByUser(ctx, userID)

		if err != nil {
			return err
		}

		stats = todo.ComputeStats(todos)
		return nil
	})

	return stats, err
}
