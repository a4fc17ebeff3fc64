// Package memory implements the store ports with in-process tables. It is the
// default backend for the dev server and mirrors what a remote database would
// answer, minus the latency.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"taskdeck/internal/store"
	"taskdeck/todo"
)

// UserRepository keeps accounts in memory. Safe for concurrent handlers.
type UserRepository struct {
	mu     sync.RWMutex
	nextID int
	users  map[int]store.User
	byName map[string]int
}

func NewUserRepository() *UserRepository {
	return &UserRepository{
		nextID: 1,
		users:  make(map[int]store.User),
		byName: make(map[string]int),
	}
}

func (r *UserRepository) GetByID(ctx context.Context, id int) (store.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.users[id]

	if !ok {
		return store.User{}, store.ErrNotFound
	}

	return user, nil
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (store.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byName[username]

	if !ok {
		return store.User{}, store.ErrNotFound
	}

	return r.users[id], nil
}

func (r *UserRepository) Create(ctx context.Context, user store.User) (store.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	user.ID = r.nextID
	r.nextID++

	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now

	r.users[user.ID] = user
	r.byName[user.Username] = user.ID

	return user, nil
}

type todoRow struct {
	todo   todo.Todo
	userID int
}

// TodoRepository keeps todos in memory, one table across all users.
type TodoRepository struct {
	mu    sync.RWMutex
	todos map[string]todoRow
}

func NewTodoRepository() *TodoRepository {
	return &TodoRepository{todos: make(map[string]todoRow)}
}

func (r *TodoRepository) ListByUser(ctx context.Context, userID int) ([]todo.Todo, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	todos := make([]todo.Todo, 0)

	for _, row := range r.todos {
		if row.userID == userID {
			todos = append(todos, row.todo)
		}
	}

	sort.SliceStable(todos, func(i, j int) bool {
		return todos[i].OrderIndex < todos[j].OrderIndex
	})

	return todos, nil
}

func (r *TodoRepository) GetByID(ctx context.Context, userID int, id string) (todo.Todo, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	row, ok := r.todos[id]

	if !ok || row.userID != userID {
		return todo.Todo{}, store.ErrNotFound
	}

	return row.todo, nil
}

func (r *TodoRepository) CountByUser(ctx context.Context, userID int) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	count := 0

	for _, row := range r.todos {
		if row.userID == userID {
			count++
		}
	}

	return count, nil
}

func (r *TodoRepository) Create(ctx context.Context, userID int, t todo.Todo) (todo.Todo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.todos[t.ID] = todoRow{todo: t, userID: userID}

	return t, nil
}

func (r *TodoRepository) Update(ctx context.Context, userID int, t todo.Todo) (todo.Todo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	row, ok := r.todos[t.ID]

	if !ok || row.userID != userID {
		return todo.Todo{}, store.ErrNotFound
	}

	r.todos[t.ID] = todoRow{todo: t, userID: userID}

	return t, nil
}

func (r *TodoRepository) Delete(ctx context.Context, userID int, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	row, ok := r.todos[id]

	if !ok || row.userID != userID {
		return store.ErrNotFound
	}

	delete(r.todos, id)

	return nil
}

// Reorder assigns each todo's order index from its position in ids. Unknown
// ids and todos owned by other users are skipped.
func (r *TodoRepository) Reorder(ctx context.Context, userID int, ids []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()

	for position, id := range ids {
		row, ok := r.todos[id]

		if !ok || row.userID != userID {
			continue
		}

		row.todo.OrderIndex = position
		row.todo.UpdatedAt = now
		r.todos[id] = row
	}

	return nil
}
