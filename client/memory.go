package client

import (
	"context"
	"errors"
	"math/rand/v2"
	"sync"
	"time"

	"taskdeck/todo"

	"github.com/google/uuid"
)

var (
	errInvalidCredentials = errors.New("Invalid credentials.")
	errUsernameTaken      = errors.New("Username already taken.")
	errChallengeFailed    = errors.New("Challenge failed or expired.")
	errNotLoggedIn        = errors.New("Not logged in")
	errTodoNotFound       = errors.New("Todo not found")
)

// MemoryBackend is the client-only mock: an in-memory table with the same
// semantics as the remote API and no network. Challenges are generated
// locally and regenerated on every mismatch, with unlimited retries.
type MemoryBackend struct {
	mu sync.Mutex

	users     map[string]string
	todos     map[string][]todo.Todo
	challenge *Challenge
	loggedIn  string

	now func() time.Time
}

func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{
		users: make(map[string]string),
		todos: make(map[string][]todo.Todo),
		now:   time.Now,
	}
}

func (b *MemoryBackend) Login(ctx context.Context, username, password string) (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	stored, found := b.users[username]

	if !found || stored != password {
		return "", errInvalidCredentials
	}

	b.loggedIn = username
	return username, nil
}

func (b *MemoryBackend) StartSignup(ctx context.Context, username string) (Challenge, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, taken := b.users[username]; taken {
		return Challenge{}, errUsernameTaken
	}

	b.challenge = newLocalChallenge()
	return *b.challenge, nil
}

func (b *MemoryBackend) CompleteSignup(ctx context.Context, username, password, challengeID string, answer int) (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, taken := b.users[username]; taken {
		return "", errUsernameTaken
	}

	current := b.challenge

	if current == nil || current.ID != challengeID || answer != current.Num1*current.Num2 {
		// Wrong or stale answer regenerates the operands; retries are
		// unlimited.
		b.challenge = newLocalChallenge()
		return "", errChallengeFailed
	}

	b.challenge = nil
	b.users[username] = password
	b.loggedIn = username

	return username, nil
}

func (b *MemoryBackend) Logout(ctx context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.loggedIn = ""
	return nil
}

func (b *MemoryBackend) Profile(ctx context.Context) (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.loggedIn == "" {
		return "", errNotLoggedIn
	}

	return b.loggedIn, nil
}

func (b *MemoryBackend) ListTodos(ctx context.Context) ([]todo.Todo, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.loggedIn == "" {
		return nil, errNotLoggedIn
	}

	list := b.todos[b.loggedIn]
	out := make([]todo.Todo, len(list))
	copy(out, list)

	return out, nil
}

func (b *MemoryBackend) CreateTodo(ctx context.Context, candidate todo.Todo) (todo.Todo, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.loggedIn == "" {
		return todo.Todo{}, errNotLoggedIn
	}

	now := b.now()

	candidate.ID = uuid.New().String()
	candidate.CreatedAt = now
	candidate.UpdatedAt = now
	candidate.OrderIndex = len(b.todos[b.loggedIn])

	if candidate.Priority == "" {
		candidate.Priority = todo.PriorityMedium
	}

	if candidate.Status == "" {
		candidate.Status = todo.StatusActive
	}

	b.todos[b.loggedIn] = append(b.todos[b.loggedIn], candidate)

	return candidate, nil
}

func (b *MemoryBackend) UpdateTodo(ctx context.Context, id string, patch Patch) (todo.Todo, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.loggedIn == "" {
		return todo.Todo{}, errNotLoggedIn
	}

	list := b.todos[b.loggedIn]

	for i := range list {
		if list[i].ID != id {
			continue
		}

		applyPatch(&list[i], patch)
		list[i].UpdatedAt = b.now()

		return list[i], nil
	}

	return todo.Todo{}, errTodoNotFound
}

func (b *MemoryBackend) DeleteTodo(ctx context.Context, id string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.loggedIn == "" {
		return errNotLoggedIn
	}

	list := b.todos[b.loggedIn]

	for i := range list {
		if list[i].ID == id {
			b.todos[b.loggedIn] = append(list[:i], list[i+1:]...)
			return nil
		}
	}

	return errTodoNotFound
}

func (b *MemoryBackend) ReorderTodos(ctx context.Context, ids []string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.loggedIn == "" {
		return errNotLoggedIn
	}

	list := b.todos[b.loggedIn]
	byID := make(map[string]todo.Todo, len(list))

	for _, t := range list {
		byID[t.ID] = t
	}

	reordered := make([]todo.Todo, 0, len(list))

	for position, id := range ids {
		t, found := byID[id]

		if !found {
			return errTodoNotFound
		}

		t.OrderIndex = position
		t.UpdatedAt = b.now()
		reordered = append(reordered, t)
		delete(byID, id)
	}

	// Ids missing from the sequence keep their relative order at the tail.
	for _, t := range list {
		if _, left := byID[t.ID]; left {
			t.OrderIndex = len(reordered)
			reordered = append(reordered, t)
		}
	}

	b.todos[b.loggedIn] = reordered

	return nil
}

func (b *MemoryBackend) Stats(ctx context.Context) (todo.Stats, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.loggedIn == "" {
		return todo.Stats{}, errNotLoggedIn
	}

	return todo.ComputeStats(b.todos[b.loggedIn]), nil
}

func newLocalChallenge() *Challenge {
	return &Challenge{
		ID:   uuid.New().String(),
		Num1: rand.IntN(10) + 5,
		Num2: rand.IntN(10) + 2,
	}
}

func applyPatch(t *todo.Todo, patch Patch) {
	if patch.Title != nil {
		t.Title = *patch.Title
	}

	if patch.Description != nil {
		t.Description = *patch.Description
	}

	if patch.DueDate != nil {
		t.DueDate = *patch.DueDate
	}

	if patch.Priority != nil {
		t.Priority = *patch.Priority
	}

	if patch.Status != nil {
		t.Status = *patch.Status
	}

	if patch.Category != nil {
		t.Category = *patch.Category
	}

	if patch.OrderIndex != nil {
		t.OrderIndex = *patch.OrderIndex
	}
}
