// Package store defines the persistence ports behind the API server and the
// server-side entities that never cross the wire.
package store

import (
	"context"
	"errors"
	"time"

	"taskdeck/todo"
)

// ErrNotFound is returned when a lookup matches no row owned by the caller.
var ErrNotFound = errors.New("not found")

// User is a registered account. The encrypted password never leaves the
// server; profile responses carry only the username.
type User struct {
	ID                int
	Username          string
	EncryptedPassword string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

type UserRepository interface {
	GetByID(ctx context.Context, id int) (User, error)
	GetByUsername(ctx context.Context, username string) (User, error)
	Create(ctx context.Context, user User) (User, error)
}

// TodoRepository persists todos per user. List returns rows ordered by
// order index ascending, the manual ordering the client maintains.
type TodoRepository interface {
	ListByUser(ctx context.Context, userID int) ([]todo.Todo, error)
	GetByID(ctx context.Context, userID int, id string) (todo.Todo, error)
	CountByUser(ctx context.Context, userID int) (int, error)
	Create(ctx context.Context, userID int, t todo.Todo) (todo.Todo, error)
	Update(ctx context.Context, userID int, t todo.Todo) (todo.Todo, error)
	Delete(ctx context.Context, userID int, id string) error
	Reorder(ctx context.Context, userID int, ids []string) error
}

// CacheRepository is the response-cache port. Implementations must treat a
// miss as (nil, ErrNotFound).
type CacheRepository interface {
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Get(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, key string) error
	DeleteByPrefix(ctx context.Context, prefix string) error
	Close() error
}
