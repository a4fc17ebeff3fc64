package sqlite_test

import (
	"context"
	"testing"
	"time"

	"taskdeck/internal/store"
	"taskdeck/internal/store/sqlite"
	"taskdeck/pkg/test"
	"taskdeck/pkg/test/factory"
	"taskdeck/todo"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
)

type SqliteRepositorySuite struct {
	suite.Suite
	db    *sqlite.DB
	users *sqlite.UserRepository
	todos *sqlite.TodoRepository
}

func (s *SqliteRepositorySuite) SetupTest() {
	s.db = sqlite.Wrap(test.InitTestDB())
	s.users = sqlite.NewUserRepository(s.db)
	s.todos = sqlite.NewTodoRepository(s.db)
}

func (s *SqliteRepositorySuite) TearDownTest() {
	s.db.Close()
}

func TestSqliteRepositorySuite(t *testing.T) {
	suite.Run(t, new(SqliteRepositorySuite))
}

func (s *SqliteRepositorySuite) createUser(username string) store.User {
	user, err := s.users.Create(context.Background(), factory.NewUser[store.User](map[string]any{
		"Username": username,
	}))

	assert.NoError(s.T(), err)

	return user
}

func (s *SqliteRepositorySuite) createTodo(userID int, title string, orderIndex int) todo.Todo {
	now := time.Now().UTC().Truncate(time.Second)

	created, err := s.todos.Create(context.Background(), userID, factory.NewTodo[todo.Todo](map[string]any{
		"ID":         uuid.New().String(),
		"Title":      title,
		"DueDate":    "",
		"Priority":   todo.PriorityMedium,
		"Status":     todo.StatusActive,
		"CreatedAt":  now,
		"UpdatedAt":  now,
		"OrderIndex": orderIndex,
	}))

	assert.NoError(s.T(), err)

	return created
}

func (s *SqliteRepositorySuite) TestUserCreateAndLookup() {
	created := s.createUser("alice")

	assert.NotZero(s.T(), created.ID)

	byName, err := s.users.GetByUsername(context.Background(), "alice")
	assert.NoError(s.T(), err)
	assert.Equal(s.T(), created.ID, byName.ID)

	byID, err := s.users.GetByID(context.Background(), created.ID)
	assert.NoError(s.T(), err)
	assert.Equal(s.T(), "alice", byID.Username)
}

func (s *SqliteRepositorySuite) TestUserNotFound() {
	_, err := s.users.GetByUsername(context.Background(), "nobody")
	assert.ErrorIs(s.T(), err, store.ErrNotFound)

	_, err = s.users.GetByID(context.Background(), 9999)
	assert.ErrorIs(s.T(), err, store.ErrNotFound)
}

func (s *SqliteRepositorySuite) TestTodoListOrderedByIndex() {
	user := s.createUser("alice")

	s.createTodo(user.ID, "second", 1)
	s.createTodo(user.ID, "first", 0)
	s.createTodo(user.ID, "third", 2)

	todos, err := s.todos.ListByUser(context.Background(), user.ID)

	assert.NoError(s.T(), err)
	assert.Len(s.T(), todos, 3)
	assert.Equal(s.T(), "first", todos[0].Title)
	assert.Equal(s.T(), "third", todos[2].Title)
}

func (s *SqliteRepositorySuite) TestTodoScopedToOwner() {
	alice := s.createUser("alice")
	bob := s.createUser("bob")

	created := s.createTodo(alice.ID, "private", 0)

	_, err := s.todos.GetByID(context.Background(), bob.ID, created.ID)
	assert.ErrorIs(s.T(), err, store.ErrNotFound)

	todos, err := s.todos.ListByUser(context.Background(), bob.ID)
	assert.NoError(s.T(), err)
	assert.Empty(s.T(), todos)
}

func (s *SqliteRepositorySuite) TestTodoUpdate() {
	user := s.createUser("alice")
	created := s.createTodo(user.ID, "before", 0)

	created.Title = "after"
	created.Status = todo.StatusCompleted

	updated, err := s.todos.Update(context.Background(), user.ID, created)

	assert.NoError(s.T(), err)
	assert.Equal(s.T(), "after", updated.Title)
	assert.Equal(s.T(), todo.StatusCompleted, updated.Status)
}

func (s *SqliteRepositorySuite) TestTodoUpdateNotFound() {
	user := s.createUser("alice")

	_, err := s.todos.Update(context.Background(), user.ID, todo.Todo{ID: uuid.New().String(), Title: "ghost"})

	assert.ErrorIs(s.T(), err, store.ErrNotFound)
}

func (s *SqliteRepositorySuite) TestTodoDelete() {
	user := s.createUser("alice")
	created := s.createTodo(user.ID, "gone", 0)

	assert.NoError(s.T(), s.todos.Delete(context.Background(), user.ID, created.ID))
	assert.ErrorIs(s.T(), s.todos.Delete(context.Background(), user.ID, created.ID), store.ErrNotFound)
}

func (s *SqliteRepositorySuite) TestTodoCount() {
	user := s.createUser("alice")

	count, err := s.todos.CountByUser(context.Background(), user.ID)
	assert.NoError(s.T(), err)
	assert.Equal(s.T(), 0, count)

	s.createTodo(user.ID, "one", 0)
	s.createTodo(user.ID, "two", 1)

	count, err = s.todos.CountByUser(context.Background(), user.ID)
	assert.NoError(s.T(), err)
	assert.Equal(s.T(), 2, count)
}

func (s *SqliteRepositorySuite) TestTodoReorder() {
	user := s.createUser("alice")

	a := s.createTodo(user.ID, "a", 0)
	b := s.createTodo(user.ID, "b", 1)
	c := s.createTodo(user.ID, "c", 2)

	err := s.todos.Reorder(context.Background(), user.ID, []string{c.ID, a.ID, b.ID})
	assert.NoError(s.T(), err)

	todos, err := s.todos.ListByUser(context.Background(), user.ID)
	assert.NoError(s.T(), err)
	assert.Equal(s.T(), "c", todos[0].Title)
	assert.Equal(s.T(), "a", todos[1].Title)
	assert.Equal(s.T(), "b", todos[2].Title)
}
