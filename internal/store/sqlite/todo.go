package sqlite

import (
	"context"
	"database/sql"
	"errors"

	sq "github.com/Masterminds/squirrel"

	"taskdeck/internal/store"
	"taskdeck/todo"
)

type TodoRepository struct {
	db *DB
}

func NewTodoRepository(db *DB) *TodoRepository {
	return &TodoRepository{db: db}
}

const todoColumns = "id, title, description, due_date, priority, status, category, created_at, updated_at, order_index"

func scanTodo(row interface{ Scan(...any) error }) (todo.Todo, error) {
	var t todo.Todo

	err := row.Scan(
		&t.ID,
		&t.Title,
		&t.Description,
		&t.DueDate,
		&t.Priority,
		&t.Status,
		&t.Category,
		&t.CreatedAt,
		&t.UpdatedAt,
		&t.OrderIndex,
	)

	return t, err
}

func (tr *TodoRepository) ListByUser(ctx context.Context, userID int) ([]todo.Todo, error) {
	query := tr.db.QueryBuilder.
		Select(todoColumns).
		From("todos").
		Where(sq.Eq{"user_id": userID}).
		OrderBy("order_index ASC, created_at ASC")

	sqlStr, args, err := query.ToSql()

	if err != nil {
		return nil, err
	}

	rows, err := tr.db.QueryContext(ctx, sqlStr, args...)

	if err != nil {
		return nil, err
	}

	defer rows.Close()

	todos := make([]todo.Todo, 0)

	for rows.Next() {
		t, err := scanTodo(rows)

		if err != nil {
			return nil, err
		}

		todos = append(todos, t)
	}

	return todos, rows.Err()
}

func (tr *TodoRepository) GetByID(ctx context.Context, userID int, id string) (todo.Todo, error) {
	query := tr.db.QueryBuilder.
		Select(todoColumns).
		From("todos").
		Where(sq.Eq{"id": id, "user_id": userID}).
		Limit(1)

	sqlStr, args, err := query.ToSql()

	if err != nil {
		return todo.Todo{}, err
	}

	t, err := scanTodo(tr.db.QueryRowContext(ctx, sqlStr, args...))

	if errors.Is(err, sql.ErrNoRows) {
		return todo.Todo{}, store.ErrNotFound
	}

	return t, err
}

func (tr *TodoRepository) CountByUser(ctx context.Context, userID int) (int, error) {
	query := tr.db.QueryBuilder.
		Select("COUNT(*)").
		From("todos").
		Where(sq.Eq{"user_id": userID})

	sqlStr, args, err := query.ToSql()

	if err != nil {
		return 0, err
	}

	var count int
	err = tr.db.QueryRowContext(ctx, sqlStr, args...).Scan(&count)

	return count, err
}

func (tr *TodoRepository) Create(ctx context.Context, userID int, t todo.Todo) (todo.Todo, error) {
	query, args, err := tr.db.QueryBuilder.
		Insert("todos").
		Columns("id", "user_id", "title", "description", "due_date", "priority", "status", "category", "created_at", "updated_at", "order_index").
		Values(t.ID, userID, t.Title, t.Description, t.DueDate, t.Priority, t.Status, t.Category, t.CreatedAt, t.UpdatedAt, t.OrderIndex).
		ToSql()

	if err != nil {
		return todo.Todo{}, err
	}

	if _, err := tr.db.ExecContext(ctx, query, args...); err != nil {
		return todo.Todo{}, err
	}

	return tr.GetByID(ctx, userID, t.ID)
}

func (tr *TodoRepository) Update(ctx context.Context, userID int, t todo.Todo) (todo.Todo, error) {
	query, args, err := tr.db.QueryBuilder.
		Update("todos").
		SetMap(map[string]any{
			"title":       t.Title,
			"description": t.Description,
			"due_date":    t.DueDate,
			"priority":    t.Priority,
			"status":      t.Status,
			"category":    t.Category,
			"updated_at":  t.UpdatedAt,
			"order_index": t.OrderIndex,
		}).
		Where(sq.Eq{"id": t.ID, "user_id": userID}).
		ToSql()

	if err != nil {
		return todo.Todo{}, err
	}

	result, err := tr.db.ExecContext(ctx, query, args...)

	if err != nil {
		return todo.Todo{}, err
	}

	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return todo.Todo{}, store.ErrNotFound
	}

	return tr.GetByID(ctx, userID, t.ID)
}

func (tr *TodoRepository) Delete(ctx context.Context, userID int, id string) error {
	query, args, err := tr.db.QueryBuilder.
		Delete("todos").
		Where(sq.Eq{"id": id, "user_id": userID}).
		ToSql()

	if err != nil {
		return err
	}

	result, err := tr.db.ExecContext(ctx, query, args...)

	if err != nil {
		return err
	}

	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return store.ErrNotFound
	}

	return nil
}

func (tr *TodoRepository) Reorder(ctx context.Context, userID int, ids []string) error {
	tx, err := tr.db.BeginTx(ctx, nil)

	if err != nil {
		return err
	}

	defer tx.Rollback()

	for position, id := range ids {
		query, args, err := tr.db.QueryBuilder.
			Update("todos").
			Set("order_index", position).
			Where(sq.Eq{"id": id, "user_id": userID}).
			ToSql()

		if err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return err
		}
	}

	return tx.Commit()
}
