package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	sq "github.com/Masterminds/squirrel"

	"taskdeck/internal/store"
)

type UserRepository struct {
	db *DB
}

func NewUserRepository(db *DB) *UserRepository {
	return &UserRepository{db: db}
}

func scanUser(row interface{ Scan(...any) error }) (store.User, error) {
	var u store.User

	err := row.Scan(&u.ID, &u.Username, &u.EncryptedPassword, &u.CreatedAt, &u.UpdatedAt)

	return u, err
}

func (ur *UserRepository) GetByID(ctx context.Context, id int) (store.User, error) {
	query := ur.db.QueryBuilder.
		Select("id, username, encrypted_password, created_at, updated_at").
		From("users").
		Where(sq.Eq{"id": id}).
		Limit(1)

	sqlStr, args, err := query.ToSql()

	if err != nil {
		return store.User{}, err
	}

	u, err := scanUser(ur.db.QueryRowContext(ctx, sqlStr, args...))

	if errors.Is(err, sql.ErrNoRows) {
		return store.User{}, store.ErrNotFound
	}

	return u, err
}

func (ur *UserRepository) GetByUsername(ctx context.Context, username string) (store.User, error) {
	query := ur.db.QueryBuilder.
		Select("id, username, encrypted_password, created_at, updated_at").
		From("users").
		Where(sq.Eq{"username": username}).
		Limit(1)

	sqlStr, args, err := query.ToSql()

	if err != nil {
		return store.User{}, err
	}

	u, err := scanUser(ur.db.QueryRowContext(ctx, sqlStr, args...))

	if errors.Is(err, sql.ErrNoRows) {
		return store.User{}, store.ErrNotFound
	}

	return u, err
}

func (ur *UserRepository) Create(ctx context.Context, user store.User) (store.User, error) {
	now := time.Now()

	query, args, err := ur.db.QueryBuilder.
		Insert("users").
		Columns("username", "encrypted_password", "created_at", "updated_at").
		Values(user.Username, user.EncryptedPassword, now, now).
		ToSql()

	if err != nil {
		return store.User{}, err
	}

	result, err := ur.db.ExecContext(ctx, query, args...)

	if err != nil {
		return store.User{}, err
	}

	id, err := result.LastInsertId()

	if err != nil {
		return store.User{}, err
	}

	return ur.GetByID(ctx, int(id))
}
