package postgres

import (
	"context"
	"errors"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"taskdeck/internal/store"
)

type UserRepository struct {
	db *DB
}

func NewUserRepository(db *DB) *UserRepository {
	return &UserRepository{db: db}
}

const userColumns = "id, username, encrypted_password, created_at, updated_at"

func scanUser(row pgx.Row) (store.User, error) {
	var u store.User

	err := row.Scan(&u.ID, &u.Username, &u.EncryptedPassword, &u.CreatedAt, &u.UpdatedAt)

	return u, err
}

func (ur *UserRepository) GetByID(ctx context.Context, id int) (store.User, error) {
	sqlStr, args, err := ur.db.QueryBuilder.
		Select(userColumns).
		From("users").
		Where(sq.Eq{"id": id}).
		Limit(1).
		ToSql()

	if err != nil {
		return store.User{}, err
	}

	u, err := scanUser(ur.db.QueryRow(ctx, sqlStr, args...))

	if errors.Is(err, pgx.ErrNoRows) {
		return store.User{}, store.ErrNotFound
	}

	return u, err
}

func (ur *UserRepository) GetByUsername(ctx context.Context, username string) (store.User, error) {
	sqlStr, args, err := ur.db.QueryBuilder.
		Select(userColumns).
		From("users").
		Where(sq.Eq{"username": username}).
		Limit(1).
		ToSql()

	if err != nil {
		return store.User{}, err
	}

	u, err := scanUser(ur.db.QueryRow(ctx, sqlStr, args...))

	if errors.Is(err, pgx.ErrNoRows) {
		return store.User{}, store.ErrNotFound
	}

	return u, err
}

func (ur *UserRepository) Create(ctx context.Context, user store.User) (store.User, error) {
	now := time.Now()

	sqlStr, args, err := ur.db.QueryBuilder.
		Insert("users").
		Columns("username", "encrypted_password", "created_at", "updated_at").
		Values(user.Username, user.EncryptedPassword, now, now).
		Suffix("RETURNING " + userColumns).
		ToSql()

	if err != nil {
		return store.User{}, err
	}

	return scanUser(ur.db.QueryRow(ctx, sqlStr, args...))
}
