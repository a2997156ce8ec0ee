package persistence

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/cmdvault/cmdvault/modules/auth/domain/entities/user"
	"github.com/cmdvault/cmdvault/pkg/composables"
)

const userFindQuery = `SELECT id, username, password_hash, created_at, updated_at FROM users`

type UserRepository struct{}

func NewUserRepository() user.Repository {
	return &UserRepository{}
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (user.User, error) {
	return r.queryUser(ctx, userFindQuery+" WHERE id = $1", id)
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (user.User, error) {
	return r.queryUser(ctx, userFindQuery+" WHERE username = $1", username)
}

func (r *UserRepository) Create(ctx context.Context, u user.User) (user.User, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return user.User{}, err
	}

	query := `
		INSERT INTO users (username, password_hash)
		VALUES ($1, $2)
		RETURNING id
	`
	var id int64
	if err := tx.QueryRow(ctx, query, u.Username(), u.PasswordHash()).Scan(&id); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return user.User{}, user.ErrDuplicateUsername
		}
		return user.User{}, errors.Wrap(err, "failed to insert user")
	}
	return r.GetByID(ctx, id)
}

func (r *UserRepository) queryUser(ctx context.Context, query string, args ...interface{}) (user.User, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return user.User{}, err
	}

	var (
		id                   int64
		username, hash       string
		createdAt, updatedAt time.Time
	)
	if err := tx.QueryRow(ctx, query, args...).Scan(&id, &username, &hash, &createdAt, &updatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return user.User{}, user.ErrNotFound
		}
		return user.User{}, errors.Wrap(err, "failed to query user")
	}
	return user.Hydrate(id, username, hash, createdAt, updatedAt), nil
}
