package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/cmdvault/cmdvault/modules/auth/domain/entities/user"
	"github.com/cmdvault/cmdvault/pkg/configuration"
	"github.com/cmdvault/cmdvault/pkg/middleware"
)

type memUserRepo struct {
	seq   int64
	users map[int64]user.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: map[int64]user.User{}}
}

func (r *memUserRepo) GetByID(_ context.Context, id int64) (user.User, error) {
	u, ok := r.users[id]
	if !ok {
		return user.User{}, user.ErrNotFound
	}
	return u, nil
}

func (r *memUserRepo) GetByUsername(_ context.Context, username string) (user.User, error) {
	for _, u := range r.users {
		if u.Username() == username {
			return u, nil
		}
	}
	return user.User{}, user.ErrNotFound
}

func (r *memUserRepo) Create(_ context.Context, u user.User) (user.User, error) {
	for _, existing := range r.users {
		if existing.Username() == u.Username() {
			return user.User{}, user.ErrDuplicateUsername
		}
	}
	r.seq++
	created := user.Hydrate(r.seq, u.Username(), u.PasswordHash(), time.Now(), time.Now())
	r.users[r.seq] = created
	return created, nil
}

func TestAuthService(t *testing.T) {
	ctx := context.Background()
	repo := newMemUserRepo()
	svc := NewAuthService(repo)

	created, err := svc.Register(ctx, "admin", "correct horse battery")
	require.NoError(t, err)
	require.Equal(t, "admin", created.Username())
	require.NotEqual(t, "correct horse battery", created.PasswordHash())

	t.Run("rejects short passwords", func(t *testing.T) {
		_, err := svc.Register(ctx, "other", "short")
		require.ErrorIs(t, err, ErrWeakPassword)
	})

	t.Run("rejects duplicate usernames", func(t *testing.T) {
		_, err := svc.Register(ctx, "admin", "another password")
		require.ErrorIs(t, err, user.ErrDuplicateUsername)
	})

	t.Run("login issues a valid access and refresh pair", func(t *testing.T) {
		pair, err := svc.Login(ctx, "admin", "correct horse battery")
		require.NoError(t, err)

		secret := configuration.Use().JWT.Secret
		access, err := middleware.ParseToken(pair.Access, secret)
		require.NoError(t, err)
		require.Equal(t, middleware.TokenKindAccess, access.Kind)
		require.Equal(t, created.ID(), access.UserID)

		refresh, err := middleware.ParseToken(pair.Refresh, secret)
		require.NoError(t, err)
		require.Equal(t, middleware.TokenKindRefresh, refresh.Kind)
	})

	t.Run("login rejects a wrong password", func(t *testing.T) {
		_, err := svc.Login(ctx, "admin", "wrong password")
		require.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("login rejects an unknown user", func(t *testing.T) {
		_, err := svc.Login(ctx, "nobody", "whatever password")
		require.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("refresh mints a new access token", func(t *testing.T) {
		pair, err := svc.Login(ctx, "admin", "correct horse battery")
		require.NoError(t, err)

		access, err := svc.Refresh(ctx, pair.Refresh)
		require.NoError(t, err)

		claims, err := middleware.ParseToken(access, configuration.Use().JWT.Secret)
		require.NoError(t, err)
		require.Equal(t, middleware.TokenKindAccess, claims.Kind)
	})

	t.Run("refresh rejects an access token", func(t *testing.T) {
		pair, err := svc.Login(ctx, "admin", "correct horse battery")
		require.NoError(t, err)

		_, err = svc.Refresh(ctx, pair.Access)
		require.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("refresh rejects garbage", func(t *testing.T) {
		_, err := svc.Refresh(ctx, "not a token")
		require.ErrorIs(t, err, ErrInvalidToken)
	})
}
