package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ornithedex/server/internal/models"
	"github.com/ornithedex/server/internal/repository"
)

func newAuthService(t *testing.T) (*AuthService, *repository.SessionRepository) {
	t.Helper()

	db, err := repository.NewSQLiteDB(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	sessionRepo := repository.NewSessionRepository(db)
	return NewAuthService(repository.NewUserRepository(db), sessionRepo,
		repository.NewStatsRepository(db)), sessionRepo
}

func TestAuthServiceRegister(t *testing.T) {
	ctx := context.Background()

	t.Run("creates account and session", func(t *testing.T) {
		svc, sessionRepo := newAuthService(t)

		user, session, err := svc.Register(ctx, "alice", "secret123")
		require.NoError(t, err)
		assert.Equal(t, "alice", user.Username)
		assert.Equal(t, user.ID, session.UserID)
		assert.False(t, session.IsExpired())

		stored, err := sessionRepo.GetByID(ctx, session.ID)
		require.NoError(t, err)
		assert.NotNil(t, stored)
	})

	t.Run("rejects duplicate username", func(t *testing.T) {
		svc, _ := newAuthService(t)

		_, _, err := svc.Register(ctx, "alice", "secret123")
		require.NoError(t, err)

		_, _, err = svc.Register(ctx, "alice", "other456")
		assert.ErrorIs(t, err, models.ErrUsernameTaken)
	})

	t.Run("rejects short credentials", func(t *testing.T) {
		svc, _ := newAuthService(t)

		_, _, err := svc.Register(ctx, "ab", "secret123")
		assert.ErrorIs(t, err, models.ErrUsernameTooShort)

		_, _, err = svc.Register(ctx, "alice", "12345")
		assert.ErrorIs(t, err, models.ErrPasswordTooShort)
	})
}

func TestAuthServiceLogin(t *testing.T) {
	ctx := context.Background()

	t.Run("valid credentials open a session", func(t *testing.T) {
		svc, _ := newAuthService(t)
		_, _, err := svc.Register(ctx, "alice", "secret123")
		require.NoError(t, err)

		user, session, err := svc.Login(ctx, "alice", "secret123")
		require.NoError(t, err)
		assert.Equal(t, "alice", user.Username)
		assert.NotEmpty(t, session.ID)
	})

	t.Run("wrong password", func(t *testing.T) {
		svc, _ := newAuthService(t)
		_, _, err := svc.Register(ctx, "alice", "secret123")
		require.NoError(t, err)

		_, _, err = svc.Login(ctx, "alice", "wrong")
		assert.ErrorIs(t, err, models.ErrBadCredentials)
	})

	t.Run("unknown user gets the same error", func(t *testing.T) {
		svc, _ := newAuthService(t)

		_, _, err := svc.Login(ctx, "ghost", "whatever")
		assert.ErrorIs(t, err, models.ErrBadCredentials)
	})
}

func TestAuthServiceLogout(t *testing.T) {
	ctx := context.Background()
	svc, sessionRepo := newAuthService(t)

	_, session, err := svc.Register(ctx, "alice", "secret123")
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, session.ID))

	stored, err := sessionRepo.GetByID(ctx, session.ID)
	require.NoError(t, err)
	assert.Nil(t, stored)

	t.Run("unknown session", func(t *testing.T) {
		assert.ErrorIs(t, svc.Logout(ctx, session.ID), models.ErrSessionNotFound)
	})
}

func TestAuthServiceUpdateTheme(t *testing.T) {
	ctx := context.Background()
	svc, _ := newAuthService(t)

	user, _, err := svc.Register(ctx, "alice", "secret123")
	require.NoError(t, err)

	assert.NoError(t, svc.UpdateTheme(ctx, user.ID, "dark"))
	assert.ErrorIs(t, svc.UpdateTheme(ctx, user.ID, "neon"), models.ErrInvalidTheme)
}
