package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ornithedex/server/internal/models"
	"github.com/ornithedex/server/internal/repository"
)

func newShareEnv(t *testing.T) (*ShareService, *testEnv) {
	t.Helper()

	env := newTestEnv(t)
	return NewShareService(repository.NewUserRepository(env.db),
		repository.NewDiscoveryRepository(env.db)), env
}

func TestShareServiceTokens(t *testing.T) {
	ctx := context.Background()

	t.Run("first call mints a token, later calls reuse it", func(t *testing.T) {
		svc, env := newShareEnv(t)

		token, err := svc.GetToken(ctx, env.user.ID)
		require.NoError(t, err)
		assert.NotEmpty(t, token)

		again, err := svc.GetToken(ctx, env.user.ID)
		require.NoError(t, err)
		assert.Equal(t, token, again)
	})

	t.Run("regenerate revokes the old token", func(t *testing.T) {
		svc, env := newShareEnv(t)

		old, err := svc.GetToken(ctx, env.user.ID)
		require.NoError(t, err)

		fresh, err := svc.RegenerateToken(ctx, env.user.ID)
		require.NoError(t, err)
		assert.NotEqual(t, old, fresh)

		_, err = svc.GetSharedProfile(ctx, old)
		assert.ErrorIs(t, err, models.ErrUserNotFound)

		_, err = svc.GetSharedProfile(ctx, fresh)
		assert.NoError(t, err)
	})

	t.Run("unknown user", func(t *testing.T) {
		svc, _ := newShareEnv(t)

		_, err := svc.GetToken(ctx, "no-such-user")
		assert.ErrorIs(t, err, models.ErrUserNotFound)
	})
}

func TestShareServiceSharedProfile(t *testing.T) {
	ctx := context.Background()

	t.Run("projects the owner's collection", func(t *testing.T) {
		svc, env := newShareEnv(t)

		require.NoError(t, env.sync.SaveDiscoveries(ctx, env.user.ID, syncRequest("042",
			models.PhotoEntry{Photo: encodeTestJPEG(t, 60, 60), Location: "Cliff top"})))

		token, err := svc.GetToken(ctx, env.user.ID)
		require.NoError(t, err)

		profile, err := svc.GetSharedProfile(ctx, token)
		require.NoError(t, err)
		assert.Equal(t, "alice", profile.Username)
		assert.Equal(t, 1, profile.DiscoveredCount)
		assert.Equal(t, 1, profile.TotalPhotos)
		require.Contains(t, profile.Discoveries, "042")
		assert.Equal(t, "Cliff top", profile.Discoveries["042"].Photos[0].Location)
		assert.NotEmpty(t, profile.MemberSince)
	})

	t.Run("unknown token", func(t *testing.T) {
		svc, _ := newShareEnv(t)

		_, err := svc.GetSharedProfile(ctx, "bogus-token")
		assert.ErrorIs(t, err, models.ErrUserNotFound)
	})
}
