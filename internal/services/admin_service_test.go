package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ornithedex/server/internal/models"
	"github.com/ornithedex/server/internal/repository"
)

func TestAdminService(t *testing.T) {
	ctx := context.Background()

	t.Run("stats aggregate across users", func(t *testing.T) {
		env := newTestEnv(t)
		userRepo := repository.NewUserRepository(env.db)
		svc := NewAdminService(userRepo, repository.NewDiscoveryRepository(env.db))

		require.NoError(t, env.sync.SaveDiscoveries(ctx, env.user.ID, syncRequest("001",
			models.PhotoEntry{Photo: encodeTestJPEG(t, 60, 60)})))

		stats, err := svc.GetStats(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, stats.TotalUsers)
		assert.Equal(t, 1, stats.TotalDiscoveries)
		assert.Equal(t, 1, stats.TotalPhotos)
		require.Len(t, stats.Users, 1)
		assert.Equal(t, "alice", stats.Users[0].Username)
		assert.Equal(t, 1, stats.Users[0].PhotosCount)
	})

	t.Run("promote grants admin", func(t *testing.T) {
		env := newTestEnv(t)
		userRepo := repository.NewUserRepository(env.db)
		svc := NewAdminService(userRepo, repository.NewDiscoveryRepository(env.db))

		require.NoError(t, svc.Promote(ctx, env.user.ID))

		user, err := userRepo.GetByID(ctx, env.user.ID)
		require.NoError(t, err)
		assert.True(t, user.IsAdmin)
	})

	t.Run("promote unknown user", func(t *testing.T) {
		env := newTestEnv(t)
		svc := NewAdminService(repository.NewUserRepository(env.db),
			repository.NewDiscoveryRepository(env.db))

		err := svc.Promote(ctx, "no-such-user")
		assert.ErrorIs(t, err, models.ErrUserNotFound)
	})
}

func TestSanitizer(t *testing.T) {
	s := NewSanitizer()

	assert.Equal(t, "plain text", s.Clean("plain text"))
	assert.Equal(t, "plain text", s.Clean("  plain text  "))
	assert.Equal(t, "bold claim", s.Clean("<b>bold</b> claim"))
	assert.Equal(t, "", s.Clean(`<script>alert("x")</script>`))
	assert.Equal(t, "", s.Clean(""))
}
