package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ornithedex/server/internal/models"
)

func TestDiscoveryServiceProjections(t *testing.T) {
	ctx := context.Background()

	seed := func(t *testing.T, env *testEnv) {
		t.Helper()
		require.NoError(t, env.sync.SaveDiscoveries(ctx, env.user.ID, models.SyncRequest{
			"001": {Photos: []models.PhotoEntry{
				{Photo: encodeTestJPEG(t, 50, 50), Date: "2026-05-01",
					Coordinates: models.Coordinates{Lat: 1, Lng: 2, Valid: true}},
				{Photo: encodeTestJPEG(t, 50, 50), Date: "2026-05-02"},
			}},
			"002": {Photos: []models.PhotoEntry{
				{Photo: encodeTestJPEG(t, 50, 50), Date: "2026-06-10"},
			}},
		}))
	}

	t.Run("full projection groups photos by species", func(t *testing.T) {
		env := newTestEnv(t)
		seed(t, env)

		projection, err := env.discovery.GetFull(ctx, env.user.ID)
		require.NoError(t, err)
		require.Len(t, projection, 2)
		assert.Len(t, projection["001"].Photos, 2)
		assert.Len(t, projection["002"].Photos, 1)
		assert.NotEmpty(t, projection["001"].DiscoveredAt)
	})

	t.Run("light projection omits discovery timestamps", func(t *testing.T) {
		env := newTestEnv(t)
		seed(t, env)

		projection, err := env.discovery.GetLight(ctx, env.user.ID)
		require.NoError(t, err)
		require.Len(t, projection, 2)
		assert.Len(t, projection["001"].Photos, 2)
	})

	t.Run("metadata projection counts without payloads", func(t *testing.T) {
		env := newTestEnv(t)
		seed(t, env)

		meta, err := env.discovery.GetMetadata(ctx, env.user.ID)
		require.NoError(t, err)
		assert.Equal(t, 2, meta.DiscoveredCount)
		assert.Equal(t, 3, meta.TotalPhotos)
		assert.Greater(t, meta.TotalSizeMB, 0.0)

		bird := meta.Birds["001"]
		assert.Equal(t, 2, bird.PhotoCount)
		assert.True(t, bird.HasGPS)
		assert.Equal(t, []string{"2026-05-01", "2026-05-02"}, bird.Dates)

		assert.False(t, meta.Birds["002"].HasGPS)
	})

	t.Run("second read is served from cache", func(t *testing.T) {
		env := newTestEnv(t)
		seed(t, env)

		first, err := env.discovery.GetFull(ctx, env.user.ID)
		require.NoError(t, err)

		_, ok := env.cache.Get(models.ViewFull, env.user.ID)
		assert.True(t, ok)

		second, err := env.discovery.GetFull(ctx, env.user.ID)
		require.NoError(t, err)
		assert.Equal(t, first, second)
	})

	t.Run("empty collection", func(t *testing.T) {
		env := newTestEnv(t)

		projection, err := env.discovery.GetFull(ctx, env.user.ID)
		require.NoError(t, err)
		assert.Empty(t, projection)

		meta, err := env.discovery.GetMetadata(ctx, env.user.ID)
		require.NoError(t, err)
		assert.Zero(t, meta.DiscoveredCount)
		assert.Zero(t, meta.TotalPhotos)
	})
}

func TestDiscoveryServiceGallery(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	entries := make([]models.PhotoEntry, 5)
	for i := range entries {
		entries[i] = models.PhotoEntry{Photo: encodeTestJPEG(t, 30, 30)}
	}
	require.NoError(t, env.sync.SaveDiscoveries(ctx, env.user.ID, syncRequest("001", entries...)))

	t.Run("pages are ceiling-divided", func(t *testing.T) {
		page, err := env.discovery.GetGallery(ctx, env.user.ID, 1, 2)
		require.NoError(t, err)
		assert.Equal(t, 5, page.Total)
		assert.Equal(t, 3, page.TotalPages)
		assert.Len(t, page.Photos, 2)
	})

	t.Run("last page is partial", func(t *testing.T) {
		page, err := env.discovery.GetGallery(ctx, env.user.ID, 3, 2)
		require.NoError(t, err)
		assert.Len(t, page.Photos, 1)
	})

	t.Run("page past the end is empty", func(t *testing.T) {
		page, err := env.discovery.GetGallery(ctx, env.user.ID, 9, 2)
		require.NoError(t, err)
		assert.Empty(t, page.Photos)
		assert.Equal(t, 5, page.Total)
	})

	t.Run("defaults replace nonsense input", func(t *testing.T) {
		page, err := env.discovery.GetGallery(ctx, env.user.ID, -1, 0)
		require.NoError(t, err)
		assert.Equal(t, 1, page.Page)
		assert.Equal(t, 12, page.PerPage)
	})
}

func TestRoundMB(t *testing.T) {
	assert.Equal(t, 0.0, RoundMB(0))
	assert.Equal(t, 1.0, RoundMB(1024*1024))
	assert.Equal(t, 2.5, RoundMB(5*1024*1024/2))
	assert.Equal(t, 0.1, RoundMB(104858)) // ~0.1 MB
}
