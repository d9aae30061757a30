package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ornithedex/server/internal/models"
)

func TestViewCache(t *testing.T) {
	t.Run("set and get", func(t *testing.T) {
		cache := NewViewCache()
		cache.Set(models.ViewFull, "user-1", "projection", time.Minute)

		value, ok := cache.Get(models.ViewFull, "user-1")
		require.True(t, ok)
		assert.Equal(t, "projection", value)
	})

	t.Run("miss on unknown key", func(t *testing.T) {
		cache := NewViewCache()

		_, ok := cache.Get(models.ViewFull, "nobody")
		assert.False(t, ok)
	})

	t.Run("entries are scoped per view and user", func(t *testing.T) {
		cache := NewViewCache()
		cache.Set(models.ViewFull, "user-1", "full", time.Minute)
		cache.Set(models.ViewMetadata, "user-1", "meta", time.Minute)
		cache.Set(models.ViewFull, "user-2", "other", time.Minute)

		value, ok := cache.Get(models.ViewFull, "user-1")
		require.True(t, ok)
		assert.Equal(t, "full", value)

		value, ok = cache.Get(models.ViewMetadata, "user-1")
		require.True(t, ok)
		assert.Equal(t, "meta", value)

		value, ok = cache.Get(models.ViewFull, "user-2")
		require.True(t, ok)
		assert.Equal(t, "other", value)
	})

	t.Run("expired entries miss", func(t *testing.T) {
		cache := NewViewCache()
		cache.Set(models.ViewLight, "user-1", "stale", -time.Second)

		_, ok := cache.Get(models.ViewLight, "user-1")
		assert.False(t, ok)
	})

	t.Run("invalidate clears every view for the user only", func(t *testing.T) {
		cache := NewViewCache()
		cache.Set(models.ViewFull, "user-1", "a", time.Minute)
		cache.Set(models.ViewMetadata, "user-1", "b", time.Minute)
		cache.Set(models.ViewLight, "user-1", "c", time.Minute)
		cache.Set(models.ViewFull, "user-2", "keep", time.Minute)

		cache.Invalidate("user-1")

		_, ok := cache.Get(models.ViewFull, "user-1")
		assert.False(t, ok)
		_, ok = cache.Get(models.ViewMetadata, "user-1")
		assert.False(t, ok)
		_, ok = cache.Get(models.ViewLight, "user-1")
		assert.False(t, ok)

		value, ok := cache.Get(models.ViewFull, "user-2")
		require.True(t, ok)
		assert.Equal(t, "keep", value)
	})

	t.Run("size counts stored entries", func(t *testing.T) {
		cache := NewViewCache()
		assert.Equal(t, 0, cache.Size())

		cache.Set(models.ViewFull, "user-1", "a", time.Minute)
		cache.Set(models.ViewLight, "user-1", "b", time.Minute)
		assert.Equal(t, 2, cache.Size())
	})
}
