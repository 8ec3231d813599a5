package services

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/subarna007/fpl-helper/internal/models"
)

// Runs against a real redis when TEST_REDIS_URL is set.
func TestCacheService(t *testing.T) {
	url := os.Getenv("TEST_REDIS_URL")
	if url == "" {
		t.Skip("TEST_REDIS_URL not set")
	}
	ctx := context.Background()
	client, err := NewRedisClient(ctx, url)
	require.NoError(t, err)
	cache := NewCacheService(client, "fpl-helper-test")
	defer cache.Close()

	key := EntryCacheKey(42)
	require.NoError(t, cache.Delete(ctx, key))

	var miss models.EntryInfo
	assert.True(t, errors.Is(cache.Get(ctx, key, &miss), ErrCacheMiss))

	in := models.EntryInfo{ID: 42, Name: "Cached", Bank: 5}
	require.NoError(t, cache.Set(ctx, key, in, time.Minute))

	ok, err := cache.Exists(ctx, key)
	require.NoError(t, err)
	assert.True(t, ok)

	var out models.EntryInfo
	require.NoError(t, cache.Get(ctx, key, &out))
	assert.Equal(t, in, out)

	require.NoError(t, cache.Delete(ctx, key))
	ok, err = cache.Exists(ctx, key)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCacheKeys(t *testing.T) {
	assert.Equal(t, "fpl:/entry/7/", EntryCacheKey(7))
	assert.Equal(t, "fpl:/entry/7/event/3/picks/", PicksCacheKey(7, 3))
	assert.Contains(t, SharedCacheKeys(), "fpl:/bootstrap-static/")
}

func TestNewRedisClientBadURL(t *testing.T) {
	_, err := NewRedisClient(context.Background(), "not-a-url")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid redis url")
}
