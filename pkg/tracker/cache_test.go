package tracker_test

import (
	"context"
	"testing"
	"time"

	"github.com/JonFir/multitool/pkg/tracker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryCache_SetAndGet(t *testing.T) {
	t.Parallel()

	cache := tracker.NewMemoryCache(10)
	ctx := context.Background()

	entry := &tracker.CacheEntry{
		Data:      []byte("test data"),
		ExpiresAt: time.Now().Add(1 * time.Hour),
		ETag:      "abc123",
	}

	err := cache.Set(ctx, "key1", entry)
	require.NoError(t, err)

	retrieved, err := cache.Get(ctx, "key1")
	require.NoError(t, err)
	assert.Equal(t, entry.Data, retrieved.Data)
	assert.Equal(t, entry.ETag, retrieved.ETag)
}

func TestMemoryCache_GetNonExistent(t *testing.T) {
	t.Parallel()

	cache := tracker.NewMemoryCache(10)

	_, err := cache.Get(context.Background(), "nonexistent")
	require.ErrorIs(t, err, tracker.ErrCacheKeyNotFound)
}

func TestMemoryCache_GetExpired(t *testing.T) {
	t.Parallel()

	cache := tracker.NewMemoryCache(10)
	ctx := context.Background()

	entry := &tracker.CacheEntry{
		Data:      []byte("test data"),
		ExpiresAt: time.Now().Add(-1 * time.Hour), // Already expired
	}

	err := cache.Set(ctx, "key1", entry)
	require.NoError(t, err)

	_, err = cache.Get(ctx, "key1")
	require.ErrorIs(t, err, tracker.ErrCacheEntryExpired)
}

func TestMemoryCache_Delete(t *testing.T) {
	t.Parallel()

	cache := tracker.NewMemoryCache(10)
	ctx := context.Background()

	entry := &tracker.CacheEntry{
		Data:      []byte("test data"),
		ExpiresAt: time.Now().Add(1 * time.Hour),
	}

	err := cache.Set(ctx, "key1", entry)
	require.NoError(t, err)
	assert.True(t, cache.Has(ctx, "key1"))

	err = cache.Delete(ctx, "key1")
	require.NoError(t, err)

	assert.False(t, cache.Has(ctx, "key1"))
}

func TestMemoryCache_Clear(t *testing.T) {
	t.Parallel()

	cache := tracker.NewMemoryCache(10)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		entry := &tracker.CacheEntry{
			Data:      []byte("test data"),
			ExpiresAt: time.Now().Add(1 * time.Hour),
		}
		_ = cache.Set(ctx, string(rune('a'+i)), entry)
	}

	assert.True(t, cache.Has(ctx, "a"))
	assert.True(t, cache.Has(ctx, "b"))
	assert.True(t, cache.Has(ctx, "c"))

	err := cache.Clear(ctx)
	require.NoError(t, err)

	assert.False(t, cache.Has(ctx, "a"))
	assert.False(t, cache.Has(ctx, "b"))
	assert.False(t, cache.Has(ctx, "c"))
}

func TestMemoryCache_MaxSize(t *testing.T) {
	t.Parallel()

	cache := tracker.NewMemoryCache(2)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		entry := &tracker.CacheEntry{
			Data:      []byte("test data"),
			ExpiresAt: time.Now().Add(time.Duration(i+1) * time.Hour),
		}
		_ = cache.Set(ctx, string(rune('a'+i)), entry)
	}

	// The entry closest to expiry is evicted.
	has := 0

	for i := 0; i < 3; i++ {
		if cache.Has(ctx, string(rune('a'+i))) {
			has++
		}
	}

	assert.Equal(t, 2, has)
	assert.False(t, cache.Has(ctx, "a"))
}

func TestMemoryCache_Cleanup(t *testing.T) {
	t.Parallel()

	cache := tracker.NewMemoryCache(10)
	ctx := context.Background()

	expiredEntry := &tracker.CacheEntry{
		Data:      []byte("expired"),
		ExpiresAt: time.Now().Add(-1 * time.Hour),
	}
	validEntry := &tracker.CacheEntry{
		Data:      []byte("valid"),
		ExpiresAt: time.Now().Add(1 * time.Hour),
	}

	_ = cache.Set(ctx, "expired", expiredEntry)
	_ = cache.Set(ctx, "valid", validEntry)

	cache.Cleanup()

	assert.True(t, cache.Has(ctx, "valid"))
	assert.False(t, cache.Has(ctx, "expired"))
}

func TestNoOpCache(t *testing.T) {
	t.Parallel()

	cache := tracker.NewNoOpCache()
	ctx := context.Background()

	err := cache.Set(ctx, "key", &tracker.CacheEntry{Data: []byte("x")})
	require.NoError(t, err)

	_, err = cache.Get(ctx, "key")
	require.ErrorIs(t, err, tracker.ErrCacheDisabled)
	assert.False(t, cache.Has(ctx, "key"))
}

func TestNewCacheFromConfig(t *testing.T) {
	t.Parallel()

	t.Run("defaults to memory", func(t *testing.T) {
		t.Parallel()

		cache, err := tracker.NewCacheFromConfig(nil)
		require.NoError(t, err)
		assert.IsType(t, &tracker.MemoryCache{}, cache)
	})

	t.Run("none disables caching", func(t *testing.T) {
		t.Parallel()

		cache, err := tracker.NewCacheFromConfig(&tracker.CacheConfig{Type: tracker.CacheTypeNone})
		require.NoError(t, err)
		assert.IsType(t, &tracker.NoOpCache{}, cache)
	})

	t.Run("nats requires configuration", func(t *testing.T) {
		t.Parallel()

		_, err := tracker.NewCacheFromConfig(&tracker.CacheConfig{Type: tracker.CacheTypeNATS})
		require.ErrorIs(t, err, tracker.ErrNATSConfigRequired)
	})

	t.Run("unknown type rejected", func(t *testing.T) {
		t.Parallel()

		_, err := tracker.NewCacheFromConfig(&tracker.CacheConfig{Type: "redis"})
		require.ErrorIs(t, err, tracker.ErrUnsupportedCacheType)
	})
}

func TestResponseCache(t *testing.T) {
	t.Parallel()

	backing := tracker.NewMemoryCache(10)
	cache := tracker.NewResponseCache(backing)
	ctx := context.Background()

	_, ok := cache.Get(ctx, "issues/TEST-1")
	assert.False(t, ok)

	cache.Set(ctx, "issues/TEST-1", []byte(`{"key":"TEST-1"}`), time.Minute)

	body, ok := cache.Get(ctx, "issues/TEST-1")
	require.True(t, ok)
	assert.Equal(t, []byte(`{"key":"TEST-1"}`), body)
}
