//go:build integration

package store_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/serroba/url-shortener/internal/shortener"
	"github.com/serroba/url-shortener/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func getRedisAddr() string {
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		return addr
	}
	return "localhost:6379"
}

func newRedisClient(t *testing.T) *redis.Client {
	t.Helper()

	client := redis.NewClient(&redis.Options{
		Addr: getRedisAddr(),
	})
	t.Cleanup(func() { _ = client.Close() })

	if err := client.Ping(context.Background()).Err(); err != nil {
		t.Skipf("Redis not available: %v", err)
	}

	return client
}

func TestRedisStoreIntegration(t *testing.T) {
	client := newRedisClient(t)
	ctx := context.Background()
	s := store.NewRedisStore(client)

	cleanup := func(urls ...*shortener.ShortURL) {
		for _, url := range urls {
			client.Del(ctx, "url:"+string(url.Code))
			client.HDel(ctx, "url_hashes", string(url.URLHash))
		}
	}

	t.Run("save and get url", func(t *testing.T) {
		shortURL := newShortURL("testcode123", "https://example.com/redis1")
		shortURL.CreatedAt = time.Now().UTC()
		defer cleanup(shortURL)

		_, err := s.Save(ctx, shortURL)
		require.NoError(t, err)

		got, err := s.GetByCode(ctx, shortURL.Code)
		require.NoError(t, err)
		assert.Equal(t, shortURL.OriginalURL, got.OriginalURL)
		assert.True(t, shortURL.CreatedAt.Equal(got.CreatedAt))

		byHash, err := s.GetByHash(ctx, shortURL.URLHash)
		require.NoError(t, err)
		assert.Equal(t, shortURL.Code, byHash.Code)
	})

	t.Run("save returns existing mapping for a known url", func(t *testing.T) {
		first := newShortURL("dedup1", "https://example.com/redis-dedup")
		second := newShortURL("dedup2", "https://example.com/redis-dedup")
		defer cleanup(first, second)

		_, err := s.Save(ctx, first)
		require.NoError(t, err)

		stored, err := s.Save(ctx, second)
		require.NoError(t, err)
		assert.Equal(t, first.Code, stored.Code)
	})

	t.Run("save rejects a taken code", func(t *testing.T) {
		first := newShortURL("conflict1", "https://old.com")
		second := newShortURL("conflict1", "https://new.com")
		defer cleanup(first, second)

		_, err := s.Save(ctx, first)
		require.NoError(t, err)

		_, err = s.Save(ctx, second)
		assert.ErrorIs(t, err, shortener.ErrCodeConflict)

		got, _ := s.GetByCode(ctx, "conflict1")
		assert.Equal(t, "https://old.com", got.OriginalURL)
	})

	t.Run("get non-existent returns ErrNotFound", func(t *testing.T) {
		url, err := s.GetByCode(ctx, "nonexistent")

		assert.Nil(t, url)
		assert.ErrorIs(t, err, shortener.ErrNotFound)
	})
}

func TestCachedRepositoryIntegration(t *testing.T) {
	client := newRedisClient(t)
	ctx := context.Background()
	cache := store.NewRedisCache(client, time.Minute)

	t.Run("reads through and populates the cache", func(t *testing.T) {
		backing := store.NewMemoryStore()
		repo := store.NewCachedRepository(backing, cache)
		shortURL := newShortURL("cachecode1", "https://example.com/cached")
		defer client.Del(ctx, "cache:url:cachecode1", "cache:url_hash:"+string(shortURL.URLHash))

		_, err := repo.Save(ctx, shortURL)
		require.NoError(t, err)

		_, err = cache.Get(ctx, shortURL.Code)
		assert.ErrorIs(t, err, shortener.ErrNotFound, "writes do not touch the cache")

		got, err := repo.GetByCode(ctx, shortURL.Code)
		require.NoError(t, err)
		assert.Equal(t, shortURL.OriginalURL, got.OriginalURL)

		cached, err := cache.Get(ctx, shortURL.Code)
		require.NoError(t, err)
		assert.Equal(t, shortURL.OriginalURL, cached.OriginalURL)
	})

	t.Run("serves warmed entries without the backing store", func(t *testing.T) {
		repo := store.NewCachedRepository(store.NewMemoryStore(), cache)
		shortURL := newShortURL("warmcode1", "https://example.com/warm")
		defer client.Del(ctx, "cache:url:warmcode1", "cache:url_hash:"+string(shortURL.URLHash))

		require.NoError(t, cache.Warm(ctx, shortURL))

		got, err := repo.GetByCode(ctx, shortURL.Code)
		require.NoError(t, err)
		assert.Equal(t, shortURL.OriginalURL, got.OriginalURL)

		byHash, err := repo.GetByHash(ctx, shortURL.URLHash)
		require.NoError(t, err)
		assert.Equal(t, shortURL.Code, byHash.Code)
	})

	t.Run("warm applies ttl", func(t *testing.T) {
		shortURL := newShortURL("ttlcode1", "https://example.com/ttl")
		indexKey := "cache:url_hash:" + string(shortURL.URLHash)
		defer client.Del(ctx, "cache:url:ttlcode1", indexKey)

		require.NoError(t, cache.Warm(ctx, shortURL))

		ttl, err := client.TTL(ctx, "cache:url:ttlcode1").Result()
		require.NoError(t, err)
		assert.Greater(t, ttl, time.Duration(0))
		assert.LessOrEqual(t, ttl, time.Minute)

		indexTTL, err := client.TTL(ctx, indexKey).Result()
		require.NoError(t, err)
		assert.Greater(t, indexTTL, time.Duration(0))
		assert.LessOrEqual(t, indexTTL, time.Minute)
	})

	t.Run("hash index expires with the mapping", func(t *testing.T) {
		shortLived := store.NewRedisCache(client, 50*time.Millisecond)
		shortURL := newShortURL("ttlcode2", "https://example.com/ttl2")
		defer client.Del(ctx, "cache:url:ttlcode2", "cache:url_hash:"+string(shortURL.URLHash))

		require.NoError(t, shortLived.Warm(ctx, shortURL))

		_, err := shortLived.GetByHash(ctx, shortURL.URLHash)
		require.NoError(t, err)

		time.Sleep(200 * time.Millisecond)

		_, err = shortLived.GetByHash(ctx, shortURL.URLHash)
		assert.ErrorIs(t, err, shortener.ErrNotFound)

		_, err = shortLived.Get(ctx, shortURL.Code)
		assert.ErrorIs(t, err, shortener.ErrNotFound)
	})
}
