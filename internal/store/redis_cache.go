package store

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/serroba/url-shortener/internal/shortener"
)

// RedisCache keeps copies of mappings in Redis for fast redirects.
type RedisCache struct {
	client     *redis.Client
	prefix     string // "cache:url:<code>" mapping hashes
	hashPrefix string // "cache:url_hash:<hash>" -> code
	ttl        time.Duration
}

// NewRedisCache creates a cache whose entries expire after ttl. A zero ttl never expires.
func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{
		client:     client,
		prefix:     "cache:url:",
		hashPrefix: "cache:url_hash:",
		ttl:        ttl,
	}
}

// Get returns the cached mapping for code, or shortener.ErrNotFound on a miss.
func (c *RedisCache) Get(ctx context.Context, code shortener.Code) (*shortener.ShortURL, error) {
	fields, err := c.client.HGetAll(ctx, c.prefix+string(code)).Result()
	if err != nil {
		return nil, err
	}

	if len(fields) == 0 {
		return nil, shortener.ErrNotFound
	}

	return shortURLFromFields(fields), nil
}

// GetByHash returns the cached mapping for a URL hash, or shortener.ErrNotFound on a miss.
func (c *RedisCache) GetByHash(ctx context.Context, hash shortener.URLHash) (*shortener.ShortURL, error) {
	code, err := c.client.Get(ctx, c.hashPrefix+string(hash)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, shortener.ErrNotFound
		}

		return nil, err
	}

	return c.Get(ctx, shortener.Code(code))
}

// Warm stores url in the cache. Both the mapping and its hash index expire after the TTL.
func (c *RedisCache) Warm(ctx context.Context, url *shortener.ShortURL) error {
	pipe := c.client.Pipeline()
	key := c.prefix + string(url.Code)

	pipe.HSet(ctx, key, shortURLFields(url))

	if c.ttl > 0 {
		pipe.PExpire(ctx, key, c.ttl)
	}

	pipe.Set(ctx, c.hashPrefix+string(url.URLHash), string(url.Code), c.ttl)

	_, err := pipe.Exec(ctx)

	return err
}

// CachedRepository wraps a Repository with a Redis read-through cache.
// Writes go to the underlying store only; new mappings reach the cache on their
// first read or through Warm.
type CachedRepository struct {
	store shortener.Repository
	cache *RedisCache
}

// NewCachedRepository creates a new Redis-cached repository decorator.
func NewCachedRepository(store shortener.Repository, cache *RedisCache) *CachedRepository {
	return &CachedRepository{store: store, cache: cache}
}

func (r *CachedRepository) Save(ctx context.Context, shortURL *shortener.ShortURL) (*shortener.ShortURL, error) {
	return r.store.Save(ctx, shortURL)
}

// GetByCode retrieves a short URL by its code, checking cache first.
func (r *CachedRepository) GetByCode(ctx context.Context, code shortener.Code) (*shortener.ShortURL, error) {
	if url, err := r.cache.Get(ctx, code); err == nil {
		return url, nil
	}

	url, err := r.store.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}

	_ = r.cache.Warm(ctx, url)

	return url, nil
}

// GetByHash retrieves a short URL by its hash, checking cache first.
func (r *CachedRepository) GetByHash(ctx context.Context, hash shortener.URLHash) (*shortener.ShortURL, error) {
	if url, err := r.cache.GetByHash(ctx, hash); err == nil {
		return url, nil
	}

	url, err := r.store.GetByHash(ctx, hash)
	if err != nil {
		return nil, err
	}

	_ = r.cache.Warm(ctx, url)

	return url, nil
}

var _ shortener.Repository = (*CachedRepository)(nil)
