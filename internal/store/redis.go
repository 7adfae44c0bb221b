package store

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/serroba/url-shortener/internal/shortener"
)

// saveScript stores a mapping unless its URL hash is already indexed.
// Returns {1, code} when written, {0, existing code} on a dedup hit and
// {-1, ""} when the code is taken.
var saveScript = redis.NewScript(`
local existing = redis.call('HGET', KEYS[2], ARGV[3])
if existing then
	return {0, existing}
end
if redis.call('EXISTS', KEYS[1]) == 1 then
	return {-1, ''}
end
redis.call('HSET', KEYS[1], 'code', ARGV[1], 'original_url', ARGV[2], 'url_hash', ARGV[3], 'created_at', ARGV[4])
redis.call('HSET', KEYS[2], ARGV[3], ARGV[1])
return {1, ARGV[1]}
`)

// RedisStore is a Redis implementation of shortener.Repository.
type RedisStore struct {
	client  *redis.Client
	prefix  string // "url:" for code->mapping (hash keys)
	hashKey string // "url_hashes" for urlHash->code (hash map)
}

// NewRedisStore creates a new Redis-backed URL store.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{
		client:  client,
		prefix:  "url:",
		hashKey: "url_hashes",
	}
}

func (r *RedisStore) Save(ctx context.Context, shortURL *shortener.ShortURL) (*shortener.ShortURL, error) {
	keys := []string{r.prefix + string(shortURL.Code), r.hashKey}

	result, err := saveScript.Run(ctx, r.client, keys,
		string(shortURL.Code),
		shortURL.OriginalURL,
		string(shortURL.URLHash),
		shortURL.CreatedAt.UnixNano(),
	).Slice()
	if err != nil {
		return nil, err
	}

	if len(result) != 2 {
		return nil, fmt.Errorf("unexpected save script reply: %v", result)
	}

	status, _ := result[0].(int64)
	code, _ := result[1].(string)

	switch status {
	case 1:
		stored := *shortURL

		return &stored, nil
	case 0:
		return r.GetByCode(ctx, shortener.Code(code))
	default:
		return nil, shortener.ErrCodeConflict
	}
}

func (r *RedisStore) GetByCode(ctx context.Context, code shortener.Code) (*shortener.ShortURL, error) {
	fields, err := r.client.HGetAll(ctx, r.prefix+string(code)).Result()
	if err != nil {
		return nil, err
	}

	if len(fields) == 0 {
		return nil, shortener.ErrNotFound
	}

	return shortURLFromFields(fields), nil
}

func (r *RedisStore) GetByHash(ctx context.Context, hash shortener.URLHash) (*shortener.ShortURL, error) {
	code, err := r.client.HGet(ctx, r.hashKey, string(hash)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, shortener.ErrNotFound
		}

		return nil, err
	}

	return r.GetByCode(ctx, shortener.Code(code))
}

func shortURLFromFields(fields map[string]string) *shortener.ShortURL {
	var createdAt time.Time

	if ts, ok := fields["created_at"]; ok {
		if nanos, err := strconv.ParseInt(ts, 10, 64); err == nil {
			createdAt = time.Unix(0, nanos).UTC()
		}
	}

	return &shortener.ShortURL{
		Code:        shortener.Code(fields["code"]),
		OriginalURL: fields["original_url"],
		URLHash:     shortener.URLHash(fields["url_hash"]),
		CreatedAt:   createdAt,
	}
}

func shortURLFields(url *shortener.ShortURL) map[string]any {
	return map[string]any{
		"code":         string(url.Code),
		"original_url": url.OriginalURL,
		"url_hash":     string(url.URLHash),
		"created_at":   url.CreatedAt.UnixNano(),
	}
}

var _ shortener.Repository = (*RedisStore)(nil)
