package container

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/samber/do"
	"github.com/serroba/url-shortener/internal/shortener"
	"github.com/serroba/url-shortener/internal/store"
	"go.uber.org/zap"
)

const connectTimeout = 10 * time.Second

// RedisPackage provides the Redis client. It is closed on injector shutdown.
func RedisPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*closer[*redis.Client], error) {
		options := do.MustInvoke[*Options](i)

		client := redis.NewClient(&redis.Options{
			Addr: options.RedisAddr,
		})

		return &closer[*redis.Client]{value: client, close: client.Close}, nil
	})

	do.Provide(injector, func(i *do.Injector) (*redis.Client, error) {
		c, err := do.Invoke[*closer[*redis.Client]](i)
		if err != nil {
			return nil, err
		}

		return c.value, nil
	})
}

// PostgresPackage provides the connection pool, migrating the schema first when enabled.
func PostgresPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*closer[*pgxpool.Pool], error) {
		options := do.MustInvoke[*Options](i)
		logger := do.MustInvoke[*zap.Logger](i)

		if options.Migrate {
			if err := store.Migrate(options.DatabaseURL); err != nil {
				return nil, err
			}

			logger.Info("database migrations applied")
		}

		ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
		defer cancel()

		pool, err := pgxpool.New(ctx, options.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}

		if err := pool.Ping(ctx); err != nil {
			pool.Close()

			return nil, fmt.Errorf("ping postgres: %w", err)
		}

		return &closer[*pgxpool.Pool]{
			value: pool,
			close: func() error {
				pool.Close()

				return nil
			},
		}, nil
	})

	do.Provide(injector, func(i *do.Injector) (*pgxpool.Pool, error) {
		c, err := do.Invoke[*closer[*pgxpool.Pool]](i)
		if err != nil {
			return nil, err
		}

		return c.value, nil
	})
}

// RepositoryPackage provides the redirect cache and the configured shortener.Repository.
func RepositoryPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*store.RedisCache, error) {
		options := do.MustInvoke[*Options](i)

		ttl, err := parseDuration("cache TTL", options.CacheTTL)
		if err != nil {
			return nil, err
		}

		client, err := do.Invoke[*redis.Client](i)
		if err != nil {
			return nil, err
		}

		return store.NewRedisCache(client, ttl), nil
	})

	do.Provide(injector, func(i *do.Injector) (shortener.Repository, error) {
		options := do.MustInvoke[*Options](i)

		switch options.Store {
		case StoreMemory:
			return store.NewMemoryStore(), nil
		case StoreRedis:
			client, err := do.Invoke[*redis.Client](i)
			if err != nil {
				return nil, err
			}

			return store.NewRedisStore(client), nil
		case StorePostgres:
			pool, err := do.Invoke[*pgxpool.Pool](i)
			if err != nil {
				return nil, err
			}

			repo := store.NewPostgresStore(pool)

			ttl, err := parseDuration("cache TTL", options.CacheTTL)
			if err != nil {
				return nil, err
			}

			if ttl == 0 {
				return repo, nil
			}

			cache, err := do.Invoke[*store.RedisCache](i)
			if err != nil {
				return nil, err
			}

			return store.NewCachedRepository(repo, cache), nil
		default:
			return nil, fmt.Errorf("unknown store %q", options.Store)
		}
	})
}
