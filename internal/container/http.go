package container

import (
	"net"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	_ "github.com/danielgtaylor/huma/v2/formats/cbor" // CBOR format support for huma
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jaevor/go-nanoid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/samber/do"
	"github.com/serroba/url-shortener/internal/cachewarm"
	"github.com/serroba/url-shortener/internal/handlers"
	"github.com/serroba/url-shortener/internal/health"
	"github.com/serroba/url-shortener/internal/messaging"
	"github.com/serroba/url-shortener/internal/metrics"
	"github.com/serroba/url-shortener/internal/middleware"
	"github.com/serroba/url-shortener/internal/shortener"
	"github.com/serroba/url-shortener/internal/store"
	"go.uber.org/zap"
)

// MetricsPackage provides the Prometheus registry and the service collectors.
func MetricsPackage(injector *do.Injector) {
	do.Provide(injector, func(_ *do.Injector) (*prometheus.Registry, error) {
		reg := prometheus.NewRegistry()
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)

		return reg, nil
	})

	do.Provide(injector, func(i *do.Injector) (*metrics.Metrics, error) {
		return metrics.New(do.MustInvoke[*prometheus.Registry](i)), nil
	})
}

// RegistryPackage provides the URL registry.
func RegistryPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*shortener.Registry, error) {
		options := do.MustInvoke[*Options](i)
		logger := do.MustInvoke[*zap.Logger](i)

		repo, err := do.Invoke[shortener.Repository](i)
		if err != nil {
			return nil, err
		}

		generator, err := nanoid.Standard(options.CodeLength)
		if err != nil {
			return nil, err
		}

		timeout, err := parseDuration("lookup timeout", options.LookupTimeout)
		if err != nil {
			return nil, err
		}

		var opts []shortener.Option

		events, err := options.publishesEvents()
		if err != nil {
			return nil, err
		}

		if options.Events && !events {
			logger.Info("mapping events disabled, no redirect cache is read",
				zap.String("store", options.Store),
				zap.String("cacheTtl", options.CacheTTL),
			)
		}

		if events {
			publish, err := do.Invoke[messaging.Publish[cachewarm.MappingCreatedEvent]](i)
			if err != nil {
				return nil, err
			}

			opts = append(opts, shortener.WithCreatedHook(cachewarm.NewCreatedHook(publish, logger)))
		}

		validator := shortener.NewURLValidator(net.DefaultResolver, timeout)

		return shortener.NewRegistry(repo, validator, generator, opts...), nil
	})
}

// HTTPPackage provides the router and the huma API with all routes registered.
func HTTPPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*chi.Mux, error) {
		reg := do.MustInvoke[*prometheus.Registry](i)
		logger := do.MustInvoke[*zap.Logger](i)

		router := chi.NewMux()
		router.Use(chimiddleware.RequestID)
		router.Use(chimiddleware.Recoverer)
		router.Use(cors.Handler(cors.Options{
			AllowedOrigins: []string{"*"},
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowedHeaders: []string{"*"},
		}))
		router.Use(handlers.CreateBodyGuard(logger))

		router.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

		return router, nil
	})

	do.Provide(injector, func(i *do.Injector) (huma.API, error) {
		router := do.MustInvoke[*chi.Mux](i)
		logger := do.MustInvoke[*zap.Logger](i)
		m := do.MustInvoke[*metrics.Metrics](i)

		registry, err := do.Invoke[*shortener.Registry](i)
		if err != nil {
			return nil, err
		}

		checkers, err := healthCheckers(i)
		if err != nil {
			return nil, err
		}

		api := humachi.New(router, handlers.APIConfig())
		api.UseMiddleware(middleware.AccessLog(logger), middleware.Metrics(m))

		handlers.RegisterRoutes(api, handlers.NewURLHandler(registry, m, logger))
		health.RegisterRoutes(api, health.NewHandler(checkers))

		return api, nil
	})
}

// healthCheckers returns a checker for every backend the configured options use.
func healthCheckers(i *do.Injector) (map[string]health.Checker, error) {
	options := do.MustInvoke[*Options](i)
	checkers := map[string]health.Checker{}

	if options.Store == StorePostgres {
		pool, err := do.Invoke[*pgxpool.Pool](i)
		if err != nil {
			return nil, err
		}

		checkers["postgres"] = store.NewPostgresStore(pool)
	}

	cached, err := options.readsCache()
	if err != nil {
		return nil, err
	}

	if options.Store == StoreRedis || cached {
		client, err := do.Invoke[*redis.Client](i)
		if err != nil {
			return nil, err
		}

		checkers["redis"] = health.NewRedisChecker(client)
	}

	return checkers, nil
}
