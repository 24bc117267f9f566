package di

import (
	"fmt"

	"StockSight/internal/domain/repository"
	"StockSight/internal/handler/api"
	"StockSight/internal/service/predictor"
	"StockSight/internal/usecase"
	pkgcache "StockSight/pkg/cache"
	"StockSight/pkg/config"
	"StockSight/pkg/logger"
	"StockSight/pkg/metrics"
	"StockSight/pkg/server"
)

// ProvideLogger creates the application logger.
func ProvideLogger(cfg *config.Config) (*logger.Logger, error) {
	lc := &logger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	}
	if lc.Level == "" {
		lc.Level = "info"
	}
	if lc.Format == "" {
		lc.Format = "console"
	}
	if lc.Output == "" {
		lc.Output = "stdout"
	}
	l, err := logger.New(lc)
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	return l, nil
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() repository.Metrics {
	return metrics.New()
}

// ProvideRedisCache creates the Redis layer, or nil when disabled.
func ProvideRedisCache(cfg *config.Config) (*pkgcache.RedisCache, error) {
	if !cfg.Cache.Redis.Enabled {
		return nil, nil
	}
	rc, err := pkgcache.NewRedisCache(
		pkgcache.WithRedisHost(cfg.Cache.Redis.Host),
		pkgcache.WithRedisPort(cfg.Cache.Redis.Port),
		pkgcache.WithRedisPassword(cfg.Cache.Redis.Password),
		pkgcache.WithRedisDB(cfg.Cache.Redis.DB),
		pkgcache.WithRedisPrefix(cfg.Cache.Redis.Prefix),
	)
	if err != nil {
		return nil, fmt.Errorf("redis cache: %w", err)
	}
	return rc, nil
}

// ProvideCacheService builds the raw-response cache: layered memory+Redis
// when Redis is enabled, memory-only otherwise.
func ProvideCacheService(redisCache *pkgcache.RedisCache, cfg *config.Config) pkgcache.Service {
	maxSize := cfg.Cache.MemoryMaxSize
	if maxSize <= 0 {
		maxSize = 1000
	}
	if redisCache != nil {
		return pkgcache.NewLayeredCache(redisCache, pkgcache.WithLayeredMemorySize(maxSize))
	}
	return pkgcache.NewMemoryCache(pkgcache.WithMemoryMaxSize(maxSize))
}

// ProvidePredictionSource creates the model service client.
func ProvidePredictionSource(cfg *config.Config) repository.PredictionSource {
	return predictor.New(cfg.Predictor.BaseURL, cfg.Predictor.Timeout)
}

// ProvideForecastProvider creates the fetch-transform pipeline.
func ProvideForecastProvider(
	source repository.PredictionSource,
	cache pkgcache.Service,
	m repository.Metrics,
	l *logger.Logger,
	cfg *config.Config,
) *usecase.ForecastProvider {
	return usecase.NewForecastProvider(source, cache, m, l,
		usecase.WithCacheTTL(cfg.Predictor.CacheTTL),
	)
}

// ProvideForecastHandler creates the HTTP handler.
func ProvideForecastHandler(l *logger.Logger, provider *usecase.ForecastProvider, cfg *config.Config) *api.ForecastHandler {
	opts := []api.HandlerOption{}
	if cfg.RateLimit.Enabled {
		opts = append(opts, api.WithRateLimit(cfg.RateLimit.Capacity, cfg.RateLimit.RefillPerSec))
	}
	return api.NewForecastHandler(l, provider, cfg.Predictor.Symbols, opts...)
}

// ProvideApp creates the application server.
func ProvideApp(
	cfg *config.Config,
	l *logger.Logger,
	handler *api.ForecastHandler,
	redisCache *pkgcache.RedisCache,
) *server.App {
	return server.New(cfg, l, handler, redisCache)
}
