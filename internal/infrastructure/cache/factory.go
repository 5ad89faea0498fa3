package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	catalogapp "github.com/spicedepot/backend/internal/application/catalog"
	"github.com/spicedepot/backend/internal/domain/shared"
	"github.com/spicedepot/backend/internal/infrastructure/config"
)

// Factory creates the cache-backed components from configuration: the bill
// submission idempotency store and the average-price cache. When Redis is
// disabled or unreachable both fall back to in-memory implementations.
type Factory struct {
	cfg    config.RedisConfig
	logger *zap.Logger
	client *redis.Client
}

// NewFactory creates a cache factory
func NewFactory(cfg config.RedisConfig, logger *zap.Logger) *Factory {
	return &Factory{cfg: cfg, logger: logger}
}

// connect returns a shared Redis client, dialing on first use
func (f *Factory) connect() (*redis.Client, error) {
	if f.client != nil {
		return f.client, nil
	}
	if !f.cfg.Enabled {
		return nil, fmt.Errorf("redis disabled in configuration")
	}

	client := redis.NewClient(&redis.Options{
		Addr:     f.cfg.Addr(),
		Password: f.cfg.Password,
		DB:       f.cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	f.client = client
	return client, nil
}

// IdempotencyStore returns the bill submission idempotency store
func (f *Factory) IdempotencyStore() shared.IdempotencyStore {
	client, err := f.connect()
	if err != nil {
		f.logger.Warn("using in-memory idempotency store; duplicate bills are only caught per instance",
			zap.Error(err))
		return NewInMemoryIdempotencyStore()
	}
	f.logger.Info("using Redis idempotency store")
	return NewRedisIdempotencyStoreWithClient(client, "")
}

// PriceCache returns the average-price cache
func (f *Factory) PriceCache() catalogapp.AveragePriceCache {
	client, err := f.connect()
	if err != nil {
		f.logger.Warn("using in-memory average price cache", zap.Error(err))
		return NewInMemoryPriceCache()
	}
	return NewRedisPriceCache(client)
}

// Close releases the shared Redis client if one was opened
func (f *Factory) Close() error {
	if f.client != nil {
		return f.client.Close()
	}
	return nil
}
