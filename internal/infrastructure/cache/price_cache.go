package cache

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	catalogapp "github.com/spicedepot/backend/internal/application/catalog"
)

const priceCachePrefix = "prices:avg:"

// RedisPriceCache implements the average-price cache over Redis. Prices are
// stored as decimal strings keyed by product name.
type RedisPriceCache struct {
	client    *redis.Client
	keyPrefix string
}

// NewRedisPriceCache creates a Redis-backed price cache over an existing client
func NewRedisPriceCache(client *redis.Client) *RedisPriceCache {
	return &RedisPriceCache{client: client, keyPrefix: priceCachePrefix}
}

// Get returns the cached price for a product name, if present
func (c *RedisPriceCache) Get(ctx context.Context, productName string) (decimal.Decimal, bool, error) {
	value, err := c.client.Get(ctx, c.keyPrefix+productName).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return decimal.Zero, false, nil
		}
		return decimal.Zero, false, err
	}

	price, err := decimal.NewFromString(value)
	if err != nil {
		// Corrupt entry; treat as a miss so it gets overwritten.
		return decimal.Zero, false, nil
	}
	return price, true, nil
}

// Set stores a computed price with a TTL
func (c *RedisPriceCache) Set(ctx context.Context, productName string, price decimal.Decimal, ttl time.Duration) error {
	return c.client.Set(ctx, c.keyPrefix+productName, price.String(), ttl).Err()
}

// Invalidate drops a cached price
func (c *RedisPriceCache) Invalidate(ctx context.Context, productName string) error {
	return c.client.Del(ctx, c.keyPrefix+productName).Err()
}

var _ catalogapp.AveragePriceCache = (*RedisPriceCache)(nil)

type priceEntry struct {
	price     decimal.Decimal
	expiresAt time.Time
}

// InMemoryPriceCache implements the average-price cache with a map, used when
// Redis is disabled or unreachable
type InMemoryPriceCache struct {
	mu      sync.RWMutex
	entries map[string]priceEntry
}

// NewInMemoryPriceCache creates an in-memory price cache
func NewInMemoryPriceCache() *InMemoryPriceCache {
	return &InMemoryPriceCache{entries: make(map[string]priceEntry)}
}

// Get returns the cached price for a product name, if present and unexpired
func (c *InMemoryPriceCache) Get(ctx context.Context, productName string) (decimal.Decimal, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, exists := c.entries[productName]
	if !exists || time.Now().After(e.expiresAt) {
		return decimal.Zero, false, nil
	}
	return e.price, true, nil
}

// Set stores a computed price with a TTL
func (c *InMemoryPriceCache) Set(ctx context.Context, productName string, price decimal.Decimal, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[productName] = priceEntry{price: price, expiresAt: time.Now().Add(ttl)}
	return nil
}

// Invalidate drops a cached price
func (c *InMemoryPriceCache) Invalidate(ctx context.Context, productName string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, productName)
	return nil
}

var _ catalogapp.AveragePriceCache = (*InMemoryPriceCache)(nil)
