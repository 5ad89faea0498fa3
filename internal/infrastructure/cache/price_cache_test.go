package cache

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryPriceCache(t *testing.T) {
	ctx := context.Background()

	t.Run("set then get", func(t *testing.T) {
		cache := NewInMemoryPriceCache()
		require.NoError(t, cache.Set(ctx, "Turmeric", decimal.NewFromFloat(187.50), time.Minute))

		price, ok, err := cache.Get(ctx, "Turmeric")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.True(t, price.Equal(decimal.NewFromFloat(187.50)))
	})

	t.Run("missing products are a miss", func(t *testing.T) {
		cache := NewInMemoryPriceCache()
		_, ok, err := cache.Get(ctx, "Saffron")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("entries expire", func(t *testing.T) {
		cache := NewInMemoryPriceCache()
		require.NoError(t, cache.Set(ctx, "Turmeric", decimal.NewFromInt(100), 10*time.Millisecond))

		time.Sleep(20 * time.Millisecond)

		_, ok, err := cache.Get(ctx, "Turmeric")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("invalidate drops the entry", func(t *testing.T) {
		cache := NewInMemoryPriceCache()
		require.NoError(t, cache.Set(ctx, "Turmeric", decimal.NewFromInt(100), time.Minute))
		require.NoError(t, cache.Invalidate(ctx, "Turmeric"))

		_, ok, err := cache.Get(ctx, "Turmeric")
		require.NoError(t, err)
		assert.False(t, ok)
	})
}
