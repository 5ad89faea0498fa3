package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryIdempotencyStore(t *testing.T) {
	ctx := context.Background()

	t.Run("marks a key once", func(t *testing.T) {
		store := NewInMemoryIdempotencyStore()
		defer store.Close()

		marked, err := store.MarkProcessed(ctx, "bill:CB-20260901-001", time.Minute)
		require.NoError(t, err)
		assert.True(t, marked)

		marked, err = store.MarkProcessed(ctx, "bill:CB-20260901-001", time.Minute)
		require.NoError(t, err)
		assert.False(t, marked, "resubmission must not mark again")

		processed, err := store.IsProcessed(ctx, "bill:CB-20260901-001")
		require.NoError(t, err)
		assert.True(t, processed)
	})

	t.Run("unmarked keys are not processed", func(t *testing.T) {
		store := NewInMemoryIdempotencyStore()
		defer store.Close()

		processed, err := store.IsProcessed(ctx, "bill:CB-20260901-999")
		require.NoError(t, err)
		assert.False(t, processed)
	})

	t.Run("expired keys are accepted again", func(t *testing.T) {
		store := NewInMemoryIdempotencyStore()
		defer store.Close()

		marked, err := store.MarkProcessed(ctx, "bill:CB-1", 10*time.Millisecond)
		require.NoError(t, err)
		require.True(t, marked)

		time.Sleep(20 * time.Millisecond)

		processed, err := store.IsProcessed(ctx, "bill:CB-1")
		require.NoError(t, err)
		assert.False(t, processed)

		marked, err = store.MarkProcessed(ctx, "bill:CB-1", time.Minute)
		require.NoError(t, err)
		assert.True(t, marked)
	})

	t.Run("cleanup drops expired entries", func(t *testing.T) {
		store := NewInMemoryIdempotencyStore()
		defer store.Close()

		_, err := store.MarkProcessed(ctx, "bill:CB-1", 10*time.Millisecond)
		require.NoError(t, err)
		_, err = store.MarkProcessed(ctx, "bill:CB-2", time.Minute)
		require.NoError(t, err)
		require.Equal(t, 2, store.Size())

		time.Sleep(20 * time.Millisecond)
		store.cleanup()
		assert.Equal(t, 1, store.Size())
	})

	t.Run("close is idempotent", func(t *testing.T) {
		store := NewInMemoryIdempotencyStore()
		require.NoError(t, store.Close())
		require.NoError(t, store.Close())
	})
}
