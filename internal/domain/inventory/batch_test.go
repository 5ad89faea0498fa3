package inventory

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spicedepot/backend/internal/domain/shared/valueobject"
)

func TestNewInventoryBatch(t *testing.T) {
	productID := uuid.New()

	t.Run("creates active batch with valid inputs", func(t *testing.T) {
		b, err := NewInventoryBatch(productID, "B-001", decimal.NewFromInt(10), valueobject.UnitKG, decimal.NewFromInt(500), nil)
		require.NoError(t, err)
		assert.Equal(t, BatchStatusActive, b.Status)
		assert.True(t, b.IsEligible())
		assert.False(t, b.IsExpired())
	})

	t.Run("rejects empty batch number", func(t *testing.T) {
		_, err := NewInventoryBatch(productID, "", decimal.NewFromInt(10), valueobject.UnitKG, decimal.NewFromInt(500), nil)
		assert.Error(t, err)
	})

	t.Run("rejects non-positive quantity", func(t *testing.T) {
		_, err := NewInventoryBatch(productID, "B-001", decimal.Zero, valueobject.UnitKG, decimal.NewFromInt(500), nil)
		assert.Error(t, err)
	})

	t.Run("rejects unknown unit", func(t *testing.T) {
		_, err := NewInventoryBatch(productID, "B-001", decimal.NewFromInt(10), valueobject.Unit("stone"), decimal.NewFromInt(500), nil)
		assert.Error(t, err)
	})
}

func TestBatchEligibility(t *testing.T) {
	productID := uuid.New()

	t.Run("expired batch stays eligible", func(t *testing.T) {
		past := time.Now().AddDate(0, -1, 0)
		b, err := NewInventoryBatch(productID, "B-001", decimal.NewFromInt(5), valueobject.UnitKG, decimal.NewFromInt(100), &past)
		require.NoError(t, err)
		assert.True(t, b.IsExpired())
		assert.True(t, b.IsEligible())
	})

	t.Run("inactive batch is not eligible", func(t *testing.T) {
		b, err := NewInventoryBatch(productID, "B-002", decimal.NewFromInt(5), valueobject.UnitKG, decimal.NewFromInt(100), nil)
		require.NoError(t, err)
		b.Deactivate()
		assert.False(t, b.IsEligible())
	})
}

func TestBatchDeduct(t *testing.T) {
	productID := uuid.New()

	t.Run("deducts requested quantity", func(t *testing.T) {
		b, err := NewInventoryBatch(productID, "B-001", decimal.NewFromInt(10), valueobject.UnitKG, decimal.NewFromInt(100), nil)
		require.NoError(t, err)

		deducted, err := b.Deduct(decimal.NewFromInt(4))
		require.NoError(t, err)
		assert.True(t, deducted.Equal(decimal.NewFromInt(4)))
		assert.True(t, b.Quantity.Equal(decimal.NewFromInt(6)))
	})

	t.Run("clamps to available stock", func(t *testing.T) {
		b, err := NewInventoryBatch(productID, "B-001", decimal.NewFromInt(3), valueobject.UnitKG, decimal.NewFromInt(100), nil)
		require.NoError(t, err)

		deducted, err := b.Deduct(decimal.NewFromInt(10))
		require.NoError(t, err)
		assert.True(t, deducted.Equal(decimal.NewFromInt(3)))
		assert.True(t, b.Quantity.IsZero())
	})

	t.Run("drained batch becomes depleted", func(t *testing.T) {
		b, err := NewInventoryBatch(productID, "B-001", decimal.NewFromInt(2), valueobject.UnitKG, decimal.NewFromInt(100), nil)
		require.NoError(t, err)

		_, err = b.Deduct(decimal.NewFromInt(2))
		require.NoError(t, err)
		assert.Equal(t, BatchStatusDepleted, b.Status)
		assert.False(t, b.IsEligible())
	})

	t.Run("rejects non-positive deduction", func(t *testing.T) {
		b, err := NewInventoryBatch(productID, "B-001", decimal.NewFromInt(2), valueobject.UnitKG, decimal.NewFromInt(100), nil)
		require.NoError(t, err)

		_, err = b.Deduct(decimal.Zero)
		assert.Error(t, err)
	})
}

func TestBatchAdd(t *testing.T) {
	productID := uuid.New()

	t.Run("depleted batch regaining stock becomes active", func(t *testing.T) {
		b, err := NewInventoryBatch(productID, "B-001", decimal.NewFromInt(1), valueobject.UnitKG, decimal.NewFromInt(100), nil)
		require.NoError(t, err)

		_, err = b.Deduct(decimal.NewFromInt(1))
		require.NoError(t, err)
		require.Equal(t, BatchStatusDepleted, b.Status)

		require.NoError(t, b.Add(decimal.NewFromInt(5)))
		assert.Equal(t, BatchStatusActive, b.Status)
		assert.True(t, b.Quantity.Equal(decimal.NewFromInt(5)))
	})
}

func TestBatchAdjust(t *testing.T) {
	productID := uuid.New()

	t.Run("addition applies in full", func(t *testing.T) {
		b, err := NewInventoryBatch(productID, "B-001", decimal.NewFromInt(2), valueobject.UnitKG, decimal.NewFromInt(100), nil)
		require.NoError(t, err)

		applied, err := b.Adjust(decimal.NewFromInt(3), true)
		require.NoError(t, err)
		assert.True(t, applied.Equal(decimal.NewFromInt(3)))
		assert.True(t, b.Quantity.Equal(decimal.NewFromInt(5)))
	})

	t.Run("deduction clamps like Deduct", func(t *testing.T) {
		b, err := NewInventoryBatch(productID, "B-001", decimal.NewFromInt(2), valueobject.UnitKG, decimal.NewFromInt(100), nil)
		require.NoError(t, err)

		applied, err := b.Adjust(decimal.NewFromInt(9), false)
		require.NoError(t, err)
		assert.True(t, applied.Equal(decimal.NewFromInt(2)))
	})
}

func TestBatchTotalValue(t *testing.T) {
	b, err := NewInventoryBatch(uuid.New(), "B-001", decimal.NewFromFloat(2.5), valueobject.UnitKG, decimal.NewFromInt(400), nil)
	require.NoError(t, err)
	assert.True(t, b.TotalValue().Equal(decimal.NewFromInt(1000)))
}
